package gdocs

import (
	"sort"
	"strings"

	docs "google.golang.org/api/docs/v1"

	"github.com/dgallion1/onthisday/internal/compose"
)

// styleRequest translates one StyleOp into a Docs batchUpdate request. The
// field mask names exactly the options the op carries; sending an unmasked
// field would reset it on the target range.
func styleRequest(op compose.StyleOp) *docs.Request {
	if op.Paragraph != nil {
		return paragraphRequest(op)
	}
	return textRequest(op)
}

func paragraphRequest(op compose.StyleOp) *docs.Request {
	p := op.Paragraph
	style := &docs.ParagraphStyle{}
	var fields []string

	if p.Named != "" {
		style.NamedStyleType = p.Named
		fields = append(fields, "namedStyleType")
	}
	if p.SpaceAbove != 0 {
		style.SpaceAbove = &docs.Dimension{Magnitude: p.SpaceAbove, Unit: "PT"}
		fields = append(fields, "spaceAbove")
	}
	if p.SpaceBelow != 0 {
		style.SpaceBelow = &docs.Dimension{Magnitude: p.SpaceBelow, Unit: "PT"}
		fields = append(fields, "spaceBelow")
	}
	if p.Alignment != "" {
		style.Alignment = p.Alignment
		fields = append(fields, "alignment")
	}

	return &docs.Request{
		UpdateParagraphStyle: &docs.UpdateParagraphStyleRequest{
			Range:          &docs.Range{StartIndex: op.Start, EndIndex: op.End},
			ParagraphStyle: style,
			Fields:         strings.Join(fields, ","),
		},
	}
}

func textRequest(op compose.StyleOp) *docs.Request {
	t := op.Text
	style := &docs.TextStyle{}
	var fields []string

	if t.Color != nil {
		style.ForegroundColor = &docs.OptionalColor{
			Color: &docs.Color{
				RgbColor: &docs.RgbColor{Red: t.Color.Red, Green: t.Color.Green, Blue: t.Color.Blue},
			},
		}
		fields = append(fields, "foregroundColor")
	}
	if t.Link != "" {
		style.Link = &docs.Link{Url: t.Link}
		fields = append(fields, "link")
	}
	if t.Underline {
		style.Underline = true
		fields = append(fields, "underline")
	}
	if t.Italic {
		style.Italic = true
		fields = append(fields, "italic")
	}
	sort.Strings(fields)

	return &docs.Request{
		UpdateTextStyle: &docs.UpdateTextStyleRequest{
			Range:     &docs.Range{StartIndex: op.Start, EndIndex: op.End},
			TextStyle: style,
			Fields:    strings.Join(fields, ","),
		},
	}
}
