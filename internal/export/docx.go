package export

import (
	"fmt"
	"os"
	"strings"

	"github.com/fumiama/go-docx"

	"github.com/dgallion1/onthisday/internal/compose"
)

// Half-point run sizes for the named paragraph styles.
const (
	sizeTitle    = "52"
	sizeHeading1 = "36"
	sizeHeading2 = "28"
)

// WriteDocx writes the composed plan to a local .docx file. The archive is a
// visual approximation: named styles become sized bold runs, image slots
// become centered links to the source image (the files are remote and not
// downloaded).
func WriteDocx(path string, plan *compose.Plan) error {
	images := make(map[int64]string, len(plan.Images))
	for _, slot := range plan.Images {
		images[slot.Offset] = slot.URL
	}

	w := docx.New().WithDefaultTheme()
	for _, span := range plan.Spans {
		if url, ok := images[span.Start]; ok {
			para := w.AddParagraph()
			para.AddLink("[image]", url)
			para.Justification("center")
			continue
		}

		text := strings.TrimSuffix(span.Text, "\n")
		if text == "" {
			w.AddParagraph() // keep the blank paragraph spacing
			continue
		}

		para := w.AddParagraph()
		style := span.Style
		switch style.Named {
		case compose.StyleTitle:
			para.AddText(text).Size(sizeTitle).Bold()
			para.Justification("center")
		case compose.StyleHeading1:
			para.AddText(text).Size(sizeHeading1).Color(hexColor(style.Color)).Bold()
		case compose.StyleHeading2:
			para.AddText(text).Size(sizeHeading2).Color(hexColor(style.Color)).Bold()
		default:
			if style.Link != "" {
				para.AddLink(text, style.Link)
				break
			}
			run := para.AddText(text)
			if style.Italic {
				run.Italic()
			}
			if style.Alignment == compose.AlignJustified {
				para.Justification("both")
			}
		}
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create docx: %w", err)
	}
	defer f.Close()
	if _, err := w.WriteTo(f); err != nil {
		return fmt.Errorf("write docx: %w", err)
	}
	return nil
}

// hexColor renders an RGB as the RRGGBB form docx runs expect. Black when no
// color was set.
func hexColor(c *compose.RGB) string {
	if c == nil {
		return "000000"
	}
	to255 := func(v float64) int {
		n := int(v*255 + 0.5)
		if n < 0 {
			n = 0
		}
		if n > 255 {
			n = 255
		}
		return n
	}
	return fmt.Sprintf("%02X%02X%02X", to255(c.Red), to255(c.Green), to255(c.Blue))
}
