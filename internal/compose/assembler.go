package compose

import (
	"strings"
	"unicode/utf16"
)

// Assembler accumulates document text behind a monotonically advancing
// cursor. Every appended span is gap-free against the previous one, so
// concatenating the spans reproduces the buffer and every recorded offset
// stays valid until an image insertion mutates the document.
type Assembler struct {
	cursor int64
	buf    strings.Builder
	spans  []Span
	styles []StyleOp
	images []ImageSlot
}

func NewAssembler() *Assembler {
	return &Assembler{cursor: BodyStart}
}

// textLen counts UTF-16 code units, the unit the document offset space is
// measured in.
func textLen(s string) int64 {
	var n int64
	for _, r := range s {
		n += int64(utf16.RuneLen(r))
	}
	return n
}

// Append adds text at the cursor and records the styling to apply to it.
// A paragraph-level option produces one StyleOp over the full span including
// the trailing paragraph terminator; character-level options produce one
// StyleOp over the visible range, which excludes a trailing terminator (the
// terminator carries no character styling in the document model).
func (a *Assembler) Append(text string, style Style) {
	start := a.cursor
	end := start + textLen(text)

	a.buf.WriteString(text)
	a.spans = append(a.spans, Span{Start: start, End: end, Text: text, Style: style})

	if p := style.paragraph(); p != nil {
		a.styles = append(a.styles, StyleOp{Start: start, End: end, Paragraph: p})
	}

	textEnd := end
	if strings.HasSuffix(text, "\n") {
		textEnd--
	}
	if textEnd > start {
		if t := style.text(); t != nil {
			a.styles = append(a.styles, StyleOp{Start: start, End: textEnd, Text: t})
		}
	}

	a.cursor = end
}

// ReserveImage appends a dedicated one-character paragraph that will later
// hold an inline image. The paragraph is centered with breathing room above
// and below so the image never touches adjacent text. No-op for an empty URL.
//
// The recorded offset is the placeholder's first character, computed against
// the pre-mutation buffer; it stays stable because no image has been inserted
// yet when styling is applied.
func (a *Assembler) ReserveImage(url string) {
	if url == "" {
		return
	}
	start := a.cursor
	a.Append("\n", Style{Alignment: AlignCenter, SpaceAbove: 10, SpaceBelow: 14})
	a.images = append(a.images, ImageSlot{Offset: start, URL: url})
}

// Build finalizes the assembly into a Plan. The assembler should not be used
// afterwards.
func (a *Assembler) Build(title string) *Plan {
	return &Plan{
		Title:  title,
		Text:   a.buf.String(),
		Spans:  a.spans,
		Styles: a.styles,
		Images: a.images,
	}
}
