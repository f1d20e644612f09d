// Package compose assembles the digest document: it builds the full text
// buffer while tracking absolute offsets for styling ranges and image slots,
// and dispatches the resulting edits to a remote document service in an order
// that stays valid as insertions mutate the shared offset space.
package compose

// BodyStart is the first addressable position in a document body. Index 0
// holds the document's implicit start marker and cannot be written to.
const BodyStart int64 = 1

// DefaultBatchSize is the style-operation ceiling per remote call.
const DefaultBatchSize = 50

// Inline image display size in points.
const (
	ImageWidthPt  = 430
	ImageHeightPt = 260
)

// RGB is a color with components in [0, 1].
type RGB struct {
	Red   float64
	Green float64
	Blue  float64
}

var (
	ColorHeading1 = RGB{Red: 0.10, Green: 0.21, Blue: 0.42} // deep navy
	ColorHeading2 = RGB{Red: 0.38, Green: 0.12, Blue: 0.12} // dark burgundy
	ColorLink     = RGB{Red: 0.13, Green: 0.40, Blue: 0.67} // steel blue
)

// Named paragraph styles understood by the document service.
const (
	StyleTitle    = "TITLE"
	StyleHeading1 = "HEADING_1"
	StyleHeading2 = "HEADING_2"
	StyleNormal   = "NORMAL_TEXT"
)

// Paragraph alignments.
const (
	AlignCenter    = "CENTER"
	AlignJustified = "JUSTIFIED"
)

// Style is the formatting requested for one appended span. The zero value
// requests no formatting. Paragraph-level and character-level options are
// split into separate StyleOps by the assembler.
type Style struct {
	Named      string
	Alignment  string
	SpaceAbove float64 // points
	SpaceBelow float64 // points

	Color  *RGB
	Link   string
	Italic bool
}

func (s Style) paragraph() *ParagraphStyle {
	if s.Named == "" && s.Alignment == "" && s.SpaceAbove == 0 && s.SpaceBelow == 0 {
		return nil
	}
	return &ParagraphStyle{
		Named:      s.Named,
		Alignment:  s.Alignment,
		SpaceAbove: s.SpaceAbove,
		SpaceBelow: s.SpaceBelow,
	}
}

// text resolves the character-level options. A link implies underline and,
// when no explicit color was given, the default link color; the three effects
// land in one TextStyle, not three.
func (s Style) text() *TextStyle {
	if s.Color == nil && s.Link == "" && !s.Italic {
		return nil
	}
	t := &TextStyle{Color: s.Color, Italic: s.Italic}
	if s.Link != "" {
		t.Link = s.Link
		t.Underline = true
		if t.Color == nil {
			c := ColorLink
			t.Color = &c
		}
	}
	return t
}

// ParagraphStyle is paragraph-level formatting. Unset fields (empty string,
// zero) are not applied.
type ParagraphStyle struct {
	Named      string
	Alignment  string
	SpaceAbove float64
	SpaceBelow float64
}

// TextStyle is character-level formatting.
type TextStyle struct {
	Color     *RGB
	Link      string
	Underline bool
	Italic    bool
}

// Span is a contiguous run of appended text with its absolute offsets.
type Span struct {
	Start int64
	End   int64
	Text  string
	Style Style
}

// StyleOp binds formatting to the offset range [Start, End), computed against
// the final pre-mutation text buffer. Exactly one of Paragraph or Text is set.
type StyleOp struct {
	Start     int64
	End       int64
	Paragraph *ParagraphStyle
	Text      *TextStyle
}

// ImageSlot is a reserved one-character placeholder paragraph that will hold
// an inline image at Offset.
type ImageSlot struct {
	Offset int64
	URL    string
}

// Plan is one fully assembled document: the complete text buffer plus the
// style operations and image slots addressed into it. Built once per run and
// consumed exactly once by the dispatcher.
type Plan struct {
	Title  string
	Text   string
	Spans  []Span
	Styles []StyleOp
	Images []ImageSlot
}
