// Package export renders a composed plan into local artifacts: a Markdown/
// HTML preview for dry runs and a .docx archive copy.
package export

import (
	"bytes"
	"fmt"
	"os"
	"strings"

	"github.com/yuin/goldmark"

	"github.com/dgallion1/onthisday/internal/compose"
)

// Markdown renders the plan's spans as Markdown. Named paragraph styles map
// to heading levels, image slots to image references, link spans to inline
// links; blank filler spans are dropped.
func Markdown(plan *compose.Plan) string {
	images := make(map[int64]string, len(plan.Images))
	for _, slot := range plan.Images {
		images[slot.Offset] = slot.URL
	}

	var sb strings.Builder
	for _, span := range plan.Spans {
		if url, ok := images[span.Start]; ok {
			fmt.Fprintf(&sb, "![](%s)\n\n", url)
			continue
		}

		text := strings.TrimSuffix(span.Text, "\n")
		if text == "" {
			continue
		}

		switch span.Style.Named {
		case compose.StyleTitle:
			fmt.Fprintf(&sb, "# %s\n\n", text)
		case compose.StyleHeading1:
			fmt.Fprintf(&sb, "## %s\n\n", text)
		case compose.StyleHeading2:
			fmt.Fprintf(&sb, "### %s\n\n", text)
		default:
			switch {
			case span.Style.Link != "":
				fmt.Fprintf(&sb, "*[%s](%s)*\n\n", text, span.Style.Link)
			case span.Style.Italic:
				fmt.Fprintf(&sb, "*%s*\n\n", text)
			default:
				fmt.Fprintf(&sb, "%s\n\n", text)
			}
		}
	}
	return sb.String()
}

// HTML converts the Markdown rendering to an HTML document fragment.
func HTML(plan *compose.Plan) ([]byte, error) {
	var buf bytes.Buffer
	if err := goldmark.Convert([]byte(Markdown(plan)), &buf); err != nil {
		return nil, fmt.Errorf("convert markdown: %w", err)
	}
	return buf.Bytes(), nil
}

// WriteHTML writes the HTML preview to path.
func WriteHTML(path string, plan *compose.Plan) error {
	html, err := HTML(plan)
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, html, 0o644); err != nil {
		return fmt.Errorf("write preview: %w", err)
	}
	return nil
}
