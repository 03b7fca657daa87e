package convert

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/wudi/pdfkit/builder"
	"github.com/wudi/pdfkit/ir/semantic"
	"github.com/wudi/pdfkit/writer"
)

// A4 page layout in points.
const (
	pageWidth  = 595
	pageHeight = 842
	margin     = 57  // 20mm
	textWidth  = 482 // 170mm

	titleSize = 16
	bodySize  = 12
	leading   = 14
)

// ExportPDF writes text as an A4 document headed by title. Lines are wrapped
// to the text width and continue on new pages.
func ExportPDF(ctx context.Context, w io.Writer, title, text string) error {
	b := builder.NewBuilder()
	b.SetInfo(&semantic.DocumentInfo{Title: title, Creator: "ocrprep"})

	page := b.NewPage(pageWidth, pageHeight).
		DrawText(title, margin, pageHeight-margin, builder.TextOptions{FontSize: titleSize})
	y := float64(pageHeight - margin - 2*leading)

	for _, line := range Wrap(text, charsPerLine(bodySize)) {
		if y < margin {
			page.Finish()
			page = b.NewPage(pageWidth, pageHeight)
			y = pageHeight - margin
		}
		if line != "" {
			page = page.DrawText(line, margin, y, builder.TextOptions{FontSize: bodySize})
		}
		y -= leading
	}
	page.Finish()

	doc, err := b.Build()
	if err != nil {
		return fmt.Errorf("could not build pdf: %w", err)
	}
	if err := writer.NewWriter().Write(ctx, doc, w, writer.Config{Deterministic: true}); err != nil {
		return fmt.Errorf("could not write pdf: %w", err)
	}
	return nil
}

// charsPerLine uses the half-em average glyph width of the standard fonts.
func charsPerLine(size float64) int {
	return int(textWidth / (size * 0.5))
}

// Wrap splits text into lines of at most width runes, breaking at spaces
// where possible. Existing line breaks are kept.
func Wrap(text string, width int) []string {
	var lines []string
	for _, para := range strings.Split(strings.ReplaceAll(text, "\r\n", "\n"), "\n") {
		words := strings.Fields(para)
		if len(words) == 0 {
			lines = append(lines, "")
			continue
		}

		var cur []rune
		for _, word := range words {
			wr := []rune(word)
			for len(wr) > width {
				if len(cur) > 0 {
					lines = append(lines, string(cur))
					cur = nil
				}
				lines = append(lines, string(wr[:width]))
				wr = wr[width:]
			}
			switch {
			case len(cur) == 0:
				cur = wr
			case len(cur)+1+len(wr) <= width:
				cur = append(append(cur, ' '), wr...)
			default:
				lines = append(lines, string(cur))
				cur = wr
			}
		}
		if len(cur) > 0 {
			lines = append(lines, string(cur))
		}
	}
	return lines
}
