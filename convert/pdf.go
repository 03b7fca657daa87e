// Package convert moves recognized text between documents: text extraction
// from PDF and DOCX uploads, and export of plain text as a PDF.
package convert

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/wudi/pdfkit/extractor"
	"github.com/wudi/pdfkit/ir"
)

// Info is the document information dictionary of a PDF.
type Info struct {
	Title    string   `json:"title,omitempty"`
	Author   string   `json:"author,omitempty"`
	Subject  string   `json:"subject,omitempty"`
	Creator  string   `json:"creator,omitempty"`
	Producer string   `json:"producer,omitempty"`
	Keywords []string `json:"keywords,omitempty"`
}

type PDFText struct {
	Text  string `json:"text"`
	Pages int    `json:"pages"`
	Info  Info   `json:"info"`
}

// ExtractPDF returns the text of every page, pages separated by a blank line.
func ExtractPDF(ctx context.Context, r io.ReaderAt) (*PDFText, error) {
	doc, err := ir.NewDefault().Parse(ctx, r)
	if err != nil {
		return nil, fmt.Errorf("could not parse pdf: %w", err)
	}
	dec := doc.Decoded()
	if dec == nil {
		return nil, errors.New("could not parse pdf: no decoded document")
	}

	ext, err := extractor.New(dec)
	if err != nil {
		return nil, fmt.Errorf("could not read pdf: %w", err)
	}

	pages, err := ext.ExtractText()
	if err != nil {
		return nil, fmt.Errorf("could not extract pdf text: %w", err)
	}

	texts := make([]string, 0, len(pages))
	for _, page := range pages {
		texts = append(texts, page.Content)
	}

	meta := ext.ExtractMetadata()
	return &PDFText{
		Text:  strings.Join(texts, "\n\n"),
		Pages: meta.PageCount,
		Info: Info{
			Title:    meta.Info.Title,
			Author:   meta.Info.Author,
			Subject:  meta.Info.Subject,
			Creator:  meta.Info.Creator,
			Producer: meta.Info.Producer,
			Keywords: meta.Info.Keywords,
		},
	}, nil
}
