package convert

import (
	"archive/zip"
	"bytes"
	"context"
	"fmt"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExportedPDFTextCanBeExtracted(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, ExportPDF(context.Background(), &buf, "receipt.png", "TOTAL 12.50\nThank you"))
	require.True(t, bytes.HasPrefix(buf.Bytes(), []byte("%PDF-")))

	got, err := ExtractPDF(context.Background(), bytes.NewReader(buf.Bytes()))
	require.NoError(t, err)
	assert.Equal(t, 1, got.Pages)
	assert.Equal(t, "receipt.png", got.Info.Title)
	assert.Contains(t, got.Text, "receipt.png")
	assert.Contains(t, got.Text, "TOTAL 12.50")
	assert.Contains(t, got.Text, "Thank you")
}

func TestExportPDFContinuesOnNewPages(t *testing.T) {
	var lines []string
	for i := range 120 {
		lines = append(lines, fmt.Sprintf("line %d", i))
	}

	var buf bytes.Buffer
	require.NoError(t, ExportPDF(context.Background(), &buf, "long", strings.Join(lines, "\n")))

	got, err := ExtractPDF(context.Background(), bytes.NewReader(buf.Bytes()))
	require.NoError(t, err)
	assert.Equal(t, 3, got.Pages)
	assert.Contains(t, got.Text, "line 119")
}

func TestExtractPDFRejectsGarbage(t *testing.T) {
	_, err := ExtractPDF(context.Background(), strings.NewReader("not a pdf at all"))
	assert.Error(t, err)
}

func TestWrap(t *testing.T) {
	tests := []struct {
		name  string
		text  string
		width int
		want  []string
	}{
		{"fits", "short line", 20, []string{"short line"}},
		{"breaks at spaces", "one two three four", 9, []string{"one two", "three", "four"}},
		{"keeps line breaks", "a\n\nb", 5, []string{"a", "", "b"}},
		{"splits long words", "abcdefghij xy", 4, []string{"abcd", "efgh", "ij", "xy"}},
		{"collapses spaces", "  a   b  ", 5, []string{"a b"}},
		{"empty", "", 5, []string{""}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Wrap(tt.text, tt.width))
		})
	}
}

func TestWrapCountsRunes(t *testing.T) {
	for _, line := range Wrap(strings.Repeat("äöü ", 30), 10) {
		assert.LessOrEqual(t, utf8.RuneCountInString(line), 10)
	}
}

func docx(t *testing.T, body string) []byte {
	t.Helper()
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	w, err := zw.Create("word/document.xml")
	require.NoError(t, err)
	_, err = fmt.Fprintf(w, `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<w:document xmlns:w="%s"><w:body>%s</w:body></w:document>`, wordNS, body)
	require.NoError(t, err)
	require.NoError(t, zw.Close())
	return buf.Bytes()
}

func TestExtractDOCX(t *testing.T) {
	data := docx(t, `
<w:p><w:pPr><w:tabs><w:tab w:val="left" w:pos="720"/></w:tabs></w:pPr>
  <w:r><w:t>Invoice</w:t></w:r><w:r><w:tab/><w:t xml:space="preserve">No. 7</w:t></w:r></w:p>
<w:p><w:r><w:t>Total</w:t><w:br/><w:t>40 EUR</w:t></w:r></w:p>`)

	text, err := ExtractDOCX(bytes.NewReader(data), int64(len(data)))
	require.NoError(t, err)
	assert.Equal(t, "Invoice\tNo. 7\n\nTotal\n40 EUR\n\n", text)
}

func TestExtractDOCXRejects(t *testing.T) {
	_, err := ExtractDOCX(strings.NewReader("plain"), 5)
	assert.Error(t, err)

	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	_, err = zw.Create("other.xml")
	require.NoError(t, err)
	require.NoError(t, zw.Close())
	_, err = ExtractDOCX(bytes.NewReader(buf.Bytes()), int64(buf.Len()))
	assert.ErrorContains(t, err, "docx body")
}
