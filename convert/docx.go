package convert

import (
	"archive/zip"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"strings"
)

const wordNS = "http://schemas.openxmlformats.org/wordprocessingml/2006/main"

// ExtractDOCX returns the raw text of a Word document: one paragraph per
// line, paragraphs separated by a blank line.
func ExtractDOCX(r io.ReaderAt, size int64) (string, error) {
	zr, err := zip.NewReader(r, size)
	if err != nil {
		return "", fmt.Errorf("could not open docx: %w", err)
	}

	f, err := zr.Open("word/document.xml")
	if err != nil {
		return "", fmt.Errorf("could not open docx body: %w", err)
	}
	defer f.Close()

	var (
		out     strings.Builder
		para    strings.Builder
		inText  bool
		inProps bool // w:pPr also holds w:tab stop definitions
	)
	dec := xml.NewDecoder(f)
	for {
		tok, err := dec.Token()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return "", fmt.Errorf("could not parse docx body: %w", err)
		}

		switch t := tok.(type) {
		case xml.StartElement:
			if t.Name.Space != wordNS {
				continue
			}
			switch t.Name.Local {
			case "pPr":
				inProps = true
			case "t":
				inText = true
			case "tab":
				if !inProps {
					para.WriteByte('\t')
				}
			case "br", "cr":
				para.WriteByte('\n')
			}
		case xml.EndElement:
			if t.Name.Space != wordNS {
				continue
			}
			switch t.Name.Local {
			case "pPr":
				inProps = false
			case "t":
				inText = false
			case "p":
				out.WriteString(para.String())
				out.WriteString("\n\n")
				para.Reset()
			}
		case xml.CharData:
			if inText {
				para.Write(t)
			}
		}
	}
	return out.String(), nil
}
