// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package textextract

import (
	"archive/zip"
	"encoding/xml"
	"fmt"
	"strings"
)

// DocxExtractor reads text from .docx files by parsing
// word/document.xml inside the ZIP archive. Paragraphs and table cells
// both contribute text, since equipment tags frequently live in tables.
type DocxExtractor struct{}

func (e *DocxExtractor) Supports(path string) bool {
	return hasExt(path, ".docx")
}

func (e *DocxExtractor) Extract(path string) (string, error) {
	r, err := zip.OpenReader(path)
	if err != nil {
		return "", fmt.Errorf("opening docx archive: %w", err)
	}
	defer r.Close()

	var docFile *zip.File
	for _, f := range r.File {
		if f.Name == "word/document.xml" {
			docFile = f
			break
		}
	}
	if docFile == nil {
		return "", fmt.Errorf("word/document.xml not found in %s", path)
	}

	rc, err := docFile.Open()
	if err != nil {
		return "", fmt.Errorf("opening document.xml: %w", err)
	}
	defer rc.Close()

	decoder := xml.NewDecoder(rc)
	var out strings.Builder
	var current strings.Builder
	var inParagraph bool

	for {
		tok, err := decoder.Token()
		if err != nil {
			break
		}

		switch t := tok.(type) {
		case xml.StartElement:
			if t.Name.Local == "p" {
				inParagraph = true
				current.Reset()
			}
		case xml.CharData:
			if inParagraph {
				current.Write(t)
			}
		case xml.EndElement:
			if t.Name.Local == "p" && inParagraph {
				inParagraph = false
				if text := strings.TrimSpace(current.String()); text != "" {
					out.WriteString(text)
					out.WriteByte('\n')
				}
			}
		}
	}

	if out.Len() == 0 {
		return "", fmt.Errorf("no text content in %s", path)
	}
	return out.String(), nil
}
