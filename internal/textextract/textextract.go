// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package textextract reads convertible text from input documents. Each
// supported format has its own Extractor; callers go through Text, which
// tries the strategies in a fixed priority order. Extraction is
// best-effort — an unreadable file yields an error the caller treats as
// data, not a batch failure.
package textextract

import (
	"fmt"
	"path/filepath"
	"strings"
)

// Extractor reads the text content of one document format.
type Extractor interface {
	// Supports reports whether this strategy handles the file.
	Supports(path string) bool

	// Extract returns the document's text, including table cells.
	Extract(path string) (string, error)
}

// Chain tries a fixed sequence of extractors in priority order.
type Chain struct {
	extractors []Extractor
}

// NewChain builds the default strategy chain: PDF, DOCX, XLSX, then
// plain text for anything with a text-like extension.
func NewChain() *Chain {
	return &Chain{
		extractors: []Extractor{
			&PDFExtractor{},
			&DocxExtractor{},
			&XlsxExtractor{},
			&PlainExtractor{},
		},
	}
}

// Text extracts text from the file using the first strategy that
// supports it. Unsupported formats return an error; legacy binary .doc
// files are among them (their text is only reachable after conversion).
func (c *Chain) Text(path string) (string, error) {
	for _, e := range c.extractors {
		if e.Supports(path) {
			return e.Extract(path)
		}
	}
	return "", fmt.Errorf("no text extractor for %s", filepath.Base(path))
}

func hasExt(path string, exts ...string) bool {
	got := strings.ToLower(filepath.Ext(path))
	for _, e := range exts {
		if got == e {
			return true
		}
	}
	return false
}
