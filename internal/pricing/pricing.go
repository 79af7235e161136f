// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package pricing decides which documents and pages carry priced line
// items, so they can be excluded from client-facing submittals. A page
// is "priced" only when it contains a currency amount (symbol followed
// by digits), not a bare currency symbol — boilerplate legal text
// mentioning "$" alone does not trip the filter.
package pricing

import (
	"log/slog"
	"regexp"
	"strings"

	"github.com/pdiddy/submittal-engine/internal/textextract"
	"github.com/pdiddy/submittal-engine/pkg/types"
)

// priceAmount matches a currency symbol followed by an amount with
// optional thousands separators and decimals ($1,234.56, $ 300).
var priceAmount = regexp.MustCompile(`\$\s*[\d,]+\.?\d*`)

// filenameKeywords are the fallback heuristic for unreadable files.
var filenameKeywords = []string{"pricing", "cost", "quote", "item summary"}

// TextSource reads document text for content scanning.
type TextSource interface {
	Text(path string) (string, error)
}

// Filter flags pricing content in documents.
type Filter struct {
	// FilenameTrustMode limits content scans to item_summary files;
	// every other classification is assumed price-free without I/O.
	// This is a deliberate performance/precision trade-off: in a
	// filename-trusted batch only item summaries carry prices.
	FilenameTrustMode bool

	text   TextSource
	logger *slog.Logger
}

// NewFilter builds a pricing filter. text may be nil, in which case
// only filename heuristics apply.
func NewFilter(filenameTrust bool, text TextSource, logger *slog.Logger) *Filter {
	if logger == nil {
		logger = slog.Default()
	}
	return &Filter{FilenameTrustMode: filenameTrust, text: text, logger: logger}
}

// HasPricing reports whether the file carries priced line items.
// Unreadable files fall back to filename keywords rather than failing
// the batch.
func (f *Filter) HasPricing(file types.RawFile, class types.DocumentClassification) bool {
	if f.FilenameTrustMode && class != types.DocItemSummary {
		return false
	}

	if f.text != nil {
		content, err := f.text.Text(file.Path)
		if err == nil {
			return ContainsPrice(content)
		}
		f.logger.Debug("pricing scan fell back to filename heuristics",
			"file", file.Name, "error", err)
	}

	return filenameSuggestsPricing(file.Name) || class == types.DocItemSummary
}

// ContainsPrice reports whether the text contains a currency amount.
func ContainsPrice(text string) bool {
	return priceAmount.MatchString(text)
}

// PricedPages returns the 0-based indexes of PDF pages containing
// currency amounts. Pages whose text cannot be extracted are assumed
// price-free.
func PricedPages(pdfPath string) ([]int, error) {
	pages, err := textextract.PDFPages(pdfPath)
	if err != nil {
		return nil, err
	}
	var priced []int
	for i, text := range pages {
		if ContainsPrice(text) {
			priced = append(priced, i)
		}
	}
	return priced, nil
}

func filenameSuggestsPricing(name string) bool {
	lower := strings.ToLower(name)
	for _, kw := range filenameKeywords {
		if strings.Contains(lower, kw) {
			return true
		}
	}
	return false
}
