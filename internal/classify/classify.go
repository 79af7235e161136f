// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package classify assigns a document-type category to an input file
// based on its filename. Classification is pure and total: it never
// fails and every filename lands in some category.
package classify

import (
	"path/filepath"
	"regexp"
	"strings"

	"github.com/pdiddy/submittal-engine/pkg/types"
)

// typeGroup is one ordered keyword-pattern group. Groups are tested in
// order and the first match wins, so more specific phrasings must come
// before generic ones.
type typeGroup struct {
	class types.DocumentClassification

	// patterns match against the normalized name, except for cut
	// sheets, which match against the raw base name because detection
	// depends on a literal "CS" prefix.
	patterns []*regexp.Regexp

	raw bool
}

var groups = []typeGroup{
	{
		class: types.DocTechnicalData,
		patterns: compile(
			`technical\s+data\s+sheet`,
			`technical\s+data`,
			`tech\s+data`,
			`data\s+sheet`,
		),
	},
	{
		class: types.DocFanCurve,
		patterns: compile(
			`fan\s+curve`,
			`performance\s+curve`,
			`curve`,
		),
	},
	{
		class: types.DocDrawing,
		patterns: compile(
			`drawings?`,
			`dwg`,
			`cad`,
		),
	},
	{
		class: types.DocSpecification,
		patterns: compile(
			`specifications?`,
			`specs?`,
		),
	},
	{
		class: types.DocCutSheet,
		raw:   true,
		patterns: compile(
			`(?i)^cs[\s_-]`,
			`(?i)cut.*sheet`,
			`(?i)cutsheet`,
		),
	},
	{
		class: types.DocItemSummary,
		patterns: compile(
			`item\s+summary`,
		),
	},
	{
		class: types.DocManual,
		patterns: compile(
			`manual`,
			`instruction`,
			`operation`,
			`maintenance`,
		),
	},
	{
		class: types.DocWarranty,
		patterns: compile(
			`warranty`,
			`guarantee`,
		),
	},
}

func compile(exprs ...string) []*regexp.Regexp {
	out := make([]*regexp.Regexp, len(exprs))
	for i, e := range exprs {
		out[i] = regexp.MustCompile(e)
	}
	return out
}

var leadingNumber = regexp.MustCompile(`^\d+\s+`)

// Normalize lowercases a base filename, collapses underscores and
// hyphens to spaces, and strips a leading bare-number token (upload
// tools often prefix an ordinal).
func Normalize(base string) string {
	s := strings.ToLower(base)
	s = strings.NewReplacer("_", " ", "-", " ").Replace(s)
	s = strings.Join(strings.Fields(s), " ")
	return leadingNumber.ReplaceAllString(s, "")
}

// Classify derives the document classification from a filename. No
// keyword match falls back to an extension default: images are treated
// as drawings, office documents and PDFs as technical data, spreadsheets
// as spreadsheets, anything else as other.
func Classify(filename string) types.DocumentClassification {
	base := strings.TrimSuffix(filepath.Base(filename), filepath.Ext(filename))
	normalized := Normalize(base)

	for _, g := range groups {
		subject := normalized
		if g.raw {
			subject = base
		}
		for _, p := range g.patterns {
			if p.MatchString(subject) {
				return g.class
			}
		}
	}

	switch strings.ToLower(filepath.Ext(filename)) {
	case ".jpg", ".jpeg", ".png", ".gif", ".bmp":
		return types.DocDrawing
	case ".pdf", ".doc", ".docx":
		return types.DocTechnicalData
	case ".xls", ".xlsx":
		return types.DocSpreadsheet
	default:
		return types.DocOther
	}
}

// OrderIndex returns the position of a classification in the
// within-group document order. Unknown classifications sort last.
func OrderIndex(c types.DocumentClassification) int {
	for i, t := range docOrder {
		if t == c {
			return i
		}
	}
	return len(docOrder)
}

// docOrder is the fixed type-priority table for documents within an
// equipment group.
var docOrder = []types.DocumentClassification{
	types.DocTechnicalData,
	types.DocFanCurve,
	types.DocDrawing,
	types.DocItemSummary,
	types.DocSpecification,
	types.DocManual,
	types.DocWarranty,
	types.DocSpreadsheet,
	types.DocOther,
}
