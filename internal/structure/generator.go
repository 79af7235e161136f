// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package structure builds and reconciles the ordered PDF structure
// describing the final submittal: one title page per equipment group
// followed by its documents in type-priority order, with the cut-sheet
// section last. Generation is deterministic — the same input batch
// always yields the same (type, tag, filename, position) tuples.
package structure

import (
	"log/slog"
	"sort"
	"time"

	"github.com/pdiddy/submittal-engine/internal/classify"
	"github.com/pdiddy/submittal-engine/pkg/types"
)

// TagResolver resolves an equipment tag for one input file.
type TagResolver interface {
	Resolve(file types.RawFile) types.ExtractedTag
}

// PricingFilter flags documents carrying priced line items.
type PricingFilter interface {
	HasPricing(file types.RawFile, class types.DocumentClassification) bool
}

// cutSheetsTitle is the display title of the synthetic cut-sheet
// section.
const cutSheetsTitle = "CUT SHEETS"

// Generator produces PDF structures from input batches.
type Generator struct {
	cfg      types.StructureConfig
	tagging  types.TaggingConfig
	resolver TagResolver
	filter   PricingFilter
	families *FamilyOrder
	logger   *slog.Logger
}

// NewGenerator wires a Generator from its collaborators.
func NewGenerator(cfg types.StructureConfig, tagging types.TaggingConfig, resolver TagResolver, filter PricingFilter, logger *slog.Logger) *Generator {
	if logger == nil {
		logger = slog.Default()
	}
	return &Generator{
		cfg:      cfg,
		tagging:  tagging,
		resolver: resolver,
		filter:   filter,
		families: NewFamilyOrder(cfg.FamilyOrder),
		logger:   logger,
	}
}

// classified pairs a file with its resolution results for one run.
type classified struct {
	file  types.RawFile
	tag   types.ExtractedTag
	class types.DocumentClassification
}

// Generate builds a fresh structure for the batch. When prior is
// non-nil, human edits (titles, include flags) from it are preserved
// via the merge engine before the structure is returned.
func (g *Generator) Generate(files []types.RawFile, prior *types.PDFStructure) (*types.PDFStructure, error) {
	groups := g.group(files)

	tags := make([]string, 0, len(groups))
	for tag := range groups {
		tags = append(tags, tag)
	}
	sort.Slice(tags, func(i, j int) bool { return g.families.Less(tags[i], tags[j]) })

	s := &types.PDFStructure{
		Metadata: types.StructureMetadata{
			PricingFilterEnabled: g.cfg.PricingFilterEnabled,
			GeneratedAt:          time.Now().UTC(),
		},
	}

	position := 0
	next := func() int { position++; return position }

	for _, tag := range tags {
		docs := groups[tag]

		if tag == types.CutSheetsTag {
			s.Items = append(s.Items, types.PDFStructureItem{
				Type:     types.ItemTitlePage,
				Tag:      tag,
				Title:    cutSheetsTitle,
				Position: next(),
				Include:  true,
			})
			for _, c := range docs {
				s.Items = append(s.Items, types.PDFStructureItem{
					Type:         types.ItemCutSheet,
					Tag:          tag,
					Filename:     c.file.Name,
					DisplayTitle: c.file.Name,
					FileType:     c.class,
					Position:     next(),
					Include:      true,
				})
			}
			continue
		}

		// A group with zero documents is legal: title page only.
		s.Items = append(s.Items, types.PDFStructureItem{
			Type:     types.ItemTitlePage,
			Tag:      tag,
			Title:    tag,
			Position: next(),
			Include:  true,
		})

		for _, c := range docs {
			item := types.PDFStructureItem{
				Type:         types.ItemDocument,
				Tag:          tag,
				Filename:     c.file.Name,
				DisplayTitle: c.file.Name,
				FileType:     c.class,
				Position:     next(),
			}
			item.PricingFile = g.filter.HasPricing(c.file, c.class)
			if g.cfg.PricingFilterEnabled {
				item.Include = !item.PricingFile
			} else {
				item.Include = true
			}
			s.Items = append(s.Items, item)
		}
	}

	s.Recount()
	if err := s.Validate(); err != nil {
		return nil, err
	}

	if prior != nil {
		merged := Merge(s, prior)
		return merged, nil
	}
	return s, nil
}

// group resolves and classifies every file and buckets them by tag.
// Untagged cut sheets go to the synthetic cut-sheet group; untagged
// files of any other type are logged and left out of the structure —
// unrepresented, not an error.
func (g *Generator) group(files []types.RawFile) map[string][]classified {
	groups := make(map[string][]classified)

	for _, f := range files {
		class := classify.Classify(f.Name)
		tag := g.resolver.Resolve(f)
		c := classified{file: f, tag: tag, class: class}

		switch {
		case tag.Accepted(g.tagging.ConfidenceThreshold):
			groups[tag.Tag] = append(groups[tag.Tag], c)
		case class == types.DocCutSheet:
			groups[types.CutSheetsTag] = append(groups[types.CutSheetsTag], c)
		default:
			g.logger.Warn("file has no accepted tag; excluded from structure",
				"file", f.Name,
				"classification", string(class),
				"method", string(tag.Method),
				"confidence", tag.Confidence,
				"evidence", tag.Evidence)
		}
	}

	for tag, docs := range groups {
		sortDocuments(docs)
		groups[tag] = docs
	}
	return groups
}

// sortDocuments orders a group's files by the fixed type-priority
// table, tie-broken by filename.
func sortDocuments(docs []classified) {
	sort.Slice(docs, func(i, j int) bool {
		oi, oj := classify.OrderIndex(docs[i].class), classify.OrderIndex(docs[j].class)
		if oi != oj {
			return oi < oj
		}
		return docs[i].file.Name < docs[j].file.Name
	})
}
