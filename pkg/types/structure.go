// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import (
	"fmt"
	"time"
)

// ItemType distinguishes the three kinds of entries in a PDF structure.
type ItemType string

const (
	ItemTitlePage ItemType = "title_page"
	ItemDocument  ItemType = "document"
	ItemCutSheet  ItemType = "cut_sheet"
)

// ItemKey is the identity of a structure item for merge purposes. The
// triple must be unique within a structure; positions and titles may
// change between runs, the key may not.
type ItemKey struct {
	Type     ItemType
	Tag      string
	Filename string
}

// PDFStructureItem is the unit of persisted state: one title page,
// document, or cut sheet in the final submittal.
type PDFStructureItem struct {
	// Type is title_page, document, or cut_sheet.
	Type ItemType `json:"type"`

	// Tag is the owning equipment tag (CUTSHEETS for the cut-sheet
	// section).
	Tag string `json:"tag"`

	// Filename is the source file's base name; empty for title pages.
	Filename string `json:"filename,omitempty"`

	// Title is the display string for title pages.
	Title string `json:"title,omitempty"`

	// DisplayTitle is the bookmark/display string for documents and
	// cut sheets; defaults to the filename.
	DisplayTitle string `json:"display_title,omitempty"`

	// FileType is the document classification; empty for title pages.
	FileType DocumentClassification `json:"file_type,omitempty"`

	// ConvertedPath is a hint to the converted PDF. It is re-resolved
	// at assembly time, never trusted blindly.
	ConvertedPath string `json:"converted_path,omitempty"`

	// Position defines render order: dense, strictly increasing from 1
	// across the whole structure, independent of Include.
	Position int `json:"position"`

	// Include controls whether the item appears in the output.
	// Excluded items keep their position so manifests stay stable.
	Include bool `json:"include"`

	// PricingFile marks documents the pricing filter flagged.
	PricingFile bool `json:"pricing_file,omitempty"`
}

// Key returns the item's merge identity.
func (i PDFStructureItem) Key() ItemKey {
	return ItemKey{Type: i.Type, Tag: i.Tag, Filename: i.Filename}
}

// BookmarkTitle returns the string used for this item's bookmark:
// DisplayTitle, then Title, then Filename, whichever is set first.
func (i PDFStructureItem) BookmarkTitle() string {
	switch {
	case i.DisplayTitle != "":
		return i.DisplayTitle
	case i.Title != "":
		return i.Title
	default:
		return i.Filename
	}
}

// StructureMetadata summarizes a generated structure.
type StructureMetadata struct {
	TotalItems           int       `json:"total_items"`
	TitlePages           int       `json:"title_pages"`
	Documents            int       `json:"documents"`
	CutSheets            int       `json:"cut_sheets"`
	PricingFilterEnabled bool      `json:"pricing_filter_enabled"`
	GeneratedAt          time.Time `json:"generated_at"`

	// LastUpdated is set when a human edits the persisted structure;
	// the merge engine preserves their overrides on the next run.
	LastUpdated *time.Time `json:"last_updated,omitempty"`
}

// PDFStructure is the ordered, positioned description of the final
// submittal. It is the single source of truth between pipeline runs: an
// assembly run operates purely from a persisted structure without
// re-deriving tags.
type PDFStructure struct {
	Items    []PDFStructureItem `json:"pdf_structure"`
	Metadata StructureMetadata  `json:"metadata"`
}

// Validate checks the structural invariants: positions form a dense
// strictly increasing sequence starting at 1, and every (type, tag,
// filename) key is unique. Violations are fatal — proceeding would
// corrupt bookmark page numbering.
func (s *PDFStructure) Validate() error {
	seen := make(map[ItemKey]int, len(s.Items))
	for idx, item := range s.Items {
		if item.Position != idx+1 {
			return fmt.Errorf("structure position %d at index %d: positions must be dense and strictly increasing from 1", item.Position, idx)
		}
		switch item.Type {
		case ItemTitlePage, ItemDocument, ItemCutSheet:
		default:
			return fmt.Errorf("structure item at position %d: unknown type %q", item.Position, item.Type)
		}
		if item.Type != ItemTitlePage && item.Filename == "" {
			return fmt.Errorf("structure item at position %d: %s requires a filename", item.Position, item.Type)
		}
		key := item.Key()
		if prev, dup := seen[key]; dup {
			return fmt.Errorf("duplicate structure item (%s, %s, %s) at positions %d and %d",
				key.Type, key.Tag, key.Filename, prev, item.Position)
		}
		seen[key] = item.Position
	}
	return nil
}

// Recount refreshes the metadata counters from the item list.
func (s *PDFStructure) Recount() {
	s.Metadata.TotalItems = len(s.Items)
	s.Metadata.TitlePages = 0
	s.Metadata.Documents = 0
	s.Metadata.CutSheets = 0
	for _, item := range s.Items {
		switch item.Type {
		case ItemTitlePage:
			s.Metadata.TitlePages++
		case ItemDocument:
			s.Metadata.Documents++
		case ItemCutSheet:
			s.Metadata.CutSheets++
		}
	}
}
