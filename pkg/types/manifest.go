// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "time"

// ManifestEntry records the fate of one structure item during assembly.
type ManifestEntry struct {
	Type     ItemType `json:"type"`
	Tag      string   `json:"tag"`
	Title    string   `json:"title"`
	Position int      `json:"position"`

	// StartPage and EndPage are 1-based inclusive absolute page numbers
	// in the final document; only set for included items that were
	// appended successfully.
	StartPage int `json:"start_page,omitempty"`
	EndPage   int `json:"end_page,omitempty"`

	// Reason explains exclusion or failure ("pricing filter",
	// "manually excluded", "conversion missing", ...).
	Reason string `json:"reason,omitempty"`
}

// ManifestSummary carries the per-run counts.
type ManifestSummary struct {
	TotalItems int `json:"total_items"`
	Included   int `json:"included"`
	Excluded   int `json:"excluded"`
	Failed     int `json:"failed"`
	TotalPages int `json:"total_pages"`
}

// Manifest is produced once per assembly run. It distinguishes items
// included in the output, items excluded by design (pricing filter or
// manual edits), and items that failed conversion.
type Manifest struct {
	RunID            string          `json:"run_id"`
	OutputPath       string          `json:"output_path"`
	GeneratedAt      time.Time       `json:"generated_at"`
	Included         []ManifestEntry `json:"included"`
	ExcludedByDesign []ManifestEntry `json:"excluded_by_design"`
	Failed           []ManifestEntry `json:"failed"`
	Summary          ManifestSummary `json:"summary"`
}

// Summarize refreshes the summary counters from the entry lists.
func (m *Manifest) Summarize() {
	m.Summary.Included = len(m.Included)
	m.Summary.Excluded = len(m.ExcludedByDesign)
	m.Summary.Failed = len(m.Failed)
	m.Summary.TotalItems = m.Summary.Included + m.Summary.Excluded + m.Summary.Failed
}

// HasFailures reports whether any item failed conversion or assembly.
func (m *Manifest) HasFailures() bool {
	return len(m.Failed) > 0
}
