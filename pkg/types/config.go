// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "time"

// QualityMode selects a conversion quality preset. Higher modes never
// produce lower page fidelity than lower modes.
type QualityMode string

const (
	QualityFast     QualityMode = "fast"
	QualityBalanced QualityMode = "balanced"
	QualityHigh     QualityMode = "high"
	QualityMaximum  QualityMode = "maximum"
)

// Valid reports whether m is one of the closed set of quality modes.
func (m QualityMode) Valid() bool {
	switch m {
	case QualityFast, QualityBalanced, QualityHigh, QualityMaximum:
		return true
	}
	return false
}

// TaggingConfig holds settings for the tag-resolution stage.
type TaggingConfig struct {
	// Mode selects filename or content extraction as the primary path.
	Mode ExtractionMethod `json:"mode" yaml:"mode"`

	// ConfidenceThreshold is the minimum confidence for a tag to be
	// used for grouping (default 0.8).
	ConfidenceThreshold float64 `json:"confidence_threshold" yaml:"confidence_threshold"`

	// EnableFallback lets the resolver try the other extraction mode
	// when the primary one finds nothing.
	EnableFallback bool `json:"enable_fallback" yaml:"enable_fallback"`
}

// StructureConfig holds settings for structure generation.
type StructureConfig struct {
	// PricingFilterEnabled excludes priced documents from the output by
	// default. Flagged documents keep their positions either way.
	PricingFilterEnabled bool `json:"pricing_filter_enabled" yaml:"pricing_filter_enabled"`

	// FilenameTrustMode restricts pricing content scans to files
	// classified item_summary; all other classifications are assumed
	// price-free without I/O.
	FilenameTrustMode bool `json:"filename_trust_mode" yaml:"filename_trust_mode"`

	// FamilyOrder is the equipment-prefix priority table controlling
	// group order. Prefixes not listed sort alphabetically after the
	// table; the cut-sheet section is always last.
	FamilyOrder []string `json:"family_order" yaml:"family_order"`

	// StructureFile is the persisted structure path (single-writer).
	StructureFile string `json:"structure_file" yaml:"structure_file"`
}

// ConverterBackend identifies the external document converter.
type ConverterBackend string

const (
	BackendGotenberg   ConverterBackend = "gotenberg"
	BackendLibreOffice ConverterBackend = "libreoffice"
)

// ConverterConfig holds settings for the external converter collaborator.
type ConverterConfig struct {
	// Backend selects gotenberg (HTTP service) or libreoffice (local
	// binary).
	Backend ConverterBackend `json:"backend" yaml:"backend"`

	// GotenbergURL is the base URL of the Gotenberg service.
	GotenbergURL string `json:"gotenberg_url" yaml:"gotenberg_url"`

	// Quality selects the conversion quality preset.
	Quality QualityMode `json:"quality" yaml:"quality"`

	// Timeout bounds a single conversion call (default 120s).
	Timeout time.Duration `json:"timeout" yaml:"timeout"`

	// MaxRetries bounds retry attempts per conversion (default 2).
	MaxRetries int `json:"max_retries" yaml:"max_retries"`

	// Workers bounds concurrent conversion dispatch (default 4).
	// Results are reassembled in position order regardless.
	Workers int `json:"workers" yaml:"workers"`
}

// AssemblyConfig holds settings for final PDF assembly.
type AssemblyConfig struct {
	// DocsDir is the source-document directory (default "docs"); the
	// CLI's positional argument overrides it.
	DocsDir string `json:"docs_dir" yaml:"docs_dir"`

	// ConvertedDir is the default output directory for converted PDFs.
	ConvertedDir string `json:"converted_dir" yaml:"converted_dir"`

	// TitlePagesDir is where generated title pages are written.
	TitlePagesDir string `json:"title_pages_dir" yaml:"title_pages_dir"`

	// MappingFile is an optional filename-to-converted-path table
	// consulted when resolving converted PDFs.
	MappingFile string `json:"mapping_file" yaml:"mapping_file"`

	// OutputDir is where the final submittal and manifest are written.
	OutputDir string `json:"output_dir" yaml:"output_dir"`
}

// HistoryConfig holds settings for the run-history store.
type HistoryConfig struct {
	// DBPath is the SQLite database location (default
	// "submittal-history.db" in the output directory).
	DBPath string `json:"db_path" yaml:"db_path"`
}

// PipelineConfig groups all stage configurations.
type PipelineConfig struct {
	Tagging   TaggingConfig   `json:"tagging" yaml:"tagging"`
	Structure StructureConfig `json:"structure" yaml:"structure"`
	Converter ConverterConfig `json:"converter" yaml:"converter"`
	Assembly  AssemblyConfig  `json:"assembly" yaml:"assembly"`
	History   HistoryConfig   `json:"history" yaml:"history"`
}

// DefaultFamilyOrder is the built-in equipment-family priority table.
// Makeup air units lead, then air handlers, then the remaining known
// HVAC prefixes. Site-specific conventions override this via config.
var DefaultFamilyOrder = []string{
	"MAU", "AHU", "RTU", "FCU", "WSHP", "HP", "FC", "BC", "BCU", "DOAS", "OAHU", "CH",
}

// DefaultPipelineConfig returns the configuration defaults used when a
// setting is absent from the config file and environment.
func DefaultPipelineConfig() PipelineConfig {
	return PipelineConfig{
		Tagging: TaggingConfig{
			Mode:                MethodFilename,
			ConfidenceThreshold: 0.8,
			EnableFallback:      true,
		},
		Structure: StructureConfig{
			PricingFilterEnabled: true,
			FilenameTrustMode:    true,
			FamilyOrder:          DefaultFamilyOrder,
			StructureFile:        "submittal-structure.json",
		},
		Converter: ConverterConfig{
			Backend:      BackendGotenberg,
			GotenbergURL: "http://localhost:3000",
			Quality:      QualityHigh,
			Timeout:      120 * time.Second,
			MaxRetries:   2,
			Workers:      4,
		},
		Assembly: AssemblyConfig{
			DocsDir:       "docs",
			ConvertedDir:  "converted_pdfs",
			TitlePagesDir: "title_pages",
			MappingFile:   "pdf_conversion_mapping.json",
			OutputDir:     "output",
		},
		History: HistoryConfig{
			DBPath: "submittal-history.db",
		},
	}
}
