// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package types defines the shared data model for the submittal engine:
// raw input files, extracted tags, document classifications, the persisted
// PDF structure, and the assembly manifest.
package types

import (
	"path/filepath"
	"strings"
)

// DocumentClassification is the role a file plays in a submittal,
// derived purely from its filename.
type DocumentClassification string

const (
	DocTechnicalData DocumentClassification = "technical_data"
	DocFanCurve      DocumentClassification = "fan_curve"
	DocDrawing       DocumentClassification = "drawing"
	DocItemSummary   DocumentClassification = "item_summary"
	DocSpecification DocumentClassification = "specification"
	DocCutSheet      DocumentClassification = "cutsheet"
	DocManual        DocumentClassification = "manual"
	DocWarranty      DocumentClassification = "warranty"
	DocSpreadsheet   DocumentClassification = "spreadsheet"
	DocOther         DocumentClassification = "other"
)

// RawFile describes one input file at batch start. Immutable.
type RawFile struct {
	// Path is the absolute or working-directory-relative location.
	Path string `json:"path"`

	// Name is the base filename including extension.
	Name string `json:"name"`

	// Size is the file size in bytes.
	Size int64 `json:"size"`
}

// NewRawFile builds a RawFile from a path, deriving the base name.
func NewRawFile(path string, size int64) RawFile {
	return RawFile{Path: path, Name: filepath.Base(path), Size: size}
}

// Ext returns the lowercase filename extension, including the dot.
func (f RawFile) Ext() string {
	return strings.ToLower(filepath.Ext(f.Name))
}

// CutSheetsTag names the synthetic group that collects tag-less cut
// sheets; it always sorts after every real equipment group.
const CutSheetsTag = "CUTSHEETS"
