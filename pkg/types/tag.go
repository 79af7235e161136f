// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

// ExtractionMethod identifies how an equipment tag was obtained.
type ExtractionMethod string

const (
	// MethodFilename means the tag was matched against the filename.
	MethodFilename ExtractionMethod = "filename"

	// MethodContent means the tag was found in the document body.
	MethodContent ExtractionMethod = "content"

	// MethodInferred means the tag was derived indirectly (e.g. a
	// labelled field near an equipment description).
	MethodInferred ExtractionMethod = "inferred"
)

// ExtractedTag is the outcome of tag resolution for a single file. It is
// created once per file and never mutated. A nil-equivalent result (empty
// Tag, zero Confidence) means the file is untagged; extraction failures
// are carried in Evidence rather than raised as errors.
type ExtractedTag struct {
	// Tag is the normalized equipment identifier (e.g. "AHU-10"),
	// or empty when no tag was found.
	Tag string `json:"tag,omitempty"`

	// Confidence is the resolver's trust in the tag, in [0,1].
	Confidence float64 `json:"confidence"`

	// Method records which extraction path produced the tag.
	Method ExtractionMethod `json:"method"`

	// Evidence holds the matched text or, on failure, the read error.
	Evidence string `json:"evidence,omitempty"`

	// FallbackUsed names the method that lost when both filename and
	// content extraction were attempted, for diagnostics.
	FallbackUsed ExtractionMethod `json:"fallback_used,omitempty"`
}

// Tagged reports whether a tag was found at all, regardless of confidence.
func (e ExtractedTag) Tagged() bool {
	return e.Tag != ""
}

// Accepted reports whether the tag meets the given confidence threshold
// for grouping purposes.
func (e ExtractedTag) Accepted(threshold float64) bool {
	return e.Tag != "" && e.Confidence >= threshold
}
