// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package tagging

import (
	"regexp"
	"strings"
)

// tagPattern pairs a compiled equipment-tag expression with the
// confidence its matches carry.
type tagPattern struct {
	re         *regexp.Regexp
	confidence float64
}

// filenamePatterns are tried in order against the filename stem; first
// match wins. Longer prefixes come before prefixes they contain (OAHU
// before AHU, BCU before BC), otherwise the generic pattern would
// swallow the specific one. Hyphen and underscore separators are both
// accepted because upload sanitizers rewrite hyphens.
//
// CS-prefixed names never reach these patterns — cut sheets are
// intentionally tag-less so they route to the cut-sheet section.
var filenamePatterns = []tagPattern{
	{regexp.MustCompile(`(?i)(OAHU[-_][A-Z0-9]+)`), 0.9},  // outdoor air handling unit
	{regexp.MustCompile(`(?i)(WSHP[-_][A-Z0-9]+)`), 0.9},  // water source heat pump
	{regexp.MustCompile(`(?i)(DOAS[-_][A-Z0-9]+)`), 0.9},  // dedicated outdoor air system
	{regexp.MustCompile(`(?i)(BCU[-_][A-Z0-9]+)`), 0.9},   // blower coil unit
	{regexp.MustCompile(`(?i)(AHU[-_][A-Z0-9]+)`), 0.9},   // air handling unit
	{regexp.MustCompile(`(?i)(MAU[-_][A-Z0-9]+)`), 0.9},   // makeup air unit
	{regexp.MustCompile(`(?i)(RTU[-_][A-Z0-9]+)`), 0.9},   // rooftop unit
	{regexp.MustCompile(`(?i)(FCU[-_][A-Z0-9]+)`), 0.9},   // fan coil unit
	{regexp.MustCompile(`(?i)(HP[-_][A-Z0-9]+)`), 0.9},    // heat pump
	{regexp.MustCompile(`(?i)(FC[-_][A-Z0-9]+)`), 0.9},    // fan coil
	{regexp.MustCompile(`(?i)(BC[-_][A-Z0-9]+)`), 0.9},    // blower coil
	{regexp.MustCompile(`(?i)(CH[-_][A-Z0-9]+)`), 0.9},    // chiller
	{regexp.MustCompile(`(?i)^([A-Z]+[A-Z0-9]*[-_][A-Z0-9]+)`), 0.8}, // generic prefix
}

// contentPatterns are tried against extracted document text. Labelled
// fields outrank bare pattern matches; the bare-token pattern exists so
// a tag mentioned anywhere in the body is still better than nothing.
var contentPatterns = []tagPattern{
	{regexp.MustCompile(`(?i)Unit Tag:\s*([A-Z]{2,4}-[0-9]+[A-Z]*)`), 0.95},
	{regexp.MustCompile(`(?i)Tag:\s*([A-Z]{2,4}-[0-9]+[A-Z]*)`), 0.9},
	{regexp.MustCompile(`(?i)Unit:\s*([A-Z]{2,4}-[0-9]+[A-Z]*)`), 0.85},
	{regexp.MustCompile(`(?i)([A-Z]{2,4}-[0-9]+[A-Z]*)\s+(?:Unit|Equipment)`), 0.8},
	{regexp.MustCompile(`(?i)Equipment\s+([A-Z]{2,4}-[0-9]+[A-Z]*)`), 0.8},
	{regexp.MustCompile(`\b([A-Z]{2,4}-[0-9]+[A-Z]*)\b`), 0.6},
}

var (
	separatedTag = regexp.MustCompile(`^([A-Z]+[A-Z0-9]*?)[-_\s]+([A-Z0-9]+)$`)
	fusedTag     = regexp.MustCompile(`^([A-Z]+)0*([0-9]+[A-Z]*)$`)
	leadingZeros = regexp.MustCompile(`^0+([0-9])`)
)

// Normalize canonicalizes a raw tag match to PREFIX-SUFFIX uppercase
// with leading zeros stripped from numeric suffixes (AHU_01 -> AHU-1,
// MAU05 -> MAU-5). Input that does not fit the tag shape is returned
// uppercased as-is.
func Normalize(raw string) string {
	tag := strings.ToUpper(strings.TrimSpace(raw))
	if m := separatedTag.FindStringSubmatch(tag); m != nil {
		return m[1] + "-" + leadingZeros.ReplaceAllString(m[2], "$1")
	}
	if m := fusedTag.FindStringSubmatch(tag); m != nil {
		return m[1] + "-" + m[2]
	}
	return tag
}
