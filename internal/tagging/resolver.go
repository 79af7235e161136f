// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package tagging resolves equipment identifiers ("tags") for input
// files. The resolver matches filenames against an ordered pattern
// table and, when configured, scans document text for labelled tag
// fields. Extraction never fails the batch: a file without a tag, or
// one that cannot be read, yields a zero-confidence result.
package tagging

import (
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/pdiddy/submittal-engine/internal/classify"
	"github.com/pdiddy/submittal-engine/pkg/types"
)

// TextSource reads convertible text from a document body.
type TextSource interface {
	Text(path string) (string, error)
}

// Resolver extracts equipment tags from files.
type Resolver struct {
	cfg    types.TaggingConfig
	text   TextSource
	logger *slog.Logger
}

// NewResolver builds a Resolver. text may be nil when content-mode
// extraction is disabled and fallback is off.
func NewResolver(cfg types.TaggingConfig, text TextSource, logger *slog.Logger) *Resolver {
	if logger == nil {
		logger = slog.Default()
	}
	return &Resolver{cfg: cfg, text: text, logger: logger}
}

// Resolve extracts a tag for the file according to the configured mode,
// with optional fallback to the other mode. When both modes produce a
// tag the higher-confidence result wins and the loser is recorded as
// FallbackUsed.
func (r *Resolver) Resolve(file types.RawFile) types.ExtractedTag {
	// Cut sheets are intentionally tag-less: they route to the
	// cut-sheet section even when a pattern would match.
	if classify.Classify(file.Name) == types.DocCutSheet {
		r.logger.Debug("skipping tag extraction for cut sheet", "file", file.Name)
		return types.ExtractedTag{Method: types.MethodFilename, Evidence: "cut sheet"}
	}

	var primary, secondary types.ExtractedTag
	switch r.cfg.Mode {
	case types.MethodContent:
		primary = r.fromContent(file.Path)
		if !primary.Tagged() && r.cfg.EnableFallback {
			secondary = r.FromFilename(file.Name)
		}
	default:
		primary = r.FromFilename(file.Name)
		if !primary.Tagged() && r.cfg.EnableFallback && r.text != nil {
			secondary = r.fromContent(file.Path)
		}
	}

	result := primary
	if secondary.Tagged() && secondary.Confidence > primary.Confidence {
		result = secondary
		result.FallbackUsed = primary.Method
	}

	if result.Tagged() {
		r.logger.Debug("resolved tag",
			"file", file.Name, "tag", result.Tag,
			"confidence", result.Confidence, "method", result.Method)
	} else {
		r.logger.Debug("no tag found", "file", file.Name, "evidence", result.Evidence)
	}
	return result
}

// FromFilename matches the filename stem against the ordered tag
// pattern table. First match wins.
func (r *Resolver) FromFilename(filename string) types.ExtractedTag {
	stem := strings.TrimSuffix(filepath.Base(filename), filepath.Ext(filename))

	// A literal CS prefix marks a cut sheet regardless of what the
	// generic pattern would make of it.
	if strings.HasPrefix(strings.ToUpper(stem), "CS") {
		return types.ExtractedTag{Method: types.MethodFilename, Evidence: "cut sheet prefix"}
	}

	for _, p := range filenamePatterns {
		if m := p.re.FindStringSubmatch(stem); m != nil {
			return types.ExtractedTag{
				Tag:        Normalize(m[1]),
				Confidence: p.confidence,
				Method:     types.MethodFilename,
				Evidence:   m[1],
			}
		}
	}
	return types.ExtractedTag{Method: types.MethodFilename}
}

// fromContent extracts text from the document body and scans it with
// the content pattern table, keeping the best-confidence match. Read
// failures are returned as data with zero confidence.
func (r *Resolver) fromContent(path string) types.ExtractedTag {
	if r.text == nil {
		return types.ExtractedTag{Method: types.MethodContent, Evidence: "no text source"}
	}

	content, err := r.text.Text(path)
	if err != nil {
		return types.ExtractedTag{Method: types.MethodContent, Evidence: err.Error()}
	}

	best := types.ExtractedTag{Method: types.MethodContent}
	for _, p := range contentPatterns {
		if p.confidence <= best.Confidence {
			// Patterns are ordered by confidence; nothing below
			// can improve the result.
			break
		}
		if m := p.re.FindStringSubmatch(content); m != nil {
			best = types.ExtractedTag{
				Tag:        Normalize(m[1]),
				Confidence: p.confidence,
				Method:     types.MethodContent,
				Evidence:   strings.TrimSpace(m[0]),
			}
		}
	}
	return best
}
