// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package assemble merges the structure's included items into the
// final submittal PDF, generates section title pages, writes the
// two-level bookmark outline, and emits a manifest accounting for
// every structure item. Individual missing or broken documents are
// soft failures recorded in the manifest; only producing no output at
// all is an error.
package assemble

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/pdiddy/submittal-engine/pkg/types"
)

// PathSource locates the PDF backing a structure item.
type PathSource interface {
	Resolve(item types.PDFStructureItem) (string, error)
}

// TitlePageSource provides section divider pages.
type TitlePageSource interface {
	Generate(tag, title string) (string, error)
}

// PageScrubber finds pages carrying pricing inside a PDF. Page
// numbers are 1-based, matching the Engine page selection.
type PageScrubber interface {
	PricedPages(path string) ([]int, error)
}

// Assembler builds the final submittal document.
type Assembler struct {
	cfg      types.AssemblyConfig
	engine   Engine
	paths    PathSource
	titles   TitlePageSource
	scrubber PageScrubber
	logger   *slog.Logger
	progress io.Writer
}

// NewAssembler wires an assembler. scrubber may be nil to disable
// priced-page removal; progress may be nil to silence per-item lines.
func NewAssembler(cfg types.AssemblyConfig, engine Engine, paths PathSource, titles TitlePageSource, scrubber PageScrubber, logger *slog.Logger, progress io.Writer) *Assembler {
	if logger == nil {
		logger = slog.Default()
	}
	if progress == nil {
		progress = io.Discard
	}
	return &Assembler{
		cfg:      cfg,
		engine:   engine,
		paths:    paths,
		titles:   titles,
		scrubber: scrubber,
		logger:   logger,
		progress: progress,
	}
}

// piece is one successfully resolved input awaiting the merge.
type piece struct {
	item  types.PDFStructureItem
	path  string
	pages int
	start int // 1-based absolute start page in the output
}

// Assemble merges the structure into outPath and returns the manifest.
// Items are processed strictly in position order so recorded page
// numbers match the merged output.
func (a *Assembler) Assemble(ctx context.Context, s *types.PDFStructure, outPath string) (*types.Manifest, error) {
	if err := s.Validate(); err != nil {
		return nil, fmt.Errorf("refusing to assemble invalid structure: %w", err)
	}

	items := make([]types.PDFStructureItem, len(s.Items))
	copy(items, s.Items)
	sort.Slice(items, func(i, j int) bool { return items[i].Position < items[j].Position })

	manifest := &types.Manifest{
		RunID:       uuid.NewString(),
		OutputPath:  outPath,
		GeneratedAt: time.Now().UTC(),
	}

	var pieces []piece
	nextPage := 1
	for _, item := range items {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		if !item.Include {
			reason := "manually excluded"
			if item.PricingFile {
				reason = "pricing filter"
			}
			manifest.ExcludedByDesign = append(manifest.ExcludedByDesign, entry(item, reason))
			fmt.Fprintf(a.progress, "excluded: %s (%s)\n", itemLabel(item), reason)
			continue
		}

		path, err := a.resolve(item)
		if err != nil {
			a.logger.Warn("skipping item", "item", itemLabel(item), "error", err)
			e := entry(item, err.Error())
			manifest.Failed = append(manifest.Failed, e)
			fmt.Fprintf(a.progress, "failed:  %s (%v)\n", itemLabel(item), err)
			continue
		}

		if item.Type != types.ItemTitlePage {
			path, err = a.scrub(s, item, path)
			if err != nil {
				a.logger.Warn("skipping item", "item", itemLabel(item), "error", err)
				manifest.Failed = append(manifest.Failed, entry(item, err.Error()))
				fmt.Fprintf(a.progress, "failed:  %s (%v)\n", itemLabel(item), err)
				continue
			}
		}

		pages, err := a.engine.PageCount(path)
		if err != nil {
			a.logger.Warn("skipping item", "item", itemLabel(item), "error", err)
			manifest.Failed = append(manifest.Failed, entry(item, err.Error()))
			fmt.Fprintf(a.progress, "failed:  %s (%v)\n", itemLabel(item), err)
			continue
		}

		pieces = append(pieces, piece{item: item, path: path, pages: pages, start: nextPage})
		nextPage += pages
		fmt.Fprintf(a.progress, "appended: %s (%d pages)\n", itemLabel(item), pages)
	}

	if len(pieces) == 0 {
		return nil, fmt.Errorf("nothing to assemble: no included items could be resolved")
	}

	if err := os.MkdirAll(filepath.Dir(outPath), 0o755); err != nil {
		return nil, fmt.Errorf("creating output directory: %w", err)
	}

	inputs := make([]string, len(pieces))
	for i, p := range pieces {
		inputs[i] = p.path
	}
	if err := a.engine.Merge(inputs, outPath); err != nil {
		return nil, err
	}

	if err := a.engine.AddBookmarks(outPath, buildOutline(pieces)); err != nil {
		return nil, err
	}

	for _, p := range pieces {
		e := entry(p.item, "")
		e.StartPage = p.start
		e.EndPage = p.start + p.pages - 1
		manifest.Included = append(manifest.Included, e)
	}
	manifest.Summarize()
	manifest.Summary.TotalPages = nextPage - 1

	fmt.Fprintf(a.progress, "\nAssembled %s: %d items, %d pages (%d excluded, %d failed)\n",
		filepath.Base(outPath), manifest.Summary.Included, manifest.Summary.TotalPages,
		manifest.Summary.Excluded, manifest.Summary.Failed)
	return manifest, nil
}

// resolve finds the PDF for an item, generating divider pages on
// demand.
func (a *Assembler) resolve(item types.PDFStructureItem) (string, error) {
	if item.Type == types.ItemTitlePage {
		return a.titles.Generate(item.Tag, item.BookmarkTitle())
	}
	return a.paths.Resolve(item)
}

// scrub removes priced pages from an included document when the
// pricing filter is active. The original file is never modified; the
// scrubbed copy lives next to the output.
func (a *Assembler) scrub(s *types.PDFStructure, item types.PDFStructureItem, path string) (string, error) {
	if a.scrubber == nil || !s.Metadata.PricingFilterEnabled {
		return path, nil
	}

	pages, err := a.scrubber.PricedPages(path)
	if err != nil {
		// A document we cannot scan still ships whole.
		a.logger.Warn("pricing scan failed, including unscrubbed", "item", itemLabel(item), "error", err)
		return path, nil
	}
	if len(pages) == 0 {
		return path, nil
	}

	total, err := a.engine.PageCount(path)
	if err != nil {
		return "", err
	}
	if len(pages) >= total {
		return "", fmt.Errorf("all %d pages of %s carry pricing", total, item.Filename)
	}

	scrubDir := filepath.Join(a.cfg.OutputDir, "scrubbed")
	if err := os.MkdirAll(scrubDir, 0o755); err != nil {
		return "", fmt.Errorf("creating scrub directory: %w", err)
	}
	scrubbed := filepath.Join(scrubDir, filepath.Base(path))
	if err := a.engine.RemovePages(path, scrubbed, pages); err != nil {
		return "", err
	}

	a.logger.Info("removed priced pages", "item", itemLabel(item), "pages", pages)
	return scrubbed, nil
}

// buildOutline folds the appended pieces into the two-level bookmark
// tree: one root per equipment group at its title page, one kid per
// document at its recorded start page. A group whose title page went
// missing roots at its first document instead.
func buildOutline(pieces []piece) []Bookmark {
	var roots []Bookmark
	var tags []string
	for _, p := range pieces {
		if p.item.Type == types.ItemTitlePage {
			roots = append(roots, Bookmark{Title: p.item.BookmarkTitle(), PageFrom: p.start})
			tags = append(tags, p.item.Tag)
			continue
		}

		kid := Bookmark{Title: p.item.BookmarkTitle(), PageFrom: p.start}
		if len(roots) == 0 || tags[len(tags)-1] != p.item.Tag {
			// Orphaned document: synthesize a group root at the
			// document itself.
			roots = append(roots, Bookmark{Title: p.item.Tag, PageFrom: p.start, Kids: []Bookmark{kid}})
			tags = append(tags, p.item.Tag)
			continue
		}
		roots[len(roots)-1].Kids = append(roots[len(roots)-1].Kids, kid)
	}
	return roots
}

func entry(item types.PDFStructureItem, reason string) types.ManifestEntry {
	return types.ManifestEntry{
		Type:     item.Type,
		Tag:      item.Tag,
		Title:    item.BookmarkTitle(),
		Position: item.Position,
		Reason:   reason,
	}
}

func itemLabel(item types.PDFStructureItem) string {
	if item.Type == types.ItemTitlePage {
		return item.Tag + " (title page)"
	}
	return item.Filename
}

// WriteManifest persists the manifest next to the assembled output.
func WriteManifest(path string, m *types.Manifest) error {
	data, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding manifest: %w", err)
	}
	if err := os.WriteFile(path, append(data, '\n'), 0o644); err != nil {
		return fmt.Errorf("writing manifest: %w", err)
	}
	return nil
}
