// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package assemble

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
)

// Bookmark is one node of the output PDF's outline tree. Parents are
// equipment groups anchored at their title page; kids are the group's
// documents anchored at their first page.
type Bookmark struct {
	Title    string
	PageFrom int
	Kids     []Bookmark
}

// Engine performs the low-level PDF page operations behind assembly.
// Production uses pdfcpu; tests substitute a fake.
type Engine interface {
	// PageCount returns the number of pages in a PDF.
	PageCount(path string) (int, error)

	// Merge concatenates the inputs, in order, into outPath.
	Merge(inputs []string, outPath string) error

	// AddBookmarks writes the outline tree into the PDF at path,
	// replacing any existing outline.
	AddBookmarks(path string, roots []Bookmark) error

	// RemovePages copies inPath to outPath without the given 1-based
	// pages.
	RemovePages(inPath, outPath string, pages []int) error
}

// pdfcpuEngine is the production Engine.
type pdfcpuEngine struct {
	conf *model.Configuration
}

// NewEngine returns the pdfcpu-backed engine.
func NewEngine() Engine {
	conf := model.NewDefaultConfiguration()
	// Vendor PDFs are frequently malformed; keep going where possible.
	conf.ValidationMode = model.ValidationRelaxed
	return &pdfcpuEngine{conf: conf}
}

func (e *pdfcpuEngine) PageCount(path string) (int, error) {
	n, err := api.PageCountFile(path)
	if err != nil {
		return 0, fmt.Errorf("counting pages in %s: %w", filepath.Base(path), err)
	}
	return n, nil
}

func (e *pdfcpuEngine) Merge(inputs []string, outPath string) error {
	if err := api.MergeCreateFile(inputs, outPath, false, e.conf); err != nil {
		return fmt.Errorf("merging %d files into %s: %w", len(inputs), filepath.Base(outPath), err)
	}
	return nil
}

func (e *pdfcpuEngine) AddBookmarks(path string, roots []Bookmark) error {
	bms := make([]pdfcpu.Bookmark, len(roots))
	for i, b := range roots {
		bms[i] = toPdfcpu(b)
	}

	// pdfcpu writes a new file; go through a sibling temp path so a
	// failure never clobbers the merged output.
	tmp := path + ".outline"
	if err := api.AddBookmarksFile(path, tmp, bms, true, e.conf); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("adding bookmarks to %s: %w", filepath.Base(path), err)
	}
	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("replacing %s with bookmarked copy: %w", filepath.Base(path), err)
	}
	return nil
}

func toPdfcpu(b Bookmark) pdfcpu.Bookmark {
	out := pdfcpu.Bookmark{
		Title:    b.Title,
		PageFrom: b.PageFrom,
	}
	for _, kid := range b.Kids {
		out.Kids = append(out.Kids, toPdfcpu(kid))
	}
	return out
}

func (e *pdfcpuEngine) RemovePages(inPath, outPath string, pages []int) error {
	selected := make([]string, len(pages))
	for i, p := range pages {
		selected[i] = strconv.Itoa(p)
	}
	if err := api.RemovePagesFile(inPath, outPath, selected, e.conf); err != nil {
		return fmt.Errorf("removing %d pages from %s: %w", len(pages), filepath.Base(inPath), err)
	}
	return nil
}
