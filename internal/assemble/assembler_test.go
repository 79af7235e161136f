// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package assemble

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/submittal-engine/pkg/types"
)

// fakeEngine records operations and serves canned page counts.
type fakeEngine struct {
	pageCounts map[string]int
	merged     []string
	mergedTo   string
	outline    []Bookmark
	removed    map[string][]int
}

func newFakeEngine() *fakeEngine {
	return &fakeEngine{pageCounts: map[string]int{}, removed: map[string][]int{}}
}

func (e *fakeEngine) PageCount(path string) (int, error) {
	n, ok := e.pageCounts[path]
	if !ok {
		return 0, fmt.Errorf("unreadable PDF %s", path)
	}
	return n, nil
}

func (e *fakeEngine) Merge(inputs []string, outPath string) error {
	e.merged = append([]string{}, inputs...)
	e.mergedTo = outPath
	return nil
}

func (e *fakeEngine) AddBookmarks(_ string, roots []Bookmark) error {
	e.outline = roots
	return nil
}

func (e *fakeEngine) RemovePages(inPath, outPath string, pages []int) error {
	e.removed[inPath] = pages
	// The scrubbed copy has the remaining pages.
	e.pageCounts[outPath] = e.pageCounts[inPath] - len(pages)
	return nil
}

// fakePaths resolves items from a canned table.
type fakePaths struct {
	paths map[string]string
}

func (f *fakePaths) Resolve(item types.PDFStructureItem) (string, error) {
	p, ok := f.paths[item.Filename]
	if !ok {
		return "", fmt.Errorf("no PDF found for %s", item.Filename)
	}
	return p, nil
}

// fakeTitles hands out deterministic divider paths.
type fakeTitles struct {
	err error
}

func (f *fakeTitles) Generate(tag, _ string) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	return "/titles/" + tag + ".pdf", nil
}

// fakeScrubber reports priced pages from a canned table.
type fakeScrubber struct {
	pages map[string][]int
}

func (f *fakeScrubber) PricedPages(path string) ([]int, error) {
	return f.pages[path], nil
}

func testStructure() *types.PDFStructure {
	s := &types.PDFStructure{
		Items: []types.PDFStructureItem{
			{Type: types.ItemTitlePage, Tag: "MAU-5", Title: "MAU-5", Position: 1, Include: true},
			{Type: types.ItemDocument, Tag: "MAU-5", Filename: "MAU-5 - Technical Data Sheet.docx", Position: 2, Include: true},
			{Type: types.ItemTitlePage, Tag: "AHU-1", Title: "AHU-1", Position: 3, Include: true},
			{Type: types.ItemDocument, Tag: "AHU-1", Filename: "AHU-1 - Technical Data Sheet.docx", Position: 4, Include: true},
			{Type: types.ItemDocument, Tag: "AHU-1", Filename: "AHU-1 - Fan Curve.jpg", Position: 5, Include: true},
		},
	}
	s.Recount()
	return s
}

func testCollaborators() (*fakeEngine, *fakePaths) {
	engine := newFakeEngine()
	engine.pageCounts["/titles/MAU-5.pdf"] = 1
	engine.pageCounts["/titles/AHU-1.pdf"] = 1
	engine.pageCounts["/pdfs/mau5-tds.pdf"] = 3
	engine.pageCounts["/pdfs/ahu1-tds.pdf"] = 4
	engine.pageCounts["/pdfs/ahu1-fan.pdf"] = 2

	paths := &fakePaths{paths: map[string]string{
		"MAU-5 - Technical Data Sheet.docx": "/pdfs/mau5-tds.pdf",
		"AHU-1 - Technical Data Sheet.docx": "/pdfs/ahu1-tds.pdf",
		"AHU-1 - Fan Curve.jpg":             "/pdfs/ahu1-fan.pdf",
	}}
	return engine, paths
}

func newTestAssembler(t *testing.T, engine Engine, paths PathSource, scrubber PageScrubber) (*Assembler, *bytes.Buffer) {
	t.Helper()
	var progress bytes.Buffer
	cfg := types.AssemblyConfig{OutputDir: t.TempDir()}
	a := NewAssembler(cfg, engine, paths, &fakeTitles{}, scrubber, nil, &progress)
	return a, &progress
}

func TestAssemble(t *testing.T) {
	engine, paths := testCollaborators()
	a, progress := newTestAssembler(t, engine, paths, nil)
	out := filepath.Join(t.TempDir(), "submittal.pdf")

	manifest, err := a.Assemble(context.Background(), testStructure(), out)
	require.NoError(t, err)

	// Inputs merged in position order.
	assert.Equal(t, []string{
		"/titles/MAU-5.pdf",
		"/pdfs/mau5-tds.pdf",
		"/titles/AHU-1.pdf",
		"/pdfs/ahu1-tds.pdf",
		"/pdfs/ahu1-fan.pdf",
	}, engine.merged)
	assert.Equal(t, out, engine.mergedTo)

	// Page bookkeeping: 1 + 3 + 1 + 4 + 2 = 11 pages.
	require.Len(t, manifest.Included, 5)
	wantPages := [][2]int{{1, 1}, {2, 4}, {5, 5}, {6, 9}, {10, 11}}
	for i, w := range wantPages {
		assert.Equal(t, w[0], manifest.Included[i].StartPage, "entry %d start", i)
		assert.Equal(t, w[1], manifest.Included[i].EndPage, "entry %d end", i)
	}
	assert.Equal(t, 11, manifest.Summary.TotalPages)
	assert.False(t, manifest.HasFailures())
	assert.NotEmpty(t, manifest.RunID)

	// Two-level outline: group roots at title pages, documents as kids.
	require.Len(t, engine.outline, 2)
	assert.Equal(t, "MAU-5", engine.outline[0].Title)
	assert.Equal(t, 1, engine.outline[0].PageFrom)
	require.Len(t, engine.outline[0].Kids, 1)
	assert.Equal(t, 2, engine.outline[0].Kids[0].PageFrom)

	assert.Equal(t, "AHU-1", engine.outline[1].Title)
	assert.Equal(t, 5, engine.outline[1].PageFrom)
	require.Len(t, engine.outline[1].Kids, 2)
	assert.Equal(t, "AHU-1 - Technical Data Sheet.docx", engine.outline[1].Kids[0].Title)
	assert.Equal(t, 6, engine.outline[1].Kids[0].PageFrom)
	assert.Equal(t, 10, engine.outline[1].Kids[1].PageFrom)

	assert.Contains(t, progress.String(), "Assembled submittal.pdf: 5 items, 11 pages")
}

// A missing document is a manifest failure, never an abort; later
// items shift up to fill the gap.
func TestAssembleMissingDocument(t *testing.T) {
	engine, paths := testCollaborators()
	delete(paths.paths, "AHU-1 - Technical Data Sheet.docx")
	a, _ := newTestAssembler(t, engine, paths, nil)

	manifest, err := a.Assemble(context.Background(), testStructure(), filepath.Join(t.TempDir(), "out.pdf"))
	require.NoError(t, err)

	assert.True(t, manifest.HasFailures())
	require.Len(t, manifest.Failed, 1)
	assert.Equal(t, 4, manifest.Failed[0].Position)
	assert.Contains(t, manifest.Failed[0].Reason, "no PDF found")

	// The fan curve follows the AHU-1 title page directly: 1+3+1 = 5,
	// so it starts at page 6.
	last := manifest.Included[len(manifest.Included)-1]
	assert.Equal(t, 6, last.StartPage)
	assert.Equal(t, 7, last.EndPage)
}

// Excluded items appear in the manifest with a reason and consume no
// pages.
func TestAssembleExcludedItems(t *testing.T) {
	engine, paths := testCollaborators()
	s := testStructure()
	s.Items[4].Include = false // fan curve manually hidden
	s.Metadata.PricingFilterEnabled = true

	a, _ := newTestAssembler(t, engine, paths, nil)
	manifest, err := a.Assemble(context.Background(), s, filepath.Join(t.TempDir(), "out.pdf"))
	require.NoError(t, err)

	require.Len(t, manifest.ExcludedByDesign, 1)
	assert.Equal(t, "manually excluded", manifest.ExcludedByDesign[0].Reason)
	assert.Equal(t, 10, manifest.Summary.TotalPages)
	assert.Len(t, engine.merged, 4)
}

func TestAssemblePricingFileExclusionReason(t *testing.T) {
	engine, paths := testCollaborators()
	s := testStructure()
	s.Items[3].Include = false
	s.Items[3].PricingFile = true

	a, _ := newTestAssembler(t, engine, paths, nil)
	manifest, err := a.Assemble(context.Background(), s, filepath.Join(t.TempDir(), "out.pdf"))
	require.NoError(t, err)

	require.Len(t, manifest.ExcludedByDesign, 1)
	assert.Equal(t, "pricing filter", manifest.ExcludedByDesign[0].Reason)
}

// Priced pages inside included documents are stripped when the filter
// is on; the entry's page span reflects the scrubbed copy.
func TestAssembleScrubsPricedPages(t *testing.T) {
	engine, paths := testCollaborators()
	s := testStructure()
	s.Metadata.PricingFilterEnabled = true

	scrubber := &fakeScrubber{pages: map[string][]int{
		"/pdfs/ahu1-tds.pdf": {2, 3},
	}}
	a, _ := newTestAssembler(t, engine, paths, scrubber)

	manifest, err := a.Assemble(context.Background(), s, filepath.Join(t.TempDir(), "out.pdf"))
	require.NoError(t, err)

	assert.Equal(t, []int{2, 3}, engine.removed["/pdfs/ahu1-tds.pdf"])

	// 1 + 3 + 1 + (4-2) + 2 = 9 pages.
	assert.Equal(t, 9, manifest.Summary.TotalPages)

	// The scrubbed copy was merged, not the original.
	assert.NotContains(t, engine.merged, "/pdfs/ahu1-tds.pdf")
}

// With the filter disabled nothing is scanned or stripped.
func TestAssembleNoScrubWhenFilterDisabled(t *testing.T) {
	engine, paths := testCollaborators()
	scrubber := &fakeScrubber{pages: map[string][]int{
		"/pdfs/ahu1-tds.pdf": {2, 3},
	}}
	a, _ := newTestAssembler(t, engine, paths, scrubber)

	manifest, err := a.Assemble(context.Background(), testStructure(), filepath.Join(t.TempDir(), "out.pdf"))
	require.NoError(t, err)

	assert.Empty(t, engine.removed)
	assert.Equal(t, 11, manifest.Summary.TotalPages)
	assert.Contains(t, engine.merged, "/pdfs/ahu1-tds.pdf")
}

// A group whose title page fails still gets an outline root, anchored
// at its first document.
func TestAssembleTitlePageFailure(t *testing.T) {
	engine, paths := testCollaborators()
	var progress bytes.Buffer
	cfg := types.AssemblyConfig{OutputDir: t.TempDir()}
	a := NewAssembler(cfg, engine, paths, &fakeTitles{err: errors.New("render failed")}, nil, nil, &progress)

	manifest, err := a.Assemble(context.Background(), testStructure(), filepath.Join(t.TempDir(), "out.pdf"))
	require.NoError(t, err)

	assert.Len(t, manifest.Failed, 2)

	require.Len(t, engine.outline, 2)
	assert.Equal(t, "MAU-5", engine.outline[0].Title)
	assert.Equal(t, 1, engine.outline[0].PageFrom)
	require.Len(t, engine.outline[0].Kids, 1)
}

func TestAssembleNothingResolvable(t *testing.T) {
	engine := newFakeEngine()
	a, _ := newTestAssembler(t, engine, &fakePaths{paths: map[string]string{}}, nil)

	s := testStructure()
	_, err := a.Assemble(context.Background(), s, filepath.Join(t.TempDir(), "out.pdf"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "nothing to assemble")
}

func TestAssembleRejectsInvalidStructure(t *testing.T) {
	engine, paths := testCollaborators()
	a, _ := newTestAssembler(t, engine, paths, nil)

	s := testStructure()
	s.Items[2].Position = 9

	_, err := a.Assemble(context.Background(), s, filepath.Join(t.TempDir(), "out.pdf"))
	assert.Error(t, err)
}

func TestWriteManifest(t *testing.T) {
	engine, paths := testCollaborators()
	a, _ := newTestAssembler(t, engine, paths, nil)

	manifest, err := a.Assemble(context.Background(), testStructure(), filepath.Join(t.TempDir(), "out.pdf"))
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "manifest.json")
	require.NoError(t, WriteManifest(path, manifest))

	data := mustRead(t, path)
	assert.Contains(t, string(data), `"run_id"`)
	assert.Contains(t, string(data), `"total_pages": 11`)
}

func mustRead(t *testing.T, path string) []byte {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	return data
}
