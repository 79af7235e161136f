// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package structure

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/submittal-engine/pkg/types"
)

func validStructure() *types.PDFStructure {
	s := &types.PDFStructure{
		Items: []types.PDFStructureItem{
			{Type: types.ItemTitlePage, Tag: "AHU-1", Title: "AHU-1", Position: 1, Include: true},
			docItem("AHU-1", "AHU-1 - Technical Data Sheet.docx", 2),
		},
	}
	s.Recount()
	return s
}

func TestStoreRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "submittal-structure.json")
	store := NewStore(path)

	assert.False(t, store.Exists())

	want := validStructure()
	require.NoError(t, store.Save(want))
	assert.True(t, store.Exists())

	got, err := store.Load()
	require.NoError(t, err)
	require.Len(t, got.Items, 2)
	assert.Equal(t, want.Items, got.Items)
	assert.Equal(t, want.Metadata.Documents, got.Metadata.Documents)
}

func TestStoreLoadMissing(t *testing.T) {
	store := NewStore(filepath.Join(t.TempDir(), "absent.json"))
	_, err := store.Load()
	assert.True(t, errors.Is(err, os.ErrNotExist))
}

func TestStoreLoadRejectsCorrupt(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"malformed json", `{"pdf_structure": [`},
		{"no items", `{"pdf_structure": [], "metadata": {}}`},
		{
			"position gap",
			`{"pdf_structure": [
				{"type": "title_page", "tag": "AHU-1", "title": "AHU-1", "position": 1, "include": true},
				{"type": "document", "tag": "AHU-1", "filename": "a.pdf", "position": 3, "include": true}
			], "metadata": {}}`,
		},
		{
			"duplicate key",
			`{"pdf_structure": [
				{"type": "document", "tag": "AHU-1", "filename": "a.pdf", "position": 1, "include": true},
				{"type": "document", "tag": "AHU-1", "filename": "a.pdf", "position": 2, "include": true}
			], "metadata": {}}`,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "structure.json")
			require.NoError(t, os.WriteFile(path, []byte(tt.content), 0o644))

			_, err := NewStore(path).Load()
			assert.Error(t, err)
		})
	}
}

func TestStoreSaveRejectsInvalid(t *testing.T) {
	store := NewStore(filepath.Join(t.TempDir(), "structure.json"))

	bad := validStructure()
	bad.Items[1].Position = 9

	err := store.Save(bad)
	assert.Error(t, err)
	assert.False(t, store.Exists())
}

// An empty structure never reaches disk, so Load's emptiness check
// cannot break the save/load round trip.
func TestStoreSaveRejectsEmpty(t *testing.T) {
	store := NewStore(filepath.Join(t.TempDir(), "structure.json"))

	err := store.Save(&types.PDFStructure{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no items")
	assert.False(t, store.Exists())
}

// Save replaces the target atomically, leaving no temp files around.
func TestStoreSaveReplaces(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "structure.json")
	store := NewStore(path)

	require.NoError(t, store.Save(validStructure()))

	updated := validStructure()
	updated.Items[1].Include = false
	updated.Recount()
	require.NoError(t, store.Save(updated))

	got, err := store.Load()
	require.NoError(t, err)
	assert.False(t, got.Items[1].Include)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "structure.json", entries[0].Name())
}
