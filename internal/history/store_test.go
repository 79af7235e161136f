// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package history

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/submittal-engine/pkg/types"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := NewStore(types.HistoryConfig{
		DBPath: filepath.Join(t.TempDir(), "submittal-history.db"),
	})
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func sampleManifest(runID string, generatedAt time.Time) *types.Manifest {
	m := &types.Manifest{
		RunID:       runID,
		OutputPath:  "/output/submittal.pdf",
		GeneratedAt: generatedAt,
		Included: []types.ManifestEntry{
			{Type: types.ItemTitlePage, Tag: "AHU-1", Title: "AHU-1", Position: 1, StartPage: 1, EndPage: 1},
			{Type: types.ItemDocument, Tag: "AHU-1", Title: "AHU-1 - Technical Data Sheet.docx", Position: 2, StartPage: 2, EndPage: 5},
		},
		ExcludedByDesign: []types.ManifestEntry{
			{Type: types.ItemDocument, Tag: "AHU-1", Title: "AHU-1 - Item Summary.docx", Position: 3, Reason: "pricing filter"},
		},
		Failed: []types.ManifestEntry{
			{Type: types.ItemDocument, Tag: "AHU-1", Title: "AHU-1 - Broken.docx", Position: 4, Reason: "conversion missing"},
		},
	}
	m.Summarize()
	m.Summary.TotalPages = 5
	return m
}

func TestRecordAndGet(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	want := sampleManifest("run-1", time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC))
	require.NoError(t, s.Record(ctx, want))

	got, err := s.Get(ctx, "run-1")
	require.NoError(t, err)

	assert.Equal(t, want.OutputPath, got.OutputPath)
	assert.True(t, want.GeneratedAt.Equal(got.GeneratedAt))
	assert.Equal(t, want.Included, got.Included)
	assert.Equal(t, want.ExcludedByDesign, got.ExcludedByDesign)
	assert.Equal(t, want.Failed, got.Failed)
	assert.Equal(t, 5, got.Summary.TotalPages)
	assert.Equal(t, 4, got.Summary.TotalItems)
}

func TestRecordReplacesRun(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	m := sampleManifest("run-1", time.Now().UTC())
	require.NoError(t, s.Record(ctx, m))

	// Re-record with the failure fixed.
	m.Included = append(m.Included, m.Failed[0])
	m.Included[len(m.Included)-1].Reason = ""
	m.Failed = nil
	m.Summarize()
	require.NoError(t, s.Record(ctx, m))

	got, err := s.Get(ctx, "run-1")
	require.NoError(t, err)
	assert.Len(t, got.Included, 3)
	assert.Empty(t, got.Failed)
}

func TestRecentOrdering(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	base := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)
	for i, id := range []string{"run-a", "run-b", "run-c"} {
		require.NoError(t, s.Record(ctx, sampleManifest(id, base.Add(time.Duration(i)*time.Hour))))
	}

	runs, err := s.Recent(ctx, 2)
	require.NoError(t, err)
	require.Len(t, runs, 2)
	assert.Equal(t, "run-c", runs[0].RunID)
	assert.Equal(t, "run-b", runs[1].RunID)
	assert.Equal(t, 2, runs[0].Included)
	assert.Equal(t, 1, runs[0].Failed)
}

func TestGetUnknownRun(t *testing.T) {
	s := newTestStore(t)
	_, err := s.Get(context.Background(), "no-such-run")
	assert.Error(t, err)
}
