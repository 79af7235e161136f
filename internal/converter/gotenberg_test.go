// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package converter

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/submittal-engine/internal/httputil"
	"github.com/pdiddy/submittal-engine/pkg/types"
)

func init() {
	httputil.RetryBaseDelay = 1 * time.Millisecond
}

func gotenbergConfig(url string) types.ConverterConfig {
	return types.ConverterConfig{
		Backend:      types.BackendGotenberg,
		GotenbergURL: url,
		Quality:      types.QualityHigh,
		Timeout:      5 * time.Second,
		MaxRetries:   2,
	}
}

func TestGotenbergConvert(t *testing.T) {
	var gotFields map[string]string
	var gotFilename string

	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != convertRoute {
			http.NotFound(w, r)
			return
		}
		require.NoError(t, r.ParseMultipartForm(1<<20))
		gotFields = map[string]string{}
		for name, values := range r.MultipartForm.Value {
			gotFields[name] = values[0]
		}
		if fhs := r.MultipartForm.File["files"]; len(fhs) == 1 {
			gotFilename = fhs[0].Filename
		}
		w.Write([]byte("%PDF-1.7 converted"))
	}))
	defer ts.Close()

	conv, err := NewGotenbergConverter(gotenbergConfig(ts.URL))
	require.NoError(t, err)

	src := filepath.Join(t.TempDir(), "AHU-1 - Technical Data Sheet.docx")
	require.NoError(t, os.WriteFile(src, []byte("doc bytes"), 0o644))
	out := filepath.Join(t.TempDir(), "AHU-1 - Technical Data Sheet.pdf")

	require.NoError(t, conv.Convert(context.Background(), src, out))

	data, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.Equal(t, "%PDF-1.7 converted", string(data))

	assert.Equal(t, "AHU-1 - Technical Data Sheet.docx", gotFilename)
	assert.Equal(t, "100", gotFields["quality"])
	assert.Equal(t, "600", gotFields["maxImageResolution"])
	assert.Equal(t, "true", gotFields["losslessImageCompression"])
}

func TestGotenbergConvertRetriesBusyService(t *testing.T) {
	var calls int32
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		if atomic.AddInt32(&calls, 1) == 1 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		w.Write([]byte("%PDF"))
	}))
	defer ts.Close()

	conv, err := NewGotenbergConverter(gotenbergConfig(ts.URL))
	require.NoError(t, err)

	src := filepath.Join(t.TempDir(), "a.docx")
	require.NoError(t, os.WriteFile(src, []byte("doc"), 0o644))
	out := filepath.Join(t.TempDir(), "a.pdf")

	require.NoError(t, conv.Convert(context.Background(), src, out))
	assert.Equal(t, int32(2), atomic.LoadInt32(&calls))
}

func TestGotenbergConvertServiceError(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "unsupported format", http.StatusUnprocessableEntity)
	}))
	defer ts.Close()

	conv, err := NewGotenbergConverter(gotenbergConfig(ts.URL))
	require.NoError(t, err)

	src := filepath.Join(t.TempDir(), "a.docx")
	require.NoError(t, os.WriteFile(src, []byte("doc"), 0o644))
	out := filepath.Join(t.TempDir(), "a.pdf")

	err = conv.Convert(context.Background(), src, out)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "422")
	assert.Contains(t, err.Error(), "unsupported format")

	// No partial output left behind.
	_, statErr := os.Stat(out)
	assert.True(t, os.IsNotExist(statErr))
}

func TestGotenbergHealthy(t *testing.T) {
	healthy := true
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != healthRoute {
			http.NotFound(w, r)
			return
		}
		if !healthy {
			w.WriteHeader(http.StatusServiceUnavailable)
		}
	}))
	defer ts.Close()

	conv, err := NewGotenbergConverter(gotenbergConfig(ts.URL))
	require.NoError(t, err)

	assert.NoError(t, conv.Healthy(context.Background()))

	healthy = false
	assert.Error(t, conv.Healthy(context.Background()))
}

func TestNewGotenbergConverterRejectsBadQuality(t *testing.T) {
	cfg := gotenbergConfig("http://localhost:3000")
	cfg.Quality = "ultra"
	_, err := NewGotenbergConverter(cfg)
	assert.Error(t, err)
}
