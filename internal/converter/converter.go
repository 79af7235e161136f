// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package converter turns office documents and images into PDFs with
// pluggable backends. The primary backend is a Gotenberg HTTP service;
// a local LibreOffice install serves as the fallback. Source files
// that are already PDFs pass through untouched.
package converter

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/pdiddy/submittal-engine/pkg/types"
)

// Converter transforms a single document into a PDF. Different
// backends (Gotenberg, local LibreOffice) implement this interface.
type Converter interface {
	// Convert renders the document at inputPath as a PDF at outputPath.
	Convert(ctx context.Context, inputPath, outputPath string) error

	// Healthy reports whether the backend can accept work.
	Healthy(ctx context.Context) error

	// Name returns the backend name for logs and progress output.
	Name() string
}

// convertibleExts lists the source extensions the backends accept.
var convertibleExts = map[string]bool{
	".doc":  true,
	".docx": true,
	".xls":  true,
	".xlsx": true,
	".ppt":  true,
	".pptx": true,
	".txt":  true,
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".gif":  true,
	".bmp":  true,
	".tif":  true,
	".tiff": true,
}

// Convertible reports whether the file needs conversion. PDFs never
// do; everything outside convertibleExts is unsupported.
func Convertible(name string) bool {
	return convertibleExts[strings.ToLower(filepath.Ext(name))]
}

// BatchResult holds the outcome of a batch conversion run.
type BatchResult struct {
	Converted int
	Skipped   int
	Failed    int

	// Mapping records source filename to converted PDF path for every
	// file that has a PDF after the run, including pass-through PDFs.
	Mapping map[string]string

	// Errors lists per-file failures keyed by source filename. A
	// failed conversion never aborts the batch.
	Errors map[string]error
}

// Total returns the total number of files processed.
func (r BatchResult) Total() int {
	return r.Converted + r.Skipped + r.Failed
}

// HasFailures reports whether any files failed conversion.
func (r BatchResult) HasFailures() bool {
	return r.Failed > 0
}

// Batch runs conversions with a bounded worker pool.
type Batch struct {
	conv    Converter
	outDir  string
	workers int
}

// NewBatch creates a batch runner writing converted PDFs to outDir.
// Workers below 1 are clamped to 1.
func NewBatch(conv Converter, outDir string, workers int) *Batch {
	if workers < 1 {
		workers = 1
	}
	return &Batch{conv: conv, outDir: outDir, workers: workers}
}

// outPath returns the converted PDF location for a source file.
func (b *Batch) outPath(name string) string {
	stem := strings.TrimSuffix(name, filepath.Ext(name))
	return filepath.Join(b.outDir, stem+".pdf")
}

// Run converts the batch, printing per-file status to w. Files whose
// converted PDF already exists are skipped, PDFs pass through, and
// unsupported extensions are ignored. Failures are recorded per file;
// the batch always runs to completion. Progress lines appear in input
// order regardless of which worker finishes first.
func (b *Batch) Run(ctx context.Context, files []types.RawFile, w io.Writer) (BatchResult, error) {
	if err := os.MkdirAll(b.outDir, 0o755); err != nil {
		return BatchResult{}, fmt.Errorf("creating output directory: %w", err)
	}

	type outcome struct {
		file   types.RawFile
		status string
		out    string
		err    error
	}

	outcomes := make([]outcome, len(files))
	sem := make(chan struct{}, b.workers)
	var wg sync.WaitGroup

	for i, f := range files {
		switch {
		case f.Ext() == ".pdf":
			outcomes[i] = outcome{file: f, status: "passthrough", out: f.Path}
			continue
		case !Convertible(f.Name):
			outcomes[i] = outcome{file: f, status: "unsupported"}
			continue
		}

		out := b.outPath(f.Name)
		if _, err := os.Stat(out); err == nil {
			outcomes[i] = outcome{file: f, status: "skipped", out: out}
			continue
		}

		wg.Add(1)
		go func(i int, f types.RawFile, out string) {
			defer wg.Done()
			sem <- struct{}{}
			defer func() { <-sem }()

			if err := ctx.Err(); err != nil {
				outcomes[i] = outcome{file: f, status: "failed", err: err}
				return
			}
			if err := b.conv.Convert(ctx, f.Path, out); err != nil {
				outcomes[i] = outcome{file: f, status: "failed", err: err}
				return
			}
			outcomes[i] = outcome{file: f, status: "converted", out: out}
		}(i, f, out)
	}
	wg.Wait()

	result := BatchResult{
		Mapping: make(map[string]string),
		Errors:  make(map[string]error),
	}
	for _, o := range outcomes {
		switch o.status {
		case "converted":
			result.Converted++
			result.Mapping[o.file.Name] = o.out
			fmt.Fprintf(w, "converted: %s\n", o.file.Name)
		case "skipped":
			result.Skipped++
			result.Mapping[o.file.Name] = o.out
			fmt.Fprintf(w, "skipped: %s (already exists)\n", o.file.Name)
		case "passthrough":
			result.Skipped++
			result.Mapping[o.file.Name] = o.out
			fmt.Fprintf(w, "passthrough: %s\n", o.file.Name)
		case "unsupported":
			fmt.Fprintf(w, "unsupported: %s\n", o.file.Name)
		case "failed":
			result.Failed++
			result.Errors[o.file.Name] = o.err
			fmt.Fprintf(w, "failed:  %s (%v)\n", o.file.Name, o.err)
		}
	}

	fmt.Fprintf(w, "\nBatch summary: %d converted, %d skipped, %d failed (total: %d)\n",
		result.Converted, result.Skipped, result.Failed, result.Total())
	return result, nil
}

// WriteMapping persists the source-to-PDF table so later assembly runs
// can locate converted files without re-running conversion.
func WriteMapping(path string, mapping map[string]string) error {
	data, err := json.MarshalIndent(mapping, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding conversion mapping: %w", err)
	}
	if err := os.WriteFile(path, append(data, '\n'), 0o644); err != nil {
		return fmt.Errorf("writing conversion mapping: %w", err)
	}
	return nil
}

// ReadMapping loads a previously written mapping file. A missing file
// yields an empty mapping.
func ReadMapping(path string) (map[string]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return map[string]string{}, nil
		}
		return nil, fmt.Errorf("reading conversion mapping: %w", err)
	}
	var mapping map[string]string
	if err := json.Unmarshal(data, &mapping); err != nil {
		return nil, fmt.Errorf("parsing conversion mapping %s: %w", path, err)
	}
	return mapping, nil
}
