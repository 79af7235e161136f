// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package converter

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"github.com/pdiddy/submittal-engine/pkg/types"
)

const (
	binLibreOffice = "libreoffice"
	binSoffice     = "soffice"
)

// executor abstracts command execution for testing.
type executor interface {
	LookPath(file string) (string, error)
	Run(ctx context.Context, name string, args ...string) error
}

// osExecutor is the production executor backed by os/exec.
type osExecutor struct{}

func (o *osExecutor) LookPath(file string) (string, error) {
	return exec.LookPath(file)
}

func (o *osExecutor) Run(ctx context.Context, name string, args ...string) error {
	var stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		if msg := strings.TrimSpace(stderr.String()); msg != "" {
			return fmt.Errorf("%w: %s", err, msg)
		}
		return err
	}
	return nil
}

var defaultExec executor = &osExecutor{}

// LibreOfficeConverter converts documents by invoking a local
// LibreOffice install in headless mode. It serves as the fallback when
// no Gotenberg service is reachable. Each invocation runs under the
// configured timeout so a wedged soffice process never stalls the
// batch, and failed invocations are retried up to the configured
// bound.
type LibreOfficeConverter struct {
	bin        string
	exec       executor
	timeout    time.Duration
	maxRetries int
}

// NewLibreOfficeConverter locates the LibreOffice binary on PATH,
// trying libreoffice first and soffice second. The timeout bounds a
// single invocation, not the whole batch.
func NewLibreOfficeConverter(cfg types.ConverterConfig) (*LibreOfficeConverter, error) {
	return newLibreOfficeConverter(defaultExec, cfg)
}

func newLibreOfficeConverter(exec executor, cfg types.ConverterConfig) (*LibreOfficeConverter, error) {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 120 * time.Second
	}
	retries := cfg.MaxRetries
	if retries < 0 {
		retries = 0
	}
	for _, bin := range []string{binLibreOffice, binSoffice} {
		if _, err := exec.LookPath(bin); err == nil {
			return &LibreOfficeConverter{bin: bin, exec: exec, timeout: timeout, maxRetries: retries}, nil
		}
	}
	return nil, fmt.Errorf("no LibreOffice binary found: tried %s and %s", binLibreOffice, binSoffice)
}

func (l *LibreOfficeConverter) Name() string { return l.bin }

// Healthy reports whether the binary is still on PATH.
func (l *LibreOfficeConverter) Healthy(_ context.Context) error {
	if _, err := l.exec.LookPath(l.bin); err != nil {
		return fmt.Errorf("%s no longer on PATH: %w", l.bin, err)
	}
	return nil
}

// Convert runs a headless conversion. LibreOffice always names its
// output after the input stem, so the result is renamed to outputPath
// when the two differ.
func (l *LibreOfficeConverter) Convert(ctx context.Context, inputPath, outputPath string) error {
	outDir := filepath.Dir(outputPath)

	var err error
	for attempt := 0; attempt <= l.maxRetries; attempt++ {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		if err = l.run(ctx, outDir, inputPath); err == nil {
			break
		}
	}
	if err != nil {
		return fmt.Errorf("converting %s with %s: %w", filepath.Base(inputPath), l.bin, err)
	}

	stem := strings.TrimSuffix(filepath.Base(inputPath), filepath.Ext(inputPath))
	produced := filepath.Join(outDir, stem+".pdf")
	if produced == outputPath {
		return nil
	}
	if err := os.Rename(produced, outputPath); err != nil {
		return fmt.Errorf("moving converted output: %w", err)
	}
	return nil
}

// run executes one invocation under its own deadline.
func (l *LibreOfficeConverter) run(ctx context.Context, outDir, inputPath string) error {
	runCtx, cancel := context.WithTimeout(ctx, l.timeout)
	defer cancel()
	return l.exec.Run(runCtx, l.bin,
		"--headless", "--convert-to", "pdf", "--outdir", outDir, inputPath)
}
