// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package converter

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/pdiddy/submittal-engine/internal/httputil"
	"github.com/pdiddy/submittal-engine/pkg/types"
)

const (
	convertRoute = "/forms/libreoffice/convert"
	healthRoute  = "/health"
)

// GotenbergConverter renders documents through a Gotenberg service's
// LibreOffice route. The quality preset is translated into the route's
// image-compression form fields on every request.
type GotenbergConverter struct {
	baseURL    string
	client     *http.Client
	preset     QualityPreset
	maxRetries int
}

// NewGotenbergConverter builds a converter against the service at
// baseURL using the given quality mode. The timeout bounds a single
// conversion request, not the whole batch.
func NewGotenbergConverter(cfg types.ConverterConfig) (*GotenbergConverter, error) {
	preset, err := PresetFor(cfg.Quality)
	if err != nil {
		return nil, err
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 120 * time.Second
	}
	return &GotenbergConverter{
		baseURL:    cfg.GotenbergURL,
		client:     &http.Client{Timeout: timeout},
		preset:     preset,
		maxRetries: cfg.MaxRetries,
	}, nil
}

func (g *GotenbergConverter) Name() string { return "gotenberg" }

// Healthy probes the service health endpoint.
func (g *GotenbergConverter) Healthy(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, g.baseURL+healthRoute, nil)
	if err != nil {
		return fmt.Errorf("building health request: %w", err)
	}
	resp, err := g.client.Do(req)
	if err != nil {
		return fmt.Errorf("reaching conversion service at %s: %w", g.baseURL, err)
	}
	defer resp.Body.Close()
	io.Copy(io.Discard, resp.Body)

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("conversion service unhealthy: status %d", resp.StatusCode)
	}
	return nil
}

// Convert uploads the document and writes the returned PDF to
// outputPath. Transient service errors are retried with backoff.
func (g *GotenbergConverter) Convert(ctx context.Context, inputPath, outputPath string) error {
	body, contentType, err := g.buildForm(inputPath)
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, g.baseURL+convertRoute, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("building conversion request: %w", err)
	}
	req.Header.Set("Content-Type", contentType)

	resp, err := httputil.DoWithRetry(ctx, g.client, req, g.maxRetries)
	if err != nil {
		return fmt.Errorf("converting %s: %w", filepath.Base(inputPath), err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("converting %s: service returned status %d: %s",
			filepath.Base(inputPath), resp.StatusCode, bytes.TrimSpace(msg))
	}

	out, err := os.Create(outputPath)
	if err != nil {
		return fmt.Errorf("creating %s: %w", outputPath, err)
	}
	if _, err := io.Copy(out, resp.Body); err != nil {
		out.Close()
		os.Remove(outputPath)
		return fmt.Errorf("writing %s: %w", outputPath, err)
	}
	if err := out.Close(); err != nil {
		return fmt.Errorf("closing %s: %w", outputPath, err)
	}
	return nil
}

// buildForm assembles the multipart body: the document plus the
// image-compression fields derived from the quality preset.
func (g *GotenbergConverter) buildForm(inputPath string) ([]byte, string, error) {
	f, err := os.Open(inputPath)
	if err != nil {
		return nil, "", fmt.Errorf("opening %s: %w", inputPath, err)
	}
	defer f.Close()

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)

	part, err := mw.CreateFormFile("files", filepath.Base(inputPath))
	if err != nil {
		return nil, "", fmt.Errorf("building form: %w", err)
	}
	if _, err := io.Copy(part, f); err != nil {
		return nil, "", fmt.Errorf("reading %s: %w", inputPath, err)
	}

	fields := map[string]string{
		"quality":                  strconv.Itoa(g.preset.ImageQuality),
		"maxImageResolution":       strconv.Itoa(g.preset.MaxImageDPI),
		"reduceImageResolution":    "true",
		"losslessImageCompression": strconv.FormatBool(g.preset.Lossless),
	}
	for name, value := range fields {
		if err := mw.WriteField(name, value); err != nil {
			return nil, "", fmt.Errorf("building form: %w", err)
		}
	}

	if err := mw.Close(); err != nil {
		return nil, "", fmt.Errorf("building form: %w", err)
	}
	return buf.Bytes(), mw.FormDataContentType(), nil
}
