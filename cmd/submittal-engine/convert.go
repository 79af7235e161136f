// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/pdiddy/submittal-engine/internal/converter"
	"github.com/pdiddy/submittal-engine/pkg/types"
)

var convertCmd = &cobra.Command{
	Use:   "convert [docs-dir]",
	Short: "Convert office documents and images to PDF",
	Long: `Convert renders every convertible document in the docs directory to PDF,
writing results to the converted directory and recording a filename-to-PDF
mapping for assembly. Documents that are already PDFs pass through.

The gotenberg backend posts documents to a Gotenberg service; the
libreoffice backend shells out to a local LibreOffice install.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runConvert,
}

func init() {
	convertCmd.Flags().String("backend", "", "conversion backend: gotenberg or libreoffice")
	convertCmd.Flags().String("gotenberg-url", "", "Gotenberg service base URL")
	convertCmd.Flags().String("quality", "", "quality preset: fast, balanced, high, or maximum")
	convertCmd.Flags().Int("workers", 0, "concurrent conversions")
	convertCmd.Flags().String("converted-dir", "", "output directory for converted PDFs")

	rootCmd.AddCommand(convertCmd)
}

func runConvert(cmd *cobra.Command, args []string) error {
	cfg, err := pipelineConfig(cmd)
	if err != nil {
		return err
	}
	docsDir := docsDirArg(args, &cfg)

	files, err := listDocs(docsDir)
	if err != nil {
		return err
	}

	result, err := convertDocs(cmd.Context(), cfg, docsDir, files)
	if err != nil {
		return err
	}
	if result.HasFailures() {
		return fmt.Errorf("%d document(s) failed conversion", result.Failed)
	}
	return nil
}

// convertDocs picks the backend, checks its health, runs the batch,
// and persists the conversion mapping.
func convertDocs(ctx context.Context, cfg types.PipelineConfig, docsDir string, files []types.RawFile) (converter.BatchResult, error) {
	conv, err := newConverter(cfg.Converter)
	if err != nil {
		return converter.BatchResult{}, err
	}
	if err := conv.Healthy(ctx); err != nil {
		return converter.BatchResult{}, fmt.Errorf("converter backend %s unavailable: %w", conv.Name(), err)
	}

	convertedDir := anchorDir(cfg.Assembly.ConvertedDir, docsDir)
	batch := converter.NewBatch(conv, convertedDir, cfg.Converter.Workers)

	result, err := batch.Run(ctx, files, os.Stdout)
	if err != nil {
		return result, err
	}

	mappingPath := anchorDir(cfg.Assembly.MappingFile, docsDir)
	if err := converter.WriteMapping(mappingPath, result.Mapping); err != nil {
		return result, err
	}
	return result, nil
}

func newConverter(cfg types.ConverterConfig) (converter.Converter, error) {
	switch cfg.Backend {
	case types.BackendGotenberg:
		return converter.NewGotenbergConverter(cfg)
	case types.BackendLibreOffice:
		return converter.NewLibreOfficeConverter(cfg)
	default:
		return nil, fmt.Errorf("unknown converter backend %q (want gotenberg or libreoffice)", cfg.Backend)
	}
}

// anchorDir resolves a possibly relative pipeline path against the
// docs directory.
func anchorDir(path, docsDir string) string {
	if filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(docsDir, path)
}
