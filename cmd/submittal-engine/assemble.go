// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/pdiddy/submittal-engine/internal/assemble"
	"github.com/pdiddy/submittal-engine/internal/converter"
	"github.com/pdiddy/submittal-engine/internal/history"
	"github.com/pdiddy/submittal-engine/internal/pricing"
	"github.com/pdiddy/submittal-engine/pkg/types"
)

// pricePageScanner adapts the pricing package to the assembler's
// PageScrubber, shifting its 0-based indexes to 1-based page numbers.
type pricePageScanner struct{}

func (pricePageScanner) PricedPages(path string) ([]int, error) {
	indexes, err := pricing.PricedPages(path)
	if err != nil {
		return nil, err
	}
	pages := make([]int, len(indexes))
	for i, idx := range indexes {
		pages[i] = idx + 1
	}
	return pages, nil
}

var assembleCmd = &cobra.Command{
	Use:   "assemble [docs-dir]",
	Short: "Merge the structure into the final submittal PDF",
	Long: `Assemble reads the structure file, locates the converted PDF for every
included item, generates section title pages, and merges everything into a
single bookmarked submittal. A manifest accounting for every item is
written next to the output, and the run is recorded in the history
database.

Missing or broken documents are reported in the manifest and skipped;
assembly fails only when nothing can be merged at all.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runAssemble,
}

func init() {
	assembleCmd.Flags().String("structure-file", "", "structure file path (default: <docs-dir>/submittal-structure.json)")
	assembleCmd.Flags().String("output", "", "output PDF path (default: <output-dir>/<docs-dir-name>_submittal.pdf)")
	assembleCmd.Flags().String("output-dir", "", "output directory")
	assembleCmd.Flags().String("converted-dir", "", "directory holding converted PDFs")
	assembleCmd.Flags().String("title-pages-dir", "", "directory for generated title pages")
	assembleCmd.Flags().String("history-db", "", "run-history database path")

	rootCmd.AddCommand(assembleCmd)
}

func runAssemble(cmd *cobra.Command, args []string) error {
	cfg, err := pipelineConfig(cmd)
	if err != nil {
		return err
	}
	docsDir := docsDirArg(args, &cfg)

	s, err := loadStructure(cfg, docsDir)
	if err != nil {
		return err
	}

	outPath, _ := cmd.Flags().GetString("output")
	manifest, err := assembleStructure(cmd.Context(), cfg, docsDir, s, outPath)
	if err != nil {
		return err
	}

	fmt.Printf("Manifest: %d included, %d excluded, %d failed\n",
		manifest.Summary.Included, manifest.Summary.Excluded, manifest.Summary.Failed)
	if manifest.HasFailures() {
		return fmt.Errorf("%d item(s) failed assembly, see the manifest", manifest.Summary.Failed)
	}
	return nil
}

// assembleStructure wires the assembly collaborators and runs the
// merge. An empty outPath derives the output name from the docs
// directory.
func assembleStructure(ctx context.Context, cfg types.PipelineConfig, docsDir string, s *types.PDFStructure, outPath string) (*types.Manifest, error) {
	acfg := cfg.Assembly
	acfg.DocsDir = docsDir
	acfg.ConvertedDir = anchorDir(acfg.ConvertedDir, docsDir)
	acfg.TitlePagesDir = anchorDir(acfg.TitlePagesDir, docsDir)
	acfg.OutputDir = anchorDir(acfg.OutputDir, docsDir)

	mapping, err := converter.ReadMapping(anchorDir(acfg.MappingFile, docsDir))
	if err != nil {
		return nil, err
	}

	if outPath == "" {
		outPath = filepath.Join(acfg.OutputDir, outputName(docsDir))
	}

	a := assemble.NewAssembler(
		acfg,
		assemble.NewEngine(),
		assemble.NewPathResolver(acfg, mapping),
		assemble.NewTitlePages(acfg.TitlePagesDir),
		pricePageScanner{},
		logger,
		os.Stdout,
	)

	manifest, err := a.Assemble(ctx, s, outPath)
	if err != nil {
		return nil, err
	}

	manifestPath := strings.TrimSuffix(outPath, filepath.Ext(outPath)) + "_manifest.json"
	if err := assemble.WriteManifest(manifestPath, manifest); err != nil {
		return nil, err
	}

	if err := recordRun(ctx, cfg, docsDir, manifest); err != nil {
		// History is bookkeeping; never fail the run over it.
		logger.Warn("recording run history failed", "error", err)
	}
	return manifest, nil
}

func recordRun(ctx context.Context, cfg types.PipelineConfig, docsDir string, m *types.Manifest) error {
	store, err := history.NewStore(types.HistoryConfig{
		DBPath: anchorDir(cfg.History.DBPath, docsDir),
	})
	if err != nil {
		return err
	}
	defer store.Close()
	return store.Record(ctx, m)
}

// outputName derives the submittal filename from the docs directory,
// stamped so successive runs never overwrite each other.
func outputName(docsDir string) string {
	base := filepath.Base(filepath.Clean(docsDir))
	if base == "." || base == string(filepath.Separator) {
		base = "submittal"
	}
	return fmt.Sprintf("%s_submittal_%s.pdf", base, time.Now().Format("20060102_150405"))
}
