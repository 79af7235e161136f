// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/pdiddy/submittal-engine/internal/pricing"
	"github.com/pdiddy/submittal-engine/internal/structure"
	"github.com/pdiddy/submittal-engine/internal/tagging"
	"github.com/pdiddy/submittal-engine/internal/textextract"
	"github.com/pdiddy/submittal-engine/pkg/types"
)

var extractCmd = &cobra.Command{
	Use:   "extract [docs-dir]",
	Short: "Scan documents and build the submittal structure",
	Long: `Extract scans the docs directory, resolves an equipment tag for every
document, classifies each by type, flags pricing material, and writes the
ordered submittal structure file.

When a structure file already exists, manual edits to titles and include
flags are preserved across re-runs; new files are slotted into position
and removed files drop out.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runExtract,
}

func init() {
	extractCmd.Flags().String("mode", "", "tag extraction mode: filename or content")
	extractCmd.Flags().Float64("threshold", 0, "minimum confidence for accepting a tag")
	extractCmd.Flags().Bool("pricing-filter", true, "exclude pricing documents from the output")
	extractCmd.Flags().Bool("filename-trust", true, "trust filenames when deciding what to content-scan for pricing")
	extractCmd.Flags().String("structure-file", "", "structure file path (default: <docs-dir>/submittal-structure.json)")
	extractCmd.Flags().String("family-order-file", "", "YAML file with a site-specific equipment family priority table")

	rootCmd.AddCommand(extractCmd)
}

func runExtract(cmd *cobra.Command, args []string) error {
	cfg, err := pipelineConfig(cmd)
	if err != nil {
		return err
	}
	docsDir := docsDirArg(args, &cfg)

	files, err := listDocs(docsDir)
	if err != nil {
		return err
	}
	if len(files) == 0 {
		return fmt.Errorf("no documents found in %s", docsDir)
	}

	s, store, err := buildStructure(cfg, docsDir, files)
	if err != nil {
		return err
	}
	if err := store.Save(s); err != nil {
		return err
	}

	fmt.Printf("Wrote %s: %d items (%d groups, %d documents, %d cut sheets)\n",
		store.Path(), len(s.Items), s.Metadata.TitlePages, s.Metadata.Documents, s.Metadata.CutSheets)
	if s.Metadata.PricingFilterEnabled {
		excluded := 0
		for _, item := range s.Items {
			if item.PricingFile && !item.Include {
				excluded++
			}
		}
		if excluded > 0 {
			fmt.Printf("Pricing filter excluded %d document(s)\n", excluded)
		}
	}
	return nil
}

// buildStructure wires the extraction collaborators, generates a fresh
// structure for the batch, and merges in any persisted edits.
func buildStructure(cfg types.PipelineConfig, docsDir string, files []types.RawFile) (*types.PDFStructure, *structure.Store, error) {
	chain := textextract.NewChain()
	resolver := tagging.NewResolver(cfg.Tagging, chain, logger)
	filter := pricing.NewFilter(cfg.Structure.FilenameTrustMode, chain, logger)
	gen := structure.NewGenerator(cfg.Structure, cfg.Tagging, resolver, filter, logger)

	store := structure.NewStore(structureFilePath(cfg, docsDir))

	var prior *types.PDFStructure
	if store.Exists() {
		loaded, err := store.Load()
		if err != nil {
			return nil, nil, fmt.Errorf("existing structure is unusable, fix or remove it: %w", err)
		}
		prior = loaded
	}

	s, err := gen.Generate(files, prior)
	if err != nil {
		return nil, nil, err
	}
	return s, store, nil
}

// structureFilePath anchors a relative structure file in the docs
// directory.
func structureFilePath(cfg types.PipelineConfig, docsDir string) string {
	if filepath.IsAbs(cfg.Structure.StructureFile) {
		return cfg.Structure.StructureFile
	}
	return filepath.Join(docsDir, cfg.Structure.StructureFile)
}

// loadStructure reads the persisted structure, failing with a hint
// when extract has not run yet.
func loadStructure(cfg types.PipelineConfig, docsDir string) (*types.PDFStructure, error) {
	store := structure.NewStore(structureFilePath(cfg, docsDir))
	s, err := store.Load()
	if errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("no structure file at %s: run extract first", store.Path())
	}
	return s, err
}
