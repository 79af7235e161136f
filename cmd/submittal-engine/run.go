// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var runCmd = &cobra.Command{
	Use:   "run [docs-dir]",
	Short: "Run the whole pipeline: extract, convert, assemble",
	Long: `Run executes the full submittal pipeline against a docs directory:
structure extraction, document conversion, and final assembly. It is
equivalent to running the three subcommands in sequence with shared
configuration.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runPipeline,
}

func init() {
	runCmd.Flags().String("mode", "", "tag extraction mode: filename or content")
	runCmd.Flags().Float64("threshold", 0, "minimum confidence for accepting a tag")
	runCmd.Flags().Bool("pricing-filter", true, "exclude pricing documents from the output")
	runCmd.Flags().Bool("filename-trust", true, "trust filenames when deciding what to content-scan for pricing")
	runCmd.Flags().String("structure-file", "", "structure file path (default: <docs-dir>/submittal-structure.json)")
	runCmd.Flags().String("family-order-file", "", "YAML file with a site-specific equipment family priority table")
	runCmd.Flags().String("backend", "", "conversion backend: gotenberg or libreoffice")
	runCmd.Flags().String("gotenberg-url", "", "Gotenberg service base URL")
	runCmd.Flags().String("quality", "", "quality preset: fast, balanced, high, or maximum")
	runCmd.Flags().Int("workers", 0, "concurrent conversions")
	runCmd.Flags().String("converted-dir", "", "output directory for converted PDFs")
	runCmd.Flags().String("title-pages-dir", "", "directory for generated title pages")
	runCmd.Flags().String("output", "", "output PDF path")
	runCmd.Flags().String("output-dir", "", "output directory")
	runCmd.Flags().String("history-db", "", "run-history database path")

	rootCmd.AddCommand(runCmd)
}

func runPipeline(cmd *cobra.Command, args []string) error {
	cfg, err := pipelineConfig(cmd)
	if err != nil {
		return err
	}
	docsDir := docsDirArg(args, &cfg)
	ctx := cmd.Context()

	files, err := listDocs(docsDir)
	if err != nil {
		return err
	}
	if len(files) == 0 {
		return fmt.Errorf("no documents found in %s", docsDir)
	}

	fmt.Println("==> Extracting structure")
	s, store, err := buildStructure(cfg, docsDir, files)
	if err != nil {
		return err
	}
	if err := store.Save(s); err != nil {
		return err
	}
	fmt.Printf("Wrote %s: %d items\n\n", store.Path(), len(s.Items))

	fmt.Println("==> Converting documents")
	convResult, err := convertDocs(ctx, cfg, docsDir, files)
	if err != nil {
		return err
	}
	fmt.Println()

	fmt.Println("==> Assembling submittal")
	outPath, _ := cmd.Flags().GetString("output")
	manifest, err := assembleStructure(ctx, cfg, docsDir, s, outPath)
	if err != nil {
		return err
	}

	fmt.Printf("\nOutput: %s (%d pages)\n", manifest.OutputPath, manifest.Summary.TotalPages)
	if convResult.HasFailures() || manifest.HasFailures() {
		return fmt.Errorf("pipeline finished with failures: %d conversion, %d assembly",
			convResult.Failed, manifest.Summary.Failed)
	}
	return nil
}
