// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var mergeCmd = &cobra.Command{
	Use:   "merge [docs-dir]",
	Short: "Re-reconcile the structure file with the docs directory",
	Long: `Merge regenerates the structure from the current docs directory and
reconciles it with the persisted structure file, preserving manual edits
to titles and include flags. New files are slotted into position and
removed files drop out.

Unlike extract, merge requires an existing structure file: it refuses to
run when there is nothing to reconcile against.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runMerge,
}

func init() {
	mergeCmd.Flags().String("mode", "", "tag extraction mode: filename or content")
	mergeCmd.Flags().Float64("threshold", 0, "minimum confidence for accepting a tag")
	mergeCmd.Flags().Bool("pricing-filter", true, "exclude pricing documents from the output")
	mergeCmd.Flags().Bool("filename-trust", true, "trust filenames when deciding what to content-scan for pricing")
	mergeCmd.Flags().String("structure-file", "", "structure file path (default: <docs-dir>/submittal-structure.json)")
	mergeCmd.Flags().String("family-order-file", "", "YAML file with a site-specific equipment family priority table")

	rootCmd.AddCommand(mergeCmd)
}

func runMerge(cmd *cobra.Command, args []string) error {
	cfg, err := pipelineConfig(cmd)
	if err != nil {
		return err
	}
	docsDir := docsDirArg(args, &cfg)

	if _, err := loadStructure(cfg, docsDir); err != nil {
		return err
	}

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

	fmt.Printf("Merged %s: %d items (%d groups, %d documents, %d cut sheets)\n",
		store.Path(), len(s.Items), s.Metadata.TitlePages, s.Metadata.Documents, s.Metadata.CutSheets)
	return nil
}
