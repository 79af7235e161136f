// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/submittal-engine/internal/structure"
	"github.com/pdiddy/submittal-engine/pkg/types"
)

// pipelineConfig materializes the layered configuration: built-in
// defaults, then the viper config file and environment, then whatever
// flags the invoked subcommand declares.
func pipelineConfig(cmd *cobra.Command) (types.PipelineConfig, error) {
	cfg := types.DefaultPipelineConfig()

	applyViper(&cfg)
	applyFlags(cmd, &cfg)

	familyFile := viper.GetString("structure.family_order_file")
	if f := cmd.Flags().Lookup("family-order-file"); f != nil && f.Changed {
		familyFile, _ = cmd.Flags().GetString("family-order-file")
	}
	if familyFile != "" {
		families, err := structure.LoadFamilyOrder(familyFile)
		if err != nil {
			return cfg, err
		}
		cfg.Structure.FamilyOrder = families
	}

	if !cfg.Converter.Quality.Valid() {
		return cfg, fmt.Errorf("invalid quality mode %q (want fast, balanced, high, or maximum)", cfg.Converter.Quality)
	}
	if cfg.Tagging.ConfidenceThreshold < 0 || cfg.Tagging.ConfidenceThreshold > 1 {
		return cfg, fmt.Errorf("confidence threshold %v out of range [0,1]", cfg.Tagging.ConfidenceThreshold)
	}
	return cfg, nil
}

func applyViper(cfg *types.PipelineConfig) {
	if viper.IsSet("tagging.mode") {
		cfg.Tagging.Mode = types.ExtractionMethod(viper.GetString("tagging.mode"))
	}
	if viper.IsSet("tagging.confidence_threshold") {
		cfg.Tagging.ConfidenceThreshold = viper.GetFloat64("tagging.confidence_threshold")
	}
	if viper.IsSet("structure.pricing_filter") {
		cfg.Structure.PricingFilterEnabled = viper.GetBool("structure.pricing_filter")
	}
	if viper.IsSet("structure.filename_trust") {
		cfg.Structure.FilenameTrustMode = viper.GetBool("structure.filename_trust")
	}
	if viper.IsSet("structure.family_order") {
		cfg.Structure.FamilyOrder = viper.GetStringSlice("structure.family_order")
	}
	if viper.IsSet("structure.structure_file") {
		cfg.Structure.StructureFile = viper.GetString("structure.structure_file")
	}
	if viper.IsSet("converter.backend") {
		cfg.Converter.Backend = types.ConverterBackend(viper.GetString("converter.backend"))
	}
	if viper.IsSet("converter.gotenberg_url") {
		cfg.Converter.GotenbergURL = viper.GetString("converter.gotenberg_url")
	}
	if viper.IsSet("converter.quality") {
		cfg.Converter.Quality = types.QualityMode(viper.GetString("converter.quality"))
	}
	if viper.IsSet("converter.timeout") {
		cfg.Converter.Timeout = viper.GetDuration("converter.timeout")
	}
	if viper.IsSet("converter.max_retries") {
		cfg.Converter.MaxRetries = viper.GetInt("converter.max_retries")
	}
	if viper.IsSet("converter.workers") {
		cfg.Converter.Workers = viper.GetInt("converter.workers")
	}
	if viper.IsSet("assembly.docs_dir") {
		cfg.Assembly.DocsDir = viper.GetString("assembly.docs_dir")
	}
	if viper.IsSet("assembly.converted_dir") {
		cfg.Assembly.ConvertedDir = viper.GetString("assembly.converted_dir")
	}
	if viper.IsSet("assembly.mapping_file") {
		cfg.Assembly.MappingFile = viper.GetString("assembly.mapping_file")
	}
	if viper.IsSet("assembly.title_pages_dir") {
		cfg.Assembly.TitlePagesDir = viper.GetString("assembly.title_pages_dir")
	}
	if viper.IsSet("assembly.output_dir") {
		cfg.Assembly.OutputDir = viper.GetString("assembly.output_dir")
	}
	if viper.IsSet("history.db_path") {
		cfg.History.DBPath = viper.GetString("history.db_path")
	}
}

// applyFlags copies flag values over the config for every flag the
// subcommand both declares and had set on the command line.
func applyFlags(cmd *cobra.Command, cfg *types.PipelineConfig) {
	set := func(name string, apply func()) {
		if f := cmd.Flags().Lookup(name); f != nil && f.Changed {
			apply()
		}
	}

	set("mode", func() {
		v, _ := cmd.Flags().GetString("mode")
		cfg.Tagging.Mode = types.ExtractionMethod(v)
	})
	set("threshold", func() {
		v, _ := cmd.Flags().GetFloat64("threshold")
		cfg.Tagging.ConfidenceThreshold = v
	})
	set("pricing-filter", func() {
		v, _ := cmd.Flags().GetBool("pricing-filter")
		cfg.Structure.PricingFilterEnabled = v
	})
	set("filename-trust", func() {
		v, _ := cmd.Flags().GetBool("filename-trust")
		cfg.Structure.FilenameTrustMode = v
	})
	set("structure-file", func() {
		v, _ := cmd.Flags().GetString("structure-file")
		cfg.Structure.StructureFile = v
	})
	set("backend", func() {
		v, _ := cmd.Flags().GetString("backend")
		cfg.Converter.Backend = types.ConverterBackend(v)
	})
	set("gotenberg-url", func() {
		v, _ := cmd.Flags().GetString("gotenberg-url")
		cfg.Converter.GotenbergURL = v
	})
	set("quality", func() {
		v, _ := cmd.Flags().GetString("quality")
		cfg.Converter.Quality = types.QualityMode(v)
	})
	set("workers", func() {
		v, _ := cmd.Flags().GetInt("workers")
		cfg.Converter.Workers = v
	})
	set("converted-dir", func() {
		v, _ := cmd.Flags().GetString("converted-dir")
		cfg.Assembly.ConvertedDir = v
	})
	set("title-pages-dir", func() {
		v, _ := cmd.Flags().GetString("title-pages-dir")
		cfg.Assembly.TitlePagesDir = v
	})
	set("output-dir", func() {
		v, _ := cmd.Flags().GetString("output-dir")
		cfg.Assembly.OutputDir = v
	})
	set("history-db", func() {
		v, _ := cmd.Flags().GetString("history-db")
		cfg.History.DBPath = v
	})
}

// docsDirArg resolves the docs directory from the positional argument,
// falling back to the configured default.
func docsDirArg(args []string, cfg *types.PipelineConfig) string {
	if len(args) > 0 {
		cfg.Assembly.DocsDir = args[0]
	}
	return cfg.Assembly.DocsDir
}

// listDocs enumerates the candidate input files in a docs directory,
// sorted by name for deterministic processing. Subdirectories and
// hidden files are skipped.
func listDocs(dir string) ([]types.RawFile, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("reading docs directory %s: %w", dir, err)
	}

	var files []types.RawFile
	for _, entry := range entries {
		if entry.IsDir() || strings.HasPrefix(entry.Name(), ".") {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}
		files = append(files, types.NewRawFile(filepath.Join(dir, entry.Name()), info.Size()))
	}
	sort.Slice(files, func(i, j int) bool { return files[i].Name < files[j].Name })
	return files, nil
}
