// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pdiddy/submittal-engine/internal/history"
	"github.com/pdiddy/submittal-engine/pkg/types"
)

var statusCmd = &cobra.Command{
	Use:   "status [docs-dir]",
	Short: "Show recent assembly runs",
	Long: `Status lists recent assembly runs from the history database. With
--run it prints the full manifest of one run as JSON.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runStatus,
}

func init() {
	statusCmd.Flags().String("run", "", "print the manifest of a specific run ID")
	statusCmd.Flags().Int("limit", 10, "number of runs to list")
	statusCmd.Flags().String("history-db", "", "run-history database path")

	rootCmd.AddCommand(statusCmd)
}

func runStatus(cmd *cobra.Command, args []string) error {
	cfg, err := pipelineConfig(cmd)
	if err != nil {
		return err
	}
	docsDir := docsDirArg(args, &cfg)

	store, err := history.NewStore(types.HistoryConfig{
		DBPath: anchorDir(cfg.History.DBPath, docsDir),
	})
	if err != nil {
		return err
	}
	defer store.Close()

	if runID, _ := cmd.Flags().GetString("run"); runID != "" {
		manifest, err := store.Get(cmd.Context(), runID)
		if err != nil {
			return err
		}
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(manifest)
	}

	limit, _ := cmd.Flags().GetInt("limit")
	runs, err := store.Recent(cmd.Context(), limit)
	if err != nil {
		return err
	}
	if len(runs) == 0 {
		fmt.Println("No runs recorded yet.")
		return nil
	}

	for _, r := range runs {
		fmt.Printf("%s  %s  %d pages  %d included  %d excluded  %d failed\n  %s\n",
			r.GeneratedAt.Local().Format("2006-01-02 15:04"), r.RunID,
			r.TotalPages, r.Included, r.Excluded, r.Failed, r.OutputPath)
	}
	return nil
}
