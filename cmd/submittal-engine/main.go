// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the submittal-engine CLI.
package main

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// version is set at build time via ldflags.
var version = "dev"

// logger is shared by all subcommands; --verbose raises it to debug.
var logger *slog.Logger

// rootCmd is the base command for the submittal-engine CLI.
var rootCmd = &cobra.Command{
	Use:   "submittal-engine",
	Short: "Build HVAC equipment submittal documents",
	Long: `submittal-engine assembles HVAC equipment submittal PDFs from a directory
of vendor documents. It resolves equipment tags from filenames or content,
classifies and orders documents by type, filters pricing material, converts
office documents to PDF, and merges everything into a bookmarked submittal.

Each pipeline stage is a subcommand: extract, convert, and assemble.
The run command executes the whole pipeline in one shot.`,
	PersistentPreRun: func(cmd *cobra.Command, _ []string) {
		level := slog.LevelInfo
		if verbose, _ := cmd.Flags().GetBool("verbose"); verbose {
			level = slog.LevelDebug
		}
		logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	},
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().String("config", "", "config file (default: ./submittal-engine.yaml or ~/.config/submittal-engine/config.yaml)")
	rootCmd.PersistentFlags().Bool("verbose", false, "enable debug logging")
}

func initConfig() {
	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("submittal-engine")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "submittal-engine"))
		}
	}

	viper.SetEnvPrefix("SUBMITTAL_ENGINE")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
