// Package cmd implements the CLI commands for LessonPipe using Cobra.
package cmd

import (
	"fmt"
	"os"

	"github.com/gaurav-prasanna/lessonpipe/config"
	"github.com/gaurav-prasanna/lessonpipe/logger"
	"github.com/spf13/cobra"
)

// Persistent flag variables.
var (
	flagConfig  string
	flagLogMode string
)

// Loaded once per invocation by the root pre-run hook.
var (
	appConfig *config.Config
	appLog    *logger.Logger
)

var rootCmd = &cobra.Command{
	Use:   "lessonpipe",
	Short: "LessonPipe: generate lesson content and export it as documents",
	Long: `LessonPipe generates three-part lesson content (pre-class, in-class and
post-class) for a topic, renders it as a display page, and exports any
section as PDF, Markdown, JSON, or Embeddings.

Usage:
  lessonpipe generate <topic> [flags]
  lessonpipe render <lesson.json> [flags]
  lessonpipe export <lesson.json> [flags]
  lessonpipe serve [flags]`,
	SilenceUsage:      true,
	PersistentPreRunE: setup,
	PersistentPostRun: func(_ *cobra.Command, _ []string) {
		if appLog != nil {
			appLog.Sync()
		}
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "Path to a YAML config file")
	rootCmd.PersistentFlags().StringVar(&flagLogMode, "log_mode", "", "Log mode: dev or prod (overrides config)")
}

// setup loads the configuration and builds the logger.
func setup(_ *cobra.Command, _ []string) error {
	cfg, err := config.Load(flagConfig)
	if err != nil {
		return err
	}
	if flagLogMode != "" {
		cfg.LogMode = flagLogMode
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	log, err := logger.New(cfg.LogMode)
	if err != nil {
		return fmt.Errorf("initializing logger: %w", err)
	}
	appConfig, appLog = cfg, log
	return nil
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
