package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/cmc-agency/policy-cli/internal/config"
)

var cfg *config.Config

var rootCmd = &cobra.Command{
	Use:   "policy-cli",
	Short: "Insurance policy PDF intake and archive",
	Long:  "Classifies Turkish insurance policy PDFs, extracts the record fields, deduplicates against the archive, and maintains the cumulative spreadsheet and SQLite store.",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		c, err := config.Load()
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		cfg = c

		if err := config.InitLogger(cfg.Log); err != nil {
			return fmt.Errorf("init logger: %w", err)
		}

		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		_ = zap.L().Sync()
	},
	// Results are a JSON contract on stdout; cobra must not write over it.
	SilenceUsage:  true,
	SilenceErrors: true,
}

// printJSON writes the command result to stdout. Every subcommand ends with
// exactly one JSON object there.
func printJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
