package commands

import (
	"fmt"
	"path/filepath"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/nbntools/rulecleaner/stats"
)

// NewStatsCmd builds and returns the 'stats' cobra command.
func NewStatsCmd() *cobra.Command {
	var resultsFolder, outputFile string

	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Report rule coverage from a previous process run",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runStats(resultsFolder, outputFile)
		},
	}

	cmd.Flags().StringVarP(&resultsFolder, "results", "r", "Results", "Folder containing process output")
	cmd.Flags().StringVarP(&outputFile, "output", "o", "", "Stats CSV file (default <results>/stats.csv)")
	return cmd
}

// runStats is the entry point for the stats command.
func runStats(resultsFolder, outputFile string) error {
	if outputFile == "" {
		outputFile = filepath.Join(resultsFolder, "stats.csv")
	}
	log.Debug().Str("results", resultsFolder).Str("output", outputFile).Msg("stats started")

	c := stats.New(
		filepath.Join(resultsFolder, "species.csv"),
		filepath.Join(resultsFolder, "all_rules.csv"),
		outputFile,
	)
	if err := c.Process(); err != nil {
		return fmt.Errorf("computing coverage: %w", err)
	}
	log.Info().Msg("stats complete")
	return nil
}
