package commands

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/nbntools/rulecleaner/consolidate"
	"github.com/nbntools/rulecleaner/export"
	"github.com/nbntools/rulecleaner/ruleset"
)

// NewProcessCmd builds and returns the 'process' cobra command.
func NewProcessCmd() *cobra.Command {
	var inputFolder, outputFolder, optionsFile string

	cmd := &cobra.Command{
		Use:   "process",
		Short: "Parse a rule tree and write normalized CSV output",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			// Bind the cobra flags into viper so they can be read uniformly.
			for _, name := range []string{"input", "output", "options"} {
				if err := viper.BindPFlag(name, cmd.Flags().Lookup(name)); err != nil {
					return err
				}
			}
			return runProcess(viper.GetString("input"), viper.GetString("output"), viper.GetString("options"))
		},
	}

	cmd.Flags().StringVarP(&inputFolder, "input", "i", "", "Folder containing the organisation rule tree")
	cmd.Flags().StringVarP(&outputFolder, "output", "o", "Results", "Folder to write CSV output to")
	cmd.Flags().StringVar(&optionsFile, "options", "", "Optional YAML options file")
	_ = cmd.MarkFlagRequired("input")
	return cmd
}

// runProcess is the entry point for the process command. Parse failures
// inside the tree are recoverable and only affect the final summary; an
// error return means the run itself could not proceed.
func runProcess(inputFolder, outputFolder, optionsFile string) error {
	start := time.Now()
	log.Debug().Str("input", inputFolder).Str("output", outputFolder).Str("options", optionsFile).Msg("process started")

	opts, err := loadOptions(optionsFile)
	if err != nil {
		return fmt.Errorf("loading options: %w", err)
	}
	log.Debug().Strs("skipFolders", opts.SkipFolders).Str("speciesFile", opts.SpeciesFile).Msg("options loaded")

	if err := os.MkdirAll(outputFolder, 0o755); err != nil {
		return fmt.Errorf("creating output folder: %w", err)
	}
	skipLog, err := os.Create(filepath.Join(outputFolder, "skip.log"))
	if err != nil {
		return fmt.Errorf("creating skip log: %w", err)
	}
	defer skipLog.Close()

	parser := ruleset.NewParser(skipLog)

	ok := parser.ReadSpeciesList(filepath.Join(inputFolder, opts.SpeciesFile))
	if !parser.ReadTree(inputFolder, opts.SkipFolders) {
		ok = false
	}

	view := consolidate.Build(&parser.Rules)
	log.Debug().Int("taxons", view.Len()).Msg("consolidation complete")

	if err := export.WriteAll(outputFolder, &parser.Rules, view); err != nil {
		return fmt.Errorf("writing output: %w", err)
	}

	log.Info().Dur("elapsed", time.Since(start)).Msg("elapsed time")
	if parser.SkippedSections > 0 {
		log.Info().Int("sections", parser.SkippedSections).
			Msg("some files contain sections that have been skipped, see skip.log for details")
	}
	if ok {
		log.Info().Msg("finished, no errors occurred")
	} else {
		log.Info().Msg("finished, one or more errors occurred")
	}
	return nil
}
