// Package export writes the parsed rule collections and the consolidated
// per-taxon view to CSV files.
package export

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"

	"github.com/rs/zerolog/log"

	"github.com/nbntools/rulecleaner/consolidate"
	"github.com/nbntools/rulecleaner/ruleset"
)

// ConsolidatedHeader is the column set of all_rules.csv. The stats command
// reads the file back by these positions.
var ConsolidatedHeader = []string{
	"taxon_key", "ruleset", "organisation", "message",
	"information", "difficulty_key",
	"start_date", "end_date", "stage",
	"10km_GB", "10km_Ireland", "10km_CI",
}

// WriteAll writes every output file into dir, creating it if needed.
// Callers must only invoke this after parsing and consolidation have
// finished; the files are a snapshot, not a stream.
func WriteAll(dir string, rules *ruleset.Collections, view *consolidate.View) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating output folder: %w", err)
	}
	log.Info().Str("folder", dir).Msg("writing files to folder")

	files := []struct {
		name   string
		header []string
		rows   func() [][]string
	}{
		{"additionals.csv",
			[]string{"taxon_key", "organisation", "message", "information"},
			func() [][]string { return additionalRows(rules.Additionals) }},
		{"difficulties.csv",
			[]string{"taxon_key", "organisation", "message", "difficulty_key"},
			func() [][]string { return difficultyRows(rules.Difficulties) }},
		{"flightperiods.csv",
			[]string{"taxon_key", "organisation", "message", "start_date", "end_date", "stage"},
			func() [][]string { return periodRows(rules.FlightPeriods, true) }},
		{"periods.csv",
			[]string{"taxon_key", "organisation", "message", "start_date", "end_date"},
			func() [][]string { return periodRows(rules.Periods, false) }},
		{"ranges.csv",
			[]string{"taxon_key", "organisation", "message", "10km_GB", "10km_Ireland", "10km_CI"},
			func() [][]string { return regionRows(rules.Ranges) }},
		{"regions.csv",
			[]string{"taxon_key", "organisation", "message", "10km_GB", "10km_Ireland", "10km_CI"},
			func() [][]string { return regionRows(rules.Regions) }},
		{"seasonals.csv",
			[]string{"taxon_key", "organisation", "message", "start_date", "end_date", "stage"},
			func() [][]string { return periodRows(rules.Seasonals, true) }},
		{"species.csv",
			[]string{"taxon_key", "preferred_tvk", "name", "authority", "group", "name_type", "well_formed", "msg_id"},
			func() [][]string { return speciesRows(rules.Species) }},
		{"all_rules.csv",
			ConsolidatedHeader,
			func() [][]string { return consolidatedRows(view) }},
	}

	for _, f := range files {
		if err := writeFile(filepath.Join(dir, f.name), f.header, f.rows()); err != nil {
			return err
		}
	}
	return nil
}

func writeFile(path string, header []string, rows [][]string) error {
	log.Debug().Str("file", path).Int("rows", len(rows)).Msg("writing file")
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating output file %q: %w", path, err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(header); err != nil {
		return fmt.Errorf("writing header to %q: %w", path, err)
	}
	if err := w.WriteAll(rows); err != nil {
		return fmt.Errorf("writing rows to %q: %w", path, err)
	}
	return nil
}

func additionalRows(rules []ruleset.AdditionalRule) [][]string {
	rows := make([][]string, 0, len(rules))
	for _, r := range rules {
		rows = append(rows, []string{r.TaxonKey, r.Organisation, r.Message, r.Information})
	}
	return rows
}

func difficultyRows(rules []ruleset.DifficultyRule) [][]string {
	rows := make([][]string, 0, len(rules))
	for _, r := range rules {
		rows = append(rows, []string{r.TaxonKey, r.Organisation, r.Message, r.DifficultyKey})
	}
	return rows
}

// periodRows renders period-family rules. Plain period rules have no stage
// column in their file.
func periodRows(rules []ruleset.PeriodRule, withStage bool) [][]string {
	rows := make([][]string, 0, len(rules))
	for _, r := range rules {
		row := []string{r.TaxonKey, r.Organisation, r.Message, r.StartDate, r.EndDate}
		if withStage {
			row = append(row, r.Stage)
		}
		rows = append(rows, row)
	}
	return rows
}

func regionRows(rules []ruleset.RegionRule) [][]string {
	rows := make([][]string, 0, len(rules))
	for _, r := range rules {
		rows = append(rows, []string{r.TaxonKey, r.Organisation, r.Message, r.GridRefsGB, r.GridRefsIreland, r.GridRefsCI})
	}
	return rows
}

func speciesRows(species []ruleset.Species) [][]string {
	rows := make([][]string, 0, len(species))
	for _, s := range species {
		rows = append(rows, []string{s.TaxonKey, s.PreferredTVK, s.Name, s.Authority, s.Group, s.NameType, s.WellFormed, s.MessageID})
	}
	return rows
}

func consolidatedRows(view *consolidate.View) [][]string {
	if view == nil {
		return nil
	}
	records := view.Records()
	rows := make([][]string, 0, len(records))
	for _, r := range records {
		rows = append(rows, []string{
			r.TaxonKey, r.Ruleset, r.Organisation, r.Message,
			r.Information, r.DifficultyKey,
			r.StartDate, r.EndDate, r.Stage,
			r.GridRefsGB, r.GridRefsIreland, r.GridRefsCI,
		})
	}
	return rows
}
