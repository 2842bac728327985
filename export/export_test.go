package export

import (
	"encoding/csv"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nbntools/rulecleaner/consolidate"
	"github.com/nbntools/rulecleaner/ruleset"
)

func readCSV(t *testing.T, path string) [][]string {
	t.Helper()
	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()
	rows, err := csv.NewReader(f).ReadAll()
	require.NoError(t, err)
	return rows
}

func TestWriteAll(t *testing.T) {
	rules := &ruleset.Collections{
		Additionals: []ruleset.AdditionalRule{{
			TaxonKey: "TVK001", Organisation: "OrgA", Message: "msg", Information: "info",
		}},
		Periods: []ruleset.PeriodRule{{
			TaxonKey: "TVK002", Organisation: "OrgB", Message: "msg",
			StartDate: "1900-01-01", EndDate: "1990-12-31",
		}},
		FlightPeriods: []ruleset.PeriodRule{{
			TaxonKey: "TVK003", Organisation: "OrgC", Message: "msg",
			StartDate: "1 May", EndDate: "31 August", Stage: "adult",
		}},
		Species: []ruleset.Species{{
			TaxonKey: "TVK001", PreferredTVK: "TVK001", Name: "Some moth",
			Authority: "auth", Group: "moth", NameType: "Latin", WellFormed: "Y", MessageID: "1",
		}},
	}
	view := consolidate.Build(rules)

	dir := filepath.Join(t.TempDir(), "Results")
	require.NoError(t, WriteAll(dir, rules, view))

	for _, name := range []string{
		"additionals.csv", "difficulties.csv", "flightperiods.csv", "periods.csv",
		"ranges.csv", "regions.csv", "seasonals.csv", "species.csv", "all_rules.csv",
	} {
		_, err := os.Stat(filepath.Join(dir, name))
		assert.NoError(t, err, name)
	}

	rows := readCSV(t, filepath.Join(dir, "additionals.csv"))
	require.Len(t, rows, 2)
	assert.Equal(t, []string{"taxon_key", "organisation", "message", "information"}, rows[0])
	assert.Equal(t, []string{"TVK001", "OrgA", "msg", "info"}, rows[1])

	// periods.csv has no stage column, flightperiods.csv does.
	rows = readCSV(t, filepath.Join(dir, "periods.csv"))
	require.Len(t, rows, 2)
	assert.Len(t, rows[1], 5)

	rows = readCSV(t, filepath.Join(dir, "flightperiods.csv"))
	require.Len(t, rows, 2)
	assert.Equal(t, "adult", rows[1][5])

	rows = readCSV(t, filepath.Join(dir, "all_rules.csv"))
	require.Len(t, rows, 4)
	assert.Equal(t, ConsolidatedHeader, rows[0])
	assert.Equal(t, "TVK001", rows[1][0])
	assert.Equal(t, "additional", rows[1][1])

	// Empty collections still produce a header-only file.
	rows = readCSV(t, filepath.Join(dir, "difficulties.csv"))
	require.Len(t, rows, 1)
}

func TestWriteAllNilView(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "out")
	require.NoError(t, WriteAll(dir, &ruleset.Collections{}, nil))
	rows := readCSV(t, filepath.Join(dir, "all_rules.csv"))
	require.Len(t, rows, 1)
}
