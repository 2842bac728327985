package stats

import (
	"encoding/csv"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeCSV(t *testing.T, path string, rows [][]string) {
	t.Helper()
	f, err := os.Create(path)
	require.NoError(t, err)
	defer f.Close()
	w := csv.NewWriter(f)
	require.NoError(t, w.WriteAll(rows))
}

func TestCoverageProcess(t *testing.T) {
	dir := t.TempDir()
	speciesFile := filepath.Join(dir, "species.csv")
	rulesFile := filepath.Join(dir, "all_rules.csv")
	outputFile := filepath.Join(dir, "stats.csv")

	writeCSV(t, speciesFile, [][]string{
		{"taxon_key", "preferred_tvk", "name"},
		{"TVK001", "TVK001", "Preferred taxon"},
		{"TVK002", "TVK001", "Synonym of TVK001"},
		{"TVK003", "TVK003", "No rules"},
	})
	writeCSV(t, rulesFile, [][]string{
		{"taxon_key", "ruleset", "organisation"},
		{"TVK001", "additional", "OrgA"},
		{"TVK001", "range", "OrgA"},
		{"tvk002", "difficulty", "OrgB"},
		{"TVK999", "period", "OrgC"}, // orphan, no species entry
	})

	c := New(speciesFile, rulesFile, outputFile)
	require.NoError(t, c.Process())

	f, err := os.Open(outputFile)
	require.NoError(t, err)
	defer f.Close()
	rows, err := csv.NewReader(f).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 4, "header + one row per species")

	assert.Equal(t,
		[]string{"taxon_key", "taxon_key_preferred", "rules_total", "rules_own", "rules_preferred",
			"additional", "difficulty", "flightperiod", "period", "range", "region", "seasonal"},
		rows[0])

	// TVK001: two own rules plus TVK002's rule rolled up via preference.
	assert.Equal(t, []string{"TVK001", "TVK001", "3", "2", "1", "1", "0", "0", "0", "1", "0", "0"}, rows[1])
	// TVK002: one own rule (matched case-insensitively), none preferred.
	assert.Equal(t, []string{"TVK002", "TVK001", "1", "1", "0", "0", "1", "0", "0", "0", "0", "0"}, rows[2])
	// TVK003: no rules at all.
	assert.Equal(t, []string{"TVK003", "TVK003", "0", "0", "0", "0", "0", "0", "0", "0", "0", "0"}, rows[3])
}

func TestCoverageMissingInput(t *testing.T) {
	dir := t.TempDir()
	c := New(filepath.Join(dir, "species.csv"), filepath.Join(dir, "all_rules.csv"), filepath.Join(dir, "stats.csv"))
	assert.Error(t, c.Process())
}
