package rulefile

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "rule.txt")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadPlain(t *testing.T) {
	path := writeFile(t, `[Metadata]
TestType=AncillarySpecies
ErrorMsg=Rarely recorded
ErrorMsg=Rarely recorded in this area
[INI]
a1=Scarce species
[Data]
NHMSYS001=a1
[EndMetadata]
`)

	doc, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, []string{"Metadata", "INI", "Data", "EndMetadata"}, doc.SectionNames())
	assert.True(t, doc.HasSection("Metadata"))
	assert.False(t, doc.HasSection("Missing"))

	meta, ok := doc.Section("Metadata")
	require.True(t, ok)

	// Last write wins for repeated keys in plain mode.
	v, ok := meta.Get("ErrorMsg")
	require.True(t, ok)
	assert.Equal(t, "Rarely recorded in this area", v)

	// Key lookup is case-insensitive.
	v, ok = meta.Get("testtype")
	require.True(t, ok)
	assert.Equal(t, "AncillarySpecies", v)

	_, ok = meta.Get("Tvk")
	assert.False(t, ok)
}

func TestLoadPlainBareKeysAndCommaDelimiter(t *testing.T) {
	path := writeFile(t, `[10km_GB]
NZ16
NZ27
[Data]
NHMSYS002,b2
`)

	doc, err := Load(path)
	require.NoError(t, err)

	gb, ok := doc.Section("10km_GB")
	require.True(t, ok)
	assert.Equal(t, []string{"NZ16", "NZ27"}, gb.Keys())
	assert.Equal(t, 2, gb.Len())

	data, ok := doc.Section("Data")
	require.True(t, ok)
	v, ok := data.Get("NHMSYS002")
	require.True(t, ok)
	assert.Equal(t, "b2", v)
}

func TestLoadShadowsAccumulates(t *testing.T) {
	path := writeFile(t, `[Data]
Stage=adult
StartDate=1 April
EndDate=30 June
Stage=larval
StartDate=1 July
EndDate=31 August
`)

	doc, err := LoadShadows(path)
	require.NoError(t, err)

	data, ok := doc.Section("Data")
	require.True(t, ok)

	stages, ok := data.Values("Stage")
	require.True(t, ok)
	assert.Equal(t, []string{"adult", "larval"}, stages)

	starts, ok := data.Values("StartDate")
	require.True(t, ok)
	assert.Equal(t, []string{"1 April", "1 July"}, starts)

	// Get still works in shadow mode, returning the last value.
	last, ok := data.Get("EndDate")
	require.True(t, ok)
	assert.Equal(t, "31 August", last)

	_, ok = data.Values("Missing")
	assert.False(t, ok)
}

func TestValuesCollapsesBlankLines(t *testing.T) {
	s := &Section{
		name:   "Data",
		keys:   []string{"Stage"},
		values: map[string][]string{"stage": {"adult\n\nlarval\n\npupal\n"}},
	}

	vs, ok := s.Values("Stage")
	require.True(t, ok)
	assert.Equal(t, []string{"adult", "larval", "pupal"}, vs)
}

func TestLoadSkipsUnrecognizableLines(t *testing.T) {
	path := writeFile(t, `garbage before any section
[Metadata]
TestType=WithoutPolygon
<<< not a key value pair !!!
`)

	doc, err := Load(path)
	require.NoError(t, err)

	meta, ok := doc.Section("Metadata")
	require.True(t, ok)
	v, ok := meta.Get("TestType")
	require.True(t, ok)
	assert.Equal(t, "WithoutPolygon", v)
}
