package ruleset

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReadSpeciesList(t *testing.T) {
	path := filepath.Join(t.TempDir(), "MasterSpeciesList.txt")
	content := "' NBN master species list\n" +
		"taxon_key#preferred_tvk#name#authority#group#name_type#well_formed#msg_id\n" +
		"TVK001#TVK001#Abraxas grossulariata#(Linnaeus, 1758)#insect - moth#Latin#Y#1\n" +
		"TVK002#TVK001#Abraxas sylvata#?#insect - moth#Latin#N#2\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	p := NewParser(nil)
	ok := p.ReadSpeciesList(path)
	assert.True(t, ok)
	require.Len(t, p.Rules.Species, 2)

	s := p.Rules.Species[0]
	assert.Equal(t, "TVK001", s.TaxonKey)
	assert.Equal(t, "Abraxas grossulariata", s.Name)
	assert.Equal(t, "(Linnaeus, 1758)", s.Authority)
	assert.Equal(t, "1", s.MessageID)
	assert.Equal(t, "TVK001", p.Rules.Species[1].PreferredTVK)
}

func TestReadSpeciesListMalformedLine(t *testing.T) {
	path := filepath.Join(t.TempDir(), "MasterSpeciesList.txt")
	content := "header\n" +
		"TVK001#TVK001#Name#Auth#group#Latin#Y#1\n" +
		"only#three#fields\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	p := NewParser(nil)
	ok := p.ReadSpeciesList(path)
	assert.False(t, ok, "malformed line clears the flag")
	assert.Len(t, p.Rules.Species, 1, "well-formed lines still load")
}

func TestReadSpeciesListMissingFile(t *testing.T) {
	p := NewParser(nil)
	assert.False(t, p.ReadSpeciesList(filepath.Join(t.TempDir(), "nope.txt")))
	assert.Empty(t, p.Rules.Species)
}
