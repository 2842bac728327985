package ruleset

import (
	"bufio"
	"os"
	"strings"

	"github.com/rs/zerolog/log"
)

// speciesFieldCount is the number of '#'-delimited fields on a well-formed
// species list line.
const speciesFieldCount = 8

// ReadSpeciesList loads the master species list. Lines starting with a
// single quote are comments; the first remaining line is the header.
// Malformed lines are logged and clear the success flag, the rest of the
// file still loads.
func (p *Parser) ReadSpeciesList(path string) bool {
	log.Info().Str("file", path).Msg("reading species file")
	f, err := os.Open(path)
	if err != nil {
		log.Error().Err(err).Str("file", path).Msg("species list file cannot be read")
		return false
	}
	defer f.Close()

	ok := true
	header := true
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := scanner.Text()
		if strings.HasPrefix(line, "'") {
			continue
		}
		if header {
			header = false
			continue
		}
		fields := strings.Split(line, "#")
		if len(fields) != speciesFieldCount {
			log.Warn().Str("line", line).Str("file", path).Msg("malformed species line")
			ok = false
			continue
		}
		p.Rules.Species = append(p.Rules.Species, Species{
			TaxonKey:     fields[0],
			PreferredTVK: fields[1],
			Name:         fields[2],
			Authority:    fields[3],
			Group:        fields[4],
			NameType:     fields[5],
			WellFormed:   fields[6],
			MessageID:    fields[7],
		})
	}
	if err := scanner.Err(); err != nil {
		log.Error().Err(err).Str("file", path).Msg("error reading species list")
		return false
	}
	return ok
}
