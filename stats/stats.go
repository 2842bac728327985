// Package stats computes rule-coverage statistics from a previously
// written species CSV and consolidated rules CSV.
package stats

import (
	"encoding/csv"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/nbntools/rulecleaner/ruleset"
)

// Column positions in the input files.
const (
	rulTaxonKey = 0
	rulRuleset  = 1
	rulOrg      = 2

	specTaxonKey  = 0
	specPreferred = 1
)

// ruleRef is one rule observed for a taxon.
type ruleRef struct {
	ruleset string
	org     string
}

// taxonStat accumulates counts for one species list entry.
type taxonStat struct {
	preferred      string
	rulesTotal     int
	rulesOwn       int
	rulesPreferred int
	kinds          map[string]int
}

// Coverage analyses rule coverage across a species list.
type Coverage struct {
	speciesFile string
	rulesFile   string
	outputFile  string

	rules   map[string][]ruleRef
	species map[string]*taxonStat
	order   []string
}

// New returns a Coverage over the given input and output files.
func New(speciesFile, rulesFile, outputFile string) *Coverage {
	return &Coverage{
		speciesFile: speciesFile,
		rulesFile:   rulesFile,
		outputFile:  outputFile,
		rules:       make(map[string][]ruleRef),
		species:     make(map[string]*taxonStat),
	}
}

// Process reads the inputs, analyses them and writes the stats file.
func (c *Coverage) Process() error {
	if err := c.readFiles(); err != nil {
		return err
	}
	c.analyse()
	return c.writeFile()
}

func (c *Coverage) readFiles() error {
	log.Info().Str("file", c.rulesFile).Msg("reading rules file")
	ruleRows, err := readCSV(c.rulesFile)
	if err != nil {
		return fmt.Errorf("reading rules file: %w", err)
	}
	for _, row := range ruleRows {
		if len(row) <= rulOrg {
			continue
		}
		key := strings.ToUpper(row[rulTaxonKey])
		c.rules[key] = append(c.rules[key], ruleRef{ruleset: row[rulRuleset], org: row[rulOrg]})
	}

	log.Info().Str("file", c.speciesFile).Msg("reading species file")
	specRows, err := readCSV(c.speciesFile)
	if err != nil {
		return fmt.Errorf("reading species file: %w", err)
	}
	for _, row := range specRows {
		if len(row) <= specPreferred {
			continue
		}
		key := strings.ToUpper(row[specTaxonKey])
		if _, seen := c.species[key]; !seen {
			c.order = append(c.order, key)
		}
		c.species[key] = &taxonStat{
			preferred: strings.ToUpper(row[specPreferred]),
			kinds:     make(map[string]int),
		}
	}
	return nil
}

// analyse mirrors the coverage report: per-taxon rule counts, preferred
// taxon aggregation, then the logged summary totals.
func (c *Coverage) analyse() {
	log.Info().Msg("analysing species list")

	knownKinds := map[string]bool{}
	for k := ruleset.KindAdditional; k <= ruleset.KindSeasonal; k++ {
		knownKinds[k.String()] = true
	}

	for taxon, spec := range c.species {
		refs, ok := c.rules[taxon]
		if !ok {
			continue
		}
		spec.rulesTotal += len(refs)
		spec.rulesOwn += len(refs)
		for _, ref := range refs {
			if !knownKinds[ref.ruleset] {
				log.Error().Str("ruleset", ref.ruleset).Str("taxonKey", taxon).Msg("unknown ruleset")
				continue
			}
			spec.kinds[ref.ruleset]++
		}
	}

	// Roll non-preferred taxa up into their preferred taxon.
	for taxon, spec := range c.species {
		if spec.preferred == taxon {
			continue
		}
		pref, ok := c.species[spec.preferred]
		if !ok {
			log.Error().Str("preferred", spec.preferred).Str("taxonKey", taxon).Msg("unknown preferred taxon key")
			continue
		}
		pref.rulesTotal += spec.rulesOwn
		pref.rulesPreferred += spec.rulesOwn
	}

	nPref, nNonPref, nRules, nOrphan := 0, 0, 0, 0
	kindTotals := make(map[string]int)
	for taxon, refs := range c.rules {
		nRules += len(refs)
		for _, ref := range refs {
			kindTotals[ref.ruleset]++
		}
		spec, ok := c.species[taxon]
		if !ok {
			log.Info().Str("taxonKey", taxon).Msg("orphaned rule")
			nOrphan++
			continue
		}
		if spec.preferred == taxon {
			nPref++
		} else {
			nNonPref++
		}
	}

	log.Info().Int("taxons", len(c.species)).Msg("taxons in species file")
	log.Info().Int("rules", nRules).Msg("total rules")
	log.Info().Int("taxons", len(c.rules)).Msg("taxons with rules")
	log.Info().Int("orphans", nOrphan).Msg("orphaned rules without taxons")
	log.Info().Int("preferred", nPref).Int("nonPreferred", nNonPref).Msg("taxons with rules by preference")
	for k := ruleset.KindAdditional; k <= ruleset.KindSeasonal; k++ {
		log.Info().Str("ruleset", k.String()).Int("rules", kindTotals[k.String()]).Msg("rules by kind")
	}
}

func (c *Coverage) writeFile() error {
	log.Info().Str("file", c.outputFile).Msg("writing file")
	f, err := os.Create(c.outputFile)
	if err != nil {
		return fmt.Errorf("creating stats file: %w", err)
	}
	defer f.Close()

	header := []string{"taxon_key", "taxon_key_preferred", "rules_total", "rules_own", "rules_preferred"}
	for k := ruleset.KindAdditional; k <= ruleset.KindSeasonal; k++ {
		header = append(header, k.String())
	}

	w := csv.NewWriter(f)
	if err := w.Write(header); err != nil {
		return fmt.Errorf("writing stats header: %w", err)
	}
	for _, taxon := range c.order {
		spec := c.species[taxon]
		row := []string{
			taxon, spec.preferred,
			strconv.Itoa(spec.rulesTotal),
			strconv.Itoa(spec.rulesOwn),
			strconv.Itoa(spec.rulesPreferred),
		}
		for k := ruleset.KindAdditional; k <= ruleset.KindSeasonal; k++ {
			row = append(row, strconv.Itoa(spec.kinds[k.String()]))
		}
		if err := w.Write(row); err != nil {
			return fmt.Errorf("writing stats row: %w", err)
		}
	}
	w.Flush()
	return w.Error()
}

// readCSV reads every record after the header row. Rows are allowed to
// have varying field counts; the callers validate lengths.
func readCSV(path string) ([][]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1
	rows, err := r.ReadAll()
	if err != nil {
		return nil, err
	}
	if len(rows) > 0 {
		rows = rows[1:]
	}
	return rows, nil
}
