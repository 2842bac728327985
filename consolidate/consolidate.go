// Package consolidate folds the per-kind rule collections into one record
// per taxon. The fold order is fixed and the overwrite is unconditional:
// when a taxon is governed by several kinds, the last-processed kind's
// common fields win. That projection is intentionally lossy; the per-kind
// collections remain the source of truth.
package consolidate

import (
	"strings"

	"github.com/nbntools/rulecleaner/ruleset"
)

// Record is the merged per-taxon view. Every field defaults to the empty
// string; a kind only touches the fields it defines.
type Record struct {
	TaxonKey        string
	Ruleset         string
	Organisation    string
	Message         string
	Information     string
	DifficultyKey   string
	StartDate       string
	EndDate         string
	Stage           string
	GridRefsGB      string
	GridRefsIreland string
	GridRefsCI      string
}

// View holds the consolidated records, preserving the order in which taxa
// were first seen during the fold.
type View struct {
	order   []string
	records map[string]*Record
}

// Build folds every rule list into a View. Kinds are processed in the
// fixed order additional, difficulty, flightperiod, period, range, region,
// seasonal; do not reorder, downstream output depends on it.
func Build(rules *ruleset.Collections) *View {
	v := &View{records: make(map[string]*Record)}

	for _, r := range rules.Additionals {
		rec := v.fetch(r.TaxonKey)
		rec.Ruleset = ruleset.KindAdditional.String()
		rec.Organisation = r.Organisation
		rec.Message = r.Message
		rec.Information = r.Information
	}
	for _, r := range rules.Difficulties {
		rec := v.fetch(r.TaxonKey)
		rec.Ruleset = ruleset.KindDifficulty.String()
		rec.Organisation = r.Organisation
		rec.Message = r.Message
		rec.DifficultyKey = r.DifficultyKey
	}
	v.foldPeriods(rules.FlightPeriods, ruleset.KindFlightPeriod)
	v.foldPeriods(rules.Periods, ruleset.KindPeriod)
	v.foldRegions(rules.Ranges, ruleset.KindRange)
	v.foldRegions(rules.Regions, ruleset.KindRegion)
	v.foldPeriods(rules.Seasonals, ruleset.KindSeasonal)

	return v
}

func (v *View) foldPeriods(rules []ruleset.PeriodRule, kind ruleset.Kind) {
	for _, r := range rules {
		rec := v.fetch(r.TaxonKey)
		rec.Ruleset = kind.String()
		rec.Organisation = r.Organisation
		rec.Message = r.Message
		rec.StartDate = r.StartDate
		rec.EndDate = r.EndDate
		rec.Stage = r.Stage
	}
}

func (v *View) foldRegions(rules []ruleset.RegionRule, kind ruleset.Kind) {
	for _, r := range rules {
		rec := v.fetch(r.TaxonKey)
		rec.Ruleset = kind.String()
		rec.Organisation = r.Organisation
		rec.Message = r.Message
		rec.GridRefsGB = r.GridRefsGB
		rec.GridRefsIreland = r.GridRefsIreland
		rec.GridRefsCI = r.GridRefsCI
	}
}

// fetch returns the record for a taxon key, creating it on first sight.
// Keys are upper-cased so lookups are case-stable.
func (v *View) fetch(taxonKey string) *Record {
	key := strings.ToUpper(taxonKey)
	if rec, ok := v.records[key]; ok {
		return rec
	}
	rec := &Record{TaxonKey: key}
	v.records[key] = rec
	v.order = append(v.order, key)
	return rec
}

// Get returns the record for a taxon key, matching any case variant.
func (v *View) Get(taxonKey string) (*Record, bool) {
	rec, ok := v.records[strings.ToUpper(taxonKey)]
	return rec, ok
}

// Records returns the records in first-sight order.
func (v *View) Records() []*Record {
	out := make([]*Record, 0, len(v.order))
	for _, key := range v.order {
		out = append(out, v.records[key])
	}
	return out
}

// Len returns the number of distinct taxa.
func (v *View) Len() int { return len(v.order) }
