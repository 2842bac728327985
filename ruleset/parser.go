// Package ruleset parses NBN verification rule files into typed rule
// collections. Parsing is best-effort: a malformed file is logged, flagged
// and skipped, never fatal.
package ruleset

import (
	"fmt"
	"io"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/nbntools/rulecleaner/rulefile"
)

// Section allow-lists per grammar family. Anything outside the list is
// counted and reported on the skip side channel.
var (
	iniSections     = []string{"EndMetadata", "Metadata", "INI", "Data"}
	periodSections  = []string{"EndMetadata", "Metadata", "Data"}
	polygonSections = []string{"EndMetadata", "Metadata", "10km_GB", "10km_Ireland", "10km_CI"}
)

// Parser accumulates parsed rules across every organisation folder it is
// pointed at. It is not safe for concurrent use; the ingest pass is
// strictly sequential.
type Parser struct {
	Rules Collections

	// SkippedSections counts sections that no grammar processed.
	SkippedSections int

	skipLog io.Writer
}

// NewParser returns a Parser. skipLog receives one line per file containing
// unexpected sections; nil discards them.
func NewParser(skipLog io.Writer) *Parser {
	if skipLog == nil {
		skipLog = io.Discard
	}
	return &Parser{skipLog: skipLog}
}

// checkSections records any section outside the grammar's allow-list on the
// skip side channel. Format: `[section;section] - <path>`.
func (p *Parser) checkSections(doc *rulefile.Document, path string, allowed []string) {
	var skipped []string
	for _, name := range doc.SectionNames() {
		known := false
		for _, a := range allowed {
			if name == a {
				known = true
				break
			}
		}
		if !known {
			p.SkippedSections++
			skipped = append(skipped, name)
		}
	}
	if len(skipped) > 0 {
		fmt.Fprintf(p.skipLog, "[%s] - %s\n", strings.Join(skipped, "; "), path)
	}
}

// processAdditional parses every ancillary-species rule file in folder.
// Each [Data] entry maps a taxon key to a short code resolved through the
// [INI] lookup table.
func (p *Parser) processAdditional(org, folder string) bool {
	files := listFiles(folder)
	if len(files) == 0 {
		log.Warn().Str("folder", folder).Msg("no files found in folder")
		return false
	}

	ok := true
	for _, f := range files {
		doc, err := rulefile.Load(f)
		if err != nil {
			log.Error().Err(err).Str("file", f).Msg("cannot read additional rule file")
			ok = false
			continue
		}
		p.checkSections(doc, f, iniSections)

		meta, found := doc.Section("Metadata")
		if !found {
			log.Error().Str("file", f).Msg("file does not contain [Metadata]")
			ok = false
			continue
		}
		if tt, _ := meta.Get("TestType"); tt != "AncillarySpecies" {
			log.Error().Str("file", f).Str("testType", tt).Msg("unknown TestType")
			ok = false
			continue
		}
		fields, err := requireFields(meta, f, "ErrorMsg")
		if err != nil {
			log.Error().Err(err).Msg("incorrectly formatted additional file")
			ok = false
			continue
		}

		lookup, found := doc.Section("INI")
		if !found {
			log.Error().Str("file", f).Msg("file does not contain [INI]")
			ok = false
			continue
		}
		data, found := doc.Section("Data")
		if !found {
			log.Error().Str("file", f).Msg("file does not contain [Data]")
			ok = false
			continue
		}

		for _, k := range data.Keys() {
			code, _ := data.Get(k)
			info, found := lookup.Get(code)
			if !found {
				info = MissingValue
			}
			p.Rules.Additionals = append(p.Rules.Additionals, AdditionalRule{
				TaxonKey:     strings.ToUpper(k),
				Organisation: org,
				Message:      fields["ErrorMsg"],
				Information:  info,
			})
		}
		log.Debug().Str("file", f).Int("entries", data.Len()).Msg("additional file parsed")
	}
	return ok
}

// processDifficulty parses identification-difficulty rule files. The rule
// message comes from the [INI] lookup of the difficulty code.
func (p *Parser) processDifficulty(org, folder string) bool {
	files := listFiles(folder)
	if len(files) == 0 {
		// A few organisations nest difficulty files one level deeper.
		files = listFilesRecursive(folder)
		if len(files) == 0 {
			log.Warn().Str("folder", folder).Msg("no files found in folder")
			return false
		}
	}

	ok := true
	for _, f := range files {
		doc, err := rulefile.Load(f)
		if err != nil {
			log.Error().Err(err).Str("file", f).Msg("cannot read difficulty rule file")
			ok = false
			continue
		}
		p.checkSections(doc, f, iniSections)

		meta, found := doc.Section("Metadata")
		if !found {
			log.Error().Str("file", f).Msg("file does not contain [Metadata]")
			ok = false
			continue
		}
		if tt, _ := meta.Get("TestType"); tt != "IdentificationDifficulty" {
			log.Error().Str("file", f).Str("testType", tt).Msg("unknown TestType")
			ok = false
			continue
		}

		lookup, found := doc.Section("INI")
		if !found {
			log.Error().Str("file", f).Msg("file does not contain [INI]")
			ok = false
			continue
		}
		data, found := doc.Section("Data")
		if !found {
			log.Error().Str("file", f).Msg("file does not contain [Data]")
			ok = false
			continue
		}

		for _, k := range data.Keys() {
			code, _ := data.Get(k)
			msg, found := lookup.Get(code)
			if !found {
				msg = MissingValue
			}
			p.Rules.Difficulties = append(p.Rules.Difficulties, DifficultyRule{
				TaxonKey:      strings.ToUpper(k),
				Organisation:  org,
				Message:       msg,
				DifficultyKey: code,
			})
		}
		log.Debug().Str("file", f).Int("entries", data.Len()).Msg("difficulty file parsed")
	}
	return ok
}

// processFlightPeriod parses flightperiod rule files. TestType must match
// PeriodWithinYear exactly; period and seasonalperiod share the generic
// routine below with relaxed casing.
func (p *Parser) processFlightPeriod(org, folder string) bool {
	return p.processPeriodKind(org, folder, "PeriodWithinYear", true, &p.Rules.FlightPeriods, "flightperiod")
}

func (p *Parser) processPeriod(org, folder string) bool {
	return p.processPeriodKind(org, folder, "period", false, &p.Rules.Periods, "period")
}

func (p *Parser) processSeasonal(org, folder string) bool {
	return p.processPeriodKind(org, folder, "PeriodWithinYear", false, &p.Rules.Seasonals, "seasonalperiod")
}

// processPeriodKind is the generic period-family grammar. Every valid file
// emits one base rule with an empty stage. A non-empty [Data] section must
// hold parallel Stage/StartDate/EndDate arrays which zip into one
// stage-specific rule per row; a missing array or a length mismatch drops
// the stage rows and flags the file, but keeps the base rule.
func (p *Parser) processPeriodKind(org, folder, testType string, exactCase bool, out *[]PeriodRule, label string) bool {
	files := listFiles(folder)
	if len(files) == 0 {
		log.Warn().Str("folder", folder).Msg("no files found in folder")
		return false
	}

	ok := true
	for _, f := range files {
		doc, err := rulefile.LoadShadows(f)
		if err != nil {
			log.Error().Err(err).Str("file", f).Str("kind", label).Msg("cannot read rule file")
			ok = false
			continue
		}
		p.checkSections(doc, f, periodSections)

		meta, found := doc.Section("Metadata")
		if !found {
			log.Error().Str("file", f).Msg("file does not contain [Metadata]")
			ok = false
			continue
		}
		tt, _ := meta.Get("TestType")
		matched := tt == testType
		if !exactCase {
			matched = strings.EqualFold(tt, testType)
		}
		if !matched {
			log.Error().Str("file", f).Str("testType", tt).Msg("unknown TestType")
			ok = false
			continue
		}
		fields, err := requireFields(meta, f, "Tvk", "ErrorMsg", "StartDate", "EndDate")
		if err != nil {
			log.Error().Err(err).Str("kind", label).Msg("incorrectly formatted file")
			ok = false
			continue
		}

		base := PeriodRule{
			TaxonKey:     strings.ToUpper(fields["Tvk"]),
			Organisation: org,
			Message:      fields["ErrorMsg"],
			StartDate:    fields["StartDate"],
			EndDate:      fields["EndDate"],
		}
		*out = append(*out, base)

		data, found := doc.Section("Data")
		if !found || data.Len() == 0 {
			continue
		}
		stages, okS := data.Values("Stage")
		starts, okB := data.Values("StartDate")
		ends, okE := data.Values("EndDate")
		if !okS || !okB || !okE {
			log.Error().Str("file", f).Str("kind", label).Msg("stage data is missing a parallel array")
			ok = false
			continue
		}
		if len(stages) != len(starts) || len(stages) != len(ends) {
			log.Error().Str("file", f).Str("kind", label).
				Int("stages", len(stages)).Int("starts", len(starts)).Int("ends", len(ends)).
				Msg("stage data arrays differ in length")
			ok = false
			continue
		}
		for i := range stages {
			stage := base
			stage.StartDate = starts[i]
			stage.EndDate = ends[i]
			stage.Stage = stages[i]
			*out = append(*out, stage)
		}
		log.Debug().Str("file", f).Str("kind", label).Int("stages", len(stages)).Msg("period file parsed")
	}
	return ok
}

func (p *Parser) processRange(org, folder string) bool {
	return p.processPolygonKind(org, folder, &p.Rules.Ranges, "range")
}

func (p *Parser) processTenkm(org, folder string) bool {
	return p.processPolygonKind(org, folder, &p.Rules.Regions, "region")
}

// processPolygonKind is the shared range/region grammar. The three country
// sections are optional; each contributes a semicolon-terminated
// concatenation of its grid-reference keys, or the empty string.
func (p *Parser) processPolygonKind(org, folder string, out *[]RegionRule, label string) bool {
	files := listFiles(folder)
	if len(files) == 0 {
		log.Warn().Str("folder", folder).Msg("no files found in folder")
		return false
	}

	ok := true
	for _, f := range files {
		doc, err := rulefile.Load(f)
		if err != nil {
			log.Error().Err(err).Str("file", f).Str("kind", label).Msg("cannot read rule file")
			ok = false
			continue
		}
		p.checkSections(doc, f, polygonSections)

		meta, found := doc.Section("Metadata")
		if !found {
			log.Error().Str("file", f).Msg("file does not contain [Metadata]")
			ok = false
			continue
		}
		if tt, _ := meta.Get("TestType"); tt != "WithoutPolygon" {
			log.Error().Str("file", f).Str("testType", tt).Msg("unknown TestType")
			ok = false
			continue
		}
		fields, err := requireFields(meta, f, "DataRecordId", "ErrorMsg")
		if err != nil {
			log.Error().Err(err).Str("kind", label).Msg("incorrectly formatted file")
			ok = false
			continue
		}

		*out = append(*out, RegionRule{
			TaxonKey:        strings.ToUpper(fields["DataRecordId"]),
			Organisation:    org,
			Message:         fields["ErrorMsg"],
			GridRefsGB:      gridRefs(doc, "10km_GB"),
			GridRefsIreland: gridRefs(doc, "10km_Ireland"),
			GridRefsCI:      gridRefs(doc, "10km_CI"),
		})
		log.Debug().Str("file", f).Str("kind", label).Msg("polygon file parsed")
	}
	return ok
}

// gridRefs concatenates a country section's keys, each terminated by a
// semicolon. An absent section yields the empty string.
func gridRefs(doc *rulefile.Document, section string) string {
	sec, ok := doc.Section(section)
	if !ok {
		return ""
	}
	var sb strings.Builder
	for _, k := range sec.Keys() {
		sb.WriteString(k)
		sb.WriteString(";")
	}
	return sb.String()
}
