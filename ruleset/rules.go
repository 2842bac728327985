package ruleset

// AdditionalRule flags a taxon whose records need ancillary species
// information attached.
type AdditionalRule struct {
	TaxonKey     string
	Organisation string
	Message      string
	Information  string
}

// DifficultyRule records the identification difficulty grading for a taxon.
type DifficultyRule struct {
	TaxonKey      string
	Organisation  string
	Message       string
	DifficultyKey string
}

// PeriodRule constrains the dates within a year a taxon may be recorded.
// Stage is empty for the base rule and set for stage-specific rows. The
// flightperiod, period and seasonalperiod rule sets all use this shape;
// plain period rules never carry a stage in their base row.
type PeriodRule struct {
	TaxonKey     string
	Organisation string
	Message      string
	StartDate    string
	EndDate      string
	Stage        string
}

// RegionRule constrains the 10km grid squares a taxon may be recorded in.
// Each grid-reference field is a semicolon-terminated concatenation and may
// be empty when the country section is absent. Range and tenkm (region)
// rule sets share this shape.
type RegionRule struct {
	TaxonKey        string
	Organisation    string
	Message         string
	GridRefsGB      string
	GridRefsIreland string
	GridRefsCI      string
}

// Species is one row of the master species list.
type Species struct {
	TaxonKey     string
	PreferredTVK string
	Name         string
	Authority    string
	Group        string
	NameType     string
	WellFormed   string
	MessageID    string
}

// Collections holds every parsed rule, one list per kind, in insertion
// order. The lists are the lossless source of truth; the consolidated view
// built from them is a lossy projection.
type Collections struct {
	Additionals   []AdditionalRule
	Difficulties  []DifficultyRule
	FlightPeriods []PeriodRule
	Periods       []PeriodRule
	Ranges        []RegionRule
	Regions       []RegionRule
	Seasonals     []PeriodRule
	Species       []Species
}
