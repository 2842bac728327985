package ruleset

import "strings"

// Kind identifies one of the seven verification-rule categories.
type Kind int

const (
	KindAdditional Kind = iota
	KindDifficulty
	KindFlightPeriod
	KindPeriod
	KindRange
	KindRegion
	KindSeasonal
)

// String returns the ruleset name used in consolidated output.
func (k Kind) String() string {
	switch k {
	case KindAdditional:
		return "additional"
	case KindDifficulty:
		return "difficulty"
	case KindFlightPeriod:
		return "flightperiod"
	case KindPeriod:
		return "period"
	case KindRange:
		return "range"
	case KindRegion:
		return "region"
	case KindSeasonal:
		return "seasonal"
	}
	return "unknown"
}

// folderKinds maps a lower-cased rule folder leaf name to its kind. The
// "tenkm" folders hold region rules; every other name matches its kind.
var folderKinds = map[string]Kind{
	"additional":     KindAdditional,
	"flightperiod":   KindFlightPeriod,
	"period":         KindPeriod,
	"range":          KindRange,
	"seasonalperiod": KindSeasonal,
	"tenkm":          KindRegion,
}

// KindForFolder resolves a rule folder leaf name to a kind. The boolean is
// false for unrecognized names.
func KindForFolder(name string) (Kind, bool) {
	k, ok := folderKinds[strings.ToLower(name)]
	return k, ok
}
