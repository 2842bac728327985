package ruleset

import (
	"fmt"
	"strings"

	"github.com/nbntools/rulecleaner/rulefile"
)

// MissingValue is the reserved marker written when an [INI] code lookup
// fails for an additional or difficulty rule. The rule is still emitted;
// the marker makes the unresolved text visible in the output.
const MissingValue = "<ERROR>"

// FieldError reports the required fields a rule file failed to provide.
type FieldError struct {
	Path   string
	Fields []string
}

func (e *FieldError) Error() string {
	return fmt.Sprintf("file %q is missing required fields: %s", e.Path, strings.Join(e.Fields, ", "))
}

// requireFields resolves the named keys from a section, collecting every
// missing one into a single FieldError so the log names them all at once.
func requireFields(sec *rulefile.Section, path string, names ...string) (map[string]string, error) {
	got := make(map[string]string, len(names))
	var missing []string
	for _, n := range names {
		v, ok := sec.Get(n)
		if !ok {
			missing = append(missing, n)
			continue
		}
		got[n] = v
	}
	if len(missing) > 0 {
		return nil, &FieldError{Path: path, Fields: missing}
	}
	return got, nil
}
