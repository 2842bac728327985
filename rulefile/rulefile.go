// Package rulefile reads NBN verification rule files, which are INI-style
// key/value files written by several generations of authoring tools. The
// reader is deliberately tolerant: duplicate sections merge, unparseable
// lines are skipped, and keys without values (grid references) are kept.
package rulefile

import (
	"strings"

	"gopkg.in/ini.v1"
)

// Document is the parsed content of a single rule file. Section order and
// key order within a section follow the file.
type Document struct {
	sections []*Section
	index    map[string]*Section
}

// Section is a named block of entries. Key lookup is case-insensitive
// because the authoring tools are inconsistent about key casing.
type Section struct {
	name   string
	keys   []string            // original spelling, file order
	values map[string][]string // lower-cased key -> values in file order
}

// Load reads a rule file in last-write-wins mode. Both '=' and ',' act as
// key/value delimiters and bare keys are allowed, matching the oldest rule
// file layouts.
func Load(path string) (*Document, error) {
	f, err := ini.LoadSources(ini.LoadOptions{
		AllowBooleanKeys:        true,
		IgnoreInlineComment:     true,
		KeyValueDelimiters:      "=,",
		SkipUnrecognizableLines: true,
	}, path)
	if err != nil {
		return nil, err
	}
	return newDocument(f), nil
}

// LoadShadows reads a rule file in duplicate-tolerant mode: repeated keys
// within a section accumulate their values instead of overwriting. The
// period-family grammars need this for their parallel Stage/StartDate/
// EndDate rows.
func LoadShadows(path string) (*Document, error) {
	f, err := ini.LoadSources(ini.LoadOptions{
		AllowBooleanKeys:        true,
		AllowShadows:            true,
		IgnoreInlineComment:     true,
		SkipUnrecognizableLines: true,
	}, path)
	if err != nil {
		return nil, err
	}
	return newDocument(f), nil
}

func newDocument(f *ini.File) *Document {
	doc := &Document{index: make(map[string]*Section)}
	for _, s := range f.Sections() {
		if s.Name() == ini.DefaultSection {
			continue
		}
		sec := &Section{
			name:   s.Name(),
			values: make(map[string][]string),
		}
		for _, k := range s.Keys() {
			lower := strings.ToLower(k.Name())
			if _, seen := sec.values[lower]; !seen {
				sec.keys = append(sec.keys, k.Name())
			}
			sec.values[lower] = append(sec.values[lower], k.ValueWithShadows()...)
		}
		doc.sections = append(doc.sections, sec)
		doc.index[s.Name()] = sec
	}
	return doc
}

// Section returns the named section.
func (d *Document) Section(name string) (*Section, bool) {
	s, ok := d.index[name]
	return s, ok
}

// HasSection reports whether the named section is present.
func (d *Document) HasSection(name string) bool {
	_, ok := d.index[name]
	return ok
}

// SectionNames returns the section names in file order.
func (d *Document) SectionNames() []string {
	names := make([]string, 0, len(d.sections))
	for _, s := range d.sections {
		names = append(names, s.name)
	}
	return names
}

// Name returns the section name as written in the file.
func (s *Section) Name() string { return s.name }

// Keys returns the keys in file order with their original spelling.
func (s *Section) Keys() []string { return s.keys }

// Len returns the number of distinct keys.
func (s *Section) Len() int { return len(s.keys) }

// Get returns the value for a key, last write winning when the key was
// repeated. The boolean is false when the key is absent.
func (s *Section) Get(key string) (string, bool) {
	vs, ok := s.values[strings.ToLower(key)]
	if !ok || len(vs) == 0 {
		return "", false
	}
	return vs[len(vs)-1], true
}

// Values returns every value recorded for a key, flattened into one array:
// repeated keys contribute in file order and each value is further split on
// newlines. The authoring tool emits blank separator lines between stage
// blocks, so doubled newlines are collapsed before splitting to avoid
// spurious empty elements.
func (s *Section) Values(key string) ([]string, bool) {
	vs, ok := s.values[strings.ToLower(key)]
	if !ok {
		return nil, false
	}
	var out []string
	for _, v := range vs {
		out = append(out, splitMulti(v)...)
	}
	return out, true
}

func splitMulti(v string) []string {
	v = strings.ReplaceAll(v, "\r\n", "\n")
	v = strings.ReplaceAll(v, "\n\n", "\n")
	v = strings.Trim(v, "\n")
	if v == "" {
		return nil
	}
	return strings.Split(v, "\n")
}
