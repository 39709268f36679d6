// Package niche holds the static mapping from business niches to the
// OpenStreetMap tag filters used by the establishment search. The table is
// embedded so the binary is self-contained; matching is accent- and
// case-insensitive so "Pizzarias", "pizzarias" and "PIZZARIAS" all resolve.
package niche

import (
	_ "embed"
	"sort"
	"strings"
	"unicode"

	"github.com/rotisserie/eris"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
	"gopkg.in/yaml.v3"
)

//go:embed data.yaml
var rawTable []byte

type tableFile struct {
	Niches []struct {
		Name       string   `yaml:"name"`
		Categories []string `yaml:"categories"`
		Tags       []string `yaml:"tags"`
	} `yaml:"niches"`
	Overrides []struct {
		Category string   `yaml:"category"`
		Tags     []string `yaml:"tags"`
	} `yaml:"overrides"`
}

type entry struct {
	name       string
	categories []string
	tags       []string
}

var (
	entries   []entry
	overrides map[string][]string // normalized category -> tags
)

func init() {
	var tf tableFile
	if err := yaml.Unmarshal(rawTable, &tf); err != nil {
		panic(eris.Wrap(err, "niche: parse embedded table"))
	}
	for _, n := range tf.Niches {
		entries = append(entries, entry{name: n.Name, categories: n.Categories, tags: n.Tags})
	}
	overrides = make(map[string][]string, len(tf.Overrides))
	for _, o := range tf.Overrides {
		overrides[Normalize(o.Category)] = o.Tags
	}
}

// Normalize lowercases s and strips diacritics, so lookups tolerate the
// accent variations typical of Brazilian Portuguese input.
func Normalize(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, err := transform.String(t, strings.ToLower(strings.TrimSpace(s)))
	if err != nil {
		return strings.ToLower(strings.TrimSpace(s))
	}
	return out
}

// All returns every niche name in table order.
func All() []string {
	names := make([]string, len(entries))
	for i, e := range entries {
		names[i] = e.name
	}
	return names
}

// Categories returns the specific categories of a niche, or nil if the
// niche is unknown.
func Categories(niche string) []string {
	e := find(niche)
	if e == nil {
		return nil
	}
	return append([]string(nil), e.categories...)
}

// AllCategories returns every category across all niches, sorted.
func AllCategories() []string {
	var all []string
	for _, e := range entries {
		all = append(all, e.categories...)
	}
	sort.Strings(all)
	return all
}

// Tags returns the full OSM tag-filter list of a niche.
func Tags(niche string) []string {
	e := find(niche)
	if e == nil {
		return nil
	}
	return append([]string(nil), e.tags...)
}

// TagFilters resolves the tag filters for a niche and an optional category.
// A category with a dedicated override wins; otherwise the niche tag list is
// narrowed to tags containing the category keyword, falling back to the full
// list when nothing matches. An unknown niche is an error; the search has
// nothing sensible to query without tags.
func TagFilters(niche, category string) ([]string, error) {
	e := find(niche)
	if e == nil {
		return nil, eris.Errorf("niche: unknown niche %q", niche)
	}

	category = strings.TrimSpace(category)
	if category == "" {
		return append([]string(nil), e.tags...), nil
	}

	if tags, ok := overrides[Normalize(category)]; ok {
		return append([]string(nil), tags...), nil
	}

	needle := Normalize(category)
	var narrowed []string
	for _, tag := range e.tags {
		if strings.Contains(Normalize(tag), needle) {
			narrowed = append(narrowed, tag)
		}
	}
	if len(narrowed) == 0 {
		return append([]string(nil), e.tags...), nil
	}
	return narrowed, nil
}

func find(niche string) *entry {
	needle := Normalize(niche)
	for i := range entries {
		if Normalize(entries[i].name) == needle {
			return &entries[i]
		}
	}
	return nil
}
