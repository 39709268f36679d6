package overpass

import (
	"fmt"
	"strings"

	"github.com/rotisserie/eris"
)

// TagFilter is one key=value feature filter.
type TagFilter struct {
	Key   string
	Value string
}

// ParseTagFilter parses a "key=value" string.
func ParseTagFilter(s string) (TagFilter, error) {
	key, value, ok := strings.Cut(s, "=")
	if !ok || key == "" || value == "" {
		return TagFilter{}, eris.Errorf("overpass: invalid tag filter %q (want key=value)", s)
	}
	return TagFilter{Key: key, Value: value}, nil
}

// ParseTagFilters parses a list of "key=value" strings.
func ParseTagFilters(raw []string) ([]TagFilter, error) {
	filters := make([]TagFilter, 0, len(raw))
	for _, s := range raw {
		f, err := ParseTagFilter(s)
		if err != nil {
			return nil, err
		}
		filters = append(filters, f)
	}
	return filters, nil
}

// Query describes one composite radius search. Each tag filter expands into
// a node clause and a way clause so both point features and mapped building
// outlines match; "out center" folds ways down to their centroid.
type Query struct {
	Lat         float64
	Lon         float64
	RadiusM     int
	Tags        []TagFilter
	TimeoutSecs int // server-side [timeout:N]; defaults to 25
}

// Build renders the Overpass QL text.
func (q Query) Build() (string, error) {
	if len(q.Tags) == 0 {
		return "", eris.New("overpass: query needs at least one tag filter")
	}
	if q.RadiusM <= 0 {
		return "", eris.Errorf("overpass: invalid radius %dm", q.RadiusM)
	}

	timeout := q.TimeoutSecs
	if timeout <= 0 {
		timeout = 25
	}

	var b strings.Builder
	fmt.Fprintf(&b, "[out:json][timeout:%d];(", timeout)
	for _, t := range q.Tags {
		fmt.Fprintf(&b, `node["%s"="%s"](around:%d,%f,%f);`, t.Key, t.Value, q.RadiusM, q.Lat, q.Lon)
		fmt.Fprintf(&b, `way["%s"="%s"](around:%d,%f,%f);`, t.Key, t.Value, q.RadiusM, q.Lat, q.Lon)
	}
	b.WriteString(");out center;")
	return b.String(), nil
}
