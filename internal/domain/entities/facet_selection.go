package entities

import (
	"sort"
	"strings"

	"github.com/carefinderfl/geodirectory/pkg/normalize"
)

// FacetSelection is the active query: free text plus the selected values for
// each facet category. Within a category values combine with OR; across
// categories constraints combine with AND. An empty category matches
// everything.
type FacetSelection struct {
	SearchTerm string
	Counties   []string
	TagValues  map[string][]string
	RecordKind RecordKind
}

// IsZero reports whether no constraint is active at all.
func (s FacetSelection) IsZero() bool {
	return s.SearchTerm == "" &&
		len(s.Counties) == 0 &&
		s.RecordKind == "" &&
		!s.hasTagFacets()
}

// CountyOnly reports whether the county facet is the only facet engaged.
// The free-text term and record kind do not count as facets here; the
// distinction drives the bounds-fit and render-cap heuristics.
func (s FacetSelection) CountyOnly() bool {
	return len(s.Counties) > 0 && !s.hasTagFacets()
}

// HasTagFacets reports whether any tag category has an active value.
func (s FacetSelection) HasTagFacets() bool {
	return s.hasTagFacets()
}

func (s FacetSelection) hasTagFacets() bool {
	for _, values := range s.TagValues {
		if len(values) > 0 {
			return true
		}
	}
	return false
}

// Fingerprint returns a deterministic key for the selection. Two selections
// with the same constraints produce the same fingerprint regardless of the
// order values were added, which makes it usable as a memoization key.
func (s FacetSelection) Fingerprint() string {
	var b strings.Builder

	b.WriteString("q=")
	b.WriteString(strings.ToLower(strings.TrimSpace(s.SearchTerm)))
	b.WriteString(";k=")
	b.WriteString(string(s.RecordKind))

	counties := make([]string, 0, len(s.Counties))
	for _, c := range s.Counties {
		counties = append(counties, normalize.County(c))
	}
	sort.Strings(counties)
	b.WriteString(";c=")
	b.WriteString(strings.Join(counties, ","))

	categories := make([]string, 0, len(s.TagValues))
	for category, values := range s.TagValues {
		if len(values) > 0 {
			categories = append(categories, category)
		}
	}
	sort.Strings(categories)
	for _, category := range categories {
		values := make([]string, 0, len(s.TagValues[category]))
		for _, v := range s.TagValues[category] {
			values = append(values, normalize.Tag(v))
		}
		sort.Strings(values)
		b.WriteString(";t:")
		b.WriteString(category)
		b.WriteString("=")
		b.WriteString(strings.Join(values, ","))
	}

	return b.String()
}
