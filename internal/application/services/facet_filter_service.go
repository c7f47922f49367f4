package services

import (
	"strings"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/carefinderfl/geodirectory/internal/domain/entities"
	"github.com/carefinderfl/geodirectory/pkg/normalize"
)

const filterCacheSize = 64

// FacetFilterService evaluates listings against the active facet selection.
// Matches is a pure predicate; Filter memoizes whole-set results by selection
// fingerprint so that repeated derivations for an unchanged selection reuse
// the previous slice instead of rescanning several thousand records.
type FacetFilterService struct {
	cache *lru.Cache[string, []*entities.Listing]
}

// NewFacetFilterService creates a new facet filter service.
func NewFacetFilterService() *FacetFilterService {
	cache, _ := lru.New[string, []*entities.Listing](filterCacheSize)
	return &FacetFilterService{cache: cache}
}

// Filter returns the listings matching the selection, preserving input
// order. Results are memoized per selection fingerprint until ResetDataset
// is called.
func (s *FacetFilterService) Filter(listings []*entities.Listing, selection entities.FacetSelection) []*entities.Listing {
	key := selection.Fingerprint()
	if cached, ok := s.cache.Get(key); ok {
		return cached
	}

	matched := make([]*entities.Listing, 0, len(listings))
	for _, listing := range listings {
		if s.Matches(listing, selection) {
			matched = append(matched, listing)
		}
	}

	s.cache.Add(key, matched)
	return matched
}

// ResetDataset drops all memoized results. Callers invoke it when the
// underlying listing snapshot is replaced, since fingerprints only encode
// the selection, not the dataset.
func (s *FacetFilterService) ResetDataset() {
	s.cache.Purge()
}

// Matches reports whether a single listing satisfies the selection: the
// free-text term AND every non-empty facet category (OR within a category)
// AND the record kind when one is set.
func (s *FacetFilterService) Matches(listing *entities.Listing, selection entities.FacetSelection) bool {
	if !matchesSearchTerm(listing, selection.SearchTerm) {
		return false
	}
	if selection.RecordKind != "" && listing.RecordKind != selection.RecordKind {
		return false
	}
	if !matchesCounties(listing, selection.Counties) {
		return false
	}
	for category, values := range selection.TagValues {
		if len(values) == 0 {
			continue
		}
		if !matchesTagCategory(listing.TagValues(category), values) {
			return false
		}
	}
	return true
}

func matchesSearchTerm(listing *entities.Listing, term string) bool {
	term = strings.ToLower(strings.TrimSpace(term))
	if term == "" {
		return true
	}
	return strings.Contains(strings.ToLower(listing.Name), term) ||
		strings.Contains(strings.ToLower(listing.City), term) ||
		strings.Contains(strings.ToLower(listing.County), term)
}

func matchesCounties(listing *entities.Listing, counties []string) bool {
	if len(counties) == 0 {
		return true
	}
	entityCounty := normalize.County(listing.County)
	if entityCounty == "" {
		return false
	}
	for _, county := range counties {
		selected := normalize.County(county)
		if selected == "" {
			continue
		}
		// Containment in either direction tolerates partial tokens such as
		// "St. Johns" vs "St. Johns County".
		if strings.Contains(entityCounty, selected) || strings.Contains(selected, entityCounty) {
			return true
		}
	}
	return false
}

// matchesTagCategory applies the tolerant double-containment tag match. The
// upstream tag vocabulary is not canonicalized, so normalized values match
// when equal or when either side contains the other. This leniency can
// false-match very short tags against longer ones; it is kept deliberately.
func matchesTagCategory(entityValues, selectedValues []string) bool {
	normalizedSelected := make([]string, 0, len(selectedValues))
	for _, v := range selectedValues {
		if n := normalize.Tag(v); n != "" {
			normalizedSelected = append(normalizedSelected, n)
		}
	}
	if len(normalizedSelected) == 0 {
		// Nothing usable was selected; the category is effectively empty.
		return true
	}

	for _, value := range entityValues {
		entityValue := normalize.Tag(value)
		if entityValue == "" {
			// Malformed or blank tag values never participate in matching.
			continue
		}
		for _, selected := range normalizedSelected {
			if entityValue == selected ||
				strings.Contains(entityValue, selected) ||
				strings.Contains(selected, entityValue) {
				return true
			}
		}
	}
	return false
}
