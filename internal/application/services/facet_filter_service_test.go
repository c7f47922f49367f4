package services

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/carefinderfl/geodirectory/internal/domain/entities"
)

func testListing() *entities.Listing {
	return &entities.Listing{
		ID:     "l-1",
		Name:   "Sunrise Therapy Center",
		City:   "Lakeland",
		County: "Polk",
		State:  "FL",
		Tags: map[string][]string{
			entities.TagCategoryServices:   {"ABA_Therapy", "speech-therapy"},
			entities.TagCategoryInsurances: {"Medicaid", "Florida Blue"},
		},
		RecordKind: entities.RecordKindProvider,
	}
}

func TestMatches_EmptySelectionMatchesEverything(t *testing.T) {
	svc := NewFacetFilterService()

	assert.True(t, svc.Matches(testListing(), entities.FacetSelection{}))
}

func TestMatches_SearchTerm(t *testing.T) {
	svc := NewFacetFilterService()
	listing := testListing()

	assert.True(t, svc.Matches(listing, entities.FacetSelection{SearchTerm: "sunrise"}))
	assert.True(t, svc.Matches(listing, entities.FacetSelection{SearchTerm: "LAKELAND"}))
	assert.True(t, svc.Matches(listing, entities.FacetSelection{SearchTerm: "polk"}))
	assert.False(t, svc.Matches(listing, entities.FacetSelection{SearchTerm: "orlando"}))
}

func TestMatches_RecordKind(t *testing.T) {
	svc := NewFacetFilterService()
	listing := testListing()

	assert.True(t, svc.Matches(listing, entities.FacetSelection{RecordKind: entities.RecordKindProvider}))
	assert.False(t, svc.Matches(listing, entities.FacetSelection{RecordKind: entities.RecordKindDaycare}))
}

func TestMatches_CountyNormalizationAndPartialTokens(t *testing.T) {
	svc := NewFacetFilterService()
	listing := testListing()

	assert.True(t, svc.Matches(listing, entities.FacetSelection{Counties: []string{"polk"}}))
	assert.True(t, svc.Matches(listing, entities.FacetSelection{Counties: []string{"POLK"}}))
	assert.True(t, svc.Matches(listing, entities.FacetSelection{Counties: []string{"Polk County"}}))
	assert.False(t, svc.Matches(listing, entities.FacetSelection{Counties: []string{"Orange"}}))
}

func TestMatches_TagSeparatorVariants(t *testing.T) {
	svc := NewFacetFilterService()
	listing := testListing()

	for _, variant := range []string{"aba-therapy", "ABA_Therapy", "aba therapy"} {
		sel := entities.FacetSelection{
			TagValues: map[string][]string{entities.TagCategoryServices: {variant}},
		}
		assert.True(t, svc.Matches(listing, sel), "variant %q", variant)
	}
}

func TestMatches_TolerantContainment(t *testing.T) {
	svc := NewFacetFilterService()
	listing := testListing()

	// Selected value contained in the entity value.
	sel := entities.FacetSelection{
		TagValues: map[string][]string{entities.TagCategoryServices: {"speech"}},
	}
	assert.True(t, svc.Matches(listing, sel))

	// Entity value contained in the selected value.
	sel = entities.FacetSelection{
		TagValues: map[string][]string{entities.TagCategoryInsurances: {"Medicaid Waiver Program"}},
	}
	assert.True(t, svc.Matches(listing, sel))
}

func TestMatches_CategoriesAndAcrossOrWithin(t *testing.T) {
	svc := NewFacetFilterService()
	listing := testListing()

	// OR within a category.
	sel := entities.FacetSelection{
		TagValues: map[string][]string{
			entities.TagCategoryServices: {"occupational therapy", "aba therapy"},
		},
	}
	assert.True(t, svc.Matches(listing, sel))

	// AND across categories.
	sel = entities.FacetSelection{
		TagValues: map[string][]string{
			entities.TagCategoryServices:     {"aba therapy"},
			entities.TagCategoryScholarships: {"step up"},
		},
	}
	assert.False(t, svc.Matches(listing, sel))
}

func TestMatches_MissingCategoryFailsWhenSelected(t *testing.T) {
	svc := NewFacetFilterService()
	listing := testListing()

	sel := entities.FacetSelection{
		TagValues: map[string][]string{entities.TagCategoryFeatures: {"wheelchair accessible"}},
	}
	assert.False(t, svc.Matches(listing, sel))
}

func TestMatches_BlankTagValuesIgnored(t *testing.T) {
	svc := NewFacetFilterService()
	listing := testListing()
	listing.Tags[entities.TagCategoryFeatures] = []string{"", "  ", "-_-"}

	sel := entities.FacetSelection{
		TagValues: map[string][]string{entities.TagCategoryFeatures: {"playground"}},
	}
	assert.False(t, svc.Matches(listing, sel))

	// Blank selected values leave the category effectively empty.
	sel = entities.FacetSelection{
		TagValues: map[string][]string{entities.TagCategoryFeatures: {"  "}},
	}
	assert.True(t, svc.Matches(listing, sel))
}

func TestFilter_Monotonicity(t *testing.T) {
	svc := NewFacetFilterService()

	listings := make([]*entities.Listing, 0, 40)
	for i := 0; i < 40; i++ {
		county := "Polk"
		if i%2 == 0 {
			county = "Orange"
		}
		service := "aba therapy"
		if i%3 == 0 {
			service = "respite care"
		}
		listings = append(listings, &entities.Listing{
			ID:     fmt.Sprintf("l-%d", i),
			Name:   fmt.Sprintf("Listing %d", i),
			County: county,
			Tags:   map[string][]string{entities.TagCategoryServices: {service}},
		})
	}

	unconstrained := svc.Filter(listings, entities.FacetSelection{})
	countyOnly := svc.Filter(listings, entities.FacetSelection{Counties: []string{"Polk"}})
	countyAndTag := svc.Filter(listings, entities.FacetSelection{
		Counties:  []string{"Polk"},
		TagValues: map[string][]string{entities.TagCategoryServices: {"aba therapy"}},
	})

	assert.GreaterOrEqual(t, len(unconstrained), len(countyOnly))
	assert.GreaterOrEqual(t, len(countyOnly), len(countyAndTag))
}

func TestFilter_MemoizesBySelection(t *testing.T) {
	svc := NewFacetFilterService()
	listings := []*entities.Listing{testListing()}
	sel := entities.FacetSelection{Counties: []string{"Polk"}}

	first := svc.Filter(listings, sel)
	second := svc.Filter(listings, sel)

	// Memoized: identical backing array, not just equal contents.
	assert.Equal(t, fmt.Sprintf("%p", first), fmt.Sprintf("%p", second))
}

func TestFilter_ResetDatasetDropsMemo(t *testing.T) {
	svc := NewFacetFilterService()
	sel := entities.FacetSelection{Counties: []string{"Polk"}}

	before := svc.Filter([]*entities.Listing{testListing()}, sel)
	assert.Len(t, before, 1)

	svc.ResetDataset()

	after := svc.Filter(nil, sel)
	assert.Empty(t, after)
}
