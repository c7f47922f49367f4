package entities

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFacetSelection_Fingerprint_OrderIndependent(t *testing.T) {
	a := FacetSelection{
		SearchTerm: "Therapy",
		Counties:   []string{"orange", "miami-dade"},
		TagValues: map[string][]string{
			TagCategoryServices:   {"aba-therapy", "speech_therapy"},
			TagCategoryInsurances: {"medicaid"},
		},
	}
	b := FacetSelection{
		SearchTerm: "therapy",
		Counties:   []string{"Miami-Dade", "Orange"},
		TagValues: map[string][]string{
			TagCategoryInsurances: {"Medicaid"},
			TagCategoryServices:   {"Speech Therapy", "ABA Therapy"},
		},
	}

	assert.Equal(t, a.Fingerprint(), b.Fingerprint())
}

func TestFacetSelection_Fingerprint_DistinguishesSelections(t *testing.T) {
	base := FacetSelection{Counties: []string{"Orange"}}
	withTag := FacetSelection{
		Counties:  []string{"Orange"},
		TagValues: map[string][]string{TagCategoryServices: {"respite care"}},
	}

	assert.NotEqual(t, base.Fingerprint(), withTag.Fingerprint())
}

func TestFacetSelection_CountyOnly(t *testing.T) {
	assert.True(t, FacetSelection{Counties: []string{"Polk"}}.CountyOnly())
	assert.True(t, FacetSelection{
		SearchTerm: "clinic",
		Counties:   []string{"Polk"},
		TagValues:  map[string][]string{TagCategoryServices: {}},
	}.CountyOnly())
	assert.False(t, FacetSelection{
		Counties:  []string{"Polk"},
		TagValues: map[string][]string{TagCategoryServices: {"aba therapy"}},
	}.CountyOnly())
	assert.False(t, FacetSelection{}.CountyOnly())
}

func TestFacetSelection_IsZero(t *testing.T) {
	assert.True(t, FacetSelection{}.IsZero())
	assert.True(t, FacetSelection{TagValues: map[string][]string{TagCategoryFeatures: {}}}.IsZero())
	assert.False(t, FacetSelection{RecordKind: RecordKindDaycare}.IsZero())
	assert.False(t, FacetSelection{SearchTerm: "abc"}.IsZero())
}
