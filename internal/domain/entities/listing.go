package entities

import (
	"time"

	"github.com/carefinderfl/geodirectory/pkg/geo"
)

// RecordKind discriminates the listing types held in the directory.
type RecordKind string

const (
	RecordKindProvider RecordKind = "provider"
	RecordKindDaycare  RecordKind = "daycare"
	RecordKindPPEC     RecordKind = "ppec"
)

// Tag category names used by the directory store.
const (
	TagCategoryServices     = "services"
	TagCategoryInsurances   = "insurances"
	TagCategoryScholarships = "scholarships"
	TagCategoryFeatures     = "features"
)

// Listing represents one directory entry: a provider, daycare or PPEC.
type Listing struct {
	ID     string `json:"id" db:"id"`
	Name   string `json:"name" db:"name"`
	City   string `json:"city" db:"city"`
	County string `json:"county" db:"county"`
	State  string `json:"state" db:"state"`

	// Coordinates is nil for listings that have not been geocoded yet.
	// Such listings stay in list results but never reach the map.
	Coordinates *geo.Coordinate `json:"coordinates,omitempty" db:"-"`

	// Tags holds one value set per category ("services", "insurances",
	// "scholarships", "features"). Any set may be empty.
	Tags map[string][]string `json:"tags,omitempty" db:"-"`

	RecordKind RecordKind `json:"record_kind" db:"record_kind"`
	UpdatedAt  time.Time  `json:"updated_at" db:"updated_at"`
}

// Mappable reports whether the listing can be plotted on a map.
func (l *Listing) Mappable() bool {
	return l.Coordinates != nil
}

// TagValues returns the tag values for a category, or nil when the category
// is absent.
func (l *Listing) TagValues(category string) []string {
	if l.Tags == nil {
		return nil
	}
	return l.Tags[category]
}
