// Package geo provides the coordinate types and great-circle math shared by
// the directory search engine and its map-facing collaborators.
package geo

import "math"

// EarthRadiusMiles is the mean radius of Earth in statute miles.
const EarthRadiusMiles = 3959.0

// Coordinate represents a geographical point
type Coordinate struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// DistanceMiles calculates the great-circle distance between two coordinates
// using the haversine formula. The result is in statute miles.
func DistanceMiles(a, b Coordinate) float64 {
	dLat := degreesToRadians(b.Latitude - a.Latitude)
	dLon := degreesToRadians(b.Longitude - a.Longitude)

	h := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(degreesToRadians(a.Latitude))*math.Cos(degreesToRadians(b.Latitude))*
			math.Sin(dLon/2)*math.Sin(dLon/2)

	c := 2 * math.Atan2(math.Sqrt(h), math.Sqrt(1-h))
	return EarthRadiusMiles * c
}

func degreesToRadians(deg float64) float64 {
	return deg * math.Pi / 180.0
}

// BoundingRegion represents a geographic bounding box with southwest and
// northeast corners.
type BoundingRegion struct {
	MinLat float64 `json:"min_lat"`
	MinLon float64 `json:"min_lon"`
	MaxLat float64 `json:"max_lat"`
	MaxLon float64 `json:"max_lon"`
}

// NewBoundingRegion creates an empty region with inverted bounds so that the
// first ExtendWithPoint call collapses it onto that point.
func NewBoundingRegion() *BoundingRegion {
	return &BoundingRegion{
		MinLat: 90.0,
		MinLon: 180.0,
		MaxLat: -90.0,
		MaxLon: -180.0,
	}
}

// ExtendWithPoint grows the region to include the given coordinate.
func (r *BoundingRegion) ExtendWithPoint(c Coordinate) {
	if c.Latitude < r.MinLat {
		r.MinLat = c.Latitude
	}
	if c.Latitude > r.MaxLat {
		r.MaxLat = c.Latitude
	}
	if c.Longitude < r.MinLon {
		r.MinLon = c.Longitude
	}
	if c.Longitude > r.MaxLon {
		r.MaxLon = c.Longitude
	}
}

// Pad expands the region by the given number of miles on every side. The
// conversion from miles to degrees uses the equatorial approximation of
// roughly 69 miles per degree, which is adequate for viewport padding.
func (r *BoundingRegion) Pad(miles float64) {
	deg := miles / 69.0
	r.MinLat -= deg
	r.MaxLat += deg
	r.MinLon -= deg
	r.MaxLon += deg

	if r.MinLat < -90 {
		r.MinLat = -90
	}
	if r.MaxLat > 90 {
		r.MaxLat = 90
	}
	if r.MinLon < -180 {
		r.MinLon = -180
	}
	if r.MaxLon > 180 {
		r.MaxLon = 180
	}
}

// Center returns the midpoint of the region.
func (r *BoundingRegion) Center() Coordinate {
	return Coordinate{
		Latitude:  (r.MinLat + r.MaxLat) / 2,
		Longitude: (r.MinLon + r.MaxLon) / 2,
	}
}

// Contains reports whether the coordinate lies inside the region.
func (r *BoundingRegion) Contains(c Coordinate) bool {
	return c.Latitude >= r.MinLat && c.Latitude <= r.MaxLat &&
		c.Longitude >= r.MinLon && c.Longitude <= r.MaxLon
}
