// Package geo provides coordinate types and distance calculations on the
// Earth's surface.
//
// [DistanceKm] solves the inverse geodesic problem on the WGS-84 ellipsoid
// with Karney's algorithm, which converges for every pair of points including
// nearly antipodal ones.
package geo

import (
	"fmt"
	"math"

	"github.com/tidwall/geodesic"
)

// Coordinates is a WGS-84 latitude/longitude pair in decimal degrees.
type Coordinates struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

// Valid reports whether c lies within the legal latitude and longitude ranges
// and contains no NaN components.
func (c Coordinates) Valid() bool {
	return c.Lat >= -90 && c.Lat <= 90 && c.Lon >= -180 && c.Lon <= 180
}

// String formats c as "lat,lon" with six decimal places.
func (c Coordinates) String() string {
	return fmt.Sprintf("%.6f,%.6f", c.Lat, c.Lon)
}

// DistanceKm returns the geodesic distance between p and q in kilometres.
func DistanceKm(p, q Coordinates) float64 {
	var metres float64
	geodesic.WGS84.Inverse(p.Lat, p.Lon, q.Lat, q.Lon, &metres, nil, nil)
	return metres / 1000
}

// Round2 rounds v to two decimal places, halves away from zero.
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}
