// Package geocode resolves free-text addresses to coordinates.
//
// A [Geocoder] is a single backend such as [Nominatim] or [Static]. Tools do
// not call geocoders directly; they go through a [Lookup], which paces
// requests with a [throttle.Gate], fails over between providers and turns
// every failure into "no result".
package geocode

import (
	"context"
	"strings"

	"github.com/MrWong99/familytools/pkg/geo"
)

// Geocoder resolves an address to coordinates.
type Geocoder interface {
	// Geocode returns found=false with a nil error when the backend answered
	// but knows no such place. A non-nil error means the backend could not
	// answer at all.
	Geocode(ctx context.Context, address string) (coords geo.Coordinates, found bool, err error)
}

// GeocoderFunc adapts a function to [Geocoder].
type GeocoderFunc func(ctx context.Context, address string) (geo.Coordinates, bool, error)

// Geocode implements [Geocoder].
func (f GeocoderFunc) Geocode(ctx context.Context, address string) (geo.Coordinates, bool, error) {
	return f(ctx, address)
}

// Provider is a named geocoder as listed in configuration.
type Provider struct {
	Name     string
	Geocoder Geocoder
}

// NormalizeAddress lower-cases address and collapses runs of whitespace so
// that "Keller,  TX" and "keller, tx" compare equal.
func NormalizeAddress(address string) string {
	return strings.ToLower(strings.Join(strings.Fields(address), " "))
}
