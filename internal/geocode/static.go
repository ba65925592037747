package geocode

import (
	"context"
	"fmt"

	"github.com/MrWong99/familytools/pkg/geo"
)

// Static is a fixed gazetteer. Lookups match on [NormalizeAddress].
type Static struct {
	places map[string]geo.Coordinates
}

// NewStatic copies places into a new gazetteer. Invalid coordinates are
// rejected with an error naming the address.
func NewStatic(places map[string]geo.Coordinates) (*Static, error) {
	s := &Static{places: make(map[string]geo.Coordinates, len(places))}
	for addr, c := range places {
		if !c.Valid() {
			return nil, &InvalidPlaceError{Address: addr, Coords: c}
		}
		s.places[NormalizeAddress(addr)] = c
	}
	return s, nil
}

// Len returns the number of known places.
func (s *Static) Len() int { return len(s.places) }

// Geocode implements [Geocoder]. It never returns an error.
func (s *Static) Geocode(_ context.Context, address string) (geo.Coordinates, bool, error) {
	c, ok := s.places[NormalizeAddress(address)]
	return c, ok, nil
}

// InvalidPlaceError reports a gazetteer entry outside the valid lat/lon range.
type InvalidPlaceError struct {
	Address string
	Coords  geo.Coordinates
}

func (e *InvalidPlaceError) Error() string {
	return fmt.Sprintf("geocode: place %q has invalid coordinates %s", e.Address, e.Coords)
}
