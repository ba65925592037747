// Package mock provides a test double for [geocode.Geocoder].
//
// Typical usage:
//
//	g := &mock.Geocoder{Places: map[string]geo.Coordinates{
//	    "Keller, TX": {Lat: 32.9346, Lon: -97.2517},
//	}}
//	// inject g into a geocode.Lookup …
//	if got := g.CallCount(); got != 1 {
//	    t.Errorf("expected 1 Geocode call, got %d", got)
//	}
package mock

import (
	"context"
	"sync"

	"github.com/MrWong99/familytools/pkg/geo"
)

// Geocoder answers from a fixed table and records every address it was asked
// for. It is safe for concurrent use.
type Geocoder struct {
	mu sync.Mutex

	// Places maps exact addresses to coordinates. Addresses not in the map
	// are "not found".
	Places map[string]geo.Coordinates

	// Errors maps addresses to the error returned for them.
	Errors map[string]error

	// Err, when non-nil, is returned for every address not in Errors.
	Err error

	calls []string
}

// Geocode implements geocode.Geocoder.
func (g *Geocoder) Geocode(_ context.Context, address string) (geo.Coordinates, bool, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.calls = append(g.calls, address)

	if err, ok := g.Errors[address]; ok {
		return geo.Coordinates{}, false, err
	}
	if g.Err != nil {
		return geo.Coordinates{}, false, g.Err
	}
	c, ok := g.Places[address]
	return c, ok, nil
}

// Calls returns a copy of the addresses looked up so far, in order.
func (g *Geocoder) Calls() []string {
	g.mu.Lock()
	defer g.mu.Unlock()
	out := make([]string, len(g.calls))
	copy(out, g.calls)
	return out
}

// CallCount returns the number of Geocode calls.
func (g *Geocoder) CallCount() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return len(g.calls)
}

// Reset clears the recorded calls.
func (g *Geocoder) Reset() {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.calls = nil
}
