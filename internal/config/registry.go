package config

import (
	"errors"
	"fmt"
	"maps"
	"slices"
	"sync"

	"github.com/MrWong99/familytools/internal/geocode"
	"github.com/MrWong99/familytools/pkg/geo"
)

// ErrGeocoderNotRegistered is returned by [Registry.CreateGeocoder] when no
// factory has been registered under the requested name.
var ErrGeocoderNotRegistered = errors.New("config: geocoder not registered")

// GeocoderFactory builds a geocoder from its configuration entry.
type GeocoderFactory func(GeocoderEntry) (geocode.Geocoder, error)

// Registry maps geocoder names to their constructor functions. It is safe for
// concurrent use.
type Registry struct {
	mu        sync.RWMutex
	geocoders map[string]GeocoderFactory
}

// NewRegistry returns an empty, ready-to-use [Registry].
func NewRegistry() *Registry {
	return &Registry{geocoders: make(map[string]GeocoderFactory)}
}

// NewDefaultRegistry returns a registry with the built-in "nominatim" and
// "static" geocoders.
func NewDefaultRegistry() *Registry {
	r := NewRegistry()
	r.RegisterGeocoder("nominatim", newNominatim)
	r.RegisterGeocoder("static", newStatic)
	return r
}

// RegisterGeocoder registers factory under name.
// Subsequent calls with the same name overwrite the previous registration.
func (r *Registry) RegisterGeocoder(name string, factory GeocoderFactory) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.geocoders[name] = factory
}

// Names returns the registered geocoder names in sorted order.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return slices.Sorted(maps.Keys(r.geocoders))
}

// CreateGeocoder instantiates the geocoder registered under entry.Name.
// Returns [ErrGeocoderNotRegistered] if no factory has been registered for
// that name.
func (r *Registry) CreateGeocoder(entry GeocoderEntry) (geocode.Geocoder, error) {
	r.mu.RLock()
	factory, ok := r.geocoders[entry.Name]
	r.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrGeocoderNotRegistered, entry.Name)
	}
	return factory(entry)
}

// Providers instantiates every entry in order, labelled with its name.
func (r *Registry) Providers(entries []GeocoderEntry) ([]geocode.Provider, error) {
	out := make([]geocode.Provider, 0, len(entries))
	for _, e := range entries {
		g, err := r.CreateGeocoder(e)
		if err != nil {
			return nil, err
		}
		out = append(out, geocode.Provider{Name: e.Name, Geocoder: g})
	}
	return out, nil
}

// PinnedPlaces converts configured places into a gazetteer. It returns nil
// when places is empty.
func PinnedPlaces(places map[string]Place) (*geocode.Static, error) {
	if len(places) == 0 {
		return nil, nil
	}
	s, err := geocode.NewStatic(toCoordinates(places))
	if err != nil {
		return nil, fmt.Errorf("config: pinned places: %w", err)
	}
	return s, nil
}

func newNominatim(e GeocoderEntry) (geocode.Geocoder, error) {
	opts := []geocode.NominatimOption{}
	if e.BaseURL != "" {
		opts = append(opts, geocode.WithBaseURL(e.BaseURL))
	}
	if e.UserAgent != "" {
		opts = append(opts, geocode.WithUserAgent(e.UserAgent))
	}
	if e.Timeout > 0 {
		opts = append(opts, geocode.WithTimeout(e.Timeout))
	}
	return geocode.NewNominatim(opts...), nil
}

func newStatic(e GeocoderEntry) (geocode.Geocoder, error) {
	s, err := geocode.NewStatic(toCoordinates(e.Places))
	if err != nil {
		return nil, fmt.Errorf("config: static geocoder: %w", err)
	}
	return s, nil
}

func toCoordinates(places map[string]Place) map[string]geo.Coordinates {
	out := make(map[string]geo.Coordinates, len(places))
	for addr, p := range places {
		out[addr] = geo.Coordinates{Lat: p.Lat, Lon: p.Lon}
	}
	return out
}
