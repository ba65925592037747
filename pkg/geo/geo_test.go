package geo

import (
	"math"
	"testing"
)

func TestDistanceKm_KnownValues(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name string
		p, q Coordinates
		want float64 // rounded to 2 decimals
	}{
		{"one degree along equator", Coordinates{0, 0}, Coordinates{0, 1}, 111.32},
		{"one degree along meridian", Coordinates{0, 0}, Coordinates{1, 0}, 110.57},
		{"same point", Coordinates{32.9346, -97.2517}, Coordinates{32.9346, -97.2517}, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Round2(DistanceKm(tt.p, tt.q))
			if got != tt.want {
				t.Errorf("DistanceKm(%v, %v) = %.2f, want %.2f", tt.p, tt.q, got, tt.want)
			}
		})
	}
}

func TestDistanceKm_Symmetric(t *testing.T) {
	t.Parallel()
	keller := Coordinates{Lat: 32.9346, Lon: -97.2517}
	dallas := Coordinates{Lat: 32.7767, Lon: -96.7970}

	ab := DistanceKm(keller, dallas)
	ba := DistanceKm(dallas, keller)
	if math.Abs(ab-ba) > 1e-6 {
		t.Errorf("distance not symmetric: %f vs %f", ab, ba)
	}
	if ab < 40 || ab > 50 {
		t.Errorf("Keller→Dallas = %.2f km, want roughly 45 km", ab)
	}
}

func TestDistanceKm_Antipodal(t *testing.T) {
	t.Parallel()
	got := DistanceKm(Coordinates{0, 0}, Coordinates{0, 180})
	if math.IsNaN(got) || math.IsInf(got, 0) {
		t.Fatalf("DistanceKm antipodal = %v, want finite", got)
	}
	// Half the meridian: the shortest path runs over a pole.
	if Round2(got) != 20003.93 {
		t.Errorf("DistanceKm antipodal = %.2f km, want 20003.93", got)
	}
}

func TestDistanceKm_NearAntipodalOrdering(t *testing.T) {
	t.Parallel()
	origin := Coordinates{0, 0}
	prev := 0.0
	for _, lon := range []float64{179.0, 179.2, 179.4, 179.6, 179.8, 180} {
		d := DistanceKm(origin, Coordinates{0, lon})
		if d <= prev {
			t.Errorf("DistanceKm to lon %.1f = %.3f km, not farther than previous %.3f km", lon, d, prev)
		}
		prev = d
	}
	if d := DistanceKm(origin, Coordinates{0, 179.4}); d < 19970 {
		t.Errorf("DistanceKm to lon 179.4 = %.3f km, want at least 19970", d)
	}
}

func TestRound2(t *testing.T) {
	t.Parallel()
	tests := []struct {
		in, want float64
	}{
		{3.14159, 3.14},
		{2.5, 2.5},
		{-1.236, -1.24},
		{0, 0},
		{99.999, 100},
	}
	for _, tt := range tests {
		if got := Round2(tt.in); got != tt.want {
			t.Errorf("Round2(%v) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestCoordinates_Valid(t *testing.T) {
	t.Parallel()
	tests := []struct {
		c    Coordinates
		want bool
	}{
		{Coordinates{0, 0}, true},
		{Coordinates{90, 180}, true},
		{Coordinates{-90, -180}, true},
		{Coordinates{90.1, 0}, false},
		{Coordinates{0, -180.5}, false},
		{Coordinates{math.NaN(), 0}, false},
	}
	for _, tt := range tests {
		if got := tt.c.Valid(); got != tt.want {
			t.Errorf("%v.Valid() = %v, want %v", tt.c, got, tt.want)
		}
	}
}
