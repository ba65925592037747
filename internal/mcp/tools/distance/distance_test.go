package distance

import (
	"context"
	"encoding/json"
	"strings"
	"testing"

	"github.com/MrWong99/familytools/internal/geocode"
	"github.com/MrWong99/familytools/internal/geocode/mock"
	"github.com/MrWong99/familytools/pkg/geo"
)

var (
	keller    = geo.Coordinates{Lat: 32.9346, Lon: -97.2517}
	southlake = geo.Coordinates{Lat: 32.9412, Lon: -97.1342}
	fortWorth = geo.Coordinates{Lat: 32.7555, Lon: -97.3308}
	dallas    = geo.Coordinates{Lat: 32.7767, Lon: -96.7970}
)

// newResolver returns a Lookup over a mock geocoder with the given places.
func newResolver(t *testing.T, places map[string]geo.Coordinates) (*geocode.Lookup, *mock.Geocoder) {
	t.Helper()
	m := &mock.Geocoder{Places: places}
	l, err := geocode.NewLookup([]geocode.Provider{{Name: "mock", Geocoder: m}})
	if err != nil {
		t.Fatalf("NewLookup: %v", err)
	}
	return l, m
}

func run(t *testing.T, r Resolver, args any) map[string]json.RawMessage {
	t.Helper()
	b, err := json.Marshal(args)
	if err != nil {
		t.Fatalf("marshal args: %v", err)
	}
	out, err := Tools(r, nil)[0].Handler(context.Background(), string(b))
	if err != nil {
		t.Fatalf("handler: %v", err)
	}
	var res map[string]json.RawMessage
	if err := json.Unmarshal([]byte(out), &res); err != nil {
		t.Fatalf("result is not JSON: %v\n%s", err, out)
	}
	return res
}

func decodeResults(t *testing.T, raw json.RawMessage) []ranked {
	t.Helper()
	var rs []ranked
	if err := json.Unmarshal(raw, &rs); err != nil {
		t.Fatalf("results: %v", err)
	}
	return rs
}

// activityName dereferences r.Activity, reading null as "<nil>".
func activityName(r ranked) string {
	if r.Activity == nil {
		return "<nil>"
	}
	return *r.Activity
}

func TestHandler_SortsByDistance(t *testing.T) {
	t.Parallel()
	r, _ := newResolver(t, map[string]geo.Coordinates{
		"Keller, TX":     keller,
		"Dallas Zoo":     dallas,
		"Southlake Mall": southlake,
		"Fort Worth":     fortWorth,
	})

	res := run(t, r, map[string]any{
		"home_address": "Keller, TX",
		"activities": []map[string]any{
			{"Activity Name": "Zoo", "Location": "Dallas Zoo"},
			{"Activity Name": "Mall", "Location": "Southlake Mall"},
			{"Activity Name": "Stockyards", "Location": "Fort Worth"},
		},
	})

	var status, home string
	json.Unmarshal(res["status"], &status)
	json.Unmarshal(res["home"], &home)
	if status != "success" || home != "Keller, TX" {
		t.Errorf("status=%q home=%q", status, home)
	}

	got := decodeResults(t, res["results"])
	want := []string{"Mall", "Stockyards", "Zoo"}
	if len(got) != len(want) {
		t.Fatalf("results = %+v, want %v", got, want)
	}
	for i := range want {
		if activityName(got[i]) != want[i] {
			t.Errorf("results[%d] = %q, want %q", i, activityName(got[i]), want[i])
		}
		if i > 0 && got[i].DistanceKm < got[i-1].DistanceKm {
			t.Errorf("results not sorted: %v before %v", got[i-1].DistanceKm, got[i].DistanceKm)
		}
		if got[i].DistanceKm != geo.Round2(got[i].DistanceKm) {
			t.Errorf("distance %v not rounded to 2 decimals", got[i].DistanceKm)
		}
	}
	var count int
	json.Unmarshal(res["count"], &count)
	if count != 3 {
		t.Errorf("count = %d, want 3", count)
	}
}

func TestHandler_TiesKeepInputOrder(t *testing.T) {
	t.Parallel()
	r, _ := newResolver(t, map[string]geo.Coordinates{
		"home": keller,
		"A":    dallas,
		"B":    dallas,
		"C":    keller,
	})
	res := run(t, r, map[string]any{
		"home_address": "home",
		"activities": []map[string]any{
			{"Activity Name": "first", "Location": "A"},
			{"Activity Name": "second", "Location": "B"},
			{"Activity Name": "here", "Location": "C"},
		},
	})
	got := decodeResults(t, res["results"])
	if len(got) != 3 {
		t.Fatalf("results = %+v, want 3", got)
	}
	order := [3]string{activityName(got[0]), activityName(got[1]), activityName(got[2])}
	if order != [3]string{"here", "first", "second"} {
		t.Errorf("order = %v, want [here first second]", order)
	}
	if got[0].DistanceKm != 0 {
		t.Errorf("same point distance = %v, want 0", got[0].DistanceKm)
	}
}

func TestHandler_HomeNotFound(t *testing.T) {
	t.Parallel()
	r, m := newResolver(t, map[string]geo.Coordinates{"Dallas Zoo": dallas})

	res := run(t, r, map[string]any{
		"home_address": "Nowhere",
		"activities":   []map[string]any{{"Activity Name": "Zoo", "Location": "Dallas Zoo"}},
	})
	var status, message string
	json.Unmarshal(res["status"], &status)
	json.Unmarshal(res["message"], &message)
	if status != "error" || message != "Could not geocode home address" {
		t.Errorf("status=%q message=%q", status, message)
	}
	if _, ok := res["results"]; ok {
		t.Error("error result must not carry results")
	}
	if calls := m.Calls(); len(calls) != 1 {
		t.Errorf("geocode calls = %v, want only the home address", calls)
	}
}

func TestHandler_DropsUnresolvable(t *testing.T) {
	t.Parallel()
	r, m := newResolver(t, map[string]geo.Coordinates{
		"home":       keller,
		"Dallas Zoo": dallas,
	})
	res := run(t, r, map[string]any{
		"home_address": "home",
		"activities": []map[string]any{
			{"Activity Name": "No location"},
			{"Activity Name": "Blank", "Location": "  "},
			{"Activity Name": "Non-string", "Location": 42},
			{"Activity Name": "Lost", "Location": "Atlantis"},
			{"Activity Name": "Zoo", "Location": "Dallas Zoo"},
		},
	})
	got := decodeResults(t, res["results"])
	if len(got) != 1 || activityName(got[0]) != "Zoo" {
		t.Fatalf("results = %+v, want only Zoo", got)
	}
	// home + Atlantis + Dallas Zoo; rows without a location are never looked up.
	if n := m.CallCount(); n != 3 {
		t.Errorf("geocode calls = %d (%v), want 3", n, m.Calls())
	}
}

func TestHandler_MissingNameIsNull(t *testing.T) {
	t.Parallel()
	r, _ := newResolver(t, map[string]geo.Coordinates{"home": keller, "Dallas Zoo": dallas})
	out, err := Tools(r, nil)[0].Handler(context.Background(),
		`{"home_address":"home","activities":[{"Location":"Dallas Zoo"}]}`)
	if err != nil {
		t.Fatalf("handler: %v", err)
	}
	if !strings.Contains(out, `"activity":null`) {
		t.Errorf("output %s should carry a null activity", out)
	}
}

func TestHandler_EmptyActivities(t *testing.T) {
	t.Parallel()
	r, _ := newResolver(t, map[string]geo.Coordinates{"home": keller})
	out, err := Tools(r, nil)[0].Handler(context.Background(), `{"home_address":"home","activities":[]}`)
	if err != nil {
		t.Fatalf("handler: %v", err)
	}
	want := `{"status":"success","home":"home","count":0,"results":[]}`
	if out != want {
		t.Errorf("output = %s, want %s", out, want)
	}
}

func TestHandler_InvalidArguments(t *testing.T) {
	t.Parallel()
	r, _ := newResolver(t, nil)
	for _, args := range []string{`[`, `{"activities":[]}`, `{"home_address":"x"}`} {
		if _, err := Tools(r, nil)[0].Handler(context.Background(), args); err == nil {
			t.Errorf("args %s: expected an error", args)
		}
	}
}
