package utility

import (
	"context"
	"errors"
	"slices"
	"testing"

	"github.com/MrWong99/familytools/internal/mcp/tools"
)

// fakeReporter returns a fixed report or error and records the city.
type fakeReporter struct {
	report string
	err    error
	cities []string
}

func (f *fakeReporter) Report(_ context.Context, city string) (string, error) {
	f.cities = append(f.cities, city)
	return f.report, f.err
}

func toolByName(t *testing.T, ts []tools.Tool, name string) tools.Tool {
	t.Helper()
	for _, tl := range ts {
		if tl.Definition.Name == name {
			return tl
		}
	}
	t.Fatalf("tool %q not found", name)
	return tools.Tool{}
}

func TestTools_Names(t *testing.T) {
	t.Parallel()
	var names []string
	for _, tl := range Tools(&fakeReporter{}) {
		names = append(names, tl.Definition.Name)
		if tl.Definition.Parameters["type"] != "object" {
			t.Errorf("%s: schema type = %v, want object", tl.Definition.Name, tl.Definition.Parameters["type"])
		}
	}
	if !slices.Equal(names, []string{"add", "get_secret_word", "get_current_weather"}) {
		t.Errorf("names = %v", names)
	}
}

func TestAdd(t *testing.T) {
	t.Parallel()
	add := toolByName(t, Tools(&fakeReporter{}), AddTool)

	tests := []struct {
		args    string
		want    string
		wantErr bool
	}{
		{args: `{"a":2,"b":3}`, want: "5"},
		{args: `{"a":-7,"b":2}`, want: "-5"},
		{args: `{"a":0,"b":0}`, want: "0"},
		{args: `{"a":2.0,"b":3}`, want: "5"},
		{args: `{"a":1e2,"b":-1}`, want: "99"},
		{args: `{"a":1}`, wantErr: true},
		{args: `{"a":1.5,"b":1}`, wantErr: true},
		{args: `{"a":"1","b":1}`, wantErr: true},
	}
	for _, tt := range tests {
		got, err := add.Handler(context.Background(), tt.args)
		if (err != nil) != tt.wantErr {
			t.Errorf("add(%s) err = %v, wantErr %v", tt.args, err, tt.wantErr)
			continue
		}
		if got != tt.want {
			t.Errorf("add(%s) = %q, want %q", tt.args, got, tt.want)
		}
	}
}

func TestSecretWord(t *testing.T) {
	t.Parallel()
	secret := toolByName(t, Tools(&fakeReporter{}), SecretTool)

	seen := map[string]bool{}
	for range 300 {
		w, err := secret.Handler(context.Background(), "")
		if err != nil {
			t.Fatalf("get_secret_word: %v", err)
		}
		if !slices.Contains(secretWords, w) {
			t.Fatalf("word %q not in pool", w)
		}
		seen[w] = true
	}
	// 300 draws from 3 words miss one with probability ~3·(2/3)^300.
	if len(seen) != len(secretWords) {
		t.Errorf("saw %v, want all of %v", seen, secretWords)
	}
}

func TestWeather(t *testing.T) {
	t.Parallel()
	fr := &fakeReporter{report: "Dallas: +31°C"}
	weather := toolByName(t, Tools(fr), WeatherTool)

	got, err := weather.Handler(context.Background(), `{"city":"Dallas"}`)
	if err != nil {
		t.Fatalf("get_current_weather: %v", err)
	}
	if got != "Dallas: +31°C" {
		t.Errorf("report = %q", got)
	}
	if !slices.Equal(fr.cities, []string{"Dallas"}) {
		t.Errorf("cities = %v", fr.cities)
	}

	if _, err := weather.Handler(context.Background(), `{}`); err == nil {
		t.Error("missing city should be an error")
	}
}

func TestWeather_TransportError(t *testing.T) {
	t.Parallel()
	boom := errors.New("dial tcp: no route to host")
	weather := toolByName(t, Tools(&fakeReporter{err: boom}), WeatherTool)

	if _, err := weather.Handler(context.Background(), `{"city":"Dallas"}`); !errors.Is(err, boom) {
		t.Errorf("err = %v, want %v", err, boom)
	}
}
