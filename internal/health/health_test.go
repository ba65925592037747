package health

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/MrWong99/familytools/internal/resilience"
)

func pass(name string) Checker {
	return Checker{Name: name, Check: func(context.Context) error { return nil }}
}

func fail(name, msg string) Checker {
	return Checker{Name: name, Check: func(context.Context) error { return errors.New(msg) }}
}

func serve(t *testing.T, h http.HandlerFunc, req *http.Request) (int, result) {
	t.Helper()
	rec := httptest.NewRecorder()
	h(rec, req)
	if ct := rec.Header().Get("Content-Type"); ct != "application/json; charset=utf-8" {
		t.Errorf("Content-Type = %q", ct)
	}
	var body result
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatalf("decode JSON: %v", err)
	}
	return rec.Code, body
}

func TestHealthz_AlwaysOK(t *testing.T) {
	t.Parallel()
	h := New(fail("catalog", "missing"))
	code, body := serve(t, h.Healthz, httptest.NewRequest("GET", "/healthz", nil))
	if code != http.StatusOK || body.Status != "ok" {
		t.Errorf("got %d %+v", code, body)
	}
}

func TestReadyz(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		checkers   []Checker
		wantStatus int
		wantBody   string
		wantChecks map[string]string
	}{
		{
			name:       "no checkers",
			wantStatus: http.StatusOK,
			wantBody:   "ok",
			wantChecks: map[string]string{},
		},
		{
			name:       "all pass",
			checkers:   []Checker{pass("catalog"), pass("geocoders")},
			wantStatus: http.StatusOK,
			wantBody:   "ok",
			wantChecks: map[string]string{"catalog": "ok", "geocoders": "ok"},
		},
		{
			name:       "one fails",
			checkers:   []Checker{fail("catalog", "no such file"), pass("geocoders")},
			wantStatus: http.StatusServiceUnavailable,
			wantBody:   "fail",
			wantChecks: map[string]string{"catalog": "fail: no such file", "geocoders": "ok"},
		},
		{
			name:       "all fail",
			checkers:   []Checker{fail("catalog", "a"), fail("geocoders", "b")},
			wantStatus: http.StatusServiceUnavailable,
			wantBody:   "fail",
			wantChecks: map[string]string{"catalog": "fail: a", "geocoders": "fail: b"},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			h := New(tc.checkers...)
			code, body := serve(t, h.Readyz, httptest.NewRequest("GET", "/readyz", nil))
			if code != tc.wantStatus {
				t.Errorf("status = %d, want %d", code, tc.wantStatus)
			}
			if body.Status != tc.wantBody {
				t.Errorf("body status = %q, want %q", body.Status, tc.wantBody)
			}
			for k, want := range tc.wantChecks {
				if body.Checks[k] != want {
					t.Errorf("checks[%q] = %q, want %q", k, body.Checks[k], want)
				}
			}
			if len(body.Checks) != len(tc.wantChecks) {
				t.Errorf("checks = %v, want %v", body.Checks, tc.wantChecks)
			}
		})
	}
}

func TestReadyz_RespectsContextCancellation(t *testing.T) {
	t.Parallel()
	h := New(Checker{Name: "slow", Check: func(ctx context.Context) error {
		<-ctx.Done()
		return ctx.Err()
	}})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	code, _ := serve(t, h.Readyz, httptest.NewRequest("GET", "/readyz", nil).WithContext(ctx))
	if code != http.StatusServiceUnavailable {
		t.Errorf("status = %d, want %d", code, http.StatusServiceUnavailable)
	}
}

func TestRegister_Routes(t *testing.T) {
	t.Parallel()
	mux := http.NewServeMux()
	New(pass("x")).Register(mux)

	for _, path := range []string{"/healthz", "/readyz"} {
		rec := httptest.NewRecorder()
		mux.ServeHTTP(rec, httptest.NewRequest("GET", path, nil))
		if rec.Code != http.StatusOK {
			t.Errorf("%s status = %d", path, rec.Code)
		}
	}
}

func TestFileReadable(t *testing.T) {
	t.Parallel()
	path := filepath.Join(t.TempDir(), "Activities.csv")
	if err := os.WriteFile(path, []byte("Activity Name\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	if err := FileReadable("catalog", path).Check(context.Background()); err != nil {
		t.Errorf("existing file: %v", err)
	}
	err := FileReadable("catalog", path+".missing").Check(context.Background())
	if !errors.Is(err, os.ErrNotExist) {
		t.Errorf("missing file err = %v, want ErrNotExist", err)
	}
}

func TestAnyBreakerClosed(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name    string
		states  map[string]resilience.State
		wantErr bool
	}{
		{"none", nil, false},
		{"one closed", map[string]resilience.State{"a": resilience.StateOpen, "b": resilience.StateClosed}, false},
		{"half open", map[string]resilience.State{"a": resilience.StateHalfOpen}, false},
		{"all open", map[string]resilience.State{"a": resilience.StateOpen, "b": resilience.StateOpen}, true},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			c := AnyBreakerClosed("geocoders", func() map[string]resilience.State { return tc.states })
			err := c.Check(context.Background())
			if (err != nil) != tc.wantErr {
				t.Fatalf("err = %v, wantErr %v", err, tc.wantErr)
			}
			if err != nil && (!errors.Is(err, resilience.ErrCircuitOpen) || !strings.Contains(err.Error(), "2 breakers")) {
				t.Errorf("err = %v", err)
			}
		})
	}
}
