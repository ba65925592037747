package weather

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestReport(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		city     string
		status   int
		body     string
		wantPath string
	}{
		{name: "plain city", city: "Dallas", status: 200, body: "Dallas: ☀️ +31°C\n", wantPath: "/Dallas"},
		{name: "escaped city", city: "New York", status: 200, body: "cloudy", wantPath: "/New%20York"},
		{name: "error status passed through", city: "Nowhere", status: 404, body: "Unknown location", wantPath: "/Nowhere"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			var gotPath, gotUA string
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				gotPath = r.URL.EscapedPath()
				gotUA = r.Header.Get("User-Agent")
				w.WriteHeader(tt.status)
				w.Write([]byte(tt.body))
			}))
			defer srv.Close()

			c := New()
			c.BaseURL = srv.URL + "/"
			got, err := c.Report(context.Background(), tt.city)
			if err != nil {
				t.Fatalf("Report: %v", err)
			}
			if got != tt.body {
				t.Errorf("body = %q, want %q", got, tt.body)
			}
			if gotPath != tt.wantPath {
				t.Errorf("path = %q, want %q", gotPath, tt.wantPath)
			}
			if gotUA != DefaultUserAgent {
				t.Errorf("User-Agent = %q, want %q", gotUA, DefaultUserAgent)
			}
		})
	}
}

func TestReport_TransportFailure(t *testing.T) {
	t.Parallel()
	srv := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	url := srv.URL
	srv.Close()

	c := New()
	c.BaseURL = url
	if _, err := c.Report(context.Background(), "Dallas"); err == nil {
		t.Fatal("expected an error when the server is unreachable")
	}
}
