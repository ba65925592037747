package geocode

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/MrWong99/familytools/pkg/geo"
)

// DefaultNominatimURL is the public OpenStreetMap Nominatim instance.
const DefaultNominatimURL = "https://nominatim.openstreetmap.org"

// DefaultUserAgent identifies the servers to Nominatim, whose usage policy
// rejects anonymous clients.
const DefaultUserAgent = "familytools-activity-server/1.0"

const defaultTimeout = 10 * time.Second

// maxErrorBody bounds how much of an error response ends up in messages.
const maxErrorBody = 512

// nominatimPlace is one entry of a /search?format=json response. Nominatim
// encodes coordinates as decimal strings.
type nominatimPlace struct {
	Lat         string `json:"lat"`
	Lon         string `json:"lon"`
	DisplayName string `json:"display_name"`
}

// Nominatim queries an OpenStreetMap Nominatim /search endpoint.
type Nominatim struct {
	baseURL   string
	userAgent string
	client    *http.Client
}

// NominatimOption configures a [Nominatim].
type NominatimOption func(*Nominatim)

// WithBaseURL points the client at a different Nominatim instance.
func WithBaseURL(u string) NominatimOption {
	return func(n *Nominatim) { n.baseURL = strings.TrimRight(u, "/") }
}

// WithUserAgent sets the User-Agent header sent with every request.
func WithUserAgent(ua string) NominatimOption {
	return func(n *Nominatim) { n.userAgent = ua }
}

// WithHTTPClient replaces the HTTP client. It overrides [WithTimeout] when
// given after it.
func WithHTTPClient(c *http.Client) NominatimOption {
	return func(n *Nominatim) { n.client = c }
}

// WithTimeout bounds each request. Zero disables the client-side timeout.
func WithTimeout(d time.Duration) NominatimOption {
	return func(n *Nominatim) { n.client = &http.Client{Timeout: d} }
}

// NewNominatim returns a client for [DefaultNominatimURL] with a 10s timeout
// unless overridden by opts.
func NewNominatim(opts ...NominatimOption) *Nominatim {
	n := &Nominatim{
		baseURL:   DefaultNominatimURL,
		userAgent: DefaultUserAgent,
		client:    &http.Client{Timeout: defaultTimeout},
	}
	for _, o := range opts {
		o(n)
	}
	return n
}

// Geocode implements [Geocoder]. An empty address is "not found" without a
// request.
func (n *Nominatim) Geocode(ctx context.Context, address string) (geo.Coordinates, bool, error) {
	if strings.TrimSpace(address) == "" {
		return geo.Coordinates{}, false, nil
	}

	params := url.Values{}
	params.Set("q", address)
	params.Set("format", "json")
	params.Set("limit", "1")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, n.baseURL+"/search?"+params.Encode(), nil)
	if err != nil {
		return geo.Coordinates{}, false, fmt.Errorf("geocode: build request: %w", err)
	}
	req.Header.Set("User-Agent", n.userAgent)
	req.Header.Set("Accept", "application/json")

	resp, err := n.client.Do(req)
	if err != nil {
		return geo.Coordinates{}, false, fmt.Errorf("geocode: nominatim request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return geo.Coordinates{}, false, fmt.Errorf("geocode: nominatim returned %s: %s",
			resp.Status, strings.TrimSpace(string(body)))
	}

	var places []nominatimPlace
	if err := json.NewDecoder(resp.Body).Decode(&places); err != nil {
		return geo.Coordinates{}, false, fmt.Errorf("geocode: decode nominatim response: %w", err)
	}
	if len(places) == 0 {
		return geo.Coordinates{}, false, nil
	}

	first := places[0]
	lat, err := strconv.ParseFloat(first.Lat, 64)
	if err != nil {
		return geo.Coordinates{}, false, fmt.Errorf("geocode: nominatim latitude %q: %w", first.Lat, err)
	}
	lon, err := strconv.ParseFloat(first.Lon, 64)
	if err != nil {
		return geo.Coordinates{}, false, fmt.Errorf("geocode: nominatim longitude %q: %w", first.Lon, err)
	}
	c := geo.Coordinates{Lat: lat, Lon: lon}
	if !c.Valid() {
		return geo.Coordinates{}, false, fmt.Errorf("geocode: nominatim returned out-of-range %s", c)
	}
	return c, true, nil
}
