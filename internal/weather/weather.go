// Package weather fetches plain-text weather reports from a wttr.in style
// service.
package weather

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/MrWong99/familytools/internal/observe"
)

const (
	// DefaultBaseURL is the public wttr.in service.
	DefaultBaseURL = "https://wttr.in"

	// DefaultUserAgent makes wttr.in answer with its terminal text format.
	DefaultUserAgent = "curl/8.5.0"

	defaultTimeout = 10 * time.Second

	// maxBody caps how much of a report is read.
	maxBody = 1 << 20
)

// Client fetches reports from GET {BaseURL}/{city}.
type Client struct {
	BaseURL   string
	UserAgent string
	HTTP      *http.Client

	// Metrics is optional.
	Metrics *observe.Metrics
}

// New returns a client with the package defaults.
func New() *Client {
	return &Client{
		BaseURL:   DefaultBaseURL,
		UserAgent: DefaultUserAgent,
		HTTP:      &http.Client{Timeout: defaultTimeout},
	}
}

// Report returns the response body for city verbatim, whatever the status
// code. The error is non-nil only when no response was received or the body
// could not be read.
func (c *Client) Report(ctx context.Context, city string) (string, error) {
	base := c.BaseURL
	if base == "" {
		base = DefaultBaseURL
	}
	endpoint := strings.TrimRight(base, "/") + "/" + url.PathEscape(city)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return "", fmt.Errorf("weather: build request: %w", err)
	}
	if c.UserAgent != "" {
		req.Header.Set("User-Agent", c.UserAgent)
	}

	hc := c.HTTP
	if hc == nil {
		hc = http.DefaultClient
	}
	resp, err := hc.Do(req)
	if err != nil {
		c.record(ctx, observe.StatusError)
		return "", fmt.Errorf("weather: fetch %q: %w", city, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBody))
	if err != nil {
		c.record(ctx, observe.StatusError)
		return "", fmt.Errorf("weather: read report for %q: %w", city, err)
	}
	if resp.StatusCode != http.StatusOK {
		observe.Logger(ctx).Debug("weather: non-200 response passed through",
			"city", city, "status", resp.StatusCode)
	}
	c.record(ctx, observe.StatusOK)
	return string(body), nil
}

func (c *Client) record(ctx context.Context, status string) {
	if c.Metrics != nil {
		c.Metrics.RecordWeather(ctx, status)
	}
}
