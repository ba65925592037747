package app

import (
	"fmt"

	"github.com/MrWong99/familytools/internal/config"
	"github.com/MrWong99/familytools/internal/geocode"
	"github.com/MrWong99/familytools/internal/health"
	"github.com/MrWong99/familytools/internal/mcp/toolhost"
	"github.com/MrWong99/familytools/internal/mcp/tools/budget"
	"github.com/MrWong99/familytools/internal/mcp/tools/catalog"
	"github.com/MrWong99/familytools/internal/mcp/tools/distance"
	"github.com/MrWong99/familytools/internal/mcp/tools/utility"
	"github.com/MrWong99/familytools/internal/observe"
	"github.com/MrWong99/familytools/internal/resilience"
	"github.com/MrWong99/familytools/internal/throttle"
	"github.com/MrWong99/familytools/internal/weather"
)

// Host is a populated tool table plus the readiness checks of the
// dependencies its tools use.
type Host struct {
	Table    *toolhost.Host
	Checkers []health.Checker
}

// BuildHost populates the tool table for kind from cfg. m may be nil; reg
// nil means [config.NewDefaultRegistry].
func BuildHost(kind config.Kind, cfg *config.Config, m *observe.Metrics, reg *config.Registry) (*Host, error) {
	switch kind {
	case config.KindActivity:
		return activityHost(cfg, m, reg)
	case config.KindChat:
		return chatHost(cfg, m)
	}
	return nil, fmt.Errorf("app: unknown server kind %q", kind)
}

// activityHost registers the budget and distance tools, the catalogue
// resource and listing tool, and the two canned prompts.
func activityHost(cfg *config.Config, m *observe.Metrics, reg *config.Registry) (*Host, error) {
	if reg == nil {
		reg = config.NewDefaultRegistry()
	}

	providers, err := reg.Providers(cfg.Geocoding.Providers)
	if err != nil {
		return nil, fmt.Errorf("app: geocoders: %w", err)
	}
	pinned, err := config.PinnedPlaces(cfg.Geocoding.Pinned)
	if err != nil {
		return nil, fmt.Errorf("app: %w", err)
	}
	opts := []geocode.LookupOption{
		geocode.WithGate(throttle.NewInterval(cfg.Geocoding.MinInterval)),
		geocode.WithBreaker(resilience.BreakerConfig{
			MaxFailures:  cfg.Geocoding.Breaker.MaxFailures,
			ResetTimeout: cfg.Geocoding.Breaker.ResetTimeout,
			HalfOpenMax:  cfg.Geocoding.Breaker.HalfOpenMax,
		}),
	}
	if pinned != nil {
		opts = append(opts, geocode.WithPinned(pinned))
	}
	if m != nil {
		opts = append(opts, geocode.WithMetrics(m))
	}
	lookup, err := geocode.NewLookup(providers, opts...)
	if err != nil {
		return nil, fmt.Errorf("app: %w", err)
	}

	cat := catalog.New(cfg.Catalog.Path)
	table := toolhost.New(toolhost.WithMetrics(m))

	if err := table.RegisterTools(budget.Tools(m)...); err != nil {
		return nil, fmt.Errorf("app: %w", err)
	}
	if err := table.RegisterTools(distance.Tools(lookup, m)...); err != nil {
		return nil, fmt.Errorf("app: %w", err)
	}
	if err := table.RegisterTools(cat.Tools()...); err != nil {
		return nil, fmt.Errorf("app: %w", err)
	}
	for _, r := range cat.Resources() {
		if err := table.RegisterResource(r); err != nil {
			return nil, fmt.Errorf("app: %w", err)
		}
	}
	for _, p := range catalog.Prompts() {
		if err := table.RegisterPrompt(p); err != nil {
			return nil, fmt.Errorf("app: %w", err)
		}
	}

	return &Host{
		Table: table,
		Checkers: []health.Checker{
			health.FileReadable("catalog", cat.Path()),
			health.AnyBreakerClosed("geocoders", lookup.BreakerStates),
		},
	}, nil
}

// chatHost registers add, get_secret_word and get_current_weather.
func chatHost(cfg *config.Config, m *observe.Metrics) (*Host, error) {
	wc := weather.New()
	if cfg.Weather.BaseURL != "" {
		wc.BaseURL = cfg.Weather.BaseURL
	}
	if cfg.Weather.UserAgent != "" {
		wc.UserAgent = cfg.Weather.UserAgent
	}
	if cfg.Weather.Timeout > 0 {
		wc.HTTP.Timeout = cfg.Weather.Timeout
	}
	wc.Metrics = m

	table := toolhost.New(toolhost.WithMetrics(m))
	if err := table.RegisterTools(utility.Tools(wc)...); err != nil {
		return nil, fmt.Errorf("app: %w", err)
	}
	return &Host{Table: table}, nil
}
