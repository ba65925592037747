package config

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"maps"
	"os"
	"slices"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/MrWong99/familytools/pkg/geo"
)

// Environment variables that override file values.
const (
	EnvListenAddr         = "FAMILYTOOLS_LISTEN_ADDR"
	EnvLogLevel           = "FAMILYTOOLS_LOG_LEVEL"
	EnvNominatimUserAgent = "NOMINATIM_USER_AGENT"
)

// KnownGeocoders lists the geocoder names registered by [NewDefaultRegistry].
// Used by [Validate] to warn about unrecognised names.
var KnownGeocoders = []string{"nominatim", "static"}

// LoadDotEnv loads KEY=VALUE pairs from the given files into the process
// environment without overriding variables that are already set. With no
// arguments it reads ".env" and silently ignores a missing file.
func LoadDotEnv(paths ...string) error {
	if len(paths) == 0 {
		err := godotenv.Load()
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		if err != nil {
			return fmt.Errorf("config: load .env: %w", err)
		}
		return nil
	}
	if err := godotenv.Load(paths...); err != nil {
		return fmt.Errorf("config: load env files: %w", err)
	}
	return nil
}

// Load reads the YAML configuration file at path on top of [Defaults] for
// kind, applies environment overrides, and validates the result. An empty
// path yields the defaults plus environment overrides.
func Load(path string, kind Kind) (*Config, error) {
	if path == "" {
		cfg := Defaults(kind)
		ApplyEnv(cfg, os.Getenv)
		if err := Validate(cfg); err != nil {
			return nil, err
		}
		return cfg, nil
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("config: open %q: %w", path, err)
	}
	defer f.Close()

	cfg, err := LoadFromReader(f, kind)
	if err != nil {
		return nil, fmt.Errorf("config: parse %q: %w", path, err)
	}
	return cfg, nil
}

// LoadFromReader decodes a YAML config from r on top of [Defaults] for kind,
// applies environment overrides, and validates the result. Unknown keys are
// rejected. An empty document yields the defaults.
func LoadFromReader(r io.Reader, kind Kind) (*Config, error) {
	cfg := Defaults(kind)
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("config: decode yaml: %w", err)
	}
	ApplyEnv(cfg, os.Getenv)
	if err := Validate(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// ApplyEnv overrides cfg fields from the environment as read by getenv.
// Empty values are ignored. [EnvNominatimUserAgent] applies to every
// nominatim provider entry.
func ApplyEnv(cfg *Config, getenv func(string) string) {
	if v := strings.TrimSpace(getenv(EnvListenAddr)); v != "" {
		cfg.Server.ListenAddr = v
	}
	if v := strings.TrimSpace(getenv(EnvLogLevel)); v != "" {
		cfg.Server.LogLevel = LogLevel(strings.ToLower(v))
	}
	if v := strings.TrimSpace(getenv(EnvNominatimUserAgent)); v != "" {
		for i := range cfg.Geocoding.Providers {
			if cfg.Geocoding.Providers[i].Name == "nominatim" {
				cfg.Geocoding.Providers[i].UserAgent = v
			}
		}
	}
}

// Validate checks that cfg contains a coherent set of values.
// It returns a joined error listing all validation failures found.
func Validate(cfg *Config) error {
	var errs []error

	// Server
	srv := cfg.Server
	if srv.ListenAddr == "" {
		errs = append(errs, errors.New("server.listen_addr is required"))
	}
	if srv.LogLevel != "" && !srv.LogLevel.IsValid() {
		errs = append(errs, fmt.Errorf("server.log_level %q is invalid; valid values: debug, info, warn, error", srv.LogLevel))
	}
	if srv.Mode != "" && !srv.Mode.IsValid() {
		errs = append(errs, fmt.Errorf("server.mode %q is invalid; valid values: standalone, mount", srv.Mode))
	}
	if srv.Transport != "" && !srv.Transport.IsValid() {
		errs = append(errs, fmt.Errorf("server.transport %q is invalid; valid values: sse, streamable-http", srv.Transport))
	}
	if srv.MountPath != "" && (!strings.HasPrefix(srv.MountPath, "/") || srv.MountPath == "/") {
		errs = append(errs, fmt.Errorf("server.mount_path %q must start with / and not be the root", srv.MountPath))
	}
	if srv.TLS != nil && (srv.TLS.CertFile == "" || srv.TLS.KeyFile == "") {
		errs = append(errs, errors.New("server.tls requires both cert_file and key_file"))
	}

	// Geocoding
	gc := cfg.Geocoding
	if gc.MinInterval < 0 {
		errs = append(errs, fmt.Errorf("geocoding.min_interval %s must not be negative", gc.MinInterval))
	}
	if gc.Breaker.MaxFailures < 0 || gc.Breaker.HalfOpenMax < 0 || gc.Breaker.ResetTimeout < 0 {
		errs = append(errs, errors.New("geocoding.breaker values must not be negative"))
	}
	seen := make(map[string]int, len(gc.Providers))
	for i, p := range gc.Providers {
		prefix := fmt.Sprintf("geocoding.providers[%d]", i)
		if p.Name == "" {
			errs = append(errs, fmt.Errorf("%s.name is required", prefix))
			continue
		}
		if prev, ok := seen[p.Name]; ok {
			errs = append(errs, fmt.Errorf("%s.name %q is a duplicate of geocoding.providers[%d]", prefix, p.Name, prev))
		}
		seen[p.Name] = i
		if !slices.Contains(KnownGeocoders, p.Name) {
			slog.Warn("unknown geocoder name; it must be registered before startup",
				"name", p.Name,
				"known", KnownGeocoders,
			)
		}
		if p.Timeout < 0 {
			errs = append(errs, fmt.Errorf("%s.timeout %s must not be negative", prefix, p.Timeout))
		}
		errs = append(errs, validatePlaces(prefix+".places", p.Places)...)
	}
	errs = append(errs, validatePlaces("geocoding.pinned", gc.Pinned)...)

	// Weather
	if cfg.Weather.Timeout < 0 {
		errs = append(errs, fmt.Errorf("weather.timeout %s must not be negative", cfg.Weather.Timeout))
	}

	// Catalog
	if strings.TrimSpace(cfg.Catalog.Path) == "" {
		errs = append(errs, errors.New("catalog.path is required"))
	}

	return errors.Join(errs...)
}

func validatePlaces(prefix string, places map[string]Place) []error {
	var errs []error
	for _, addr := range slices.Sorted(maps.Keys(places)) {
		p := places[addr]
		if !(geo.Coordinates{Lat: p.Lat, Lon: p.Lon}).Valid() {
			errs = append(errs, fmt.Errorf("%s[%q]: coordinates (%g, %g) out of range", prefix, addr, p.Lat, p.Lon))
		}
	}
	return errs
}
