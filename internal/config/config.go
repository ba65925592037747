// Package config provides the configuration schema, loader, and geocoder
// registry for the family tools MCP servers.
package config

import (
	"log/slog"
	"time"

	"github.com/MrWong99/familytools/internal/geocode"
	"github.com/MrWong99/familytools/internal/mcp"
	"github.com/MrWong99/familytools/internal/weather"
)

// LogLevel controls log verbosity.
type LogLevel string

const (
	LogDebug LogLevel = "debug"
	LogInfo  LogLevel = "info"
	LogWarn  LogLevel = "warn"
	LogError LogLevel = "error"
)

// IsValid reports whether l is a recognised log level.
func (l LogLevel) IsValid() bool {
	switch l {
	case LogDebug, LogInfo, LogWarn, LogError:
		return true
	}
	return false
}

// Level maps l to the matching slog level. Unknown values map to info.
func (l LogLevel) Level() slog.Level {
	switch l {
	case LogDebug:
		return slog.LevelDebug
	case LogWarn:
		return slog.LevelWarn
	case LogError:
		return slog.LevelError
	}
	return slog.LevelInfo
}

// Kind identifies which server a configuration belongs to. It selects the
// defaults returned by [Defaults].
type Kind string

const (
	// KindActivity is the family activity server (budget and distance tools).
	KindActivity Kind = "activity"

	// KindChat is the utility chat server (add, secret word, weather).
	KindChat Kind = "chat"
)

// IsValid reports whether k is a recognised server kind.
func (k Kind) IsValid() bool {
	return k == KindActivity || k == KindChat
}

// Config is the root configuration structure.
// It is typically loaded from a YAML file using [Load] or [LoadFromReader].
type Config struct {
	Server    ServerConfig    `yaml:"server"`
	Geocoding GeocodingConfig `yaml:"geocoding"`
	Weather   WeatherConfig   `yaml:"weather"`
	Catalog   CatalogConfig   `yaml:"catalog"`
}

// ServerConfig holds network and logging settings.
type ServerConfig struct {
	// Name is the implementation name announced to MCP clients.
	Name string `yaml:"name"`

	// ListenAddr is the TCP address the server listens on (e.g., "127.0.0.1:8000").
	ListenAddr string `yaml:"listen_addr"`

	// LogLevel controls verbosity. It is hot-reloadable.
	LogLevel LogLevel `yaml:"log_level"`

	// Mode selects between a dedicated MCP server and a web application with
	// the MCP endpoint mounted under MountPath.
	Mode mcp.Mode `yaml:"mode"`

	// Transport selects the MCP HTTP transport.
	Transport mcp.Transport `yaml:"transport"`

	// MountPath is the path prefix of the MCP endpoint in mount mode.
	MountPath string `yaml:"mount_path"`

	// TLS configures TLS for the server. When nil, the server runs plain HTTP.
	TLS *TLSConfig `yaml:"tls"`
}

// TLSConfig holds TLS certificate paths for enabling HTTPS.
type TLSConfig struct {
	CertFile string `yaml:"cert_file"`
	KeyFile  string `yaml:"key_file"`
}

// GeocodingConfig configures address resolution for the distance tool.
type GeocodingConfig struct {
	// Providers are tried in order; each sits behind its own circuit breaker.
	Providers []GeocoderEntry `yaml:"providers"`

	// MinInterval is the minimum spacing between outbound lookups.
	// Zero disables throttling.
	MinInterval time.Duration `yaml:"min_interval"`

	// Breaker tunes the per-provider circuit breakers.
	Breaker BreakerConfig `yaml:"breaker"`

	// Pinned maps addresses to fixed coordinates. Pinned addresses are
	// answered without contacting any provider.
	Pinned map[string]Place `yaml:"pinned"`
}

// GeocoderEntry configures one geocoder. Name selects the constructor in the
// [Registry].
type GeocoderEntry struct {
	Name      string           `yaml:"name"`
	BaseURL   string           `yaml:"base_url"`
	UserAgent string           `yaml:"user_agent"`
	Timeout   time.Duration    `yaml:"timeout"`
	Places    map[string]Place `yaml:"places"`
}

// Place is a latitude/longitude pair in decimal degrees.
type Place struct {
	Lat float64 `yaml:"lat"`
	Lon float64 `yaml:"lon"`
}

// BreakerConfig mirrors the tunable fields of a circuit breaker.
type BreakerConfig struct {
	MaxFailures  int           `yaml:"max_failures"`
	ResetTimeout time.Duration `yaml:"reset_timeout"`
	HalfOpenMax  int           `yaml:"half_open_max"`
}

// WeatherConfig configures the wttr.in client of the chat server.
type WeatherConfig struct {
	BaseURL   string        `yaml:"base_url"`
	UserAgent string        `yaml:"user_agent"`
	Timeout   time.Duration `yaml:"timeout"`
}

// CatalogConfig locates the activity catalogue CSV.
type CatalogConfig struct {
	Path string `yaml:"path"`
}

// Defaults returns the built-in configuration for kind. Unknown kinds get the
// activity defaults.
func Defaults(kind Kind) *Config {
	cfg := &Config{
		Server: ServerConfig{
			Name:       "Activity",
			ListenAddr: "127.0.0.1:8000",
			LogLevel:   LogInfo,
			Mode:       mcp.ModeStandalone,
			Transport:  mcp.TransportSSE,
			MountPath:  "/mcp",
		},
		Geocoding: GeocodingConfig{
			Providers:   []GeocoderEntry{{Name: "nominatim", BaseURL: geocode.DefaultNominatimURL, UserAgent: geocode.DefaultUserAgent}},
			MinInterval: time.Second,
			Breaker:     BreakerConfig{MaxFailures: 5, ResetTimeout: 30 * time.Second, HalfOpenMax: 1},
		},
		Weather: WeatherConfig{
			BaseURL:   weather.DefaultBaseURL,
			UserAgent: weather.DefaultUserAgent,
			Timeout:   10 * time.Second,
		},
		Catalog: CatalogConfig{Path: "Activities.csv"},
	}
	if kind == KindChat {
		cfg.Server.Name = "Chat-MCP-Server"
		cfg.Server.ListenAddr = "0.0.0.0:8001"
	}
	return cfg
}
