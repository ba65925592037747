package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/MrWong99/familytools/internal/config"
	"github.com/MrWong99/familytools/internal/observe"
)

// CommandOptions are the command-line inputs shared by both servers.
type CommandOptions struct {
	// ConfigPath is the optional YAML file. Empty means defaults only.
	ConfigPath string

	// EnvFiles are loaded before the config. Empty means ".env" if present.
	EnvFiles []string

	// Watch reloads ConfigPath while running.
	Watch bool

	// Stderr receives log output. Default: os.Stderr.
	Stderr io.Writer
}

// RunCommand loads configuration, builds the tool table for kind and serves it
// until ctx is cancelled. It returns the process exit code.
func RunCommand(ctx context.Context, kind config.Kind, opts CommandOptions) int {
	stderr := opts.Stderr
	if stderr == nil {
		stderr = os.Stderr
	}

	// ── Environment and configuration ─────────────────────────────────────────
	if err := config.LoadDotEnv(opts.EnvFiles...); err != nil {
		fmt.Fprintf(stderr, "%s-server: %v\n", kind, err)
		return 1
	}
	cfg, err := config.Load(opts.ConfigPath, kind)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			fmt.Fprintf(stderr, "%s-server: config file %q not found\n", kind, opts.ConfigPath)
		} else {
			fmt.Fprintf(stderr, "%s-server: %v\n", kind, err)
		}
		return 1
	}

	// ── Logger ────────────────────────────────────────────────────────────────
	var level slog.LevelVar
	level.Set(cfg.Server.LogLevel.Level())
	slog.SetDefault(slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: &level})))

	slog.Info("starting",
		"server", cfg.Server.Name,
		"config", opts.ConfigPath,
		"listen_addr", cfg.Server.ListenAddr,
		"mode", cfg.Server.Mode,
		"transport", cfg.Server.Transport,
	)

	// ── Telemetry ─────────────────────────────────────────────────────────────
	prov, err := observe.InitProvider(ctx, observe.ProviderConfig{
		ServiceName:    "familytools-" + string(kind),
		ServiceVersion: Version,
	})
	if err != nil {
		slog.Error("failed to initialise telemetry", "err", err)
		return 1
	}
	defer func() {
		if err := prov.Shutdown(context.Background()); err != nil {
			slog.Warn("telemetry shutdown error", "err", err)
		}
	}()
	metrics := observe.DefaultMetrics()

	// ── Tool table ────────────────────────────────────────────────────────────
	host, err := BuildHost(kind, cfg, metrics, config.NewDefaultRegistry())
	if err != nil {
		slog.Error("failed to build tool table", "err", err)
		return 1
	}
	for _, d := range host.Table.Tools() {
		slog.Debug("tool registered", "name", d.Name)
	}

	appOpts := []Option{
		WithMetrics(metrics),
		WithMetricsHandler(prov.MetricsHandler()),
	}
	if opts.Watch && opts.ConfigPath != "" {
		w, err := config.NewWatcher(opts.ConfigPath, kind, OnConfigChange(&level))
		if err != nil {
			slog.Error("failed to start config watcher", "err", err)
			return 1
		}
		appOpts = append(appOpts, WithBackground(w.Run))
	}

	application, err := New(cfg, host, appOpts...)
	if err != nil {
		slog.Error("failed to initialise server", "err", err)
		return 1
	}

	// ── Serve ─────────────────────────────────────────────────────────────────
	if err := application.Run(ctx); err != nil {
		slog.Error("server error", "err", err)
		return 1
	}
	slog.Info("goodbye")
	return 0
}
