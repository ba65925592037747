// Package app wires a tool table into a running MCP HTTP server.
//
// [New] builds the routes for the configured mode and transport, [App.Run]
// serves until its context is cancelled and then shuts the HTTP server down
// gracefully. Background tasks such as the config watcher run alongside the
// server in the same errgroup.
package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"path"
	"time"

	mcpsdk "github.com/modelcontextprotocol/go-sdk/mcp"
	"golang.org/x/sync/errgroup"

	"github.com/MrWong99/familytools/internal/config"
	"github.com/MrWong99/familytools/internal/health"
	"github.com/MrWong99/familytools/internal/mcp"
	"github.com/MrWong99/familytools/internal/mcp/toolhost"
	"github.com/MrWong99/familytools/internal/observe"
)

// Version is announced to MCP clients.
const Version = "1.0.0"

// shutdownTimeout bounds graceful HTTP shutdown.
const shutdownTimeout = 15 * time.Second

// App owns the HTTP server of one MCP endpoint.
type App struct {
	cfg     *config.Config
	host    *Host
	metrics *observe.Metrics

	metricsHandler http.Handler
	listener       net.Listener
	background     []func(context.Context) error

	handler http.Handler
	srv     *http.Server
}

// Option is a functional option for [New].
type Option func(*App)

// WithMetrics records HTTP request durations with m.
func WithMetrics(m *observe.Metrics) Option {
	return func(a *App) { a.metrics = m }
}

// WithMetricsHandler serves h at /metrics in mount mode.
func WithMetricsHandler(h http.Handler) Option {
	return func(a *App) { a.metricsHandler = h }
}

// WithListener serves on l instead of listening on server.listen_addr.
func WithListener(l net.Listener) Option {
	return func(a *App) { a.listener = l }
}

// WithBackground runs fn alongside the server. fn must return once its
// context is done.
func WithBackground(fn func(context.Context) error) Option {
	return func(a *App) { a.background = append(a.background, fn) }
}

// New builds the HTTP routes for host according to cfg.Server.
func New(cfg *config.Config, host *Host, opts ...Option) (*App, error) {
	if host == nil || host.Table == nil {
		return nil, errors.New("app: a populated host is required")
	}
	a := &App{cfg: cfg, host: host}
	for _, o := range opts {
		o(a)
	}

	srv := toolhost.NewServer(host.Table, &mcpsdk.Implementation{
		Name:    cfg.Server.Name,
		Version: Version,
	})
	transport := cfg.Server.Transport
	if transport == "" {
		transport = mcp.TransportSSE
	}
	endpoint := toolhost.Handler(srv, transport)

	mux := http.NewServeMux()
	switch cfg.Server.Mode {
	case mcp.ModeMount:
		health.New(host.Checkers...).Register(mux)
		if a.metricsHandler != nil {
			mux.Handle("GET /metrics", a.metricsHandler)
		}
		mount := cfg.Server.MountPath
		if mount == "" {
			mount = "/mcp"
		}
		mux.Handle(endpointPath(mount, transport), endpoint)
	case mcp.ModeStandalone, "":
		mux.Handle(endpointPath("/", transport), endpoint)
	default:
		return nil, fmt.Errorf("app: unknown server mode %q", cfg.Server.Mode)
	}

	a.handler = mux
	if a.metrics != nil {
		a.handler = observe.Middleware(a.metrics)(mux)
	}
	a.srv = &http.Server{
		Addr:              cfg.Server.ListenAddr,
		Handler:           a.handler,
		ReadHeaderTimeout: 10 * time.Second,
	}
	return a, nil
}

// endpointPath is "<prefix>/sse" for SSE and "<prefix>" (or "/mcp" at the
// root) for streamable HTTP.
func endpointPath(prefix string, transport mcp.Transport) string {
	if transport == mcp.TransportStreamableHTTP {
		if prefix == "/" {
			return "/mcp"
		}
		return prefix
	}
	return path.Join(prefix, "sse")
}

// Handler returns the root HTTP handler.
func (a *App) Handler() http.Handler { return a.handler }

// Run serves until ctx is cancelled or the server fails. Open event streams
// are cancelled when shutdown begins.
func (a *App) Run(ctx context.Context) error {
	ln := a.listener
	if ln == nil {
		var err error
		ln, err = net.Listen("tcp", a.srv.Addr)
		if err != nil {
			return fmt.Errorf("app: listen %s: %w", a.srv.Addr, err)
		}
	}

	baseCtx, cancelBase := context.WithCancel(context.Background())
	defer cancelBase()
	a.srv.BaseContext = func(net.Listener) context.Context { return baseCtx }
	a.srv.RegisterOnShutdown(cancelBase)

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		slog.Info("mcp server listening",
			"name", a.cfg.Server.Name,
			"addr", ln.Addr().String(),
			"mode", a.cfg.Server.Mode,
			"transport", a.cfg.Server.Transport,
		)
		var err error
		if tls := a.cfg.Server.TLS; tls != nil {
			err = a.srv.ServeTLS(ln, tls.CertFile, tls.KeyFile)
		} else {
			err = a.srv.Serve(ln)
		}
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("app: serve: %w", err)
	})

	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		slog.Info("shutting down mcp server")
		if err := a.srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("app: shutdown: %w", err)
		}
		return nil
	})

	for _, fn := range a.background {
		g.Go(func() error { return fn(gctx) })
	}

	return g.Wait()
}

// OnConfigChange returns a [config.Watcher] callback that applies log level
// changes to level and warns about changes that need a restart.
func OnConfigChange(level *slog.LevelVar) func(old, new *config.Config) {
	return func(old, new *config.Config) {
		d := config.Diff(old, new)
		if d.LogLevelChanged {
			level.Set(d.NewLogLevel.Level())
			slog.Info("log level changed", "level", d.NewLogLevel)
		}
		if len(d.RestartRequired) > 0 {
			slog.Warn("config changes require a restart to take effect", "sections", d.RestartRequired)
		}
	}
}
