// Package toolhost implements [mcp.Host] as an explicit in-process table of
// tools, resources and prompts, and binds such a table to the MCP Go SDK
// (github.com/modelcontextprotocol/go-sdk).
//
// Typical usage:
//
//	h := toolhost.New(toolhost.WithMetrics(observe.DefaultMetrics()))
//	if err := h.RegisterTools(budget.Tools(nil)...); err != nil { … }
//	srv := toolhost.NewServer(h, &mcpsdk.Implementation{Name: "Activity"})
//	http.Handle("/sse", toolhost.Handler(srv, mcp.TransportSSE))
package toolhost

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/MrWong99/familytools/internal/mcp"
	"github.com/MrWong99/familytools/internal/mcp/tools"
	"github.com/MrWong99/familytools/internal/observe"
)

// Sentinel errors returned by [Host].
var (
	ErrToolNotFound     = errors.New("toolhost: tool not found")
	ErrResourceNotFound = errors.New("toolhost: resource not found")
	ErrPromptNotFound   = errors.New("toolhost: prompt not found")
	ErrDuplicate        = errors.New("toolhost: already registered")
)

type toolEntry struct {
	tool   tools.Tool
	window *window
}

// Host is the concrete [mcp.Host]. Create instances with [New].
type Host struct {
	mu        sync.RWMutex
	tools     map[string]*toolEntry
	resources map[string]mcp.Resource
	prompts   map[string]mcp.Prompt

	metrics    *observe.Metrics
	windowSize int
}

var _ mcp.Host = (*Host)(nil)

// Option configures a [Host].
type Option func(*Host)

// WithMetrics records a counter, a latency histogram and a span for every
// tool call.
func WithMetrics(m *observe.Metrics) Option {
	return func(h *Host) { h.metrics = m }
}

// WithWindowSize sets the number of recent calls kept per tool for
// [Host.Health]. Default: 100.
func WithWindowSize(n int) Option {
	return func(h *Host) { h.windowSize = n }
}

// New returns an empty host.
func New(opts ...Option) *Host {
	h := &Host{
		tools:      make(map[string]*toolEntry),
		resources:  make(map[string]mcp.Resource),
		prompts:    make(map[string]mcp.Prompt),
		windowSize: defaultWindowSize,
	}
	for _, o := range opts {
		o(h)
	}
	return h
}

// RegisterTool adds t to the table. Names must be unique, non-empty, and the
// handler must be set.
func (h *Host) RegisterTool(t tools.Tool) error {
	name := t.Definition.Name
	if strings.TrimSpace(name) == "" {
		return errors.New("toolhost: tool must have a non-empty name")
	}
	if t.Handler == nil {
		return fmt.Errorf("toolhost: tool %q must have a non-nil handler", name)
	}
	if t.Definition.Parameters == nil {
		t.Definition.Parameters = tools.Object(map[string]any{})
	}
	if typ, _ := t.Definition.Parameters["type"].(string); typ != "object" {
		return fmt.Errorf("toolhost: tool %q parameters must be a JSON Schema object", name)
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.tools[name]; ok {
		return fmt.Errorf("%w: tool %q", ErrDuplicate, name)
	}
	h.tools[name] = &toolEntry{tool: t, window: newWindow(h.windowSize)}
	return nil
}

// RegisterTools registers each tool in order and stops at the first error.
func (h *Host) RegisterTools(ts ...tools.Tool) error {
	for _, t := range ts {
		if err := h.RegisterTool(t); err != nil {
			return err
		}
	}
	return nil
}

// RegisterResource adds r to the table. URIs must be unique.
func (h *Host) RegisterResource(r mcp.Resource) error {
	if r.URI == "" {
		return errors.New("toolhost: resource must have a non-empty URI")
	}
	if r.Read == nil {
		return fmt.Errorf("toolhost: resource %q must have a reader", r.URI)
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.resources[r.URI]; ok {
		return fmt.Errorf("%w: resource %q", ErrDuplicate, r.URI)
	}
	h.resources[r.URI] = r
	return nil
}

// RegisterPrompt adds p to the table. Names must be unique.
func (h *Host) RegisterPrompt(p mcp.Prompt) error {
	if p.Name == "" {
		return errors.New("toolhost: prompt must have a non-empty name")
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.prompts[p.Name]; ok {
		return fmt.Errorf("%w: prompt %q", ErrDuplicate, p.Name)
	}
	h.prompts[p.Name] = p
	return nil
}

// Tools implements [mcp.Host].
func (h *Host) Tools() []tools.Definition {
	h.mu.RLock()
	defs := make([]tools.Definition, 0, len(h.tools))
	for _, e := range h.tools {
		defs = append(defs, e.tool.Definition)
	}
	h.mu.RUnlock()
	slices.SortFunc(defs, func(a, b tools.Definition) int { return strings.Compare(a.Name, b.Name) })
	return defs
}

// ExecuteTool implements [mcp.Host].
func (h *Host) ExecuteTool(ctx context.Context, name string, args string) (*mcp.ToolResult, error) {
	h.mu.RLock()
	entry, ok := h.tools[name]
	h.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrToolNotFound, name)
	}

	ctx, span := observe.StartToolSpan(ctx, name)
	start := time.Now()
	out, err := entry.tool.Handler(ctx, args)
	elapsed := time.Since(start)
	observe.EndSpan(span, err)

	entry.window.record(elapsed.Milliseconds(), err != nil)
	status := observe.StatusOK
	if err != nil {
		status = observe.StatusError
		observe.Logger(ctx).Warn("tool call failed", "tool", name, "err", err)
	}
	if h.metrics != nil {
		h.metrics.RecordToolCall(ctx, name, status, elapsed.Seconds())
	}

	res := &mcp.ToolResult{Content: out, DurationMs: elapsed.Milliseconds()}
	if err != nil {
		res.Content = err.Error()
		res.IsError = true
	}
	return res, nil
}

// Health returns the rolling statistics for the named tool.
func (h *Host) Health(name string) (mcp.ToolHealth, bool) {
	h.mu.RLock()
	entry, ok := h.tools[name]
	h.mu.RUnlock()
	if !ok {
		return mcp.ToolHealth{}, false
	}
	st := entry.window.stats()
	return mcp.ToolHealth{
		Name:      name,
		P50Ms:     st.p50,
		P99Ms:     st.p99,
		CallCount: st.total,
		ErrorRate: st.errorRate,
	}, true
}

// Resources implements [mcp.Host].
func (h *Host) Resources() []mcp.Resource {
	h.mu.RLock()
	out := make([]mcp.Resource, 0, len(h.resources))
	for _, r := range h.resources {
		out = append(out, r)
	}
	h.mu.RUnlock()
	slices.SortFunc(out, func(a, b mcp.Resource) int { return strings.Compare(a.URI, b.URI) })
	return out
}

// ReadResource implements [mcp.Host].
func (h *Host) ReadResource(ctx context.Context, uri string) (string, error) {
	h.mu.RLock()
	r, ok := h.resources[uri]
	h.mu.RUnlock()
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrResourceNotFound, uri)
	}
	return r.Read(ctx)
}

// Prompts implements [mcp.Host].
func (h *Host) Prompts() []mcp.Prompt {
	h.mu.RLock()
	out := make([]mcp.Prompt, 0, len(h.prompts))
	for _, p := range h.prompts {
		out = append(out, p)
	}
	h.mu.RUnlock()
	slices.SortFunc(out, func(a, b mcp.Prompt) int { return strings.Compare(a.Name, b.Name) })
	return out
}

// GetPrompt implements [mcp.Host].
func (h *Host) GetPrompt(_ context.Context, name string) (mcp.Prompt, error) {
	h.mu.RLock()
	p, ok := h.prompts[name]
	h.mu.RUnlock()
	if !ok {
		return mcp.Prompt{}, fmt.Errorf("%w: %q", ErrPromptNotFound, name)
	}
	return p, nil
}
