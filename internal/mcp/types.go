package mcp

import "context"

// Transport selects how the MCP endpoint is served over HTTP.
type Transport string

const (
	// TransportSSE serves the legacy HTTP+SSE transport: a GET event stream
	// plus a POST message endpoint announced on that stream.
	TransportSSE Transport = "sse"

	// TransportStreamableHTTP serves the MCP Streamable HTTP transport.
	TransportStreamableHTTP Transport = "streamable-http"
)

// IsValid reports whether t is a recognised transport.
func (t Transport) IsValid() bool {
	return t == TransportSSE || t == TransportStreamableHTTP
}

// Mode selects how the MCP endpoint is exposed.
type Mode string

const (
	// ModeStandalone runs an HTTP server dedicated to the MCP endpoint.
	ModeStandalone Mode = "standalone"

	// ModeMount mounts the MCP endpoint under a path of a general web
	// application that also serves health and metrics routes.
	ModeMount Mode = "mount"
)

// IsValid reports whether m is a recognised mode.
func (m Mode) IsValid() bool {
	return m == ModeStandalone || m == ModeMount
}

// ToolResult holds the outcome of a single tool execution.
type ToolResult struct {
	// Content is the tool's textual output, usually a JSON document.
	Content string

	// IsError marks an application-level failure reported by the handler.
	// Content then holds the error message.
	IsError bool

	// DurationMs is the wall-clock handler time in milliseconds.
	DurationMs int64
}

// ToolHealth summarises recent calls of one tool.
type ToolHealth struct {
	Name string

	// P50Ms and P99Ms are latency percentiles over the rolling window.
	P50Ms int64
	P99Ms int64

	// CallCount is the total number of calls since registration.
	CallCount int

	// ErrorRate is the fraction of calls in the window that failed (0.0–1.0).
	ErrorRate float64
}

// Resource is a static document exposed to clients.
type Resource struct {
	URI         string
	Name        string
	Description string
	MIMEType    string

	// Read returns the current resource text.
	Read func(ctx context.Context) (string, error)
}

// Prompt is a canned single-message user prompt.
type Prompt struct {
	Name        string
	Description string
	Text        string
}
