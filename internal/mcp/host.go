// Package mcp defines the tool table served by the family tools MCP servers.
//
// A [Host] owns the tools, resources and prompts of one server. It executes
// tool calls, serves resource reads and renders prompts; the protocol side is
// handled by toolhost.NewServer, which binds a Host to the MCP SDK.
//
// All methods must be safe for concurrent use.
package mcp

import (
	"context"

	"github.com/MrWong99/familytools/internal/mcp/tools"
)

// Host is a server's table of tools, resources and prompts.
type Host interface {
	// Tools returns every registered tool definition sorted by name.
	Tools() []tools.Definition

	// ExecuteTool calls the named tool with JSON-encoded args. A handler
	// failure is reported as a result with IsError set; the Go error is
	// reserved for unknown tools.
	ExecuteTool(ctx context.Context, name string, args string) (*ToolResult, error)

	// Resources returns every registered resource sorted by URI.
	Resources() []Resource

	// ReadResource returns the text of the resource with the given URI.
	ReadResource(ctx context.Context, uri string) (string, error)

	// Prompts returns every registered prompt sorted by name.
	Prompts() []Prompt

	// GetPrompt returns the named prompt.
	GetPrompt(ctx context.Context, name string) (Prompt, error)
}
