// Package mock provides an in-memory test double for the [mcp.Host] interface.
//
// [Host] records every method call for assertion in tests and exposes exported
// fields that control what the mock returns. It is safe for concurrent use.
//
// Typical usage:
//
//	h := &mock.Host{}
//	h.ToolsResult = []tools.Definition{{Name: "add", Parameters: tools.Object(nil)}}
//	h.ExecuteToolResult = &mcp.ToolResult{Content: "3"}
//
//	// serve h through toolhost.NewServer …
//
//	if got := h.CallCount("ExecuteTool"); got != 1 {
//	    t.Errorf("expected 1 ExecuteTool call, got %d", got)
//	}
package mock

import (
	"context"
	"sync"

	"github.com/MrWong99/familytools/internal/mcp"
	"github.com/MrWong99/familytools/internal/mcp/tools"
)

// Call records the name and arguments of a single method invocation.
type Call struct {
	// Method is the name of the interface method that was called.
	Method string

	// Args holds the non-context arguments passed to the method, in order.
	Args []any
}

// Host is a configurable test double for [mcp.Host].
type Host struct {
	mu    sync.Mutex
	calls []Call

	// ToolsResult is returned by [Host.Tools].
	ToolsResult []tools.Definition

	// ExecuteToolResult is returned by [Host.ExecuteTool] when ExecuteToolErr
	// is nil. A nil value yields a zero *ToolResult.
	ExecuteToolResult *mcp.ToolResult
	ExecuteToolErr    error

	// ResourcesResult is returned by [Host.Resources].
	ResourcesResult []mcp.Resource

	ReadResourceResult string
	ReadResourceErr    error

	// PromptsResult is returned by [Host.Prompts].
	PromptsResult []mcp.Prompt

	GetPromptResult mcp.Prompt
	GetPromptErr    error
}

var _ mcp.Host = (*Host)(nil)

// Calls returns a copy of all recorded method invocations.
func (h *Host) Calls() []Call {
	h.mu.Lock()
	defer h.mu.Unlock()
	out := make([]Call, len(h.calls))
	copy(out, h.calls)
	return out
}

// CallCount returns how many times the named method was invoked.
func (h *Host) CallCount(method string) int {
	h.mu.Lock()
	defer h.mu.Unlock()
	n := 0
	for _, c := range h.calls {
		if c.Method == method {
			n++
		}
	}
	return n
}

// Reset clears all recorded calls without altering response configuration.
func (h *Host) Reset() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.calls = nil
}

func (h *Host) record(method string, args ...any) {
	h.calls = append(h.calls, Call{Method: method, Args: args})
}

// Tools implements [mcp.Host].
func (h *Host) Tools() []tools.Definition {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.record("Tools")
	out := make([]tools.Definition, len(h.ToolsResult))
	copy(out, h.ToolsResult)
	return out
}

// ExecuteTool implements [mcp.Host].
func (h *Host) ExecuteTool(_ context.Context, name string, args string) (*mcp.ToolResult, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.record("ExecuteTool", name, args)
	if h.ExecuteToolErr != nil {
		return nil, h.ExecuteToolErr
	}
	if h.ExecuteToolResult == nil {
		return &mcp.ToolResult{}, nil
	}
	cp := *h.ExecuteToolResult
	return &cp, nil
}

// Resources implements [mcp.Host].
func (h *Host) Resources() []mcp.Resource {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.record("Resources")
	out := make([]mcp.Resource, len(h.ResourcesResult))
	copy(out, h.ResourcesResult)
	return out
}

// ReadResource implements [mcp.Host].
func (h *Host) ReadResource(_ context.Context, uri string) (string, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.record("ReadResource", uri)
	return h.ReadResourceResult, h.ReadResourceErr
}

// Prompts implements [mcp.Host].
func (h *Host) Prompts() []mcp.Prompt {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.record("Prompts")
	out := make([]mcp.Prompt, len(h.PromptsResult))
	copy(out, h.PromptsResult)
	return out
}

// GetPrompt implements [mcp.Host].
func (h *Host) GetPrompt(_ context.Context, name string) (mcp.Prompt, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.record("GetPrompt", name)
	return h.GetPromptResult, h.GetPromptErr
}
