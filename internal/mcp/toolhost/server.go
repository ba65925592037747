package toolhost

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"net/http"

	mcpsdk "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/MrWong99/familytools/internal/mcp"
)

// NewServer builds an MCP server that exposes every tool, resource and prompt
// currently registered in h. Registrations made on h afterwards are not
// reflected.
func NewServer(h mcp.Host, impl *mcpsdk.Implementation) *mcpsdk.Server {
	srv := mcpsdk.NewServer(impl, nil)

	for _, def := range h.Tools() {
		name := def.Name
		srv.AddTool(&mcpsdk.Tool{
			Name:        name,
			Description: def.Description,
			InputSchema: def.Parameters,
		}, func(ctx context.Context, req *mcpsdk.CallToolRequest) (*mcpsdk.CallToolResult, error) {
			args := bytes.TrimSpace(req.Params.Arguments)
			if len(args) == 0 || bytes.Equal(args, []byte("null")) {
				args = []byte("{}")
			}
			res, err := h.ExecuteTool(ctx, name, string(args))
			if err != nil {
				return nil, err
			}
			return &mcpsdk.CallToolResult{
				Content: []mcpsdk.Content{&mcpsdk.TextContent{Text: res.Content}},
				IsError: res.IsError,
			}, nil
		})
	}

	for _, r := range h.Resources() {
		uri, mime := r.URI, r.MIMEType
		srv.AddResource(&mcpsdk.Resource{
			URI:         uri,
			Name:        r.Name,
			Description: r.Description,
			MIMEType:    mime,
		}, func(ctx context.Context, _ *mcpsdk.ReadResourceRequest) (*mcpsdk.ReadResourceResult, error) {
			text, err := h.ReadResource(ctx, uri)
			if errors.Is(err, ErrResourceNotFound) {
				return nil, mcpsdk.ResourceNotFoundError(uri)
			}
			if err != nil {
				slog.Warn("resource read failed", "uri", uri, "err", err)
				return nil, err
			}
			return &mcpsdk.ReadResourceResult{
				Contents: []*mcpsdk.ResourceContents{{URI: uri, MIMEType: mime, Text: text}},
			}, nil
		})
	}

	for _, p := range h.Prompts() {
		name := p.Name
		srv.AddPrompt(&mcpsdk.Prompt{
			Name:        name,
			Description: p.Description,
		}, func(ctx context.Context, _ *mcpsdk.GetPromptRequest) (*mcpsdk.GetPromptResult, error) {
			got, err := h.GetPrompt(ctx, name)
			if err != nil {
				return nil, err
			}
			return &mcpsdk.GetPromptResult{
				Description: got.Description,
				Messages: []*mcpsdk.PromptMessage{{
					Role:    "user",
					Content: &mcpsdk.TextContent{Text: got.Text},
				}},
			}, nil
		})
	}

	return srv
}

// Handler returns an http.Handler serving srv over the given transport.
// Unknown transports fall back to SSE.
func Handler(srv *mcpsdk.Server, transport mcp.Transport) http.Handler {
	getServer := func(*http.Request) *mcpsdk.Server { return srv }
	if transport == mcp.TransportStreamableHTTP {
		return mcpsdk.NewStreamableHTTPHandler(getServer, nil)
	}
	return mcpsdk.NewSSEHandler(getServer, nil)
}
