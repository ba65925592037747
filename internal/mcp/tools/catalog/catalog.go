// Package catalog exposes the activity catalogue file as an MCP resource, a
// "list_activities" tool that returns its parsed rows, and the canned prompts
// of the activity server.
package catalog

import (
	"bytes"
	"context"
	"fmt"
	"os"

	"github.com/MrWong99/familytools/internal/mcp"
	"github.com/MrWong99/familytools/internal/mcp/tools"
	"github.com/MrWong99/familytools/pkg/activity"
)

// DefaultPath is the catalogue file read when no path is configured.
const DefaultPath = "Activities.csv"

// ListTool is the name of the row listing tool.
const ListTool = "list_activities"

// Catalog reads the catalogue CSV from disk on every access, so edits to the
// file are visible without a restart.
type Catalog struct {
	path string
}

// New returns a catalogue backed by the file at path. An empty path means
// [DefaultPath].
func New(path string) *Catalog {
	if path == "" {
		path = DefaultPath
	}
	return &Catalog{path: path}
}

// Path returns the backing file path.
func (c *Catalog) Path() string { return c.path }

// URI returns the resource URI of the catalogue.
func (c *Catalog) URI() string { return "file://" + c.path }

// Raw returns the file contents unchanged.
func (c *Catalog) Raw(_ context.Context) (string, error) {
	b, err := os.ReadFile(c.path)
	if err != nil {
		return "", fmt.Errorf("catalog: read %s: %w", c.path, err)
	}
	return string(b), nil
}

// Rows parses the catalogue into column-keyed rows.
func (c *Catalog) Rows(_ context.Context) ([]map[string]any, error) {
	b, err := os.ReadFile(c.path)
	if err != nil {
		return nil, fmt.Errorf("catalog: read %s: %w", c.path, err)
	}
	rows, err := activity.ReadCSV(bytes.NewReader(b))
	if err != nil {
		return nil, fmt.Errorf("catalog: %s: %w", c.path, err)
	}
	return rows, nil
}

// Resources returns the catalogue resource.
func (c *Catalog) Resources() []mcp.Resource {
	return []mcp.Resource{{
		URI:         c.URI(),
		Name:        "Activities",
		Description: "Family activity catalogue with prices and age limits.",
		MIMEType:    "text/csv",
		Read:        c.Raw,
	}}
}

type listResult struct {
	Status     string           `json:"status"`
	Count      int              `json:"count"`
	Activities []map[string]any `json:"activities"`
}

// Tools returns the list_activities tool.
func (c *Catalog) Tools() []tools.Tool {
	return []tools.Tool{{
		Definition: tools.Definition{
			Name: ListTool,
			Description: "Returns every row of the activity catalogue as objects keyed by column name, " +
				"ready to pass to suggest_activities_under_price or distance_from_house.",
			Parameters: tools.Object(map[string]any{}),
		},
		Handler: func(ctx context.Context, _ string) (string, error) {
			rows, err := c.Rows(ctx)
			if err != nil {
				return "", err
			}
			return tools.EncodeResult(listResult{Status: "success", Count: len(rows), Activities: rows})
		},
	}}
}
