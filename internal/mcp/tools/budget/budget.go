// Package budget provides the "suggest_activities_under_price" tool, which
// filters a catalogue down to the activities a family can afford.
package budget

import (
	"context"
	"errors"
	"fmt"

	"github.com/MrWong99/familytools/internal/mcp/tools"
	"github.com/MrWong99/familytools/internal/observe"
	"github.com/MrWong99/familytools/pkg/activity"
)

// ToolName is the registered tool name.
const ToolName = "suggest_activities_under_price"

type suggestArgs struct {
	MaxPrice      *float64         `json:"max_price"`
	Family        *activity.Family `json:"family"`
	AllActivities []map[string]any `json:"all_activities"`
}

type suggestResult struct {
	Status   string                `json:"status"`
	MaxPrice float64               `json:"max_price"`
	Count    int                   `json:"count"`
	Results  []activity.Suggestion `json:"results"`
}

// Tools returns the budget filter tool. m may be nil.
func Tools(m *observe.Metrics) []tools.Tool {
	return []tools.Tool{{
		Definition: tools.Definition{
			Name:        ToolName,
			Description: "Suggests activities where total family cost is under the given price.",
			Parameters: tools.Object(map[string]any{
				"max_price": map[string]any{
					"type":        "number",
					"description": "Maximum total price the family is willing to pay.",
				},
				"family": map[string]any{
					"type":        "object",
					"description": "Family structure with the number of adults and a list of children with their ages.",
					"properties": map[string]any{
						"adults": map[string]any{"type": "integer", "minimum": 0},
						"children": map[string]any{
							"type": "array",
							"items": tools.Object(map[string]any{
								"age": map[string]any{"type": "number"},
							}, "age"),
						},
					},
				},
				"all_activities": map[string]any{
					"type":        "array",
					"description": "Activity rows from the catalogue resource (CSV or JSON).",
					"items":       map[string]any{"type": "object"},
				},
			}, "max_price", "family", "all_activities"),
		},
		Handler: handler(m),
	}}
}

func handler(m *observe.Metrics) func(context.Context, string) (string, error) {
	return func(ctx context.Context, args string) (string, error) {
		var a suggestArgs
		if err := tools.DecodeArgs(args, &a); err != nil {
			return "", fmt.Errorf("budget: %w", err)
		}
		switch {
		case a.MaxPrice == nil:
			return "", errors.New("budget: max_price is required")
		case a.Family == nil:
			return "", errors.New("budget: family is required")
		case a.AllActivities == nil:
			return "", errors.New("budget: all_activities is required")
		}
		if err := a.Family.Validate(); err != nil {
			return "", fmt.Errorf("budget: %w", err)
		}

		suggestions, skipped := activity.UnderBudget(*a.MaxPrice, *a.Family, a.AllActivities)
		log := observe.Logger(ctx)
		for _, s := range skipped {
			log.Debug("budget: skipping activity", "index", s.Index, "reason", s.Reason)
		}
		if m != nil {
			m.RecordRowsSkipped(ctx, ToolName, len(skipped))
		}

		return tools.EncodeResult(suggestResult{
			Status:   "success",
			MaxPrice: *a.MaxPrice,
			Count:    len(suggestions),
			Results:  suggestions,
		})
	}
}
