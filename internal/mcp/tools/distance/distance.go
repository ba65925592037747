// Package distance provides the "distance_from_house" tool, which ranks
// activities by geodesic distance from a home address.
package distance

import (
	"cmp"
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/MrWong99/familytools/internal/mcp/tools"
	"github.com/MrWong99/familytools/internal/observe"
	"github.com/MrWong99/familytools/pkg/activity"
	"github.com/MrWong99/familytools/pkg/geo"
)

// ToolName is the registered tool name.
const ToolName = "distance_from_house"

// homeNotFound is the message returned when the home address cannot be
// resolved.
const homeNotFound = "Could not geocode home address"

const description = "Returns a list of activities sorted by distance from the user's home. " +
	"Use this tool when a user asks for nearby events or activities, or mentions " +
	`"close to me", "nearby", "within X miles", or a home address or city. ` +
	"Distances are geodesic kilometres rounded to 2 decimal places. " +
	"Do not use this tool if the user's location is unknown or ambiguous."

// Resolver turns an address into coordinates. found is false when the
// address could not be resolved for any reason.
type Resolver interface {
	Resolve(ctx context.Context, address string) (coords geo.Coordinates, found bool)
}

type rankArgs struct {
	HomeAddress *string          `json:"home_address"`
	Activities  []map[string]any `json:"activities"`
}

type ranked struct {
	Activity   *string `json:"activity"`
	Location   string  `json:"location"`
	DistanceKm float64 `json:"distance_km"`
}

type rankResult struct {
	Status  string   `json:"status"`
	Home    string   `json:"home"`
	Count   int      `json:"count"`
	Results []ranked `json:"results"`
}

type errorResult struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}

// Tools returns the distance ranker backed by r. m may be nil.
func Tools(r Resolver, m *observe.Metrics) []tools.Tool {
	return []tools.Tool{{
		Definition: tools.Definition{
			Name:        ToolName,
			Description: description,
			Parameters: tools.Object(map[string]any{
				"home_address": map[string]any{
					"type":        "string",
					"description": "The full address or city/town the user starts from.",
				},
				"activities": map[string]any{
					"type":        "array",
					"description": "Activity rows; each needs a \"Location\" address.",
					"items":       map[string]any{"type": "object"},
				},
			}, "home_address", "activities"),
		},
		Handler: handler(r, m),
	}}
}

func handler(r Resolver, m *observe.Metrics) func(context.Context, string) (string, error) {
	return func(ctx context.Context, args string) (string, error) {
		var a rankArgs
		if err := tools.DecodeArgs(args, &a); err != nil {
			return "", fmt.Errorf("distance: %w", err)
		}
		if a.HomeAddress == nil {
			return "", errors.New("distance: home_address is required")
		}
		if a.Activities == nil {
			return "", errors.New("distance: activities is required")
		}

		home, ok := r.Resolve(ctx, *a.HomeAddress)
		if !ok {
			return tools.EncodeResult(errorResult{Status: "error", Message: homeNotFound})
		}

		log := observe.Logger(ctx)
		results := []ranked{}
		skipped := 0
		for i, row := range a.Activities {
			loc, _ := row[activity.FieldLocation].(string)
			if strings.TrimSpace(loc) == "" {
				log.Debug("distance: activity has no location", "index", i)
				skipped++
				continue
			}
			coords, ok := r.Resolve(ctx, loc)
			if !ok {
				log.Debug("distance: could not geocode activity", "index", i, "location", loc)
				skipped++
				continue
			}
			var name *string
			if n, ok := row[activity.FieldName].(string); ok {
				name = &n
			}
			results = append(results, ranked{
				Activity:   name,
				Location:   loc,
				DistanceKm: geo.Round2(geo.DistanceKm(home, coords)),
			})
		}
		if m != nil {
			m.RecordRowsSkipped(ctx, ToolName, skipped)
		}

		slices.SortStableFunc(results, func(x, y ranked) int {
			return cmp.Compare(x.DistanceKm, y.DistanceKm)
		})

		return tools.EncodeResult(rankResult{
			Status:  "success",
			Home:    *a.HomeAddress,
			Count:   len(results),
			Results: results,
		})
	}
}
