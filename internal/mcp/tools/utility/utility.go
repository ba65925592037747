// Package utility provides the chat server's small demonstration tools:
// "add", "get_secret_word" and "get_current_weather".
package utility

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"strconv"

	"github.com/MrWong99/familytools/internal/mcp/tools"
	"github.com/MrWong99/familytools/internal/observe"
)

// Tool names.
const (
	AddTool     = "add"
	SecretTool  = "get_secret_word"
	WeatherTool = "get_current_weather"
)

// secretWords is the pool get_secret_word draws from.
var secretWords = []string{"apple", "banana", "cherry"}

// Reporter fetches a weather report for a city.
type Reporter interface {
	Report(ctx context.Context, city string) (string, error)
}

type addArgs struct {
	A *tools.Int `json:"a"`
	B *tools.Int `json:"b"`
}

type weatherArgs struct {
	City *string `json:"city"`
}

// Tools returns the utility tools. Weather reports are fetched through w.
func Tools(w Reporter) []tools.Tool {
	return []tools.Tool{
		{
			Definition: tools.Definition{
				Name:        AddTool,
				Description: "Add two numbers together",
				Parameters: tools.Object(map[string]any{
					"a": map[string]any{"type": "integer"},
					"b": map[string]any{"type": "integer"},
				}, "a", "b"),
			},
			Handler: addHandler,
		},
		{
			Definition: tools.Definition{
				Name:        SecretTool,
				Description: "Return a randomly chosen secret word.",
				Parameters:  tools.Object(map[string]any{}),
			},
			Handler: secretHandler,
		},
		{
			Definition: tools.Definition{
				Name:        WeatherTool,
				Description: "Get the current weather report for a city as plain text.",
				Parameters: tools.Object(map[string]any{
					"city": map[string]any{
						"type":        "string",
						"description": "City name, e.g. Dallas",
					},
				}, "city"),
			},
			Handler: weatherHandler(w),
		},
	}
}

func addHandler(ctx context.Context, args string) (string, error) {
	var a addArgs
	if err := tools.DecodeArgs(args, &a); err != nil {
		return "", fmt.Errorf("utility: add: %w", err)
	}
	if a.A == nil || a.B == nil {
		return "", errors.New("utility: add: a and b are required")
	}
	observe.Logger(ctx).Debug("add", "a", *a.A, "b", *a.B)
	return strconv.FormatInt(int64(*a.A+*a.B), 10), nil
}

func secretHandler(ctx context.Context, _ string) (string, error) {
	observe.Logger(ctx).Debug("get_secret_word")
	return secretWords[rand.IntN(len(secretWords))], nil
}

func weatherHandler(w Reporter) func(context.Context, string) (string, error) {
	return func(ctx context.Context, args string) (string, error) {
		var a weatherArgs
		if err := tools.DecodeArgs(args, &a); err != nil {
			return "", fmt.Errorf("utility: get_current_weather: %w", err)
		}
		if a.City == nil {
			return "", errors.New("utility: get_current_weather: city is required")
		}
		observe.Logger(ctx).Debug("get_current_weather", "city", *a.City)
		return w.Report(ctx, *a.City)
	}
}
