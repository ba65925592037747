// Package tools defines the shared [Tool] type used by every tool package.
// Each sub-package exports a constructor returning a slice of [Tool] values
// ready for registration with a host.
package tools

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"math"
)

// Definition is the client-facing description of a tool.
type Definition struct {
	// Name is unique within one server.
	Name string

	// Description is shown to the model when it chooses tools.
	Description string

	// Parameters is the JSON Schema of the argument object. It must have
	// "type": "object".
	Parameters map[string]any
}

// Tool pairs a [Definition] with its handler.
type Tool struct {
	Definition Definition

	// Handler executes the tool with JSON-encoded args and returns the textual
	// result. A non-nil error is reported to the client as a tool error.
	// Implementations must be safe for concurrent use and respect ctx.
	Handler func(ctx context.Context, args string) (string, error)
}

// DecodeArgs unmarshals a JSON argument object into v. Empty args and "null"
// decode as an empty object.
func DecodeArgs(args string, v any) error {
	raw := bytes.TrimSpace([]byte(args))
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		raw = []byte("{}")
	}
	if err := json.Unmarshal(raw, v); err != nil {
		return fmt.Errorf("invalid arguments: %w", err)
	}
	return nil
}

// Int is an integer argument. Besides plain integers it accepts JSON numbers
// with no fractional part, such as 2.0 or 1e3.
type Int int64

// UnmarshalJSON implements [json.Unmarshaler].
func (n *Int) UnmarshalJSON(b []byte) error {
	var num json.Number
	if bytes.HasPrefix(b, []byte(`"`)) || json.Unmarshal(b, &num) != nil {
		return fmt.Errorf("expected an integer, got %s", b)
	}
	if i, err := num.Int64(); err == nil {
		*n = Int(i)
		return nil
	}
	f, err := num.Float64()
	if err != nil || f != math.Trunc(f) || math.Abs(f) > 1<<53 {
		return fmt.Errorf("expected an integer, got %s", num)
	}
	*n = Int(f)
	return nil
}

// EncodeResult marshals v as the tool's JSON result text.
func EncodeResult(v any) (string, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return "", fmt.Errorf("encode result: %w", err)
	}
	return string(b), nil
}

// Object builds a JSON Schema object with the given properties and required
// property names.
func Object(properties map[string]any, required ...string) map[string]any {
	schema := map[string]any{
		"type":       "object",
		"properties": properties,
	}
	if len(required) > 0 {
		schema["required"] = required
	}
	return schema
}
