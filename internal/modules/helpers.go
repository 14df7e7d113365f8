package modules

import (
	"encoding/json"

	"github.com/go-faster/errors"
)

// ToJSON marshals any value to a JSON string.
func ToJSON(v any) (string, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return "", errors.Wrap(err, "failed to marshal response")
	}
	return string(b), nil
}

// OptString returns params[key] when it is a non-empty string, nil otherwise.
func OptString(params map[string]any, key string) *string {
	if v, ok := params[key].(string); ok && v != "" {
		return &v
	}
	return nil
}

// OptInt returns params[key] as an int when it is a JSON number, nil otherwise.
// Zero is a present value.
func OptInt(params map[string]any, key string) *int {
	switch v := params[key].(type) {
	case float64:
		n := int(v)
		return &n
	case int:
		return &v
	case int64:
		n := int(v)
		return &n
	}
	return nil
}

// IntOr returns params[key] as an int, or def when absent.
func IntOr(params map[string]any, key string, def int) int {
	if v := OptInt(params, key); v != nil {
		return *v
	}
	return def
}
