package tools

import (
	"encoding/json"
	"strconv"
)

// stringArg returns input[name] when it is a string.
func stringArg(input map[string]any, name string) string {
	if s, ok := input[name].(string); ok {
		return s
	}
	return ""
}

// intArg returns input[name] as an int, accepting the numeric forms JSON
// decoding produces.
func intArg(input map[string]any, name string) int {
	switch n := input[name].(type) {
	case int:
		return n
	case int64:
		return int(n)
	case float64:
		return int(n)
	case json.Number:
		if i, err := n.Int64(); err == nil {
			return int(i)
		}
	}
	return 0
}

// pickOrder reshapes a downstream order document to the output schema's
// fields. Numeric ids are rendered as strings; a null eta is dropped.
// Anything that is not an object yields an empty result, which the output
// schema then rejects.
func pickOrder(doc any, withETA bool) map[string]any {
	m, ok := doc.(map[string]any)
	if !ok {
		return map[string]any{}
	}
	out := make(map[string]any, 3)
	if id, ok := m["order_id"]; ok {
		out["order_id"] = scalarString(id)
	}
	if status, ok := m["status"]; ok {
		out["status"] = status
	}
	if withETA {
		if eta, ok := m["eta"]; ok && eta != nil {
			out["eta"] = eta
		}
	}
	return out
}

func scalarString(v any) any {
	switch n := v.(type) {
	case float64:
		return strconv.FormatFloat(n, 'f', -1, 64)
	case json.Number:
		return n.String()
	default:
		return v
	}
}
