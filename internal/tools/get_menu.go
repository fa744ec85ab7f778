package tools

import "context"

// GetMenuDefinition describes the menu tool for discovery.
func GetMenuDefinition() Definition {
	return Definition{
		Name:        GetMenuName,
		Description: "List the items currently on the menu, optionally filtered by category.",
		InputSchema: objectSchema(map[string]any{
			"category": map[string]any{
				"type":        "string",
				"description": "Optional menu category, e.g. pizza or drinks",
				"minLength":   1,
			},
		}),
		OutputSchema: objectSchema(map[string]any{
			"items": map[string]any{
				"type":        "array",
				"description": "Menu entries as returned by the ordering API",
			},
		}, "items"),
	}
}

// GetMenuTool returns the menu tool bound to api.
func GetMenuTool(api OrderAPI) Tool {
	return Tool{
		Definition: GetMenuDefinition(),
		Handler: func(ctx context.Context, input map[string]any) (map[string]any, error) {
			doc, err := api.GetMenu(ctx, stringArg(input, "category"))
			if err != nil {
				return nil, err
			}
			return map[string]any{"items": NormalizeMenu(doc)}, nil
		},
	}
}

// NormalizeMenu coerces the downstream menu document into a list. The list
// may live under "items" or "data", be the document itself, or be a single
// value that gets wrapped.
func NormalizeMenu(doc any) []any {
	switch v := doc.(type) {
	case nil:
		return []any{}
	case []any:
		return v
	case map[string]any:
		if items, ok := v["items"]; ok {
			return asList(items)
		}
		if data, ok := v["data"]; ok {
			return asList(data)
		}
		return []any{v}
	default:
		return []any{v}
	}
}

func asList(v any) []any {
	switch list := v.(type) {
	case nil:
		return []any{}
	case []any:
		return list
	default:
		return []any{list}
	}
}
