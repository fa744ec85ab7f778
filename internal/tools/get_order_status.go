package tools

import "context"

// GetOrderStatusDefinition describes the order status tool for discovery.
func GetOrderStatusDefinition() Definition {
	return Definition{
		Name:        GetOrderStatusName,
		Description: "Look up the status and estimated arrival of an existing order.",
		InputSchema: objectSchema(map[string]any{
			"order_id": nonBlankString("Identifier returned by create_order", 1),
		}, "order_id"),
		OutputSchema: objectSchema(map[string]any{
			"order_id": map[string]any{"type": "string"},
			"status":   map[string]any{"type": "string"},
			"eta":      map[string]any{"type": "string"},
		}, "order_id", "status"),
	}
}

// GetOrderStatusTool returns the order status tool bound to api.
func GetOrderStatusTool(api OrderAPI) Tool {
	return Tool{
		Definition: GetOrderStatusDefinition(),
		Handler: func(ctx context.Context, input map[string]any) (map[string]any, error) {
			doc, err := api.GetOrderStatus(ctx, stringArg(input, "order_id"))
			if err != nil {
				return nil, err
			}
			return pickOrder(doc, true), nil
		},
	}
}
