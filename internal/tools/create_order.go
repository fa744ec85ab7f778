package tools

import (
	"context"
	"math"

	"github.com/mwiater/orderbridge/internal/downstream"
)

// maxQuantity keeps quantity representable as an int on every platform.
const maxQuantity = math.MaxInt32

// CreateOrderDefinition describes the order creation tool for discovery.
func CreateOrderDefinition() Definition {
	return Definition{
		Name:        CreateOrderName,
		Description: "Place a new order for a menu item to be delivered to an address.",
		InputSchema: objectSchema(map[string]any{
			"item": nonBlankString("Name or id of the menu item", 1),
			"quantity": map[string]any{
				"type":        "integer",
				"description": "How many to order",
				"minimum":     1,
				"maximum":     maxQuantity,
			},
			"address": nonBlankString("Delivery address", 3),
		}, "item", "quantity", "address"),
		OutputSchema: objectSchema(map[string]any{
			"order_id": map[string]any{"type": "string"},
			"status":   map[string]any{"type": "string"},
		}, "order_id", "status"),
	}
}

// CreateOrderTool returns the order creation tool bound to api.
func CreateOrderTool(api OrderAPI) Tool {
	return Tool{
		Definition: CreateOrderDefinition(),
		Handler: func(ctx context.Context, input map[string]any) (map[string]any, error) {
			doc, err := api.CreateOrder(ctx, downstream.OrderRequest{
				Item:     stringArg(input, "item"),
				Quantity: intArg(input, "quantity"),
				Address:  stringArg(input, "address"),
			})
			if err != nil {
				return nil, err
			}
			return pickOrder(doc, false), nil
		},
	}
}
