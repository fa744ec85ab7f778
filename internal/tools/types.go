package tools

import (
	"context"

	"github.com/mwiater/orderbridge/internal/downstream"
)

// Definition describes the metadata the bridge exposes for a tool.
type Definition struct {
	Name         string `json:"name"`
	Description  string `json:"description"`
	InputSchema  Schema `json:"input_schema"`
	OutputSchema Schema `json:"output_schema"`
}

// Handler executes a tool with input that has already passed the input
// schema and returns a document to be checked against the output schema.
type Handler func(ctx context.Context, input map[string]any) (map[string]any, error)

// OrderAPI is the subset of the downstream client the tools call.
type OrderAPI interface {
	GetMenu(ctx context.Context, category string) (any, error)
	CreateOrder(ctx context.Context, order downstream.OrderRequest) (any, error)
	GetOrderStatus(ctx context.Context, orderID string) (any, error)
}

const (
	// GetMenuName is the canonical name for the menu tool.
	GetMenuName = "get_menu"
	// CreateOrderName is the canonical name for the order creation tool.
	CreateOrderName = "create_order"
	// GetOrderStatusName is the canonical name for the order status tool.
	GetOrderStatusName = "get_order_status"
)
