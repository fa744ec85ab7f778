package tools

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newDefault(t *testing.T) *Registry {
	t.Helper()
	r, err := Default(&fakeAPI{})
	require.NoError(t, err)
	return r
}

func TestDefaultRegistryOrder(t *testing.T) {
	r := newDefault(t)
	assert.Equal(t, []string{GetMenuName, CreateOrderName, GetOrderStatusName}, r.Names())
	assert.Equal(t, 3, r.Len())

	defs := r.Definitions()
	require.Len(t, defs, 3)
	for _, def := range defs {
		assert.NotEmpty(t, def.Description, def.Name)
		assert.Equal(t, "object", def.InputSchema["type"], def.Name)
		assert.Equal(t, "object", def.OutputSchema["type"], def.Name)
	}
}

func TestLookup(t *testing.T) {
	r := newDefault(t)
	tool, ok := r.Lookup(CreateOrderName)
	require.True(t, ok)
	assert.Equal(t, CreateOrderName, tool.Name)
	assert.NotNil(t, tool.Handler)

	_, ok = r.Lookup("nonexistent")
	assert.False(t, ok)
	_, ok = r.Lookup("Get_Menu")
	assert.False(t, ok, "lookup must be exact-match")
}

func TestNewRegistryRejectsBadTools(t *testing.T) {
	noop := func(context.Context, map[string]any) (map[string]any, error) { return nil, nil }
	schema := objectSchema(map[string]any{})

	_, err := NewRegistry(Tool{Definition: Definition{InputSchema: schema, OutputSchema: schema}, Handler: noop})
	assert.ErrorIs(t, err, ErrEmptyName)

	dup := Tool{Definition: Definition{Name: "a", InputSchema: schema, OutputSchema: schema}, Handler: noop}
	_, err = NewRegistry(dup, dup)
	assert.ErrorIs(t, err, ErrAlreadyExists)

	_, err = NewRegistry(Tool{Definition: Definition{Name: "b", InputSchema: schema, OutputSchema: schema}})
	assert.ErrorIs(t, err, ErrNilHandler)

	bad := Schema{"type": 12}
	_, err = NewRegistry(Tool{Definition: Definition{Name: "c", InputSchema: bad, OutputSchema: schema}, Handler: noop})
	assert.True(t, errors.Is(err, ErrInvalidSchema), "got %v", err)

	_, err = NewRegistry(Tool{Definition: Definition{Name: "d", InputSchema: schema}, Handler: noop})
	assert.ErrorIs(t, err, ErrInvalidSchema)
}

func fields(vs []Violation) map[string]string {
	out := make(map[string]string, len(vs))
	for _, v := range vs {
		out[v.Field] = v.Constraint
	}
	return out
}

func TestCreateOrderInputValidation(t *testing.T) {
	r := newDefault(t)

	vs, err := r.ValidateInput(CreateOrderName, map[string]any{"item": "taco", "quantity": 2, "address": "1 Main St"})
	require.NoError(t, err)
	assert.Empty(t, vs)

	vs, err = r.ValidateInput(CreateOrderName, map[string]any{"item": "taco", "quantity": 0, "address": "  "})
	require.NoError(t, err)
	got := fields(vs)
	assert.Equal(t, "number_gte", got["quantity"])
	assert.Contains(t, got, "address")

	vs, err = r.ValidateInput(CreateOrderName, map[string]any{"item": "taco", "quantity": 1, "address": "ab"})
	require.NoError(t, err)
	assert.Equal(t, "string_gte", fields(vs)["address"])

	vs, err = r.ValidateInput(CreateOrderName, map[string]any{"quantity": 1.5})
	require.NoError(t, err)
	got = fields(vs)
	assert.Equal(t, "required", got["item"])
	assert.Equal(t, "required", got["address"])
	assert.Equal(t, "invalid_type", got["quantity"])
}

func TestGetMenuAcceptsMissingInput(t *testing.T) {
	r := newDefault(t)
	vs, err := r.ValidateInput(GetMenuName, nil)
	require.NoError(t, err)
	assert.Empty(t, vs)

	vs, err = r.ValidateInput(GetMenuName, map[string]any{"category": 5})
	require.NoError(t, err)
	assert.Equal(t, "invalid_type", fields(vs)["category"])
}

func TestOutputValidation(t *testing.T) {
	r := newDefault(t)

	vs, err := r.ValidateOutput(GetOrderStatusName, map[string]any{"order_id": "1", "status": "ready"})
	require.NoError(t, err)
	assert.Empty(t, vs)

	vs, err = r.ValidateOutput(GetOrderStatusName, map[string]any{"order_id": "1"})
	require.NoError(t, err)
	assert.Equal(t, "required", fields(vs)["status"])

	vs, err = r.ValidateOutput(GetMenuName, map[string]any{"items": "nope"})
	require.NoError(t, err)
	assert.Equal(t, "invalid_type", fields(vs)["items"])

	_, err = r.ValidateOutput("nonexistent", map[string]any{})
	assert.Error(t, err)
}

func TestSchemaMarshalIndent(t *testing.T) {
	out := GetOrderStatusDefinition().InputSchema.MarshalIndent()
	assert.Contains(t, out, "\n  \"properties\": {")
	assert.Contains(t, out, `"order_id"`)
	assert.Equal(t, "{}", Schema{"bad": func() {}}.MarshalIndent())
}
