package tools

import (
	"errors"
	"fmt"
)

// Sentinel errors for registry construction.
var (
	ErrEmptyName     = errors.New("tool name is empty")
	ErrAlreadyExists = errors.New("tool already registered")
	ErrNilHandler    = errors.New("tool handler is nil")
	ErrInvalidSchema = errors.New("tool schema is invalid")
)

// Tool binds a definition to its handler.
type Tool struct {
	Definition
	Handler Handler
}

// entry is a registered tool with its compiled schemas.
type entry struct {
	tool   Tool
	input  *compiledSchema
	output *compiledSchema
}

// Registry is the immutable set of tools known to the process. It is built
// once by NewRegistry and only read afterwards, so it is safe for concurrent
// use without locking.
type Registry struct {
	entries []entry
	index   map[string]int
}

// NewRegistry compiles and indexes tools in the order given.
func NewRegistry(tools ...Tool) (*Registry, error) {
	r := &Registry{
		entries: make([]entry, 0, len(tools)),
		index:   make(map[string]int, len(tools)),
	}
	for _, t := range tools {
		if t.Name == "" {
			return nil, ErrEmptyName
		}
		if _, exists := r.index[t.Name]; exists {
			return nil, fmt.Errorf("%w: %s", ErrAlreadyExists, t.Name)
		}
		if t.Handler == nil {
			return nil, fmt.Errorf("%w: %s", ErrNilHandler, t.Name)
		}
		in, err := compile(t.InputSchema)
		if err != nil {
			return nil, fmt.Errorf("%w: %s input: %v", ErrInvalidSchema, t.Name, err)
		}
		out, err := compile(t.OutputSchema)
		if err != nil {
			return nil, fmt.Errorf("%w: %s output: %v", ErrInvalidSchema, t.Name, err)
		}
		r.index[t.Name] = len(r.entries)
		r.entries = append(r.entries, entry{tool: t, input: in, output: out})
	}
	return r, nil
}

// Lookup returns the tool registered under name. Absence is reported with
// false; deciding what that means is the caller's concern.
func (r *Registry) Lookup(name string) (Tool, bool) {
	i, ok := r.index[name]
	if !ok {
		return Tool{}, false
	}
	return r.entries[i].tool, true
}

// ValidateInput checks input against the named tool's input schema.
func (r *Registry) ValidateInput(name string, input any) ([]Violation, error) {
	e, err := r.entry(name)
	if err != nil {
		return nil, err
	}
	return e.input.validate(input)
}

// ValidateOutput checks a handler result against the named tool's output schema.
func (r *Registry) ValidateOutput(name string, output any) ([]Violation, error) {
	e, err := r.entry(name)
	if err != nil {
		return nil, err
	}
	return e.output.validate(output)
}

func (r *Registry) entry(name string) (entry, error) {
	i, ok := r.index[name]
	if !ok {
		return entry{}, fmt.Errorf("unknown tool: %s", name)
	}
	return r.entries[i], nil
}

// Definitions returns every tool definition in registration order.
func (r *Registry) Definitions() []Definition {
	defs := make([]Definition, 0, len(r.entries))
	for _, e := range r.entries {
		defs = append(defs, e.tool.Definition)
	}
	return defs
}

// Names returns every tool name in registration order.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.entries))
	for _, e := range r.entries {
		names = append(names, e.tool.Name)
	}
	return names
}

// Len returns the number of registered tools.
func (r *Registry) Len() int { return len(r.entries) }

// Default builds the fixed tool table served by the bridge.
func Default(api OrderAPI) (*Registry, error) {
	return NewRegistry(
		GetMenuTool(api),
		CreateOrderTool(api),
		GetOrderStatusTool(api),
	)
}
