// Package dispatch validates and executes tool calls against the registry
// and renders every outcome as a uniform envelope.
package dispatch

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/mwiater/orderbridge/internal/guard"
	"github.com/mwiater/orderbridge/internal/logging"
	"github.com/mwiater/orderbridge/internal/tools"
)

// Dispatcher serves discovery and tool calls. It holds no mutable state and
// is safe for concurrent use.
type Dispatcher struct {
	registry *tools.Registry
	guard    *guard.Guard
	info     ServerInfo
}

// New returns a dispatcher over registry. A nil guard is open.
func New(registry *tools.Registry, g *guard.Guard, info ServerInfo) *Dispatcher {
	if g == nil {
		g = guard.Open()
	}
	return &Dispatcher{registry: registry, guard: g, info: info}
}

// Registry returns the registry the dispatcher serves.
func (d *Dispatcher) Registry() *tools.Registry { return d.registry }

// Info returns the server name and version.
func (d *Dispatcher) Info() ServerInfo { return d.info }

// Authorize runs the access guard.
func (d *Dispatcher) Authorize(credential string) *Error {
	if err := d.guard.Check(credential); err != nil {
		return Unauthorized()
	}
	return nil
}

// Discover lists every registered tool in registration order.
func (d *Dispatcher) Discover(credential string) (Catalog, *Error) {
	if err := d.Authorize(credential); err != nil {
		return Catalog{}, err
	}
	return Catalog{Server: d.info, Tools: d.registry.Definitions()}, nil
}

// Call authorizes, validates and executes req. It never panics and never
// returns an unclassified failure.
func (d *Dispatcher) Call(ctx context.Context, credential string, req Request) Response {
	start := time.Now()
	resp := d.call(ctx, credential, req)

	event := log.Info()
	if !resp.OK {
		event = log.Warn().Str("error", string(resp.Error)).Str("details", resp.Details)
	}
	event.Str("tool", req.Tool).
		Bool("ok", resp.OK).
		Dur("duration", time.Since(start)).
		Msg("tool call")
	return resp
}

func (d *Dispatcher) call(ctx context.Context, credential string, req Request) Response {
	if err := d.Authorize(credential); err != nil {
		return Failure(req.Tool, err)
	}

	tool, ok := d.registry.Lookup(req.Tool)
	if !ok {
		return Failure(req.Tool, newError(KindNotFound, "unknown tool: %s", req.Tool))
	}

	input := req.Input
	if input == nil {
		input = map[string]any{}
	}
	violations, err := d.registry.ValidateInput(tool.Name, input)
	if err != nil {
		return Failure(tool.Name, Classify(err))
	}
	if len(violations) > 0 {
		return Failure(tool.Name, &Error{
			Kind:       KindValidation,
			Details:    tools.Violations(violations),
			Violations: violations,
		})
	}

	logging.LogRequest("CLIENT->BRIDGE", "dispatch", tool.Name, input)
	result, dErr := d.invoke(ctx, tool, input)
	if dErr != nil {
		return Failure(tool.Name, dErr)
	}
	logging.LogRequest("BRIDGE->CLIENT", "dispatch", tool.Name, result)
	return Success(tool.Name, result)
}

// invoke runs the handler and validates its result, converting panics and
// untyped errors into server_error.
func (d *Dispatcher) invoke(ctx context.Context, tool tools.Tool, input map[string]any) (result map[string]any, dErr *Error) {
	defer func() {
		if rec := recover(); rec != nil {
			log.Error().Str("tool", tool.Name).Interface("panic", rec).Msg("tool handler panicked")
			result = nil
			dErr = newError(KindServer, "tool %s failed: %v", tool.Name, rec)
		}
	}()

	result, err := tool.Handler(ctx, input)
	if err != nil {
		return nil, Classify(err)
	}

	violations, err := d.registry.ValidateOutput(tool.Name, result)
	if err != nil {
		return nil, Classify(err)
	}
	if len(violations) > 0 {
		return nil, &Error{
			Kind:    KindServer,
			Details: fmt.Sprintf("tool %s produced an invalid result: %s", tool.Name, tools.Violations(violations)),
		}
	}
	return result, nil
}
