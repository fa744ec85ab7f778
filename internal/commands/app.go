package orderbridge

import (
	"fmt"

	"github.com/mwiater/orderbridge/internal/appconfig"
	"github.com/mwiater/orderbridge/internal/dispatch"
	"github.com/mwiater/orderbridge/internal/downstream"
	"github.com/mwiater/orderbridge/internal/guard"
	"github.com/mwiater/orderbridge/internal/logging"
	"github.com/mwiater/orderbridge/internal/tools"
)

// serverName identifies the bridge in discovery and the MCP handshake.
const serverName = "orderbridge"

// bridge is the wiring shared by every command: one registry, served through
// a guarded dispatcher (HTTP) and an open one (stdio and in-process calls).
type bridge struct {
	registry *tools.Registry
	guard    *guard.Guard
	guarded  *dispatch.Dispatcher
	local    *dispatch.Dispatcher
}

func newBridge(cfg *appconfig.Config) (*bridge, error) {
	if cfg == nil {
		return nil, fmt.Errorf("configuration not loaded")
	}
	if cfg.DownstreamBase() == "" {
		logging.LogEvent("mockApiBase is not set; tool calls will fail with config_error")
	}

	client := downstream.New(cfg.DownstreamBase(), cfg.DownstreamTimeout())
	registry, err := tools.Default(client)
	if err != nil {
		return nil, fmt.Errorf("build tool registry: %w", err)
	}

	info := dispatch.ServerInfo{Name: serverName, Version: appVersion}
	g := guard.New(cfg.MCPSecret, cfg.HeaderName())
	return &bridge{
		registry: registry,
		guard:    g,
		guarded:  dispatch.New(registry, g, info),
		local:    dispatch.New(registry, guard.Open(), info),
	}, nil
}
