package appconfig

import (
	"fmt"
	"io"
	"strings"
)

// ShowConfig prints the current configuration summary. The shared secret is never printed.
func ShowConfig(out io.Writer, cfg Config) {
	if cfg.ConfigPath == "" {
		fmt.Fprintln(out, "No config file loaded (using environment and defaults).")
	} else {
		fmt.Fprintf(out, "Config file: %s\n\n", cfg.ConfigPath)
	}

	fmt.Fprintln(out, "Current configuration:")
	fmt.Fprintf(out, "  Listen Address:     %s\n", cfg.Addr())
	fmt.Fprintf(out, "  Downstream Base:    %s\n", orUnset(cfg.DownstreamBase()))
	fmt.Fprintf(out, "  Downstream Timeout: %s\n", cfg.DownstreamTimeout())
	fmt.Fprintf(out, "  Secret Header:      %s\n", cfg.HeaderName())
	fmt.Fprintf(out, "  Access Guard:       %s\n", guardState(cfg))
	fmt.Fprintf(out, "  MCP Stdio:          %v\n", cfg.MCPEnabled)
	fmt.Fprintf(out, "  Log File:           %s\n", orUnset(cfg.LogFile))
	fmt.Fprintf(out, "  Debug:              %v\n", cfg.Debug)
}

func guardState(cfg Config) string {
	if cfg.GuardEnabled() {
		return "enabled"
	}
	return "open (no secret configured)"
}

func orUnset(s string) string {
	if strings.TrimSpace(s) == "" {
		return "(unset)"
	}
	return s
}
