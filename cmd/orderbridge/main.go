// cmd/orderbridge/main.go
package main

import (
	cmd "github.com/mwiater/orderbridge/internal/commands"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

// main starts the orderbridge CLI by delegating to the cobra root command.
// Build information is injected with -ldflags "-X main.version=...".
func main() {
	cmd.SetVersionInfo(version, commit, date)
	cmd.Execute()
}
