// internal/commands/mcp.go
package orderbridge

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/mwiater/orderbridge/internal/mcpserver"
)

// mcpCmd serves only the stdio transport, for hosts that spawn the bridge as an MCP server.
var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Serve the tools over MCP stdio only",
	RunE: func(cmd *cobra.Command, args []string) error {
		b, err := newBridge(GetConfig())
		if err != nil {
			return err
		}
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()
		return mcpserver.New(b.local, cmd.InOrStdin(), cmd.OutOrStdout()).Serve(ctx)
	},
}

func init() {
	rootCmd.AddCommand(mcpCmd)
}
