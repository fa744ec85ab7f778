// internal/commands/serve.go
package orderbridge

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"golang.org/x/sync/errgroup"

	"github.com/mwiater/orderbridge/internal/httpserver"
	"github.com/mwiater/orderbridge/internal/mcpserver"
)

// serveCmd runs the HTTP surface and, unless disabled, the MCP stdio listener.
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve /health and /mcp over HTTP, plus MCP over stdio",
	Long: `Start the HTTP server (GET /health, GET /mcp/discover, POST /mcp/call) and,
unless --mcp=false, an MCP stdio listener in the background. Closing stdin
stops only the stdio listener; SIGINT or SIGTERM stops both.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := GetConfig()
		b, err := newBridge(cfg)
		if err != nil {
			return err
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		srv := httpserver.New(b.guarded, b.guard, httpserver.Config{Addr: cfg.Addr()})
		log.Info().
			Str("addr", cfg.Addr()).
			Str("downstream", cfg.DownstreamBase()).
			Bool("guard", b.guard.Enabled()).
			Bool("mcp", cfg.MCPEnabled).
			Msg("starting orderbridge")

		g, gctx := errgroup.WithContext(ctx)
		g.Go(func() error {
			return srv.Run(gctx, cfg.ShutdownTimeout())
		})
		if cfg.MCPEnabled {
			g.Go(func() error {
				runStdio(gctx, mcpserver.New(b.local, cmd.InOrStdin(), cmd.OutOrStdout()))
				return nil
			})
		}
		return g.Wait()
	},
}

// runStdio serves MCP until stdin closes. Its failures are logged, never
// propagated, so the HTTP server keeps running.
func runStdio(ctx context.Context, srv *mcpserver.Server) {
	if err := srv.Serve(ctx); err != nil {
		log.Error().Err(err).Msg("MCP stdio listener stopped")
	}
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().String("host", "", "interface to listen on")
	serveCmd.Flags().Int("port", 0, "HTTP port to listen on")
	serveCmd.Flags().Bool("mcp", true, "also serve MCP over stdio")
	serveCmd.Flags().Int("shutdownTimeout", 0, "seconds to wait for in-flight requests on shutdown (0 = default)")

	_ = viper.BindPFlag("host", serveCmd.Flags().Lookup("host"))
	_ = viper.BindPFlag("port", serveCmd.Flags().Lookup("port"))
	_ = viper.BindPFlag("mcp", serveCmd.Flags().Lookup("mcp"))
	_ = viper.BindPFlag("shutdownTimeout", serveCmd.Flags().Lookup("shutdownTimeout"))
}
