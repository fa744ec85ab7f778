package orderbridge

import (
	"github.com/spf13/cobra"

	"github.com/mwiater/orderbridge/internal/appconfig"
)

// showConfigCmd implements the 'config' command, which displays the effective configuration.
var showConfigCmd = &cobra.Command{
	Use:   "config",
	Short: "Show config settings",
	Long:  `Show the effective configuration after merging the config file, environment variables and flags. The shared secret is never printed.`,
	Run: func(cmd *cobra.Command, args []string) {
		appconfig.ShowConfig(cmd.OutOrStdout(), *GetConfig())
	},
}

func init() {
	rootCmd.AddCommand(showConfigCmd)
}
