// internal/commands/root.go
package orderbridge

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/mwiater/orderbridge/internal/appconfig"
	"github.com/mwiater/orderbridge/internal/logging"
)

var (
	cfgFile       string
	currentConfig *appconfig.Config
	appVersion    = "dev"
	appCommit     = "none"
	appDate       = "unknown"
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:          "orderbridge",
	Short:        "orderbridge exposes food-ordering tools over HTTP and MCP stdio",
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if err := appconfig.ReadConfigFile(viper.GetViper(), cfgFile); err != nil {
			return err
		}

		cfg, err := appconfig.FromViper(viper.GetViper(), cfgFile)
		if err != nil {
			return err
		}
		currentConfig = &cfg

		if err := logging.Init(cfg.LogFile, cfg.Debug); err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		return nil
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	rootCmd.Version = versionString()

	defer logging.Close()
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	appconfig.SetDefaults(viper.GetViper())
	if err := appconfig.BindEnv(viper.GetViper()); err != nil {
		panic(err)
	}

	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "optional config file (json, yaml or toml)")

	rootCmd.PersistentFlags().Bool("debug", false, "enable debug logging")
	rootCmd.PersistentFlags().String("logFile", "", "also write logs to this file")
	rootCmd.PersistentFlags().String("mockApiBase", "", "base URL of the downstream ordering API")
	rootCmd.PersistentFlags().Int("timeout", 0, "downstream request timeout in seconds (0 = default)")
	rootCmd.PersistentFlags().String("mcpSecret", "", "shared secret required on discovery and calls")
	rootCmd.PersistentFlags().String("secretHeader", "", "header carrying the shared secret")

	_ = viper.BindPFlag("debug", rootCmd.PersistentFlags().Lookup("debug"))
	_ = viper.BindPFlag("logFile", rootCmd.PersistentFlags().Lookup("logFile"))
	_ = viper.BindPFlag("mockApiBase", rootCmd.PersistentFlags().Lookup("mockApiBase"))
	_ = viper.BindPFlag("timeout", rootCmd.PersistentFlags().Lookup("timeout"))
	_ = viper.BindPFlag("mcpSecret", rootCmd.PersistentFlags().Lookup("mcpSecret"))
	_ = viper.BindPFlag("secretHeader", rootCmd.PersistentFlags().Lookup("secretHeader"))
}

// GetConfig returns the loaded application configuration for other packages.
func GetConfig() *appconfig.Config {
	return currentConfig
}

// DebugEnabled returns true if debug mode is enabled.
func DebugEnabled() bool { return viper.GetBool("debug") }

// SetVersionInfo allows the main package to inject build-time variables.
func SetVersionInfo(version, commit, date string) {
	appVersion = version
	appCommit = commit
	appDate = date
}

func versionString() string {
	return fmt.Sprintf("%s (commit: %s, built: %s)", appVersion, appCommit, appDate)
}
