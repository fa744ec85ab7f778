// internal/appconfig/appconfig.go
// Package appconfig manages loading and interpreting application configuration.
package appconfig

import (
	"errors"
	"fmt"
	"net"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/viper"
)

const (
	// DefaultPort is the HTTP listening port used when PORT is unset.
	DefaultPort = 3333
	// DefaultHost is the interface the HTTP listener binds to.
	DefaultHost = "0.0.0.0"
	// DefaultSecretHeader is the header that carries the shared secret.
	DefaultSecretHeader = "X-MCP-Secret"
	// defaultDownstreamTimeout is the default timeout for calls to the downstream API.
	defaultDownstreamTimeout = 10 * time.Second
	// defaultShutdownTimeout bounds graceful HTTP shutdown.
	defaultShutdownTimeout = 5 * time.Second
)

// Config represents the top-level application configuration.
type Config struct {
	MockAPIBase     string `mapstructure:"mockApiBase"`
	MCPSecret       string `mapstructure:"mcpSecret"`
	SecretHeader    string `mapstructure:"secretHeader"`
	Host            string `mapstructure:"host"`
	Port            int    `mapstructure:"port"`
	TimeoutSeconds  int    `mapstructure:"timeout"`
	LogFile         string `mapstructure:"logFile"`
	Debug           bool   `mapstructure:"debug"`
	MCPEnabled      bool   `mapstructure:"mcp"`
	ShutdownSeconds int    `mapstructure:"shutdownTimeout"`
	ConfigPath      string `mapstructure:"-"`
}

// envBindings maps configuration keys to the environment variables that feed them.
var envBindings = map[string]string{
	"mockApiBase":     "MOCK_API_BASE",
	"mcpSecret":       "MCP_SECRET",
	"secretHeader":    "MCP_SECRET_HEADER",
	"host":            "HOST",
	"port":            "PORT",
	"timeout":         "DOWNSTREAM_TIMEOUT",
	"logFile":         "LOG_FILE",
	"debug":           "DEBUG",
	"mcp":             "MCP_ENABLED",
	"shutdownTimeout": "SHUTDOWN_TIMEOUT",
}

// SetDefaults registers the default value of every key on v.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("mockApiBase", "")
	v.SetDefault("mcpSecret", "")
	v.SetDefault("secretHeader", DefaultSecretHeader)
	v.SetDefault("host", DefaultHost)
	v.SetDefault("port", DefaultPort)
	v.SetDefault("timeout", int(defaultDownstreamTimeout.Seconds()))
	v.SetDefault("logFile", "")
	v.SetDefault("debug", false)
	v.SetDefault("mcp", true)
	v.SetDefault("shutdownTimeout", int(defaultShutdownTimeout.Seconds()))
}

// BindEnv binds every configuration key to its environment variable.
func BindEnv(v *viper.Viper) error {
	for key, env := range envBindings {
		if err := v.BindEnv(key, env); err != nil {
			return fmt.Errorf("bind %s: %w", env, err)
		}
	}
	return nil
}

// Load reads configuration from the optional file at path, the environment
// and defaults, in that order of precedence (environment wins over file).
// A missing file is not an error; an unreadable one is.
func Load(path string) (Config, error) {
	v := viper.New()
	SetDefaults(v)
	if err := BindEnv(v); err != nil {
		return Config{}, err
	}
	if err := ReadConfigFile(v, path); err != nil {
		return Config{}, err
	}
	return FromViper(v, path)
}

// ReadConfigFile merges the file at path into v. An empty path or a missing
// file is not an error.
func ReadConfigFile(v *viper.Viper, path string) error {
	if path == "" {
		return nil
	}
	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok || errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("could not read config file %q: %w", path, err)
	}
	return nil
}

// FromViper materializes a Config snapshot from an already populated viper instance.
func FromViper(v *viper.Viper, path string) (Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("unmarshal config: %w", err)
	}
	cfg.ConfigPath = path
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate rejects values that cannot be served. An empty downstream base URL
// is allowed: tool calls degrade to a configuration error instead.
func (c Config) Validate() error {
	if c.Port < 0 || c.Port > 65535 {
		return fmt.Errorf("invalid configuration: port %d out of range", c.Port)
	}
	if base := strings.TrimSpace(c.MockAPIBase); base != "" &&
		!strings.HasPrefix(base, "http://") && !strings.HasPrefix(base, "https://") {
		return fmt.Errorf("invalid configuration: mockApiBase %q must be an http(s) URL", base)
	}
	return nil
}

// DownstreamBase returns the downstream base URL without a trailing slash.
func (c Config) DownstreamBase() string {
	return strings.TrimRight(strings.TrimSpace(c.MockAPIBase), "/")
}

// DownstreamTimeout returns the timeout for downstream HTTP calls, falling back to the default if not specified.
func (c Config) DownstreamTimeout() time.Duration {
	if c.TimeoutSeconds <= 0 {
		return defaultDownstreamTimeout
	}
	return time.Duration(c.TimeoutSeconds) * time.Second
}

// ShutdownTimeout returns how long the HTTP server may take to drain.
func (c Config) ShutdownTimeout() time.Duration {
	if c.ShutdownSeconds <= 0 {
		return defaultShutdownTimeout
	}
	return time.Duration(c.ShutdownSeconds) * time.Second
}

// HeaderName returns the header that carries the shared secret.
func (c Config) HeaderName() string {
	if h := strings.TrimSpace(c.SecretHeader); h != "" {
		return h
	}
	return DefaultSecretHeader
}

// Addr returns the host:port the HTTP listener binds to.
func (c Config) Addr() string {
	host := strings.TrimSpace(c.Host)
	if host == "" {
		host = DefaultHost
	}
	port := c.Port
	if port == 0 {
		port = DefaultPort
	}
	return net.JoinHostPort(host, strconv.Itoa(port))
}

// GuardEnabled reports whether a shared secret is configured.
func (c Config) GuardEnabled() bool {
	return c.MCPSecret != ""
}
