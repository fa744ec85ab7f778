// internal/appconfig/appconfig_test.go
package appconfig

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

// clearEnv unsets every bound variable for the duration of the test.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, env := range envBindings {
		t.Setenv(env, "")
		os.Unsetenv(env)
	}
}

// TestLoadDefaults verifies that with no file and no environment the
// configuration falls back to the documented defaults, and that a missing
// downstream base URL is not an error.
func TestLoadDefaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load() with defaults failed: %v", err)
	}
	if cfg.Port != DefaultPort {
		t.Fatalf("expected default port %d, got %d", DefaultPort, cfg.Port)
	}
	if cfg.Addr() != "0.0.0.0:3333" {
		t.Fatalf("expected default addr, got %s", cfg.Addr())
	}
	if cfg.DownstreamTimeout() != 10*time.Second {
		t.Fatalf("expected default downstream timeout of 10s, got %v", cfg.DownstreamTimeout())
	}
	if cfg.HeaderName() != DefaultSecretHeader {
		t.Fatalf("expected default secret header, got %s", cfg.HeaderName())
	}
	if cfg.GuardEnabled() {
		t.Fatal("expected guard to be open without a secret")
	}
	if !cfg.MCPEnabled {
		t.Fatal("expected MCP stdio to be enabled by default")
	}
	if cfg.DownstreamBase() != "" {
		t.Fatalf("expected empty downstream base, got %q", cfg.DownstreamBase())
	}
}

func TestLoadFromEnvironment(t *testing.T) {
	clearEnv(t)
	t.Setenv("MOCK_API_BASE", "http://mock.local:9000/")
	t.Setenv("MCP_SECRET", "s3cret")
	t.Setenv("PORT", "8080")
	t.Setenv("DOWNSTREAM_TIMEOUT", "3")
	t.Setenv("MCP_ENABLED", "false")

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if cfg.DownstreamBase() != "http://mock.local:9000" {
		t.Fatalf("expected trailing slash trimmed, got %q", cfg.DownstreamBase())
	}
	if !cfg.GuardEnabled() || cfg.MCPSecret != "s3cret" {
		t.Fatalf("expected guard enabled with secret, got %+v", cfg)
	}
	if cfg.Port != 8080 {
		t.Fatalf("expected port 8080, got %d", cfg.Port)
	}
	if cfg.DownstreamTimeout() != 3*time.Second {
		t.Fatalf("expected 3s timeout, got %v", cfg.DownstreamTimeout())
	}
	if cfg.MCPEnabled {
		t.Fatal("expected MCP stdio disabled")
	}
}

// TestLoadFile covers a JSON config file, environment precedence over the
// file, invalid JSON and a missing file.
func TestLoadFile(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()

	path := filepath.Join(dir, "config.json")
	payload := `{"mockApiBase": "http://file.local", "port": 4000, "secretHeader": "X-Bridge-Key"}`
	if err := os.WriteFile(path, []byte(payload), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() with valid file failed: %v", err)
	}
	if cfg.DownstreamBase() != "http://file.local" || cfg.Port != 4000 {
		t.Fatalf("unexpected config from file: %+v", cfg)
	}
	if cfg.HeaderName() != "X-Bridge-Key" {
		t.Fatalf("expected header from file, got %s", cfg.HeaderName())
	}
	if cfg.ConfigPath != path {
		t.Fatalf("expected ConfigPath %q, got %q", path, cfg.ConfigPath)
	}

	t.Setenv("PORT", "5000")
	cfg, err = Load(path)
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if cfg.Port != 5000 {
		t.Fatalf("expected env to override file, got %d", cfg.Port)
	}

	invalid := filepath.Join(dir, "invalid.json")
	if err := os.WriteFile(invalid, []byte(`{ "port": `), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(invalid); err == nil {
		t.Fatal("Load() with invalid JSON should have failed")
	}

	if _, err := Load(filepath.Join(dir, "nonexistent.json")); err != nil {
		t.Fatalf("Load() with missing file should fall back to defaults, got %v", err)
	}
}

func TestValidate(t *testing.T) {
	if err := (Config{Port: 70000}).Validate(); err == nil {
		t.Fatal("expected out of range port to fail")
	}
	if err := (Config{MockAPIBase: "ftp://nope"}).Validate(); err == nil {
		t.Fatal("expected non-http base URL to fail")
	}
	if err := (Config{}).Validate(); err != nil {
		t.Fatalf("expected empty config to validate, got %v", err)
	}
}

func TestShowConfigRedactsSecret(t *testing.T) {
	var buf bytes.Buffer
	ShowConfig(&buf, Config{MCPSecret: "topsecret", Port: 3333})
	out := buf.String()
	if strings.Contains(out, "topsecret") {
		t.Fatalf("secret leaked into output: %s", out)
	}
	if !strings.Contains(out, "Access Guard:       enabled") {
		t.Fatalf("expected guard state in output: %s", out)
	}
	if !strings.Contains(out, "Downstream Base:    (unset)") {
		t.Fatalf("expected unset downstream base: %s", out)
	}
}
