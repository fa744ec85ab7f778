// internal/commands/root_test.go
package orderbridge

import (
	"bytes"
	"strings"
	"testing"
)

// execute runs the root command with args and returns combined output.
func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	b := new(bytes.Buffer)
	rootCmd.SetOut(b)
	rootCmd.SetErr(b)
	rootCmd.SetIn(strings.NewReader(""))
	rootCmd.SetArgs(args)
	_, err := rootCmd.ExecuteC()
	return b.String(), err
}

// TestRootCmd verifies running the root command with an invalid subcommand reports an error.
func TestRootCmd(t *testing.T) {
	out, err := execute(t, "nonexistent")
	if err == nil {
		t.Error("Expected an error for a nonexistent command, but got none")
	}

	expected := "unknown command \"nonexistent\" for \"orderbridge\""
	if !strings.Contains(out, expected) {
		t.Errorf("Expected output to contain '%s', but got '%s'", expected, out)
	}
}

// TestVersionCmd verifies the injected build information is printed.
func TestVersionCmd(t *testing.T) {
	SetVersionInfo("1.2.3", "abc123", "2026-01-01")
	defer SetVersionInfo("dev", "none", "unknown")

	out, err := execute(t, "version")
	if err != nil {
		t.Fatalf("version failed: %v", err)
	}
	if !strings.Contains(out, "orderbridge 1.2.3 (commit: abc123") {
		t.Errorf("unexpected version output %q", out)
	}
}

// TestShowConfigRedactsSecret verifies flags reach the loaded configuration and the secret stays hidden.
func TestShowConfigRedactsSecret(t *testing.T) {
	out, err := execute(t, "config", "--mcpSecret", "hunter2", "--mockApiBase", "http://api.test")
	if err != nil {
		t.Fatalf("config failed: %v", err)
	}
	if strings.Contains(out, "hunter2") {
		t.Errorf("secret leaked into output: %q", out)
	}
	if !strings.Contains(out, "http://api.test") {
		t.Errorf("expected downstream base in output, got %q", out)
	}
	if cfg := GetConfig(); cfg == nil || !cfg.GuardEnabled() {
		t.Errorf("expected guard to be enabled, got %+v", cfg)
	}
}
