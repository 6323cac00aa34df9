package commands

import (
	"bytes"
	"io"
	"os"
	"testing"

	"github.com/mkarlsen/accessctl/internal/config"
)

// captureOutput redirects stdout while fn runs and returns what was printed.
func captureOutput(t *testing.T, fn func() error) (string, error) {
	t.Helper()

	old := os.Stdout
	r, w, err := os.Pipe()
	if err != nil {
		t.Fatalf("pipe: %v", err)
	}
	os.Stdout = w

	runErr := fn()

	w.Close()
	os.Stdout = old

	var buf bytes.Buffer
	if _, err := io.Copy(&buf, r); err != nil {
		t.Fatalf("read captured output: %v", err)
	}
	return buf.String(), runErr
}

// setupTestConfig points HOME at a temp dir and saves a config aimed at the
// given endpoint, authenticated with a static token.
func setupTestConfig(t *testing.T, endpoint string) {
	t.Helper()
	t.Setenv("HOME", t.TempDir())
	t.Setenv("GOOGLE_APPLICATION_CREDENTIALS", "")
	t.Cleanup(func() {
		projectOverride = ""
		logLevelOverride = ""
		debugMode = false
	})

	cfg := config.DefaultConfig()
	cfg.API.Project = "test-project"
	cfg.API.Endpoint = endpoint
	cfg.API.Token = "test-token"
	cfg.API.CredentialsFile = ""
	cfg.API.TimeoutSeconds = 5
	if err := config.Save(cfg); err != nil {
		t.Fatalf("save config: %v", err)
	}
}
