package auth

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/mkarlsen/accessctl/internal/config"
)

func TestHTTPClient_StaticToken(t *testing.T) {
	var gotAuth string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
	}))
	defer server.Close()

	client, err := HTTPClient(context.Background(), config.APIConfig{Token: "test-token"})
	if err != nil {
		t.Fatalf("HTTPClient: %v", err)
	}
	resp, err := client.Get(server.URL)
	if err != nil {
		t.Fatalf("request: %v", err)
	}
	resp.Body.Close()

	if gotAuth != "Bearer test-token" {
		t.Fatalf("expected bearer token header, got %q", gotAuth)
	}
}

func TestTokenSource_InlineKeyJSON(t *testing.T) {
	inline := `{"type": "authorized_user", "client_id": "id", "client_secret": "secret", "refresh_token": "refresh"}`
	source, err := tokenSource(context.Background(), config.APIConfig{CredentialsFile: inline})
	if err != nil {
		t.Fatalf("tokenSource: %v", err)
	}
	if source == nil {
		t.Fatal("expected a token source for inline key JSON")
	}
}

func TestTokenSource_KeyFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "key.json")
	key := `{"type": "authorized_user", "client_id": "id", "client_secret": "secret", "refresh_token": "refresh"}`
	if err := os.WriteFile(path, []byte(key), 0600); err != nil {
		t.Fatalf("write key file: %v", err)
	}

	source, err := tokenSource(context.Background(), config.APIConfig{CredentialsFile: path})
	if err != nil {
		t.Fatalf("tokenSource: %v", err)
	}
	if source == nil {
		t.Fatal("expected a token source for a key file")
	}
}

func TestTokenSource_MissingKeyFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "missing.json")
	_, err := tokenSource(context.Background(), config.APIConfig{CredentialsFile: path})
	if err == nil {
		t.Fatal("expected error for missing key file")
	}
	if !strings.Contains(err.Error(), "not found") {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestTokenSource_InvalidKeyJSON(t *testing.T) {
	_, err := tokenSource(context.Background(), config.APIConfig{CredentialsFile: "{not json"})
	if err == nil {
		t.Fatal("expected error for invalid key JSON")
	}
}
