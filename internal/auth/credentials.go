package auth

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"strings"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"

	"github.com/mkarlsen/accessctl/internal/config"
)

const cloudPlatformScope = "https://www.googleapis.com/auth/cloud-platform"

// HTTPClient builds a credential-bearing HTTP client for the Access
// Approval API. Resolution order:
//
//  1. a static bearer token from config (local/test endpoints),
//  2. the configured credentials value, interpreted as inline service
//     account JSON or as a key file path,
//  3. application default credentials.
//
// The environment is only consulted when config defaulted credentials_file
// from GOOGLE_APPLICATION_CREDENTIALS at load time, which keeps the remote
// client constructible without any ambient state.
func HTTPClient(ctx context.Context, cfg config.APIConfig) (*http.Client, error) {
	source, err := tokenSource(ctx, cfg)
	if err != nil {
		return nil, err
	}
	return oauth2.NewClient(ctx, source), nil
}

func tokenSource(ctx context.Context, cfg config.APIConfig) (oauth2.TokenSource, error) {
	if token := strings.TrimSpace(cfg.Token); token != "" {
		return oauth2.StaticTokenSource(&oauth2.Token{AccessToken: token}), nil
	}

	if value := strings.TrimSpace(cfg.CredentialsFile); value != "" {
		keyJSON, err := readKeyMaterial(value)
		if err != nil {
			return nil, err
		}
		creds, err := google.CredentialsFromJSON(ctx, keyJSON, cloudPlatformScope)
		if err != nil {
			return nil, fmt.Errorf("parse service account credentials: %w", err)
		}
		return creds.TokenSource, nil
	}

	creds, err := google.FindDefaultCredentials(ctx, cloudPlatformScope)
	if err != nil {
		return nil, fmt.Errorf("no credentials found: set api.credentials_file or "+
			"GOOGLE_APPLICATION_CREDENTIALS to a service account key file or its JSON content: %w", err)
	}
	return creds.TokenSource, nil
}

// readKeyMaterial accepts either inline service account JSON or a path to a
// key file.
func readKeyMaterial(value string) ([]byte, error) {
	if strings.HasPrefix(value, "{") {
		return []byte(value), nil
	}
	data, err := os.ReadFile(value)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("service account key file not found at %s", value)
		}
		return nil, fmt.Errorf("read service account key file: %w", err)
	}
	return data, nil
}
