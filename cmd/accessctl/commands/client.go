package commands

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/mkarlsen/accessctl/internal/approval"
	"github.com/mkarlsen/accessctl/internal/audit"
	"github.com/mkarlsen/accessctl/internal/auth"
	"github.com/mkarlsen/accessctl/internal/config"
	"github.com/mkarlsen/accessctl/internal/metrics"
)

// loadClient assembles a credentialed API client from config. The --project
// flag takes precedence over api.project.
func loadClient(ctx context.Context) (*approval.Client, *config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load config: %w", err)
	}

	project := strings.TrimSpace(projectOverride)
	if project == "" {
		project, err = cfg.ProjectChecked()
		if err != nil {
			return nil, nil, err
		}
	}

	httpClient, err := auth.HTTPClient(ctx, cfg.API)
	if err != nil {
		return nil, nil, err
	}

	return approval.NewClient(httpClient, project, cfg.API.Endpoint), cfg, nil
}

// loadDispatcher wires the dispatcher with the audit trail and call metrics
// rooted at the config dir.
func loadDispatcher(client *approval.Client) *approval.Dispatcher {
	dir := config.ConfigDir()
	return approval.NewDispatcher(client, audit.NewWriter(dir), metrics.NewRecorder(dir))
}

// callContext bounds one remote call with the configured timeout.
func callContext(parent context.Context, cfg *config.Config) (context.Context, context.CancelFunc) {
	return context.WithTimeout(parent, time.Duration(cfg.API.TimeoutSeconds)*time.Second)
}

// cmdContext returns the command's context, or Background when the command
// is driven directly from tests.
func cmdContext(cmd *cobra.Command) context.Context {
	if cmd != nil {
		if ctx := cmd.Context(); ctx != nil {
			return ctx
		}
	}
	return context.Background()
}
