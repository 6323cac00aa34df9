package commands

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/mkarlsen/accessctl/internal/approval"
	"github.com/mkarlsen/accessctl/internal/config"
	"github.com/mkarlsen/accessctl/internal/metrics"
	"github.com/spf13/cobra"
)

func NewStatusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show accessctl configuration status",
		RunE:  runStatus,
	}
}

func runStatus(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	fmt.Println("=== accessctl Status ===")
	fmt.Println()

	fmt.Printf("Config: %s\n", config.ConfigPath())
	if _, err := os.Stat(config.ConfigPath()); err == nil {
		fmt.Println("  Status: OK")
	} else {
		fmt.Println("  Status: Not found (run 'accessctl init')")
	}

	fmt.Println("\nAPI:")
	project := strings.TrimSpace(cfg.API.Project)
	if project == "" {
		project = "Not configured"
	}
	fmt.Printf("  Project:  %s\n", project)
	endpoint := strings.TrimSpace(cfg.API.Endpoint)
	if endpoint == "" {
		endpoint = approval.DefaultEndpoint
	}
	fmt.Printf("  Endpoint: %s\n", endpoint)
	fmt.Printf("  Timeout:  %ds\n", cfg.API.TimeoutSeconds)

	fmt.Println("\nCredentials:")
	switch {
	case strings.TrimSpace(cfg.API.Token) != "":
		fmt.Println("  Source: static token")
	case strings.TrimSpace(cfg.API.CredentialsFile) != "":
		if strings.HasPrefix(strings.TrimSpace(cfg.API.CredentialsFile), "{") {
			fmt.Println("  Source: inline service account key")
		} else {
			fmt.Printf("  Source: key file (%s)\n", cfg.API.CredentialsFile)
		}
	default:
		fmt.Println("  Source: application default credentials")
	}

	fmt.Println("\nAudit:")
	auditPath := filepath.Join(config.ConfigDir(), "audit.jsonl")
	if _, err := os.Stat(auditPath); err == nil {
		fmt.Printf("  Trail: %s\n", auditPath)
	} else {
		fmt.Println("  Trail: empty")
	}

	fmt.Println("\nAPI calls:")
	snapshot, err := metrics.ReadSnapshot(config.ConfigDir())
	if err != nil || !snapshot.HasData() {
		fmt.Println("  No calls recorded yet.")
		return nil
	}
	for _, op := range snapshot.Operations() {
		stats := snapshot.Calls[op]
		fmt.Printf("  %s: %d total, %d errors, avg %.0fms, max %dms\n",
			op, stats.Total, stats.Errors, stats.AvgLatencyMs(), stats.MaxLatencyMs)
	}

	return nil
}
