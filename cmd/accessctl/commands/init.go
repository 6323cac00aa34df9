package commands

import (
	"fmt"
	"os"

	"github.com/mkarlsen/accessctl/internal/config"
	"github.com/spf13/cobra"
)

func NewInitCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Initialize accessctl configuration",
		RunE:  runInit,
	}
}

func runInit(cmd *cobra.Command, args []string) error {
	configPath := config.ConfigPath()

	if _, err := os.Stat(configPath); err == nil {
		fmt.Printf("Config already exists: %s\n", configPath)
		return nil
	}

	if err := os.MkdirAll(config.ConfigDir(), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	cfg := config.DefaultConfig()
	if err := config.Save(cfg); err != nil {
		return fmt.Errorf("failed to save config: %w", err)
	}

	fmt.Printf("accessctl initialized!\n")
	fmt.Printf("Config: %s\n", configPath)
	fmt.Printf("\nNext steps:\n")
	fmt.Printf("1. Set api.project in %s (or pass --project)\n", configPath)
	fmt.Printf("2. Point GOOGLE_APPLICATION_CREDENTIALS at a service account key,\n")
	fmt.Printf("   or rely on application default credentials\n")
	fmt.Printf("3. Run 'accessctl list' or 'accessctl view'\n")

	return nil
}
