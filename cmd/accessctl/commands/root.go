package commands

import (
	"github.com/mkarlsen/accessctl/internal/config"
	"github.com/spf13/cobra"
)

var (
	logLevelOverride string
	debugMode        bool
	projectOverride  string
)

// NewRootCmd creates the root command
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "accessctl",
		Short: "Manage Google Cloud Access Approval requests",
		Long: `accessctl lists, exports, and decides on Access Approval requests
for a Google Cloud project, either one-shot or through an interactive
terminal viewer.`,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if cmd.Name() == "init" {
				return configureLogger(config.DefaultConfig(), levelOverride(), false)
			}
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			return configureLogger(cfg, levelOverride(), cmd.Name() == "view")
		},
	}

	cmd.PersistentFlags().StringVar(&logLevelOverride, "log-level", "", "Override log level (debug|info|warn|error)")
	cmd.PersistentFlags().BoolVar(&debugMode, "debug", false, "Shorthand for --log-level debug")
	cmd.PersistentFlags().StringVar(&projectOverride, "project", "", "Override the configured project")

	cmd.AddCommand(
		NewInitCmd(),
		NewListCmd(),
		NewApproveCmd(),
		NewDismissCmd(),
		NewRevokeCmd(),
		NewViewCmd(),
		NewStatusCmd(),
		NewVersionCmd(),
	)

	return cmd
}

func levelOverride() string {
	if debugMode {
		return "debug"
	}
	return logLevelOverride
}
