package commands

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/mkarlsen/accessctl/internal/approval"
	"github.com/mkarlsen/accessctl/internal/viewer"
)

func NewViewCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "view",
		Short: "Browse approval requests interactively",
		Long: `view fetches approval requests and opens a terminal viewer.

Navigate with the arrow keys, press a/d/r to approve, dismiss, or revoke
the selected request (confirmed with y/n), R to refetch, and q to quit.`,
		RunE: runView,
	}
	cmd.Flags().String("state", "pending", "Filter by state (pending|approved|dismissed|all)")
	return cmd
}

func runView(cmd *cobra.Command, args []string) error {
	stateValue, _ := cmd.Flags().GetString("state")
	state, ok := approval.ParseState(stateValue)
	if !ok {
		return fmt.Errorf("invalid --state %q (want pending, approved, dismissed, or all)", stateValue)
	}

	ctx := cmdContext(cmd)
	client, cfg, err := loadClient(ctx)
	if err != nil {
		return err
	}

	callCtx, cancel := callContext(ctx, cfg)
	records, err := client.List(callCtx, state)
	cancel()
	if err != nil {
		return err
	}

	model := viewer.New(viewer.Config{
		Records:     records,
		Runner:      loadDispatcher(client),
		Lister:      client,
		StateFilter: state,
		Timeout:     time.Duration(cfg.API.TimeoutSeconds) * time.Second,
	})
	return viewer.Run(model)
}
