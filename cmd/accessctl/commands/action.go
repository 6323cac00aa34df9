package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mkarlsen/accessctl/internal/approval"
)

func NewApproveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "approve <name>",
		Short: "Approve a pending approval request",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAction(cmd, approval.ActionApprove, args[0])
		},
	}
}

func NewDismissCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "dismiss <name>",
		Short: "Dismiss a pending approval request",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAction(cmd, approval.ActionDismiss, args[0])
		},
	}
}

func NewRevokeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "revoke <name>",
		Short: "Revoke a previously approved request",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAction(cmd, approval.ActionRevoke, args[0])
		},
	}
}

// runAction performs one mutating call. A failed action is fatal to this
// invocation: there is no loop to recover into, so the error propagates to
// a non-zero exit.
func runAction(cmd *cobra.Command, kind approval.ActionKind, name string) error {
	ctx := cmdContext(cmd)
	client, cfg, err := loadClient(ctx)
	if err != nil {
		return err
	}
	dispatcher := loadDispatcher(client)

	callCtx, cancel := callContext(ctx, cfg)
	defer cancel()

	updated, err := dispatcher.Run(callCtx, kind, name)
	if err != nil {
		return err
	}

	fmt.Printf("%s %s (state: %s)\n", kind.PastTense(), updated.ID(), updated.State)
	return nil
}
