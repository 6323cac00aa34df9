package commands

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/mkarlsen/accessctl/internal/approval"
	"github.com/mkarlsen/accessctl/internal/config"
	"github.com/mkarlsen/accessctl/internal/export"
	"github.com/mkarlsen/accessctl/internal/metrics"
)

func NewListCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List approval requests",
		RunE:  runList,
	}
	cmd.Flags().String("state", "pending", "Filter by state (pending|approved|dismissed|all)")
	cmd.Flags().String("export", "text", "Output format (text|json|csv)")
	cmd.Flags().StringP("output", "o", "", "Write output to a file instead of stdout")
	return cmd
}

func runList(cmd *cobra.Command, args []string) error {
	stateValue, _ := cmd.Flags().GetString("state")
	state, ok := approval.ParseState(stateValue)
	if !ok {
		return fmt.Errorf("invalid --state %q (want pending, approved, dismissed, or all)", stateValue)
	}

	formatValue, _ := cmd.Flags().GetString("export")
	format, err := export.ParseFormat(formatValue)
	if err != nil {
		return err
	}

	ctx := cmdContext(cmd)
	client, cfg, err := loadClient(ctx)
	if err != nil {
		return err
	}

	callCtx, cancel := callContext(ctx, cfg)
	defer cancel()

	start := time.Now()
	requests, err := client.List(callCtx, state)
	metrics.NewRecorder(config.ConfigDir()).Observe("list", time.Since(start), err != nil)
	if err != nil {
		return err
	}

	writer := io.Writer(os.Stdout)
	outputPath, _ := cmd.Flags().GetString("output")
	if outputPath != "" {
		file, err := os.Create(outputPath)
		if err != nil {
			return fmt.Errorf("create output file: %w", err)
		}
		defer file.Close()
		writer = file
	}

	return export.Write(writer, format, requests, state)
}
