package commands

import (
	"fmt"
	"runtime"

	"github.com/mkarlsen/accessctl/internal/version"
	"github.com/spf13/cobra"
)

// NewVersionCmd creates the version command
func NewVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version of accessctl",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("accessctl %s %s/%s\n", version.Version, runtime.GOOS, runtime.GOARCH)
		},
	}
}
