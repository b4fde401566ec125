package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/trebuchet-org/artigen/internal/config"
)

// NewVersionCmd creates the version command
func NewVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version number of artigen",
		Run: func(cmd *cobra.Command, args []string) {
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "artigen version %s\n", config.Version)
			if config.Commit != "unknown" {
				fmt.Fprintf(out, "commit: %s\n", config.Commit)
			}
			if config.Date != "unknown" {
				fmt.Fprintf(out, "built:  %s\n", config.Date)
			}
		},
	}
}
