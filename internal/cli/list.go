package cli

import (
	"github.com/spf13/cobra"

	"github.com/trebuchet-org/artigen/internal/cli/render"
)

// NewListCmd creates the list command
func NewListCmd() *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List compiled contract artifacts and their lookup keys",
		Example: `  # Table of contracts
  artigen list

  # Machine-readable
  artigen list --format json`,
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := render.ParseFormat(format)
			if err != nil {
				return err
			}

			app, err := getApp(cmd)
			if err != nil {
				return err
			}

			result, err := app.ListArtifacts.Run(cmd.Context())
			if err != nil {
				return err
			}

			return render.NewArtifactsRenderer(cmd.OutOrStdout(), f).Render(result)
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", "table", "Output format (table, json, yaml)")

	return cmd
}
