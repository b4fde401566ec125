package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/trebuchet-org/artigen/internal/cli/render"
	"github.com/trebuchet-org/artigen/internal/usecase"
)

// NewCompileCmd creates the compile command
func NewCompileCmd() *cobra.Command {
	var opts usecase.CompileOptions

	cmd := &cobra.Command{
		Use:   "compile",
		Short: "Compile contracts and generate Go artifact packages",
		Long: `Run the project compiler, then generate one Go package per Solidity source
file plus a project-level lookup table. Packages of sources that no longer
exist are removed.

Contract names declared in more than one file are left out of the short-name
table and can only be looked up by fully qualified name.`,
		Example: `  # Build and generate
  artigen compile

  # Regenerate from existing artifacts without running the compiler
  artigen compile --skip-build`,
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := getApp(cmd)
			if err != nil {
				return err
			}

			result, err := app.Compile.Run(cmd.Context(), opts)
			if err != nil {
				return err
			}

			return render.NewCompileRenderer(cmd.OutOrStdout()).Render(result)
		},
	}

	cmd.Flags().BoolVar(&opts.Force, "force", false, "Recompile all sources")
	cmd.Flags().BoolVar(&opts.SkipBuild, "skip-build", false, "Generate from existing compiler output")

	return cmd
}

// NewCleanCmd creates the clean command
func NewCleanCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "clean",
		Short: "Remove the generated Go artifact packages",
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := getApp(cmd)
			if err != nil {
				return err
			}

			result, err := app.Clean.Run(cmd.Context())
			if err != nil {
				return err
			}

			fmt.Fprintln(cmd.OutOrStdout(), render.FormatSuccess("Removed "+result.OutputDir))
			return nil
		},
	}
}
