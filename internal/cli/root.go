package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/trebuchet-org/artigen/internal/adapters/progress"
	"github.com/trebuchet-org/artigen/internal/app"
	"github.com/trebuchet-org/artigen/internal/config"
	"github.com/trebuchet-org/artigen/internal/usecase"
)

// contextKey is the type for context keys
type contextKey string

const (
	// appKey is the context key for the app instance
	appKey contextKey = "app"
)

// NewRootCmd creates the root command
func NewRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "artigen",
		Short: "Typed Go artifacts and chain clients for Solidity projects",
		Long: `artigen compiles a Foundry or Hardhat project and generates a Go package per
source file holding its contract artifacts, plus a lookup table keyed by
contract name and fully qualified name.

It also deploys and calls contracts and controls development nodes through
clients built on the configured network.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			// Skip for help/version commands
			if cmd.Name() == "version" || cmd.Name() == "help" || cmd.Name() == "completion" {
				return nil
			}

			projectRoot, err := config.FindProjectRoot()
			if err != nil {
				return err
			}

			v := config.SetupViper(projectRoot, cmd)

			// The spinner would interleave with streamed compiler output
			// and has nowhere to draw in non-interactive runs.
			var sink usecase.ProgressSink = usecase.NopProgress{}
			if !v.GetBool("non_interactive") && !v.GetBool("debug") {
				sink = progress.NewSpinnerProgressReporter()
			}

			appInstance, err := app.InitApp(v, sink)
			if err != nil {
				return fmt.Errorf("failed to initialize app: %w", err)
			}

			ctx := context.WithValue(cmd.Context(), appKey, appInstance)

			if appInstance.Config.Timeout > 0 {
				var cancel context.CancelFunc
				ctx, cancel = context.WithTimeout(ctx, appInstance.Config.Timeout)
				cmd.PostRun = func(cmd *cobra.Command, args []string) {
					cancel()
				}
			}

			cmd.SetContext(ctx)
			return nil
		},
	}

	// Global flags
	flags := rootCmd.PersistentFlags()
	flags.Bool("debug", false, "Enable debug output")
	flags.Bool("non-interactive", false, "Disable interactive prompts")
	flags.StringP("network", "n", "", "Network from foundry.toml [rpc_endpoints] (default: localhost)")
	flags.String("rpc-url", "", "RPC URL (overrides --network)")
	flags.String("out-dir", "", "Directory of the generated Go packages (default: artifacts, gen/artifacts for hardhat)")
	flags.String("package", "", "Package name of the project-level lookup file (default: artifacts)")
	flags.String("layout", "", "Compiler artifact layout: foundry or hardhat (default: foundry)")
	flags.String("test-mode", "", "Test client dialect: anvil, hardhat or ganache (default: anvil)")

	rootCmd.AddGroup(&cobra.Group{
		ID:    "main",
		Title: "Main Commands",
	})
	rootCmd.AddGroup(&cobra.Group{
		ID:    "chain",
		Title: "Chain Commands",
	})

	for _, cmd := range []*cobra.Command{NewCompileCmd(), NewCleanCmd(), NewListCmd()} {
		cmd.GroupID = "main"
		rootCmd.AddCommand(cmd)
	}

	for _, cmd := range []*cobra.Command{NewDeployCmd(), NewCallCmd(), NewNodeCmd()} {
		cmd.GroupID = "chain"
		rootCmd.AddCommand(cmd)
	}

	rootCmd.AddCommand(NewVersionCmd())

	return rootCmd
}

// getApp retrieves the app instance from the command context
func getApp(cmd *cobra.Command) (*app.App, error) {
	appInstance := cmd.Context().Value(appKey)
	if appInstance == nil {
		return nil, fmt.Errorf("app not initialized")
	}

	app, ok := appInstance.(*app.App)
	if !ok {
		return nil, fmt.Errorf("invalid app instance")
	}

	return app, nil
}

// withClients installs the chain clients for the duration of fn
func withClients(cmd *cobra.Command, fn func(app *app.App, clients *usecase.Clients) error) error {
	app, err := getApp(cmd)
	if err != nil {
		return err
	}

	clients, err := app.InstallClients.Run(cmd.Context())
	if err != nil {
		return err
	}
	defer clients.Close()

	return fn(app, clients)
}
