package cli

import (
	"github.com/spf13/cobra"

	"github.com/trebuchet-org/artigen/internal/app"
	"github.com/trebuchet-org/artigen/internal/cli/render"
	"github.com/trebuchet-org/artigen/internal/usecase"
)

// NewDeployCmd creates the deploy command
func NewDeployCmd() *cobra.Command {
	var from string

	cmd := &cobra.Command{
		Use:   "deploy <contract> [constructor-args...]",
		Short: "Deploy a compiled contract with a node-managed account",
		Long: `Deploy a contract by name or fully qualified name. A name declared in several
files prompts for the file to use, or fails in non-interactive mode.

Constructor arguments are given in ABI order: integers in decimal or 0x hex,
bytes as 0x hex and arrays as JSON lists.`,
		Example: `  artigen deploy Counter 42
  artigen deploy contracts/Token.sol:Token "My Token" MTK --network localhost`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withClients(cmd, func(app *app.App, clients *usecase.Clients) error {
				result, err := app.DeployContract.Run(cmd.Context(), clients, usecase.DeployContractParams{
					ContractRef: args[0],
					Args:        args[1:],
					From:        from,
				})
				if err != nil {
					return err
				}
				return render.NewChainRenderer(cmd.OutOrStdout()).RenderDeploy(result)
			})
		},
	}

	cmd.Flags().StringVar(&from, "from", "", "Sender address (default: first node account)")

	return cmd
}

// NewCallCmd creates the call command
func NewCallCmd() *cobra.Command {
	var (
		from string
		send bool
	)

	cmd := &cobra.Command{
		Use:   "call <contract> <address> <method> [args...]",
		Short: "Call a method of a deployed contract",
		Long: `Call a method through eth_call and print the decoded results. With --send the
call is sent as a transaction signed by a node-managed account.`,
		Example: `  artigen call Counter 0x5FbDB2315678afecb367f032d93F642f64180aa3 number
  artigen call Counter 0x5FbDB2315678afecb367f032d93F642f64180aa3 setNumber 7 --send`,
		Args: cobra.MinimumNArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withClients(cmd, func(app *app.App, clients *usecase.Clients) error {
				result, err := app.CallContract.Run(cmd.Context(), clients, usecase.CallContractParams{
					ContractRef: args[0],
					Address:     args[1],
					Method:      args[2],
					Args:        args[3:],
					Send:        send,
					From:        from,
				})
				if err != nil {
					return err
				}
				return render.NewChainRenderer(cmd.OutOrStdout()).RenderCall(result)
			})
		},
	}

	cmd.Flags().BoolVar(&send, "send", false, "Send a transaction instead of a read-only call")
	cmd.Flags().StringVar(&from, "from", "", "Sender address for --send (default: first node account)")

	return cmd
}
