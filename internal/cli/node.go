package cli

import (
	"fmt"
	"math/big"
	"strconv"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/params"
	"github.com/spf13/cobra"

	"github.com/trebuchet-org/artigen/internal/app"
	"github.com/trebuchet-org/artigen/internal/cli/render"
	"github.com/trebuchet-org/artigen/internal/usecase"
)

type nodeAction func(app *app.App, clients *usecase.Clients) (*usecase.NodeResult, error)

// NewNodeCmd creates the node command group
func NewNodeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "node",
		Short: "Control a development node (anvil, hardhat, ganache)",
		Long: `Control a development node through its test RPC methods. The dialect comes
from --test-mode (or test_mode in config) and defaults to anvil.`,
	}

	cmd.AddCommand(
		newNodeMineCmd(),
		newNodeSnapshotCmd(),
		newNodeRevertCmd(),
		newNodeSetBalanceCmd(),
		newNodeImpersonateCmd(),
		newNodeIncreaseTimeCmd(),
		newNodeSetTimestampCmd(),
	)

	return cmd
}

// runNode runs action against freshly installed clients and renders the result
func runNode(cmd *cobra.Command, action nodeAction) error {
	return withClients(cmd, func(app *app.App, clients *usecase.Clients) error {
		result, err := action(app, clients)
		if err != nil {
			return err
		}
		return render.NewChainRenderer(cmd.OutOrStdout()).RenderNode(result)
	})
}

func newNodeMineCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "mine [blocks]",
		Short: "Mine blocks (default 1)",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var blocks uint64 = 1
			if len(args) == 1 {
				n, err := strconv.ParseUint(args[0], 0, 64)
				if err != nil {
					return fmt.Errorf("invalid block count %q", args[0])
				}
				blocks = n
			}
			return runNode(cmd, func(app *app.App, clients *usecase.Clients) (*usecase.NodeResult, error) {
				return app.ManageNode.Mine(cmd.Context(), clients, blocks)
			})
		},
	}
}

func newNodeSnapshotCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "snapshot",
		Short: "Snapshot the chain state",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runNode(cmd, func(app *app.App, clients *usecase.Clients) (*usecase.NodeResult, error) {
				return app.ManageNode.Snapshot(cmd.Context(), clients)
			})
		},
	}
}

func newNodeRevertCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "revert <snapshot-id>",
		Short: "Revert to a snapshot",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runNode(cmd, func(app *app.App, clients *usecase.Clients) (*usecase.NodeResult, error) {
				return app.ManageNode.Revert(cmd.Context(), clients, args[0])
			})
		},
	}
}

func newNodeSetBalanceCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "set-balance <address> <amount>",
		Short: "Set an account balance",
		Long: `Set an account balance. The amount is in wei unless it ends in "ether" or
"eth", e.g. "10ether".`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			account, err := parseAddress(args[0])
			if err != nil {
				return err
			}
			wei, err := parseAmount(args[1])
			if err != nil {
				return err
			}
			return runNode(cmd, func(app *app.App, clients *usecase.Clients) (*usecase.NodeResult, error) {
				return app.ManageNode.SetBalance(cmd.Context(), clients, account, wei)
			})
		},
	}
}

func newNodeImpersonateCmd() *cobra.Command {
	var stop bool

	cmd := &cobra.Command{
		Use:   "impersonate <address>",
		Short: "Send transactions as an account without its key",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			account, err := parseAddress(args[0])
			if err != nil {
				return err
			}
			return runNode(cmd, func(app *app.App, clients *usecase.Clients) (*usecase.NodeResult, error) {
				return app.ManageNode.Impersonate(cmd.Context(), clients, account, stop)
			})
		},
	}

	cmd.Flags().BoolVar(&stop, "stop", false, "Stop impersonating the account")

	return cmd
}

func newNodeIncreaseTimeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "increase-time <seconds>",
		Short: "Move the chain clock forward and mine a block",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			seconds, err := strconv.ParseUint(args[0], 0, 64)
			if err != nil {
				return fmt.Errorf("invalid seconds %q", args[0])
			}
			return runNode(cmd, func(app *app.App, clients *usecase.Clients) (*usecase.NodeResult, error) {
				return app.ManageNode.IncreaseTime(cmd.Context(), clients, seconds)
			})
		},
	}
}

func newNodeSetTimestampCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "set-timestamp <unix-seconds>",
		Short: "Fix the timestamp of the next block",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ts, err := strconv.ParseUint(args[0], 0, 64)
			if err != nil {
				return fmt.Errorf("invalid timestamp %q", args[0])
			}
			return runNode(cmd, func(app *app.App, clients *usecase.Clients) (*usecase.NodeResult, error) {
				return app.ManageNode.SetNextBlockTimestamp(cmd.Context(), clients, ts)
			})
		},
	}
}

func parseAddress(s string) (common.Address, error) {
	if !common.IsHexAddress(s) {
		return common.Address{}, fmt.Errorf("invalid address %q", s)
	}
	return common.HexToAddress(s), nil
}

// parseAmount parses wei, or ether with an "ether"/"eth" suffix
func parseAmount(s string) (*big.Int, error) {
	lower := strings.ToLower(strings.TrimSpace(s))
	for _, suffix := range []string{"ether", "eth"} {
		if !strings.HasSuffix(lower, suffix) {
			continue
		}
		f, ok := new(big.Float).SetPrec(256).SetString(strings.TrimSpace(strings.TrimSuffix(lower, suffix)))
		if !ok || f.Sign() < 0 {
			return nil, fmt.Errorf("invalid amount %q", s)
		}
		wei, _ := f.Mul(f, new(big.Float).SetInt(big.NewInt(params.Ether))).Int(nil)
		return wei, nil
	}

	wei, ok := new(big.Int).SetString(lower, 0)
	if !ok || wei.Sign() < 0 {
		return nil, fmt.Errorf("invalid amount %q", s)
	}
	return wei, nil
}
