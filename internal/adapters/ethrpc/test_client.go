package ethrpc

import (
	"context"
	"encoding/json"
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/rpc"

	"github.com/trebuchet-org/artigen/internal/domain"
	"github.com/trebuchet-org/artigen/internal/domain/config"
	"github.com/trebuchet-org/artigen/internal/usecase"
)

// dialect maps test-control operations to the RPC methods of one node
// flavour. An empty method is unsupported.
type dialect struct {
	mine              string
	setBalance        string
	impersonate       string
	stopImpersonating string
	setNextTimestamp  string
	// mineEach mines one block per call instead of passing a count.
	mineEach bool
}

var dialects = map[config.TestMode]dialect{
	config.TestModeAnvil: {
		mine:              "anvil_mine",
		setBalance:        "anvil_setBalance",
		impersonate:       "anvil_impersonateAccount",
		stopImpersonating: "anvil_stopImpersonatingAccount",
		setNextTimestamp:  "evm_setNextBlockTimestamp",
	},
	config.TestModeHardhat: {
		mine:              "hardhat_mine",
		setBalance:        "hardhat_setBalance",
		impersonate:       "hardhat_impersonateAccount",
		stopImpersonating: "hardhat_stopImpersonatingAccount",
		setNextTimestamp:  "evm_setNextBlockTimestamp",
	},
	// ganache unlocks accounts at startup and has no next-timestamp call
	config.TestModeGanache: {
		mine:       "evm_mine",
		setBalance: "evm_setAccountBalance",
		mineEach:   true,
	},
}

// TestClient controls a development node
type TestClient struct {
	rpc     *rpc.Client
	mode    config.TestMode
	dialect dialect
}

// NewTestClient creates a test client speaking the dialect of mode. An empty
// mode selects anvil.
func NewTestClient(transport *rpc.Client, mode config.TestMode) (*TestClient, error) {
	if mode == "" {
		mode = config.TestModeAnvil
	}
	d, ok := dialects[mode]
	if !ok {
		return nil, fmt.Errorf("unknown test mode %q (expected anvil, hardhat or ganache)", mode)
	}
	return &TestClient{rpc: transport, mode: mode, dialect: d}, nil
}

// Mode returns the node dialect in use
func (c *TestClient) Mode() config.TestMode { return c.mode }

// Mine mines blocks immediately
func (c *TestClient) Mine(ctx context.Context, blocks uint64) error {
	if c.dialect.mineEach {
		for i := uint64(0); i < blocks; i++ {
			if err := c.call(ctx, nil, c.dialect.mine); err != nil {
				return err
			}
		}
		return nil
	}
	return c.call(ctx, nil, c.dialect.mine, hexutil.Uint64(blocks))
}

// SetBalance overwrites the balance of account
func (c *TestClient) SetBalance(ctx context.Context, account common.Address, wei *big.Int) error {
	return c.call(ctx, nil, c.dialect.setBalance, account, (*hexutil.Big)(wei))
}

// Impersonate lets the node send transactions from account without its key
func (c *TestClient) Impersonate(ctx context.Context, account common.Address) error {
	return c.call(ctx, nil, c.dialect.impersonate, account)
}

func (c *TestClient) StopImpersonating(ctx context.Context, account common.Address) error {
	return c.call(ctx, nil, c.dialect.stopImpersonating, account)
}

// Snapshot records the chain state and returns its id
func (c *TestClient) Snapshot(ctx context.Context) (string, error) {
	var id string
	if err := c.call(ctx, &id, "evm_snapshot"); err != nil {
		return "", err
	}
	return id, nil
}

// Revert restores the state recorded by snapshot id. It reports false when
// the node no longer knows the id.
func (c *TestClient) Revert(ctx context.Context, id string) (bool, error) {
	var ok bool
	if err := c.call(ctx, &ok, "evm_revert", id); err != nil {
		return false, err
	}
	return ok, nil
}

// IncreaseTime moves the node clock forward by seconds
func (c *TestClient) IncreaseTime(ctx context.Context, seconds uint64) error {
	return c.call(ctx, nil, "evm_increaseTime", seconds)
}

// SetNextBlockTimestamp fixes the timestamp of the next mined block
func (c *TestClient) SetNextBlockTimestamp(ctx context.Context, timestamp uint64) error {
	return c.call(ctx, nil, c.dialect.setNextTimestamp, timestamp)
}

func (c *TestClient) call(ctx context.Context, result any, method string, args ...any) error {
	if method == "" {
		return fmt.Errorf("%w (%s)", domain.ErrUnsupportedInMode, c.mode)
	}
	if result == nil {
		// results of control calls vary by node and are ignored
		result = new(json.RawMessage)
	}
	if err := c.rpc.CallContext(ctx, result, method, args...); err != nil {
		return fmt.Errorf("%s failed: %w", method, err)
	}
	return nil
}

var _ usecase.TestClient = (*TestClient)(nil)
