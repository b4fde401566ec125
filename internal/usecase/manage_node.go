package usecase

import (
	"context"
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
)

// NodeResult contains the outcome of a node control operation
type NodeResult struct {
	Action      string
	BlockNumber uint64
	SnapshotID  string
	Reverted    bool
	Account     common.Address
	Balance     *big.Int
}

// ManageNode controls a development node through the test client
type ManageNode struct{}

// NewManageNode creates a new ManageNode use case
func NewManageNode() *ManageNode {
	return &ManageNode{}
}

// Mine mines blocks and reports the new head
func (uc *ManageNode) Mine(ctx context.Context, clients *Clients, blocks uint64) (*NodeResult, error) {
	if blocks == 0 {
		blocks = 1
	}
	if err := clients.Test.Mine(ctx, blocks); err != nil {
		return nil, fmt.Errorf("failed to mine: %w", err)
	}
	return uc.withBlock(ctx, clients, &NodeResult{Action: "mine"})
}

// Snapshot takes a snapshot of the chain state
func (uc *ManageNode) Snapshot(ctx context.Context, clients *Clients) (*NodeResult, error) {
	id, err := clients.Test.Snapshot(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to take snapshot: %w", err)
	}
	return uc.withBlock(ctx, clients, &NodeResult{Action: "snapshot", SnapshotID: id})
}

// Revert restores a snapshot
func (uc *ManageNode) Revert(ctx context.Context, clients *Clients, id string) (*NodeResult, error) {
	ok, err := clients.Test.Revert(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to revert to snapshot %s: %w", id, err)
	}
	if !ok {
		return nil, fmt.Errorf("snapshot %s was not found", id)
	}
	return uc.withBlock(ctx, clients, &NodeResult{Action: "revert", SnapshotID: id, Reverted: true})
}

// SetBalance sets an account balance and reads it back
func (uc *ManageNode) SetBalance(ctx context.Context, clients *Clients, account common.Address, wei *big.Int) (*NodeResult, error) {
	if err := clients.Test.SetBalance(ctx, account, wei); err != nil {
		return nil, fmt.Errorf("failed to set balance: %w", err)
	}
	balance, err := clients.Public.BalanceAt(ctx, account)
	if err != nil {
		return nil, fmt.Errorf("failed to read balance: %w", err)
	}
	return &NodeResult{Action: "set-balance", Account: account, Balance: balance}, nil
}

// Impersonate starts or stops impersonating an account
func (uc *ManageNode) Impersonate(ctx context.Context, clients *Clients, account common.Address, stop bool) (*NodeResult, error) {
	if stop {
		if err := clients.Test.StopImpersonating(ctx, account); err != nil {
			return nil, fmt.Errorf("failed to stop impersonating %s: %w", account.Hex(), err)
		}
		return &NodeResult{Action: "stop-impersonating", Account: account}, nil
	}
	if err := clients.Test.Impersonate(ctx, account); err != nil {
		return nil, fmt.Errorf("failed to impersonate %s: %w", account.Hex(), err)
	}
	return &NodeResult{Action: "impersonate", Account: account}, nil
}

// IncreaseTime moves the chain clock forward and mines a block so the new
// time takes effect
func (uc *ManageNode) IncreaseTime(ctx context.Context, clients *Clients, seconds uint64) (*NodeResult, error) {
	if err := clients.Test.IncreaseTime(ctx, seconds); err != nil {
		return nil, fmt.Errorf("failed to increase time: %w", err)
	}
	if err := clients.Test.Mine(ctx, 1); err != nil {
		return nil, fmt.Errorf("failed to mine: %w", err)
	}
	return uc.withBlock(ctx, clients, &NodeResult{Action: "increase-time"})
}

// SetNextBlockTimestamp fixes the timestamp of the next mined block
func (uc *ManageNode) SetNextBlockTimestamp(ctx context.Context, clients *Clients, timestamp uint64) (*NodeResult, error) {
	if err := clients.Test.SetNextBlockTimestamp(ctx, timestamp); err != nil {
		return nil, fmt.Errorf("failed to set next block timestamp: %w", err)
	}
	return uc.withBlock(ctx, clients, &NodeResult{Action: "set-timestamp"})
}

func (uc *ManageNode) withBlock(ctx context.Context, clients *Clients, result *NodeResult) (*NodeResult, error) {
	n, err := clients.Public.BlockNumber(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to read block number: %w", err)
	}
	result.BlockNumber = n
	return result, nil
}
