package ethrpc

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/big"
	"time"

	"github.com/cenkalti/backoff/v5"
	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/ethclient"
	"github.com/ethereum/go-ethereum/rpc"

	"github.com/trebuchet-org/artigen/internal/usecase"
)

// PublicClient answers read-only queries over a shared transport
type PublicClient struct {
	eth          *ethclient.Client
	pollInterval time.Duration
	maxWait      time.Duration
	log          *slog.Logger
}

// NewPublicClient creates a public client on top of transport
func NewPublicClient(transport *rpc.Client, pollInterval, maxWait time.Duration, log *slog.Logger) *PublicClient {
	return &PublicClient{
		eth:          ethclient.NewClient(transport),
		pollInterval: pollInterval,
		maxWait:      maxWait,
		log:          log,
	}
}

// ChainID returns the chain id reported by the node
func (c *PublicClient) ChainID(ctx context.Context) (*big.Int, error) {
	id, err := c.eth.ChainID(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get chain ID: %w", err)
	}
	return id, nil
}

// BlockNumber returns the latest block number
func (c *PublicClient) BlockNumber(ctx context.Context) (uint64, error) {
	n, err := c.eth.BlockNumber(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to get block number: %w", err)
	}
	return n, nil
}

// BalanceAt returns the balance of account at the latest block
func (c *PublicClient) BalanceAt(ctx context.Context, account common.Address) (*big.Int, error) {
	return c.eth.BalanceAt(ctx, account, nil)
}

func (c *PublicClient) CodeAt(ctx context.Context, account common.Address) ([]byte, error) {
	return c.eth.CodeAt(ctx, account, nil)
}

// ReadContract performs an eth_call of method against the latest block and
// decodes the return values.
func (c *PublicClient) ReadContract(ctx context.Context, address common.Address, contractABI *abi.ABI, method string, args ...any) ([]any, error) {
	data, err := contractABI.Pack(method, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to encode call to %s: %w", method, err)
	}

	out, err := c.eth.CallContract(ctx, ethereum.CallMsg{To: &address, Data: data}, nil)
	if err != nil {
		return nil, err
	}

	values, err := contractABI.Unpack(method, out)
	if err != nil {
		return nil, fmt.Errorf("failed to decode result of %s: %w", method, err)
	}
	return values, nil
}

// WaitForReceipt polls for the receipt of hash until it is mined, ctx is
// done or maxWait elapses. A missing receipt is retried; any other RPC error
// ends the wait.
func (c *PublicClient) WaitForReceipt(ctx context.Context, hash common.Hash) (*types.Receipt, error) {
	operation := func() (*types.Receipt, error) {
		receipt, err := c.eth.TransactionReceipt(ctx, hash)
		if errors.Is(err, ethereum.NotFound) {
			return nil, err
		}
		if err != nil {
			return nil, backoff.Permanent(err)
		}
		return receipt, nil
	}

	receipt, err := backoff.Retry(
		ctx,
		operation,
		backoff.WithBackOff(backoff.NewConstantBackOff(c.pollInterval)),
		backoff.WithMaxElapsedTime(c.maxWait),
		backoff.WithNotify(func(err error, next time.Duration) {
			c.log.Debug("receipt not available yet", "tx", hash, "retry_in", next)
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("waiting for transaction: %w", err)
	}
	return receipt, nil
}

var _ usecase.PublicClient = (*PublicClient)(nil)
