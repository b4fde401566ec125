// Package ethrpc implements the chain client capabilities over a go-ethereum
// JSON-RPC transport.
package ethrpc

import (
	"context"
	"log/slog"
	"time"

	"github.com/ethereum/go-ethereum/rpc"

	"github.com/trebuchet-org/artigen/internal/domain/config"
	"github.com/trebuchet-org/artigen/internal/usecase"
)

const (
	defaultPollInterval = 500 * time.Millisecond
	defaultMaxWait      = 5 * time.Minute
)

// ClientFactory dials transports and builds clients over them
type ClientFactory struct {
	pollInterval time.Duration
	maxWait      time.Duration
	log          *slog.Logger
}

// NewClientFactory creates a factory. Receipt waits are bounded by the
// configured command timeout.
func NewClientFactory(cfg *config.RuntimeConfig, log *slog.Logger) *ClientFactory {
	maxWait := cfg.Timeout
	if maxWait <= 0 {
		maxWait = defaultMaxWait
	}
	return &ClientFactory{
		pollInterval: defaultPollInterval,
		maxWait:      maxWait,
		log:          log.With("component", "ethrpc"),
	}
}

// Dial opens the JSON-RPC transport shared by every client of a network
func (f *ClientFactory) Dial(ctx context.Context, network *config.Network) (*rpc.Client, error) {
	return rpc.DialContext(ctx, network.RPCURL)
}

// Public creates a read-only client over transport
func (f *ClientFactory) Public(transport *rpc.Client) usecase.PublicClient {
	return NewPublicClient(transport, f.pollInterval, f.maxWait, f.log)
}

// Wallet creates a client that sends transactions from node-managed accounts
func (f *ClientFactory) Wallet(transport *rpc.Client) usecase.WalletClient {
	return NewWalletClient(transport)
}

// Test creates a node-control client speaking the dialect of mode
func (f *ClientFactory) Test(transport *rpc.Client, mode config.TestMode) (usecase.TestClient, error) {
	return NewTestClient(transport, mode)
}

var _ usecase.ClientFactory = (*ClientFactory)(nil)
