package usecase

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/ethereum/go-ethereum/rpc"

	"github.com/trebuchet-org/artigen/internal/domain"
	"github.com/trebuchet-org/artigen/internal/domain/config"
)

// Clients holds the three client capabilities of a command. They share one
// transport; Close releases it.
type Clients struct {
	Network   *config.Network
	Transport *rpc.Client
	Public    PublicClient
	Wallet    WalletClient
	Test      TestClient
}

// Close closes the shared transport
func (c *Clients) Close() {
	if c != nil && c.Transport != nil {
		c.Transport.Close()
	}
}

// InstallClients builds the client capabilities for the configured network
type InstallClients struct {
	config  *config.RuntimeConfig
	factory ClientFactory
	log     *slog.Logger
}

// NewInstallClients creates a new InstallClients use case
func NewInstallClients(cfg *config.RuntimeConfig, factory ClientFactory, log *slog.Logger) *InstallClients {
	return &InstallClients{
		config:  cfg,
		factory: factory,
		log:     log.With("component", "InstallClients"),
	}
}

// Run dials the network once and builds every client over that transport.
// There is no retry or health check; a dial failure is returned as is.
func (uc *InstallClients) Run(ctx context.Context) (*Clients, error) {
	network := uc.config.Network
	if network == nil || network.RPCURL == "" {
		return nil, domain.ErrNoNetwork
	}

	transport, err := uc.factory.Dial(ctx, network)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to network %s: %w", network.Name, err)
	}

	test, err := uc.factory.Test(transport, uc.config.TestMode)
	if err != nil {
		transport.Close()
		return nil, fmt.Errorf("failed to create test client: %w", err)
	}

	uc.log.Debug("installed clients", "network", network.Name, "rpc", network.RPCURL, "mode", uc.config.TestMode)
	return &Clients{
		Network:   network,
		Transport: transport,
		Public:    uc.factory.Public(transport),
		Wallet:    uc.factory.Wallet(transport),
		Test:      test,
	}, nil
}
