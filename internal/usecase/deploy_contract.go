package usecase

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"

	"github.com/trebuchet-org/artigen/internal/domain"
	"github.com/trebuchet-org/artigen/pkg/artifacts"
)

// DeployContractParams contains parameters for deploying a contract
type DeployContractParams struct {
	ContractRef string
	Args        []string
	// From overrides the sender; the node's first account is used when empty.
	From string
}

// DeployContractResult contains the result of a deployment
type DeployContractResult struct {
	Artifact    *artifacts.Artifact
	Deployer    common.Address
	Address     common.Address
	TxHash      common.Hash
	BlockNumber uint64
	GasUsed     uint64
}

// DeployContract deploys a compiled contract with a node-managed account
type DeployContract struct {
	resolver *ResolveContract
	args     ArgParser
	sink     ProgressSink
	log      *slog.Logger
}

// NewDeployContract creates a new DeployContract use case
func NewDeployContract(resolver *ResolveContract, args ArgParser, sink ProgressSink, log *slog.Logger) *DeployContract {
	return &DeployContract{
		resolver: resolver,
		args:     args,
		sink:     sink,
		log:      log.With("component", "DeployContract"),
	}
}

// Run resolves the contract, encodes its constructor arguments, sends the
// creation transaction and waits for the receipt.
func (uc *DeployContract) Run(ctx context.Context, clients *Clients, params DeployContractParams) (*DeployContractResult, error) {
	a, err := uc.resolver.Run(ctx, params.ContractRef)
	if err != nil {
		return nil, err
	}

	code, err := a.BytecodeBytes()
	if err != nil {
		return nil, err
	}
	contractABI, err := a.ParsedABI()
	if err != nil {
		return nil, err
	}
	args, err := uc.args.ParseArgs(contractABI.Constructor.Inputs, params.Args)
	if err != nil {
		return nil, fmt.Errorf("invalid constructor arguments for %s: %w", a.ContractName, err)
	}

	from, err := senderAddress(ctx, clients.Wallet, params.From)
	if err != nil {
		return nil, err
	}

	uc.sink.OnProgress(ctx, ProgressEvent{
		Stage:   "deploying",
		Message: fmt.Sprintf("Deploying %s", a.FullyQualifiedName()),
		Spinner: true,
	})
	hash, err := clients.Wallet.DeployContract(ctx, from, contractABI, code, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to deploy %s: %w", a.FullyQualifiedName(), err)
	}

	uc.sink.OnProgress(ctx, ProgressEvent{
		Stage:   "waiting",
		Message: fmt.Sprintf("Waiting for %s", hash.Hex()),
		Spinner: true,
	})
	receipt, err := waitSuccessful(ctx, clients.Public, hash)
	uc.sink.OnProgress(ctx, ProgressEvent{Stage: "completed"})
	if err != nil {
		return nil, err
	}

	uc.log.Info("deployed contract", "contract", a.FullyQualifiedName(), "address", receipt.ContractAddress, "tx", hash)
	return &DeployContractResult{
		Artifact:    a,
		Deployer:    from,
		Address:     receipt.ContractAddress,
		TxHash:      hash,
		BlockNumber: receipt.BlockNumber.Uint64(),
		GasUsed:     receipt.GasUsed,
	}, nil
}

// senderAddress returns the explicit sender or the node's first account
func senderAddress(ctx context.Context, wallet WalletClient, from string) (common.Address, error) {
	if from != "" {
		if !common.IsHexAddress(from) {
			return common.Address{}, fmt.Errorf("invalid sender address %q", from)
		}
		return common.HexToAddress(from), nil
	}

	accounts, err := wallet.Addresses(ctx)
	if err != nil {
		return common.Address{}, fmt.Errorf("failed to list accounts: %w", err)
	}
	if len(accounts) == 0 {
		return common.Address{}, domain.ErrNoAccounts
	}
	return accounts[0], nil
}

// waitSuccessful waits for a receipt and fails on a reverted transaction
func waitSuccessful(ctx context.Context, public PublicClient, hash common.Hash) (*types.Receipt, error) {
	receipt, err := public.WaitForReceipt(ctx, hash)
	if err != nil {
		return nil, fmt.Errorf("failed to get receipt of %s: %w", hash.Hex(), err)
	}
	if receipt.Status != types.ReceiptStatusSuccessful {
		return receipt, fmt.Errorf("%w: %s reverted", domain.ErrTransactionFailed, hash.Hex())
	}
	return receipt, nil
}
