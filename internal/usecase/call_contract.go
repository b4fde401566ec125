package usecase

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"

	"github.com/trebuchet-org/artigen/pkg/artifacts"
)

// CallContractParams contains parameters for calling a contract method
type CallContractParams struct {
	ContractRef string
	Address     string
	Method      string
	Args        []string
	// Send submits a transaction instead of an eth_call.
	Send bool
	From string
}

// CallContractResult contains the result of a call or transaction
type CallContractResult struct {
	Artifact *artifacts.Artifact
	Method   abi.Method
	Address  common.Address
	// Outputs holds the decoded return values of a call.
	Outputs []any
	// Receipt is set for sent transactions.
	Receipt *types.Receipt
}

// CallContract reads from or writes to a deployed contract
type CallContract struct {
	resolver *ResolveContract
	args     ArgParser
	sink     ProgressSink
	log      *slog.Logger
}

// NewCallContract creates a new CallContract use case
func NewCallContract(resolver *ResolveContract, args ArgParser, sink ProgressSink, log *slog.Logger) *CallContract {
	return &CallContract{
		resolver: resolver,
		args:     args,
		sink:     sink,
		log:      log.With("component", "CallContract"),
	}
}

// Run calls method on the contract at params.Address. Without Send the call
// goes through the public client and returns decoded outputs; with Send it
// is signed by the wallet client and the receipt is returned.
func (uc *CallContract) Run(ctx context.Context, clients *Clients, params CallContractParams) (*CallContractResult, error) {
	if !common.IsHexAddress(params.Address) {
		return nil, fmt.Errorf("invalid contract address %q", params.Address)
	}
	address := common.HexToAddress(params.Address)

	a, err := uc.resolver.Run(ctx, params.ContractRef)
	if err != nil {
		return nil, err
	}
	contractABI, err := a.ParsedABI()
	if err != nil {
		return nil, err
	}
	method, ok := contractABI.Methods[params.Method]
	if !ok {
		return nil, fmt.Errorf("%s has no method %q", a.ContractName, params.Method)
	}
	args, err := uc.args.ParseArgs(method.Inputs, params.Args)
	if err != nil {
		return nil, fmt.Errorf("invalid arguments for %s: %w", method.Sig, err)
	}

	result := &CallContractResult{Artifact: a, Method: method, Address: address}

	if !params.Send {
		outputs, err := clients.Public.ReadContract(ctx, address, contractABI, method.Name, args...)
		if err != nil {
			return nil, fmt.Errorf("call to %s failed: %w", method.Sig, err)
		}
		result.Outputs = outputs
		return result, nil
	}

	from, err := senderAddress(ctx, clients.Wallet, params.From)
	if err != nil {
		return nil, err
	}
	uc.sink.OnProgress(ctx, ProgressEvent{
		Stage:   "sending",
		Message: fmt.Sprintf("Sending %s", method.Sig),
		Spinner: true,
	})
	hash, err := clients.Wallet.WriteContract(ctx, from, address, contractABI, method.Name, args...)
	if err != nil {
		uc.sink.OnProgress(ctx, ProgressEvent{Stage: "completed"})
		return nil, fmt.Errorf("transaction %s failed: %w", method.Sig, err)
	}
	receipt, err := waitSuccessful(ctx, clients.Public, hash)
	uc.sink.OnProgress(ctx, ProgressEvent{Stage: "completed"})
	if err != nil {
		return nil, err
	}

	uc.log.Info("sent transaction", "method", method.Sig, "to", address, "tx", hash)
	result.Receipt = receipt
	return result, nil
}
