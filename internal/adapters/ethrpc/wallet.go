package ethrpc

import (
	"context"
	"fmt"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/rpc"

	"github.com/trebuchet-org/artigen/internal/domain"
	"github.com/trebuchet-org/artigen/internal/usecase"
)

// WalletClient signs through the accounts the node manages
type WalletClient struct {
	rpc *rpc.Client
}

// NewWalletClient creates a wallet client on top of transport
func NewWalletClient(transport *rpc.Client) *WalletClient {
	return &WalletClient{rpc: transport}
}

// sendTxArgs is the eth_sendTransaction parameter object
type sendTxArgs struct {
	From  common.Address  `json:"from"`
	To    *common.Address `json:"to,omitempty"`
	Value *hexutil.Big    `json:"value,omitempty"`
	Data  hexutil.Bytes   `json:"data,omitempty"`
	Gas   *hexutil.Uint64 `json:"gas,omitempty"`
}

// Addresses lists the node's unlocked accounts
func (w *WalletClient) Addresses(ctx context.Context) ([]common.Address, error) {
	var accounts []common.Address
	if err := w.rpc.CallContext(ctx, &accounts, "eth_accounts"); err != nil {
		return nil, err
	}
	return accounts, nil
}

// SendTransaction submits tx for the node to sign and broadcast
func (w *WalletClient) SendTransaction(ctx context.Context, tx domain.TransactionRequest) (common.Hash, error) {
	args := sendTxArgs{From: tx.From, To: tx.To, Data: tx.Data}
	if tx.Value != nil {
		args.Value = (*hexutil.Big)(tx.Value)
	}
	if tx.Gas != 0 {
		gas := hexutil.Uint64(tx.Gas)
		args.Gas = &gas
	}

	var hash common.Hash
	if err := w.rpc.CallContext(ctx, &hash, "eth_sendTransaction", args); err != nil {
		return common.Hash{}, err
	}
	return hash, nil
}

// DeployContract sends a creation transaction of bytecode followed by the
// encoded constructor arguments.
func (w *WalletClient) DeployContract(ctx context.Context, from common.Address, contractABI *abi.ABI, bytecode []byte, args ...any) (common.Hash, error) {
	encoded, err := contractABI.Pack("", args...)
	if err != nil {
		return common.Hash{}, fmt.Errorf("failed to encode constructor arguments: %w", err)
	}

	data := make([]byte, 0, len(bytecode)+len(encoded))
	data = append(data, bytecode...)
	data = append(data, encoded...)
	return w.SendTransaction(ctx, domain.TransactionRequest{From: from, Data: data})
}

// WriteContract sends a transaction calling method on address
func (w *WalletClient) WriteContract(ctx context.Context, from, address common.Address, contractABI *abi.ABI, method string, args ...any) (common.Hash, error) {
	data, err := contractABI.Pack(method, args...)
	if err != nil {
		return common.Hash{}, fmt.Errorf("failed to encode call to %s: %w", method, err)
	}
	return w.SendTransaction(ctx, domain.TransactionRequest{From: from, To: &address, Data: data})
}

var _ usecase.WalletClient = (*WalletClient)(nil)
