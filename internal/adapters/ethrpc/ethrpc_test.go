package ethrpc

import (
	"context"
	"io"
	"log/slog"
	"math/big"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/rpc"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trebuchet-org/artigen/internal/domain"
	"github.com/trebuchet-org/artigen/internal/domain/config"
)

var (
	account  = common.HexToAddress("0xf39Fd6e51aad88F6F4ce6aB8827279cffFb92266")
	contract = common.HexToAddress("0x5FbDB2315678afecb367f032d93F642f64180aa3")
	txHash   = common.HexToHash("0xabcdef")
)

const counterABI = `[
	{"type":"constructor","inputs":[{"name":"x","type":"uint256"}],"stateMutability":"nonpayable"},
	{"type":"function","name":"get","inputs":[],"outputs":[{"name":"","type":"uint256"}],"stateMutability":"view"},
	{"type":"function","name":"set","inputs":[{"name":"x","type":"uint256"}],"outputs":[],"stateMutability":"nonpayable"}
]`

type callArgs struct {
	From  *common.Address `json:"from"`
	To    *common.Address `json:"to"`
	Data  hexutil.Bytes   `json:"data"`
	Input hexutil.Bytes   `json:"input"`
	Value *hexutil.Big    `json:"value"`
	Gas   *hexutil.Uint64 `json:"gas"`
}

func (a callArgs) payload() []byte {
	if len(a.Input) > 0 {
		return a.Input
	}
	return a.Data
}

// fakeNode records the calls it receives
type fakeNode struct {
	mu             sync.Mutex
	calls          []string
	sent           []callArgs
	receiptPending int
}

func (n *fakeNode) record(method string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.calls = append(n.calls, method)
}

func (n *fakeNode) recorded() []string {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]string(nil), n.calls...)
}

type ethService struct{ node *fakeNode }

func (s *ethService) ChainId() *hexutil.Big { return (*hexutil.Big)(big.NewInt(31337)) }

func (s *ethService) BlockNumber() hexutil.Uint64 { return 42 }

func (s *ethService) Accounts() []common.Address { return []common.Address{account} }

func (s *ethService) GetBalance(addr common.Address, block string) *hexutil.Big {
	return (*hexutil.Big)(big.NewInt(1000))
}

func (s *ethService) Call(args callArgs, block string) hexutil.Bytes {
	return common.LeftPadBytes(big.NewInt(5).Bytes(), 32)
}

func (s *ethService) SendTransaction(args callArgs) common.Hash {
	s.node.mu.Lock()
	defer s.node.mu.Unlock()
	s.node.sent = append(s.node.sent, args)
	return txHash
}

func (s *ethService) GetTransactionReceipt(hash common.Hash) *types.Receipt {
	s.node.mu.Lock()
	defer s.node.mu.Unlock()
	if s.node.receiptPending > 0 {
		s.node.receiptPending--
		return nil
	}
	return &types.Receipt{
		Status:            types.ReceiptStatusSuccessful,
		CumulativeGasUsed: 21000,
		GasUsed:           21000,
		Logs:              []*types.Log{},
		TxHash:            hash,
		ContractAddress:   contract,
		BlockNumber:       big.NewInt(42),
	}
}

// controlService serves both the anvil_ and hardhat_ namespaces
type controlService struct {
	namespace string
	node      *fakeNode
}

func (s *controlService) Mine(blocks hexutil.Uint64) {
	s.node.record(s.namespace + "_mine:" + blocks.String())
}

func (s *controlService) SetBalance(addr common.Address, wei *hexutil.Big) {
	s.node.record(s.namespace + "_setBalance:" + wei.String())
}

func (s *controlService) ImpersonateAccount(addr common.Address) {
	s.node.record(s.namespace + "_impersonateAccount")
}

func (s *controlService) StopImpersonatingAccount(addr common.Address) {
	s.node.record(s.namespace + "_stopImpersonatingAccount")
}

type evmService struct{ node *fakeNode }

func (s *evmService) Snapshot() string {
	s.node.record("evm_snapshot")
	return "0x1"
}

func (s *evmService) Revert(id string) bool {
	s.node.record("evm_revert")
	return id == "0x1"
}

func (s *evmService) IncreaseTime(seconds uint64) uint64 {
	s.node.record("evm_increaseTime")
	return seconds
}

func (s *evmService) SetNextBlockTimestamp(ts uint64) {
	s.node.record("evm_setNextBlockTimestamp")
}

func (s *evmService) Mine() string {
	s.node.record("evm_mine")
	return "0x0"
}

func (s *evmService) SetAccountBalance(addr common.Address, wei *hexutil.Big) bool {
	s.node.record("evm_setAccountBalance")
	return true
}

func newNode(t *testing.T) (*fakeNode, *rpc.Client) {
	t.Helper()
	node := &fakeNode{}
	server := rpc.NewServer()
	require.NoError(t, server.RegisterName("eth", &ethService{node: node}))
	require.NoError(t, server.RegisterName("anvil", &controlService{namespace: "anvil", node: node}))
	require.NoError(t, server.RegisterName("hardhat", &controlService{namespace: "hardhat", node: node}))
	require.NoError(t, server.RegisterName("evm", &evmService{node: node}))

	client := rpc.DialInProc(server)
	t.Cleanup(func() {
		client.Close()
		server.Stop()
	})
	return node, client
}

func parsedABI(t *testing.T) *abi.ABI {
	t.Helper()
	parsed, err := abi.JSON(strings.NewReader(counterABI))
	require.NoError(t, err)
	return &parsed
}

var discard = slog.New(slog.NewTextHandler(io.Discard, nil))

func TestPublicClient(t *testing.T) {
	ctx := context.Background()
	node, transport := newNode(t)
	public := NewPublicClient(transport, time.Millisecond, time.Second, discard)

	id, err := public.ChainID(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(31337), id.Int64())

	n, err := public.BlockNumber(ctx)
	require.NoError(t, err)
	assert.Equal(t, uint64(42), n)

	out, err := public.ReadContract(ctx, contract, parsedABI(t), "get")
	require.NoError(t, err)
	require.Len(t, out, 1)
	assert.Equal(t, big.NewInt(5), out[0])

	t.Run("wait retries until mined", func(t *testing.T) {
		node.receiptPending = 2
		receipt, err := public.WaitForReceipt(ctx, txHash)
		require.NoError(t, err)
		assert.Equal(t, contract, receipt.ContractAddress)
		assert.Zero(t, node.receiptPending)
	})

	t.Run("wait gives up", func(t *testing.T) {
		node.receiptPending = 1 << 30
		impatient := NewPublicClient(transport, time.Millisecond, 20*time.Millisecond, discard)
		_, err := impatient.WaitForReceipt(ctx, txHash)
		assert.Error(t, err)
	})
}

func TestWalletClient(t *testing.T) {
	ctx := context.Background()
	node, transport := newNode(t)
	wallet := NewWalletClient(transport)
	contractABI := parsedABI(t)

	accounts, err := wallet.Addresses(ctx)
	require.NoError(t, err)
	assert.Equal(t, []common.Address{account}, accounts)

	hash, err := wallet.DeployContract(ctx, account, contractABI, []byte{0x60, 0x80}, big.NewInt(7))
	require.NoError(t, err)
	assert.Equal(t, txHash, hash)

	_, err = wallet.WriteContract(ctx, account, contract, contractABI, "set", big.NewInt(9))
	require.NoError(t, err)

	_, err = wallet.SendTransaction(ctx, domain.TransactionRequest{From: account, To: &contract, Value: big.NewInt(1), Gas: 50000})
	require.NoError(t, err)

	require.Len(t, node.sent, 3)

	deploy := node.sent[0]
	assert.Nil(t, deploy.To)
	assert.Equal(t, append([]byte{0x60, 0x80}, common.LeftPadBytes([]byte{7}, 32)...), []byte(deploy.payload()))

	write := node.sent[1]
	require.NotNil(t, write.To)
	assert.Equal(t, contract, *write.To)
	assert.Equal(t, contractABI.Methods["set"].ID, []byte(write.payload()[:4]))

	transfer := node.sent[2]
	assert.Equal(t, big.NewInt(1), transfer.Value.ToInt())
	assert.Equal(t, hexutil.Uint64(50000), *transfer.Gas)

	t.Run("bad arguments", func(t *testing.T) {
		_, err := wallet.WriteContract(ctx, account, contract, contractABI, "set", "nine")
		assert.ErrorContains(t, err, "failed to encode call to set")
	})
}

func TestTestClientDialects(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		mode     config.TestMode
		expected []string
	}{
		{
			mode: config.TestModeAnvil,
			expected: []string{
				"anvil_mine:0x3",
				"anvil_setBalance:0xde0b6b3a7640000",
				"anvil_impersonateAccount",
				"anvil_stopImpersonatingAccount",
				"evm_increaseTime",
				"evm_setNextBlockTimestamp",
				"evm_snapshot",
				"evm_revert",
			},
		},
		{
			mode: config.TestModeHardhat,
			expected: []string{
				"hardhat_mine:0x3",
				"hardhat_setBalance:0xde0b6b3a7640000",
				"hardhat_impersonateAccount",
				"hardhat_stopImpersonatingAccount",
				"evm_increaseTime",
				"evm_setNextBlockTimestamp",
				"evm_snapshot",
				"evm_revert",
			},
		},
	}

	for _, tt := range tests {
		t.Run(string(tt.mode), func(t *testing.T) {
			node, transport := newNode(t)
			client, err := NewTestClient(transport, tt.mode)
			require.NoError(t, err)
			assert.Equal(t, tt.mode, client.Mode())

			require.NoError(t, client.Mine(ctx, 3))
			require.NoError(t, client.SetBalance(ctx, account, big.NewInt(1e18)))
			require.NoError(t, client.Impersonate(ctx, account))
			require.NoError(t, client.StopImpersonating(ctx, account))
			require.NoError(t, client.IncreaseTime(ctx, 60))
			require.NoError(t, client.SetNextBlockTimestamp(ctx, 1700000000))

			id, err := client.Snapshot(ctx)
			require.NoError(t, err)
			ok, err := client.Revert(ctx, id)
			require.NoError(t, err)
			assert.True(t, ok)

			assert.Equal(t, tt.expected, node.recorded())
		})
	}
}

func TestTestClientGanache(t *testing.T) {
	ctx := context.Background()
	node, transport := newNode(t)
	client, err := NewTestClient(transport, config.TestModeGanache)
	require.NoError(t, err)

	require.NoError(t, client.Mine(ctx, 2))
	require.NoError(t, client.SetBalance(ctx, account, big.NewInt(1)))
	assert.Equal(t, []string{"evm_mine", "evm_mine", "evm_setAccountBalance"}, node.recorded())

	assert.ErrorIs(t, client.Impersonate(ctx, account), domain.ErrUnsupportedInMode)
	assert.ErrorIs(t, client.SetNextBlockTimestamp(ctx, 1), domain.ErrUnsupportedInMode)
}

func TestNewTestClient(t *testing.T) {
	_, transport := newNode(t)

	client, err := NewTestClient(transport, "")
	require.NoError(t, err)
	assert.Equal(t, config.TestModeAnvil, client.Mode())

	_, err = NewTestClient(transport, "geth")
	assert.ErrorContains(t, err, "unknown test mode")
}

func TestClientFactory(t *testing.T) {
	factory := NewClientFactory(&config.RuntimeConfig{}, discard)
	assert.Equal(t, defaultMaxWait, factory.maxWait)

	_, transport := newNode(t)
	_, err := factory.Test(transport, config.TestModeHardhat)
	require.NoError(t, err)
	assert.NotNil(t, factory.Public(transport))
	assert.NotNil(t, factory.Wallet(transport))
}
