package usecase

import (
	"context"
	"math/big"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/rpc"

	"github.com/trebuchet-org/artigen/internal/domain"
	"github.com/trebuchet-org/artigen/internal/domain/config"
	"github.com/trebuchet-org/artigen/pkg/artifacts"
)

// ArtifactStore provides access to the artifacts of the last compilation
type ArtifactStore interface {
	// AllFullyQualifiedNames lists every artifact of the project, sorted.
	AllFullyQualifiedNames(ctx context.Context) ([]string, error)
	// ReadArtifact reads an artifact by short or fully-qualified name.
	ReadArtifact(ctx context.Context, nameOrFQN string) (*artifacts.Artifact, error)
	// EmittedFiles groups the artifacts by source file, sorted by source name.
	EmittedFiles(ctx context.Context) ([]domain.EmittedFile, error)
	// Reset drops anything cached so the next call sees fresh compiler output.
	Reset()
}

// BuildOptions controls a compiler run
type BuildOptions struct {
	Force bool
}

// Compiler runs the host compiler
type Compiler interface {
	Build(ctx context.Context, opts BuildOptions) error
	RemoveObsoleteArtifacts(ctx context.Context) error
}

// CodeRenderer renders artifacts into Go source
type CodeRenderer interface {
	RenderFragment(a *artifacts.Artifact, ident string) (*domain.Fragment, error)
	RenderContractFile(pkg domain.SourcePackage, frag *domain.Fragment) ([]byte, error)
	RenderIndex(pkg domain.SourcePackage, frags []*domain.Fragment) ([]byte, error)
	RenderLookup(pkg domain.SourcePackage, frags []*domain.Fragment, dups *domain.DuplicateSet) ([]byte, error)
	RenderProject(packageName, importPath string, pkgs []domain.SourcePackage, dups *domain.DuplicateSet) ([]byte, error)
}

// OutputWriter handles file system operations on generated output
type OutputWriter interface {
	EnsureDirectory(ctx context.Context, path string) error
	WriteFile(ctx context.Context, path string, content []byte) error
	RemoveAll(ctx context.Context, path string) error
	// ListFiles returns the names of the regular files directly inside dir.
	ListFiles(ctx context.Context, dir string) ([]string, error)
	// HasPrefix reports whether the file at path starts with prefix.
	HasPrefix(ctx context.Context, path string, prefix []byte) (bool, error)
	// RemoveIfEmpty removes dir if nothing is left in it.
	RemoveIfEmpty(ctx context.Context, dir string) (bool, error)
	// FindMarkers returns the slash-separated directories below root, relative
	// to root, that contain a file called marker whose content starts with header.
	FindMarkers(ctx context.Context, root, marker string, header []byte) ([]string, error)
}

// PublicClient performs read-only chain queries
type PublicClient interface {
	ChainID(ctx context.Context) (*big.Int, error)
	BlockNumber(ctx context.Context) (uint64, error)
	BalanceAt(ctx context.Context, account common.Address) (*big.Int, error)
	CodeAt(ctx context.Context, account common.Address) ([]byte, error)
	ReadContract(ctx context.Context, address common.Address, contractABI *abi.ABI, method string, args ...any) ([]any, error)
	WaitForReceipt(ctx context.Context, hash common.Hash) (*types.Receipt, error)
}

// WalletClient signs and sends transactions with accounts managed by the node
type WalletClient interface {
	Addresses(ctx context.Context) ([]common.Address, error)
	SendTransaction(ctx context.Context, tx domain.TransactionRequest) (common.Hash, error)
	DeployContract(ctx context.Context, from common.Address, contractABI *abi.ABI, bytecode []byte, args ...any) (common.Hash, error)
	WriteContract(ctx context.Context, from, address common.Address, contractABI *abi.ABI, method string, args ...any) (common.Hash, error)
}

// TestClient controls a development node
type TestClient interface {
	Mode() config.TestMode
	Mine(ctx context.Context, blocks uint64) error
	SetBalance(ctx context.Context, account common.Address, wei *big.Int) error
	Impersonate(ctx context.Context, account common.Address) error
	StopImpersonating(ctx context.Context, account common.Address) error
	Snapshot(ctx context.Context) (string, error)
	Revert(ctx context.Context, id string) (bool, error)
	IncreaseTime(ctx context.Context, seconds uint64) error
	SetNextBlockTimestamp(ctx context.Context, timestamp uint64) error
}

// ClientFactory builds the client capabilities over one shared transport
type ClientFactory interface {
	Dial(ctx context.Context, network *config.Network) (*rpc.Client, error)
	Public(transport *rpc.Client) PublicClient
	Wallet(transport *rpc.Client) WalletClient
	Test(transport *rpc.Client, mode config.TestMode) (TestClient, error)
}

// ContractSelector handles interactive selection between fully-qualified names
type ContractSelector interface {
	SelectContract(ctx context.Context, candidates []string, prompt string) (string, error)
}

// ArgParser converts command line arguments into ABI-typed values
type ArgParser interface {
	ParseArgs(inputs abi.Arguments, args []string) ([]any, error)
}

// Progress tracking interfaces

// ProgressEvent represents a progress update
type ProgressEvent struct {
	Stage    string
	Current  int
	Total    int
	Message  string
	Spinner  bool
	Metadata interface{}
}

// ProgressSink receives progress events
type ProgressSink interface {
	OnProgress(ctx context.Context, event ProgressEvent)
	Info(message string)
	Error(message string)
}

// NopProgress is a no-op implementation of ProgressSink
type NopProgress struct{}

func (NopProgress) OnProgress(context.Context, ProgressEvent) {}
func (NopProgress) Info(string)                               {}
func (NopProgress) Error(string)                              {}
