package adapters

import (
	"github.com/google/wire"

	"github.com/trebuchet-org/artigen/internal/adapters/abi"
	"github.com/trebuchet-org/artigen/internal/adapters/artifactstore"
	"github.com/trebuchet-org/artigen/internal/adapters/codegen"
	"github.com/trebuchet-org/artigen/internal/adapters/ethrpc"
	"github.com/trebuchet-org/artigen/internal/adapters/forge"
	"github.com/trebuchet-org/artigen/internal/adapters/fs"
	"github.com/trebuchet-org/artigen/internal/adapters/interactive"
	"github.com/trebuchet-org/artigen/internal/usecase"
)

// FSSet provides filesystem-based implementations
var FSSet = wire.NewSet(
	fs.NewFileWriterAdapter,
	wire.Bind(new(usecase.OutputWriter), new(*fs.FileWriterAdapter)),

	artifactstore.NewArtifactStore,
)

// CompilerSet provides the host toolchain and code rendering
var CompilerSet = wire.NewSet(
	forge.NewCompiler,
	wire.Bind(new(usecase.Compiler), new(*forge.Compiler)),

	codegen.NewRenderer,
	wire.Bind(new(usecase.CodeRenderer), new(*codegen.Renderer)),
)

// ChainSet provides blockchain client implementations
var ChainSet = wire.NewSet(
	ethrpc.NewClientFactory,
	wire.Bind(new(usecase.ClientFactory), new(*ethrpc.ClientFactory)),

	abi.NewArgParser,
	wire.Bind(new(usecase.ArgParser), new(*abi.ArgParser)),
)

// InteractiveSet provides interactive implementations
var InteractiveSet = wire.NewSet(
	interactive.NewSelectorAdapter,
	wire.Bind(new(usecase.ContractSelector), new(*interactive.SelectorAdapter)),
)

// AllAdapters includes all adapter sets
var AllAdapters = wire.NewSet(
	FSSet,
	CompilerSet,
	ChainSet,
	InteractiveSet,
)
