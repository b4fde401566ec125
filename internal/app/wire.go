//go:build wireinject
// +build wireinject

package app

import (
	"github.com/google/wire"
	"github.com/spf13/viper"

	"github.com/trebuchet-org/artigen/internal/adapters"
	"github.com/trebuchet-org/artigen/internal/config"
	"github.com/trebuchet-org/artigen/internal/logging"
	"github.com/trebuchet-org/artigen/internal/usecase"
)

// InitApp creates a fully wired App instance
func InitApp(v *viper.Viper, sink usecase.ProgressSink) (*App, error) {
	wire.Build(
		// Configuration
		config.Provider,
		logging.NewLogger,

		// Adapters
		adapters.AllAdapters,

		// Compile pipeline
		usecase.NewEmitTypedArtifacts,
		usecase.NewWriteProjectLookup,
		usecase.NewReapStaleOutputs,
		usecase.NewCompile,
		usecase.NewClean,

		// Artifact lookup
		usecase.NewResolveContract,
		usecase.NewListArtifacts,

		// Chain
		usecase.NewInstallClients,
		usecase.NewDeployContract,
		usecase.NewCallContract,
		usecase.NewManageNode,

		// App
		NewApp,
	)
	return nil, nil
}
