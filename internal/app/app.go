package app

import (
	"log/slog"

	"github.com/trebuchet-org/artigen/internal/domain/config"
	"github.com/trebuchet-org/artigen/internal/usecase"
)

// App is the main application container that holds all use cases
type App struct {
	// Configuration
	Config *config.RuntimeConfig
	Log    *slog.Logger

	// Use cases
	Compile        *usecase.Compile
	Clean          *usecase.Clean
	ListArtifacts  *usecase.ListArtifacts
	InstallClients *usecase.InstallClients
	DeployContract *usecase.DeployContract
	CallContract   *usecase.CallContract
	ManageNode     *usecase.ManageNode
}

// NewApp creates a new application instance with all use cases
func NewApp(
	cfg *config.RuntimeConfig,
	log *slog.Logger,
	compile *usecase.Compile,
	clean *usecase.Clean,
	listArtifacts *usecase.ListArtifacts,
	installClients *usecase.InstallClients,
	deployContract *usecase.DeployContract,
	callContract *usecase.CallContract,
	manageNode *usecase.ManageNode,
) (*App, error) {
	return &App{
		Config:         cfg,
		Log:            log,
		Compile:        compile,
		Clean:          clean,
		ListArtifacts:  listArtifacts,
		InstallClients: installClients,
		DeployContract: deployContract,
		CallContract:   callContract,
		ManageNode:     manageNode,
	}, nil
}
