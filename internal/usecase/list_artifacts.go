package usecase

import (
	"context"

	"github.com/trebuchet-org/artigen/internal/domain"
	"github.com/trebuchet-org/artigen/internal/domain/config"
)

// ArtifactSummary describes one artifact for listing. ShortName reports
// whether the contract resolves by its short name.
type ArtifactSummary struct {
	FullyQualifiedName string `json:"fullyQualifiedName" yaml:"fullyQualifiedName"`
	ContractName       string `json:"contractName" yaml:"contractName"`
	SourceName         string `json:"sourceName" yaml:"sourceName"`
	ShortName          bool   `json:"shortName" yaml:"shortName"`
	Deployable         bool   `json:"deployable" yaml:"deployable"`
	Linked             bool   `json:"linked" yaml:"linked"`
	Package            string `json:"package" yaml:"package"`
}

// ListArtifactsResult contains the result of listing artifacts
type ListArtifactsResult struct {
	Artifacts []ArtifactSummary   `json:"artifacts" yaml:"artifacts"`
	Ambiguous map[string][]string `json:"ambiguous" yaml:"ambiguous"`
}

// ListArtifacts is the use case for listing compiled artifacts
type ListArtifacts struct {
	config *config.RuntimeConfig
	store  ArtifactStore
}

// NewListArtifacts creates a new ListArtifacts use case
func NewListArtifacts(cfg *config.RuntimeConfig, store ArtifactStore) *ListArtifacts {
	return &ListArtifacts{config: cfg, store: store}
}

// Run lists every artifact sorted by fully-qualified name
func (uc *ListArtifacts) Run(ctx context.Context) (*ListArtifactsResult, error) {
	table, dups, err := LoadTable(ctx, uc.store)
	if err != nil {
		return nil, err
	}

	fqns := table.FullyQualifiedNames()
	result := &ListArtifactsResult{
		Artifacts: make([]ArtifactSummary, 0, len(fqns)),
		Ambiguous: table.Ambiguous(),
	}
	for _, fqn := range fqns {
		a, err := table.Lookup(fqn)
		if err != nil {
			return nil, err
		}
		result.Artifacts = append(result.Artifacts, ArtifactSummary{
			FullyQualifiedName: fqn,
			ContractName:       a.ContractName,
			SourceName:         a.SourceName,
			ShortName:          !dups.Contains(a.ContractName),
			Deployable:         a.IsDeployable(),
			Linked:             a.IsLinked(),
			Package:            domain.SourceOutputDir(a.SourceName),
		})
	}
	return result, nil
}
