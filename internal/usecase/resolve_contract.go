package usecase

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/sahilm/fuzzy"
	"github.com/samber/lo"
	"golang.org/x/sync/errgroup"

	"github.com/trebuchet-org/artigen/internal/domain"
	"github.com/trebuchet-org/artigen/internal/domain/config"
	"github.com/trebuchet-org/artigen/pkg/artifacts"
)

const maxSuggestions = 5

// LoadTable builds a lookup table from the artifact store. Ambiguous short
// names are marked before anything is registered, exactly as generated
// NewTable functions do.
func LoadTable(ctx context.Context, store ArtifactStore) (*artifacts.Table, *domain.DuplicateSet, error) {
	fqns, err := store.AllFullyQualifiedNames(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to list artifacts: %w", err)
	}
	dups := domain.NewDuplicateSet(fqns)

	loaded := make([]*artifacts.Artifact, len(fqns))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(16)
	for i, fqn := range fqns {
		g.Go(func() error {
			a, err := store.ReadArtifact(gctx, fqn)
			if err != nil {
				return fmt.Errorf("failed to read artifact %s: %w", fqn, err)
			}
			loaded[i] = a
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, nil, err
	}

	table := artifacts.NewTable()
	for _, name := range dups.Names() {
		table.MarkAmbiguous(name, dups.Candidates(name)...)
	}
	for i, a := range loaded {
		table.Register(fqns[i], a)
		table.RegisterShort(a.ContractName, a)
	}
	return table, dups, nil
}

// ResolveContract is the use case for resolving contract references
type ResolveContract struct {
	config   *config.RuntimeConfig
	store    ArtifactStore
	selector ContractSelector
	sink     ProgressSink
}

// NewResolveContract creates a new ResolveContract use case
func NewResolveContract(
	cfg *config.RuntimeConfig,
	store ArtifactStore,
	selector ContractSelector,
	sink ProgressSink,
) *ResolveContract {
	return &ResolveContract{
		config:   cfg,
		store:    store,
		selector: selector,
		sink:     sink,
	}
}

// Run resolves a short or fully-qualified contract name. An ambiguous short
// name is resolved by interactive selection unless running non-interactively.
func (uc *ResolveContract) Run(ctx context.Context, ref string) (*artifacts.Artifact, error) {
	uc.sink.OnProgress(ctx, ProgressEvent{
		Stage:   "resolving",
		Message: fmt.Sprintf("Resolving contract: %s", ref),
		Spinner: true,
	})

	table, _, err := LoadTable(ctx, uc.store)
	if err != nil {
		return nil, err
	}

	a, err := table.Lookup(ref)
	if err == nil {
		return a, nil
	}

	var ambiguous *artifacts.AmbiguousNameError
	switch {
	case errors.As(err, &ambiguous):
		if uc.config.NonInteractive {
			return nil, err
		}
		// Stop the spinner before prompting
		uc.sink.OnProgress(ctx, ProgressEvent{Stage: "selecting"})
		fqn, err := uc.selector.SelectContract(ctx, ambiguous.Candidates,
			fmt.Sprintf("%q is declared in several files, select one", ref))
		if err != nil {
			return nil, err
		}
		return table.Lookup(fqn)

	case errors.Is(err, artifacts.ErrNotFound):
		return nil, domain.NoContractsMatchErr{Query: ref, Suggestions: suggest(ref, table)}

	default:
		return nil, err
	}
}

// suggest returns the closest known names to ref, best first
func suggest(ref string, table *artifacts.Table) []string {
	candidates := append(table.Names(), table.FullyQualifiedNames()...)
	candidates = append(candidates, lo.Keys(table.Ambiguous())...)

	candidates = lo.Uniq(candidates)
	sort.Strings(candidates)

	matches := fuzzy.Find(ref, candidates)
	out := make([]string, 0, maxSuggestions)
	for _, m := range matches {
		if len(out) == maxSuggestions {
			break
		}
		out = append(out, m.Str)
	}
	return out
}
