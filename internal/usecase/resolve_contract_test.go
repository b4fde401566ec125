package usecase_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/trebuchet-org/artigen/internal/domain"
	"github.com/trebuchet-org/artigen/internal/domain/config"
	"github.com/trebuchet-org/artigen/internal/usecase"
	"github.com/trebuchet-org/artigen/pkg/artifacts"
)

// MockSelector is a mock implementation of ContractSelector
type MockSelector struct {
	mock.Mock
}

func (m *MockSelector) SelectContract(ctx context.Context, candidates []string, prompt string) (string, error) {
	args := m.Called(ctx, candidates, prompt)
	return args.String(0), args.Error(1)
}

func exampleStore() *memoryStore {
	return newMemoryStore("contracts/A.sol:Foo", "contracts/B.sol:Foo", "contracts/B.sol:Bar")
}

func TestLoadTable(t *testing.T) {
	table, dups, err := usecase.LoadTable(context.Background(), exampleStore())
	require.NoError(t, err)

	assert.Equal(t, []string{"Foo"}, dups.Names())
	assert.Equal(t, []string{"Bar"}, table.Names())
	assert.Equal(t, []string{"contracts/A.sol:Foo", "contracts/B.sol:Bar", "contracts/B.sol:Foo"}, table.FullyQualifiedNames())

	bar, err := table.Lookup("Bar")
	require.NoError(t, err)
	assert.Equal(t, "contracts/B.sol", bar.SourceName)

	_, err = table.Lookup("Foo")
	assert.ErrorIs(t, err, artifacts.ErrAmbiguousName)

	for _, fqn := range []string{"contracts/A.sol:Foo", "contracts/B.sol:Foo"} {
		a, err := table.Lookup(fqn)
		require.NoError(t, err)
		assert.Equal(t, fqn, a.FullyQualifiedName())
	}
}

func TestResolveContract(t *testing.T) {
	ctx := context.Background()

	t.Run("unique short name", func(t *testing.T) {
		uc := usecase.NewResolveContract(&config.RuntimeConfig{}, exampleStore(), &MockSelector{}, usecase.NopProgress{})
		a, err := uc.Run(ctx, "Bar")
		require.NoError(t, err)
		assert.Equal(t, "contracts/B.sol:Bar", a.FullyQualifiedName())
	})

	t.Run("ambiguous name prompts", func(t *testing.T) {
		selector := &MockSelector{}
		selector.On("SelectContract", mock.Anything, []string{"contracts/A.sol:Foo", "contracts/B.sol:Foo"}, mock.Anything).
			Return("contracts/B.sol:Foo", nil)

		uc := usecase.NewResolveContract(&config.RuntimeConfig{}, exampleStore(), selector, usecase.NopProgress{})
		a, err := uc.Run(ctx, "Foo")
		require.NoError(t, err)
		assert.Equal(t, "contracts/B.sol:Foo", a.FullyQualifiedName())
		selector.AssertExpectations(t)
	})

	t.Run("ambiguous name in non-interactive mode", func(t *testing.T) {
		selector := &MockSelector{}
		uc := usecase.NewResolveContract(&config.RuntimeConfig{NonInteractive: true}, exampleStore(), selector, usecase.NopProgress{})

		_, err := uc.Run(ctx, "Foo")
		var amb *artifacts.AmbiguousNameError
		require.True(t, errors.As(err, &amb))
		assert.Equal(t, []string{"contracts/A.sol:Foo", "contracts/B.sol:Foo"}, amb.Candidates)
		selector.AssertNotCalled(t, "SelectContract", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("selection cancelled", func(t *testing.T) {
		selector := &MockSelector{}
		selector.On("SelectContract", mock.Anything, mock.Anything, mock.Anything).Return("", errors.New("^C"))

		uc := usecase.NewResolveContract(&config.RuntimeConfig{}, exampleStore(), selector, usecase.NopProgress{})
		_, err := uc.Run(ctx, "Foo")
		assert.ErrorContains(t, err, "^C")
	})

	t.Run("not found suggests close names", func(t *testing.T) {
		uc := usecase.NewResolveContract(&config.RuntimeConfig{}, exampleStore(), &MockSelector{}, usecase.NopProgress{})
		_, err := uc.Run(ctx, "Br")

		var notFound domain.NoContractsMatchErr
		require.True(t, errors.As(err, &notFound))
		assert.ErrorIs(t, err, domain.ErrContractNotFound)
		assert.Contains(t, notFound.Suggestions, "Bar")
		assert.Contains(t, err.Error(), "did you mean")
	})
}

func TestListArtifacts(t *testing.T) {
	uc := usecase.NewListArtifacts(&config.RuntimeConfig{}, exampleStore())
	result, err := uc.Run(context.Background())
	require.NoError(t, err)

	require.Len(t, result.Artifacts, 3)
	assert.Equal(t, "contracts/A.sol:Foo", result.Artifacts[0].FullyQualifiedName)
	assert.False(t, result.Artifacts[0].ShortName)
	assert.Equal(t, "contracts/B.sol:Bar", result.Artifacts[1].FullyQualifiedName)
	assert.True(t, result.Artifacts[1].ShortName)
	assert.True(t, result.Artifacts[1].Deployable)
	assert.Equal(t, "contracts/B.sol", result.Artifacts[1].Package)
	assert.Equal(t, map[string][]string{"Foo": {"contracts/A.sol:Foo", "contracts/B.sol:Foo"}}, result.Ambiguous)
}
