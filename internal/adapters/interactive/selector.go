package interactive

import (
	"context"
	"fmt"
	"strings"

	"github.com/fatih/color"
	"github.com/manifoldco/promptui"
	"github.com/sahilm/fuzzy"

	"github.com/trebuchet-org/artigen/internal/domain"
	"github.com/trebuchet-org/artigen/internal/domain/config"
	"github.com/trebuchet-org/artigen/internal/usecase"
)

// SelectorAdapter handles interactive selection
type SelectorAdapter struct {
	config *config.RuntimeConfig
	// run is replaced in tests
	run func(prompt promptui.Select) (int, error)
}

// NewSelectorAdapter creates a new selector adapter
func NewSelectorAdapter(cfg *config.RuntimeConfig) *SelectorAdapter {
	return &SelectorAdapter{
		config: cfg,
		run: func(prompt promptui.Select) (int, error) {
			index, _, err := prompt.Run()
			return index, err
		},
	}
}

// SelectContract asks the user to pick one of several fully qualified names
func (s *SelectorAdapter) SelectContract(ctx context.Context, candidates []string, prompt string) (string, error) {
	if s.config.NonInteractive {
		return "", fmt.Errorf("interactive selection not available in non-interactive mode")
	}

	if len(candidates) == 0 {
		return "", fmt.Errorf("no contracts provided for selection")
	}

	if len(candidates) == 1 {
		return candidates[0], nil
	}

	options := formatCandidates(candidates)

	templates := &promptui.SelectTemplates{
		Label:    "{{ . }}",
		Active:   "▸ {{ . | cyan }}",
		Inactive: "  {{ . | faint }}",
		Selected: "✓ {{ . | green }}",
		Help:     color.New(color.FgYellow).Sprint("Use arrow keys to navigate, Enter to select"),
	}

	index, err := s.run(promptui.Select{
		Label:             prompt,
		Items:             options,
		Templates:         templates,
		Size:              10,
		StartInSearchMode: true,
		Searcher:          createFuzzySearchFunc(candidates),
	})
	if err != nil {
		return "", fmt.Errorf("selection cancelled: %w", err)
	}

	return candidates[index], nil
}

// formatCandidates renders "Name (path/to/File.sol)" for each candidate
func formatCandidates(candidates []string) []string {
	options := make([]string, len(candidates))
	for i, fqn := range candidates {
		name, err := domain.ParseFullyQualifiedName(fqn)
		if err != nil {
			options[i] = fqn
			continue
		}
		contractName := color.New(color.FgWhite, color.Bold).Sprint(name.ContractName)
		pathStr := color.New(color.FgBlue).Sprint(name.SourceName)
		options[i] = fmt.Sprintf("%s (%s)", contractName, pathStr)
	}
	return options
}

// createFuzzySearchFunc matches against the plain names, not the coloured options
func createFuzzySearchFunc(items []string) func(input string, index int) bool {
	return func(input string, index int) bool {
		if input == "" {
			return true
		}

		input = strings.ToLower(input)
		item := strings.ToLower(items[index])

		if strings.Contains(item, input) {
			return true
		}

		return len(fuzzy.Find(input, []string{item})) > 0
	}
}

var _ usecase.ContractSelector = (*SelectorAdapter)(nil)
