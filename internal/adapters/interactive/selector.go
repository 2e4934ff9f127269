package interactive

import (
	"context"
	"fmt"
	"strings"

	"github.com/fatih/color"
	"github.com/manifoldco/promptui"
	"github.com/sahilm/fuzzy"
	"github.com/trebuchet-org/catapult/internal/config"
	"github.com/trebuchet-org/catapult/internal/domain/models"
	"github.com/trebuchet-org/catapult/internal/usecase"
)

// SelectorAdapter handles interactive prompts
type SelectorAdapter struct {
	config *config.RuntimeConfig
}

// NewSelectorAdapter creates a new selector adapter
func NewSelectorAdapter(cfg *config.RuntimeConfig) *SelectorAdapter {
	return &SelectorAdapter{config: cfg}
}

// SelectUnit lets the user pick a deployable unit from names
func (s *SelectorAdapter) SelectUnit(ctx context.Context, names []string, prompt string) (string, error) {
	if s.config.NonInteractive {
		return "", fmt.Errorf("interactive selection not available in non-interactive mode")
	}
	if len(names) == 0 {
		return "", fmt.Errorf("no units provided for selection")
	}
	if len(names) == 1 {
		return names[0], nil
	}

	templates := &promptui.SelectTemplates{
		Label:    "{{ . }}",
		Active:   "▸ {{ . | cyan }}",
		Inactive: "  {{ . | faint }}",
		Selected: "✓ {{ . | green }}",
		Help:     color.New(color.FgYellow).Sprint("Use arrow keys to navigate, Enter to select"),
	}

	promptSelect := promptui.Select{
		Label:             prompt,
		Items:             names,
		Templates:         templates,
		Size:              10,
		StartInSearchMode: true,
		Searcher:          createFuzzySearchFunc(names),
	}

	index, _, err := promptSelect.Run()
	if err != nil {
		return "", fmt.Errorf("selection cancelled: %w", err)
	}
	return names[index], nil
}

// ConfirmBroadcast asks before transactions are sent to network
func (s *SelectorAdapter) ConfirmBroadcast(ctx context.Context, network string, summary string) (bool, error) {
	if s.config.NonInteractive {
		return false, fmt.Errorf("cannot confirm broadcast to %s in non-interactive mode (use --yes)", network)
	}

	fmt.Printf("%s %s\n", color.New(color.FgYellow, color.Bold).Sprintf("Network %s:", network), summary)
	prompt := promptui.Prompt{
		Label:     "Send transactions",
		IsConfirm: true,
	}

	_, err := prompt.Run()
	switch err {
	case nil:
		return true, nil
	case promptui.ErrAbort:
		return false, nil
	default:
		return false, fmt.Errorf("confirmation failed: %w", err)
	}
}

// SelectRecords shows a multi-select of ledger records and returns the chosen names
func (s *SelectorAdapter) SelectRecords(ctx context.Context, records []models.Record) ([]string, error) {
	if s.config.NonInteractive {
		return nil, fmt.Errorf("interactive selection not available in non-interactive mode")
	}
	return SelectRecords(records, "Select records to forget")
}

// createFuzzySearchFunc creates a fuzzy search function for promptui
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

		pattern := fuzzy.Find(input, []string{item})
		return len(pattern) > 0
	}
}

var (
	_ usecase.BroadcastConfirmer = (*SelectorAdapter)(nil)
	_ usecase.RecordSelector     = (*SelectorAdapter)(nil)
)
