// Package menu implements the interactive provider selection shown when no
// provider is named on the command line.
package menu

import (
	"fmt"
	"strconv"

	"github.com/charmbracelet/huh"

	"github.com/nhle/tempmail-watcher/internal/model"
	"github.com/nhle/tempmail-watcher/internal/provider"
)

// Selection is the outcome of the interactive menu.
type Selection struct {
	Provider        model.ProviderType
	PollIntervalSec int
}

// Run prompts for a provider and poll interval, defaulting both from cfg.
// The caller is expected to persist the selection back into the config so
// it becomes the default for the next run.
func Run(cfg *model.AppConfig) (Selection, error) {
	providerValue := cfg.DefaultProvider
	if _, err := provider.New(model.ProviderType(providerValue), provider.Options{}); err != nil {
		providerValue = string(model.ProviderMailTM)
	}
	pollValue := strconv.Itoa(cfg.PollIntervalSec)

	var options []huh.Option[string]
	for _, name := range provider.Names() {
		options = append(options, huh.NewOption(string(name), string(name)))
	}

	form := huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("Temporary email provider").
				Options(options...).
				Value(&providerValue),
			huh.NewInput().
				Title("Poll interval (seconds)").
				Validate(validateInterval).
				Value(&pollValue),
		),
	)

	if err := form.Run(); err != nil {
		return Selection{}, err
	}

	// Validate guarantees this parses.
	interval, _ := strconv.Atoi(pollValue)

	return Selection{
		Provider:        model.ProviderType(providerValue),
		PollIntervalSec: interval,
	}, nil
}

// ConfirmClear asks before wiping the message history.
func ConfirmClear(count int) (bool, error) {
	var confirmed bool
	form := huh.NewForm(
		huh.NewGroup(
			huh.NewConfirm().
				Title(fmt.Sprintf("Permanently delete all %d saved messages?", count)).
				Affirmative("Delete").
				Negative("Cancel").
				Value(&confirmed),
		),
	)

	if err := form.Run(); err != nil {
		return false, err
	}
	return confirmed, nil
}

func validateInterval(s string) error {
	n, err := strconv.Atoi(s)
	if err != nil || n <= 0 {
		return fmt.Errorf("enter a positive number of seconds")
	}
	return nil
}
