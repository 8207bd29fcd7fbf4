// Where: deliriumctl/internal/interaction/selector.go
// What: Interactive prompt helpers using the huh library.
// Why: Provide keyboard-based input and selection for the setup wizard.
package interaction

import (
	"fmt"

	"github.com/charmbracelet/huh"
)

var runInputPrompt = func(title string, suggestions []string, input *string) error {
	field := huh.NewInput().
		Title(title).
		Suggestions(suggestions).
		Value(input)
	if len(suggestions) > 0 {
		field.Placeholder(suggestions[0])
	}
	return field.Run()
}

var runSelectPrompt = func(title string, options []huh.Option[string], selected *string) error {
	return huh.NewSelect[string]().
		Title(title).
		Options(options...).
		Value(selected).
		Run()
}

var runConfirmPrompt = func(title string, confirmed *bool) error {
	return huh.NewConfirm().
		Title(title).
		Affirmative("Yes").
		Negative("No").
		Value(confirmed).
		Run()
}

// HuhPrompter implements the Prompter interface using the huh TUI library.
type HuhPrompter struct{}

func (p HuhPrompter) Input(title string, suggestions []string) (string, error) {
	var input string
	if err := runInputPrompt(title, suggestions, &input); err != nil {
		return "", fmt.Errorf("prompt input: %w", err)
	}
	return input, nil
}

func (p HuhPrompter) SelectValue(title string, options []SelectOption) (string, error) {
	if len(options) == 0 {
		return "", nil
	}

	huhOptions := make([]huh.Option[string], len(options))
	for i, opt := range options {
		huhOptions[i] = huh.NewOption(opt.Label, opt.Value)
	}

	var selected string
	if err := runSelectPrompt(title, huhOptions, &selected); err != nil {
		return "", fmt.Errorf("prompt select value: %w", err)
	}
	return selected, nil
}

func (p HuhPrompter) Confirm(title string) (bool, error) {
	var confirmed bool
	if err := runConfirmPrompt(title, &confirmed); err != nil {
		return false, fmt.Errorf("prompt confirm: %w", err)
	}
	return confirmed, nil
}
