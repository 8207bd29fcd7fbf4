// Where: deliriumctl/internal/interaction/interaction.go
// What: Interactive primitives for CLI prompts and TTY detection.
// Why: Centralize user interaction to keep workflows focused on orchestration.
package interaction

import (
	"errors"
	"os"

	"github.com/charmbracelet/huh"
	"github.com/mattn/go-isatty"

	"github.com/delirium-paste/deliriumctl/internal/constants"
	"github.com/delirium-paste/deliriumctl/internal/envutil"
)

// SelectOption represents a single option in a selection menu.
type SelectOption struct {
	Label string // Display text
	Value string // Return value
}

// Prompter defines the interface for interactive user input and selection.
type Prompter interface {
	Input(title string, suggestions []string) (string, error)
	SelectValue(title string, options []SelectOption) (string, error)
	Confirm(title string) (bool, error)
}

// ErrAborted reports that the user cancelled an interactive prompt.
var ErrAborted = errors.New("aborted by user")

// IsAbort reports whether err originates from a cancelled prompt.
func IsAbort(err error) bool {
	return errors.Is(err, ErrAborted) || errors.Is(err, huh.ErrUserAborted)
}

// IsTerminal reports whether the file refers to a terminal device.
var IsTerminal = func(file *os.File) bool {
	if file == nil {
		return false
	}
	fd := file.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

// Headless reports whether prompting must be suppressed for this run.
// The explicit environment toggle wins; otherwise a non-terminal stdin
// implies headless operation.
func Headless() bool {
	if envutil.BoolFromEnv(constants.EnvHeadless) {
		return true
	}
	return !IsTerminal(os.Stdin)
}
