package ui

import (
	"errors"
	"fmt"
	"os"

	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/x/term"
)

// IsInteractive reports whether stdin and stdout are both terminals.
func IsInteractive() bool {
	return term.IsTerminal(os.Stdin.Fd()) && term.IsTerminal(os.Stdout.Fd())
}

// ShouldPrompt reports whether a prompt may be shown.
func ShouldPrompt(noInteractive bool) bool {
	if noInteractive || os.Getenv("CI") != "" {
		return false
	}
	return IsInteractive()
}

// IsAbort reports whether err is the user cancelling a prompt.
func IsAbort(err error) bool {
	return errors.Is(err, huh.ErrUserAborted)
}

// OverwritePrompter confirms file overwrites with a huh form. When prompts
// are disabled it answers no without asking.
type OverwritePrompter struct {
	Enabled bool
}

// ConfirmOverwrite asks whether path should be replaced. Cancelling the
// prompt counts as a no.
func (p OverwritePrompter) ConfirmOverwrite(path string) (bool, error) {
	if !p.Enabled {
		return false, nil
	}

	var confirmed bool
	form := huh.NewForm(
		huh.NewGroup(
			huh.NewConfirm().
				Title(fmt.Sprintf("%s already exists. Do you want to overwrite it?", path)).
				Affirmative("Yes").
				Negative("No").
				Value(&confirmed),
		),
	).WithTheme(huh.ThemeCatppuccin())

	if err := form.Run(); err != nil {
		if IsAbort(err) {
			return false, nil
		}
		return false, err
	}

	return confirmed, nil
}
