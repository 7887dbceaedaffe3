// Package ui holds the small interactive prompts used by destructive
// operations.
package ui

import (
	"errors"

	"github.com/manifoldco/promptui"
)

// Confirm asks a yes/no question on the terminal and returns whether the
// operator answered yes. Aborting the prompt (ctrl-c) counts as no.
func Confirm(label string) (bool, error) {
	prompt := promptui.Prompt{
		Label:     label,
		IsConfirm: true,
	}

	_, err := prompt.Run()
	if err != nil {
		if errors.Is(err, promptui.ErrAbort) || errors.Is(err, promptui.ErrInterrupt) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}
