// Package prompt wraps manifoldco/promptui for rpcc's interactive mode:
// text input, required input, and list selection, all normalizing
// Ctrl+C/Esc to a single ErrAborted so callers don't special-case promptui's
// own interrupt/abort errors.
package prompt

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/manifoldco/promptui"
)

// ErrAborted is returned when the user aborts a prompt (Ctrl+C or Esc).
var ErrAborted = errors.New("aborted")

// IsAborted reports whether err indicates the user aborted a prompt.
func IsAborted(err error) bool {
	return errors.Is(err, promptui.ErrInterrupt) || errors.Is(err, promptui.ErrAbort) || errors.Is(err, ErrAborted)
}

func wrapError(err error) error {
	if err == nil {
		return nil
	}
	if IsAborted(err) {
		return ErrAborted
	}
	return err
}

// Input prompts for free text with defaultValue pre-filled.
func Input(label, defaultValue string) (string, error) {
	p := promptui.Prompt{Label: label, Default: defaultValue}
	result, err := p.Run()
	return result, wrapError(err)
}

// InputRequired prompts for text that may not be empty.
func InputRequired(label string) (string, error) {
	p := promptui.Prompt{
		Label: label,
		Validate: func(input string) error {
			if input == "" {
				return fmt.Errorf("must not be empty")
			}
			return nil
		},
	}
	result, err := p.Run()
	return result, wrapError(err)
}

// InputInt prompts for an integer, defaultValue pre-filled.
func InputInt(label string, defaultValue int64) (int64, error) {
	p := promptui.Prompt{
		Label:   label,
		Default: strconv.FormatInt(defaultValue, 10),
		Validate: func(input string) error {
			_, err := strconv.ParseInt(input, 10, 64)
			if err != nil {
				return fmt.Errorf("must be a valid integer")
			}
			return nil
		},
	}
	result, err := p.Run()
	if err != nil {
		return 0, wrapError(err)
	}
	value, _ := strconv.ParseInt(result, 10, 64)
	return value, nil
}

// Select prompts the user to choose one of items, returning the chosen
// string.
func Select(label string, items []string) (string, error) {
	p := promptui.Select{Label: label, Items: items, Size: 10}
	_, result, err := p.Run()
	return result, wrapError(err)
}
