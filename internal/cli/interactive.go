package cli

import (
	"os"

	"golang.org/x/term"
)

// IsNonInteractive reports whether prompts must be skipped.
func IsNonInteractive() bool {
	if nonInteractive {
		return true
	}
	if _, ok := os.LookupEnv("TEMPURA_NON_INTERACTIVE"); ok {
		return true
	}
	return !hasTTY()
}

// hasTTY is replaced in tests.
var hasTTY = func() bool {
	return term.IsTerminal(int(os.Stdin.Fd())) && term.IsTerminal(int(os.Stdout.Fd()))
}

// IsInteractive reports whether the session can prompt for user input.
func IsInteractive() bool {
	return !IsNonInteractive()
}
