package core

import (
	"errors"
	"fmt"
	"io"
	"os"

	"golang.org/x/term"

	"github.com/illarion/hushpass/internal/prompt"
	"github.com/illarion/hushpass/internal/secstr"
	"github.com/illarion/hushpass/internal/terminal"
)

// EnvPassword supplies a password without a terminal.
const EnvPassword = "HUSHPASS_PASSWORD"

var ErrPasswordMismatch = errors.New("passwords do not match")

// ReadPassword prints message to stderr and reads a password from the
// terminal on stdin. The caller must Destroy the result.
func ReadPassword(message string, opts prompt.Options) (*secstr.SecStr, error) {
	if !term.IsTerminal(int(os.Stdin.Fd())) {
		return nil, fmt.Errorf("%w: stdin is not a terminal, set %s", ErrPasswordRequired, EnvPassword)
	}

	fmt.Fprint(os.Stderr, message)

	password, err := prompt.New(terminal.Stdin(), os.Stdin, opts).Read()
	if err != nil {
		return nil, fmt.Errorf("failed to read password: %w", err)
	}
	return password, nil
}

// ReadPasswordConfirm reads a password twice and ensures they match
func ReadPasswordConfirm(opts prompt.Options) (*secstr.SecStr, error) {
	return confirm(func(message string) (*secstr.SecStr, error) {
		return ReadPassword(message, opts)
	})
}

func confirm(read func(message string) (*secstr.SecStr, error)) (*secstr.SecStr, error) {
	first, err := read("Enter password: ")
	if err != nil {
		return nil, err
	}

	second, err := read("Confirm password: ")
	if err != nil {
		first.Destroy()
		return nil, err
	}
	defer second.Destroy()

	if !first.Equal(second) {
		first.Destroy()
		return nil, ErrPasswordMismatch
	}
	return first, nil
}

// GetPasswordFromEnv folds HUSHPASS_PASSWORD through the same chain as
// typed input. It returns nil if the variable is unset or empty.
func GetPasswordFromEnv(digest secstr.Algorithm) *secstr.SecStr {
	value := os.Getenv(EnvPassword)
	if value == "" {
		return nil
	}
	return Fold(digest, value)
}

// Fold pushes every character of s into a new buffer.
func Fold(digest secstr.Algorithm, s string) *secstr.SecStr {
	password := secstr.NewWithDigest(digest)
	for _, r := range s {
		password.Push(r)
	}
	return password
}

// WriteChain writes the chain followed by a newline.
func WriteChain(w io.Writer, password *secstr.SecStr) error {
	if _, err := w.Write(password.Unsecure()); err != nil {
		return err
	}
	_, err := io.WriteString(w, "\n")
	return err
}
