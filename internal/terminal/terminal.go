// Package terminal captures and changes the attributes of a POSIX terminal
// device for password entry.
//
// DisableEcho turns off character echo while keeping newline echo, so the
// cursor still moves to the next line when Enter is pressed. The returned
// State is the attribute set that was in effect before and must be handed
// back to Restore.
package terminal

import (
	"errors"
	"fmt"
	"os"

	"golang.org/x/term"
)

var (
	ErrNotTerminal = errors.New("not a terminal")
	ErrUnsupported = errors.New("terminal attributes not supported on this platform")
)

// applyState writes attributes to a descriptor. Tests replace it to make
// the write fail.
var applyState = setState

// Terminal is one terminal file descriptor.
type Terminal struct {
	fd int
}

// New wraps an open file descriptor.
func New(fd int) *Terminal {
	return &Terminal{fd: fd}
}

// Stdin returns the terminal attached to the process's standard input.
func Stdin() *Terminal {
	return New(int(os.Stdin.Fd()))
}

// IsTerminal reports whether the descriptor refers to a terminal.
func (t *Terminal) IsTerminal() bool {
	return term.IsTerminal(t.fd)
}

// GetState captures the current attributes.
func (t *Terminal) GetState() (*State, error) {
	if !t.IsTerminal() {
		return nil, fmt.Errorf("fd %d: %w", t.fd, ErrNotTerminal)
	}
	return getState(t.fd)
}

// DisableEcho applies the current attributes with ECHO cleared and ECHONL
// set, and returns the attributes that were in effect before. If the new
// attributes cannot be applied, the captured ones are written back before
// the error is returned.
func (t *Terminal) DisableEcho() (*State, error) {
	old, err := t.GetState()
	if err != nil {
		return nil, fmt.Errorf("failed to read terminal attributes: %w", err)
	}

	if err := applyState(t.fd, old.withoutEcho()); err != nil {
		if rerr := applyState(t.fd, old); rerr != nil {
			return nil, fmt.Errorf("failed to disable echo: %w", errors.Join(err, rerr))
		}
		return nil, fmt.Errorf("failed to disable echo: %w", err)
	}

	return old, nil
}

// Restore applies a previously captured State.
func (t *Terminal) Restore(state *State) error {
	if state == nil {
		return nil
	}
	if err := applyState(t.fd, state); err != nil {
		return fmt.Errorf("failed to restore terminal attributes: %w", err)
	}
	return nil
}
