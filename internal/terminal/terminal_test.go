package terminal

import (
	"errors"
	"os"
	"testing"
)

func TestDisableEcho_NotATerminal(t *testing.T) {
	f, err := os.Open(os.DevNull)
	if err != nil {
		t.Fatalf("Failed to open %s: %v", os.DevNull, err)
	}
	defer f.Close()

	tty := New(int(f.Fd()))
	if tty.IsTerminal() {
		t.Skip("null device reports as a terminal")
	}

	if _, err := tty.GetState(); !errors.Is(err, ErrNotTerminal) {
		t.Errorf("Expected ErrNotTerminal from GetState, got %v", err)
	}

	state, err := tty.DisableEcho()
	if !errors.Is(err, ErrNotTerminal) {
		t.Errorf("Expected ErrNotTerminal from DisableEcho, got %v", err)
	}
	if state != nil {
		t.Error("Expected no state on failure")
	}
}

func TestRestore_NilState(t *testing.T) {
	if err := New(-1).Restore(nil); err != nil {
		t.Errorf("Restore(nil) should be a no-op, got %v", err)
	}
}
