// Package prompt reads a password from a terminal one character at a time
// into a secstr.SecStr.
//
// While reading, the terminal echoes nothing but the final newline. The
// abort key (Backspace, 0x08, by default) throws away everything typed so
// far and asks for the password again; undecodable input does the same.
// Newline or end of input completes the read. The terminal attributes
// captured on entry are restored on every exit path.
//
// A failed read of the input also restarts the password, but only
// Options.MaxReadFailures times in a row; then Read gives up with a
// *ReadError so a dead input stream cannot loop forever.
package prompt

import (
	"errors"
	"fmt"
	"io"
	"os"

	clog "github.com/charmbracelet/log"

	"github.com/illarion/hushpass/internal/logging"
	"github.com/illarion/hushpass/internal/secstr"
	"github.com/illarion/hushpass/internal/terminal"
)

const (
	DefaultAbortRune       = '\b'
	DefaultRetypeNotice    = "[retype password]"
	DefaultInputNotice     = "Stdin failed. Retype password"
	DefaultMaxReadFailures = 3
)

// Terminal is the device whose echo is turned off during a read.
// *terminal.Terminal implements it.
type Terminal interface {
	DisableEcho() (*terminal.State, error)
	Restore(*terminal.State) error
}

// Options tunes a Reader. Zero fields take the package defaults.
type Options struct {
	// AbortRune discards the input typed so far.
	AbortRune rune
	// Digest is the fold algorithm of the returned buffer.
	Digest secstr.Algorithm
	// RetypeNotice is printed after AbortRune.
	RetypeNotice string
	// InputNotice is printed after undecodable input or a failed read.
	InputNotice string
	// Notices receives the retype messages. Defaults to os.Stderr.
	Notices io.Writer
	// MaxReadFailures is how many consecutive read errors end the read.
	MaxReadFailures int
	Logger          *clog.Logger
}

func (o Options) withDefaults() Options {
	if o.AbortRune == 0 {
		o.AbortRune = DefaultAbortRune
	}
	if o.Digest == "" {
		o.Digest = secstr.DefaultAlgorithm
	}
	if o.RetypeNotice == "" {
		o.RetypeNotice = DefaultRetypeNotice
	}
	if o.InputNotice == "" {
		o.InputNotice = DefaultInputNotice
	}
	if o.Notices == nil {
		o.Notices = os.Stderr
	}
	if o.MaxReadFailures <= 0 {
		o.MaxReadFailures = DefaultMaxReadFailures
	}
	if o.Logger == nil {
		o.Logger = logging.L
	}
	return o
}

// Reader runs one password read per call to Read.
type Reader struct {
	term       Terminal
	runes      runeReader
	opts       Options
	restoreErr error
}

// New creates a Reader that disables echo on term and decodes characters
// from in.
func New(term Terminal, in io.Reader, opts Options) *Reader {
	return &Reader{
		term:  term,
		runes: runeReader{in: in},
		opts:  opts.withDefaults(),
	}
}

// Read disables echo, collects one line into a fresh SecStr and restores
// the terminal. The caller owns the returned buffer and must Destroy it.
//
// An *AttributeError is returned when echo cannot be disabled, and a
// *ReadError when the input keeps failing. A failure to restore the
// terminal afterwards does not fail the read; see RestoreErr.
func (r *Reader) Read() (*secstr.SecStr, error) {
	r.restoreErr = nil

	state, err := r.term.DisableEcho()
	if err != nil {
		return nil, &AttributeError{Op: "disable echo", Err: err}
	}
	defer r.restore(state)

	return r.readLine()
}

// RestoreErr returns the error from restoring the terminal at the end of
// the last Read, wrapped with ErrRestore, or nil.
func (r *Reader) RestoreErr() error {
	return r.restoreErr
}

func (r *Reader) restore(state *terminal.State) {
	if err := r.term.Restore(state); err != nil {
		r.restoreErr = fmt.Errorf("%w: %w", ErrRestore, err)
		r.opts.Logger.Warn("terminal attributes not restored, echo may still be off", "err", err)
	}
}

func (r *Reader) readLine() (*secstr.SecStr, error) {
	password := secstr.NewWithDigest(r.opts.Digest)
	failures := 0

	for {
		c, err := r.runes.next()
		switch {
		case err == nil:
			failures = 0
		case errors.Is(err, io.EOF):
			return password, nil
		case errors.Is(err, errInvalidUTF8):
			r.opts.Logger.Debug("undecodable input, discarding password")
			password = r.retype(password, r.opts.InputNotice)
			continue
		default:
			failures++
			r.opts.Logger.Debug("read failed", "err", err, "failures", failures)
			if failures >= r.opts.MaxReadFailures {
				password.Destroy()
				return nil, &ReadError{Failures: failures, Err: err}
			}
			password = r.retype(password, r.opts.InputNotice)
			continue
		}

		switch c {
		case '\n':
			return password, nil
		case r.opts.AbortRune:
			r.opts.Logger.Debug("abort key pressed, discarding password")
			password = r.retype(password, r.opts.RetypeNotice)
		default:
			password.Push(c)
		}
	}
}

// retype destroys the partial password, tells the user and returns a fresh
// empty buffer.
func (r *Reader) retype(password *secstr.SecStr, notice string) *secstr.SecStr {
	password.Destroy()
	fmt.Fprintln(r.opts.Notices, notice)
	return secstr.NewWithDigest(r.opts.Digest)
}

// ReadPassword reads a password from the standard input terminal and
// returns a copy of the resulting fold chain. The intermediate buffer is
// destroyed before returning; the caller should clear the copy when done.
func ReadPassword() ([]byte, error) {
	password, err := New(terminal.Stdin(), os.Stdin, Options{}).Read()
	if err != nil {
		return nil, err
	}
	defer password.Destroy()

	return password.Copy(), nil
}
