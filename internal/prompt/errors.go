package prompt

import (
	"errors"
	"fmt"
)

var (
	ErrTerminal = errors.New("terminal attributes unavailable")
	ErrInput    = errors.New("input stream failed")
	ErrRestore  = errors.New("terminal attributes not restored")
)

// AttributeError reports that echo could not be disabled before reading.
// Nothing was read and the terminal was left as it was.
type AttributeError struct {
	Op  string
	Err error
}

func (e *AttributeError) Error() string {
	return fmt.Sprintf("%s: %s: %v", ErrTerminal, e.Op, e.Err)
}

func (e *AttributeError) Unwrap() []error {
	return []error{ErrTerminal, e.Err}
}

// ReadError reports that the input stream kept failing.
type ReadError struct {
	Failures int
	Err      error
}

func (e *ReadError) Error() string {
	return fmt.Sprintf("%s after %d attempts: %v", ErrInput, e.Failures, e.Err)
}

func (e *ReadError) Unwrap() []error {
	return []error{ErrInput, e.Err}
}
