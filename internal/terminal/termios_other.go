//go:build !linux && !darwin && !freebsd && !openbsd && !netbsd && !dragonfly

package terminal

// State is a captured set of terminal attributes.
type State struct{}

// Echo reports whether typed characters are echoed.
func (s *State) Echo() bool { return true }

// EchoNewline reports whether newline is echoed even with Echo off.
func (s *State) EchoNewline() bool { return false }

func (s *State) withoutEcho() *State { return s }

func getState(int) (*State, error) {
	return nil, ErrUnsupported
}

func setState(int, *State) error {
	return ErrUnsupported
}
