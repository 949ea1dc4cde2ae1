//go:build linux || darwin || freebsd || openbsd || netbsd || dragonfly

package terminal

import "golang.org/x/sys/unix"

// State is a captured set of terminal attributes.
type State struct {
	termios unix.Termios
}

// Echo reports whether typed characters are echoed.
func (s *State) Echo() bool {
	return s.termios.Lflag&unix.ECHO != 0
}

// EchoNewline reports whether newline is echoed even with Echo off.
func (s *State) EchoNewline() bool {
	return s.termios.Lflag&unix.ECHONL != 0
}

func (s *State) withoutEcho() *State {
	hidden := *s
	hidden.termios.Lflag &^= unix.ECHO
	hidden.termios.Lflag |= unix.ECHONL
	return &hidden
}

func getState(fd int) (*State, error) {
	termios, err := unix.IoctlGetTermios(fd, ioctlReadTermios)
	if err != nil {
		return nil, err
	}
	return &State{termios: *termios}, nil
}

// setState applies attributes immediately (TCSANOW).
func setState(fd int, s *State) error {
	termios := s.termios
	return unix.IoctlSetTermios(fd, ioctlWriteTermios, &termios)
}
