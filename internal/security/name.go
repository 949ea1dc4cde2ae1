package security

import (
	"errors"
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"
)

// MaxNameLen is the longest accepted enrollment name in bytes
const MaxNameLen = 128

var (
	ErrEmptyName   = errors.New("empty name not allowed")
	ErrNameTooLong = errors.New("name too long")
	ErrInvalidName = errors.New("invalid name")
)

// ValidateName checks an enrollment name supplied on the command line.
// It rejects:
// - Empty names
// - Names longer than MaxNameLen bytes
// - Invalid UTF-8
// - Control characters, which would garble terminal output
// - "/", the separator of keyring account names
func ValidateName(name string) error {
	if name == "" {
		return ErrEmptyName
	}

	if len(name) > MaxNameLen {
		return fmt.Errorf("%w: %d bytes, max %d", ErrNameTooLong, len(name), MaxNameLen)
	}

	if !utf8.ValidString(name) {
		return fmt.Errorf("%w: not valid UTF-8", ErrInvalidName)
	}

	if strings.ContainsFunc(name, unicode.IsControl) {
		return fmt.Errorf("%w: contains control characters", ErrInvalidName)
	}

	if strings.Contains(name, "/") {
		return fmt.Errorf("%w: %q contains '/'", ErrInvalidName, name)
	}

	return nil
}
