package secstr

import (
	"crypto/sha512"
	"errors"
	"fmt"
	"hash"

	"github.com/zeebo/blake3"
	"golang.org/x/crypto/sha3"
)

// Algorithm names the digest used to fold content on Push.
type Algorithm string

const (
	SHA512  Algorithm = "sha512"
	SHA3512 Algorithm = "sha3-512"
	BLAKE3  Algorithm = "blake3"
)

// DefaultAlgorithm is the digest used by New and FromBytes.
const DefaultAlgorithm = SHA512

// maxDigestSize bounds Size() over all supported algorithms.
const maxDigestSize = sha512.Size

var ErrUnknownAlgorithm = errors.New("unknown digest algorithm")

// Algorithms lists the supported digests in display order.
func Algorithms() []Algorithm {
	return []Algorithm{SHA512, SHA3512, BLAKE3}
}

// ParseAlgorithm maps a configuration name to an Algorithm. The empty
// string selects DefaultAlgorithm.
func ParseAlgorithm(name string) (Algorithm, error) {
	if name == "" {
		return DefaultAlgorithm, nil
	}
	for _, a := range Algorithms() {
		if string(a) == name {
			return a, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownAlgorithm, name)
}

// New returns a fresh hasher for the algorithm. Unknown values fall back
// to SHA-512.
func (a Algorithm) New() hash.Hash {
	switch a {
	case SHA3512:
		return sha3.New512()
	case BLAKE3:
		return blake3.New()
	default:
		return sha512.New()
	}
}

// ChainLen is the content length after at least one Push.
func (a Algorithm) ChainLen() int {
	return 2 * a.New().Size()
}

func (a Algorithm) String() string {
	return string(a)
}
