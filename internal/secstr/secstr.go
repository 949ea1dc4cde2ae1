package secstr

import (
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"runtime"
	"unicode/utf8"

	"github.com/illarion/hushpass/internal/crypto"
)

// Redacted is what a SecStr renders as under any formatting path.
const Redacted = "***SECRET***"

// noCopy lets go vet's copylocks check flag SecStr values copied by
// value. A copy would share the region with the original.
type noCopy struct{}

func (*noCopy) Lock()   {}
func (*noCopy) Unlock() {}

// SecStr holds secret bytes in a locked region that is zeroed on Destroy.
// The zero value is an empty buffer using DefaultAlgorithm. Use it through
// a pointer only.
//
// A SecStr is not safe for concurrent use.
type SecStr struct {
	noCopy noCopy

	digest  Algorithm
	region  *region
	n       int
	cleanup runtime.Cleanup
}

// New returns an empty buffer. No memory is allocated or locked until
// content first exists.
func New() *SecStr {
	return &SecStr{digest: DefaultAlgorithm}
}

// NewWithDigest returns an empty buffer that folds with the given digest.
func NewWithDigest(digest Algorithm) *SecStr {
	return &SecStr{digest: digest}
}

// FromBytes takes ownership of b: the bytes are copied into a locked region
// and b is zeroed in place.
func FromBytes(b []byte) *SecStr {
	return FromBytesWithDigest(b, DefaultAlgorithm)
}

// FromBytesWithDigest is FromBytes for content that is a chain of the given
// digest, so that later pushes continue that chain.
func FromBytesWithDigest(b []byte, digest Algorithm) *SecStr {
	s := NewWithDigest(digest)
	if len(b) == 0 {
		return s
	}
	s.allocate(len(b))
	s.n = copy(s.region.mem, b)
	crypto.ClearBytes(b)
	return s
}

func (s *SecStr) allocate(contentLen int) {
	size := contentLen
	if size < 2*maxDigestSize {
		size = 2 * maxDigestSize
	}
	s.region = newRegion(size)
	s.cleanup = runtime.AddCleanup(s, (*region).release, s.region)
}

// Digest reports the algorithm used by Push.
func (s *SecStr) Digest() Algorithm {
	if s.digest == "" {
		return DefaultAlgorithm
	}
	return s.digest
}

// Push appends one character and folds the result through the digest:
// the new content is the lowercase hex digest of the old content followed
// by the UTF-8 encoding of r. The first Push allocates and locks the region.
func (s *SecStr) Push(r rune) {
	if !s.live() {
		s.n = 0
		s.allocate(0)
	}

	var unit [utf8.UTFMax]byte
	size := utf8.EncodeRune(unit[:], r)

	h := s.Digest().New()
	h.Write(s.region.mem[:s.n])
	h.Write(unit[:size])

	var scratch [maxDigestSize]byte
	sum := h.Sum(scratch[:0])
	n := hex.Encode(s.region.mem, sum)
	if n < s.n {
		crypto.ClearBytes(s.region.mem[n:s.n])
	}
	s.n = n

	crypto.ClearBytes(sum)
	crypto.ClearBytes(unit[:])
	h.Reset()
}

// Unsecure borrows the content. The slice aliases the locked region: do not
// keep it past Destroy, and do not append to it.
func (s *SecStr) Unsecure() []byte {
	if !s.live() {
		return nil
	}
	return s.region.mem[:s.n:s.n]
}

// UnsecureMut borrows the content for in-place modification.
func (s *SecStr) UnsecureMut() []byte {
	return s.Unsecure()
}

// Copy returns an independent, unprotected copy of the content. The caller
// owns it and should clear it when done.
func (s *SecStr) Copy() []byte {
	out := make([]byte, s.Len())
	copy(out, s.Unsecure())
	return out
}

// live reports whether s has a region that has not been released.
func (s *SecStr) live() bool {
	return s != nil && s.region != nil && s.region.mem != nil
}

// Len returns the content length.
func (s *SecStr) Len() int {
	if !s.live() {
		return 0
	}
	return s.n
}

// Locked reports whether the backing region is currently held by mlock.
func (s *SecStr) Locked() bool {
	return s != nil && s.region != nil && s.region.locked
}

// ZeroOut overwrites the content with zeros in place. The length is kept.
func (s *SecStr) ZeroOut() {
	if !s.live() {
		return
	}
	s.region.wipe()
}

// Destroy zeroes the region, releases the memory lock and the mapping, and
// leaves s empty. Calling it again is a no-op.
func (s *SecStr) Destroy() {
	if s == nil || s.region == nil {
		return
	}
	s.cleanup.Stop()
	s.region.release()
	s.region = nil
	s.n = 0
}

// Equal compares the contents in constant time. Buffers of different length
// are unequal without inspecting any byte.
func (s *SecStr) Equal(other *SecStr) bool {
	return crypto.ConstantTimeCompare(s.Unsecure(), other.Unsecure())
}

// String implements fmt.Stringer.
func (s *SecStr) String() string { return Redacted }

// GoString implements fmt.GoStringer for %#v.
func (s *SecStr) GoString() string { return Redacted }

// Format implements fmt.Formatter so that every verb is redacted.
func (s *SecStr) Format(f fmt.State, _ rune) {
	_, _ = io.WriteString(f, Redacted)
}

// MarshalJSON redacts secrets in JSON output.
func (s *SecStr) MarshalJSON() ([]byte, error) { return json.Marshal(Redacted) }

// MarshalText redacts secrets for text encoders.
func (s *SecStr) MarshalText() ([]byte, error) { return []byte(Redacted), nil }
