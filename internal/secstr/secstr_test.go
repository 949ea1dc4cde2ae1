package secstr

import (
	"crypto/sha512"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"runtime"
	"strings"
	"testing"
	"time"

	"github.com/zeebo/blake3"
	"golang.org/x/crypto/sha3"
)

// foldSHA512 computes the expected chain with plain string concatenation.
func foldSHA512(input string) string {
	state := ""
	for _, r := range input {
		sum := sha512.Sum512([]byte(state + string(r)))
		state = hex.EncodeToString(sum[:])
	}
	return state
}

func fill(s *SecStr, input string) *SecStr {
	for _, r := range input {
		s.Push(r)
	}
	return s
}

func TestNew_Empty(t *testing.T) {
	s := New()
	defer s.Destroy()

	if s.Len() != 0 {
		t.Errorf("Expected empty buffer, got length %d", s.Len())
	}
	if s.Unsecure() != nil {
		t.Error("Empty buffer should not expose a region")
	}
	if s.Locked() {
		t.Error("Empty buffer should not hold a memory lock")
	}
	if s.Digest() != SHA512 {
		t.Errorf("Default digest mismatch: got %s, want %s", s.Digest(), SHA512)
	}
}

func TestPush_FoldsThroughSHA512(t *testing.T) {
	s := fill(New(), "abc")
	defer s.Destroy()

	want := foldSHA512("abc")
	if got := string(s.Unsecure()); got != want {
		t.Errorf("Chain mismatch:\ngot:  %s\nwant: %s", got, want)
	}
	if string(s.Unsecure()) == "abc" {
		t.Error("Content should be the chain, not the literal input")
	}
	if s.Len() != SHA512.ChainLen() {
		t.Errorf("Length mismatch: got %d, want %d", s.Len(), SHA512.ChainLen())
	}
}

func TestPush_Deterministic(t *testing.T) {
	inputs := []string{"a", "hunter2", "pässwörd", "日本語", strings.Repeat("x", 300)}

	for _, input := range inputs {
		a := fill(New(), input)
		b := fill(New(), input)
		if !a.Equal(b) {
			t.Errorf("Same input %q produced different chains", input)
		}
		if got, want := string(a.Unsecure()), foldSHA512(input); got != want {
			t.Errorf("Chain for %q mismatch: got %s, want %s", input, got, want)
		}
		a.Destroy()
		b.Destroy()
	}
}

func TestPush_OrderMatters(t *testing.T) {
	ab := fill(New(), "ab")
	defer ab.Destroy()
	ba := fill(New(), "ba")
	defer ba.Destroy()

	if ab.Equal(ba) {
		t.Error("Different character order should produce different chains")
	}
}

func TestPush_OtherDigests(t *testing.T) {
	tests := []struct {
		alg  Algorithm
		fold func(state, r string) string
	}{
		{SHA3512, func(state, r string) string {
			sum := sha3.Sum512([]byte(state + r))
			return hex.EncodeToString(sum[:])
		}},
		{BLAKE3, func(state, r string) string {
			sum := blake3.Sum256([]byte(state + r))
			return hex.EncodeToString(sum[:])
		}},
	}

	for _, tt := range tests {
		t.Run(tt.alg.String(), func(t *testing.T) {
			s := fill(NewWithDigest(tt.alg), "xyz")
			defer s.Destroy()

			want := ""
			for _, r := range "xyz" {
				want = tt.fold(want, string(r))
			}
			if got := string(s.Unsecure()); got != want {
				t.Errorf("Chain mismatch: got %s, want %s", got, want)
			}
			if s.Len() != tt.alg.ChainLen() {
				t.Errorf("Length mismatch: got %d, want %d", s.Len(), tt.alg.ChainLen())
			}
		})
	}
}

func TestPush_AfterLongFromBytesClearsTail(t *testing.T) {
	long := []byte(strings.Repeat("p", 300))
	s := FromBytes(long)
	defer s.Destroy()

	view := s.region.mem
	s.Push('q')

	if s.Len() != SHA512.ChainLen() {
		t.Fatalf("Length mismatch: got %d, want %d", s.Len(), SHA512.ChainLen())
	}
	for i := s.Len(); i < 300; i++ {
		if view[i] != 0 {
			t.Fatalf("Byte %d of previous content survived the fold: %q", i, view[i])
		}
	}
}

func TestFromBytes_TakesOwnership(t *testing.T) {
	source := []byte("super-secret-password")
	original := string(source)

	s := FromBytes(source)
	defer s.Destroy()

	if got := string(s.Unsecure()); got != original {
		t.Errorf("Content mismatch: got %q, want %q", got, original)
	}
	for i, v := range source {
		if v != 0 {
			t.Fatalf("Source byte %d was not zeroed: got %d", i, v)
		}
	}
}

func TestFromBytes_Empty(t *testing.T) {
	s := FromBytes(nil)
	defer s.Destroy()

	if s.Len() != 0 || !s.Equal(New()) {
		t.Error("FromBytes(nil) should equal an empty buffer")
	}
}

func TestEqual_LengthMismatch(t *testing.T) {
	a := FromBytes([]byte("abc"))
	defer a.Destroy()
	b := FromBytes([]byte("abcd"))
	defer b.Destroy()

	if a.Equal(b) || b.Equal(a) {
		t.Error("Buffers of different length must not be equal")
	}
}

func TestEqual_ExhaustiveSmall(t *testing.T) {
	alphabet := []byte{0x00, 'a', 0xff}
	var all [][]byte
	all = append(all, []byte{})
	frontier := [][]byte{{}}
	for length := 1; length <= 3; length++ {
		var next [][]byte
		for _, prefix := range frontier {
			for _, c := range alphabet {
				seq := append(append([]byte{}, prefix...), c)
				next = append(next, seq)
			}
		}
		all = append(all, next...)
		frontier = next
	}

	for _, x := range all {
		for _, y := range all {
			a := FromBytes(append([]byte{}, x...))
			b := FromBytes(append([]byte{}, y...))

			want := string(x) == string(y)
			if got := a.Equal(b); got != want {
				t.Errorf("Equal(%v, %v) = %v, want %v", x, y, got, want)
			}

			a.Destroy()
			b.Destroy()
		}
	}
}

func TestFormatting_Redacted(t *testing.T) {
	large := FromBytes([]byte(strings.Repeat("topsecret", 1000)))
	defer large.Destroy()
	folded := fill(New(), "hunter2")
	defer folded.Destroy()
	empty := New()

	for name, s := range map[string]*SecStr{"large": large, "folded": folded, "empty": empty} {
		t.Run(name, func(t *testing.T) {
			content := string(s.Unsecure())
			outputs := []string{
				fmt.Sprint(s),
				fmt.Sprintf("%v", s),
				fmt.Sprintf("%+v", s),
				fmt.Sprintf("%#v", s),
				fmt.Sprintf("%s", s),
				fmt.Sprintf("%q", s),
				fmt.Sprintf("%x", s),
				fmt.Sprintf("%+v", struct{ Password *SecStr }{s}),
				fmt.Sprintf("%v", []*SecStr{s}),
				s.String(),
			}
			for _, out := range outputs {
				if !strings.Contains(out, Redacted) {
					t.Errorf("Expected placeholder in %q", out)
				}
				if content != "" && strings.Contains(out, content) {
					t.Errorf("Formatted output revealed content: %q", out)
				}
			}

			data, err := json.Marshal(map[string]*SecStr{"password": s})
			if err != nil {
				t.Fatalf("json.Marshal failed: %v", err)
			}
			if string(data) != `{"password":"***SECRET***"}` {
				t.Errorf("Unexpected JSON: %s", data)
			}

			text, err := s.MarshalText()
			if err != nil {
				t.Fatalf("MarshalText failed: %v", err)
			}
			if string(text) != Redacted {
				t.Errorf("Unexpected text encoding: %s", text)
			}
		})
	}
}

func TestZeroOut_ClearsInPlace(t *testing.T) {
	s := fill(New(), "secret")
	defer s.Destroy()

	view := s.UnsecureMut()
	length := len(view)
	s.ZeroOut()

	for i, v := range view {
		if v != 0 {
			t.Fatalf("Byte %d not zeroed: got %d", i, v)
		}
	}
	if s.Len() != length {
		t.Errorf("ZeroOut should keep the length: got %d, want %d", s.Len(), length)
	}

	// Idempotent
	s.ZeroOut()
	for i, v := range s.Unsecure() {
		if v != 0 {
			t.Fatalf("Byte %d not zeroed after second ZeroOut: got %d", i, v)
		}
	}
}

func TestUnsecureMut_WritesThrough(t *testing.T) {
	s := FromBytes([]byte("abc"))
	defer s.Destroy()

	s.UnsecureMut()[0] = 'x'
	if got := string(s.Unsecure()); got != "xbc" {
		t.Errorf("Mutation not visible: got %q", got)
	}
}

func TestCopy_Independent(t *testing.T) {
	s := FromBytes([]byte("abc"))
	defer s.Destroy()

	c := s.Copy()
	c[0] = 'z'
	if got := string(s.Unsecure()); got != "abc" {
		t.Errorf("Copy aliases the buffer: got %q", got)
	}
	if got := string(c); got != "zbc" {
		t.Errorf("Copy content mismatch: got %q", got)
	}
}

func TestDestroy_Idempotent(t *testing.T) {
	s := fill(New(), "abc")
	s.Destroy()

	if s.Len() != 0 || s.Unsecure() != nil || s.Locked() {
		t.Error("Destroyed buffer should be empty and unlocked")
	}

	s.Destroy()

	// Empty buffers are safe to destroy too.
	New().Destroy()
	var nilBuf *SecStr
	nilBuf.Destroy()
}

// alias returns a second SecStr sharing s's region, the state a by-value
// copy would be in.
func alias(s *SecStr) *SecStr {
	return &SecStr{digest: s.digest, region: s.region, n: s.n}
}

func TestReleasedRegion_ReadsEmpty(t *testing.T) {
	s := fill(New(), "abc")
	shared := alias(s)

	s.Destroy()

	if shared.Len() != 0 || shared.Unsecure() != nil || shared.Locked() {
		t.Error("A buffer whose region was released should read as empty")
	}
	if !shared.Equal(New()) {
		t.Error("A released buffer should equal an empty one")
	}
	shared.ZeroOut()

	shared.Push('c')
	defer shared.Destroy()
	want := fill(New(), "c")
	defer want.Destroy()
	if !shared.Equal(want) {
		t.Error("Push after release should start a new chain")
	}
}

func TestReleasedRegion_AfterCollection(t *testing.T) {
	s := fill(New(), "a")
	shared := alias(s)
	s = nil

	for i := 0; i < 100 && shared.Len() != 0; i++ {
		runtime.GC()
		time.Sleep(time.Millisecond)
	}
	if shared.Len() != 0 {
		t.Skip("cleanup did not run")
	}

	_ = shared.Unsecure()
	_ = shared.Len()
	_ = shared.Equal(New())
	shared.ZeroOut()
	shared.Push('b')
	if shared.Len() != SHA512.ChainLen() {
		t.Errorf("Length mismatch after Push: got %d", shared.Len())
	}
	shared.Destroy()
}

func TestRegion_LockedOnceAtFirstPush(t *testing.T) {
	s := New()
	defer s.Destroy()

	s.Push('a')
	first := s.region
	s.Push('b')
	s.Push('c')

	if s.region != first {
		t.Error("Push should reuse the region allocated by the first Push")
	}
}

func TestParseAlgorithm(t *testing.T) {
	tests := []struct {
		input string
		want  Algorithm
	}{
		{"", SHA512},
		{"sha512", SHA512},
		{"sha3-512", SHA3512},
		{"blake3", BLAKE3},
	}
	for _, tt := range tests {
		got, err := ParseAlgorithm(tt.input)
		if err != nil {
			t.Errorf("ParseAlgorithm(%q) failed: %v", tt.input, err)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseAlgorithm(%q) = %s, want %s", tt.input, got, tt.want)
		}
	}

	if _, err := ParseAlgorithm("md5"); !errors.Is(err, ErrUnknownAlgorithm) {
		t.Errorf("Expected ErrUnknownAlgorithm, got %v", err)
	}
}
