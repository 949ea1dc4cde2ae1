package prompt

import (
	"errors"
	"io"
	"unicode/utf8"

	"github.com/illarion/hushpass/internal/crypto"
)

var errInvalidUTF8 = errors.New("invalid UTF-8 input")

// runeReader decodes one rune at a time, pulling a single byte per Read so
// that no typed bytes sit in a read-ahead buffer. Bytes are cleared from
// the scratch array as soon as they are consumed.
type runeReader struct {
	in  io.Reader
	buf [utf8.UTFMax]byte
	n   int
}

func (rr *runeReader) next() (rune, error) {
	for !utf8.FullRune(rr.buf[:rr.n]) {
		if _, err := io.ReadFull(rr.in, rr.buf[rr.n:rr.n+1]); err != nil {
			pending := rr.n
			rr.drop(rr.n)
			if err == io.EOF && pending > 0 {
				return utf8.RuneError, errInvalidUTF8
			}
			return 0, err
		}
		rr.n++
	}

	r, size := utf8.DecodeRune(rr.buf[:rr.n])
	rr.drop(size)
	if r == utf8.RuneError && size == 1 {
		return r, errInvalidUTF8
	}
	return r, nil
}

// drop discards the first k buffered bytes. Bytes after an invalid lead
// byte stay buffered so a following newline is not lost.
func (rr *runeReader) drop(k int) {
	copy(rr.buf[:], rr.buf[k:rr.n])
	rr.n -= k
	crypto.ClearBytes(rr.buf[rr.n:])
}
