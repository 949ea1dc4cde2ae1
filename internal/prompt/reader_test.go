package prompt

import (
	"bytes"
	"errors"
	"io"
	"strings"
	"testing"

	clog "github.com/charmbracelet/log"

	"github.com/illarion/hushpass/internal/logging"
	"github.com/illarion/hushpass/internal/secstr"
	"github.com/illarion/hushpass/internal/terminal"
)

// fakeTerminal tracks echo flags the way a tty driver would.
type fakeTerminal struct {
	echo   bool
	echoNL bool

	saved      [2]bool
	disableErr error
	restoreErr error
	disabled   int
	restored   int
}

func newFakeTerminal() *fakeTerminal {
	return &fakeTerminal{echo: true}
}

func (f *fakeTerminal) DisableEcho() (*terminal.State, error) {
	if f.disableErr != nil {
		return nil, f.disableErr
	}
	f.disabled++
	f.saved = [2]bool{f.echo, f.echoNL}
	f.echo = false
	f.echoNL = true
	return &terminal.State{}, nil
}

func (f *fakeTerminal) Restore(*terminal.State) error {
	f.restored++
	if f.restoreErr != nil {
		return f.restoreErr
	}
	f.echo, f.echoNL = f.saved[0], f.saved[1]
	return nil
}

// echoWatcher fails the test if input is consumed while echo is on.
type echoWatcher struct {
	t    *testing.T
	term *fakeTerminal
	in   io.Reader
}

func (w *echoWatcher) Read(p []byte) (int, error) {
	if w.term.echo {
		w.t.Error("Input read while echo was enabled")
	}
	return w.in.Read(p)
}

// scriptedReader returns errs in order, then reads from rest.
type scriptedReader struct {
	errs []error
	rest io.Reader
}

func (s *scriptedReader) Read(p []byte) (int, error) {
	if len(s.errs) > 0 {
		err := s.errs[0]
		s.errs = s.errs[1:]
		return 0, err
	}
	return s.rest.Read(p)
}

func chain(input string) *secstr.SecStr {
	s := secstr.New()
	for _, r := range input {
		s.Push(r)
	}
	return s
}

func readWith(t *testing.T, input string, opts Options) (*secstr.SecStr, string, *fakeTerminal) {
	t.Helper()
	term := newFakeTerminal()
	var notices bytes.Buffer
	opts.Notices = &notices

	reader := New(term, &echoWatcher{t: t, term: term, in: strings.NewReader(input)}, opts)
	password, err := reader.Read()
	if err != nil {
		t.Fatalf("Read failed: %v", err)
	}
	return password, notices.String(), term
}

func assertRestored(t *testing.T, term *fakeTerminal) {
	t.Helper()
	if !term.echo || term.echoNL {
		t.Errorf("Terminal not restored: echo=%v echoNL=%v", term.echo, term.echoNL)
	}
	if term.restored != term.disabled {
		t.Errorf("Restore count %d does not match DisableEcho count %d", term.restored, term.disabled)
	}
}

func TestRead_FoldsCharacters(t *testing.T) {
	password, notices, term := readWith(t, "abc\n", Options{})
	defer password.Destroy()

	want := chain("abc")
	defer want.Destroy()

	if !password.Equal(want) {
		t.Error("Read result should equal the fold chain of a, b, c")
	}
	if string(password.Unsecure()) == "abc" {
		t.Error("Read result should not be the literal input")
	}
	if notices != "" {
		t.Errorf("Unexpected notices: %q", notices)
	}
	assertRestored(t, term)
}

func TestRead_AbortDiscardsInput(t *testing.T) {
	aborted, notices, term := readWith(t, "ab\bc\n", Options{})
	defer aborted.Destroy()
	plain, _, _ := readWith(t, "c\n", Options{})
	defer plain.Destroy()

	if !aborted.Equal(plain) {
		t.Error("Input before the abort key should be discarded")
	}
	if notices != DefaultRetypeNotice+"\n" {
		t.Errorf("Notice mismatch: got %q, want %q", notices, DefaultRetypeNotice+"\n")
	}
	assertRestored(t, term)
}

func TestRead_EmptyLine(t *testing.T) {
	password, _, term := readWith(t, "\n", Options{})
	defer password.Destroy()

	if password.Len() != 0 {
		t.Errorf("Expected empty password, got length %d", password.Len())
	}
	if !password.Equal(secstr.New()) {
		t.Error("Empty line should equal a freshly created buffer")
	}
	assertRestored(t, term)
}

func TestRead_StopsAtNewline(t *testing.T) {
	term := newFakeTerminal()
	in := strings.NewReader("pw\nleftover")

	password, err := New(term, in, Options{Notices: io.Discard}).Read()
	if err != nil {
		t.Fatalf("Read failed: %v", err)
	}
	defer password.Destroy()

	if in.Len() != len("leftover") {
		t.Errorf("Read consumed past the newline: %d bytes left", in.Len())
	}
}

func TestRead_EOFCompletes(t *testing.T) {
	password, _, term := readWith(t, "abc", Options{})
	defer password.Destroy()

	want := chain("abc")
	defer want.Destroy()
	if !password.Equal(want) {
		t.Error("End of input should complete the read with what was typed")
	}
	assertRestored(t, term)
}

func TestRead_MultiByteCharacters(t *testing.T) {
	password, _, _ := readWith(t, "pässwörd€\n", Options{})
	defer password.Destroy()

	want := chain("pässwörd€")
	defer want.Destroy()
	if !password.Equal(want) {
		t.Error("Multi-byte characters should be folded as whole characters")
	}
}

func TestRead_InvalidUTF8Resets(t *testing.T) {
	password, notices, term := readWith(t, "ab\xffc\n", Options{})
	defer password.Destroy()

	want := chain("c")
	defer want.Destroy()
	if !password.Equal(want) {
		t.Error("Undecodable input should discard what was typed before it")
	}
	if notices != DefaultInputNotice+"\n" {
		t.Errorf("Notice mismatch: got %q", notices)
	}
	assertRestored(t, term)
}

func TestRead_TruncatedSequenceKeepsNewline(t *testing.T) {
	term := newFakeTerminal()
	in := strings.NewReader("x\xe2\x82\nrest")

	password, err := New(term, in, Options{Notices: io.Discard}).Read()
	if err != nil {
		t.Fatalf("Read failed: %v", err)
	}
	defer password.Destroy()

	if password.Len() != 0 {
		t.Errorf("Expected empty password after decode errors, got length %d", password.Len())
	}
	if in.Len() != len("rest") {
		t.Errorf("Newline after a truncated sequence was lost: %d bytes left", in.Len())
	}
}

func TestRead_TransientReadFailure(t *testing.T) {
	term := newFakeTerminal()
	var notices bytes.Buffer
	in := &scriptedReader{
		errs: []error{errors.New("EINTR")},
		rest: strings.NewReader("c\n"),
	}

	password, err := New(term, in, Options{Notices: &notices}).Read()
	if err != nil {
		t.Fatalf("Read failed: %v", err)
	}
	defer password.Destroy()

	want := chain("c")
	defer want.Destroy()
	if !password.Equal(want) {
		t.Error("Read should recover from a single failed read")
	}
	if notices.String() != DefaultInputNotice+"\n" {
		t.Errorf("Notice mismatch: got %q", notices.String())
	}
	assertRestored(t, term)
}

func TestRead_PersistentReadFailure(t *testing.T) {
	term := newFakeTerminal()
	ioErr := errors.New("input/output error")
	in := &scriptedReader{
		errs: []error{ioErr, ioErr, ioErr, ioErr},
		rest: strings.NewReader("never\n"),
	}

	password, err := New(term, in, Options{Notices: io.Discard, MaxReadFailures: 3}).Read()
	if password != nil {
		t.Error("Expected no password on persistent failure")
	}
	if !errors.Is(err, ErrInput) || !errors.Is(err, ioErr) {
		t.Fatalf("Expected ErrInput wrapping the read error, got %v", err)
	}
	var readErr *ReadError
	if !errors.As(err, &readErr) || readErr.Failures != 3 {
		t.Errorf("Expected *ReadError with 3 failures, got %v", err)
	}
	assertRestored(t, term)
}

func TestRead_DisableEchoFails(t *testing.T) {
	term := newFakeTerminal()
	term.disableErr = terminal.ErrNotTerminal
	in := strings.NewReader("abc\n")

	password, err := New(term, in, Options{Notices: io.Discard}).Read()
	if password != nil {
		t.Error("Expected no password when echo cannot be disabled")
	}
	if !errors.Is(err, ErrTerminal) || !errors.Is(err, terminal.ErrNotTerminal) {
		t.Fatalf("Expected ErrTerminal wrapping ErrNotTerminal, got %v", err)
	}
	var attrErr *AttributeError
	if !errors.As(err, &attrErr) {
		t.Errorf("Expected *AttributeError, got %T", err)
	}
	if in.Len() != len("abc\n") {
		t.Error("Input should not be consumed when echo cannot be disabled")
	}
	if term.restored != 0 {
		t.Error("Nothing should be restored when nothing was applied")
	}
	if !term.echo {
		t.Error("Terminal state should be unchanged")
	}
}

func TestRead_RestoreFailureKeepsPassword(t *testing.T) {
	var logs bytes.Buffer
	logger := logging.New(&logs)
	logger.SetLevel(clog.DebugLevel)

	term := newFakeTerminal()
	term.restoreErr = errors.New("tcsetattr failed")

	reader := New(term, strings.NewReader("abc\n"), Options{Notices: io.Discard, Logger: logger})
	password, err := reader.Read()
	if err != nil {
		t.Fatalf("Read should succeed despite restore failure: %v", err)
	}
	defer password.Destroy()

	if password.Len() == 0 {
		t.Error("Password should be kept when restore fails")
	}
	if !errors.Is(reader.RestoreErr(), ErrRestore) {
		t.Errorf("Expected ErrRestore, got %v", reader.RestoreErr())
	}
	if !strings.Contains(logs.String(), "not restored") {
		t.Errorf("Expected a warning in the log, got %q", logs.String())
	}
	if strings.Contains(logs.String(), string(password.Unsecure())) {
		t.Error("Log output revealed the password")
	}
}

func TestRead_CustomOptions(t *testing.T) {
	password, notices, _ := readWith(t, "ab!c\n", Options{
		AbortRune:    '!',
		Digest:       secstr.BLAKE3,
		RetypeNotice: "again",
	})
	defer password.Destroy()

	want := secstr.NewWithDigest(secstr.BLAKE3)
	want.Push('c')
	defer want.Destroy()

	if !password.Equal(want) {
		t.Error("Custom abort key and digest should be honoured")
	}
	if password.Digest() != secstr.BLAKE3 {
		t.Errorf("Digest mismatch: got %s", password.Digest())
	}
	if notices != "again\n" {
		t.Errorf("Notice mismatch: got %q", notices)
	}
}

func TestRead_ReaderIsReusable(t *testing.T) {
	term := newFakeTerminal()
	reader := New(term, strings.NewReader("one\ntwo\n"), Options{Notices: io.Discard})

	first, err := reader.Read()
	if err != nil {
		t.Fatalf("First Read failed: %v", err)
	}
	defer first.Destroy()
	second, err := reader.Read()
	if err != nil {
		t.Fatalf("Second Read failed: %v", err)
	}
	defer second.Destroy()

	wantTwo := chain("two")
	defer wantTwo.Destroy()
	if !second.Equal(wantTwo) {
		t.Error("Second read should see only the second line")
	}
	if term.disabled != 2 {
		t.Errorf("Expected 2 DisableEcho calls, got %d", term.disabled)
	}
	assertRestored(t, term)
}
