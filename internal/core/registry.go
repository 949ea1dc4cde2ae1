package core

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/illarion/hushpass/internal/crypto"
	"github.com/illarion/hushpass/internal/logging"
	"github.com/illarion/hushpass/internal/secstr"
	"github.com/illarion/hushpass/internal/security"
	"github.com/illarion/hushpass/internal/storage"
)

const passwordCheckString = "hushpass-password-check"

var (
	ErrNotInitialized   = errors.New("verifier store not initialized")
	ErrNotEnrolled      = errors.New("name not enrolled")
	ErrAlreadyEnrolled  = errors.New("name already enrolled")
	ErrWrongPassword    = errors.New("wrong password")
	ErrPasswordRequired = errors.New("password required")
	ErrDigestMismatch   = errors.New("password digest does not match enrollment")
)

// Entry is the public part of a verifier record.
type Entry struct {
	Name     string
	Digest   string
	KDF      string
	Created  time.Time
	Modified time.Time
}

// Registry manages password verifiers kept in a bbolt store. The store
// is opened for the duration of each operation only, so several
// processes can take turns on the same file.
type Registry struct {
	path   string
	params crypto.KDFParams
}

// New creates a Registry over the store at path. params apply to new
// enrollments; existing records keep the parameters they were made with.
func New(path string, params crypto.KDFParams) *Registry {
	return &Registry{
		path:   path,
		params: params,
	}
}

// Path returns the store location
func (r *Registry) Path() string {
	return r.path
}

// open opens the store, creating and initializing it when create is set
func (r *Registry) open(create bool) (*storage.Storage, error) {
	if !create {
		if _, err := os.Stat(r.path); err != nil {
			return nil, ErrNotInitialized
		}
	}

	db, err := storage.Open(r.path)
	if err != nil {
		return nil, err
	}

	if create {
		if err := db.Initialize(); err != nil {
			db.Close()
			return nil, fmt.Errorf("failed to initialize store: %w", err)
		}
		return db, nil
	}

	initialized, err := db.IsInitialized()
	if err != nil || !initialized {
		db.Close()
		return nil, ErrNotInitialized
	}
	return db, nil
}

// Enroll stores a verifier for name derived from the password's chain.
func (r *Registry) Enroll(name string, password *secstr.SecStr) error {
	if err := security.ValidateName(name); err != nil {
		return err
	}
	if password.Len() == 0 {
		return ErrPasswordRequired
	}

	db, err := r.open(true)
	if err != nil {
		return err
	}
	defer db.Close()

	exists, err := db.HasRecord(name)
	if err != nil {
		return fmt.Errorf("failed to look up %s: %w", name, err)
	}
	if exists {
		return fmt.Errorf("%w: %s", ErrAlreadyEnrolled, name)
	}

	record := storage.NewRecord(name)
	if err := r.seal(record, password); err != nil {
		return err
	}

	if err := db.PutRecord(record); err != nil {
		return fmt.Errorf("failed to store verifier: %w", err)
	}
	logging.Debugf("enrolled %s (%s, %s)", name, record.Digest, record.KDF)
	return nil
}

// seal fills the record's KDF fields and verifier from password using a
// fresh salt.
func (r *Registry) seal(record *storage.Record, password *secstr.SecStr) error {
	kdf, err := crypto.NewKDF(r.params)
	if err != nil {
		return fmt.Errorf("failed to create KDF: %w", err)
	}

	key := kdf.DeriveKey(password.Unsecure())
	enc := crypto.NewEncryptor(key)
	defer enc.Destroy()

	verifier, err := enc.Encrypt([]byte(passwordCheckString), []byte(record.Name))
	if err != nil {
		return fmt.Errorf("failed to seal verifier: %w", err)
	}

	record.Digest = password.Digest().String()
	record.KDF = kdf.Algorithm
	record.Salt = kdf.Salt
	record.Iterations = kdf.Iterations
	record.MemoryKiB = kdf.MemoryKiB
	record.Threads = kdf.Threads
	record.Verifier = verifier
	return nil
}

// check derives the key for record from password and opens the verifier
func check(record *storage.Record, password *secstr.SecStr) error {
	if record.Digest != password.Digest().String() {
		return fmt.Errorf("%w: %s was enrolled with %s", ErrDigestMismatch, record.Name, record.Digest)
	}

	kdf := &crypto.KDF{
		Salt: record.Salt,
		KDFParams: crypto.KDFParams{
			Algorithm:  record.KDF,
			Iterations: record.Iterations,
			MemoryKiB:  record.MemoryKiB,
			Threads:    record.Threads,
		},
	}
	if err := kdf.Validate(); err != nil {
		return fmt.Errorf("corrupt record %s: %w", record.Name, err)
	}

	enc := crypto.NewEncryptor(kdf.DeriveKey(password.Unsecure()))
	defer enc.Destroy()

	plaintext, err := enc.Decrypt(record.Verifier, []byte(record.Name))
	if err != nil {
		return ErrWrongPassword
	}
	defer crypto.ClearBytes(plaintext)

	if !crypto.ConstantTimeCompare(plaintext, []byte(passwordCheckString)) {
		return ErrWrongPassword
	}
	return nil
}

func (r *Registry) getRecord(db *storage.Storage, name string) (*storage.Record, error) {
	record, err := db.GetRecord(name)
	if errors.Is(err, storage.ErrRecordNotFound) {
		return nil, fmt.Errorf("%w: %s", ErrNotEnrolled, name)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read verifier: %w", err)
	}
	return record, nil
}

// Verify checks password against the verifier enrolled for name.
// It returns ErrWrongPassword on mismatch and ErrNotEnrolled if name has
// no verifier.
func (r *Registry) Verify(name string, password *secstr.SecStr) error {
	db, err := r.open(false)
	if errors.Is(err, ErrNotInitialized) {
		return fmt.Errorf("%w: %s", ErrNotEnrolled, name)
	}
	if err != nil {
		return err
	}
	defer db.Close()

	record, err := r.getRecord(db, name)
	if err != nil {
		return err
	}
	return check(record, password)
}

// ChangePassword replaces the verifier for name after checking the
// current password. The new verifier uses the registry's KDF parameters
// and a new salt.
func (r *Registry) ChangePassword(name string, current, next *secstr.SecStr) error {
	if next.Len() == 0 {
		return ErrPasswordRequired
	}

	db, err := r.open(false)
	if err != nil {
		return err
	}
	defer db.Close()

	record, err := r.getRecord(db, name)
	if err != nil {
		return err
	}
	if err := check(record, current); err != nil {
		return err
	}

	if err := r.seal(record, next); err != nil {
		return err
	}
	record.Touch()

	if err := db.PutRecord(record); err != nil {
		return fmt.Errorf("failed to store verifier: %w", err)
	}
	return nil
}

// Forget removes the verifier for name
func (r *Registry) Forget(name string) error {
	db, err := r.open(false)
	if err != nil {
		return err
	}
	defer db.Close()

	if err := db.DeleteRecord(name); err != nil {
		if errors.Is(err, storage.ErrRecordNotFound) {
			return fmt.Errorf("%w: %s", ErrNotEnrolled, name)
		}
		return fmt.Errorf("failed to delete verifier: %w", err)
	}
	return nil
}

// List returns every enrollment without its secret fields. A store that
// does not exist yet lists as empty.
func (r *Registry) List() ([]Entry, error) {
	db, err := r.open(false)
	if errors.Is(err, ErrNotInitialized) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	defer db.Close()

	records, err := db.ListRecords()
	if err != nil {
		return nil, fmt.Errorf("failed to list verifiers: %w", err)
	}

	entries := make([]Entry, len(records))
	for i, rec := range records {
		entries[i] = Entry{
			Name:     rec.Name,
			Digest:   rec.Digest,
			KDF:      rec.KDF,
			Created:  rec.Created,
			Modified: rec.Modified,
		}
	}
	return entries, nil
}

// StoreID returns the store's random id, creating the store and the id on
// first use. Keyring entries are scoped by it.
func (r *Registry) StoreID() (string, error) {
	db, err := r.open(true)
	if err != nil {
		return "", err
	}
	defer db.Close()

	return db.GetOrCreateStoreID()
}

// LookupStoreID returns the store's id without creating anything. It
// returns ErrNotInitialized if the store or the id does not exist yet.
func (r *Registry) LookupStoreID() (string, error) {
	db, err := r.open(false)
	if err != nil {
		return "", err
	}
	defer db.Close()

	storeID, err := db.GetStoreID()
	if err != nil {
		return "", ErrNotInitialized
	}
	return storeID, nil
}

// Compact compacts the store to reclaim unused space.
// This is useful after forgetting many names.
func (r *Registry) Compact() error {
	db, err := r.open(false)
	if err != nil {
		return err
	}
	defer db.Close()

	return db.Compact()
}
