package crypto

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"crypto/subtle"
	"errors"
	"fmt"
	"runtime"

	"golang.org/x/crypto/argon2"
	"golang.org/x/crypto/pbkdf2"
)

const (
	SaltSize     = 32     // Salt size in bytes
	KeySize      = 32     // AES-256 key size
	NonceSize    = 12     // GCM nonce size
	TagSize      = 16     // GCM authentication tag size
	DefaultIters = 210000 // Default PBKDF2 iterations (OWASP minimum)

	// Argon2id defaults (RFC 9106 second recommended option)
	DefaultArgonTime    = 3
	DefaultArgonMemory  = 64 * 1024 // KiB
	DefaultArgonThreads = 4
)

// KDF algorithm names as stored in verifier records and config files.
const (
	PBKDF2   = "pbkdf2"
	Argon2ID = "argon2id"
)

var (
	ErrInvalidCiphertext = errors.New("invalid ciphertext")
	ErrAuthFailed        = errors.New("authentication failed")
	ErrUnknownKDF        = errors.New("unknown key derivation function")
)

// KDFParams describes how a key is stretched from a password.
// Iterations is the PBKDF2 round count, or the Argon2id time cost.
type KDFParams struct {
	Algorithm  string
	Iterations uint32
	MemoryKiB  uint32
	Threads    uint8
}

// DefaultKDFParams returns PBKDF2-HMAC-SHA256 with the OWASP iteration count
func DefaultKDFParams() KDFParams {
	return KDFParams{
		Algorithm:  PBKDF2,
		Iterations: DefaultIters,
	}
}

// Validate checks that the parameters name a known algorithm with usable costs
func (p KDFParams) Validate() error {
	switch p.Algorithm {
	case PBKDF2:
		if p.Iterations == 0 {
			return fmt.Errorf("pbkdf2 iterations must be positive")
		}
	case Argon2ID:
		if p.Iterations == 0 || p.MemoryKiB == 0 || p.Threads == 0 {
			return fmt.Errorf("argon2id time, memory and threads must be positive")
		}
	default:
		return fmt.Errorf("%w: %q", ErrUnknownKDF, p.Algorithm)
	}
	return nil
}

// KDF handles key derivation from passwords
type KDF struct {
	Salt []byte
	KDFParams
}

// NewKDF creates a new KDF with a random salt
func NewKDF(params KDFParams) (*KDF, error) {
	if err := params.Validate(); err != nil {
		return nil, err
	}

	salt, err := GenerateRandom(SaltSize)
	if err != nil {
		return nil, fmt.Errorf("failed to generate salt: %w", err)
	}

	return &KDF{
		Salt:      salt,
		KDFParams: params,
	}, nil
}

// DeriveKey derives an encryption key from a password
func (k *KDF) DeriveKey(password []byte) []byte {
	if k.Algorithm == Argon2ID {
		return argon2.IDKey(password, k.Salt, k.Iterations, k.MemoryKiB, k.Threads, KeySize)
	}
	return pbkdf2.Key(password, k.Salt, int(k.Iterations), KeySize, sha256.New)
}

// Encryptor provides authenticated encryption
type Encryptor struct {
	key []byte
}

// NewEncryptor creates a new encryptor with the given key
func NewEncryptor(key []byte) *Encryptor {
	return &Encryptor{
		key: key,
	}
}

// Encrypt encrypts plaintext using AES-256-GCM. The additional data is
// authenticated but not stored; Decrypt must be given the same value.
func (e *Encryptor) Encrypt(plaintext, additionalData []byte) ([]byte, error) {
	gcm, err := e.aead()
	if err != nil {
		return nil, err
	}

	nonce, err := GenerateRandom(NonceSize)
	if err != nil {
		return nil, fmt.Errorf("failed to generate nonce: %w", err)
	}

	// nonce || ciphertext || tag
	result := make([]byte, NonceSize, NonceSize+len(plaintext)+TagSize)
	copy(result, nonce)
	return gcm.Seal(result, nonce, plaintext, additionalData), nil
}

// Decrypt decrypts ciphertext using AES-256-GCM
func (e *Encryptor) Decrypt(ciphertext, additionalData []byte) ([]byte, error) {
	if len(ciphertext) < NonceSize+TagSize {
		return nil, ErrInvalidCiphertext
	}

	gcm, err := e.aead()
	if err != nil {
		return nil, err
	}

	plaintext, err := gcm.Open(nil, ciphertext[:NonceSize], ciphertext[NonceSize:], additionalData)
	if err != nil {
		return nil, ErrAuthFailed
	}

	return plaintext, nil
}

func (e *Encryptor) aead() (cipher.AEAD, error) {
	block, err := aes.NewCipher(e.key)
	if err != nil {
		return nil, fmt.Errorf("failed to create cipher: %w", err)
	}

	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return nil, fmt.Errorf("failed to create GCM: %w", err)
	}
	return gcm, nil
}

// Destroy clears the encryptor's key from memory
func (e *Encryptor) Destroy() {
	ClearBytes(e.key)
}

// ClearBytes overwrites a byte slice with zeros. The KeepAlive keeps the
// stores from being dropped as dead writes.
func ClearBytes(b []byte) {
	for i := range b {
		b[i] = 0
	}
	runtime.KeepAlive(b)
}

// ConstantTimeCompare reports whether a and b are equal. Unequal lengths
// return false at once; equal lengths are compared without early exit.
func ConstantTimeCompare(a, b []byte) bool {
	return subtle.ConstantTimeCompare(a, b) == 1
}

// GenerateRandom generates n random bytes
func GenerateRandom(n int) ([]byte, error) {
	b := make([]byte, n)
	if _, err := rand.Read(b); err != nil {
		return nil, fmt.Errorf("failed to generate random bytes: %w", err)
	}
	return b, nil
}
