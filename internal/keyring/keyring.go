package keyring

import (
	"errors"

	"github.com/zalando/go-keyring"

	"github.com/illarion/hushpass/internal/secstr"
)

const serviceName = "hushpass"

// ErrNotFound is returned when no chain is cached for a name
var ErrNotFound = keyring.ErrNotFound

func account(storeID, name string) string {
	return storeID + "/" + name
}

// SaveChain stores a password chain in the OS keyring
func SaveChain(storeID, name string, password *secstr.SecStr) error {
	return keyring.Set(serviceName, account(storeID, name), string(password.Unsecure()))
}

// GetChain retrieves a cached chain. The result has the given digest and
// must be destroyed by the caller.
func GetChain(storeID, name string, digest secstr.Algorithm) (*secstr.SecStr, error) {
	value, err := keyring.Get(serviceName, account(storeID, name))
	if err != nil {
		return nil, err
	}
	return secstr.FromBytesWithDigest([]byte(value), digest), nil
}

// DeleteChain removes a cached chain. A missing entry is not an error.
func DeleteChain(storeID, name string) error {
	err := keyring.Delete(serviceName, account(storeID, name))
	if errors.Is(err, keyring.ErrNotFound) {
		return nil
	}
	return err
}

// HasChain checks if a chain is cached for name
func HasChain(storeID, name string) bool {
	_, err := keyring.Get(serviceName, account(storeID, name))
	return err == nil
}
