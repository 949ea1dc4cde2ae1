package cmd

import (
	"fmt"

	"github.com/illarion/hushpass/internal/keyring"
)

// KeyringSave caches the chain for name in the OS keyring after checking it
func KeyringSave(name string) {
	reg := openRegistry()

	password := GetPasswordOrExit("Password: ")
	defer password.Destroy()

	// Verify password is correct
	if err := reg.Verify(name, password); err != nil {
		password.Destroy()
		HandleError(err)
	}

	storeID, err := reg.StoreID()
	if err != nil {
		password.Destroy()
		HandleError(err)
	}

	if err := keyring.SaveChain(storeID, name, password); err != nil {
		password.Destroy()
		HandleError(fmt.Errorf("failed to save to keyring: %w", err))
	}

	fmt.Println("Password saved to keyring")
}

// KeyringDelete removes the cached chain for name
func KeyringDelete(name string) {
	storeID, err := openRegistry().LookupStoreID()
	if err != nil || !keyring.HasChain(storeID, name) {
		fmt.Println("No password stored in keyring")
		return
	}

	if err := keyring.DeleteChain(storeID, name); err != nil {
		HandleError(err)
	}

	fmt.Println("Password removed from keyring")
}

// KeyringStatus reports whether a chain is cached for name
func KeyringStatus(name string) {
	storeID, err := openRegistry().LookupStoreID()
	if err == nil && keyring.HasChain(storeID, name) {
		fmt.Println("Password: stored in keyring")
		return
	}
	fmt.Println("Password: not stored")
}
