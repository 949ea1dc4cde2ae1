package cmd

import (
	"fmt"

	"github.com/illarion/hushpass/internal/keyring"
	"github.com/illarion/hushpass/internal/logging"
)

// Enroll stores a verifier for a new name
func Enroll(name string, saveToKeyring bool) {
	reg := openRegistry()

	password, err := GetPasswordForEnroll()
	if err != nil {
		HandleError(err)
	}
	defer password.Destroy()

	if err := reg.Enroll(name, password); err != nil {
		password.Destroy()
		HandleError(err)
	}
	fmt.Printf("✓ Enrolled %s\n", name)

	if !saveToKeyring {
		return
	}
	storeID, err := reg.StoreID()
	if err != nil {
		HandleError(err)
	}
	if err := keyring.SaveChain(storeID, name, password); err != nil {
		logging.Warnf("failed to save to keyring: %v", err)
		return
	}
	fmt.Println("Password saved to keyring")
}
