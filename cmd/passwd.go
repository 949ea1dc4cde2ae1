package cmd

import (
	"fmt"

	"github.com/illarion/hushpass/internal/core"
	"github.com/illarion/hushpass/internal/keyring"
	"github.com/illarion/hushpass/internal/secstr"
)

// Passwd changes the password enrolled for name
func Passwd(name string) {
	reg := openRegistry()

	// Get store ID for keyring lookup
	storeID, _ := reg.LookupStoreID()

	// Get current password with retry on stale keyring
	currentPassword, _, err := GetPasswordWithRetry("Enter current password: ", storeID, name, func(p *secstr.SecStr) error {
		return reg.Verify(name, p)
	})
	if err != nil {
		HandleError(err)
	}
	defer currentPassword.Destroy()

	// Get new password
	newPassword, err := core.ReadPasswordConfirm(promptOptions())
	if err != nil {
		HandleError(err)
	}
	defer newPassword.Destroy()

	if err := reg.ChangePassword(name, currentPassword, newPassword); err != nil {
		HandleError(err)
	}

	// Refresh an existing keyring entry only
	if storeID != "" && keyring.HasChain(storeID, name) {
		if err := keyring.SaveChain(storeID, name, newPassword); err == nil {
			fmt.Println("Keyring updated with new password")
		}
	}

	fmt.Println("password changed successfully")
}
