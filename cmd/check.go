package cmd

import (
	"fmt"

	"github.com/illarion/hushpass/internal/secstr"
)

// Check verifies a password against the enrolled verifier and exits
// non-zero on mismatch
func Check(name string, useKeyring bool) {
	reg := openRegistry()

	storeID := ""
	if useKeyring {
		storeID, _ = reg.LookupStoreID()
	}

	password, fromKeyring, err := GetPasswordWithRetry("Password: ", storeID, name, func(p *secstr.SecStr) error {
		return reg.Verify(name, p)
	})
	if err != nil {
		HandleError(err)
	}
	defer password.Destroy()

	if !fromKeyring {
		if err := reg.Verify(name, password); err != nil {
			password.Destroy()
			HandleError(err)
		}
	}

	fmt.Println("✓ Password matches")
}
