package cmd

import (
	"fmt"
	"os"

	"github.com/illarion/hushpass/internal/keyring"
)

// Forget removes the verifier for name and any cached chain
func Forget(name string) {
	reg := openRegistry()

	storeID, _ := reg.LookupStoreID()

	if err := reg.Forget(name); err != nil {
		HandleError(err)
	}

	if storeID != "" {
		if err := keyring.DeleteChain(storeID, name); err != nil {
			fmt.Fprintf(os.Stderr, "warning: failed to remove keyring entry: %s\n", err)
		}
	}

	fmt.Printf("Forgot %s\n", name)
}
