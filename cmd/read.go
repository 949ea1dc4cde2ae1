package cmd

import (
	"os"

	"github.com/illarion/hushpass/internal/core"
	"github.com/illarion/hushpass/internal/secstr"
)

// Read reads a password from the terminal and prints its chain to stdout
func Read(confirm bool, digest string) {
	opts := promptOptions()
	if digest != "" {
		alg, err := secstr.ParseAlgorithm(digest)
		if err != nil {
			HandleError(err)
		}
		opts.Digest = alg
	}

	var (
		password *secstr.SecStr
		err      error
	)
	if confirm {
		password, err = core.ReadPasswordConfirm(opts)
	} else {
		password, err = core.ReadPassword("Password: ", opts)
	}
	if err != nil {
		HandleError(err)
	}
	defer password.Destroy()

	if err := core.WriteChain(os.Stdout, password); err != nil {
		password.Destroy()
		HandleError(err)
	}
}
