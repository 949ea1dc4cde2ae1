package cmd

import (
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/illarion/hushpass/internal/config"
	"github.com/illarion/hushpass/internal/core"
	"github.com/illarion/hushpass/internal/keyring"
	"github.com/illarion/hushpass/internal/logging"
	"github.com/illarion/hushpass/internal/prompt"
	"github.com/illarion/hushpass/internal/secstr"
	"github.com/illarion/hushpass/internal/security"
	"github.com/illarion/hushpass/internal/terminal"
)

var cfg *config.Config

// Setup loads the configuration and applies the log level. It must run
// before any command.
func Setup() {
	loaded, err := config.Load()
	if err != nil {
		HandleError(err)
	}
	if err := logging.SetLevel(loaded.LogLevel); err != nil {
		HandleError(err)
	}
	cfg = loaded
}

// RestoreTerminalOnInterrupt puts stdin back into the state it had at
// startup if the process is interrupted in the middle of a read.
func RestoreTerminalOnInterrupt() {
	term := terminal.Stdin()
	state, err := term.GetState()
	if err != nil {
		return
	}

	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigs
		if err := term.Restore(state); err != nil {
			logging.Warnf("failed to restore terminal: %v", err)
		}
		fmt.Fprintln(os.Stderr)
		os.Exit(130)
	}()
}

func promptOptions() prompt.Options {
	return cfg.PromptOptions()
}

func openRegistry() *core.Registry {
	path, err := cfg.StorePath()
	if err != nil {
		HandleError(err)
	}
	return core.New(path, cfg.KDFParams())
}

// GetPassword retrieves password from environment or prompts user.
// The caller is responsible for calling Destroy on the returned password.
func GetPassword(message string) (*secstr.SecStr, error) {
	// Try environment variable first
	if password := core.GetPasswordFromEnv(cfg.DigestAlgorithm()); password != nil {
		return password, nil
	}
	return core.ReadPassword(message, promptOptions())
}

// GetPasswordOrExit is like GetPassword but exits on error
func GetPasswordOrExit(message string) *secstr.SecStr {
	password, err := GetPassword(message)
	if err != nil {
		HandleError(err)
	}
	return password
}

// GetPasswordForEnroll checks the environment first, then prompts with
// confirmation
func GetPasswordForEnroll() (*secstr.SecStr, error) {
	if password := core.GetPasswordFromEnv(cfg.DigestAlgorithm()); password != nil {
		return password, nil
	}
	return core.ReadPasswordConfirm(promptOptions())
}

// GetPasswordWithRetry tries the keyring before prompting. A cached chain
// that no longer verifies is removed and the user is asked instead. The
// second result reports whether the chain came from the keyring.
func GetPasswordWithRetry(message, storeID, name string, verify func(*secstr.SecStr) error) (*secstr.SecStr, bool, error) {
	if password := core.GetPasswordFromEnv(cfg.DigestAlgorithm()); password != nil {
		return password, false, nil
	}

	if storeID != "" {
		cached, err := keyring.GetChain(storeID, name, cfg.DigestAlgorithm())
		if err == nil {
			verr := verify(cached)
			if verr == nil {
				return cached, true, nil
			}
			cached.Destroy()
			if !errors.Is(verr, core.ErrWrongPassword) && !errors.Is(verr, core.ErrDigestMismatch) {
				return nil, false, verr
			}
			fmt.Fprintln(os.Stderr, "Keyring entry is stale, removing it")
			if err := keyring.DeleteChain(storeID, name); err != nil {
				logging.Warnf("failed to remove stale keyring entry: %v", err)
			}
		} else if !errors.Is(err, keyring.ErrNotFound) {
			logging.Debugf("keyring unavailable: %v", err)
		}
	}

	password, err := core.ReadPassword(message, promptOptions())
	return password, false, err
}

// RequireName exits with usage help unless exactly one name was given
func RequireName(command string, args []string) string {
	if len(args) != 1 {
		fmt.Fprintf(os.Stderr, "Error: %s requires exactly one name\n", command)
		fmt.Fprintf(os.Stderr, "Usage: hushpass %s <name>\n", command)
		os.Exit(1)
	}
	return args[0]
}

// HandleError handles common errors consistently
func HandleError(err error) {
	switch {
	case errors.Is(err, core.ErrNotInitialized):
		fmt.Fprintf(os.Stderr, "Error: no verifier store yet\n")
		fmt.Fprintf(os.Stderr, "Run 'hushpass enroll <name>' first\n")
	case errors.Is(err, core.ErrNotEnrolled):
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		fmt.Fprintf(os.Stderr, "Use 'hushpass ls' to see enrolled names\n")
	case errors.Is(err, core.ErrAlreadyEnrolled):
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		fmt.Fprintf(os.Stderr, "Use 'hushpass passwd' to change its password\n")
	case errors.Is(err, core.ErrWrongPassword):
		fmt.Fprintf(os.Stderr, "Error: wrong password\n")
	case errors.Is(err, core.ErrPasswordMismatch):
		fmt.Fprintf(os.Stderr, "Error: passwords do not match\n")
	case errors.Is(err, prompt.ErrTerminal):
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		fmt.Fprintf(os.Stderr, "Set %s to run without a terminal\n", core.EnvPassword)
	case errors.Is(err, security.ErrEmptyName),
		errors.Is(err, security.ErrNameTooLong),
		errors.Is(err, security.ErrInvalidName):
		fmt.Fprintf(os.Stderr, "Error: bad name: %s\n", err)
	default:
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
	}
	os.Exit(1)
}
