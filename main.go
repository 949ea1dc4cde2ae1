package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/illarion/hushpass/cmd"
)

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	switch os.Args[1] {
	case "help", "-h", "--help":
		if len(os.Args) <= 2 {
			printUsage()
			return
		}
		printCommandHelp(os.Args[2])
		return
	case "completion":
		runCompletion(os.Args[2:])
		return
	}

	cmd.Setup()
	cmd.RestoreTerminalOnInterrupt()

	switch os.Args[1] {
	case "read":
		runRead(os.Args[2:])
	case "enroll":
		runEnroll(os.Args[2:])
	case "check":
		runCheck(os.Args[2:])
	case "passwd":
		runPasswd(os.Args[2:])
	case "forget", "rm":
		runForget(os.Args[1], os.Args[2:])
	case "ls", "list":
		runList(os.Args[2:])
	case "keyring":
		runKeyring(os.Args[2:])
	case "compact":
		runCompact(os.Args[2:])
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", os.Args[1])
		printUsage()
		os.Exit(1)
	}
}

// parse parses flags anywhere in args, so "check github --no-keyring"
// works like "check --no-keyring github". Everything after "--" is
// positional. It returns the positional arguments.
func parse(fs *flag.FlagSet, args []string) []string {
	var positional []string
	for {
		if err := fs.Parse(args); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %s\n", err)
			os.Exit(1)
		}
		rest := fs.Args()
		if len(rest) == 0 {
			return positional
		}
		if consumed := len(args) - len(rest); consumed > 0 && args[consumed-1] == "--" {
			return append(positional, rest...)
		}
		positional = append(positional, rest[0])
		args = rest[1:]
	}
}

func runRead(args []string) {
	fs := flag.NewFlagSet("read", flag.ExitOnError)
	confirm := fs.Bool("confirm", false, "Ask twice and require both to match")
	digest := fs.String("digest", "", "Fold digest: sha512, sha3-512 or blake3")
	if extra := parse(fs, args); len(extra) > 0 {
		fmt.Fprintf(os.Stderr, "Error: read takes no arguments\n")
		os.Exit(1)
	}

	cmd.Read(*confirm, *digest)
}

func runEnroll(args []string) {
	fs := flag.NewFlagSet("enroll", flag.ExitOnError)
	saveToKeyring := fs.Bool("keyring", false, "Also cache the chain in the OS keyring")
	names := parse(fs, args)

	cmd.Enroll(cmd.RequireName("enroll", names), *saveToKeyring)
}

func runCheck(args []string) {
	fs := flag.NewFlagSet("check", flag.ExitOnError)
	noKeyring := fs.Bool("no-keyring", false, "Ignore the OS keyring and always prompt")
	names := parse(fs, args)

	cmd.Check(cmd.RequireName("check", names), !*noKeyring)
}

func runPasswd(args []string) {
	fs := flag.NewFlagSet("passwd", flag.ExitOnError)
	names := parse(fs, args)

	cmd.Passwd(cmd.RequireName("passwd", names))
}

func runForget(name string, args []string) {
	fs := flag.NewFlagSet(name, flag.ExitOnError)
	names := parse(fs, args)

	cmd.Forget(cmd.RequireName(name, names))
}

func runList(args []string) {
	fs := flag.NewFlagSet("ls", flag.ExitOnError)
	if extra := parse(fs, args); len(extra) > 0 {
		fmt.Fprintf(os.Stderr, "Error: ls takes no arguments\n")
		os.Exit(1)
	}

	cmd.List()
}

func runKeyring(args []string) {
	if len(args) < 2 {
		fmt.Fprintln(os.Stderr, "Usage: hushpass keyring <save|delete|status> <name>")
		os.Exit(1)
	}

	name := cmd.RequireName("keyring "+args[0], args[1:])
	switch args[0] {
	case "save":
		cmd.KeyringSave(name)
	case "delete":
		cmd.KeyringDelete(name)
	case "status":
		cmd.KeyringStatus(name)
	default:
		fmt.Fprintf(os.Stderr, "Unknown keyring command: %s\n", args[0])
		os.Exit(1)
	}
}

func runCompact(args []string) {
	fs := flag.NewFlagSet("compact", flag.ExitOnError)
	if extra := parse(fs, args); len(extra) > 0 {
		fmt.Fprintf(os.Stderr, "Error: compact takes no arguments\n")
		os.Exit(1)
	}

	cmd.Compact()
}

func runCompletion(args []string) {
	if len(args) < 1 {
		fmt.Fprintln(os.Stderr, "Usage: hushpass completion <bash|zsh|fish>")
		os.Exit(1)
	}
	cmd.Completion(args[0])
}

func printUsage() {
	fmt.Println("hushpass - Terminal password reader with locked, self-erasing memory")
	fmt.Println()
	fmt.Println("Usage:")
	fmt.Println("  hushpass <command> [arguments]")
	fmt.Println()
	fmt.Println("Commands:")
	fmt.Println("  read        Read a password and print its chain")
	fmt.Println("  enroll      Store a verifier for a new name")
	fmt.Println("  check       Check a password against its verifier")
	fmt.Println("  passwd      Change an enrolled password")
	fmt.Println("  forget, rm  Remove an enrolled name")
	fmt.Println("  ls, list    List enrolled names")
	fmt.Println("  keyring     Manage cached chains in the OS keyring")
	fmt.Println("  compact     Compact the verifier store")
	fmt.Println("  completion  Generate shell completions")
	fmt.Println("  help        Show help for a command")
	fmt.Println()
	fmt.Println("Examples:")
	fmt.Println("  hushpass read                   # Print the chain of a typed password")
	fmt.Println("  hushpass enroll github          # Enroll a password under a name")
	fmt.Println("  hushpass check github           # Exit 0 if the password matches")
	fmt.Println()
	fmt.Println("Use 'hushpass help <command>' for more information about a command.")
}

func printCommandHelp(command string) {
	switch command {
	case "read":
		fmt.Println("hushpass read [--confirm] [--digest NAME]")
		fmt.Println()
		fmt.Println("Reads a password with echo off and prints its chain to stdout.")
		fmt.Println("Each character is folded into the chain as it is typed, so the")
		fmt.Println("plain password never exists in memory as a whole.")
		fmt.Println("Backspace discards everything typed so far and starts over.")
		fmt.Println()
		fmt.Println("Flags:")
		fmt.Println("  --confirm       Ask twice and require both to match")
		fmt.Println("  --digest NAME   sha512 (default), sha3-512 or blake3")
		fmt.Println()
		fmt.Println("Examples:")
		fmt.Println("  hushpass read")
		fmt.Println("  hushpass read --digest blake3 | sha256sum")
	case "enroll":
		fmt.Println("hushpass enroll [--keyring] <name>")
		fmt.Println()
		fmt.Println("Asks for a password twice and stores a verifier for it.")
		fmt.Println("The password itself is not stored anywhere.")
		fmt.Println()
		fmt.Println("Flags:")
		fmt.Println("  --keyring   Also cache the chain in the OS keyring")
		fmt.Println()
		fmt.Println("Example:")
		fmt.Println("  hushpass enroll github")
	case "check":
		fmt.Println("hushpass check [--no-keyring] <name>")
		fmt.Println()
		fmt.Println("Checks a password against the verifier enrolled for name.")
		fmt.Println("Uses HUSHPASS_PASSWORD, then the OS keyring, then prompts.")
		fmt.Println("Exits with status 1 if the password does not match.")
		fmt.Println()
		fmt.Println("Flags:")
		fmt.Println("  --no-keyring   Ignore the OS keyring")
	case "passwd":
		fmt.Println("hushpass passwd <name>")
		fmt.Println()
		fmt.Println("Changes the password enrolled for name.")
		fmt.Println("Requires both the current and new passwords.")
		fmt.Println("Updates the keyring entry if one exists.")
	case "forget", "rm":
		fmt.Println("hushpass forget <name>")
		fmt.Println()
		fmt.Println("Removes the verifier and any keyring entry for name.")
		fmt.Println("Does not require a password.")
	case "ls", "list":
		fmt.Println("hushpass ls")
		fmt.Println()
		fmt.Println("Lists enrolled names with their digest, KDF and last change.")
		fmt.Println("Does not require a password.")
	case "keyring":
		fmt.Println("hushpass keyring <save|delete|status> <name>")
		fmt.Println()
		fmt.Println("Manages the chain cached in the OS keyring for name.")
		fmt.Println("  save     Check a password and cache its chain")
		fmt.Println("  delete   Remove the cached chain")
		fmt.Println("  status   Show whether a chain is cached")
	case "compact":
		fmt.Println("hushpass compact")
		fmt.Println()
		fmt.Println("Compacts the verifier store to reclaim unused disk space.")
		fmt.Println("Does not require a password.")
	case "completion":
		fmt.Println("hushpass completion <bash|zsh|fish>")
		fmt.Println()
		fmt.Println("Outputs shell completion script for the specified shell.")
		fmt.Println()
		fmt.Println("Setup:")
		fmt.Println("  # Bash - add to ~/.bashrc")
		fmt.Println("  eval \"$(hushpass completion bash)\"")
		fmt.Println()
		fmt.Println("  # Zsh - add to ~/.zshrc")
		fmt.Println("  eval \"$(hushpass completion zsh)\"")
		fmt.Println()
		fmt.Println("  # Fish - add to ~/.config/fish/config.fish")
		fmt.Println("  hushpass completion fish | source")
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", command)
		printUsage()
	}
}
