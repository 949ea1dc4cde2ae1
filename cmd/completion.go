package cmd

import (
	"fmt"
	"os"
)

// Completion outputs shell completion scripts
func Completion(shell string) {
	switch shell {
	case "bash":
		fmt.Print(bashCompletion)
	case "zsh":
		fmt.Print(zshCompletion)
	case "fish":
		fmt.Print(fishCompletion)
	default:
		fmt.Fprintf(os.Stderr, "Unknown shell: %s\nSupported: bash, zsh, fish\n", shell)
		os.Exit(1)
	}
}

const bashCompletion = `_hushpass() {
    local cur prev words cword
    _init_completion || return

    local commands="read enroll check passwd forget rm ls list keyring compact help completion"

    if [[ $cword -eq 1 ]]; then
        COMPREPLY=($(compgen -W "$commands" -- "$cur"))
        return
    fi

    local cmd="${words[1]}"
    case "$cmd" in
        read)
            COMPREPLY=($(compgen -W "--confirm --digest" -- "$cur"))
            ;;
        enroll)
            COMPREPLY=($(compgen -W "--keyring" -- "$cur"))
            ;;
        check)
            if [[ "$cur" == -* ]]; then
                COMPREPLY=($(compgen -W "--no-keyring" -- "$cur"))
            else
                local names
                names=$(hushpass ls 2>/dev/null | tail -n +2 | awk '{print $1}')
                COMPREPLY=($(compgen -W "$names" -- "$cur"))
            fi
            ;;
        passwd|forget|rm)
            local names
            names=$(hushpass ls 2>/dev/null | tail -n +2 | awk '{print $1}')
            COMPREPLY=($(compgen -W "$names" -- "$cur"))
            ;;
        keyring)
            if [[ $cword -eq 2 ]]; then
                COMPREPLY=($(compgen -W "save delete status" -- "$cur"))
            else
                local names
                names=$(hushpass ls 2>/dev/null | tail -n +2 | awk '{print $1}')
                COMPREPLY=($(compgen -W "$names" -- "$cur"))
            fi
            ;;
        help)
            COMPREPLY=($(compgen -W "$commands" -- "$cur"))
            ;;
        completion)
            COMPREPLY=($(compgen -W "bash zsh fish" -- "$cur"))
            ;;
    esac
}

complete -F _hushpass hushpass
`

const zshCompletion = `#compdef hushpass

_hushpass() {
    local -a commands
    commands=(
        'read:Read a password and print its chain'
        'enroll:Store a verifier for a new name'
        'check:Check a password against its verifier'
        'passwd:Change an enrolled password'
        'forget:Remove an enrolled name'
        'rm:Remove an enrolled name'
        'ls:List enrolled names'
        'list:List enrolled names'
        'keyring:Manage cached chains in OS keyring'
        'compact:Compact the verifier store'
        'help:Show help for a command'
        'completion:Generate shell completions'
    )

    _arguments -C \
        '1: :->command' \
        '*: :->args'

    case "$state" in
        command)
            _describe -t commands 'hushpass commands' commands
            ;;
        args)
            case "${words[2]}" in
                read)
                    _arguments \
                        '--confirm[Ask twice]' \
                        '--digest[Fold digest]:digest:(sha512 sha3-512 blake3)'
                    ;;
                enroll)
                    _arguments '--keyring[Cache the chain in the OS keyring]'
                    ;;
                check)
                    _arguments \
                        '--no-keyring[Always prompt]' \
                        '*:name:_hushpass_names'
                    ;;
                passwd|forget|rm)
                    _arguments '*:name:_hushpass_names'
                    ;;
                keyring)
                    _values 'subcommand' save delete status
                    ;;
                help)
                    _describe -t commands 'hushpass commands' commands
                    ;;
                completion)
                    _values 'shell' bash zsh fish
                    ;;
            esac
            ;;
    esac
}

_hushpass_names() {
    local -a names
    names=(${(f)"$(hushpass ls 2>/dev/null | tail -n +2 | awk '{print $1}')"})
    _describe -t names 'enrolled names' names
}

_hushpass "$@"
`

const fishCompletion = `# hushpass fish completions

set -l commands read enroll check passwd forget rm ls list keyring compact help completion

complete -c hushpass -f

# Commands
complete -c hushpass -n "not __fish_seen_subcommand_from $commands" -a read -d 'Read a password and print its chain'
complete -c hushpass -n "not __fish_seen_subcommand_from $commands" -a enroll -d 'Store a verifier'
complete -c hushpass -n "not __fish_seen_subcommand_from $commands" -a check -d 'Check a password'
complete -c hushpass -n "not __fish_seen_subcommand_from $commands" -a passwd -d 'Change a password'
complete -c hushpass -n "not __fish_seen_subcommand_from $commands" -a forget -d 'Remove a name'
complete -c hushpass -n "not __fish_seen_subcommand_from $commands" -a ls -d 'List enrolled names'
complete -c hushpass -n "not __fish_seen_subcommand_from $commands" -a keyring -d 'Manage cached chains'
complete -c hushpass -n "not __fish_seen_subcommand_from $commands" -a compact -d 'Compact the store'
complete -c hushpass -n "not __fish_seen_subcommand_from $commands" -a help -d 'Show help'
complete -c hushpass -n "not __fish_seen_subcommand_from $commands" -a completion -d 'Generate completions'

# read flags
complete -c hushpass -n "__fish_seen_subcommand_from read" -l confirm -d 'Ask twice'
complete -c hushpass -n "__fish_seen_subcommand_from read" -l digest -xa "sha512 sha3-512 blake3"

# enroll and check flags
complete -c hushpass -n "__fish_seen_subcommand_from enroll" -l keyring -d 'Cache in OS keyring'
complete -c hushpass -n "__fish_seen_subcommand_from check" -l no-keyring -d 'Always prompt'

# names
complete -c hushpass -n "__fish_seen_subcommand_from check passwd forget rm" -a "(hushpass ls 2>/dev/null | tail -n +2 | awk '{print \$1}')"

# keyring subcommands
complete -c hushpass -n "__fish_seen_subcommand_from keyring" -a "save delete status"

# help completions
complete -c hushpass -n "__fish_seen_subcommand_from help" -a "$commands"

# completion completions
complete -c hushpass -n "__fish_seen_subcommand_from completion" -a "bash zsh fish"
`
