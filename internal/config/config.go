// Package config loads hushpass settings from a TOML file with environment
// overrides. A missing file is not an error: every setting has a default.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/BurntSushi/toml"

	"github.com/illarion/hushpass/internal/crypto"
	"github.com/illarion/hushpass/internal/logging"
	"github.com/illarion/hushpass/internal/prompt"
	"github.com/illarion/hushpass/internal/secstr"
)

// Environment variables
const (
	EnvConfig   = "HUSHPASS_CONFIG"
	EnvStore    = "HUSHPASS_STORE"
	EnvDigest   = "HUSHPASS_DIGEST"
	EnvLogLevel = "HUSHPASS_LOG_LEVEL"
)

const (
	appDir    = "hushpass"
	fileName  = "config.toml"
	storeName = "verifiers.db"
)

// Config is the decoded configuration file.
type Config struct {
	Store    string       `toml:"store"`
	Digest   string       `toml:"digest"`
	LogLevel string       `toml:"log_level"`
	Prompt   PromptConfig `toml:"prompt"`
	KDF      KDFConfig    `toml:"kdf"`
}

// PromptConfig tunes the password reader.
type PromptConfig struct {
	AbortKey        string `toml:"abort_key"`
	RetypeNotice    string `toml:"retype_notice"`
	InputNotice     string `toml:"input_notice"`
	MaxReadFailures int    `toml:"max_read_failures"`
}

// KDFConfig selects how verifiers are stretched. Zero costs take the
// defaults of the chosen algorithm.
type KDFConfig struct {
	Algorithm  string `toml:"algorithm"`
	Iterations uint32 `toml:"iterations"`
	MemoryKiB  uint32 `toml:"memory_kib"`
	Threads    uint8  `toml:"threads"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Digest:   string(secstr.DefaultAlgorithm),
		LogLevel: "warn",
		Prompt: PromptConfig{
			AbortKey:        string(prompt.DefaultAbortRune),
			RetypeNotice:    prompt.DefaultRetypeNotice,
			InputNotice:     prompt.DefaultInputNotice,
			MaxReadFailures: prompt.DefaultMaxReadFailures,
		},
		KDF: KDFConfig{
			Algorithm: crypto.PBKDF2,
		},
	}
}

// Path returns the configuration file location: $HUSHPASS_CONFIG, else
// $XDG_CONFIG_HOME/hushpass/config.toml, else ~/.config/hushpass/config.toml.
func Path() string {
	if p := os.Getenv(EnvConfig); p != "" {
		return p
	}
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, appDir, fileName)
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".", fileName)
	}
	return filepath.Join(home, ".config", appDir, fileName)
}

// Load reads the file at Path and applies environment overrides.
func Load() (*Config, error) {
	return LoadFile(Path())
}

// LoadFile reads a configuration file over the defaults, applies
// environment overrides and validates the result. Unknown keys are
// rejected so typos do not silently fall back to defaults.
func LoadFile(path string) (*Config, error) {
	cfg := Default()

	md, err := toml.DecodeFile(path, cfg)
	switch {
	case errors.Is(err, os.ErrNotExist):
		logging.Debugf("config: %s not found, using defaults", path)
	case err != nil:
		return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
	default:
		if undecoded := md.Undecoded(); len(undecoded) > 0 {
			keys := make([]string, len(undecoded))
			for i, k := range undecoded {
				keys[i] = k.String()
			}
			return nil, fmt.Errorf("unknown keys in config %s: %s", path, strings.Join(keys, ", "))
		}
	}

	cfg.applyEnv()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", path, err)
	}
	return cfg, nil
}

func (c *Config) applyEnv() {
	if v := os.Getenv(EnvStore); v != "" {
		c.Store = v
	}
	if v := os.Getenv(EnvDigest); v != "" {
		c.Digest = v
	}
	if v := os.Getenv(EnvLogLevel); v != "" {
		c.LogLevel = v
	}
}

// Validate checks every field that could otherwise fail late.
func (c *Config) Validate() error {
	if _, err := secstr.ParseAlgorithm(c.Digest); err != nil {
		return err
	}
	if err := c.KDFParams().Validate(); err != nil {
		return err
	}
	if c.Prompt.AbortKey != "" {
		if utf8.RuneCountInString(c.Prompt.AbortKey) != 1 {
			return fmt.Errorf("abort_key must be a single character, got %q", c.Prompt.AbortKey)
		}
		if c.Prompt.AbortKey == "\n" {
			return fmt.Errorf("abort_key cannot be newline")
		}
	}
	if c.Prompt.MaxReadFailures < 0 {
		return fmt.Errorf("max_read_failures cannot be negative")
	}
	return nil
}

// DigestAlgorithm returns the validated fold digest.
func (c *Config) DigestAlgorithm() secstr.Algorithm {
	alg, err := secstr.ParseAlgorithm(c.Digest)
	if err != nil {
		return secstr.DefaultAlgorithm
	}
	return alg
}

// KDFParams converts the [kdf] table, filling unset costs.
func (c *Config) KDFParams() crypto.KDFParams {
	p := crypto.KDFParams{
		Algorithm:  c.KDF.Algorithm,
		Iterations: c.KDF.Iterations,
	}
	switch p.Algorithm {
	case crypto.PBKDF2:
		if p.Iterations == 0 {
			p.Iterations = crypto.DefaultIters
		}
	case crypto.Argon2ID:
		if p.Iterations == 0 {
			p.Iterations = crypto.DefaultArgonTime
		}
		p.MemoryKiB = c.KDF.MemoryKiB
		if p.MemoryKiB == 0 {
			p.MemoryKiB = crypto.DefaultArgonMemory
		}
		p.Threads = c.KDF.Threads
		if p.Threads == 0 {
			p.Threads = crypto.DefaultArgonThreads
		}
	}
	return p
}

// PromptOptions converts the [prompt] table and digest into reader options.
func (c *Config) PromptOptions() prompt.Options {
	opts := prompt.Options{
		Digest:          c.DigestAlgorithm(),
		RetypeNotice:    c.Prompt.RetypeNotice,
		InputNotice:     c.Prompt.InputNotice,
		MaxReadFailures: c.Prompt.MaxReadFailures,
	}
	if r, _ := utf8.DecodeRuneInString(c.Prompt.AbortKey); r != utf8.RuneError {
		opts.AbortRune = r
	}
	return opts
}

// StorePath returns the verifier database location with "~" expanded:
// the configured store, else $XDG_DATA_HOME/hushpass/verifiers.db, else
// ~/.local/share/hushpass/verifiers.db.
func (c *Config) StorePath() (string, error) {
	if c.Store != "" {
		return expandHome(c.Store)
	}
	if xdg := os.Getenv("XDG_DATA_HOME"); xdg != "" {
		return filepath.Join(xdg, appDir, storeName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to locate home directory: %w", err)
	}
	return filepath.Join(home, ".local", "share", appDir, storeName), nil
}

func expandHome(path string) (string, error) {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to expand %s: %w", path, err)
	}
	return filepath.Join(home, strings.TrimPrefix(path, "~")), nil
}
