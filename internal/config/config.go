package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/obudget/obudget/internal/cipher"
	"github.com/obudget/obudget/internal/id"
	"github.com/obudget/obudget/internal/model"
	"github.com/obudget/obudget/internal/store"
)

// FileName is the project configuration file at the repo root.
const FileName = "obudget.yaml"

// Config represents the top-level obudget.yaml configuration.
type Config struct {
	Store StoreConfig `yaml:"store"`
	Codec CodecConfig `yaml:"codec"`
	Git   GitConfig   `yaml:"git"`
}

// StoreConfig locates the store files and holds the shift key.
type StoreConfig struct {
	Key          int    `yaml:"key"`
	IdentityFile string `yaml:"identity_file"` // relative to the repo root
	UsersDir     string `yaml:"users_dir"`     // relative to the repo root

	// PersonalKeys decodes each user file with the key stored in its
	// identity line instead of Key.
	PersonalKeys bool `yaml:"personal_keys"`
}

// CodecConfig selects parsing behaviour for user files.
type CodecConfig struct {
	AccountScan   string `yaml:"account_scan"`   // prefix-run or full-scan
	EffectiveFlag string `yaml:"effective_flag"` // non-empty or strict
}

// GitConfig controls git integration.
type GitConfig struct {
	AutoCommit  bool   `yaml:"auto_commit"`
	AuthorName  string `yaml:"author_name"`
	AuthorEmail string `yaml:"author_email"`
}

// Load reads an obudget.yaml file from disk.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", path, err)
	}
	return &cfg, nil
}

// Save writes a Config to a YAML file.
func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}
	return nil
}

// Default returns a Config matching the historical store layout.
func Default() *Config {
	return &Config{
		Store: StoreConfig{
			Key:          cipher.DefaultKey,
			IdentityFile: "ident.txt",
			UsersDir:     "users",
		},
		Codec: CodecConfig{
			AccountScan:   string(store.ScanPrefixRun),
			EffectiveFlag: string(store.FlagNonEmpty),
		},
		Git: GitConfig{
			AutoCommit:  false,
			AuthorName:  "obudget",
			AuthorEmail: "obudget@localhost",
		},
	}
}

// Validate checks mode names and required paths.
func (c *Config) Validate() error {
	var errs []error
	if c.Store.IdentityFile == "" {
		errs = append(errs, errors.New("store.identity_file is required"))
	}
	if c.Store.UsersDir == "" {
		errs = append(errs, errors.New("store.users_dir is required"))
	}
	if _, err := store.ParseScanMode(c.Codec.AccountScan); err != nil {
		errs = append(errs, err)
	}
	if _, err := store.ParseFlagMode(c.Codec.EffectiveFlag); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}

// Options returns the store options for the codec settings. Call Validate first.
func (c *Config) Options() store.Options {
	scan, _ := store.ParseScanMode(c.Codec.AccountScan)
	flag, _ := store.ParseFlagMode(c.Codec.EffectiveFlag)
	return store.Options{AccountScan: scan, Effective: flag}
}

// UserKey returns the key that decodes the data file of ident.
func (c *Config) UserKey(ident model.Identity) int {
	if c.Store.PersonalKeys {
		return ident.Key
	}
	return c.Store.Key
}

// IdentityPath resolves the identity store under repoRoot.
func (c *Config) IdentityPath(repoRoot string) string {
	return filepath.Join(repoRoot, c.Store.IdentityFile)
}

// UserPath resolves the data file of login under repoRoot.
func (c *Config) UserPath(repoRoot, login string) string {
	return filepath.Join(repoRoot, c.Store.UsersDir, id.UserFileName(login))
}
