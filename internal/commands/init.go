package commands

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/obudget/obudget/internal/config"
	"github.com/obudget/obudget/internal/gitops"
	"github.com/obudget/obudget/internal/store"
)

func newInitCommand(a *app) *cobra.Command {
	var key int
	var git bool

	cmd := &cobra.Command{
		Use:   "init [directory]",
		Short: "Initialize a new budget store",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := "."
			if len(args) > 0 {
				dir = args[0]
			}

			absDir, err := filepath.Abs(dir)
			if err != nil {
				return fmt.Errorf("resolving path: %w", err)
			}

			if err := runInit(a, absDir, key, git); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Initialized budget store at %s\n", absDir)
			return nil
		},
	}

	cmd.Flags().IntVar(&key, "key", config.Default().Store.Key, "shift key for store files")
	cmd.Flags().BoolVar(&git, "git", false, "track the store in a git repository")

	return cmd
}

func runInit(a *app, dir string, key int, git bool) error {
	cfgPath := filepath.Join(dir, config.FileName)
	if _, err := os.Stat(cfgPath); err == nil {
		return fmt.Errorf("%s already exists", cfgPath)
	}

	cfg := config.Default()
	cfg.Store.Key = key
	cfg.Git.AutoCommit = git

	for _, d := range []string{cfg.Store.UsersDir, "logs"} {
		if err := os.MkdirAll(filepath.Join(dir, d), 0o755); err != nil {
			return fmt.Errorf("creating directory %s: %w", d, err)
		}
	}

	if err := config.Save(cfgPath, cfg); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}

	identPath := cfg.IdentityPath(dir)
	if _, err := os.Stat(identPath); errors.Is(err, fs.ErrNotExist) {
		if err := store.SaveIdentities(identPath, nil, cfg.Store.Key); err != nil {
			return err
		}
	}

	if err := os.WriteFile(filepath.Join(dir, "logs", ".gitkeep"), nil, 0o644); err != nil {
		return fmt.Errorf("writing .gitkeep: %w", err)
	}

	if !git {
		return nil
	}

	if err := gitops.Init(dir); err != nil {
		return fmt.Errorf("git init: %w", err)
	}
	hash, err := gitops.CommitAll(dir, "init: budget store", gitAuthor(cfg))
	if err != nil {
		return fmt.Errorf("initial commit: %w", err)
	}
	a.log.Log.Info("initial commit", zap.String("hash", hash))
	return nil
}

func gitAuthor(cfg *config.Config) gitops.Author {
	return gitops.Author{Name: cfg.Git.AuthorName, Email: cfg.Git.AuthorEmail}
}
