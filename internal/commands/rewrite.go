package commands

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"path/filepath"
	"sort"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/obudget/obudget/internal/config"
	"github.com/obudget/obudget/internal/gitops"
	"github.com/obudget/obudget/internal/history"
	"github.com/obudget/obudget/internal/store"
)

type rewriteKind struct {
	action history.Action
	short  string
	apply  func(path string, key int) (int, error)
}

var (
	rewriteEncrypt = rewriteKind{history.ActionEncrypt, "Shift plaintext store files in place", store.EncryptFile}
	rewriteDecrypt = rewriteKind{history.ActionDecrypt, "Restore store files to plaintext in place", store.DecryptFile}
)

// rewriteJob is one rewrite applied to each file in turn.
type rewriteJob struct {
	action history.Action
	apply  func(path string) (int, error)
	force  bool // skip the rewrite log state check
}

func newRewriteCommand(a *app, kind rewriteKind) *cobra.Command {
	var key int
	var all, force bool

	cmd := &cobra.Command{
		Use:   string(kind.action) + " [file...]",
		Short: kind.short,
		RunE: func(cmd *cobra.Command, args []string) error {
			if all == (len(args) > 0) {
				return errors.New("pass either files or --all")
			}
			cfg, root, err := a.optionalConfig(all)
			if err != nil {
				return err
			}
			if !cmd.Flags().Changed("key") {
				if cfg == nil {
					return errors.New("no " + config.FileName + " found; pass --key")
				}
				key = cfg.Store.Key
			}

			paths := args
			if all {
				if paths, err = storeFiles(cfg, root); err != nil {
					return err
				}
			}

			keys, err := personalKeys(cfg, root, paths, key, kind.action == history.ActionDecrypt)
			if err != nil {
				return err
			}
			job := rewriteJob{
				action: kind.action,
				force:  force,
				apply: func(path string) (int, error) {
					if k, ok := keys[path]; ok {
						return kind.apply(path, k)
					}
					return kind.apply(path, key)
				},
			}
			return a.rewrite(cmd.OutOrStdout(), cfg, root, job, paths)
		},
	}

	cmd.Flags().IntVar(&key, "key", 0, "shift key (defaults to the configured key)")
	cmd.Flags().BoolVar(&all, "all", false, "rewrite the identity store and every user file")
	cmd.Flags().BoolVar(&force, "force", false, "rewrite even when the rewrite log says the file is already in that state")

	return cmd
}

func newRekeyCommand(a *app) *cobra.Command {
	var from, to int
	var all, force bool

	cmd := &cobra.Command{
		Use:   "rekey [file...]",
		Short: "Re-shift store files from one key to another",
		RunE: func(cmd *cobra.Command, args []string) error {
			if all == (len(args) > 0) {
				return errors.New("pass either files or --all")
			}
			cfg, root, err := a.optionalConfig(all)
			if err != nil {
				return err
			}

			paths := args
			if all {
				if paths, err = storeFiles(cfg, root); err != nil {
					return err
				}
				// User files keep their personal keys; only the identity store moves.
				if cfg.Store.PersonalKeys {
					paths = paths[:1]
					a.log.Log.Info("personal keys in use, rekeying the identity store only")
				}
			}

			job := rewriteJob{
				action: history.ActionRekey,
				force:  force,
				apply:  func(path string) (int, error) { return store.RekeyFile(path, from, to) },
			}
			if err := a.rewrite(cmd.OutOrStdout(), cfg, root, job, paths); err != nil {
				return err
			}
			if cfg != nil && all && cfg.Store.Key == from {
				cfg.Store.Key = to
				if err := config.Save(filepath.Join(root, config.FileName), cfg); err != nil {
					return err
				}
				a.log.Log.Info("store key updated", zap.String("config", config.FileName))
			}
			return nil
		},
	}

	cmd.Flags().IntVar(&from, "from", 0, "current shift key")
	cmd.Flags().IntVar(&to, "to", 0, "new shift key")
	cmd.Flags().BoolVar(&all, "all", false, "rekey the identity store and every user file")
	cmd.Flags().BoolVar(&force, "force", false, "rekey even when the rewrite log says the file is plain")
	_ = cmd.MarkFlagRequired("from")
	_ = cmd.MarkFlagRequired("to")

	return cmd
}

// optionalConfig loads the project config. It is only required when the
// store layout is needed.
func (a *app) optionalConfig(required bool) (*config.Config, string, error) {
	cfg, root, err := a.loadConfig()
	if err == nil {
		return cfg, root, nil
	}
	if required || !errors.Is(err, fs.ErrNotExist) {
		return nil, "", err
	}
	root, err = a.repoRoot()
	return nil, root, err
}

// storeFiles lists the identity store and every user file.
func storeFiles(cfg *config.Config, root string) ([]string, error) {
	users, err := filepath.Glob(filepath.Join(root, cfg.Store.UsersDir, "*.txt"))
	if err != nil {
		return nil, fmt.Errorf("listing user files: %w", err)
	}
	sort.Strings(users)
	return append([]string{cfg.IdentityPath(root)}, users...), nil
}

// personalKeys maps each user file among paths to the key held by its
// identity line. It returns nil unless the store uses personal keys. The
// identity store is decoded with storeKey when the rewrite log says it is
// encoded; assumeEncoded decides for a store the log has never seen.
func personalKeys(cfg *config.Config, root string, paths []string, storeKey int, assumeEncoded bool) (map[string]int, error) {
	if cfg == nil || !cfg.Store.PersonalKeys {
		return nil, nil
	}
	entries, err := history.Read(root)
	if err != nil {
		return nil, err
	}

	identPath := cfg.IdentityPath(root)
	encoded, ok := history.Encoded(entries, history.RelPath(root, identPath))
	if !ok {
		encoded = assumeEncoded
	}
	identKey := 0
	if encoded {
		identKey = storeKey
	}
	ids, err := store.LoadIdentities(identPath, identKey)
	if err != nil {
		return nil, fmt.Errorf("loading personal keys: %w", err)
	}

	byPath := make(map[string]int, len(ids))
	for login, ident := range ids {
		byPath[cfg.UserPath(root, login)] = cfg.UserKey(ident)
	}

	usersDir := filepath.Join(root, cfg.Store.UsersDir)
	keys := make(map[string]int)
	for _, p := range paths {
		abs, err := filepath.Abs(p)
		if err != nil {
			return nil, fmt.Errorf("resolving path: %w", err)
		}
		if filepath.Dir(abs) != usersDir {
			continue
		}
		k, ok := byPath[abs]
		if !ok {
			return nil, fmt.Errorf("%s: no identity holds the key of this user file", p)
		}
		keys[abs] = k
	}
	return keys, nil
}

// checkState refuses a rewrite that the rewrite log says would stack a
// second shift on a file, or undo one that was never applied. Files the
// log has never seen pass.
func checkState(root string, action history.Action, paths []string) error {
	entries, err := history.Read(root)
	if err != nil {
		return err
	}
	for _, p := range paths {
		abs, err := filepath.Abs(p)
		if err != nil {
			return fmt.Errorf("resolving path: %w", err)
		}
		encoded, ok := history.Encoded(entries, history.RelPath(root, abs))
		if !ok {
			continue
		}
		if action == history.ActionEncrypt && encoded {
			return fmt.Errorf("%s is already encoded; pass --force to shift it again", p)
		}
		if action != history.ActionEncrypt && !encoded {
			return fmt.Errorf("%s is plain; pass --force to %s it anyway", p, action)
		}
	}
	return nil
}

// rewrite applies job to each file in turn, then logs and optionally
// commits the files that were rewritten. It stops at the first failure.
func (a *app) rewrite(out io.Writer, cfg *config.Config, root string, job rewriteJob, paths []string) error {
	if cfg != nil && !job.force {
		if err := checkState(root, job.action, paths); err != nil {
			return err
		}
	}

	var entries []history.Entry
	var failed error
	for _, p := range paths {
		abs, err := filepath.Abs(p)
		if err != nil {
			failed = fmt.Errorf("resolving path: %w", err)
			break
		}
		n, err := job.apply(abs)
		if err != nil {
			a.log.Log.Error("rewrite failed", zap.String("action", string(job.action)), zap.String("path", abs), zap.Error(err))
			failed = err
			break
		}
		a.log.Log.Info("file rewritten", zap.String("action", string(job.action)), zap.String("path", abs), zap.Int("lines", n))
		fmt.Fprintf(out, "%s %s (%d lines)\n", job.action, p, n)
		entries = append(entries, history.Entry{
			Timestamp: time.Now().UTC().Truncate(time.Second),
			Action:    job.action,
			Path:      history.RelPath(root, abs),
			Lines:     n,
		})
	}

	if cfg != nil && len(entries) > 0 {
		if err := history.Append(root, entries); err != nil {
			a.log.Log.Warn("failed to write rewrite log", zap.Error(err))
		}
		if cfg.Git.AutoCommit && gitops.IsRepo(root) {
			msg := fmt.Sprintf("%s: %d file(s)", job.action, len(entries))
			hash, err := gitops.CommitAll(root, msg, gitAuthor(cfg))
			if err != nil {
				a.log.Log.Warn("auto-commit failed", zap.Error(err))
			} else {
				a.log.Log.Info("committed", zap.String("hash", hash))
			}
		}
	}
	return failed
}
