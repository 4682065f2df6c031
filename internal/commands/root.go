package commands

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/obudget/obudget/internal/buildinfo"
	"github.com/obudget/obudget/internal/config"
	"github.com/obudget/obudget/internal/logger"
)

// app carries global flags and the logger to every subcommand.
type app struct {
	repo     string
	logLevel string
	log      *logger.Logger
}

func (a *app) repoRoot() (string, error) {
	abs, err := filepath.Abs(a.repo)
	if err != nil {
		return "", fmt.Errorf("resolving path: %w", err)
	}
	return abs, nil
}

func (a *app) loadConfig() (*config.Config, string, error) {
	root, err := a.repoRoot()
	if err != nil {
		return nil, "", err
	}
	cfg, err := config.Load(filepath.Join(root, config.FileName))
	if err != nil {
		return nil, "", err
	}
	return cfg, root, nil
}

// NewRootCommand creates the root CLI command with all subcommands registered.
func NewRootCommand() *cobra.Command {
	a := &app{log: logger.New()}

	rootCmd := &cobra.Command{
		Use:     "obudget",
		Short:   "Personal budget files kept in shifted flat text",
		Version: fmt.Sprintf("%s (commit: %s, built: %s)", buildinfo.Version, buildinfo.Commit, buildinfo.Date),
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.log.Init(a.logLevel, cmd.ErrOrStderr())
		},
	}

	rootCmd.PersistentFlags().StringVar(&a.repo, "repo", ".", "project directory")
	rootCmd.PersistentFlags().StringVar(&a.logLevel, "log-level", "warn", "log level (debug, info, warn, error)")

	rootCmd.AddCommand(
		newInitCommand(a),
		newRewriteCommand(a, rewriteEncrypt),
		newRewriteCommand(a, rewriteDecrypt),
		newRekeyCommand(a),
		newCheckCommand(a),
		newBalanceCommand(a),
		newLoginCommand(a),
	)

	return rootCmd
}
