package commands

import (
	"errors"
	"fmt"
	"sort"

	"github.com/spf13/cobra"

	"github.com/obudget/obudget/internal/config"
	"github.com/obudget/obudget/internal/ledger"
	"github.com/obudget/obudget/internal/store"
)

func newCheckCommand(a *app) *cobra.Command {
	var key int
	var identities bool

	cmd := &cobra.Command{
		Use:   "check <file>",
		Short: "Parse a store file and report its records",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, _, err := a.optionalConfig(false)
			if err != nil {
				return err
			}
			opts := store.DefaultOptions()
			if cfg != nil {
				opts = cfg.Options()
			}
			if !cmd.Flags().Changed("key") {
				if cfg == nil {
					return errors.New("no " + config.FileName + " found; pass --key")
				}
				key = cfg.Store.Key
			}

			path := args[0]
			out := cmd.OutOrStdout()
			if identities {
				ids, err := store.LoadIdentities(path, key)
				if err != nil {
					return err
				}
				fmt.Fprintf(out, "%s: %d identities\n", path, len(ids))
				return nil
			}

			f, err := store.LoadUserFile(path, key, opts)
			if err != nil {
				return err
			}
			svc := ledger.NewService(f, opts.AccountScan)
			fmt.Fprintf(out, "%s: %d accounts, %d operations, %d budgets\n",
				path, len(svc.Accounts()), len(svc.Operations()), len(svc.Budgets()))
			if hidden := len(f.Accounts) - f.AccountRun; opts.AccountScan == store.ScanPrefixRun && hidden > 0 {
				fmt.Fprintf(out, "warning: %d account line(s) after the leading run are ignored\n", hidden)
			}
			for _, u := range undeclaredAccounts(svc) {
				fmt.Fprintf(out, "warning: account %q is used by %d record(s) but not declared\n", u.name, u.uses)
			}
			return nil
		},
	}

	cmd.Flags().IntVar(&key, "key", 0, "shift key (defaults to the configured key)")
	cmd.Flags().BoolVar(&identities, "identities", false, "parse the file as an identity store")

	return cmd
}

type accountUse struct {
	name string
	uses int
}

// undeclaredAccounts lists the account names that operations and budgets
// refer to without a visible account line, sorted by name.
func undeclaredAccounts(svc *ledger.Service) []accountUse {
	counts := make(map[string]int)
	for _, op := range svc.Operations() {
		if op.Account != "" && !svc.HasAccount(op.Account) {
			counts[op.Account]++
		}
	}
	for _, b := range svc.Budgets() {
		if b.Account != "" && !svc.HasAccount(b.Account) {
			counts[b.Account]++
		}
	}

	uses := make([]accountUse, 0, len(counts))
	for name, n := range counts {
		uses = append(uses, accountUse{name: name, uses: n})
	}
	sort.Slice(uses, func(i, j int) bool { return uses[i].name < uses[j].name })
	return uses
}
