package commands

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"sort"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/obudget/obudget/internal/id"
	"github.com/obudget/obudget/internal/ledger"
	"github.com/obudget/obudget/internal/store"
)

func newBalanceCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "balance <login>",
		Short: "Print the balance and budget usage of a user",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			login := args[0]
			if err := id.ValidateLogin(login); err != nil {
				return err
			}

			cfg, root, err := a.loadConfig()
			if err != nil {
				return err
			}
			ids, err := store.LoadIdentities(cfg.IdentityPath(root), cfg.Store.Key)
			if err != nil {
				return err
			}
			ident, ok := ids[login]
			if !ok {
				return fmt.Errorf("%q: %w", login, id.ErrUnknownLogin)
			}

			svc, err := ledger.Load(cfg.UserPath(root, login), cfg.UserKey(ident), cfg.Options())
			if err != nil {
				return err
			}
			a.log.Log.Debug("user file loaded",
				zap.Int("accounts", len(svc.Accounts())),
				zap.Int("operations", len(svc.Operations())),
				zap.Int("budgets", len(svc.Budgets())))

			printBalance(cmd.OutOrStdout(), ident.Name, svc)
			return nil
		},
	}
}

func printBalance(w io.Writer, name string, svc *ledger.Service) {
	fmt.Fprintf(w, "Hello %s\n", name)
	fmt.Fprintf(w, "Balance: %s (cleared %s)\n", formatMoney(svc.Balance()), formatMoney(svc.EffectiveBalance()))

	byAccount := svc.BalanceByAccount()
	names := make([]string, 0, len(byAccount))
	for n := range byAccount {
		names = append(names, n)
	}
	sort.Strings(names)
	for _, n := range names {
		fmt.Fprintf(w, "  %s: %s\n", n, formatMoney(byAccount[n]))
	}

	for _, b := range svc.Budgets() {
		fmt.Fprintf(w, "Budget %s (%s): spent %s of %s, remaining %s\n",
			b.Category, b.Account,
			formatMoney(svc.Spent(b.Category, b.Account)),
			formatMoney(b.Amount),
			formatMoney(svc.Remaining(b)))
	}
}

func newLoginCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "login <login>",
		Short: "Check a password read from standard input",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, root, err := a.loadConfig()
			if err != nil {
				return err
			}
			ids, err := store.LoadIdentities(cfg.IdentityPath(root), cfg.Store.Key)
			if err != nil {
				return err
			}

			password, err := readLine(cmd.InOrStdin())
			if err != nil {
				return err
			}
			ident, err := id.Authenticate(ids, args[0], password)
			if err != nil {
				a.log.Log.Warn("login failed", zap.String("login", args[0]), zap.Error(err))
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Welcome %s\n", ident.Name)
			return nil
		},
	}
}

func readLine(r io.Reader) (string, error) {
	sc := bufio.NewScanner(r)
	if !sc.Scan() {
		if err := sc.Err(); err != nil {
			return "", fmt.Errorf("reading password: %w", err)
		}
		return "", errors.New("no password on standard input")
	}
	return sc.Text(), nil
}
