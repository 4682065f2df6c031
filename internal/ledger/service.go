// Package ledger answers balance and budget questions about one user file.
package ledger

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/obudget/obudget/internal/model"
	"github.com/obudget/obudget/internal/store"
)

// Service provides in-memory lookup over one user file.
type Service struct {
	file     *model.UserFile
	accounts []model.Account
	byName   map[string]model.Account
}

// NewService creates a Service from a parsed user file. Accounts are
// selected with mode.
func NewService(f *model.UserFile, mode store.ScanMode) *Service {
	accounts := store.SelectAccounts(f, mode)
	byName := make(map[string]model.Account, len(accounts))
	for _, a := range accounts {
		byName[a.Name] = a
	}
	return &Service{file: f, accounts: accounts, byName: byName}
}

// Load reads the user file at path and returns a Service.
func Load(path string, key int, opts store.Options) (*Service, error) {
	f, err := store.LoadUserFile(path, key, opts)
	if err != nil {
		return nil, fmt.Errorf("loading ledger: %w", err)
	}
	return NewService(f, opts.AccountScan), nil
}

// Accounts returns the accounts visible under the scan mode.
func (s *Service) Accounts() []model.Account {
	return s.accounts
}

// Operations returns all operations in file order.
func (s *Service) Operations() []model.Operation {
	return s.file.Operations
}

// Budgets returns all budgets in file order.
func (s *Service) Budgets() []model.Budget {
	return s.file.Budgets
}

// HasAccount reports whether an account name is declared.
func (s *Service) HasAccount(name string) bool {
	_, ok := s.byName[name]
	return ok
}

// Balance is the sum of all operation amounts.
func (s *Service) Balance() decimal.Decimal {
	return model.Balance(s.file.Operations)
}

// EffectiveBalance is the sum of cleared operation amounts.
func (s *Service) EffectiveBalance() decimal.Decimal {
	return model.EffectiveBalance(s.file.Operations)
}

// BalanceByAccount sums operation amounts per account.
func (s *Service) BalanceByAccount() map[string]decimal.Decimal {
	return model.BalanceByAccount(s.file.Operations)
}

// Spent returns how much was spent in a budget category on an account.
// Expenses are negative amounts; refunds in the category reduce the total.
func (s *Service) Spent(category, account string) decimal.Decimal {
	total := decimal.Zero
	for _, op := range s.file.Operations {
		if op.Budget == category && op.Account == account {
			total = total.Sub(op.Amount)
		}
	}
	return total
}

// Remaining returns the allocated amount of b minus what was spent.
func (s *Service) Remaining(b model.Budget) decimal.Decimal {
	return b.Amount.Sub(s.Spent(b.Category, b.Account))
}
