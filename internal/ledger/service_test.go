package ledger

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/obudget/obudget/internal/cipher"
	"github.com/obudget/obudget/internal/store"
)

var lines = []string{
	"C*Courant",
	"C*Livret A",
	"O*01/03/2025*Salaire*Courant*100.0*virement*True*",
	"O*02/03/2025*Marché*Courant*-40.5*carte*True*Courses",
	"O*03/03/2025*Remboursement*Courant*4.5*carte**Courses",
	"O*04/03/2025*Virement*Livret A*20.0*virement**",
	"B*Courses*60*Courant",
	"C*PEL",
}

func load(t *testing.T, opts store.Options) *Service {
	t.Helper()
	path := filepath.Join(t.TempDir(), "12345678.txt")
	require.NoError(t, os.WriteFile(path, []byte(strings.Join(lines, "\n")+"\n"), 0o600))
	_, err := store.EncryptFile(path, cipher.DefaultKey)
	require.NoError(t, err)

	svc, err := Load(path, cipher.DefaultKey, opts)
	require.NoError(t, err)
	return svc
}

func TestBalances(t *testing.T) {
	svc := load(t, store.DefaultOptions())

	assert.True(t, svc.Balance().Equal(decimal.RequireFromString("84")), "got %s", svc.Balance())
	assert.True(t, svc.EffectiveBalance().Equal(decimal.RequireFromString("59.5")), "got %s", svc.EffectiveBalance())

	byAccount := svc.BalanceByAccount()
	assert.True(t, byAccount["Courant"].Equal(decimal.NewFromInt(64)))
	assert.True(t, byAccount["Livret A"].Equal(decimal.NewFromInt(20)))
}

func TestBudgetUsage(t *testing.T) {
	svc := load(t, store.DefaultOptions())
	require.Len(t, svc.Budgets(), 1)

	b := svc.Budgets()[0]
	assert.True(t, svc.Spent(b.Category, b.Account).Equal(decimal.NewFromInt(36)))
	assert.True(t, svc.Remaining(b).Equal(decimal.NewFromInt(24)))
}

func TestAccountsFollowScanMode(t *testing.T) {
	svc := load(t, store.DefaultOptions())
	assert.Len(t, svc.Accounts(), 2)
	assert.True(t, svc.HasAccount("Livret A"))
	assert.False(t, svc.HasAccount("PEL"))

	opts := store.DefaultOptions()
	opts.AccountScan = store.ScanFullScan
	svc = load(t, opts)
	assert.Len(t, svc.Accounts(), 3)
	assert.True(t, svc.HasAccount("PEL"))
}

func TestLoadMissing(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "none.txt"), 1, store.DefaultOptions())
	require.Error(t, err)
	assert.ErrorIs(t, err, os.ErrNotExist)
}
