package store

import (
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/obudget/obudget/internal/cipher"
)

func date(y, m, d int) time.Time {
	return time.Date(y, time.Month(m), d, 0, 0, 0, 0, time.UTC)
}

func dec(s string) decimal.Decimal {
	d, _ := decimal.NewFromString(s)
	return d
}

// encoded joins plaintext lines and shifts them with key.
func encoded(t *testing.T, key int, lines ...string) *strings.Reader {
	t.Helper()
	s, err := cipher.Encode(strings.Join(lines, "\n")+"\n", key)
	require.NoError(t, err)
	return strings.NewReader(s)
}

// sampleUserFile interleaves every record kind.
var sampleUserFile = []string{
	"C*Courant",
	"C*Livret A",
	"O*03/01/2025*Salaire*Courant*2100.00*virement*True*Revenus",
	"B*Courses*300*Courant",
	"O*05/01/2025*Supermarché*Courant*-84.35*carte**Courses",
	"C*PEL",
	"B*Loisirs*120.5*Courant",
	"O*06/01/2025*Épargne*Livret A*150*virement*True*",
}
