package model

import "github.com/shopspring/decimal"

// Balance returns the sum of every operation amount.
func Balance(ops []Operation) decimal.Decimal {
	total := decimal.Zero
	for _, op := range ops {
		total = total.Add(op.Amount)
	}
	return total
}

// EffectiveBalance sums only operations that have cleared.
func EffectiveBalance(ops []Operation) decimal.Decimal {
	total := decimal.Zero
	for _, op := range ops {
		if op.Effective {
			total = total.Add(op.Amount)
		}
	}
	return total
}

// BalanceByAccount sums operation amounts per account name.
func BalanceByAccount(ops []Operation) map[string]decimal.Decimal {
	totals := make(map[string]decimal.Decimal)
	for _, op := range ops {
		totals[op.Account] = totals[op.Account].Add(op.Amount)
	}
	return totals
}
