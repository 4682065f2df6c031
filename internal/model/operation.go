package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Operation is an `O` line of a user file.
type Operation struct {
	Date          time.Time
	Label         string
	Account       string
	Amount        decimal.Decimal // negative = expense, positive = income
	PaymentMethod string
	Effective     bool // operation has cleared
	Budget        string
}

// Budget is a `B` line of a user file.
type Budget struct {
	Category string
	Amount   decimal.Decimal // allocated
	Account  string
}
