package model

import "github.com/shopspring/decimal"

// Money pairs an amount with its currency tag. Amounts in different currencies
// are never added together — the aggregator and the session service keep a
// single currency fixed for the whole of each computation.
type Money struct {
	Amount   decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"amount"`
	Currency string          `gorm:"type:varchar(3);not null" json:"currency"`
}

// CashDeltaTolerance is the absolute drawer discrepancy tolerated without a
// justification. A delta of exactly 0.01 passes; anything beyond does not.
var CashDeltaTolerance = decimal.New(1, -2)
