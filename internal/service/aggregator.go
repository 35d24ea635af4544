package service

import (
	"context"
	"time"

	"bebop/internal/model"
	"bebop/internal/repository"

	"github.com/shopspring/decimal"
)

// IncomeAggregator folds paid payments into per-method income totals.
// It performs no writes: one query against the payment source, one pass over
// the result.
type IncomeAggregator struct {
	payments repository.PaymentSource
}

func NewIncomeAggregator(payments repository.PaymentSource) *IncomeAggregator {
	return &IncomeAggregator{payments: payments}
}

// Aggregate groups the paid payments recorded at-or-after `since` by payment
// method and sums per-method amounts. Output preserves first-seen method
// order, which is what makes ticket rendering deterministic. The first
// payment's currency is authoritative for its method — mixed currencies
// within one method are not reconciled.
func (a *IncomeAggregator) Aggregate(ctx context.Context, since time.Time) ([]model.MethodTotal, error) {
	payments, err := a.payments.FindPaidSince(ctx, since)
	if err != nil {
		return nil, err
	}

	index := make(map[string]int, 4)
	totals := make([]model.MethodTotal, 0, 4)
	for _, p := range payments {
		i, seen := index[p.Method]
		if !seen {
			i = len(totals)
			index[p.Method] = i
			totals = append(totals, model.MethodTotal{
				Method:   p.Method,
				Amount:   decimal.Zero,
				Currency: p.Currency,
			})
		}
		totals[i].Amount = totals[i].Amount.Add(p.Amount)
	}
	return totals, nil
}
