package service

import (
	"context"
	"testing"
	"time"

	"bebop/internal/model"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ── In-memory PaymentSource ──────────────────────────────────────────────────

// paidRecord carries the parent-order facts the SQL join would provide.
type paidRecord struct {
	orderCreatedAt time.Time
	orderStatus    string
	payment        model.OrderPayment
}

type memPaymentSource struct {
	records []paidRecord
}

func (m *memPaymentSource) FindPaidSince(_ context.Context, since time.Time) ([]model.OrderPayment, error) {
	var out []model.OrderPayment
	for _, r := range m.records {
		if r.orderCreatedAt.Before(since) {
			continue
		}
		if r.orderStatus != model.OrderPaid || r.payment.Status != model.PaymentPaid {
			continue
		}
		out = append(out, r.payment)
	}
	return out, nil
}

func paid(method string, amount float64, currency string, orderCreatedAt time.Time) paidRecord {
	return paidRecord{
		orderCreatedAt: orderCreatedAt,
		orderStatus:    model.OrderPaid,
		payment: model.OrderPayment{
			Method:   method,
			Amount:   decimal.NewFromFloat(amount),
			Currency: currency,
			Status:   model.PaymentPaid,
		},
	}
}

// ── Tests ─────────────────────────────────────────────────────────────────────

func TestAggregateFiltersUnpaidAndOutOfWindow(t *testing.T) {
	openedAt := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)
	before := openedAt.Add(-time.Hour)
	after := openedAt.Add(time.Hour)

	pending := paid("card", 5, "EUR", after)
	pending.payment.Status = "pending"

	src := &memPaymentSource{records: []paidRecord{
		paid("cash", 10, "EUR", before), // before opening — excluded
		paid("cash", 20, "EUR", after),
		pending, // not paid — excluded
	}}
	agg := NewIncomeAggregator(src)

	totals, err := agg.Aggregate(context.Background(), openedAt)
	require.NoError(t, err)
	require.Len(t, totals, 1)
	assert.Equal(t, "cash", totals[0].Method)
	assert.Equal(t, "20", totals[0].Amount.String())
}

func TestAggregateWindowLowerBoundInclusive(t *testing.T) {
	openedAt := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)
	src := &memPaymentSource{records: []paidRecord{
		paid("cash", 15, "EUR", openedAt), // exactly at opening — included
	}}
	agg := NewIncomeAggregator(src)

	totals, err := agg.Aggregate(context.Background(), openedAt)
	require.NoError(t, err)
	require.Len(t, totals, 1)
	assert.Equal(t, "15", totals[0].Amount.String())
}

func TestAggregatePreservesFirstSeenOrder(t *testing.T) {
	openedAt := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)
	after := openedAt.Add(time.Minute)
	src := &memPaymentSource{records: []paidRecord{
		paid("card", 30, "EUR", after),
		paid("cash", 50, "EUR", after),
		paid("card", 12.5, "EUR", after),
	}}
	agg := NewIncomeAggregator(src)

	totals, err := agg.Aggregate(context.Background(), openedAt)
	require.NoError(t, err)
	require.Len(t, totals, 2)
	assert.Equal(t, "card", totals[0].Method)
	assert.Equal(t, "42.5", totals[0].Amount.String())
	assert.Equal(t, "cash", totals[1].Method)
	assert.Equal(t, "50", totals[1].Amount.String())
}

func TestAggregateFirstCurrencyAuthoritative(t *testing.T) {
	openedAt := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)
	after := openedAt.Add(time.Minute)
	src := &memPaymentSource{records: []paidRecord{
		paid("card", 10, "EUR", after),
		paid("card", 10, "USD", after), // currency of the group stays EUR
	}}
	agg := NewIncomeAggregator(src)

	totals, err := agg.Aggregate(context.Background(), openedAt)
	require.NoError(t, err)
	require.Len(t, totals, 1)
	assert.Equal(t, "EUR", totals[0].Currency)
	assert.Equal(t, "20", totals[0].Amount.String())
}

func TestAggregateEmpty(t *testing.T) {
	agg := NewIncomeAggregator(&memPaymentSource{})
	totals, err := agg.Aggregate(context.Background(), time.Now())
	require.NoError(t, err)
	assert.Empty(t, totals)
}
