package ticket

import (
	"testing"
	"time"

	"bebop/internal/model"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dec(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

func atTime(hour, min int) time.Time {
	return time.Date(2026, 3, 10, hour, min, 0, 0, time.UTC)
}

func closedSession() *model.PosSession {
	closedAt := atTime(19, 30)
	declared := dec("250.00")
	theoretical := dec("280.00")
	delta := dec("-30.00")
	justification := "missing notes, incident reported"
	return &model.PosSession{
		Status:      model.SessionClosed,
		CashOpening: model.Money{Amount: dec("200.00"), Currency: "EUR"},
		OpenedAt:    atTime(8, 0),
		OpenedBy:    model.OperatorRef{ID: "op-1", Login: "mcaro", Alias: "Marina"},
		ClosedAt:    &closedAt,
		ClosedBy:    model.OperatorRef{ID: "op-2", Login: "jperez"},

		CashClosing:            &declared,
		CashClosingTheoretical: &theoretical,
		CashDelta:              &delta,
		CashDeltaJustification: &justification,

		DailyIncomes: []model.SessionIncome{
			{Position: 0, Method: "card", Amount: dec("120.50"), Currency: "EUR"},
			{Position: 1, Method: "cash", Amount: dec("80.00"), Currency: "EUR"},
		},
		DailyOutcomes: []model.SessionOutcome{
			{Position: 0, Category: "bank deposit", Amount: dec("50.00"), Currency: "EUR"},
		},
	}
}

func TestRenderZTicket(t *testing.T) {
	got := RenderZTicket("be-bop", closedSession())

	want := "be-bop\n" +
		"Z ticket\n" +
		"Session opened at 2026-03-10 08:00 by Marina\n" +
		"Session closed at 2026-03-10 19:30 by jperez\n" +
		`/!\ BALANCE ERROR /!\` + "\n" +
		"Daily incomes :\n" +
		"  - card : 120.50 EUR\n" +
		"  - cash : 80.00 EUR\n" +
		"Daily incomes total :\n" +
		"  - 200.50 EUR\n" +
		"Daily outcomes :\n" +
		"  - bank deposit : 50.00 EUR\n" +
		"Daily outcomes total :\n" +
		"  - 50.00 EUR\n" +
		"Daily delta :\n" +
		"  - +150.50 EUR\n" +
		"Cash opening : 200.00 EUR\n" +
		"Cash income : 80.00 EUR\n" +
		"Cash outcomes : 50.00 EUR\n" +
		"Cash closing declared : 250.00 EUR\n" +
		"Cash closing theoretical : 280.00 EUR\n" +
		"Cash delta : -30.00 EUR\n" +
		"Justification : missing notes, incident reported"

	assert.Equal(t, want, got)
}

func TestRenderZTicketDeterministic(t *testing.T) {
	s := closedSession()
	first := RenderZTicket("be-bop", s)
	second := RenderZTicket("be-bop", s)
	assert.Equal(t, first, second)
}

func TestRenderZTicketBalanceFlagWithinTolerance(t *testing.T) {
	s := closedSession()
	delta := dec("0.01")
	s.CashDelta = &delta
	s.CashDeltaJustification = nil

	got := RenderZTicket("be-bop", s)
	assert.NotContains(t, got, "BALANCE ERROR")
	assert.Contains(t, got, "Cash delta : +0.01 EUR")
	assert.NotContains(t, got, "Justification :")
}

func TestRenderZTicketNoIncomes(t *testing.T) {
	s := closedSession()
	s.DailyIncomes = nil
	s.DailyOutcomes = nil

	got := RenderZTicket("be-bop", s)
	// Total lines fall back to the opening currency.
	assert.Contains(t, got, "Daily incomes total :\n  - 0.00 EUR")
	assert.Contains(t, got, "Daily outcomes total :\n  - 0.00 EUR")
	assert.Contains(t, got, "Daily delta :\n  - +0.00 EUR")
	assert.Contains(t, got, "Cash income : 0.00 EUR")
}

func TestRenderXTicket(t *testing.T) {
	s := &model.PosSession{
		Status:      model.SessionActive,
		CashOpening: model.Money{Amount: dec("200.00"), Currency: "EUR"},
		OpenedAt:    atTime(8, 0),
		OpenedBy:    model.OperatorRef{ID: "op-1", Login: "mcaro", Alias: "Marina"},
	}
	incomes := []model.MethodTotal{
		{Method: "cash", Amount: dec("80.00"), Currency: "EUR"},
	}
	entry := &model.XTicketEntry{
		GeneratedAt: atTime(13, 45),
		GeneratedBy: model.OperatorRef{ID: "op-2", Login: "jperez"},
	}

	got := RenderXTicket("be-bop", s, incomes, entry)

	want := "be-bop\n" +
		"X ticket\n" +
		"Session opened at 2026-03-10 08:00 by Marina\n" +
		"Ticket generated at 2026-03-10 13:45 by jperez\n" +
		"Daily incomes so far :\n" +
		"  - cash : 80.00 EUR\n" +
		"Daily incomes total so far :\n" +
		"  - 80.00 EUR"
	assert.Equal(t, want, got)
	require.Contains(t, got, "Daily incomes total so far :\n  - 80.00 EUR")
}

func TestFormatSigned(t *testing.T) {
	assert.Equal(t, "+0.00", formatSigned(decimal.Zero))
	assert.Equal(t, "+12.30", formatSigned(dec("12.3")))
	assert.Equal(t, "-0.01", formatSigned(dec("-0.01")))
}
