// Package ticket renders the two audit documents of a cash session: the
// X-ticket (interim, session still open) and the Z-ticket (final, session
// closed). Rendering is pure and deterministic — the same session snapshot
// always produces the same bytes — because the output is a legal artifact
// that may be reprinted and compared later.
package ticket

import (
	"strings"

	"bebop/internal/model"

	"github.com/shopspring/decimal"
)

const timeLayout = "2006-01-02 15:04"

// balanceErrorFlag is printed on the Z-ticket when the drawer count diverged
// beyond tolerance from the theoretical closing cash.
const balanceErrorFlag = `/!\ BALANCE ERROR /!\`

// formatAmount renders a monetary amount with exactly two decimal places.
func formatAmount(a decimal.Decimal) string {
	return a.StringFixed(2)
}

// formatSigned renders a delta with an explicit sign, "+" included.
func formatSigned(a decimal.Decimal) string {
	if a.IsNegative() {
		return a.StringFixed(2)
	}
	return "+" + a.StringFixed(2)
}

// totalCurrency picks the currency shown on total lines: the first income's
// currency when incomes exist, the opening currency otherwise. Mixed
// currencies across methods are not reconciled (see the aggregator contract).
func totalCurrency(fallback string, first func() (string, bool)) string {
	if cur, ok := first(); ok {
		return cur
	}
	return fallback
}

// RenderZTicket produces the final audit text for a closed session.
func RenderZTicket(brand string, s *model.PosSession) string {
	lines := []string{
		brand,
		"Z ticket",
		"Session opened at " + s.OpenedAt.Format(timeLayout) + " by " + s.OpenedBy.DisplayName(),
	}
	if s.ClosedAt != nil {
		lines = append(lines, "Session closed at "+s.ClosedAt.Format(timeLayout)+" by "+s.ClosedBy.DisplayName())
	}
	if s.CashDelta != nil && s.CashDelta.Abs().GreaterThan(model.CashDeltaTolerance) {
		lines = append(lines, balanceErrorFlag)
	}

	cur := totalCurrency(s.CashOpening.Currency, func() (string, bool) {
		if len(s.DailyIncomes) > 0 {
			return s.DailyIncomes[0].Currency, true
		}
		return "", false
	})

	totalIncome := decimal.Zero
	lines = append(lines, "Daily incomes :")
	for _, in := range s.DailyIncomes {
		lines = append(lines, "  - "+in.Method+" : "+formatAmount(in.Amount)+" "+in.Currency)
		totalIncome = totalIncome.Add(in.Amount)
	}
	lines = append(lines, "Daily incomes total :", "  - "+formatAmount(totalIncome)+" "+cur)

	totalOutcome := decimal.Zero
	lines = append(lines, "Daily outcomes :")
	for _, out := range s.DailyOutcomes {
		lines = append(lines, "  - "+out.Category+" : "+formatAmount(out.Amount)+" "+out.Currency)
		totalOutcome = totalOutcome.Add(out.Amount)
	}
	lines = append(lines, "Daily outcomes total :", "  - "+formatAmount(totalOutcome)+" "+cur)

	lines = append(lines, "Daily delta :", "  - "+formatSigned(totalIncome.Sub(totalOutcome))+" "+cur)

	// Cash-specific section, always in the opening currency.
	cashCur := s.CashOpening.Currency
	cashIncome := decimal.Zero
	for _, in := range s.DailyIncomes {
		if in.Method == model.PaymentMethodCash {
			cashIncome = cashIncome.Add(in.Amount)
		}
	}
	lines = append(lines,
		"Cash opening : "+formatAmount(s.CashOpening.Amount)+" "+cashCur,
		"Cash income : "+formatAmount(cashIncome)+" "+cashCur,
		"Cash outcomes : "+formatAmount(totalOutcome)+" "+cashCur,
	)
	if s.CashClosing != nil {
		lines = append(lines, "Cash closing declared : "+formatAmount(*s.CashClosing)+" "+cashCur)
	}
	if s.CashClosingTheoretical != nil {
		lines = append(lines, "Cash closing theoretical : "+formatAmount(*s.CashClosingTheoretical)+" "+cashCur)
	}
	if s.CashDelta != nil {
		lines = append(lines, "Cash delta : "+formatSigned(*s.CashDelta)+" "+cashCur)
	}
	if s.CashDeltaJustification != nil && *s.CashDeltaJustification != "" {
		lines = append(lines, "Justification : "+*s.CashDeltaJustification)
	}

	return strings.Join(lines, "\n")
}

// RenderXTicket produces the interim audit text for an active session, from a
// fresh income snapshot and the log entry recorded for this printout.
func RenderXTicket(brand string, s *model.PosSession, incomes []model.MethodTotal, entry *model.XTicketEntry) string {
	lines := []string{
		brand,
		"X ticket",
		"Session opened at " + s.OpenedAt.Format(timeLayout) + " by " + s.OpenedBy.DisplayName(),
		"Ticket generated at " + entry.GeneratedAt.Format(timeLayout) + " by " + entry.GeneratedBy.DisplayName(),
	}

	cur := totalCurrency(s.CashOpening.Currency, func() (string, bool) {
		if len(incomes) > 0 {
			return incomes[0].Currency, true
		}
		return "", false
	})

	total := decimal.Zero
	lines = append(lines, "Daily incomes so far :")
	for _, t := range incomes {
		lines = append(lines, "  - "+t.Method+" : "+formatAmount(t.Amount)+" "+t.Currency)
		total = total.Add(t.Amount)
	}
	lines = append(lines, "Daily incomes total so far :", "  - "+formatAmount(total)+" "+cur)

	return strings.Join(lines, "\n")
}
