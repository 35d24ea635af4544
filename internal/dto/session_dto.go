package dto

import "github.com/shopspring/decimal"

// ─── Request DTOs ────────────────────────────────────────────────────────────

type OpenSessionRequest struct {
	CashOpening decimal.Decimal `json:"cash_opening" validate:"min=0"`
	Currency    string          `json:"currency"     validate:"required,len=3"`
}

// OutcomeInput is one cash disbursement declared at close (e.g. bank deposit).
// Currency may be omitted; it then defaults to the session's opening currency.
type OutcomeInput struct {
	Category string          `json:"category" validate:"required,min=2"`
	Amount   decimal.Decimal `json:"amount"   validate:"min=0"`
	Currency string          `json:"currency" validate:"omitempty,len=3"`
}

type CloseSessionRequest struct {
	CashClosing   decimal.Decimal `json:"cash_closing" validate:"min=0"`
	Currency      string          `json:"currency"     validate:"required,len=3"`
	Outcomes      []OutcomeInput  `json:"outcomes"     validate:"dive"`
	Justification string          `json:"justification"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type AmountResponse struct {
	Amount   decimal.Decimal `json:"amount"`
	Currency string          `json:"currency"`
}

type IncomeResponse struct {
	Method   string          `json:"method"`
	Amount   decimal.Decimal `json:"amount"`
	Currency string          `json:"currency"`
}

type OutcomeResponse struct {
	Category string          `json:"category"`
	Amount   decimal.Decimal `json:"amount"`
	Currency string          `json:"currency"`
}

type XTicketLogEntry struct {
	GeneratedAt string `json:"generated_at"`
	GeneratedBy string `json:"generated_by"`
}

type SessionReportResponse struct {
	SessionID   string         `json:"session_id"`
	Status      string         `json:"status"` // active | closed
	CashOpening AmountResponse `json:"cash_opening"`
	OpenedAt    string         `json:"opened_at"`
	OpenedBy    string         `json:"opened_by"`

	ClosedAt               *string          `json:"closed_at,omitempty"`
	ClosedBy               *string          `json:"closed_by,omitempty"`
	CashClosing            *decimal.Decimal `json:"cash_closing,omitempty"`
	CashClosingTheoretical *decimal.Decimal `json:"cash_closing_theoretical,omitempty"`
	CashDelta              *decimal.Decimal `json:"cash_delta,omitempty"`
	CashDeltaJustification *string          `json:"cash_delta_justification,omitempty"`

	DailyIncomes  []IncomeResponse  `json:"daily_incomes"`
	DailyOutcomes []OutcomeResponse `json:"daily_outcomes"`
	XTickets      []XTicketLogEntry `json:"x_tickets"`
}

type CloseSessionResponse struct {
	Session *SessionReportResponse `json:"session"`
	Ticket  string                 `json:"ticket"`
}

type XTicketResponse struct {
	SessionID   string `json:"session_id"`
	GeneratedAt string `json:"generated_at"`
	GeneratedBy string `json:"generated_by"`
	Ticket      string `json:"ticket"`
}

type SessionHistoryResponse struct {
	Data  []SessionReportResponse `json:"data"`
	Page  int                     `json:"page"`
	Limit int                     `json:"limit"`
	Total int64                   `json:"total"`
}
