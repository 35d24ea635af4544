package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Session status values. Transition is monotonic: active → closed, never back.
const (
	SessionActive = "active"
	SessionClosed = "closed"
)

// PaymentMethodCash is the reserved payment method counted in the physical
// drawer. Every other method contributes to income totals only.
const PaymentMethodCash = "cash"

// OperatorRef is the operator identity snapshotted onto audit records.
// Tickets are legal documents: they keep displaying the identity as it was
// when the record was written, even if the operator account is later renamed.
type OperatorRef struct {
	ID    string `gorm:"type:varchar(64)" json:"id"`
	Login string `gorm:"type:varchar(100)" json:"login"`
	Alias string `gorm:"type:varchar(100)" json:"alias"`
}

// DisplayName resolves the name shown on tickets: alias, falling back to
// login, falling back to the raw identifier.
func (o OperatorRef) DisplayName() string {
	if o.Alias != "" {
		return o.Alias
	}
	if o.Login != "" {
		return o.Login
	}
	return o.ID
}

// PosSession represents one cash register operating period from open to close.
//
// The partial unique index on status is the storage-level guarantee behind the
// "at most one active session" invariant: two concurrent opens cannot both
// insert a row with status = 'active', whatever each of them observed before.
type PosSession struct {
	ID     uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Status string    `gorm:"type:varchar(20);not null;default:'active';index:idx_pos_sessions_active,unique,where:status = 'active'"`

	CashOpening Money       `gorm:"embedded;embeddedPrefix:cash_opening_"`
	OpenedAt    time.Time   `gorm:"not null"`
	OpenedBy    OperatorRef `gorm:"embedded;embeddedPrefix:opened_by_"`

	// Closing facts — nil until the session is closed, immutable afterwards.
	// CashDelta = declared − theoretical, in the opening currency.
	ClosedAt               *time.Time
	ClosedBy               OperatorRef      `gorm:"embedded;embeddedPrefix:closed_by_"`
	CashClosing            *decimal.Decimal `gorm:"type:decimal(12,2)"`
	CashClosingTheoretical *decimal.Decimal `gorm:"type:decimal(12,2)"`
	CashDelta              *decimal.Decimal `gorm:"type:decimal(12,2)"`
	CashDeltaJustification *string

	DailyIncomes  []SessionIncome  `gorm:"foreignKey:SessionID"`
	DailyOutcomes []SessionOutcome `gorm:"foreignKey:SessionID"`
	XTickets      []XTicketEntry   `gorm:"foreignKey:SessionID"`

	CreatedAt time.Time
	UpdatedAt time.Time
}

// SessionIncome is one per-method income subtotal, snapshotted at closing
// time (recomputed from scratch, never incrementally accumulated). Position
// preserves first-seen method order so ticket rendering is deterministic.
type SessionIncome struct {
	ID        uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	SessionID uuid.UUID       `gorm:"type:uuid;index;not null"`
	Position  int             `gorm:"not null"`
	Method    string          `gorm:"type:varchar(30);not null"`
	Amount    decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	Currency  string          `gorm:"type:varchar(3);not null"`
}

// SessionOutcome is a cash disbursement declared by the closer (e.g. a bank
// deposit). Outcomes are supplied at close, never derived from payments.
type SessionOutcome struct {
	ID        uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	SessionID uuid.UUID       `gorm:"type:uuid;index;not null"`
	Position  int             `gorm:"not null"`
	Category  string          `gorm:"not null"`
	Amount    decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	Currency  string          `gorm:"type:varchar(3);not null"`
}

// XTicketEntry records one interim audit printout. Entries are append-only
// while the session is active and never mutated or removed.
type XTicketEntry struct {
	ID          uuid.UUID   `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	SessionID   uuid.UUID   `gorm:"type:uuid;index;not null"`
	GeneratedAt time.Time   `gorm:"not null"`
	GeneratedBy OperatorRef `gorm:"embedded;embeddedPrefix:generated_by_"`
}

// MethodTotal is one aggregated per-method income line. The currency is the
// one recorded on the first payment seen for the method.
type MethodTotal struct {
	Method   string
	Amount   decimal.Decimal
	Currency string
}
