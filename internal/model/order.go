package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Order / payment status values. Only "paid" rows ever reach the aggregator.
const (
	OrderPaid   = "paid"
	PaymentPaid = "paid"
)

// Order is the parent transaction recorded by the order-management side.
// Status: "pending" | "paid" | "cancelled"
type Order struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Status    string    `gorm:"type:varchar(20);not null;default:'pending';index"`
	CreatedAt time.Time `gorm:"index"`
	UpdatedAt time.Time

	Payments []OrderPayment `gorm:"foreignKey:OrderID"`
}

// OrderPayment is one payment leg of an order. An order keeps its payments
// forever; the session core only ever reads them.
type OrderPayment struct {
	ID        uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	OrderID   uuid.UUID       `gorm:"type:uuid;index;not null"`
	Method    string          `gorm:"type:varchar(30);not null"`
	Amount    decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	Currency  string          `gorm:"type:varchar(3);not null"`
	Status    string          `gorm:"type:varchar(20);not null;default:'pending'"`
	CreatedAt time.Time
}
