package dto

import "github.com/shopspring/decimal"

// PaymentInput is one payment leg recorded with an order.
type PaymentInput struct {
	Method   string          `json:"method"   validate:"required,min=2"`
	Amount   decimal.Decimal `json:"amount"   validate:"min=0"`
	Currency string          `json:"currency" validate:"required,len=3"`
	Status   string          `json:"status"   validate:"required,oneof=pending paid"`
}

type RecordOrderRequest struct {
	Status   string         `json:"status"   validate:"required,oneof=pending paid cancelled"`
	Payments []PaymentInput `json:"payments" validate:"required,min=1,dive"`
}

type OrderResponse struct {
	OrderID   string         `json:"order_id"`
	Status    string         `json:"status"`
	CreatedAt string         `json:"created_at"`
	Payments  []PaymentInput `json:"payments"`
}
