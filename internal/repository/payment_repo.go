package repository

import (
	"context"
	"time"

	"bebop/internal/model"

	"gorm.io/gorm"
)

// PaymentSource is the read-only contract the income aggregator pulls from.
// The result is treated as a point-in-time consistent snapshot for the
// duration of one aggregation call.
type PaymentSource interface {
	// FindPaidSince returns every paid payment whose parent order was created
	// at-or-after the given time, ordered by payment creation time.
	FindPaidSince(ctx context.Context, since time.Time) ([]model.OrderPayment, error)
}

type paymentSource struct{ db *gorm.DB }

func NewPaymentSource(db *gorm.DB) PaymentSource { return &paymentSource{db: db} }

func (r *paymentSource) FindPaidSince(ctx context.Context, since time.Time) ([]model.OrderPayment, error) {
	var payments []model.OrderPayment
	err := r.db.WithContext(ctx).
		Joins("JOIN orders ON orders.id = order_payments.order_id").
		Where("orders.created_at >= ? AND orders.status = ? AND order_payments.status = ?",
			since, model.OrderPaid, model.PaymentPaid).
		Order("order_payments.created_at ASC").
		Find(&payments).Error
	return payments, err
}

// OrderRepository records orders coming in from the selling side. The session
// core never writes orders; only the orders endpoint does.
type OrderRepository interface {
	Create(ctx context.Context, o *model.Order) error
}

type orderRepo struct{ db *gorm.DB }

func NewOrderRepository(db *gorm.DB) OrderRepository { return &orderRepo{db: db} }

func (r *orderRepo) Create(ctx context.Context, o *model.Order) error {
	return r.db.WithContext(ctx).Create(o).Error
}
