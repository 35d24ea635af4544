package service

import (
	"context"
	"fmt"
	"time"

	"bebop/internal/dto"
	"bebop/internal/model"
	"bebop/internal/repository"
)

// OrderService records orders coming in from the selling side. The session
// core consumes them read-only through the PaymentSource; this service is the
// only writer.
type OrderService interface {
	Record(ctx context.Context, req dto.RecordOrderRequest) (*dto.OrderResponse, error)
}

type orderService struct {
	repo repository.OrderRepository
}

func NewOrderService(repo repository.OrderRepository) OrderService {
	return &orderService{repo: repo}
}

func (s *orderService) Record(ctx context.Context, req dto.RecordOrderRequest) (*dto.OrderResponse, error) {
	for _, p := range req.Payments {
		if p.Amount.IsNegative() {
			return nil, fmt.Errorf("%w: payment amount must not be negative", ErrInvalidInput)
		}
	}

	order := &model.Order{
		Status:   req.Status,
		Payments: make([]model.OrderPayment, len(req.Payments)),
	}
	for i, p := range req.Payments {
		order.Payments[i] = model.OrderPayment{
			Method:   p.Method,
			Amount:   p.Amount,
			Currency: p.Currency,
			Status:   p.Status,
		}
	}
	if err := s.repo.Create(ctx, order); err != nil {
		return nil, err
	}

	return &dto.OrderResponse{
		OrderID:   order.ID.String(),
		Status:    order.Status,
		CreatedAt: order.CreatedAt.Format(time.RFC3339),
		Payments:  req.Payments,
	}, nil
}
