package handler

import (
	"net/http"

	"bebop/internal/apierror"
	"bebop/internal/dto"
	"bebop/internal/service"

	"github.com/gin-gonic/gin"
)

type OrdersHandler struct{ svc service.OrderService }

func NewOrdersHandler(svc service.OrderService) *OrdersHandler {
	return &OrdersHandler{svc: svc}
}

// Record godoc
// @Summary Records an order with its payment legs
// @Tags orders
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body dto.RecordOrderRequest true "Order data"
// @Success 201 {object} dto.OrderResponse
// @Failure 400 {object} apierror.APIError
// @Router /v1/orders [post]
func (h *OrdersHandler) Record(c *gin.Context) {
	var req dto.RecordOrderRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.Record(c.Request.Context(), req)
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
		return
	}
	c.JSON(http.StatusCreated, resp)
}
