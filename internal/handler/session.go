package handler

import (
	"errors"
	"net/http"
	"strconv"

	"bebop/internal/apierror"
	"bebop/internal/dto"
	"bebop/internal/middleware"
	"bebop/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type SessionHandler struct{ svc service.SessionService }

func NewSessionHandler(svc service.SessionService) *SessionHandler {
	return &SessionHandler{svc: svc}
}

// sessionErrorStatus maps the service error taxonomy onto HTTP status codes.
func sessionErrorStatus(err error) int {
	switch {
	case errors.Is(err, service.ErrSessionNotFound):
		return http.StatusNotFound
	case errors.Is(err, service.ErrSessionAlreadyActive),
		errors.Is(err, service.ErrSessionAlreadyClosed),
		errors.Is(err, service.ErrSessionNotActive):
		return http.StatusConflict
	case errors.Is(err, service.ErrJustificationRequired):
		return http.StatusUnprocessableEntity
	case errors.Is(err, service.ErrInvalidInput):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// Open godoc
// @Summary Opens a new cash session
// @Tags session
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body dto.OpenSessionRequest true "Opening float"
// @Success 201 {object} dto.SessionReportResponse
// @Failure 409 {object} apierror.APIError
// @Router /v1/session/open [post]
func (h *SessionHandler) Open(c *gin.Context) {
	var req dto.OpenSessionRequest
	if !bindAndValidate(c, &req) {
		return
	}
	operator := middleware.GetClaims(c).Operator()

	resp, err := h.svc.Open(c.Request.Context(), operator, req)
	if err != nil {
		c.JSON(sessionErrorStatus(err), apierror.New(err.Error()))
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// Close godoc
// @Summary Closes a cash session and returns the Z-ticket
// @Tags session
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Session id"
// @Param body body dto.CloseSessionRequest true "Declared count, outcomes, optional justification"
// @Success 200 {object} dto.CloseSessionResponse
// @Failure 404 {object} apierror.APIError
// @Failure 409 {object} apierror.APIError
// @Failure 422 {object} apierror.APIError
// @Router /v1/session/{id}/close [post]
func (h *SessionHandler) Close(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("invalid session id"))
		return
	}
	var req dto.CloseSessionRequest
	if !bindAndValidate(c, &req) {
		return
	}
	operator := middleware.GetClaims(c).Operator()

	resp, err := h.svc.Close(c.Request.Context(), id, operator, req)
	if err != nil {
		c.JSON(sessionErrorStatus(err), apierror.New(err.Error()))
		return
	}
	c.JSON(http.StatusOK, resp)
}

// GenerateXTicket godoc
// @Summary Generates an interim X-ticket on the active session
// @Tags session
// @Produce json
// @Security BearerAuth
// @Param id path string true "Session id"
// @Success 200 {object} dto.XTicketResponse
// @Failure 404 {object} apierror.APIError
// @Failure 409 {object} apierror.APIError
// @Router /v1/session/{id}/x-ticket [post]
func (h *SessionHandler) GenerateXTicket(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("invalid session id"))
		return
	}
	operator := middleware.GetClaims(c).Operator()

	resp, err := h.svc.GenerateXTicket(c.Request.Context(), id, operator)
	if err != nil {
		c.JSON(sessionErrorStatus(err), apierror.New(err.Error()))
		return
	}
	c.JSON(http.StatusOK, resp)
}

// GetActive returns the currently active session, if any.
func (h *SessionHandler) GetActive(c *gin.Context) {
	resp, err := h.svc.GetActive(c.Request.Context())
	if err != nil {
		c.JSON(sessionErrorStatus(err), apierror.New(err.Error()))
		return
	}
	c.JSON(http.StatusOK, resp)
}

// GetReport returns the full report for one session.
func (h *SessionHandler) GetReport(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("invalid session id"))
		return
	}
	resp, err := h.svc.GetReport(c.Request.Context(), id)
	if err != nil {
		c.JSON(sessionErrorStatus(err), apierror.New(err.Error()))
		return
	}
	c.JSON(http.StatusOK, resp)
}

// History returns a paginated list of closed sessions.
func (h *SessionHandler) History(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 20
	}
	resp, err := h.svc.History(c.Request.Context(), page, limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, apierror.New(err.Error()))
		return
	}
	c.JSON(http.StatusOK, resp)
}
