package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"bebop/internal/config"
	"bebop/internal/dto"
	"bebop/internal/model"
	"bebop/internal/repository"
	"bebop/internal/ticket"
	"bebop/internal/worker"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
)

type SessionService interface {
	Open(ctx context.Context, operator model.OperatorRef, req dto.OpenSessionRequest) (*dto.SessionReportResponse, error)
	Close(ctx context.Context, id uuid.UUID, operator model.OperatorRef, req dto.CloseSessionRequest) (*dto.CloseSessionResponse, error)
	GenerateXTicket(ctx context.Context, id uuid.UUID, operator model.OperatorRef) (*dto.XTicketResponse, error)
	GetActive(ctx context.Context) (*dto.SessionReportResponse, error)
	GetReport(ctx context.Context, id uuid.UUID) (*dto.SessionReportResponse, error)
	History(ctx context.Context, page, limit int) (*dto.SessionHistoryResponse, error)
}

type sessionService struct {
	repo       repository.SessionRepository
	aggregator *IncomeAggregator
	// dispatcher may be nil (unit tests, deployments without Redis); archival
	// is best-effort and never fails a close.
	dispatcher            *worker.Dispatcher
	brandName             string
	justificationRequired bool
}

func NewSessionService(repo repository.SessionRepository, aggregator *IncomeAggregator, dispatcher *worker.Dispatcher, cfg *config.Config) SessionService {
	return &sessionService{
		repo:                  repo,
		aggregator:            aggregator,
		dispatcher:            dispatcher,
		brandName:             cfg.BrandName,
		justificationRequired: cfg.CashDeltaJustificationRequired,
	}
}

// ── Open ──────────────────────────────────────────────────────────────────────

func (s *sessionService) Open(ctx context.Context, operator model.OperatorRef, req dto.OpenSessionRequest) (*dto.SessionReportResponse, error) {
	if req.CashOpening.IsNegative() {
		return nil, fmt.Errorf("%w: opening cash must not be negative", ErrInvalidInput)
	}

	if existing, err := s.repo.FindActive(ctx); err != nil {
		return nil, err
	} else if existing != nil {
		return nil, ErrSessionAlreadyActive
	}

	// A till count that does not match the previous day's closing count is
	// tolerated drift: warn, never block.
	if last, err := s.repo.FindLastClosed(ctx); err != nil {
		return nil, err
	} else if last != nil && last.CashClosing != nil {
		if !last.CashClosing.Equal(req.CashOpening) || last.CashOpening.Currency != req.Currency {
			log.Warn().
				Str("previous_session_id", last.ID.String()).
				Str("previous_closing", last.CashClosing.StringFixed(2)+" "+last.CashOpening.Currency).
				Str("opening", req.CashOpening.StringFixed(2)+" "+req.Currency).
				Msg("opening cash does not match previous session closing count")
		}
	}

	sess := &model.PosSession{
		Status:      model.SessionActive,
		CashOpening: model.Money{Amount: req.CashOpening, Currency: req.Currency},
		OpenedAt:    time.Now().UTC(),
		OpenedBy:    operator,
	}
	if err := s.repo.Insert(ctx, sess); err != nil {
		// The check above raced with another open; storage is the arbiter.
		if errors.Is(err, repository.ErrDuplicateActive) {
			return nil, ErrSessionAlreadyActive
		}
		return nil, err
	}

	log.Info().
		Str("session_id", sess.ID.String()).
		Str("opened_by", operator.DisplayName()).
		Msg("cash session opened")
	return buildReport(sess), nil
}

// ── Close ─────────────────────────────────────────────────────────────────────

func (s *sessionService) Close(ctx context.Context, id uuid.UUID, operator model.OperatorRef, req dto.CloseSessionRequest) (*dto.CloseSessionResponse, error) {
	if req.CashClosing.IsNegative() {
		return nil, fmt.Errorf("%w: declared closing cash must not be negative", ErrInvalidInput)
	}
	for _, out := range req.Outcomes {
		if out.Amount.IsNegative() {
			return nil, fmt.Errorf("%w: outcome %q must not be negative", ErrInvalidInput, out.Category)
		}
	}

	sess, err := s.repo.FindByID(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrSessionNotFound
	}
	if err != nil {
		return nil, err
	}
	if sess.Status == model.SessionClosed {
		return nil, ErrSessionAlreadyClosed
	}
	if req.Currency != sess.CashOpening.Currency {
		return nil, fmt.Errorf("%w: closing currency %s does not match opening currency %s",
			ErrInvalidInput, req.Currency, sess.CashOpening.Currency)
	}
	for _, out := range req.Outcomes {
		if out.Currency != "" && out.Currency != sess.CashOpening.Currency {
			return nil, fmt.Errorf("%w: outcome %q currency %s does not match opening currency %s",
				ErrInvalidInput, out.Category, out.Currency, sess.CashOpening.Currency)
		}
	}

	// Incomes are recomputed from scratch over the full session window — the
	// snapshot can never carry incremental drift.
	totals, err := s.aggregator.Aggregate(ctx, sess.OpenedAt)
	if err != nil {
		return nil, err
	}

	cashIncome := decimal.Zero
	for _, t := range totals {
		if t.Method == model.PaymentMethodCash {
			cashIncome = t.Amount
			break
		}
	}
	totalOutcomes := decimal.Zero
	for _, out := range req.Outcomes {
		totalOutcomes = totalOutcomes.Add(out.Amount)
	}

	theoretical := sess.CashOpening.Amount.Add(cashIncome).Sub(totalOutcomes)
	delta := req.CashClosing.Sub(theoretical)

	justification := strings.TrimSpace(req.Justification)
	if s.justificationRequired && delta.Abs().GreaterThan(model.CashDeltaTolerance) && justification == "" {
		return nil, ErrJustificationRequired
	}

	now := time.Now().UTC()
	declared := req.CashClosing
	sess.Status = model.SessionClosed
	sess.ClosedAt = &now
	sess.ClosedBy = operator
	sess.CashClosing = &declared
	sess.CashClosingTheoretical = &theoretical
	sess.CashDelta = &delta
	if justification != "" {
		sess.CashDeltaJustification = &justification
	}

	sess.DailyIncomes = make([]model.SessionIncome, len(totals))
	for i, t := range totals {
		sess.DailyIncomes[i] = model.SessionIncome{
			SessionID: sess.ID,
			Position:  i,
			Method:    t.Method,
			Amount:    t.Amount,
			Currency:  t.Currency,
		}
	}
	sess.DailyOutcomes = make([]model.SessionOutcome, len(req.Outcomes))
	for i, out := range req.Outcomes {
		cur := out.Currency
		if cur == "" {
			cur = sess.CashOpening.Currency
		}
		sess.DailyOutcomes[i] = model.SessionOutcome{
			SessionID: sess.ID,
			Position:  i,
			Category:  out.Category,
			Amount:    out.Amount,
			Currency:  cur,
		}
	}

	if err := s.repo.ReplaceClosed(ctx, sess); err != nil {
		// A concurrent close won the check-and-set on status.
		if errors.Is(err, repository.ErrStaleSession) {
			return nil, ErrSessionAlreadyClosed
		}
		return nil, err
	}

	text := ticket.RenderZTicket(s.brandName, sess)
	s.archiveZTicket(ctx, sess, text)

	log.Info().
		Str("session_id", sess.ID.String()).
		Str("closed_by", operator.DisplayName()).
		Str("cash_delta", delta.StringFixed(2)+" "+sess.CashOpening.Currency).
		Msg("cash session closed")
	return &dto.CloseSessionResponse{Session: buildReport(sess), Ticket: text}, nil
}

// ── GenerateXTicket ───────────────────────────────────────────────────────────

func (s *sessionService) GenerateXTicket(ctx context.Context, id uuid.UUID, operator model.OperatorRef) (*dto.XTicketResponse, error) {
	sess, err := s.repo.FindByID(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrSessionNotFound
	}
	if err != nil {
		return nil, err
	}
	if sess.Status != model.SessionActive {
		return nil, ErrSessionNotActive
	}

	// Same aggregation as close, but nothing is settled: no outcomes, no
	// closing fields, no status change.
	totals, err := s.aggregator.Aggregate(ctx, sess.OpenedAt)
	if err != nil {
		return nil, err
	}

	entry := &model.XTicketEntry{
		SessionID:   sess.ID,
		GeneratedAt: time.Now().UTC(),
		GeneratedBy: operator,
	}
	if err := s.repo.AppendXTicket(ctx, sess.ID, entry); err != nil {
		if errors.Is(err, repository.ErrStaleSession) {
			return nil, ErrSessionNotActive
		}
		return nil, err
	}

	text := ticket.RenderXTicket(s.brandName, sess, totals, entry)
	return &dto.XTicketResponse{
		SessionID:   sess.ID.String(),
		GeneratedAt: entry.GeneratedAt.Format(time.RFC3339),
		GeneratedBy: operator.DisplayName(),
		Ticket:      text,
	}, nil
}

// ── Queries ───────────────────────────────────────────────────────────────────

func (s *sessionService) GetActive(ctx context.Context) (*dto.SessionReportResponse, error) {
	sess, err := s.repo.FindActive(ctx)
	if err != nil {
		return nil, err
	}
	if sess == nil {
		return nil, ErrSessionNotFound
	}
	return buildReport(sess), nil
}

func (s *sessionService) GetReport(ctx context.Context, id uuid.UUID) (*dto.SessionReportResponse, error) {
	sess, err := s.repo.FindByID(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrSessionNotFound
	}
	if err != nil {
		return nil, err
	}
	return buildReport(sess), nil
}

func (s *sessionService) History(ctx context.Context, page, limit int) (*dto.SessionHistoryResponse, error) {
	sessions, total, err := s.repo.ListClosed(ctx, page, limit)
	if err != nil {
		return nil, err
	}
	data := make([]dto.SessionReportResponse, len(sessions))
	for i := range sessions {
		data[i] = *buildReport(&sessions[i])
	}
	return &dto.SessionHistoryResponse{Data: data, Page: page, Limit: limit, Total: total}, nil
}

// ── Helpers ───────────────────────────────────────────────────────────────────

func (s *sessionService) archiveZTicket(ctx context.Context, sess *model.PosSession, text string) {
	if s.dispatcher == nil {
		return
	}
	payload := worker.TicketArchivePayload{
		SessionID: sess.ID.String(),
		ClosedAt:  sess.ClosedAt.Format(time.RFC3339),
		Ticket:    text,
	}
	if err := s.dispatcher.EnqueueTicketArchive(ctx, payload); err != nil {
		log.Error().Err(err).Str("session_id", sess.ID.String()).Msg("failed to enqueue z-ticket archive")
	}
}

func buildReport(sess *model.PosSession) *dto.SessionReportResponse {
	report := &dto.SessionReportResponse{
		SessionID: sess.ID.String(),
		Status:    sess.Status,
		CashOpening: dto.AmountResponse{
			Amount:   sess.CashOpening.Amount,
			Currency: sess.CashOpening.Currency,
		},
		OpenedAt:               sess.OpenedAt.Format(time.RFC3339),
		OpenedBy:               sess.OpenedBy.DisplayName(),
		CashClosing:            sess.CashClosing,
		CashClosingTheoretical: sess.CashClosingTheoretical,
		CashDelta:              sess.CashDelta,
		CashDeltaJustification: sess.CashDeltaJustification,
		DailyIncomes:           make([]dto.IncomeResponse, len(sess.DailyIncomes)),
		DailyOutcomes:          make([]dto.OutcomeResponse, len(sess.DailyOutcomes)),
		XTickets:               make([]dto.XTicketLogEntry, len(sess.XTickets)),
	}
	if sess.ClosedAt != nil {
		t := sess.ClosedAt.Format(time.RFC3339)
		report.ClosedAt = &t
		by := sess.ClosedBy.DisplayName()
		report.ClosedBy = &by
	}
	for i, in := range sess.DailyIncomes {
		report.DailyIncomes[i] = dto.IncomeResponse{Method: in.Method, Amount: in.Amount, Currency: in.Currency}
	}
	for i, out := range sess.DailyOutcomes {
		report.DailyOutcomes[i] = dto.OutcomeResponse{Category: out.Category, Amount: out.Amount, Currency: out.Currency}
	}
	for i, x := range sess.XTickets {
		report.XTickets[i] = dto.XTicketLogEntry{
			GeneratedAt: x.GeneratedAt.Format(time.RFC3339),
			GeneratedBy: x.GeneratedBy.DisplayName(),
		}
	}
	return report
}
