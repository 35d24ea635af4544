package repository

import (
	"context"
	"errors"
	"time"

	"bebop/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Storage-level sentinels. The service layer translates these into its own
// error taxonomy; handlers never see them directly.
var (
	// ErrNotFound: the referenced record does not exist.
	ErrNotFound = errors.New("record not found")
	// ErrDuplicateActive: an insert hit the partial unique index that allows
	// at most one row with status = 'active'.
	ErrDuplicateActive = errors.New("an active session row already exists")
	// ErrStaleSession: a conditional write found the session no longer active —
	// a concurrent close won the race.
	ErrStaleSession = errors.New("session is no longer active")
)

// SessionRepository is the narrow store contract the session core depends on.
// Every operation is atomic at the single-record level; Insert and
// ReplaceClosed carry the concurrency guarantees the lifecycle needs.
type SessionRepository interface {
	// Insert persists a new active session. Returns ErrDuplicateActive when
	// another active session already exists (checked atomically by the index).
	Insert(ctx context.Context, s *model.PosSession) error
	// FindActive returns the single active session, or (nil, nil) when none.
	FindActive(ctx context.Context) (*model.PosSession, error)
	// FindLastClosed returns the most recently closed session, or (nil, nil).
	FindLastClosed(ctx context.Context) (*model.PosSession, error)
	FindByID(ctx context.Context, id uuid.UUID) (*model.PosSession, error)
	// ReplaceClosed writes the terminal form of a session. The update is
	// conditioned on the row still being active; the loser of a concurrent
	// double-close gets ErrStaleSession.
	ReplaceClosed(ctx context.Context, s *model.PosSession) error
	// AppendXTicket appends one interim-audit entry and touches updated_at.
	// Only valid while the session is active (ErrStaleSession otherwise).
	AppendXTicket(ctx context.Context, sessionID uuid.UUID, entry *model.XTicketEntry) error
	ListClosed(ctx context.Context, page, limit int) ([]model.PosSession, int64, error)
}

type sessionRepo struct{ db *gorm.DB }

func NewSessionRepository(db *gorm.DB) SessionRepository { return &sessionRepo{db: db} }

func (r *sessionRepo) Insert(ctx context.Context, s *model.PosSession) error {
	err := r.db.WithContext(ctx).Create(s).Error
	// TranslateError is enabled on the gorm.Config, so a violation of the
	// partial unique index surfaces as gorm.ErrDuplicatedKey.
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return ErrDuplicateActive
	}
	return err
}

func (r *sessionRepo) FindActive(ctx context.Context) (*model.PosSession, error) {
	var s model.PosSession
	err := r.db.WithContext(ctx).
		Where("status = ?", model.SessionActive).
		First(&s).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *sessionRepo) FindLastClosed(ctx context.Context) (*model.PosSession, error) {
	var s model.PosSession
	err := r.db.WithContext(ctx).
		Where("status = ?", model.SessionClosed).
		Order("closed_at DESC").
		First(&s).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *sessionRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.PosSession, error) {
	var s model.PosSession
	err := r.db.WithContext(ctx).
		Preload("DailyIncomes", func(db *gorm.DB) *gorm.DB { return db.Order("position ASC") }).
		Preload("DailyOutcomes", func(db *gorm.DB) *gorm.DB { return db.Order("position ASC") }).
		Preload("XTickets", func(db *gorm.DB) *gorm.DB { return db.Order("generated_at ASC") }).
		First(&s, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *sessionRepo) ReplaceClosed(ctx context.Context, s *model.PosSession) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&model.PosSession{}).
			Where("id = ? AND status = ?", s.ID, model.SessionActive).
			Updates(map[string]interface{}{
				"status":                   s.Status,
				"closed_at":                s.ClosedAt,
				"closed_by_id":             s.ClosedBy.ID,
				"closed_by_login":          s.ClosedBy.Login,
				"closed_by_alias":          s.ClosedBy.Alias,
				"cash_closing":             s.CashClosing,
				"cash_closing_theoretical": s.CashClosingTheoretical,
				"cash_delta":               s.CashDelta,
				"cash_delta_justification": s.CashDeltaJustification,
			})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrStaleSession
		}
		for i := range s.DailyIncomes {
			s.DailyIncomes[i].SessionID = s.ID
		}
		for i := range s.DailyOutcomes {
			s.DailyOutcomes[i].SessionID = s.ID
		}
		if len(s.DailyIncomes) > 0 {
			if err := tx.Create(&s.DailyIncomes).Error; err != nil {
				return err
			}
		}
		if len(s.DailyOutcomes) > 0 {
			if err := tx.Create(&s.DailyOutcomes).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

func (r *sessionRepo) AppendXTicket(ctx context.Context, sessionID uuid.UUID, entry *model.XTicketEntry) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&model.PosSession{}).
			Where("id = ? AND status = ?", sessionID, model.SessionActive).
			Update("updated_at", time.Now().UTC())
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrStaleSession
		}
		entry.SessionID = sessionID
		return tx.Create(entry).Error
	})
}

func (r *sessionRepo) ListClosed(ctx context.Context, page, limit int) ([]model.PosSession, int64, error) {
	var total int64
	q := r.db.WithContext(ctx).Model(&model.PosSession{}).Where("status = ?", model.SessionClosed)
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	var sessions []model.PosSession
	err := q.Order("closed_at DESC").
		Offset((page - 1) * limit).
		Limit(limit).
		Find(&sessions).Error
	return sessions, total, err
}
