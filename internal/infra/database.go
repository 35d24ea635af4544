package infra

import (
	"fmt"

	"bebop/internal/model"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// NewDatabase establishes a GORM connection backed by pgx and runs AutoMigrate
// for the full schema.
//
// TranslateError is on so the session repository can detect unique-index
// violations portably (gorm.ErrDuplicatedKey) — that is how the
// single-active-session invariant surfaces from storage.
func NewDatabase(dsn string) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	if err != nil {
		return nil, err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxOpenConns(25)
	sqlDB.SetMaxIdleConns(5)

	// idx_pos_sessions_active (partial unique on status = 'active') is declared
	// on the PosSession model and created with the rest of the schema here.
	if err := db.AutoMigrate(
		&model.Operator{},
		&model.PosSession{},
		&model.SessionIncome{},
		&model.SessionOutcome{},
		&model.XTicketEntry{},
		&model.Order{},
		&model.OrderPayment{},
	); err != nil {
		return nil, fmt.Errorf("AutoMigrate: %w", err)
	}

	return db, nil
}
