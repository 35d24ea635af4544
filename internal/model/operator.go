package model

import (
	"time"

	"github.com/google/uuid"
)

// Operator stores till operators with role-based access.
// Role: "cashier" | "manager"
type Operator struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Login        string    `gorm:"uniqueIndex;not null"`
	Alias        string
	PasswordHash string `gorm:"not null"`
	Role         string `gorm:"type:varchar(20);not null"`
	Active       bool   `gorm:"not null;default:true"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Ref returns the identity snapshot written onto sessions and tickets.
func (o *Operator) Ref() OperatorRef {
	return OperatorRef{ID: o.ID.String(), Login: o.Login, Alias: o.Alias}
}
