package models

import (
	"time"

	"github.com/google/uuid"
)

// Session is the persistence model for server-side credentials. Expired rows
// are swept by the reaper job; validation does not depend on the sweep.
type Session struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey"`
	UserID       uuid.UUID `gorm:"type:uuid;index;not null"`
	SessionToken string    `gorm:"type:varchar(128);uniqueIndex;not null"`
	ExpiresAt    time.Time `gorm:"index;not null"`
	IPAddress    *string   `gorm:"type:varchar(45)"`
	UserAgent    *string   `gorm:"type:varchar(512)"`
	IsActive     bool      `gorm:"not null;default:true"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

func (Session) TableName() string {
	return "user_sessions"
}
