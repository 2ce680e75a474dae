package models

import (
	"time"

	"github.com/google/uuid"
)

// User is the persistence model for portal accounts. AccountNumber and
// Username are stored as NULL when absent so that the unique indexes never
// collide across records without a value.
type User struct {
	ID            uuid.UUID `gorm:"type:uuid;primaryKey"`
	Email         string    `gorm:"type:varchar(255);uniqueIndex;not null"`
	AccountNumber *string   `gorm:"type:varchar(64);uniqueIndex"`
	Username      *string   `gorm:"type:varchar(50);uniqueIndex"`
	PasswordHash  string    `gorm:"type:varchar(255);not null"`
	FullName      *string   `gorm:"type:varchar(100)"`
	PhoneNumber   *string   `gorm:"type:varchar(20)"`
	Address       *string   `gorm:"type:varchar(255)"`
	IsVerified    bool      `gorm:"not null;default:false"`
	IsActive      bool      `gorm:"not null;default:true"`
	IsStaff       bool      `gorm:"not null;default:false"`
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

func (User) TableName() string {
	return "users"
}
