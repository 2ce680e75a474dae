package models

import (
	"time"

	"github.com/google/uuid"
)

// Transaction is the persistence model for payment transactions.
type Transaction struct {
	ID               uuid.UUID `gorm:"type:uuid;primaryKey"`
	UserID           uuid.UUID `gorm:"type:uuid;index;not null"`
	UserAccount      *string   `gorm:"type:varchar(64)"`
	RecipientName    string    `gorm:"type:varchar(100);not null"`
	RecipientAccount string    `gorm:"type:varchar(64);not null"`
	RecipientBank    string    `gorm:"type:varchar(100);not null"`
	RecipientCountry string    `gorm:"type:varchar(56);not null"`
	SwiftCode        string    `gorm:"type:varchar(11);not null"`
	Amount           float64   `gorm:"not null"`
	Currency         string    `gorm:"type:varchar(3);not null"`
	ExchangeRate     *float64
	ConvertedAmount  *float64
	Purpose          *string    `gorm:"type:varchar(200)"`
	ReferenceNumber  string     `gorm:"type:varchar(20);uniqueIndex;not null"`
	Status           string     `gorm:"type:varchar(20);not null;default:'pending'"`
	TransactionFee   float64    `gorm:"not null"`
	IsProcessed      bool       `gorm:"not null;default:false"`
	ProcessedAt      *time.Time
	CreatedAt        time.Time `gorm:"index"`
	UpdatedAt        time.Time
}

func (Transaction) TableName() string {
	return "payment_transactions"
}
