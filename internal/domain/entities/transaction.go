package entities

import (
	"time"

	"github.com/google/uuid"
	"github.com/volatiletech/null/v8"
)

// TransactionStatus represents the payment transaction lifecycle state.
type TransactionStatus string

const (
	TransactionStatusPending   TransactionStatus = "pending"
	TransactionStatusCompleted TransactionStatus = "completed"
	TransactionStatusRejected  TransactionStatus = "rejected"
)

// TerminalStatus reports whether no further transitions are allowed.
func (s TransactionStatus) Terminal() bool {
	return s == TransactionStatusCompleted || s == TransactionStatusRejected
}

// Transaction represents a cross-border payment request. Status transitions
// are monotonic: pending -> completed (verify) or pending -> rejected
// (reject); transactions are never deleted.
type Transaction struct {
	ID               uuid.UUID         `json:"id"`
	UserID           uuid.UUID         `json:"userId"`
	UserAccount      null.String       `json:"userAccount,omitempty"`
	RecipientName    string            `json:"recipientName"`
	RecipientAccount string            `json:"recipientAccount"`
	RecipientBank    string            `json:"recipientBank"`
	RecipientCountry string            `json:"recipientCountry"`
	SwiftCode        string            `json:"swiftCode"`
	Amount           float64           `json:"amount"`
	Currency         string            `json:"currency"`
	ExchangeRate     null.Float64      `json:"exchangeRate,omitempty"`
	ConvertedAmount  null.Float64      `json:"convertedAmount,omitempty"`
	Purpose          null.String       `json:"purpose,omitempty"`
	ReferenceNumber  string            `json:"referenceNumber"`
	Status           TransactionStatus `json:"status"`
	TransactionFee   float64           `json:"transactionFee"`
	IsProcessed      bool              `json:"isProcessed"`
	ProcessedAt      null.Time         `json:"processedAt,omitempty"`
	CreatedAt        time.Time         `json:"createdAt"`
	UpdatedAt        time.Time         `json:"updatedAt"`
}

// AdminTransaction is a transaction enriched with submitter identity for
// staff review listings.
type AdminTransaction struct {
	Transaction
	UserEmail    string      `json:"user_email"`
	UserFullName null.String `json:"user_full_name,omitempty"`
}

// CreatePaymentInput carries the payment submission fields. Whitelist
// character classes are re-checked server-side in the usecase regardless of
// binding validation.
type CreatePaymentInput struct {
	RecipientName    string  `json:"recipient_name" binding:"required,min=2,max=100"`
	RecipientAccount string  `json:"recipient_account" binding:"required,min=8,max=64"`
	RecipientBank    string  `json:"recipient_bank" binding:"required,min=2,max=100"`
	RecipientCountry string  `json:"recipient_country" binding:"required,min=2,max=56"`
	SwiftCode        string  `json:"swift_code" binding:"required,min=8,max=11"`
	Amount           float64 `json:"amount" binding:"required,gt=0"`
	Currency         string  `json:"currency" binding:"required,len=3"`
	Purpose          string  `json:"purpose" binding:"omitempty,max=200"`
}

// CreatePaymentResult is returned to the submitter on success.
type CreatePaymentResult struct {
	TransactionID   uuid.UUID         `json:"transactionId"`
	ReferenceNumber string            `json:"referenceNumber"`
	TransactionFee  float64           `json:"transactionFee"`
	Status          TransactionStatus `json:"status"`
}
