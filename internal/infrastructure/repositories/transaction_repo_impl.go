package repositories

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/volatiletech/null/v8"
	"gorm.io/gorm"

	"payportal.backend/internal/domain/entities"
	domainerrors "payportal.backend/internal/domain/errors"
	"payportal.backend/internal/infrastructure/models"
)

// TransactionRepository implements payment transaction storage
type TransactionRepository struct {
	db *gorm.DB
}

// NewTransactionRepository creates a new transaction repository
func NewTransactionRepository(db *gorm.DB) *TransactionRepository {
	return &TransactionRepository{db: db}
}

// Create persists a new transaction. A reference-number collision surfaces
// as ErrAlreadyExists so the engine can retry with a fresh number.
func (r *TransactionRepository) Create(ctx context.Context, tx *entities.Transaction) error {
	if tx.ID == uuid.Nil {
		tx.ID = uuid.New()
	}
	now := time.Now()
	if tx.CreatedAt.IsZero() {
		tx.CreatedAt = now
	}
	tx.UpdatedAt = now

	m := transactionToModel(tx)
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return domainerrors.ErrAlreadyExists
		}
		return err
	}
	return nil
}

// GetByID gets a transaction by ID. Ownership is checked by the caller.
func (r *TransactionRepository) GetByID(ctx context.Context, id uuid.UUID) (*entities.Transaction, error) {
	var m models.Transaction
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domainerrors.ErrNotFound
		}
		return nil, err
	}
	return transactionToEntity(&m), nil
}

// ListByUser returns the owner's transactions, newest first.
func (r *TransactionRepository) ListByUser(ctx context.Context, userID uuid.UUID, limit int) ([]*entities.Transaction, error) {
	var txModels []models.Transaction
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Limit(limit).
		Find(&txModels).Error
	if err != nil {
		return nil, err
	}

	txs := make([]*entities.Transaction, 0, len(txModels))
	for i := range txModels {
		txs = append(txs, transactionToEntity(&txModels[i]))
	}
	return txs, nil
}

type adminTransactionRow struct {
	models.Transaction
	UserEmail    string
	UserFullName *string
}

// ListAll returns transactions across all owners joined with submitter
// identity, optionally filtered by status, newest first.
func (r *TransactionRepository) ListAll(ctx context.Context, status entities.TransactionStatus, limit int) ([]*entities.AdminTransaction, error) {
	query := r.db.WithContext(ctx).
		Table("payment_transactions").
		Select("payment_transactions.*, users.email AS user_email, users.full_name AS user_full_name").
		Joins("JOIN users ON users.id = payment_transactions.user_id").
		Order("payment_transactions.created_at DESC").
		Limit(limit)

	if status != "" {
		query = query.Where("payment_transactions.status = ?", string(status))
	}

	var rows []adminTransactionRow
	if err := query.Find(&rows).Error; err != nil {
		return nil, err
	}

	txs := make([]*entities.AdminTransaction, 0, len(rows))
	for i := range rows {
		txs = append(txs, &entities.AdminTransaction{
			Transaction:  *transactionToEntity(&rows[i].Transaction),
			UserEmail:    rows[i].UserEmail,
			UserFullName: null.StringFromPtr(rows[i].UserFullName),
		})
	}
	return txs, nil
}

// MarkProcessed finalizes a pending transaction in a single conditional
// update. Zero rows affected means the transaction was absent or already
// terminal; the caller decides whether that is a no-op or a conflict.
func (r *TransactionRepository) MarkProcessed(ctx context.Context, id uuid.UUID, status entities.TransactionStatus) (int64, error) {
	now := time.Now()
	result := r.db.WithContext(ctx).
		Model(&models.Transaction{}).
		Where("id = ? AND status = ?", id, string(entities.TransactionStatusPending)).
		Updates(map[string]interface{}{
			"status":       string(status),
			"is_processed": status == entities.TransactionStatusCompleted,
			"processed_at": now,
			"updated_at":   now,
		})
	return result.RowsAffected, result.Error
}

func transactionToModel(e *entities.Transaction) *models.Transaction {
	var processedAt *time.Time
	if e.ProcessedAt.Valid {
		t := e.ProcessedAt.Time
		processedAt = &t
	}
	return &models.Transaction{
		ID:               e.ID,
		UserID:           e.UserID,
		UserAccount:      e.UserAccount.Ptr(),
		RecipientName:    e.RecipientName,
		RecipientAccount: e.RecipientAccount,
		RecipientBank:    e.RecipientBank,
		RecipientCountry: e.RecipientCountry,
		SwiftCode:        e.SwiftCode,
		Amount:           e.Amount,
		Currency:         e.Currency,
		ExchangeRate:     e.ExchangeRate.Ptr(),
		ConvertedAmount:  e.ConvertedAmount.Ptr(),
		Purpose:          e.Purpose.Ptr(),
		ReferenceNumber:  e.ReferenceNumber,
		Status:           string(e.Status),
		TransactionFee:   e.TransactionFee,
		IsProcessed:      e.IsProcessed,
		ProcessedAt:      processedAt,
		CreatedAt:        e.CreatedAt,
		UpdatedAt:        e.UpdatedAt,
	}
}

func transactionToEntity(m *models.Transaction) *entities.Transaction {
	return &entities.Transaction{
		ID:               m.ID,
		UserID:           m.UserID,
		UserAccount:      null.StringFromPtr(m.UserAccount),
		RecipientName:    m.RecipientName,
		RecipientAccount: m.RecipientAccount,
		RecipientBank:    m.RecipientBank,
		RecipientCountry: m.RecipientCountry,
		SwiftCode:        m.SwiftCode,
		Amount:           m.Amount,
		Currency:         m.Currency,
		ExchangeRate:     null.Float64FromPtr(m.ExchangeRate),
		ConvertedAmount:  null.Float64FromPtr(m.ConvertedAmount),
		Purpose:          null.StringFromPtr(m.Purpose),
		ReferenceNumber:  m.ReferenceNumber,
		Status:           entities.TransactionStatus(m.Status),
		TransactionFee:   m.TransactionFee,
		IsProcessed:      m.IsProcessed,
		ProcessedAt:      null.TimeFromPtr(m.ProcessedAt),
		CreatedAt:        m.CreatedAt,
		UpdatedAt:        m.UpdatedAt,
	}
}
