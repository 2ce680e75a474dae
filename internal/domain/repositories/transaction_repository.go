package repositories

import (
	"context"

	"github.com/google/uuid"
	"payportal.backend/internal/domain/entities"
)

// TransactionRepository defines payment transaction storage. Create
// translates a reference-number unique violation to a Conflict error so the
// engine can retry with a fresh number.
type TransactionRepository interface {
	Create(ctx context.Context, tx *entities.Transaction) error
	GetByID(ctx context.Context, id uuid.UUID) (*entities.Transaction, error)
	ListByUser(ctx context.Context, userID uuid.UUID, limit int) ([]*entities.Transaction, error)
	// ListAll returns transactions across all owners enriched with submitter
	// identity, optionally filtered by status, newest first.
	ListAll(ctx context.Context, status entities.TransactionStatus, limit int) ([]*entities.AdminTransaction, error)
	// MarkProcessed conditionally finalizes a pending transaction. It returns
	// the number of rows changed; zero means the transaction was absent or
	// already terminal.
	MarkProcessed(ctx context.Context, id uuid.UUID, status entities.TransactionStatus) (int64, error)
}
