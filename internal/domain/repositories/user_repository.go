package repositories

import (
	"context"

	"github.com/google/uuid"
	"payportal.backend/internal/domain/entities"
)

// UserRepository defines user data operations. Implementations translate
// unique-constraint violations on email, account number and username to
// domain Conflict errors.
type UserRepository interface {
	Create(ctx context.Context, user *entities.User) error
	GetByID(ctx context.Context, id uuid.UUID) (*entities.User, error)
	GetByEmail(ctx context.Context, email string) (*entities.User, error)
	GetByAccountNumber(ctx context.Context, accountNumber string) (*entities.User, error)
	Update(ctx context.Context, user *entities.User) error
}
