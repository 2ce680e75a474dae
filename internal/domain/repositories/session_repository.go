package repositories

import (
	"context"
	"time"

	"payportal.backend/internal/domain/entities"
)

// SessionRepository defines session credential storage. GetByToken returns
// the record regardless of expiry; validity is decided by the caller so that
// expired-but-present rows still fail validation.
type SessionRepository interface {
	Create(ctx context.Context, session *entities.Session) error
	GetByToken(ctx context.Context, token string) (*entities.Session, error)
	Deactivate(ctx context.Context, token string) error
	DeleteExpired(ctx context.Context, before time.Time) (int64, error)
}
