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

// SessionRepository implements session credential storage
type SessionRepository struct {
	db *gorm.DB
}

// NewSessionRepository creates a new session repository
func NewSessionRepository(db *gorm.DB) *SessionRepository {
	return &SessionRepository{db: db}
}

// Create persists a new session. A colliding session token surfaces as
// ErrAlreadyExists.
func (r *SessionRepository) Create(ctx context.Context, session *entities.Session) error {
	if session.ID == uuid.Nil {
		session.ID = uuid.New()
	}
	now := time.Now()
	if session.CreatedAt.IsZero() {
		session.CreatedAt = now
	}
	session.UpdatedAt = now

	m := &models.Session{
		ID:           session.ID,
		UserID:       session.UserID,
		SessionToken: session.SessionToken,
		ExpiresAt:    session.ExpiresAt,
		IPAddress:    session.IPAddress.Ptr(),
		UserAgent:    session.UserAgent.Ptr(),
		IsActive:     session.IsActive,
		CreatedAt:    session.CreatedAt,
		UpdatedAt:    session.UpdatedAt,
	}
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return domainerrors.ErrAlreadyExists
		}
		return err
	}
	return nil
}

// GetByToken returns the session record for a token regardless of expiry.
func (r *SessionRepository) GetByToken(ctx context.Context, token string) (*entities.Session, error) {
	var m models.Session
	if err := r.db.WithContext(ctx).Where("session_token = ?", token).First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domainerrors.ErrNotFound
		}
		return nil, err
	}
	return sessionToEntity(&m), nil
}

// Deactivate flips is_active on the matched session.
func (r *SessionRepository) Deactivate(ctx context.Context, token string) error {
	result := r.db.WithContext(ctx).
		Model(&models.Session{}).
		Where("session_token = ? AND is_active = ?", token, true).
		Updates(map[string]interface{}{
			"is_active":  false,
			"updated_at": time.Now(),
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domainerrors.ErrNotFound
	}
	return nil
}

// DeleteExpired removes sessions past their expiry. Validation does not rely
// on this sweep; it only keeps the collection small.
func (r *SessionRepository) DeleteExpired(ctx context.Context, before time.Time) (int64, error) {
	result := r.db.WithContext(ctx).
		Where("expires_at < ?", before).
		Delete(&models.Session{})
	return result.RowsAffected, result.Error
}

func sessionToEntity(m *models.Session) *entities.Session {
	return &entities.Session{
		ID:           m.ID,
		UserID:       m.UserID,
		SessionToken: m.SessionToken,
		ExpiresAt:    m.ExpiresAt,
		IPAddress:    null.StringFromPtr(m.IPAddress),
		UserAgent:    null.StringFromPtr(m.UserAgent),
		IsActive:     m.IsActive,
		CreatedAt:    m.CreatedAt,
		UpdatedAt:    m.UpdatedAt,
	}
}
