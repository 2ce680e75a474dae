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

// UserRepository implements user data operations
type UserRepository struct {
	db *gorm.DB
}

// NewUserRepository creates a new user repository
func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{db: db}
}

// Create creates a new user. Duplicate email, account number or username
// surfaces as ErrAlreadyExists.
func (r *UserRepository) Create(ctx context.Context, user *entities.User) error {
	if user.ID == uuid.Nil {
		user.ID = uuid.New()
	}
	now := time.Now()
	if user.CreatedAt.IsZero() {
		user.CreatedAt = now
	}
	user.UpdatedAt = now

	m := userToModel(user)
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return domainerrors.ErrAlreadyExists
		}
		return err
	}
	return nil
}

// GetByID gets a user by ID
func (r *UserRepository) GetByID(ctx context.Context, id uuid.UUID) (*entities.User, error) {
	var m models.User
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domainerrors.ErrNotFound
		}
		return nil, err
	}
	return userToEntity(&m), nil
}

// GetByEmail gets a user by email
func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*entities.User, error) {
	var m models.User
	if err := r.db.WithContext(ctx).Where("email = ?", email).First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domainerrors.ErrNotFound
		}
		return nil, err
	}
	return userToEntity(&m), nil
}

// GetByAccountNumber gets a user by account number
func (r *UserRepository) GetByAccountNumber(ctx context.Context, accountNumber string) (*entities.User, error) {
	var m models.User
	if err := r.db.WithContext(ctx).Where("account_number = ?", accountNumber).First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domainerrors.ErrNotFound
		}
		return nil, err
	}
	return userToEntity(&m), nil
}

// Update updates mutable profile and role fields and bumps updated_at.
func (r *UserRepository) Update(ctx context.Context, user *entities.User) error {
	updates := map[string]interface{}{
		"full_name":    user.FullName.Ptr(),
		"phone_number": user.PhoneNumber.Ptr(),
		"address":      user.Address.Ptr(),
		"is_verified":  user.IsVerified,
		"is_active":    user.IsActive,
		"is_staff":     user.IsStaff,
		"updated_at":   time.Now(),
	}

	result := r.db.WithContext(ctx).Model(&models.User{}).Where("id = ?", user.ID).Updates(updates)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domainerrors.ErrNotFound
	}
	return nil
}

func userToModel(e *entities.User) *models.User {
	return &models.User{
		ID:            e.ID,
		Email:         e.Email,
		AccountNumber: e.AccountNumber.Ptr(),
		Username:      e.Username.Ptr(),
		PasswordHash:  e.PasswordHash,
		FullName:      e.FullName.Ptr(),
		PhoneNumber:   e.PhoneNumber.Ptr(),
		Address:       e.Address.Ptr(),
		IsVerified:    e.IsVerified,
		IsActive:      e.IsActive,
		IsStaff:       e.IsStaff,
		CreatedAt:     e.CreatedAt,
		UpdatedAt:     e.UpdatedAt,
	}
}

func userToEntity(m *models.User) *entities.User {
	return &entities.User{
		ID:            m.ID,
		Email:         m.Email,
		AccountNumber: null.StringFromPtr(m.AccountNumber),
		Username:      null.StringFromPtr(m.Username),
		PasswordHash:  m.PasswordHash,
		FullName:      null.StringFromPtr(m.FullName),
		PhoneNumber:   null.StringFromPtr(m.PhoneNumber),
		Address:       null.StringFromPtr(m.Address),
		IsVerified:    m.IsVerified,
		IsActive:      m.IsActive,
		IsStaff:       m.IsStaff,
		CreatedAt:     m.CreatedAt,
		UpdatedAt:     m.UpdatedAt,
	}
}
