// Package datasources opens the authoritative Postgres store and, when
// configured, falls back to a transient in-memory SQLite database behind the
// same GORM handle. Both drivers sit behind the repository interfaces, so the
// rest of the system cannot tell them apart.
package datasources

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"payportal.backend/internal/config"
	"payportal.backend/internal/infrastructure/models"
	"payportal.backend/pkg/crypto"
	"payportal.backend/pkg/logger"
)

var openPostgres = func(dsn string) (*gorm.DB, error) {
	return gorm.Open(postgres.New(postgres.Config{
		DSN:                  dsn,
		PreferSimpleProtocol: true,
	}), &gorm.Config{
		PrepareStmt:    false,
		TranslateError: true,
	})
}

var openSQLiteMemory = func() (*gorm.DB, error) {
	return gorm.Open(sqlite.Open("file::memory:?cache=shared"), &gorm.Config{
		TranslateError: true,
	})
}

// Open connects to Postgres. When the store is unreachable and
// DB_FALLBACK_MEMORY is set, it opens a shared in-memory SQLite database,
// migrates the schema and seeds the bootstrap staff account. The returned
// flag reports whether the fallback was taken; without the flag enabled an
// unreachable store is a startup failure.
func Open(ctx context.Context, cfg *config.Config) (*gorm.DB, bool, error) {
	db, err := openPostgres(cfg.Database.URL())
	if err == nil {
		if pingErr := ping(db); pingErr == nil {
			if err := Migrate(db); err != nil {
				return nil, false, fmt.Errorf("failed to migrate schema: %w", err)
			}
			return db, false, nil
		} else {
			err = pingErr
		}
	}

	if !cfg.Database.FallbackMemory {
		return nil, false, fmt.Errorf("database unreachable: %w", err)
	}

	logger.Warn(ctx, "Primary store unreachable, falling back to in-memory database")

	mem, memErr := openSQLiteMemory()
	if memErr != nil {
		return nil, false, fmt.Errorf("failed to open in-memory fallback: %w", memErr)
	}
	if err := Migrate(mem); err != nil {
		return nil, false, fmt.Errorf("failed to migrate in-memory fallback: %w", err)
	}
	if err := SeedBootstrapStaff(ctx, mem, cfg.Bootstrap.StaffEmail, cfg.Bootstrap.StaffPassword); err != nil {
		return nil, false, fmt.Errorf("failed to seed bootstrap staff account: %w", err)
	}
	return mem, true, nil
}

// Migrate creates the collections and unique indexes: users.email unique,
// users.username and users.account_number unique-but-sparse,
// user_sessions.session_token unique, payment_transactions.reference_number
// unique plus the user_id listing index.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.User{},
		&models.Session{},
		&models.Transaction{},
	)
}

// SeedBootstrapStaff creates the staff account if it does not exist yet.
// Idempotent: keyed by email.
func SeedBootstrapStaff(ctx context.Context, db *gorm.DB, email, password string) error {
	var count int64
	if err := db.WithContext(ctx).Model(&models.User{}).Where("email = ?", email).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	hash, err := crypto.HashPassword(password)
	if err != nil {
		return err
	}

	now := time.Now()
	staff := &models.User{
		ID:           uuid.New(),
		Email:        email,
		PasswordHash: hash,
		IsVerified:   true,
		IsActive:     true,
		IsStaff:      true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	return db.WithContext(ctx).Create(staff).Error
}

func ping(db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return sqlDB.PingContext(ctx)
}
