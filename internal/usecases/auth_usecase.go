package usecases

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode"

	"github.com/google/uuid"
	"github.com/volatiletech/null/v8"
	"go.uber.org/zap"

	"payportal.backend/internal/domain/entities"
	domainerrors "payportal.backend/internal/domain/errors"
	"payportal.backend/internal/domain/repositories"
	"payportal.backend/pkg/crypto"
	"payportal.backend/pkg/jwt"
	"payportal.backend/pkg/logger"
	"payportal.backend/pkg/sanitize"
)

// AuthUsecase is the session/token authority: it issues both credential
// forms at login and resolves any bearer credential to a principal.
type AuthUsecase struct {
	userRepo      repositories.UserRepository
	sessionRepo   repositories.SessionRepository
	jwtService    *jwt.JWTService
	sessionTTL    time.Duration
	strictBinding bool
}

// NewAuthUsecase creates a new auth usecase
func NewAuthUsecase(
	userRepo repositories.UserRepository,
	sessionRepo repositories.SessionRepository,
	jwtService *jwt.JWTService,
	sessionTTL time.Duration,
	strictBinding bool,
) *AuthUsecase {
	return &AuthUsecase{
		userRepo:      userRepo,
		sessionRepo:   sessionRepo,
		jwtService:    jwtService,
		sessionTTL:    sessionTTL,
		strictBinding: strictBinding,
	}
}

// Register creates a new account. Duplicate email maps to ErrAlreadyExists.
func (u *AuthUsecase) Register(ctx context.Context, input *entities.RegisterInput) (*entities.User, error) {
	if err := validatePasswordPolicy(input.Password); err != nil {
		return nil, err
	}

	passwordHash, err := crypto.HashPassword(input.Password)
	if err != nil {
		return nil, err
	}

	user := &entities.User{
		Email:        strings.ToLower(strings.TrimSpace(input.Email)),
		PasswordHash: passwordHash,
		IsVerified:   false,
		IsActive:     true,
		IsStaff:      false,
	}
	if name := sanitize.Clean(input.FullName); name != "" {
		user.FullName = null.StringFrom(name)
	}
	if username := sanitize.Clean(input.Username); username != "" {
		user.Username = null.StringFrom(username)
	}

	if err := u.userRepo.Create(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// Login authenticates by email or account number and issues both credential
// forms: a revocable session token and a stateless signed token.
func (u *AuthUsecase) Login(ctx context.Context, input *entities.LoginInput, clientIP, userAgent string) (*entities.AuthResponse, error) {
	var (
		user *entities.User
		err  error
	)
	switch {
	case input.Email != "":
		user, err = u.userRepo.GetByEmail(ctx, strings.ToLower(strings.TrimSpace(input.Email)))
	case input.AccountNumber != "":
		user, err = u.userRepo.GetByAccountNumber(ctx, strings.TrimSpace(input.AccountNumber))
	default:
		return nil, domainerrors.ErrInvalidInput
	}
	if err != nil {
		if errors.Is(err, domainerrors.ErrNotFound) {
			return nil, domainerrors.ErrInvalidCredentials
		}
		return nil, err
	}

	if !user.IsActive || !crypto.CheckPassword(input.Password, user.PasswordHash) {
		return nil, domainerrors.ErrInvalidCredentials
	}

	token, err := crypto.GenerateSessionToken()
	if err != nil {
		return nil, err
	}

	session := &entities.Session{
		UserID:       user.ID,
		SessionToken: token,
		ExpiresAt:    time.Now().Add(u.sessionTTL),
		IsActive:     true,
	}
	if clientIP != "" {
		session.IPAddress = null.StringFrom(clientIP)
	}
	if userAgent != "" {
		session.UserAgent = null.StringFrom(userAgent)
	}

	if err := u.sessionRepo.Create(ctx, session); err != nil {
		return nil, err
	}

	signed, err := u.jwtService.GenerateToken(user.ID, user.Email, user.IsStaff)
	if err != nil {
		// The session credential alone is enough to use the portal.
		logger.Warn(ctx, "Signed token issuance failed", zap.Error(err))
		signed = ""
	}

	return &entities.AuthResponse{
		Token: token,
		JWT:   signed,
		User:  user.PublicView(),
	}, nil
}

// Validate resolves a bearer credential to a principal. The session path is
// tried first; a matching session that fails expiry, activity or strict
// binding checks fails the whole validation without falling through to the
// signed-token path.
func (u *AuthUsecase) Validate(ctx context.Context, credential, clientIP, userAgent string) (*entities.Principal, error) {
	session, err := u.sessionRepo.GetByToken(ctx, credential)
	if err == nil {
		return u.validateSession(ctx, session, clientIP, userAgent)
	}
	if !errors.Is(err, domainerrors.ErrNotFound) {
		return nil, err
	}

	claims, jwtErr := u.jwtService.ValidateToken(credential)
	if jwtErr != nil {
		return nil, domainerrors.ErrUnauthorized
	}

	user, err := u.userRepo.GetByID(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, domainerrors.ErrNotFound) {
			return nil, domainerrors.ErrUnauthorized
		}
		return nil, err
	}
	if !user.IsActive {
		return nil, domainerrors.ErrUnauthorized
	}

	return principalFromUser(user, nil), nil
}

func (u *AuthUsecase) validateSession(ctx context.Context, session *entities.Session, clientIP, userAgent string) (*entities.Principal, error) {
	if !session.Valid(time.Now()) {
		return nil, domainerrors.ErrUnauthorized
	}

	if u.strictBinding {
		if session.IPAddress.Valid && session.IPAddress.String != clientIP {
			return nil, domainerrors.ErrUnauthorized
		}
		if session.UserAgent.Valid && session.UserAgent.String != userAgent {
			return nil, domainerrors.ErrUnauthorized
		}
	}

	user, err := u.userRepo.GetByID(ctx, session.UserID)
	if err != nil {
		if errors.Is(err, domainerrors.ErrNotFound) {
			return nil, domainerrors.ErrUnauthorized
		}
		return nil, err
	}
	if !user.IsActive {
		return nil, domainerrors.ErrUnauthorized
	}

	return principalFromUser(user, &session.ID), nil
}

// Logout revokes the matched session credential. Signed tokens cannot be
// revoked and remain valid until their own expiry; logging out with one is a
// no-op.
func (u *AuthUsecase) Logout(ctx context.Context, credential string) error {
	err := u.sessionRepo.Deactivate(ctx, credential)
	if errors.Is(err, domainerrors.ErrNotFound) {
		return nil
	}
	return err
}

// Profile returns the public view of an account.
func (u *AuthUsecase) Profile(ctx context.Context, userID uuid.UUID) (*entities.UserView, error) {
	user, err := u.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	return user.PublicView(), nil
}

func principalFromUser(user *entities.User, sessionID *uuid.UUID) *entities.Principal {
	return &entities.Principal{
		UserID:        user.ID,
		Email:         user.Email,
		Username:      user.Username,
		FullName:      user.FullName,
		AccountNumber: user.AccountNumber,
		IsStaff:       user.IsStaff,
		SessionID:     sessionID,
	}
}

func validatePasswordPolicy(password string) error {
	if len(password) < 8 {
		return fmt.Errorf("password must be at least 8 characters: %w", domainerrors.ErrInvalidInput)
	}
	var hasUpper, hasLower, hasDigit, hasSymbol bool
	for _, r := range password {
		switch {
		case unicode.IsUpper(r):
			hasUpper = true
		case unicode.IsLower(r):
			hasLower = true
		case unicode.IsDigit(r):
			hasDigit = true
		case strings.ContainsRune(PasswordSymbols, r):
			hasSymbol = true
		}
	}
	if !hasUpper || !hasLower || !hasDigit || !hasSymbol {
		return fmt.Errorf("password must contain upper and lower case letters, a digit and a symbol: %w", domainerrors.ErrInvalidInput)
	}
	return nil
}
