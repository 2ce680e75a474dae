package usecases

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/volatiletech/null/v8"

	"payportal.backend/internal/domain/entities"
	domainerrors "payportal.backend/internal/domain/errors"
	"payportal.backend/pkg/crypto"
	"payportal.backend/pkg/jwt"
)

const testPassword = "Str0ng!pass"

func newAuthFixture(strictBinding bool) (*AuthUsecase, *mockUserRepo, *mockSessionRepo) {
	users := new(mockUserRepo)
	sessions := new(mockSessionRepo)
	svc := jwt.NewJWTService("unit-test-secret", time.Hour)
	return NewAuthUsecase(users, sessions, svc, 24*time.Hour, strictBinding), users, sessions
}

func activeUser(t *testing.T) *entities.User {
	t.Helper()
	hash, err := crypto.HashPassword(testPassword)
	require.NoError(t, err)
	return &entities.User{
		ID:           uuid.New(),
		Email:        "user@mail.com",
		PasswordHash: hash,
		FullName:     null.StringFrom("Test User"),
		IsActive:     true,
	}
}

func TestAuthUsecase_Register(t *testing.T) {
	auth, users, _ := newAuthFixture(false)

	users.On("Create", mock.Anything, mock.MatchedBy(func(u *entities.User) bool {
		return u.Email == "new@mail.com" && u.FullName.Valid && !u.IsStaff && u.IsActive
	})).Return(nil)

	user, err := auth.Register(context.Background(), &entities.RegisterInput{
		Email:    "  NEW@Mail.com ",
		Password: testPassword,
		FullName: "New <b>User</b>",
		Username: "newbie",
	})
	require.NoError(t, err)
	assert.Equal(t, "new@mail.com", user.Email)
	assert.Equal(t, "New User", user.FullName.String)
	assert.Equal(t, "newbie", user.Username.String)
	assert.NotEqual(t, testPassword, user.PasswordHash)
	assert.True(t, crypto.CheckPassword(testPassword, user.PasswordHash))
	users.AssertExpectations(t)
}

func TestAuthUsecase_RegisterPasswordPolicy(t *testing.T) {
	auth, _, _ := newAuthFixture(false)

	tests := []struct {
		name     string
		password string
	}{
		{"too short", "Ab1!xyz"},
		{"no upper", "weak1pass!"},
		{"no lower", "WEAK1PASS!"},
		{"no digit", "Weakpass!!"},
		{"no symbol", "Weak1passX"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := auth.Register(context.Background(), &entities.RegisterInput{
				Email:    "x@mail.com",
				Password: tt.password,
			})
			assert.ErrorIs(t, err, domainerrors.ErrInvalidInput)
		})
	}
}

func TestAuthUsecase_RegisterDuplicateEmail(t *testing.T) {
	auth, users, _ := newAuthFixture(false)
	users.On("Create", mock.Anything, mock.Anything).Return(domainerrors.ErrAlreadyExists)

	_, err := auth.Register(context.Background(), &entities.RegisterInput{
		Email:    "dup@mail.com",
		Password: testPassword,
	})
	assert.ErrorIs(t, err, domainerrors.ErrAlreadyExists)
}

func TestAuthUsecase_LoginByEmail(t *testing.T) {
	auth, users, sessions := newAuthFixture(false)
	user := activeUser(t)

	users.On("GetByEmail", mock.Anything, "user@mail.com").Return(user, nil)
	sessions.On("Create", mock.Anything, mock.MatchedBy(func(s *entities.Session) bool {
		return s.UserID == user.ID && s.IsActive && len(s.SessionToken) == 64 &&
			s.IPAddress.String == "10.0.0.1" && s.UserAgent.String == "test-agent"
	})).Return(nil)

	resp, err := auth.Login(context.Background(), &entities.LoginInput{
		Email:    " User@Mail.com ",
		Password: testPassword,
	}, "10.0.0.1", "test-agent")
	require.NoError(t, err)
	assert.Len(t, resp.Token, 64)
	assert.NotEmpty(t, resp.JWT)
	assert.Equal(t, user.Email, resp.User.Email)
	sessions.AssertExpectations(t)
}

func TestAuthUsecase_LoginByAccountNumber(t *testing.T) {
	auth, users, sessions := newAuthFixture(false)
	user := activeUser(t)
	user.AccountNumber = null.StringFrom("ACC-12345678")

	users.On("GetByAccountNumber", mock.Anything, "ACC-12345678").Return(user, nil)
	sessions.On("Create", mock.Anything, mock.Anything).Return(nil)

	resp, err := auth.Login(context.Background(), &entities.LoginInput{
		AccountNumber: "ACC-12345678",
		Password:      testPassword,
	}, "", "")
	require.NoError(t, err)
	assert.NotEmpty(t, resp.Token)
}

func TestAuthUsecase_LoginFailures(t *testing.T) {
	t.Run("neither identifier", func(t *testing.T) {
		auth, _, _ := newAuthFixture(false)
		_, err := auth.Login(context.Background(), &entities.LoginInput{Password: testPassword}, "", "")
		assert.ErrorIs(t, err, domainerrors.ErrInvalidInput)
	})

	t.Run("unknown email", func(t *testing.T) {
		auth, users, _ := newAuthFixture(false)
		users.On("GetByEmail", mock.Anything, "ghost@mail.com").Return(nil, domainerrors.ErrNotFound)
		_, err := auth.Login(context.Background(), &entities.LoginInput{Email: "ghost@mail.com", Password: testPassword}, "", "")
		assert.ErrorIs(t, err, domainerrors.ErrInvalidCredentials)
	})

	t.Run("wrong password", func(t *testing.T) {
		auth, users, _ := newAuthFixture(false)
		users.On("GetByEmail", mock.Anything, "user@mail.com").Return(activeUser(t), nil)
		_, err := auth.Login(context.Background(), &entities.LoginInput{Email: "user@mail.com", Password: "Wrong1pass!"}, "", "")
		assert.ErrorIs(t, err, domainerrors.ErrInvalidCredentials)
	})

	t.Run("deactivated account", func(t *testing.T) {
		auth, users, _ := newAuthFixture(false)
		user := activeUser(t)
		user.IsActive = false
		users.On("GetByEmail", mock.Anything, "user@mail.com").Return(user, nil)
		_, err := auth.Login(context.Background(), &entities.LoginInput{Email: "user@mail.com", Password: testPassword}, "", "")
		assert.ErrorIs(t, err, domainerrors.ErrInvalidCredentials)
	})
}

func TestAuthUsecase_ValidateSession(t *testing.T) {
	auth, users, sessions := newAuthFixture(false)
	user := activeUser(t)
	session := &entities.Session{
		ID:           uuid.New(),
		UserID:       user.ID,
		SessionToken: "tok",
		ExpiresAt:    time.Now().Add(time.Hour),
		IsActive:     true,
	}

	sessions.On("GetByToken", mock.Anything, "tok").Return(session, nil)
	users.On("GetByID", mock.Anything, user.ID).Return(user, nil)

	principal, err := auth.Validate(context.Background(), "tok", "10.0.0.1", "agent")
	require.NoError(t, err)
	assert.Equal(t, user.ID, principal.UserID)
	require.NotNil(t, principal.SessionID)
	assert.Equal(t, session.ID, *principal.SessionID)
}

func TestAuthUsecase_ValidateExpiredSessionDoesNotFallThrough(t *testing.T) {
	auth, _, sessions := newAuthFixture(false)
	session := &entities.Session{
		ID:           uuid.New(),
		UserID:       uuid.New(),
		SessionToken: "tok",
		ExpiresAt:    time.Now().Add(-time.Minute),
		IsActive:     true,
	}
	sessions.On("GetByToken", mock.Anything, "tok").Return(session, nil)

	_, err := auth.Validate(context.Background(), "tok", "", "")
	assert.ErrorIs(t, err, domainerrors.ErrUnauthorized)
}

func TestAuthUsecase_ValidateDeactivatedSession(t *testing.T) {
	auth, _, sessions := newAuthFixture(false)
	session := &entities.Session{
		UserID:       uuid.New(),
		SessionToken: "tok",
		ExpiresAt:    time.Now().Add(time.Hour),
		IsActive:     false,
	}
	sessions.On("GetByToken", mock.Anything, "tok").Return(session, nil)

	_, err := auth.Validate(context.Background(), "tok", "", "")
	assert.ErrorIs(t, err, domainerrors.ErrUnauthorized)
}

func TestAuthUsecase_ValidateStrictBinding(t *testing.T) {
	auth, users, sessions := newAuthFixture(true)
	user := activeUser(t)
	session := &entities.Session{
		ID:           uuid.New(),
		UserID:       user.ID,
		SessionToken: "tok",
		ExpiresAt:    time.Now().Add(time.Hour),
		IPAddress:    null.StringFrom("10.0.0.1"),
		UserAgent:    null.StringFrom("agent"),
		IsActive:     true,
	}
	sessions.On("GetByToken", mock.Anything, "tok").Return(session, nil)
	users.On("GetByID", mock.Anything, user.ID).Return(user, nil)

	_, err := auth.Validate(context.Background(), "tok", "10.0.0.1", "agent")
	assert.NoError(t, err)

	_, err = auth.Validate(context.Background(), "tok", "10.9.9.9", "agent")
	assert.ErrorIs(t, err, domainerrors.ErrUnauthorized)

	_, err = auth.Validate(context.Background(), "tok", "10.0.0.1", "other-agent")
	assert.ErrorIs(t, err, domainerrors.ErrUnauthorized)
}

func TestAuthUsecase_ValidateSignedToken(t *testing.T) {
	auth, users, sessions := newAuthFixture(false)
	user := activeUser(t)

	svc := jwt.NewJWTService("unit-test-secret", time.Hour)
	token, err := svc.GenerateToken(user.ID, user.Email, false)
	require.NoError(t, err)

	sessions.On("GetByToken", mock.Anything, token).Return(nil, domainerrors.ErrNotFound)
	users.On("GetByID", mock.Anything, user.ID).Return(user, nil)

	principal, err := auth.Validate(context.Background(), token, "", "")
	require.NoError(t, err)
	assert.Equal(t, user.ID, principal.UserID)
	assert.Nil(t, principal.SessionID)
}

func TestAuthUsecase_ValidateSignedTokenInactiveUser(t *testing.T) {
	auth, users, sessions := newAuthFixture(false)
	user := activeUser(t)
	user.IsActive = false

	svc := jwt.NewJWTService("unit-test-secret", time.Hour)
	token, err := svc.GenerateToken(user.ID, user.Email, false)
	require.NoError(t, err)

	sessions.On("GetByToken", mock.Anything, token).Return(nil, domainerrors.ErrNotFound)
	users.On("GetByID", mock.Anything, user.ID).Return(user, nil)

	_, err = auth.Validate(context.Background(), token, "", "")
	assert.ErrorIs(t, err, domainerrors.ErrUnauthorized)
}

func TestAuthUsecase_ValidateGarbage(t *testing.T) {
	auth, _, sessions := newAuthFixture(false)
	sessions.On("GetByToken", mock.Anything, "garbage").Return(nil, domainerrors.ErrNotFound)

	_, err := auth.Validate(context.Background(), "garbage", "", "")
	assert.ErrorIs(t, err, domainerrors.ErrUnauthorized)
}

func TestAuthUsecase_Logout(t *testing.T) {
	auth, _, sessions := newAuthFixture(false)
	sessions.On("Deactivate", mock.Anything, "tok").Return(nil)
	assert.NoError(t, auth.Logout(context.Background(), "tok"))
	sessions.AssertExpectations(t)
}

func TestAuthUsecase_LogoutWithSignedTokenIsNoop(t *testing.T) {
	auth, _, sessions := newAuthFixture(false)
	sessions.On("Deactivate", mock.Anything, "some.signed.token").Return(domainerrors.ErrNotFound)
	assert.NoError(t, auth.Logout(context.Background(), "some.signed.token"))
}

func TestAuthUsecase_Profile(t *testing.T) {
	auth, users, _ := newAuthFixture(false)
	user := activeUser(t)
	users.On("GetByID", mock.Anything, user.ID).Return(user, nil)

	view, err := auth.Profile(context.Background(), user.ID)
	require.NoError(t, err)
	assert.Equal(t, user.Email, view.Email)

	users.On("GetByID", mock.Anything, mock.Anything).Return(nil, domainerrors.ErrNotFound)
	_, err = auth.Profile(context.Background(), uuid.New())
	assert.ErrorIs(t, err, domainerrors.ErrNotFound)
}
