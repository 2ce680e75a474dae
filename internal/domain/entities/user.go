package entities

import (
	"time"

	"github.com/google/uuid"
	"github.com/volatiletech/null/v8"
)

// User represents a portal account. Accounts are never hard-deleted; staff
// disable them by clearing IsActive.
type User struct {
	ID            uuid.UUID   `json:"id"`
	Email         string      `json:"email"`
	AccountNumber null.String `json:"accountNumber,omitempty"`
	Username      null.String `json:"username,omitempty"`
	PasswordHash  string      `json:"-"`
	FullName      null.String `json:"fullName,omitempty"`
	PhoneNumber   null.String `json:"phoneNumber,omitempty"`
	Address       null.String `json:"address,omitempty"`
	IsVerified    bool        `json:"isVerified"`
	IsActive      bool        `json:"isActive"`
	IsStaff       bool        `json:"isStaff"`
	CreatedAt     time.Time   `json:"createdAt"`
	UpdatedAt     time.Time   `json:"updatedAt"`
}

// PublicView strips credential material for API responses.
func (u *User) PublicView() *UserView {
	return &UserView{
		ID:            u.ID,
		Email:         u.Email,
		AccountNumber: u.AccountNumber,
		Username:      u.Username,
		FullName:      u.FullName,
		IsVerified:    u.IsVerified,
		IsStaff:       u.IsStaff,
	}
}

// UserView is the profile shape returned to clients.
type UserView struct {
	ID            uuid.UUID   `json:"id"`
	Email         string      `json:"email"`
	AccountNumber null.String `json:"accountNumber,omitempty"`
	Username      null.String `json:"username,omitempty"`
	FullName      null.String `json:"fullName,omitempty"`
	IsVerified    bool        `json:"isVerified"`
	IsStaff       bool        `json:"isStaff"`
}

// RegisterInput represents input for user registration. Password complexity
// beyond the minimum length is enforced in the usecase.
type RegisterInput struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=8"`
	FullName string `json:"full_name" binding:"omitempty,max=100"`
	Username string `json:"username" binding:"omitempty,min=3,max=50"`
}

// LoginInput represents input for login. Either email or account number
// identifies the account.
type LoginInput struct {
	Email         string `json:"email" binding:"omitempty,email"`
	AccountNumber string `json:"account_number" binding:"omitempty,max=64"`
	Password      string `json:"password" binding:"required,min=8"`
}

// AuthResponse is returned on successful login. Token is the revocable
// session credential; JWT is the stateless alternative.
type AuthResponse struct {
	Token string    `json:"token"`
	JWT   string    `json:"jwt,omitempty"`
	User  *UserView `json:"user"`
}

// Principal is the authenticated identity attached to a validated request.
type Principal struct {
	UserID        uuid.UUID
	Email         string
	Username      null.String
	FullName      null.String
	AccountNumber null.String
	IsStaff       bool
	SessionID     *uuid.UUID // nil when authenticated via signed token
}
