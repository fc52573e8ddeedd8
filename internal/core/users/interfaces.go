package users

import (
	"context"
	"time"
)

// Repository defines the data access interface for users
type Repository interface {
	// Create inserts a user. Returns ErrEmailTaken when the email is in use.
	Create(ctx context.Context, user *User) (*User, error)

	// GetByID returns the user with its owned channel id, or ErrUserNotFound
	GetByID(ctx context.Context, id string) (*User, error)

	// GetByEmail returns the user with its owned channel id, or ErrUserNotFound
	GetByEmail(ctx context.Context, email string) (*User, error)

	// TouchLastActive records activity for the user
	TouchLastActive(ctx context.Context, id string, at time.Time) error

	// Exists reports whether the account exists
	Exists(ctx context.Context, id string) (bool, error)

	// SetResetCode stores a pending reset code, replacing any earlier one
	SetResetCode(ctx context.Context, id, codeHash string, expiresAt time.Time) error

	// GetResetCode returns the pending reset code, or ErrInvalidResetCode when none is pending
	GetResetCode(ctx context.Context, id string) (*ResetCode, error)

	// CompletePasswordReset sets the new password hash and clears the reset code, but
	// only while codeHash is still the pending code. Returns ErrInvalidResetCode otherwise.
	CompletePasswordReset(ctx context.Context, id, codeHash, passwordHash string) error
}

// Service defines the business logic interface for accounts
type Service interface {
	Signup(ctx context.Context, req SignupRequest) (*AuthResult, error)
	Login(ctx context.Context, req LoginRequest) (*AuthResult, error)
	Me(ctx context.Context, userID string) (*User, error)

	// RequestPasswordReset mails a six digit code that is valid for ResetCodeTTL
	RequestPasswordReset(ctx context.Context, req PasswordResetRequest) error

	// ResetPassword replaces the password when the code matches and has not expired
	ResetPassword(ctx context.Context, req ResetPasswordRequest) error
}

// TokenIssuer signs session tokens
type TokenIssuer interface {
	Issue(userID string) (string, error)
}

// Mailer delivers plain text mail
type Mailer interface {
	Send(ctx context.Context, to, subject, body string) error
}
