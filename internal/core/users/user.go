package users

import (
	"time"

	"Vidora/internal/core/blobs"
)

// User is an account. Relationship lists (subscriptions, likes, history...) are
// not stored on the user; they are read from the owning relation tables.
type User struct {
	JoinedAt          time.Time `json:"joinedAt"`
	LastActiveAt      time.Time `json:"lastActiveAt"`
	UpdatedAt         time.Time `json:"-"`
	ChannelID         *string   `json:"channelId"`
	ID                string    `json:"id"`
	FirstName         string    `json:"firstName"`
	LastName          string    `json:"lastName"`
	Email             string    `json:"email"`
	PasswordHash      string    `json:"-"`
	ProfilePictureURL string    `json:"profilePictureUrl"`
	Bio               string    `json:"bio"`
	IsVerified        bool      `json:"isVerified"`
}

// SignupRequest carries the signup form
type SignupRequest struct {
	ProfileImage *blobs.File `json:"-"`
	FirstName    string      `json:"firstName" validate:"required,max=100"`
	LastName     string      `json:"lastName" validate:"required,max=100"`
	Email        string      `json:"email" validate:"required"`
	Password     string      `json:"password" validate:"required,min=6,max=72"`
}

// LoginRequest carries login credentials
type LoginRequest struct {
	Email    string `json:"email" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// ResetCodeTTL is how long a mailed reset code stays valid
const ResetCodeTTL = 10 * time.Minute

// PasswordResetRequest asks for a reset code to be mailed
type PasswordResetRequest struct {
	Email string `json:"email" validate:"required"`
}

// ResetPasswordRequest redeems a mailed reset code
type ResetPasswordRequest struct {
	Email       string `json:"email" validate:"required"`
	Code        string `json:"code" validate:"required,len=6,numeric"`
	NewPassword string `json:"newPassword" validate:"required,min=6,max=72"`
}

// ResetCode is a pending password reset. Only the bcrypt hash of the code is kept.
type ResetCode struct {
	ExpiresAt time.Time
	CodeHash  string
}

// AuthResult is returned by signup and login
type AuthResult struct {
	User  *User  `json:"user"`
	Token string `json:"token"`
}
