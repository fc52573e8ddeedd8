// Package users implements accounts: signup, login, password reset and the
// current-user profile.
package users

import (
	"context"
	"crypto/rand"
	"fmt"
	"log/slog"
	"math/big"
	"net/mail"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"Vidora/internal/core/blobs"
	"Vidora/internal/core/images"
	"Vidora/internal/validation"
)

type userService struct {
	repo       Repository
	tokens     TokenIssuer
	store      blobs.Store
	images     images.Processor
	mailer     Mailer
	logger     *slog.Logger
	now        func() time.Time
	bcryptCost int
}

// Option configures the service
type Option func(*userService)

// WithClock overrides the time source
func WithClock(now func() time.Time) Option {
	return func(s *userService) { s.now = now }
}

// WithBcryptCost overrides the password hashing cost
func WithBcryptCost(cost int) Option {
	return func(s *userService) { s.bcryptCost = cost }
}

// NewService creates a new user service
func NewService(repo Repository, tokens TokenIssuer, store blobs.Store, processor images.Processor, mailer Mailer, logger *slog.Logger, opts ...Option) Service {
	if logger == nil {
		logger = slog.Default()
	}
	s := &userService{
		repo:       repo,
		tokens:     tokens,
		store:      store,
		images:     processor,
		mailer:     mailer,
		logger:     logger,
		now:        time.Now,
		bcryptCost: bcrypt.DefaultCost,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *userService) Signup(ctx context.Context, req SignupRequest) (*AuthResult, error) {
	req.FirstName = strings.TrimSpace(req.FirstName)
	req.LastName = strings.TrimSpace(req.LastName)
	req.Email = normalizeEmail(req.Email)

	if err := validation.Struct(req); err != nil {
		return nil, err
	}
	if !isValidEmail(req.Email) {
		return nil, ErrInvalidEmail
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), s.bcryptCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	now := s.now()
	user := &User{
		ID:           uuid.NewString(),
		FirstName:    req.FirstName,
		LastName:     req.LastName,
		Email:        req.Email,
		PasswordHash: string(hash),
		JoinedAt:     now,
		LastActiveAt: now,
		UpdatedAt:    now,
	}

	if req.ProfileImage.Size() > 0 {
		pictureURL, err := s.uploadProfilePicture(ctx, req.Email, req.ProfileImage)
		if err != nil {
			return nil, err
		}
		user.ProfilePictureURL = pictureURL
	}

	created, err := s.repo.Create(ctx, user)
	if err != nil {
		return nil, err
	}

	token, err := s.tokens.Issue(created.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to issue token: %w", err)
	}

	s.logger.Info("user signed up", "user_id", created.ID)
	return &AuthResult{User: created, Token: token}, nil
}

func (s *userService) Login(ctx context.Context, req LoginRequest) (*AuthResult, error) {
	req.Email = normalizeEmail(req.Email)
	if err := validation.Struct(req); err != nil {
		return nil, err
	}

	user, err := s.repo.GetByEmail(ctx, req.Email)
	if err != nil {
		if IsNotFound(err) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	now := s.now()
	if err := s.repo.TouchLastActive(ctx, user.ID, now); err != nil {
		s.logger.Warn("failed to update last active", "user_id", user.ID, "error", err)
	} else {
		user.LastActiveAt = now
	}

	token, err := s.tokens.Issue(user.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to issue token: %w", err)
	}

	return &AuthResult{User: user, Token: token}, nil
}

func (s *userService) Me(ctx context.Context, userID string) (*User, error) {
	return s.repo.GetByID(ctx, userID)
}

func (s *userService) RequestPasswordReset(ctx context.Context, req PasswordResetRequest) error {
	req.Email = normalizeEmail(req.Email)
	if err := validation.Struct(req); err != nil {
		return err
	}

	user, err := s.repo.GetByEmail(ctx, req.Email)
	if err != nil {
		return err
	}

	code, err := newResetCode()
	if err != nil {
		return fmt.Errorf("failed to generate reset code: %w", err)
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(code), s.bcryptCost)
	if err != nil {
		return fmt.Errorf("failed to hash reset code: %w", err)
	}

	if err := s.repo.SetResetCode(ctx, user.ID, string(hash), s.now().Add(ResetCodeTTL)); err != nil {
		return err
	}

	if err := s.mailer.Send(ctx, user.Email, resetMailSubject, resetMailBody+code); err != nil {
		s.logger.Error("failed to send reset code", "user_id", user.ID, "error", err)
		return fmt.Errorf("%w: %v", ErrMailUnavailable, err)
	}

	s.logger.Info("password reset requested", "user_id", user.ID)
	return nil
}

func (s *userService) ResetPassword(ctx context.Context, req ResetPasswordRequest) error {
	req.Email = normalizeEmail(req.Email)
	req.Code = strings.TrimSpace(req.Code)
	if err := validation.Struct(req); err != nil {
		return err
	}

	user, err := s.repo.GetByEmail(ctx, req.Email)
	if err != nil {
		return err
	}

	pending, err := s.repo.GetResetCode(ctx, user.ID)
	if err != nil {
		return err
	}
	if !s.now().Before(pending.ExpiresAt) {
		return ErrInvalidResetCode
	}
	if err := bcrypt.CompareHashAndPassword([]byte(pending.CodeHash), []byte(req.Code)); err != nil {
		return ErrInvalidResetCode
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.NewPassword), s.bcryptCost)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	// Conditional on the code hash so a code can only be redeemed once
	if err := s.repo.CompletePasswordReset(ctx, user.ID, pending.CodeHash, string(hash)); err != nil {
		return err
	}

	s.logger.Info("password reset", "user_id", user.ID)
	return nil
}

func (s *userService) uploadProfilePicture(ctx context.Context, email string, file *blobs.File) (string, error) {
	data, err := s.images.Process(file.Data, images.ProfilePicture)
	if err != nil {
		if images.IsValidationError(err) {
			return "", NewValidationError("profileImage", err.Error())
		}
		return "", err
	}
	key := blobs.ObjectKey(blobs.PrefixProfilePictures, email, images.JPEGName(file.Name), s.now())
	return s.store.Upload(ctx, key, data, images.ContentType)
}

const (
	resetMailSubject = "Password Reset Code"
	resetMailBody    = "Your password reset code is: "
)

// newResetCode returns a uniformly random code in [100000, 999999]
func newResetCode() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(900000))
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%d", n.Int64()+100000), nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// isValidEmail accepts a bare address with a dotted domain
func isValidEmail(email string) bool {
	addr, err := mail.ParseAddress(email)
	if err != nil || addr.Address != email {
		return false
	}
	at := strings.LastIndex(email, "@")
	return at > 0 && strings.Contains(email[at+1:], ".")
}
