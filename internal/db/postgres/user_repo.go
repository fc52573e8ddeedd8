package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"Vidora/internal/core/users"
)

type postgresUserRepo struct {
	db *sql.DB
}

// NewUserRepository creates a new PostgreSQL user repository
func NewUserRepository(db *sql.DB) users.Repository {
	return &postgresUserRepo{db: db}
}

const userColumns = `
	u.id, u.first_name, u.last_name, u.email, u.password_hash, u.profile_picture_url,
	u.bio, u.is_verified, u.joined_at, u.last_active_at, u.updated_at, c.id`

// Create inserts a new user into the users table
func (r *postgresUserRepo) Create(ctx context.Context, user *users.User) (*users.User, error) {
	query := `
		INSERT INTO users (id, first_name, last_name, email, password_hash, profile_picture_url, bio, joined_at, last_active_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $8)
		RETURNING joined_at, last_active_at, updated_at`

	err := r.db.QueryRowContext(ctx, query,
		user.ID,
		user.FirstName,
		user.LastName,
		user.Email,
		user.PasswordHash,
		user.ProfilePictureURL,
		user.Bio,
		user.JoinedAt,
	).Scan(&user.JoinedAt, &user.LastActiveAt, &user.UpdatedAt)
	if err != nil {
		if strings.Contains(err.Error(), "duplicate key") && strings.Contains(err.Error(), "users_email_key") {
			return nil, users.ErrEmailTaken
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	return user, nil
}

// GetByID retrieves a user and the id of the channel they own
func (r *postgresUserRepo) GetByID(ctx context.Context, id string) (*users.User, error) {
	query := `SELECT ` + userColumns + `
		FROM users u
		LEFT JOIN channels c ON c.owner_id = u.id
		WHERE u.id = $1`
	return r.getOne(ctx, query, id)
}

// GetByEmail retrieves a user by normalized email
func (r *postgresUserRepo) GetByEmail(ctx context.Context, email string) (*users.User, error) {
	query := `SELECT ` + userColumns + `
		FROM users u
		LEFT JOIN channels c ON c.owner_id = u.id
		WHERE u.email = $1`
	return r.getOne(ctx, query, email)
}

func (r *postgresUserRepo) getOne(ctx context.Context, query string, arg string) (*users.User, error) {
	user := &users.User{}
	var channelID sql.NullString

	err := r.db.QueryRowContext(ctx, query, arg).Scan(
		&user.ID,
		&user.FirstName,
		&user.LastName,
		&user.Email,
		&user.PasswordHash,
		&user.ProfilePictureURL,
		&user.Bio,
		&user.IsVerified,
		&user.JoinedAt,
		&user.LastActiveAt,
		&user.UpdatedAt,
		&channelID,
	)
	if err == sql.ErrNoRows {
		return nil, users.ErrUserNotFound
	}
	if err != nil {
		if isInvalidUUID(err) {
			return nil, users.ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	user.ChannelID = nullStringPtr(channelID)
	return user, nil
}

// TouchLastActive records the user's latest authenticated activity
func (r *postgresUserRepo) TouchLastActive(ctx context.Context, id string, at time.Time) error {
	result, err := r.db.ExecContext(ctx, `UPDATE users SET last_active_at = $2 WHERE id = $1`, id, at)
	if err != nil {
		return fmt.Errorf("failed to update last active: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check update result: %w", err)
	}
	if rowsAffected == 0 {
		return users.ErrUserNotFound
	}
	return nil
}

// Exists reports whether the account exists. Malformed ids do not exist.
func (r *postgresUserRepo) Exists(ctx context.Context, id string) (bool, error) {
	var exists bool
	err := r.db.QueryRowContext(ctx, `SELECT EXISTS(SELECT 1 FROM users WHERE id = $1)`, id).Scan(&exists)
	if err != nil {
		if isInvalidUUID(err) {
			return false, nil
		}
		return false, fmt.Errorf("failed to check user: %w", err)
	}
	return exists, nil
}

// SetResetCode stores a pending reset code, replacing any earlier one
func (r *postgresUserRepo) SetResetCode(ctx context.Context, id, codeHash string, expiresAt time.Time) error {
	result, err := r.db.ExecContext(ctx, `
		UPDATE users
		SET reset_code_hash = $2, reset_code_expires_at = $3, updated_at = NOW()
		WHERE id = $1`,
		id, codeHash, expiresAt,
	)
	if err != nil {
		return fmt.Errorf("failed to store reset code: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check update result: %w", err)
	}
	if rowsAffected == 0 {
		return users.ErrUserNotFound
	}
	return nil
}

// GetResetCode returns the pending reset code
func (r *postgresUserRepo) GetResetCode(ctx context.Context, id string) (*users.ResetCode, error) {
	var codeHash sql.NullString
	var expiresAt sql.NullTime

	err := r.db.QueryRowContext(ctx,
		`SELECT reset_code_hash, reset_code_expires_at FROM users WHERE id = $1`, id,
	).Scan(&codeHash, &expiresAt)
	if err == sql.ErrNoRows {
		return nil, users.ErrUserNotFound
	}
	if err != nil {
		if isInvalidUUID(err) {
			return nil, users.ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to get reset code: %w", err)
	}

	if !codeHash.Valid || !expiresAt.Valid {
		return nil, users.ErrInvalidResetCode
	}
	return &users.ResetCode{CodeHash: codeHash.String, ExpiresAt: expiresAt.Time}, nil
}

// CompletePasswordReset swaps in the new password hash and clears the pending code
func (r *postgresUserRepo) CompletePasswordReset(ctx context.Context, id, codeHash, passwordHash string) error {
	result, err := r.db.ExecContext(ctx, `
		UPDATE users
		SET password_hash = $3, reset_code_hash = NULL, reset_code_expires_at = NULL, updated_at = NOW()
		WHERE id = $1 AND reset_code_hash = $2`,
		id, codeHash, passwordHash,
	)
	if err != nil {
		return fmt.Errorf("failed to reset password: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check update result: %w", err)
	}
	if rowsAffected == 0 {
		return users.ErrInvalidResetCode
	}
	return nil
}
