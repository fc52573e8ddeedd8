package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"Vidora/internal/core/comments"
	"Vidora/internal/core/videos"
)

type postgresCommentRepo struct {
	db *sql.DB
}

// NewCommentRepository creates a new PostgreSQL comment repository
func NewCommentRepository(db *sql.DB) comments.Repository {
	return &postgresCommentRepo{db: db}
}

// CreateWithCount inserts the comment and increments the video's comment count
func (r *postgresCommentRepo) CreateWithCount(ctx context.Context, comment *comments.Comment) (*comments.Comment, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer rollback(tx)

	query := `
		INSERT INTO comments (id, video_id, author_id, content, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $5)
		RETURNING created_at, updated_at`

	err = tx.QueryRowContext(ctx, query,
		comment.ID,
		comment.VideoID,
		comment.AuthorID,
		comment.Content,
		comment.CreatedAt,
	).Scan(&comment.CreatedAt, &comment.UpdatedAt)
	if err != nil {
		if isMissingUser(err) {
			return nil, missingUserError(err)
		}
		if isForeignKey(err) || isInvalidUUID(err) {
			return nil, videos.ErrVideoNotFound
		}
		return nil, fmt.Errorf("failed to create comment: %w", err)
	}

	if _, err := tx.ExecContext(ctx,
		`UPDATE videos SET comment_count = comment_count + 1 WHERE id = $1`, comment.VideoID); err != nil {
		return nil, fmt.Errorf("failed to increment comment count: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}
	return comment, nil
}

// GetByID retrieves a comment
func (r *postgresCommentRepo) GetByID(ctx context.Context, id string) (*comments.Comment, error) {
	comment := &comments.Comment{}
	err := r.db.QueryRowContext(ctx, `
		SELECT id, video_id, author_id, content, created_at, updated_at
		FROM comments WHERE id = $1`, id).Scan(
		&comment.ID,
		&comment.VideoID,
		&comment.AuthorID,
		&comment.Content,
		&comment.CreatedAt,
		&comment.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, comments.ErrCommentNotFound
	}
	if err != nil {
		if isInvalidUUID(err) {
			return nil, comments.ErrCommentNotFound
		}
		return nil, fmt.Errorf("failed to get comment: %w", err)
	}
	return comment, nil
}

// ListByVideo returns the video's comments oldest first with their authors
func (r *postgresCommentRepo) ListByVideo(ctx context.Context, videoID string) ([]*comments.Comment, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT c.id, c.video_id, c.author_id, c.content, c.created_at, c.updated_at,
			u.first_name, u.last_name, u.profile_picture_url
		FROM comments c
		JOIN users u ON u.id = c.author_id
		WHERE c.video_id = $1
		ORDER BY c.created_at, c.id`, videoID)
	if err != nil {
		if isInvalidUUID(err) {
			return nil, videos.ErrVideoNotFound
		}
		return nil, fmt.Errorf("failed to list comments: %w", err)
	}
	defer func() { _ = rows.Close() }()

	result := []*comments.Comment{}
	for rows.Next() {
		comment := &comments.Comment{Author: &comments.AuthorSummary{}}
		if err := rows.Scan(
			&comment.ID,
			&comment.VideoID,
			&comment.AuthorID,
			&comment.Content,
			&comment.CreatedAt,
			&comment.UpdatedAt,
			&comment.Author.FirstName,
			&comment.Author.LastName,
			&comment.Author.ProfilePictureURL,
		); err != nil {
			return nil, fmt.Errorf("failed to scan comment: %w", err)
		}
		comment.Author.ID = comment.AuthorID
		result = append(result, comment)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating comments: %w", err)
	}
	return result, nil
}

// DeleteWithCount removes the comment from the video and decrements the comment count
func (r *postgresCommentRepo) DeleteWithCount(ctx context.Context, commentID, videoID string) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer rollback(tx)

	result, err := tx.ExecContext(ctx,
		`DELETE FROM comments WHERE id = $1 AND video_id = $2`, commentID, videoID)
	if err != nil {
		if isInvalidUUID(err) {
			return comments.ErrCommentNotFound
		}
		return fmt.Errorf("failed to delete comment: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check delete result: %w", err)
	}
	if rowsAffected == 0 {
		return comments.ErrCommentNotFound
	}

	if _, err := tx.ExecContext(ctx,
		`UPDATE videos SET comment_count = GREATEST(0, comment_count - 1) WHERE id = $1`, videoID); err != nil {
		return fmt.Errorf("failed to decrement comment count: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}
