package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"Vidora/internal/core/library"
	"Vidora/internal/core/videos"
)

type postgresLibraryRepo struct {
	db *sql.DB
}

// NewLibraryRepository creates a new PostgreSQL repository for history, saved and downloaded videos
func NewLibraryRepository(db *sql.DB) library.Repository {
	return &postgresLibraryRepo{db: db}
}

// RecordWatch moves the video to the front of the history and trims it to limit entries
func (r *postgresLibraryRepo) RecordWatch(ctx context.Context, userID, videoID string, at time.Time, limit int) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer rollback(tx)

	_, err = tx.ExecContext(ctx, `
		INSERT INTO watch_history (user_id, video_id, watched_at)
		VALUES ($1, $2, $3)
		ON CONFLICT (user_id, video_id)
		DO UPDATE SET watched_at = EXCLUDED.watched_at, seq = nextval('watch_history_seq')`,
		userID, videoID, at)
	if err != nil {
		if isMissingUser(err) {
			return missingUserError(err)
		}
		if isForeignKey(err) || isInvalidUUID(err) {
			return videos.ErrVideoNotFound
		}
		return fmt.Errorf("failed to record watch: %w", err)
	}

	if limit > 0 {
		_, err = tx.ExecContext(ctx, `
			DELETE FROM watch_history
			WHERE user_id = $1 AND video_id NOT IN (
				SELECT video_id FROM watch_history
				WHERE user_id = $1
				ORDER BY seq DESC
				LIMIT $2
			)`, userID, limit)
		if err != nil {
			return fmt.Errorf("failed to trim watch history: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// ToggleSaved adds the video when absent and removes it when present
func (r *postgresLibraryRepo) ToggleSaved(ctx context.Context, userID, videoID string, at time.Time) (bool, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return false, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer rollback(tx)

	result, err := tx.ExecContext(ctx,
		`DELETE FROM saved_videos WHERE user_id = $1 AND video_id = $2`, userID, videoID)
	if err != nil {
		if isInvalidUUID(err) {
			return false, videos.ErrVideoNotFound
		}
		return false, fmt.Errorf("failed to remove saved video: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to check remove result: %w", err)
	}

	saved := rowsAffected == 0
	if saved {
		_, err = tx.ExecContext(ctx, `
			INSERT INTO saved_videos (user_id, video_id, created_at)
			VALUES ($1, $2, $3)
			ON CONFLICT (user_id, video_id) DO NOTHING`, userID, videoID, at)
		if err != nil {
			if isMissingUser(err) {
				return false, missingUserError(err)
			}
			if isForeignKey(err) {
				return false, videos.ErrVideoNotFound
			}
			return false, fmt.Errorf("failed to save video: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return false, fmt.Errorf("failed to commit transaction: %w", err)
	}
	return saved, nil
}

// AddDownload records the video in the downloaded set
func (r *postgresLibraryRepo) AddDownload(ctx context.Context, userID, videoID string, at time.Time) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO downloaded_videos (user_id, video_id, created_at)
		VALUES ($1, $2, $3)
		ON CONFLICT (user_id, video_id) DO NOTHING`, userID, videoID, at)
	if err != nil {
		if isMissingUser(err) {
			return missingUserError(err)
		}
		if isForeignKey(err) || isInvalidUUID(err) {
			return videos.ErrVideoNotFound
		}
		return fmt.Errorf("failed to record download: %w", err)
	}
	return nil
}

// ListHistory returns watched videos most recent first
func (r *postgresLibraryRepo) ListHistory(ctx context.Context, userID string) ([]*videos.Video, error) {
	return r.list(ctx, "watch_history", "l.seq DESC", userID)
}

// ListSaved returns saved videos in the order they were saved
func (r *postgresLibraryRepo) ListSaved(ctx context.Context, userID string) ([]*videos.Video, error) {
	return r.list(ctx, "saved_videos", "l.created_at ASC, v.id", userID)
}

// ListDownloads returns downloaded videos in the order they were downloaded
func (r *postgresLibraryRepo) ListDownloads(ctx context.Context, userID string) ([]*videos.Video, error) {
	return r.list(ctx, "downloaded_videos", "l.created_at ASC, v.id", userID)
}

// list joins a library table to its videos. Private videos are only listed for their uploader.
func (r *postgresLibraryRepo) list(ctx context.Context, table, order, userID string) ([]*videos.Video, error) {
	query := videoSelect + `
		JOIN ` + table + ` l ON l.video_id = v.id
		WHERE l.user_id = $1 AND (v.visibility <> 'private' OR v.uploader_id = $1)
		ORDER BY ` + order

	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list %s: %w", table, err)
	}
	return scanVideos(rows)
}
