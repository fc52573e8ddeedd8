package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"Vidora/internal/core/channels"
	"Vidora/internal/core/search"
	"Vidora/internal/core/videos"
)

type postgresSearchRepo struct {
	db *sql.DB
}

// NewSearchRepository creates a new PostgreSQL search repository
func NewSearchRepository(db *sql.DB) search.Repository {
	return &postgresSearchRepo{db: db}
}

// FindChannel returns the oldest channel whose name or handle matches the pattern
func (r *postgresSearchRepo) FindChannel(ctx context.Context, pattern string) (*channels.Channel, error) {
	query := `SELECT ` + channelColumns + `
		FROM channels
		WHERE name ILIKE $1 ESCAPE '\' OR handle ILIKE $1 ESCAPE '\'
		ORDER BY created_at, id
		LIMIT 1`

	channel, err := scanChannel(r.db.QueryRowContext(ctx, query, pattern))
	if err == sql.ErrNoRows {
		return nil, channels.ErrChannelNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to search channels: %w", err)
	}
	return channel, nil
}

// ChannelVideos lists a channel's videos newest first
func (r *postgresSearchRepo) ChannelVideos(ctx context.Context, channelID string, includeNonPublic bool, limit int) ([]*videos.Video, error) {
	query := videoSelect + `
		WHERE v.channel_id = $1 AND ($2 OR v.visibility = 'public')
		ORDER BY v.created_at DESC, v.id
		LIMIT $3`

	rows, err := r.db.QueryContext(ctx, query, channelID, includeNonPublic, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list channel videos: %w", err)
	}
	return scanVideos(rows)
}

// FindVideos lists public videos whose title or any tag matches the pattern
func (r *postgresSearchRepo) FindVideos(ctx context.Context, pattern, excludeChannelID string, limit int) ([]*videos.Video, error) {
	query := videoSelect + `
		WHERE v.visibility = 'public'
			AND ($2 = '' OR v.channel_id::text <> $2)
			AND (v.title ILIKE $1 ESCAPE '\'
				OR EXISTS (SELECT 1 FROM unnest(v.tags) AS t(tag) WHERE t.tag ILIKE $1 ESCAPE '\'))
		ORDER BY v.created_at DESC, v.id
		LIMIT $3`

	rows, err := r.db.QueryContext(ctx, query, pattern, excludeChannelID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to search videos: %w", err)
	}
	return scanVideos(rows)
}
