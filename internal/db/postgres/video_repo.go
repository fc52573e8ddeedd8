package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/lib/pq"

	"Vidora/internal/core/videos"
)

type postgresVideoRepo struct {
	db *sql.DB
}

// NewVideoRepository creates a new PostgreSQL video repository
func NewVideoRepository(db *sql.DB) videos.Repository {
	return &postgresVideoRepo{db: db}
}

// videoSelect selects a video with its channel and uploader summaries. Callers append
// WHERE/ORDER clauses referring to the video as v.
const videoSelect = `
	SELECT v.id, v.channel_id, v.uploader_id, v.title, v.description, v.categories, v.tags,
		v.visibility, v.original_url, v.resolutions, v.thumbnail_url, v.duration_seconds,
		v.size_mb, v.views, v.like_count, v.dislike_count, v.comment_count, v.is_monetized,
		v.is_age_restricted, v.created_at, v.updated_at,
		c.name, c.profile_picture_url, c.handle,
		u.first_name, u.last_name
	FROM videos v
	JOIN channels c ON c.id = v.channel_id
	JOIN users u ON u.id = v.uploader_id`

func scanVideo(row rowScanner) (*videos.Video, error) {
	video := &videos.Video{
		Channel:  &videos.ChannelSummary{},
		Uploader: &videos.UploaderSummary{},
	}
	var resolutions []byte

	err := row.Scan(
		&video.ID,
		&video.ChannelID,
		&video.UploaderID,
		&video.Title,
		&video.Description,
		pq.Array(&video.Categories),
		pq.Array(&video.Tags),
		&video.Visibility,
		&video.URLs.Original,
		&resolutions,
		&video.ThumbnailURL,
		&video.DurationSeconds,
		&video.SizeMB,
		&video.Views,
		&video.Likes,
		&video.Dislikes,
		&video.CommentCount,
		&video.IsMonetized,
		&video.IsAgeRestricted,
		&video.CreatedAt,
		&video.UpdatedAt,
		&video.Channel.Name,
		&video.Channel.ProfilePictureURL,
		&video.Channel.Handle,
		&video.Uploader.FirstName,
		&video.Uploader.LastName,
	)
	if err != nil {
		return nil, err
	}

	video.Channel.ID = video.ChannelID
	video.Uploader.ID = video.UploaderID
	video.URLs.Resolutions = map[string]string{}
	if len(resolutions) > 0 {
		if err := json.Unmarshal(resolutions, &video.URLs.Resolutions); err != nil {
			return nil, fmt.Errorf("failed to decode resolutions: %w", err)
		}
	}
	if video.Categories == nil {
		video.Categories = []string{}
	}
	if video.Tags == nil {
		video.Tags = []string{}
	}
	return video, nil
}

// scanVideos drains rows into a non-nil slice
func scanVideos(rows *sql.Rows) ([]*videos.Video, error) {
	defer func() { _ = rows.Close() }()

	result := []*videos.Video{}
	for rows.Next() {
		video, err := scanVideo(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan video: %w", err)
		}
		result = append(result, video)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating videos: %w", err)
	}
	return result, nil
}

// Create inserts a new video
func (r *postgresVideoRepo) Create(ctx context.Context, video *videos.Video) (*videos.Video, error) {
	resolutions, err := json.Marshal(video.URLs.Resolutions)
	if err != nil {
		return nil, fmt.Errorf("failed to encode resolutions: %w", err)
	}

	query := `
		INSERT INTO videos (id, channel_id, uploader_id, title, description, categories, tags,
			visibility, original_url, resolutions, thumbnail_url, duration_seconds, size_mb,
			is_age_restricted, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $15)`

	_, err = r.db.ExecContext(ctx, query,
		video.ID,
		video.ChannelID,
		video.UploaderID,
		video.Title,
		video.Description,
		pq.Array(video.Categories),
		pq.Array(video.Tags),
		string(video.Visibility),
		video.URLs.Original,
		resolutions,
		video.ThumbnailURL,
		video.DurationSeconds,
		video.SizeMB,
		video.IsAgeRestricted,
		video.CreatedAt,
	)
	if err != nil {
		if isMissingUser(err) {
			return nil, missingUserError(err)
		}
		if isForeignKey(err) {
			return nil, videos.ErrNoChannel
		}
		return nil, fmt.Errorf("failed to create video: %w", err)
	}

	return r.GetByID(ctx, video.ID)
}

// GetByID retrieves a video with its channel and uploader summaries
func (r *postgresVideoRepo) GetByID(ctx context.Context, id string) (*videos.Video, error) {
	video, err := scanVideo(r.db.QueryRowContext(ctx, videoSelect+` WHERE v.id = $1`, id))
	if err == sql.ErrNoRows {
		return nil, videos.ErrVideoNotFound
	}
	if err != nil {
		if isInvalidUUID(err) {
			return nil, videos.ErrVideoNotFound
		}
		return nil, fmt.Errorf("failed to get video: %w", err)
	}
	return video, nil
}

// List returns one page of videos newest first and the total matching count
func (r *postgresVideoRepo) List(ctx context.Context, filter videos.ListFilter) ([]*videos.Video, int, error) {
	var conditions []string
	var args []interface{}

	addArg := func(v interface{}) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", len(args))
	}

	if filter.ChannelID != "" {
		conditions = append(conditions, "v.channel_id = "+addArg(filter.ChannelID))
	}
	if filter.Category != "" {
		conditions = append(conditions, addArg(filter.Category)+" = ANY(v.categories)")
	}
	if filter.Tag != "" {
		conditions = append(conditions, addArg(filter.Tag)+" = ANY(v.tags)")
	}
	if !filter.IncludeNonPublic {
		conditions = append(conditions, "v.visibility = 'public'")
	}

	where := ""
	if len(conditions) > 0 {
		where = " WHERE " + strings.Join(conditions, " AND ")
	}

	var total int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM videos v`+where, args...).Scan(&total); err != nil {
		if isInvalidUUID(err) {
			return []*videos.Video{}, 0, nil
		}
		return nil, 0, fmt.Errorf("failed to count videos: %w", err)
	}

	limitArg := addArg(filter.Limit)
	offsetArg := addArg(filter.Offset)
	query := videoSelect + where + ` ORDER BY v.created_at DESC, v.id DESC LIMIT ` + limitArg + ` OFFSET ` + offsetArg

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list videos: %w", err)
	}
	list, err := scanVideos(rows)
	if err != nil {
		return nil, 0, err
	}
	return list, total, nil
}

// Update persists the mutable metadata of a video
func (r *postgresVideoRepo) Update(ctx context.Context, video *videos.Video) (*videos.Video, error) {
	query := `
		UPDATE videos
		SET title = $2, description = $3, visibility = $4, is_age_restricted = $5,
			tags = $6, categories = $7, thumbnail_url = $8, updated_at = $9
		WHERE id = $1`

	result, err := r.db.ExecContext(ctx, query,
		video.ID,
		video.Title,
		video.Description,
		string(video.Visibility),
		video.IsAgeRestricted,
		pq.Array(video.Tags),
		pq.Array(video.Categories),
		video.ThumbnailURL,
		video.UpdatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to update video: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("failed to check update result: %w", err)
	}
	if rowsAffected == 0 {
		return nil, videos.ErrVideoNotFound
	}

	return r.GetByID(ctx, video.ID)
}

// Delete removes a video. Comments, reactions, views and library rows cascade.
func (r *postgresVideoRepo) Delete(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM videos WHERE id = $1`, id)
	if err != nil {
		if isInvalidUUID(err) {
			return videos.ErrVideoNotFound
		}
		return fmt.Errorf("failed to delete video: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check delete result: %w", err)
	}
	if rowsAffected == 0 {
		return videos.ErrVideoNotFound
	}
	return nil
}

// IncrementViews adds one view to the video and its channel
func (r *postgresVideoRepo) IncrementViews(ctx context.Context, videoID string) (int64, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer rollback(tx)

	var views int64
	var channelID string
	err = tx.QueryRowContext(ctx, `
		UPDATE videos SET views = views + 1
		WHERE id = $1
		RETURNING views, channel_id`, videoID).Scan(&views, &channelID)
	if err == sql.ErrNoRows {
		return 0, videos.ErrVideoNotFound
	}
	if err != nil {
		return 0, fmt.Errorf("failed to increment views: %w", err)
	}

	if _, err := tx.ExecContext(ctx,
		`UPDATE channels SET total_views = total_views + 1 WHERE id = $1`, channelID); err != nil {
		return 0, fmt.Errorf("failed to increment channel views: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit transaction: %w", err)
	}
	return views, nil
}

// RecordView counts a view unless the user already viewed the video at or after since.
// The video row stays locked from the window check to the increment.
func (r *postgresVideoRepo) RecordView(ctx context.Context, userID, videoID string, since, at time.Time) (*videos.ViewResult, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer rollback(tx)

	result := &videos.ViewResult{}
	var channelID string
	err = tx.QueryRowContext(ctx,
		`SELECT views, channel_id FROM videos WHERE id = $1 FOR UPDATE`, videoID).Scan(&result.Views, &channelID)
	if err == sql.ErrNoRows {
		return nil, videos.ErrVideoNotFound
	}
	if err != nil {
		if isInvalidUUID(err) {
			return nil, videos.ErrVideoNotFound
		}
		return nil, fmt.Errorf("failed to lock video: %w", err)
	}

	var recent bool
	err = tx.QueryRowContext(ctx, `
		SELECT EXISTS (
			SELECT 1 FROM video_views
			WHERE user_id = $1 AND video_id = $2 AND viewed_at >= $3
		)`, userID, videoID, since).Scan(&recent)
	if err != nil {
		return nil, fmt.Errorf("failed to check recent views: %w", err)
	}

	if !recent {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO video_views (user_id, video_id, viewed_at) VALUES ($1, $2, $3)`,
			userID, videoID, at); err != nil {
			if isMissingUser(err) {
				return nil, missingUserError(err)
			}
			return nil, fmt.Errorf("failed to record view: %w", err)
		}

		if err := tx.QueryRowContext(ctx,
			`UPDATE videos SET views = views + 1 WHERE id = $1 RETURNING views`, videoID).Scan(&result.Views); err != nil {
			return nil, fmt.Errorf("failed to increment views: %w", err)
		}

		if _, err := tx.ExecContext(ctx,
			`UPDATE channels SET total_views = total_views + 1 WHERE id = $1`, channelID); err != nil {
			return nil, fmt.Errorf("failed to increment channel views: %w", err)
		}
		result.Counted = true
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}
	return result, nil
}

// reactionColumn returns the counter column for a reaction kind
func reactionColumn(kind videos.ReactionKind) string {
	if kind == videos.ReactionDislike {
		return "dislike_count"
	}
	return "like_count"
}

// ToggleReaction applies a like or dislike toggle and adjusts both counters in one transaction.
// Same kind removes the reaction; the opposite kind switches it.
func (r *postgresVideoRepo) ToggleReaction(ctx context.Context, userID, videoID string, kind videos.ReactionKind) (*videos.ReactionState, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer rollback(tx)

	var locked string
	err = tx.QueryRowContext(ctx, `SELECT id FROM videos WHERE id = $1 FOR UPDATE`, videoID).Scan(&locked)
	if err == sql.ErrNoRows {
		return nil, videos.ErrVideoNotFound
	}
	if err != nil {
		if isInvalidUUID(err) {
			return nil, videos.ErrVideoNotFound
		}
		return nil, fmt.Errorf("failed to lock video: %w", err)
	}

	var existing string
	err = tx.QueryRowContext(ctx,
		`SELECT kind FROM video_reactions WHERE user_id = $1 AND video_id = $2`, userID, videoID).Scan(&existing)
	if err != nil && err != sql.ErrNoRows {
		return nil, fmt.Errorf("failed to get existing reaction: %w", err)
	}

	state := &videos.ReactionState{}
	var counterUpdate string

	switch videos.ReactionKind(existing) {
	case "":
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO video_reactions (user_id, video_id, kind) VALUES ($1, $2, $3)`,
			userID, videoID, string(kind)); err != nil {
			if isMissingUser(err) {
				return nil, missingUserError(err)
			}
			return nil, fmt.Errorf("failed to create reaction: %w", err)
		}
		state.Action = "added"
		state.Active = true
		counterUpdate = reactionColumn(kind) + ` = ` + reactionColumn(kind) + ` + 1`

	case kind:
		if _, err := tx.ExecContext(ctx,
			`DELETE FROM video_reactions WHERE user_id = $1 AND video_id = $2`, userID, videoID); err != nil {
			return nil, fmt.Errorf("failed to delete reaction: %w", err)
		}
		state.Action = "removed"
		counterUpdate = reactionColumn(kind) + ` = GREATEST(0, ` + reactionColumn(kind) + ` - 1)`

	default:
		if _, err := tx.ExecContext(ctx,
			`UPDATE video_reactions SET kind = $3, reacted_at = NOW() WHERE user_id = $1 AND video_id = $2`,
			userID, videoID, string(kind)); err != nil {
			return nil, fmt.Errorf("failed to switch reaction: %w", err)
		}
		state.Action = "switched"
		state.Active = true
		opposite := reactionColumn(kind.Opposite())
		counterUpdate = reactionColumn(kind) + ` = ` + reactionColumn(kind) + ` + 1, ` +
			opposite + ` = GREATEST(0, ` + opposite + ` - 1)`
	}

	err = tx.QueryRowContext(ctx,
		`UPDATE videos SET `+counterUpdate+` WHERE id = $1 RETURNING like_count, dislike_count`,
		videoID).Scan(&state.Likes, &state.Dislikes)
	if err != nil {
		return nil, fmt.Errorf("failed to update reaction counts: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}
	return state, nil
}
