package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/lib/pq"

	"Vidora/internal/core/channels"
)

type postgresChannelRepo struct {
	db *sql.DB
}

// NewChannelRepository creates a new PostgreSQL channel repository
func NewChannelRepository(db *sql.DB) channels.Repository {
	return &postgresChannelRepo{db: db}
}

const channelColumns = `
	id, owner_id, name, handle, description, profile_picture_url, banner_url,
	total_subscribers, total_views, social_links, location, channel_url, contact_email,
	tags, is_verified, is_monetized, created_at, updated_at`

// mapChannelConflict translates unique violations on channels to domain errors
func mapChannelConflict(err error) error {
	if !isDuplicateKey(err) {
		return nil
	}
	msg := err.Error()
	switch {
	case strings.Contains(msg, "channels_owner_id_key"):
		return channels.ErrChannelAlreadyExists
	case strings.Contains(msg, "channels_name_key"):
		return channels.ErrNameTaken
	case strings.Contains(msg, "channels_handle_key"):
		return channels.ErrHandleTaken
	}
	return nil
}

// Create inserts a new channel
func (r *postgresChannelRepo) Create(ctx context.Context, channel *channels.Channel) (*channels.Channel, error) {
	links, err := json.Marshal(channel.SocialLinks)
	if err != nil {
		return nil, fmt.Errorf("failed to encode social links: %w", err)
	}

	query := `
		INSERT INTO channels (id, owner_id, name, handle, description, profile_picture_url, location,
			channel_url, social_links, tags, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $11)
		RETURNING created_at, updated_at`

	err = r.db.QueryRowContext(ctx, query,
		channel.ID,
		channel.OwnerID,
		channel.Name,
		channel.Handle,
		channel.Description,
		channel.ProfilePictureURL,
		channel.Location,
		channel.ChannelURL,
		links,
		pq.Array(channel.Tags),
		channel.CreatedAt,
	).Scan(&channel.CreatedAt, &channel.UpdatedAt)
	if err != nil {
		if mapped := mapChannelConflict(err); mapped != nil {
			return nil, mapped
		}
		if isMissingUser(err) {
			return nil, missingUserError(err)
		}
		return nil, fmt.Errorf("failed to create channel: %w", err)
	}

	return channel, nil
}

// GetByID retrieves a channel by id
func (r *postgresChannelRepo) GetByID(ctx context.Context, id string) (*channels.Channel, error) {
	return r.getOne(ctx, `SELECT `+channelColumns+` FROM channels WHERE id = $1`, id)
}

// GetByHandle retrieves a channel by its handle
func (r *postgresChannelRepo) GetByHandle(ctx context.Context, handle string) (*channels.Channel, error) {
	return r.getOne(ctx, `SELECT `+channelColumns+` FROM channels WHERE handle = $1`, handle)
}

// GetByOwner retrieves the channel owned by a user
func (r *postgresChannelRepo) GetByOwner(ctx context.Context, userID string) (*channels.Channel, error) {
	return r.getOne(ctx, `SELECT `+channelColumns+` FROM channels WHERE owner_id = $1`, userID)
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanChannel(row rowScanner) (*channels.Channel, error) {
	channel := &channels.Channel{}
	var links []byte

	err := row.Scan(
		&channel.ID,
		&channel.OwnerID,
		&channel.Name,
		&channel.Handle,
		&channel.Description,
		&channel.ProfilePictureURL,
		&channel.BannerURL,
		&channel.TotalSubscribers,
		&channel.TotalViews,
		&links,
		&channel.Location,
		&channel.ChannelURL,
		&channel.ContactEmail,
		pq.Array(&channel.Tags),
		&channel.IsVerified,
		&channel.IsMonetized,
		&channel.CreatedAt,
		&channel.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if len(links) > 0 {
		if err := json.Unmarshal(links, &channel.SocialLinks); err != nil {
			return nil, fmt.Errorf("failed to decode social links: %w", err)
		}
	}
	if channel.Tags == nil {
		channel.Tags = []string{}
	}
	return channel, nil
}

func (r *postgresChannelRepo) getOne(ctx context.Context, query, arg string) (*channels.Channel, error) {
	channel, err := scanChannel(r.db.QueryRowContext(ctx, query, arg))
	if err == sql.ErrNoRows {
		return nil, channels.ErrChannelNotFound
	}
	if err != nil {
		if isInvalidUUID(err) {
			return nil, channels.ErrChannelNotFound
		}
		return nil, fmt.Errorf("failed to get channel: %w", err)
	}
	return channel, nil
}

// Update persists every mutable field of the channel
func (r *postgresChannelRepo) Update(ctx context.Context, channel *channels.Channel) (*channels.Channel, error) {
	links, err := json.Marshal(channel.SocialLinks)
	if err != nil {
		return nil, fmt.Errorf("failed to encode social links: %w", err)
	}

	query := `
		UPDATE channels
		SET name = $2, handle = $3, description = $4, profile_picture_url = $5, banner_url = $6,
			social_links = $7, location = $8, contact_email = $9, tags = $10, updated_at = $11
		WHERE id = $1
		RETURNING updated_at`

	err = r.db.QueryRowContext(ctx, query,
		channel.ID,
		channel.Name,
		channel.Handle,
		channel.Description,
		channel.ProfilePictureURL,
		channel.BannerURL,
		links,
		channel.Location,
		channel.ContactEmail,
		pq.Array(channel.Tags),
		channel.UpdatedAt,
	).Scan(&channel.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, channels.ErrChannelNotFound
	}
	if err != nil {
		if mapped := mapChannelConflict(err); mapped != nil {
			return nil, mapped
		}
		return nil, fmt.Errorf("failed to update channel: %w", err)
	}

	return channel, nil
}

// ListVideoIDs returns the channel's video ids in upload order
func (r *postgresChannelRepo) ListVideoIDs(ctx context.Context, channelID string) ([]string, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id FROM videos WHERE channel_id = $1 ORDER BY created_at, id`, channelID)
	if err != nil {
		return nil, fmt.Errorf("failed to list channel videos: %w", err)
	}
	defer func() { _ = rows.Close() }()

	ids := []string{}
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan video id: %w", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating channel videos: %w", err)
	}
	return ids, nil
}

// SubscribeWithCount atomically creates the subscription and increments the subscriber count.
// Subscribing twice leaves the count unchanged.
func (r *postgresChannelRepo) SubscribeWithCount(ctx context.Context, userID, channelID string) (*channels.SubscriptionState, bool, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, false, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer rollback(tx)

	result, err := tx.ExecContext(ctx, `
		INSERT INTO channel_subscriptions (user_id, channel_id)
		VALUES ($1, $2)
		ON CONFLICT (user_id, channel_id) DO NOTHING`,
		userID, channelID)
	if err != nil {
		if isMissingUser(err) {
			return nil, false, missingUserError(err)
		}
		if isForeignKey(err) || isInvalidUUID(err) {
			return nil, false, channels.ErrChannelNotFound
		}
		return nil, false, fmt.Errorf("failed to create subscription: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return nil, false, fmt.Errorf("failed to check subscribe result: %w", err)
	}
	changed := rowsAffected > 0

	state := &channels.SubscriptionState{Subscribed: true}
	if changed {
		err = tx.QueryRowContext(ctx, `
			UPDATE channels
			SET total_subscribers = total_subscribers + 1
			WHERE id = $1
			RETURNING total_subscribers`, channelID).Scan(&state.TotalSubscribers)
	} else {
		err = tx.QueryRowContext(ctx,
			`SELECT total_subscribers FROM channels WHERE id = $1`, channelID).Scan(&state.TotalSubscribers)
	}
	if err == sql.ErrNoRows {
		return nil, false, channels.ErrChannelNotFound
	}
	if err != nil {
		return nil, false, fmt.Errorf("failed to update subscriber count: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, false, fmt.Errorf("failed to commit transaction: %w", err)
	}
	return state, changed, nil
}

// UnsubscribeWithCount atomically removes the subscription and decrements the subscriber count.
// Unsubscribing when not subscribed leaves the count unchanged.
func (r *postgresChannelRepo) UnsubscribeWithCount(ctx context.Context, userID, channelID string) (*channels.SubscriptionState, bool, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, false, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer rollback(tx)

	result, err := tx.ExecContext(ctx,
		`DELETE FROM channel_subscriptions WHERE user_id = $1 AND channel_id = $2`, userID, channelID)
	if err != nil {
		if isInvalidUUID(err) {
			return nil, false, channels.ErrChannelNotFound
		}
		return nil, false, fmt.Errorf("failed to unsubscribe: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return nil, false, fmt.Errorf("failed to check unsubscribe result: %w", err)
	}
	changed := rowsAffected > 0

	state := &channels.SubscriptionState{Subscribed: false}
	if changed {
		err = tx.QueryRowContext(ctx, `
			UPDATE channels
			SET total_subscribers = GREATEST(0, total_subscribers - 1)
			WHERE id = $1
			RETURNING total_subscribers`, channelID).Scan(&state.TotalSubscribers)
	} else {
		err = tx.QueryRowContext(ctx,
			`SELECT total_subscribers FROM channels WHERE id = $1`, channelID).Scan(&state.TotalSubscribers)
	}
	if err == sql.ErrNoRows {
		return nil, false, channels.ErrChannelNotFound
	}
	if err != nil {
		return nil, false, fmt.Errorf("failed to update subscriber count: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, false, fmt.Errorf("failed to commit transaction: %w", err)
	}
	return state, changed, nil
}

// ListSubscriptions returns the user's subscribed channels, newest subscription first,
// each with its public videos
func (r *postgresChannelRepo) ListSubscriptions(ctx context.Context, userID string) ([]*channels.SubscribedChannel, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT c.id, c.name, c.description, c.profile_picture_url, c.handle, c.total_subscribers
		FROM channel_subscriptions s
		JOIN channels c ON c.id = s.channel_id
		WHERE s.user_id = $1
		ORDER BY s.subscribed_at DESC, c.id`, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list subscriptions: %w", err)
	}
	defer func() { _ = rows.Close() }()

	result := []*channels.SubscribedChannel{}
	byID := make(map[string]*channels.SubscribedChannel)
	for rows.Next() {
		sub := &channels.SubscribedChannel{Videos: []channels.VideoRef{}}
		if err := rows.Scan(&sub.ID, &sub.Name, &sub.Description, &sub.ProfilePictureURL, &sub.Handle, &sub.TotalSubscribers); err != nil {
			return nil, fmt.Errorf("failed to scan subscription: %w", err)
		}
		result = append(result, sub)
		byID[sub.ID] = sub
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating subscriptions: %w", err)
	}
	if len(result) == 0 {
		return result, nil
	}

	ids := make([]string, 0, len(result))
	for _, sub := range result {
		ids = append(ids, sub.ID)
	}

	videoRows, err := r.db.QueryContext(ctx, `
		SELECT channel_id, id, title, thumbnail_url
		FROM videos
		WHERE channel_id = ANY($1::uuid[]) AND visibility = 'public'
		ORDER BY created_at DESC, id`, pq.Array(ids))
	if err != nil {
		return nil, fmt.Errorf("failed to list subscription videos: %w", err)
	}
	defer func() { _ = videoRows.Close() }()

	for videoRows.Next() {
		var channelID string
		var ref channels.VideoRef
		if err := videoRows.Scan(&channelID, &ref.ID, &ref.Title, &ref.ThumbnailURL); err != nil {
			return nil, fmt.Errorf("failed to scan subscription video: %w", err)
		}
		if sub, ok := byID[channelID]; ok {
			sub.Videos = append(sub.Videos, ref)
		}
	}
	if err := videoRows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating subscription videos: %w", err)
	}

	return result, nil
}
