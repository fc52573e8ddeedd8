package library

import (
	"context"
	"time"

	"Vidora/internal/core/videos"
)

// Repository defines the data access interface for a user's video lists.
// Lists hide other users' private videos.
type Repository interface {
	// RecordWatch moves videoID to the front of the user's history, then trims the
	// history to limit entries when limit > 0
	RecordWatch(ctx context.Context, userID, videoID string, at time.Time, limit int) error

	// ToggleSaved adds the video when absent and removes it when present
	ToggleSaved(ctx context.Context, userID, videoID string, at time.Time) (saved bool, err error)

	// AddDownload records the video in the downloaded set; repeated calls are no-ops
	AddDownload(ctx context.Context, userID, videoID string, at time.Time) error

	// ListHistory returns watched videos most recent first
	ListHistory(ctx context.Context, userID string) ([]*videos.Video, error)

	// ListSaved returns saved videos newest save first
	ListSaved(ctx context.Context, userID string) ([]*videos.Video, error)

	// ListDownloads returns downloaded videos newest first
	ListDownloads(ctx context.Context, userID string) ([]*videos.Video, error)
}

// VideoLookup checks that a video exists
type VideoLookup interface {
	GetByID(ctx context.Context, id string) (*videos.Video, error)
}

// SaveResult is returned by ToggleSave
type SaveResult struct {
	Saved bool `json:"saved"`
}

// Service defines the business logic interface for watch history, saved and downloaded videos
type Service interface {
	Watch(ctx context.Context, userID, videoID string) error
	ToggleSave(ctx context.Context, userID, videoID string) (*SaveResult, error)
	RecordDownload(ctx context.Context, userID, videoID string) error

	History(ctx context.Context, userID string) ([]*videos.Video, error)
	Saved(ctx context.Context, userID string) ([]*videos.Video, error)
	Downloads(ctx context.Context, userID string) ([]*videos.Video, error)
}
