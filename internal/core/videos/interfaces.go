package videos

import (
	"context"
	"time"

	"Vidora/internal/core/channels"
)

// Repository defines the data access interface for videos and their engagement counters
type Repository interface {
	Create(ctx context.Context, video *Video) (*Video, error)

	// GetByID returns the video with channel and uploader summaries, or ErrVideoNotFound
	GetByID(ctx context.Context, id string) (*Video, error)

	// List returns one page of videos (newest first) and the total matching count
	List(ctx context.Context, filter ListFilter) ([]*Video, int, error)

	Update(ctx context.Context, video *Video) (*Video, error)

	// Delete removes the video; comments, views, reactions and library rows cascade
	Delete(ctx context.Context, id string) error

	// IncrementViews adds one view with no dedup window and returns the new count
	IncrementViews(ctx context.Context, videoID string) (int64, error)

	// RecordView counts a view for userID unless one was recorded at or after since.
	// The window check, the view row and the increment happen in one transaction
	// holding the video row lock.
	RecordView(ctx context.Context, userID, videoID string, since, at time.Time) (*ViewResult, error)

	// ToggleReaction applies the like/dislike toggle for userID and returns the
	// post-mutation counts
	ToggleReaction(ctx context.Context, userID, videoID string, kind ReactionKind) (*ReactionState, error)
}

// ChannelLookup resolves the channel a user owns
type ChannelLookup interface {
	GetByOwner(ctx context.Context, userID string) (*channels.Channel, error)
}

// Service defines the business logic interface for videos
type Service interface {
	Upload(ctx context.Context, userID string, req UploadRequest) (*Video, error)
	List(ctx context.Context, viewerID string, req ListRequest) (*Page, error)

	// Get returns a video for playback or editing. viewerID may be empty.
	Get(ctx context.Context, viewerID, videoID string, edit bool) (*Video, error)

	Update(ctx context.Context, userID, videoID string, req UpdateRequest) (*Video, error)
	Delete(ctx context.Context, userID, videoID string) error

	RecordView(ctx context.Context, userID, videoID string) (*ViewResult, error)
	ToggleLike(ctx context.Context, userID, videoID string) (*LikeResult, error)
	ToggleDislike(ctx context.Context, userID, videoID string) (*DislikeResult, error)
}
