package comments

import (
	"context"

	"Vidora/internal/core/videos"
)

// Repository defines the data access interface for comments
type Repository interface {
	// CreateWithCount inserts the comment and increments the video's comment
	// count in one transaction. Returns videos.ErrVideoNotFound if the video is gone.
	CreateWithCount(ctx context.Context, comment *Comment) (*Comment, error)

	// GetByID returns the comment or ErrCommentNotFound
	GetByID(ctx context.Context, id string) (*Comment, error)

	// ListByVideo returns the video's comments oldest first with authors attached
	ListByVideo(ctx context.Context, videoID string) ([]*Comment, error)

	// DeleteWithCount removes the comment and decrements the video's comment count
	// (floored at zero) in one transaction
	DeleteWithCount(ctx context.Context, commentID, videoID string) error
}

// VideoLookup resolves the parent video of a comment
type VideoLookup interface {
	GetByID(ctx context.Context, id string) (*videos.Video, error)
}

// Service defines the business logic interface for comments
type Service interface {
	AddComment(ctx context.Context, userID, videoID, text string) (*Comment, error)
	ListComments(ctx context.Context, videoID string) ([]*Comment, error)

	// DeleteComment is allowed for the comment author or the video uploader
	DeleteComment(ctx context.Context, userID, videoID, commentID string) error
}
