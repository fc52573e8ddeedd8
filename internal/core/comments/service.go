// Package comments implements the comment lifecycle of a video.
package comments

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rivo/uniseg"
)

const maxCommentGraphemes = 10000

type commentService struct {
	repo   Repository
	videos VideoLookup
	logger *slog.Logger
	now    func() time.Time
}

// NewService creates a new comment service
func NewService(repo Repository, videoLookup VideoLookup, logger *slog.Logger) Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &commentService{
		repo:   repo,
		videos: videoLookup,
		logger: logger,
		now:    time.Now,
	}
}

func (s *commentService) AddComment(ctx context.Context, userID, videoID, text string) (*Comment, error) {
	content := strings.TrimSpace(text)
	if content == "" {
		return nil, ErrContentEmpty
	}
	if uniseg.GraphemeClusterCount(content) > maxCommentGraphemes {
		return nil, ErrContentTooLong
	}

	if _, err := s.videos.GetByID(ctx, videoID); err != nil {
		return nil, err
	}

	now := s.now()
	created, err := s.repo.CreateWithCount(ctx, &Comment{
		ID:        uuid.NewString(),
		VideoID:   videoID,
		AuthorID:  userID,
		Content:   content,
		CreatedAt: now,
		UpdatedAt: now,
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("comment added", "comment_id", created.ID, "video_id", videoID, "author", userID)
	return created, nil
}

func (s *commentService) ListComments(ctx context.Context, videoID string) ([]*Comment, error) {
	if _, err := s.videos.GetByID(ctx, videoID); err != nil {
		return nil, err
	}

	list, err := s.repo.ListByVideo(ctx, videoID)
	if err != nil {
		return nil, err
	}
	if list == nil {
		list = []*Comment{}
	}
	return list, nil
}

func (s *commentService) DeleteComment(ctx context.Context, userID, videoID, commentID string) error {
	video, err := s.videos.GetByID(ctx, videoID)
	if err != nil {
		return err
	}

	comment, err := s.repo.GetByID(ctx, commentID)
	if err != nil {
		return err
	}
	if comment.VideoID != video.ID {
		return ErrCommentNotFound
	}

	if comment.AuthorID != userID && !video.IsOwnedBy(userID) {
		return ErrNotAuthorized
	}

	if err := s.repo.DeleteWithCount(ctx, comment.ID, video.ID); err != nil {
		return err
	}

	s.logger.Info("comment deleted",
		"comment_id", comment.ID,
		"video_id", video.ID,
		"by", userID,
		"author", comment.AuthorID)
	return nil
}
