// Package library implements the per-user watch history, saved and downloaded lists.
package library

import (
	"context"
	"log/slog"
	"time"

	"Vidora/internal/core/videos"
)

type libraryService struct {
	repo         Repository
	videos       VideoLookup
	logger       *slog.Logger
	now          func() time.Time
	historyLimit int
}

// NewService creates a library service. historyLimit caps the watch history
// length; 0 keeps every entry.
func NewService(repo Repository, videoLookup VideoLookup, historyLimit int, logger *slog.Logger) Service {
	if logger == nil {
		logger = slog.Default()
	}
	if historyLimit < 0 {
		historyLimit = 0
	}
	return &libraryService{
		repo:         repo,
		videos:       videoLookup,
		logger:       logger,
		now:          time.Now,
		historyLimit: historyLimit,
	}
}

func (s *libraryService) Watch(ctx context.Context, userID, videoID string) error {
	if _, err := s.videos.GetByID(ctx, videoID); err != nil {
		return err
	}
	return s.repo.RecordWatch(ctx, userID, videoID, s.now(), s.historyLimit)
}

func (s *libraryService) ToggleSave(ctx context.Context, userID, videoID string) (*SaveResult, error) {
	if _, err := s.videos.GetByID(ctx, videoID); err != nil {
		return nil, err
	}
	saved, err := s.repo.ToggleSaved(ctx, userID, videoID, s.now())
	if err != nil {
		return nil, err
	}
	s.logger.Debug("saved toggled", "user", userID, "video_id", videoID, "saved", saved)
	return &SaveResult{Saved: saved}, nil
}

func (s *libraryService) RecordDownload(ctx context.Context, userID, videoID string) error {
	if _, err := s.videos.GetByID(ctx, videoID); err != nil {
		return err
	}
	return s.repo.AddDownload(ctx, userID, videoID, s.now())
}

func (s *libraryService) History(ctx context.Context, userID string) ([]*videos.Video, error) {
	return nonNil(s.repo.ListHistory(ctx, userID))
}

func (s *libraryService) Saved(ctx context.Context, userID string) ([]*videos.Video, error) {
	return nonNil(s.repo.ListSaved(ctx, userID))
}

func (s *libraryService) Downloads(ctx context.Context, userID string) ([]*videos.Video, error) {
	return nonNil(s.repo.ListDownloads(ctx, userID))
}

func nonNil(list []*videos.Video, err error) ([]*videos.Video, error) {
	if err != nil {
		return nil, err
	}
	if list == nil {
		list = []*videos.Video{}
	}
	return list, nil
}
