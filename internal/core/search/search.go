// Package search finds a channel and videos by case-insensitive substring match.
package search

import (
	"context"
	"log/slog"
	"strings"

	"Vidora/internal/core/channels"
	"Vidora/internal/core/videos"
)

// MaxResults bounds each result list
const MaxResults = 50

// Result is the search payload. ChannelVideos is empty when no channel matched.
type Result struct {
	Channel       *channels.Channel `json:"channel"`
	ChannelVideos []*videos.Video   `json:"channelVideos"`
	Videos        []*videos.Video   `json:"videos"`
}

// Repository runs the search queries. pattern is a LIKE pattern already escaped
// with EscapeLike and wrapped in '%'.
type Repository interface {
	// FindChannel returns the first channel whose name or handle matches, or
	// channels.ErrChannelNotFound
	FindChannel(ctx context.Context, pattern string) (*channels.Channel, error)

	// ChannelVideos lists a channel's videos newest first
	ChannelVideos(ctx context.Context, channelID string, includeNonPublic bool, limit int) ([]*videos.Video, error)

	// FindVideos lists public videos whose title or a tag matches, newest first,
	// excluding excludeChannelID when set
	FindVideos(ctx context.Context, pattern, excludeChannelID string, limit int) ([]*videos.Video, error)
}

// ChannelLookup resolves the channel a user owns
type ChannelLookup interface {
	GetByOwner(ctx context.Context, userID string) (*channels.Channel, error)
}

// Service defines the search interface
type Service interface {
	// Search runs query for viewerID, which may be empty
	Search(ctx context.Context, viewerID, query string) (*Result, error)
}

type searchService struct {
	repo     Repository
	channels ChannelLookup
	logger   *slog.Logger
}

// NewService creates a new search service
func NewService(repo Repository, channelLookup ChannelLookup, logger *slog.Logger) Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &searchService{repo: repo, channels: channelLookup, logger: logger}
}

func (s *searchService) Search(ctx context.Context, viewerID, query string) (*Result, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, ErrEmptyQuery
	}
	pattern := "%" + EscapeLike(query) + "%"

	result := &Result{
		ChannelVideos: []*videos.Video{},
		Videos:        []*videos.Video{},
	}

	channel, err := s.repo.FindChannel(ctx, pattern)
	switch {
	case err == nil:
		result.Channel = channel
	case !channels.IsNotFound(err):
		return nil, err
	}

	excludeChannelID := ""
	if result.Channel != nil {
		excludeChannelID = result.Channel.ID

		own, err := s.isOwnChannel(ctx, viewerID, result.Channel.ID)
		if err != nil {
			return nil, err
		}
		list, err := s.repo.ChannelVideos(ctx, result.Channel.ID, own, MaxResults)
		if err != nil {
			return nil, err
		}
		if list != nil {
			result.ChannelVideos = list
		}
	}

	list, err := s.repo.FindVideos(ctx, pattern, excludeChannelID, MaxResults)
	if err != nil {
		return nil, err
	}
	if list != nil {
		result.Videos = list
	}

	if result.Channel == nil && len(result.Videos) == 0 {
		return nil, ErrNoResults
	}
	return result, nil
}

func (s *searchService) isOwnChannel(ctx context.Context, viewerID, channelID string) (bool, error) {
	if viewerID == "" {
		return false, nil
	}
	own, err := s.channels.GetByOwner(ctx, viewerID)
	if err != nil {
		if channels.IsNotFound(err) {
			return false, nil
		}
		return false, err
	}
	return own.ID == channelID, nil
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// EscapeLike escapes LIKE metacharacters so the query matches literally
func EscapeLike(s string) string {
	return likeEscaper.Replace(s)
}
