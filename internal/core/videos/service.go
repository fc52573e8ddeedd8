// Package videos implements video metadata, the two view-count paths and the
// like/dislike toggle.
package videos

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rivo/uniseg"

	"Vidora/internal/core/blobs"
	"Vidora/internal/core/channels"
	"Vidora/internal/core/images"
	"Vidora/internal/core/media"
	"Vidora/internal/metrics"
)

// Pagination bounds for List
const (
	DefaultPageSize = 20
	MaxPageSize     = 100
)

// DefaultViewWindow suppresses repeat views from the same user for a day
const DefaultViewWindow = 24 * time.Hour

type videoService struct {
	repo       Repository
	channels   ChannelLookup
	store      blobs.Store
	images     images.Processor
	prober     media.Prober
	logger     *slog.Logger
	now        func() time.Time
	viewWindow time.Duration
}

// Option configures the service
type Option func(*videoService)

// WithClock overrides the time source
func WithClock(now func() time.Time) Option {
	return func(s *videoService) { s.now = now }
}

// WithViewWindow overrides the view dedup window
func WithViewWindow(window time.Duration) Option {
	return func(s *videoService) {
		if window > 0 {
			s.viewWindow = window
		}
	}
}

// NewService creates a new video service
func NewService(repo Repository, channelLookup ChannelLookup, store blobs.Store, processor images.Processor, prober media.Prober, logger *slog.Logger, opts ...Option) Service {
	if logger == nil {
		logger = slog.Default()
	}
	s := &videoService{
		repo:       repo,
		channels:   channelLookup,
		store:      store,
		images:     processor,
		prober:     prober,
		logger:     logger,
		now:        time.Now,
		viewWindow: DefaultViewWindow,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *videoService) Upload(ctx context.Context, userID string, req UploadRequest) (*Video, error) {
	channel, err := s.channels.GetByOwner(ctx, userID)
	if err != nil {
		if channels.IsNotFound(err) {
			return nil, ErrNoChannel
		}
		return nil, err
	}

	req.Title = strings.TrimSpace(req.Title)
	if req.Visibility == "" {
		req.Visibility = VisibilityPublic
	}
	if err := validateText(req.Title, req.Description, req.Visibility); err != nil {
		return nil, err
	}
	if req.VideoFile.Size() == 0 {
		return nil, ErrVideoFileRequired
	}
	req.Categories = normalizeList(req.Categories)
	if len(req.Categories) == 0 {
		return nil, ErrCategoryRequired
	}

	now := s.now()
	file := req.VideoFile

	duration := 0
	if s.prober != nil {
		d, err := s.prober.Duration(ctx, file.Data, file.Name)
		if err != nil {
			s.logger.Warn("failed to probe video duration", "channel_id", channel.ID, "file", file.Name, "error", err)
		} else {
			duration = d
		}
	}

	contentType := file.ContentType
	if contentType == "" {
		contentType = "video/mp4"
	}
	videoURL, err := s.store.Upload(ctx, blobs.ObjectKey(blobs.PrefixVideos, channel.ID, file.Name, now), file.Data, contentType)
	if err != nil {
		return nil, err
	}

	var thumbnailURL string
	if req.ThumbnailImage.Size() > 0 {
		thumbnailURL, err = s.uploadThumbnail(ctx, channel.ID, req.ThumbnailImage)
		if err != nil {
			return nil, err
		}
	}

	video := &Video{
		ID:          uuid.NewString(),
		ChannelID:   channel.ID,
		UploaderID:  userID,
		Title:       req.Title,
		Description: req.Description,
		Categories:  req.Categories,
		Tags:        normalizeList(req.Tags),
		Visibility:  req.Visibility,
		URLs: URLs{
			Original:    videoURL,
			Resolutions: map[string]string{},
		},
		ThumbnailURL:    thumbnailURL,
		DurationSeconds: duration,
		SizeMB:          SizeInMB(len(file.Data)),
		IsAgeRestricted: req.IsAgeRestricted,
		CreatedAt:       now,
		UpdatedAt:       now,
	}

	created, err := s.repo.Create(ctx, video)
	if err != nil {
		return nil, err
	}

	s.logger.Info("video uploaded",
		"video_id", created.ID,
		"channel_id", channel.ID,
		"size_mb", created.SizeMB,
		"duration", created.DurationSeconds)
	return created, nil
}

// List shows every visibility only when the viewer lists their own channel;
// other channels and the global feed are public-only.
func (s *videoService) List(ctx context.Context, viewerID string, req ListRequest) (*Page, error) {
	page := req.Page
	if page < 1 {
		page = 1
	}
	limit := req.Limit
	if limit < 1 {
		limit = DefaultPageSize
	}
	if limit > MaxPageSize {
		limit = MaxPageSize
	}

	filter := ListFilter{
		ChannelID: req.ChannelID,
		Category:  strings.TrimSpace(req.Category),
		Tag:       strings.TrimSpace(req.Tag),
		Limit:     limit,
		Offset:    (page - 1) * limit,
	}

	if req.ChannelID != "" && viewerID != "" {
		own, err := s.channels.GetByOwner(ctx, viewerID)
		switch {
		case err == nil:
			filter.IncludeNonPublic = own.ID == req.ChannelID
		case !channels.IsNotFound(err):
			return nil, err
		}
	}

	list, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	if list == nil {
		list = []*Video{}
	}

	return &Page{
		Page:        page,
		TotalPages:  int(math.Ceil(float64(total) / float64(limit))),
		TotalVideos: total,
		Videos:      list,
	}, nil
}

// Get applies the direct view path: every fetch that is neither an edit fetch
// nor made by the uploader adds a view, with no dedup window.
func (s *videoService) Get(ctx context.Context, viewerID, videoID string, edit bool) (*Video, error) {
	video, err := s.repo.GetByID(ctx, videoID)
	if err != nil {
		return nil, err
	}

	isOwner := video.IsOwnedBy(viewerID)
	if video.Visibility == VisibilityPrivate && !edit && !isOwner {
		return nil, ErrPrivateVideo
	}

	if !edit && !isOwner {
		views, err := s.repo.IncrementViews(ctx, video.ID)
		if err != nil {
			return nil, err
		}
		video.Views = views
		metrics.ViewsRecorded.WithLabelValues("direct", "counted").Inc()
	}

	return video, nil
}

func (s *videoService) Update(ctx context.Context, userID, videoID string, req UpdateRequest) (*Video, error) {
	video, err := s.repo.GetByID(ctx, videoID)
	if err != nil {
		return nil, err
	}
	if !video.IsOwnedBy(userID) {
		return nil, ErrNotUploader
	}

	if req.Title != nil {
		video.Title = strings.TrimSpace(*req.Title)
	}
	if req.Description != nil {
		video.Description = *req.Description
	}
	if req.Visibility != nil {
		video.Visibility = *req.Visibility
	}
	if req.IsAgeRestricted != nil {
		video.IsAgeRestricted = *req.IsAgeRestricted
	}
	if req.Tags != nil {
		video.Tags = normalizeList(*req.Tags)
	}
	if req.Categories != nil {
		categories := normalizeList(*req.Categories)
		if len(categories) == 0 {
			return nil, ErrCategoryRequired
		}
		video.Categories = categories
	}
	if err := validateText(video.Title, video.Description, video.Visibility); err != nil {
		return nil, err
	}

	if req.ThumbnailImage.Size() > 0 {
		thumbnailURL, err := s.uploadThumbnail(ctx, video.ChannelID, req.ThumbnailImage)
		if err != nil {
			return nil, err
		}
		video.ThumbnailURL = thumbnailURL
	}

	video.UpdatedAt = s.now()
	return s.repo.Update(ctx, video)
}

func (s *videoService) Delete(ctx context.Context, userID, videoID string) error {
	video, err := s.repo.GetByID(ctx, videoID)
	if err != nil {
		return err
	}
	if !video.IsOwnedBy(userID) {
		return ErrNotUploader
	}

	if err := s.repo.Delete(ctx, video.ID); err != nil {
		return err
	}

	s.logger.Info("video deleted", "video_id", video.ID, "channel_id", video.ChannelID, "user", userID)
	return nil
}

// RecordView is the deduplicated view path
func (s *videoService) RecordView(ctx context.Context, userID, videoID string) (*ViewResult, error) {
	now := s.now()
	result, err := s.repo.RecordView(ctx, userID, videoID, now.Add(-s.viewWindow), now)
	if err != nil {
		return nil, err
	}

	if result.Counted {
		metrics.ViewsRecorded.WithLabelValues("dedup", "counted").Inc()
	} else {
		metrics.ViewsRecorded.WithLabelValues("dedup", "suppressed").Inc()
	}
	return result, nil
}

func (s *videoService) ToggleLike(ctx context.Context, userID, videoID string) (*LikeResult, error) {
	state, err := s.toggle(ctx, userID, videoID, ReactionLike)
	if err != nil {
		return nil, err
	}
	return &LikeResult{Likes: state.Likes, Dislikes: state.Dislikes, Liked: state.Active}, nil
}

func (s *videoService) ToggleDislike(ctx context.Context, userID, videoID string) (*DislikeResult, error) {
	state, err := s.toggle(ctx, userID, videoID, ReactionDislike)
	if err != nil {
		return nil, err
	}
	return &DislikeResult{Likes: state.Likes, Dislikes: state.Dislikes, Disliked: state.Active}, nil
}

func (s *videoService) toggle(ctx context.Context, userID, videoID string, kind ReactionKind) (*ReactionState, error) {
	state, err := s.repo.ToggleReaction(ctx, userID, videoID, kind)
	if err != nil {
		return nil, err
	}

	metrics.ReactionToggles.WithLabelValues(string(kind), state.Action).Inc()
	s.logger.Debug("reaction toggled",
		"user", userID,
		"video_id", videoID,
		"kind", kind,
		"action", state.Action)
	return state, nil
}

func (s *videoService) uploadThumbnail(ctx context.Context, channelID string, file *blobs.File) (string, error) {
	data, err := s.images.Process(file.Data, images.Thumbnail)
	if err != nil {
		if images.IsValidationError(err) {
			return "", NewValidationError("thumbnailImage", err.Error())
		}
		return "", err
	}
	key := blobs.ObjectKey(blobs.PrefixThumbnails, channelID, images.JPEGName(file.Name), s.now())
	return s.store.Upload(ctx, key, data, images.ContentType)
}

func validateText(title, description string, visibility Visibility) error {
	if title == "" {
		return NewValidationError("title", "title is required")
	}
	if uniseg.GraphemeClusterCount(title) > MaxTitleGraphemes {
		return ErrTitleTooLong
	}
	if uniseg.GraphemeClusterCount(description) > MaxDescriptionGraphemes {
		return NewValidationError("description", fmt.Sprintf("description exceeds %d characters", MaxDescriptionGraphemes))
	}
	if !visibility.Valid() {
		return ErrInvalidVisibility
	}
	return nil
}

// SizeInMB converts a byte count to megabytes rounded to two decimals
func SizeInMB(n int) float64 {
	return math.Round(float64(n)/(1024*1024)*100) / 100
}

// SplitList splits a comma separated form value, dropping blanks
func SplitList(value string) []string {
	if strings.TrimSpace(value) == "" {
		return nil
	}
	return normalizeList(strings.Split(value, ","))
}

func normalizeList(items []string) []string {
	out := make([]string, 0, len(items))
	seen := make(map[string]struct{}, len(items))
	for _, item := range items {
		item = strings.TrimSpace(item)
		if item == "" {
			continue
		}
		if _, dup := seen[item]; dup {
			continue
		}
		seen[item] = struct{}{}
		out = append(out, item)
	}
	return out
}
