// Package channels implements channel ownership, the public channel page and
// the subscribe/unsubscribe toggle.
package channels

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/gosimple/slug"

	"Vidora/internal/core/blobs"
	"Vidora/internal/core/images"
	"Vidora/internal/metrics"
	"Vidora/internal/validation"
)

const maxHandleLength = 64

type channelService struct {
	repo   Repository
	store  blobs.Store
	images images.Processor
	logger *slog.Logger
	now    func() time.Time
}

// NewService creates a new channel service
func NewService(repo Repository, store blobs.Store, processor images.Processor, logger *slog.Logger) Service {
	return NewServiceWithClock(repo, store, processor, logger, time.Now)
}

// NewServiceWithClock creates a channel service with a custom time source
func NewServiceWithClock(repo Repository, store blobs.Store, processor images.Processor, logger *slog.Logger, now func() time.Time) Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &channelService{
		repo:   repo,
		store:  store,
		images: processor,
		logger: logger,
		now:    now,
	}
}

func (s *channelService) CreateChannel(ctx context.Context, ownerID string, req CreateChannelRequest) (*Channel, error) {
	req.Name = strings.TrimSpace(req.Name)
	if err := validation.Struct(req); err != nil {
		return nil, err
	}

	if _, err := s.repo.GetByOwner(ctx, ownerID); err == nil {
		return nil, ErrChannelAlreadyExists
	} else if !IsNotFound(err) {
		return nil, err
	}

	handle, err := NewHandle(req.Name)
	if err != nil {
		return nil, fmt.Errorf("failed to generate handle: %w", err)
	}

	now := s.now()
	channel := &Channel{
		ID:          uuid.NewString(),
		OwnerID:     ownerID,
		Name:        req.Name,
		Handle:      handle,
		Description: req.Description,
		Location:    "India",
		Tags:        []string{},
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if req.ProfileImage.Size() > 0 {
		url, err := s.uploadImage(ctx, blobs.PrefixChannelPictures, ownerID, "profileImage", req.ProfileImage, images.ProfilePicture)
		if err != nil {
			return nil, err
		}
		channel.ProfilePictureURL = url
	}

	created, err := s.repo.Create(ctx, channel)
	if err != nil {
		return nil, err
	}

	s.logger.Info("channel created", "channel_id", created.ID, "owner", ownerID, "handle", created.Handle)
	return created, nil
}

func (s *channelService) UpdateChannel(ctx context.Context, userID, channelID string, req UpdateChannelRequest) (*Channel, error) {
	channel, err := s.repo.GetByID(ctx, channelID)
	if err != nil {
		return nil, err
	}
	if channel.OwnerID != userID {
		return nil, ErrUnauthorized
	}

	if err := validation.Struct(req); err != nil {
		return nil, err
	}

	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" {
			return nil, NewValidationError("name", "name cannot be empty")
		}
		channel.Name = name
	}
	if req.Description != nil {
		channel.Description = *req.Description
	}
	if req.Tags != nil {
		channel.Tags = normalizeTags(*req.Tags)
	}
	if req.Location != nil {
		channel.Location = strings.TrimSpace(*req.Location)
	}
	if req.ContactEmail != nil {
		channel.ContactEmail = strings.TrimSpace(*req.ContactEmail)
	}
	if req.SocialLinks != nil {
		channel.SocialLinks = *req.SocialLinks
	}
	if req.Handle != nil && *req.Handle != channel.Handle {
		handle := strings.TrimSpace(*req.Handle)
		if err := ValidateHandle(handle); err != nil {
			return nil, err
		}
		existing, err := s.repo.GetByHandle(ctx, handle)
		switch {
		case err == nil && existing.ID != channel.ID:
			return nil, ErrHandleTaken
		case err != nil && !IsNotFound(err):
			return nil, err
		}
		channel.Handle = handle
	}

	if req.ProfileImage.Size() > 0 {
		url, err := s.uploadImage(ctx, blobs.PrefixChannelPictures, userID, "profileImage", req.ProfileImage, images.ProfilePicture)
		if err != nil {
			return nil, err
		}
		channel.ProfilePictureURL = url
	}
	if req.BannerImage.Size() > 0 {
		url, err := s.uploadImage(ctx, blobs.PrefixChannelBanners, userID, "bannerImage", req.BannerImage, images.Banner)
		if err != nil {
			return nil, err
		}
		channel.BannerURL = url
	}

	channel.UpdatedAt = s.now()
	return s.repo.Update(ctx, channel)
}

// GetPublicChannel resolves identifier as a channel id first, then as a handle
func (s *channelService) GetPublicChannel(ctx context.Context, identifier string) (*PublicChannel, error) {
	identifier = strings.TrimSpace(identifier)
	if identifier == "" {
		return nil, ErrChannelNotFound
	}

	var channel *Channel
	var err error
	if _, parseErr := uuid.Parse(identifier); parseErr == nil {
		channel, err = s.repo.GetByID(ctx, identifier)
	} else {
		channel, err = s.repo.GetByHandle(ctx, strings.ToLower(identifier))
	}
	if err != nil {
		return nil, err
	}

	videoIDs, err := s.repo.ListVideoIDs(ctx, channel.ID)
	if err != nil {
		return nil, err
	}

	return channel.Public(videoIDs), nil
}

func (s *channelService) GetByOwner(ctx context.Context, userID string) (*Channel, error) {
	return s.repo.GetByOwner(ctx, userID)
}

// Subscribe is idempotent: subscribing twice returns the current state unchanged
func (s *channelService) Subscribe(ctx context.Context, userID, channelID string) (*SubscriptionState, error) {
	channel, err := s.repo.GetByID(ctx, channelID)
	if err != nil {
		return nil, err
	}
	if channel.OwnerID == userID {
		return nil, ErrCannotSubscribeOwnChannel
	}

	state, changed, err := s.repo.SubscribeWithCount(ctx, userID, channelID)
	if err != nil {
		return nil, err
	}

	metrics.SubscriptionChanges.WithLabelValues("subscribe", metrics.ChangedLabel(changed)).Inc()
	if changed {
		s.logger.Info("subscribed", "user", userID, "channel_id", channelID, "total", state.TotalSubscribers)
	}
	return state, nil
}

// Unsubscribe is idempotent: unsubscribing when not subscribed never decrements
func (s *channelService) Unsubscribe(ctx context.Context, userID, channelID string) (*SubscriptionState, error) {
	if _, err := s.repo.GetByID(ctx, channelID); err != nil {
		return nil, err
	}

	state, changed, err := s.repo.UnsubscribeWithCount(ctx, userID, channelID)
	if err != nil {
		return nil, err
	}

	metrics.SubscriptionChanges.WithLabelValues("unsubscribe", metrics.ChangedLabel(changed)).Inc()
	if changed {
		s.logger.Info("unsubscribed", "user", userID, "channel_id", channelID, "total", state.TotalSubscribers)
	}
	return state, nil
}

func (s *channelService) MySubscriptions(ctx context.Context, userID string) ([]*SubscribedChannel, error) {
	subs, err := s.repo.ListSubscriptions(ctx, userID)
	if err != nil {
		return nil, err
	}
	if subs == nil {
		subs = []*SubscribedChannel{}
	}
	return subs, nil
}

func (s *channelService) uploadImage(ctx context.Context, prefix, ownerID, field string, file *blobs.File, preset images.Preset) (string, error) {
	data, err := s.images.Process(file.Data, preset)
	if err != nil {
		if images.IsValidationError(err) {
			return "", NewValidationError(field, err.Error())
		}
		return "", err
	}
	key := blobs.ObjectKey(prefix, ownerID, images.JPEGName(file.Name), s.now())
	return s.store.Upload(ctx, key, data, images.ContentType)
}

// NewHandle derives "<slug(name)>-<6 hex chars>"
func NewHandle(name string) (string, error) {
	base := slug.Make(name)
	if base == "" {
		base = "channel"
	}
	if len(base) > maxHandleLength-7 {
		base = strings.TrimRight(base[:maxHandleLength-7], "-")
	}

	suffix := make([]byte, 3)
	if _, err := rand.Read(suffix); err != nil {
		return "", err
	}
	return base + "-" + hex.EncodeToString(suffix), nil
}

// ValidateHandle accepts lowercase slugs of at most 64 characters
func ValidateHandle(handle string) error {
	if handle == "" || len(handle) > maxHandleLength || !slug.IsSlug(handle) {
		return ErrInvalidHandle
	}
	if _, err := uuid.Parse(handle); err == nil {
		return ErrInvalidHandle
	}
	return nil
}

func normalizeTags(tags []string) []string {
	out := make([]string, 0, len(tags))
	seen := make(map[string]struct{}, len(tags))
	for _, t := range tags {
		t = strings.TrimSpace(t)
		if t == "" {
			continue
		}
		if _, dup := seen[t]; dup {
			continue
		}
		seen[t] = struct{}{}
		out = append(out, t)
	}
	return out
}
