package channels

import "context"

// Repository defines the data access interface for channels and subscriptions
type Repository interface {
	// Create inserts a channel. Returns ErrChannelAlreadyExists, ErrNameTaken or ErrHandleTaken.
	Create(ctx context.Context, channel *Channel) (*Channel, error)

	GetByID(ctx context.Context, id string) (*Channel, error)
	GetByHandle(ctx context.Context, handle string) (*Channel, error)

	// GetByOwner returns the channel owned by userID, or ErrChannelNotFound
	GetByOwner(ctx context.Context, userID string) (*Channel, error)

	// Update persists every mutable field of channel
	Update(ctx context.Context, channel *Channel) (*Channel, error)

	// ListVideoIDs returns the ids of the channel's videos in upload order
	ListVideoIDs(ctx context.Context, channelID string) ([]string, error)

	// SubscribeWithCount inserts the subscription and increments the counter in one
	// transaction. changed is false when the subscription already existed.
	SubscribeWithCount(ctx context.Context, userID, channelID string) (state *SubscriptionState, changed bool, err error)

	// UnsubscribeWithCount deletes the subscription and decrements the counter (floored
	// at zero) in one transaction. changed is false when there was nothing to delete.
	UnsubscribeWithCount(ctx context.Context, userID, channelID string) (state *SubscriptionState, changed bool, err error)

	// ListSubscriptions returns the channels userID subscribes to, newest subscription first
	ListSubscriptions(ctx context.Context, userID string) ([]*SubscribedChannel, error)
}

// Service defines the business logic interface for channels
type Service interface {
	CreateChannel(ctx context.Context, ownerID string, req CreateChannelRequest) (*Channel, error)
	UpdateChannel(ctx context.Context, userID, channelID string, req UpdateChannelRequest) (*Channel, error)
	GetPublicChannel(ctx context.Context, identifier string) (*PublicChannel, error)
	GetByOwner(ctx context.Context, userID string) (*Channel, error)
	Subscribe(ctx context.Context, userID, channelID string) (*SubscriptionState, error)
	Unsubscribe(ctx context.Context, userID, channelID string) (*SubscriptionState, error)
	MySubscriptions(ctx context.Context, userID string) ([]*SubscribedChannel, error)
}
