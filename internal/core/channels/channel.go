package channels

import (
	"time"

	"Vidora/internal/core/blobs"
)

// Channel is owned by exactly one user. TotalSubscribers mirrors the number of
// channel_subscriptions rows and is only changed in the same transaction.
type Channel struct {
	CreatedAt         time.Time   `json:"createdAt"`
	UpdatedAt         time.Time   `json:"updatedAt"`
	SocialLinks       SocialLinks `json:"socialLinks"`
	Tags              []string    `json:"tags"`
	ID                string      `json:"id"`
	OwnerID           string      `json:"ownerId"`
	Name              string      `json:"name"`
	Handle            string      `json:"handleChannelName"`
	Description       string      `json:"description"`
	ProfilePictureURL string      `json:"profilePictureUrl"`
	BannerURL         string      `json:"bannerUrl"`
	Location          string      `json:"location"`
	ChannelURL        string      `json:"channelUrl"`
	ContactEmail      string      `json:"contactEmail"`
	TotalViews        int64       `json:"totalViews"`
	TotalSubscribers  int         `json:"totalSubscribers"`
	IsVerified        bool        `json:"isVerified"`
	IsMonetized       bool        `json:"isMonetized"`
}

// SocialLinks is stored as a JSON document
type SocialLinks struct {
	Website   string `json:"website"`
	Instagram string `json:"instagram"`
	Twitter   string `json:"twitter"`
	Facebook  string `json:"facebook"`
	Other     string `json:"other"`
}

// PublicChannel is the projection served to anyone
type PublicChannel struct {
	SocialLinks       SocialLinks `json:"socialLinks"`
	Tags              []string    `json:"tags"`
	Videos            []string    `json:"videos"`
	ID                string      `json:"id"`
	Name              string      `json:"name"`
	Description       string      `json:"description"`
	ProfilePictureURL string      `json:"profilePictureUrl"`
	BannerURL         string      `json:"bannerUrl"`
	Handle            string      `json:"handleChannelName"`
	Location          string      `json:"location"`
	ContactEmail      string      `json:"contactEmail"`
	TotalViews        int64       `json:"totalViews"`
	TotalSubscribers  int         `json:"totalSubscribers"`
}

// VideoRef is the short form of a video listed under a channel
type VideoRef struct {
	ID           string `json:"id"`
	Title        string `json:"title"`
	ThumbnailURL string `json:"thumbnailUrl"`
}

// SubscribedChannel is an entry of the user's subscription list
type SubscribedChannel struct {
	Videos            []VideoRef `json:"videos"`
	ID                string     `json:"id"`
	Name              string     `json:"name"`
	Description       string     `json:"description"`
	ProfilePictureURL string     `json:"profilePictureUrl"`
	Handle            string     `json:"handleChannelName"`
	TotalSubscribers  int        `json:"totalSubscribers"`
}

// SubscriptionState is the result of subscribe and unsubscribe
type SubscriptionState struct {
	Subscribed       bool `json:"subscribed"`
	TotalSubscribers int  `json:"totalSubscribers"`
}

// CreateChannelRequest carries the create-channel form
type CreateChannelRequest struct {
	ProfileImage *blobs.File `json:"-"`
	Name         string      `json:"name" validate:"required,max=100"`
	Description  string      `json:"description" validate:"max=5000"`
}

// UpdateChannelRequest carries a partial update. Nil fields are left unchanged.
type UpdateChannelRequest struct {
	Name         *string      `json:"name" validate:"omitempty,max=100"`
	Description  *string      `json:"description" validate:"omitempty,max=5000"`
	Tags         *[]string    `json:"tags"`
	Location     *string      `json:"location" validate:"omitempty,max=100"`
	ContactEmail *string      `json:"contactEmail" validate:"omitempty,email"`
	SocialLinks  *SocialLinks `json:"socialLinks"`
	Handle       *string      `json:"handleChannelName"`
	ProfileImage *blobs.File  `json:"-"`
	BannerImage  *blobs.File  `json:"-"`
}

// Public returns the public projection of the channel with its video ids
func (c *Channel) Public(videoIDs []string) *PublicChannel {
	if videoIDs == nil {
		videoIDs = []string{}
	}
	tags := c.Tags
	if tags == nil {
		tags = []string{}
	}
	return &PublicChannel{
		ID:                c.ID,
		Name:              c.Name,
		Description:       c.Description,
		ProfilePictureURL: c.ProfilePictureURL,
		BannerURL:         c.BannerURL,
		Handle:            c.Handle,
		SocialLinks:       c.SocialLinks,
		TotalSubscribers:  c.TotalSubscribers,
		Videos:            videoIDs,
		TotalViews:        c.TotalViews,
		Location:          c.Location,
		ContactEmail:      c.ContactEmail,
		Tags:              tags,
	}
}
