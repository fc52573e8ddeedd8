package videos

import (
	"time"

	"Vidora/internal/core/blobs"
)

// Visibility controls who can list and open a video
type Visibility string

const (
	VisibilityPublic   Visibility = "public"
	VisibilityPrivate  Visibility = "private"
	VisibilityUnlisted Visibility = "unlisted"
)

// Valid reports whether v is a known visibility
func (v Visibility) Valid() bool {
	switch v {
	case VisibilityPublic, VisibilityPrivate, VisibilityUnlisted:
		return true
	}
	return false
}

// ReactionKind is the kind of a user's reaction to a video
type ReactionKind string

const (
	ReactionLike    ReactionKind = "like"
	ReactionDislike ReactionKind = "dislike"
)

// Opposite returns the mutually exclusive kind
func (k ReactionKind) Opposite() ReactionKind {
	if k == ReactionLike {
		return ReactionDislike
	}
	return ReactionLike
}

// Limits on user-supplied text
const (
	MaxTitleGraphemes       = 100
	MaxDescriptionGraphemes = 5000
)

// Video is owned by one channel and one uploader. Likes, dislikes and comment
// counts mirror their relation tables and are only changed alongside them.
type Video struct {
	CreatedAt       time.Time        `json:"createdAt"`
	UpdatedAt       time.Time        `json:"updatedAt"`
	Channel         *ChannelSummary  `json:"channel,omitempty"`
	Uploader        *UploaderSummary `json:"uploader,omitempty"`
	URLs            URLs             `json:"videoUrls"`
	Categories      []string         `json:"categories"`
	Tags            []string         `json:"tags"`
	ID              string           `json:"id"`
	ChannelID       string           `json:"channelId"`
	UploaderID      string           `json:"uploaderId"`
	Title           string           `json:"title"`
	Description     string           `json:"description"`
	Visibility      Visibility       `json:"visibility"`
	ThumbnailURL    string           `json:"thumbnailUrl"`
	SizeMB          float64          `json:"sizeInMB"`
	Views           int64            `json:"views"`
	DurationSeconds int              `json:"duration"`
	Likes           int              `json:"likes"`
	Dislikes        int              `json:"dislikes"`
	CommentCount    int              `json:"commentCount"`
	IsMonetized     bool             `json:"isMonetized"`
	IsAgeRestricted bool             `json:"isAgeRestricted"`
}

// URLs holds the original upload and any transcoded renditions
type URLs struct {
	Resolutions map[string]string `json:"resolutions"`
	Original    string            `json:"original"`
}

// ChannelSummary is the channel attached to a video in responses
type ChannelSummary struct {
	ID                string `json:"id"`
	Name              string `json:"name"`
	ProfilePictureURL string `json:"profilePictureUrl"`
	Handle            string `json:"handleChannelName"`
}

// UploaderSummary is the uploader attached to a video in responses
type UploaderSummary struct {
	ID        string `json:"id"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
}

// IsOwnedBy reports whether userID uploaded the video
func (v *Video) IsOwnedBy(userID string) bool {
	return userID != "" && v.UploaderID == userID
}

// UploadRequest carries the upload form
type UploadRequest struct {
	VideoFile       *blobs.File `json:"-"`
	ThumbnailImage  *blobs.File `json:"-"`
	Categories      []string    `json:"categories"`
	Tags            []string    `json:"tags"`
	Title           string      `json:"title"`
	Description     string      `json:"description"`
	Visibility      Visibility  `json:"visibility"`
	IsAgeRestricted bool        `json:"isAgeRestricted"`
}

// UpdateRequest carries a partial update. Nil fields are left unchanged.
type UpdateRequest struct {
	Title           *string     `json:"title"`
	Description     *string     `json:"description"`
	Visibility      *Visibility `json:"visibility"`
	IsAgeRestricted *bool       `json:"isAgeRestricted"`
	Tags            *[]string   `json:"tags"`
	Categories      *[]string   `json:"categories"`
	ThumbnailImage  *blobs.File `json:"-"`
}

// ListRequest selects a page of videos
type ListRequest struct {
	ChannelID string
	Category  string
	Tag       string
	Page      int
	Limit     int
}

// ListFilter is the repository form of a list query
type ListFilter struct {
	ChannelID        string
	Category         string
	Tag              string
	IncludeNonPublic bool
	Limit            int
	Offset           int
}

// Page is a page of videos
type Page struct {
	Videos      []*Video `json:"videos"`
	Page        int      `json:"page"`
	TotalPages  int      `json:"totalPages"`
	TotalVideos int      `json:"totalVideos"`
}

// ViewResult is returned by RecordView
type ViewResult struct {
	Counted bool  `json:"counted"`
	Views   int64 `json:"views"`
}

// ReactionState is the repository result of a reaction toggle
type ReactionState struct {
	// Action is "added", "removed" or "switched"
	Action   string
	Likes    int
	Dislikes int
	Active   bool
}

// LikeResult is returned by ToggleLike
type LikeResult struct {
	Likes    int  `json:"likes"`
	Dislikes int  `json:"dislikes"`
	Liked    bool `json:"liked"`
}

// DislikeResult is returned by ToggleDislike
type DislikeResult struct {
	Likes    int  `json:"likes"`
	Dislikes int  `json:"dislikes"`
	Disliked bool `json:"disliked"`
}
