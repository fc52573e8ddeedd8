package comments

import "time"

// Comment belongs to one video and one author
type Comment struct {
	CreatedAt time.Time      `json:"createdAt"`
	UpdatedAt time.Time      `json:"updatedAt"`
	Author    *AuthorSummary `json:"author,omitempty"`
	ID        string         `json:"id"`
	VideoID   string         `json:"videoId"`
	AuthorID  string         `json:"authorId"`
	Content   string         `json:"content"`
}

// AuthorSummary is the author attached to a listed comment
type AuthorSummary struct {
	ID                string `json:"id"`
	FirstName         string `json:"firstName"`
	LastName          string `json:"lastName"`
	ProfilePictureURL string `json:"profilePictureUrl"`
}
