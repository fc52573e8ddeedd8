package comments

import (
	"context"
	"sort"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"Vidora/internal/core/videos"
)

type fakeRepo struct {
	comments map[string]*Comment
	counts   map[string]int
	mu       sync.Mutex
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{comments: make(map[string]*Comment), counts: make(map[string]int)}
}

func (r *fakeRepo) CreateWithCount(ctx context.Context, c *Comment) (*Comment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	copied := *c
	r.comments[c.ID] = &copied
	r.counts[c.VideoID]++
	return &copied, nil
}

func (r *fakeRepo) GetByID(ctx context.Context, id string) (*Comment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if c, ok := r.comments[id]; ok {
		return c, nil
	}
	return nil, ErrCommentNotFound
}

func (r *fakeRepo) ListByVideo(ctx context.Context, videoID string) ([]*Comment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*Comment
	for _, c := range r.comments {
		if c.VideoID == videoID {
			out = append(out, c)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

func (r *fakeRepo) DeleteWithCount(ctx context.Context, commentID, videoID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.comments[commentID]; !ok {
		return ErrCommentNotFound
	}
	delete(r.comments, commentID)
	if r.counts[videoID] > 0 {
		r.counts[videoID]--
	}
	return nil
}

type fakeVideos map[string]*videos.Video

func (f fakeVideos) GetByID(ctx context.Context, id string) (*videos.Video, error) {
	if v, ok := f[id]; ok {
		return v, nil
	}
	return nil, videos.ErrVideoNotFound
}

const (
	uploader  = "uploader"
	author    = "author"
	bystander = "bystander"
)

func newTestService() (Service, *fakeRepo) {
	repo := newFakeRepo()
	vids := fakeVideos{
		"video-1": {ID: "video-1", UploaderID: uploader},
		"video-2": {ID: "video-2", UploaderID: uploader},
	}
	return NewService(repo, vids, nil), repo
}

func TestAddComment(t *testing.T) {
	svc, repo := newTestService()

	c, err := svc.AddComment(context.Background(), author, "video-1", "  great video  ")
	require.NoError(t, err)

	assert.Equal(t, "great video", c.Content)
	assert.Equal(t, author, c.AuthorID)
	assert.Equal(t, "video-1", c.VideoID)
	assert.NotEmpty(t, c.ID)
	assert.Equal(t, 1, repo.counts["video-1"])
}

func TestAddComment_Validation(t *testing.T) {
	svc, _ := newTestService()

	_, err := svc.AddComment(context.Background(), author, "video-1", "   ")
	assert.ErrorIs(t, err, ErrContentEmpty)

	// 10001 flag emojis: 10001 graphemes, 20002 runes
	long := strings.Repeat("🇺🇸", maxCommentGraphemes+1)
	_, err = svc.AddComment(context.Background(), author, "video-1", long)
	assert.ErrorIs(t, err, ErrContentTooLong)

	exact := strings.Repeat("🇺🇸", maxCommentGraphemes)
	_, err = svc.AddComment(context.Background(), author, "video-1", exact)
	assert.NoError(t, err)

	_, err = svc.AddComment(context.Background(), author, "missing", "hi")
	assert.True(t, videos.IsNotFound(err))
}

func TestListComments(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	empty, err := svc.ListComments(ctx, "video-1")
	require.NoError(t, err)
	assert.NotNil(t, empty)

	_, err = svc.AddComment(ctx, author, "video-1", "one")
	require.NoError(t, err)
	_, err = svc.AddComment(ctx, author, "video-2", "elsewhere")
	require.NoError(t, err)

	list, err := svc.ListComments(ctx, "video-1")
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "one", list[0].Content)

	_, err = svc.ListComments(ctx, "missing")
	assert.True(t, videos.IsNotFound(err))
}

func TestDeleteComment_AuthorizationPaths(t *testing.T) {
	tests := []struct {
		name    string
		actor   string
		wantErr error
	}{
		{"author may delete", author, nil},
		{"video uploader may delete", uploader, nil},
		{"anyone else is forbidden", bystander, ErrNotAuthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, repo := newTestService()
			ctx := context.Background()

			c, err := svc.AddComment(ctx, author, "video-1", "hello")
			require.NoError(t, err)

			err = svc.DeleteComment(ctx, tt.actor, "video-1", c.ID)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Equal(t, 1, repo.counts["video-1"])
				return
			}
			require.NoError(t, err)
			assert.Equal(t, 0, repo.counts["video-1"])

			_, err = repo.GetByID(ctx, c.ID)
			assert.True(t, IsNotFound(err), "comment no longer resolves")
		})
	}
}

func TestDeleteComment_MustBelongToVideo(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	c, err := svc.AddComment(ctx, author, "video-1", "hello")
	require.NoError(t, err)

	err = svc.DeleteComment(ctx, author, "video-2", c.ID)
	assert.ErrorIs(t, err, ErrCommentNotFound)

	err = svc.DeleteComment(ctx, author, "video-1", "missing")
	assert.True(t, IsNotFound(err))

	err = svc.DeleteComment(ctx, author, "missing", c.ID)
	assert.True(t, videos.IsNotFound(err))
}
