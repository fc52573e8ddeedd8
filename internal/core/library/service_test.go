package library

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"Vidora/internal/core/videos"
)

// fakeRepo keeps ordered id slices per user, front = most recent
type fakeRepo struct {
	history   map[string][]string
	saved     map[string][]string
	downloads map[string][]string
	vids      fakeVideos
	mu        sync.Mutex
}

func newFakeRepo(vids fakeVideos) *fakeRepo {
	return &fakeRepo{
		history:   make(map[string][]string),
		saved:     make(map[string][]string),
		downloads: make(map[string][]string),
		vids:      vids,
	}
}

func without(list []string, id string) []string {
	out := make([]string, 0, len(list))
	for _, item := range list {
		if item != id {
			out = append(out, item)
		}
	}
	return out
}

func (r *fakeRepo) RecordWatch(ctx context.Context, userID, videoID string, at time.Time, limit int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	list := append([]string{videoID}, without(r.history[userID], videoID)...)
	if limit > 0 && len(list) > limit {
		list = list[:limit]
	}
	r.history[userID] = list
	return nil
}

func (r *fakeRepo) ToggleSaved(ctx context.Context, userID, videoID string, at time.Time) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	before := len(r.saved[userID])
	r.saved[userID] = without(r.saved[userID], videoID)
	if len(r.saved[userID]) < before {
		return false, nil
	}
	r.saved[userID] = append([]string{videoID}, r.saved[userID]...)
	return true, nil
}

func (r *fakeRepo) AddDownload(ctx context.Context, userID, videoID string, at time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.downloads[userID] = append([]string{videoID}, without(r.downloads[userID], videoID)...)
	return nil
}

func (r *fakeRepo) resolve(ids []string) []*videos.Video {
	var out []*videos.Video
	for _, id := range ids {
		out = append(out, r.vids[id])
	}
	return out
}

func (r *fakeRepo) ListHistory(ctx context.Context, userID string) ([]*videos.Video, error) {
	return r.resolve(r.history[userID]), nil
}

func (r *fakeRepo) ListSaved(ctx context.Context, userID string) ([]*videos.Video, error) {
	return r.resolve(r.saved[userID]), nil
}

func (r *fakeRepo) ListDownloads(ctx context.Context, userID string) ([]*videos.Video, error) {
	return r.resolve(r.downloads[userID]), nil
}

type fakeVideos map[string]*videos.Video

func (f fakeVideos) GetByID(ctx context.Context, id string) (*videos.Video, error) {
	if v, ok := f[id]; ok {
		return v, nil
	}
	return nil, videos.ErrVideoNotFound
}

func newTestService(limit int) (Service, *fakeRepo) {
	vids := fakeVideos{
		"A": {ID: "A", Title: "a"},
		"B": {ID: "B", Title: "b"},
		"C": {ID: "C", Title: "c"},
	}
	repo := newFakeRepo(vids)
	return NewService(repo, vids, limit, nil), repo
}

func ids(list []*videos.Video) []string {
	out := make([]string, 0, len(list))
	for _, v := range list {
		out = append(out, v.ID)
	}
	return out
}

func TestWatch_MoveToFront(t *testing.T) {
	svc, _ := newTestService(0)
	ctx := context.Background()

	for _, id := range []string{"A", "B", "A"} {
		require.NoError(t, svc.Watch(ctx, "u", id))
	}

	history, err := svc.History(ctx, "u")
	require.NoError(t, err)
	assert.Equal(t, []string{"A", "B"}, ids(history))
}

func TestWatch_HistoryLimit(t *testing.T) {
	svc, _ := newTestService(2)
	ctx := context.Background()

	for _, id := range []string{"A", "B", "C"} {
		require.NoError(t, svc.Watch(ctx, "u", id))
	}

	history, err := svc.History(ctx, "u")
	require.NoError(t, err)
	assert.Equal(t, []string{"C", "B"}, ids(history))
}

func TestWatch_UnknownVideo(t *testing.T) {
	svc, _ := newTestService(0)

	err := svc.Watch(context.Background(), "u", "missing")
	assert.True(t, videos.IsNotFound(err))
}

func TestToggleSave(t *testing.T) {
	svc, _ := newTestService(0)
	ctx := context.Background()

	res, err := svc.ToggleSave(ctx, "u", "A")
	require.NoError(t, err)
	assert.True(t, res.Saved)

	saved, err := svc.Saved(ctx, "u")
	require.NoError(t, err)
	assert.Equal(t, []string{"A"}, ids(saved))

	res, err = svc.ToggleSave(ctx, "u", "A")
	require.NoError(t, err)
	assert.False(t, res.Saved)

	saved, err = svc.Saved(ctx, "u")
	require.NoError(t, err)
	assert.NotNil(t, saved)
	assert.Empty(t, saved)

	_, err = svc.ToggleSave(ctx, "u", "missing")
	assert.True(t, videos.IsNotFound(err))
}

func TestRecordDownload_SetSemantics(t *testing.T) {
	svc, _ := newTestService(0)
	ctx := context.Background()

	require.NoError(t, svc.RecordDownload(ctx, "u", "A"))
	require.NoError(t, svc.RecordDownload(ctx, "u", "A"))
	require.NoError(t, svc.RecordDownload(ctx, "u", "B"))

	downloads, err := svc.Downloads(ctx, "u")
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"A", "B"}, ids(downloads))

	err = svc.RecordDownload(ctx, "u", "missing")
	assert.True(t, videos.IsNotFound(err))
}

func TestLists_EmptyAreNotNil(t *testing.T) {
	svc, _ := newTestService(0)
	ctx := context.Background()

	for _, list := range []func(context.Context, string) ([]*videos.Video, error){svc.History, svc.Saved, svc.Downloads} {
		got, err := list(ctx, "nobody")
		require.NoError(t, err)
		assert.NotNil(t, got)
		assert.Empty(t, got)
	}
}
