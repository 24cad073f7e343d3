package cache

import (
	"context"
	"errors"
	"testing"
	"time"

	"postboard/internal/models"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupListings(t *testing.T) (*PostListings, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewPostListings(client, time.Minute), mr
}

type countingLoader struct {
	calls int
	posts []models.PostWithLikes
	err   error
}

func (l *countingLoader) load(ctx context.Context) ([]models.PostWithLikes, error) {
	l.calls++
	return l.posts, l.err
}

func TestPostListings_CachesUntilInvalidated(t *testing.T) {
	listings, _ := setupListings(t)
	ctx := context.Background()
	loader := &countingLoader{posts: []models.PostWithLikes{{ID: 1, Content: "hi", UserID: 7, TotalLikes: 2}}}

	got, err := listings.All(ctx, loader.load)
	require.NoError(t, err)
	assert.Equal(t, loader.posts, got)

	got, err = listings.All(ctx, loader.load)
	require.NoError(t, err)
	assert.Equal(t, loader.posts, got)
	assert.Equal(t, 1, loader.calls, "second read is served from cache")

	listings.Invalidate(ctx)
	loader.posts = []models.PostWithLikes{{ID: 1, Content: "hi", UserID: 7, TotalLikes: 3}}

	got, err = listings.All(ctx, loader.load)
	require.NoError(t, err)
	assert.Equal(t, int64(3), got[0].TotalLikes)
	assert.Equal(t, 2, loader.calls)
}

func TestPostListings_ByUserKeysAreSeparate(t *testing.T) {
	listings, mr := setupListings(t)
	ctx := context.Background()

	a := &countingLoader{posts: []models.PostWithLikes{{ID: 1, UserID: 1}}}
	b := &countingLoader{posts: []models.PostWithLikes{{ID: 2, UserID: 2}}}

	_, err := listings.ByUser(ctx, 1, a.load)
	require.NoError(t, err)
	got, err := listings.ByUser(ctx, 2, b.load)
	require.NoError(t, err)
	assert.Equal(t, int64(2), got[0].ID)

	assert.True(t, mr.Exists("posts:user:1:0"))
	assert.True(t, mr.Exists("posts:user:2:0"))

	listings.Invalidate(ctx)
	gen, err := mr.Get("posts:gen")
	require.NoError(t, err)
	assert.Equal(t, "1", gen)
}

func TestPostListings_EmptyListIsCached(t *testing.T) {
	listings, _ := setupListings(t)
	ctx := context.Background()
	loader := &countingLoader{posts: []models.PostWithLikes{}}

	for i := 0; i < 2; i++ {
		got, err := listings.ByUser(ctx, 9, loader.load)
		require.NoError(t, err)
		assert.Empty(t, got)
	}
	assert.Equal(t, 1, loader.calls)
}

func TestPostListings_LoaderErrorIsNotCached(t *testing.T) {
	listings, mr := setupListings(t)
	ctx := context.Background()
	loader := &countingLoader{err: errors.New("db down")}

	_, err := listings.All(ctx, loader.load)
	assert.EqualError(t, err, "db down")
	assert.False(t, mr.Exists("posts:all:0"))
}

func TestPostListings_RedisFailureFallsBackToLoader(t *testing.T) {
	listings, mr := setupListings(t)
	ctx := context.Background()
	loader := &countingLoader{posts: []models.PostWithLikes{{ID: 1}}}

	mr.Close()

	got, err := listings.All(ctx, loader.load)
	require.NoError(t, err)
	assert.Equal(t, loader.posts, got)
	listings.Invalidate(ctx)
}

func TestPostListings_Disabled(t *testing.T) {
	ctx := context.Background()
	loader := &countingLoader{posts: []models.PostWithLikes{{ID: 1}}}

	var nilListings *PostListings
	for _, l := range []*PostListings{nilListings, NewPostListings(nil, 0)} {
		assert.False(t, l.Enabled())
		_, err := l.All(ctx, loader.load)
		require.NoError(t, err)
		_, err = l.ByUser(ctx, 1, loader.load)
		require.NoError(t, err)
		l.Invalidate(ctx)
	}
	assert.Equal(t, 4, loader.calls)
}

func TestNewClient(t *testing.T) {
	assert.Nil(t, NewClient(""))
	assert.Nil(t, NewClient("redis://%zz"))

	mr := miniredis.RunT(t)
	client := NewClient(mr.Addr())
	require.NotNil(t, client)
	_ = client.Close()

	client = NewClient("redis://" + mr.Addr() + "/0")
	require.NotNil(t, client)
	_ = client.Close()
}
