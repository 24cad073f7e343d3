package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"postboard/internal/middleware"
	"postboard/internal/models"
	"postboard/internal/observability"

	"github.com/redis/go-redis/v9"
)

const (
	generationKey  = "posts:gen"
	allPostsKey    = "posts:all:%d"
	userPostsKey   = "posts:user:%d:%d"
	DefaultListTTL = 30 * time.Second
)

// Loader fetches a listing from the database on a cache miss.
type Loader func(ctx context.Context) ([]models.PostWithLikes, error)

// PostListings caches post listings under a generation counter. Bumping the
// generation orphans every cached listing at once; orphans expire by TTL.
// A nil *PostListings or one without a client passes every call through.
type PostListings struct {
	client *redis.Client
	ttl    time.Duration
}

// NewPostListings wraps client, which may be nil.
func NewPostListings(client *redis.Client, ttl time.Duration) *PostListings {
	if ttl <= 0 {
		ttl = DefaultListTTL
	}
	return &PostListings{client: client, ttl: ttl}
}

// Enabled reports whether a Redis client is configured.
func (p *PostListings) Enabled() bool {
	return p != nil && p.client != nil
}

// All returns every post, from cache when possible.
func (p *PostListings) All(ctx context.Context, load Loader) ([]models.PostWithLikes, error) {
	if !p.Enabled() {
		return load(ctx)
	}
	return p.aside(ctx, func(gen int64) string { return fmt.Sprintf(allPostsKey, gen) }, load)
}

// ByUser returns one user's posts, from cache when possible.
func (p *PostListings) ByUser(ctx context.Context, userID int64, load Loader) ([]models.PostWithLikes, error) {
	if !p.Enabled() {
		return load(ctx)
	}
	return p.aside(ctx, func(gen int64) string { return fmt.Sprintf(userPostsKey, userID, gen) }, load)
}

// Invalidate bumps the generation. Call it after a post or like mutation commits.
func (p *PostListings) Invalidate(ctx context.Context) {
	if !p.Enabled() {
		return
	}
	if err := p.client.Incr(ctx, generationKey).Err(); err != nil {
		middleware.Logger.WarnContext(ctx, "Failed to invalidate post listings", slog.String("error", err.Error()))
	}
}

func (p *PostListings) generation(ctx context.Context) (int64, error) {
	gen, err := p.client.Get(ctx, generationKey).Int64()
	if errors.Is(err, redis.Nil) {
		return 0, nil
	}
	return gen, err
}

// aside serves from cache and fills it on a miss. Redis failures degrade to
// a direct load and are never returned to the caller.
func (p *PostListings) aside(ctx context.Context, keyFor func(gen int64) string, load Loader) ([]models.PostWithLikes, error) {
	gen, err := p.generation(ctx)
	if err != nil {
		observability.CacheLookups.WithLabelValues("error").Inc()
		return load(ctx)
	}
	key := keyFor(gen)

	var cached []models.PostWithLikes
	hit, err := getJSON(ctx, p.client, key, &cached)
	switch {
	case err != nil:
		observability.CacheLookups.WithLabelValues("error").Inc()
	case hit:
		observability.CacheLookups.WithLabelValues("hit").Inc()
		return cached, nil
	default:
		observability.CacheLookups.WithLabelValues("miss").Inc()
	}

	posts, err := load(ctx)
	if err != nil {
		return nil, err
	}
	if err := setJSON(ctx, p.client, key, posts, p.ttl); err != nil {
		middleware.Logger.WarnContext(ctx, "Failed to cache post listing", slog.String("key", key), slog.String("error", err.Error()))
	}
	return posts, nil
}

func getJSON(ctx context.Context, client *redis.Client, key string, dest interface{}) (bool, error) {
	raw, err := client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	if err := json.Unmarshal(raw, dest); err != nil {
		return false, err
	}
	return true, nil
}

func setJSON(ctx context.Context, client *redis.Client, key string, value interface{}, ttl time.Duration) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	return client.Set(ctx, key, raw, ttl).Err()
}
