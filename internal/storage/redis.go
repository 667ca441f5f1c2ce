package storage

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"imagescraper/internal/domain"
)

// ImageCache is a short-TTL byte cache in front of the image proxy, so a
// page full of repeated thumbnails doesn't hit the remote host once per
// render. It is a render cache, not a catalog: entries expire on their own
// and nothing else reads them.
type ImageCache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewImageCache(addr string, ttl time.Duration) *ImageCache {
	rdb := redis.NewClient(&redis.Options{Addr: addr})
	return &ImageCache{client: rdb, ttl: ttl}
}

func (c *ImageCache) Ping(ctx context.Context) error {
	return c.client.Ping(ctx).Err()
}

// Get returns the cached result for url, or nil on a miss.
func (c *ImageCache) Get(ctx context.Context, url string) (*domain.FetchResult, error) {
	fields, err := c.client.HGetAll(ctx, cacheKey(url)).Result()
	if err != nil {
		return nil, err
	}
	if len(fields) == 0 {
		return nil, nil
	}
	return &domain.FetchResult{
		Body:        []byte(fields["body"]),
		ContentType: fields["content_type"],
		SourceURL:   url,
	}, nil
}

// Put stores res under its source URL with the configured TTL.
func (c *ImageCache) Put(ctx context.Context, res *domain.FetchResult) error {
	key := cacheKey(res.SourceURL)
	if err := c.client.HSet(ctx, key,
		"body", res.Body,
		"content_type", res.ContentType,
	).Err(); err != nil {
		return err
	}
	return c.client.Expire(ctx, key, c.ttl).Err()
}

// cacheKey hashes the URL so arbitrary remote URLs make safe, fixed-size
// Redis keys.
func cacheKey(url string) string {
	h := sha256.Sum256([]byte(url))
	return fmt.Sprintf("imgcache:%s", hex.EncodeToString(h[:]))
}
