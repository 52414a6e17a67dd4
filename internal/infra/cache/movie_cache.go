package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"cinema/internal/domain/model"

	"github.com/redis/go-redis/v9"
)

// MovieCache は映画詳細のread-throughキャッシュ。
// カタログはread-mostlyなので短TTLで十分。
type MovieCache struct {
	rdb *redis.Client
	ttl time.Duration
}

// DI
func NewMovieCache(addr string, ttl time.Duration) *MovieCache {
	rdb := redis.NewClient(&redis.Options{Addr: addr})
	return &MovieCache{rdb: rdb, ttl: ttl}
}

func key(id int64) string {
	return fmt.Sprintf("movie:%d", id)
}

func (c *MovieCache) Get(ctx context.Context, id int64) (model.Movie, bool) {
	raw, err := c.rdb.Get(ctx, key(id)).Result()
	if errors.Is(err, redis.Nil) {
		return model.Movie{}, false
	}
	if err != nil {
		return model.Movie{}, false
	}

	var m model.Movie
	if err := json.Unmarshal([]byte(raw), &m); err != nil {
		return model.Movie{}, false
	}
	return m, true
}

func (c *MovieCache) Set(ctx context.Context, m model.Movie) {
	raw, err := json.Marshal(m)
	if err != nil {
		return
	}
	// キャッシュ失敗は無視してよい
	_ = c.rdb.Set(ctx, key(m.ID), raw, c.ttl).Err()
}

func (c *MovieCache) Invalidate(ctx context.Context, id int64) {
	_ = c.rdb.Del(ctx, key(id)).Err()
}
