// Package redisqcache is the second-tier query cache: a rueidis-backed
// store for hit lists shared across process instances, adapted from the
// teacher's pkg/redis client (its generic Redis wrapper, narrowed here to
// the query-cache shape spec 4.10 needs) plus its bytedance/sonic JSON
// helpers.
package redisqcache

import (
	"context"
	"fmt"
	"time"

	"github.com/bytedance/sonic"
	"github.com/redis/rueidis"
)

const keyPrefix = "docindex:query:"

// Client wraps a rueidis connection scoped to cached query hit lists.
type Client struct {
	conn rueidis.Client
	ttl  time.Duration
}

// Options configures the underlying rueidis connection.
type Options struct {
	Address  string
	Password string
	DB       int
	TTL      time.Duration
}

// New connects to Redis with opts.
func New(opts Options) (*Client, error) {
	conn, err := rueidis.NewClient(rueidis.ClientOption{
		InitAddress: []string{opts.Address},
		Password:    opts.Password,
		SelectDB:    opts.DB,
	})
	if err != nil {
		return nil, fmt.Errorf("redisqcache: connect: %w", err)
	}
	ttl := opts.TTL
	if ttl <= 0 {
		ttl = 120 * time.Second
	}
	return &Client{conn: conn, ttl: ttl}, nil
}

// Close releases the underlying connection.
func (c *Client) Close() { c.conn.Close() }

// Get fetches and decodes a cached hit list for cacheKey, if present.
func (c *Client) Get(ctx context.Context, cacheKey string, dest any) (bool, error) {
	cmd := c.conn.B().Get().Key(keyPrefix + cacheKey).Build()
	result := c.conn.Do(ctx, cmd)
	if result.Error() != nil {
		if rueidis.IsRedisNil(result.Error()) {
			return false, nil
		}
		return false, result.Error()
	}
	raw, err := result.ToString()
	if err != nil {
		return false, err
	}
	if raw == "" {
		return false, nil
	}
	if err := sonic.Unmarshal([]byte(raw), dest); err != nil {
		return false, fmt.Errorf("redisqcache: decode: %w", err)
	}
	return true, nil
}

// Set caches value under cacheKey with this client's configured TTL.
func (c *Client) Set(ctx context.Context, cacheKey string, value any) error {
	data, err := sonic.Marshal(value)
	if err != nil {
		return fmt.Errorf("redisqcache: encode: %w", err)
	}
	cmd := c.conn.B().Set().Key(keyPrefix + cacheKey).Value(string(data)).ExSeconds(int64(c.ttl.Seconds())).Build()
	return c.conn.Do(ctx, cmd).Error()
}

// Invalidate drops every cached query entry; used after an indexing run
// commits new content, mirroring internal/querycache.Invalidate's role for
// the in-process tier.
func (c *Client) Invalidate(ctx context.Context) error {
	pattern := keyPrefix + "*"
	cmd := c.conn.B().Keys().Pattern(pattern).Build()
	result := c.conn.Do(ctx, cmd)
	if result.Error() != nil {
		return result.Error()
	}
	keys, err := result.AsStrSlice()
	if err != nil {
		return err
	}
	if len(keys) == 0 {
		return nil
	}
	delCmd := c.conn.B().Del().Key(keys...).Build()
	return c.conn.Do(ctx, delCmd).Error()
}
