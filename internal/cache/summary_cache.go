package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"moodJournalAPI/internal/stats"
)

// SummaryCache keeps one computed stats payload per user in Redis. An entry
// is only valid for the day and timezone it was computed for, and only while
// the user's version counter has not moved since it was computed.
type SummaryCache struct {
	client *redis.Client
	ttl    time.Duration
}

type cachedStats struct {
	Version  int64           `json:"version"`
	Day      string          `json:"day"`
	Timezone string          `json:"timezone"`
	Stats    stats.UserStats `json:"stats"`
}

// NewSummaryCache connects to redisURL and verifies the connection.
func NewSummaryCache(ctx context.Context, redisURL string, ttl time.Duration) (*SummaryCache, error) {
	opt, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse redis URL: %w", err)
	}

	client := redis.NewClient(opt)
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to ping redis: %w", err)
	}

	return &SummaryCache{client: client, ttl: ttl}, nil
}

func summaryKey(userID string) string {
	return fmt.Sprintf("mood:user:%s:summary", userID)
}

func versionKey(userID string) string {
	return fmt.Sprintf("mood:user:%s:summary:version", userID)
}

// Get returns the cached stats for userID together with the user's current
// version. A miss returns nil stats; the version is still valid and is what
// the caller passes to Set.
func (c *SummaryCache) Get(ctx context.Context, userID, day, timezone string) (*stats.UserStats, int64, error) {
	vals, err := c.client.MGet(ctx, summaryKey(userID), versionKey(userID)).Result()
	if err != nil {
		return nil, 0, fmt.Errorf("failed to read cached summary: %w", err)
	}

	version, err := parseVersion(vals[1])
	if err != nil {
		return nil, 0, err
	}

	raw, _ := vals[0].(string)
	return decodeEntry([]byte(raw), version, day, timezone), version, nil
}

// Set stores s as computed against version. A concurrent Invalidate bumps the
// version, so a payload computed before it is never served.
func (c *SummaryCache) Set(ctx context.Context, userID string, version int64, day, timezone string, s *stats.UserStats) error {
	raw, err := json.Marshal(cachedStats{Version: version, Day: day, Timezone: timezone, Stats: *s})
	if err != nil {
		return fmt.Errorf("failed to encode summary: %w", err)
	}
	return c.client.Set(ctx, summaryKey(userID), raw, c.ttl).Err()
}

// Invalidate bumps the user's version and drops the stored payload.
func (c *SummaryCache) Invalidate(ctx context.Context, userID string) error {
	_, err := c.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Incr(ctx, versionKey(userID))
		pipe.Del(ctx, summaryKey(userID))
		return nil
	})
	return err
}

func (c *SummaryCache) Close() error {
	return c.client.Close()
}

func parseVersion(v interface{}) (int64, error) {
	switch v := v.(type) {
	case nil:
		return 0, nil
	case string:
		n, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return 0, fmt.Errorf("failed to parse summary version %q: %w", v, err)
		}
		return n, nil
	default:
		return 0, errors.New("unexpected summary version type")
	}
}

// decodeEntry returns the payload in raw when it matches version, day and
// timezone, and nil otherwise.
func decodeEntry(raw []byte, version int64, day, timezone string) *stats.UserStats {
	if len(raw) == 0 {
		return nil
	}

	var entry cachedStats
	if err := json.Unmarshal(raw, &entry); err != nil {
		return nil
	}
	if entry.Version != version || entry.Day != day || entry.Timezone != timezone {
		return nil
	}
	return &entry.Stats
}
