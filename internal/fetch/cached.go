package fetch

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/jonathan/resume-markup/internal/logger"
)

// DefaultTextCacheTTL is how long extracted posting text is reused
const DefaultTextCacheTTL = 24 * time.Hour

const textKeyPrefix = "resume:jobtext:"

// TextFetcher is anything that can turn a posting URL into text
type TextFetcher interface {
	JobText(ctx context.Context, url string) (string, error)
}

// CachedFetcher stores extracted posting text in Redis so repeated scoring
// against the same URL does not refetch it. Cache errors are logged and
// bypassed.
type CachedFetcher struct {
	next TextFetcher
	rdb  *redis.Client
	ttl  time.Duration
	log  logger.Logger
}

// NewCachedFetcher wraps next with a Redis text cache
func NewCachedFetcher(next TextFetcher, rdb *redis.Client, ttl time.Duration, log logger.Logger) *CachedFetcher {
	if ttl <= 0 {
		ttl = DefaultTextCacheTTL
	}
	return &CachedFetcher{next: next, rdb: rdb, ttl: ttl, log: logger.OrNop(log)}
}

// JobText returns cached text for url, fetching and caching it on a miss
func (f *CachedFetcher) JobText(ctx context.Context, url string) (string, error) {
	key := textKey(url)
	text, err := f.rdb.Get(ctx, key).Result()
	switch {
	case err == nil:
		f.log.Debug("job text cache hit", map[string]interface{}{"url": url})
		return text, nil
	case !errors.Is(err, redis.Nil):
		f.log.WithError(err).Warn("job text cache unavailable", map[string]interface{}{"url": url})
	}

	text, err = f.next.JobText(ctx, url)
	if err != nil {
		return "", err
	}
	if err := f.rdb.Set(ctx, key, text, f.ttl).Err(); err != nil {
		f.log.WithError(err).Warn("failed to cache job text", map[string]interface{}{"url": url})
	}
	return text, nil
}

func textKey(url string) string {
	sum := sha256.Sum256([]byte(url))
	return textKeyPrefix + hex.EncodeToString(sum[:])
}
