package ratelimit

import (
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var epoch = time.Date(2024, time.January, 1, 12, 0, 0, 0, time.UTC)

// newFrozenLimiter returns a limiter whose clock only moves when advanced
func newFrozenLimiter(config *Config) (*Limiter, func(d time.Duration)) {
	l := NewLimiter(config)
	var mu sync.Mutex
	now := epoch
	l.now = func() time.Time {
		mu.Lock()
		defer mu.Unlock()
		return now
	}
	return l, func(d time.Duration) {
		mu.Lock()
		defer mu.Unlock()
		now = now.Add(d)
	}
}

func TestLimiter_Allow(t *testing.T) {
	limiter, _ := newFrozenLimiter(&Config{Enabled: true, DefaultLimit: 5, DefaultWindow: time.Minute})
	defer limiter.Stop()

	for i := 0; i < 5; i++ {
		allowed, info := limiter.Allow("127.0.0.1", "/test", "GET")
		require.True(t, allowed, "request %d", i+1)
		assert.Equal(t, 5, info.Limit)
		assert.Equal(t, 4-i, info.Remaining)
	}

	allowed, info := limiter.Allow("127.0.0.1", "/test", "GET")
	assert.False(t, allowed)
	assert.Equal(t, 0, info.Remaining)
	assert.Equal(t, 12*time.Second, info.RetryAfter)
	assert.Equal(t, epoch.Add(time.Minute), info.ResetTime)
}

func TestLimiter_Refill(t *testing.T) {
	limiter, advance := newFrozenLimiter(&Config{Enabled: true, DefaultLimit: 60, DefaultWindow: time.Minute})
	defer limiter.Stop()

	for i := 0; i < 60; i++ {
		limiter.Allow("c", "/test", "GET")
	}
	allowed, _ := limiter.Allow("c", "/test", "GET")
	require.False(t, allowed)

	advance(time.Second)
	allowed, _ = limiter.Allow("c", "/test", "GET")
	assert.True(t, allowed)
	allowed, _ = limiter.Allow("c", "/test", "GET")
	assert.False(t, allowed)
}

func TestLimiter_ClientsAreIndependent(t *testing.T) {
	limiter, _ := newFrozenLimiter(&Config{Enabled: true, DefaultLimit: 1, DefaultWindow: time.Minute})
	defer limiter.Stop()

	allowed, _ := limiter.Allow("a", "/test", "GET")
	assert.True(t, allowed)
	allowed, _ = limiter.Allow("a", "/test", "GET")
	assert.False(t, allowed)
	allowed, _ = limiter.Allow("b", "/test", "GET")
	assert.True(t, allowed)
}

func TestLimiter_WhitelistAndBlacklist(t *testing.T) {
	limiter, _ := newFrozenLimiter(&Config{
		Enabled:       true,
		DefaultLimit:  1,
		DefaultWindow: time.Minute,
		Whitelist:     map[string]bool{"10.0.0.1": true},
		Blacklist:     map[string]bool{"10.0.0.2": true},
	})
	defer limiter.Stop()

	for i := 0; i < 10; i++ {
		allowed, _ := limiter.Allow("10.0.0.1", "/test", "GET")
		assert.True(t, allowed)
	}
	allowed, _ := limiter.Allow("10.0.0.2", "/test", "GET")
	assert.False(t, allowed)
}

func TestLimiter_Disabled(t *testing.T) {
	limiter := NewLimiter(&Config{Enabled: false, DefaultLimit: 1, DefaultWindow: time.Minute})
	defer limiter.Stop()

	for i := 0; i < 10; i++ {
		allowed, info := limiter.Allow("127.0.0.1", "/test", "GET")
		assert.True(t, allowed)
		assert.Equal(t, 0, info.Limit)
	}
	assert.Equal(t, 0, limiter.Len())
}

func TestLimiter_EndpointSpecific(t *testing.T) {
	limiter, _ := newFrozenLimiter(&Config{
		Enabled:         true,
		DefaultLimit:    1000,
		DefaultWindow:   time.Minute,
		EndpointConfigs: DefaultEndpointConfigs(),
	})
	defer limiter.Stop()

	for i := 0; i < 10; i++ {
		allowed, info := limiter.Allow("c", "/v1/score", "POST")
		require.True(t, allowed)
		assert.Equal(t, 60, info.Limit)
	}
	allowed, _ := limiter.Allow("c", "/v1/score", "POST")
	assert.False(t, allowed, "burst of 10 exhausted")

	allowed, info := limiter.Allow("c", "/v1/renders/abc", "GET")
	assert.True(t, allowed)
	assert.Equal(t, 600, info.Limit)

	allowed, info = limiter.Allow("c", "/v1/unlisted", "POST")
	assert.True(t, allowed)
	assert.Equal(t, 1000, info.Limit)

	allowed, _ = limiter.Allow("c", "/health", "GET")
	assert.True(t, allowed)
}

func TestLimiter_Concurrent(t *testing.T) {
	limiter, _ := newFrozenLimiter(&Config{Enabled: true, DefaultLimit: 100, DefaultWindow: time.Minute})
	defer limiter.Stop()

	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		allowed int
	)
	for i := 0; i < 200; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if ok, _ := limiter.Allow("127.0.0.1", "/test", "GET"); ok {
				mu.Lock()
				allowed++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 100, allowed)
}

func TestLimiter_CleanupBuckets(t *testing.T) {
	limiter, advance := newFrozenLimiter(&Config{Enabled: true, DefaultLimit: 10, DefaultWindow: time.Minute})
	defer limiter.Stop()

	for i := 0; i < 10; i++ {
		limiter.Allow(fmt.Sprintf("127.0.0.%d", i+1), "/test", "GET")
	}
	advance(2 * time.Hour)
	for i := 0; i < 3; i++ {
		limiter.Allow(fmt.Sprintf("127.0.0.%d", i+1), "/test", "GET")
	}
	require.Equal(t, 10, limiter.Len())

	limiter.cleanupBuckets(limiter.now().Add(-time.Hour))
	assert.Equal(t, 3, limiter.Len())
}

func TestLimiter_StopIsIdempotent(t *testing.T) {
	limiter := NewLimiter(&Config{Enabled: true, DefaultLimit: 1, DefaultWindow: time.Minute, CleanupInterval: time.Millisecond})
	limiter.Stop()
	limiter.Stop()
}

func TestNewLimiter_NilConfig(t *testing.T) {
	limiter := NewLimiter(nil)
	defer limiter.Stop()

	allowed, info := limiter.Allow("127.0.0.1", "/test", "GET")
	assert.True(t, allowed)
	assert.Equal(t, 1000, info.Limit)
}

func TestMatchEndpoint(t *testing.T) {
	configs := []EndpointConfig{
		{Path: "/v1/score", Method: "POST", Limit: 1},
		{Path: "/v1/renders/", Method: "GET", Limit: 2},
		{Path: "/v1/renders/archive/", Method: "GET", Limit: 3},
	}

	tests := []struct {
		name   string
		path   string
		method string
		want   int
		found  bool
	}{
		{"exact", "/v1/score", "POST", 1, true},
		{"method mismatch", "/v1/score", "GET", 0, false},
		{"prefix", "/v1/renders/123", "GET", 2, true},
		{"longest prefix", "/v1/renders/archive/9", "GET", 3, true},
		{"method is case insensitive", "/v1/score", "post", 1, true},
		{"health unlimited", "/health", "GET", 0, true},
		{"metrics unlimited", "/metrics", "GET", 0, true},
		{"no match", "/v1/other", "POST", 0, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := MatchEndpoint(tt.path, tt.method, configs)
			if !tt.found {
				assert.Nil(t, got)
				return
			}
			require.NotNil(t, got)
			assert.Equal(t, tt.want, got.Limit)
		})
	}
}
