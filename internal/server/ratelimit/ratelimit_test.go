package ratelimit

import (
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

func newTestLimiter(t *testing.T, config *Config) (*Limiter, *fakeClock) {
	t.Helper()
	clock := &fakeClock{now: time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)}
	l := NewLimiter(config)
	l.now = clock.Now
	t.Cleanup(l.Stop)
	return l, clock
}

func TestLimiter_BurstThenDeny(t *testing.T) {
	l, _ := newTestLimiter(t, &Config{
		Enabled:       true,
		DefaultLimit:  60,
		DefaultWindow: time.Minute,
		DefaultBurst:  10,
	})

	for i := 0; i < 10; i++ {
		allowed, info := l.Allow("client1", "/resumes/abc", "GET")
		require.True(t, allowed, "request %d", i+1)
		assert.Equal(t, 60, info.Limit)
		assert.Equal(t, 9-i, info.Remaining)
	}

	allowed, info := l.Allow("client1", "/resumes/abc", "GET")
	assert.False(t, allowed)
	assert.Equal(t, 0, info.Remaining)
	assert.Equal(t, time.Second, info.RetryAfter)
	assert.True(t, info.ResetTime.After(time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)))
}

func TestLimiter_Refill(t *testing.T) {
	l, clock := newTestLimiter(t, &Config{
		Enabled:       true,
		DefaultLimit:  60,
		DefaultWindow: time.Minute,
		DefaultBurst:  2,
	})

	for i := 0; i < 2; i++ {
		allowed, _ := l.Allow("client1", "/x", "GET")
		require.True(t, allowed)
	}
	allowed, _ := l.Allow("client1", "/x", "GET")
	require.False(t, allowed)

	clock.Advance(time.Second)
	allowed, _ = l.Allow("client1", "/x", "GET")
	assert.True(t, allowed)

	allowed, _ = l.Allow("client1", "/x", "GET")
	assert.False(t, allowed)
}

func TestLimiter_DeniedRequestDoesNotConsume(t *testing.T) {
	l, clock := newTestLimiter(t, &Config{
		Enabled:       true,
		DefaultLimit:  60,
		DefaultWindow: time.Minute,
		DefaultBurst:  1,
	})

	allowed, _ := l.Allow("c", "/x", "GET")
	require.True(t, allowed)
	for i := 0; i < 5; i++ {
		allowed, _ = l.Allow("c", "/x", "GET")
		require.False(t, allowed)
	}

	clock.Advance(time.Second)
	allowed, _ = l.Allow("c", "/x", "GET")
	assert.True(t, allowed)
}

func TestLimiter_SeparateKeys(t *testing.T) {
	l, _ := newTestLimiter(t, &Config{
		Enabled:       true,
		DefaultLimit:  60,
		DefaultWindow: time.Minute,
		DefaultBurst:  1,
	})

	tests := []struct {
		name     string
		client   string
		endpoint string
		method   string
	}{
		{"first", "client1", "/a", "GET"},
		{"other client", "client2", "/a", "GET"},
		{"other endpoint", "client1", "/b", "GET"},
		{"other method", "client1", "/a", "POST"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			allowed, _ := l.Allow(tt.client, tt.endpoint, tt.method)
			assert.True(t, allowed)
		})
	}

	allowed, _ := l.Allow("client1", "/a", "GET")
	assert.False(t, allowed)
}

func TestLimiter_EndpointPatternSharesBucket(t *testing.T) {
	l, _ := newTestLimiter(t, &Config{
		Enabled:         true,
		DefaultLimit:    60,
		DefaultWindow:   time.Minute,
		DefaultBurst:    10,
		EndpointConfigs: DefaultEndpointConfigs(),
	})

	allowed, info := l.Allow("c", "/resumes/1/enhance", "POST")
	require.True(t, allowed)
	assert.Equal(t, 10, info.Limit)
	allowed, _ = l.Allow("c", "/resumes/2/enhance", "POST")
	require.True(t, allowed)

	allowed, info = l.Allow("c", "/resumes/3/enhance", "POST")
	assert.False(t, allowed)
	assert.InDelta(t, float64(6*time.Minute), float64(info.RetryAfter), float64(time.Millisecond))
}

func TestLimiter_Disabled(t *testing.T) {
	l, _ := newTestLimiter(t, &Config{Enabled: false})

	for i := 0; i < 100; i++ {
		allowed, info := l.Allow("client1", "/resumes/parse", "POST")
		require.True(t, allowed)
		require.True(t, info.Allowed)
	}
}

func TestLimiter_WhitelistBlacklist(t *testing.T) {
	l, _ := newTestLimiter(t, &Config{
		Enabled:       true,
		DefaultLimit:  1,
		DefaultWindow: time.Minute,
		DefaultBurst:  1,
		Whitelist:     map[string]bool{"10.0.0.1": true},
		Blacklist:     map[string]bool{"10.0.0.2": true},
	})

	for i := 0; i < 5; i++ {
		allowed, _ := l.Allow("10.0.0.1", "/x", "GET")
		assert.True(t, allowed)
	}

	allowed, _ := l.Allow("10.0.0.2", "/x", "GET")
	assert.False(t, allowed)
}

func TestLimiter_HealthUnlimited(t *testing.T) {
	l, _ := newTestLimiter(t, &Config{
		Enabled:       true,
		DefaultLimit:  1,
		DefaultWindow: time.Minute,
		DefaultBurst:  1,
	})

	for i := 0; i < 20; i++ {
		allowed, _ := l.Allow("c", "/health", "GET")
		require.True(t, allowed)
	}
	assert.Equal(t, 0, l.size())
}

func TestLimiter_CleanupIdle(t *testing.T) {
	l, clock := newTestLimiter(t, nil)

	l.Allow("old", "/x", "GET")
	clock.Advance(2 * time.Hour)
	l.Allow("new", "/x", "GET")
	require.Equal(t, 2, l.size())

	l.cleanupIdle(clock.Now().Add(-time.Hour))
	assert.Equal(t, 1, l.size())
}

func TestLimiter_StopTwice(t *testing.T) {
	l := NewLimiter(nil)
	l.Stop()
	assert.NotPanics(t, l.Stop)
}

func TestLimiter_Concurrent(t *testing.T) {
	l, _ := newTestLimiter(t, &Config{
		Enabled:       true,
		DefaultLimit:  60,
		DefaultWindow: time.Minute,
		DefaultBurst:  50,
	})

	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		allowed int
	)
	for i := 0; i < 100; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if ok, _ := l.Allow("shared", "/x", "GET"); ok {
				mu.Lock()
				allowed++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 50, allowed)
}

func TestMatchEndpoint(t *testing.T) {
	configs := DefaultEndpointConfigs()

	tests := []struct {
		path      string
		method    string
		wantPath  string
		wantLimit int
		wantNil   bool
	}{
		{"/health", "GET", "", 0, false},
		{"/metrics", "GET", "", 0, false},
		{"/resumes/parse", "POST", "/resumes/parse", 30, false},
		{"/resumes/parse-text", "POST", "/resumes/parse-text", 60, false},
		{"/resumes/abc/enhance", "POST", "/resumes/*/enhance", 10, false},
		{"/resumes/abc", "PUT", "/resumes/", 100, false},
		{"/resumes/abc", "DELETE", "/resumes/", 100, false},
		{"/resumes/abc", "GET", "", 0, true},
		{"/resumes//enhance", "POST", "", 0, true},
		{"/users/abc/resumes", "GET", "", 0, true},
	}

	for _, tt := range tests {
		t.Run(fmt.Sprintf("%s %s", tt.method, tt.path), func(t *testing.T) {
			got := MatchEndpoint(tt.path, tt.method, configs)
			if tt.wantNil {
				assert.Nil(t, got)
				return
			}
			require.NotNil(t, got)
			assert.Equal(t, tt.wantPath, got.Path)
			assert.Equal(t, tt.wantLimit, got.Limit)
		})
	}
}

func TestLoadConfig(t *testing.T) {
	t.Run("defaults", func(t *testing.T) {
		t.Setenv("RATE_LIMIT_ENABLED", "")
		t.Setenv("RATE_LIMIT_RPM", "")
		t.Setenv("RATE_LIMIT_BURST", "")

		cfg := LoadConfig()
		assert.True(t, cfg.Enabled)
		assert.Equal(t, 60, cfg.DefaultLimit)
		assert.Equal(t, 10, cfg.DefaultBurst)
		assert.Equal(t, time.Minute, cfg.DefaultWindow)
		assert.NotEmpty(t, cfg.EndpointConfigs)
	})

	t.Run("disabled", func(t *testing.T) {
		t.Setenv("RATE_LIMIT_ENABLED", "false")
		assert.False(t, LoadConfig().Enabled)
	})

	t.Run("overrides", func(t *testing.T) {
		t.Setenv("RATE_LIMIT_ENABLED", "true")
		t.Setenv("RATE_LIMIT_RPM", "120")
		t.Setenv("RATE_LIMIT_BURST", "bogus")
		t.Setenv("RATE_LIMIT_WHITELIST", " 10.0.0.1 , ,10.0.0.2")
		t.Setenv("RATE_LIMIT_CLEANUP_INTERVAL", "30s")

		cfg := LoadConfig()
		assert.Equal(t, 120, cfg.DefaultLimit)
		assert.Equal(t, 10, cfg.DefaultBurst)
		assert.Equal(t, 30*time.Second, cfg.CleanupInterval)
		assert.Equal(t, map[string]bool{"10.0.0.1": true, "10.0.0.2": true}, cfg.Whitelist)
	})
}
