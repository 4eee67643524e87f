// Package ratelimit limits API requests per client and endpoint with
// token-bucket limiters from golang.org/x/time/rate.
package ratelimit

import (
	"math"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// Info contains information about rate limit status.
type Info struct {
	Allowed    bool
	Limit      int
	Remaining  int
	ResetTime  time.Time
	RetryAfter time.Duration
}

// Config holds rate limiting configuration.
type Config struct {
	Enabled         bool
	DefaultLimit    int
	DefaultWindow   time.Duration
	DefaultBurst    int
	CleanupInterval time.Duration
	Whitelist       map[string]bool
	Blacklist       map[string]bool
	EndpointConfigs []EndpointConfig
}

type clientLimiter struct {
	limiter    *rate.Limiter
	lastAccess time.Time
}

// Limiter manages one token bucket per client, endpoint and method.
type Limiter struct {
	mu          sync.Mutex
	limiters    map[string]*clientLimiter
	config      *Config
	cleanupStop chan struct{}
	stopOnce    sync.Once
	now         func() time.Time
}

// NewLimiter creates a new rate limiter with the given configuration.
// A nil config allows 60 requests per minute with a burst of 10.
func NewLimiter(config *Config) *Limiter {
	if config == nil {
		config = &Config{
			Enabled:         true,
			DefaultLimit:    60,
			DefaultWindow:   time.Minute,
			DefaultBurst:    10,
			CleanupInterval: 5 * time.Minute,
		}
	}

	l := &Limiter{
		limiters: make(map[string]*clientLimiter),
		config:   config,
		now:      time.Now,
	}

	if config.Enabled && config.CleanupInterval > 0 {
		l.cleanupStop = make(chan struct{})
		go l.cleanup(config.CleanupInterval)
	}

	return l
}

// Allow checks if a request from the given client is allowed for the specified endpoint.
func (l *Limiter) Allow(clientID string, endpoint string, method string) (bool, Info) {
	if !l.config.Enabled || l.config.Whitelist[clientID] {
		return true, Info{Allowed: true}
	}
	if l.config.Blacklist[clientID] {
		return false, Info{Allowed: false}
	}

	endpointConfig := MatchEndpoint(endpoint, method, l.config.EndpointConfigs)
	if endpointConfig == nil {
		endpointConfig = &EndpointConfig{
			Limit:  l.config.DefaultLimit,
			Window: l.config.DefaultWindow,
			Burst:  l.config.DefaultBurst,
		}
	}

	// unlimited endpoint, e.g. health checks
	if endpointConfig.Limit <= 0 || endpointConfig.Window <= 0 {
		return true, Info{Allowed: true}
	}

	now := l.now()
	key := clientID + ":" + endpointConfig.key(endpoint) + ":" + method
	lim := l.getLimiter(key, endpointConfig, now)

	info := Info{Limit: endpointConfig.Limit}
	if lim.AllowN(now, 1) {
		info.Allowed = true
	} else {
		reservation := lim.ReserveN(now, 1)
		if reservation.OK() {
			info.RetryAfter = reservation.DelayFrom(now)
			reservation.CancelAt(now)
		}
	}

	tokens := max(lim.TokensAt(now), 0)
	info.Remaining = int(math.Floor(tokens))
	missing := float64(lim.Burst()) - tokens
	info.ResetTime = now
	if missing > 0 {
		info.ResetTime = now.Add(time.Duration(missing / float64(lim.Limit()) * float64(time.Second)))
	}

	return info.Allowed, info
}

func (l *Limiter) getLimiter(key string, endpointConfig *EndpointConfig, now time.Time) *rate.Limiter {
	l.mu.Lock()
	defer l.mu.Unlock()

	if cl, ok := l.limiters[key]; ok {
		cl.lastAccess = now
		return cl.limiter
	}

	burst := endpointConfig.Burst
	if burst <= 0 {
		burst = endpointConfig.Limit
	}
	every := endpointConfig.Window / time.Duration(endpointConfig.Limit)
	cl := &clientLimiter{
		limiter:    rate.NewLimiter(rate.Every(every), burst),
		lastAccess: now,
	}
	l.limiters[key] = cl
	return cl.limiter
}

func (l *Limiter) cleanup(interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			l.cleanupIdle(l.now().Add(-time.Hour))
		case <-l.cleanupStop:
			return
		}
	}
}

// cleanupIdle removes limiters not used since cutoff
func (l *Limiter) cleanupIdle(cutoff time.Time) {
	l.mu.Lock()
	defer l.mu.Unlock()

	for key, cl := range l.limiters {
		if cl.lastAccess.Before(cutoff) {
			delete(l.limiters, key)
		}
	}
}

// size returns the number of tracked limiters
func (l *Limiter) size() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.limiters)
}

// Stop stops the cleanup goroutine. Safe to call more than once.
func (l *Limiter) Stop() {
	l.stopOnce.Do(func() {
		if l.cleanupStop != nil {
			close(l.cleanupStop)
		}
	})
}
