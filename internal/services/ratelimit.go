package services

import (
	"log/slog"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// IPRateLimiter is a per-IP token bucket guarding the whole router against
// floods, independent of the tiered action buckets below.
type IPRateLimiter struct {
	ips    map[string]*rate.Limiter
	mu     sync.RWMutex
	r      rate.Limit
	b      int
	logger *slog.Logger
}

func NewIPRateLimiter(r rate.Limit, b int, logger *slog.Logger) *IPRateLimiter {
	return &IPRateLimiter{
		ips:    make(map[string]*rate.Limiter),
		r:      r,
		b:      b,
		logger: logger,
	}
}

func (i *IPRateLimiter) StartCleanup(interval time.Duration) {
	go func() {
		for {
			time.Sleep(interval)
			i.mu.Lock()
			if len(i.ips) > 10000 {
				i.logger.Info("Cleaning up rate limiter map", "count", len(i.ips))
				i.ips = make(map[string]*rate.Limiter)
			}
			i.mu.Unlock()
		}
	}()
}

func (i *IPRateLimiter) GetLimiter(ip string) *rate.Limiter {
	i.mu.Lock()
	defer i.mu.Unlock()

	limiter, exists := i.ips[ip]
	if !exists {
		limiter = rate.NewLimiter(i.r, i.b)
		i.ips[ip] = limiter
	}

	return limiter
}

// Bucket names for the tiered limiter.
const (
	BucketPostDay        = "post_day"
	BucketPostMinute     = "post_minute"
	BucketReadDay        = "read_day"
	BucketPrivateCreate  = "private_create_day"
	BucketVerify         = "verify_hour"
	BucketKeyRecovery    = "key_recovery_10m"
	BucketKeyRecoveryDay = "key_recovery_day"
)

// BucketConfig is one action class: a fixed window with a baseline cap and
// a raised cap for requests carrying a valid access key.
type BucketConfig struct {
	Window   time.Duration
	Baseline int64
	Elevated int64
	Message  string
}

// DefaultBuckets holds the canonical caps per action class.
func DefaultBuckets() map[string]BucketConfig {
	return map[string]BucketConfig{
		BucketPostDay: {
			Window:   24 * time.Hour,
			Baseline: 20,
			Elevated: 200,
			Message:  "You may only add 20 links per day without an Access Key.",
		},
		BucketPostMinute: {
			Window:   time.Minute,
			Baseline: 3,
			Elevated: 20,
			Message:  "You may only add 5 links per minute without an Access Key.",
		},
		BucketReadDay: {
			Window:   24 * time.Hour,
			Baseline: 200,
			Elevated: 1000,
			Message:  "Daily request limit exceeded.",
		},
		BucketPrivateCreate: {
			Window:   24 * time.Hour,
			Baseline: 1,
			Elevated: 5,
			Message:  "You may only create one private page a day without an Access Key.",
		},
		BucketVerify: {
			Window:   time.Hour,
			Baseline: 20,
			Elevated: 30,
			Message:  "You may only attempt to enter passwords 20 times an hour without an Access Key.",
		},
		BucketKeyRecovery: {
			Window:   10 * time.Minute,
			Baseline: 5,
			Elevated: 5,
			Message:  "Exceeded key recovery limit. Try again in 10 minutes.",
		},
		BucketKeyRecoveryDay: {
			Window:   24 * time.Hour,
			Baseline: 15,
			Elevated: 15,
			Message:  "Exceeded key recovery limit. Try again in 24 hours.",
		},
	}
}

type windowCounter struct {
	count   int64
	resetAt time.Time
}

// TieredLimiter throttles per (bucket, client IP) in fixed windows. Quota
// is always consumed against the IP; a valid access key only selects the
// elevated cap for that IP's counter. Counting happens under one mutex so
// concurrent requests never race a read-then-write.
type TieredLimiter struct {
	buckets  map[string]BucketConfig
	counters map[string]*windowCounter
	mu       sync.Mutex
	logger   *slog.Logger
	now      func() time.Time
}

func NewTieredLimiter(buckets map[string]BucketConfig, logger *slog.Logger) *TieredLimiter {
	return &TieredLimiter{
		buckets:  buckets,
		counters: make(map[string]*windowCounter),
		logger:   logger,
		now:      time.Now,
	}
}

// Allow consumes one request from the (bucket, ip) counter. When the
// window's cap is exhausted it returns false plus the bucket's wait-hint
// message; the request must be rejected before any other work.
func (t *TieredLimiter) Allow(bucket, ip string, elevated bool) (bool, string) {
	cfg, ok := t.buckets[bucket]
	if !ok {
		// Unknown bucket never blocks; misconfiguration should not take
		// the site down.
		t.logger.Warn("Unknown rate limit bucket", "bucket", bucket)
		return true, ""
	}

	limit := cfg.Baseline
	if elevated {
		limit = cfg.Elevated
	}

	key := bucket + "|" + ip
	now := t.now()

	t.mu.Lock()
	defer t.mu.Unlock()

	c, exists := t.counters[key]
	if !exists || now.After(c.resetAt) {
		c = &windowCounter{resetAt: now.Add(cfg.Window)}
		t.counters[key] = c
	}

	if c.count >= limit {
		return false, cfg.Message
	}
	c.count++
	return true, ""
}

// StartCleanup periodically drops counters whose window has passed.
func (t *TieredLimiter) StartCleanup(interval time.Duration) {
	go func() {
		for {
			time.Sleep(interval)
			now := t.now()
			t.mu.Lock()
			for key, c := range t.counters {
				if now.After(c.resetAt) {
					delete(t.counters, key)
				}
			}
			t.mu.Unlock()
		}
	}()
}
