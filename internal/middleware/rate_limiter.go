package middleware

import (
	"context"
	"fmt"
	"net/http"
	"net/netip"
	"strconv"
	"time"

	"jobboard/internal/cache"
	"jobboard/internal/response"
	"jobboard/internal/services"

	"go.uber.org/zap"
)

// RateLimiterConfig holds per client request limits
type RateLimiterConfig struct {
	Enabled  bool
	Requests int
	Window   time.Duration
	// KeyPrefix separates the counters of different limiters sharing a cache
	KeyPrefix string
	// TrustedProxies may set X-Forwarded-For. Without any, clients are
	// keyed by their peer address.
	TrustedProxies []netip.Prefix
}

// DefaultRateLimiterConfig returns the limits used for credential endpoints
func DefaultRateLimiterConfig() *RateLimiterConfig {
	return &RateLimiterConfig{
		Enabled:   true,
		Requests:  20,
		Window:    time.Minute,
		KeyPrefix: "ratelimit:auth",
	}
}

// RateLimitResult is the outcome of one check
type RateLimitResult struct {
	Allowed    bool
	Limit      int
	Remaining  int
	ResetTime  time.Time
	RetryAfter time.Duration
}

// RateLimiter counts requests per client IP in fixed windows. Counters
// live in the shared cache so every instance behind a redis cache sees
// the same counts. Increments are not atomic, so a burst may overshoot
// the limit slightly.
type RateLimiter struct {
	cache  cache.Cache
	config *RateLimiterConfig
	logger *zap.Logger
	now    func() time.Time
}

// NewRateLimiter creates a new rate limiter
func NewRateLimiter(c cache.Cache, config *RateLimiterConfig, logger *zap.Logger) *RateLimiter {
	if config == nil {
		config = DefaultRateLimiterConfig()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &RateLimiter{
		cache:  c,
		config: config,
		logger: logger,
		now:    time.Now,
	}
}

// RateLimit rejects clients that exceed the limit with 429
func RateLimit(limiter *RateLimiter) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !limiter.config.Enabled || limiter.cache == nil {
				next.ServeHTTP(w, r)
				return
			}

			result := limiter.checkFixedWindow(r.Context(), clientIP(r, limiter.config.TrustedProxies))
			limiter.writeRateLimitHeaders(w, result)

			if !result.Allowed {
				GetRequestLogger(r.Context()).Warn("Rate limit exceeded",
					zap.Int("limit", result.Limit),
					zap.Duration("retry_after", result.RetryAfter),
				)
				response.QuickError(w, r, services.NewRateLimitError("Too many requests, please try again later"))
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

func (rl *RateLimiter) checkFixedWindow(ctx context.Context, clientKey string) *RateLimitResult {
	now := rl.now()
	window := rl.config.Window
	windowStart := now.Truncate(window)
	key := fmt.Sprintf("%s:%s:%d", rl.config.KeyPrefix, clientKey, windowStart.Unix())

	count := rl.getCount(ctx, key)
	allowed := count < rl.config.Requests
	if allowed {
		count++
		if err := rl.cache.Set(ctx, key, []byte(strconv.Itoa(count)), window); err != nil {
			rl.logger.Warn("Failed to store rate limit counter", zap.Error(err))
		}
	}

	resetTime := windowStart.Add(window)
	return &RateLimitResult{
		Allowed:    allowed,
		Limit:      rl.config.Requests,
		Remaining:  max(rl.config.Requests-count, 0),
		ResetTime:  resetTime,
		RetryAfter: resetTime.Sub(now),
	}
}

func (rl *RateLimiter) getCount(ctx context.Context, key string) int {
	value, found := rl.cache.Get(ctx, key)
	if !found {
		return 0
	}
	count, err := strconv.Atoi(string(value))
	if err != nil {
		return 0
	}
	return count
}

func (rl *RateLimiter) writeRateLimitHeaders(w http.ResponseWriter, result *RateLimitResult) {
	w.Header().Set("X-RateLimit-Limit", strconv.Itoa(result.Limit))
	w.Header().Set("X-RateLimit-Remaining", strconv.Itoa(result.Remaining))
	w.Header().Set("X-RateLimit-Reset", strconv.FormatInt(result.ResetTime.Unix(), 10))

	if !result.Allowed {
		w.Header().Set("Retry-After", strconv.Itoa(int(result.RetryAfter.Seconds())+1))
	}
}
