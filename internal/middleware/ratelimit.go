package middleware

import (
	"net/http"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/AnshRaj112/bookswap-backend/pkg/clientip"
	"github.com/AnshRaj112/bookswap-backend/pkg/logger"
	"github.com/AnshRaj112/bookswap-backend/pkg/response"
)

const (
	RateLimitWindow      = 120 * time.Second
	RateLimitMaxRequests = 120
	RateLimitKeyPrefix   = "bookswap:ratelimit:"
	BlockedIPKeyPrefix   = "bookswap:blocked_ip:"
	BlockedIPDuration    = 15 * time.Minute
)

// RateLimiter is a fixed-window per-IP limiter backed by Redis. IPs that
// exceed the window are blocked for BlockFor. Any Redis error lets the
// request through.
type RateLimiter struct {
	client   redis.Cmdable
	Limit    int
	Window   time.Duration
	BlockFor time.Duration
}

// NewRateLimiter returns nil when client is nil; a nil limiter is a no-op.
func NewRateLimiter(client redis.Cmdable) *RateLimiter {
	if client == nil {
		return nil
	}
	return &RateLimiter{
		client:   client,
		Limit:    RateLimitMaxRequests,
		Window:   RateLimitWindow,
		BlockFor: BlockedIPDuration,
	}
}

func (l *RateLimiter) Middleware(next http.Handler) http.Handler {
	if l == nil {
		return next
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		ip := clientip.RealClientIP(r)
		blockedKey := BlockedIPKeyPrefix + ip

		blocked, err := l.client.Exists(ctx, blockedKey).Result()
		if err != nil {
			logger.WithCtx(ctx).Warn("rate limiter unavailable", "error", err)
			next.ServeHTTP(w, r)
			return
		}
		if blocked > 0 {
			w.Header().Set("Retry-After", strconv.Itoa(int(l.BlockFor.Seconds())))
			response.Error(w, http.StatusTooManyRequests, "Your IP has been temporarily blocked due to excessive requests. Please try again later.")
			return
		}

		key := RateLimitKeyPrefix + ip
		count, err := l.client.Incr(ctx, key).Result()
		if err != nil {
			next.ServeHTTP(w, r)
			return
		}
		if count == 1 {
			l.client.Expire(ctx, key, l.Window)
		}

		if count > int64(l.Limit) {
			l.client.Set(ctx, blockedKey, "1", l.BlockFor)
			logger.WithCtx(ctx).Warn("ip blocked by rate limiter", "ip", ip, "count", count)
			w.Header().Set("Retry-After", strconv.Itoa(int(l.Window.Seconds())))
			response.Error(w, http.StatusTooManyRequests, "Rate limit exceeded. Please try again later.")
			return
		}

		w.Header().Set("X-RateLimit-Limit", strconv.Itoa(l.Limit))
		w.Header().Set("X-RateLimit-Remaining", strconv.FormatInt(int64(l.Limit)-count, 10))
		w.Header().Set("X-RateLimit-Reset", strconv.FormatInt(time.Now().Add(l.Window).Unix(), 10))
		next.ServeHTTP(w, r)
	})
}
