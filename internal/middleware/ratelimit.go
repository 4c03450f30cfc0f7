package middleware

import (
	"context"
	"fmt"
	"math"
	"net"
	"net/http"
	"strconv"
	"time"

	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"friday-chat/internal/metrics"
)

// Store counts requests per key in fixed windows.
type Store interface {
	// Hit records one request for key and returns the number of requests
	// seen in the key's current window and the time that window ends.
	Hit(ctx context.Context, key string) (count int, reset time.Time, err error)
}

// RateLimiter rejects requests from a client address once it exceeds limit
// requests within one window.
type RateLimiter struct {
	store   Store
	limit   int
	log     *zap.Logger
	metrics *metrics.Metrics
	now     func() time.Time

	// rejections and store failures are each logged at most once per interval
	sometimes      rate.Sometimes
	storeSometimes rate.Sometimes
}

func NewRateLimiter(store Store, limit int, log *zap.Logger, m *metrics.Metrics) *RateLimiter {
	return &RateLimiter{
		store:          store,
		limit:          limit,
		log:            log,
		metrics:        m,
		now:            time.Now,
		sometimes:      rate.Sometimes{Interval: 10 * time.Second},
		storeSometimes: rate.Sometimes{Interval: 10 * time.Second},
	}
}

func (rl *RateLimiter) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		addr := clientAddr(r)

		count, reset, err := rl.store.Hit(r.Context(), addr)
		if err != nil {
			rl.storeSometimes.Do(func() {
				rl.log.Warn("rate limit store unavailable; allowing request", zap.Error(err))
			})
			next.ServeHTTP(w, r)
			return
		}

		resetIn := int(math.Ceil(reset.Sub(rl.now()).Seconds()))
		if resetIn < 0 {
			resetIn = 0
		}
		remaining := rl.limit - count
		if remaining < 0 {
			remaining = 0
		}
		h := w.Header()
		h.Set("X-RateLimit-Limit", strconv.Itoa(rl.limit))
		h.Set("X-RateLimit-Remaining", strconv.Itoa(remaining))
		h.Set("X-RateLimit-Reset", strconv.Itoa(resetIn))

		if count > rl.limit {
			h.Set("Retry-After", strconv.Itoa(resetIn))
			rl.metrics.RecordRejection("rate_limit")
			rl.sometimes.Do(func() {
				rl.log.Warn("rate limit exceeded",
					zap.String("remote", addr),
					zap.Int("count", count),
					zap.Int("limit", rl.limit),
				)
			})
			writeError(w, http.StatusTooManyRequests, "Too many requests",
				fmt.Sprintf("Too many requests, please try again in %d seconds.", resetIn))
			return
		}

		next.ServeHTTP(w, r)
	})
}

// clientAddr is the peer host without its port. RemoteAddr has already been
// rewritten by chi's RealIP when the proxy is configured to trust it.
func clientAddr(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
