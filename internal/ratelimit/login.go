package ratelimit

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/smallbiznis/gareline/internal/config"
	"github.com/smallbiznis/gareline/internal/observability/metrics"
	redis "github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const (
	keyLogin      = "gareline:ratelimit:login:%s"
	loginEndpoint = "auth.login"
)

// LoginLimiter throttles login attempts per client IP.
type LoginLimiter struct {
	bucket  *TokenBucket
	rate    float64
	burst   int
	log     *zap.Logger
	metrics *metrics.Metrics
}

func NewLoginLimiter(cfg config.Config, client *redis.Client, m *metrics.Metrics, log *zap.Logger) *LoginLimiter {
	if client == nil || cfg.RateLimit.LoginPerMinute <= 0 {
		return nil
	}
	burst := cfg.RateLimit.LoginBurst
	if burst <= 0 {
		burst = cfg.RateLimit.LoginPerMinute
	}
	return &LoginLimiter{
		bucket:  NewTokenBucket(client),
		rate:    float64(cfg.RateLimit.LoginPerMinute) / 60,
		burst:   burst,
		log:     log.Named("ratelimit.login"),
		metrics: m,
	}
}

func (l *LoginLimiter) Enabled() bool {
	return l != nil && l.bucket != nil
}

// Allow reports whether the client may attempt a login. Redis failures fail open.
func (l *LoginLimiter) Allow(ctx context.Context, clientIP string) (bool, time.Duration) {
	if !l.Enabled() {
		return true, 0
	}

	key := fmt.Sprintf(keyLogin, strings.TrimSpace(clientIP))
	result, err := l.bucket.Allow(ctx, key, l.rate, l.burst)
	if err != nil {
		l.log.Warn("login rate limit check failed", zap.Error(err))
		l.metrics.RecordRateLimitAllowed(ctx, loginEndpoint)
		return true, 0
	}
	if !result.Allowed {
		l.metrics.RecordRateLimitDenied(ctx, loginEndpoint, "bucket_empty")
		return false, result.RetryAfter
	}
	l.metrics.RecordRateLimitAllowed(ctx, loginEndpoint)
	return true, 0
}
