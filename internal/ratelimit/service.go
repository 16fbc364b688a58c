package ratelimit

import (
	"appointment-ivr/internal/clients/redis"
	"appointment-ivr/internal/observability"
	"context"
	"fmt"
	"sync"
	"time"

	goredis "github.com/redis/go-redis/v9"
)

const (
	window = time.Minute
	// sweepThreshold is how many tracked keys trigger dropping idle ones.
	sweepThreshold = 1024
)

// RateLimitResult represents the result of a rate limit check
type RateLimitResult struct {
	Allowed      bool      `json:"allowed"`
	Limit        int       `json:"limit"`
	Remaining    int       `json:"remaining"`
	ResetAt      time.Time `json:"reset_at"`
	RetryAfterMs int       `json:"retry_after_ms,omitempty"`
}

// Service limits requests per key over a sliding one minute window. Redis
// is used when configured so limits hold across instances; otherwise each
// instance keeps its own window in memory.
type Service struct {
	redis  *redis.Client
	limit  int
	now    func() time.Time
	logger *observability.Logger

	mu      sync.Mutex
	windows map[string][]time.Time
}

// NewService creates a limiter allowing limit requests per minute per key.
// A nil redis client selects the in-memory window.
func NewService(redis *redis.Client, limit int, logger *observability.Logger) *Service {
	return &Service{
		redis:   redis,
		limit:   limit,
		now:     time.Now,
		logger:  logger,
		windows: make(map[string][]time.Time),
	}
}

// CheckRateLimit records a request for key and reports whether it is allowed.
func (s *Service) CheckRateLimit(ctx context.Context, key string) (RateLimitResult, error) {
	if s.redis != nil && s.redis.IsEnabled() {
		result, err := s.checkRateLimitRedis(ctx, key)
		if err != nil {
			s.logger.Error(ctx, "Redis rate limit check failed, falling back to memory", err)
			return s.checkRateLimitMemory(key), nil
		}
		return result, nil
	}
	return s.checkRateLimitMemory(key), nil
}

// checkRateLimitRedis keeps request timestamps in a sorted set per key.
func (s *Service) checkRateLimitRedis(ctx context.Context, key string) (RateLimitResult, error) {
	redisKey := "ivr:rl:" + key
	now := s.now()
	nowMs := now.UnixMilli()
	windowStartMs := now.Add(-window).UnixMilli()
	client := s.redis.GetClient()

	if err := client.ZRemRangeByScore(ctx, redisKey, "0", fmt.Sprintf("%d", windowStartMs)).Err(); err != nil {
		return RateLimitResult{}, fmt.Errorf("failed to remove old entries: %w", err)
	}

	count, err := client.ZCard(ctx, redisKey).Result()
	if err != nil {
		return RateLimitResult{}, fmt.Errorf("failed to count requests: %w", err)
	}

	if int(count) >= s.limit {
		oldest, err := client.ZRangeWithScores(ctx, redisKey, 0, 0).Result()
		if err != nil || len(oldest) == 0 {
			return s.denied(now, now), nil
		}
		return s.denied(now, time.UnixMilli(int64(oldest[0].Score))), nil
	}

	member := goredis.Z{Score: float64(nowMs), Member: fmt.Sprintf("%d-%d", nowMs, count)}
	if err := client.ZAdd(ctx, redisKey, member).Err(); err != nil {
		return RateLimitResult{}, fmt.Errorf("failed to add request: %w", err)
	}
	if err := s.redis.Expire(ctx, redisKey, 2*window); err != nil {
		s.logger.Warn(ctx, "failed to set expiration on rate limit key")
	}

	return RateLimitResult{
		Allowed:   true,
		Limit:     s.limit,
		Remaining: s.limit - int(count) - 1,
		ResetAt:   now.Add(window),
	}, nil
}

func (s *Service) checkRateLimitMemory(key string) RateLimitResult {
	now := s.now()
	cutoff := now.Add(-window)

	s.mu.Lock()
	defer s.mu.Unlock()

	if len(s.windows) >= sweepThreshold {
		s.sweep(cutoff)
	}

	kept := s.windows[key][:0]
	for _, t := range s.windows[key] {
		if t.After(cutoff) {
			kept = append(kept, t)
		}
	}

	if len(kept) >= s.limit {
		s.windows[key] = kept
		return s.denied(now, kept[0])
	}

	kept = append(kept, now)
	s.windows[key] = kept
	return RateLimitResult{
		Allowed:   true,
		Limit:     s.limit,
		Remaining: s.limit - len(kept),
		ResetAt:   kept[0].Add(window),
	}
}

// sweep drops keys with no requests inside the window.
func (s *Service) sweep(cutoff time.Time) {
	for key, times := range s.windows {
		if len(times) == 0 || !times[len(times)-1].After(cutoff) {
			delete(s.windows, key)
		}
	}
}

// denied builds a rejection that clears once oldest leaves the window.
func (s *Service) denied(now, oldest time.Time) RateLimitResult {
	resetAt := oldest.Add(window)
	retryAfter := resetAt.Sub(now)
	if retryAfter < 0 {
		retryAfter = 0
	}
	return RateLimitResult{
		Allowed:      false,
		Limit:        s.limit,
		Remaining:    0,
		ResetAt:      resetAt,
		RetryAfterMs: int(retryAfter.Milliseconds()),
	}
}
