// Package idempotency guards form submissions against being applied twice.
// Each rendered create form carries a token; the first post of a token takes a
// short lock, and a successful save leaves a longer-lived done marker.
package idempotency

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/nimasrn/school-finance/pkg/logger"
	"github.com/nimasrn/school-finance/pkg/redis"
)

var (
	ErrAlreadySubmitted   = errors.New("form already submitted")
	ErrSubmissionInFlight = errors.New("form submission in progress")
)

type Config struct {
	LockTTL time.Duration

	DoneTTL time.Duration

	LockKeyPrefix string

	DoneKeyPrefix string
}

func DefaultConfig() Config {
	return Config{
		LockTTL:       30 * time.Second,
		DoneTTL:       24 * time.Hour,
		LockKeyPrefix: "submission:lock:",
		DoneKeyPrefix: "submission:done:",
	}
}

type Guard struct {
	redis  redis.RedisAdapter
	config Config
}

func NewGuard(redisAdapter redis.RedisAdapter, config Config) *Guard {
	return &Guard{
		redis:  redisAdapter,
		config: config,
	}
}

// Acquire locks key for one submission. It returns ErrAlreadySubmitted when
// key was completed before and ErrSubmissionInFlight while another request
// holds the lock. Redis failures are logged and the submission goes ahead.
func (g *Guard) Acquire(ctx context.Context, key string) error {
	done, err := g.IsDone(ctx, key)
	if err != nil {
		logger.Warn("Failed to check submission marker", "key", key, "error", err)
	} else if done {
		logger.Info("Submission already completed", "key", key)
		return ErrAlreadySubmitted
	}

	lockValue := []byte(fmt.Sprintf("%d", time.Now().UnixNano()))
	acquired, err := g.redis.SetNX(ctx, g.config.LockKeyPrefix+key, lockValue, g.config.LockTTL)
	if err != nil {
		logger.Warn("Failed to take submission lock", "key", key, "error", err)
		return nil
	}
	if !acquired {
		logger.Info("Submission lock held by another request", "key", key)
		return ErrSubmissionInFlight
	}

	logger.Debug("Submission lock acquired", "key", key, "lock_ttl", g.config.LockTTL)
	return nil
}

// Complete marks key as done and drops its lock.
func (g *Guard) Complete(ctx context.Context, key string) error {
	if err := g.redis.Set(ctx, g.config.DoneKeyPrefix+key, []byte("1"), g.config.DoneTTL); err != nil {
		logger.Error("Failed to mark submission done", "key", key, "error", err)
		return fmt.Errorf("mark submission done: %w", err)
	}
	if err := g.redis.Del(ctx, g.config.LockKeyPrefix+key); err != nil {
		logger.Warn("Failed to drop submission lock", "key", key, "error", err)
	}
	return nil
}

// Release drops the lock so the same token can be posted again, e.g. after a
// validation error.
func (g *Guard) Release(ctx context.Context, key string) error {
	if err := g.redis.Del(ctx, g.config.LockKeyPrefix+key); err != nil {
		logger.Warn("Failed to release submission lock", "key", key, "error", err)
		return err
	}
	return nil
}

// IsDone reports whether key was completed and its marker has not expired.
func (g *Guard) IsDone(ctx context.Context, key string) (bool, error) {
	exists, err := g.redis.Exist(ctx, g.config.DoneKeyPrefix+key)
	if err != nil {
		return false, err
	}
	return exists > 0, nil
}
