// Package ratelimit enforces cooldowns between repeated actions, such as OTP resends.
package ratelimit

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

// Cooldown grants an action at most once per window per key
type Cooldown interface {
	// Acquire starts the window for key. When the window is already running it
	// returns false and the time left.
	Acquire(ctx context.Context, key string) (allowed bool, remaining time.Duration, err error)
	// Remaining reports the time left in the window for key
	Remaining(ctx context.Context, key string) (time.Duration, error)
	// Reset ends the window for key
	Reset(ctx context.Context, key string) error
}

// OTPResendKey returns the cooldown key for OTP resends to an email
func OTPResendKey(email string) string {
	return fmt.Sprintf("ratelimit:otp-resend:%s", email)
}

// RedisCooldown keeps cooldown windows in Redis so they survive restarts
type RedisCooldown struct {
	client *redis.Client
	window time.Duration
}

// NewRedisCooldown creates a Redis backed cooldown
func NewRedisCooldown(client *redis.Client, window time.Duration) *RedisCooldown {
	return &RedisCooldown{client: client, window: window}
}

func (l *RedisCooldown) Acquire(ctx context.Context, key string) (bool, time.Duration, error) {
	if l.window <= 0 {
		return true, 0, nil
	}

	ok, err := l.client.SetNX(ctx, key, "1", l.window).Result()
	if err != nil {
		return false, 0, fmt.Errorf("failed to start cooldown: %w", err)
	}
	if ok {
		return true, 0, nil
	}

	remaining, err := l.Remaining(ctx, key)
	if err != nil {
		return false, 0, err
	}
	if remaining <= 0 {
		// key expired between SETNX and TTL
		return l.Acquire(ctx, key)
	}
	return false, remaining, nil
}

func (l *RedisCooldown) Remaining(ctx context.Context, key string) (time.Duration, error) {
	ttl, err := l.client.TTL(ctx, key).Result()
	if err != nil && err != redis.Nil {
		return 0, fmt.Errorf("failed to check cooldown: %w", err)
	}
	if ttl < 0 {
		return 0, nil
	}
	return ttl, nil
}

func (l *RedisCooldown) Reset(ctx context.Context, key string) error {
	if err := l.client.Del(ctx, key).Err(); err != nil {
		return fmt.Errorf("failed to clear cooldown: %w", err)
	}
	return nil
}

// MemoryCooldown keeps cooldown windows in process memory
type MemoryCooldown struct {
	mu       sync.Mutex
	window   time.Duration
	deadline map[string]time.Time
	now      func() time.Time
}

// NewMemoryCooldown creates an in-memory cooldown
func NewMemoryCooldown(window time.Duration) *MemoryCooldown {
	return &MemoryCooldown{
		window:   window,
		deadline: make(map[string]time.Time),
		now:      time.Now,
	}
}

func (l *MemoryCooldown) Acquire(_ context.Context, key string) (bool, time.Duration, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	if until, ok := l.deadline[key]; ok && now.Before(until) {
		return false, until.Sub(now), nil
	}
	if l.window > 0 {
		l.deadline[key] = now.Add(l.window)
	}
	return true, 0, nil
}

func (l *MemoryCooldown) Remaining(_ context.Context, key string) (time.Duration, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	until, ok := l.deadline[key]
	if !ok {
		return 0, nil
	}
	left := until.Sub(l.now())
	if left <= 0 {
		delete(l.deadline, key)
		return 0, nil
	}
	return left, nil
}

func (l *MemoryCooldown) Reset(_ context.Context, key string) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	delete(l.deadline, key)
	return nil
}
