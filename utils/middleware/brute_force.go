package middleware

import (
	"context"
	"fmt"
	"log"
	"strconv"
	"time"

	"github.com/qaunion/portal/utils/cache"
)

// BruteForceProtection blocks a client after MaxAttempts failed logins for
// the lockout duration; the counter starts over once the block expires
type BruteForceProtection struct {
	cache       cache.Cache
	maxAttempts int
	lockout     time.Duration
	window      time.Duration
}

func NewBruteForceProtection(c cache.Cache, maxAttempts int, lockout time.Duration) *BruteForceProtection {
	if maxAttempts < 1 {
		maxAttempts = 5
	}
	if lockout <= 0 {
		lockout = 300 * time.Second
	}
	return &BruteForceProtection{
		cache:       c,
		maxAttempts: maxAttempts,
		lockout:     lockout,
		window:      15 * time.Minute,
	}
}

func attemptKey(client string) string { return fmt.Sprintf("brute_force:attempts:%s", client) }
func lockKey(client string) string    { return fmt.Sprintf("brute_force:lock:%s", client) }

// RemainingLock returns how long client stays blocked, zero when not blocked.
// Cache failures never block.
func (b *BruteForceProtection) RemainingLock(ctx context.Context, client string) time.Duration {
	locked, err := b.cache.Exists(ctx, lockKey(client))
	if err != nil {
		log.Printf("brute force check failed for %s: %v", client, err)
		return 0
	}
	if !locked {
		return 0
	}
	ttl, err := b.cache.TTL(ctx, lockKey(client))
	if err != nil || ttl <= 0 {
		return b.lockout
	}
	return ttl
}

// RecordFailedAttempt returns the attempt number and whether it started a block
func (b *BruteForceProtection) RecordFailedAttempt(ctx context.Context, client string) (int, bool) {
	attempts, err := b.cache.Increment(ctx, attemptKey(client))
	if err != nil {
		log.Printf("brute force counter failed for %s: %v", client, err)
		return 0, false
	}
	if attempts == 1 {
		b.cache.Expire(ctx, attemptKey(client), b.window)
	}

	if int(attempts) < b.maxAttempts {
		return int(attempts), false
	}

	if err := b.cache.Set(ctx, lockKey(client), "locked", b.lockout); err != nil {
		log.Printf("brute force lock failed for %s: %v", client, err)
		return int(attempts), false
	}
	b.cache.Delete(ctx, attemptKey(client))
	return int(attempts), true
}

// RecordSuccessfulAttempt clears failed attempts on successful login
func (b *BruteForceProtection) RecordSuccessfulAttempt(ctx context.Context, client string) {
	b.cache.Delete(ctx, attemptKey(client), lockKey(client))
}

// GetAttemptCount returns the current failed attempt count for client
func (b *BruteForceProtection) GetAttemptCount(ctx context.Context, client string) int {
	val, err := b.cache.Get(ctx, attemptKey(client))
	if err != nil {
		return 0
	}
	n, _ := strconv.Atoi(val)
	return n
}

func (b *BruteForceProtection) MaxAttempts() int { return b.maxAttempts }
