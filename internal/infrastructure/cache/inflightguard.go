package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/savedeities/contribute/internal/application/checkout"
)

const (
	// InFlightPrefix is the Redis key prefix for per-donor attempt locks
	InFlightPrefix = "contribute:inflight:"
	// InFlightTTL bounds a lock whose holder died without releasing it
	InFlightTTL = 2 * time.Hour
)

// releaseIfOwnerScript deletes the lock only when the caller still holds it.
var releaseIfOwnerScript = redis.NewScript(`
	if redis.call('GET', KEYS[1]) == ARGV[1] then
		return redis.call('DEL', KEYS[1])
	end
	return 0
`)

// acquireScript takes a free lock or renews one the owner already holds.
var acquireScript = redis.NewScript(`
	local current = redis.call('GET', KEYS[1])
	if current == false or current == ARGV[1] then
		redis.call('SET', KEYS[1], ARGV[1], 'PX', ARGV[2])
		return 1
	end
	return 0
`)

// InFlightGuard keeps a donor to one running attempt across every session
// and service instance.
type InFlightGuard struct {
	client *redis.Client
	prefix string
}

var _ checkout.InFlightGuard = (*InFlightGuard)(nil)

func NewInFlightGuard(client *redis.Client) *InFlightGuard {
	return &InFlightGuard{client: client, prefix: InFlightPrefix}
}

// Acquire takes the lock for key on behalf of owner. It succeeds again for
// the current owner.
func (g *InFlightGuard) Acquire(ctx context.Context, key, owner string, ttl time.Duration) (bool, error) {
	if ttl <= 0 {
		ttl = InFlightTTL
	}
	n, err := acquireScript.Run(ctx, g.client, []string{g.prefix + key}, owner, ttl.Milliseconds()).Int()
	if err != nil {
		return false, fmt.Errorf("failed to acquire in-flight lock: %w", err)
	}
	return n == 1, nil
}

// Release frees the lock if owner still holds it.
func (g *InFlightGuard) Release(ctx context.Context, key, owner string) error {
	if err := releaseIfOwnerScript.Run(ctx, g.client, []string{g.prefix + key}, owner).Err(); err != nil {
		return fmt.Errorf("failed to release in-flight lock: %w", err)
	}
	return nil
}
