// Package redis implements ratelimit.Limiter on top of Redis, so that a
// concurrency cap (playbook executions, child processes) is shared across
// every gateway instance behind a load balancer rather than enforced
// per-process.
package redis

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/kishhcodes/cloudgate/pkg/ratelimit"
	gwerrors "github.com/kishhcodes/cloudgate/pkg/shared/errors"
)

// Limiter implements ratelimit.Limiter as a distributed counting semaphore:
// Key is INCRed on Acquire and DECRed on release, with a TTL refreshed on
// every INCR so a crashed holder's slot is eventually reclaimed even
// without a clean release.
type Limiter struct {
	client   *redis.Client
	key      string
	capacity int64
	ttl      time.Duration
}

// New builds a distributed Limiter. capacity is the maximum number of
// concurrent holders; ttl bounds how long an uncleanly-released slot is
// held before Redis expires the counter key.
func New(client *redis.Client, key string, capacity int64, ttl time.Duration) *Limiter {
	return &Limiter{client: client, key: key, capacity: capacity, ttl: ttl}
}

var _ ratelimit.Limiter = (*Limiter)(nil)

func (l *Limiter) Acquire(ctx context.Context) (func(), error) {
	count, err := l.client.Incr(ctx, l.key).Result()
	if err != nil {
		return nil, gwerrors.Wrap(gwerrors.KindResourceExhausted, "acquire distributed limiter slot", err)
	}
	if count == 1 {
		l.client.Expire(ctx, l.key, l.ttl)
	}
	if count > l.capacity {
		l.client.Decr(ctx, l.key)
		return nil, gwerrors.New(gwerrors.KindResourceExhausted, "concurrency limit reached")
	}

	release := func() {
		releaseCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		l.client.Decr(releaseCtx, l.key)
	}
	return release, nil
}
