// Package ratelimit implements the gateway's concurrency caps: soft limits
// on concurrent playbook executions and concurrent child processes, backed
// either by an in-process semaphore or, for multi-instance deployments, by
// Redis (see pkg/ratelimit/redis).
package ratelimit

import (
	"context"

	gwerrors "github.com/kishhcodes/cloudgate/pkg/shared/errors"
)

// Limiter bounds the number of concurrently in-flight operations of one
// kind. Acquire never blocks waiting for capacity: when the limit is
// already reached it returns a KindResourceExhausted error immediately, so
// a caller never queues behind a cap that may not free up in time.
type Limiter interface {
	Acquire(ctx context.Context) (release func(), err error)
}

// semaphore is an in-process Limiter backed by a buffered channel.
type semaphore struct {
	slots chan struct{}
}

// NewInProcess returns a Limiter with the given capacity. capacity <= 0
// means unlimited.
func NewInProcess(capacity int) Limiter {
	if capacity <= 0 {
		return unlimited{}
	}
	return &semaphore{slots: make(chan struct{}, capacity)}
}

func (s *semaphore) Acquire(ctx context.Context) (func(), error) {
	select {
	case s.slots <- struct{}{}:
		return func() { <-s.slots }, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	default:
		return nil, gwerrors.New(gwerrors.KindResourceExhausted, "concurrency limit reached")
	}
}

type unlimited struct{}

func (unlimited) Acquire(context.Context) (func(), error) {
	return func() {}, nil
}
