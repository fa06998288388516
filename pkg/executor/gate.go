package executor

import (
	"context"
	"errors"

	"github.com/kishhcodes/cloudgate/pkg/pipeline"
	"github.com/kishhcodes/cloudgate/pkg/ratelimit"
	"github.com/kishhcodes/cloudgate/pkg/shared/circuitbreaker"
	gwerrors "github.com/kishhcodes/cloudgate/pkg/shared/errors"
)

// Executor wraps Run with the resilience concerns a live gateway needs: a
// concurrency cap on in-flight child processes and a circuit breaker that
// opens after repeated auth/timeout failures against one provider, so a
// provider outage or expired credential does not spend every caller's
// MaxWallClock re-discovering the same failure.
type Executor struct {
	limiter ratelimit.Limiter
	breaker *circuitbreaker.Breaker
}

// New constructs an Executor. limiter and breaker may be nil; nil limiter
// means unbounded concurrency, nil breaker means no circuit breaking.
func New(limiter ratelimit.Limiter, breaker *circuitbreaker.Breaker) *Executor {
	if limiter == nil {
		limiter = ratelimit.NewInProcess(0)
	}
	return &Executor{limiter: limiter, breaker: breaker}
}

// Execute acquires a concurrency slot, then runs stages through the
// circuit breaker (if configured) and Run.
func (e *Executor) Execute(ctx context.Context, stages []pipeline.Stage, opts Options) (Result, error) {
	release, err := e.limiter.Acquire(ctx)
	if err != nil {
		return Result{}, err
	}
	defer release()

	if e.breaker == nil {
		return Run(ctx, stages, opts)
	}

	out, err := e.breaker.Execute(func() (any, error) {
		res, runErr := Run(ctx, stages, opts)
		if runErr != nil {
			return res, runErr
		}
		if res.ErrorKind == gwerrors.KindAuth || res.ErrorKind == gwerrors.KindTimeout {
			return res, errors.New(string(res.ErrorKind))
		}
		return res, nil
	})

	if err != nil {
		if res, ok := out.(Result); ok && res.Status != "" {
			return res, nil
		}
		return Result{
			Status:    Error,
			ErrorKind: gwerrors.KindExecution,
			Output:    "circuit breaker open: repeated failures against this provider",
		}, nil
	}

	res, _ := out.(Result)
	return res, nil
}
