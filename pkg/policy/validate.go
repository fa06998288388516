package policy

import (
	"context"

	"github.com/kishhcodes/cloudgate/pkg/provider"
)

// Validate classifies tokens against spec and evaluates the resulting
// Classification through e under mode. It is the composition C5 calls for
// every command before executing it.
func Validate(ctx context.Context, e *Engine, spec provider.Spec, tokens []string, mode Mode) (Classification, Decision, error) {
	c := Classify(spec, tokens)
	d, err := e.Validate(ctx, c, mode)
	return c, d, err
}
