package executor

import (
	"time"

	gwerrors "github.com/kishhcodes/cloudgate/pkg/shared/errors"
)

// DefaultMaxOutputBytes is the default cap on a single execution's captured
// stdout, per stage's combined output. 1 MiB.
const DefaultMaxOutputBytes = 1 << 20

// DefaultMaxWallClock bounds how long a pipeline may run before it is
// terminated.
const DefaultMaxWallClock = 30 * time.Second

// TerminateGrace is how long a terminated child is given to exit before a
// forcible kill is sent.
const TerminateGrace = 500 * time.Millisecond

// Status is the coarse outcome of an execution.
type Status string

const (
	Success Status = "Success"
	Error   Status = "Error"
)

// Result is the record produced by Execute.
type Result struct {
	Status     Status
	Output     string
	Structured any
	ExitCode   int
	ErrorKind  gwerrors.Kind // one of KindTimeout, KindAuth, KindValidation, KindExecution, KindNone
	Truncated  bool
	Elapsed    time.Duration
	Warning    string
}

// Options bounds a single Execute call.
type Options struct {
	MaxOutputBytes int
	MaxWallClock   time.Duration
	// Env overlays environment variables injected into the stage-0 child
	// (provider context), never overriding a variable already present in
	// the inherited environment's equivalent CLI flag.
	Env map[string]string
	// AuthErrorPatterns are case-insensitive substrings checked against
	// combined stderr to classify ErrorKind=AuthError.
	AuthErrorPatterns []string
}

// WithDefaults fills zero-valued fields with package defaults.
func (o Options) WithDefaults() Options {
	if o.MaxOutputBytes <= 0 {
		o.MaxOutputBytes = DefaultMaxOutputBytes
	}
	if o.MaxWallClock <= 0 {
		o.MaxWallClock = DefaultMaxWallClock
	}
	return o
}
