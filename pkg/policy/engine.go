package policy

import (
	"context"
	_ "embed"
	"os"
	"sync/atomic"

	"github.com/open-policy-agent/opa/rego"

	gwerrors "github.com/kishhcodes/cloudgate/pkg/shared/errors"
)

//go:embed rego/default.rego
var defaultPolicySource string

const regoQuery = "data.cloudgate.policy"

type regoResult struct {
	Allow  bool   `json:"allow"`
	Warn   bool   `json:"warn"`
	Reason string `json:"reason"`
}

// Engine evaluates the allow/deny decision for a Classification under a
// Mode via an embedded Rego policy module. The policy can be hot-swapped at
// runtime with Reload; evaluation always uses the most recently loaded
// query.
type Engine struct {
	query atomic.Pointer[rego.PreparedEvalQuery]
}

// NewEngine constructs an Engine from the bundled default policy.
func NewEngine(ctx context.Context) (*Engine, error) {
	e := &Engine{}
	if err := e.Reload(ctx, defaultPolicySource); err != nil {
		return nil, err
	}
	return e, nil
}

// NewEngineFromFile constructs an Engine from a policy file on disk,
// falling back to LoadFile's error if the file cannot be compiled.
func NewEngineFromFile(ctx context.Context, path string) (*Engine, error) {
	e := &Engine{}
	if err := e.LoadFile(ctx, path); err != nil {
		return nil, err
	}
	return e, nil
}

// Reload compiles source and, on success, atomically swaps it in as the
// active policy. A compile error leaves the previously active policy in
// place.
func (e *Engine) Reload(ctx context.Context, source string) error {
	r := rego.New(
		rego.Query(regoQuery),
		rego.Module("cloudgate_policy.rego", source),
	)
	prepared, err := r.PrepareForEval(ctx)
	if err != nil {
		return gwerrors.Wrap(gwerrors.KindValidation, "compile policy module", err)
	}
	e.query.Store(&prepared)
	return nil
}

// LoadFile reads path and reloads the policy from its contents.
func (e *Engine) LoadFile(ctx context.Context, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return gwerrors.Wrap(gwerrors.KindValidation, "read policy file", err)
	}
	return e.Reload(ctx, string(data))
}

// Validate evaluates a Classification under mode and returns the
// allow/deny Decision.
func (e *Engine) Validate(ctx context.Context, c Classification, mode Mode) (Decision, error) {
	prepared := e.query.Load()
	if prepared == nil {
		return Decision{}, gwerrors.New(gwerrors.KindValidation, "policy engine has no active policy")
	}

	input := map[string]any{
		"tier":     c.Tier.String(),
		"mode":     modeInputValue(mode),
		"matched":  c.Matched,
		"category": string(c.Category),
	}

	rs, err := prepared.Eval(ctx, rego.EvalInput(input))
	if err != nil {
		return Decision{}, gwerrors.Wrap(gwerrors.KindValidation, "evaluate policy", err)
	}
	if len(rs) == 0 || len(rs[0].Expressions) == 0 {
		return Decision{}, gwerrors.New(gwerrors.KindValidation, "policy produced no result")
	}

	bindings, ok := rs[0].Expressions[0].Value.(map[string]any)
	if !ok {
		return Decision{}, gwerrors.New(gwerrors.KindValidation, "policy result had unexpected shape")
	}

	result := regoResult{}
	if v, ok := bindings["allow"].(bool); ok {
		result.Allow = v
	}
	if v, ok := bindings["warn"].(bool); ok {
		result.Warn = v
	}
	if v, ok := bindings["reason"].(string); ok {
		result.Reason = v
	}

	decision := Decision{
		Allow:    result.Allow,
		Category: c.Category,
	}
	if !result.Allow {
		decision.Reason = result.Reason
	} else if result.Warn {
		decision.Warning = "command has elevated risk tier " + c.Tier.String() + "; allowed under " + mode.String() + " mode"
	}
	return decision, nil
}

func modeInputValue(m Mode) string {
	if m == Permissive {
		return "permissive"
	}
	return "strict"
}
