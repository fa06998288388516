package playbook

import (
	"time"

	"github.com/google/cel-go/cel"

	gwerrors "github.com/kishhcodes/cloudgate/pkg/shared/errors"
)

// Builder constructs a Playbook incrementally. The zero value is ready to
// use.
type Builder struct {
	playbook Playbook
	celEnv   *cel.Env
	names    map[string]bool
}

// NewBuilder returns a Builder. A CEL environment shared by every action
// predicate on this playbook is created lazily on first use.
func NewBuilder(id, name string) *Builder {
	return &Builder{
		playbook: Playbook{ID: id, Name: name},
		names:    map[string]bool{},
	}
}

func (b *Builder) WithDescription(d string) *Builder {
	b.playbook.Description = d
	return b
}

func (b *Builder) WithCategory(c string) *Builder {
	b.playbook.Category = c
	return b
}

func (b *Builder) WithSeverity(s string) *Builder {
	b.playbook.Severity = s
	return b
}

func (b *Builder) RequireApproval(v bool) *Builder {
	b.playbook.RequiresApproval = v
	return b
}

func (b *Builder) EnableRollback(v bool) *Builder {
	b.playbook.RollbackEnabled = v
	return b
}

func (b *Builder) WithTimeout(d time.Duration) *Builder {
	b.playbook.Timeout = d
	return b
}

func (b *Builder) AddPrerequisite(name string) *Builder {
	b.playbook.Prerequisites = append(b.playbook.Prerequisites, name)
	return b
}

// AddAction appends an action. predicateExpr may be empty for an
// unconditional action, or a CEL boolean expression evaluated against the
// run's `finding` and `dryRun` variables.
func (b *Builder) AddAction(name, kind string, params map[string]any, rollbackRef, predicateExpr string) error {
	if b.names[name] {
		return gwerrors.NewCategory(gwerrors.KindValidation, "duplicate-action", "action name already used: "+name)
	}

	action := Action{Name: name, Kind: kind, Params: params, RollbackRef: rollbackRef}
	if predicateExpr != "" {
		prog, err := b.compilePredicate(predicateExpr)
		if err != nil {
			return err
		}
		action.predicate = prog
		action.predicateExpr = predicateExpr
	}

	b.names[name] = true
	b.playbook.Actions = append(b.playbook.Actions, action)
	return nil
}

func (b *Builder) compilePredicate(expr string) (cel.Program, error) {
	if b.celEnv == nil {
		env, err := cel.NewEnv(
			cel.Variable("finding", cel.MapType(cel.StringType, cel.DynType)),
			cel.Variable("dryRun", cel.BoolType),
		)
		if err != nil {
			return nil, gwerrors.Wrap(gwerrors.KindValidation, "create predicate environment", err)
		}
		b.celEnv = env
	}

	ast, issues := b.celEnv.Compile(expr)
	if issues != nil && issues.Err() != nil {
		return nil, gwerrors.Wrap(gwerrors.KindValidation, "compile action predicate", issues.Err())
	}
	prog, err := b.celEnv.Program(ast)
	if err != nil {
		return nil, gwerrors.Wrap(gwerrors.KindValidation, "build predicate program", err)
	}
	return prog, nil
}

// Build validates structural invariants and returns the immutable Playbook.
// Build does not check action kinds against a handler registry; that is
// pkg/remediation's responsibility once a registry is available.
func (b *Builder) Build() (Playbook, error) {
	if b.playbook.ID == "" || b.playbook.Name == "" {
		return Playbook{}, gwerrors.New(gwerrors.KindValidation, "playbook requires a non-empty id and name")
	}
	if len(b.playbook.Actions) == 0 {
		return Playbook{}, gwerrors.New(gwerrors.KindValidation, "playbook requires at least one action")
	}
	return b.playbook, nil
}
