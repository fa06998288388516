// Package playbook implements the immutable remediation plan model
// (component C6): actions, prerequisites, and the metadata (approval,
// rollback, timeout) a Playbook Executor run is governed by.
package playbook

import (
	"time"

	"github.com/google/cel-go/cel"
)

// BuiltinKinds are the action kinds the handler registry always supports
// without explicit registration.
var BuiltinKinds = map[string]bool{
	"aws": true, "gcp": true, "azure": true, "notification": true, "script": true,
}

// Action is one immutable step of a Playbook.
type Action struct {
	Name        string
	Kind        string
	Params      map[string]any
	RollbackRef string

	// predicate, when non-nil, is evaluated (by the executor, via CEL)
	// against the run's finding/context before the action is dispatched;
	// a false result skips the action without failing the run.
	predicate cel.Program
	predicateExpr string
}

// Predicate returns the compiled CEL predicate program and the source
// expression it was compiled from, or (nil, "") if the action is
// unconditional.
func (a Action) Predicate() (cel.Program, string) {
	return a.predicate, a.predicateExpr
}

// Finding is external input the engine reads but never mutates.
type Finding struct {
	ID              string
	Category        string
	Severity        string
	Resource        string
	RemediationHint string
}

// Playbook is immutable once returned by Builder.Build.
type Playbook struct {
	ID                string
	Name              string
	Description       string
	Category          string
	Severity          string
	Prerequisites     []string
	Actions           []Action
	RequiresApproval  bool
	RollbackEnabled   bool
	Timeout           time.Duration
}
