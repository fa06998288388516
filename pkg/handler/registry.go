// Package handler implements the action handler registry (component C8):
// a typed dispatch table from an action's kind to the function that
// executes it, with the built-in kinds registered at construction.
package handler

import (
	"context"
	"sync"
	"time"

	"github.com/kishhcodes/cloudgate/pkg/playbook"
	gwerrors "github.com/kishhcodes/cloudgate/pkg/shared/errors"
)

// Status mirrors the ActionResult lifecycle states an action can reach.
type Status string

const (
	Pending    Status = "Pending"
	Running    Status = "Running"
	Completed  Status = "Completed"
	Failed     Status = "Failed"
	Skipped    Status = "Skipped"
	RolledBack Status = "RolledBack"
)

// Result is the outcome of invoking one handler.
type Result struct {
	Status        Status
	Message       string
	Err           error
	RollbackToken string
}

// RollbackInput carries everything a rollback sub-handler needs to reverse
// a previously successful action.
type RollbackInput struct {
	Action playbook.Action
	Token  string
	Ctx    Context
}

// Context is the per-run context passed to every handler invocation:
// the triggering finding, the provider gateways a handler may route
// through, and whether the run is a dry run.
type Context struct {
	Finding playbook.Finding
	DryRun  bool
	Started time.Time
}

// Func is a handler's signature: given the action, whether this run is a
// dry run, and the run context, produce a Result.
type Func func(ctx context.Context, action playbook.Action, dryRun bool, runCtx Context) Result

// RollbackFunc reverses a previously successful action using its recorded
// rollback token.
type RollbackFunc func(ctx context.Context, input RollbackInput) Result

// Registry is the kind → handler dispatch table. Registration is typically
// a one-time startup operation but is safe for concurrent use if performed
// dynamically.
type Registry struct {
	mu        sync.RWMutex
	handlers  map[string]Func
	rollbacks map[string]RollbackFunc
}

// NewRegistry returns an empty Registry. Callers typically follow this with
// RegisterBuiltins.
func NewRegistry() *Registry {
	return &Registry{
		handlers:  map[string]Func{},
		rollbacks: map[string]RollbackFunc{},
	}
}

// Register adds or replaces the handler for kind.
func (r *Registry) Register(kind string, fn Func) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.handlers[kind] = fn
}

// RegisterRollback adds or replaces the rollback sub-handler for kind.
func (r *Registry) RegisterRollback(kind string, fn RollbackFunc) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.rollbacks[kind] = fn
}

// Unregister removes kind's handler, if any.
func (r *Registry) Unregister(kind string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.handlers, kind)
	delete(r.rollbacks, kind)
}

// Resolve returns kind's handler, or (nil, false) if none is registered.
func (r *Registry) Resolve(kind string) (Func, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	fn, ok := r.handlers[kind]
	return fn, ok
}

// ResolveRollback returns kind's rollback sub-handler, or (nil, false) if
// none is registered.
func (r *Registry) ResolveRollback(kind string) (RollbackFunc, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	fn, ok := r.rollbacks[kind]
	return fn, ok
}

// IsRegistered reports whether kind has a handler.
func (r *Registry) IsRegistered(kind string) bool {
	_, ok := r.Resolve(kind)
	return ok
}

// Count returns the number of registered handlers.
func (r *Registry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.handlers)
}

// HandlerMissing builds the discriminated error C7 returns when a
// playbook references an unregistered kind.
func HandlerMissing(kind string) error {
	return gwerrors.NewCategory(gwerrors.KindHandlerMissing, kind, "no handler registered for action kind: "+kind)
}
