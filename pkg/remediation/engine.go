package remediation

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/go-logr/logr"

	"github.com/kishhcodes/cloudgate/pkg/audit"
	"github.com/kishhcodes/cloudgate/pkg/handler"
	"github.com/kishhcodes/cloudgate/pkg/playbook"
	"github.com/kishhcodes/cloudgate/pkg/ratelimit"
	gwerrors "github.com/kishhcodes/cloudgate/pkg/shared/errors"
)

// PrerequisiteFunc checks one named prerequisite before a playbook's actions
// run. A non-nil error fails the execution before any action is dispatched.
type PrerequisiteFunc func(ctx context.Context, finding playbook.Finding) error

// Config wires an Engine's collaborators.
type Config struct {
	Registry      *handler.Registry
	Limiter       ratelimit.Limiter // caps concurrent Running/AwaitingApproval executions; nil means unlimited
	Sink          audit.AuditSink   // optional durable audit trail; the in-memory History is always kept regardless
	Logger        logr.Logger
	Prerequisites map[string]PrerequisiteFunc
}

// Engine is the Playbook Executor (C7). It is safe for concurrent use.
type Engine struct {
	mu            sync.Mutex
	executions    map[string]*Execution
	registry      *handler.Registry
	limiter       ratelimit.Limiter
	sink          audit.AuditSink
	log           logr.Logger
	prerequisites map[string]PrerequisiteFunc
}

// New returns an Engine. A nil Registry is invalid; callers must supply one
// (typically via handler.NewRegistry + handler.RegisterBuiltins).
func New(cfg Config) *Engine {
	limiter := cfg.Limiter
	if limiter == nil {
		limiter = ratelimit.NewInProcess(0)
	}
	prereqs := cfg.Prerequisites
	if prereqs == nil {
		prereqs = map[string]PrerequisiteFunc{}
	}
	return &Engine{
		executions:    map[string]*Execution{},
		registry:      cfg.Registry,
		limiter:       limiter,
		sink:          cfg.Sink,
		log:           cfg.Logger,
		prerequisites: prereqs,
	}
}

// RegisterHandler delegates to the underlying handler registry.
func (e *Engine) RegisterHandler(kind string, fn handler.Func) {
	e.registry.Register(kind, fn)
}

// RegisterPrerequisite adds a named prerequisite check.
func (e *Engine) RegisterPrerequisite(name string, fn PrerequisiteFunc) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.prerequisites[name] = fn
}

// Validate checks that every action kind in pb resolves to a registered
// handler, and that every named prerequisite is registered.
func (e *Engine) Validate(pb playbook.Playbook) error {
	for _, a := range pb.Actions {
		if !e.registry.IsRegistered(a.Kind) {
			return handler.HandlerMissing(a.Kind)
		}
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	for _, name := range pb.Prerequisites {
		if _, ok := e.prerequisites[name]; !ok {
			return gwerrors.NewCategory(gwerrors.KindValidation, "prerequisite", "no prerequisite registered: "+name)
		}
	}
	return nil
}

func newExecutionID(playbookID string) string {
	return fmt.Sprintf("%s-%d", playbookID, time.Now().UnixNano())
}

// Execute starts a new run of pb against finding. If pb requires approval,
// the returned Execution is AwaitingApproval and no action has dispatched;
// otherwise actions begin dispatching in the background and the returned
// Execution reflects the Running state at the moment of this call. A
// concurrency-limit rejection returns ResourceExhaustedError without
// creating or mutating any execution record.
func (e *Engine) Execute(ctx context.Context, pb playbook.Playbook, finding playbook.Finding, initiator string, dryRun bool) (Execution, error) {
	if err := e.Validate(pb); err != nil {
		return Execution{}, err
	}

	release, err := e.limiter.Acquire(ctx)
	if err != nil {
		return Execution{}, err
	}

	exec := &Execution{
		ID:           newExecutionID(pb.ID),
		PlaybookID:   pb.ID,
		PlaybookName: pb.Name,
		FindingID:    finding.ID,
		Initiator:    initiator,
		StartedAt:    time.Now(),
		DryRun:       dryRun,
		Status:       Pending,
		release:      release,
	}

	e.mu.Lock()
	e.executions[exec.ID] = exec
	e.mu.Unlock()

	if pb.RequiresApproval {
		e.mu.Lock()
		exec.Status = AwaitingApproval
		snapshot := copyExecution(exec)
		e.mu.Unlock()
		e.auditTransition(ctx, snapshot, "awaiting approval")
		return snapshot, nil
	}

	e.mu.Lock()
	exec.Status = Running
	snapshot := copyExecution(exec)
	e.mu.Unlock()
	e.auditTransition(ctx, snapshot, "dispatch started")

	go e.dispatch(context.WithoutCancel(ctx), exec, pb, finding)

	return snapshot, nil
}

// Approve transitions executionID out of AwaitingApproval and starts action
// dispatch. It is a no-op (StateError) unless the execution is currently
// AwaitingApproval.
func (e *Engine) Approve(ctx context.Context, executionID, approver string, pb playbook.Playbook, finding playbook.Finding) error {
	e.mu.Lock()
	exec, ok := e.executions[executionID]
	if !ok {
		e.mu.Unlock()
		return gwerrors.NewCategory(gwerrors.KindState, "not-found", "unknown execution: "+executionID)
	}
	if exec.Status != AwaitingApproval {
		e.mu.Unlock()
		return gwerrors.NewCategory(gwerrors.KindState, "invalid-transition", "approve is only valid from AwaitingApproval")
	}
	exec.Approver = approver
	exec.Status = Running
	snapshot := copyExecution(exec)
	e.mu.Unlock()
	e.auditTransition(ctx, snapshot, "approved")

	go e.dispatch(context.WithoutCancel(ctx), exec, pb, finding)
	return nil
}

// Reject transitions executionID from AwaitingApproval to Rejected.
func (e *Engine) Reject(ctx context.Context, executionID, rejector, reason string) error {
	e.mu.Lock()
	exec, ok := e.executions[executionID]
	if !ok {
		e.mu.Unlock()
		return gwerrors.NewCategory(gwerrors.KindState, "not-found", "unknown execution: "+executionID)
	}
	if exec.Status != AwaitingApproval {
		e.mu.Unlock()
		return gwerrors.NewCategory(gwerrors.KindState, "invalid-transition", "reject is only valid from AwaitingApproval")
	}
	exec.RejectionReason = reason
	exec.Status = Rejected
	exec.EndedAt = time.Now()
	snapshot := copyExecution(exec)
	e.mu.Unlock()
	e.auditTransition(ctx, snapshot, "rejected: "+reason)
	return nil
}

// Get returns a snapshot of executionID's current state.
func (e *Engine) Get(executionID string) (Execution, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	exec, ok := e.executions[executionID]
	if !ok {
		return Execution{}, false
	}
	return copyExecution(exec), true
}

// History returns executions matching filter, newest first, bounded by
// limit (0 means unbounded).
func (e *Engine) History(filter HistoryFilter, limit int) []Execution {
	e.mu.Lock()
	defer e.mu.Unlock()

	matches := make([]Execution, 0, len(e.executions))
	for _, exec := range e.executions {
		if filter.PlaybookID != "" && exec.PlaybookID != filter.PlaybookID {
			continue
		}
		if filter.FindingID != "" && exec.FindingID != filter.FindingID {
			continue
		}
		matches = append(matches, copyExecution(exec))
	}
	sortByStartedAtDesc(matches)
	if limit > 0 && len(matches) > limit {
		matches = matches[:limit]
	}
	return matches
}

func sortByStartedAtDesc(execs []Execution) {
	for i := 1; i < len(execs); i++ {
		j := i
		for j > 0 && execs[j-1].StartedAt.Before(execs[j].StartedAt) {
			execs[j-1], execs[j] = execs[j], execs[j-1]
			j--
		}
	}
}

// auditTransition records a lifecycle-level event (no specific action).
func (e *Engine) auditTransition(ctx context.Context, exec Execution, detail string) {
	e.auditRecord(ctx, audit.AuditRecord{
		ExecutionID: exec.ID,
		PlaybookID:  exec.PlaybookID,
		FindingID:   exec.FindingID,
		Status:      string(exec.Status),
		Timestamp:   time.Now(),
		Detail:      detail,
	})
}

// auditAction records one action's outcome.
func (e *Engine) auditAction(ctx context.Context, exec *Execution, ar ActionResult) {
	e.auditRecord(ctx, audit.AuditRecord{
		ExecutionID: exec.ID,
		PlaybookID:  exec.PlaybookID,
		FindingID:   exec.FindingID,
		Action:      ar.ActionName,
		Status:      string(ar.Status),
		Timestamp:   ar.EndedAt,
		Detail:      ar.Message,
	})
}

func (e *Engine) auditRecord(ctx context.Context, rec audit.AuditRecord) {
	if e.sink == nil {
		return
	}
	if err := e.sink.Record(ctx, rec); err != nil {
		e.log.Error(err, "audit sink record failed", "executionId", rec.ExecutionID)
	}
}
