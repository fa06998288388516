package remediation

import (
	"context"
	"time"

	"github.com/google/cel-go/common/types/ref"

	"github.com/kishhcodes/cloudgate/pkg/handler"
	"github.com/kishhcodes/cloudgate/pkg/playbook"
)

// dispatch runs pb's prerequisite checks and actions against exec, then
// records the terminal state. It always releases exec's concurrency slot.
func (e *Engine) dispatch(ctx context.Context, exec *Execution, pb playbook.Playbook, finding playbook.Finding) {
	defer func() {
		if exec.release != nil {
			exec.release()
		}
	}()

	if pb.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, pb.Timeout)
		defer cancel()
	}

	if err := e.runPrerequisites(ctx, pb, finding); err != nil {
		e.finish(ctx, exec, Failed, err.Error())
		return
	}

	runCtx := handler.Context{Finding: finding, DryRun: exec.DryRun, Started: time.Now()}

	for i, action := range pb.Actions {
		select {
		case <-ctx.Done():
			e.recordSkipped(ctx, exec, pb.Actions[i:])
			e.finish(ctx, exec, Failed, "Timeout")
			return
		default:
		}

		if skip, err := shouldSkip(action, finding, exec.DryRun); err != nil {
			e.appendResult(ctx, exec, ActionResult{
				ActionName: action.Name, Kind: action.Kind,
				Status: handler.Failed, Message: "predicate evaluation failed", Err: err.Error(),
				StartedAt: time.Now(), EndedAt: time.Now(),
			})
			e.recordSkipped(ctx, exec, pb.Actions[i+1:])
			e.finish(ctx, exec, Failed, "predicate evaluation failed")
			return
		} else if skip {
			e.appendResult(ctx, exec, ActionResult{
				ActionName: action.Name, Kind: action.Kind,
				Status: handler.Skipped, Message: "predicate evaluated false",
				StartedAt: time.Now(), EndedAt: time.Now(),
			})
			continue
		}

		fn, ok := e.registry.Resolve(action.Kind)
		if !ok {
			e.appendResult(ctx, exec, ActionResult{
				ActionName: action.Name, Kind: action.Kind,
				Status: handler.Failed, Message: "no handler registered", Err: "HandlerMissing",
				StartedAt: time.Now(), EndedAt: time.Now(),
			})
			e.recordSkipped(ctx, exec, pb.Actions[i+1:])
			e.finish(ctx, exec, Failed, "HandlerMissing")
			return
		}

		started := time.Now()
		res := fn(ctx, action, exec.DryRun, runCtx)
		ar := ActionResult{
			ActionName:    action.Name,
			Kind:          action.Kind,
			Params:        action.Params,
			Status:        res.Status,
			Message:       res.Message,
			RollbackToken: res.RollbackToken,
			StartedAt:     started,
			EndedAt:       time.Now(),
		}
		if res.Err != nil {
			ar.Err = res.Err.Error()
		}
		e.appendResult(ctx, exec, ar)

		if res.Status == handler.Failed {
			e.recordSkipped(ctx, exec, pb.Actions[i+1:])
			reason := "ExecutionError"
			if ctx.Err() == context.DeadlineExceeded {
				reason = "Timeout"
			}
			e.finish(ctx, exec, Failed, reason)
			return
		}
	}

	e.finish(ctx, exec, Completed, "")
}

func shouldSkip(action playbook.Action, finding playbook.Finding, dryRun bool) (bool, error) {
	prog, expr := action.Predicate()
	if expr == "" {
		return false, nil
	}
	vars := map[string]any{
		"finding": map[string]any{
			"id":              finding.ID,
			"category":        finding.Category,
			"severity":        finding.Severity,
			"resource":        finding.Resource,
			"remediationHint": finding.RemediationHint,
		},
		"dryRun": dryRun,
	}
	out, _, err := prog.Eval(vars)
	if err != nil {
		return false, err
	}
	return !asBool(out), nil
}

func asBool(v ref.Val) bool {
	b, ok := v.Value().(bool)
	return ok && b
}

func (e *Engine) runPrerequisites(ctx context.Context, pb playbook.Playbook, finding playbook.Finding) error {
	e.mu.Lock()
	checks := make([]PrerequisiteFunc, 0, len(pb.Prerequisites))
	for _, name := range pb.Prerequisites {
		checks = append(checks, e.prerequisites[name])
	}
	e.mu.Unlock()

	for _, check := range checks {
		if check == nil {
			continue
		}
		if err := check(ctx, finding); err != nil {
			return err
		}
	}
	return nil
}

func (e *Engine) appendResult(ctx context.Context, exec *Execution, ar ActionResult) {
	e.mu.Lock()
	exec.ActionResults = append(exec.ActionResults, ar)
	e.mu.Unlock()
	e.auditAction(ctx, exec, ar)
}

func (e *Engine) recordSkipped(ctx context.Context, exec *Execution, remaining []playbook.Action) {
	now := time.Now()
	for _, a := range remaining {
		ar := ActionResult{
			ActionName: a.Name, Kind: a.Kind, Status: handler.Skipped,
			Message: "skipped after prior action failed", StartedAt: now, EndedAt: now,
		}
		e.mu.Lock()
		exec.ActionResults = append(exec.ActionResults, ar)
		e.mu.Unlock()
		e.auditAction(ctx, exec, ar)
	}
}

func (e *Engine) finish(ctx context.Context, exec *Execution, status Status, reason string) {
	e.mu.Lock()
	exec.Status = status
	exec.FailureReason = reason
	exec.EndedAt = time.Now()
	snapshot := copyExecution(exec)
	e.mu.Unlock()
	detail := reason
	if detail == "" {
		detail = "finished"
	}
	e.auditTransition(ctx, snapshot, detail)
}
