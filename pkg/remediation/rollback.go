package remediation

import (
	"context"
	"time"

	"github.com/kishhcodes/cloudgate/pkg/handler"
	"github.com/kishhcodes/cloudgate/pkg/playbook"
	gwerrors "github.com/kishhcodes/cloudgate/pkg/shared/errors"
)

// Rollback reverses a Completed execution's actions in reverse declared
// order. It is only permitted from Completed; any other status is a
// StateError. A per-action rollback failure is recorded against that
// action's result and sets InspectionFlag, but the execution's terminal
// status is always RolledBack once rollback has been attempted.
func (e *Engine) Rollback(ctx context.Context, executionID string) error {
	e.mu.Lock()
	exec, ok := e.executions[executionID]
	if !ok {
		e.mu.Unlock()
		return gwerrors.NewCategory(gwerrors.KindState, "not-found", "unknown execution: "+executionID)
	}
	if exec.Status != Completed {
		e.mu.Unlock()
		return gwerrors.NewCategory(gwerrors.KindState, "invalid-transition", "rollback is only valid from Completed")
	}
	results := append([]ActionResult(nil), exec.ActionResults...)
	e.mu.Unlock()

	inspection := false
	for i := len(results) - 1; i >= 0; i-- {
		ar := results[i]
		if ar.RollbackToken == "" || ar.Status != handler.Completed {
			continue
		}
		fn, ok := e.registry.ResolveRollback(ar.Kind)
		if !ok {
			continue
		}
		input := handler.RollbackInput{
			Action: playbook.Action{Name: ar.ActionName, Kind: ar.Kind, Params: ar.Params},
			Token:  ar.RollbackToken,
			Ctx:    handler.Context{Started: time.Now()},
		}
		res := fn(ctx, input)

		e.mu.Lock()
		for j := range exec.ActionResults {
			if exec.ActionResults[j].ActionName == ar.ActionName {
				exec.ActionResults[j].Status = res.Status
				exec.ActionResults[j].Message = res.Message
				if res.Err != nil {
					exec.ActionResults[j].Err = res.Err.Error()
				}
				exec.ActionResults[j].EndedAt = time.Now()
				break
			}
		}
		e.mu.Unlock()

		if res.Status == handler.Failed {
			inspection = true
		}
	}

	e.mu.Lock()
	exec.Status = RolledBack
	exec.InspectionFlag = inspection
	exec.EndedAt = time.Now()
	snapshot := copyExecution(exec)
	e.mu.Unlock()
	e.auditTransition(ctx, snapshot, "rollback complete")
	return nil
}
