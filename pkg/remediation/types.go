// Package remediation implements the Playbook Executor (component C7): the
// state machine that drives a Playbook's actions to completion, handles
// approval/rejection, and supports rollback of a completed run.
package remediation

import (
	"time"

	"github.com/kishhcodes/cloudgate/pkg/handler"
)

// Status is one state in the PlaybookExecution state machine.
type Status string

const (
	Pending          Status = "Pending"
	AwaitingApproval Status = "AwaitingApproval"
	Running          Status = "Running"
	Completed        Status = "Completed"
	Failed           Status = "Failed"
	RolledBack       Status = "RolledBack"
	Rejected         Status = "Rejected"
)

// ActionResult records the outcome of dispatching one playbook action.
type ActionResult struct {
	ActionName    string
	Kind          string
	Params        map[string]any
	Status        handler.Status
	Message       string
	Err           string
	RollbackToken string
	StartedAt     time.Time
	EndedAt       time.Time
}

// Execution is the mutable state record for one attempted playbook run.
type Execution struct {
	ID              string
	PlaybookID      string
	PlaybookName    string
	FindingID       string
	Initiator       string
	StartedAt       time.Time
	EndedAt         time.Time
	Status          Status
	DryRun          bool
	ActionResults   []ActionResult
	Approver        string
	RejectionReason string
	// InspectionFlag is set when a RolledBack execution had at least one
	// action whose rollback sub-handler itself failed; the rollback is
	// still considered terminal, but a human should look at it.
	InspectionFlag bool
	FailureReason  string

	// release returns this execution's concurrency-limiter slot. Set when
	// the execution is created, called once its terminal state is reached.
	release func()
}

// HistoryFilter narrows History results. Zero values mean "no filter".
type HistoryFilter struct {
	PlaybookID string
	FindingID  string
}

func copyExecution(e *Execution) Execution {
	out := *e
	out.ActionResults = append([]ActionResult(nil), e.ActionResults...)
	return out
}
