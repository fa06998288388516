// Package validation wraps go-playground/validator for the structs that
// cross the HTTP programmatic API boundary (spec.md §6): it is the one
// place user-supplied JSON gets checked against shape and range constraints
// before any handler touches it.
package validation

import (
	"fmt"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
)

var (
	once     sync.Once
	instance *validator.Validate
)

func get() *validator.Validate {
	once.Do(func() {
		instance = validator.New(validator.WithRequiredStructEnabled())
	})
	return instance
}

// Struct validates v against its `validate` struct tags, returning a single
// error joining every failing field in "field: tag" form.
func Struct(v any) error {
	err := get().Struct(v)
	if err == nil {
		return nil
	}
	verrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return err
	}
	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		msgs = append(msgs, fmt.Sprintf("%s: failed %q constraint", fe.Namespace(), fe.Tag()))
	}
	return fmt.Errorf("validation failed: %s", strings.Join(msgs, "; "))
}

// ExecuteCommandRequest is the body of POST /v1/providers/{provider}/commands.
type ExecuteCommandRequest struct {
	Text string `json:"text" validate:"required,min=1"`
}

// CreateExecutionRequest is the body of POST /v1/playbooks/{id}/executions.
type CreateExecutionRequest struct {
	FindingID string `json:"findingID" validate:"required"`
	Initiator string `json:"initiator" validate:"required"`
	DryRun    bool   `json:"dryRun"`
}

// ApproveRequest is the body of POST /v1/executions/{id}/approve.
type ApproveRequest struct {
	Approver string `json:"approver" validate:"required"`
}

// RejectRequest is the body of POST /v1/executions/{id}/reject.
type RejectRequest struct {
	Rejector string `json:"rejector" validate:"required"`
	Reason   string `json:"reason" validate:"required"`
}
