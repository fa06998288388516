// Package audit defines the durable audit trail contract (concretizing
// spec.md §6's "Persistence (optional)" collaborator): one AuditRecord per
// meaningful playbook-execution event, with an in-memory sink that always
// backs the Playbook Executor's required in-memory history, and an optional
// Postgres-backed sink (pkg/audit/postgres) for operators who want it
// durable across restarts.
package audit

import (
	"context"
	"sort"
	"sync"
	"time"
)

// AuditRecord is the unit persisted by an AuditSink: one action's outcome,
// or (when Action is empty) a playbook-execution lifecycle transition such
// as AwaitingApproval, Rejected, or RolledBack.
type AuditRecord struct {
	ExecutionID string
	PlaybookID  string
	FindingID   string
	Action      string
	Status      string
	Timestamp   time.Time
	Detail      string
}

// Filter narrows Query results. Zero values mean "no filter".
type Filter struct {
	ExecutionID string
	PlaybookID  string
	FindingID   string
}

// AuditSink receives audit records and answers filtered queries over them.
// Record should never block the caller on a slow or unavailable backend for
// long; implementations that wrap a network call should apply their own
// short timeout and return promptly.
type AuditSink interface {
	Record(ctx context.Context, rec AuditRecord) error
	Query(ctx context.Context, filter Filter, limit int) ([]AuditRecord, error)
}

// InMemorySink is an AuditSink backed by a mutex-protected slice. It never
// fails a Record call and is suitable as the always-present default sink.
type InMemorySink struct {
	mu      sync.Mutex
	records []AuditRecord
}

var _ AuditSink = (*InMemorySink)(nil)

// NewInMemorySink returns an empty InMemorySink.
func NewInMemorySink() *InMemorySink {
	return &InMemorySink{}
}

func (s *InMemorySink) Record(_ context.Context, rec AuditRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records = append(s.records, rec)
	return nil
}

func (s *InMemorySink) Query(_ context.Context, filter Filter, limit int) ([]AuditRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	matches := make([]AuditRecord, 0, len(s.records))
	for _, rec := range s.records {
		if filter.ExecutionID != "" && rec.ExecutionID != filter.ExecutionID {
			continue
		}
		if filter.PlaybookID != "" && rec.PlaybookID != filter.PlaybookID {
			continue
		}
		if filter.FindingID != "" && rec.FindingID != filter.FindingID {
			continue
		}
		matches = append(matches, rec)
	}
	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].Timestamp.After(matches[j].Timestamp)
	})
	if limit > 0 && len(matches) > limit {
		matches = matches[:limit]
	}
	return matches, nil
}
