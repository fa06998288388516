// Package postgres implements audit.AuditSink against a Postgres table,
// using the pgx/v5 stdlib driver through sqlx and schema migrations managed
// by goose (see pkg/audit/migrations).
package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/kishhcodes/cloudgate/pkg/audit"
	gwerrors "github.com/kishhcodes/cloudgate/pkg/shared/errors"

	_ "github.com/jackc/pgx/v5/stdlib" // registers the "pgx" database/sql driver
)

// Sink persists audit.AuditRecord rows to a Postgres table named
// remediation_audit (see pkg/audit/migrations/0001_create_remediation_audit.sql).
type Sink struct {
	db *sqlx.DB
}

var _ audit.AuditSink = (*Sink)(nil)

// Open connects to dsn using the pgx stdlib driver and wraps it in a Sink.
// Callers own the returned Sink's lifetime and should Close it on shutdown.
func Open(dsn string) (*Sink, error) {
	db, err := sqlx.Connect("pgx", dsn)
	if err != nil {
		return nil, gwerrors.Wrap(gwerrors.KindHandlerError, "connect to audit database", err)
	}
	return &Sink{db: db}, nil
}

// NewSink wraps an already-open sqlx.DB, typically one goose has already
// migrated.
func NewSink(db *sqlx.DB) *Sink {
	return &Sink{db: db}
}

// Close releases the underlying connection pool.
func (s *Sink) Close() error {
	return s.db.Close()
}

const insertRecord = `
INSERT INTO remediation_audit (execution_id, playbook_id, finding_id, action, status, recorded_at, detail)
VALUES (:execution_id, :playbook_id, :finding_id, :action, :status, :recorded_at, :detail)
`

type row struct {
	ExecutionID string    `db:"execution_id"`
	PlaybookID  string    `db:"playbook_id"`
	FindingID   string    `db:"finding_id"`
	Action      string    `db:"action"`
	Status      string    `db:"status"`
	RecordedAt  sql.NullTime `db:"recorded_at"`
	Detail      string    `db:"detail"`
}

// Record inserts rec. A write failure is returned to the caller (the
// remediation engine logs it and continues; it never fails the playbook
// run itself).
func (s *Sink) Record(ctx context.Context, rec audit.AuditRecord) error {
	r := row{
		ExecutionID: rec.ExecutionID,
		PlaybookID:  rec.PlaybookID,
		FindingID:   rec.FindingID,
		Action:      rec.Action,
		Status:      rec.Status,
		RecordedAt:  sql.NullTime{Time: rec.Timestamp, Valid: !rec.Timestamp.IsZero()},
		Detail:      rec.Detail,
	}
	if _, err := s.db.NamedExecContext(ctx, insertRecord, r); err != nil {
		return gwerrors.Wrap(gwerrors.KindHandlerError, "insert audit record", err)
	}
	return nil
}

// Query returns rows matching filter, newest first, bounded by limit (0
// meaning the driver's default of 100).
func (s *Sink) Query(ctx context.Context, filter audit.Filter, limit int) ([]audit.AuditRecord, error) {
	if limit <= 0 {
		limit = 100
	}

	query, args := buildQuery(filter, limit)
	var rows []row
	if err := s.db.SelectContext(ctx, &rows, s.db.Rebind(query), args...); err != nil {
		return nil, gwerrors.Wrap(gwerrors.KindHandlerError, "query audit records", err)
	}

	out := make([]audit.AuditRecord, 0, len(rows))
	for _, r := range rows {
		out = append(out, audit.AuditRecord{
			ExecutionID: r.ExecutionID,
			PlaybookID:  r.PlaybookID,
			FindingID:   r.FindingID,
			Action:      r.Action,
			Status:      r.Status,
			Timestamp:   r.RecordedAt.Time,
			Detail:      r.Detail,
		})
	}
	return out, nil
}

func buildQuery(filter audit.Filter, limit int) (string, []any) {
	query := "SELECT execution_id, playbook_id, finding_id, action, status, recorded_at, detail FROM remediation_audit WHERE 1=1"
	var args []any

	if filter.ExecutionID != "" {
		query += " AND execution_id = ?"
		args = append(args, filter.ExecutionID)
	}
	if filter.PlaybookID != "" {
		query += " AND playbook_id = ?"
		args = append(args, filter.PlaybookID)
	}
	if filter.FindingID != "" {
		query += " AND finding_id = ?"
		args = append(args, filter.FindingID)
	}
	query += fmt.Sprintf(" ORDER BY recorded_at DESC LIMIT %d", limit)
	return query, args
}
