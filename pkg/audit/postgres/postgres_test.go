package postgres

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"

	"github.com/kishhcodes/cloudgate/pkg/audit"
)

func newMockSink(t *testing.T) (*Sink, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	// "postgres" as the driver name (rather than sqlmock's own) makes
	// sqlx.Rebind translate "?" placeholders to "$1"-style ones, matching
	// what the real pgx-backed Sink produces.
	return NewSink(sqlx.NewDb(db, "postgres")), mock
}

func TestRecord_InsertsRow(t *testing.T) {
	sink, mock := newMockSink(t)

	mock.ExpectExec("INSERT INTO remediation_audit").
		WithArgs("exec-1", "FIX-S3-PUBLIC", "finding-1", "block_public_access", "Completed", sqlmock.AnyArg(), "done").
		WillReturnResult(sqlmock.NewResult(1, 1))

	rec := audit.AuditRecord{
		ExecutionID: "exec-1",
		PlaybookID:  "FIX-S3-PUBLIC",
		FindingID:   "finding-1",
		Action:      "block_public_access",
		Status:      "Completed",
		Timestamp:   time.Now(),
		Detail:      "done",
	}
	if err := sink.Record(context.Background(), rec); err != nil {
		t.Fatalf("Record: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestQuery_FiltersByExecutionID(t *testing.T) {
	sink, mock := newMockSink(t)

	rows := sqlmock.NewRows([]string{"execution_id", "playbook_id", "finding_id", "action", "status", "recorded_at", "detail"}).
		AddRow("exec-1", "FIX-S3-PUBLIC", "finding-1", "block_public_access", "Completed", time.Now(), "done")

	mock.ExpectQuery("SELECT execution_id, playbook_id, finding_id, action, status, recorded_at, detail FROM remediation_audit WHERE 1=1 AND execution_id = \\$1").
		WithArgs("exec-1").
		WillReturnRows(rows)

	out, err := sink.Query(context.Background(), audit.Filter{ExecutionID: "exec-1"}, 10)
	if err != nil {
		t.Fatalf("Query: %v", err)
	}
	if len(out) != 1 || out[0].ExecutionID != "exec-1" {
		t.Fatalf("unexpected result: %+v", out)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}
