package audit_test

import (
	"context"
	"testing"
	"time"

	"github.com/kishhcodes/cloudgate/pkg/audit"
)

func TestInMemorySink_QueryFiltersAndOrders(t *testing.T) {
	sink := audit.NewInMemorySink()
	ctx := context.Background()
	base := time.Now()

	records := []audit.AuditRecord{
		{ExecutionID: "e1", PlaybookID: "pb1", FindingID: "f1", Status: "Completed", Timestamp: base},
		{ExecutionID: "e2", PlaybookID: "pb2", FindingID: "f1", Status: "Failed", Timestamp: base.Add(time.Second)},
		{ExecutionID: "e3", PlaybookID: "pb1", FindingID: "f2", Status: "Completed", Timestamp: base.Add(2 * time.Second)},
	}
	for _, r := range records {
		if err := sink.Record(ctx, r); err != nil {
			t.Fatalf("unexpected record error: %v", err)
		}
	}

	got, err := sink.Query(ctx, audit.Filter{PlaybookID: "pb1"}, 0)
	if err != nil {
		t.Fatalf("unexpected query error: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 records for pb1, got %d", len(got))
	}
	if got[0].ExecutionID != "e3" {
		t.Fatalf("expected newest first (e3), got %s", got[0].ExecutionID)
	}

	limited, err := sink.Query(ctx, audit.Filter{}, 1)
	if err != nil {
		t.Fatalf("unexpected query error: %v", err)
	}
	if len(limited) != 1 {
		t.Fatalf("expected limit=1 to bound results, got %d", len(limited))
	}
}

func TestInMemorySink_FiltersByFindingID(t *testing.T) {
	sink := audit.NewInMemorySink()
	ctx := context.Background()
	_ = sink.Record(ctx, audit.AuditRecord{ExecutionID: "e1", FindingID: "f1", Timestamp: time.Now()})
	_ = sink.Record(ctx, audit.AuditRecord{ExecutionID: "e2", FindingID: "f2", Timestamp: time.Now()})

	got, err := sink.Query(ctx, audit.Filter{FindingID: "f2"}, 0)
	if err != nil {
		t.Fatalf("unexpected query error: %v", err)
	}
	if len(got) != 1 || got[0].ExecutionID != "e2" {
		t.Fatalf("expected only e2, got %+v", got)
	}
}
