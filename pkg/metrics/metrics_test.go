package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestRecordCommand(t *testing.T) {
	initial := testutil.ToFloat64(CommandsExecutedTotal.WithLabelValues("aws", ""))
	RecordCommand("aws", "", 250*time.Millisecond)
	after := testutil.ToFloat64(CommandsExecutedTotal.WithLabelValues("aws", ""))
	if after != initial+1 {
		t.Fatalf("expected counter to increase by 1, got %v -> %v", initial, after)
	}
}

func TestRecordPolicyDecision(t *testing.T) {
	initial := testutil.ToFloat64(PolicyDecisionsTotal.WithLabelValues("High", "false"))
	RecordPolicyDecision("High", false)
	after := testutil.ToFloat64(PolicyDecisionsTotal.WithLabelValues("High", "false"))
	if after != initial+1 {
		t.Fatalf("expected counter to increase by 1, got %v -> %v", initial, after)
	}
}

func TestRecordPlaybookExecution(t *testing.T) {
	initial := testutil.ToFloat64(PlaybookExecutionsTotal.WithLabelValues("FIX-S3-PUBLIC", "Completed"))
	RecordPlaybookExecution("FIX-S3-PUBLIC", "Completed")
	after := testutil.ToFloat64(PlaybookExecutionsTotal.WithLabelValues("FIX-S3-PUBLIC", "Completed"))
	if after != initial+1 {
		t.Fatalf("expected counter to increase by 1, got %v -> %v", initial, after)
	}
}

func TestRecordCircuitBreakerTrip(t *testing.T) {
	initial := testutil.ToFloat64(CircuitBreakerTripsTotal.WithLabelValues("gcp"))
	RecordCircuitBreakerTrip("gcp")
	after := testutil.ToFloat64(CircuitBreakerTripsTotal.WithLabelValues("gcp"))
	if after != initial+1 {
		t.Fatalf("expected counter to increase by 1, got %v -> %v", initial, after)
	}
}
