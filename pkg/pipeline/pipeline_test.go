package pipeline

import (
	"testing"

	gwerrors "github.com/kishhcodes/cloudgate/pkg/shared/errors"
)

func TestParse_SingleStage(t *testing.T) {
	stages, err := Parse("aws ec2 describe-instances")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(stages) != 1 {
		t.Fatalf("stages = %d, want 1", len(stages))
	}
}

func TestParse_ThreeStagePipeline(t *testing.T) {
	stages, err := Parse("gcloud compute instances list | grep RUNNING | wc -l")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(stages) != 3 {
		t.Fatalf("stages = %d, want 3", len(stages))
	}
	if stages[0].Tokens[0] != "gcloud" {
		t.Errorf("stage0 = %v", stages[0].Tokens)
	}
	if stages[1].Tokens[0] != "grep" || stages[2].Tokens[0] != "wc" {
		t.Errorf("stages = %+v", stages)
	}
}

func TestParse_PipeInsideQuotesNotSplit(t *testing.T) {
	stages, err := Parse(`aws s3 ls --query "a|b"`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(stages) != 1 {
		t.Fatalf("stages = %d, want 1 (pipe was quoted)", len(stages))
	}
}

func TestParse_RejectsDoubleOr(t *testing.T) {
	_, err := Parse("aws s3 ls || rm -rf /")
	if err == nil || gwerrors.KindOf(err) != gwerrors.KindValidation {
		t.Fatalf("expected ValidationError, got %v", err)
	}
}

func TestParse_RejectsDoubleAnd(t *testing.T) {
	_, err := Parse("aws s3 ls && rm -rf /")
	if err == nil || gwerrors.KindOf(err) != gwerrors.KindValidation {
		t.Fatalf("expected ValidationError, got %v", err)
	}
}

func TestValidate_OkPipeline(t *testing.T) {
	stages, _ := Parse("gcloud compute instances list | grep RUNNING | wc -l")
	if err := Validate(stages, []string{"gcloud", "gsutil"}); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestValidate_RejectsBadPrefix(t *testing.T) {
	stages, _ := Parse("kubectl get pods")
	if err := Validate(stages, []string{"aws"}); err == nil {
		t.Error("expected error for non-provider prefix")
	}
}

func TestValidate_RejectsUnknownUtility(t *testing.T) {
	stages, _ := Parse("aws s3 ls | rm -rf /")
	if err := Validate(stages, []string{"aws"}); err == nil {
		t.Error("expected error for disallowed utility")
	}
}
