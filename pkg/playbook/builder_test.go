package playbook

import (
	"testing"

	gwerrors "github.com/kishhcodes/cloudgate/pkg/shared/errors"
)

func TestBuild_RequiresIDAndName(t *testing.T) {
	b := NewBuilder("", "")
	_ = b.AddAction("a", "aws", nil, "", "")
	if _, err := b.Build(); gwerrors.KindOf(err) != gwerrors.KindValidation {
		t.Fatalf("expected ValidationError, got %v", err)
	}
}

func TestBuild_RequiresAtLeastOneAction(t *testing.T) {
	b := NewBuilder("PB-1", "Playbook 1")
	if _, err := b.Build(); gwerrors.KindOf(err) != gwerrors.KindValidation {
		t.Fatalf("expected ValidationError, got %v", err)
	}
}

func TestBuild_RejectsDuplicateActionNames(t *testing.T) {
	b := NewBuilder("PB-1", "Playbook 1")
	if err := b.AddAction("step", "aws", nil, "", ""); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := b.AddAction("step", "gcp", nil, "", ""); err == nil {
		t.Fatal("expected error for duplicate action name")
	}
}

func TestBuild_CompilesPredicate(t *testing.T) {
	b := NewBuilder("PB-1", "Playbook 1")
	if err := b.AddAction("step", "aws", nil, "", `dryRun == true`); err != nil {
		t.Fatalf("unexpected error compiling predicate: %v", err)
	}
	pb, err := b.Build()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	prog, expr := pb.Actions[0].Predicate()
	if prog == nil || expr == "" {
		t.Fatal("expected compiled predicate to be retained")
	}
}

func TestBuild_RejectsInvalidPredicate(t *testing.T) {
	b := NewBuilder("PB-1", "Playbook 1")
	if err := b.AddAction("step", "aws", nil, "", `this is not valid cel (`); err == nil {
		t.Fatal("expected compile error for invalid predicate")
	}
}

func TestCatalog_BuildsCleanly(t *testing.T) {
	playbooks, err := Catalog()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(playbooks) != 3 {
		t.Fatalf("len(playbooks) = %d, want 3", len(playbooks))
	}
	for _, pb := range playbooks {
		if pb.ID == "" || len(pb.Actions) == 0 {
			t.Errorf("catalog playbook %+v missing id or actions", pb)
		}
	}
}
