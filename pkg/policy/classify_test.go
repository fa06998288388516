package policy

import (
	"testing"

	"github.com/kishhcodes/cloudgate/pkg/provider"
)

func TestClassify_SafeReadOnly(t *testing.T) {
	c := Classify(provider.AWSSpec, []string{"aws", "ec2", "describe-instances"})
	if c.Tier != Safe {
		t.Errorf("Tier = %v, want Safe", c.Tier)
	}
}

func TestClassify_IdentityCritical(t *testing.T) {
	c := Classify(provider.AWSSpec, []string{"aws", "iam", "create-user", "--user-name", "evil"})
	if c.Tier != Critical {
		t.Errorf("Tier = %v, want Critical", c.Tier)
	}
	if c.Category != provider.CategoryIdentity {
		t.Errorf("Category = %v, want identity", c.Category)
	}
	if !c.Matched {
		t.Error("expected Matched=true")
	}
}

func TestClassify_NoMatchIsLow(t *testing.T) {
	c := Classify(provider.AWSSpec, []string{"aws", "ec2", "reboot-instances"})
	if c.Tier != Low {
		t.Errorf("Tier = %v, want Low", c.Tier)
	}
}

func TestClassify_AzureReadOnly(t *testing.T) {
	c := Classify(provider.AzureSpec, []string{"az", "vm", "list"})
	if c.Tier != Safe {
		t.Errorf("Tier = %v, want Safe", c.Tier)
	}
}

func TestClassify_GCPStorageDelete(t *testing.T) {
	c := Classify(provider.GCPSpec, []string{"gcloud", "compute", "instances", "delete", "web-1"})
	if c.Tier != Medium {
		t.Errorf("Tier = %v, want Medium", c.Tier)
	}
	if c.Category != provider.CategoryCompute {
		t.Errorf("Category = %v, want compute", c.Category)
	}
}

func TestClassify_Determinism(t *testing.T) {
	tokens := []string{"aws", "iam", "delete-user", "--user-name", "x"}
	first := Classify(provider.AWSSpec, tokens)
	for i := 0; i < 10; i++ {
		got := Classify(provider.AWSSpec, tokens)
		if got.Category != first.Category || got.Tier != first.Tier {
			t.Fatalf("classification not deterministic: %+v vs %+v", first, got)
		}
	}
}
