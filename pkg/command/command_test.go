package command

import (
	"testing"

	gwerrors "github.com/kishhcodes/cloudgate/pkg/shared/errors"
)

func TestCanonicalize(t *testing.T) {
	cases := map[string]string{
		"  aws s3 ls  ":   "aws s3 ls",
		"\tgcloud info\n": "gcloud info",
		"az vm list":      "az vm list",
	}
	for in, want := range cases {
		if got := Canonicalize(in); got != want {
			t.Errorf("Canonicalize(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestTokenize_Basic(t *testing.T) {
	tokens, err := Tokenize("aws s3 ls --bucket my-bucket")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := []string{"aws", "s3", "ls", "--bucket", "my-bucket"}
	if len(tokens) != len(want) {
		t.Fatalf("tokens = %v, want %v", tokens, want)
	}
	for i := range want {
		if tokens[i] != want[i] {
			t.Errorf("tokens[%d] = %q, want %q", i, tokens[i], want[i])
		}
	}
}

func TestTokenize_Quotes(t *testing.T) {
	tokens, err := Tokenize(`gcloud compute instances list --filter="name = 'web-1'"`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := []string{"gcloud", "compute", "instances", "list", "--filter=name = 'web-1'"}
	if len(tokens) != len(want) {
		t.Fatalf("tokens = %v, want %v", tokens, want)
	}
	if tokens[4] != want[4] {
		t.Errorf("tokens[4] = %q, want %q", tokens[4], want[4])
	}
}

func TestTokenize_QuotedMetacharactersAllowed(t *testing.T) {
	tokens, err := Tokenize(`az tag list --value "a; b & c"`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if tokens[len(tokens)-1] != "a; b & c" {
		t.Errorf("tokens[-1] = %q, want %q", tokens[len(tokens)-1], "a; b & c")
	}
}

func TestTokenize_RejectsMetacharacters(t *testing.T) {
	cases := []string{
		"aws s3 ls `whoami`",
		"aws s3 ls $(whoami)",
		"aws s3 ls; rm -rf /",
		"aws s3 ls & sleep 10",
		"aws s3 ls > /tmp/out",
		"aws s3 ls < /tmp/in",
	}
	for _, c := range cases {
		_, err := Tokenize(c)
		if err == nil {
			t.Errorf("Tokenize(%q) expected error, got nil", c)
			continue
		}
		if gwerrors.KindOf(err) != gwerrors.KindValidation {
			t.Errorf("Tokenize(%q) error kind = %v, want %v", c, gwerrors.KindOf(err), gwerrors.KindValidation)
		}
	}
}

func TestTokenize_UnbalancedQuote(t *testing.T) {
	_, err := Tokenize(`aws s3 ls "unterminated`)
	if err == nil {
		t.Fatal("expected error for unterminated quote")
	}
}

func TestTokenize_Empty(t *testing.T) {
	tokens, err := Tokenize("")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(tokens) != 0 {
		t.Errorf("tokens = %v, want empty", tokens)
	}
}
