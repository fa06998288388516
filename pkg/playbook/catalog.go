package playbook

import "time"

// FixS3Public returns the built-in "block a publicly accessible S3 bucket"
// playbook: it blocks public access via the aws handler, then notifies the
// owning team. Both approval and rollback are required.
func FixS3Public() (Playbook, error) {
	b := NewBuilder("FIX-S3-PUBLIC", "Block public access on S3 bucket").
		WithDescription("Applies a public-access block to an S3 bucket flagged as publicly readable or writable, then notifies the owning team.").
		WithCategory("storage").
		WithSeverity("high").
		RequireApproval(true).
		EnableRollback(true).
		WithTimeout(2 * time.Minute).
		AddPrerequisite("bucket-exists")

	if err := b.AddAction("block_public_access", "aws", map[string]any{
		"command": "aws s3api put-public-access-block",
		"bucket":  "{{.Resource}}",
		"config":  "BlockPublicAcls=true,IgnorePublicAcls=true,BlockPublicPolicy=true,RestrictPublicBuckets=true",
	}, "prior-public-access-block-config", ""); err != nil {
		return Playbook{}, err
	}

	if err := b.AddAction("notify_team", "notification", map[string]any{
		"channel": "#cloud-security",
		"message": "Public access blocked on {{.Resource}}",
	}, "", ""); err != nil {
		return Playbook{}, err
	}

	return b.Build()
}

// FixOverlyPermissiveSecurityGroup revokes an overly permissive ingress
// rule (0.0.0.0/0 on a sensitive port) and notifies the owning team. No
// approval is required since the mutation is a pure restriction.
func FixOverlyPermissiveSecurityGroup() (Playbook, error) {
	b := NewBuilder("FIX-OPEN-SG", "Revoke overly permissive security group rule").
		WithDescription("Revokes an ingress rule exposing a sensitive port to 0.0.0.0/0.").
		WithCategory("network").
		WithSeverity("high").
		RequireApproval(false).
		EnableRollback(true).
		WithTimeout(2 * time.Minute)

	if err := b.AddAction("revoke_ingress_rule", "aws", map[string]any{
		"command": "aws ec2 revoke-security-group-ingress",
		"group":   "{{.Resource}}",
	}, "prior-ingress-rule", ""); err != nil {
		return Playbook{}, err
	}

	if err := b.AddAction("notify_team", "notification", map[string]any{
		"channel": "#cloud-security",
		"message": "Revoked open ingress rule on {{.Resource}}",
	}, "", ""); err != nil {
		return Playbook{}, err
	}

	return b.Build()
}

// FixIdleDatabaseInstance stops an idle database instance flagged by cost
// or security review, conditioned on the finding not already having been
// acknowledged (finding.acknowledged != true).
func FixIdleDatabaseInstance() (Playbook, error) {
	b := NewBuilder("FIX-IDLE-DB", "Stop idle database instance").
		WithDescription("Stops a database instance identified as idle beyond policy, unless the finding has been acknowledged.").
		WithCategory("database").
		WithSeverity("medium").
		RequireApproval(true).
		EnableRollback(false).
		WithTimeout(90 * time.Second)

	if err := b.AddAction("stop_instance", "aws", map[string]any{
		"command":  "aws rds stop-db-instance",
		"instance": "{{.Resource}}",
	}, "", `!has(finding.acknowledged) || finding.acknowledged == false`); err != nil {
		return Playbook{}, err
	}

	if err := b.AddAction("notify_team", "notification", map[string]any{
		"channel": "#cloud-cost",
		"message": "Stopped idle database instance {{.Resource}}",
	}, "", ""); err != nil {
		return Playbook{}, err
	}

	return b.Build()
}

// Catalog returns every built-in playbook, in declared order.
func Catalog() ([]Playbook, error) {
	var out []Playbook
	for _, fn := range []func() (Playbook, error){
		FixS3Public, FixOverlyPermissiveSecurityGroup, FixIdleDatabaseInstance,
	} {
		pb, err := fn()
		if err != nil {
			return nil, err
		}
		out = append(out, pb)
	}
	return out, nil
}
