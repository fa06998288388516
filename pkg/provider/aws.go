package provider

// AWSSpec describes the aws CLI surface: service+action verbs, the IAM,
// KMS, CloudTrail, EC2/S3/RDS mutation families that feed the block-list,
// and a natural-language phrase dictionary covering the services the
// remediation playbooks act on most often.
var AWSSpec = Spec{
	Kind:     AWS,
	Prefixes: []string{"aws"},

	ReadOnlyVerbs: []string{
		"describe-*",
		"list-*",
		"get-*",
		"show-*",
	},

	BlockList: []BlockListEntry{
		{Category: CategoryIdentity, Tier: TierCritical, Pattern: "iam create-*"},
		{Category: CategoryIdentity, Tier: TierCritical, Pattern: "iam delete-*"},
		{Category: CategoryIdentity, Tier: TierCritical, Pattern: "iam attach-*"},
		{Category: CategoryIdentity, Tier: TierCritical, Pattern: "iam put-*"},
		{Category: CategorySecrets, Tier: TierHigh, Pattern: "kms schedule-key-deletion"},
		{Category: CategorySecrets, Tier: TierHigh, Pattern: "kms disable-key"},
		{Category: CategorySecrets, Tier: TierHigh, Pattern: "secretsmanager delete-secret"},
		{Category: CategorySecrets, Tier: TierHigh, Pattern: "secretsmanager rotate-secret"},
		{Category: CategoryLogging, Tier: TierHigh, Pattern: "cloudtrail delete-trail"},
		{Category: CategoryLogging, Tier: TierHigh, Pattern: "cloudtrail stop-logging"},
		{Category: CategoryLogging, Tier: TierHigh, Pattern: "logs delete-log-group"},
		{Category: CategoryNetwork, Tier: TierHigh, Pattern: "ec2 revoke-security-group-*"},
		{Category: CategoryNetwork, Tier: TierHigh, Pattern: "ec2 authorize-security-group-*"},
		{Category: CategoryNetwork, Tier: TierHigh, Pattern: "ec2 delete-security-group"},
		{Category: CategoryProject, Tier: TierCritical, Pattern: "organizations close-account"},
		{Category: CategoryProject, Tier: TierCritical, Pattern: "organizations leave-organization"},
		{Category: CategoryCompute, Tier: TierMedium, Pattern: "ec2 terminate-instances"},
		{Category: CategoryCompute, Tier: TierMedium, Pattern: "ec2 delete-volume"},
		{Category: CategoryCompute, Tier: TierMedium, Pattern: "ec2 deregister-image"},
		{Category: CategoryStorage, Tier: TierMedium, Pattern: "s3api delete-bucket"},
		{Category: CategoryStorage, Tier: TierMedium, Pattern: "s3api delete-bucket-policy"},
		{Category: CategoryStorage, Tier: TierMedium, Pattern: "s3api put-bucket-acl"},
		{Category: CategoryStorage, Tier: TierMedium, Pattern: "s3api put-public-access-block"},
		{Category: CategoryDatabase, Tier: TierMedium, Pattern: "rds delete-db-instance"},
		{Category: CategoryDatabase, Tier: TierMedium, Pattern: "rds delete-db-cluster"},
	},

	NLDictionary: []NLEntry{
		{Phrase: "list my ec2 instances", Command: "aws ec2 describe-instances"},
		{Phrase: "show running ec2 instances", Command: "aws ec2 describe-instances --filters Name=instance-state-name,Values=running"},
		{Phrase: "list all s3 buckets", Command: "aws s3api list-buckets"},
		{Phrase: "show bucket policy for", Command: "aws s3api get-bucket-policy --bucket"},
		{Phrase: "list iam users", Command: "aws iam list-users"},
		{Phrase: "list iam roles", Command: "aws iam list-roles"},
		{Phrase: "show iam user details", Command: "aws iam get-user"},
		{Phrase: "list access keys", Command: "aws iam list-access-keys"},
		{Phrase: "list security groups", Command: "aws ec2 describe-security-groups"},
		{Phrase: "list vpcs", Command: "aws ec2 describe-vpcs"},
		{Phrase: "list subnets", Command: "aws ec2 describe-subnets"},
		{Phrase: "list rds instances", Command: "aws rds describe-db-instances"},
		{Phrase: "list rds clusters", Command: "aws rds describe-db-clusters"},
		{Phrase: "list lambda functions", Command: "aws lambda list-functions"},
		{Phrase: "show lambda function configuration", Command: "aws lambda get-function-configuration"},
		{Phrase: "list secrets", Command: "aws secretsmanager list-secrets"},
		{Phrase: "list kms keys", Command: "aws kms list-keys"},
		{Phrase: "show kms key policy", Command: "aws kms get-key-policy"},
		{Phrase: "list cloudtrail trails", Command: "aws cloudtrail describe-trails"},
		{Phrase: "show cloudtrail status", Command: "aws cloudtrail get-trail-status"},
		{Phrase: "list cloudwatch log groups", Command: "aws logs describe-log-groups"},
		{Phrase: "list eks clusters", Command: "aws eks list-clusters"},
		{Phrase: "show eks cluster details", Command: "aws eks describe-cluster"},
		{Phrase: "list ecs clusters", Command: "aws ecs list-clusters"},
		{Phrase: "list ecs services", Command: "aws ecs list-services"},
		{Phrase: "list load balancers", Command: "aws elbv2 describe-load-balancers"},
		{Phrase: "list target groups", Command: "aws elbv2 describe-target-groups"},
		{Phrase: "list ebs volumes", Command: "aws ec2 describe-volumes"},
		{Phrase: "list ami images", Command: "aws ec2 describe-images --owners self"},
		{Phrase: "show account summary", Command: "aws iam get-account-summary"},
		{Phrase: "list organization accounts", Command: "aws organizations list-accounts"},
		{Phrase: "block public access on bucket", Command: "aws s3api put-public-access-block"},
	},

	AuthErrorPatterns: []string{
		"unable to locate credentials",
		"expiredtoken",
		"the security token included in the request is invalid",
		"could not be found",
		"is not authorized to perform",
	},

	EnvOverlay: map[string]string{
		"profile": "AWS_PROFILE",
		"region":  "AWS_DEFAULT_REGION",
	},
}
