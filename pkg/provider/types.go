// Package provider holds the per-cloud-provider static data the rest of the
// gateway is parameterized over: command prefixes, read-only verb patterns,
// categorized block-lists, NL phrase dictionaries, and auth-error substring
// patterns. None of this mutates after construction.
package provider

// Kind identifies one of the three supported cloud CLIs.
type Kind string

const (
	AWS   Kind = "aws"
	GCP   Kind = "gcp"
	Azure Kind = "azure"
)

func (k Kind) String() string { return string(k) }

// ContextInfo describes the provider context (profile, subscription,
// project, region/tenant) a Gateway was started with or discovered.
type ContextInfo struct {
	Provider       Kind
	Name           string
	AWSProfile     string
	AWSRegion      string
	AzureSubscription string
	AzureTenant    string
	GCPProject     string
	Current        bool
}

// BlockListEntry pairs a glob pattern matched against a command's verb
// tokens with the category and risk tier it assigns when matched. Entries
// are walked in declared order; the first match wins.
type BlockListEntry struct {
	Category Category
	Tier     Tier
	Pattern  string // gobwas/glob pattern evaluated against the joined verb tokens
}

// Category names a family of dangerous cloud operations.
type Category string

const (
	CategoryIdentity      Category = "identity"
	CategorySecrets       Category = "secrets"
	CategoryLogging       Category = "logging"
	CategoryNetwork       Category = "network"
	CategoryProject       Category = "project"
	CategoryCompute       Category = "compute"
	CategoryStorage       Category = "storage"
	CategoryDatabase      Category = "database"
)

// Tier is the risk tier assigned by a block-list category. It mirrors
// policy.RiskTier's values but lives here to keep provider data
// self-contained and free of a dependency on the policy package.
type Tier string

const (
	TierSafe     Tier = "Safe"
	TierLow      Tier = "Low"
	TierMedium   Tier = "Medium"
	TierHigh     Tier = "High"
	TierCritical Tier = "Critical"
)

// Spec is the complete static description of one provider's CLI surface.
type Spec struct {
	Kind Kind

	// Prefixes are the binary names that begin a stage-0 pipeline stage,
	// e.g. {"aws"}, {"az"}, {"gcloud", "gsutil"}.
	Prefixes []string

	// ReadOnlyVerbs are glob patterns matched against any single verb
	// token of a command (after stripping the prefix and flags). A match
	// against any token classifies the command Safe.
	ReadOnlyVerbs []string

	// BlockList is walked in order; the first matching entry assigns
	// Category and Tier.
	BlockList []BlockListEntry

	// NLDictionary maps a lowercase phrase to a canonical command string.
	// Order is significant for tie-breaking equal-length keys.
	NLDictionary []NLEntry

	// AuthErrorPatterns are case-insensitive substrings that, when found
	// in a failed command's stderr, identify an authentication failure.
	AuthErrorPatterns []string

	// EnvOverlay names the environment variables the gateway injects to
	// carry context (profile/region/subscription/project) when the user
	// did not already supply the equivalent flag.
	EnvOverlay map[string]string
}

// NLEntry is one phrase→command mapping. Phrase is always compared
// lowercased; Command is used verbatim.
type NLEntry struct {
	Phrase  string
	Command string
}
