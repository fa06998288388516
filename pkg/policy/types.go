// Package policy implements the gateway's command classifier and
// allow/deny engine (component C1): a deterministic risk-tier
// classification followed by a mode-sensitive validation decision backed by
// an embedded, hot-reloadable Open Policy Agent policy.
package policy

import "github.com/kishhcodes/cloudgate/pkg/provider"

// RiskTier is a total order over command risk. Safe is reserved exclusively
// for read-only verbs.
type RiskTier int

const (
	Safe RiskTier = iota
	Low
	Medium
	High
	Critical
)

func (t RiskTier) String() string {
	switch t {
	case Safe:
		return "Safe"
	case Low:
		return "Low"
	case Medium:
		return "Medium"
	case High:
		return "High"
	case Critical:
		return "Critical"
	default:
		return "Unknown"
	}
}

func tierFromProvider(t provider.Tier) RiskTier {
	switch t {
	case provider.TierSafe:
		return Safe
	case provider.TierLow:
		return Low
	case provider.TierMedium:
		return Medium
	case provider.TierHigh:
		return High
	case provider.TierCritical:
		return Critical
	default:
		return Low
	}
}

// Mode selects how Validate treats commands whose tier is Medium or above.
type Mode int

const (
	// Strict denies commands whose tier is Medium or above and which
	// matched a block-list category.
	Strict Mode = iota
	// Permissive always allows, attaching a warning for tier >= Medium.
	Permissive
)

func (m Mode) String() string {
	if m == Permissive {
		return "Permissive"
	}
	return "Strict"
}

// ParseMode interprets the SECURITY_MODE environment/config value.
// Unrecognized values default to Strict.
func ParseMode(s string) Mode {
	if s == "permissive" || s == "Permissive" {
		return Permissive
	}
	return Strict
}

// Classification is the outcome of Classify: the assigned tier and, when a
// block-list category matched, the category name.
type Classification struct {
	Tier     RiskTier
	Category provider.Category
	Matched  bool
}

// Decision is the outcome of Validate.
type Decision struct {
	Allow    bool
	Category provider.Category
	Reason   string
	Warning  string
}

// Message renders the user-facing denial message, e.g.
// "identity-mutating command blocked in strict mode (category=identity)".
// It returns "" for an allowed Decision.
func (d Decision) Message() string {
	if d.Allow || d.Reason == "" {
		return ""
	}
	return d.Reason + " (category=" + string(d.Category) + ")"
}
