package policy

import (
	"strings"

	"github.com/gobwas/glob"

	"github.com/kishhcodes/cloudgate/pkg/provider"
)

// verbTokens returns the tokens of a command following its provider prefix,
// stopping at the first flag-shaped token (one beginning with "-").
func verbTokens(spec provider.Spec, tokens []string) []string {
	if len(tokens) == 0 {
		return nil
	}
	start := 0
	for _, prefix := range spec.Prefixes {
		if tokens[0] == prefix {
			start = 1
			break
		}
	}
	var verbs []string
	for _, tok := range tokens[start:] {
		if strings.HasPrefix(tok, "-") {
			break
		}
		verbs = append(verbs, tok)
	}
	return verbs
}

// Classify assigns a RiskTier and, when applicable, a block-list category to
// a tokenized command. tokens must already be the POSIX-word-split argv
// (see pkg/command.Tokenize).
func Classify(spec provider.Spec, tokens []string) Classification {
	verbs := verbTokens(spec, tokens)
	if len(verbs) == 0 {
		return Classification{Tier: Low}
	}

	for _, pattern := range spec.ReadOnlyVerbs {
		g, err := glob.Compile(pattern)
		if err != nil {
			continue
		}
		for _, v := range verbs {
			if g.Match(v) {
				return Classification{Tier: Safe}
			}
		}
	}

	joined := strings.Join(verbs, " ")
	for _, entry := range spec.BlockList {
		g, err := glob.Compile(entry.Pattern)
		if err != nil {
			continue
		}
		if g.Match(joined) {
			return Classification{
				Tier:     tierFromProvider(entry.Tier),
				Category: entry.Category,
				Matched:  true,
			}
		}
	}

	return Classification{Tier: Low}
}
