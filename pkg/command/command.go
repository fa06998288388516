// Package command implements the gateway's view of a user-supplied command:
// a canonicalized, opaque string that is tokenized with POSIX-style word
// splitting and never handed to a shell.
package command

import (
	"strings"

	gwerrors "github.com/kishhcodes/cloudgate/pkg/shared/errors"
)

// Canonicalize trims leading/trailing whitespace. No other normalization is
// performed — the command's casing and internal spacing are preserved for
// execution.
func Canonicalize(raw string) string {
	return strings.TrimSpace(raw)
}

// Tokenize splits s into argv-style tokens using POSIX-like word splitting:
// single and double quotes group whitespace, and a small set of shell
// metacharacters that would otherwise imply shell interpretation — backticks,
// "$(", ";", "&", "<", ">" — are rejected whenever they appear outside of a
// quoted region. The gateway never invokes a shell, so nothing here is ever
// given meta-character semantics; finding one outside quotes means the
// caller is attempting shell interpretation we must refuse up front.
func Tokenize(s string) ([]string, error) {
	var tokens []string
	var current strings.Builder
	hasToken := false

	var quote rune // 0, '\'', or '"'
	runes := []rune(s)

	flush := func() {
		if hasToken {
			tokens = append(tokens, current.String())
			current.Reset()
			hasToken = false
		}
	}

	for i := 0; i < len(runes); i++ {
		r := runes[i]

		if quote != 0 {
			if r == quote {
				quote = 0
				continue
			}
			current.WriteRune(r)
			continue
		}

		switch {
		case r == '\'' || r == '"':
			quote = r
			hasToken = true
		case r == ' ' || r == '\t' || r == '\n' || r == '\r':
			flush()
		case r == '`':
			return nil, gwerrors.NewCategory(gwerrors.KindValidation, "shell-metacharacter", "backtick command substitution is not permitted")
		case r == '$' && i+1 < len(runes) && runes[i+1] == '(':
			return nil, gwerrors.NewCategory(gwerrors.KindValidation, "shell-metacharacter", "$(...) command substitution is not permitted")
		case r == ';':
			return nil, gwerrors.NewCategory(gwerrors.KindValidation, "shell-metacharacter", "command separator ';' is not permitted")
		case r == '&':
			return nil, gwerrors.NewCategory(gwerrors.KindValidation, "shell-metacharacter", "background/conjunction operator '&' is not permitted")
		case r == '<' || r == '>':
			return nil, gwerrors.NewCategory(gwerrors.KindValidation, "shell-metacharacter", "redirection is not permitted")
		default:
			current.WriteRune(r)
			hasToken = true
		}
	}

	if quote != 0 {
		return nil, gwerrors.NewCategory(gwerrors.KindValidation, "unbalanced-quote", "unterminated quote in command")
	}
	flush()

	return tokens, nil
}
