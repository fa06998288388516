// Package pipeline implements the gateway's pipeline parser (component C3):
// splitting a command string on unquoted "|" into stages and validating
// that stage 0 is a provider command and every later stage is a permitted
// text utility.
package pipeline

import (
	"strings"

	"github.com/kishhcodes/cloudgate/pkg/command"
	gwerrors "github.com/kishhcodes/cloudgate/pkg/shared/errors"
)

// UtilityAllowlist are the only commands permitted in stages after stage 0.
var UtilityAllowlist = map[string]bool{
	"grep": true, "head": true, "tail": true, "cut": true,
	"awk": true, "sort": true, "uniq": true, "wc": true, "sed": true,
}

// Stage is one parsed pipeline stage: its raw text and tokenized argv.
type Stage struct {
	Text   string
	Tokens []string
}

// Parse splits raw on unquoted "|" and tokenizes each resulting stage.
// Shell metacharacters forbidden everywhere (backtick, "$(", ";", "&&",
// "||") cause a ValidationError even inside an otherwise well-formed
// pipeline; unbalanced quotes do too.
func Parse(raw string) ([]Stage, error) {
	parts, err := splitOnPipe(raw)
	if err != nil {
		return nil, err
	}

	stages := make([]Stage, 0, len(parts))
	for _, part := range parts {
		text := strings.TrimSpace(part)
		if text == "" {
			return nil, gwerrors.NewCategory(gwerrors.KindValidation, "parse", "empty pipeline stage")
		}
		tokens, err := command.Tokenize(text)
		if err != nil {
			return nil, err
		}
		if len(tokens) == 0 {
			return nil, gwerrors.NewCategory(gwerrors.KindValidation, "parse", "empty pipeline stage")
		}
		stages = append(stages, Stage{Text: text, Tokens: tokens})
	}
	return stages, nil
}

// splitOnPipe walks raw left-to-right, splitting on "|" that is outside a
// quoted region, and rejects "||" and "&&" wherever they occur (distinct
// from command.Tokenize's single-"&" rule, since "||"/"&&" would otherwise
// be consumed as two pipe/ampersand tokens before that check runs).
func splitOnPipe(raw string) ([]string, error) {
	var parts []string
	var current strings.Builder
	var quote rune
	runes := []rune(raw)

	for i := 0; i < len(runes); i++ {
		r := runes[i]

		if quote != 0 {
			current.WriteRune(r)
			if r == quote {
				quote = 0
			}
			continue
		}

		switch {
		case r == '\'' || r == '"':
			quote = r
			current.WriteRune(r)
		case r == '|':
			if i+1 < len(runes) && runes[i+1] == '|' {
				return nil, gwerrors.NewCategory(gwerrors.KindValidation, "shell-metacharacter", "'||' is not permitted")
			}
			parts = append(parts, current.String())
			current.Reset()
		case r == '&' && i+1 < len(runes) && runes[i+1] == '&':
			return nil, gwerrors.NewCategory(gwerrors.KindValidation, "shell-metacharacter", "'&&' is not permitted")
		default:
			current.WriteRune(r)
		}
	}

	if quote != 0 {
		return nil, gwerrors.NewCategory(gwerrors.KindValidation, "unbalanced-quote", "unterminated quote in command")
	}
	parts = append(parts, current.String())
	return parts, nil
}

// Validate checks that stage 0's first token is one of prefixes and every
// later stage's first token is in UtilityAllowlist.
func Validate(stages []Stage, prefixes []string) error {
	if len(stages) == 0 {
		return gwerrors.NewCategory(gwerrors.KindValidation, "parse", "no pipeline stages")
	}

	first := stages[0].Tokens[0]
	if !contains(prefixes, first) {
		return gwerrors.NewCategory(gwerrors.KindValidation, "provider-prefix", "stage 0 must begin with a provider command")
	}

	for _, stage := range stages[1:] {
		verb := stage.Tokens[0]
		if !UtilityAllowlist[verb] {
			return gwerrors.NewCategory(gwerrors.KindValidation, "utility-allowlist", "unrecognized pipeline utility: "+verb)
		}
	}
	return nil
}

func contains(ss []string, s string) bool {
	for _, v := range ss {
		if v == s {
			return true
		}
	}
	return false
}
