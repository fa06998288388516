// Package nlinterp implements the gateway's natural-language interpreter
// (component C2): resolving free-form operator text to a canonical provider
// command via a per-provider phrase dictionary.
package nlinterp

import (
	"sort"
	"strings"
	"sync"

	"github.com/kishhcodes/cloudgate/pkg/provider"
)

// Unknown is returned by Interpret when no dictionary entry matches text.
const Unknown = ""

// entry pairs a phrase with its command and the insertion index it held in
// the provider spec, so that equal-length phrases tie-break to the first
// declared.
type entry struct {
	phrase string
	command string
	order  int
}

// Interpreter resolves text against one provider's NL dictionary. It is
// read-only after construction and safe for concurrent use.
type Interpreter struct {
	once    sync.Once
	entries []entry
	spec    provider.Spec
}

// New builds an Interpreter over spec's NL dictionary, pre-sorted by
// descending phrase length (ties broken by declaration order).
func New(spec provider.Spec) *Interpreter {
	i := &Interpreter{spec: spec}
	i.build()
	return i
}

func (i *Interpreter) build() {
	i.once.Do(func() {
		entries := make([]entry, len(i.spec.NLDictionary))
		for idx, e := range i.spec.NLDictionary {
			entries[idx] = entry{phrase: strings.ToLower(e.Phrase), command: e.Command, order: idx}
		}
		sort.SliceStable(entries, func(a, b int) bool {
			if len(entries[a].phrase) != len(entries[b].phrase) {
				return len(entries[a].phrase) > len(entries[b].phrase)
			}
			return entries[a].order < entries[b].order
		})
		i.entries = entries
	})
}

// Interpret lowercases and collapses whitespace in text, then returns the
// command of the longest dictionary phrase that is a substring of text.
// Ties go to the phrase declared first. Returns Unknown if nothing matches.
func Interpret(spec provider.Spec, text string) string {
	return New(spec).Interpret(text)
}

// Interpret resolves text against the interpreter's pre-built dictionary.
func (i *Interpreter) Interpret(text string) string {
	normalized := normalize(text)
	for _, e := range i.entries {
		if strings.Contains(normalized, e.phrase) {
			return e.command
		}
	}
	return Unknown
}

func normalize(text string) string {
	fields := strings.Fields(strings.ToLower(text))
	return strings.Join(fields, " ")
}
