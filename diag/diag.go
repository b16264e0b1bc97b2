// Package diag defines the diagnostic type shared by the lexer, parser, and
// checker. None of those components ever abort on error: they append a
// Diagnostic and keep going.
package diag

import (
	"fmt"

	"github.com/sqlcore-dev/sqlcore/token"
)

// Level distinguishes a hard error (the emitted Statement may not be safe
// to execute) from advice.
type Level int

const (
	Error Level = iota
	Warning
)

func (l Level) String() string {
	if l == Warning {
		return "warning"
	}
	return "error"
}

// SuggestionKind tags the shape of a Suggestion.
type SuggestionKind int

const (
	SuggestAppend SuggestionKind = iota
	SuggestReplace
)

// Suggestion is a machine-applicable fix accompanying a Diagnostic.
type Suggestion struct {
	Kind SuggestionKind `json:"kind"`
	// Text is the text to append (SuggestAppend) or the replacement text
	// (SuggestReplace).
	Text string `json:"text"`
	// Range is only meaningful for SuggestReplace.
	Range token.Location `json:"range,omitzero"`
}

// Diagnostic is a single lexical, syntactic, reference, semantic, or policy
// finding produced while compiling a statement.
type Diagnostic struct {
	Message    string      `json:"message"`
	Level      Level       `json:"level"`
	Loc        token.Location `json:"location"`
	Suggestion *Suggestion `json:"suggestion,omitempty"`
}

func (d Diagnostic) String() string {
	return fmt.Sprintf("%s: %s: %s", d.Loc, d.Level, d.Message)
}

// Bag accumulates diagnostics in source order (callers append in source
// order by construction; nothing here re-sorts).
type Bag struct {
	items []Diagnostic
}

func (b *Bag) Add(d Diagnostic) {
	b.items = append(b.items, d)
}

func (b *Bag) Errorf(loc token.Location, format string, args ...any) {
	b.Add(Diagnostic{Message: fmt.Sprintf(format, args...), Level: Error, Loc: loc})
}

func (b *Bag) Warnf(loc token.Location, format string, args ...any) {
	b.Add(Diagnostic{Message: fmt.Sprintf(format, args...), Level: Warning, Loc: loc})
}

// ErrorfSuggest appends an error-level diagnostic with an attached
// suggestion.
func (b *Bag) ErrorfSuggest(loc token.Location, suggestion Suggestion, format string, args ...any) {
	b.Add(Diagnostic{Message: fmt.Sprintf(format, args...), Level: Error, Loc: loc, Suggestion: &suggestion})
}

// All returns every diagnostic recorded so far, in append order.
func (b *Bag) All() []Diagnostic {
	return b.items
}

// HasErrors reports whether any Error-level diagnostic was recorded.
func (b *Bag) HasErrors() bool {
	for _, d := range b.items {
		if d.Level == Error {
			return true
		}
	}
	return false
}

// Extend appends every diagnostic from other, preserving source order when
// other's diagnostics are already source-ordered relative to b's.
func (b *Bag) Extend(other []Diagnostic) {
	b.items = append(b.items, other...)
}
