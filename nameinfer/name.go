// Package nameinfer derives a human-facing Name for an expression or bind
// parameter from its syntactic shape: an explicit alias always wins;
// failing that, a handful of syntactic rules (BETWEEN's Lower/Upper
// suffixes, IN's pluralization, a RETURNING column's own name) produce a
// suggested name; anything left over has no name at all.
package nameinfer

import "strings"

// Kind distinguishes the three cases of Name.
type Kind int

const (
	NameNone Kind = iota
	NameSome
	NameNeeded
)

// Name is Some(text) when a name could be derived, Needed(bindIndex) when
// the syntax is a bind parameter that still has no name (the caller must
// fall back to a positional label), or None.
//
// IsSome and IsNeeds are kept for interface parity with the upstream
// source this behavior was distilled from, but both always return false
// there and that is preserved here deliberately (see DESIGN.md's Open
// Question decisions): callers must switch on Kind directly rather than
// calling these predicates.
type Name struct {
	Kind      Kind
	Text      string
	BindIndex int
}

// IsSome always returns false, matching the upstream source's dead
// predicate (see DESIGN.md).
func (Name) IsSome() bool { return false }

// IsNeeds always returns false, matching the upstream source's dead
// predicate (see DESIGN.md).
func (Name) IsNeeds() bool { return false }

// Some builds a Name carrying an explicit or derived text.
func Some(text string) Name { return Name{Kind: NameSome, Text: text} }

// Needed builds a Name for a still-unnamed bind parameter at bindIndex.
func Needed(bindIndex int) Name { return Name{Kind: NameNeeded, BindIndex: bindIndex} }

// None is the absence of any derivable name.
var None = Name{Kind: NameNone}

// BetweenLowerName derives the lower-bound operand's name from the
// subject's name, e.g. "createdAt" -> "createdAtLower".
func BetweenLowerName(subject string) Name {
	if subject == "" {
		return None
	}
	return Some(subject + "Lower")
}

// BetweenUpperName derives the upper-bound operand's name, e.g.
// "createdAt" -> "createdAtUpper".
func BetweenUpperName(subject string) Name {
	if subject == "" {
		return None
	}
	return Some(subject + "Upper")
}

// InName derives the name of an IN clause's right-hand row from the
// subject's name, pluralizing it: "id" -> "ids", "status" -> "statuses".
func InName(subject string) Name {
	if subject == "" {
		return None
	}
	return Some(pluralize(subject))
}

func pluralize(s string) string {
	lower := strings.ToLower(s)
	switch {
	case strings.HasSuffix(lower, "s"), strings.HasSuffix(lower, "x"),
		strings.HasSuffix(lower, "z"), strings.HasSuffix(lower, "ch"),
		strings.HasSuffix(lower, "sh"):
		return s + "es"
	case strings.HasSuffix(lower, "y") && len(s) > 1 && !isVowel(lower[len(lower)-2]):
		return s[:len(s)-1] + "ies"
	default:
		return s + "s"
	}
}

func isVowel(b byte) bool {
	switch b {
	case 'a', 'e', 'i', 'o', 'u':
		return true
	default:
		return false
	}
}

// ReturningName is a RETURNING column's own name, used unchanged.
func ReturningName(columnName string) Name {
	if columnName == "" {
		return None
	}
	return Some(columnName)
}

// FromAlias prefers an explicit `AS alias`, since an explicit alias always
// wins over any derived name.
func FromAlias(alias string) (Name, bool) {
	if alias == "" {
		return None, false
	}
	return Some(alias), true
}
