// Package types implements the type algebra: nominal types, type
// variables with kinds, function/row/optional/alias types, and the Error
// sink, plus type schemes, substitution, and the unifier.
//
// The sum-type-via-interface shape generalizes the pattern used elsewhere
// in this module for small closed sums (ast.Stmt, ast.Expr), carrying
// structural equality and a recursive Apply instead of a single accessor.
package types

import "fmt"

// Kind constrains the admissible solutions of a TypeVariable and its
// default concrete type if left unsolved.
type Kind int

const (
	General Kind = iota
	Integer
	Float
)

// max returns the higher-ranked of two kinds, General < Integer < Float.
func maxKind(a, b Kind) Kind {
	if a > b {
		return a
	}
	return b
}

func (k Kind) Default() Type {
	switch k {
	case Integer:
		return Nominal{Name: "INTEGER"}
	case Float:
		return Nominal{Name: "REAL"}
	default:
		return Nominal{Name: "ANY"}
	}
}

func (k Kind) String() string {
	switch k {
	case Integer:
		return "Integer"
	case Float:
		return "Float"
	default:
		return "General"
	}
}

// Type is the sum type of the type algebra. Every concrete case is
// defined in this file; Type is a closed set and callers type-switch on it.
type Type interface {
	isType()
	String() string
}

// Nominal is a SQL type name such as INTEGER, TEXT, BLOB, REAL, ANY.
type Nominal struct{ Name string }

func (Nominal) isType() {}
func (n Nominal) String() string { return n.Name }

// TypeVariable is a placeholder awaiting solution. ID is allocated by
// infer.InferenceState and is unique within one compilation.
type TypeVariable struct {
	ID   uint32
	Kind Kind
}

func (v TypeVariable) String() string { return fmt.Sprintf("t%d", v.ID) }

// Var wraps a TypeVariable as a Type.
type Var struct{ V TypeVariable }

func (Var) isType() {}
func (v Var) String() string { return v.V.String() }

// Fn is an operator/function signature.
type Fn struct {
	Params []Type
	Ret    Type
}

func (Fn) isType() {}
func (f Fn) String() string {
	s := "("
	for i, p := range f.Params {
		if i > 0 {
			s += ", "
		}
		s += p.String()
	}
	return s + ") -> " + f.Ret.String()
}

// RowKind distinguishes the three Row sub-cases.
type RowKind int

const (
	RowFixed RowKind = iota
	RowNamed
	RowUnknown
)

// namedEntry preserves insertion order for RowNamed, since Row column
// order is observable (it drives INSERT positional matching and SELECT *
// expansion).
type namedEntry struct {
	Name string
	Type Type
}

// Row models a tuple type in one of three shapes: Fixed([Type]),
// Named(ordered name->Type), or Unknown(Type) (homogeneous variadic row,
// used for IN operands).
type Row struct {
	Kind    RowKind
	Fixed   []Type
	Named   []namedEntry // RowNamed only
	Unknown Type         // RowUnknown only
}

func (Row) isType() {}

func (r Row) String() string {
	switch r.Kind {
	case RowUnknown:
		return "Row(Unknown(" + r.Unknown.String() + "))"
	case RowNamed:
		s := "Row("
		for i, e := range r.Named {
			if i > 0 {
				s += ", "
			}
			s += e.Name + ": " + e.Type.String()
		}
		return s + ")"
	default:
		s := "Row("
		for i, t := range r.Fixed {
			if i > 0 {
				s += ", "
			}
			s += t.String()
		}
		return s + ")"
	}
}

// Len reports the number of elements visible in the row, for RowFixed and
// RowNamed; it panics for RowUnknown, which has no fixed arity.
func (r Row) Len() int {
	switch r.Kind {
	case RowFixed:
		return len(r.Fixed)
	case RowNamed:
		return len(r.Named)
	default:
		panic("types: Row.Len on RowUnknown")
	}
}

// Elem returns the i'th element's type, for RowFixed and RowNamed.
func (r Row) Elem(i int) Type {
	switch r.Kind {
	case RowFixed:
		return r.Fixed[i]
	case RowNamed:
		return r.Named[i].Type
	default:
		panic("types: Row.Elem on RowUnknown")
	}
}

// NewNamedRow builds a RowNamed preserving the given order.
func NewNamedRow(names []string, elems []Type) Row {
	entries := make([]namedEntry, len(names))
	for i := range names {
		entries[i] = namedEntry{Name: names[i], Type: elems[i]}
	}
	return Row{Kind: RowNamed, Named: entries}
}

// NamedNames returns the ordered names of a RowNamed.
func (r Row) NamedNames() []string {
	names := make([]string, len(r.Named))
	for i, e := range r.Named {
		names[i] = e.Name
	}
	return names
}

// Optional wraps a Type to mark it nullable.
type Optional struct{ Inner Type }

func (Optional) isType() {}
func (o Optional) String() string { return "Optional(" + o.Inner.String() + ")" }

// Alias is a host-visible rename, e.g. `INTEGER AS Bool`; AdapterName
// records the `USING adapter` suffix, if any. Unification pierces Alias.
type Alias struct {
	Inner       Type
	Label       string
	AdapterName string
}

func (Alias) isType() {}
func (a Alias) String() string { return a.Inner.String() + " AS " + a.Label }

// ErrorType is the sink used once a diagnostic has been emitted for some
// syntax; it absorbs further unification silently to avoid cascades.
type ErrorType struct{}

func (ErrorType) isType() {}
func (ErrorType) String() string { return "<error>" }

// Err is the single ErrorType value; Type equality treats all ErrorType
// instances as equal, so sharing this value is just a convenience.
var Err Type = ErrorType{}

// Root peels Alias and Optional to reach the underlying concrete type,
// used by unification rule (12) and by diagnostics that want to talk about
// "the underlying type" rather than its wrapper.
func Root(t Type) Type {
	for {
		switch v := t.(type) {
		case Alias:
			t = v.Inner
		case Optional:
			t = v.Inner
		default:
			return t
		}
	}
}

// StripOptional removes a single layer of Optional, if present.
func StripOptional(t Type) (inner Type, wasOptional bool) {
	if o, ok := t.(Optional); ok {
		return o.Inner, true
	}
	return t, false
}
