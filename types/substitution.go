package types

// Substitution is a mapping from TypeVariable to Type, applied
// structurally to resolve placeholders. It is immutable:
// With returns a new Substitution sharing the receiver's entries, so
// callers can hold onto an older Substitution value safely. infer.State is
// the only component that actually grows one over time (by reassigning its
// own field to the result of With).
type Substitution struct {
	entries map[uint32]Type
}

// With returns a Substitution identical to s but additionally mapping v to
// t. The caller (infer.State, via the unifier) must have already verified
// that s has no existing entry for v — Substitution does not overwrite,
// it panics, since a silent overwrite would hide a unification bug that
// could otherwise introduce a cycle.
func (s Substitution) With(v TypeVariable, t Type) Substitution {
	if _, ok := s.entries[v.ID]; ok {
		panic("types: substitution already binds this variable")
	}
	next := make(map[uint32]Type, len(s.entries)+1)
	for k, v := range s.entries {
		next[k] = v
	}
	next[v.ID] = t
	return Substitution{entries: next}
}

// Lookup returns the Type bound to v, if any.
func (s Substitution) Lookup(v TypeVariable) (Type, bool) {
	t, ok := s.entries[v.ID]
	return t, ok
}

// Apply resolves every Var reachable from t through s, recursively, to a
// fixpoint. It never returns a Var pointing at a variable that s itself
// binds.
func (s Substitution) Apply(t Type) Type {
	switch v := t.(type) {
	case Var:
		if bound, ok := s.entries[v.V.ID]; ok {
			return s.Apply(bound)
		}
		return v
	case Fn:
		params := make([]Type, len(v.Params))
		for i, p := range v.Params {
			params[i] = s.Apply(p)
		}
		return Fn{Params: params, Ret: s.Apply(v.Ret)}
	case Row:
		switch v.Kind {
		case RowUnknown:
			return Row{Kind: RowUnknown, Unknown: s.Apply(v.Unknown)}
		case RowNamed:
			entries := make([]namedEntry, len(v.Named))
			for i, e := range v.Named {
				entries[i] = namedEntry{Name: e.Name, Type: s.Apply(e.Type)}
			}
			return Row{Kind: RowNamed, Named: entries}
		default:
			elems := make([]Type, len(v.Fixed))
			for i, e := range v.Fixed {
				elems[i] = s.Apply(e)
			}
			return Row{Kind: RowFixed, Fixed: elems}
		}
	case Optional:
		return Optional{Inner: s.Apply(v.Inner)}
	case Alias:
		return Alias{Inner: s.Apply(v.Inner), Label: v.Label, AdapterName: v.AdapterName}
	default:
		return t
	}
}

// Default substitutes any Var remaining after Apply with its kind's
// default concrete type, recursing into Optional/Alias/Row structurally.
// The result never contains a Var.
func Default(t Type) Type {
	switch v := t.(type) {
	case Var:
		return v.V.Kind.Default()
	case Fn:
		params := make([]Type, len(v.Params))
		for i, p := range v.Params {
			params[i] = Default(p)
		}
		return Fn{Params: params, Ret: Default(v.Ret)}
	case Row:
		switch v.Kind {
		case RowUnknown:
			return Row{Kind: RowUnknown, Unknown: Default(v.Unknown)}
		case RowNamed:
			entries := make([]namedEntry, len(v.Named))
			for i, e := range v.Named {
				entries[i] = namedEntry{Name: e.Name, Type: Default(e.Type)}
			}
			return Row{Kind: RowNamed, Named: entries}
		default:
			elems := make([]Type, len(v.Fixed))
			for i, e := range v.Fixed {
				elems[i] = Default(e)
			}
			return Row{Kind: RowFixed, Fixed: elems}
		}
	case Optional:
		return Optional{Inner: Default(v.Inner)}
	case Alias:
		return Alias{Inner: Default(v.Inner), Label: v.Label, AdapterName: v.AdapterName}
	default:
		return t
	}
}

// Equal reports structural equality of two fully-applied types. It is used
// by the unifier's first rule ("if t1 == t2, return") and does not itself
// apply any substitution.
func Equal(a, b Type) bool {
	switch av := a.(type) {
	case Nominal:
		bv, ok := b.(Nominal)
		return ok && av.Name == bv.Name
	case Var:
		bv, ok := b.(Var)
		return ok && av.V.ID == bv.V.ID
	case ErrorType:
		_, ok := b.(ErrorType)
		return ok
	case Fn:
		bv, ok := b.(Fn)
		if !ok || len(av.Params) != len(bv.Params) {
			return false
		}
		for i := range av.Params {
			if !Equal(av.Params[i], bv.Params[i]) {
				return false
			}
		}
		return Equal(av.Ret, bv.Ret)
	case Optional:
		bv, ok := b.(Optional)
		return ok && Equal(av.Inner, bv.Inner)
	case Alias:
		bv, ok := b.(Alias)
		return ok && av.Label == bv.Label && Equal(av.Inner, bv.Inner)
	case Row:
		bv, ok := b.(Row)
		if !ok || av.Kind != bv.Kind {
			return false
		}
		switch av.Kind {
		case RowUnknown:
			return Equal(av.Unknown, bv.Unknown)
		case RowNamed:
			if len(av.Named) != len(bv.Named) {
				return false
			}
			for i := range av.Named {
				if av.Named[i].Name != bv.Named[i].Name || !Equal(av.Named[i].Type, bv.Named[i].Type) {
					return false
				}
			}
			return true
		default:
			if len(av.Fixed) != len(bv.Fixed) {
				return false
			}
			for i := range av.Fixed {
				if !Equal(av.Fixed[i], bv.Fixed[i]) {
					return false
				}
			}
			return true
		}
	default:
		return false
	}
}
