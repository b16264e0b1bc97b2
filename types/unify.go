package types

import (
	"github.com/sqlcore-dev/sqlcore/diag"
	"github.com/sqlcore-dev/sqlcore/token"
)

// admissible reports whether a concrete Nominal is an acceptable solution
// for a variable of the given kind. General admits anything; Integer/Float
// admit only INT|INTEGER|REAL, piercing Optional and Alias to find the
// underlying nominal.
func admissible(kind Kind, t Type) bool {
	if kind == General {
		return true
	}
	switch Root(t).(type) {
	case Nominal:
		n := Root(t).(Nominal).Name
		return n == "INT" || n == "INTEGER" || n == "REAL" || n == "ANY"
	default:
		return true
	}
}

// Unifier carries the substitution being built up over the course of one
// compilation and emits diagnostics to bag as unification fails. It is a
// thin, explicit alternative to giving InferenceState direct knowledge of
// the unification algorithm, so package types stays self-contained from
// the inference state that drives it.
type Unifier struct {
	Sub Substitution
	Bag *diag.Bag
}

// Unify equates t1 and t2, mutating u.Sub and, on failure, appending a
// diagnostic to u.Bag at loc. It works through a fixed set of cases in
// order: structural equality, variable binding, row reconciliation, and
// nominal/alias unwrapping.
func (u *Unifier) Unify(t1, t2 Type, loc token.Location) {
	t1 = u.Sub.Apply(t1)
	t2 = u.Sub.Apply(t2)

	// 1. structural equality
	if Equal(t1, t2) {
		return
	}
	// 2. either side already Error: a prior diagnostic stands
	if _, ok := t1.(ErrorType); ok {
		return
	}
	if _, ok := t2.(ErrorType); ok {
		return
	}

	v1, isVar1 := t1.(Var)
	v2, isVar2 := t2.(Var)

	// 3. Var, Var
	if isVar1 && isVar2 {
		if v1.V.Kind >= v2.V.Kind {
			u.bind(v1.V, t2)
		} else {
			u.bind(v2.V, t1)
		}
		return
	}

	o1, isOpt1 := t1.(Optional)
	o2, isOpt2 := t2.(Optional)

	// 4. Optional, Optional
	if isOpt1 && isOpt2 {
		u.Unify(o1.Inner, o2.Inner, loc)
		return
	}

	// 5. Var, Optional(Var) (or symmetric)
	if isVar1 && isOpt2 {
		if innerVar, ok := o2.Inner.(Var); ok {
			k := maxKind(v1.V.Kind, innerVar.V.Kind)
			u.bind(v1.V, Optional{Inner: Var{V: TypeVariable{ID: innerVar.V.ID, Kind: k}}})
			return
		}
	}
	if isVar2 && isOpt1 {
		if innerVar, ok := o1.Inner.(Var); ok {
			k := maxKind(v2.V.Kind, innerVar.V.Kind)
			fresh := TypeVariable{ID: innerVar.V.ID, Kind: k}
			u.bind(v2.V, Optional{Inner: Var{V: fresh}})
			return
		}
	}

	// 6. Optional(Var), concrete (or symmetric)
	if isOpt1 {
		if iv, ok := o1.Inner.(Var); ok {
			if !isVar2 && !isOpt2 {
				u.bind(iv.V, t2)
				return
			}
		}
	}
	if isOpt2 {
		if iv, ok := o2.Inner.(Var); ok {
			if !isVar1 && !isOpt1 {
				u.bind(iv.V, t1)
				return
			}
		}
	}

	// 7. Var, concrete (or symmetric)
	if isVar1 {
		if admissible(v1.V.Kind, t2) {
			u.bind(v1.V, t2)
		} else {
			u.Bag.Errorf(loc, "cannot unify %s with %s", t1, t2)
		}
		return
	}
	if isVar2 {
		if admissible(v2.V.Kind, t1) {
			u.bind(v2.V, t1)
		} else {
			u.Bag.Errorf(loc, "cannot unify %s with %s", t1, t2)
		}
		return
	}

	// 8. INTEGER/REAL, TEXT/BLOB, or either ANY: compatible without substitution
	if n1, ok1 := t1.(Nominal); ok1 {
		if n2, ok2 := t2.(Nominal); ok2 {
			if compatibleNominals(n1.Name, n2.Name) {
				return
			}
		}
	}

	// 9. Fn, Fn with equal arity
	if f1, ok1 := t1.(Fn); ok1 {
		if f2, ok2 := t2.(Fn); ok2 && len(f1.Params) == len(f2.Params) {
			for i := range f1.Params {
				u.Unify(f1.Params[i], f2.Params[i], loc)
			}
			u.Unify(u.Sub.Apply(f1.Ret), u.Sub.Apply(f2.Ret), loc)
			return
		}
	}

	// 10. Row cases
	if r1, ok1 := t1.(Row); ok1 {
		if r2, ok2 := t2.(Row); ok2 {
			u.unifyRows(r1, r2, loc)
			return
		}
		if r1.Kind == RowUnknown {
			u.Unify(r1.Unknown, t2, loc)
			return
		}
		if r1.Kind != RowUnknown && r1.Len() == 1 {
			u.Unify(r1.Elem(0), t2, loc)
			return
		}
	}
	if r2, ok2 := t2.(Row); ok2 {
		if r2.Kind == RowUnknown {
			u.Unify(t1, r2.Unknown, loc)
			return
		}
		if r2.Kind != RowUnknown && r2.Len() == 1 {
			u.Unify(t1, r2.Elem(0), loc)
			return
		}
	}

	// 11. Alias: unwrap and unify
	if a1, ok1 := t1.(Alias); ok1 {
		u.Unify(a1.Inner, t2, loc)
		return
	}
	if a2, ok2 := t2.(Alias); ok2 {
		u.Unify(t1, a2.Inner, loc)
		return
	}

	// 12. same root after peeling Alias/Optional
	if Equal(Root(t1), Root(t2)) {
		return
	}
	u.Bag.Errorf(loc, "cannot unify %s with %s", t1, t2)
}

func (u *Unifier) unifyRows(r1, r2 Row, loc token.Location) {
	if r1.Kind == RowUnknown {
		for i := 0; i < r2.Len(); i++ {
			u.Unify(r1.Unknown, r2.Elem(i), loc)
		}
		return
	}
	if r2.Kind == RowUnknown {
		for i := 0; i < r1.Len(); i++ {
			u.Unify(r1.Elem(i), r2.Unknown, loc)
		}
		return
	}
	if r1.Len() == 1 && r2.Len() != 1 {
		u.Unify(r1.Elem(0), r2, loc)
		return
	}
	if r2.Len() == 1 && r1.Len() != 1 {
		u.Unify(r1, r2.Elem(0), loc)
		return
	}
	if r1.Len() != r2.Len() {
		u.Bag.Errorf(loc, "cannot unify %s with %s: row length mismatch", r1, r2)
		return
	}
	for i := 0; i < r1.Len(); i++ {
		u.Unify(r1.Elem(i), r2.Elem(i), loc)
	}
}

func compatibleNominals(a, b string) bool {
	if a == "ANY" || b == "ANY" {
		return true
	}
	if a == b {
		return true
	}
	integerReal := map[string]bool{"INTEGER": true, "INT": true, "REAL": true}
	textBlob := map[string]bool{"TEXT": true, "BLOB": true}
	if integerReal[a] && integerReal[b] {
		return true
	}
	if textBlob[a] && textBlob[b] {
		return true
	}
	return false
}

// bind asserts v is unbound and grows u.Sub. Because Unify always calls
// u.Sub.Apply on both operands before
// dispatching, t cannot itself contain v, so the substitution stays a DAG.
func (u *Unifier) bind(v TypeVariable, t Type) {
	u.Sub = u.Sub.With(v, t)
}
