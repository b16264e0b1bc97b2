// Package infer implements InferenceState: fresh type-variable allocation,
// the running substitution, per-syntax type recording, bind-parameter
// de-duplication, and the accumulating diagnostics list that the
// lexer/parser/checker all append to.
package infer

import (
	"github.com/sqlcore-dev/sqlcore/ast"
	"github.com/sqlcore-dev/sqlcore/diag"
	"github.com/sqlcore-dev/sqlcore/token"
	"github.com/sqlcore-dev/sqlcore/types"
)

// State owns everything the expression/statement checkers need to thread
// through a single compilation: the substitution, recorded syntax types,
// bind-parameter bookkeeping, and diagnostics.
type State struct {
	Bag *diag.Bag

	nextVarID uint32
	sub       types.Substitution

	syntaxTypes map[ast.NodeID]types.Type

	// bindFirstNode maps a bind-parameter index to the NodeID of its first
	// occurrence, so later occurrences of the same name reuse that
	// occurrence's type instead of allocating a fresh variable.
	bindFirstNode map[int]ast.NodeID
	bindLocations map[int][]token.Location
}

// New creates a State reporting into bag.
func New(bag *diag.Bag) *State {
	return &State{
		Bag:           bag,
		syntaxTypes:   make(map[ast.NodeID]types.Type),
		bindFirstNode: make(map[int]ast.NodeID),
		bindLocations: make(map[int][]token.Location),
	}
}

// FreshVar allocates a new, unbound TypeVariable of the given kind.
func (s *State) FreshVar(kind types.Kind) types.TypeVariable {
	s.nextVarID++
	return types.TypeVariable{ID: s.nextVarID, Kind: kind}
}

// FreshVarType is FreshVar wrapped as a Type, the most common use.
func (s *State) FreshVarType(kind types.Kind) types.Type {
	return types.Var{V: s.FreshVar(kind)}
}

// FreshVarFor allocates a fresh variable and records it as node's type.
func (s *State) FreshVarFor(node ast.NodeID, kind types.Kind) types.Type {
	t := s.FreshVarType(kind)
	s.Record(node, t)
	return t
}

// FreshVarForParam allocates (or reuses) the type for the bind parameter
// occurrence at node, given its de-duplicated index. The first time index
// is seen, a fresh variable is allocated and node becomes its canonical
// occurrence; subsequent calls with the same index return that
// occurrence's recorded type (after substitution) instead of a new
// variable.
func (s *State) FreshVarForParam(node ast.NodeID, index int, loc token.Location) types.Type {
	s.bindLocations[index] = append(s.bindLocations[index], loc)
	if first, ok := s.bindFirstNode[index]; ok {
		t := s.syntaxTypes[first]
		s.Record(node, t)
		return t
	}
	s.bindFirstNode[index] = node
	t := s.FreshVarType(types.General)
	s.Record(node, t)
	return t
}

// Record associates node with t, overwriting any previous association (the
// checker re-records a node's type whenever unification refines it).
func (s *State) Record(node ast.NodeID, t types.Type) {
	s.syntaxTypes[node] = t
}

// TypeOf returns the last type recorded for node, or types.Err if none was
// ever recorded (a checker bug, but non-fatal: callers get a type that
// behaves inertly under further unification).
func (s *State) TypeOf(node ast.NodeID) types.Type {
	if t, ok := s.syntaxTypes[node]; ok {
		return t
	}
	return types.Err
}

// NominalOf records and returns the Nominal type named name for node.
func (s *State) NominalOf(node ast.NodeID, name string) types.Type {
	t := types.Type(types.Nominal{Name: name})
	s.Record(node, t)
	return t
}

// ErrorTypeFor records and returns types.Err for node, used once a
// diagnostic already covers node's problem.
func (s *State) ErrorTypeFor(node ast.NodeID) types.Type {
	s.Record(node, types.Err)
	return types.Err
}

// Unify equates t1 and t2 at loc, growing the substitution and appending a
// diagnostic to s.Bag on failure.
func (s *State) Unify(t1, t2 types.Type, loc token.Location) {
	u := types.Unifier{Sub: s.sub, Bag: s.Bag}
	u.Unify(t1, t2, loc)
	s.sub = u.Sub
}

// Solution applies the current substitution to t, and if defaultIfVar,
// additionally replaces every remaining Var with its kind's default,
// recursing structurally. Idempotent: Solution(Solution(t, true), true) ==
// Solution(t, true).
func (s *State) Solution(t types.Type, defaultIfVar bool) types.Type {
	applied := s.sub.Apply(t)
	if defaultIfVar {
		return types.Default(applied)
	}
	return applied
}

// SolutionOf is Solution(TypeOf(node), defaultIfVar), also re-recording
// the resolved type back onto node so later passes observe the solved
// type directly: the type recorded after checking always equals
// solution(recorded_type) under the final substitution.
func (s *State) SolutionOf(node ast.NodeID, defaultIfVar bool) types.Type {
	t := s.Solution(s.TypeOf(node), defaultIfVar)
	s.Record(node, t)
	return t
}

// ParameterSolution is one bind parameter's resolved type and every
// location where it occurred in the statement.
type ParameterSolution struct {
	Index     int
	Type      types.Type
	Locations []token.Location
}

// ParameterSolutions iterates bind indices in ascending order, returning
// each one's resolved type and occurrence locations.
func (s *State) ParameterSolutions(defaultIfVar bool) []ParameterSolution {
	indices := make([]int, 0, len(s.bindFirstNode))
	for idx := range s.bindFirstNode {
		indices = append(indices, idx)
	}
	// Insertion order is not guaranteed by map iteration; sort ascending so
	// ParameterSolutions is deterministic regardless of allocation order.
	for i := 1; i < len(indices); i++ {
		for j := i; j > 0 && indices[j-1] > indices[j]; j-- {
			indices[j-1], indices[j] = indices[j], indices[j-1]
		}
	}

	out := make([]ParameterSolution, 0, len(indices))
	for _, idx := range indices {
		node := s.bindFirstNode[idx]
		t := s.Solution(s.TypeOf(node), defaultIfVar)
		s.Record(node, t)
		out = append(out, ParameterSolution{
			Index:     idx,
			Type:      t,
			Locations: s.bindLocations[idx],
		})
	}
	return out
}

// ResetParameterIndex clears bind-parameter bookkeeping between top-level
// statements: the parameter counter resets at the start of each one.
// Recorded syntax types and the substitution are untouched: they belong to
// the statement just finished, which callers are expected to have already
// pulled ParameterSolutions from.
func (s *State) ResetParameterIndex() {
	s.bindFirstNode = make(map[int]ast.NodeID)
	s.bindLocations = make(map[int][]token.Location)
}
