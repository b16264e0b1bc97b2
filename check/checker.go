// Package check implements the expression and statement checker: it walks
// a parsed AST, resolving names against an env.Environment, allocating and
// unifying types.Type through an infer.State, and mutating a schema.Schema
// as DDL is processed. Checking never aborts on error; it keeps walking
// and accumulating diagnostics instead of returning on the first problem.
package check

import (
	"github.com/sqlcore-dev/sqlcore/env"
	"github.com/sqlcore-dev/sqlcore/infer"
	"github.com/sqlcore-dev/sqlcore/schema"
	"github.com/sqlcore-dev/sqlcore/types"
)

// Checker threads the environment, inference state, and schema registry
// through one statement's checking pass.
type Checker struct {
	State *infer.State
	Env   *env.Environment
	Schema *schema.Schema
}

// New creates a Checker over an existing schema, with a fresh top-level
// Environment and InferenceState.
func New(sc *schema.Schema, st *infer.State) *Checker {
	return &Checker{State: st, Env: env.New(), Schema: sc}
}

func nominal(name string) types.Type { return types.Nominal{Name: name} }

var (
	integer = nominal("INTEGER")
	real    = nominal("REAL")
	text    = nominal("TEXT")
	blob    = nominal("BLOB")
	anyType = nominal("ANY")
)
