package compiler

import (
	"github.com/sqlcore-dev/sqlcore/check"
	"github.com/sqlcore-dev/sqlcore/diag"
	"github.com/sqlcore-dev/sqlcore/infer"
	"github.com/sqlcore-dev/sqlcore/nameinfer"
	"github.com/sqlcore-dev/sqlcore/parser"
	"github.com/sqlcore-dev/sqlcore/schema"
)

// QueryCompiler type-checks query sources against a shared Schema
// (typically the one a SchemaCompiler accumulated from the same database's
// migrations), appending one Statement per accepted top-level statement.
type QueryCompiler struct {
	sc         *schema.Schema
	bag        diag.Bag
	statements []Statement
}

// NewQueryCompiler creates a QueryCompiler checking against sc.
func NewQueryCompiler(sc *schema.Schema) *QueryCompiler {
	return &QueryCompiler{sc: sc}
}

// Schema returns the registry queries are checked against.
func (c *QueryCompiler) Schema() *schema.Schema { return c.sc }

// Statements returns every Statement appended across every Compile call so
// far, in source order within each call.
func (c *QueryCompiler) Statements() []Statement { return c.statements }

// AllDiagnostics returns every diagnostic recorded across every Compile
// call so far, in source order within each call.
func (c *QueryCompiler) AllDiagnostics() []diag.Diagnostic { return c.bag.All() }

// Compile parses and type-checks source as a batch of queries, appending a
// Statement for every top-level statement that does not define or alter
// schema: SELECT/INSERT/UPDATE/DELETE (optionally wrapped in DEFINE QUERY),
// and also PRAGMA, REINDEX, and the placeholder left by a statement that
// failed to parse. A CREATE/ALTER/DROP statement is refused with an
// "illegal in queries" diagnostic instead.
func (c *QueryCompiler) Compile(source string) {
	p := parser.New(source)
	stmts := p.Parse()
	c.bag.Extend(p.Bag.All())

	for _, stmt := range stmts {
		if isDDLLike(stmt) {
			c.bag.Errorf(stmt.Location(), "illegal in queries: %s", statementKindName(stmt))
			continue
		}
		st := infer.New(&c.bag)
		chk := check.New(c.sc, st)
		cols := chk.CheckStmt(stmt)
		names := nameinfer.InferStatement(stmt)

		c.statements = append(c.statements, Statement{
			Name: statementName(stmt),
			Signature: Signature{
				Parameters:  buildParameters(st, names),
				Output:      buildResultColumns(cols),
				Cardinality: classify(stmt, c.sc),
			},
			Ast:             stmt,
			IsReadOnly:      isReadOnly(stmt),
			SanitizedSource: sanitize(source, stmt),
		})
	}
}
