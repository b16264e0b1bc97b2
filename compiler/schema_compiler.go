package compiler

import (
	"strings"

	"github.com/sqlcore-dev/sqlcore/check"
	"github.com/sqlcore-dev/sqlcore/diag"
	"github.com/sqlcore-dev/sqlcore/infer"
	"github.com/sqlcore-dev/sqlcore/parser"
	"github.com/sqlcore-dev/sqlcore/schema"
)

// SchemaCompiler applies a sequence of migration sources to one running
// Schema. It never executes anything: CREATE/ALTER/DROP statements mutate
// the in-memory registry only.
type SchemaCompiler struct {
	sc  *schema.Schema
	bag diag.Bag
}

// NewSchemaCompiler creates a SchemaCompiler over a fresh, empty Schema.
func NewSchemaCompiler() *SchemaCompiler {
	return &SchemaCompiler{sc: schema.New()}
}

// Schema returns the registry accumulated across every Compile call so far.
func (c *SchemaCompiler) Schema() *schema.Schema { return c.sc }

// AllDiagnostics returns every diagnostic recorded across every Compile
// call so far, in source order within each call.
func (c *SchemaCompiler) AllDiagnostics() []diag.Diagnostic { return c.bag.All() }

// Compile parses and applies source as a migration. Every top-level
// CREATE/ALTER/DROP statement is type-checked against (and mutates) the
// embedded Schema. A SELECT or DEFINE QUERY is refused with an "illegal in
// migrations" diagnostic and contributes nothing to the returned source.
// Compile returns the accepted statements' sanitized, plain-SQLite text.
func (c *SchemaCompiler) Compile(source string) string {
	p := parser.New(source)
	stmts := p.Parse()
	c.bag.Extend(p.Bag.All())

	var sanitized []string
	for _, stmt := range stmts {
		if isQueryLike(stmt) {
			c.bag.Errorf(stmt.Location(), "illegal in migrations: %s", statementKindName(stmt))
			continue
		}
		st := infer.New(&c.bag)
		chk := check.New(c.sc, st)
		chk.CheckStmt(stmt)
		sanitized = append(sanitized, sanitize(source, stmt))
	}
	if len(sanitized) == 0 {
		return ""
	}
	return strings.Join(sanitized, ";\n") + ";"
}
