package check

import (
	"testing"

	"github.com/sqlcore-dev/sqlcore/ast"
	"github.com/sqlcore-dev/sqlcore/diag"
	"github.com/sqlcore-dev/sqlcore/infer"
	"github.com/sqlcore-dev/sqlcore/parser"
	"github.com/sqlcore-dev/sqlcore/schema"
	"github.com/sqlcore-dev/sqlcore/types"
)

// checkSource parses and checks every statement in src against a fresh
// Checker sharing one Schema, applying CREATE TABLE statements as they're
// seen so later statements can reference earlier tables.
func checkSource(t *testing.T, src string) (*Checker, []ast.Stmt) {
	t.Helper()
	p := parser.New(src)
	stmts := p.Parse()
	if p.Bag.HasErrors() {
		t.Fatalf("unexpected parse errors for %q: %+v", src, p.Bag.All())
	}
	sc := schema.New()
	st := infer.New(&diag.Bag{})
	c := New(sc, st)
	for _, stmt := range stmts {
		c.CheckStmt(stmt)
	}
	return c, stmts
}

func TestSelectWhereNonIntegerDiagnoses(t *testing.T) {
	c, _ := checkSource(t, "CREATE TABLE foo (name TEXT NOT NULL);")
	if c.State.Bag.HasErrors() {
		t.Fatalf("unexpected errors creating table: %+v", c.State.Bag.All())
	}
	c.State.Bag = &diag.Bag{}
	checkSelectFromSource(t, c, "SELECT * FROM foo WHERE name;")
	if !c.State.Bag.HasErrors() {
		t.Fatal("expected a diagnostic: WHERE must unify with INTEGER")
	}
}

func TestSelectWhereIntegerOK(t *testing.T) {
	c, _ := checkSource(t, "CREATE TABLE foo (id INTEGER NOT NULL, name TEXT NOT NULL);")
	c.State.Bag = &diag.Bag{}
	checkSelectFromSource(t, c, "SELECT * FROM foo WHERE id = 1;")
	if c.State.Bag.HasErrors() {
		t.Fatalf("unexpected errors: %+v", c.State.Bag.All())
	}
}

func TestSelectHavingNonIntegerDiagnoses(t *testing.T) {
	c, _ := checkSource(t, "CREATE TABLE foo (name TEXT NOT NULL);")
	c.State.Bag = &diag.Bag{}
	checkSelectFromSource(t, c, "SELECT name FROM foo GROUP BY name HAVING name;")
	if !c.State.Bag.HasErrors() {
		t.Fatal("expected a diagnostic: HAVING must unify with INTEGER")
	}
}

func TestJoinOnNonIntegerDiagnoses(t *testing.T) {
	c, _ := checkSource(t, "CREATE TABLE foo (name TEXT NOT NULL); CREATE TABLE bar (name TEXT NOT NULL);")
	c.State.Bag = &diag.Bag{}
	checkSelectFromSource(t, c, "SELECT * FROM foo JOIN bar ON foo.name;")
	if !c.State.Bag.HasErrors() {
		t.Fatal("expected a diagnostic: JOIN ON must unify with INTEGER")
	}
}

func TestBooleanLiteralIsIntegerNotBoolean(t *testing.T) {
	c, _ := checkSource(t, "CREATE TABLE foo (id INTEGER);")
	c.State.Bag = &diag.Bag{}

	p := parser.New("SELECT true FROM foo;")
	stmts := p.Parse()
	if p.Bag.HasErrors() {
		t.Fatalf("unexpected parse errors: %+v", p.Bag.All())
	}
	sel := stmts[0].(*ast.Select)
	cols := c.CheckSelect(sel)
	if c.State.Bag.HasErrors() {
		t.Fatalf("unexpected errors: %+v", c.State.Bag.All())
	}
	if len(cols) != 1 {
		t.Fatalf("expected 1 column, got %d", len(cols))
	}
	n, ok := types.Root(cols[0].Type).(types.Nominal)
	if !ok || n.Name != "INTEGER" {
		t.Fatalf("boolean literal type = %v, want Nominal(INTEGER)", cols[0].Type)
	}
}

func TestComparisonResultUnifiesAgainstInteger(t *testing.T) {
	c, _ := checkSource(t, "CREATE TABLE foo (id INTEGER);")
	c.State.Bag = &diag.Bag{}
	checkSelectFromSource(t, c, "SELECT * FROM foo WHERE (id = 1) = 1;")
	if c.State.Bag.HasErrors() {
		t.Fatalf("unexpected errors: %+v (a comparison's result must unify with the INTEGER literal 1)", c.State.Bag.All())
	}
}

// checkSelectFromSource parses src (expected to be a single SELECT) against
// the schema already registered on c and runs CheckSelect once, returning
// the parsed statements for further inspection.
func checkSelectFromSource(t *testing.T, c *Checker, src string) []ast.Stmt {
	t.Helper()
	p := parser.New(src)
	stmts := p.Parse()
	if p.Bag.HasErrors() {
		t.Fatalf("unexpected parse errors for %q: %+v", src, p.Bag.All())
	}
	for _, stmt := range stmts {
		c.CheckStmt(stmt)
	}
	return stmts
}
