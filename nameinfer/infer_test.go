package nameinfer

import (
	"testing"

	"github.com/sqlcore-dev/sqlcore/ast"
	"github.com/sqlcore-dev/sqlcore/parser"
)

func parseOne(t *testing.T, src string) ast.Stmt {
	t.Helper()
	p := parser.New(src)
	stmts := p.Parse()
	if p.Bag.HasErrors() {
		t.Fatalf("unexpected parse errors for %q: %+v", src, p.Bag.All())
	}
	if len(stmts) != 1 {
		t.Fatalf("expected 1 statement, got %d", len(stmts))
	}
	return stmts[0]
}

func TestInferStatementBetweenNaming(t *testing.T) {
	stmt := parseOne(t, "SELECT * FROM events WHERE createdAt BETWEEN ? AND ?")
	names := InferStatement(stmt)

	if got := names[1]; got.Kind != NameSome || got.Text != "createdAtLower" {
		t.Fatalf("param 1 = %+v, want createdAtLower", got)
	}
	if got := names[2]; got.Kind != NameSome || got.Text != "createdAtUpper" {
		t.Fatalf("param 2 = %+v, want createdAtUpper", got)
	}
}

func TestInferStatementInPluralizes(t *testing.T) {
	stmt := parseOne(t, "SELECT * FROM users WHERE status IN (?, ?)")
	names := InferStatement(stmt)

	for _, idx := range []int{1, 2} {
		if got := names[idx]; got.Kind != NameSome || got.Text != "statuses" {
			t.Errorf("param %d = %+v, want statuses", idx, got)
		}
	}
}

func TestInferStatementWhereEqualityNamesBind(t *testing.T) {
	stmt := parseOne(t, "SELECT * FROM users WHERE id = ?")
	names := InferStatement(stmt)

	if got := names[1]; got.Kind != NameSome || got.Text != "id" {
		t.Fatalf("param 1 = %+v, want id", got)
	}
}

func TestInferStatementNamedColonBindWinsOverContext(t *testing.T) {
	stmt := parseOne(t, "SELECT * FROM users WHERE id = :userId")
	names := InferStatement(stmt)

	if got := names[1]; got.Kind != NameSome || got.Text != "userId" {
		t.Fatalf("param 1 = %+v, want userId (explicit name wins)", got)
	}
}

func TestInferStatementNumberedBindFallsBackToContext(t *testing.T) {
	stmt := parseOne(t, "SELECT * FROM users WHERE id = ?1")
	names := InferStatement(stmt)

	if got := names[1]; got.Kind != NameSome || got.Text != "id" {
		t.Fatalf("param 1 = %+v, want id derived from context, not the digit suffix", got)
	}
}

func TestInferStatementInsertColumnPositionNaming(t *testing.T) {
	stmt := parseOne(t, "INSERT INTO users (id, name) VALUES (?, ?)")
	names := InferStatement(stmt)

	if got := names[1]; got.Kind != NameSome || got.Text != "id" {
		t.Fatalf("param 1 = %+v, want id", got)
	}
	if got := names[2]; got.Kind != NameSome || got.Text != "name" {
		t.Fatalf("param 2 = %+v, want name", got)
	}
}

func TestInferStatementUpdateSetNaming(t *testing.T) {
	stmt := parseOne(t, "UPDATE users SET name = ? WHERE id = ?")
	names := InferStatement(stmt)

	if got := names[1]; got.Kind != NameSome || got.Text != "name" {
		t.Fatalf("param 1 = %+v, want name", got)
	}
	if got := names[2]; got.Kind != NameSome || got.Text != "id" {
		t.Fatalf("param 2 = %+v, want id", got)
	}
}

func TestInferStatementReturningAliasNaming(t *testing.T) {
	stmt := parseOne(t, "INSERT INTO users (name) VALUES (?) RETURNING id AS newId")
	names := InferStatement(stmt)

	// The bind parameter only has the column-position context (name);
	// RETURNING's alias names a result column, not a bind parameter, so it
	// must not appear in the Resolved map.
	if got := names[1]; got.Kind != NameSome || got.Text != "name" {
		t.Fatalf("param 1 = %+v, want name", got)
	}
}

func TestInferStatementUnresolvedBindIsAbsent(t *testing.T) {
	stmt := parseOne(t, "SELECT ? + ?")
	names := InferStatement(stmt)

	if _, ok := names[1]; ok {
		t.Fatalf("param 1 should have no derivable name, got %+v", names[1])
	}
	if _, ok := names[2]; ok {
		t.Fatalf("param 2 should have no derivable name, got %+v", names[2])
	}
}
