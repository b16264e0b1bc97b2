package env

import (
	"testing"

	"github.com/sqlcore-dev/sqlcore/token"
)

func TestLookupColumnUnqualifiedUnique(t *testing.T) {
	e := New()
	e.ImportTable("u", []ColumnSpec{{Name: "id", Type: nominal("INTEGER")}}, ImportOptions{})

	r := e.LookupColumn("id")
	if r.Status != Success {
		t.Fatalf("got status %v, want Success", r.Status)
	}
}

func TestLookupColumnAmbiguous(t *testing.T) {
	e := New()
	e.ImportTable("a", []ColumnSpec{{Name: "id", Type: nominal("INTEGER")}}, ImportOptions{})
	e.ImportTable("b", []ColumnSpec{{Name: "id", Type: nominal("INTEGER")}}, ImportOptions{})

	if got := e.LookupColumn("id").Status; got != Ambiguous {
		t.Fatalf("got status %v, want Ambiguous", got)
	}
}

func TestLookupColumnDoesNotExist(t *testing.T) {
	e := New()
	e.ImportTable("a", []ColumnSpec{{Name: "id", Type: nominal("INTEGER")}}, ImportOptions{})

	if got := e.LookupColumn("nope").Status; got != ColumnDoesNotExist {
		t.Fatalf("got status %v, want ColumnDoesNotExist", got)
	}
}

func TestLookupQualifiedColumn(t *testing.T) {
	e := New()
	e.ImportTable("a", []ColumnSpec{{Name: "id", Type: nominal("INTEGER")}}, ImportOptions{})

	if got := e.LookupQualifiedColumn("a", "id").Status; got != Success {
		t.Fatalf("got status %v, want Success", got)
	}
	if got := e.LookupQualifiedColumn("a", "missing").Status; got != ColumnDoesNotExist {
		t.Fatalf("got status %v, want ColumnDoesNotExist", got)
	}
	if got := e.LookupQualifiedColumn("z", "id").Status; got != TableDoesNotExist {
		t.Fatalf("got status %v, want TableDoesNotExist", got)
	}
}

func TestQualifiedOnlyHidesUnqualified(t *testing.T) {
	e := New()
	e.ImportTable("excluded", []ColumnSpec{{Name: "id", Type: nominal("INTEGER")}}, ImportOptions{QualifiedOnly: true})

	if got := e.LookupColumn("id").Status; got != ColumnDoesNotExist {
		t.Fatalf("got status %v, want ColumnDoesNotExist (qualified-only import leaked unqualified)", got)
	}
	if got := e.LookupQualifiedColumn("excluded", "id").Status; got != Success {
		t.Fatalf("got status %v, want Success via qualified access", got)
	}
}

func TestOnlyColumnsUnqualifiedRestricts(t *testing.T) {
	e := New()
	e.ImportTable("new", []ColumnSpec{
		{Name: "id", Type: nominal("INTEGER")},
		{Name: "name", Type: nominal("TEXT")},
	}, ImportOptions{OnlyColumnsUnqualified: []string{"name"}})

	if got := e.LookupColumn("id").Status; got != ColumnDoesNotExist {
		t.Fatalf("id should not be reachable unqualified, got %v", got)
	}
	if got := e.LookupColumn("name").Status; got != Success {
		t.Fatalf("name should be reachable unqualified, got %v", got)
	}
	if got := e.LookupQualifiedColumn("new", "id").Status; got != Success {
		t.Fatalf("id should remain reachable qualified, got %v", got)
	}
}

func TestOptionalWrapsColumnsForOuterJoin(t *testing.T) {
	e := New()
	e.ImportTable("r", []ColumnSpec{{Name: "id", Type: nominal("INTEGER")}}, ImportOptions{Optional: true})

	r := e.LookupColumn("id")
	if r.Type.String() != "Optional(INTEGER)" {
		t.Fatalf("got %s, want Optional(INTEGER)", r.Type.String())
	}
}

func TestPushPopScopeShadowing(t *testing.T) {
	e := New()
	e.ImportTable("outer", []ColumnSpec{{Name: "id", Type: nominal("INTEGER")}}, ImportOptions{})

	e.Push()
	e.ImportTable("inner", []ColumnSpec{{Name: "id", Type: nominal("TEXT")}}, ImportOptions{})
	if got := e.LookupColumn("id").Type.String(); got != "TEXT" {
		t.Fatalf("inner scope should shadow outer, got %s", got)
	}
	e.Pop()

	if got := e.LookupColumn("id").Type.String(); got != "INTEGER" {
		t.Fatalf("after Pop, outer scope should resolve again, got %s", got)
	}
}

func TestCorrelatedSubqueryStillSeesOuterScope(t *testing.T) {
	e := New()
	e.ImportTable("outer", []ColumnSpec{{Name: "id", Type: nominal("INTEGER")}}, ImportOptions{})
	e.Push()

	if got := e.LookupColumn("id").Status; got != Success {
		t.Fatalf("inner scope should still see outer table, got %v", got)
	}
}

func TestAllColumnsPreservesDeclarationOrder(t *testing.T) {
	e := New()
	e.ImportTable("t", []ColumnSpec{
		{Name: "z", Type: nominal("INTEGER")},
		{Name: "a", Type: nominal("TEXT")},
		{Name: "m", Type: nominal("BLOB")},
	}, ImportOptions{})

	cols := e.AllColumns()
	if len(cols) != 3 || cols[0].Name != "z" || cols[1].Name != "a" || cols[2].Name != "m" {
		t.Fatalf("AllColumns did not preserve declaration order: %+v", cols)
	}
}

func TestOperatorCatalogLookup(t *testing.T) {
	cat := Operators()
	if _, ok := cat.Infix[token.Plus]; !ok {
		t.Fatalf("expected + to be in infix operator catalog")
	}
}

func TestFunctionCatalogCaseInsensitive(t *testing.T) {
	cat := Functions()
	if _, ok := cat.Lookup("LOWER"); !ok {
		t.Fatalf("expected case-insensitive lookup to find lower()")
	}
	if _, ok := cat.Lookup("lower"); !ok {
		t.Fatalf("expected lower() in catalog")
	}
}
