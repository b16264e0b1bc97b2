package cardinality

import (
	"testing"

	"github.com/sqlcore-dev/sqlcore/ast"
)

func TestOfSelectLimitOne(t *testing.T) {
	if got := OfSelect(SelectKind{HasLimitOne: true}); got != Single {
		t.Fatalf("got %v, want Single", got)
	}
}

func TestOfSelectCompoundIsMany(t *testing.T) {
	got := OfSelect(SelectKind{
		IsCompound:    true,
		WhereEquality: EqualitySet{"id": true},
		PrimaryKey:    []string{"id"},
	})
	if got != Many {
		t.Fatalf("got %v, want Many (compound overrides PK coverage)", got)
	}
}

func TestOfSelectPrimaryKeyCoverage(t *testing.T) {
	covered := OfSelect(SelectKind{
		WhereEquality: EqualitySet{"id": true},
		PrimaryKey:    []string{"id"},
	})
	if covered != Single {
		t.Fatalf("got %v, want Single", covered)
	}

	partial := OfSelect(SelectKind{
		WhereEquality: EqualitySet{"id": true},
		PrimaryKey:    []string{"id", "tenant_id"},
	})
	if partial != Many {
		t.Fatalf("got %v, want Many (partial PK coverage)", partial)
	}
}

func TestOfInsert(t *testing.T) {
	if got := OfInsert(InsertKind{IsDefaultValues: true}); got != Single {
		t.Fatalf("DEFAULT VALUES should be Single, got %v", got)
	}
	if got := OfInsert(InsertKind{ValueTupleCount: 1}); got != Single {
		t.Fatalf("single VALUES tuple should be Single, got %v", got)
	}
	if got := OfInsert(InsertKind{ValueTupleCount: 2}); got != Many {
		t.Fatalf("multi-row VALUES should be Many, got %v", got)
	}
	if got := OfInsert(InsertKind{ValueTupleCount: 0}); got != Many {
		t.Fatalf("INSERT ... SELECT should be Many, got %v", got)
	}
}

func TestOfUpdateOrDelete(t *testing.T) {
	eq := EqualitySet{"id": true}
	if got := OfUpdateOrDelete(eq, []string{"id"}); got != Single {
		t.Fatalf("got %v, want Single", got)
	}
	if got := OfUpdateOrDelete(eq, []string{"id", "tenant_id"}); got != Many {
		t.Fatalf("got %v, want Many", got)
	}
}

func TestCollectEqualityTopLevelAndOnly(t *testing.T) {
	// id = ? AND name = 'x' AND (extra = 1 OR extra = 2)
	idEq := &ast.InfixOp{Op: "=", Left: &ast.Column{Name: "id"}, Right: &ast.BindParameter{}}
	nameEq := &ast.InfixOp{Op: "=", Left: &ast.Column{Name: "name"}, Right: &ast.Literal{Text: "'x'"}}
	and := &ast.InfixOp{Op: "AND", Left: idEq, Right: nameEq}
	extraEq := &ast.InfixOp{Op: "=", Left: &ast.Column{Name: "extra"}, Right: &ast.Literal{Text: "1"}}
	extraEq2 := &ast.InfixOp{Op: "=", Left: &ast.Column{Name: "extra"}, Right: &ast.Literal{Text: "2"}}
	or := &ast.InfixOp{Op: "OR", Left: extraEq, Right: extraEq2}
	top := &ast.InfixOp{Op: "AND", Left: and, Right: &ast.Grouped{Exprs: []ast.Expr{or}}}

	eq := CollectEquality(top)
	if !eq["id"] || !eq["name"] {
		t.Fatalf("expected id and name in equality set, got %+v", eq)
	}
	if eq["extra"] {
		t.Fatalf("extra is behind an OR and must not be in the equality set, got %+v", eq)
	}
}

func TestCollectEqualityIgnoresNonColumnComparisons(t *testing.T) {
	cmp := &ast.InfixOp{Op: "=", Left: &ast.Literal{Text: "1"}, Right: &ast.Literal{Text: "2"}}
	eq := CollectEquality(cmp)
	if len(eq) != 0 {
		t.Fatalf("expected empty equality set, got %+v", eq)
	}
}
