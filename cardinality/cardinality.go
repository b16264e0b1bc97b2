// Package cardinality classifies a checked statement as returning at most
// one row (Single) or possibly many (Many): LIMIT 1, an equality-complete
// WHERE over the primary key, a single-row INSERT, and a primary-key
// -covering UPDATE/DELETE all produce Single; compound SELECTs, joins, and
// anything else default to Many.
//
// Classification is an independent, single-purpose pass: one function per
// statement kind, no shared mutable state, over an already-built AST.
package cardinality

import "github.com/sqlcore-dev/sqlcore/ast"

// Cardinality is the two-valued result of a cardinality classification.
type Cardinality int

const (
	Many Cardinality = iota
	Single
)

// EqualitySet is the set of column names proven equal to a bind parameter
// or literal by an AND-tree of equality comparisons in a WHERE clause,
// built once per statement and consulted by PrimaryKeyCovered.
type EqualitySet map[string]bool

// PrimaryKeyCovered reports whether every column of primaryKey appears in
// eq, meaning the WHERE clause pins each primary-key column to a single
// value (and therefore the statement can match at most one row).
func PrimaryKeyCovered(eq EqualitySet, primaryKey []string) bool {
	if len(primaryKey) == 0 {
		return false
	}
	for _, col := range primaryKey {
		if !eq[col] {
			return false
		}
	}
	return true
}

// SelectKind distinguishes the cases OfSelect needs to know about.
type SelectKind struct {
	HasLimitOne    bool
	IsCompound     bool
	WhereEquality  EqualitySet
	PrimaryKey     []string
}

// OfSelect classifies a SELECT statement.
func OfSelect(k SelectKind) Cardinality {
	if k.HasLimitOne {
		return Single
	}
	if k.IsCompound {
		return Many
	}
	if PrimaryKeyCovered(k.WhereEquality, k.PrimaryKey) {
		return Single
	}
	return Many
}

// InsertKind distinguishes the cases OfInsert needs to know about.
type InsertKind struct {
	IsDefaultValues bool
	ValueTupleCount int // number of tuples in a VALUES (...), (...) list; 0 for a SELECT-sourced INSERT
}

// OfInsert classifies an INSERT statement: DEFAULT VALUES and a single
// VALUES tuple both insert exactly one row; anything else (multi-row
// VALUES, or an INSERT ... SELECT) is Many.
func OfInsert(k InsertKind) Cardinality {
	if k.IsDefaultValues {
		return Single
	}
	if k.ValueTupleCount == 1 {
		return Single
	}
	return Many
}

// OfUpdateOrDelete classifies an UPDATE or DELETE statement: Single if its
// WHERE clause pins every primary-key column to a value.
func OfUpdateOrDelete(eq EqualitySet, primaryKey []string) Cardinality {
	if PrimaryKeyCovered(eq, primaryKey) {
		return Single
	}
	return Many
}

// OfDDL is the default classification for DDL and anything else with no
// special rule of its own.
func OfDDL() Cardinality { return Many }

// CollectEquality walks an AND-tree of a WHERE (or ON) clause, collecting
// the set of column names that are directly equality-compared against a
// literal or bind parameter at the top level. OR, any comparison other
// than `=`/`==`, and anything not a plain column reference on one side do
// not contribute to the set: only a top-level AND-conjoined equality
// proves the column pinned for every row the statement could touch.
func CollectEquality(expr ast.Expr) EqualitySet {
	eq := make(EqualitySet)
	collectEquality(expr, eq)
	return eq
}

func collectEquality(expr ast.Expr, eq EqualitySet) {
	switch e := expr.(type) {
	case *ast.InfixOp:
		if e.Op == "AND" || e.Op == "and" {
			collectEquality(e.Left, eq)
			collectEquality(e.Right, eq)
			return
		}
		if e.Op == "=" || e.Op == "==" {
			if col, ok := e.Left.(*ast.Column); ok {
				if isConstantLike(e.Right) {
					eq[col.Name] = true
				}
			}
			if col, ok := e.Right.(*ast.Column); ok {
				if isConstantLike(e.Left) {
					eq[col.Name] = true
				}
			}
		}
	case *ast.Grouped:
		if len(e.Exprs) == 1 {
			collectEquality(e.Exprs[0], eq)
		}
	}
}

func isConstantLike(expr ast.Expr) bool {
	switch expr.(type) {
	case *ast.Literal, *ast.BindParameter:
		return true
	default:
		return false
	}
}
