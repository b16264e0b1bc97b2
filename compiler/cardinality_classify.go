package compiler

import (
	"github.com/sqlcore-dev/sqlcore/ast"
	"github.com/sqlcore-dev/sqlcore/cardinality"
	"github.com/sqlcore-dev/sqlcore/schema"
)

// classify derives a statement's Cardinality from its already-checked AST
// and the schema it was checked against.
func classify(stmt ast.Stmt, sc *schema.Schema) cardinality.Cardinality {
	switch st := stmt.(type) {
	case *ast.Select:
		return classifySelect(st, sc)
	case *ast.Insert:
		return cardinality.OfInsert(cardinality.InsertKind{
			IsDefaultValues: st.DefaultValues,
			ValueTupleCount: len(st.Values),
		})
	case *ast.Update:
		return cardinality.OfUpdateOrDelete(whereEquality(st.Where), primaryKeyOf(sc, st.Table))
	case *ast.Delete:
		return cardinality.OfUpdateOrDelete(whereEquality(st.Where), primaryKeyOf(sc, st.Table))
	case *ast.QueryDefinition:
		return classify(st.Inner, sc)
	default:
		return cardinality.OfDDL()
	}
}

func classifySelect(sel *ast.Select, sc *schema.Schema) cardinality.Cardinality {
	return cardinality.OfSelect(cardinality.SelectKind{
		HasLimitOne:   isLimitOne(sel.Limit),
		IsCompound:    sel.CompoundNext != nil,
		WhereEquality: whereEquality(sel.Where),
		PrimaryKey:    soloTablePrimaryKey(sel, sc),
	})
}

func isLimitOne(limit ast.Expr) bool {
	lit, ok := limit.(*ast.Literal)
	return ok && lit.Kind == ast.LiteralInt && lit.Text == "1"
}

func whereEquality(where ast.Expr) cardinality.EqualitySet {
	if where == nil {
		return cardinality.EqualitySet{}
	}
	return cardinality.CollectEquality(where)
}

// soloTablePrimaryKey returns the primary key of sel's FROM table when it
// is a single, plain, unjoined table reference: only then does an
// equality-complete WHERE unambiguously pin a single row of the result.
func soloTablePrimaryKey(sel *ast.Select, sc *schema.Schema) []string {
	if sel.From == nil || len(sel.From.Joins) > 0 {
		return nil
	}
	return primaryKeyOf(sc, sel.From.Left.Table)
}

func primaryKeyOf(sc *schema.Schema, table string) []string {
	if table == "" {
		return nil
	}
	tbl, ok := sc.LookupTable("", table)
	if !ok {
		return nil
	}
	return tbl.PrimaryKey
}
