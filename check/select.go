package check

import (
	"github.com/sqlcore-dev/sqlcore/ast"
	"github.com/sqlcore-dev/sqlcore/env"
	"github.com/sqlcore-dev/sqlcore/nameinfer"
	"github.com/sqlcore-dev/sqlcore/token"
	"github.com/sqlcore-dev/sqlcore/types"
)

// ResultColumn is one column of a checked SELECT or RETURNING clause: its
// inferred or derived name and its type. Table names the source table
// this column was expanded from by a `*`/`alias.*` wildcard; it is empty
// for an individually named or aliased expression, letting callers that
// need to preserve "the user wrote t.*" group consecutive wildcard columns
// sharing a Table back into a whole-table chunk.
type ResultColumn struct {
	Name  nameinfer.Name
	Type  types.Type
	Table string
}

// CheckSelect type-checks sel (including any compound arms reachable
// through CompoundNext) and returns its result columns in order. The
// first arm's column names win for a compound select; later arms only
// contribute to each column's type via unification.
func (c *Checker) CheckSelect(sel *ast.Select) []ResultColumn {
	cols := c.checkSelectArm(sel)
	arm := sel.CompoundNext
	for arm != nil {
		next := c.checkSelectArm(arm)
		if len(next) != len(cols) {
			c.State.Bag.Errorf(arm.Location(), "compound SELECT arms must return the same number of columns (%d vs %d)", len(cols), len(next))
		} else {
			for i := range cols {
				c.State.Unify(cols[i].Type, next[i].Type, arm.Location())
			}
		}
		arm = arm.CompoundNext
	}
	return cols
}

func (c *Checker) checkSelectArm(sel *ast.Select) []ResultColumn {
	c.Env.Push()
	defer c.Env.Pop()

	if sel.With != nil {
		c.checkWithClause(sel.With)
	}
	if sel.From != nil {
		c.checkJoinClause(sel.From, sel.Location())
	}
	if sel.Where != nil {
		t := c.CheckExpr(sel.Where)
		c.State.Unify(t, integer, sel.Where.Location())
	}
	for _, g := range sel.GroupBy {
		c.CheckExpr(g)
	}
	if sel.Having != nil {
		t := c.CheckExpr(sel.Having)
		c.State.Unify(t, integer, sel.Having.Location())
	}
	if sel.Window {
		c.State.Bag.Errorf(sel.Location(), "window definitions are not supported")
	}

	cols := c.checkResultColumns(sel.Columns)

	for _, ord := range sel.OrderBy {
		c.CheckExpr(ord.Expr)
	}
	if sel.Limit != nil {
		t := c.CheckExpr(sel.Limit)
		c.State.Unify(t, integer, sel.Limit.Location())
	}
	if sel.Offset != nil {
		t := c.CheckExpr(sel.Offset)
		c.State.Unify(t, integer, sel.Offset.Location())
	}
	return cols
}

func (c *Checker) checkResultColumns(rcs []ast.ResultColumn) []ResultColumn {
	var out []ResultColumn
	for _, rc := range rcs {
		switch {
		case rc.Wildcard != nil:
			out = append(out, c.expandWildcard(rc.Wildcard)...)
		case rc.Aliased != nil:
			t := c.CheckExpr(rc.Aliased.Expr)
			name := resultColumnName(rc.Aliased)
			out = append(out, ResultColumn{Name: name, Type: t})
		}
	}
	return out
}

func resultColumnName(a *ast.AliasedExpr) nameinfer.Name {
	if a.Alias != "" {
		n, _ := nameinfer.FromAlias(a.Alias)
		return n
	}
	if col, ok := a.Expr.(*ast.Column); ok && !col.Star {
		return nameinfer.Some(col.Name)
	}
	return nameinfer.None
}

func (c *Checker) expandWildcard(w *ast.WildcardColumn) []ResultColumn {
	var exposed []env.ExposedColumn
	if w.Table == "" {
		exposed = c.Env.AllColumns()
	} else {
		var ok bool
		exposed, ok = c.Env.AllColumnsOf(w.Table)
		if !ok {
			c.State.Bag.Errorf(w.Location(), "no table named %q is in scope", w.Table)
			return nil
		}
	}
	out := make([]ResultColumn, len(exposed))
	for i, e := range exposed {
		out[i] = ResultColumn{Name: nameinfer.Some(e.Name), Type: e.Type, Table: e.Alias}
	}
	return out
}

// checkSelectRowType checks sel and collapses its result columns into a
// single Type usable as a scalar expression value: the lone column's type
// if there is exactly one, or a Row otherwise.
func (c *Checker) checkSelectRowType(sel *ast.Select) types.Type {
	cols := c.CheckSelect(sel)
	if len(cols) == 1 {
		return cols[0].Type
	}
	elems := make([]types.Type, len(cols))
	for i, rc := range cols {
		elems[i] = rc.Type
	}
	return types.Row{Kind: types.RowFixed, Fixed: elems}
}

func (c *Checker) checkWithClause(w *ast.WithClause) {
	for _, cte := range w.CTEs {
		cols := c.CheckSelect(cte.Select)
		specs := cteColumnSpecs(cte, cols)
		c.Env.ImportTable(cte.Name, specs, env.ImportOptions{})
	}
}

func cteColumnSpecs(cte ast.CTE, cols []ResultColumn) []env.ColumnSpec {
	specs := make([]env.ColumnSpec, len(cols))
	for i, rc := range cols {
		name := ""
		if i < len(cte.Columns) {
			name = cte.Columns[i]
		} else if rc.Name.Kind == nameinfer.NameSome {
			name = rc.Name.Text
		}
		specs[i] = env.ColumnSpec{Name: name, Type: rc.Type}
	}
	return specs
}

func (c *Checker) checkJoinClause(j *ast.JoinClause, loc token.Location) {
	c.importTableOrSubquery(j.Left, false, loc)
	for _, op := range j.Joins {
		outer := op.Kind == ast.JoinLeft || op.Kind == ast.JoinLeftOuter ||
			op.Kind == ast.JoinRight || op.Kind == ast.JoinRightOuter ||
			op.Kind == ast.JoinFull || op.Kind == ast.JoinFullOuter
		c.importTableOrSubquery(op.Right, outer, loc)
		if op.On != nil {
			t := c.CheckExpr(op.On)
			c.State.Unify(t, integer, op.On.Location())
		}
		for _, col := range op.Using {
			if c.Env.LookupColumn(col).Status == env.ColumnDoesNotExist {
				c.State.Bag.Errorf(loc, "USING column %q does not exist on either side of the join", col)
			}
		}
	}
}

func (c *Checker) importTableOrSubquery(t ast.TableOrSubquery, optional bool, loc token.Location) {
	switch {
	case t.Nested != nil:
		c.checkJoinClause(t.Nested, loc)
	case t.Subquery != nil:
		cols := c.CheckSelect(t.Subquery)
		alias := t.Alias
		specs := make([]env.ColumnSpec, len(cols))
		for i, rc := range cols {
			name := ""
			if rc.Name.Kind == nameinfer.NameSome {
				name = rc.Name.Text
			}
			specs[i] = env.ColumnSpec{Name: name, Type: rc.Type}
		}
		c.Env.ImportTable(alias, specs, env.ImportOptions{Optional: optional})
	case t.TableFunc != nil:
		c.State.Bag.Errorf(t.TableFunc.Location(), "table-valued function calls are not supported")
		for _, a := range t.TableFunc.Args {
			c.CheckExpr(a)
		}
	default:
		c.importNamedTable(t.Schema, t.Table, t.Alias, optional, loc)
	}
}

func (c *Checker) importNamedTable(schemaName, tableName, alias string, optional bool, loc token.Location) {
	tbl, ok := c.Schema.LookupTable(schemaName, tableName)
	if !ok {
		c.State.Bag.Errorf(loc, "no such table: %s", tableName)
		return
	}
	if alias == "" {
		alias = tableName
	}
	specs := make([]env.ColumnSpec, 0, tbl.Columns.Len())
	for name, col := range tbl.Columns.Iter() {
		specs = append(specs, env.ColumnSpec{Name: name, Type: col.Type})
	}
	c.Env.ImportTable(alias, specs, env.ImportOptions{Optional: optional})
}

