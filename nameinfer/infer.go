package nameinfer

import "github.com/sqlcore-dev/sqlcore/ast"

// Resolved collects the names assigned to bind-parameter indices as
// InferStatement walks a statement's expressions.
type Resolved map[int]Name

// InferStatement derives a proposed name for every bind parameter reachable
// from s, returning a Resolved map keyed by bind index. Parameters that
// never combine with a concrete name (e.g. `? + ?`) are simply absent from
// the result; callers fall back to a positional label.
func InferStatement(s ast.Stmt) Resolved {
	out := make(Resolved)
	walkStmt(s, out)
	return out
}

// combine implements the unification rule for two child names: if one side
// is Some(n) and the other is Needed(i), i resolves to n. Otherwise the
// concrete name (if any) wins and propagates upward.
func combine(a, b Name, out Resolved) Name {
	switch {
	case a.Kind == NameSome && b.Kind == NameNeeded:
		out[b.BindIndex] = a
		return None
	case b.Kind == NameSome && a.Kind == NameNeeded:
		out[a.BindIndex] = b
		return None
	case a.Kind == NameSome:
		return a
	case b.Kind == NameSome:
		return b
	default:
		return None
	}
}

// resolveAgainst records proposed as n's name when n is still Needed, used
// where an explicit context (an alias, a RETURNING target, an assigned
// column) supplies a name rather than a sibling expression.
func resolveAgainst(n Name, proposed Name, out Resolved) {
	if n.Kind == NameNeeded && proposed.Kind == NameSome {
		out[n.BindIndex] = proposed
	}
}

// InferExpr derives e's own proposed Name bottom-up, resolving any bind
// parameter it dominates into out along the way.
func InferExpr(e ast.Expr, out Resolved) Name {
	if e == nil {
		return None
	}
	switch ex := e.(type) {
	case *ast.BindParameter:
		if ex.Name != "" && ex.Kind != ast.BindNumbered {
			// A named form (:name, @name, $tcl) already carries its name;
			// that always wins over anything derived from context. A
			// numbered form's Name is its digit suffix, not a real name.
			out[ex.Index] = Some(ex.Name)
			return Some(ex.Name)
		}
		return Needed(ex.Index)
	case *ast.Column:
		if ex.Star {
			return None
		}
		return Some(ex.Name)
	case *ast.Between:
		subject := InferExpr(ex.Operand, out)
		lower := InferExpr(ex.Lower, out)
		upper := InferExpr(ex.Upper, out)
		if subject.Kind == NameSome {
			resolveAgainst(lower, BetweenLowerName(subject.Text), out)
			resolveAgainst(upper, BetweenUpperName(subject.Text), out)
		}
		return None
	case *ast.InfixOp:
		left := InferExpr(ex.Left, out)
		if ex.Op == "IN" || ex.Op == "NOT IN" {
			// Every element of a parenthesized list shares the same
			// context, not just the last one Grouped would otherwise
			// report: resolve each independently.
			if grp, ok := ex.Right.(*ast.Grouped); ok {
				for _, sub := range grp.Exprs {
					n := InferExpr(sub, out)
					if left.Kind == NameSome {
						resolveAgainst(n, InName(left.Text), out)
					}
				}
				return None
			}
			right := InferExpr(ex.Right, out)
			if left.Kind == NameSome {
				resolveAgainst(right, InName(left.Text), out)
			}
			return None
		}
		right := InferExpr(ex.Right, out)
		return combine(left, right, out)
	case *ast.PrefixOp:
		return InferExpr(ex.Operand, out)
	case *ast.PostfixOp:
		return InferExpr(ex.Operand, out)
	case *ast.Function:
		var last Name = None
		for _, arg := range ex.Args {
			last = InferExpr(arg, out)
		}
		return last
	case *ast.Cast:
		return InferExpr(ex.Operand, out)
	case *ast.CaseWhenThen:
		if ex.Operand != nil {
			InferExpr(ex.Operand, out)
		}
		for _, arm := range ex.Arms {
			InferExpr(arm.When, out)
			InferExpr(arm.Then, out)
		}
		if ex.Else != nil {
			InferExpr(ex.Else, out)
		}
		return None
	case *ast.Grouped:
		var last Name = None
		for _, sub := range ex.Exprs {
			last = InferExpr(sub, out)
		}
		return last
	case *ast.SubquerySelect:
		walkSelect(ex.Select, out)
		return None
	case *ast.Exists:
		walkSelect(ex.Select, out)
		return None
	default:
		return None
	}
}

func walkStmt(s ast.Stmt, out Resolved) {
	switch st := s.(type) {
	case *ast.Select:
		walkSelect(st, out)
	case *ast.Insert:
		walkInsert(st, out)
	case *ast.Update:
		walkUpdate(st, out)
	case *ast.Delete:
		walkDelete(st, out)
	case *ast.CreateTable:
		walkCreateTable(st, out)
	case *ast.CreateIndex:
		if st.Where != nil {
			InferExpr(st.Where, out)
		}
		for _, col := range st.Columns {
			if col.Expr != nil {
				InferExpr(col.Expr, out)
			}
		}
	case *ast.CreateView:
		walkSelect(st.Select, out)
	case *ast.CreateTrigger:
		for _, inner := range st.Body {
			walkStmt(inner, out)
		}
	case *ast.QueryDefinition:
		walkStmt(st.Inner, out)
	}
}

func walkWithClause(w *ast.WithClause, out Resolved) {
	if w == nil {
		return
	}
	for _, cte := range w.CTEs {
		walkSelect(cte.Select, out)
	}
}

func walkSelect(sel *ast.Select, out Resolved) {
	if sel == nil {
		return
	}
	walkWithClause(sel.With, out)
	walkJoinClause(sel.From, out)
	if sel.Where != nil {
		InferExpr(sel.Where, out)
	}
	for _, g := range sel.GroupBy {
		InferExpr(g, out)
	}
	if sel.Having != nil {
		InferExpr(sel.Having, out)
	}
	walkResultColumns(sel.Columns, out)
	for _, ord := range sel.OrderBy {
		InferExpr(ord.Expr, out)
	}
	if sel.Limit != nil {
		InferExpr(sel.Limit, out)
	}
	if sel.Offset != nil {
		InferExpr(sel.Offset, out)
	}
	walkSelect(sel.CompoundNext, out)
}

// walkResultColumns injects an explicit alias (or, for RETURNING, the
// column's own name) as the proposed name for any bind parameter its
// expression directly resolves to.
func walkResultColumns(rcs []ast.ResultColumn, out Resolved) {
	for _, rc := range rcs {
		if rc.Aliased == nil {
			continue
		}
		n := InferExpr(rc.Aliased.Expr, out)
		if rc.Aliased.Alias != "" {
			resolveAgainst(n, Some(rc.Aliased.Alias), out)
		} else if col, ok := rc.Aliased.Expr.(*ast.Column); ok && !col.Star {
			resolveAgainst(n, ReturningName(col.Name), out)
		}
	}
}

func walkJoinClause(j *ast.JoinClause, out Resolved) {
	if j == nil {
		return
	}
	walkTableOrSubquery(j.Left, out)
	for _, op := range j.Joins {
		walkTableOrSubquery(op.Right, out)
		if op.On != nil {
			InferExpr(op.On, out)
		}
	}
}

func walkTableOrSubquery(t ast.TableOrSubquery, out Resolved) {
	switch {
	case t.Nested != nil:
		walkJoinClause(t.Nested, out)
	case t.Subquery != nil:
		walkSelect(t.Subquery, out)
	case t.TableFunc != nil:
		for _, a := range t.TableFunc.Args {
			InferExpr(a, out)
		}
	}
}

func walkInsert(ins *ast.Insert, out Resolved) {
	walkWithClause(ins.With, out)
	for _, row := range ins.Values {
		for i, v := range row {
			n := InferExpr(v, out)
			if i < len(ins.Columns) {
				resolveAgainst(n, Some(ins.Columns[i]), out)
			}
		}
	}
	if ins.Select != nil {
		walkSelect(ins.Select, out)
	}
	if ins.Upsert != nil {
		if ins.Upsert.ConflictWhere != nil {
			InferExpr(ins.Upsert.ConflictWhere, out)
		}
		for i, expr := range ins.Upsert.SetExprs {
			n := InferExpr(expr, out)
			if i < len(ins.Upsert.SetColumns) {
				resolveAgainst(n, Some(ins.Upsert.SetColumns[i]), out)
			}
		}
		if ins.Upsert.UpdateWhere != nil {
			InferExpr(ins.Upsert.UpdateWhere, out)
		}
	}
	if ins.Returning != nil {
		walkResultColumns(ins.Returning.Columns, out)
	}
}

func walkUpdate(u *ast.Update, out Resolved) {
	walkWithClause(u.With, out)
	walkJoinClause(u.From, out)
	for _, set := range u.Sets {
		n := InferExpr(set.Value, out)
		if len(set.Columns) == 1 {
			resolveAgainst(n, Some(set.Columns[0]), out)
		}
	}
	if u.Where != nil {
		InferExpr(u.Where, out)
	}
	if u.Returning != nil {
		walkResultColumns(u.Returning.Columns, out)
	}
}

func walkDelete(d *ast.Delete, out Resolved) {
	walkWithClause(d.With, out)
	if d.Where != nil {
		InferExpr(d.Where, out)
	}
	if d.Returning != nil {
		walkResultColumns(d.Returning.Columns, out)
	}
}

func walkCreateTable(ct *ast.CreateTable, out Resolved) {
	for _, cd := range ct.Columns {
		for _, con := range cd.Constraints {
			switch con.Kind {
			case ast.ConstraintDefault:
				if con.DefaultExpr != nil {
					InferExpr(con.DefaultExpr, out)
				}
			case ast.ConstraintGenerated:
				if con.GeneratedExpr != nil {
					InferExpr(con.GeneratedExpr, out)
				}
			case ast.ConstraintCheck:
				if con.CheckExpr != nil {
					InferExpr(con.CheckExpr, out)
				}
			}
		}
	}
	for _, con := range ct.Constraints {
		if con.Kind == ast.TableCheck && con.CheckExpr != nil {
			InferExpr(con.CheckExpr, out)
		}
	}
}
