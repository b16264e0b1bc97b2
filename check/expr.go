package check

import (
	"github.com/sqlcore-dev/sqlcore/ast"
	"github.com/sqlcore-dev/sqlcore/env"
	"github.com/sqlcore-dev/sqlcore/token"
	"github.com/sqlcore-dev/sqlcore/types"
)

// CheckExpr type-checks e, recording and returning its type. It never
// returns an error: on any problem it appends a diagnostic to c.State.Bag
// and returns types.Err (or, where a structural result is still needed,
// a best-effort type wrapping types.Err), so the caller can keep checking
// the rest of the statement.
func (c *Checker) CheckExpr(e ast.Expr) types.Type {
	switch ex := e.(type) {
	case *ast.Literal:
		return c.checkLiteral(ex)
	case *ast.BindParameter:
		return c.checkBindParameter(ex)
	case *ast.Column:
		return c.checkColumn(ex)
	case *ast.PrefixOp:
		return c.checkPrefixOp(ex)
	case *ast.InfixOp:
		return c.checkInfixOp(ex)
	case *ast.PostfixOp:
		return c.checkPostfixOp(ex)
	case *ast.Between:
		return c.checkBetween(ex)
	case *ast.Function:
		return c.checkFunction(ex)
	case *ast.Cast:
		return c.checkCast(ex)
	case *ast.CaseWhenThen:
		return c.checkCaseWhenThen(ex)
	case *ast.Grouped:
		return c.checkGrouped(ex)
	case *ast.SubquerySelect:
		return c.checkSubquerySelect(ex)
	case *ast.Exists:
		return c.checkExists(ex)
	case *ast.TableFunctionCall:
		c.State.Bag.Errorf(ex.Location(), "table-valued function calls are not supported in this position")
		return c.State.ErrorTypeFor(ex.ID())
	case *ast.Invalid:
		return c.State.ErrorTypeFor(ex.ID())
	default:
		c.State.Bag.Errorf(e.Location(), "internal: unhandled expression node %T", e)
		return c.State.ErrorTypeFor(e.ID())
	}
}

func (c *Checker) checkLiteral(l *ast.Literal) types.Type {
	switch l.Kind {
	case ast.LiteralInt:
		return c.State.FreshVarFor(l.ID(), types.Integer)
	case ast.LiteralDouble:
		v := c.State.FreshVarFor(l.ID(), types.Float)
		c.State.Unify(v, real, l.Location())
		return v
	case ast.LiteralString:
		return c.recordNominal(l.ID(), "TEXT")
	case ast.LiteralBlob:
		return c.recordNominal(l.ID(), "BLOB")
	case ast.LiteralBool:
		// Booleans have no dedicated nominal type; like every other
		// boolean-valued expression (comparisons, IN, EXISTS, ...) they
		// resolve to INTEGER.
		return c.recordNominal(l.ID(), "INTEGER")
	case ast.LiteralNull:
		v := c.State.FreshVarFor(l.ID(), types.General)
		opt := types.Optional{Inner: v}
		c.State.Record(l.ID(), opt)
		return opt
	case ast.LiteralCurrentTime, ast.LiteralCurrentDate, ast.LiteralCurrentTimestamp:
		return c.recordNominal(l.ID(), "TEXT")
	default:
		return c.State.ErrorTypeFor(l.ID())
	}
}

func (c *Checker) recordNominal(id ast.NodeID, name string) types.Type {
	return c.State.NominalOf(id, name)
}

func (c *Checker) checkBindParameter(b *ast.BindParameter) types.Type {
	return c.State.FreshVarForParam(b.ID(), b.Index, b.Location())
}

func (c *Checker) checkColumn(col *ast.Column) types.Type {
	if col.Star {
		c.State.Bag.Errorf(col.Location(), "'*' is not valid as a scalar expression")
		return c.State.ErrorTypeFor(col.ID())
	}
	var res env.ColumnResult
	if col.Table != "" {
		res = c.Env.LookupQualifiedColumn(col.Table, col.Name)
	} else {
		res = c.Env.LookupColumn(col.Name)
	}
	switch res.Status {
	case env.Success:
		c.State.Record(col.ID(), res.Type)
		return res.Type
	case env.Ambiguous:
		c.State.Bag.Errorf(col.Location(), "column reference %q is ambiguous", col.Name)
	case env.TableDoesNotExist:
		c.State.Bag.Errorf(col.Location(), "no table named %q is in scope", col.Table)
	default:
		c.State.Bag.Errorf(col.Location(), "column %q does not exist", col.Name)
	}
	return c.State.ErrorTypeFor(col.ID())
}

func (c *Checker) checkPrefixOp(p *ast.PrefixOp) types.Type {
	operand := c.CheckExpr(p.Operand)
	scheme, ok := env.Operators().Prefix[prefixTokenKind(p.Op)]
	if !ok {
		c.State.Bag.Errorf(p.Location(), "unknown prefix operator %q", p.Op)
		return c.State.ErrorTypeFor(p.ID())
	}
	fn := scheme.Instantiate(c.State.FreshVar, 1).(types.Fn)
	c.State.Unify(fn.Params[0], operand, p.Location())
	result := fn.Ret
	c.State.Record(p.ID(), result)
	return result
}

func (c *Checker) checkInfixOp(in *ast.InfixOp) types.Type {
	switch in.Op {
	case "IN", "NOT IN":
		return c.checkIn(in)
	}
	left := c.CheckExpr(in.Left)
	right := c.CheckExpr(in.Right)
	scheme, ok := env.Operators().Infix[infixTokenKind(in.Op)]
	if !ok {
		c.State.Bag.Errorf(in.Location(), "unknown infix operator %q", in.Op)
		return c.State.ErrorTypeFor(in.ID())
	}
	fn := scheme.Instantiate(c.State.FreshVar, 2).(types.Fn)
	c.State.Unify(fn.Params[0], left, in.Location())
	c.State.Unify(fn.Params[1], right, in.Location())
	result := fn.Ret
	c.State.Record(in.ID(), result)
	return result
}

func (c *Checker) checkIn(in *ast.InfixOp) types.Type {
	left := c.CheckExpr(in.Left)
	right := c.CheckExpr(in.Right)
	switch r := right.(type) {
	case types.Row:
		if r.Kind == types.RowUnknown {
			c.State.Unify(left, r.Unknown, in.Location())
		} else {
			for i := 0; i < r.Len(); i++ {
				c.State.Unify(left, r.Elem(i), in.Location())
			}
		}
	default:
		c.State.Unify(types.Row{Kind: types.RowUnknown, Unknown: left}, right, in.Location())
	}
	c.State.Record(in.ID(), integer)
	return integer
}

func (c *Checker) checkPostfixOp(p *ast.PostfixOp) types.Type {
	operand := c.CheckExpr(p.Operand)
	if p.Op == "COLLATE" {
		c.State.Record(p.ID(), operand)
		return operand
	}
	scheme, ok := env.Operators().Postfix[postfixTokenKind(p.Op)]
	if !ok {
		c.State.Bag.Errorf(p.Location(), "unknown postfix operator %q", p.Op)
		return c.State.ErrorTypeFor(p.ID())
	}
	fn := scheme.Instantiate(c.State.FreshVar, 1).(types.Fn)
	c.State.Unify(fn.Params[0], operand, p.Location())
	result := fn.Ret
	c.State.Record(p.ID(), result)
	return result
}

func (c *Checker) checkBetween(b *ast.Between) types.Type {
	subject := c.CheckExpr(b.Operand)
	lower := c.CheckExpr(b.Lower)
	upper := c.CheckExpr(b.Upper)
	a := c.State.FreshVarType(types.Integer)
	c.State.Unify(a, subject, b.Location())
	c.State.Unify(a, lower, b.Location())
	c.State.Unify(a, upper, b.Location())
	c.State.Record(b.ID(), integer)
	return integer
}

func (c *Checker) checkFunction(f *ast.Function) types.Type {
	scheme, ok := env.Functions().Lookup(f.Name)
	if !ok {
		c.State.Bag.Errorf(f.Location(), "unknown function %q", f.Name)
		for _, arg := range f.Args {
			c.CheckExpr(arg)
		}
		return c.State.ErrorTypeFor(f.ID())
	}
	argc := len(f.Args)
	if f.Star {
		argc = 1
	}
	inst := scheme.Instantiate(c.State.FreshVar, argc)
	fn, ok := inst.(types.Fn)
	if !ok {
		c.State.Bag.Errorf(f.Location(), "internal: function %q scheme is not a Fn", f.Name)
		return c.State.ErrorTypeFor(f.ID())
	}
	if f.Star {
		c.State.Record(f.ID(), fn.Ret)
		return fn.Ret
	}
	if len(fn.Params) != len(f.Args) {
		c.State.Bag.Errorf(f.Location(), "function %q expects %d argument(s), got %d", f.Name, len(fn.Params), len(f.Args))
		for _, arg := range f.Args {
			c.CheckExpr(arg)
		}
		return c.State.ErrorTypeFor(f.ID())
	}
	for i, arg := range f.Args {
		argType := c.CheckExpr(arg)
		c.State.Unify(fn.Params[i], argType, arg.Location())
	}
	c.State.Record(f.ID(), fn.Ret)
	return fn.Ret
}

func (c *Checker) checkCast(cast *ast.Cast) types.Type {
	c.CheckExpr(cast.Operand)
	target := types.Type(types.Nominal{Name: cast.TypeName})
	c.State.Record(cast.ID(), target)
	return target
}

func (c *Checker) checkCaseWhenThen(cw *ast.CaseWhenThen) types.Type {
	var subject types.Type
	if cw.Operand != nil {
		subject = c.CheckExpr(cw.Operand)
	}
	result := c.State.FreshVarType(types.General)
	for _, arm := range cw.Arms {
		whenType := c.CheckExpr(arm.When)
		if subject != nil {
			c.State.Unify(subject, whenType, arm.When.Location())
		} else {
			c.State.Unify(integer, whenType, arm.When.Location())
		}
		thenType := c.CheckExpr(arm.Then)
		c.State.Unify(result, thenType, arm.Then.Location())
	}
	var final types.Type = result
	if cw.Else != nil {
		elseType := c.CheckExpr(cw.Else)
		c.State.Unify(result, elseType, cw.Else.Location())
	} else {
		// No ELSE: SQLite yields NULL when no WHEN matches, so the case
		// expression's type is optional even though every THEN/ELSE arm
		// unifies to the same non-optional variable.
		final = types.Optional{Inner: result}
	}
	c.State.Record(cw.ID(), final)
	return final
}

func (c *Checker) checkGrouped(g *ast.Grouped) types.Type {
	if len(g.Exprs) == 1 {
		t := c.CheckExpr(g.Exprs[0])
		c.State.Record(g.ID(), t)
		return t
	}
	elems := make([]types.Type, len(g.Exprs))
	for i, e := range g.Exprs {
		elems[i] = c.CheckExpr(e)
	}
	row := types.Row{Kind: types.RowFixed, Fixed: elems}
	c.State.Record(g.ID(), row)
	return row
}

func (c *Checker) checkSubquerySelect(s *ast.SubquerySelect) types.Type {
	resultType := c.checkSelectRowType(s.Select)
	c.State.Record(s.ID(), resultType)
	return resultType
}

func (c *Checker) checkExists(ex *ast.Exists) types.Type {
	c.checkSelectRowType(ex.Select)
	c.State.Record(ex.ID(), integer)
	return integer
}

// opKinds maps the spelling an AST node stores in its Op field to the
// token.Kind the operator/function catalogs are keyed by. A single table
// serves prefix, infix, and postfix lookups since no spelling is shared
// between incompatible roles.
var opKinds = map[string]token.Kind{
	"+": token.Plus, "-": token.Minus, "*": token.Star, "/": token.Slash,
	"%": token.Percent, "~": token.Tilde, "&": token.Amp, "|": token.Pipe,
	"<<": token.ShiftLeft, ">>": token.ShiftRight, "||": token.Concat,
	"=": token.Eq, "==": token.EqEq, "!=": token.NotEq, "<>": token.LtGt,
	"<": token.Lt, "<=": token.LtEq, ">": token.Gt, ">=": token.GtEq,
	"AND": token.AND, "OR": token.OR, "NOT": token.NOT,
	"LIKE": token.LIKE, "GLOB": token.GLOB, "REGEXP": token.REGEXP,
	"MATCH": token.MATCH, "IS": token.IS,
	"ISNULL": token.ISNULL, "NOTNULL": token.NOTNULL,
}

func prefixTokenKind(op string) token.Kind  { return opKinds[op] }
func infixTokenKind(op string) token.Kind   { return opKinds[op] }
func postfixTokenKind(op string) token.Kind { return opKinds[op] }
