package parser

import (
	"strings"

	"github.com/sqlcore-dev/sqlcore/ast"
	"github.com/sqlcore-dev/sqlcore/token"
)

func (p *Parser) parseSelect() *ast.Select {
	loc := p.loc()
	p.expect(token.SELECT)
	if p.at(token.DISTINCT) || p.at(token.ALL) {
		// row-multiplicity modifier; execution is out of scope, so it
		// affects neither the result shape nor its types.
		p.advance()
	}
	sel := &ast.Select{Base: ast.NewBase(p.nextID(), loc)}
	sel.Columns = p.parseResultColumns()

	if p.at(token.FROM) {
		p.advance()
		sel.From = p.parseJoinClause()
	}
	if p.at(token.WHERE) {
		p.advance()
		sel.Where = p.parseExpr()
	}
	if p.at(token.GROUP) {
		p.advance()
		p.expect(token.BY)
		sel.GroupBy = append(sel.GroupBy, p.parseExpr())
		for p.at(token.Comma) {
			p.advance()
			sel.GroupBy = append(sel.GroupBy, p.parseExpr())
		}
	}
	if p.at(token.HAVING) {
		p.advance()
		sel.Having = p.parseExpr()
	}
	if p.at(token.WINDOW) {
		sel.Window = true
		p.advance()
		p.skipWindowDefinitions()
	}
	if p.atAny(token.UNION, token.INTERSECT, token.EXCEPT) {
		sel.CompoundOp, sel.CompoundNext = p.parseCompoundTail()
	}
	// ORDER BY/LIMIT/OFFSET trailing a compound statement are attached to
	// whichever arm's parseSelect call reaches this point last; checking is
	// arm-order-independent, so this does not affect type-checking.
	if p.at(token.ORDER) {
		p.advance()
		p.expect(token.BY)
		sel.OrderBy = append(sel.OrderBy, p.parseOrderingTerm())
		for p.at(token.Comma) {
			p.advance()
			sel.OrderBy = append(sel.OrderBy, p.parseOrderingTerm())
		}
	}
	if p.at(token.LIMIT) {
		p.advance()
		first := p.parseExpr()
		switch {
		case p.at(token.Comma):
			// SQLite's "LIMIT offset, count" form: the first number is the
			// offset, the second the limit.
			p.advance()
			sel.Offset = first
			sel.Limit = p.parseExpr()
		case p.at(token.OFFSET):
			p.advance()
			sel.Limit = first
			sel.Offset = p.parseExpr()
		default:
			sel.Limit = first
		}
	}
	return sel
}

// skipWindowDefinitions consumes tokens up to the next clause boundary
// without building any AST, since WINDOW is unsupported (see check/select.go).
func (p *Parser) skipWindowDefinitions() {
	for !p.atAny(token.ORDER, token.LIMIT, token.UNION, token.INTERSECT, token.EXCEPT, token.Semicolon, token.RParen, token.EOF) {
		p.advance()
	}
}

func (p *Parser) parseCompoundTail() (ast.CompoundOp, *ast.Select) {
	var op ast.CompoundOp
	switch p.cur().Kind {
	case token.UNION:
		p.advance()
		if p.at(token.ALL) {
			p.advance()
			op = ast.CompoundUnionAll
		} else {
			op = ast.CompoundUnion
		}
	case token.INTERSECT:
		p.advance()
		op = ast.CompoundIntersect
	case token.EXCEPT:
		p.advance()
		op = ast.CompoundExcept
	}
	next := p.parseSelect()
	return op, next
}

func (p *Parser) parseOrderingTerm() ast.OrderingTerm {
	e := p.parseExpr()
	return ast.OrderingTerm{Expr: e, Descending: p.parseOptionalDirection()}
}

// parseOptionalDirection consumes a trailing ASC/DESC keyword. Neither is
// reserved in this grammar (they carry no other role), so they surface as
// plain identifiers rather than dedicated token kinds.
func (p *Parser) parseOptionalDirection() bool {
	if p.at(token.Identifier) {
		switch strings.ToLower(p.cur().Text) {
		case "desc":
			p.advance()
			return true
		case "asc":
			p.advance()
			return false
		}
	}
	return false
}

// --- result columns ------------------------------------------------------

func (p *Parser) parseResultColumns() []ast.ResultColumn {
	cols := []ast.ResultColumn{p.parseResultColumn()}
	for p.at(token.Comma) {
		p.advance()
		cols = append(cols, p.parseResultColumn())
	}
	return cols
}

func (p *Parser) parseResultColumn() ast.ResultColumn {
	loc := p.loc()
	if p.at(token.Star) {
		p.advance()
		return ast.ResultColumn{Wildcard: &ast.WildcardColumn{Base: ast.NewBase(p.nextID(), loc)}}
	}
	if (p.at(token.Identifier) || p.cur().Kind.IsKeyword()) && p.peek(1).Kind == token.Dot && p.peek(2).Kind == token.Star {
		table, _ := p.identifierText()
		p.advance() // .
		p.advance() // *
		return ast.ResultColumn{Wildcard: &ast.WildcardColumn{Base: ast.NewBase(p.nextID(), loc), Table: table}}
	}
	expr := p.parseExpr()
	return ast.ResultColumn{Aliased: &ast.AliasedExpr{Expr: expr, Alias: p.parseOptionalAlias()}}
}

func (p *Parser) parseOptionalAlias() string {
	if p.at(token.AS) {
		p.advance()
		name, _ := p.identifierText()
		return name
	}
	if p.at(token.Identifier) {
		name, _ := p.identifierText()
		return name
	}
	return ""
}

// --- WITH / CTEs -----------------------------------------------------------

func (p *Parser) parseWithClause() *ast.WithClause {
	p.expect(token.WITH)
	recursive := false
	if p.at(token.RECURSIVE) {
		p.advance()
		recursive = true
	}
	w := &ast.WithClause{Recursive: recursive}
	w.CTEs = append(w.CTEs, p.parseCTE(recursive))
	for p.at(token.Comma) {
		p.advance()
		w.CTEs = append(w.CTEs, p.parseCTE(recursive))
	}
	return w
}

func (p *Parser) parseCTE(recursive bool) ast.CTE {
	name, _ := p.identifierText()
	var cols []string
	if p.at(token.LParen) {
		p.advance()
		c, _ := p.identifierText()
		cols = append(cols, c)
		for p.at(token.Comma) {
			p.advance()
			c, _ := p.identifierText()
			cols = append(cols, c)
		}
		p.expect(token.RParen)
	}
	p.expect(token.AS)
	p.expect(token.LParen)
	var with *ast.WithClause
	if p.at(token.WITH) {
		with = p.parseWithClause()
	}
	sel := p.parseSelect()
	sel.With = with
	p.expect(token.RParen)
	return ast.CTE{Name: name, Columns: cols, Select: sel, Recursive: recursive}
}

// --- FROM / JOIN -----------------------------------------------------------

func (p *Parser) parseJoinClause() *ast.JoinClause {
	j := &ast.JoinClause{Left: p.parseTableOrSubquery()}
	for {
		kind, ok := p.parseJoinKind()
		if !ok {
			return j
		}
		right := p.parseTableOrSubquery()
		op := ast.JoinOperand{Kind: kind, Right: right}
		switch {
		case p.at(token.ON):
			p.advance()
			op.On = p.parseExpr()
		case p.at(token.USING):
			p.advance()
			p.expect(token.LParen)
			col, _ := p.identifierText()
			op.Using = append(op.Using, col)
			for p.at(token.Comma) {
				p.advance()
				c, _ := p.identifierText()
				op.Using = append(op.Using, c)
			}
			p.expect(token.RParen)
		}
		j.Joins = append(j.Joins, op)
	}
}

func (p *Parser) parseJoinKind() (ast.JoinKind, bool) {
	switch p.cur().Kind {
	case token.Comma:
		p.advance()
		return ast.JoinInner, true
	case token.JOIN:
		p.advance()
		return ast.JoinInner, true
	case token.INNER:
		p.advance()
		p.expect(token.JOIN)
		return ast.JoinInner, true
	case token.CROSS:
		p.advance()
		p.expect(token.JOIN)
		return ast.JoinCross, true
	case token.LEFT:
		p.advance()
		outer := p.at(token.OUTER)
		if outer {
			p.advance()
		}
		p.expect(token.JOIN)
		if outer {
			return ast.JoinLeftOuter, true
		}
		return ast.JoinLeft, true
	case token.RIGHT:
		p.advance()
		outer := p.at(token.OUTER)
		if outer {
			p.advance()
		}
		p.expect(token.JOIN)
		if outer {
			return ast.JoinRightOuter, true
		}
		return ast.JoinRight, true
	case token.FULL:
		p.advance()
		outer := p.at(token.OUTER)
		if outer {
			p.advance()
		}
		p.expect(token.JOIN)
		if outer {
			return ast.JoinFullOuter, true
		}
		return ast.JoinFull, true
	default:
		return 0, false
	}
}

func (p *Parser) parseTableOrSubquery() ast.TableOrSubquery {
	if p.at(token.LParen) {
		p.advance()
		if p.at(token.SELECT) || p.at(token.WITH) {
			var with *ast.WithClause
			if p.at(token.WITH) {
				with = p.parseWithClause()
			}
			sel := p.parseSelect()
			sel.With = with
			p.expect(token.RParen)
			return ast.TableOrSubquery{Subquery: sel, Alias: p.parseOptionalAlias()}
		}
		nested := p.parseJoinClause()
		p.expect(token.RParen)
		return ast.TableOrSubquery{Nested: nested, Alias: p.parseOptionalAlias()}
	}

	loc := p.loc()
	first, _ := p.identifierText()
	parts := []string{first}
	for p.at(token.Dot) {
		p.advance()
		next, _ := p.identifierText()
		parts = append(parts, next)
	}
	if p.at(token.LParen) {
		name := parts[len(parts)-1]
		p.advance()
		f := &ast.TableFunctionCall{Base: ast.NewBase(p.nextID(), loc), Name: name}
		if !p.at(token.RParen) {
			f.Args = append(f.Args, p.parseExpr())
			for p.at(token.Comma) {
				p.advance()
				f.Args = append(f.Args, p.parseExpr())
			}
		}
		p.expect(token.RParen)
		f.Alias = p.parseOptionalAlias()
		return ast.TableOrSubquery{TableFunc: f, Alias: f.Alias}
	}

	t := ast.TableOrSubquery{}
	switch len(parts) {
	case 1:
		t.Table = parts[0]
	default:
		t.Schema, t.Table = parts[0], parts[1]
	}
	t.Alias = p.parseOptionalAlias()
	return t
}
