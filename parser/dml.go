package parser

import (
	"github.com/sqlcore-dev/sqlcore/ast"
	"github.com/sqlcore-dev/sqlcore/token"
)

// parseInsert parses `INSERT INTO table [(cols)] {VALUES (...), ... |
// select | DEFAULT VALUES} [ON CONFLICT ...] [RETURNING ...]`.
func (p *Parser) parseInsert(with *ast.WithClause) *ast.Insert {
	loc := p.loc()
	p.expect(token.INSERT)
	p.expect(token.INTO)
	ins := &ast.Insert{Base: ast.NewBase(p.nextID(), loc), With: with}
	ins.Table, _ = p.identifierText()

	if p.at(token.LParen) {
		p.advance()
		col, _ := p.identifierText()
		ins.Columns = append(ins.Columns, col)
		for p.at(token.Comma) {
			p.advance()
			c, _ := p.identifierText()
			ins.Columns = append(ins.Columns, c)
		}
		p.expect(token.RParen)
	}

	switch {
	case p.at(token.DEFAULT):
		p.advance()
		p.expect(token.VALUES)
		ins.DefaultValues = true
	case p.at(token.VALUES):
		p.advance()
		ins.Values = append(ins.Values, p.parseValuesRow())
		for p.at(token.Comma) {
			p.advance()
			ins.Values = append(ins.Values, p.parseValuesRow())
		}
	case p.at(token.SELECT) || p.at(token.WITH):
		var inner *ast.WithClause
		if p.at(token.WITH) {
			inner = p.parseWithClause()
		}
		sel := p.parseSelect()
		sel.With = inner
		ins.Select = sel
	default:
		p.Bag.Errorf(p.loc(), "expected VALUES, SELECT, or DEFAULT VALUES, found %s", p.cur().Kind)
	}

	if p.at(token.ON) {
		ins.Upsert = p.parseUpsertClause()
	}
	if p.at(token.RETURNING) {
		ins.Returning = p.parseReturningClause()
	}
	return ins
}

func (p *Parser) parseValuesRow() []ast.Expr {
	p.expect(token.LParen)
	var row []ast.Expr
	if !p.at(token.RParen) {
		row = append(row, p.parseExpr())
		for p.at(token.Comma) {
			p.advance()
			row = append(row, p.parseExpr())
		}
	}
	p.expect(token.RParen)
	return row
}

func (p *Parser) parseUpsertClause() *ast.UpsertClause {
	p.expect(token.ON)
	p.expect(token.CONFLICT)
	u := &ast.UpsertClause{}
	if p.at(token.LParen) {
		p.advance()
		col, _ := p.identifierText()
		u.ConflictColumns = append(u.ConflictColumns, col)
		for p.at(token.Comma) {
			p.advance()
			c, _ := p.identifierText()
			u.ConflictColumns = append(u.ConflictColumns, c)
		}
		p.expect(token.RParen)
		if p.at(token.WHERE) {
			p.advance()
			u.ConflictWhere = p.parseExpr()
		}
	}
	p.expect(token.DO)
	if p.at(token.NOTHING) {
		p.advance()
		u.DoNothing = true
		return u
	}
	p.expect(token.UPDATE)
	p.expect(token.SET)
	p.parseSetClauseInto(func(cols []string, val ast.Expr) {
		for _, c := range cols {
			u.SetColumns = append(u.SetColumns, c)
			u.SetExprs = append(u.SetExprs, val)
		}
	})
	if p.at(token.WHERE) {
		p.advance()
		u.UpdateWhere = p.parseExpr()
	}
	return u
}

func (p *Parser) parseReturningClause() *ast.ReturningClause {
	p.expect(token.RETURNING)
	return &ast.ReturningClause{Columns: p.parseResultColumns()}
}

// parseSetClauseInto parses one or more comma-separated `SET` assignments
// (the simple `col = expr` form or the tuple form `(c1, c2) = (e1, e2)`),
// invoking add once per assignment with its column list and value.
func (p *Parser) parseSetClauseInto(add func(cols []string, val ast.Expr)) {
	for {
		var cols []string
		if p.at(token.LParen) {
			p.advance()
			c, _ := p.identifierText()
			cols = append(cols, c)
			for p.at(token.Comma) {
				p.advance()
				next, _ := p.identifierText()
				cols = append(cols, next)
			}
			p.expect(token.RParen)
		} else {
			c, _ := p.identifierText()
			cols = append(cols, c)
		}
		p.expect(token.Eq)
		val := p.parseExpr()
		add(cols, val)
		if p.at(token.Comma) {
			p.advance()
			continue
		}
		return
	}
}

// parseUpdate parses `UPDATE table [AS alias] SET ... [FROM ...] [WHERE
// ...] [RETURNING ...]`.
func (p *Parser) parseUpdate(with *ast.WithClause) *ast.Update {
	loc := p.loc()
	p.expect(token.UPDATE)
	u := &ast.Update{Base: ast.NewBase(p.nextID(), loc), With: with}
	u.Table, _ = p.identifierText()
	u.Alias = p.parseOptionalAlias()
	p.expect(token.SET)
	p.parseSetClauseInto(func(cols []string, val ast.Expr) {
		u.Sets = append(u.Sets, ast.SetClause{Columns: cols, Value: val})
	})
	if p.at(token.FROM) {
		p.advance()
		u.From = p.parseJoinClause()
	}
	if p.at(token.WHERE) {
		p.advance()
		u.Where = p.parseExpr()
	}
	if p.at(token.RETURNING) {
		u.Returning = p.parseReturningClause()
	}
	return u
}

// parseDelete parses `DELETE FROM table [AS alias] [WHERE ...] [RETURNING ...]`.
func (p *Parser) parseDelete(with *ast.WithClause) *ast.Delete {
	loc := p.loc()
	p.expect(token.DELETE)
	p.expect(token.FROM)
	d := &ast.Delete{Base: ast.NewBase(p.nextID(), loc), With: with}
	d.Table, _ = p.identifierText()
	d.Alias = p.parseOptionalAlias()
	if p.at(token.WHERE) {
		p.advance()
		d.Where = p.parseExpr()
	}
	if p.at(token.RETURNING) {
		d.Returning = p.parseReturningClause()
	}
	return d
}
