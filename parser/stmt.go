package parser

import (
	"strings"

	"github.com/sqlcore-dev/sqlcore/ast"
	"github.com/sqlcore-dev/sqlcore/token"
)

// parseStmt dispatches on the current token to the right top-level
// statement parser. It always consumes at least one token on a
// recognized keyword, or emits a diagnostic and returns nil for garbage.
func (p *Parser) parseStmt() ast.Stmt {
	switch p.cur().Kind {
	case token.SELECT:
		return p.parseSelect()
	case token.WITH:
		with := p.parseWithClause()
		return p.parseStmtAfterWith(with)
	case token.INSERT:
		return p.parseInsert(nil)
	case token.UPDATE:
		return p.parseUpdate(nil)
	case token.DELETE:
		return p.parseDelete(nil)
	case token.CREATE:
		return p.parseCreate()
	case token.ALTER:
		return p.parseAlterTable()
	case token.DROP:
		return p.parseDrop()
	case token.REINDEX:
		return p.parseReindex()
	case token.PRAGMA:
		return p.parsePragma()
	case token.DEFINE:
		return p.parseQueryDefinition()
	case token.EXPLAIN:
		return p.parseExplain()
	default:
		loc := p.loc()
		p.Bag.Errorf(loc, "unexpected token %s at start of statement", p.cur().Kind)
		p.recover()
		return &ast.Empty{Base: ast.NewBase(p.nextID(), loc)}
	}
}

func (p *Parser) parseStmtAfterWith(with *ast.WithClause) ast.Stmt {
	switch p.cur().Kind {
	case token.SELECT:
		sel := p.parseSelect()
		sel.With = with
		return sel
	case token.INSERT:
		return p.parseInsert(with)
	case token.UPDATE:
		return p.parseUpdate(with)
	case token.DELETE:
		return p.parseDelete(with)
	default:
		p.Bag.Errorf(p.loc(), "expected SELECT, INSERT, UPDATE, or DELETE after WITH, found %s", p.cur().Kind)
		p.recover()
		return &ast.Empty{Base: ast.NewBase(p.nextID(), p.loc())}
	}
}

// parseExplain accepts `EXPLAIN [QUERY PLAN] stmt`, discarding the
// EXPLAIN wrapper itself: sqlcore never executes, so there is nothing for
// EXPLAIN to change about how the inner statement is type-checked.
func (p *Parser) parseExplain() ast.Stmt {
	p.advance() // EXPLAIN
	if p.at(token.QUERY) {
		p.advance()
		p.expect(token.PLAN)
	}
	return p.parseStmt()
}

func (p *Parser) parseReindex() ast.Stmt {
	loc := p.loc()
	p.advance() // REINDEX
	name := ""
	if p.at(token.Identifier) || p.cur().Kind.IsKeyword() {
		name, _ = p.identifierText()
	}
	return &ast.Reindex{Base: ast.NewBase(p.nextID(), loc), Name: name}
}

func (p *Parser) parsePragma() ast.Stmt {
	loc := p.loc()
	p.advance() // PRAGMA
	name, _ := p.identifierText()
	value := ""
	switch {
	case p.at(token.Eq):
		p.advance()
		value = p.parsePragmaValue()
	case p.at(token.LParen):
		p.advance()
		value = p.parsePragmaValue()
		p.expect(token.RParen)
	}
	return &ast.Pragma{Base: ast.NewBase(p.nextID(), loc), Name: strings.ToLower(name), Value: value}
}

func (p *Parser) parsePragmaValue() string {
	t := p.cur()
	switch t.Kind {
	case token.IntLiteral, token.DoubleLiteral, token.StringLiteral, token.Identifier:
		p.advance()
		return t.Text
	case token.ON:
		p.advance()
		return "on"
	default:
		if t.Kind.IsKeyword() {
			p.advance()
			return t.Text
		}
		p.Bag.Errorf(t.Loc, "expected a pragma value, found %s", t.Kind)
		return ""
	}
}

// parseQueryDefinition parses `DEFINE QUERY name (opt: val, ...) AS stmt`.
func (p *Parser) parseQueryDefinition() ast.Stmt {
	loc := p.loc()
	p.advance() // DEFINE
	p.expect(token.QUERY)
	name, _ := p.identifierText()
	opts := p.parseQueryDefinitionOptions()
	p.expect(token.AS)
	inner := p.parseStmt()
	return &ast.QueryDefinition{Base: ast.NewBase(p.nextID(), loc), Name: name, Options: opts, Inner: inner}
}

// parseQueryDefinitionOptions parses the optional `(key: value, ...)`
// option list of a DEFINE QUERY statement.
func (p *Parser) parseQueryDefinitionOptions() []ast.QueryDefinitionOption {
	var opts []ast.QueryDefinitionOption
	if !p.at(token.LParen) {
		return opts
	}
	p.advance()
	for !p.at(token.RParen) && !p.at(token.EOF) {
		key, _ := p.identifierText()
		value := ""
		if p.at(token.BindColon) {
			// the lexer has already consumed ':value' (with or without
			// blanks after the colon) as one BindColon token; its Text is
			// the value itself.
			value = p.cur().Text
			p.advance()
		} else {
			p.Bag.Errorf(p.loc(), "expected ':' in query definition option")
		}
		opts = append(opts, ast.QueryDefinitionOption{Key: key, Value: value})
		if p.at(token.Comma) {
			p.advance()
			continue
		}
		break
	}
	p.expect(token.RParen)
	return opts
}
