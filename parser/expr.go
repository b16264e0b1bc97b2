package parser

import (
	"strings"

	"github.com/sqlcore-dev/sqlcore/ast"
	"github.com/sqlcore-dev/sqlcore/token"
)

// parseExpr parses one full expression, the Pratt/precedence-climbing
// entry point used everywhere an SQL expression is expected (WHERE,
// column defaults, CHECK constraints, CASE arms, function arguments, ...).
// Precedence, lowest to highest: OR, AND, NOT (prefix), comparison/
// BETWEEN/IN/LIKE-family, bitwise |, bitwise &, shift, +/-, * / %, ||,
// unary +/-/~, postfix ISNULL/NOTNULL/COLLATE, primary.
func (p *Parser) parseExpr() ast.Expr {
	return p.parseOr()
}

func (p *Parser) parseOr() ast.Expr {
	left := p.parseAnd()
	for p.at(token.OR) {
		loc := p.loc()
		p.advance()
		right := p.parseAnd()
		left = &ast.InfixOp{Base: ast.NewBase(p.nextID(), loc), Op: "OR", Left: left, Right: right}
	}
	return left
}

func (p *Parser) parseAnd() ast.Expr {
	left := p.parseNot()
	for p.at(token.AND) {
		loc := p.loc()
		p.advance()
		right := p.parseNot()
		left = &ast.InfixOp{Base: ast.NewBase(p.nextID(), loc), Op: "AND", Left: left, Right: right}
	}
	return left
}

// parseNot handles a leading unary NOT (including the "NOT EXISTS (...)"
// shape, which builds directly into ast.Exists.Not rather than wrapping a
// PrefixOp around an Exists node).
func (p *Parser) parseNot() ast.Expr {
	if p.at(token.NOT) {
		if p.peek(1).Kind == token.EXISTS {
			p.advance() // NOT
			return p.parseExists(true)
		}
		loc := p.loc()
		p.advance()
		operand := p.parseNot()
		return &ast.PrefixOp{Base: ast.NewBase(p.nextID(), loc), Op: "NOT", Operand: operand}
	}
	return p.parseComparison()
}

// parseComparison handles the comparison/BETWEEN/IN/LIKE-family
// precedence level, including their NOT-tailed negations ("a NOT BETWEEN
// b AND c", "a NOT IN (...)", "a NOT LIKE b").
func (p *Parser) parseComparison() ast.Expr {
	left := p.parseBitOr()
	for {
		switch p.cur().Kind {
		case token.Eq, token.EqEq, token.NotEq, token.LtGt, token.Lt, token.LtEq, token.Gt, token.GtEq:
			opText := p.cur().Kind.String()
			loc := p.loc()
			p.advance()
			right := p.parseBitOr()
			left = &ast.InfixOp{Base: ast.NewBase(p.nextID(), loc), Op: opText, Left: left, Right: right}
		case token.IS:
			loc := p.loc()
			p.advance()
			not := false
			if p.at(token.NOT) {
				not = true
				p.advance()
			}
			right := p.parseBitOr()
			is := ast.Expr(&ast.InfixOp{Base: ast.NewBase(p.nextID(), loc), Op: "IS", Left: left, Right: right})
			if not {
				is = &ast.PrefixOp{Base: ast.NewBase(p.nextID(), loc), Op: "NOT", Operand: is}
			}
			left = is
		case token.LIKE, token.GLOB, token.REGEXP, token.MATCH:
			left = p.parseLikeFamilyTail(left, false)
		case token.BETWEEN:
			left = p.parseBetweenTail(left, false)
		case token.IN:
			left = p.parseInTail(left, false)
		case token.NOT:
			next := p.parseNotTail(left)
			if next == left {
				return left
			}
			left = next
		default:
			return left
		}
	}
}

// parseNotTail handles the NOT-prefixed forms of BETWEEN/IN/LIKE-family
// that appear after an operand has already been parsed (as opposed to a
// leading unary NOT, which parseNot already owns).
func (p *Parser) parseNotTail(left ast.Expr) ast.Expr {
	switch p.peek(1).Kind {
	case token.BETWEEN:
		p.advance() // NOT
		return p.parseBetweenTail(left, true)
	case token.IN:
		p.advance() // NOT
		return p.parseInTail(left, true)
	case token.LIKE, token.GLOB, token.REGEXP, token.MATCH:
		p.advance() // NOT
		return p.parseLikeFamilyTail(left, true)
	default:
		return left
	}
}

func (p *Parser) parseLikeFamilyTail(left ast.Expr, not bool) ast.Expr {
	opText := keywordOpText[p.cur().Kind]
	loc := p.loc()
	p.advance()
	right := p.parseBitOr()
	if p.at(token.ESCAPE) {
		p.advance()
		p.parseBitOr() // escape character expression, not represented in the AST
	}
	expr := ast.Expr(&ast.InfixOp{Base: ast.NewBase(p.nextID(), loc), Op: opText, Left: left, Right: right})
	if not {
		expr = &ast.PrefixOp{Base: ast.NewBase(p.nextID(), loc), Op: "NOT", Operand: expr}
	}
	return expr
}

func (p *Parser) parseBetweenTail(left ast.Expr, not bool) ast.Expr {
	loc := p.loc()
	p.expect(token.BETWEEN)
	lower := p.parseBitOr()
	p.expect(token.AND)
	upper := p.parseBitOr()
	return &ast.Between{Base: ast.NewBase(p.nextID(), loc), Operand: left, Not: not, Lower: lower, Upper: upper}
}

func (p *Parser) parseInTail(left ast.Expr, not bool) ast.Expr {
	loc := p.loc()
	p.expect(token.IN)
	var right ast.Expr
	if p.at(token.LParen) {
		right = p.parseInList()
	} else {
		right = p.parsePrimary()
	}
	op := "IN"
	if not {
		op = "NOT IN"
	}
	return &ast.InfixOp{Base: ast.NewBase(p.nextID(), loc), Op: op, Left: left, Right: right}
}

// parseInList parses the parenthesized right side of an IN expression,
// which is either a subquery or a comma-separated list of scalar
// expressions (including a single element: check's Unifier reconciles a
// one-element Grouped's scalar type against the left side without any
// special-casing here).
func (p *Parser) parseInList() ast.Expr {
	loc := p.loc()
	p.advance() // (
	if p.at(token.SELECT) || p.at(token.WITH) {
		var with *ast.WithClause
		if p.at(token.WITH) {
			with = p.parseWithClause()
		}
		sel := p.parseSelect()
		sel.With = with
		p.expect(token.RParen)
		return &ast.SubquerySelect{Base: ast.NewBase(p.nextID(), loc), Select: sel}
	}
	var exprs []ast.Expr
	if !p.at(token.RParen) {
		exprs = append(exprs, p.parseExpr())
		for p.at(token.Comma) {
			p.advance()
			exprs = append(exprs, p.parseExpr())
		}
	}
	p.expect(token.RParen)
	return &ast.Grouped{Base: ast.NewBase(p.nextID(), loc), Exprs: exprs}
}

func (p *Parser) parseBitOr() ast.Expr {
	left := p.parseBitAnd()
	for p.at(token.Pipe) {
		opText := p.cur().Kind.String()
		loc := p.loc()
		p.advance()
		right := p.parseBitAnd()
		left = &ast.InfixOp{Base: ast.NewBase(p.nextID(), loc), Op: opText, Left: left, Right: right}
	}
	return left
}

func (p *Parser) parseBitAnd() ast.Expr {
	left := p.parseShift()
	for p.at(token.Amp) {
		opText := p.cur().Kind.String()
		loc := p.loc()
		p.advance()
		right := p.parseShift()
		left = &ast.InfixOp{Base: ast.NewBase(p.nextID(), loc), Op: opText, Left: left, Right: right}
	}
	return left
}

func (p *Parser) parseShift() ast.Expr {
	left := p.parseAddSub()
	for p.atAny(token.ShiftLeft, token.ShiftRight) {
		opText := p.cur().Kind.String()
		loc := p.loc()
		p.advance()
		right := p.parseAddSub()
		left = &ast.InfixOp{Base: ast.NewBase(p.nextID(), loc), Op: opText, Left: left, Right: right}
	}
	return left
}

func (p *Parser) parseAddSub() ast.Expr {
	left := p.parseMulDiv()
	for p.atAny(token.Plus, token.Minus) {
		opText := p.cur().Kind.String()
		loc := p.loc()
		p.advance()
		right := p.parseMulDiv()
		left = &ast.InfixOp{Base: ast.NewBase(p.nextID(), loc), Op: opText, Left: left, Right: right}
	}
	return left
}

func (p *Parser) parseMulDiv() ast.Expr {
	left := p.parseConcat()
	for p.atAny(token.Star, token.Slash, token.Percent) {
		opText := p.cur().Kind.String()
		loc := p.loc()
		p.advance()
		right := p.parseConcat()
		left = &ast.InfixOp{Base: ast.NewBase(p.nextID(), loc), Op: opText, Left: left, Right: right}
	}
	return left
}

func (p *Parser) parseConcat() ast.Expr {
	left := p.parseUnary()
	for p.at(token.Concat) {
		loc := p.loc()
		p.advance()
		right := p.parseUnary()
		left = &ast.InfixOp{Base: ast.NewBase(p.nextID(), loc), Op: "||", Left: left, Right: right}
	}
	return left
}

func (p *Parser) parseUnary() ast.Expr {
	switch p.cur().Kind {
	case token.Plus, token.Minus, token.Tilde:
		opText := p.cur().Kind.String()
		loc := p.loc()
		p.advance()
		operand := p.parseUnary()
		return &ast.PrefixOp{Base: ast.NewBase(p.nextID(), loc), Op: opText, Operand: operand}
	default:
		return p.parsePostfix(p.parsePrimary())
	}
}

func (p *Parser) parsePostfix(e ast.Expr) ast.Expr {
	for {
		switch p.cur().Kind {
		case token.ISNULL:
			loc := p.loc()
			p.advance()
			e = &ast.PostfixOp{Base: ast.NewBase(p.nextID(), loc), Op: "ISNULL", Operand: e}
		case token.NOTNULL:
			loc := p.loc()
			p.advance()
			e = &ast.PostfixOp{Base: ast.NewBase(p.nextID(), loc), Op: "NOTNULL", Operand: e}
		case token.NOT:
			if p.peek(1).Kind != token.NULL {
				return e
			}
			loc := p.loc()
			p.advance()
			p.advance()
			e = &ast.PostfixOp{Base: ast.NewBase(p.nextID(), loc), Op: "NOTNULL", Operand: e}
		case token.COLLATE:
			p.advance()
			name, loc := p.identifierText()
			e = &ast.PostfixOp{Base: ast.NewBase(p.nextID(), loc), Op: "COLLATE", Operand: e, Collate: name}
		default:
			return e
		}
	}
}

func (p *Parser) parsePrimary() ast.Expr {
	t := p.cur()
	switch t.Kind {
	case token.IntLiteral:
		p.advance()
		return &ast.Literal{Base: ast.NewBase(p.nextID(), t.Loc), Kind: ast.LiteralInt, Text: t.Text}
	case token.HexLiteral:
		p.advance()
		return &ast.Literal{Base: ast.NewBase(p.nextID(), t.Loc), Kind: ast.LiteralInt, Text: "0x" + t.Text}
	case token.DoubleLiteral:
		p.advance()
		return &ast.Literal{Base: ast.NewBase(p.nextID(), t.Loc), Kind: ast.LiteralDouble, Text: t.Text}
	case token.StringLiteral:
		p.advance()
		return &ast.Literal{Base: ast.NewBase(p.nextID(), t.Loc), Kind: ast.LiteralString, Text: t.Text}
	case token.NULL:
		p.advance()
		return &ast.Literal{Base: ast.NewBase(p.nextID(), t.Loc), Kind: ast.LiteralNull}
	case token.TRUE:
		p.advance()
		return &ast.Literal{Base: ast.NewBase(p.nextID(), t.Loc), Kind: ast.LiteralBool, Bool: true}
	case token.FALSE:
		p.advance()
		return &ast.Literal{Base: ast.NewBase(p.nextID(), t.Loc), Kind: ast.LiteralBool, Bool: false}
	case token.CURRENT_TIME:
		p.advance()
		return &ast.Literal{Base: ast.NewBase(p.nextID(), t.Loc), Kind: ast.LiteralCurrentTime}
	case token.CURRENT_DATE:
		p.advance()
		return &ast.Literal{Base: ast.NewBase(p.nextID(), t.Loc), Kind: ast.LiteralCurrentDate}
	case token.CURRENT_TIMESTAMP:
		p.advance()
		return &ast.Literal{Base: ast.NewBase(p.nextID(), t.Loc), Kind: ast.LiteralCurrentTimestamp}
	case token.BindQuestion:
		p.advance()
		idx := p.assignBindIndex(ast.BindAnonymous, "")
		return &ast.BindParameter{Base: ast.NewBase(p.nextID(), t.Loc), Kind: ast.BindAnonymous, Index: idx}
	case token.BindQuestionN:
		p.advance()
		idx := p.assignBindIndex(ast.BindNumbered, t.Text)
		return &ast.BindParameter{Base: ast.NewBase(p.nextID(), t.Loc), Kind: ast.BindNumbered, Index: idx, Name: t.Text}
	case token.BindColon:
		p.advance()
		idx := p.assignBindIndex(ast.BindNamedColon, t.Text)
		return &ast.BindParameter{Base: ast.NewBase(p.nextID(), t.Loc), Kind: ast.BindNamedColon, Index: idx, Name: t.Text}
	case token.BindAt:
		p.advance()
		idx := p.assignBindIndex(ast.BindNamedAt, t.Text)
		return &ast.BindParameter{Base: ast.NewBase(p.nextID(), t.Loc), Kind: ast.BindNamedAt, Index: idx, Name: t.Text}
	case token.BindTcl:
		p.advance()
		idx := p.assignBindIndex(ast.BindTcl, t.Text)
		return &ast.BindParameter{Base: ast.NewBase(p.nextID(), t.Loc), Kind: ast.BindTcl, Index: idx, Name: t.Text}
	case token.CAST:
		return p.parseCast()
	case token.CASE:
		return p.parseCaseExpr()
	case token.EXISTS:
		return p.parseExists(false)
	case token.LParen:
		return p.parseParenExpr()
	case token.Identifier:
		return p.parseIdentifierExpr()
	default:
		if t.Kind.IsKeyword() {
			return p.parseIdentifierExpr()
		}
		p.Bag.Errorf(t.Loc, "unexpected token %s in expression", t.Kind)
		p.advance()
		return &ast.Invalid{Base: ast.NewBase(p.nextID(), t.Loc)}
	}
}

func (p *Parser) parseExists(not bool) ast.Expr {
	loc := p.loc()
	p.expect(token.EXISTS)
	p.expect(token.LParen)
	sel := p.parseSelect()
	p.expect(token.RParen)
	return &ast.Exists{Base: ast.NewBase(p.nextID(), loc), Not: not, Select: sel}
}

func (p *Parser) parseParenExpr() ast.Expr {
	loc := p.loc()
	p.advance() // (
	if p.at(token.SELECT) || p.at(token.WITH) {
		var with *ast.WithClause
		if p.at(token.WITH) {
			with = p.parseWithClause()
		}
		sel := p.parseSelect()
		sel.With = with
		p.expect(token.RParen)
		return &ast.SubquerySelect{Base: ast.NewBase(p.nextID(), loc), Select: sel}
	}
	var exprs []ast.Expr
	exprs = append(exprs, p.parseExpr())
	for p.at(token.Comma) {
		p.advance()
		exprs = append(exprs, p.parseExpr())
	}
	p.expect(token.RParen)
	return &ast.Grouped{Base: ast.NewBase(p.nextID(), loc), Exprs: exprs}
}

func (p *Parser) parseCast() ast.Expr {
	loc := p.loc()
	p.advance() // CAST
	p.expect(token.LParen)
	operand := p.parseExpr()
	p.expect(token.AS)
	typeName := p.parseCastTypeName()
	p.expect(token.RParen)
	return &ast.Cast{Base: ast.NewBase(p.nextID(), loc), Operand: operand, TypeName: typeName}
}

// parseCastTypeName reads a CAST target type name, discarding any size
// specifier ("VARCHAR(255)" casts to the same type as plain "VARCHAR").
func (p *Parser) parseCastTypeName() string {
	name, _ := p.identifierText()
	if p.at(token.LParen) {
		p.advance()
		for !p.at(token.RParen) && !p.at(token.EOF) {
			p.advance()
		}
		p.expect(token.RParen)
	}
	return strings.ToUpper(name)
}

func (p *Parser) parseCaseExpr() ast.Expr {
	loc := p.loc()
	p.advance() // CASE
	var operand ast.Expr
	if !p.at(token.WHEN) {
		operand = p.parseExpr()
	}
	var arms []ast.WhenThen
	for p.at(token.WHEN) {
		p.advance()
		when := p.parseExpr()
		p.expect(token.THEN)
		then := p.parseExpr()
		arms = append(arms, ast.WhenThen{When: when, Then: then})
	}
	var elseExpr ast.Expr
	if p.at(token.ELSE) {
		p.advance()
		elseExpr = p.parseExpr()
	}
	p.expect(token.END)
	return &ast.CaseWhenThen{Base: ast.NewBase(p.nextID(), loc), Operand: operand, Arms: arms, Else: elseExpr}
}

// parseIdentifierExpr parses a (possibly dot-qualified) name, reparsing it
// as a function call if a '(' immediately follows.
func (p *Parser) parseIdentifierExpr() ast.Expr {
	loc := p.loc()
	first, _ := p.identifierText()
	parts := []string{first}
	for p.at(token.Dot) && p.peek(1).Kind != token.Star {
		p.advance()
		next, _ := p.identifierText()
		parts = append(parts, next)
	}
	if p.at(token.LParen) {
		return p.parseFunctionCallTail(loc, parts)
	}
	return buildColumn(p.nextID(), loc, parts)
}

func buildColumn(id ast.NodeID, loc token.Location, parts []string) *ast.Column {
	col := &ast.Column{Base: ast.NewBase(id, loc)}
	switch len(parts) {
	case 1:
		col.Name = parts[0]
	case 2:
		col.Table, col.Name = parts[0], parts[1]
	default:
		col.Schema, col.Table, col.Name = parts[0], parts[1], parts[len(parts)-1]
	}
	return col
}

func (p *Parser) parseFunctionCallTail(loc token.Location, parts []string) ast.Expr {
	name := parts[len(parts)-1]
	schemaName := ""
	if len(parts) > 1 {
		schemaName = parts[len(parts)-2]
	}
	p.advance() // (
	f := &ast.Function{Base: ast.NewBase(p.nextID(), loc), Schema: schemaName, Name: name}
	if p.at(token.Star) {
		p.advance()
		f.Star = true
		p.expect(token.RParen)
		return f
	}
	if p.at(token.DISTINCT) {
		p.advance()
		f.Distinct = true
	}
	if !p.at(token.RParen) {
		f.Args = append(f.Args, p.parseExpr())
		for p.at(token.Comma) {
			p.advance()
			f.Args = append(f.Args, p.parseExpr())
		}
	}
	p.expect(token.RParen)
	return f
}

// keywordOpText maps a keyword token.Kind to the Op spelling check/expr.go
// expects; only punctuation kinds carry their own printable spelling via
// Kind.String(), so the LIKE-family operators need an explicit table.
var keywordOpText = map[token.Kind]string{
	token.LIKE:   "LIKE",
	token.GLOB:   "GLOB",
	token.REGEXP: "REGEXP",
	token.MATCH:  "MATCH",
}
