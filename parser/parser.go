// Package parser implements a hand-written, 3-token-lookahead recursive
// -descent / Pratt parser: it consumes a token.Token stream from package
// lexer, builds the package ast tree, assigns bind-parameter indices as it
// goes, and recovers from a syntax error by skipping to the next statement
// boundary instead of aborting the whole compilation. Nothing here is
// grammar-generated; the grammar is a hand-rolled descent over SQLite's
// statement and expression syntax.
package parser

import (
	"strconv"

	"github.com/sqlcore-dev/sqlcore/ast"
	"github.com/sqlcore-dev/sqlcore/diag"
	"github.com/sqlcore-dev/sqlcore/lexer"
	"github.com/sqlcore-dev/sqlcore/token"
)

// Parser turns one source string into a slice of ast.Stmt, reporting
// diagnostics into Bag rather than failing outright.
type Parser struct {
	src string
	lex *lexer.Lexer
	buf [3]token.Token // 3-token lookahead window
	ids ast.Counter

	Bag *diag.Bag

	bindNextIndex int
	bindByKey     map[string]int
}

// New creates a Parser over src.
func New(src string) *Parser {
	p := &Parser{src: src, lex: lexer.New(src), Bag: &diag.Bag{}}
	for i := range p.buf {
		p.buf[i] = p.lex.Next()
	}
	return p
}

// Parse consumes the entire source, returning every top-level statement it
// could recover (including a trailing run of ast.Invalid-free partial
// statements is not attempted: a malformed statement is skipped wholesale).
func (p *Parser) Parse() []ast.Stmt {
	var stmts []ast.Stmt
	for !p.at(token.EOF) {
		if p.at(token.Semicolon) {
			p.advance()
			continue
		}
		p.resetBindIndex()
		stmt := p.parseStmt()
		if stmt != nil {
			stmts = append(stmts, stmt)
		}
		if !p.at(token.Semicolon) && !p.at(token.EOF) {
			p.Bag.Errorf(p.cur().Loc, "expected ';' after statement, found %s", p.cur().Kind)
			p.recover()
		}
	}
	p.Bag.Extend(p.lex.Diagnostics)
	return stmts
}

// --- token buffer -----------------------------------------------------

func (p *Parser) cur() token.Token  { return p.buf[0] }
func (p *Parser) peek(n int) token.Token {
	return p.buf[n]
}

func (p *Parser) advance() token.Token {
	t := p.buf[0]
	p.buf[0], p.buf[1] = p.buf[1], p.buf[2]
	p.buf[2] = p.lex.Next()
	return t
}

func (p *Parser) at(k token.Kind) bool { return p.cur().Kind == k }

func (p *Parser) atAny(ks ...token.Kind) bool {
	for _, k := range ks {
		if p.at(k) {
			return true
		}
	}
	return false
}

// expect consumes the current token if it matches k, else emits a
// diagnostic and returns the current token unconsumed (so the caller's
// recovery can still make progress).
func (p *Parser) expect(k token.Kind) token.Token {
	if p.at(k) {
		return p.advance()
	}
	p.Bag.Errorf(p.cur().Loc, "expected %s, found %s", k, p.cur().Kind)
	return p.cur()
}

// identifier accepts an Identifier token, or (since SQLite lets many
// keywords double as unquoted identifiers in name position) falls back to
// accepting any keyword token's spelling when an identifier was expected
// but a bare keyword sits there instead.
func (p *Parser) identifierText() (string, token.Location) {
	t := p.cur()
	if t.Kind == token.Identifier {
		p.advance()
		return t.Text, t.Loc
	}
	if t.Kind.IsKeyword() {
		p.advance()
		return t.Text, t.Loc
	}
	p.Bag.Errorf(t.Loc, "expected an identifier, found %s", t.Kind)
	return "", t.Loc
}

// quoted reports whether the identifier token at loc was written with
// quote delimiters in the source, which the lexer itself does not track
// (scanQuotedIdentifier emits the same token.Identifier kind as a bare
// word); the opening delimiter is still sitting at the token's start
// offset, so it is recovered by inspecting the source directly.
func quoted(src string, loc token.Location) bool {
	if loc.Start >= len(src) {
		return false
	}
	switch src[loc.Start] {
	case '"', '`', '[':
		return true
	default:
		return false
	}
}

// recover skips tokens until the next Semicolon or EOF, used after a
// statement-level parse error so the rest of the source is still parsed.
func (p *Parser) recover() {
	for !p.at(token.Semicolon) && !p.at(token.EOF) {
		p.advance()
	}
}

func (p *Parser) loc() token.Location { return p.cur().Loc }

func (p *Parser) nextID() ast.NodeID { return p.ids.Next() }

// --- bind parameter indexing -------------------------------------------

// resetBindIndex clears per-statement bind bookkeeping: the parameter
// counter resets at the start of each top-level statement.
func (p *Parser) resetBindIndex() {
	p.bindNextIndex = 1
	p.bindByKey = make(map[string]int)
}

// assignBindIndex implements SQLite's parameter indexing rule: an anonymous
// `?` always gets a fresh index; `?N`, `:name`, `@name`, and `$tcl` forms
// reuse the index of their first occurrence in this statement.
func (p *Parser) assignBindIndex(kind ast.BindKind, text string) int {
	switch kind {
	case ast.BindAnonymous:
		idx := p.bindNextIndex
		p.bindNextIndex++
		return idx
	case ast.BindNumbered:
		n, err := strconv.Atoi(text)
		if err != nil || n <= 0 {
			idx := p.bindNextIndex
			p.bindNextIndex++
			return idx
		}
		key := "#" + text
		if idx, ok := p.bindByKey[key]; ok {
			return idx
		}
		p.bindByKey[key] = n
		if n >= p.bindNextIndex {
			p.bindNextIndex = n + 1
		}
		return n
	default:
		key := bindKeyPrefix(kind) + text
		if idx, ok := p.bindByKey[key]; ok {
			return idx
		}
		idx := p.bindNextIndex
		p.bindNextIndex++
		p.bindByKey[key] = idx
		return idx
	}
}

func bindKeyPrefix(kind ast.BindKind) string {
	switch kind {
	case ast.BindNamedColon:
		return ":"
	case ast.BindNamedAt:
		return "@"
	case ast.BindTcl:
		return "$"
	default:
		return ""
	}
}
