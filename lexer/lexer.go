// Package lexer turns SQL source text into a stream of token.Token values.
//
// Scanning uses single-character lookahead, greedy matching of
// multi-character operators, and line/column snapshotting before each
// token; Next/skipBlank/scanNumber/scanString emit token.Token values for
// sqlcore's own keyword and punctuation set.
package lexer

import (
	"fmt"
	"strings"

	"github.com/sqlcore-dev/sqlcore/diag"
	"github.com/sqlcore-dev/sqlcore/token"
)

const eofChar = rune(-1)

// Lexer scans a single source string on demand (pull model). It is not
// safe for concurrent use; each compilation owns its own Lexer.
type Lexer struct {
	src      string
	pos      int // byte offset of lastChar
	lastChar rune
	lastSize int
	line     int
	col      int

	Diagnostics []diag.Diagnostic
}

// New creates a Lexer over src. src must outlive every Location produced.
func New(src string) *Lexer {
	l := &Lexer{src: src, line: 1, col: 1}
	l.advance()
	return l
}

func (l *Lexer) advance() {
	if l.pos >= len(l.src) {
		l.lastChar = eofChar
		l.lastSize = 0
		return
	}
	r := rune(l.src[l.pos])
	size := 1
	// SQL source is effectively ASCII-punctuation driven; multi-byte runes
	// only ever appear inside identifiers/strings where byte-wise scanning
	// to the next relevant ASCII delimiter is sufficient, so we decode only
	// far enough to advance the line/column counters correctly for the
	// common case and fall back to single-byte steps otherwise.
	if l.src[l.pos] >= 0x80 {
		for i := l.pos + 1; i < len(l.src) && l.src[i]&0xC0 == 0x80; i++ {
			size++
		}
	}
	if r == '\n' {
		l.line++
		l.col = 1
	} else {
		l.col++
	}
	l.lastChar = r
	l.lastSize = size
}

func (l *Lexer) next() {
	l.pos += l.lastSize
	l.advance()
}

func (l *Lexer) snapshot() token.Location {
	return token.Location{Start: l.pos, End: l.pos, Line: l.line, Col: l.col}
}

func (l *Lexer) emit(start token.Location, kind token.Kind, text string) token.Token {
	loc := start
	loc.End = l.pos
	return token.Token{Kind: kind, Loc: loc, Text: text}
}

func (l *Lexer) errorf(loc token.Location, format string, args ...any) {
	l.Diagnostics = append(l.Diagnostics, diag.Diagnostic{
		Message: fmt.Sprintf(format, args...),
		Level:   diag.Error,
		Loc:     loc,
	})
}

func isLetter(r rune) bool {
	return r == '_' || (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || r >= 0x80
}

func isDigit(r rune) bool {
	return r >= '0' && r <= '9'
}

func isHexDigit(r rune) bool {
	return isDigit(r) || (r >= 'a' && r <= 'f') || (r >= 'A' && r <= 'F')
}

func (l *Lexer) skipBlank() {
	for {
		switch {
		case l.lastChar == ' ' || l.lastChar == '\t' || l.lastChar == '\r' || l.lastChar == '\n':
			l.next()
		case l.lastChar == '-' && l.peekIs('-'):
			for l.lastChar != '\n' && l.lastChar != eofChar {
				l.next()
			}
		case l.lastChar == '/' && l.peekIs('*'):
			l.skipBlockComment()
		default:
			return
		}
	}
}

// skipBlockComment consumes a /* ... */ comment, greedily matching the
// closing */ ahead of a bare '*' or '/' operator. Nested /* is not
// recognized, matching SQLite.
func (l *Lexer) skipBlockComment() {
	start := l.snapshot()
	l.next() // consume '/'
	l.next() // consume '*'
	for {
		if l.lastChar == eofChar {
			l.errorf(start, "unterminated block comment")
			return
		}
		if l.lastChar == '*' && l.peekIs('/') {
			l.next() // consume '*'
			l.next() // consume '/'
			return
		}
		l.next()
	}
}

// peekIs reports whether the byte immediately after lastChar equals b,
// without consuming anything.
func (l *Lexer) peekIs(b byte) bool {
	idx := l.pos + l.lastSize
	return idx < len(l.src) && l.src[idx] == b
}

// Next scans and returns the next token, including token.EOF at end of
// input. It never returns an error; malformed input produces a Diagnostic
// (via l.Diagnostics) and a best-effort token (often token.Invalid).
func (l *Lexer) Next() token.Token {
	l.skipBlank()
	start := l.snapshot()

	switch ch := l.lastChar; {
	case ch == eofChar:
		return l.emit(start, token.EOF, "")
	case isLetter(ch):
		return l.scanIdentifier(start)
	case isDigit(ch):
		return l.scanNumber(start, false)
	case ch == '.':
		if l.peekIsDigit() {
			return l.scanNumber(start, true)
		}
		l.next()
		return l.emit(start, token.Dot, "")
	case ch == '\'':
		return l.scanString(start, '\'', token.StringLiteral)
	case ch == '"':
		return l.scanQuotedIdentifier(start, '"')
	case ch == '`':
		return l.scanQuotedIdentifier(start, '`')
	case ch == '[':
		return l.scanQuotedIdentifier(start, ']')
	case ch == '?':
		return l.scanBindQuestion(start)
	case ch == ':':
		return l.scanBindColon(start)
	case ch == '@':
		return l.scanBindAt(start)
	case ch == '$':
		return l.scanBindTcl(start)
	default:
		return l.scanOperator(start)
	}
}

func (l *Lexer) peekIsDigit() bool {
	idx := l.pos + l.lastSize
	return idx < len(l.src) && l.src[idx] >= '0' && l.src[idx] <= '9'
}

func (l *Lexer) scanIdentifier(start token.Location) token.Token {
	var b strings.Builder
	for isLetter(l.lastChar) || isDigit(l.lastChar) {
		b.WriteRune(l.lastChar)
		l.next()
	}
	text := b.String()
	if kind, ok := token.LookupKeyword(strings.ToLower(text)); ok {
		return l.emit(start, kind, text)
	}
	return l.emit(start, token.Identifier, text)
}

func (l *Lexer) scanNumber(start token.Location, seenDot bool) token.Token {
	if !seenDot && l.lastChar == '0' {
		// Peek for 0x/0X hex literal.
		idx := l.pos + l.lastSize
		if idx < len(l.src) && (l.src[idx] == 'x' || l.src[idx] == 'X') {
			l.next() // consume '0'
			l.next() // consume 'x'
			return l.scanHex(start)
		}
	}

	var b strings.Builder
	isDouble := seenDot
	if seenDot {
		b.WriteByte('.')
		l.next()
	}
	l.scanDigitsInto(&b)
	if !seenDot && l.lastChar == '.' {
		isDouble = true
		b.WriteByte('.')
		l.next()
		l.scanDigitsInto(&b)
	}
	if l.lastChar == 'e' || l.lastChar == 'E' {
		isDouble = true
		b.WriteRune(l.lastChar)
		l.next()
		if l.lastChar == '+' || l.lastChar == '-' {
			b.WriteRune(l.lastChar)
			l.next()
		}
		l.scanDigitsInto(&b)
	}

	text := b.String()
	kind := token.IntLiteral
	if isDouble {
		kind = token.DoubleLiteral
	}
	if text == "" || text == "." {
		l.errorf(l.emit(start, kind, text).Loc, "malformed numeric literal")
		return l.emit(start, kind, "0")
	}
	return l.emit(start, kind, text)
}

// scanDigitsInto scans digits and visual-separator underscores, stripping
// the underscores from the accumulated text.
func (l *Lexer) scanDigitsInto(b *strings.Builder) {
	for isDigit(l.lastChar) || l.lastChar == '_' {
		if l.lastChar != '_' {
			b.WriteRune(l.lastChar)
		}
		l.next()
	}
}

func (l *Lexer) scanHex(start token.Location) token.Token {
	var b strings.Builder
	for isHexDigit(l.lastChar) || l.lastChar == '_' {
		if l.lastChar != '_' {
			b.WriteRune(l.lastChar)
		}
		l.next()
	}
	text := b.String()
	if text == "" {
		l.errorf(l.emit(start, token.HexLiteral, text).Loc, "malformed hex literal")
		return l.emit(start, token.HexLiteral, "0")
	}
	return l.emit(start, token.HexLiteral, text)
}

func (l *Lexer) scanString(start token.Location, delim rune, kind token.Kind) token.Token {
	l.next() // consume opening delimiter
	var b strings.Builder
	for {
		if l.lastChar == eofChar {
			l.errorf(l.emit(start, kind, b.String()).Loc, "unterminated string literal")
			return l.emit(start, kind, b.String())
		}
		if l.lastChar == delim {
			l.next()
			if l.lastChar == delim {
				// doubled delimiter is an escaped literal delimiter
				b.WriteRune(delim)
				l.next()
				continue
			}
			return l.emit(start, kind, b.String())
		}
		b.WriteRune(l.lastChar)
		l.next()
	}
}

func (l *Lexer) scanQuotedIdentifier(start token.Location, closing rune) token.Token {
	l.next() // consume opening delimiter
	var b strings.Builder
	for {
		if l.lastChar == eofChar {
			l.errorf(l.emit(start, token.Identifier, b.String()).Loc, "unterminated quoted identifier")
			return l.emit(start, token.Identifier, b.String())
		}
		if l.lastChar == closing {
			l.next()
			if l.lastChar == closing && closing != ']' {
				b.WriteRune(closing)
				l.next()
				continue
			}
			return l.emit(start, token.Identifier, b.String())
		}
		b.WriteRune(l.lastChar)
		l.next()
	}
}

func (l *Lexer) scanBindQuestion(start token.Location) token.Token {
	l.next() // consume '?'
	if isDigit(l.lastChar) {
		var b strings.Builder
		for isDigit(l.lastChar) {
			b.WriteRune(l.lastChar)
			l.next()
		}
		return l.emit(start, token.BindQuestionN, b.String())
	}
	return l.emit(start, token.BindQuestion, "")
}

func (l *Lexer) scanBindColon(start token.Location) token.Token {
	l.next() // consume ':'
	for l.lastChar == ' ' || l.lastChar == '\t' {
		l.next() // `DEFINE QUERY q(output: User)` spaces the value from ':'
	}
	var b strings.Builder
	for isLetter(l.lastChar) || isDigit(l.lastChar) {
		b.WriteRune(l.lastChar)
		l.next()
	}
	if b.Len() == 0 {
		l.errorf(start, "expected a name after ':'")
		return l.emit(start, token.Invalid, "")
	}
	return l.emit(start, token.BindColon, b.String())
}

func (l *Lexer) scanBindAt(start token.Location) token.Token {
	l.next() // consume '@'
	var b strings.Builder
	for isLetter(l.lastChar) || isDigit(l.lastChar) {
		b.WriteRune(l.lastChar)
		l.next()
	}
	if b.Len() == 0 {
		l.errorf(start, "expected a name after '@'")
		return l.emit(start, token.Invalid, "")
	}
	return l.emit(start, token.BindAt, b.String())
}

// scanBindTcl scans the Tcl-style $name::path(suffix) bind form. Only the
// full textual span is captured; parsing of the inner structure (if ever
// needed by a caller) is left to that caller.
func (l *Lexer) scanBindTcl(start token.Location) token.Token {
	l.next() // consume '$'
	var b strings.Builder
	for isLetter(l.lastChar) || isDigit(l.lastChar) || l.lastChar == ':' {
		b.WriteRune(l.lastChar)
		l.next()
	}
	if l.lastChar == '(' {
		depth := 1
		b.WriteRune(l.lastChar)
		l.next()
		for depth > 0 && l.lastChar != eofChar {
			if l.lastChar == '(' {
				depth++
			} else if l.lastChar == ')' {
				depth--
			}
			b.WriteRune(l.lastChar)
			l.next()
		}
	}
	if b.Len() == 0 {
		l.errorf(start, "expected a name after '$'")
		return l.emit(start, token.Invalid, "")
	}
	return l.emit(start, token.BindTcl, b.String())
}

func (l *Lexer) scanOperator(start token.Location) token.Token {
	ch := l.lastChar
	l.next()
	switch ch {
	case '(':
		return l.emit(start, token.LParen, "")
	case ')':
		return l.emit(start, token.RParen, "")
	case ',':
		return l.emit(start, token.Comma, "")
	case ';':
		return l.emit(start, token.Semicolon, "")
	case '*':
		return l.emit(start, token.Star, "")
	case '+':
		return l.emit(start, token.Plus, "")
	case '%':
		return l.emit(start, token.Percent, "")
	case '~':
		return l.emit(start, token.Tilde, "")
	case '&':
		return l.emit(start, token.Amp, "")
	case '-':
		if l.lastChar == '>' {
			l.next()
			if l.lastChar == '>' {
				l.next()
				return l.emit(start, token.ArrowArrow, "")
			}
			return l.emit(start, token.Arrow, "")
		}
		return l.emit(start, token.Minus, "")
	case '/':
		return l.emit(start, token.Slash, "")
	case '|':
		if l.lastChar == '|' {
			l.next()
			return l.emit(start, token.Concat, "")
		}
		return l.emit(start, token.Pipe, "")
	case '=':
		if l.lastChar == '=' {
			l.next()
			return l.emit(start, token.EqEq, "")
		}
		return l.emit(start, token.Eq, "")
	case '!':
		if l.lastChar == '=' {
			l.next()
			return l.emit(start, token.NotEq, "")
		}
		l.errorf(start, "unexpected character '!'")
		return l.emit(start, token.Invalid, "!")
	case '<':
		switch l.lastChar {
		case '=':
			l.next()
			return l.emit(start, token.LtEq, "")
		case '>':
			l.next()
			return l.emit(start, token.LtGt, "")
		case '<':
			l.next()
			return l.emit(start, token.ShiftLeft, "")
		}
		return l.emit(start, token.Lt, "")
	case '>':
		switch l.lastChar {
		case '=':
			l.next()
			return l.emit(start, token.GtEq, "")
		case '>':
			l.next()
			return l.emit(start, token.ShiftRight, "")
		}
		return l.emit(start, token.Gt, "")
	default:
		l.errorf(start, "unexpected character %q", ch)
		return l.emit(start, token.Invalid, string(ch))
	}
}
