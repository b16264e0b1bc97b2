// Package token defines the lexical atoms produced by the lexer and
// consumed by the parser: token kinds and source locations.
package token

import "fmt"

// Location is a half-open byte range into the original source text, plus
// the 1-based line and column of its start. Locations are borrowed against
// the source string supplied to a compilation: callers must keep that
// string alive for as long as any Location derived from it is in use.
type Location struct {
	Start, End int // half-open byte offsets into the source
	Line, Col  int // 1-based position of Start
}

// Spanning returns the smallest Location enclosing both l and other.
func (l Location) Spanning(other Location) Location {
	start, end := l.Start, l.End
	line, col := l.Line, l.Col
	if other.Start < start {
		start = other.Start
		line, col = other.Line, other.Col
	}
	if other.End > end {
		end = other.End
	}
	return Location{Start: start, End: end, Line: line, Col: col}
}

// Text returns the slice of source spanned by l. It panics if source is
// not the string l was derived from (or is too short).
func (l Location) Text(source string) string {
	return source[l.Start:l.End]
}

func (l Location) String() string {
	return fmt.Sprintf("%d:%d", l.Line, l.Col)
}

// Kind classifies a Token.
type Kind int

const (
	EOF Kind = iota
	Invalid

	Identifier
	IntLiteral
	HexLiteral
	DoubleLiteral
	StringLiteral

	BindQuestion   // ?
	BindQuestionN  // ?1
	BindColon      // :name
	BindAt         // @name
	BindTcl        // $tcl::path(suffix)

	// Punctuation / operators
	LParen
	RParen
	Comma
	Semicolon
	Dot
	Star
	Plus
	Minus
	Slash
	Percent
	Tilde
	Eq
	EqEq
	NotEq
	LtGt
	Lt
	LtEq
	Gt
	GtEq
	ShiftLeft  // <<
	ShiftRight // >>
	Concat     // ||
	Arrow      // ->
	ArrowArrow // ->>
	Amp
	Pipe

	firstKeyword
	SELECT
	FROM
	WHERE
	GROUP
	BY
	HAVING
	ORDER
	LIMIT
	OFFSET
	AS
	DISTINCT
	ALL
	AND
	OR
	NOT
	NULL
	IS
	ISNULL
	NOTNULL
	IN
	EXISTS
	BETWEEN
	LIKE
	GLOB
	REGEXP
	MATCH
	ESCAPE
	CASE
	WHEN
	THEN
	ELSE
	END
	CAST
	COLLATE
	JOIN
	INNER
	LEFT
	RIGHT
	FULL
	OUTER
	CROSS
	ON
	USING
	UNION
	INTERSECT
	EXCEPT
	WITH
	RECURSIVE
	INSERT
	INTO
	VALUES
	DEFAULT
	UPDATE
	SET
	DELETE
	RETURNING
	UPSERT
	CONFLICT
	DO
	NOTHING
	CREATE
	TABLE
	TEMP
	TEMPORARY
	IF
	PRIMARY
	KEY
	UNIQUE
	CHECK
	FOREIGN
	REFERENCES
	GENERATED
	ALWAYS
	STORED
	VIRTUAL
	ALTER
	RENAME
	COLUMN
	ADD
	DROP
	INDEX
	VIEW
	TRIGGER
	BEFORE
	AFTER
	INSTEAD
	OF
	FOR
	EACH
	ROW
	BEGIN
	REINDEX
	PRAGMA
	EXPLAIN
	QUERY
	PLAN
	DEFINE
	NEW
	OLD
	EXCLUDED
	VIRTUAL_TABLE // pseudo for "VIRTUAL TABLE" dispatch readability
	WINDOW
	TRUE
	FALSE
	CURRENT_TIME
	CURRENT_DATE
	CURRENT_TIMESTAMP
	lastKeyword
)

var keywords = map[string]Kind{
	"select": SELECT, "from": FROM, "where": WHERE, "group": GROUP, "by": BY,
	"having": HAVING, "order": ORDER, "limit": LIMIT, "offset": OFFSET,
	"as": AS, "distinct": DISTINCT, "all": ALL, "and": AND, "or": OR,
	"not": NOT, "null": NULL, "is": IS, "isnull": ISNULL, "notnull": NOTNULL,
	"in": IN, "exists": EXISTS, "between": BETWEEN, "like": LIKE,
	"glob": GLOB, "regexp": REGEXP, "match": MATCH, "escape": ESCAPE,
	"case": CASE, "when": WHEN, "then": THEN, "else": ELSE, "end": END,
	"cast": CAST, "collate": COLLATE, "join": JOIN, "inner": INNER,
	"left": LEFT, "right": RIGHT, "full": FULL, "outer": OUTER,
	"cross": CROSS, "on": ON, "using": USING, "union": UNION,
	"intersect": INTERSECT, "except": EXCEPT, "with": WITH,
	"recursive": RECURSIVE, "insert": INSERT, "into": INTO,
	"values": VALUES, "default": DEFAULT, "update": UPDATE, "set": SET,
	"delete": DELETE, "returning": RETURNING, "do": DO, "nothing": NOTHING,
	"conflict": CONFLICT, "create": CREATE, "table": TABLE, "temp": TEMP,
	"temporary": TEMPORARY, "if": IF, "primary": PRIMARY, "key": KEY,
	"unique": UNIQUE, "check": CHECK, "foreign": FOREIGN,
	"references": REFERENCES, "generated": GENERATED, "always": ALWAYS,
	"stored": STORED, "virtual": VIRTUAL, "alter": ALTER, "rename": RENAME,
	"column": COLUMN, "add": ADD, "drop": DROP, "index": INDEX,
	"view": VIEW, "trigger": TRIGGER, "before": BEFORE, "after": AFTER,
	"instead": INSTEAD, "of": OF, "for": FOR, "each": EACH, "row": ROW,
	"begin": BEGIN, "reindex": REINDEX, "pragma": PRAGMA,
	"explain": EXPLAIN, "query": QUERY, "plan": PLAN, "define": DEFINE,
	"new": NEW, "old": OLD, "excluded": EXCLUDED, "window": WINDOW,
	"true": TRUE, "false": FALSE,
	"current_time": CURRENT_TIME, "current_date": CURRENT_DATE,
	"current_timestamp": CURRENT_TIMESTAMP,
}

// LookupKeyword performs a case-insensitive keyword lookup. The caller is
// expected to have already lower-cased the candidate text.
func LookupKeyword(lowered string) (Kind, bool) {
	k, ok := keywords[lowered]
	return k, ok
}

// IsKeyword reports whether k is one of the reserved-word kinds.
func (k Kind) IsKeyword() bool {
	return k > firstKeyword && k < lastKeyword
}

func (k Kind) String() string {
	if s, ok := kindNames[k]; ok {
		return s
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

var kindNames = map[Kind]string{
	EOF: "EOF", Invalid: "INVALID", Identifier: "IDENTIFIER",
	IntLiteral: "INT", HexLiteral: "HEX", DoubleLiteral: "DOUBLE",
	StringLiteral: "STRING", BindQuestion: "?", BindQuestionN: "?N",
	BindColon: ":name", BindAt: "@name", BindTcl: "$tcl",
	LParen: "(", RParen: ")", Comma: ",", Semicolon: ";", Dot: ".",
	Star: "*", Plus: "+", Minus: "-", Slash: "/", Percent: "%", Tilde: "~",
	Eq: "=", EqEq: "==", NotEq: "!=", LtGt: "<>", Lt: "<", LtEq: "<=",
	Gt: ">", GtEq: ">=", ShiftLeft: "<<", ShiftRight: ">>", Concat: "||",
	Arrow: "->", ArrowArrow: "->>", Amp: "&", Pipe: "|",
}

// Token is a kind-tagged lexical atom with its source span. String-kinded
// tokens (Identifier, StringLiteral, IntLiteral, HexLiteral, DoubleLiteral)
// carry their raw text in Text; the raw text for an identifier is the
// *unescaped* symbol (quote delimiters stripped).
type Token struct {
	Kind Kind
	Loc  Location
	Text string
}

func (t Token) String() string {
	if t.Text != "" {
		return fmt.Sprintf("%s(%q)@%s", t.Kind, t.Text, t.Loc)
	}
	return fmt.Sprintf("%s@%s", t.Kind, t.Loc)
}
