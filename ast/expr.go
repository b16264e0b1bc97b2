package ast

// LiteralKind classifies a Literal expression.
type LiteralKind int

const (
	LiteralInt LiteralKind = iota
	LiteralDouble
	LiteralString
	LiteralBlob
	LiteralNull
	LiteralBool
	LiteralCurrentTime
	LiteralCurrentDate
	LiteralCurrentTimestamp
)

// Literal is a constant value spelled directly in the source.
type Literal struct {
	Base
	Kind LiteralKind
	Text string // raw spelling, e.g. "42", "'abc'", "true"
	Bool bool   // valid when Kind == LiteralBool
}

func (*Literal) exprNode() {}

// BindKind classifies a BindParameter's surface syntax.
type BindKind int

const (
	BindAnonymous BindKind = iota // ?
	BindNumbered                  // ?N
	BindNamedColon                // :name
	BindNamedAt                   // @name
	BindTcl                       // $tcl::path(suffix)
)

// BindParameter is a `?`, `?N`, `:name`, `@name`, or `$tcl` placeholder.
// Index is assigned by the parser's bind-parameter indexing rules; Name is
// the textual name for named forms (empty for anonymous).
type BindParameter struct {
	Base
	Kind  BindKind
	Index int
	Name  string
}

func (*BindParameter) exprNode() {}

// Column is a possibly-qualified column reference, or one of the `*` /
// `table.*` wildcard forms (Star == true).
type Column struct {
	Base
	Schema string // optional
	Table  string // optional
	Name   string // column name, or "" when Star
	Star   bool
}

func (*Column) exprNode() {}

// PrefixOp is a unary prefix operator: +, -, ~, NOT.
type PrefixOp struct {
	Base
	Op      string
	Operand Expr
}

func (*PrefixOp) exprNode() {}

// InfixOp is a binary operator expression, including arithmetic,
// comparison, boolean, concatenation, IN, and LIKE-family operators.
type InfixOp struct {
	Base
	Op    string
	Left  Expr
	Right Expr
}

func (*InfixOp) exprNode() {}

// PostfixOp covers ISNULL, NOTNULL, NOT NULL, and COLLATE name.
type PostfixOp struct {
	Base
	Op      string // "ISNULL", "NOTNULL", "COLLATE"
	Operand Expr
	Collate string // valid when Op == "COLLATE"
}

func (*PostfixOp) exprNode() {}

// Between is `expr [NOT] BETWEEN lower AND upper`.
type Between struct {
	Base
	Operand Expr
	Not     bool
	Lower   Expr
	Upper   Expr
}

func (*Between) exprNode() {}

// Function is a function call, e.g. `coalesce(a, b)` or `count(DISTINCT x)`.
type Function struct {
	Base
	Schema   string
	Name     string
	Distinct bool
	Args     []Expr
	Star     bool // COUNT(*)
}

func (*Function) exprNode() {}

// Cast is `CAST(expr AS typeName)`.
type Cast struct {
	Base
	Operand  Expr
	TypeName string
}

func (*Cast) exprNode() {}

// WhenThen is one `WHEN cond THEN result` arm of a CaseWhenThen.
type WhenThen struct {
	When Expr
	Then Expr
}

// CaseWhenThen is a `CASE [operand] WHEN ... THEN ... [ELSE ...] END`.
type CaseWhenThen struct {
	Base
	Operand Expr // optional
	Arms    []WhenThen
	Else    Expr // optional
}

func (*CaseWhenThen) exprNode() {}

// Grouped is a parenthesized list of one or more expressions: `(a, b, c)`.
type Grouped struct {
	Base
	Exprs []Expr
}

func (*Grouped) exprNode() {}

// SubquerySelect wraps a nested SELECT used as an expression.
type SubquerySelect struct {
	Base
	Select *Select
}

func (*SubquerySelect) exprNode() {}

// Exists is `[NOT] EXISTS (SELECT ...)`.
type Exists struct {
	Base
	Not    bool
	Select *Select
}

func (*Exists) exprNode() {}

// TableFunctionCall is a table-valued function call appearing in FROM,
// e.g. `json_each(col)`. Its semantics are intentionally left
// unimplemented by the checker (a diagnostic is emitted); the parser still
// builds the node so callers can inspect it.
type TableFunctionCall struct {
	Base
	Name  string
	Args  []Expr
	Alias string
}

func (*TableFunctionCall) exprNode() {}

// Invalid stands in for an expression the parser could not salvage after a
// syntax error; it carries no semantic meaning and type-checks to
// types.Error without further diagnostics (the syntax error already
// explains the problem).
type Invalid struct {
	Base
}

func (*Invalid) exprNode() {}

// AliasedExpr is a single result-column expression with an optional alias,
// used in SELECT lists and RETURNING clauses.
type AliasedExpr struct {
	Expr  Expr
	Alias string // "" when unaliased
}

// WildcardColumn is `*` or `table.*` used as a whole result-column chunk.
type WildcardColumn struct {
	Base
	Table string // "" for bare `*`
}

func (*WildcardColumn) exprNode() {}

// ResultColumn is one entry of a SELECT list or RETURNING clause: either a
// single aliased expression or a wildcard chunk-closer.
type ResultColumn struct {
	Aliased  *AliasedExpr
	Wildcard *WildcardColumn
}
