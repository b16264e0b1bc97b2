package ast

import "github.com/sqlcore-dev/sqlcore/token"

// TypeName is a SQL type name, optionally carrying a host-oriented alias
// suffix: `INTEGER AS Bool USING adapter_name`.
type TypeName struct {
	Name        string
	AliasLabel  string // "" when absent
	AdapterName string // "" when absent

	// AliasSpan covers the alias suffix itself (from the `AS` token through
	// the end of the adapter name, if any), so a caller that needs to strip
	// the non-standard suffix back to plain SQL can delete exactly this
	// range from the source. Zero value when AliasLabel == "".
	AliasSpan token.Location
}

// ColumnConstraintKind enumerates the constraint forms attachable to a
// column definition.
type ColumnConstraintKind int

const (
	ConstraintPrimaryKey ColumnConstraintKind = iota
	ConstraintNotNull
	ConstraintUnique
	ConstraintCheck
	ConstraintDefault
	ConstraintGenerated
	ConstraintReferences
	ConstraintCollate
)

// ColumnConstraint is a single constraint attached to a ColumnDef.
type ColumnConstraint struct {
	Kind ColumnConstraintKind

	// ConstraintCheck
	CheckExpr Expr

	// ConstraintDefault
	DefaultExpr Expr

	// ConstraintGenerated
	GeneratedExpr  Expr
	GeneratedStored bool

	// ConstraintReferences
	RefTable   string
	RefColumns []string

	// ConstraintCollate
	CollateName string

	// ConstraintPrimaryKey
	Desc bool
}

// ColumnDef is one column of a CreateTable or the argument to ALTER TABLE
// ADD COLUMN.
type ColumnDef struct {
	Base
	Name        string
	Type        TypeName
	Constraints []ColumnConstraint
}

// TableConstraintKind enumerates table-level (as opposed to column-level)
// constraints.
type TableConstraintKind int

const (
	TablePrimaryKey TableConstraintKind = iota
	TableUnique
	TableCheck
	TableForeignKey
)

// ForeignKeyClause is `FOREIGN KEY (cols) REFERENCES table(cols)`.
type ForeignKeyClause struct {
	Columns    []string
	RefTable   string
	RefColumns []string
}

// TableConstraint is a table-level constraint of a CreateTable.
type TableConstraint struct {
	Kind       TableConstraintKind
	Columns    []string // PrimaryKey / Unique
	CheckExpr  Expr      // Check
	ForeignKey ForeignKeyClause
}

// CreateTable is `CREATE [TEMP] TABLE [IF NOT EXISTS] name (...) [STRICT]`.
type CreateTable struct {
	Base
	Schema      string
	Name        string
	Temp        bool
	IfNotExists bool
	Columns     []ColumnDef
	Constraints []TableConstraint
	Strict      bool
	WithoutRowID bool
}

func (*CreateTable) stmtNode() {}

// AlterTableKind enumerates the ALTER TABLE sub-forms.
type AlterTableKind int

const (
	AlterRenameTable AlterTableKind = iota
	AlterRenameColumn
	AlterAddColumn
	AlterDropColumn
)

// AlterTable is any `ALTER TABLE name ...` form.
type AlterTable struct {
	Base
	Schema    string
	Table     string
	Kind      AlterTableKind
	NewName   string    // AlterRenameTable / AlterRenameColumn target
	OldColumn string    // AlterRenameColumn / AlterDropColumn
	NewColumn *ColumnDef // AlterAddColumn
}

func (*AlterTable) stmtNode() {}

// DropTable is `DROP TABLE [IF EXISTS] name`.
type DropTable struct {
	Base
	Schema   string
	Name     string
	IfExists bool
}

func (*DropTable) stmtNode() {}

// IndexedColumn is one column (or expression) of a CREATE INDEX column
// list or a conflict target.
type IndexedColumn struct {
	Column     string
	Expr       Expr // set instead of Column for expression indexes
	Collate    string
	Descending bool
}

// CreateIndex is `CREATE [UNIQUE] INDEX [IF NOT EXISTS] name ON table(cols) [WHERE expr]`.
type CreateIndex struct {
	Base
	Name        string
	Table       string
	Unique      bool
	IfNotExists bool
	Columns     []IndexedColumn
	Where       Expr
}

func (*CreateIndex) stmtNode() {}

// DropIndex is `DROP INDEX [IF EXISTS] name`.
type DropIndex struct {
	Base
	Name     string
	IfExists bool
}

func (*DropIndex) stmtNode() {}

// Reindex is `REINDEX [name]`.
type Reindex struct {
	Base
	Name string // "" means reindex everything
}

func (*Reindex) stmtNode() {}

// CreateView is `CREATE [TEMP] VIEW [IF NOT EXISTS] name [(cols)] AS select`.
type CreateView struct {
	Base
	Name        string
	Temp        bool
	IfNotExists bool
	Columns     []string
	Select      *Select
}

func (*CreateView) stmtNode() {}

// DropView is `DROP VIEW [IF EXISTS] name`.
type DropView struct {
	Base
	Name     string
	IfExists bool
}

func (*DropView) stmtNode() {}

// TriggerEvent enumerates the firing event of a CREATE TRIGGER.
type TriggerEvent int

const (
	TriggerInsert TriggerEvent = iota
	TriggerUpdate
	TriggerDelete
)

// TriggerTiming enumerates when a trigger fires relative to its event.
type TriggerTiming int

const (
	TriggerBefore TriggerTiming = iota
	TriggerAfter
	TriggerInsteadOf
)

// CreateTrigger is `CREATE TRIGGER name {BEFORE|AFTER|INSTEAD OF} event ON
// table FOR EACH ROW BEGIN body END`.
type CreateTrigger struct {
	Base
	Name           string
	Timing         TriggerTiming
	Event          TriggerEvent
	UpdateOfCols   []string
	Table          string
	Body           []Stmt
}

func (*CreateTrigger) stmtNode() {}

// DropTrigger is `DROP TRIGGER [IF EXISTS] name`.
type DropTrigger struct {
	Base
	Name     string
	IfExists bool
}

func (*DropTrigger) stmtNode() {}

// CreateVirtualTable is `CREATE VIRTUAL TABLE name USING module(args)`.
// FTS5 modules have their column-form arguments parsed into Columns; other
// modules keep their arguments as raw text in RawArgs.
type CreateVirtualTable struct {
	Base
	Name        string
	IfNotExists bool
	Module      string
	Columns     []ColumnDef // populated for fts5
	RawArgs     []string
}

func (*CreateVirtualTable) stmtNode() {}

// JoinKind enumerates the SQL join operators.
type JoinKind int

const (
	JoinInner JoinKind = iota
	JoinLeft
	JoinLeftOuter
	JoinRight
	JoinRightOuter
	JoinFull
	JoinFullOuter
	JoinCross
)

// TableOrSubquery is one FROM-clause source: a named table, a subquery, a
// table-valued function call, or a parenthesized join.
type TableOrSubquery struct {
	Table      string // name, "" if Subquery/TableFunc set
	Schema     string
	Alias      string
	Subquery   *Select
	TableFunc  *TableFunctionCall
	Nested     *JoinClause // parenthesized join
}

// JoinClause chains a left source through zero or more joined sources.
type JoinClause struct {
	Left  TableOrSubquery
	Joins []JoinOperand
}

// JoinOperand is one `JOIN kind right ON/USING ...` step.
type JoinOperand struct {
	Kind    JoinKind
	Right   TableOrSubquery
	On      Expr     // set for ON
	Using   []string // set for USING
}

// CTE is one `name [(cols)] AS (select)` entry of a WITH clause.
type CTE struct {
	Name      string
	Columns   []string
	Select    *Select
	Recursive bool
}

// WithClause is `WITH [RECURSIVE] cte, cte, ...`.
type WithClause struct {
	Recursive bool
	CTEs      []CTE
}

// OrderingTerm is one entry of an ORDER BY clause.
type OrderingTerm struct {
	Expr       Expr
	Descending bool
}

// CompoundOp joins two SELECT arms of a compound statement.
type CompoundOp int

const (
	CompoundNone CompoundOp = iota
	CompoundUnion
	CompoundUnionAll
	CompoundIntersect
	CompoundExcept
)

// Select is a (possibly compound) SELECT statement.
type Select struct {
	Base
	With         *WithClause
	Columns      []ResultColumn
	From         *JoinClause
	Where        Expr
	GroupBy      []Expr
	Having       Expr
	Window       bool // true if a WINDOW clause was present (unsupported; see checker)
	CompoundOp   CompoundOp
	CompoundNext *Select // the next arm, if this is a compound select
	OrderBy      []OrderingTerm
	Limit        Expr
	Offset       Expr
}

func (*Select) stmtNode() {}

// UpsertClause is `ON CONFLICT [(cols)] DO {NOTHING | UPDATE SET ...}`.
type UpsertClause struct {
	ConflictColumns []string
	ConflictWhere   Expr
	DoNothing       bool
	SetColumns      []string
	SetExprs        []Expr
	UpdateWhere     Expr
}

// ReturningClause is `RETURNING cols`.
type ReturningClause struct {
	Columns []ResultColumn
}

// Insert is `INSERT INTO table [(cols)] {VALUES (...), ... | select |
// DEFAULT VALUES} [ON CONFLICT ...] [RETURNING ...]`.
type Insert struct {
	Base
	With      *WithClause
	Table     string
	Columns   []string
	Values    [][]Expr // nil when Select or DefaultValues is set
	Select    *Select
	DefaultValues bool
	Upsert    *UpsertClause
	Returning *ReturningClause
}

func (*Insert) stmtNode() {}

// SetClause is one `column = expr` or `(c1, c2) = (e1, e2)` assignment of
// an UPDATE statement.
type SetClause struct {
	Columns []string // len 1 for the simple form
	Value   Expr
}

// Update is `UPDATE table SET ... [FROM ...] [WHERE ...] [RETURNING ...]`.
type Update struct {
	Base
	With      *WithClause
	Table     string
	Alias     string
	Sets      []SetClause
	From      *JoinClause
	Where     Expr
	Returning *ReturningClause
}

func (*Update) stmtNode() {}

// Delete is `DELETE FROM table [WHERE ...] [RETURNING ...]`.
type Delete struct {
	Base
	With      *WithClause
	Table     string
	Alias     string
	Where     Expr
	Returning *ReturningClause
}

func (*Delete) stmtNode() {}

// Pragma is `PRAGMA name [= value | (value)]`.
type Pragma struct {
	Base
	Name  string
	Value string // textual value, "" if absent
}

func (*Pragma) stmtNode() {}

// QueryDefinitionOption is one `key: value` option of a DEFINE QUERY form.
type QueryDefinitionOption struct {
	Key   string
	Value string
}

// QueryDefinition wraps another statement with a name and host-binding
// options: `DEFINE QUERY name (opt: val, ...) AS stmt`.
type QueryDefinition struct {
	Base
	Name    string
	Options []QueryDefinitionOption
	Inner   Stmt
}

func (*QueryDefinition) stmtNode() {}

// Empty is a statement position with no content (e.g. a stray `;`).
type Empty struct {
	Base
}

func (*Empty) stmtNode() {}
