// Package env implements the name-resolution Environment: a scope stack
// of imported tables, exposed columns, and CTEs, searched from innermost
// to outermost scope, plus the shared operator/function catalogs consulted
// by the expression checker.
package env

import (
	"strings"

	"github.com/sqlcore-dev/sqlcore/types"
)

// LookupStatus classifies the outcome of a column or table lookup.
type LookupStatus int

const (
	Success LookupStatus = iota
	Ambiguous
	ColumnDoesNotExist
	TableDoesNotExist
	SchemaDoesNotExist
)

// ColumnResult is the outcome of LookupColumn.
type ColumnResult struct {
	Status LookupStatus
	Type   types.Type // valid only when Status == Success
}

// importedTable is one table/CTE/subquery brought into scope by a FROM or
// JOIN clause, or a CTE definition.
type importedTable struct {
	alias string
	// columns maps column name (already case-folded) to its type.
	columns map[string]types.Type
	// columnOrder preserves declaration order for `SELECT *`/`alias.*`
	// expansion, which must not depend on Go's map iteration order.
	columnOrder []string
	// onlyColumnsIn, if non-empty, restricts unqualified resolution to just
	// these column names even though the table has more; qualified access
	// still reaches every column.
	onlyColumnsIn map[string]bool
	// qualifiedOnly marks a table whose columns must never be found by an
	// unqualified reference, only through its alias (e.g. an imported
	// table made qualified-access-only by an explicit request).
	qualifiedOnly bool
}

func (t *importedTable) exposesUnqualified(name string) bool {
	if t.qualifiedOnly {
		return false
	}
	if len(t.onlyColumnsIn) > 0 && !t.onlyColumnsIn[name] {
		return false
	}
	return true
}

// Scope is one level of the Environment's stack: the tables imported
// directly into this scope (by a FROM/JOIN or a CTE list).
type Scope struct {
	tables []*importedTable // search order matters for... nothing but stability; ambiguity is explicit
	byAlias map[string]*importedTable
}

func newScope() *Scope {
	return &Scope{byAlias: make(map[string]*importedTable)}
}

// Environment is the full scope stack used while checking one statement
// (and its nested subqueries). Scopes are pushed for subqueries and popped
// once the subquery is fully checked; outer scopes remain visible to inner
// ones (correlated subqueries).
type Environment struct {
	scopes []*Scope
}

// New creates an Environment with a single, empty top-level scope.
func New() *Environment {
	return &Environment{scopes: []*Scope{newScope()}}
}

// Push opens a new, innermost scope (entering a subquery).
func (e *Environment) Push() {
	e.scopes = append(e.scopes, newScope())
}

// Pop closes the innermost scope (leaving a subquery).
func (e *Environment) Pop() {
	e.scopes = e.scopes[:len(e.scopes)-1]
}

func (e *Environment) top() *Scope {
	return e.scopes[len(e.scopes)-1]
}

// ImportOptions configures how ImportTable exposes a table's columns.
type ImportOptions struct {
	// QualifiedOnly, if true, makes every column of this table reachable
	// only as alias.column, never by a bare column reference.
	QualifiedOnly bool
	// OnlyColumnsUnqualified, if non-empty, restricts unqualified
	// resolution to this subset of the table's columns (qualified access
	// still reaches every column).
	OnlyColumnsUnqualified []string
	// Optional wraps every column's type in types.Optional (used for the
	// outer side of a LEFT/RIGHT JOIN).
	Optional bool
}

// ColumnSpec is one column offered to ImportTable, in declaration order.
type ColumnSpec struct {
	Name string
	Type types.Type
}

// ImportTable adds a table (or CTE, or subquery result) to the innermost
// scope under alias, exposing the given columns in the given order.
func (e *Environment) ImportTable(alias string, columns []ColumnSpec, opts ImportOptions) {
	cols := make(map[string]types.Type, len(columns))
	order := make([]string, 0, len(columns))
	for _, c := range columns {
		t := c.Type
		if opts.Optional {
			if _, already := t.(types.Optional); !already {
				t = types.Optional{Inner: t}
			}
		}
		folded := foldColumn(c.Name)
		if _, exists := cols[folded]; !exists {
			order = append(order, folded)
		}
		cols[folded] = t
	}
	var only map[string]bool
	if len(opts.OnlyColumnsUnqualified) > 0 {
		only = make(map[string]bool, len(opts.OnlyColumnsUnqualified))
		for _, n := range opts.OnlyColumnsUnqualified {
			only[foldColumn(n)] = true
		}
	}
	t := &importedTable{
		alias:         alias,
		columns:       cols,
		columnOrder:   order,
		onlyColumnsIn: only,
		qualifiedOnly: opts.QualifiedOnly,
	}
	scope := e.top()
	scope.tables = append(scope.tables, t)
	scope.byAlias[foldColumn(alias)] = t
}

func foldColumn(name string) string { return strings.ToLower(name) }

// LookupColumn resolves a bare column reference, searching the innermost
// scope outward. Within a single scope, the column must be exposed
// unqualified by exactly one imported table; exposure by more than one is
// Ambiguous. Once a scope contains ANY match (unique or ambiguous), outer
// scopes are not searched, mirroring ordinary lexical shadowing.
func (e *Environment) LookupColumn(name string) ColumnResult {
	folded := foldColumn(name)
	for i := len(e.scopes) - 1; i >= 0; i-- {
		var found types.Type
		count := 0
		for _, t := range e.scopes[i].tables {
			if !t.exposesUnqualified(folded) {
				continue
			}
			if ty, ok := t.columns[folded]; ok {
				found = ty
				count++
			}
		}
		if count == 1 {
			return ColumnResult{Status: Success, Type: found}
		}
		if count > 1 {
			return ColumnResult{Status: Ambiguous}
		}
	}
	return ColumnResult{Status: ColumnDoesNotExist}
}

// LookupQualifiedColumn resolves alias.name, searching the innermost scope
// outward for an imported table matching alias.
func (e *Environment) LookupQualifiedColumn(alias, name string) ColumnResult {
	folded := foldColumn(name)
	aliasFolded := foldColumn(alias)
	for i := len(e.scopes) - 1; i >= 0; i-- {
		t, ok := e.scopes[i].byAlias[aliasFolded]
		if !ok {
			continue
		}
		ty, ok := t.columns[folded]
		if !ok {
			return ColumnResult{Status: ColumnDoesNotExist}
		}
		return ColumnResult{Status: Success, Type: ty}
	}
	return ColumnResult{Status: TableDoesNotExist}
}

// HasTable reports whether alias is bound to an imported table in any
// visible scope, used to distinguish "table does not exist" from "column
// does not exist on table" diagnostics.
func (e *Environment) HasTable(alias string) bool {
	aliasFolded := foldColumn(alias)
	for i := len(e.scopes) - 1; i >= 0; i-- {
		if _, ok := e.scopes[i].byAlias[aliasFolded]; ok {
			return true
		}
	}
	return false
}

// AllColumns returns every (alias, name, type) triple exposed unqualified
// in the innermost scope, in import order, used to expand `SELECT *`.
type ExposedColumn struct {
	Alias string
	Name  string
	Type  types.Type
}

func (e *Environment) AllColumns() []ExposedColumn {
	scope := e.top()
	var out []ExposedColumn
	for _, t := range scope.tables {
		for _, name := range t.columnOrder {
			if !t.exposesUnqualified(name) {
				continue
			}
			out = append(out, ExposedColumn{Alias: t.alias, Name: name, Type: t.columns[name]})
		}
	}
	return out
}

// AllColumnsOf returns every column exposed by the table bound to alias in
// the innermost visible scope, used to expand `SELECT alias.*`.
func (e *Environment) AllColumnsOf(alias string) ([]ExposedColumn, bool) {
	aliasFolded := foldColumn(alias)
	for i := len(e.scopes) - 1; i >= 0; i-- {
		t, ok := e.scopes[i].byAlias[aliasFolded]
		if !ok {
			continue
		}
		out := make([]ExposedColumn, 0, len(t.columnOrder))
		for _, name := range t.columnOrder {
			out = append(out, ExposedColumn{Alias: t.alias, Name: name, Type: t.columns[name]})
		}
		return out, true
	}
	return nil, false
}
