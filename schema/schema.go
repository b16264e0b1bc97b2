// Package schema implements the process-local, per-compilation schema
// registry: tables (including views, CTEs materialized as tables, and
// FTS5 virtual tables), indexes, and triggers, keyed by QualifiedName.
//
// Unlike a DDL-diff generator (desired vs. current DDL -> idempotent
// migration statements), this registry only ever grows forward as DDL is
// type-checked; migration orchestration is out of scope. What carries over
// is the case-folding idiom — see FoldIdentifier in identifier.go.
package schema

import "github.com/sqlcore-dev/sqlcore/types"

// QualifiedName identifies a table/index/trigger within one of the schema
// namespaces.
type QualifiedName struct {
	Schema string // "main", "temp", or a custom ATTACHed schema name
	Name   string
}

// TableKind distinguishes how a Table came to exist.
type TableKind int

const (
	TableNormal TableKind = iota
	TableView
	TableCTE
	TableSubquery
	TableFTS5
)

// Column is one column of a Table.
type Column struct {
	Type        types.Type
	HasDefault  bool
	IsGenerated bool
}

// Table is a table, view, CTE-materialized-as-table, or FTS5 virtual
// table tracked by the schema.
type Table struct {
	QName      QualifiedName
	Columns    Columns
	PrimaryKey []string
	Kind       TableKind
}

// Index is a named index over a table.
type Index struct {
	QName     QualifiedName
	TableName string
}

// Trigger is a named trigger attached to a table.
type Trigger struct {
	QName       QualifiedName
	TargetTable string
	UsedTables  map[string]bool
}

// Namespace holds the tables, indexes, and triggers of one schema
// (typically "main" or "temp").
type Namespace struct {
	Tables   map[string]*Table
	Indexes  map[string]*Index
	Triggers map[string]*Trigger
}

func newNamespace() *Namespace {
	return &Namespace{
		Tables:   make(map[string]*Table),
		Indexes:  make(map[string]*Index),
		Triggers: make(map[string]*Trigger),
	}
}

// Schema is the full registry across namespaces, mutated by DDL and read
// by query type-checking. It is private to one compiler instance: nothing
// here is package-level mutable state.
type Schema struct {
	namespaces map[string]*Namespace

	// RequireStrictTables mirrors the `PRAGMA require_strict_tables`
	// pragma state; the statement checker consults it when processing
	// CREATE TABLE.
	RequireStrictTables bool
}

// New creates an empty Schema with the standard "main" and "temp"
// namespaces pre-created.
func New() *Schema {
	s := &Schema{namespaces: make(map[string]*Namespace)}
	s.namespaces["main"] = newNamespace()
	s.namespaces["temp"] = newNamespace()
	return s
}

// Namespace returns (creating if necessary) the namespace named name.
// Custom schema names (from an ATTACH the compiler never actually
// executes, but whose qualified references it must still resolve) are
// created lazily the first time they are referenced by a qualified name.
func (s *Schema) Namespace(name string) *Namespace {
	if name == "" {
		name = "main"
	}
	ns, ok := s.namespaces[name]
	if !ok {
		ns = newNamespace()
		s.namespaces[name] = ns
	}
	return ns
}

// HasNamespace reports whether name was ever referenced/created, without
// creating it as a side effect (used by lookups that must distinguish
// "schema does not exist" from "schema exists but is empty").
func (s *Schema) HasNamespace(name string) bool {
	if name == "" {
		name = "main"
	}
	_, ok := s.namespaces[name]
	return ok
}

// LookupTable searches schemaName (or every namespace, if schemaName is
// "") for a table/view named name.
func (s *Schema) LookupTable(schemaName, name string) (*Table, bool) {
	name = FoldIdentifier(name, false)
	if schemaName != "" {
		ns, ok := s.namespaces[schemaName]
		if !ok {
			return nil, false
		}
		t, ok := ns.Tables[name]
		return t, ok
	}
	if t, ok := s.namespaces["main"].Tables[name]; ok {
		return t, true
	}
	if t, ok := s.namespaces["temp"].Tables[name]; ok {
		return t, true
	}
	return nil, false
}

// PutTable registers table under its own QName, replacing any existing
// entry with the same name (callers are responsible for having already
// diagnosed a duplicate-name conflict before calling PutTable for a CREATE
// that should fail).
func (s *Schema) PutTable(t *Table) {
	ns := s.Namespace(t.QName.Schema)
	ns.Tables[FoldIdentifier(t.QName.Name, false)] = t
}

// DropTable removes a table/view by name.
func (s *Schema) DropTable(schemaName, name string) {
	ns := s.Namespace(schemaName)
	delete(ns.Tables, FoldIdentifier(name, false))
}

// PutIndex registers idx.
func (s *Schema) PutIndex(idx *Index) {
	ns := s.Namespace(idx.QName.Schema)
	ns.Indexes[FoldIdentifier(idx.QName.Name, false)] = idx
}

// LookupIndex searches every namespace for an index named name.
func (s *Schema) LookupIndex(name string) (*Index, bool) {
	name = FoldIdentifier(name, false)
	for _, ns := range s.namespaces {
		if idx, ok := ns.Indexes[name]; ok {
			return idx, true
		}
	}
	return nil, false
}

// DropIndex removes an index by name from every namespace it appears in.
func (s *Schema) DropIndex(name string) {
	name = FoldIdentifier(name, false)
	for _, ns := range s.namespaces {
		delete(ns.Indexes, name)
	}
}

// PutTrigger registers trg.
func (s *Schema) PutTrigger(trg *Trigger) {
	ns := s.Namespace(trg.QName.Schema)
	ns.Triggers[FoldIdentifier(trg.QName.Name, false)] = trg
}

// LookupTrigger searches every namespace for a trigger named name.
func (s *Schema) LookupTrigger(name string) (*Trigger, bool) {
	name = FoldIdentifier(name, false)
	for _, ns := range s.namespaces {
		if t, ok := ns.Triggers[name]; ok {
			return t, true
		}
	}
	return nil, false
}

// DropTrigger removes a trigger by name from every namespace.
func (s *Schema) DropTrigger(name string) {
	name = FoldIdentifier(name, false)
	for _, ns := range s.namespaces {
		delete(ns.Triggers, name)
	}
}
