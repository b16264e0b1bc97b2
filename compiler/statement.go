// Package compiler implements the two external-facing compilation
// entrypoints: SchemaCompiler turns migration sources into a running
// Schema, and QueryCompiler type-checks query sources against that Schema
// into a signed Statement per top-level statement. Both wire together
// package parser, check, cardinality, and nameinfer; neither executes
// anything or holds package-level mutable state.
package compiler

import (
	"fmt"

	"github.com/sqlcore-dev/sqlcore/ast"
	"github.com/sqlcore-dev/sqlcore/cardinality"
	"github.com/sqlcore-dev/sqlcore/check"
	"github.com/sqlcore-dev/sqlcore/infer"
	"github.com/sqlcore-dev/sqlcore/nameinfer"
	"github.com/sqlcore-dev/sqlcore/token"
	"github.com/sqlcore-dev/sqlcore/types"
)

// NamedColumn is one column of a ResultChunk.
type NamedColumn struct {
	Name string     `json:"name"`
	Type types.Type `json:"type"`
}

// ChunkKind distinguishes the two shapes a ResultColumns entry can take.
type ChunkKind int

const (
	// ChunkColumns is an ordered run of individually named columns.
	ChunkColumns ChunkKind = iota
	// ChunkWildcard is a whole-table expansion from a `*`/`table.*` wildcard.
	ChunkWildcard
)

// ResultChunk is one chunk of a Signature's Output. Table is set (the
// source table's alias) only for ChunkWildcard, preserving that the user
// wrote `t.*` rather than naming the table's columns individually.
type ResultChunk struct {
	Kind    ChunkKind     `json:"kind"`
	Table   string        `json:"table,omitempty"`
	Columns []NamedColumn `json:"columns"`
}

// ResultColumns is the ordered sequence of chunks produced by a statement's
// SELECT list or RETURNING clause.
type ResultColumns []ResultChunk

// Parameter is one bind parameter of a Signature.
type Parameter struct {
	Index       int              `json:"index"`
	Type        types.Type       `json:"type"`
	Name        string           `json:"name,omitempty"`
	Occurrences []token.Location `json:"occurrences"`
}

// Signature is a statement's bind-parameter list, result-column layout, and
// cardinality classification.
type Signature struct {
	Parameters  []Parameter             `json:"parameters"`
	Output      ResultColumns           `json:"output"`
	Cardinality cardinality.Cardinality `json:"cardinality"`
}

// Statement is one compiled query.
type Statement struct {
	// Name is the DEFINE QUERY name, or "" for a bare statement.
	Name            string    `json:"name,omitempty"`
	Signature       Signature `json:"signature"`
	Ast             ast.Stmt  `json:"-"`
	IsReadOnly      bool      `json:"isReadOnly"`
	SanitizedSource string    `json:"sanitizedSource"`
}

// buildResultColumns regroups a flat, checked result-column list back into
// chunks: a run of consecutive wildcard-sourced columns sharing a Table
// becomes one ChunkWildcard; everything else accumulates into the
// surrounding ChunkColumns runs.
func buildResultColumns(cols []check.ResultColumn) ResultColumns {
	var chunks ResultColumns
	var named []NamedColumn
	flushNamed := func() {
		if len(named) > 0 {
			chunks = append(chunks, ResultChunk{Kind: ChunkColumns, Columns: named})
			named = nil
		}
	}
	i := 0
	for i < len(cols) {
		if cols[i].Table != "" {
			flushNamed()
			table := cols[i].Table
			var wcols []NamedColumn
			for i < len(cols) && cols[i].Table == table {
				wcols = append(wcols, NamedColumn{Name: columnName(cols[i], i), Type: cols[i].Type})
				i++
			}
			chunks = append(chunks, ResultChunk{Kind: ChunkWildcard, Table: table, Columns: wcols})
			continue
		}
		named = append(named, NamedColumn{Name: columnName(cols[i], i), Type: cols[i].Type})
		i++
	}
	flushNamed()
	if chunks == nil {
		chunks = ResultColumns{}
	}
	return chunks
}

// columnName uses the checked column's derived name, falling back to a
// positional label ("column1", "column2", ...) for an expression that
// carries none (e.g. an unaliased function call or arithmetic expression).
func columnName(rc check.ResultColumn, idx int) string {
	if rc.Name.Kind == nameinfer.NameSome {
		return rc.Name.Text
	}
	return fmt.Sprintf("column%d", idx+1)
}

// buildParameters projects st's resolved bind-parameter solutions into
// Parameters, attaching a proposed name from names where one was derived.
func buildParameters(st *infer.State, names nameinfer.Resolved) []Parameter {
	solutions := st.ParameterSolutions(true)
	params := make([]Parameter, len(solutions))
	for i, sol := range solutions {
		name := ""
		if n, ok := names[sol.Index]; ok && n.Kind == nameinfer.NameSome {
			name = n.Text
		}
		params[i] = Parameter{Index: sol.Index, Type: sol.Type, Name: name, Occurrences: sol.Locations}
	}
	return params
}
