package compiler

import (
	"strings"

	"github.com/sqlcore-dev/sqlcore/ast"
)

// sanitize returns stmt's plain, directly-executable SQLite text. A
// CreateTable has every column's host-alias suffix (`AS Label [USING
// adapter]`) cut back out; a DEFINE QUERY wrapper sanitizes to its inner
// statement's form, since the wrapper syntax itself is not valid SQL;
// anything else's source span is already plain SQL.
func sanitize(source string, stmt ast.Stmt) string {
	switch st := stmt.(type) {
	case *ast.CreateTable:
		return sanitizeCreateTable(source, st)
	case *ast.QueryDefinition:
		return sanitize(source, st.Inner)
	default:
		return stmt.Location().Text(source)
	}
}

func sanitizeCreateTable(source string, ct *ast.CreateTable) string {
	full := ct.Location()
	text := full.Text(source)
	base := full.Start

	type span struct{ start, end int }
	var cuts []span
	for _, cd := range ct.Columns {
		if cd.Type.AliasLabel == "" {
			continue
		}
		s := cd.Type.AliasSpan
		if s.Start == 0 && s.End == 0 {
			continue
		}
		cuts = append(cuts, span{s.Start - base, s.End - base})
	}
	// Cuts accumulate in column declaration order, i.e. already increasing;
	// removing them right-to-left keeps every earlier offset valid.
	for i := len(cuts) - 1; i >= 0; i-- {
		c := cuts[i]
		if c.start < 0 || c.end > len(text) || c.start > c.end {
			continue
		}
		text = text[:c.start] + text[c.end:]
	}
	return strings.TrimRight(text, " \t")
}
