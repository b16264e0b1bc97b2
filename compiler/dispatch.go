package compiler

import "github.com/sqlcore-dev/sqlcore/ast"

// isQueryLike reports whether stmt reads data rather than defining schema;
// these are the two forms a SchemaCompiler refuses.
func isQueryLike(stmt ast.Stmt) bool {
	switch stmt.(type) {
	case *ast.Select, *ast.QueryDefinition:
		return true
	default:
		return false
	}
}

// isDDLLike reports whether stmt defines or alters schema; these are the
// forms a QueryCompiler refuses.
func isDDLLike(stmt ast.Stmt) bool {
	switch stmt.(type) {
	case *ast.CreateTable, *ast.AlterTable, *ast.DropTable,
		*ast.CreateIndex, *ast.DropIndex,
		*ast.CreateView, *ast.DropView,
		*ast.CreateTrigger, *ast.DropTrigger,
		*ast.CreateVirtualTable:
		return true
	default:
		return false
	}
}

// statementName returns a DEFINE QUERY wrapper's name, or "" for a bare
// statement.
func statementName(stmt ast.Stmt) string {
	if qd, ok := stmt.(*ast.QueryDefinition); ok {
		return qd.Name
	}
	return ""
}

// isReadOnly reports whether stmt (unwrapping QueryDefinition) is a plain
// SELECT, the only statement kind that never mutates anything it touches.
func isReadOnly(stmt ast.Stmt) bool {
	if qd, ok := stmt.(*ast.QueryDefinition); ok {
		return isReadOnly(qd.Inner)
	}
	_, ok := stmt.(*ast.Select)
	return ok
}

// statementKindName names stmt's surface syntax for a diagnostic message.
func statementKindName(stmt ast.Stmt) string {
	switch stmt.(type) {
	case *ast.Select:
		return "SELECT"
	case *ast.Insert:
		return "INSERT"
	case *ast.Update:
		return "UPDATE"
	case *ast.Delete:
		return "DELETE"
	case *ast.QueryDefinition:
		return "DEFINE QUERY"
	case *ast.CreateTable:
		return "CREATE TABLE"
	case *ast.AlterTable:
		return "ALTER TABLE"
	case *ast.DropTable:
		return "DROP TABLE"
	case *ast.CreateIndex:
		return "CREATE INDEX"
	case *ast.DropIndex:
		return "DROP INDEX"
	case *ast.CreateView:
		return "CREATE VIEW"
	case *ast.DropView:
		return "DROP VIEW"
	case *ast.CreateTrigger:
		return "CREATE TRIGGER"
	case *ast.DropTrigger:
		return "DROP TRIGGER"
	case *ast.CreateVirtualTable:
		return "CREATE VIRTUAL TABLE"
	default:
		return "statement"
	}
}
