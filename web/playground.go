// This is a wasm wrapper around the compiler for use from a browser
// playground. You don't need to include this in your own program.
//
//go:build js && wasm

package main

import (
	"encoding/json"
	"syscall/js"

	"github.com/sqlcore-dev/sqlcore/compiler"
	"github.com/sqlcore-dev/sqlcore/diag"
	"github.com/sqlcore-dev/sqlcore/util"
)

type diagnosticOut struct {
	Message string `json:"message"`
	Level   string `json:"level"`
	Line    int    `json:"line"`
	Col     int    `json:"col"`
}

type compileResult struct {
	SchemaDiagnostics []diagnosticOut      `json:"schemaDiagnostics"`
	QueryDiagnostics  []diagnosticOut      `json:"queryDiagnostics"`
	Statements        []compiler.Statement `json:"statements"`
}

func toOut(diags []diag.Diagnostic) []diagnosticOut {
	return util.TransformSlice(diags, func(d diag.Diagnostic) diagnosticOut {
		return diagnosticOut{
			Message: d.Message,
			Level:   d.Level.String(),
			Line:    d.Loc.Line,
			Col:     d.Loc.Col,
		}
	})
}

// compile(migrationSource, querySource, callback) compiles migrationSource
// as schema DDL, then querySource against the resulting schema, and invokes
// callback(err, jsonResult).
func compile(this js.Value, args []js.Value) interface{} {
	migrationSource := args[0].String()
	querySource := args[1].String()
	callback := args[2]

	sc := compiler.NewSchemaCompiler()
	sc.Compile(migrationSource)

	qc := compiler.NewQueryCompiler(sc.Schema())
	qc.Compile(querySource)

	result := compileResult{
		SchemaDiagnostics: toOut(sc.AllDiagnostics()),
		QueryDiagnostics:  toOut(qc.AllDiagnostics()),
		Statements:        qc.Statements(),
	}

	out, err := json.Marshal(result)
	if err != nil {
		callback.Invoke(err.Error(), js.Null())
		return false
	}
	callback.Invoke(js.Null(), string(out))
	return true
}

func main() {
	c := make(chan bool)
	js.Global().Set("_SQLCORE", js.FuncOf(compile))
	<-c
}
