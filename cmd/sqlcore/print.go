package main

import (
	"fmt"
	"io"
	"os"

	"github.com/k0kubun/pp/v3"
	"golang.org/x/term"

	"github.com/sqlcore-dev/sqlcore/compiler"
	"github.com/sqlcore-dev/sqlcore/diag"
)

const (
	ansiRed    = "\x1b[31m"
	ansiYellow = "\x1b[33m"
	ansiReset  = "\x1b[0m"
)

// printDiagnostics writes one line per diagnostic to w, colorizing
// error/warning when w is a terminal.
func printDiagnostics(w io.Writer, diags []diag.Diagnostic) {
	colorize := isTerminal(w)
	for _, d := range diags {
		if !colorize {
			fmt.Fprintln(w, d.String())
			continue
		}
		color := ansiRed
		if d.Level == diag.Warning {
			color = ansiYellow
		}
		fmt.Fprintf(w, "%s%s%s\n", color, d.String(), ansiReset)
	}
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return term.IsTerminal(int(f.Fd()))
}

// printDebugAST dumps every compiled statement's AST and signature via pp.
func printDebugAST(w io.Writer, stmts []compiler.Statement) {
	printer := pp.New()
	printer.SetOutput(w)
	for _, st := range stmts {
		printer.Println(st.Ast)
		printer.Println(st.Signature)
	}
}
