// Command sqlcore compiles SQLite migrations and queries and reports the
// resulting schema diagnostics and query signatures.
package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/jessevdk/go-flags"

	"github.com/sqlcore-dev/sqlcore/compiler"
	"github.com/sqlcore-dev/sqlcore/config"
	"github.com/sqlcore-dev/sqlcore/diag"
	"github.com/sqlcore-dev/sqlcore/util"
)

type options struct {
	MigrationFiles []string `short:"m" long:"migration" description:"migration source file (repeatable)" value-name:"FILE"`
	QueryFiles     []string `short:"q" long:"query" description:"query source file (repeatable)" value-name:"FILE"`
	Config         string   `short:"c" long:"config" description:"YAML config listing migration/query files and default pragmas" value-name:"FILE"`
	DebugAST       bool     `long:"debug-ast" description:"dump the parsed AST and inferred signature of every accepted statement"`
	Help           bool     `short:"h" long:"help" description:"show this help message"`
	Version        bool     `long:"version" description:"show version"`
}

const version = "0.1.0"

func parseOptions(args []string) (options, []string) {
	var opts options
	parser := flags.NewParser(&opts, flags.None)
	parser.Usage = "[option...]"

	rest, err := parser.ParseArgs(args)
	if err != nil || opts.Help {
		parser.WriteHelp(os.Stdout)
		if err != nil {
			os.Exit(1)
		}
		os.Exit(0)
	}
	if opts.Version {
		fmt.Println(version)
		os.Exit(0)
	}
	return opts, rest
}

func main() {
	util.InitSlog()
	opts, _ := parseOptions(os.Args[1:])

	cfg, err := config.Load(opts.Config)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	migrationFiles := append(append([]string{}, cfg.MigrationFiles...), opts.MigrationFiles...)
	queryFiles := append(append([]string{}, cfg.QueryFiles...), opts.QueryFiles...)

	sc := compiler.NewSchemaCompiler()
	for _, stmt := range cfg.PragmaStatements() {
		sc.Compile(stmt)
	}
	for _, f := range migrationFiles {
		src, err := os.ReadFile(f)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
		sc.Compile(string(src))
	}
	printDiagnostics(os.Stderr, sc.AllDiagnostics())

	qc := compiler.NewQueryCompiler(sc.Schema())
	for _, f := range queryFiles {
		src, err := os.ReadFile(f)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
		qc.Compile(string(src))
	}
	printDiagnostics(os.Stderr, qc.AllDiagnostics())

	if opts.DebugAST {
		printDebugAST(os.Stdout, qc.Statements())
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(qc.Statements()); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	if hasErrors(sc.AllDiagnostics()) || hasErrors(qc.AllDiagnostics()) {
		os.Exit(1)
	}
}

func hasErrors(diags []diag.Diagnostic) bool {
	for _, d := range diags {
		if d.Level == diag.Error {
			return true
		}
	}
	return false
}
