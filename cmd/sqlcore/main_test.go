package main

import (
	"bytes"
	"strings"
	"testing"

	"github.com/sqlcore-dev/sqlcore/diag"
	"github.com/sqlcore-dev/sqlcore/token"
)

func TestParseOptionsMigrationAndQueryFlags(t *testing.T) {
	opts, rest := parseOptions([]string{"-m", "a.sql", "-m", "b.sql", "-q", "c.sql"})
	if len(rest) != 0 {
		t.Fatalf("rest = %v, want none", rest)
	}
	if len(opts.MigrationFiles) != 2 || opts.MigrationFiles[0] != "a.sql" || opts.MigrationFiles[1] != "b.sql" {
		t.Fatalf("MigrationFiles = %v", opts.MigrationFiles)
	}
	if len(opts.QueryFiles) != 1 || opts.QueryFiles[0] != "c.sql" {
		t.Fatalf("QueryFiles = %v", opts.QueryFiles)
	}
}

func TestPrintDiagnosticsPlainNoColor(t *testing.T) {
	var buf bytes.Buffer
	diags := []diag.Diagnostic{
		{Message: "boom", Level: diag.Error, Loc: token.Location{Line: 1, Col: 2}},
	}
	printDiagnostics(&buf, diags)
	out := buf.String()
	if strings.Contains(out, "\x1b[") {
		t.Fatalf("non-terminal writer should not receive ANSI codes: %q", out)
	}
	if !strings.Contains(out, "boom") || !strings.Contains(out, "error") {
		t.Fatalf("output = %q, want it to mention the message and level", out)
	}
}

func TestHasErrorsDistinguishesWarnings(t *testing.T) {
	if hasErrors([]diag.Diagnostic{{Level: diag.Warning}}) {
		t.Fatal("a warning-only slice should not count as having errors")
	}
	if !hasErrors([]diag.Diagnostic{{Level: diag.Warning}, {Level: diag.Error}}) {
		t.Fatal("a slice containing an error should count as having errors")
	}
}
