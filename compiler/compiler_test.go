package compiler

import (
	"strings"
	"testing"

	"github.com/sqlcore-dev/sqlcore/cardinality"
	"github.com/sqlcore-dev/sqlcore/types"
)

func nominalName(t types.Type) string {
	if n, ok := types.Root(t).(types.Nominal); ok {
		return n.Name
	}
	return ""
}

func TestSchemaCompilerThenQuerySingleParameter(t *testing.T) {
	sc := NewSchemaCompiler()
	sc.Compile("CREATE TABLE foo (id INTEGER PRIMARY KEY, name TEXT NOT NULL);")
	if sc.AllDiagnostics() != nil && len(sc.AllDiagnostics()) > 0 {
		t.Fatalf("unexpected migration diagnostics: %+v", sc.AllDiagnostics())
	}

	qc := NewQueryCompiler(sc.Schema())
	qc.Compile("SELECT name FROM foo WHERE id = ?;")
	if len(qc.AllDiagnostics()) > 0 {
		t.Fatalf("unexpected query diagnostics: %+v", qc.AllDiagnostics())
	}
	stmts := qc.Statements()
	if len(stmts) != 1 {
		t.Fatalf("expected 1 statement, got %d", len(stmts))
	}
	st := stmts[0]

	if len(st.Signature.Parameters) != 1 {
		t.Fatalf("expected 1 parameter, got %d", len(st.Signature.Parameters))
	}
	p := st.Signature.Parameters[0]
	if p.Index != 1 || p.Name != "id" || nominalName(p.Type) != "INTEGER" {
		t.Fatalf("parameter = %+v, want (index=1, name=id, type=INTEGER)", p)
	}

	if len(st.Signature.Output) != 1 || len(st.Signature.Output[0].Columns) != 1 {
		t.Fatalf("output = %+v, want one chunk of one column", st.Signature.Output)
	}
	col := st.Signature.Output[0].Columns[0]
	if col.Name != "name" || nominalName(col.Type) != "TEXT" {
		t.Fatalf("output column = %+v, want name:TEXT", col)
	}

	if st.Signature.Cardinality != cardinality.Single {
		t.Fatalf("cardinality = %v, want Single", st.Signature.Cardinality)
	}
}

func TestQueryCompilerWildcardJoinWrapsRightSideOptional(t *testing.T) {
	sc := NewSchemaCompiler()
	sc.Compile("CREATE TABLE foo (id INTEGER PRIMARY KEY, foo_id INTEGER);")
	sc.Compile("CREATE TABLE bar (id INTEGER PRIMARY KEY, foo_id INTEGER);")

	qc := NewQueryCompiler(sc.Schema())
	qc.Compile("SELECT * FROM foo LEFT JOIN bar ON foo.id = bar.foo_id;")
	if len(qc.AllDiagnostics()) > 0 {
		t.Fatalf("unexpected diagnostics: %+v", qc.AllDiagnostics())
	}
	stmts := qc.Statements()
	if len(stmts) != 1 {
		t.Fatalf("expected 1 statement, got %d", len(stmts))
	}
	out := stmts[0].Signature.Output
	if len(out) != 2 {
		t.Fatalf("expected 2 chunks (foo, bar), got %d: %+v", len(out), out)
	}
	if out[0].Kind != ChunkWildcard || out[0].Table != "foo" {
		t.Fatalf("chunk 0 = %+v, want foo wildcard", out[0])
	}
	if out[1].Kind != ChunkWildcard || out[1].Table != "bar" {
		t.Fatalf("chunk 1 = %+v, want bar wildcard", out[1])
	}
	for _, col := range out[1].Columns {
		if _, optional := col.Type.(types.Optional); !optional {
			t.Errorf("joined-in column %q = %v, want Optional (outer join side)", col.Name, col.Type)
		}
	}
	if stmts[0].Signature.Cardinality != cardinality.Many {
		t.Fatalf("cardinality = %v, want Many", stmts[0].Signature.Cardinality)
	}
}

func TestQueryCompilerInsertReturningNamesParameters(t *testing.T) {
	sc := NewSchemaCompiler()
	sc.Compile("CREATE TABLE foo (id INTEGER PRIMARY KEY, name TEXT NOT NULL);")

	qc := NewQueryCompiler(sc.Schema())
	qc.Compile("INSERT INTO foo (id, name) VALUES (?, ?) RETURNING name AS n;")
	if len(qc.AllDiagnostics()) > 0 {
		t.Fatalf("unexpected diagnostics: %+v", qc.AllDiagnostics())
	}
	st := qc.Statements()[0]

	if len(st.Signature.Parameters) != 2 {
		t.Fatalf("expected 2 parameters, got %d", len(st.Signature.Parameters))
	}
	if st.Signature.Parameters[0].Name != "id" || st.Signature.Parameters[1].Name != "name" {
		t.Fatalf("parameters = %+v, want [id, name]", st.Signature.Parameters)
	}
	if len(st.Signature.Output) != 1 || st.Signature.Output[0].Columns[0].Name != "n" {
		t.Fatalf("output = %+v, want one column n", st.Signature.Output)
	}
	if st.Signature.Cardinality != cardinality.Single {
		t.Fatalf("cardinality = %v, want Single (single VALUES tuple)", st.Signature.Cardinality)
	}
}

func TestQueryCompilerDefineQueryCarriesNameAndParameter(t *testing.T) {
	sc := NewSchemaCompiler()
	sc.Compile("CREATE TABLE foo (id INTEGER PRIMARY KEY, name TEXT NOT NULL);")

	qc := NewQueryCompiler(sc.Schema())
	qc.Compile("DEFINE QUERY findUser(output: User) AS SELECT id, name FROM foo WHERE id = :id;")
	if len(qc.AllDiagnostics()) > 0 {
		t.Fatalf("unexpected diagnostics: %+v", qc.AllDiagnostics())
	}
	st := qc.Statements()[0]

	if st.Name != "findUser" {
		t.Fatalf("Name = %q, want findUser", st.Name)
	}
	if len(st.Signature.Parameters) != 1 || st.Signature.Parameters[0].Name != "id" {
		t.Fatalf("parameters = %+v, want [id]", st.Signature.Parameters)
	}
	cols := st.Signature.Output[0].Columns
	if len(cols) != 2 || cols[0].Name != "id" || cols[1].Name != "name" {
		t.Fatalf("output = %+v, want [id, name]", cols)
	}
	if st.Signature.Cardinality != cardinality.Single {
		t.Fatalf("cardinality = %v, want Single", st.Signature.Cardinality)
	}
}

func TestQueryCompilerCompoundSelectNamesFromFirstArm(t *testing.T) {
	sc := NewSchemaCompiler()
	sc.Compile("CREATE TABLE foo (a INTEGER);")
	sc.Compile("CREATE TABLE bar (id INTEGER);")

	qc := NewQueryCompiler(sc.Schema())
	qc.Compile("SELECT a FROM foo UNION SELECT id FROM bar;")
	if len(qc.AllDiagnostics()) > 0 {
		t.Fatalf("unexpected diagnostics: %+v", qc.AllDiagnostics())
	}
	st := qc.Statements()[0]
	cols := st.Signature.Output[0].Columns
	if len(cols) != 1 || cols[0].Name != "a" {
		t.Fatalf("output = %+v, want [a]", cols)
	}
	if st.Signature.Cardinality != cardinality.Many {
		t.Fatalf("cardinality = %v, want Many (compound select)", st.Signature.Cardinality)
	}
}

func TestSchemaCompilerRequireStrictTablesWarns(t *testing.T) {
	sc := NewSchemaCompiler()
	sc.Compile("PRAGMA require_strict_tables = on; CREATE TABLE x(a INTEGER);")
	if len(sc.AllDiagnostics()) == 0 {
		t.Fatal("expected a diagnostic for a non-STRICT table once require_strict_tables is set")
	}
}

func TestSchemaCompilerRefusesQueryLikeStatements(t *testing.T) {
	sc := NewSchemaCompiler()
	sc.Compile("SELECT 1;")
	if len(sc.AllDiagnostics()) == 0 {
		t.Fatal("expected a diagnostic refusing SELECT in a migration")
	}
	found := false
	for _, d := range sc.AllDiagnostics() {
		if strings.Contains(d.Message, "illegal in migrations") {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected an 'illegal in migrations' diagnostic, got %+v", sc.AllDiagnostics())
	}
}

func TestQueryCompilerRefusesDDLStatements(t *testing.T) {
	sc := NewSchemaCompiler()
	qc := NewQueryCompiler(sc.Schema())
	qc.Compile("CREATE TABLE x (a INTEGER);")
	if len(qc.Statements()) != 0 {
		t.Fatalf("expected no statements recorded, got %d", len(qc.Statements()))
	}
	found := false
	for _, d := range qc.AllDiagnostics() {
		if strings.Contains(d.Message, "illegal in queries") {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected an 'illegal in queries' diagnostic, got %+v", qc.AllDiagnostics())
	}
}

func TestSanitizeStripsHostAliasSuffix(t *testing.T) {
	sc := NewSchemaCompiler()
	out := sc.Compile("CREATE TABLE foo (id INTEGER AS Bool USING bool_adapter PRIMARY KEY);")
	if strings.Contains(out, "AS Bool") || strings.Contains(out, "USING") {
		t.Fatalf("sanitized source still carries host-alias syntax: %q", out)
	}
	if !strings.Contains(out, "CREATE TABLE foo") || !strings.Contains(out, "PRIMARY KEY") {
		t.Fatalf("sanitized source lost plain SQL content: %q", out)
	}
}

func TestLimitOneForcesSingleCardinality(t *testing.T) {
	sc := NewSchemaCompiler()
	sc.Compile("CREATE TABLE foo (a INTEGER);")
	qc := NewQueryCompiler(sc.Schema())
	qc.Compile("SELECT a FROM foo LIMIT 1;")
	if qc.Statements()[0].Signature.Cardinality != cardinality.Single {
		t.Fatalf("LIMIT 1 should force Single cardinality")
	}

	qc2 := NewQueryCompiler(sc.Schema())
	qc2.Compile("SELECT a FROM foo LIMIT 2;")
	if qc2.Statements()[0].Signature.Cardinality != cardinality.Many {
		t.Fatalf("LIMIT 2 should not force Single cardinality")
	}
}

func TestUnaliasedNonColumnExpressionGetsPositionalName(t *testing.T) {
	sc := NewSchemaCompiler()
	sc.Compile("CREATE TABLE foo (a INTEGER);")
	qc := NewQueryCompiler(sc.Schema())
	qc.Compile("SELECT a, a + 1 FROM foo;")
	cols := qc.Statements()[0].Signature.Output[0].Columns
	if len(cols) != 2 {
		t.Fatalf("expected 2 columns, got %d", len(cols))
	}
	if cols[0].Name != "a" {
		t.Fatalf("column 0 = %q, want a", cols[0].Name)
	}
	if cols[1].Name != "column2" {
		t.Fatalf("column 1 = %q, want column2", cols[1].Name)
	}
}
