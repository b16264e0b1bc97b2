package config

import "testing"

func TestParseDecodesFileLists(t *testing.T) {
	doc := []byte(`
migration_files:
  - migrations/001.sql
  - migrations/002.sql
query_files:
  - queries/users.sql
pragmas:
  require_strict_tables: "on"
`)
	c, err := Parse(doc)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(c.MigrationFiles) != 2 || c.MigrationFiles[0] != "migrations/001.sql" {
		t.Fatalf("MigrationFiles = %v", c.MigrationFiles)
	}
	if len(c.QueryFiles) != 1 || c.QueryFiles[0] != "queries/users.sql" {
		t.Fatalf("QueryFiles = %v", c.QueryFiles)
	}
	if c.Pragmas["require_strict_tables"] != "on" {
		t.Fatalf("Pragmas = %v", c.Pragmas)
	}
}

func TestPragmaStatementsDeterministicOrder(t *testing.T) {
	c := Config{Pragmas: map[string]string{"foreign_keys": "on", "require_strict_tables": "on"}}
	want := []string{"PRAGMA foreign_keys = on;", "PRAGMA require_strict_tables = on;"}
	for i := 0; i < 5; i++ {
		got := c.PragmaStatements()
		if len(got) != len(want) || got[0] != want[0] || got[1] != want[1] {
			t.Fatalf("PragmaStatements() = %v, want %v", got, want)
		}
	}
}

func TestLoadEmptyPathReturnsZeroConfig(t *testing.T) {
	c, err := Load("")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(c.MigrationFiles) != 0 || len(c.QueryFiles) != 0 || len(c.Pragmas) != 0 {
		t.Fatalf("expected zero Config, got %+v", c)
	}
}
