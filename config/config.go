// Package config loads the YAML document a cmd/sqlcore invocation uses to
// tell migrations and queries apart and to seed default pragmas before
// compiling either.
package config

import (
	"bytes"
	"fmt"
	"os"

	"github.com/goccy/go-yaml"
	"github.com/sqlcore-dev/sqlcore/util"
)

// Config is the document shape read from --config.
type Config struct {
	// MigrationFiles lists the sources fed to SchemaCompiler.Compile, in
	// order.
	MigrationFiles []string `yaml:"migration_files"`
	// QueryFiles lists the sources fed to QueryCompiler.Compile, in order.
	QueryFiles []string `yaml:"query_files"`
	// Pragmas are applied as `PRAGMA name = value;` statements against the
	// schema compiler before any migration file is read, letting a project
	// default require_strict_tables/foreign_keys without repeating a PRAGMA
	// line in every migration.
	Pragmas map[string]string `yaml:"pragmas"`
}

// PragmaStatements renders Pragmas as SQL text, one statement per line, in
// the same iteration order every time a given Config is rendered twice.
func (c Config) PragmaStatements() []string {
	var out []string
	for name, value := range util.CanonicalMapIter(c.Pragmas) {
		out = append(out, fmt.Sprintf("PRAGMA %s = %s;", name, value))
	}
	return out
}

// Load reads and parses the YAML document at path. An empty path returns
// the zero Config: an absent --config flag is not an error.
func Load(path string) (Config, error) {
	if path == "" {
		return Config{}, nil
	}
	buf, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("reading config %s: %w", path, err)
	}
	return Parse(buf)
}

// Parse decodes a YAML document already in memory.
func Parse(doc []byte) (Config, error) {
	var c Config
	dec := yaml.NewDecoder(bytes.NewReader(doc))
	if err := dec.Decode(&c); err != nil {
		return Config{}, fmt.Errorf("decoding config: %w", err)
	}
	return c, nil
}
