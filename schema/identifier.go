package schema

import "strings"

// FoldIdentifier normalizes an identifier for name comparison, narrowed to
// SQLite's single rule: unquoted identifiers are folded case-insensitively
// (ASCII lowercase, matching SQLite's table/column name comparison), quoted
// identifiers are compared case-sensitively and returned unchanged.
func FoldIdentifier(name string, quoted bool) string {
	if quoted {
		return name
	}
	return strings.ToLower(name)
}
