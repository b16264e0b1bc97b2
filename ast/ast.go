// Package ast defines the syntax tree built by package parser: statement
// and expression node variants, each carrying a stable NodeID and a source
// Location.
//
// Node variants are modeled as Go interfaces implemented by concrete
// struct types: a small marker method distinguishes the sum's cases, and
// callers type-switch on the concrete type, tailored to sqlcore's own
// grammar.
package ast

import "github.com/sqlcore-dev/sqlcore/token"

// NodeID is a stable, monotonically increasing identifier allocated by the
// parser. It is never zero for a node actually present in a tree, and is
// used as the key into side-tables built by later passes (recorded types,
// bind-parameter de-duplication, proposed names) instead of relying on Go
// object identity.
type NodeID uint32

// Node is implemented by every AST node.
type Node interface {
	ID() NodeID
	Location() token.Location
}

// Stmt is implemented by every top-level statement node.
type Stmt interface {
	Node
	stmtNode()
}

// Expr is implemented by every expression node.
type Expr interface {
	Node
	exprNode()
}

// Base is embedded by every concrete node to supply ID()/Location().
type Base struct {
	NID NodeID
	Loc token.Location
}

func (b Base) ID() NodeID               { return b.NID }
func (b Base) Location() token.Location { return b.Loc }

// NewBase constructs the embeddable Base for a node.
func NewBase(id NodeID, loc token.Location) Base {
	return Base{NID: id, Loc: loc}
}

// Counter allocates monotonically increasing NodeIDs, starting at 1 so the
// zero value of NodeID can mean "absent".
type Counter struct{ next NodeID }

func (c *Counter) Next() NodeID {
	c.next++
	return c.next
}
