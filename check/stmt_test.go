package check

import (
	"testing"

	"github.com/sqlcore-dev/sqlcore/ast"
	"github.com/sqlcore-dev/sqlcore/diag"
	"github.com/sqlcore-dev/sqlcore/infer"
	"github.com/sqlcore-dev/sqlcore/schema"
	"github.com/sqlcore-dev/sqlcore/token"
	"github.com/sqlcore-dev/sqlcore/types"
)

func newChecker() (*Checker, *ast.Counter) {
	sc := schema.New()
	st := infer.New(&diag.Bag{})
	return New(sc, st), &ast.Counter{}
}

func nominalType(name string) types.Type { return types.Nominal{Name: name} }

func usersTable() *schema.Table {
	cols := schema.NewColumns()
	cols.Set("id", schema.Column{Type: nominalType("INTEGER")})
	cols.Set("name", schema.Column{Type: types.Optional{Inner: nominalType("TEXT")}})
	return &schema.Table{
		QName:      schema.QualifiedName{Schema: "main", Name: "users"},
		Columns:    cols,
		PrimaryKey: []string{"id"},
		Kind:       schema.TableNormal,
	}
}

func TestCreateTableRegistersStrictNullableColumns(t *testing.T) {
	c, ids := newChecker()
	loc := token.Location{}

	ct := &ast.CreateTable{
		Base: ast.NewBase(ids.Next(), loc),
		Name: "posts",
		Columns: []ast.ColumnDef{
			{Base: ast.NewBase(ids.Next(), loc), Name: "id", Type: ast.TypeName{Name: "INTEGER"},
				Constraints: []ast.ColumnConstraint{{Kind: ast.ConstraintPrimaryKey}}},
			{Base: ast.NewBase(ids.Next(), loc), Name: "title", Type: ast.TypeName{Name: "TEXT"}},
		},
		Strict: true,
	}
	c.CheckStmt(ct)

	if c.State.Bag.HasErrors() {
		t.Fatalf("unexpected errors: %+v", c.State.Bag.All())
	}
	tbl, ok := c.Schema.LookupTable("", "posts")
	if !ok {
		t.Fatal("expected posts table to be registered")
	}
	idCol, _ := tbl.Columns.Get("id")
	if _, optional := idCol.Type.(types.Optional); optional {
		t.Fatal("primary key column must not be Optional")
	}
	titleCol, _ := tbl.Columns.Get("title")
	if _, optional := titleCol.Type.(types.Optional); !optional {
		t.Fatal("column without NOT NULL must be wrapped Optional")
	}
	if len(tbl.PrimaryKey) != 1 || tbl.PrimaryKey[0] != "id" {
		t.Fatalf("expected primary key [id], got %v", tbl.PrimaryKey)
	}
}

func TestCreateTableRequiresStrictOncePragmaSeen(t *testing.T) {
	c, ids := newChecker()
	c.Schema.RequireStrictTables = true
	loc := token.Location{}

	ct := &ast.CreateTable{
		Base:    ast.NewBase(ids.Next(), loc),
		Name:    "legacy",
		Columns: []ast.ColumnDef{{Base: ast.NewBase(ids.Next(), loc), Name: "id", Type: ast.TypeName{Name: "INTEGER"}}},
		Strict:  false,
	}
	c.CheckStmt(ct)

	if !c.State.Bag.HasErrors() {
		t.Fatal("expected an error for a non-STRICT table once require_strict_tables is set")
	}
}

func TestInsertUnifiesValueTypesAgainstColumns(t *testing.T) {
	c, ids := newChecker()
	c.Schema.PutTable(usersTable())
	loc := token.Location{}

	ins := &ast.Insert{
		Base:    ast.NewBase(ids.Next(), loc),
		Table:   "users",
		Columns: []string{"id", "name"},
		Values: [][]ast.Expr{
			{
				&ast.Literal{Base: ast.NewBase(ids.Next(), loc), Kind: ast.LiteralInt, Text: "1"},
				&ast.Literal{Base: ast.NewBase(ids.Next(), loc), Kind: ast.LiteralString, Text: "'a'"},
			},
		},
	}
	c.CheckStmt(ins)

	if c.State.Bag.HasErrors() {
		t.Fatalf("unexpected errors: %+v", c.State.Bag.All())
	}
}

func TestInsertReportsArityMismatch(t *testing.T) {
	c, ids := newChecker()
	c.Schema.PutTable(usersTable())
	loc := token.Location{}

	ins := &ast.Insert{
		Base:    ast.NewBase(ids.Next(), loc),
		Table:   "users",
		Columns: []string{"id", "name"},
		Values: [][]ast.Expr{
			{&ast.Literal{Base: ast.NewBase(ids.Next(), loc), Kind: ast.LiteralInt, Text: "1"}},
		},
	}
	c.CheckStmt(ins)

	if !c.State.Bag.HasErrors() {
		t.Fatal("expected an arity-mismatch diagnostic")
	}
}

func TestInsertOnUnknownTableDiagnoses(t *testing.T) {
	c, ids := newChecker()
	loc := token.Location{}

	ins := &ast.Insert{
		Base:  ast.NewBase(ids.Next(), loc),
		Table: "ghosts",
	}
	c.CheckStmt(ins)

	if !c.State.Bag.HasErrors() {
		t.Fatal("expected a no-such-table diagnostic")
	}
}

func TestInsertReturningExposesColumns(t *testing.T) {
	c, ids := newChecker()
	c.Schema.PutTable(usersTable())
	loc := token.Location{}

	ins := &ast.Insert{
		Base:          ast.NewBase(ids.Next(), loc),
		Table:         "users",
		DefaultValues: true,
		Returning: &ast.ReturningClause{
			Columns: []ast.ResultColumn{
				{Aliased: &ast.AliasedExpr{Expr: &ast.Column{Base: ast.NewBase(ids.Next(), loc), Name: "id"}}},
			},
		},
	}
	cols := c.CheckStmt(ins)

	if c.State.Bag.HasErrors() {
		t.Fatalf("unexpected errors: %+v", c.State.Bag.All())
	}
	if len(cols) != 1 {
		t.Fatalf("expected 1 returning column, got %d", len(cols))
	}
}

func TestUpdateSetUnifiesAgainstColumnType(t *testing.T) {
	c, ids := newChecker()
	c.Schema.PutTable(usersTable())
	loc := token.Location{}

	upd := &ast.Update{
		Base:  ast.NewBase(ids.Next(), loc),
		Table: "users",
		Sets: []ast.SetClause{
			{Columns: []string{"name"}, Value: &ast.Literal{Base: ast.NewBase(ids.Next(), loc), Kind: ast.LiteralString, Text: "'b'"}},
		},
		Where: &ast.InfixOp{
			Base:  ast.NewBase(ids.Next(), loc),
			Op:    "=",
			Left:  &ast.Column{Base: ast.NewBase(ids.Next(), loc), Name: "id"},
			Right: &ast.Literal{Base: ast.NewBase(ids.Next(), loc), Kind: ast.LiteralInt, Text: "1"},
		},
	}
	c.CheckStmt(upd)

	if c.State.Bag.HasErrors() {
		t.Fatalf("unexpected errors: %+v", c.State.Bag.All())
	}
}

func TestDeleteOnUnknownTableDiagnoses(t *testing.T) {
	c, ids := newChecker()
	loc := token.Location{}

	del := &ast.Delete{
		Base:  ast.NewBase(ids.Next(), loc),
		Table: "ghosts",
	}
	c.CheckStmt(del)

	if !c.State.Bag.HasErrors() {
		t.Fatal("expected a no-such-table diagnostic")
	}
}

func TestAlterTableRenameColumnPreservesType(t *testing.T) {
	c, _ := newChecker()
	c.Schema.PutTable(usersTable())
	loc := token.Location{}

	at := &ast.AlterTable{
		Base:      ast.NewBase(1, loc),
		Table:     "users",
		Kind:      ast.AlterRenameColumn,
		OldColumn: "name",
		NewName:   "full_name",
	}
	c.CheckStmt(at)

	if c.State.Bag.HasErrors() {
		t.Fatalf("unexpected errors: %+v", c.State.Bag.All())
	}
	tbl, _ := c.Schema.LookupTable("", "users")
	renamed, ok := tbl.Columns.Get("full_name")
	if !ok {
		t.Fatal("expected renamed column full_name to exist")
	}
	if _, optional := renamed.Type.(types.Optional); !optional {
		t.Fatalf("renamed column type = %v, want the original Optional(TEXT)", renamed.Type)
	}
}

func TestAlterTableOnViewDiagnoses(t *testing.T) {
	c, _ := newChecker()
	c.Schema.PutTable(&schema.Table{
		QName:   schema.QualifiedName{Schema: "main", Name: "v1"},
		Columns: schema.NewColumns(),
		Kind:    schema.TableView,
	})
	loc := token.Location{}

	at := &ast.AlterTable{
		Base:  ast.NewBase(1, loc),
		Table: "v1",
		Kind:  ast.AlterAddColumn,
		NewColumn: &ast.ColumnDef{
			Base: ast.NewBase(2, loc), Name: "x", Type: ast.TypeName{Name: "TEXT"},
		},
	}
	c.CheckStmt(at)

	if !c.State.Bag.HasErrors() {
		t.Fatal("expected an error altering a view")
	}
}

func TestCreateViewRegistersResultColumns(t *testing.T) {
	c, ids := newChecker()
	c.Schema.PutTable(usersTable())
	loc := token.Location{}

	sel := &ast.Select{
		Base: ast.NewBase(ids.Next(), loc),
		Columns: []ast.ResultColumn{
			{Aliased: &ast.AliasedExpr{Expr: &ast.Column{Base: ast.NewBase(ids.Next(), loc), Name: "id"}}},
		},
		From: &ast.JoinClause{Left: ast.TableOrSubquery{Table: "users"}},
	}
	cv := &ast.CreateView{
		Base:   ast.NewBase(ids.Next(), loc),
		Name:   "v_ids",
		Select: sel,
	}
	c.CheckStmt(cv)

	if c.State.Bag.HasErrors() {
		t.Fatalf("unexpected errors: %+v", c.State.Bag.All())
	}
	tbl, ok := c.Schema.LookupTable("", "v_ids")
	if !ok || tbl.Kind != schema.TableView {
		t.Fatal("expected v_ids to be registered as a view")
	}
	if _, ok := tbl.Columns.Get("id"); !ok {
		t.Fatal("expected view column id")
	}
}

func TestCreateTriggerImportsNewOldQualifiedOnly(t *testing.T) {
	c, ids := newChecker()
	c.Schema.PutTable(usersTable())
	loc := token.Location{}

	// A trigger body statement referencing new.id qualified must succeed.
	body := []ast.Stmt{
		&ast.Select{
			Base: ast.NewBase(ids.Next(), loc),
			Columns: []ast.ResultColumn{
				{Aliased: &ast.AliasedExpr{Expr: &ast.Column{Base: ast.NewBase(ids.Next(), loc), Table: "new", Name: "id"}}},
			},
		},
	}
	ct := &ast.CreateTrigger{
		Base:  ast.NewBase(ids.Next(), loc),
		Name:  "trg",
		Event: ast.TriggerInsert,
		Table: "users",
		Body:  body,
	}
	c.CheckStmt(ct)

	if c.State.Bag.HasErrors() {
		t.Fatalf("unexpected errors: %+v", c.State.Bag.All())
	}
	if _, ok := c.Schema.LookupTrigger("trg"); !ok {
		t.Fatal("expected trigger to be registered")
	}
}

func TestDropStatementsRemoveRegistryEntries(t *testing.T) {
	c, _ := newChecker()
	c.Schema.PutTable(usersTable())
	c.Schema.PutIndex(&schema.Index{QName: schema.QualifiedName{Schema: "main", Name: "idx1"}, TableName: "users"})
	loc := token.Location{}

	c.CheckStmt(&ast.DropTable{Base: ast.NewBase(1, loc), Name: "users"})
	if _, ok := c.Schema.LookupTable("", "users"); ok {
		t.Fatal("expected users to be dropped")
	}

	c.CheckStmt(&ast.DropIndex{Base: ast.NewBase(2, loc), Name: "idx1"})
	if _, ok := c.Schema.LookupIndex("idx1"); ok {
		t.Fatal("expected idx1 to be dropped")
	}
}

func TestPragmaRequireStrictTablesFlipsSchemaState(t *testing.T) {
	c, _ := newChecker()
	loc := token.Location{}

	c.CheckStmt(&ast.Pragma{Base: ast.NewBase(1, loc), Name: "require_strict_tables", Value: "1"})
	if !c.Schema.RequireStrictTables {
		t.Fatal("expected RequireStrictTables to be set")
	}
}

func TestCreateVirtualTableFTS5ColumnsAreText(t *testing.T) {
	c, ids := newChecker()
	loc := token.Location{}

	cvt := &ast.CreateVirtualTable{
		Base:   ast.NewBase(ids.Next(), loc),
		Name:   "docs",
		Module: "fts5",
		Columns: []ast.ColumnDef{
			{Base: ast.NewBase(ids.Next(), loc), Name: "body", Type: ast.TypeName{Name: "TEXT"}},
		},
	}
	c.CheckStmt(cvt)

	tbl, ok := c.Schema.LookupTable("", "docs")
	if !ok || tbl.Kind != schema.TableFTS5 {
		t.Fatal("expected docs to be registered as an FTS5 table")
	}
	body, ok := tbl.Columns.Get("body")
	if n, isNominal := body.Type.(types.Nominal); !ok || !isNominal || n.Name != "TEXT" {
		t.Fatalf("fts5 column body = %+v, want TEXT", body)
	}
}
