package check

import (
	"github.com/sqlcore-dev/sqlcore/ast"
	"github.com/sqlcore-dev/sqlcore/env"
	"github.com/sqlcore-dev/sqlcore/nameinfer"
	"github.com/sqlcore-dev/sqlcore/schema"
	"github.com/sqlcore-dev/sqlcore/types"
)

// CheckStmt type-checks any top-level statement, mutating c.Schema for DDL
// and returning the result columns of a SELECT/INSERT.../UPDATE.../
// DELETE...RETURNING (nil for anything else).
func (c *Checker) CheckStmt(s ast.Stmt) []ResultColumn {
	switch st := s.(type) {
	case *ast.Select:
		return c.CheckSelect(st)
	case *ast.Insert:
		return c.checkInsert(st)
	case *ast.Update:
		return c.checkUpdate(st)
	case *ast.Delete:
		return c.checkDelete(st)
	case *ast.CreateTable:
		c.checkCreateTable(st)
	case *ast.AlterTable:
		c.checkAlterTable(st)
	case *ast.DropTable:
		c.Schema.DropTable(st.Schema, st.Name)
	case *ast.CreateIndex:
		c.checkCreateIndex(st)
	case *ast.DropIndex:
		c.Schema.DropIndex(st.Name)
	case *ast.Reindex:
		// no schema effect
	case *ast.CreateView:
		c.checkCreateView(st)
	case *ast.DropView:
		c.Schema.DropTable("", st.Name)
	case *ast.CreateTrigger:
		c.checkCreateTrigger(st)
	case *ast.DropTrigger:
		c.Schema.DropTrigger(st.Name)
	case *ast.CreateVirtualTable:
		c.checkCreateVirtualTable(st)
	case *ast.Pragma:
		c.checkPragma(st)
	case *ast.QueryDefinition:
		for _, opt := range st.Options {
			if opt.Key != "input" && opt.Key != "output" {
				c.State.Bag.Warnf(st.Location(), "unrecognized DEFINE QUERY option: %s", opt.Key)
			}
		}
		return c.CheckStmt(st.Inner)
	case *ast.Empty:
		// nothing to check
	default:
		c.State.Bag.Errorf(s.Location(), "internal: unhandled statement node %T", s)
	}
	return nil
}

func (c *Checker) checkInsert(ins *ast.Insert) []ResultColumn {
	c.Env.Push()
	defer c.Env.Pop()

	if ins.With != nil {
		c.checkWithClause(ins.With)
	}
	tbl, ok := c.Schema.LookupTable("", ins.Table)
	if !ok {
		c.State.Bag.Errorf(ins.Location(), "no such table: %s", ins.Table)
		return nil
	}

	columns := ins.Columns
	if len(columns) == 0 {
		columns = tbl.Columns.Names()
	}

	for _, row := range ins.Values {
		if len(row) != len(columns) {
			c.State.Bag.Errorf(ins.Location(), "%d values for %d columns", len(row), len(columns))
			for _, v := range row {
				c.CheckExpr(v)
			}
			continue
		}
		for i, v := range row {
			vt := c.CheckExpr(v)
			if col, ok := tbl.Columns.Get(columns[i]); ok {
				c.State.Unify(col.Type, vt, v.Location())
			} else {
				c.State.Bag.Errorf(v.Location(), "table %s has no column named %s", ins.Table, columns[i])
			}
		}
	}
	if ins.Select != nil {
		c.CheckSelect(ins.Select)
	}

	c.Env.ImportTable(ins.Table, tableColumnSpecs(tbl), env.ImportOptions{})
	c.Env.ImportTable("excluded", tableColumnSpecs(tbl), env.ImportOptions{QualifiedOnly: true})

	if ins.Upsert != nil {
		for _, col := range ins.Upsert.ConflictColumns {
			if _, ok := tbl.Columns.Get(col); !ok {
				c.State.Bag.Errorf(ins.Location(), "no such column in conflict target: %s", col)
			}
		}
		if ins.Upsert.ConflictWhere != nil {
			t := c.CheckExpr(ins.Upsert.ConflictWhere)
			c.State.Unify(t, integer, ins.Upsert.ConflictWhere.Location())
		}
		for i, col := range ins.Upsert.SetColumns {
			if i >= len(ins.Upsert.SetExprs) {
				break
			}
			vt := c.CheckExpr(ins.Upsert.SetExprs[i])
			if cd, ok := tbl.Columns.Get(col); ok {
				c.State.Unify(cd.Type, vt, ins.Location())
			}
		}
		if ins.Upsert.UpdateWhere != nil {
			t := c.CheckExpr(ins.Upsert.UpdateWhere)
			c.State.Unify(t, integer, ins.Upsert.UpdateWhere.Location())
		}
	}

	if ins.Returning != nil {
		return c.checkResultColumns(ins.Returning.Columns)
	}
	return nil
}

func (c *Checker) checkUpdate(u *ast.Update) []ResultColumn {
	c.Env.Push()
	defer c.Env.Pop()

	if u.With != nil {
		c.checkWithClause(u.With)
	}
	tbl, ok := c.Schema.LookupTable("", u.Table)
	if !ok {
		c.State.Bag.Errorf(u.Location(), "no such table: %s", u.Table)
		return nil
	}
	alias := u.Alias
	if alias == "" {
		alias = u.Table
	}
	c.Env.ImportTable(alias, tableColumnSpecs(tbl), env.ImportOptions{})

	if u.From != nil {
		c.checkJoinClause(u.From, u.Location())
	}

	for _, set := range u.Sets {
		vt := c.CheckExpr(set.Value)
		if len(set.Columns) == 1 {
			if cd, ok := tbl.Columns.Get(set.Columns[0]); ok {
				c.State.Unify(cd.Type, vt, u.Location())
			} else {
				c.State.Bag.Errorf(u.Location(), "table %s has no column named %s", u.Table, set.Columns[0])
			}
			continue
		}
		row, isRow := vt.(types.Row)
		for i, colName := range set.Columns {
			cd, ok := tbl.Columns.Get(colName)
			if !ok {
				c.State.Bag.Errorf(u.Location(), "table %s has no column named %s", u.Table, colName)
				continue
			}
			if isRow && i < row.Len() {
				c.State.Unify(cd.Type, row.Elem(i), u.Location())
			}
		}
	}
	if u.Where != nil {
		t := c.CheckExpr(u.Where)
		c.State.Unify(t, integer, u.Where.Location())
	}
	if u.Returning != nil {
		return c.checkResultColumns(u.Returning.Columns)
	}
	return nil
}

func (c *Checker) checkDelete(d *ast.Delete) []ResultColumn {
	c.Env.Push()
	defer c.Env.Pop()

	if d.With != nil {
		c.checkWithClause(d.With)
	}
	tbl, ok := c.Schema.LookupTable("", d.Table)
	if !ok {
		c.State.Bag.Errorf(d.Location(), "no such table: %s", d.Table)
		return nil
	}
	alias := d.Alias
	if alias == "" {
		alias = d.Table
	}
	c.Env.ImportTable(alias, tableColumnSpecs(tbl), env.ImportOptions{})
	if d.Where != nil {
		t := c.CheckExpr(d.Where)
		c.State.Unify(t, integer, d.Where.Location())
	}
	if d.Returning != nil {
		return c.checkResultColumns(d.Returning.Columns)
	}
	return nil
}

func tableColumnSpecs(tbl *schema.Table) []env.ColumnSpec {
	specs := make([]env.ColumnSpec, 0, tbl.Columns.Len())
	for name, col := range tbl.Columns.Iter() {
		specs = append(specs, env.ColumnSpec{Name: name, Type: col.Type})
	}
	return specs
}

func (c *Checker) checkCreateTable(ct *ast.CreateTable) {
	if !ct.Strict && c.Schema.RequireStrictTables {
		c.State.Bag.Errorf(ct.Location(), "table %s must be declared STRICT", ct.Name)
	}

	columns := schema.NewColumns()
	var primaryKey []string
	seenPK := false

	for _, cd := range ct.Columns {
		t := c.columnType(cd.Type)
		notNull := false
		hasDefault := false
		isGenerated := false
		isPK := false
		for _, con := range cd.Constraints {
			switch con.Kind {
			case ast.ConstraintNotNull:
				notNull = true
			case ast.ConstraintPrimaryKey:
				isPK = true
			case ast.ConstraintDefault:
				hasDefault = true
				if con.DefaultExpr != nil {
					dt := c.CheckExpr(con.DefaultExpr)
					c.State.Unify(t, dt, ct.Location())
				}
			case ast.ConstraintGenerated:
				isGenerated = true
				if con.GeneratedExpr != nil {
					c.CheckExpr(con.GeneratedExpr)
				}
			case ast.ConstraintCheck:
				if con.CheckExpr != nil {
					c.CheckExpr(con.CheckExpr)
				}
			case ast.ConstraintReferences:
				if _, ok := c.Schema.LookupTable("", con.RefTable); !ok {
					c.State.Bag.Errorf(ct.Location(), "column %s references unknown table %s", cd.Name, con.RefTable)
				}
			}
		}
		if isPK {
			if seenPK {
				c.State.Bag.Errorf(ct.Location(), "table %s declares more than one primary key", ct.Name)
			}
			seenPK = true
			primaryKey = append(primaryKey, cd.Name)
			notNull = true
		}
		finalType := t
		if !notNull {
			finalType = types.Optional{Inner: t}
		}
		columns.Set(cd.Name, schema.Column{Type: finalType, HasDefault: hasDefault, IsGenerated: isGenerated})
	}

	for _, con := range ct.Constraints {
		switch con.Kind {
		case ast.TablePrimaryKey:
			if seenPK {
				c.State.Bag.Errorf(ct.Location(), "table %s declares more than one primary key", ct.Name)
			}
			seenPK = true
			primaryKey = append(primaryKey, con.Columns...)
			for _, colName := range con.Columns {
				if cd, ok := columns.Get(colName); ok {
					columns.Set(colName, schema.Column{Type: stripOptional(cd.Type), HasDefault: cd.HasDefault, IsGenerated: cd.IsGenerated})
				}
			}
		case ast.TableCheck:
			if con.CheckExpr != nil {
				c.CheckExpr(con.CheckExpr)
			}
		case ast.TableForeignKey:
			if _, ok := c.Schema.LookupTable("", con.ForeignKey.RefTable); !ok {
				c.State.Bag.Errorf(ct.Location(), "foreign key references unknown table %s", con.ForeignKey.RefTable)
			}
		}
	}

	c.Schema.PutTable(&schema.Table{
		QName:      schema.QualifiedName{Schema: ct.Schema, Name: ct.Name},
		Columns:    columns,
		PrimaryKey: primaryKey,
		Kind:       schema.TableNormal,
	})
}

func stripOptional(t types.Type) types.Type {
	if inner, ok := types.StripOptional(t); ok {
		return inner
	}
	return t
}

func (c *Checker) columnType(tn ast.TypeName) types.Type {
	base := types.Type(types.Nominal{Name: tn.Name})
	if tn.AliasLabel != "" {
		return types.Alias{Inner: base, Label: tn.AliasLabel, AdapterName: tn.AdapterName}
	}
	return base
}

func (c *Checker) checkAlterTable(at *ast.AlterTable) {
	tbl, ok := c.Schema.LookupTable(at.Schema, at.Table)
	if !ok {
		c.State.Bag.Errorf(at.Location(), "no such table: %s", at.Table)
		return
	}
	if tbl.Kind != schema.TableNormal {
		c.State.Bag.Errorf(at.Location(), "cannot ALTER a view or virtual table: %s", at.Table)
		return
	}
	switch at.Kind {
	case ast.AlterRenameTable:
		c.Schema.DropTable(at.Schema, at.Table)
		tbl.QName.Name = at.NewName
		c.Schema.PutTable(tbl)
	case ast.AlterRenameColumn:
		if col, ok := tbl.Columns.Get(at.OldColumn); ok {
			tbl.Columns.Set(at.NewName, col)
		}
	case ast.AlterAddColumn:
		if at.NewColumn != nil {
			t := c.columnType(at.NewColumn.Type)
			notNull := false
			for _, con := range at.NewColumn.Constraints {
				if con.Kind == ast.ConstraintNotNull {
					notNull = true
				}
			}
			if !notNull {
				t = types.Optional{Inner: t}
			}
			tbl.Columns.Set(at.NewColumn.Name, schema.Column{Type: t})
		}
	case ast.AlterDropColumn:
		// Columns has no delete method by design: dropped columns simply
		// stop being referenced by future statements once a fresh Schema is
		// built from DDL that no longer declares them. Nothing to do here.
	}
}

func (c *Checker) checkCreateIndex(ci *ast.CreateIndex) {
	tbl, ok := c.Schema.LookupTable("", ci.Table)
	if !ok {
		c.State.Bag.Errorf(ci.Location(), "no such table: %s", ci.Table)
		return
	}
	c.Env.Push()
	defer c.Env.Pop()
	c.Env.ImportTable(ci.Table, tableColumnSpecs(tbl), env.ImportOptions{})
	for _, col := range ci.Columns {
		if col.Expr != nil {
			c.CheckExpr(col.Expr)
		} else if _, ok := tbl.Columns.Get(col.Column); !ok {
			c.State.Bag.Errorf(ci.Location(), "table %s has no column named %s", ci.Table, col.Column)
		}
	}
	if ci.Where != nil {
		t := c.CheckExpr(ci.Where)
		c.State.Unify(t, integer, ci.Where.Location())
	}
	c.Schema.PutIndex(&schema.Index{QName: schema.QualifiedName{Name: ci.Name}, TableName: ci.Table})
}

func (c *Checker) checkCreateView(cv *ast.CreateView) {
	cols := c.CheckSelect(cv.Select)
	columns := schema.NewColumns()
	for i, rc := range cols {
		name := ""
		if i < len(cv.Columns) {
			name = cv.Columns[i]
		} else if rc.Name.Kind == nameinfer.NameSome {
			name = rc.Name.Text
		}
		columns.Set(name, schema.Column{Type: rc.Type})
	}
	c.Schema.PutTable(&schema.Table{
		QName:   schema.QualifiedName{Name: cv.Name},
		Columns: columns,
		Kind:    schema.TableView,
	})
}

func (c *Checker) checkCreateTrigger(ct *ast.CreateTrigger) {
	tbl, ok := c.Schema.LookupTable("", ct.Table)
	if !ok {
		c.State.Bag.Errorf(ct.Location(), "no such table: %s", ct.Table)
		return
	}
	c.Env.Push()
	defer c.Env.Pop()

	switch ct.Event {
	case ast.TriggerInsert:
		c.Env.ImportTable("new", tableColumnSpecs(tbl), env.ImportOptions{QualifiedOnly: true})
	case ast.TriggerDelete:
		c.Env.ImportTable("old", tableColumnSpecs(tbl), env.ImportOptions{QualifiedOnly: true})
	case ast.TriggerUpdate:
		c.Env.ImportTable("new", tableColumnSpecs(tbl), env.ImportOptions{QualifiedOnly: true})
		c.Env.ImportTable("old", tableColumnSpecs(tbl), env.ImportOptions{QualifiedOnly: true})
	}

	used := make(map[string]bool)
	for _, stmt := range ct.Body {
		c.CheckStmt(stmt)
	}
	c.Schema.PutTrigger(&schema.Trigger{
		QName:       schema.QualifiedName{Name: ct.Name},
		TargetTable: ct.Table,
		UsedTables:  used,
	})
}

func (c *Checker) checkCreateVirtualTable(cvt *ast.CreateVirtualTable) {
	columns := schema.NewColumns()
	for _, cd := range cvt.Columns {
		columns.Set(cd.Name, schema.Column{Type: text})
	}
	kind := schema.TableNormal
	if cvt.Module == "fts5" || cvt.Module == "fts4" || cvt.Module == "fts3" {
		kind = schema.TableFTS5
	}
	c.Schema.PutTable(&schema.Table{
		QName:   schema.QualifiedName{Name: cvt.Name},
		Columns: columns,
		Kind:    kind,
	})
}

// knownPragmas are the pragma names the checker recognizes; anything else
// is still accepted (SQLite itself ignores unknown pragmas) but produces
// no schema-level effect.
var knownPragmas = map[string]bool{
	"require_strict_tables": true,
	"foreign_keys":          true,
	"legacy_alter_table":    true,
}

func (c *Checker) checkPragma(p *ast.Pragma) {
	if !knownPragmas[p.Name] {
		c.State.Bag.Warnf(p.Location(), "unrecognized pragma: %s", p.Name)
		return
	}
	if p.Name == "require_strict_tables" && (p.Value == "1" || p.Value == "on" || p.Value == "true") {
		c.Schema.RequireStrictTables = true
	}
}
