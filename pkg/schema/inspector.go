package schema

import (
	"context"
	"database/sql"
	"slices"

	"github.com/matzehuels/gliffydb/pkg/errors"
)

type inspector struct {
	db *sql.DB
	q  queries
}

// Tables implements Inspector.
func (i *inspector) Tables(ctx context.Context, filter ...string) ([]Table, error) {
	for _, name := range filter {
		if err := errors.ValidateIdentifier(name); err != nil {
			return nil, err
		}
	}
	names, err := i.tableNames(ctx)
	if err != nil {
		return nil, err
	}
	if len(filter) > 0 {
		for _, want := range filter {
			if !slices.Contains(names, want) {
				return nil, errors.New(errors.ErrCodeNotFound, "table %q not found", want)
			}
		}
		names = slices.DeleteFunc(names, func(n string) bool { return !slices.Contains(filter, n) })
	}

	tables := make([]Table, 0, len(names))
	for _, name := range names {
		t := Table{Name: name}
		if t.Columns, err = i.columns(ctx, name); err != nil {
			return nil, err
		}
		if t.ForeignKeys, err = i.foreignKeys(ctx, name); err != nil {
			return nil, err
		}
		tables = append(tables, t)
	}
	resolveImplicitRefs(tables)
	return tables, nil
}

// Close implements Inspector.
func (i *inspector) Close() error { return i.db.Close() }

func (i *inspector) tableNames(ctx context.Context) ([]string, error) {
	rows, err := i.db.QueryContext(ctx, i.q.tables)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "list tables")
	}
	defer rows.Close()

	var names []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, errors.Wrap(errors.ErrCodeInternal, err, "scan table name")
		}
		names = append(names, name)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "list tables")
	}
	slices.Sort(names)
	return names, nil
}

func (i *inspector) columns(ctx context.Context, table string) ([]Column, error) {
	rows, err := i.db.QueryContext(ctx, i.q.columns, table)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "columns of %s", table)
	}
	defer rows.Close()

	var cols []Column
	for rows.Next() {
		var (
			c            Column
			nullable, pk int64
		)
		if err := rows.Scan(&c.Name, &c.Type, &nullable, &pk); err != nil {
			return nil, errors.Wrap(errors.ErrCodeInternal, err, "scan column of %s", table)
		}
		c.Nullable, c.PrimaryKey = nullable != 0, pk != 0
		cols = append(cols, c)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "columns of %s", table)
	}
	return cols, nil
}

func (i *inspector) foreignKeys(ctx context.Context, table string) ([]ForeignKey, error) {
	rows, err := i.db.QueryContext(ctx, i.q.foreignKeys, table)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "foreign keys of %s", table)
	}
	defer rows.Close()

	var fks []ForeignKey
	for rows.Next() {
		var (
			fk     ForeignKey
			refCol sql.NullString
		)
		if err := rows.Scan(&fk.Column, &fk.RefTable, &refCol); err != nil {
			return nil, errors.Wrap(errors.ErrCodeInternal, err, "scan foreign key of %s", table)
		}
		fk.RefColumn = refCol.String
		fks = append(fks, fk)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "foreign keys of %s", table)
	}
	return fks, nil
}

// resolveImplicitRefs fills in referenced columns left out of the catalog
// (sqlite's "REFERENCES users" form) with the first primary key column of
// the referenced table.
func resolveImplicitRefs(tables []Table) {
	for ti := range tables {
		for fi, fk := range tables[ti].ForeignKeys {
			if fk.RefColumn != "" {
				continue
			}
			for _, ref := range tables {
				if ref.Name != fk.RefTable {
					continue
				}
				if pks := ref.PrimaryKeys(); len(pks) > 0 {
					tables[ti].ForeignKeys[fi].RefColumn = pks[0]
				}
			}
		}
	}
}

var _ Inspector = (*inspector)(nil)
