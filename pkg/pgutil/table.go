package pgutil

import (
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/lib/pq"
)

// Column represents a SQL table column.
type Column struct {
	// Name is the name of the column.
	Name string

	// Null specifies whether the column accepts null values.
	Null bool

	// Type contains the name of the column's type, e.g., `VARCHAR(255)`
	// or `INTEGER`.
	Type string
}

func (c *Column) createSQL(sb *strings.Builder) {
	c.nameSQL(sb)
	sb.WriteByte(' ')
	sb.WriteString(c.Type)
	if !c.Null {
		sb.WriteString(" NOT NULL")
	}
}

func (c *Column) nameSQL(sb *strings.Builder) {
	sb.WriteByte('"')
	sb.WriteString(c.Name)
	sb.WriteByte('"')
}

// Table represents a SQL table.
type Table struct {
	// Name is the name of the table.
	Name string

	// PrimaryKeys are the primary key columns. These must not overlap
	// with the `OtherColumns` field.
	PrimaryKeys []Column

	// OtherColumns is the list of non-primary-key columns in the table.
	OtherColumns []Column

	// ExistsErr is returned when there is a primary key conflict error.
	ExistsErr error

	// NotFoundErr is returned when a primary key can't be found.
	NotFoundErr error
}

func (t *Table) Columns() []Column {
	return append(t.PrimaryKeys, t.OtherColumns...)
}

// List returns an iterator over all records in the table.
func (t *Table) List(db *sql.DB) (*Result, error) {
	var sb strings.Builder
	t.columnNames(&sb)

	rows, err := db.Query(fmt.Sprintf(
		"SELECT %s FROM \"%s\"",
		sb.String(),
		t.Name,
	))
	if err != nil {
		return nil, fmt.Errorf("listing rows from table `%s`: %w", t.Name, err)
	}

	return &Result{rows: rows, pointers: t.buffer()}, nil
}

// Get retrieves a single record by primary key and scans it into the
// provided `out` item. If the record isn't found, the table's
// `NotFoundErr` field is returned.
func (t *Table) Get(db *sql.DB, id, out Item) error {
	var columnNames, predicate strings.Builder
	t.columnNames(&columnNames)
	t.primaryKeysPredicate(&predicate)

	if err := db.QueryRow(
		fmt.Sprintf(
			"SELECT %s FROM \"%s\" WHERE %s",
			columnNames.String(),
			t.Name,
			predicate.String(),
		),
		t.primaryKeys(id)...,
	).Scan(t.pointers(out)...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return t.NotFoundErr
		}
		return fmt.Errorf(
			"getting record from `%s` postgres table: %w",
			t.Name,
			err,
		)
	}

	return nil
}

// Exists returns `nil` if a record exists for the provided primary key,
// otherwise the table's `NotFoundErr` field.
func (t *Table) Exists(db *sql.DB, item Item) error {
	var dummy bool
	var sb strings.Builder
	t.primaryKeysPredicate(&sb)
	if err := db.QueryRow(
		fmt.Sprintf("SELECT true FROM \"%s\" WHERE %s", t.Name, sb.String()),
		t.primaryKeys(item)...,
	).Scan(&dummy); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return t.NotFoundErr
		}
		return fmt.Errorf("checking for row in table `%s`: %w", t.Name, err)
	}
	return nil
}

// Delete deletes the record with the provided primary key, returning the
// table's `NotFoundErr` field if no such record exists.
func (t *Table) Delete(db *sql.DB, id Item) error {
	var predicate strings.Builder
	t.primaryKeysPredicate(&predicate)
	var dummy string
	if err := db.QueryRow(
		// `RETURNING` some value forces `Scan()` to return
		// `sql.ErrNoRows` if no rows were deleted.
		fmt.Sprintf(
			"DELETE FROM \"%s\" WHERE %s RETURNING 'dummy'",
			t.Name,
			predicate.String(),
		),
		t.primaryKeys(id)...,
	).Scan(&dummy); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return t.NotFoundErr
		}
		return fmt.Errorf("deleting row from table `%s`: %w", t.Name, err)
	}
	return nil
}

// Insert puts the provided item into the table. If a record already
// exists with the same primary key, the table's `ExistsErr` field is
// returned.
func (t *Table) Insert(db *sql.DB, item Item) error {
	values := t.buffer()
	item.Values(values)
	if _, err := db.Exec(t.insertSQL(), values...); err != nil {
		if err, ok := err.(*pq.Error); ok && err.Code == "23505" &&
			err.Constraint == fmt.Sprintf("%s_pkey", t.Name) {
			return t.ExistsErr
		}
		return fmt.Errorf(
			"inserting row into postgres table `%s`: %w",
			t.Name,
			err,
		)
	}
	return nil
}

func (t *Table) insertSQL() string {
	columns := t.Columns()
	var sb strings.Builder
	sb.WriteString("INSERT INTO \"")
	sb.WriteString(t.Name)
	sb.WriteString("\" (")
	columnsNames(&sb, &columns[0], columns[1:]...)
	sb.WriteString(") VALUES(")
	placeholders(&sb, len(columns))
	sb.WriteByte(')')
	return sb.String()
}

// Ensure creates the table if it doesn't already exist. If the table
// already exists but has a different schema, it will not be changed.
func (t *Table) Ensure(db *sql.DB) error {
	if _, err := db.Exec(fmt.Sprintf(
		"CREATE TABLE IF NOT EXISTS \"%s\" %s",
		t.Name,
		t.createColumnsSQL(),
	)); err != nil {
		return fmt.Errorf("creating `%s` postgres table: %w", t.Name, err)
	}
	return nil
}

// Drop drops the table.
func (t *Table) Drop(db *sql.DB) error {
	if _, err := db.Exec(fmt.Sprintf(
		"DROP TABLE IF EXISTS \"%s\"",
		t.Name,
	)); err != nil {
		return fmt.Errorf("dropping table `%s`: %w", t.Name, err)
	}
	return nil
}

// Clear deletes all rows from the table without dropping it.
func (t *Table) Clear(db *sql.DB) error {
	if _, err := db.Exec(fmt.Sprintf(
		"DELETE FROM \"%s\"",
		t.Name,
	)); err != nil {
		return fmt.Errorf("clearing `%s` postgres table: %w", t.Name, err)
	}
	return nil
}

func (t *Table) createColumnsSQL() string {
	var sb strings.Builder
	sb.WriteByte('(')
	t.PrimaryKeys[0].createSQL(&sb)
	tail := append(t.PrimaryKeys[1:], t.OtherColumns...)
	for i := range tail {
		sb.WriteByte(',')
		sb.WriteByte(' ')
		tail[i].createSQL(&sb)
	}
	sb.WriteString(", PRIMARY KEY (")
	t.primaryKeysNames(&sb)
	sb.WriteByte(')')
	sb.WriteByte(')')
	return sb.String()
}

func (t *Table) buffer() []interface{} {
	return make([]interface{}, len(t.PrimaryKeys)+len(t.OtherColumns))
}

func (t *Table) pointers(item Item) []interface{} {
	buf := t.buffer()
	item.Scan(buf)
	return buf
}

func (t *Table) primaryKeys(item Item) []interface{} {
	buf := t.buffer()
	item.Values(buf)
	return buf[:len(t.PrimaryKeys)]
}

func (t *Table) primaryKeysNames(sb *strings.Builder) {
	columnsNames(sb, &t.PrimaryKeys[0], t.PrimaryKeys[1:]...)
}

func (t *Table) primaryKeysPredicate(sb *strings.Builder) {
	columnsPredicate(sb, t.Name, &t.PrimaryKeys[0], t.PrimaryKeys[1:]...)
}

func (t *Table) columnNames(sb *strings.Builder) {
	columnsNames(
		sb,
		&t.PrimaryKeys[0],
		append(t.PrimaryKeys[1:], t.OtherColumns...)...,
	)
}

func columnsNames(sb *strings.Builder, head *Column, tail ...Column) {
	head.nameSQL(sb)

	for i := range tail {
		sb.WriteByte(',')
		sb.WriteByte(' ')
		tail[i].nameSQL(sb)
	}
}

func columnPredicate(
	sb *strings.Builder,
	table string,
	c *Column,
	placeholder int,
) {
	sb.WriteByte('"')
	sb.WriteString(table)
	sb.WriteByte('"')
	sb.WriteByte('.')

	c.nameSQL(sb)
	sb.WriteByte('=')
	sb.WriteByte('$')
	sb.WriteString(strconv.Itoa(placeholder))
}

func columnsPredicate(
	sb *strings.Builder,
	table string,
	head *Column,
	tail ...Column,
) {
	columnPredicate(sb, table, head, 1)
	for i := range tail {
		sb.WriteString(" AND ")
		columnPredicate(sb, table, &tail[i], i+2)
	}
}

func placeholders(sb *strings.Builder, n int) {
	if n < 1 {
		return
	}

	sb.WriteByte('$')
	sb.WriteByte('1')

	for i := 2; i < n+1; i++ {
		sb.WriteByte(',')
		sb.WriteByte(' ')
		sb.WriteByte('$')
		sb.WriteString(strconv.Itoa(i))
	}
}

// Item represents a record in the table. It facilitates conversion
// between Go types and SQL records.
type Item interface {
	// Values takes a buffer with one slot per column in the table and
	// populates it *with values*. This is used for insert operations.
	Values([]interface{})

	// Scan takes a buffer with one slot per column in the table and
	// populates it *with pointers* to data in the item. This is used for
	// operations which retrieve data from the database.
	Scan([]interface{})
}
