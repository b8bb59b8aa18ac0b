package pguserstore

import (
	"database/sql"
	"errors"
	"fmt"
	"sort"

	_ "github.com/lib/pq"
	"github.com/weberc2/users/pkg/pgutil"
	"github.com/weberc2/users/pkg/types"
)

// PGUserStore is a `types.UserStore` backed by a postgres table. Ids are
// drawn from a dedicated sequence so they stay strictly increasing and
// are never reused, even after deletion.
type PGUserStore sql.DB

func OpenEnv() (*PGUserStore, error) {
	db, err := pgutil.OpenEnvPing()
	return (*PGUserStore)(db), err
}

func (pgus *PGUserStore) EnsureTable() error {
	if err := Table.Ensure((*sql.DB)(pgus)); err != nil {
		return err
	}
	if _, err := (*sql.DB)(pgus).Exec(fmt.Sprintf(
		"CREATE SEQUENCE IF NOT EXISTS \"%s\" OWNED BY \"%s\".\"%s\"",
		idSequenceName,
		Table.Name,
		idColumnName,
	)); err != nil {
		return fmt.Errorf("creating `%s` id sequence: %w", Table.Name, err)
	}
	return nil
}

func (pgus *PGUserStore) DropTable() error {
	// the sequence is `OWNED BY` the id column, so dropping the table
	// drops it too.
	return Table.Drop((*sql.DB)(pgus))
}

func (pgus *PGUserStore) ClearTable() error {
	return Table.Clear((*sql.DB)(pgus))
}

func (pgus *PGUserStore) ResetTable() error {
	if err := pgus.DropTable(); err != nil {
		return err
	}
	return pgus.EnsureTable()
}

func (pgus *PGUserStore) List() ([]*types.User, error) {
	// we don't want to return a `nil` slice because that gets
	// JSON-marshaled to `null` instead of `[]`.
	users := []*types.User{}

	result, err := Table.List((*sql.DB)(pgus))
	if err != nil {
		return nil, fmt.Errorf("listing users: %w", err)
	}

	for result.Next() {
		var user types.User
		if err := result.Scan((*userItem)(&user)); err != nil {
			return nil, fmt.Errorf("listing users: %w", err)
		}
		users = append(users, &user)
	}

	// ids are assigned in insertion order, so sorting by id yields
	// insertion order.
	sort.Slice(users, func(i, j int) bool {
		return users[i].ID < users[j].ID
	})

	return users, nil
}

func (pgus *PGUserStore) Get(id types.UserID) (*types.User, error) {
	var user types.User
	if err := Table.Get(
		(*sql.DB)(pgus),
		&userItem{ID: id},
		(*userItem)(&user),
	); err != nil {
		return nil, err
	}
	return &user, nil
}

func (pgus *PGUserStore) Create(user *types.User) (*types.User, error) {
	cp := *user
	if err := (*sql.DB)(pgus).QueryRow(
		fmt.Sprintf(
			"INSERT INTO \"%s\" (\"%s\", \"name\", \"email\", \"age\") "+
				"VALUES (nextval('%s'), $1, $2, $3) RETURNING \"%s\"",
			Table.Name,
			idColumnName,
			idSequenceName,
			idColumnName,
		),
		user.Name,
		user.Email,
		user.Age,
	).Scan((*int)(&cp.ID)); err != nil {
		return nil, fmt.Errorf(
			"inserting user into `%s` postgres table: %w",
			Table.Name,
			err,
		)
	}
	return &cp, nil
}

func (pgus *PGUserStore) Update(id types.UserID, user *types.User) error {
	var dummy int
	if err := (*sql.DB)(pgus).QueryRow(
		// merge-skip: `NULLIF` maps empty/zero input fields to NULL and
		// `COALESCE` falls back to the existing value. `RETURNING`
		// forces `Scan()` to return `sql.ErrNoRows` if no row matched.
		fmt.Sprintf(
			"UPDATE \"%s\" SET "+
				"\"name\"=COALESCE(NULLIF($2, ''), \"name\"), "+
				"\"email\"=COALESCE(NULLIF($3, ''), \"email\"), "+
				"\"age\"=COALESCE(NULLIF($4, 0), \"age\") "+
				"WHERE \"%s\"=$1 RETURNING \"%s\"",
			Table.Name,
			idColumnName,
			idColumnName,
		),
		int(id),
		user.Name,
		user.Email,
		user.Age,
	).Scan(&dummy); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return types.ErrUserNotFound
		}
		return fmt.Errorf(
			"updating user in `%s` postgres table: %w",
			Table.Name,
			err,
		)
	}
	return nil
}

// Exists returns `nil` if a record exists with the given id, otherwise
// `types.ErrUserNotFound`.
func (pgus *PGUserStore) Exists(id types.UserID) error {
	return Table.Exists((*sql.DB)(pgus), &userItem{ID: id})
}

func (pgus *PGUserStore) Delete(id types.UserID) error {
	return Table.Delete((*sql.DB)(pgus), &userItem{ID: id})
}

// Insert puts a user into the table with its id as given, bypassing the
// id sequence. It backs the admin CLI; the HTTP API always assigns ids
// via `Create`.
func (pgus *PGUserStore) Insert(user *types.User) error {
	return Table.Insert((*sql.DB)(pgus), (*userItem)(user))
}

type userItem types.User

func (item *userItem) Values(values []interface{}) {
	values[0] = int(item.ID)
	values[1] = item.Name
	values[2] = item.Email
	values[3] = item.Age
}

func (item *userItem) Scan(pointers []interface{}) {
	pointers[0] = (*int)(&item.ID)
	pointers[1] = &item.Name
	pointers[2] = &item.Email
	pointers[3] = &item.Age
}

var (
	_ types.UserStore = &PGUserStore{}

	idColumnName   = "id"
	idSequenceName = "users_id_seq"

	Table = pgutil.Table{
		Name:        "users",
		PrimaryKeys: []pgutil.Column{{Name: idColumnName, Type: "INTEGER"}},
		OtherColumns: []pgutil.Column{
			{Name: "name", Type: "VARCHAR(100)"},
			{Name: "email", Type: "VARCHAR(255)"},
			{Name: "age", Type: "INTEGER"},
		},
		ExistsErr:   types.ErrUserExists,
		NotFoundErr: types.ErrUserNotFound,
	}
)
