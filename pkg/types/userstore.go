package types

import (
	"net/http"

	pz "github.com/weberc2/httpeasy"
)

var (
	// ErrUserNotFound is returned by store operations which reference an
	// id that doesn't exist in the store.
	ErrUserNotFound = &pz.HTTPError{
		Status:  http.StatusNotFound,
		Message: "user not found",
	}

	// ErrUserExists is returned when an insert collides with an existing
	// id. It can't happen through the HTTP API (ids are server-assigned)
	// but backends surface it for direct writes, e.g. via the admin CLI.
	ErrUserExists = &pz.HTTPError{
		Status:  http.StatusConflict,
		Message: "user exists",
	}
)

// UserStore is the authoritative collection of `User` records. Ids are
// assigned by `Create` from a monotonic counter; they are unique, strictly
// increasing, and never reused, even after deletion.
type UserStore interface {
	// List returns all records in insertion order. An empty store yields
	// an empty (non-nil) slice.
	List() ([]*User, error)

	// Get returns the record with the given id or `ErrUserNotFound`.
	Get(UserID) (*User, error)

	// Create ignores any client-supplied id, assigns the next id, and
	// returns the stored record.
	Create(*User) (*User, error)

	// Update merges the input into the record with the given id. Empty
	// `name`/`email` and zero `age` input fields leave the existing
	// values untouched (merge-skip). Returns `ErrUserNotFound` if no
	// record has the given id.
	Update(UserID, *User) error

	// Delete removes the record with the given id or returns
	// `ErrUserNotFound`.
	Delete(UserID) error
}
