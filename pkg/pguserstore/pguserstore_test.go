package pguserstore

import (
	"fmt"
	"log"
	"testing"

	"github.com/weberc2/users/pkg/types"
)

func TestPGUserStore_Create(t *testing.T) {
	if err := prepare(nil); err != nil {
		t.Fatal(err)
	}

	first, err := store.Create(&types.User{
		// client-supplied ids are ignored
		ID:    42,
		Name:  "John Doe",
		Email: "john.doe@example.com",
		Age:   30,
	})
	if err != nil {
		t.Fatalf("unexpected error creating user: %v", err)
	}
	if err := (&types.User{
		ID:    1,
		Name:  "John Doe",
		Email: "john.doe@example.com",
		Age:   30,
	}).Compare(first); err != nil {
		t.Fatal(err)
	}

	// ids must keep increasing after the highest id is deleted
	second, err := store.Create(&types.User{
		Name:  "Jane Smith",
		Email: "jane.smith@example.com",
		Age:   25,
	})
	if err != nil {
		t.Fatalf("unexpected error creating user: %v", err)
	}
	if err := store.Delete(second.ID); err != nil {
		t.Fatalf("unexpected error deleting user: %v", err)
	}
	third, err := store.Create(&types.User{
		Name:  "Al Li",
		Email: "al@x.com",
		Age:   40,
	})
	if err != nil {
		t.Fatalf("unexpected error creating user: %v", err)
	}
	if third.ID != 3 {
		t.Fatalf("third user id: wanted `3`; found `%d`", third.ID)
	}
}

func TestPGUserStore_Get(t *testing.T) {
	for _, testCase := range []struct {
		name       string
		state      []*types.User
		id         types.UserID
		wantedUser *types.User
		wantedErr  types.WantedError
	}{
		{
			name: "simple",
			state: []*types.User{{
				Name:  "John Doe",
				Email: "john.doe@example.com",
				Age:   30,
			}},
			id: 1,
			wantedUser: &types.User{
				ID:    1,
				Name:  "John Doe",
				Email: "john.doe@example.com",
				Age:   30,
			},
		},
		{
			name:      "not found",
			state:     nil,
			id:        1,
			wantedErr: types.ErrUserNotFound,
		},
	} {
		t.Run(testCase.name, func(t *testing.T) {
			if err := prepare(testCase.state); err != nil {
				t.Fatal(err)
			}

			user, err := store.Get(testCase.id)
			if testCase.wantedErr == nil {
				testCase.wantedErr = types.NilError{}
			}
			if err := testCase.wantedErr.CompareErr(err); err != nil {
				t.Fatal(err)
			}
			if err := testCase.wantedUser.Compare(user); err != nil {
				t.Fatal(err)
			}
		})
	}
}

func TestPGUserStore_Update(t *testing.T) {
	for _, testCase := range []struct {
		name        string
		state       []*types.User
		id          types.UserID
		input       *types.User
		wantedState []*types.User
		wantedErr   types.WantedError
	}{
		{
			name: "overwrites non-empty fields",
			state: []*types.User{{
				Name:  "John Doe",
				Email: "john.doe@example.com",
				Age:   30,
			}},
			id: 1,
			input: &types.User{
				Name:  "Johnny Doe",
				Email: "johnny@example.com",
				Age:   31,
			},
			wantedState: []*types.User{{
				ID:    1,
				Name:  "Johnny Doe",
				Email: "johnny@example.com",
				Age:   31,
			}},
		},
		{
			name: "skips empty and zero fields",
			state: []*types.User{{
				Name:  "John Doe",
				Email: "john.doe@example.com",
				Age:   30,
			}},
			id:    1,
			input: &types.User{},
			wantedState: []*types.User{{
				ID:    1,
				Name:  "John Doe",
				Email: "john.doe@example.com",
				Age:   30,
			}},
		},
		{
			name:        "not found",
			state:       nil,
			id:          1,
			input:       &types.User{Name: "John Doe"},
			wantedState: []*types.User{},
			wantedErr:   types.ErrUserNotFound,
		},
	} {
		t.Run(testCase.name, func(t *testing.T) {
			if err := prepare(testCase.state); err != nil {
				t.Fatal(err)
			}

			if testCase.wantedErr == nil {
				testCase.wantedErr = types.NilError{}
			}
			if err := testCase.wantedErr.CompareErr(
				store.Update(testCase.id, testCase.input),
			); err != nil {
				t.Fatal(err)
			}

			found, err := store.List()
			if err != nil {
				t.Fatalf("unexpected error listing users: %v", err)
			}
			if err := types.CompareUsers(
				testCase.wantedState,
				found,
			); err != nil {
				t.Fatal(err)
			}
		})
	}
}

func TestPGUserStore_Delete(t *testing.T) {
	for _, testCase := range []struct {
		name        string
		state       []*types.User
		id          types.UserID
		wantedState []*types.User
		wantedErr   types.WantedError
	}{
		{
			name: "preserves insertion order",
			state: []*types.User{{
				Name:  "John Doe",
				Email: "john.doe@example.com",
				Age:   30,
			}, {
				Name:  "Jane Smith",
				Email: "jane.smith@example.com",
				Age:   25,
			}, {
				Name:  "Al Li",
				Email: "al@x.com",
				Age:   40,
			}},
			id: 2,
			wantedState: []*types.User{{
				ID:    1,
				Name:  "John Doe",
				Email: "john.doe@example.com",
				Age:   30,
			}, {
				ID:    3,
				Name:  "Al Li",
				Email: "al@x.com",
				Age:   40,
			}},
		},
		{
			name:        "not found",
			state:       nil,
			id:          1,
			wantedState: []*types.User{},
			wantedErr:   types.ErrUserNotFound,
		},
	} {
		t.Run(testCase.name, func(t *testing.T) {
			if err := prepare(testCase.state); err != nil {
				t.Fatal(err)
			}

			if testCase.wantedErr == nil {
				testCase.wantedErr = types.NilError{}
			}
			if err := testCase.wantedErr.CompareErr(
				store.Delete(testCase.id),
			); err != nil {
				t.Fatal(err)
			}

			found, err := store.List()
			if err != nil {
				t.Fatalf("unexpected error listing users: %v", err)
			}
			if err := types.CompareUsers(
				testCase.wantedState,
				found,
			); err != nil {
				t.Fatal(err)
			}
		})
	}
}

var store = func() *PGUserStore {
	s, err := OpenEnv()
	if err != nil {
		log.Fatalf("unexpected error opening user store database: %v", err)
	}
	if err := s.ResetTable(); err != nil {
		log.Fatalf(
			"unexpected error resetting user store postgres table: %v",
			err,
		)
	}
	return s
}()

// prepare resets the table (which also restarts the id sequence) and
// inserts the provided records in order, so their ids are 1..n.
func prepare(state []*types.User) error {
	if err := store.ResetTable(); err != nil {
		return fmt.Errorf("preparing postgres table: %w", err)
	}

	for i, user := range state {
		if _, err := store.Create(user); err != nil {
			return fmt.Errorf(
				"preparing postgres table: "+
					"unexpected error inserting state item at index `%d`: %w",
				i,
				err,
			)
		}
	}

	return nil
}
