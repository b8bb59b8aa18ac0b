package memuserstore

import (
	"sync"

	"github.com/weberc2/users/pkg/types"
)

// MemUserStore is an in-memory `types.UserStore`. A single mutex
// serializes all operations so each operation is atomic; ids come from a
// monotonic counter which is never rewound, so ids are never reused even
// after deletion.
type MemUserStore struct {
	mu     sync.Mutex
	users  []*types.User
	nextID types.UserID
}

// New creates a `MemUserStore`, inserting the provided seed records in
// order (their ids are assigned by the store, starting from 1).
func New(seed ...*types.User) *MemUserStore {
	store := &MemUserStore{nextID: 1}
	for _, user := range seed {
		cp := *user
		cp.ID = store.nextID
		store.nextID++
		store.users = append(store.users, &cp)
	}
	return store
}

func (mus *MemUserStore) List() ([]*types.User, error) {
	mus.mu.Lock()
	defer mus.mu.Unlock()

	// copy the records so callers can't mutate the store's state. The
	// slice is non-nil even when empty so it JSON-marshals to `[]`
	// rather than `null`.
	users := make([]*types.User, len(mus.users))
	for i, user := range mus.users {
		cp := *user
		users[i] = &cp
	}
	return users, nil
}

func (mus *MemUserStore) Get(id types.UserID) (*types.User, error) {
	mus.mu.Lock()
	defer mus.mu.Unlock()

	for _, user := range mus.users {
		if user.ID == id {
			cp := *user
			return &cp, nil
		}
	}
	return nil, types.ErrUserNotFound
}

func (mus *MemUserStore) Create(user *types.User) (*types.User, error) {
	mus.mu.Lock()
	defer mus.mu.Unlock()

	cp := *user
	cp.ID = mus.nextID
	mus.nextID++
	mus.users = append(mus.users, &cp)

	out := cp
	return &out, nil
}

func (mus *MemUserStore) Update(id types.UserID, input *types.User) error {
	mus.mu.Lock()
	defer mus.mu.Unlock()

	for _, user := range mus.users {
		if user.ID == id {
			// merge-skip: empty/zero input fields mean "no change
			// requested". A caller can't clear `name`/`email` or set
			// `age` to 0 through this path.
			if input.Name != "" {
				user.Name = input.Name
			}
			if input.Email != "" {
				user.Email = input.Email
			}
			if input.Age != 0 {
				user.Age = input.Age
			}
			return nil
		}
	}
	return types.ErrUserNotFound
}

func (mus *MemUserStore) Delete(id types.UserID) error {
	mus.mu.Lock()
	defer mus.mu.Unlock()

	for i, user := range mus.users {
		if user.ID == id {
			mus.users = append(mus.users[:i], mus.users[i+1:]...)
			return nil
		}
	}
	return types.ErrUserNotFound
}

var _ types.UserStore = &MemUserStore{}
