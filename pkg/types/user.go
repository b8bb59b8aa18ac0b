package types

import (
	"encoding/json"
	"fmt"
)

type UserID int

type User struct {
	ID    UserID `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Age   int    `json:"age"`
}

func (wanted *User) Compare(found *User) error {
	if wanted == found {
		return nil
	}

	if wanted == nil && found != nil {
		return fmt.Errorf("User: wanted `nil`; found not-nil")
	}

	if wanted != nil && found == nil {
		return fmt.Errorf("User: wanted not-nil; found `nil`")
	}

	if wanted.ID != found.ID {
		return fmt.Errorf(
			"User.ID: wanted `%d`; found `%d`",
			wanted.ID,
			found.ID,
		)
	}

	if wanted.Name != found.Name {
		return fmt.Errorf(
			"User.Name: wanted `%s`; found `%s`",
			wanted.Name,
			found.Name,
		)
	}

	if wanted.Email != found.Email {
		return fmt.Errorf(
			"User.Email: wanted `%s`; found `%s`",
			wanted.Email,
			found.Email,
		)
	}

	if wanted.Age != found.Age {
		return fmt.Errorf(
			"User.Age: wanted `%d`; found `%d`",
			wanted.Age,
			found.Age,
		)
	}

	return nil
}

func (wanted *User) CompareData(data []byte) error {
	var other User
	if err := json.Unmarshal(data, &other); err != nil {
		return fmt.Errorf("unmarshaling `User`: %w", err)
	}
	return wanted.Compare(&other)
}

func CompareUsers(wanted, found []*User) error {
	if len(wanted) != len(found) {
		return fmt.Errorf(
			"len([]*User): wanted `%d`; found `%d`",
			len(wanted),
			len(found),
		)
	}

	for i := range wanted {
		if err := wanted[i].Compare(found[i]); err != nil {
			return fmt.Errorf("users[%d]: %w", i, err)
		}
	}

	return nil
}

type Users []*User

func (wanted Users) CompareData(data []byte) error {
	var found []*User
	if err := json.Unmarshal(data, &found); err != nil {
		return fmt.Errorf("unmarshaling `[]*User`: %w", err)
	}
	return CompareUsers(wanted, found)
}
