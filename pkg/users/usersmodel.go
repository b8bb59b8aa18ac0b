package users

import (
	"fmt"
	"net/mail"
	"unicode/utf8"

	"github.com/weberc2/users/pkg/types"
)

const (
	nameLenMin = 2
	nameLenMax = 100
	ageMin     = 18
	ageMax     = 120
)

// UsersModel validates input before it reaches the store. Full
// validation applies on create; on update only the fields the caller
// actually supplied (non-empty/non-zero) are checked, since absent
// fields mean "no change requested".
type UsersModel struct {
	types.UserStore
}

func (um *UsersModel) Create(user *types.User) (*types.User, error) {
	if err := validateUser(user, false); err != nil {
		return nil, err
	}
	return um.UserStore.Create(user)
}

func (um *UsersModel) Update(id types.UserID, user *types.User) error {
	if err := validateUser(user, true); err != nil {
		return err
	}
	return um.UserStore.Update(id, user)
}

func validateUser(user *types.User, partial bool) error {
	var fields []types.FieldError

	if user.Name == "" {
		if !partial {
			fields = append(fields, types.FieldError{
				Field:   "name",
				Message: "name is required",
			})
		}
	} else if n := utf8.RuneCountInString(user.Name); n < nameLenMin ||
		n > nameLenMax {
		fields = append(fields, types.FieldError{
			Field: "name",
			Message: fmt.Sprintf(
				"name must be between %d and %d characters",
				nameLenMin,
				nameLenMax,
			),
		})
	}

	if user.Email == "" {
		if !partial {
			fields = append(fields, types.FieldError{
				Field:   "email",
				Message: "email is required",
			})
		}
	} else if _, err := mail.ParseAddress(user.Email); err != nil {
		fields = append(fields, types.FieldError{
			Field:   "email",
			Message: "email must be a valid email address",
		})
	}

	if user.Age == 0 {
		if !partial {
			fields = append(fields, types.FieldError{
				Field:   "age",
				Message: "age is required",
			})
		}
	} else if user.Age < ageMin || user.Age > ageMax {
		fields = append(fields, types.FieldError{
			Field: "age",
			Message: fmt.Sprintf(
				"age must be between %d and %d",
				ageMin,
				ageMax,
			),
		})
	}

	if len(fields) > 0 {
		return &types.InvalidUserErr{Fields: fields}
	}
	return nil
}
