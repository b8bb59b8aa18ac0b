package types

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	pz "github.com/weberc2/httpeasy"
)

// FieldError describes a single field-level validation failure.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// InvalidUserErr is returned when input `User` fields violate the
// field constraints. It carries one entry per violated field.
type InvalidUserErr struct {
	Fields []FieldError `json:"fields"`
}

func (err *InvalidUserErr) Error() string {
	messages := make([]string, len(err.Fields))
	for i, field := range err.Fields {
		messages[i] = field.Message
	}
	return fmt.Sprintf("invalid user: %s", strings.Join(messages, "; "))
}

func (err *InvalidUserErr) HTTPError() *pz.HTTPError {
	return &pz.HTTPError{
		Status:  http.StatusBadRequest,
		Message: err.Error(),
	}
}

func (wanted *InvalidUserErr) CompareErr(err error) error {
	var other *InvalidUserErr
	if errors.As(err, &other) {
		return wanted.Compare(other)
	}
	return fmt.Errorf(
		"wanted `*types.InvalidUserErr`; found `%T`: %v",
		err,
		err,
	)
}

func (wanted *InvalidUserErr) Compare(other *InvalidUserErr) error {
	if wanted == other {
		return nil
	}

	if wanted == nil && other != nil {
		return fmt.Errorf("wanted `nil`; found not-nil")
	}

	if wanted != nil && other == nil {
		return fmt.Errorf("wanted not-nil; found `nil`")
	}

	if len(wanted.Fields) != len(other.Fields) {
		return fmt.Errorf(
			"len(InvalidUserErr.Fields): wanted `%d`; found `%d`",
			len(wanted.Fields),
			len(other.Fields),
		)
	}

	for i := range wanted.Fields {
		if wanted.Fields[i] != other.Fields[i] {
			return fmt.Errorf(
				"InvalidUserErr.Fields[%d]: wanted `%v`; found `%v`",
				i,
				wanted.Fields[i],
				other.Fields[i],
			)
		}
	}

	return nil
}

func (wanted *InvalidUserErr) CompareData(data []byte) error {
	var other InvalidUserErr
	if err := json.Unmarshal(data, &other); err != nil {
		return fmt.Errorf("unmarshaling `InvalidUserErr`: %w", err)
	}
	return wanted.Compare(&other)
}

// fail compilation if `InvalidUserErr` doesn't satisfy the `pz.Error`
// and `WantedError` interfaces.
var _ pz.Error = &InvalidUserErr{}
var _ WantedError = &InvalidUserErr{}
