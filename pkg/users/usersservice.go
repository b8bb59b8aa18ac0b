package users

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	pz "github.com/weberc2/httpeasy"
	"github.com/weberc2/users/pkg/types"
)

type UserService struct {
	Users UsersModel
}

type logging struct {
	Message   string       `json:"message"`
	User      types.UserID `json:"user,omitempty"`
	ErrorType string       `json:"errorType,omitempty"`
	Error     string       `json:"error,omitempty"`
}

func (us *UserService) ListRoute() pz.Route {
	return pz.Route{
		Method: "GET",
		Path:   "/api/users",
		Handler: func(r pz.Request) pz.Response {
			users, err := us.Users.List()
			if err != nil {
				return pz.InternalServerError(&logging{
					Message:   "listing users",
					ErrorType: fmt.Sprintf("%T", err),
					Error:     err.Error(),
				})
			}
			return pz.Ok(
				pz.JSON(users),
				&logging{Message: "listed users"},
			)
		},
	}
}

func (us *UserService) GetRoute() pz.Route {
	return pz.Route{
		Method: "GET",
		Path:   "/api/users/{user-id}",
		Handler: func(r pz.Request) pz.Response {
			id, err := parseUserID(r.Vars["user-id"])
			if err != nil {
				// a non-integer id segment can't name a record
				return pz.NotFound(
					pz.JSON(types.ErrUserNotFound),
					&logging{Message: "parsing user id", Error: err.Error()},
				)
			}

			user, err := us.Users.Get(id)
			if err != nil {
				return pz.HandleError("retrieving user", err, &logging{
					Message:   "retrieving user",
					User:      id,
					ErrorType: fmt.Sprintf("%T", err),
					Error:     err.Error(),
				})
			}

			return pz.Ok(
				pz.JSON(user),
				&logging{Message: "retrieved user", User: id},
			)
		},
	}
}

func (us *UserService) CreateRoute() pz.Route {
	return pz.Route{
		Method: "POST",
		Path:   "/api/users",
		Handler: func(r pz.Request) pz.Response {
			var user types.User
			if err := r.JSON(&user); err != nil {
				return pz.BadRequest(
					pz.String("malformed `User` JSON"),
					&logging{
						Message: "parsing user JSON",
						Error:   err.Error(),
					},
				)
			}

			created, err := us.Users.Create(&user)
			if err != nil {
				var invalid *types.InvalidUserErr
				if errors.As(err, &invalid) {
					return pz.BadRequest(pz.JSON(invalid), &logging{
						Message: "validating user",
						Error:   err.Error(),
					})
				}
				return pz.HandleError("creating user", err, &logging{
					Message:   "creating user",
					ErrorType: fmt.Sprintf("%T", err),
					Error:     err.Error(),
				})
			}

			return pz.Created(
				pz.JSON(created),
				&logging{Message: "created user", User: created.ID},
			).WithHeaders(http.Header{
				"Location": []string{
					fmt.Sprintf("/api/users/%d", created.ID),
				},
			})
		},
	}
}

func (us *UserService) UpdateRoute() pz.Route {
	return pz.Route{
		Method: "PUT",
		Path:   "/api/users/{user-id}",
		Handler: func(r pz.Request) pz.Response {
			id, err := parseUserID(r.Vars["user-id"])
			if err != nil {
				return pz.NotFound(
					pz.JSON(types.ErrUserNotFound),
					&logging{Message: "parsing user id", Error: err.Error()},
				)
			}

			var user types.User
			if err := r.JSON(&user); err != nil {
				return pz.BadRequest(
					pz.String("malformed `User` JSON"),
					&logging{
						Message: "parsing user JSON",
						User:    id,
						Error:   err.Error(),
					},
				)
			}

			if err := us.Users.Update(id, &user); err != nil {
				var invalid *types.InvalidUserErr
				if errors.As(err, &invalid) {
					return pz.BadRequest(pz.JSON(invalid), &logging{
						Message: "validating user",
						User:    id,
						Error:   err.Error(),
					})
				}
				return pz.HandleError("updating user", err, &logging{
					Message:   "updating user",
					User:      id,
					ErrorType: fmt.Sprintf("%T", err),
					Error:     err.Error(),
				})
			}

			return pz.Response{Status: http.StatusNoContent}.
				WithLogging(&logging{Message: "updated user", User: id})
		},
	}
}

func (us *UserService) DeleteRoute() pz.Route {
	return pz.Route{
		Method: "DELETE",
		Path:   "/api/users/{user-id}",
		Handler: func(r pz.Request) pz.Response {
			id, err := parseUserID(r.Vars["user-id"])
			if err != nil {
				return pz.NotFound(
					pz.JSON(types.ErrUserNotFound),
					&logging{Message: "parsing user id", Error: err.Error()},
				)
			}

			if err := us.Users.Delete(id); err != nil {
				return pz.HandleError("deleting user", err, &logging{
					Message:   "deleting user",
					User:      id,
					ErrorType: fmt.Sprintf("%T", err),
					Error:     err.Error(),
				})
			}

			return pz.Response{Status: http.StatusNoContent}.
				WithLogging(&logging{Message: "deleted user", User: id})
		},
	}
}

func (us *UserService) HealthRoute() pz.Route {
	return pz.Route{
		Method: "GET",
		Path:   "/api/health",
		Handler: func(r pz.Request) pz.Response {
			return pz.Ok(pz.String("ok"))
		},
	}
}

func (us *UserService) Routes() []pz.Route {
	return []pz.Route{
		us.ListRoute(),
		us.GetRoute(),
		us.CreateRoute(),
		us.UpdateRoute(),
		us.DeleteRoute(),
		us.HealthRoute(),
	}
}

func parseUserID(s string) (types.UserID, error) {
	id, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("parsing user id: %w", err)
	}
	return types.UserID(id), nil
}
