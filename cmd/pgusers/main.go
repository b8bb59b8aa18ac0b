package main

import (
	"encoding/json"
	"fmt"
	"log"
	"os"

	"github.com/urfave/cli/v2"
	"github.com/weberc2/users/pkg/pguserstore"
	"github.com/weberc2/users/pkg/types"
)

type Store = pguserstore.PGUserStore

func main() {
	app := cli.App{
		Name:        "pgusers",
		Description: "a command line `PGUserStore` interface",
		Commands: []*cli.Command{{
			Name:        "table",
			Description: "commands for interacting with the backing pg table",
			Subcommands: []*cli.Command{{
				Name:        "ensure",
				Aliases:     []string{"make", "create"},
				Description: "create the table if it doesn't already exist",
				Action: withStore(func(store *Store, ctx *cli.Context) error {
					return store.EnsureTable()
				}),
			}, {
				Name:        "drop",
				Aliases:     []string{"delete", "destroy"},
				Description: "drop the postgres table",
				Action: withStore(func(store *Store, ctx *cli.Context) error {
					return store.DropTable()
				}),
			}, {
				Name:        "reset",
				Description: "delete and recreate the postgres table",
				Action: withStore(func(store *Store, ctx *cli.Context) error {
					return store.ResetTable()
				}),
			}, {
				Name: "clear",
				Description: "clear the rows from the table without " +
					"dropping it",
				Action: withStore(func(store *Store, ctx *cli.Context) error {
					return store.ClearTable()
				}),
			}},
		}, {
			Name:        "users",
			Description: "commands for managing user records",
			Subcommands: []*cli.Command{{
				Name:        "create",
				Aliases:     []string{"add", "insert", "put"},
				Description: "put a user into the store (id auto-assigned)",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "name",
						Usage:    "the user's display name",
						Required: true,
					},
					&cli.StringFlag{
						Name:     "email",
						Usage:    "the user's email address",
						Required: true,
					},
					&cli.IntFlag{
						Name:     "age",
						Usage:    "the user's age in years",
						Required: true,
					},
					&cli.IntFlag{
						Name: "id",
						Usage: "insert with this exact id instead of " +
							"auto-assigning one",
					},
				},
				Action: withStore(func(store *Store, ctx *cli.Context) error {
					user := types.User{
						Name:  ctx.String("name"),
						Email: ctx.String("email"),
						Age:   ctx.Int("age"),
					}
					if id := ctx.Int("id"); id != 0 {
						user.ID = types.UserID(id)
						if err := store.Insert(&user); err != nil {
							return err
						}
						return printJSON(&user)
					}
					created, err := store.Create(&user)
					if err != nil {
						return err
					}
					return printJSON(created)
				}),
			}, {
				Name:        "exists",
				Description: "check whether a user exists by id",
				Flags: []cli.Flag{
					&cli.IntFlag{
						Name:     "id",
						Usage:    "the id of the user to check",
						Required: true,
					},
				},
				Action: withStore(func(store *Store, ctx *cli.Context) error {
					return store.Exists(types.UserID(ctx.Int("id")))
				}),
			}, {
				Name:        "list",
				Description: "list users in the store",
				Action: withStore(func(store *Store, ctx *cli.Context) error {
					users, err := store.List()
					if err != nil {
						return err
					}
					return printJSON(users)
				}),
			}, {
				Name:        "get",
				Description: "fetch a single user by id",
				Flags: []cli.Flag{
					&cli.IntFlag{
						Name:     "id",
						Usage:    "the id of the user to fetch",
						Required: true,
					},
				},
				Action: withStore(func(store *Store, ctx *cli.Context) error {
					user, err := store.Get(types.UserID(ctx.Int("id")))
					if err != nil {
						return err
					}
					return printJSON(user)
				}),
			}, {
				Name:        "delete",
				Aliases:     []string{"rm", "remove"},
				Description: "delete a user from the store",
				Flags: []cli.Flag{
					&cli.IntFlag{
						Name:     "id",
						Usage:    "the id of the user to delete",
						Required: true,
					},
				},
				Action: withStore(func(store *Store, ctx *cli.Context) error {
					return store.Delete(types.UserID(ctx.Int("id")))
				}),
			}},
		}},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func withStore(f func(*Store, *cli.Context) error) cli.ActionFunc {
	return func(ctx *cli.Context) error {
		store, err := pguserstore.OpenEnv()
		if err != nil {
			return fmt.Errorf("opening PGUserStore: %w", err)
		}
		return f(store, ctx)
	}
}

func printJSON(v interface{}) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling to JSON: %w", err)
	}
	if _, err := fmt.Printf("%s\n", data); err != nil {
		return fmt.Errorf("writing JSON to stdout: %w", err)
	}
	return nil
}
