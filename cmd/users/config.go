package main

import (
	"fmt"
	"log"
	"net/http"
	"os"
	"path/filepath"

	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/dynamodb"
	"github.com/kelseyhightower/envconfig"
	pz "github.com/weberc2/httpeasy"
	"github.com/weberc2/users/pkg/dynamouserstore"
	"github.com/weberc2/users/pkg/memuserstore"
	"github.com/weberc2/users/pkg/pguserstore"
	"github.com/weberc2/users/pkg/types"
	"github.com/weberc2/users/pkg/users"
	"gopkg.in/yaml.v2"
)

const (
	envVarPrefix = "USERS"
	appName      = "users"

	backendMemory   = "memory"
	backendPostgres = "postgres"
	backendDynamoDB = "dynamodb"
)

type Config struct {
	Addr         string `envconfig:"USERS_ADDR"          default:"127.0.0.1:8080" yaml:"addr"`
	StoreBackend string `envconfig:"USERS_STORE_BACKEND" default:"memory"         yaml:"storeBackend"`
	DynamoTable  string `envconfig:"USERS_DYNAMO_TABLE"                           yaml:"dynamoTable"`
	SeedUsers    bool   `envconfig:"USERS_SEED_USERS"    default:"true"           yaml:"seedUsers"`
}

func LoadConfig() (*Config, error) {
	configFile := os.Getenv(envVarPrefix + "_CONFIG_FILE")
	if configFile == "" {
		configFile = filepath.Join(
			os.Getenv("HOME"),
			".config",
			appName+".yaml",
		)
	}

	var c Config
	data, err := os.ReadFile(configFile)
	if err != nil {
		if !os.IsNotExist(err) {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
	} else if err := yaml.UnmarshalStrict(data, &c); err != nil {
		return nil, fmt.Errorf("unmarshaling config file: %w", err)
	}

	if err := envconfig.Process(envVarPrefix, &c); err != nil {
		return nil, fmt.Errorf("parsing environment variables: %w", err)
	}

	return &c, nil
}

func (c *Config) Validate() error {
	if c.Addr == "" {
		return fmt.Errorf(
			"missing required configuration: addr / %s_ADDR",
			envVarPrefix,
		)
	}
	switch c.StoreBackend {
	case backendMemory, backendPostgres:
	case backendDynamoDB:
		if c.DynamoTable == "" {
			return fmt.Errorf(
				"missing required configuration: dynamoTable / "+
					"%s_DYNAMO_TABLE",
				envVarPrefix,
			)
		}
	default:
		return fmt.Errorf("invalid store backend: %s", c.StoreBackend)
	}
	return nil
}

func (c *Config) Run() error {
	if err := c.Validate(); err != nil {
		return err
	}

	store, err := c.store()
	if err != nil {
		return err
	}

	service := users.UserService{
		Users: users.UsersModel{UserStore: store},
	}

	routes := service.Routes()
	for i := range routes {
		routes[i].Handler = users.RequestID(routes[i].Handler)
	}

	log.Printf(`{"message": "listening on %s"}`, c.Addr)
	if err := http.ListenAndServe(
		c.Addr,
		pz.Register(pz.JSONLog(os.Stderr), routes...),
	); err != nil {
		return fmt.Errorf("starting server: %w", err)
	}
	return nil
}

func (c *Config) store() (types.UserStore, error) {
	switch c.StoreBackend {
	case backendMemory:
		if c.SeedUsers {
			return memuserstore.New(
				&types.User{
					Name:  "John Doe",
					Email: "john.doe@example.com",
					Age:   30,
				},
				&types.User{
					Name:  "Jane Smith",
					Email: "jane.smith@example.com",
					Age:   25,
				},
			), nil
		}
		return memuserstore.New(), nil
	case backendPostgres:
		store, err := pguserstore.OpenEnv()
		if err != nil {
			return nil, fmt.Errorf("opening postgres user store: %w", err)
		}
		if err := store.EnsureTable(); err != nil {
			return nil, fmt.Errorf("ensuring users table exists: %w", err)
		}
		return store, nil
	case backendDynamoDB:
		sess, err := session.NewSession()
		if err != nil {
			return nil, fmt.Errorf("creating AWS session: %w", err)
		}
		return &dynamouserstore.DynamoUserStore{
			Client: dynamodb.New(sess),
			Table:  c.DynamoTable,
		}, nil
	default:
		return nil, fmt.Errorf("invalid store backend: %s", c.StoreBackend)
	}
}
