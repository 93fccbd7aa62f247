// Package testinfra starts throwaway PostgreSQL, MongoDB and Redis containers
// for integration tests.
package testinfra

import (
	"context"
	"database/sql"
	"fmt"
	"strconv"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/ory/dockertest/v3"
	"github.com/ory/dockertest/v3/docker"
	"go.mongodb.org/mongo-driver/mongo"

	"taskboard/configs"
	"taskboard/pkg/database"
)

// Containers are removed by Docker after this many seconds even if Purge is
// never reached.
const expireSeconds = 300

type Pool struct {
	pool      *dockertest.Pool
	resources []*dockertest.Resource
}

// NewPool connects to the local Docker daemon. It fails when Docker is not
// reachable, which callers treat as "skip integration tests".
func NewPool() (*Pool, error) {
	pool, err := dockertest.NewPool("")
	if err != nil {
		return nil, fmt.Errorf("could not construct pool: %w", err)
	}
	if err := pool.Client.Ping(); err != nil {
		return nil, fmt.Errorf("could not connect to Docker: %w", err)
	}
	pool.MaxWait = 2 * time.Minute
	return &Pool{pool: pool}, nil
}

func (p *Pool) run(opts *dockertest.RunOptions) (*dockertest.Resource, error) {
	resource, err := p.pool.RunWithOptions(opts, func(hc *docker.HostConfig) {
		hc.AutoRemove = true
		hc.RestartPolicy = docker.RestartPolicy{Name: "no"}
	})
	if err != nil {
		return nil, fmt.Errorf("could not start %s: %w", opts.Repository, err)
	}
	_ = resource.Expire(expireSeconds)
	p.resources = append(p.resources, resource)
	return resource, nil
}

func (p *Pool) Postgres(ctx context.Context) (*sql.DB, error) {
	resource, err := p.run(&dockertest.RunOptions{
		Repository: "postgres",
		Tag:        "16-alpine",
		Env: []string{
			"POSTGRES_USER=taskboard",
			"POSTGRES_PASSWORD=secret",
			"POSTGRES_DB=taskboard_test",
		},
	})
	if err != nil {
		return nil, err
	}
	port, err := strconv.Atoi(resource.GetPort("5432/tcp"))
	if err != nil {
		return nil, fmt.Errorf("postgres port: %w", err)
	}
	cfg := configs.Config{
		DBHost:     "localhost",
		DBPort:     port,
		DBUser:     "taskboard",
		DBPassword: "secret",
		DBNameTest: "taskboard_test",
	}

	var db *sql.DB
	err = p.pool.Retry(func() error {
		var err error
		db, err = database.ConnectDB(ctx, database.PostgresDSN(cfg, cfg.DBNameTest))
		return err
	})
	if err != nil {
		return nil, err
	}
	return db, nil
}

func (p *Pool) Mongo(ctx context.Context) (*mongo.Client, error) {
	resource, err := p.run(&dockertest.RunOptions{Repository: "mongo", Tag: "7"})
	if err != nil {
		return nil, err
	}
	uri := "mongodb://localhost:" + resource.GetPort("27017/tcp")

	var client *mongo.Client
	err = p.pool.Retry(func() error {
		var err error
		client, err = database.ConnectMongo(ctx, uri)
		return err
	})
	if err != nil {
		return nil, err
	}
	return client, nil
}

func (p *Pool) Redis(ctx context.Context) (*redis.Client, error) {
	resource, err := p.run(&dockertest.RunOptions{Repository: "redis", Tag: "7-alpine"})
	if err != nil {
		return nil, err
	}
	addr := "localhost:" + resource.GetPort("6379/tcp")

	var client *redis.Client
	err = p.pool.Retry(func() error {
		var err error
		client, err = database.ConnectRedis(ctx, addr, "")
		return err
	})
	if err != nil {
		return nil, err
	}
	return client, nil
}

// Purge removes every container started through p.
func (p *Pool) Purge() {
	for _, r := range p.resources {
		_ = p.pool.Purge(r)
	}
	p.resources = nil
}
