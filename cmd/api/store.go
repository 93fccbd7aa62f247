package main

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"taskboard/configs"
	"taskboard/internal/repository"
	"taskboard/pkg/database"
	"taskboard/pkg/logger"
)

type store struct {
	users repository.UserRepository
	tasks repository.TaskRepository
	close func()
}

func openStore(ctx context.Context, cfg configs.Config) (*store, error) {
	switch cfg.StoreDriver {
	case configs.StoreDriverPostgres:
		db, err := database.ConnectDB(ctx, database.PostgresDSN(cfg, cfg.DBName))
		if err != nil {
			return nil, err
		}
		// Buat tabel jika belum ada
		if err := repository.CreateTableIfNotExists(ctx, db); err != nil {
			db.Close()
			return nil, err
		}
		return &store{
			users: repository.NewPostgresUserRepo(db),
			tasks: repository.NewPostgresTaskRepo(db),
			close: func() { db.Close() },
		}, nil

	case configs.StoreDriverMongo:
		client, err := database.ConnectMongo(ctx, cfg.MongoURI)
		if err != nil {
			return nil, err
		}
		mdb := client.Database(cfg.MongoDB)
		if err := repository.EnsureMongoIndexes(ctx, mdb); err != nil {
			_ = client.Disconnect(context.Background())
			return nil, err
		}
		return &store{
			users: repository.NewMongoUserRepo(mdb),
			tasks: repository.NewMongoTaskRepo(mdb),
			close: func() {
				if err := client.Disconnect(context.Background()); err != nil {
					logger.ErrorLogger.Error("MongoDB disconnect failed", zap.Error(err))
				}
			},
		}, nil

	case configs.StoreDriverMemory:
		logger.SystemLogger.Warn("Using in-memory store, data is lost on restart")
		mem := repository.NewMemoryStore()
		return &store{users: mem.Users(), tasks: mem.Tasks(), close: func() {}}, nil

	default:
		return nil, fmt.Errorf("unknown STORE_DRIVER %q", cfg.StoreDriver)
	}
}
