package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.uber.org/zap"

	"taskboard/configs"
	v1 "taskboard/internal/api/v1"
	"taskboard/internal/cache"
	"taskboard/internal/metrics"
	"taskboard/internal/repository"
	"taskboard/internal/service"
	"taskboard/internal/token"
	"taskboard/pkg/database"
	"taskboard/pkg/logger"
)

func main() {
	// Load config
	cfg := configs.LoadConfig()

	// Inisialisasi logger
	if err := logger.InitLoggers(cfg.LogDir); err != nil {
		log.Fatalf("Cannot initialize loggers: %v", err)
	}

	err := run(cfg)
	if err != nil {
		logger.ErrorLogger.Error("Application stopped", zap.Error(err))
	}
	logger.SyncLoggers()
	if err != nil {
		log.Fatalf("Application stopped: %v", err)
	}
}

// run owns every resource it opens; all of them are released before it
// returns, so main can flush the loggers afterwards.
func run(cfg configs.Config) error {
	logger.SystemLogger.Info("Starting application",
		zap.String("env", cfg.Env),
		zap.String("time", time.Now().Format(time.RFC3339)),
	)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Inisialisasi database
	connectCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	st, err := openStore(connectCtx, cfg)
	cancel()
	if err != nil {
		return fmt.Errorf("store initialization failed: %w", err)
	}
	defer st.close()
	logger.SystemLogger.Info("Database Connected", zap.String("driver", cfg.StoreDriver))

	var tasks repository.TaskRepository = st.tasks
	if cfg.CacheEnabled {
		redisCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
		redisClient, err := database.ConnectRedis(redisCtx, database.RedisAddr(cfg), cfg.RedisPassword)
		cancel()
		if err != nil {
			logger.ErrorLogger.Error("Redis unavailable, task cache disabled", zap.Error(err))
		} else {
			defer redisClient.Close()
			tasks = cache.NewTaskCache(tasks, redisClient, cache.DefaultTTL)
			logger.SystemLogger.Info("Redis Connected")
		}
	}

	tokens := token.NewService(cfg.JWTSecret, cfg.TokenTTL)

	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	app := v1.NewApp(v1.Deps{
		Auth:         service.NewAuthService(st.users, tokens),
		Tasks:        service.NewTaskService(tasks),
		Tokens:       tokens,
		Metrics:      metrics.NewCollector(reg),
		TokenTTL:     tokens.TTL(),
		SecureCookie: cfg.SecureCookie,
	}, v1.AppOptions{
		CORSOrigins:    cfg.CORSOrigins,
		MetricsHandler: metrics.Handler(reg),
	})

	go func() {
		<-ctx.Done()
		logger.SystemLogger.Info("Shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := app.ShutdownWithContext(shutdownCtx); err != nil {
			logger.ErrorLogger.Error("Shutdown failed", zap.Error(err))
		}
	}()

	logger.SystemLogger.Info("Application ready", zap.String("port", cfg.Port))
	if err := app.Listen(":" + cfg.Port); err != nil {
		return fmt.Errorf("application failed to start: %w", err)
	}
	return nil
}
