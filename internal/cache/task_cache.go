// Package cache keeps per-owner task lists in Redis in front of a
// TaskRepository.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"

	"taskboard/internal/models"
	"taskboard/internal/repository"
	"taskboard/pkg/logger"
)

const DefaultTTL = time.Hour

// TaskCache decorates a TaskRepository. Reads of an owner's list are served
// from Redis when present; any write by that owner drops the cached list.
// Redis failures are logged and fall through to the repository.
type TaskCache struct {
	repository.TaskRepository
	client *redis.Client
	ttl    time.Duration
}

func NewTaskCache(next repository.TaskRepository, client *redis.Client, ttl time.Duration) *TaskCache {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &TaskCache{TaskRepository: next, client: client, ttl: ttl}
}

func listKey(ownerID string) string {
	return fmt.Sprintf("tasks:%s", ownerID)
}

// genKey counts writes per owner. A list loaded from the repository is only
// cached if no write happened while it was being loaded.
func genKey(ownerID string) string {
	return fmt.Sprintf("tasks:%s:gen", ownerID)
}

var errStaleList = errors.New("task list changed while loading")

func (c *TaskCache) ListByOwner(ctx context.Context, ownerID string) ([]models.Task, error) {
	key := listKey(ownerID)

	cached, err := c.client.Get(ctx, key).Bytes()
	switch {
	case err == nil:
		var tasks []models.Task
		decodeErr := json.Unmarshal(cached, &tasks)
		if decodeErr == nil {
			return tasks, nil
		}
		logger.ErrorLogger.Error("Error decoding cached tasks", zap.String("key", key), zap.Error(decodeErr))
	case !errors.Is(err, redis.Nil):
		logger.ErrorLogger.Error("Error reading task cache", zap.String("key", key), zap.Error(err))
	}

	gen, genErr := generation(ctx, c.client, ownerID)
	if genErr != nil {
		logger.ErrorLogger.Error("Error reading task cache generation", zap.String("owner", ownerID), zap.Error(genErr))
	}

	tasks, err := c.TaskRepository.ListByOwner(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	if genErr != nil {
		return tasks, nil
	}

	data, err := json.Marshal(tasks)
	if err != nil {
		logger.ErrorLogger.Error("Error encoding tasks to JSON", zap.Error(err))
		return tasks, nil
	}
	if err := c.fill(ctx, ownerID, gen, data); err != nil {
		if errors.Is(err, errStaleList) || errors.Is(err, redis.TxFailedErr) {
			logger.SystemLogger.Info("Skipped caching stale task list", zap.String("owner", ownerID))
		} else {
			logger.ErrorLogger.Error("Error caching tasks", zap.String("key", key), zap.Error(err))
		}
	}
	return tasks, nil
}

func generation(ctx context.Context, cmd redis.Cmdable, ownerID string) (int64, error) {
	gen, err := cmd.Get(ctx, genKey(ownerID)).Int64()
	if errors.Is(err, redis.Nil) {
		return 0, nil
	}
	return gen, err
}

// fill stores data only while the owner's generation still equals gen. WATCH
// aborts the transaction if a writer bumps it between the check and the SET.
func (c *TaskCache) fill(ctx context.Context, ownerID string, gen int64, data []byte) error {
	return c.client.Watch(ctx, func(tx *redis.Tx) error {
		current, err := generation(ctx, tx, ownerID)
		if err != nil {
			return err
		}
		if current != gen {
			return errStaleList
		}
		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, listKey(ownerID), data, c.ttl)
			return nil
		})
		return err
	}, genKey(ownerID))
}

func (c *TaskCache) Create(ctx context.Context, task *models.Task) error {
	if err := c.TaskRepository.Create(ctx, task); err != nil {
		return err
	}
	c.invalidate(ctx, task.UserID)
	return nil
}

func (c *TaskCache) UpdateOwned(ctx context.Context, ownerID string, task *models.Task) error {
	if err := c.TaskRepository.UpdateOwned(ctx, ownerID, task); err != nil {
		return err
	}
	c.invalidate(ctx, ownerID)
	return nil
}

func (c *TaskCache) DeleteOwned(ctx context.Context, ownerID, taskID string) error {
	if err := c.TaskRepository.DeleteOwned(ctx, ownerID, taskID); err != nil {
		return err
	}
	c.invalidate(ctx, ownerID)
	return nil
}

// invalidate bumps the generation and drops the cached list in one
// transaction, after the repository write has committed.
func (c *TaskCache) invalidate(ctx context.Context, ownerID string) {
	_, err := c.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Incr(ctx, genKey(ownerID))
		pipe.Expire(ctx, genKey(ownerID), 2*c.ttl)
		pipe.Del(ctx, listKey(ownerID))
		return nil
	})
	if err != nil {
		logger.ErrorLogger.Error("Error invalidating task cache", zap.String("owner", ownerID), zap.Error(err))
	}
}
