package cache

import (
	"context"
	"flag"
	"log"
	"os"
	"testing"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"taskboard/internal/models"
	"taskboard/internal/repository"
	"taskboard/internal/testinfra"
	"taskboard/pkg/logger"
)

var redisClient *redis.Client

func TestMain(m *testing.M) {
	flag.Parse()
	os.Exit(run(m))
}

func run(m *testing.M) int {
	if testing.Short() {
		return m.Run()
	}
	pool, err := testinfra.NewPool()
	if err != nil {
		log.Printf("Skipping Redis tests: %v", err)
		return m.Run()
	}
	defer pool.Purge()

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()
	client, err := pool.Redis(ctx)
	if err != nil {
		log.Printf("Redis unavailable: %v", err)
		return m.Run()
	}
	defer client.Close()
	redisClient = client

	return m.Run()
}

// countingRepo counts list calls that reach the underlying store. afterLoad,
// when set, runs once between the load and the return.
type countingRepo struct {
	repository.TaskRepository
	lists     int
	afterLoad func()
}

func (r *countingRepo) ListByOwner(ctx context.Context, ownerID string) ([]models.Task, error) {
	r.lists++
	tasks, err := r.TaskRepository.ListByOwner(ctx, ownerID)
	if hook := r.afterLoad; hook != nil {
		r.afterLoad = nil
		hook()
	}
	return tasks, err
}

func newTask(ownerID, title string) *models.Task {
	now := time.Now().UTC()
	return &models.Task{
		ID:        uuid.NewString(),
		UserID:    ownerID,
		Title:     title,
		Priority:  models.PriorityLow,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

func TestTaskCacheServesRepeatedLists(t *testing.T) {
	if redisClient == nil {
		t.Skip("Redis container not available")
	}
	ctx := context.Background()
	repo := &countingRepo{TaskRepository: repository.NewMemoryStore().Tasks()}
	c := NewTaskCache(repo, redisClient, time.Minute)
	owner := uuid.NewString()

	require.NoError(t, c.Create(ctx, newTask(owner, "one")))

	first, err := c.ListByOwner(ctx, owner)
	require.NoError(t, err)
	second, err := c.ListByOwner(ctx, owner)
	require.NoError(t, err)

	assert.Equal(t, 1, repo.lists)
	require.Len(t, second, 1)
	assert.Equal(t, first[0].ID, second[0].ID)
	assert.Equal(t, "one", second[0].Title)

	ttl, err := redisClient.TTL(ctx, listKey(owner)).Result()
	require.NoError(t, err)
	assert.Greater(t, ttl, time.Duration(0))
}

func TestTaskCacheInvalidatesOnWrite(t *testing.T) {
	if redisClient == nil {
		t.Skip("Redis container not available")
	}
	ctx := context.Background()
	repo := &countingRepo{TaskRepository: repository.NewMemoryStore().Tasks()}
	c := NewTaskCache(repo, redisClient, time.Minute)
	owner := uuid.NewString()

	task := newTask(owner, "one")
	require.NoError(t, c.Create(ctx, task))
	_, err := c.ListByOwner(ctx, owner)
	require.NoError(t, err)

	require.NoError(t, c.Create(ctx, newTask(owner, "two")))
	list, err := c.ListByOwner(ctx, owner)
	require.NoError(t, err)
	assert.Len(t, list, 2)

	task.Completed = true
	require.NoError(t, c.UpdateOwned(ctx, owner, task))
	list, err = c.ListByOwner(ctx, owner)
	require.NoError(t, err)
	assert.True(t, list[0].Completed || list[1].Completed)

	require.NoError(t, c.DeleteOwned(ctx, owner, task.ID))
	list, err = c.ListByOwner(ctx, owner)
	require.NoError(t, err)
	assert.Len(t, list, 1)

	assert.Equal(t, 4, repo.lists)
}

func TestTaskCacheIsPerOwner(t *testing.T) {
	if redisClient == nil {
		t.Skip("Redis container not available")
	}
	ctx := context.Background()
	c := NewTaskCache(repository.NewMemoryStore().Tasks(), redisClient, time.Minute)
	alice, bob := uuid.NewString(), uuid.NewString()

	require.NoError(t, c.Create(ctx, newTask(alice, "alice")))
	_, err := c.ListByOwner(ctx, alice)
	require.NoError(t, err)

	list, err := c.ListByOwner(ctx, bob)
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestTaskCacheDoesNotStoreListLoadedDuringWrite(t *testing.T) {
	if redisClient == nil {
		t.Skip("Redis container not available")
	}
	ctx := context.Background()
	repo := &countingRepo{TaskRepository: repository.NewMemoryStore().Tasks()}
	c := NewTaskCache(repo, redisClient, time.Minute)
	owner := uuid.NewString()

	require.NoError(t, c.Create(ctx, newTask(owner, "one")))

	// A write lands after the reader loaded its list but before it caches it.
	repo.afterLoad = func() {
		require.NoError(t, c.Create(ctx, newTask(owner, "two")))
	}
	stale, err := c.ListByOwner(ctx, owner)
	require.NoError(t, err)
	assert.Len(t, stale, 1)

	exists, err := redisClient.Exists(ctx, listKey(owner)).Result()
	require.NoError(t, err)
	assert.Zero(t, exists)

	fresh, err := c.ListByOwner(ctx, owner)
	require.NoError(t, err)
	assert.Len(t, fresh, 2)
	assert.Equal(t, 2, repo.lists)
}

func TestTaskCacheLogsCorruptEntryAndReloads(t *testing.T) {
	if redisClient == nil {
		t.Skip("Redis container not available")
	}
	ctx := context.Background()
	repo := &countingRepo{TaskRepository: repository.NewMemoryStore().Tasks()}
	c := NewTaskCache(repo, redisClient, time.Minute)
	owner := uuid.NewString()

	core, logs := observer.New(zap.ErrorLevel)
	prev := logger.ErrorLogger
	logger.ErrorLogger = zap.New(core)
	defer func() { logger.ErrorLogger = prev }()

	require.NoError(t, c.Create(ctx, newTask(owner, "one")))
	require.NoError(t, redisClient.Set(ctx, listKey(owner), "{not json", time.Minute).Err())

	list, err := c.ListByOwner(ctx, owner)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, 1, repo.lists)

	entries := logs.FilterMessage("Error decoding cached tasks").All()
	require.Len(t, entries, 1)
	assert.NotEmpty(t, entries[0].ContextMap()["error"])

	cached, err := redisClient.Get(ctx, listKey(owner)).Bytes()
	require.NoError(t, err)
	assert.Contains(t, string(cached), `"title":"one"`)
}

func TestTaskCacheFallsThroughWhenRedisIsDown(t *testing.T) {
	dead := redis.NewClient(&redis.Options{
		Addr:        "127.0.0.1:1",
		DialTimeout: 100 * time.Millisecond,
		MaxRetries:  -1,
	})
	defer dead.Close()

	ctx := context.Background()
	repo := &countingRepo{TaskRepository: repository.NewMemoryStore().Tasks()}
	c := NewTaskCache(repo, dead, 0)
	owner := uuid.NewString()

	require.NoError(t, c.Create(ctx, newTask(owner, "still works")))
	list, err := c.ListByOwner(ctx, owner)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "still works", list[0].Title)
	assert.Equal(t, 1, repo.lists)
	assert.Equal(t, DefaultTTL, c.ttl)
}
