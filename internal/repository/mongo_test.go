package repository

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
)

func requireMongo(t *testing.T) {
	t.Helper()
	if mongoDB == nil {
		t.Skip("MongoDB container not available")
	}
}

func TestMongoUserRepository(t *testing.T) {
	requireMongo(t)
	testUserRepository(t, NewMongoUserRepo(mongoDB))
}

func TestMongoTaskRepository(t *testing.T) {
	requireMongo(t)
	testTaskRepository(t, NewMongoUserRepo(mongoDB), NewMongoTaskRepo(mongoDB))
}

func TestMongoClearedDueDateIsUnset(t *testing.T) {
	requireMongo(t)
	ctx := context.Background()
	owner := newUser(t, NewMongoUserRepo(mongoDB))
	tasks := NewMongoTaskRepo(mongoDB)

	task := newTask(owner.ID, "t", owner.CreatedAt)
	require.NoError(t, tasks.Create(ctx, task))
	require.NoError(t, tasks.UpdateOwned(ctx, owner.ID, task))

	var raw bson.M
	err := mongoDB.Collection(tasksCollection).FindOne(ctx, bson.M{"_id": task.ID}).Decode(&raw)
	require.NoError(t, err)
	_, present := raw["due_date"]
	assert.False(t, present)
	assert.Equal(t, owner.ID, raw["user_id"])
}
