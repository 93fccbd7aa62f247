package repository

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"taskboard/internal/apperrors"
	"taskboard/internal/models"
)

const (
	usersCollection = "users"
	tasksCollection = "tasks"
)

// EnsureMongoIndexes creates the unique email index and the owner index the
// task queries rely on.
func EnsureMongoIndexes(ctx context.Context, db *mongo.Database) error {
	_, err := db.Collection(usersCollection).Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "email", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	if err != nil {
		return fmt.Errorf("create users email index: %w", err)
	}
	_, err = db.Collection(tasksCollection).Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "user_id", Value: 1}, {Key: "created_at", Value: 1}},
	})
	if err != nil {
		return fmt.Errorf("create tasks owner index: %w", err)
	}
	return nil
}

type MongoUserRepo struct {
	coll *mongo.Collection
}

func NewMongoUserRepo(db *mongo.Database) *MongoUserRepo {
	return &MongoUserRepo{coll: db.Collection(usersCollection)}
}

func (r *MongoUserRepo) Create(ctx context.Context, user *models.User) error {
	if _, err := r.coll.InsertOne(ctx, user); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return apperrors.ErrDuplicateEmail
		}
		return fmt.Errorf("insert user: %w", err)
	}
	return nil
}

func (r *MongoUserRepo) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	return r.findOne(ctx, bson.M{"email": email})
}

func (r *MongoUserRepo) FindByID(ctx context.Context, id string) (*models.User, error) {
	return r.findOne(ctx, bson.M{"_id": id})
}

func (r *MongoUserRepo) findOne(ctx context.Context, filter bson.M) (*models.User, error) {
	var u models.User
	if err := r.coll.FindOne(ctx, filter).Decode(&u); err != nil {
		return nil, mapMongoReadError(err, "find user")
	}
	return &u, nil
}

type MongoTaskRepo struct {
	coll *mongo.Collection
}

func NewMongoTaskRepo(db *mongo.Database) *MongoTaskRepo {
	return &MongoTaskRepo{coll: db.Collection(tasksCollection)}
}

func ownedFilter(ownerID, taskID string) bson.M {
	return bson.M{"_id": taskID, "user_id": ownerID}
}

func (r *MongoTaskRepo) ListByOwner(ctx context.Context, ownerID string) ([]models.Task, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: 1}, {Key: "_id", Value: 1}})
	cur, err := r.coll.Find(ctx, bson.M{"user_id": ownerID}, opts)
	if err != nil {
		return nil, fmt.Errorf("find tasks: %w", err)
	}
	defer cur.Close(ctx)

	tasks := []models.Task{}
	if err := cur.All(ctx, &tasks); err != nil {
		return nil, fmt.Errorf("decode tasks: %w", err)
	}
	return tasks, nil
}

func (r *MongoTaskRepo) Create(ctx context.Context, task *models.Task) error {
	if _, err := r.coll.InsertOne(ctx, task); err != nil {
		return fmt.Errorf("insert task: %w", err)
	}
	return nil
}

func (r *MongoTaskRepo) FindOwned(ctx context.Context, ownerID, taskID string) (*models.Task, error) {
	var t models.Task
	if err := r.coll.FindOne(ctx, ownedFilter(ownerID, taskID)).Decode(&t); err != nil {
		return nil, mapMongoReadError(err, "find task")
	}
	return &t, nil
}

func (r *MongoTaskRepo) UpdateOwned(ctx context.Context, ownerID string, task *models.Task) error {
	set := bson.M{
		"title":       task.Title,
		"description": task.Description,
		"priority":    task.Priority,
		"completed":   task.Completed,
		"updated_at":  task.UpdatedAt,
	}
	update := bson.M{"$set": set}
	if task.DueDate != nil {
		set["due_date"] = *task.DueDate
	} else {
		update["$unset"] = bson.M{"due_date": ""}
	}

	res, err := r.coll.UpdateOne(ctx, ownedFilter(ownerID, task.ID), update)
	if err != nil {
		return fmt.Errorf("update task: %w", err)
	}
	if res.MatchedCount == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

func (r *MongoTaskRepo) DeleteOwned(ctx context.Context, ownerID, taskID string) error {
	res, err := r.coll.DeleteOne(ctx, ownedFilter(ownerID, taskID))
	if err != nil {
		return fmt.Errorf("delete task: %w", err)
	}
	if res.DeletedCount == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

func mapMongoReadError(err error, op string) error {
	if errors.Is(err, mongo.ErrNoDocuments) {
		return apperrors.ErrNotFound
	}
	return fmt.Errorf("%s: %w", op, err)
}
