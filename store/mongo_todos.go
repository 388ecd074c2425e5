package store

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"github.com/princeade/taskvault/models"
)

type MongoTodoStore struct {
	col *mongo.Collection
}

func NewMongoTodoStore(col *mongo.Collection) *MongoTodoStore {
	return &MongoTodoStore{col: col}
}

func (s *MongoTodoStore) Insert(ctx context.Context, todo *models.Todo) error {
	now := time.Now().UTC()
	todo.CreatedAt = now
	todo.UpdatedAt = now

	result, err := s.col.InsertOne(ctx, todo)
	if err != nil {
		return err
	}
	if id, ok := result.InsertedID.(bson.ObjectID); ok {
		todo.ID = id
	}
	return nil
}

func (s *MongoTodoStore) FindByID(ctx context.Context, id bson.ObjectID) (*models.Todo, error) {
	var todo models.Todo
	err := s.col.FindOne(ctx, bson.M{"_id": id}).Decode(&todo)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &todo, nil
}

func (s *MongoTodoStore) FindByOwner(ctx context.Context, owner bson.ObjectID) ([]models.Todo, error) {
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	cursor, err := s.col.Find(ctx, bson.M{"owner": owner}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	todos := make([]models.Todo, 0)
	if err := cursor.All(ctx, &todos); err != nil {
		return nil, err
	}
	return todos, nil
}

func (s *MongoTodoStore) Update(ctx context.Context, todo *models.Todo) error {
	todo.UpdatedAt = time.Now().UTC()
	result, err := s.col.UpdateByID(ctx, todo.ID, bson.M{
		"$set": bson.M{
			"title":       todo.Title,
			"description": todo.Description,
			"status":      todo.Status,
			"dueDate":     todo.DueDate,
			"updatedAt":   todo.UpdatedAt,
		},
	})
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *MongoTodoStore) Delete(ctx context.Context, id bson.ObjectID) error {
	result, err := s.col.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if result.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}
