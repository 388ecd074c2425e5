package store

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"

	"github.com/princeade/taskvault/models"
	"github.com/princeade/taskvault/utils"
)

type MongoTokenLedger struct {
	col *mongo.Collection
}

func NewMongoTokenLedger(col *mongo.Collection) *MongoTokenLedger {
	return &MongoTokenLedger{col: col}
}

func (l *MongoTokenLedger) Insert(ctx context.Context, record *models.RefreshTokenRecord) error {
	now := time.Now().UTC()
	record.CreatedAt = now
	record.UpdatedAt = now

	result, err := l.col.InsertOne(ctx, record)
	if err != nil {
		if utils.IsDuplicateKey(err) {
			return ErrDuplicate
		}
		return err
	}
	if id, ok := result.InsertedID.(bson.ObjectID); ok {
		record.ID = id
	}
	return nil
}

func (l *MongoTokenLedger) Find(ctx context.Context, token string) (*models.RefreshTokenRecord, error) {
	var record models.RefreshTokenRecord
	err := l.col.FindOne(ctx, bson.M{"token": token}).Decode(&record)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &record, nil
}

func (l *MongoTokenLedger) Revoke(ctx context.Context, token string) error {
	_, err := l.col.UpdateOne(ctx, bson.M{"token": token}, bson.M{
		"$set": bson.M{
			"blacklisted": true,
			"updatedAt":   time.Now().UTC(),
		},
	})
	return err
}

func (l *MongoTokenLedger) IsBlacklisted(ctx context.Context, token string) (bool, error) {
	err := l.col.FindOne(ctx, bson.M{"token": token, "blacklisted": true}).Err()
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}
