package storage

import (
	"context"
	"errors"
	"fmt"
	"time"

	"handyhub-session-svc/src/internal/models"
	"handyhub-session-svc/src/internal/session"

	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

var _ session.Storage = (*MongoStore)(nil)

// MongoStore persists each session value as one document keyed by its name.
type MongoStore struct {
	collection *mongo.Collection
}

func NewMongoStore(db *mongo.Database, collectionName string) *MongoStore {
	return &MongoStore{collection: db.Collection(collectionName)}
}

func (s *MongoStore) Get(ctx context.Context, key string) (string, bool, error) {
	var doc models.StoredValue
	err := s.collection.FindOne(ctx, bson.M{"_id": key}).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return "", false, nil
		}
		logrus.WithError(err).WithField("key", key).Error("Failed to get session value")
		return "", false, fmt.Errorf("%w (%w): %v", models.ErrStorageRead, models.ErrDatabaseQuery, err)
	}

	return doc.Value, true, nil
}

func (s *MongoStore) Set(ctx context.Context, key, value string) error {
	filter := bson.M{"_id": key}
	update := bson.M{
		"$set": bson.M{
			"value":      value,
			"updated_at": time.Now(),
		},
	}

	_, err := s.collection.UpdateOne(ctx, filter, update, options.Update().SetUpsert(true))
	if err != nil {
		logrus.WithError(err).WithField("key", key).Error("Failed to store session value")
		return fmt.Errorf("%w (%w): %v", models.ErrStorageWrite, models.ErrDatabaseUpdate, err)
	}

	return nil
}

func (s *MongoStore) Remove(ctx context.Context, key string) error {
	_, err := s.collection.DeleteOne(ctx, bson.M{"_id": key})
	if err != nil {
		logrus.WithError(err).WithField("key", key).Error("Failed to delete session value")
		return fmt.Errorf("%w (%w): %v", models.ErrStorageDelete, models.ErrDatabaseDelete, err)
	}

	return nil
}
