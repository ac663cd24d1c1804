package storage

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

var _ Storage = (*Mongo)(nil)

const mongoCollection = "async_storage"

type mongoItem struct {
	Key       string    `bson:"_id"`
	Value     string    `bson:"value"`
	UpdatedAt time.Time `bson:"updated_at"`
}

type Mongo struct {
	collection *mongo.Collection
}

func NewMongo(db *mongo.Database) *Mongo {
	return &Mongo{
		collection: db.Collection(mongoCollection),
	}
}

func (m *Mongo) GetItem(ctx context.Context, key string) (string, bool, error) {
	if err := checkKey(key); err != nil {
		return "", false, err
	}

	var item mongoItem
	err := m.collection.FindOne(ctx, bson.M{"_id": key}).Decode(&item)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("failed to get item %s: %w", key, err)
	}

	return item.Value, true, nil
}

func (m *Mongo) SetItem(ctx context.Context, key, value string) error {
	if err := checkKey(key); err != nil {
		return err
	}

	update := bson.M{
		"$set": bson.M{
			"value":      value,
			"updated_at": time.Now(),
		},
	}
	opts := options.Update().SetUpsert(true)

	if _, err := m.collection.UpdateOne(ctx, bson.M{"_id": key}, update, opts); err != nil {
		return fmt.Errorf("failed to set item %s: %w", key, err)
	}
	return nil
}

func (m *Mongo) RemoveItem(ctx context.Context, key string) error {
	if err := checkKey(key); err != nil {
		return err
	}

	if _, err := m.collection.DeleteOne(ctx, bson.M{"_id": key}); err != nil {
		return fmt.Errorf("failed to remove item %s: %w", key, err)
	}
	return nil
}

func (m *Mongo) Close(ctx context.Context) error {
	return m.collection.Database().Client().Disconnect(ctx)
}
