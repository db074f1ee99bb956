package store

import (
	"context"
	"time"

	"go-telecrm/internal/database"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type StoreRepository interface {
	Upsert(ctx context.Context, store *Store) error
	List(ctx context.Context) ([]Store, error)
	ListActive(ctx context.Context) ([]Store, error)
	FindByName(ctx context.Context, name string) (*Store, error)
	EnsureIndexes(ctx context.Context) error
}

type StoreRepositoryImpl struct {
	Collection *mongo.Collection
}

func NewStoreRepository(mongodb *database.MongodbDB) StoreRepository {
	return &StoreRepositoryImpl{
		Collection: mongodb.DB.Collection("stores"),
	}
}

// Upsert inserts or refreshes a directory entry keyed by canonical name.
func (r *StoreRepositoryImpl) Upsert(ctx context.Context, store *Store) error {
	now := time.Now()
	store.UpdatedAt = now

	update := bson.M{
		"$set": bson.M{
			"name":       store.Name,
			"code":       store.Code,
			"brand":      store.Brand,
			"city":       store.City,
			"is_active":  store.IsActive,
			"updated_at": store.UpdatedAt,
		},
		"$setOnInsert": bson.M{
			"_id":        primitive.NewObjectID(),
			"created_at": now,
		},
	}

	opts := options.Update().SetUpsert(true)
	_, err := r.Collection.UpdateOne(ctx, bson.M{"name": store.Name}, update, opts)
	return err
}

func (r *StoreRepositoryImpl) List(ctx context.Context) ([]Store, error) {
	return r.find(ctx, bson.M{})
}

func (r *StoreRepositoryImpl) ListActive(ctx context.Context) ([]Store, error) {
	return r.find(ctx, bson.M{"is_active": true})
}

func (r *StoreRepositoryImpl) find(ctx context.Context, filter bson.M) ([]Store, error) {
	opts := options.Find().SetSort(bson.D{{Key: "name", Value: 1}})
	cursor, err := r.Collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var stores []Store
	if err = cursor.All(ctx, &stores); err != nil {
		return nil, err
	}
	return stores, nil
}

func (r *StoreRepositoryImpl) FindByName(ctx context.Context, name string) (*Store, error) {
	var store Store
	err := r.Collection.FindOne(ctx, bson.M{"name": name}).Decode(&store)
	if err != nil {
		return nil, err
	}
	return &store, nil
}

func (r *StoreRepositoryImpl) EnsureIndexes(ctx context.Context) error {
	_, err := r.Collection.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "name", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	return err
}
