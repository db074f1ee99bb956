package lead

import (
	"context"
	"time"

	"go-telecrm/internal/database"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// ErrNotFound is returned by FindOne when no lead matches the filter.
var ErrNotFound = mongo.ErrNoDocuments

type LeadRepository interface {
	Insert(ctx context.Context, lead *Lead) error
	FindOne(ctx context.Context, filter bson.M) (*Lead, error)
	FindByID(ctx context.Context, id string) (*Lead, error)
	UpdateFields(ctx context.Context, id primitive.ObjectID, set bson.M) error
	List(ctx context.Context, filter bson.M, limit, offset int64) ([]Lead, int64, error)
	Delete(ctx context.Context, id primitive.ObjectID) error
	EnsureIndexes(ctx context.Context) error
}

type LeadRepositoryImpl struct {
	Collection *mongo.Collection
}

func NewLeadRepository(mongodb *database.MongodbDB) LeadRepository {
	return &LeadRepositoryImpl{
		Collection: mongodb.DB.Collection("leads"),
	}
}

func (r *LeadRepositoryImpl) Insert(ctx context.Context, lead *Lead) error {
	now := time.Now()
	if lead.ID.IsZero() {
		lead.ID = primitive.NewObjectID()
	}
	lead.CreatedAt = now
	lead.UpdatedAt = now

	_, err := r.Collection.InsertOne(ctx, lead)
	return err
}

func (r *LeadRepositoryImpl) FindOne(ctx context.Context, filter bson.M) (*Lead, error) {
	var lead Lead
	err := r.Collection.FindOne(ctx, filter).Decode(&lead)
	if err != nil {
		return nil, err
	}
	return &lead, nil
}

func (r *LeadRepositoryImpl) FindByID(ctx context.Context, id string) (*Lead, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, err
	}
	return r.FindOne(ctx, bson.M{"_id": oid})
}

func (r *LeadRepositoryImpl) UpdateFields(ctx context.Context, id primitive.ObjectID, set bson.M) error {
	set["updated_at"] = time.Now()
	_, err := r.Collection.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": set})
	return err
}

func (r *LeadRepositoryImpl) List(ctx context.Context, filter bson.M, limit, offset int64) ([]Lead, int64, error) {
	total, err := r.Collection.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, err
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}}).
		SetLimit(limit).
		SetSkip(offset)

	cursor, err := r.Collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, 0, err
	}
	defer cursor.Close(ctx)

	var leads []Lead
	if err = cursor.All(ctx, &leads); err != nil {
		return nil, 0, err
	}

	return leads, total, nil
}

// Delete removes a lead; only the archive path uses it, the sync path never
// hard-deletes.
func (r *LeadRepositoryImpl) Delete(ctx context.Context, id primitive.ObjectID) error {
	_, err := r.Collection.DeleteOne(ctx, bson.M{"_id": id})
	return err
}

func (r *LeadRepositoryImpl) EnsureIndexes(ctx context.Context) error {
	_, err := r.Collection.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "phone", Value: 1}}},
		{Keys: bson.D{{Key: "booking_no", Value: 1}}},
		{Keys: bson.D{{Key: "store", Value: 1}, {Key: "lead_type", Value: 1}}},
		{Keys: bson.D{{Key: "assigned_to", Value: 1}}},
	})
	return err
}
