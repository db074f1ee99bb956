package archive

import (
	"context"
	"time"

	"go-telecrm/internal/database"
	"go-telecrm/internal/features/lead"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// ArchivedLead is a lead moved out of the active pipeline into the report
// archive. Archived identities are final: a later re-import of the same
// identity must not resurrect them.
type ArchivedLead struct {
	ID         primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	Lead       lead.Lead          `json:"lead" bson:"lead"`
	Phone      string             `json:"phone" bson:"phone"`
	Name       string             `json:"name" bson:"name"`
	Store      string             `json:"store" bson:"store"`
	EnquiryOn  *time.Time         `json:"enquiry_date,omitempty" bson:"enquiry_date,omitempty"`
	ArchivedAt time.Time          `json:"archived_at" bson:"archived_at"`
	ArchivedBy string             `json:"archived_by" bson:"archived_by"`
}

type ArchiveRepository interface {
	lead.ArchiveIndex
	Insert(ctx context.Context, entry *ArchivedLead) error
	List(ctx context.Context, filter bson.M, limit, offset int64) ([]ArchivedLead, int64, error)
}

type ArchiveRepositoryImpl struct {
	Collection *mongo.Collection
}

func NewArchiveRepository(mongodb *database.MongodbDB) ArchiveRepository {
	return &ArchiveRepositoryImpl{
		Collection: mongodb.DB.Collection("report_leads"),
	}
}

func (r *ArchiveRepositoryImpl) Insert(ctx context.Context, entry *ArchivedLead) error {
	if entry.ID.IsZero() {
		entry.ID = primitive.NewObjectID()
	}
	entry.ArchivedAt = time.Now()

	// identity fields are lifted to the top level so the resolver's
	// re-import check can query them directly
	entry.Phone = entry.Lead.Phone
	entry.Name = entry.Lead.Name
	entry.Store = entry.Lead.Store
	entry.EnquiryOn = entry.Lead.EnquiryDate

	_, err := r.Collection.InsertOne(ctx, entry)
	return err
}

// Exists implements lead.ArchiveIndex.
func (r *ArchiveRepositoryImpl) Exists(ctx context.Context, filter bson.M) (bool, error) {
	count, err := r.Collection.CountDocuments(ctx, filter, options.Count().SetLimit(1))
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *ArchiveRepositoryImpl) List(ctx context.Context, filter bson.M, limit, offset int64) ([]ArchivedLead, int64, error) {
	total, err := r.Collection.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, err
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "archived_at", Value: -1}}).
		SetLimit(limit).
		SetSkip(offset)

	cursor, err := r.Collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, 0, err
	}
	defer cursor.Close(ctx)

	var entries []ArchivedLead
	if err = cursor.All(ctx, &entries); err != nil {
		return nil, 0, err
	}

	return entries, total, nil
}
