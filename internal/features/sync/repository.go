package sync

import (
	"context"
	"time"

	common_models "go-telecrm/internal/common/models"
	"go-telecrm/internal/database"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type SyncLogRepository interface {
	Append(ctx context.Context, log *SyncLog) error
	LatestAdvancing(ctx context.Context, syncType common_models.SyncType) (*SyncLog, error)
	List(ctx context.Context, syncType common_models.SyncType, limit int64) ([]SyncLog, error)
}

type SyncLogRepositoryImpl struct {
	collection *mongo.Collection
}

func NewSyncLogRepository(db *database.MongodbDB) SyncLogRepository {
	return &SyncLogRepositoryImpl{
		collection: db.DB.Collection("sync_logs"),
	}
}

// Append inserts a new history entry; existing entries are never touched.
func (r *SyncLogRepositoryImpl) Append(ctx context.Context, log *SyncLog) error {
	if log.ID.IsZero() {
		log.ID = primitive.NewObjectID()
	}
	if log.LastSyncAt.IsZero() {
		log.LastSyncAt = time.Now()
	}

	_, err := r.collection.InsertOne(ctx, log)
	return err
}

// LatestAdvancing returns the most recent entry whose status advances the
// watermark (success or partial). Failed runs never count.
func (r *SyncLogRepositoryImpl) LatestAdvancing(ctx context.Context, syncType common_models.SyncType) (*SyncLog, error) {
	filter := bson.M{
		"sync_type": syncType,
		"status": bson.M{"$in": []common_models.SyncStatus{
			common_models.SyncStatusSuccess,
			common_models.SyncStatusPartial,
		}},
	}

	opts := options.FindOne().SetSort(bson.D{{Key: "last_sync_at", Value: -1}})
	var log SyncLog
	err := r.collection.FindOne(ctx, filter, opts).Decode(&log)
	if err != nil {
		return nil, err
	}

	return &log, nil
}

func (r *SyncLogRepositoryImpl) List(ctx context.Context, syncType common_models.SyncType, limit int64) ([]SyncLog, error) {
	filter := bson.M{}
	if syncType != "" {
		filter["sync_type"] = syncType
	}

	opts := options.Find().SetSort(bson.D{{Key: "last_sync_at", Value: -1}}).SetLimit(limit)
	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var logs []SyncLog
	if err = cursor.All(ctx, &logs); err != nil {
		return nil, err
	}

	return logs, nil
}
