package sync

import (
	"context"
	"errors"
	"time"

	common_models "go-telecrm/internal/common/models"

	"go.mongodb.org/mongo-driver/mongo"
)

// Tracker persists per-channel incremental sync watermarks. The next run's
// window lower bound is always the last run that actually obtained data;
// a failed run can never advance the watermark, so an outage only ever
// causes reprocessing, not data loss.
type Tracker struct {
	Repo SyncLogRepository
}

func NewTracker(repo SyncLogRepository) *Tracker {
	return &Tracker{Repo: repo}
}

// WindowStart returns the watermark for a channel, or the zero time when the
// channel has never completed a run.
func (t *Tracker) WindowStart(ctx context.Context, syncType common_models.SyncType) (time.Time, error) {
	latest, err := t.Repo.LatestAdvancing(ctx, syncType)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return time.Time{}, nil
		}
		return time.Time{}, err
	}
	return latest.LastSyncAt, nil
}

// Commit appends the run's history entry, stamped with the wall-clock time
// the run finished.
func (t *Tracker) Commit(ctx context.Context, syncType common_models.SyncType, trigger common_models.SyncTrigger, outcome *Outcome) error {
	return t.Repo.Append(ctx, &SyncLog{
		SyncType:      syncType,
		Trigger:       trigger,
		LastSyncAt:    time.Now(),
		LastSyncCount: outcome.Processed(),
		Status:        outcome.Status(),
		ErrorMessage:  outcome.Err,
	})
}
