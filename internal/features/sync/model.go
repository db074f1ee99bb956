package sync

import (
	"time"

	common_models "go-telecrm/internal/common/models"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// SyncLog is one append-only entry per completed or attempted sync run for a
// channel. History is never mutated, so sync behavior stays auditable.
type SyncLog struct {
	ID            primitive.ObjectID         `json:"id" bson:"_id,omitempty"`
	SyncType      common_models.SyncType     `json:"sync_type" bson:"sync_type"`
	Trigger       common_models.SyncTrigger  `json:"trigger" bson:"trigger"`
	LastSyncAt    time.Time                  `json:"last_sync_at" bson:"last_sync_at"`
	LastSyncCount int                        `json:"last_sync_count" bson:"last_sync_count"`
	Status        common_models.SyncStatus   `json:"status" bson:"status"`
	ErrorMessage  string                     `json:"error_message,omitempty" bson:"error_message,omitempty"`
}

// Outcome aggregates what happened to each record of a run.
type Outcome struct {
	Created int `json:"created"`
	Updated int `json:"updated"`
	Skipped int `json:"skipped"`
	Failed  int `json:"failed"`

	// SkipReasons is a bounded sample of why records were skipped/failed,
	// surfaced to callers instead of raw internals.
	SkipReasons []string `json:"skip_reasons,omitempty"`

	// Upstream fetch accounting: a location whose fetch fails degrades to
	// zero records; the run is partial when some locations produced data
	// and failed when none did.
	Locations      int `json:"locations,omitempty"`
	UpstreamErrors int `json:"upstream_errors,omitempty"`

	// Aborted marks a run that died before completing its window.
	Aborted bool   `json:"aborted,omitempty"`
	Err     string `json:"error,omitempty"`
}

const maxSkipReasonSample = 20

// Record merges one resolution into the tally.
func (o *Outcome) Record(status, reason string, err error) {
	switch status {
	case "created":
		o.Created++
	case "updated":
		o.Updated++
	case "skipped":
		o.Skipped++
		o.sample(reason)
	case "failed":
		o.Failed++
		if err != nil {
			o.sample(err.Error())
		}
	}
}

func (o *Outcome) sample(reason string) {
	if reason != "" && len(o.SkipReasons) < maxSkipReasonSample {
		o.SkipReasons = append(o.SkipReasons, reason)
	}
}

// Status derives the run status the tracker commits.
func (o *Outcome) Status() common_models.SyncStatus {
	switch {
	case o.Aborted:
		return common_models.SyncStatusFailed
	case o.Locations > 0 && o.UpstreamErrors == o.Locations:
		return common_models.SyncStatusFailed
	case o.Failed > 0 || o.UpstreamErrors > 0:
		return common_models.SyncStatusPartial
	default:
		return common_models.SyncStatusSuccess
	}
}

// Processed is the count of net-new or updated records.
func (o *Outcome) Processed() int {
	return o.Created + o.Updated
}
