package sync

import (
	"context"
	"sort"
	"testing"
	"time"

	common_models "go-telecrm/internal/common/models"

	"go.mongodb.org/mongo-driver/mongo"
)

// fakeSyncLogRepo keeps history in memory, append-only like the real one.
type fakeSyncLogRepo struct {
	logs []SyncLog
}

func (f *fakeSyncLogRepo) Append(ctx context.Context, log *SyncLog) error {
	if log.LastSyncAt.IsZero() {
		log.LastSyncAt = time.Now()
	}
	f.logs = append(f.logs, *log)
	return nil
}

func (f *fakeSyncLogRepo) LatestAdvancing(ctx context.Context, syncType common_models.SyncType) (*SyncLog, error) {
	var matches []SyncLog
	for _, l := range f.logs {
		if l.SyncType == syncType &&
			(l.Status == common_models.SyncStatusSuccess || l.Status == common_models.SyncStatusPartial) {
			matches = append(matches, l)
		}
	}
	if len(matches) == 0 {
		return nil, mongo.ErrNoDocuments
	}
	sort.Slice(matches, func(i, j int) bool { return matches[i].LastSyncAt.After(matches[j].LastSyncAt) })
	return &matches[0], nil
}

func (f *fakeSyncLogRepo) List(ctx context.Context, syncType common_models.SyncType, limit int64) ([]SyncLog, error) {
	var out []SyncLog
	for _, l := range f.logs {
		if syncType == "" || l.SyncType == syncType {
			out = append(out, l)
		}
	}
	return out, nil
}

func TestWindowStartFirstRun(t *testing.T) {
	tracker := NewTracker(&fakeSyncLogRepo{})

	start, err := tracker.WindowStart(context.Background(), common_models.SyncTypeBooking)
	if err != nil {
		t.Fatalf("WindowStart() error = %v", err)
	}
	if !start.IsZero() {
		t.Errorf("first run must have zero watermark, got %v", start)
	}
}

func TestFailedRunDoesNotAdvanceWatermark(t *testing.T) {
	repo := &fakeSyncLogRepo{}
	tracker := NewTracker(repo)
	ctx := context.Background()

	good := &Outcome{Created: 5}
	if err := tracker.Commit(ctx, common_models.SyncTypeBooking, common_models.SyncTriggerAuto, good); err != nil {
		t.Fatalf("Commit() error = %v", err)
	}
	goodAt := repo.logs[0].LastSyncAt

	time.Sleep(5 * time.Millisecond)

	bad := &Outcome{Aborted: true, Err: "upstream down"}
	if err := tracker.Commit(ctx, common_models.SyncTypeBooking, common_models.SyncTriggerAuto, bad); err != nil {
		t.Fatalf("Commit() error = %v", err)
	}

	start, err := tracker.WindowStart(ctx, common_models.SyncTypeBooking)
	if err != nil {
		t.Fatalf("WindowStart() error = %v", err)
	}
	if !start.Equal(goodAt) {
		t.Errorf("watermark = %v, want the successful run's %v", start, goodAt)
	}

	if len(repo.logs) != 2 {
		t.Errorf("failed runs must still be recorded, got %d entries", len(repo.logs))
	}
}

func TestPartialRunAdvancesWatermark(t *testing.T) {
	repo := &fakeSyncLogRepo{}
	tracker := NewTracker(repo)
	ctx := context.Background()

	if err := tracker.Commit(ctx, common_models.SyncTypeReturn, common_models.SyncTriggerAuto, &Outcome{Created: 1}); err != nil {
		t.Fatal(err)
	}
	time.Sleep(5 * time.Millisecond)

	partial := &Outcome{Created: 3, Failed: 1}
	if partial.Status() != common_models.SyncStatusPartial {
		t.Fatalf("outcome status = %v, want partial", partial.Status())
	}
	if err := tracker.Commit(ctx, common_models.SyncTypeReturn, common_models.SyncTriggerAuto, partial); err != nil {
		t.Fatal(err)
	}

	start, err := tracker.WindowStart(ctx, common_models.SyncTypeReturn)
	if err != nil {
		t.Fatal(err)
	}
	if !start.Equal(repo.logs[1].LastSyncAt) {
		t.Errorf("partial run must advance the watermark")
	}
}

func TestWatermarksArePerChannel(t *testing.T) {
	repo := &fakeSyncLogRepo{}
	tracker := NewTracker(repo)
	ctx := context.Background()

	if err := tracker.Commit(ctx, common_models.SyncTypeBooking, common_models.SyncTriggerAuto, &Outcome{Created: 1}); err != nil {
		t.Fatal(err)
	}

	start, err := tracker.WindowStart(ctx, common_models.SyncTypeReturn)
	if err != nil {
		t.Fatal(err)
	}
	if !start.IsZero() {
		t.Errorf("another channel's commit must not advance this channel's watermark")
	}
}

func TestOutcomeStatus(t *testing.T) {
	tests := []struct {
		name    string
		outcome Outcome
		want    common_models.SyncStatus
	}{
		{"Clean Run", Outcome{Created: 2, Updated: 1}, common_models.SyncStatusSuccess},
		{"Record Failures Are Partial", Outcome{Created: 2, Failed: 1}, common_models.SyncStatusPartial},
		{"Some Locations Down Is Partial", Outcome{Created: 2, Locations: 3, UpstreamErrors: 1}, common_models.SyncStatusPartial},
		{"All Locations Down Is Failed", Outcome{Locations: 3, UpstreamErrors: 3}, common_models.SyncStatusFailed},
		{"Aborted Is Failed", Outcome{Created: 9, Aborted: true}, common_models.SyncStatusFailed},
		{"Skips Alone Still Succeed", Outcome{Skipped: 4}, common_models.SyncStatusSuccess},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.outcome.Status(); got != tt.want {
				t.Errorf("Status() = %v, want %v", got, tt.want)
			}
		})
	}
}
