package sync

import (
	"context"
	"fmt"
	"testing"
	"time"

	common_models "go-telecrm/internal/common/models"
	"go-telecrm/internal/config"
	"go-telecrm/internal/features/lead"
	"go-telecrm/internal/features/store"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// countingLeadRepo implements lead.LeadRepository; every candidate inserts.
type countingLeadRepo struct {
	inserted []lead.Lead
}

func (c *countingLeadRepo) Insert(ctx context.Context, l *lead.Lead) error {
	l.ID = primitive.NewObjectID()
	c.inserted = append(c.inserted, *l)
	return nil
}
func (c *countingLeadRepo) FindOne(ctx context.Context, filter bson.M) (*lead.Lead, error) {
	return nil, mongo.ErrNoDocuments
}
func (c *countingLeadRepo) FindByID(ctx context.Context, id string) (*lead.Lead, error) {
	return nil, mongo.ErrNoDocuments
}
func (c *countingLeadRepo) UpdateFields(ctx context.Context, id primitive.ObjectID, set bson.M) error {
	return nil
}
func (c *countingLeadRepo) List(ctx context.Context, filter bson.M, limit, offset int64) ([]lead.Lead, int64, error) {
	return nil, 0, nil
}
func (c *countingLeadRepo) Delete(ctx context.Context, id primitive.ObjectID) error { return nil }
func (c *countingLeadRepo) EnsureIndexes(ctx context.Context) error                 { return nil }

type emptyArchive struct{}

func (emptyArchive) Exists(ctx context.Context, filter bson.M) (bool, error) { return false, nil }

type fakeStoreService struct {
	targets []store.Store
	saved   []store.Store
}

func (f *fakeStoreService) ListStores(ctx context.Context) ([]store.Store, error) {
	return f.targets, nil
}
func (f *fakeStoreService) ListSyncTargets(ctx context.Context) ([]store.Store, error) {
	return f.targets, nil
}
func (f *fakeStoreService) SaveStore(ctx context.Context, s *store.Store) error {
	f.saved = append(f.saved, *s)
	return nil
}

// fakeReportsClient serves canned rows per store and can fail specific stores.
type fakeReportsClient struct {
	rows     map[string][]map[string]interface{}
	failFor  map[string]bool
	storeDir []map[string]interface{}
}

func (f *fakeReportsClient) FetchRows(ctx context.Context, syncType common_models.SyncType, storeName string, from, to time.Time) ([]map[string]interface{}, error) {
	if f.failFor[storeName] {
		return nil, fmt.Errorf("upstream timeout")
	}
	return f.rows[storeName], nil
}

func (f *fakeReportsClient) FetchStores(ctx context.Context) ([]map[string]interface{}, error) {
	return f.storeDir, nil
}

func newTestService(client ReportsClient, stores *fakeStoreService, repo *countingLeadRepo, logRepo *fakeSyncLogRepo) SyncService {
	cfg := &config.Config{SyncCallPause: time.Millisecond, BackfillDays: 180}
	resolver := lead.NewResolver(repo, emptyArchive{}, nil)
	return NewSyncService(client, NewTracker(logRepo), resolver, stores, cfg, zap.NewNop())
}

func TestRunChannelProcessesAllTargets(t *testing.T) {
	stores := &fakeStoreService{targets: []store.Store{
		{Name: "Suitor Guy - Kottakkal", IsActive: true},
		{Name: "Zorucci - Edappally", IsActive: true},
	}}
	client := &fakeReportsClient{rows: map[string][]map[string]interface{}{
		"Suitor Guy - Kottakkal": {
			{"name": "A", "phone": "9998881111", "store": "SG Kottakal", "booking no": "BK-1"},
		},
		"Zorucci - Edappally": {
			{"name": "B", "phone": "9998882222", "booking no": "BK-2"},
		},
	}}
	repo := &countingLeadRepo{}
	logRepo := &fakeSyncLogRepo{}

	svc := newTestService(client, stores, repo, logRepo)
	outcome, err := svc.RunChannel(context.Background(), common_models.SyncTypeBooking, common_models.SyncTriggerManual)
	if err != nil {
		t.Fatalf("RunChannel() error = %v", err)
	}

	if outcome.Created != 2 {
		t.Errorf("created = %d, want 2", outcome.Created)
	}
	if outcome.Status() != common_models.SyncStatusSuccess {
		t.Errorf("status = %v, want success", outcome.Status())
	}

	// the row without a store column inherits the target store
	if repo.inserted[1].Store != "Zorucci - Edappally" {
		t.Errorf("store backfill failed, got %q", repo.inserted[1].Store)
	}
	// store strings are canonicalized on the way in
	if repo.inserted[0].Store != "Suitor Guy - Kottakkal" {
		t.Errorf("store not canonicalized, got %q", repo.inserted[0].Store)
	}

	if len(logRepo.logs) != 1 || logRepo.logs[0].SyncType != common_models.SyncTypeBooking {
		t.Fatalf("expected one committed sync log, got %+v", logRepo.logs)
	}
	if logRepo.logs[0].LastSyncCount != 2 {
		t.Errorf("committed count = %d, want 2", logRepo.logs[0].LastSyncCount)
	}
}

func TestRunChannelDegradesFailedLocation(t *testing.T) {
	stores := &fakeStoreService{targets: []store.Store{
		{Name: "Suitor Guy - Kottakkal", IsActive: true},
		{Name: "Zorucci - Edappally", IsActive: true},
	}}
	client := &fakeReportsClient{
		rows: map[string][]map[string]interface{}{
			"Suitor Guy - Kottakkal": {
				{"name": "A", "phone": "9998881111", "store": "SG Kottakal"},
			},
		},
		failFor: map[string]bool{"Zorucci - Edappally": true},
	}
	logRepo := &fakeSyncLogRepo{}

	svc := newTestService(client, stores, &countingLeadRepo{}, logRepo)
	outcome, err := svc.RunChannel(context.Background(), common_models.SyncTypeBooking, common_models.SyncTriggerManual)
	if err != nil {
		t.Fatalf("RunChannel() error = %v", err)
	}

	if outcome.Status() != common_models.SyncStatusPartial {
		t.Errorf("status = %v, want partial", outcome.Status())
	}
	if outcome.Created != 1 || outcome.UpstreamErrors != 1 {
		t.Errorf("outcome = %+v, want 1 created and 1 upstream error", outcome)
	}
	if logRepo.logs[0].Status != common_models.SyncStatusPartial {
		t.Errorf("committed status = %v, want partial", logRepo.logs[0].Status)
	}
}

func TestRunChannelAllLocationsDownIsFailed(t *testing.T) {
	stores := &fakeStoreService{targets: []store.Store{
		{Name: "Suitor Guy - Kottakkal", IsActive: true},
	}}
	client := &fakeReportsClient{failFor: map[string]bool{"Suitor Guy - Kottakkal": true}}
	logRepo := &fakeSyncLogRepo{}

	svc := newTestService(client, stores, &countingLeadRepo{}, logRepo)
	outcome, err := svc.RunChannel(context.Background(), common_models.SyncTypeBooking, common_models.SyncTriggerManual)
	if err != nil {
		t.Fatalf("RunChannel() error = %v", err)
	}

	if outcome.Status() != common_models.SyncStatusFailed {
		t.Errorf("status = %v, want failed", outcome.Status())
	}

	// the failed entry is recorded but must not become a watermark
	tracker := NewTracker(logRepo)
	start, err := tracker.WindowStart(context.Background(), common_models.SyncTypeBooking)
	if err != nil {
		t.Fatal(err)
	}
	if !start.IsZero() {
		t.Errorf("failed run advanced the watermark to %v", start)
	}
}

func TestOverlappingRunIsSkipped(t *testing.T) {
	svc := newTestService(&fakeReportsClient{}, &fakeStoreService{}, &countingLeadRepo{}, &fakeSyncLogRepo{})

	impl := svc.(*SyncServiceImpl)
	<-impl.slot // simulate a run in flight

	if _, err := svc.RunAll(context.Background(), common_models.SyncTriggerAuto); err != ErrRunInProgress {
		t.Errorf("RunAll() error = %v, want ErrRunInProgress", err)
	}
	if _, err := svc.RunChannel(context.Background(), common_models.SyncTypeBooking, common_models.SyncTriggerManual); err != ErrRunInProgress {
		t.Errorf("RunChannel() error = %v, want ErrRunInProgress", err)
	}

	impl.slot <- struct{}{}
	if _, err := svc.RunChannel(context.Background(), common_models.SyncTypeBooking, common_models.SyncTriggerManual); err != nil {
		t.Errorf("run after release should proceed, got %v", err)
	}
}

func TestRunAllSyncsStoresFirst(t *testing.T) {
	stores := &fakeStoreService{}
	client := &fakeReportsClient{storeDir: []map[string]interface{}{
		{"name": "Suitor Guy - Kottakkal", "code": "SGK", "city": "Kottakkal"},
	}}

	svc := newTestService(client, stores, &countingLeadRepo{}, &fakeSyncLogRepo{})
	results, err := svc.RunAll(context.Background(), common_models.SyncTriggerAuto)
	if err != nil {
		t.Fatalf("RunAll() error = %v", err)
	}

	if len(stores.saved) != 1 || stores.saved[0].Name != "Suitor Guy - Kottakkal" {
		t.Errorf("store directory was not refreshed: %+v", stores.saved)
	}
	if len(results) != 4 {
		t.Errorf("expected outcomes for store+booking+rentout+return, got %d", len(results))
	}
}
