package sync

import (
	"context"
	"fmt"
	"time"

	common_models "go-telecrm/internal/common/models"
	"go-telecrm/internal/config"
	"go-telecrm/internal/features/lead"
	"go-telecrm/internal/features/store"

	"go.uber.org/zap"
)

// ErrRunInProgress is returned when a run is requested while another run
// still holds the slot. Overlaps are skipped, never queued.
var ErrRunInProgress = fmt.Errorf("a sync run is already in progress")

// polledChannels are processed in order; the store directory must be fresh
// before the booking/rentout/return channels enumerate it.
var polledChannels = []common_models.SyncType{
	common_models.SyncTypeStore,
	common_models.SyncTypeBooking,
	common_models.SyncTypeRentOut,
	common_models.SyncTypeReturn,
}

type SyncService interface {
	RunAll(ctx context.Context, trigger common_models.SyncTrigger) (map[common_models.SyncType]*Outcome, error)
	RunChannel(ctx context.Context, syncType common_models.SyncType, trigger common_models.SyncTrigger) (*Outcome, error)
	ListLogs(ctx context.Context, syncType common_models.SyncType, limit int64) ([]SyncLog, error)
}

type SyncServiceImpl struct {
	Client       ReportsClient
	Tracker      *Tracker
	Resolver     *lead.Resolver
	StoreService store.StoreService
	Config       *config.Config
	Logger       *zap.Logger

	// single-slot semaphore owned by this service instance; a second
	// orchestrator under test gets its own slot.
	slot chan struct{}
}

func NewSyncService(
	client ReportsClient,
	tracker *Tracker,
	resolver *lead.Resolver,
	storeService store.StoreService,
	cfg *config.Config,
	logger *zap.Logger,
) SyncService {
	s := &SyncServiceImpl{
		Client:       client,
		Tracker:      tracker,
		Resolver:     resolver,
		StoreService: storeService,
		Config:       cfg,
		Logger:       logger,
		slot:         make(chan struct{}, 1),
	}
	s.slot <- struct{}{}
	return s
}

func (s *SyncServiceImpl) acquire() bool {
	select {
	case <-s.slot:
		return true
	default:
		return false
	}
}

func (s *SyncServiceImpl) release() {
	s.slot <- struct{}{}
}

// RunAll processes every polled channel sequentially. An overlapping request
// is logged and skipped.
func (s *SyncServiceImpl) RunAll(ctx context.Context, trigger common_models.SyncTrigger) (map[common_models.SyncType]*Outcome, error) {
	if !s.acquire() {
		s.Logger.Warn("sync run skipped, previous run still in flight",
			zap.String("trigger", string(trigger)))
		return nil, ErrRunInProgress
	}
	defer s.release()

	results := make(map[common_models.SyncType]*Outcome, len(polledChannels))
	for _, channel := range polledChannels {
		outcome, err := s.runChannel(ctx, channel, trigger)
		if err != nil {
			// systemic failure: stop the whole run, nothing more is committed
			return results, err
		}
		results[channel] = outcome
	}
	return results, nil
}

// RunChannel processes one channel under the same run slot.
func (s *SyncServiceImpl) RunChannel(ctx context.Context, syncType common_models.SyncType, trigger common_models.SyncTrigger) (*Outcome, error) {
	if !syncType.Valid() {
		return nil, fmt.Errorf("unknown sync channel %q", syncType)
	}
	if !s.acquire() {
		s.Logger.Warn("sync run skipped, previous run still in flight",
			zap.String("channel", string(syncType)))
		return nil, ErrRunInProgress
	}
	defer s.release()

	return s.runChannel(ctx, syncType, trigger)
}

func (s *SyncServiceImpl) ListLogs(ctx context.Context, syncType common_models.SyncType, limit int64) ([]SyncLog, error) {
	if limit <= 0 {
		limit = 20
	}
	return s.Tracker.Repo.List(ctx, syncType, limit)
}

// runChannel executes one channel's window end to end. A returned error is
// systemic (persistence unreachable) and commits nothing; every other
// failure is folded into the committed outcome.
func (s *SyncServiceImpl) runChannel(ctx context.Context, syncType common_models.SyncType, trigger common_models.SyncTrigger) (*Outcome, error) {
	start := time.Now()
	outcome := &Outcome{}

	watermark, err := s.Tracker.WindowStart(ctx, syncType)
	if err != nil {
		return nil, fmt.Errorf("derive sync window for %s: %w", syncType, err)
	}

	from := watermark
	if from.IsZero() {
		from = time.Now().AddDate(0, 0, -s.Config.BackfillDays)
	}
	to := time.Now()

	switch syncType {
	case common_models.SyncTypeStore:
		err = s.runStoreDirectory(ctx, outcome)
	default:
		err = s.runReportChannel(ctx, syncType, from, to, outcome)
	}
	if err != nil {
		return nil, err
	}

	if commitErr := s.Tracker.Commit(ctx, syncType, trigger, outcome); commitErr != nil {
		return nil, fmt.Errorf("commit sync log for %s: %w", syncType, commitErr)
	}

	s.Logger.Info("sync channel finished",
		zap.String("channel", string(syncType)),
		zap.String("status", string(outcome.Status())),
		zap.Int("created", outcome.Created),
		zap.Int("updated", outcome.Updated),
		zap.Int("skipped", outcome.Skipped),
		zap.Int("failed", outcome.Failed),
		zap.Duration("took", time.Since(start)))

	return outcome, nil
}

// runStoreDirectory refreshes the store directory from upstream.
func (s *SyncServiceImpl) runStoreDirectory(ctx context.Context, outcome *Outcome) error {
	rows, err := s.Client.FetchStores(ctx)
	if err != nil {
		s.Logger.Warn("store directory fetch failed", zap.Error(err))
		outcome.Locations = 1
		outcome.UpstreamErrors = 1
		outcome.Err = err.Error()
		return nil
	}
	outcome.Locations = 1

	for _, row := range rows {
		entry := mapStoreRow(row)
		if entry.Name == "" {
			outcome.Record("skipped", "missing_store_name", nil)
			continue
		}
		if err := s.StoreService.SaveStore(ctx, entry); err != nil {
			outcome.Record("failed", "", err)
			continue
		}
		outcome.Record("updated", "", nil)
	}
	return nil
}

// runReportChannel pulls the window for every active store, sequentially,
// pausing between upstream calls.
func (s *SyncServiceImpl) runReportChannel(ctx context.Context, syncType common_models.SyncType, from, to time.Time, outcome *Outcome) error {
	targets, err := s.StoreService.ListSyncTargets(ctx)
	if err != nil {
		return fmt.Errorf("list sync targets: %w", err)
	}

	for i, target := range targets {
		if i > 0 {
			select {
			case <-time.After(s.Config.SyncCallPause):
			case <-ctx.Done():
				outcome.Aborted = true
				outcome.Err = ctx.Err().Error()
				break
			}
		}
		if outcome.Aborted {
			break
		}

		outcome.Locations++
		rows, err := s.Client.FetchRows(ctx, syncType, target.Name, from, to)
		if err != nil {
			s.Logger.Warn("upstream fetch failed, treating location as empty",
				zap.String("channel", string(syncType)),
				zap.String("store", target.Name),
				zap.Error(err))
			outcome.UpstreamErrors++
			outcome.Err = err.Error()
			continue
		}

		for _, row := range rows {
			cand := lead.MapRow(row, syncType)
			if cand.Store == "" {
				// report rows sometimes omit the store column entirely
				cand.Store = target.Name
			}
			if cand.Source == "" {
				cand.Source = "sync:" + string(syncType)
			}

			res := s.Resolver.Resolve(ctx, &cand)
			outcome.Record(string(res.Status), res.Reason, res.Err)
		}
	}

	return nil
}

func mapStoreRow(row map[string]interface{}) *store.Store {
	get := func(keys ...string) string {
		for _, k := range keys {
			if v, ok := row[k]; ok {
				if s, ok := v.(string); ok {
					return s
				}
			}
		}
		return ""
	}

	active := true
	if v, ok := row["isActive"].(bool); ok {
		active = v
	} else if v, ok := row["is_active"].(bool); ok {
		active = v
	}

	return &store.Store{
		Name:     get("name", "storeName", "store_name", "store"),
		Code:     get("code", "storeCode", "store_code"),
		Brand:    get("brand"),
		City:     get("city", "location"),
		IsActive: active,
	}
}
