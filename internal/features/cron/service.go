package cron_feature

import (
	"context"
	"errors"
	"time"

	common_models "go-telecrm/internal/common/models"
	"go-telecrm/internal/config"
	sync_feature "go-telecrm/internal/features/sync"

	"github.com/robfig/cron/v3"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

// Scheduler fires the auto sync run on the configured cron expression. A run
// still in flight when the next tick lands is skipped by the orchestrator's
// run slot; the scheduler just logs it.
type Scheduler struct {
	cron        *cron.Cron
	syncService sync_feature.SyncService
	config      *config.Config
	logger      *zap.Logger
}

func NewScheduler(syncService sync_feature.SyncService, cfg *config.Config, logger *zap.Logger) *Scheduler {
	return &Scheduler{
		cron:        cron.New(),
		syncService: syncService,
		config:      cfg,
		logger:      logger,
	}
}

func (s *Scheduler) Start() error {
	if _, err := cron.ParseStandard(s.config.SyncCron); err != nil {
		return err
	}

	_, err := s.cron.AddFunc(s.config.SyncCron, s.run)
	if err != nil {
		return err
	}

	s.cron.Start()
	s.logger.Info("sync scheduler started", zap.String("schedule", s.config.SyncCron))
	return nil
}

func (s *Scheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
}

func (s *Scheduler) run() {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Minute)
	defer cancel()

	_, err := s.syncService.RunAll(ctx, common_models.SyncTriggerAuto)
	if err != nil {
		if errors.Is(err, sync_feature.ErrRunInProgress) {
			s.logger.Warn("scheduled sync skipped, previous run still in flight")
			return
		}
		s.logger.Error("scheduled sync failed", zap.Error(err))
	}
}

// RegisterScheduler ties the scheduler to the application lifecycle.
func RegisterScheduler(lc fx.Lifecycle, s *Scheduler) {
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			return s.Start()
		},
		OnStop: func(ctx context.Context) error {
			s.Stop()
			return nil
		},
	})
}
