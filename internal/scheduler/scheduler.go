package scheduler

import (
	"context"
	"fmt"
	"strings"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"

	"spot-rental-api/internal/cache"
	"spot-rental-api/internal/cleanup"
	"spot-rental-api/internal/config"
	"spot-rental-api/internal/database"
	"spot-rental-api/internal/models"
	"spot-rental-api/internal/search"
	"spot-rental-api/internal/snapshot"
)

// Scheduler runs the daily maintenance job: stats snapshots, delete-log
// pruning, a full search reindex and a cache flush.
type Scheduler struct {
	cron      *cron.Cron
	db        *database.DB
	snapshot  *snapshot.Service
	cleanup   *cleanup.Service
	searcher  *search.Client
	cache     *cache.Cache
	cfg       config.SnapshotConfig
	log       zerolog.Logger
	isRunning bool
}

// New creates a scheduler. searcher and responseCache may be nil when those
// subsystems are disabled.
func New(db *database.DB, cfg config.SnapshotConfig, searcher *search.Client, responseCache *cache.Cache, log zerolog.Logger) *Scheduler {
	return &Scheduler{
		cron:     cron.New(),
		db:       db,
		snapshot: snapshot.NewService(db, log),
		cleanup:  cleanup.NewService(db, log),
		searcher: searcher,
		cache:    responseCache,
		cfg:      cfg,
		log:      log,
	}
}

// Start registers and starts the daily job.
func (s *Scheduler) Start() error {
	if !s.cfg.DailyRunEnabled {
		s.log.Info().Msg("scheduler: daily run is disabled in configuration")
		return nil
	}

	cronSpec := s.parseDailyRunTime(s.cfg.DailyRunTime)

	_, err := s.cron.AddFunc(cronSpec, func() {
		s.log.Info().Msg("scheduler: starting daily maintenance job")
		if err := s.RunNow(); err != nil {
			s.log.Error().Err(err).Msg("scheduler: daily maintenance failed")
		} else {
			s.log.Info().Msg("scheduler: daily maintenance completed")
		}
	})
	if err != nil {
		return err
	}

	s.cron.Start()
	s.isRunning = true
	s.log.Info().Str("at", s.cfg.DailyRunTime).Str("cron", cronSpec).Msg("scheduler: started")
	return nil
}

// Stop stops the scheduler.
func (s *Scheduler) Stop() {
	if s.isRunning {
		s.cron.Stop()
		s.isRunning = false
		s.log.Info().Msg("scheduler: stopped")
	}
}

// RunNow executes the maintenance routine immediately.
func (s *Scheduler) RunNow() error {
	if _, err := s.snapshot.SnapshotAll(); err != nil {
		return err
	}
	if _, err := s.cleanup.PruneDeleteLogs(s.cfg.DeleteLogRetentionDays); err != nil {
		return err
	}
	if s.searcher != nil {
		var spots []models.Spot
		if err := s.db.Gorm().Find(&spots).Error; err != nil {
			return err
		}
		if err := s.searcher.IndexSpots(spots); err != nil {
			return fmt.Errorf("search reindex failed: %w", err)
		}
	}
	s.cache.Flush(context.Background())
	return nil
}

// parseDailyRunTime turns "HH:MM" into a cron spec, falling back to 03:00
// on malformed input.
func (s *Scheduler) parseDailyRunTime(value string) string {
	parts := strings.Split(value, ":")
	if len(parts) == 2 {
		var hour, minute int
		if _, err := fmt.Sscanf(value, "%d:%d", &hour, &minute); err == nil &&
			hour >= 0 && hour < 24 && minute >= 0 && minute < 60 {
			return fmt.Sprintf("%d %d * * *", minute, hour)
		}
	}
	s.log.Warn().Str("value", value).Msg("scheduler: invalid daily_run_time, using 03:00")
	return "0 3 * * *"
}
