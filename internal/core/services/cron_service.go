package services

import (
	"context"
	"time"

	"tienda-console/internal/adapters/persistence/repositories"
	"tienda-console/internal/core/query"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"
)

// CronService runs the housekeeping jobs of the console
type CronService struct {
	cron          *cron.Cron
	cache         *query.Cache
	carts         *CartService
	sweeper       repositories.Sweeper
	cacheGCTime   time.Duration
	sessionMaxAge time.Duration
	now           func() time.Time
	log           logrus.FieldLogger
}

// NewCronService wires the jobs; sweeper may be nil when the store cannot sweep
func NewCronService(cache *query.Cache, carts *CartService, sweeper repositories.Sweeper, cacheGCTime, sessionMaxAge time.Duration, log logrus.FieldLogger) *CronService {
	return &CronService{
		cron:          cron.New(),
		cache:         cache,
		carts:         carts,
		sweeper:       sweeper,
		cacheGCTime:   cacheGCTime,
		sessionMaxAge: sessionMaxAge,
		now:           time.Now,
		log:           log.WithField("component", "cron"),
	}
}

// Start schedules the jobs and starts the scheduler
func (s *CronService) Start() error {
	if _, err := s.cron.AddFunc("@every 1m", s.collectGarbage); err != nil {
		return err
	}
	if s.sweeper != nil && s.sessionMaxAge > 0 {
		if _, err := s.cron.AddFunc("@every 1h", s.sweepSessions); err != nil {
			return err
		}
	}
	s.cron.Start()
	s.log.Info("⏰ cron service started")
	return nil
}

// Stop waits for running jobs to finish
func (s *CronService) Stop() {
	<-s.cron.Stop().Done()
	s.log.Info("⏰ cron service stopped")
}

func (s *CronService) collectGarbage() {
	evicted := s.cache.GC(s.cacheGCTime)
	pruned := 0
	if s.carts != nil {
		pruned = s.carts.Prune(s.sessionMaxAge)
	}
	if evicted > 0 || pruned > 0 {
		s.log.WithFields(logrus.Fields{"entries": evicted, "carts": pruned}).Debug("🧹 cache garbage collected")
	}
}

func (s *CronService) sweepSessions() {
	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()
	n, err := s.sweeper.DeleteOlderThan(ctx, repositories.SessionPrefix, s.now().Add(-s.sessionMaxAge))
	if err != nil {
		s.log.WithError(err).Error("❌ failed to sweep idle sessions")
		return
	}
	if n > 0 {
		s.log.WithField("removed", n).Info("🧹 idle session keys removed")
	}
}
