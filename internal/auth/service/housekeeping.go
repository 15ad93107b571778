package service

import (
	"context"
	"log/slog"
	"time"

	"github.com/aussiebroadwan/gatekeep/internal/auth/store"
)

// HousekeepingService deletes grants whose refresh token has expired.
// It runs once per call; scheduling is left to whoever invokes
// `gatekeep prune` (cron, a Kubernetes CronJob).
type HousekeepingService struct {
	Store  store.Store
	Logger *slog.Logger

	// Now defaults to time.Now.
	Now func() time.Time
}

// NewHousekeepingService creates a housekeeping service. A nil logger
// falls back to slog.Default.
func NewHousekeepingService(st store.Store, logger *slog.Logger) *HousekeepingService {
	if logger == nil {
		logger = slog.Default()
	}
	return &HousekeepingService{Store: st, Logger: logger, Now: time.Now}
}

// PruneExpiredGrants removes expired grants and returns how many went.
func (s *HousekeepingService) PruneExpiredGrants(ctx context.Context) (int64, error) {
	now := time.Now
	if s.Now != nil {
		now = s.Now
	}

	s.Logger.Info("starting housekeeping cleanup")
	n, err := s.Store.Grants().DeleteExpiredGrants(ctx, now())
	if err != nil {
		s.Logger.Error("failed to delete expired grants", "error", err)
		return 0, err
	}

	s.Logger.Info("housekeeping cleanup completed", "deleted_grants", n)
	return n, nil
}
