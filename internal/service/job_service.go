package service

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"carshare/internal/db"
	"carshare/internal/repository"
)

type JobService struct {
	Repo *repository.JobRepository
}

func NewJobService(repo *repository.JobRepository) *JobService {
	return &JobService{Repo: repo}
}

// FinishExpiredBookings flips active rentals and rides whose end time has
// passed to "finished". Run periodically by the cron scheduler.
func (s *JobService) FinishExpiredBookings(ctx context.Context) error {
	for _, table := range []string{"rentals", "rides"} {
		ids, err := s.Repo.ExpiredIDs(ctx, table)
		if err != nil {
			return fmt.Errorf("cron job: failed to fetch expired %s: %w", table, err)
		}
		if len(ids) == 0 {
			continue
		}
		zap.S().Infof("cron job: marking %d %s as finished", len(ids), table)
		if err := s.Repo.UpdateStatuses(ctx, table, ids, db.StatusFinished); err != nil {
			return fmt.Errorf("cron job: failed to update %s statuses: %w", table, err)
		}
	}
	return nil
}
