package service

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/tbn01-acc/lifefocus-sub002/internal/model"
)

type activityStore interface {
	UpsertDailyActivity(ctx context.Context, userID int64, day time.Time, minutes int) error
	GetDailyActivity(ctx context.Context, userID int64, limit int) ([]model.DailyActivity, error)
}

type ActivityService struct {
	store      activityStore
	activation *ActivationEngine
	log        *logrus.Logger
}

func NewActivityService(store activityStore, activation *ActivationEngine, log *logrus.Logger) *ActivityService {
	return &ActivityService{store: store, activation: activation, log: log}
}

// RecordFlush applies one session flush to the daily log and re-runs the
// activation check for the user. Zero-minute flushes are a no-op. A failed
// activation check does not fail the flush; the next flush retries it.
func (s *ActivityService) RecordFlush(ctx context.Context, userID int64, day time.Time, minutes int) error {
	if minutes <= 0 {
		return nil
	}

	if err := s.store.UpsertDailyActivity(ctx, userID, day, minutes); err != nil {
		return err
	}

	if err := s.activation.Check(ctx, userID); err != nil {
		s.log.WithError(err).WithField("user_id", userID).Warn("activation check failed")
	}
	return nil
}

func (s *ActivityService) GetRecentActivity(ctx context.Context, userID int64, limit int) ([]model.DailyActivity, error) {
	if limit <= 0 || limit > 90 {
		limit = 30
	}
	return s.store.GetDailyActivity(ctx, userID, limit)
}
