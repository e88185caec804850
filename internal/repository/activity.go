package repository

import (
	"context"
	"time"

	"github.com/tbn01-acc/lifefocus-sub002/internal/model"
)

// UpsertDailyActivity adds minutes to the (user, day) row, creating it if
// absent. The operation is `+=`, not `=`, so concurrent flushes from
// multiple devices commute without locking.
func (r *Repository) UpsertDailyActivity(ctx context.Context, userID int64, day time.Time, minutes int) error {
	query := `
		INSERT INTO referral_activity_log (user_id, activity_date, time_spent_minutes)
		VALUES ($1, $2, $3)
		ON CONFLICT (user_id, activity_date)
		DO UPDATE SET time_spent_minutes = referral_activity_log.time_spent_minutes + EXCLUDED.time_spent_minutes`

	_, err := r.db.ExecContext(ctx, query, userID, day.Format("2006-01-02"), minutes)
	return err
}

// GetActivityTotals recomputes the engagement summary from the full daily
// log for one user.
func (r *Repository) GetActivityTotals(ctx context.Context, userID int64) (*model.ActivityTotals, error) {
	var totals model.ActivityTotals
	query := `
		SELECT
			COUNT(DISTINCT activity_date) AS unique_days,
			COALESCE(SUM(time_spent_minutes), 0) AS total_minutes
		FROM referral_activity_log
		WHERE user_id = $1`

	err := r.db.GetContext(ctx, &totals, query, userID)
	if err != nil {
		return nil, err
	}
	return &totals, nil
}

func (r *Repository) GetDailyActivity(ctx context.Context, userID int64, limit int) ([]model.DailyActivity, error) {
	var entries []model.DailyActivity
	query := `
		SELECT user_id, activity_date, time_spent_minutes
		FROM referral_activity_log
		WHERE user_id = $1
		ORDER BY activity_date DESC
		LIMIT $2`

	err := r.db.SelectContext(ctx, &entries, query, userID, limit)
	return entries, err
}
