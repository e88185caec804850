package repository

import (
	"context"

	"github.com/tbn01-acc/lifefocus-sub002/internal/model"
)

// The three raw signal streams the aggregator consumes. All are read-only
// for this engine.

func (r *Repository) GetStarTotals(ctx context.Context) ([]model.StarTotal, error) {
	var totals []model.StarTotal
	err := r.db.SelectContext(ctx, &totals,
		"SELECT user_id, total_stars FROM user_stars WHERE total_stars > 0")
	return totals, err
}

func (r *Repository) GetReactionEvents(ctx context.Context) ([]model.ReactionEvent, error) {
	var events []model.ReactionEvent
	query := `
		SELECT p.user_id, re.created_at
		FROM post_reactions re
		INNER JOIN posts p ON p.id = re.post_id
		WHERE re.reaction_type = 'like'`
	err := r.db.SelectContext(ctx, &events, query)
	return events, err
}

func (r *Repository) GetDailyScores(ctx context.Context) ([]model.DailyScore, error) {
	var scores []model.DailyScore
	query := `
		SELECT user_id, score_date, habits_completed, tasks_completed, stars_earned
		FROM daily_activity_scores`
	err := r.db.SelectContext(ctx, &scores, query)
	return scores, err
}

// UpsertLeaderboardBatch writes one batch of rebuilt aggregate rows, keyed
// by (user_id, period_type, period_key). Re-running with the same input
// produces identical rows.
func (r *Repository) UpsertLeaderboardBatch(ctx context.Context, rows []model.LeaderboardAggregate) error {
	if len(rows) == 0 {
		return nil
	}

	query := `
		INSERT INTO leaderboard_aggregates
			(user_id, period_type, period_key, total_stars, total_likes, total_activity_score, habits_completed, tasks_completed, updated_at)
		VALUES
			(:user_id, :period_type, :period_key, :total_stars, :total_likes, :total_activity_score, :habits_completed, :tasks_completed, NOW())
		ON CONFLICT (user_id, period_type, period_key) DO UPDATE SET
			total_stars = EXCLUDED.total_stars,
			total_likes = EXCLUDED.total_likes,
			total_activity_score = EXCLUDED.total_activity_score,
			habits_completed = EXCLUDED.habits_completed,
			tasks_completed = EXCLUDED.tasks_completed,
			updated_at = NOW()`

	_, err := r.db.NamedExecContext(ctx, query, rows)
	return err
}

func (r *Repository) GetLeaderboard(ctx context.Context, periodType model.PeriodType, periodKey string, limit int) ([]model.LeaderboardAggregate, error) {
	var rows []model.LeaderboardAggregate
	err := r.db.SelectContext(ctx, &rows, `
		SELECT * FROM leaderboard_aggregates
		WHERE period_type = $1 AND period_key = $2
		ORDER BY total_activity_score DESC, total_stars DESC, user_id ASC
		LIMIT $3`,
		periodType, periodKey, limit)
	return rows, err
}
