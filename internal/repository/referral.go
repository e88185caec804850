package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/tbn01-acc/lifefocus-sub002/internal/model"
)

var ErrReferralNotFound = errors.New("referral not found")

func (r *Repository) CreateReferral(ctx context.Context, referral *model.Referral) error {
	query := `
		INSERT INTO referrals (referrer_id, referred_id)
		VALUES ($1, $2)
		RETURNING id, created_at`

	return r.db.QueryRowContext(ctx, query,
		referral.ReferrerID,
		referral.ReferredID,
	).Scan(&referral.ID, &referral.CreatedAt)
}

func (r *Repository) GetReferralByReferredID(ctx context.Context, referredID int64) (*model.Referral, error) {
	var referral model.Referral
	query := "SELECT * FROM referrals WHERE referred_id = $1"
	err := r.db.GetContext(ctx, &referral, query, referredID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrReferralNotFound
		}
		return nil, err
	}
	return &referral, nil
}

// UpdateReferralActivity refreshes the cached engagement counters on the
// edge. GREATEST keeps them monotonic even if a stale recomputation lands
// after a fresher one.
func (r *Repository) UpdateReferralActivity(ctx context.Context, referredID int64, activeDays, totalMinutes int) error {
	query := `
		UPDATE referrals SET
			active_days = GREATEST(active_days, $2),
			total_time_minutes = GREATEST(total_time_minutes, $3)
		WHERE referred_id = $1`

	_, err := r.db.ExecContext(ctx, query, referredID, activeDays, totalMinutes)
	return err
}

func (r *Repository) GetReferralStats(ctx context.Context, referrerID int64) (*model.ReferralStats, error) {
	stats := &model.ReferralStats{}

	query := `
		SELECT
			COUNT(*) AS total,
			COUNT(*) FILTER (WHERE is_active) AS active
		FROM referrals
		WHERE referrer_id = $1`

	var total, active int
	if err := r.db.QueryRowContext(ctx, query, referrerID).Scan(&total, &active); err != nil {
		return nil, err
	}
	stats.TotalReferrals = total
	stats.ActiveReferrals = active
	stats.PendingReferrals = total - active

	err := r.db.GetContext(ctx, &stats.BonusWeeksEarned,
		"SELECT COALESCE(MAX(bonus_weeks_earned), 0) FROM user_wallet WHERE user_id = $1", referrerID)
	if err != nil {
		return nil, err
	}

	return stats, nil
}

func (r *Repository) GetReferredUsers(ctx context.Context, referrerID int64) ([]model.User, error) {
	var users []model.User
	query := `
		SELECT u.* FROM users u
		INNER JOIN referrals r ON r.referred_id = u.id
		WHERE r.referrer_id = $1
		ORDER BY r.created_at DESC`
	err := r.db.SelectContext(ctx, &users, query, referrerID)
	return users, err
}

// CountPaidReferrals counts referred users that hold (or held) a non-trial
// subscription, the input of the commission calculator.
func (r *Repository) CountPaidReferrals(ctx context.Context, referrerID int64) (int, error) {
	var count int
	query := `
		SELECT COUNT(DISTINCT r.referred_id)
		FROM referrals r
		INNER JOIN subscriptions s ON s.user_id = r.referred_id AND NOT s.is_trial
		WHERE r.referrer_id = $1`
	err := r.db.GetContext(ctx, &count, query, referrerID)
	return count, err
}
