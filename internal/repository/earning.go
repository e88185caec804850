package repository

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/tbn01-acc/lifefocus-sub002/internal/model"
)

// CreditRegistrationBonus performs the one-time activation reward as a
// single atomic unit: earning row, activation flag, bonus-week counter and
// subscription extension either all land or none do.
//
// The earning insert carries the idempotence guard: the unique constraint on
// (referrer_id, referred_id, earning_type) makes the loser of a concurrent
// race insert zero rows, and the whole call degrades to a no-op.
func (r *Repository) CreditRegistrationBonus(ctx context.Context, referral *model.Referral, bonusWeeks int) (bool, error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return false, err
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx, `
		INSERT INTO referral_earnings (referrer_id, referred_id, earning_type, bonus_weeks, bonus_amount)
		VALUES ($1, $2, $3, $4, 0)
		ON CONFLICT (referrer_id, referred_id, earning_type) DO NOTHING`,
		referral.ReferrerID, referral.ReferredID, model.EarningTypeRegistrationBonus, bonusWeeks)
	if err != nil {
		return false, fmt.Errorf("failed to insert earning: %w", err)
	}

	inserted, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	if inserted == 0 {
		// Already awarded, nothing to do.
		return false, nil
	}

	_, err = tx.ExecContext(ctx, `
		UPDATE referrals SET is_active = TRUE, activated_at = NOW()
		WHERE id = $1 AND NOT is_active`,
		referral.ID)
	if err != nil {
		return false, fmt.Errorf("failed to activate referral: %w", err)
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO user_wallet (user_id, bonus_weeks_earned) VALUES ($1, $2)
		ON CONFLICT (user_id) DO UPDATE SET
			bonus_weeks_earned = user_wallet.bonus_weeks_earned + EXCLUDED.bonus_weeks_earned,
			updated_at = NOW()`,
		referral.ReferrerID, bonusWeeks)
	if err != nil {
		return false, fmt.Errorf("failed to update wallet: %w", err)
	}

	_, err = tx.ExecContext(ctx, `
		UPDATE subscriptions SET expires_at = expires_at + ($2 * INTERVAL '1 day')
		WHERE user_id = $1 AND status = 'active'`,
		referral.ReferrerID, bonusWeeks*7)
	if err != nil {
		return false, fmt.Errorf("failed to extend subscription: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return false, err
	}
	return true, nil
}

// CreditCommission records a commission earning and credits the wallet in
// one transaction. Commission earnings carry no referred user, so the
// uniqueness guard does not apply and repeated credits are legal.
func (r *Repository) CreditCommission(ctx context.Context, referrerID int64, amount decimal.Decimal, description string) (decimal.Decimal, error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return decimal.Zero, err
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO referral_earnings (referrer_id, earning_type, bonus_weeks, bonus_amount)
		VALUES ($1, $2, 0, $3)`,
		referrerID, model.EarningTypeCommission, amount)
	if err != nil {
		return decimal.Zero, fmt.Errorf("failed to insert earning: %w", err)
	}

	balanceAfter, err := creditWalletTx(ctx, tx, referrerID, amount, model.TransactionTypeCommission, description, nil)
	if err != nil {
		return decimal.Zero, err
	}

	if err := tx.Commit(); err != nil {
		return decimal.Zero, err
	}
	return balanceAfter, nil
}

func (r *Repository) GetEarnings(ctx context.Context, referrerID int64) ([]model.ReferralEarning, error) {
	var earnings []model.ReferralEarning
	err := r.db.SelectContext(ctx, &earnings, `
		SELECT * FROM referral_earnings
		WHERE referrer_id = $1
		ORDER BY created_at DESC`,
		referrerID)
	return earnings, err
}
