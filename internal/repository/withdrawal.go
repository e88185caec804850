package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/tbn01-acc/lifefocus-sub002/internal/model"
)

var (
	ErrWithdrawalNotFound   = errors.New("withdrawal request not found")
	ErrWithdrawalNotPending = errors.New("withdrawal request is not pending")
)

// CreateWithdrawal inserts a pending request after re-checking the amount
// against the current balance under a row lock. The wallet itself is not
// debited here; that happens at completion.
func (r *Repository) CreateWithdrawal(ctx context.Context, w *model.WithdrawalRequest) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	var balance decimal.Decimal
	err = tx.QueryRowContext(ctx,
		"SELECT balance_rub FROM user_wallet WHERE user_id = $1 FOR UPDATE", w.UserID).Scan(&balance)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrInsufficientBalance
		}
		return fmt.Errorf("failed to get balance: %w", err)
	}

	if w.AmountRub.GreaterThan(balance) {
		return ErrInsufficientBalance
	}

	err = tx.QueryRowContext(ctx, `
		INSERT INTO withdrawal_requests (user_id, amount_rub, withdrawal_type, status)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at`,
		w.UserID, w.AmountRub, w.WithdrawalType, model.WithdrawalStatusPending,
	).Scan(&w.ID, &w.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create withdrawal: %w", err)
	}
	w.Status = model.WithdrawalStatusPending

	return tx.Commit()
}

func (r *Repository) GetWithdrawal(ctx context.Context, id uuid.UUID) (*model.WithdrawalRequest, error) {
	var w model.WithdrawalRequest
	err := r.db.GetContext(ctx, &w, "SELECT * FROM withdrawal_requests WHERE id = $1", id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrWithdrawalNotFound
		}
		return nil, err
	}
	return &w, nil
}

func (r *Repository) GetWithdrawalsByUser(ctx context.Context, userID int64) ([]model.WithdrawalRequest, error) {
	var withdrawals []model.WithdrawalRequest
	err := r.db.SelectContext(ctx, &withdrawals, `
		SELECT * FROM withdrawal_requests
		WHERE user_id = $1
		ORDER BY created_at DESC`,
		userID)
	return withdrawals, err
}

func (r *Repository) GetPendingWithdrawals(ctx context.Context) ([]model.WithdrawalRequest, error) {
	var withdrawals []model.WithdrawalRequest
	err := r.db.SelectContext(ctx, &withdrawals, `
		SELECT * FROM withdrawal_requests
		WHERE status = 'pending'
		ORDER BY created_at ASC`)
	return withdrawals, err
}

// CompleteWithdrawal moves a pending request to its completed terminal
// state and debits the wallet in the same transaction. The balance is
// re-checked here because other requests may have completed since creation.
func (r *Repository) CompleteWithdrawal(ctx context.Context, id uuid.UUID) (*model.WithdrawalRequest, error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	var w model.WithdrawalRequest
	err = tx.GetContext(ctx, &w, "SELECT * FROM withdrawal_requests WHERE id = $1 FOR UPDATE", id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrWithdrawalNotFound
		}
		return nil, err
	}
	if w.Status != model.WithdrawalStatusPending {
		return nil, ErrWithdrawalNotPending
	}

	description := fmt.Sprintf("Вывод средств: -%s ₽", w.AmountRub.StringFixed(2))
	if _, err := creditWalletTx(ctx, tx, w.UserID, w.AmountRub.Neg(), model.TransactionTypeWithdrawal, description, &w.ID); err != nil {
		return nil, err
	}

	now := time.Now()
	_, err = tx.ExecContext(ctx, `
		UPDATE withdrawal_requests SET status = $2, processed_at = $3 WHERE id = $1`,
		id, model.WithdrawalStatusCompleted, now)
	if err != nil {
		return nil, fmt.Errorf("failed to update withdrawal: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}

	w.Status = model.WithdrawalStatusCompleted
	w.ProcessedAt = &now
	return &w, nil
}

// RejectWithdrawal moves a pending request to its rejected terminal state.
// The wallet is untouched.
func (r *Repository) RejectWithdrawal(ctx context.Context, id uuid.UUID) (*model.WithdrawalRequest, error) {
	now := time.Now()
	res, err := r.db.ExecContext(ctx, `
		UPDATE withdrawal_requests SET status = $2, processed_at = $3
		WHERE id = $1 AND status = 'pending'`,
		id, model.WithdrawalStatusRejected, now)
	if err != nil {
		return nil, err
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return nil, err
	}
	if affected == 0 {
		// Either missing or already terminal.
		if _, err := r.GetWithdrawal(ctx, id); err != nil {
			return nil, err
		}
		return nil, ErrWithdrawalNotPending
	}

	return r.GetWithdrawal(ctx, id)
}
