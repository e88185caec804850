package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/tbn01-acc/lifefocus-sub002/internal/model"
)

var ErrInsufficientBalance = errors.New("insufficient wallet balance")

// GetWallet returns the user's wallet, or a zero wallet if no reward has
// ever created the row.
func (r *Repository) GetWallet(ctx context.Context, userID int64) (*model.Wallet, error) {
	var wallet model.Wallet
	err := r.db.GetContext(ctx, &wallet, "SELECT * FROM user_wallet WHERE user_id = $1", userID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return &model.Wallet{UserID: userID, BalanceRub: decimal.Zero}, nil
		}
		return nil, err
	}
	return &wallet, nil
}

// creditWalletTx is the shared body of every wallet mutation: ensure the
// row exists, lock it, move the balance, append the transaction record.
// Returns the new balance. Debits that would take the balance below zero
// are rejected.
func creditWalletTx(ctx context.Context, tx execer, userID int64, amount decimal.Decimal, txType model.TransactionType, description string, referenceID *uuid.UUID) (decimal.Decimal, error) {
	_, err := tx.ExecContext(ctx,
		"INSERT INTO user_wallet (user_id) VALUES ($1) ON CONFLICT (user_id) DO NOTHING", userID)
	if err != nil {
		return decimal.Zero, fmt.Errorf("failed to ensure wallet row: %w", err)
	}

	var balanceBefore decimal.Decimal
	err = tx.QueryRowContext(ctx,
		"SELECT balance_rub FROM user_wallet WHERE user_id = $1 FOR UPDATE", userID).Scan(&balanceBefore)
	if err != nil {
		return decimal.Zero, fmt.Errorf("failed to get balance: %w", err)
	}

	balanceAfter := balanceBefore.Add(amount)
	if amount.IsNegative() && balanceAfter.IsNegative() {
		return decimal.Zero, ErrInsufficientBalance
	}

	_, err = tx.ExecContext(ctx,
		"UPDATE user_wallet SET balance_rub = $1, updated_at = NOW() WHERE user_id = $2", balanceAfter, userID)
	if err != nil {
		return decimal.Zero, fmt.Errorf("failed to update balance: %w", err)
	}

	var desc *string
	if description != "" {
		desc = &description
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO wallet_transactions (user_id, amount, type, description, reference_id, balance_before, balance_after)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		userID, amount, txType, desc, referenceID, balanceBefore, balanceAfter)
	if err != nil {
		return decimal.Zero, fmt.Errorf("failed to create transaction record: %w", err)
	}

	return balanceAfter, nil
}

// execer covers *sqlx.Tx within wallet transactions.
type execer interface {
	ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error)
	QueryRowContext(ctx context.Context, query string, args ...interface{}) *sql.Row
}

func (r *Repository) GetWalletTransactions(ctx context.Context, userID int64, limit, offset int) ([]model.WalletTransaction, error) {
	var transactions []model.WalletTransaction
	err := r.db.SelectContext(ctx, &transactions, `
		SELECT * FROM wallet_transactions
		WHERE user_id = $1
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3`,
		userID, limit, offset)
	return transactions, err
}
