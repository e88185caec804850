package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Wallet holds the referrer's accruing balance, the source of truth for
// funds available to withdraw. It is only credited by reward paths and only
// debited by a completed withdrawal.
type Wallet struct {
	UserID           int64           `json:"user_id" db:"user_id"`
	BalanceRub       decimal.Decimal `json:"balance_rub" db:"balance_rub"`
	BonusWeeksEarned int             `json:"bonus_weeks_earned" db:"bonus_weeks_earned"`
	UpdatedAt        time.Time       `json:"updated_at" db:"updated_at"`
}

type TransactionType string

const (
	TransactionTypeRegistrationBonus TransactionType = "registration_bonus"
	TransactionTypeCommission        TransactionType = "commission"
	TransactionTypeWithdrawal        TransactionType = "withdrawal"
)

type WalletTransaction struct {
	ID            uuid.UUID       `json:"id" db:"id"`
	UserID        int64           `json:"user_id" db:"user_id"`
	Amount        decimal.Decimal `json:"amount" db:"amount"` // positive = credit, negative = debit
	Type          TransactionType `json:"type" db:"type"`
	Description   *string         `json:"description,omitempty" db:"description"`
	ReferenceID   *uuid.UUID      `json:"reference_id,omitempty" db:"reference_id"`
	BalanceBefore decimal.Decimal `json:"balance_before" db:"balance_before"`
	BalanceAfter  decimal.Decimal `json:"balance_after" db:"balance_after"`
	CreatedAt     time.Time       `json:"created_at" db:"created_at"`
}

type WithdrawalType string

const (
	WithdrawalTypeCash         WithdrawalType = "cash"
	WithdrawalTypeSubscription WithdrawalType = "subscription"
	WithdrawalTypeGift         WithdrawalType = "gift"
)

type WithdrawalStatus string

const (
	WithdrawalStatusPending   WithdrawalStatus = "pending"
	WithdrawalStatusCompleted WithdrawalStatus = "completed"
	WithdrawalStatusRejected  WithdrawalStatus = "rejected"
)

// WithdrawalRequest moves pending -> completed | rejected, both terminal.
// The wallet is debited only at the moment of completion.
type WithdrawalRequest struct {
	ID             uuid.UUID        `json:"id" db:"id"`
	UserID         int64            `json:"user_id" db:"user_id"`
	AmountRub      decimal.Decimal  `json:"amount_rub" db:"amount_rub"`
	WithdrawalType WithdrawalType   `json:"withdrawal_type" db:"withdrawal_type"`
	Status         WithdrawalStatus `json:"status" db:"status"`
	CreatedAt      time.Time        `json:"created_at" db:"created_at"`
	ProcessedAt    *time.Time       `json:"processed_at,omitempty" db:"processed_at"`
}
