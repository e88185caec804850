package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type EarningType string

const (
	EarningTypeRegistrationBonus EarningType = "registration_bonus"
	EarningTypeCommission        EarningType = "commission"
)

// ReferralEarning is an append-only audit record. The uniqueness of
// (referrer_id, referred_id, earning_type) is the idempotence guard that
// prevents a registration bonus from being awarded twice.
type ReferralEarning struct {
	ID          uuid.UUID       `json:"id" db:"id"`
	ReferrerID  int64           `json:"referrer_id" db:"referrer_id"`
	ReferredID  *int64          `json:"referred_id,omitempty" db:"referred_id"`
	EarningType EarningType     `json:"earning_type" db:"earning_type"`
	BonusWeeks  int             `json:"bonus_weeks" db:"bonus_weeks"`
	BonusAmount decimal.Decimal `json:"bonus_amount" db:"bonus_amount"`
	CreatedAt   time.Time       `json:"created_at" db:"created_at"`
}
