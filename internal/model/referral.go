package model

import (
	"time"

	"github.com/google/uuid"
)

// Referral is the edge between a referrer and a referred user. It is created
// once at registration and never deleted. IsActive flips false->true exactly
// once; ActiveDays and TotalTimeMinutes only ever grow.
type Referral struct {
	ID               uuid.UUID  `json:"id" db:"id"`
	ReferrerID       int64      `json:"referrer_id" db:"referrer_id"`
	ReferredID       int64      `json:"referred_id" db:"referred_id"`
	IsActive         bool       `json:"is_active" db:"is_active"`
	ActivatedAt      *time.Time `json:"activated_at,omitempty" db:"activated_at"`
	ActiveDays       int        `json:"active_days" db:"active_days"`
	TotalTimeMinutes int        `json:"total_time_minutes" db:"total_time_minutes"`
	CreatedAt        time.Time  `json:"created_at" db:"created_at"`
}

type ReferralStats struct {
	TotalReferrals   int `json:"total_referrals"`
	ActiveReferrals  int `json:"active_referrals"`
	PendingReferrals int `json:"pending_referrals"`
	BonusWeeksEarned int `json:"bonus_weeks_earned"`
	// Days left on the referrer's active subscription, including extensions
	// earned through bonus weeks. -1 means no expiry, 0 means no active
	// subscription.
	SubscriptionDaysRemaining int `json:"subscription_days_remaining"`
}
