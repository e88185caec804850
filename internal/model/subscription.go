package model

import (
	"time"

	"github.com/google/uuid"
)

type SubscriptionStatus string

const (
	SubscriptionStatusActive    SubscriptionStatus = "active"
	SubscriptionStatusExpired   SubscriptionStatus = "expired"
	SubscriptionStatusCancelled SubscriptionStatus = "cancelled"
)

// Subscription is owned by the billing side of the app. This engine reads it
// to size registration bonuses and extends its expiry when bonus weeks are
// awarded.
type Subscription struct {
	ID        uuid.UUID          `json:"id" db:"id"`
	UserID    int64              `json:"user_id" db:"user_id"`
	PlanCode  string             `json:"plan_code" db:"plan_code"`
	IsTrial   bool               `json:"is_trial" db:"is_trial"`
	Status    SubscriptionStatus `json:"status" db:"status"`
	StartedAt *time.Time         `json:"started_at,omitempty" db:"started_at"`
	ExpiresAt *time.Time         `json:"expires_at,omitempty" db:"expires_at"`
	CreatedAt time.Time          `json:"created_at" db:"created_at"`
}

func (s *Subscription) IsActive() bool {
	if s.Status != SubscriptionStatusActive {
		return false
	}
	if s.ExpiresAt != nil && time.Now().After(*s.ExpiresAt) {
		return false
	}
	return true
}

// IsPaid reports whether the subscription is an active, non-trial plan.
func (s *Subscription) IsPaid() bool {
	return s.IsActive() && !s.IsTrial
}

func (s *Subscription) DaysRemaining() int {
	if s.ExpiresAt == nil {
		return -1
	}
	duration := time.Until(*s.ExpiresAt)
	if duration < 0 {
		return 0
	}
	return int(duration.Hours() / 24)
}
