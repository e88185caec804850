package service

import (
	"context"
	"errors"

	"github.com/sirupsen/logrus"

	"github.com/tbn01-acc/lifefocus-sub002/internal/config"
	"github.com/tbn01-acc/lifefocus-sub002/internal/model"
	"github.com/tbn01-acc/lifefocus-sub002/internal/repository"
)

type activationStore interface {
	GetReferralByReferredID(ctx context.Context, referredID int64) (*model.Referral, error)
	GetActivityTotals(ctx context.Context, userID int64) (*model.ActivityTotals, error)
	UpdateReferralActivity(ctx context.Context, referredID int64, activeDays, totalMinutes int) error
	GetActiveSubscription(ctx context.Context, userID int64) (*model.Subscription, error)
	CreditRegistrationBonus(ctx context.Context, referral *model.Referral, bonusWeeks int) (bool, error)
}

// ActivationEngine decides, once per referral edge, whether the referred
// user has crossed the engagement bar and triggers the one-time
// registration bonus when they have.
type ActivationEngine struct {
	store activationStore
	log   *logrus.Logger
}

func NewActivationEngine(store activationStore, log *logrus.Logger) *ActivationEngine {
	return &ActivationEngine{store: store, log: log}
}

// Check recomputes the referred user's engagement from the full daily log
// and advances the edge's state machine. Safe to invoke concurrently for
// the same user: the earning uniqueness constraint, not mutual exclusion,
// guarantees at most one bonus.
func (e *ActivationEngine) Check(ctx context.Context, referredID int64) error {
	referral, err := e.store.GetReferralByReferredID(ctx, referredID)
	if err != nil {
		if errors.Is(err, repository.ErrReferralNotFound) {
			return nil // user was not referred
		}
		return err
	}

	totals, err := e.store.GetActivityTotals(ctx, referredID)
	if err != nil {
		return err
	}

	// Counters are refreshed on every check, activation or not.
	if err := e.store.UpdateReferralActivity(ctx, referredID, totals.UniqueDays, totals.TotalMinutes); err != nil {
		return err
	}

	if referral.IsActive {
		return nil
	}
	if totals.UniqueDays < config.ActivationMinDays || totals.TotalMinutes < config.ActivationMinMinutes {
		return nil
	}

	bonusWeeks := config.RegistrationBonusWeeksDefault
	sub, err := e.store.GetActiveSubscription(ctx, referral.ReferrerID)
	if err != nil && !errors.Is(err, repository.ErrSubscriptionNotFound) {
		return err
	}
	if sub != nil && sub.IsPaid() {
		bonusWeeks = config.RegistrationBonusWeeksPaid
	}

	awarded, err := e.store.CreditRegistrationBonus(ctx, referral, bonusWeeks)
	if err != nil {
		return err
	}
	if awarded {
		e.log.WithFields(logrus.Fields{
			"referrer_id": referral.ReferrerID,
			"referred_id": referral.ReferredID,
			"bonus_weeks": bonusWeeks,
			"active_days": totals.UniqueDays,
			"minutes":     totals.TotalMinutes,
		}).Info("referral activated")
	}
	return nil
}
