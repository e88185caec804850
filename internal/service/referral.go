package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/tbn01-acc/lifefocus-sub002/internal/model"
	"github.com/tbn01-acc/lifefocus-sub002/internal/repository"
)

var (
	ErrReferralAlreadyExists = errors.New("Реферал уже существует")
	ErrSelfReferral          = errors.New("Нельзя пригласить самого себя")
)

type referralStore interface {
	GetReferralByReferredID(ctx context.Context, referredID int64) (*model.Referral, error)
	CreateReferral(ctx context.Context, referral *model.Referral) error
	GetUser(ctx context.Context, id int64) (*model.User, error)
	GetUserByReferralCode(ctx context.Context, code string) (*model.User, error)
	GetReferredUsers(ctx context.Context, referrerID int64) ([]model.User, error)
	GetReferralStats(ctx context.Context, referrerID int64) (*model.ReferralStats, error)
	GetEarnings(ctx context.Context, referrerID int64) ([]model.ReferralEarning, error)
	CountPaidReferrals(ctx context.Context, referrerID int64) (int, error)
	CreditCommission(ctx context.Context, referrerID int64, amount decimal.Decimal, description string) (decimal.Decimal, error)
	GetActiveSubscription(ctx context.Context, userID int64) (*model.Subscription, error)
}

type ReferralService struct {
	store referralStore
}

func NewReferralService(store referralStore) *ReferralService {
	return &ReferralService{store: store}
}

// CreateReferral creates the pending edge between referrer and referred.
// An edge is created once per referred user and never deleted.
func (s *ReferralService) CreateReferral(ctx context.Context, referrerID, referredID int64) error {
	if referrerID == referredID {
		return ErrSelfReferral
	}

	_, err := s.store.GetReferralByReferredID(ctx, referredID)
	if err == nil {
		return ErrReferralAlreadyExists
	}
	if !errors.Is(err, repository.ErrReferralNotFound) {
		return err
	}

	referral := &model.Referral{
		ReferrerID: referrerID,
		ReferredID: referredID,
	}
	return s.store.CreateReferral(ctx, referral)
}

func (s *ReferralService) ApplyReferralCode(ctx context.Context, userID int64, code string) error {
	referrer, err := s.store.GetUserByReferralCode(ctx, code)
	if err != nil {
		return err
	}
	return s.CreateReferral(ctx, referrer.ID, userID)
}

// GetReferralStats includes the days remaining on the referrer's active
// subscription, since bonus weeks show up there as extensions.
func (s *ReferralService) GetReferralStats(ctx context.Context, userID int64) (*model.ReferralStats, error) {
	stats, err := s.store.GetReferralStats(ctx, userID)
	if err != nil {
		return nil, err
	}

	sub, err := s.store.GetActiveSubscription(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrSubscriptionNotFound) {
			return stats, nil
		}
		return nil, err
	}
	stats.SubscriptionDaysRemaining = sub.DaysRemaining()

	return stats, nil
}

func (s *ReferralService) GetReferralLink(ctx context.Context, userID int64, baseURL string) (string, error) {
	user, err := s.store.GetUser(ctx, userID)
	if err != nil {
		return "", err
	}
	return baseURL + "/invite/" + user.ReferralCode, nil
}

func (s *ReferralService) GetReferredUsers(ctx context.Context, referrerID int64) ([]model.User, error) {
	return s.store.GetReferredUsers(ctx, referrerID)
}

func (s *ReferralService) GetEarnings(ctx context.Context, referrerID int64) ([]model.ReferralEarning, error) {
	return s.store.GetEarnings(ctx, referrerID)
}

// PreviewCommission computes the payout the referrer's current paid
// referrals would yield at the given average payment, without crediting
// anything.
func (s *ReferralService) PreviewCommission(ctx context.Context, referrerID int64, avgPayment decimal.Decimal) (int, CommissionBreakdown, error) {
	paid, err := s.store.CountPaidReferrals(ctx, referrerID)
	if err != nil {
		return 0, CommissionBreakdown{}, err
	}
	return paid, CalculateCommission(paid, avgPayment), nil
}

// CreditCommission calculates and credits the commission payout to the
// referrer's wallet. Triggered by the back office once the billing side has
// reported the average payment.
func (s *ReferralService) CreditCommission(ctx context.Context, referrerID int64, avgPayment decimal.Decimal) (CommissionBreakdown, decimal.Decimal, error) {
	paid, breakdown, err := s.PreviewCommission(ctx, referrerID, avgPayment)
	if err != nil {
		return CommissionBreakdown{}, decimal.Zero, err
	}

	if !breakdown.Total.IsPositive() {
		return breakdown, decimal.Zero, nil
	}

	description := fmt.Sprintf("Комиссия за %d оплаченных рефералов: +%s ₽", paid, breakdown.Total.StringFixed(2))
	balance, err := s.store.CreditCommission(ctx, referrerID, breakdown.Total, description)
	if err != nil {
		return CommissionBreakdown{}, decimal.Zero, err
	}
	return breakdown, balance, nil
}
