package service

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tbn01-acc/lifefocus-sub002/internal/model"
	"github.com/tbn01-acc/lifefocus-sub002/internal/repository"
)

type fakeReferralStore struct {
	usersByCode map[string]*model.User
	referral    *model.Referral
	stats       model.ReferralStats
	sub         *model.Subscription
	paid        int
	balance     decimal.Decimal

	created  []*model.Referral
	credited []decimal.Decimal
}

func (f *fakeReferralStore) GetReferralByReferredID(ctx context.Context, referredID int64) (*model.Referral, error) {
	if f.referral == nil {
		return nil, repository.ErrReferralNotFound
	}
	return f.referral, nil
}

func (f *fakeReferralStore) CreateReferral(ctx context.Context, referral *model.Referral) error {
	f.created = append(f.created, referral)
	return nil
}

func (f *fakeReferralStore) GetUser(ctx context.Context, id int64) (*model.User, error) {
	return &model.User{ID: id, ReferralCode: "ABC123"}, nil
}

func (f *fakeReferralStore) GetUserByReferralCode(ctx context.Context, code string) (*model.User, error) {
	if u, ok := f.usersByCode[code]; ok {
		return u, nil
	}
	return nil, repository.ErrUserNotFound
}

func (f *fakeReferralStore) GetReferredUsers(ctx context.Context, referrerID int64) ([]model.User, error) {
	return nil, nil
}

func (f *fakeReferralStore) GetReferralStats(ctx context.Context, referrerID int64) (*model.ReferralStats, error) {
	stats := f.stats
	return &stats, nil
}

func (f *fakeReferralStore) GetEarnings(ctx context.Context, referrerID int64) ([]model.ReferralEarning, error) {
	return nil, nil
}

func (f *fakeReferralStore) CountPaidReferrals(ctx context.Context, referrerID int64) (int, error) {
	return f.paid, nil
}

func (f *fakeReferralStore) CreditCommission(ctx context.Context, referrerID int64, amount decimal.Decimal, description string) (decimal.Decimal, error) {
	f.credited = append(f.credited, amount)
	f.balance = f.balance.Add(amount)
	return f.balance, nil
}

func (f *fakeReferralStore) GetActiveSubscription(ctx context.Context, userID int64) (*model.Subscription, error) {
	if f.sub == nil {
		return nil, repository.ErrSubscriptionNotFound
	}
	return f.sub, nil
}

func TestCreateReferral_RejectsSelfReferral(t *testing.T) {
	store := &fakeReferralStore{}
	svc := NewReferralService(store)

	err := svc.CreateReferral(context.Background(), 7, 7)

	assert.ErrorIs(t, err, ErrSelfReferral)
	assert.Empty(t, store.created)
}

func TestCreateReferral_RejectsExistingEdge(t *testing.T) {
	store := &fakeReferralStore{
		referral: &model.Referral{ReferrerID: 1, ReferredID: 2},
	}
	svc := NewReferralService(store)

	err := svc.CreateReferral(context.Background(), 3, 2)

	assert.ErrorIs(t, err, ErrReferralAlreadyExists)
	assert.Empty(t, store.created)
}

func TestApplyReferralCode_CreatesEdge(t *testing.T) {
	store := &fakeReferralStore{
		usersByCode: map[string]*model.User{"ABC123": {ID: 1, ReferralCode: "ABC123"}},
	}
	svc := NewReferralService(store)

	require.NoError(t, svc.ApplyReferralCode(context.Background(), 2, "ABC123"))

	require.Len(t, store.created, 1)
	assert.Equal(t, int64(1), store.created[0].ReferrerID)
	assert.Equal(t, int64(2), store.created[0].ReferredID)
}

func TestGetReferralStats_IncludesSubscriptionDaysRemaining(t *testing.T) {
	expires := time.Now().Add(10*24*time.Hour + time.Hour)
	store := &fakeReferralStore{
		stats: model.ReferralStats{TotalReferrals: 5, ActiveReferrals: 2, PendingReferrals: 3},
		sub: &model.Subscription{
			Status:    model.SubscriptionStatusActive,
			ExpiresAt: &expires,
		},
	}
	svc := NewReferralService(store)

	stats, err := svc.GetReferralStats(context.Background(), 1)

	require.NoError(t, err)
	assert.Equal(t, 5, stats.TotalReferrals)
	assert.Equal(t, 10, stats.SubscriptionDaysRemaining)
}

func TestGetReferralStats_NoSubscription(t *testing.T) {
	store := &fakeReferralStore{
		stats: model.ReferralStats{TotalReferrals: 1, PendingReferrals: 1},
	}
	svc := NewReferralService(store)

	stats, err := svc.GetReferralStats(context.Background(), 1)

	require.NoError(t, err)
	assert.Zero(t, stats.SubscriptionDaysRemaining)
}

func TestGetReferralLink(t *testing.T) {
	svc := NewReferralService(&fakeReferralStore{})

	link, err := svc.GetReferralLink(context.Background(), 7, "https://lifefocus.app")

	require.NoError(t, err)
	assert.Equal(t, "https://lifefocus.app/invite/ABC123", link)
}

func TestCreditCommission_SkipsZeroPayout(t *testing.T) {
	store := &fakeReferralStore{paid: 0}
	svc := NewReferralService(store)

	breakdown, balance, err := svc.CreditCommission(context.Background(), 1, dec(1000))

	require.NoError(t, err)
	assert.True(t, breakdown.Total.IsZero())
	assert.True(t, balance.IsZero())
	assert.Empty(t, store.credited, "nothing to credit, no transaction")
}

func TestCreditCommission_CreditsCalculatedTotal(t *testing.T) {
	store := &fakeReferralStore{paid: 10}
	svc := NewReferralService(store)

	breakdown, balance, err := svc.CreditCommission(context.Background(), 1, dec(1000))

	require.NoError(t, err)
	// 10 * 1000 * 0.20 + the first milestone
	assert.True(t, breakdown.Total.Equal(dec(2500)), "got %s", breakdown.Total)
	require.Len(t, store.credited, 1)
	assert.True(t, store.credited[0].Equal(dec(2500)))
	assert.True(t, balance.Equal(dec(2500)))
}
