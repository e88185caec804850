package service

import (
	"github.com/shopspring/decimal"
)

// Commission tiers: the first 50 paid referrals earn 20% of the average
// payment each, every referral beyond the 50th earns 30%.
const (
	CommissionTier1Limit   = 50
	CommissionTier1Percent = 20
	CommissionTier2Percent = 30
)

// Milestone bonuses are flat ruble amounts stacked on top of the
// percentage commission. Each threshold crossed adds its own amount.
const (
	MilestoneStep       = 10
	MilestoneStepBonus  = 500
	Milestone50Bonus    = 1000
	MilestoneTier2Step  = 25
	MilestoneTier2Bonus = 1000
	VIPThreshold        = 200
	VIPBonus            = 5000
)

type CommissionBreakdown struct {
	Commissions       decimal.Decimal `json:"commissions"`
	Milestones        decimal.Decimal `json:"milestones"`
	Total             decimal.Decimal `json:"total"`
	Tier              int             `json:"tier"`
	CommissionPercent int             `json:"commission_percent"`
	IsVIP             bool            `json:"is_vip"`
}

// CalculateCommission maps a paid-referral count and average payment to the
// referrer's payout. Pure, and monotonic in paidReferrals for a fixed
// average payment. Negative inputs are clamped to zero.
func CalculateCommission(paidReferrals int, avgPayment decimal.Decimal) CommissionBreakdown {
	if paidReferrals < 0 {
		paidReferrals = 0
	}
	if avgPayment.IsNegative() {
		avgPayment = decimal.Zero
	}

	tier1 := paidReferrals
	if tier1 > CommissionTier1Limit {
		tier1 = CommissionTier1Limit
	}
	tier2 := paidReferrals - CommissionTier1Limit
	if tier2 < 0 {
		tier2 = 0
	}

	pct := func(count, percent int) decimal.Decimal {
		return avgPayment.
			Mul(decimal.NewFromInt(int64(count))).
			Mul(decimal.NewFromInt(int64(percent))).
			Div(decimal.NewFromInt(100))
	}
	commissions := pct(tier1, CommissionTier1Percent).Add(pct(tier2, CommissionTier2Percent))

	milestones := 0
	for threshold := MilestoneStep; threshold < CommissionTier1Limit; threshold += MilestoneStep {
		if paidReferrals >= threshold {
			milestones += MilestoneStepBonus
		}
	}
	if paidReferrals >= CommissionTier1Limit {
		milestones += Milestone50Bonus
		milestones += (paidReferrals - CommissionTier1Limit) / MilestoneTier2Step * MilestoneTier2Bonus
	}
	if paidReferrals >= VIPThreshold {
		milestones += VIPBonus
	}

	tier := 1
	percent := CommissionTier1Percent
	if paidReferrals > CommissionTier1Limit {
		tier = 2
		percent = CommissionTier2Percent
	}

	milestonesDec := decimal.NewFromInt(int64(milestones))

	return CommissionBreakdown{
		Commissions:       commissions,
		Milestones:        milestonesDec,
		Total:             commissions.Round(0).Add(milestonesDec),
		Tier:              tier,
		CommissionPercent: percent,
		IsVIP:             paidReferrals >= VIPThreshold,
	}
}
