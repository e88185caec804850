package service

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dec(v int64) decimal.Decimal {
	return decimal.NewFromInt(v)
}

func TestCalculateCommission_Tier1Boundary(t *testing.T) {
	b := CalculateCommission(50, dec(1000))

	assert.True(t, b.Commissions.Equal(dec(10000)), "commissions = 50*1000*0.20, got %s", b.Commissions)
	assert.True(t, b.Milestones.Equal(dec(3000)), "milestones = 500*4 + 1000, got %s", b.Milestones)
	assert.True(t, b.Total.Equal(dec(13000)))
	assert.Equal(t, 1, b.Tier)
	assert.Equal(t, 20, b.CommissionPercent)
	assert.False(t, b.IsVIP)
}

func TestCalculateCommission_Tier2(t *testing.T) {
	b := CalculateCommission(51, dec(1000))

	assert.Equal(t, 2, b.Tier)
	assert.Equal(t, 30, b.CommissionPercent)
	// 50 at 20% plus exactly one at 30%
	assert.True(t, b.Commissions.Equal(dec(10300)), "got %s", b.Commissions)
}

func TestCalculateCommission_Tier2MilestoneStacking(t *testing.T) {
	// 75 paid referrals: one full step of 25 beyond 50 adds one extra 1000.
	b := CalculateCommission(75, dec(1000))
	assert.True(t, b.Milestones.Equal(dec(4000)), "got %s", b.Milestones)

	// 74 does not reach the step yet.
	b = CalculateCommission(74, dec(1000))
	assert.True(t, b.Milestones.Equal(dec(3000)), "got %s", b.Milestones)
}

func TestCalculateCommission_VIP(t *testing.T) {
	b := CalculateCommission(200, dec(1000))

	require.True(t, b.IsVIP)
	// 500*4 + 1000 + floor(150/25)*1000 + 5000, the VIP bonus exactly once
	assert.True(t, b.Milestones.Equal(dec(14000)), "got %s", b.Milestones)

	// 199 stays short of both the VIP bonus and the sixth 25-referral step.
	below := CalculateCommission(199, dec(1000))
	assert.False(t, below.IsVIP)
	assert.True(t, below.Milestones.Equal(dec(8000)), "got %s", below.Milestones)
}

func TestCalculateCommission_MonotonicInPaid(t *testing.T) {
	avg := decimal.NewFromFloat(734.50)
	prev := decimal.Zero
	for paid := 0; paid <= 230; paid++ {
		total := CalculateCommission(paid, avg).Total
		require.True(t, total.GreaterThanOrEqual(prev),
			"total decreased at paid=%d: %s < %s", paid, total, prev)
		prev = total
	}
}

func TestCalculateCommission_ClampsInvalidInput(t *testing.T) {
	b := CalculateCommission(-5, dec(1000))
	assert.True(t, b.Total.IsZero())

	b = CalculateCommission(10, dec(-100))
	assert.True(t, b.Commissions.IsZero())
	assert.True(t, b.Milestones.Equal(dec(500)))
}

func TestCalculateCommission_RoundsCommissionsOnly(t *testing.T) {
	// 3 * 333.33 * 0.20 = 199.998 -> rounds to 200 in the total
	b := CalculateCommission(3, decimal.NewFromFloat(333.33))
	assert.True(t, b.Total.Equal(dec(200)), "got %s", b.Total)
}
