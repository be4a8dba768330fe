package accrual

import (
	"testing"
	"time"

	"github.com/chris/crypto-investments/pkg/models"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

var t0 = time.Date(2025, 3, 1, 9, 30, 0, 0, time.UTC)

func starter(amount int64, approvedAt *time.Time, status models.InvestmentStatus) *models.Investment {
	return &models.Investment{
		Id:           "inv-1",
		PlanName:     "Starter Plan",
		Amount:       decimal.NewFromInt(amount),
		DailyRate:    decimal.RequireFromString("0.04"),
		DurationDays: 7,
		Status:       status,
		ApprovedAt:   approvedAt,
	}
}

func TestElapsedDays(t *testing.T) {
	t.Run("Whole Days Only", func(t *testing.T) {
		assert.Equal(t, 0, ElapsedDays(&t0, t0.Add(23*time.Hour+59*time.Minute), 7))
		assert.Equal(t, 1, ElapsedDays(&t0, t0.Add(Day), 7))
		assert.Equal(t, 3, ElapsedDays(&t0, t0.Add(3*Day+5*time.Hour), 7))
	})

	t.Run("Clamped To Duration", func(t *testing.T) {
		assert.Equal(t, 7, ElapsedDays(&t0, t0.Add(30*Day), 7))
	})

	t.Run("Clock Behind Approval Is Zero", func(t *testing.T) {
		assert.Equal(t, 0, ElapsedDays(&t0, t0.Add(-5*Day), 7))
		assert.Equal(t, 0, ElapsedDays(&t0, t0.Add(-time.Second), 7))
	})

	t.Run("Not Approved", func(t *testing.T) {
		assert.Equal(t, 0, ElapsedDays(nil, t0, 7))
	})
}

func TestAccruedProfitIsMonotonic(t *testing.T) {
	inv := starter(500, &t0, models.ACTIVE)
	previous := decimal.NewFromInt(-1)
	for hours := -48; hours <= 24*10; hours += 7 {
		now := t0.Add(time.Duration(hours) * time.Hour)
		elapsed := ElapsedDays(inv.ApprovedAt, now, inv.DurationDays)
		profit := AccruedProfit(inv.Amount, inv.DailyRate, elapsed)

		expected := inv.Amount.Mul(inv.DailyRate).Mul(decimal.NewFromInt(int64(elapsed)))
		assert.True(t, profit.Equal(expected), "hours=%d", hours)
		assert.True(t, profit.GreaterThanOrEqual(previous), "hours=%d", hours)
		previous = profit
	}
}

func TestAccrualHasNoDrift(t *testing.T) {
	amount := decimal.RequireFromString("333.33")
	rate := decimal.RequireFromString("0.07")
	sum := decimal.Zero
	for d := 1; d <= 7; d++ {
		sum = sum.Add(AccruedProfit(amount, rate, 1))
	}
	assert.True(t, sum.Equal(AccruedProfit(amount, rate, 7)), "sum=%s", sum)
}

func TestProgressAndDaysRemaining(t *testing.T) {
	assert.Equal(t, 0, ProgressPercent(0, 7))
	assert.Equal(t, 42, ProgressPercent(3, 7))
	assert.Equal(t, 100, ProgressPercent(7, 7))
	assert.Equal(t, 100, ProgressPercent(9, 7))
	assert.Equal(t, 0, ProgressPercent(3, 0))

	assert.Equal(t, 7, DaysRemaining(0, 7))
	assert.Equal(t, 4, DaysRemaining(3, 7))
	assert.Equal(t, 0, DaysRemaining(9, 7))
	assert.Equal(t, 7, DaysRemaining(-2, 7))
}

func TestCompute(t *testing.T) {
	t.Run("Starter Plan Scenario", func(t *testing.T) {
		inv := starter(500, &t0, models.ACTIVE)

		s := Compute(inv, t0.Add(3*Day))
		assert.Equal(t, 3, s.ElapsedDays)
		assert.True(t, s.AccruedProfit.Equal(decimal.NewFromInt(60)))
		assert.Equal(t, 42, s.ProgressPercent)
		assert.Equal(t, 4, s.DaysRemaining)
		assert.False(t, s.Matured)
		assert.Equal(t, models.ACTIVE, s.Status)

		s = Compute(inv, t0.Add(7*Day))
		assert.True(t, s.AccruedProfit.Equal(decimal.NewFromInt(140)))
		assert.Equal(t, 100, s.ProgressPercent)
		assert.Equal(t, 0, s.DaysRemaining)
		assert.True(t, s.Matured)
		assert.Equal(t, models.COMPLETED, s.Status)
		assert.Equal(t, t0.Add(7*Day), *s.MaturesAt)
	})

	t.Run("Pending Investment Uses Defaults", func(t *testing.T) {
		inv := starter(500, nil, models.PENDING)
		s := Compute(inv, t0.Add(100*Day))
		assert.Equal(t, 0, s.ProgressPercent)
		assert.Equal(t, 7, s.DaysRemaining)
		assert.True(t, s.AccruedProfit.IsZero())
		assert.True(t, s.ExpectedProfit.Equal(decimal.NewFromInt(140)))
		assert.Nil(t, s.MaturesAt)
		assert.Equal(t, models.PENDING, s.Status)
	})

	t.Run("Withdrawn Investment Is Not Matured", func(t *testing.T) {
		inv := starter(500, &t0, models.WITHDRAWN)
		s := Compute(inv, t0.Add(10*Day))
		assert.False(t, s.Matured)
		assert.Equal(t, models.WITHDRAWN, s.Status)
	})
}

func TestIsMatured(t *testing.T) {
	inv := starter(500, &t0, models.ACTIVE)
	assert.False(t, IsMatured(inv, t0.Add(7*Day-time.Second)))
	assert.True(t, IsMatured(inv, t0.Add(7*Day)))

	inv.Status = models.PENDING
	assert.False(t, IsMatured(inv, t0.Add(70*Day)))
}

func TestMaturityValue(t *testing.T) {
	inv := starter(500, &t0, models.ACTIVE)
	assert.True(t, MaturityValue(inv).Equal(decimal.NewFromInt(640)))
}
