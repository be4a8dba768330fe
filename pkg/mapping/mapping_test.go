package mapping

import (
	"testing"
	"time"

	"github.com/chris/crypto-investments/pkg/accrual"
	"github.com/chris/crypto-investments/pkg/models"
	"github.com/chris/crypto-investments/pkg/plans"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestToApiPlan(t *testing.T) {
	all := plans.Default().All()

	starter := ToApiPlan(all[0])
	require.NotNil(t, starter.MaxInvestment)
	assert.Equal(t, "999", *starter.MaxInvestment)
	assert.Equal(t, "0.04", starter.DailyRate)

	vip := ToApiPlan(all[len(all)-1])
	assert.Nil(t, vip.MaxInvestment)
}

func TestToApiInvestment(t *testing.T) {
	approved := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	inv := &models.Investment{
		Id:           "inv-1",
		UserId:       "user-1",
		PlanName:     "Starter Plan",
		Amount:       decimal.NewFromInt(500),
		DailyRate:    decimal.RequireFromString("0.04"),
		DurationDays: 7,
		Status:       models.ACTIVE,
		ApprovedAt:   &approved,
	}

	t.Run("Stored Status Without Snapshot", func(t *testing.T) {
		out := ToApiInvestment(inv, nil)
		assert.Equal(t, "active", out.Status)
		assert.Nil(t, out.Accrual)
		assert.Nil(t, out.Disposition)
	})

	t.Run("Effective Status With Snapshot", func(t *testing.T) {
		snap := accrual.Compute(inv, approved.Add(10*24*time.Hour))
		out := ToApiInvestment(inv, &snap)
		assert.Equal(t, "completed", out.Status)
		require.NotNil(t, out.Accrual)
		assert.Equal(t, "140", out.Accrual.AccruedProfit)
		assert.Equal(t, 100, out.Accrual.ProgressPercent)
		assert.True(t, out.Accrual.Matured)
	})

	t.Run("Disposition", func(t *testing.T) {
		withdrawn := *inv
		withdrawn.Status = models.WITHDRAWN
		withdrawn.Disposition = models.Disposition{Kind: models.DispositionRolledOver, Into: "inv-2"}
		out := ToApiInvestment(&withdrawn, nil)
		require.NotNil(t, out.Disposition)
		assert.Equal(t, "rolled_over", out.Disposition.Kind)
		assert.Equal(t, "inv-2", out.Disposition.Into)
	})
}
