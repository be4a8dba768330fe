package plans

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultCatalog(t *testing.T) {
	catalog := Default()

	t.Run("Lookup Existing Plan", func(t *testing.T) {
		plan, err := catalog.Lookup("Starter Plan")
		require.NoError(t, err)
		assert.True(t, plan.DailyRate.Equal(decimal.RequireFromString("0.04")))
		assert.Equal(t, 7, plan.DurationDays)
	})

	t.Run("Lookup Unknown Plan", func(t *testing.T) {
		_, err := catalog.Lookup("Platinum Plan")
		assert.ErrorIs(t, err, ErrUnknownPlan)
	})

	t.Run("Lookup Is Exact", func(t *testing.T) {
		_, err := catalog.Lookup("starter plan")
		assert.ErrorIs(t, err, ErrUnknownPlan)
	})

	t.Run("Every Plan Lasts Seven Days", func(t *testing.T) {
		for _, p := range catalog.All() {
			assert.Equal(t, DefaultDurationDays, p.DurationDays, p.Name)
		}
	})

	t.Run("Order Is Preserved", func(t *testing.T) {
		names := []string{}
		for _, p := range catalog.All() {
			names = append(names, p.Name)
		}
		assert.Equal(t, []string{"Starter Plan", "Silver Plan", "Gold Plan", "VIP Plan"}, names)
	})
}

func TestPlanAccepts(t *testing.T) {
	catalog := Default()
	starter, _ := catalog.Lookup("Starter Plan")
	vip, _ := catalog.Lookup("VIP Plan")

	assert.False(t, starter.Accepts(decimal.NewFromInt(299)))
	assert.True(t, starter.Accepts(decimal.NewFromInt(300)))
	assert.True(t, starter.Accepts(decimal.NewFromInt(999)))
	assert.False(t, starter.Accepts(decimal.RequireFromString("999.01")))

	assert.False(t, vip.Accepts(decimal.NewFromInt(9999)))
	assert.True(t, vip.Accepts(decimal.NewFromInt(1_000_000_000)))
}

func TestExpectedProfit(t *testing.T) {
	starter, _ := Default().Lookup("Starter Plan")
	assert.True(t, starter.ExpectedProfit(decimal.NewFromInt(500)).Equal(decimal.NewFromInt(140)))
}

func TestNewCatalog_Invalid(t *testing.T) {
	rate := decimal.RequireFromString("0.01")

	t.Run("Duplicate Name", func(t *testing.T) {
		_, err := NewCatalog([]Plan{
			{Name: "A", DailyRate: rate, DurationDays: 7},
			{Name: "A", DailyRate: rate, DurationDays: 7},
		})
		assert.ErrorContains(t, err, "duplicate plan")
	})

	t.Run("Zero Duration", func(t *testing.T) {
		_, err := NewCatalog([]Plan{{Name: "A", DailyRate: rate}})
		assert.ErrorContains(t, err, "duration must be positive")
	})

	t.Run("Maximum Below Minimum", func(t *testing.T) {
		_, err := NewCatalog([]Plan{{
			Name:          "A",
			MinInvestment: decimal.NewFromInt(10),
			MaxInvestment: decimal.NewNullDecimal(decimal.NewFromInt(5)),
			DailyRate:     rate,
			DurationDays:  7,
		}})
		assert.ErrorContains(t, err, "maximum below minimum")
	})
}

func TestLoad(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "plans.yaml")
		doc := `
plans:
  - name: Bronze
    min_investment: "50"
    max_investment: "100.50"
    daily_rate: "0.015"
    duration_days: 14
  - name: Open Ended
    min_investment: "100"
    daily_rate: "0.02"
`
		require.NoError(t, os.WriteFile(path, []byte(doc), 0o600))

		catalog, err := Load(path)
		require.NoError(t, err)

		bronze, err := catalog.Lookup("Bronze")
		require.NoError(t, err)
		assert.Equal(t, 14, bronze.DurationDays)
		assert.True(t, bronze.MaxInvestment.Valid)
		assert.True(t, bronze.MaxInvestment.Decimal.Equal(decimal.RequireFromString("100.5")))

		open, err := catalog.Lookup("Open Ended")
		require.NoError(t, err)
		assert.False(t, open.MaxInvestment.Valid)
		assert.Equal(t, DefaultDurationDays, open.DurationDays)
	})

	t.Run("Missing File", func(t *testing.T) {
		_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
		assert.ErrorContains(t, err, "unable to read")
	})

	t.Run("Bad Rate", func(t *testing.T) {
		_, err := Parse([]byte("plans:\n  - name: X\n    min_investment: \"1\"\n    daily_rate: \"four percent\"\n"))
		assert.ErrorContains(t, err, "invalid daily_rate")
	})

	t.Run("Empty Catalog", func(t *testing.T) {
		_, err := Parse([]byte("plans: []\n"))
		assert.ErrorContains(t, err, "empty")
	})
}
