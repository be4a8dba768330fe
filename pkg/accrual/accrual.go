// Package accrual computes the time-dependent figures of an investment:
// elapsed days, accrued profit, progress and maturity. Everything here is a
// pure function of the investment and the supplied clock reading.
package accrual

import (
	"time"

	"github.com/chris/crypto-investments/pkg/models"
	"github.com/shopspring/decimal"
)

// Day is the accrual period.
const Day = 24 * time.Hour

// ElapsedDays returns the number of whole days between approvedAt and now,
// clamped to [0, duration]. A nil approvedAt yields 0.
func ElapsedDays(approvedAt *time.Time, now time.Time, duration int) int {
	if approvedAt == nil || duration <= 0 {
		return 0
	}
	since := now.Sub(*approvedAt)
	if since <= 0 {
		return 0
	}
	days := int(since / Day)
	if days > duration {
		return duration
	}
	return days
}

// AccruedProfit is amount * dailyRate * elapsed.
func AccruedProfit(amount, dailyRate decimal.Decimal, elapsed int) decimal.Decimal {
	if elapsed <= 0 {
		return decimal.Zero
	}
	return amount.Mul(dailyRate).Mul(decimal.NewFromInt(int64(elapsed)))
}

// ProgressPercent is floor(100 * elapsed / duration), clamped to [0, 100].
func ProgressPercent(elapsed, duration int) int {
	if duration <= 0 || elapsed <= 0 {
		return 0
	}
	p := 100 * elapsed / duration
	if p > 100 {
		return 100
	}
	return p
}

// DaysRemaining is max(duration - elapsed, 0).
func DaysRemaining(elapsed, duration int) int {
	if elapsed < 0 {
		elapsed = 0
	}
	if r := duration - elapsed; r > 0 {
		return r
	}
	return 0
}

// ExpectedProfit is the profit paid at maturity: amount * dailyRate * duration.
func ExpectedProfit(inv *models.Investment) decimal.Decimal {
	return AccruedProfit(inv.Amount, inv.DailyRate, inv.DurationDays)
}

// MaturityValue is the principal plus the profit paid at maturity.
func MaturityValue(inv *models.Investment) decimal.Decimal {
	return inv.Amount.Add(ExpectedProfit(inv))
}

// IsMatured reports whether an active investment has accrued its full
// duration. Only ACTIVE investments can be matured.
func IsMatured(inv *models.Investment, now time.Time) bool {
	if inv.Status != models.ACTIVE || inv.ApprovedAt == nil {
		return false
	}
	return ElapsedDays(inv.ApprovedAt, now, inv.DurationDays) >= inv.DurationDays
}

// EffectiveStatus maps a stored status to the one shown to users: an ACTIVE
// investment that has matured reads as COMPLETED.
func EffectiveStatus(inv *models.Investment, now time.Time) models.InvestmentStatus {
	if IsMatured(inv, now) {
		return models.COMPLETED
	}
	return inv.Status
}

// Snapshot is the accrual state of an investment at one instant.
type Snapshot struct {
	Status          models.InvestmentStatus
	ElapsedDays     int
	DaysRemaining   int
	ProgressPercent int
	AccruedProfit   decimal.Decimal
	ExpectedProfit  decimal.Decimal
	Matured         bool
	MaturesAt       *time.Time
}

// Compute builds the snapshot of inv at now. Investments that are not ACTIVE
// report no progress and the full duration remaining.
func Compute(inv *models.Investment, now time.Time) Snapshot {
	s := Snapshot{
		Status:         EffectiveStatus(inv, now),
		DaysRemaining:  DaysRemaining(0, inv.DurationDays),
		AccruedProfit:  decimal.Zero,
		ExpectedProfit: ExpectedProfit(inv),
	}
	if inv.Status != models.ACTIVE || inv.ApprovedAt == nil {
		return s
	}

	elapsed := ElapsedDays(inv.ApprovedAt, now, inv.DurationDays)
	maturesAt := inv.ApprovedAt.Add(time.Duration(inv.DurationDays) * Day)
	s.ElapsedDays = elapsed
	s.DaysRemaining = DaysRemaining(elapsed, inv.DurationDays)
	s.ProgressPercent = ProgressPercent(elapsed, inv.DurationDays)
	s.AccruedProfit = AccruedProfit(inv.Amount, inv.DailyRate, elapsed)
	s.Matured = elapsed >= inv.DurationDays
	s.MaturesAt = &maturesAt
	return s
}
