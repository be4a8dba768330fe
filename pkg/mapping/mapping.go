package mapping

import (
	"github.com/chris/crypto-investments/pkg/accrual"
	"github.com/chris/crypto-investments/pkg/api"
	"github.com/chris/crypto-investments/pkg/lifecycle"
	"github.com/chris/crypto-investments/pkg/models"
	"github.com/chris/crypto-investments/pkg/plans"
)

// ToApiPlan converts a catalog plan to an API Plan.
func ToApiPlan(p plans.Plan) api.Plan {
	out := api.Plan{
		Name:          p.Name,
		MinInvestment: p.MinInvestment.String(),
		DailyRate:     p.DailyRate.String(),
		DurationDays:  p.DurationDays,
	}
	if p.MaxInvestment.Valid {
		limit := p.MaxInvestment.Decimal.String()
		out.MaxInvestment = &limit
	}
	return out
}

func ToApiCrypto(c *models.Crypto) api.Crypto {
	return api.Crypto{Id: c.Id, Name: c.Name, Symbol: c.Symbol, Address: c.Address}
}

// ToApiInvestment converts a domain Investment. The status is the stored one
// unless a snapshot is supplied, in which case the effective status is used.
func ToApiInvestment(inv *models.Investment, snap *accrual.Snapshot) api.Investment {
	out := api.Investment{
		Id:             inv.Id,
		UserId:         inv.UserId,
		Plan:           inv.PlanName,
		Amount:         inv.Amount.String(),
		DailyRate:      inv.DailyRate.String(),
		DurationDays:   inv.DurationDays,
		Crypto:         inv.Crypto,
		DepositAddress: inv.DepositAddress,
		Status:         string(inv.Status),
		ApprovedAt:     inv.ApprovedAt,
		Reinvested:     inv.Reinvested,
		RolledFrom:     inv.RolledFrom,
		CreatedAt:      inv.CreatedAt,
		UpdatedAt:      inv.UpdatedAt,
	}
	if inv.Disposition.Kind != models.DispositionUndetermined {
		out.Disposition = &api.Disposition{Kind: string(inv.Disposition.Kind), Into: inv.Disposition.Into}
	}
	if snap != nil {
		out.Status = string(snap.Status)
		out.Accrual = &api.Accrual{
			ElapsedDays:     snap.ElapsedDays,
			DaysRemaining:   snap.DaysRemaining,
			ProgressPercent: snap.ProgressPercent,
			AccruedProfit:   snap.AccruedProfit.String(),
			ExpectedProfit:  snap.ExpectedProfit.String(),
			Matured:         snap.Matured,
			MaturesAt:       snap.MaturesAt,
		}
	}
	return out
}

func ToApiInvestmentView(v *lifecycle.InvestmentView) api.Investment {
	return ToApiInvestment(&v.Investment, &v.Accrual)
}

func ToApiInvestmentViews(views []lifecycle.InvestmentView) []api.Investment {
	out := make([]api.Investment, len(views))
	for i := range views {
		out[i] = ToApiInvestmentView(&views[i])
	}
	return out
}

func ToApiReinvestResponse(res *lifecycle.ReinvestResult) api.ReinvestResponse {
	return api.ReinvestResponse{
		Original:   ToApiInvestment(res.Original, nil),
		Rollover:   ToApiInvestment(res.Rollover, nil),
		Remainder:  res.Remainder.String(),
		TotalValue: res.TotalValue.String(),
	}
}

func ToApiWithdrawal(w *models.WithdrawalRequest) api.Withdrawal {
	return api.Withdrawal{
		Id:           w.Id,
		UserId:       w.UserId,
		Amount:       w.Amount.String(),
		Crypto:       w.Crypto,
		Address:      w.Address,
		Source:       string(w.Source),
		InvestmentId: w.InvestmentID,
		Status:       string(w.Status),
		ReceiptKey:   w.ReceiptKey,
		CreatedAt:    w.CreatedAt,
		UpdatedAt:    w.UpdatedAt,
	}
}

func ToApiWithdrawals(reqs []models.WithdrawalRequest) []api.Withdrawal {
	out := make([]api.Withdrawal, len(reqs))
	for i := range reqs {
		out[i] = ToApiWithdrawal(&reqs[i])
	}
	return out
}

// ToApiLedgerEntry converts a domain LedgerEntry to an API LedgerEntry.
func ToApiLedgerEntry(e *models.LedgerEntry) api.LedgerEntry {
	return api.LedgerEntry{
		EntryId:        e.EntryID,
		Type:           string(e.Type),
		Subtype:        string(e.Subtype),
		Amount:         e.Amount.String(),
		Status:         string(e.Status),
		Description:    e.Description,
		Reference:      e.Reference,
		InvestmentId:   e.InvestmentID,
		ReferredUserId: e.ReferredUserID,
		Timestamp:      e.Timestamp,
	}
}

func ToApiDashboard(d *lifecycle.Dashboard) api.Dashboard {
	return api.Dashboard{
		UserId:              d.Profile.UserId,
		WithdrawableBalance: d.Profile.WithdrawableBalance.String(),
		ReferralEarnings:    d.Profile.ReferralEarnings.String(),
		HasInvested:         d.Profile.HasInvested,
		ActiveCount:         d.ActiveCount,
		ActivePrincipal:     d.ActivePrincipal.String(),
		AccruedEarnings:     d.AccruedEarnings.String(),
		Investments:         ToApiInvestmentViews(d.Investments),
	}
}

func ToApiProfile(p *models.Profile) api.Profile {
	return api.Profile{
		UserId:              p.UserId,
		WithdrawableBalance: p.WithdrawableBalance.String(),
		ReferralEarnings:    p.ReferralEarnings.String(),
		HasInvested:         p.HasInvested,
		ReferredBy:          p.ReferredBy,
		CreatedAt:           p.CreatedAt,
	}
}
