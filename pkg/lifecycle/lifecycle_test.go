package lifecycle

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/chris/crypto-investments/pkg/models"
	"github.com/chris/crypto-investments/pkg/storage"
	"github.com/chris/crypto-investments/pkg/storage/mocks"
	"github.com/chris/crypto-investments/pkg/websockets"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestAccrualThroughMaturity(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()

	inv, err := f.svc.Create(ctx, investor, CreateRequest{PlanName: "Starter Plan", Amount: decimal.NewFromInt(500), Crypto: "btc"})
	require.NoError(t, err)
	assert.Equal(t, models.PENDING, inv.Status)
	assert.Nil(t, inv.ApprovedAt)
	assert.Equal(t, "bc1qplatform", inv.DepositAddress)
	assert.True(t, f.profile(t, "user-a").WithdrawableBalance.IsZero(), "pending deposits do not touch the balance")

	deposits := f.entries(t, "user-a", models.DEPOSIT)
	require.Len(t, deposits, 1)
	assert.Equal(t, models.EntryPending, deposits[0].Status)

	view, err := f.svc.GetInvestment(ctx, investor, inv.Id)
	require.NoError(t, err)
	assert.Equal(t, 0, view.Accrual.ProgressPercent)
	assert.Equal(t, 7, view.Accrual.DaysRemaining)

	approved, err := f.svc.Approve(ctx, admin, inv.Id)
	require.NoError(t, err)
	assert.Equal(t, models.ACTIVE, approved.Status)
	require.NotNil(t, approved.ApprovedAt)
	assert.True(t, t0.Equal(*approved.ApprovedAt))

	f.clock.Advance(3 * 24 * time.Hour)
	view, err = f.svc.GetInvestment(ctx, investor, inv.Id)
	require.NoError(t, err)
	assert.True(t, dec("60").Equal(view.Accrual.AccruedProfit))
	assert.Equal(t, 42, view.Accrual.ProgressPercent)
	assert.Equal(t, 4, view.Accrual.DaysRemaining)

	_, err = f.svc.Withdraw(ctx, investor, inv.Id)
	var pre *PreconditionError
	require.ErrorAs(t, err, &pre)
	assert.Equal(t, "active", pre.Current)
	assert.Contains(t, pre.Reason, "4 days remaining")

	f.clock.Advance(4 * 24 * time.Hour)
	view, err = f.svc.GetInvestment(ctx, investor, inv.Id)
	require.NoError(t, err)
	assert.True(t, dec("140").Equal(view.Accrual.AccruedProfit))
	assert.Equal(t, 100, view.Accrual.ProgressPercent)
	assert.Equal(t, models.COMPLETED, view.Accrual.Status)

	withdrawn, err := f.svc.Withdraw(ctx, investor, inv.Id)
	require.NoError(t, err)
	assert.Equal(t, models.WITHDRAWN, withdrawn.Status)
	assert.Equal(t, models.DispositionToBalance, withdrawn.Disposition.Kind)
	assert.True(t, dec("640").Equal(f.profile(t, "user-a").WithdrawableBalance))

	withdrawals := f.entries(t, "user-a", models.WITHDRAWAL)
	require.Len(t, withdrawals, 1)
	assert.Equal(t, models.EntryCompleted, withdrawals[0].Status)
	assert.Equal(t, models.DispositionToBalance, withdrawals[0].Subtype)
	assert.Equal(t, 1, f.publisher.count("user-a", websockets.MessageTypeBalanceUpdate))

	_, err = f.svc.Withdraw(ctx, investor, inv.Id)
	assert.ErrorIs(t, err, ErrPrecondition, "withdrawn is terminal")
}

func TestReferralCommission(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()

	_, err := f.svc.Create(ctx, investor, CreateRequest{PlanName: "Starter Plan", Amount: decimal.NewFromInt(1000), Crypto: "btc"})
	require.NoError(t, err)

	assert.True(t, f.profile(t, "user-a").HasInvested)
	assert.True(t, dec("100").Equal(f.profile(t, "user-b").ReferralEarnings))
	referrals := f.entries(t, "user-b", models.REFERRAL)
	require.Len(t, referrals, 1)
	assert.Equal(t, "user-a", referrals[0].ReferredUserID)
	assert.Equal(t, 1, f.publisher.count("user-b", websockets.MessageTypeBalanceUpdate))

	t.Run("Second Investment Pays Nothing", func(t *testing.T) {
		_, err := f.svc.Create(ctx, investor, CreateRequest{PlanName: "Starter Plan", Amount: decimal.NewFromInt(2000), Crypto: "btc"})
		require.NoError(t, err)

		assert.True(t, dec("100").Equal(f.profile(t, "user-b").ReferralEarnings))
		assert.Len(t, f.entries(t, "user-b", models.REFERRAL), 1)
	})

	t.Run("Unreferred User Only Sets Flag", func(t *testing.T) {
		_, err := f.svc.Create(ctx, Actor{UserID: "user-c"}, CreateRequest{PlanName: "Starter Plan", Amount: decimal.NewFromInt(500), Crypto: "btc"})
		require.NoError(t, err)

		assert.True(t, f.profile(t, "user-c").HasInvested)
		assert.True(t, dec("100").Equal(f.profile(t, "user-b").ReferralEarnings))
	})
}

func TestConcurrentFirstInvestmentsPayOneCommission(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()

	const attempts = 16
	var wg sync.WaitGroup
	errs := make(chan error, attempts)
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := f.svc.Create(ctx, investor, CreateRequest{PlanName: "Starter Plan", Amount: decimal.NewFromInt(1000), Crypto: "btc"})
			errs <- err
		}()
	}
	wg.Wait()
	close(errs)

	for err := range errs {
		assert.NoError(t, err)
	}
	investments, err := f.store.ListInvestmentsByUserID(ctx, "user-a")
	require.NoError(t, err)
	assert.Len(t, investments, attempts)
	assert.True(t, dec("100").Equal(f.profile(t, "user-b").ReferralEarnings))
	assert.Len(t, f.entries(t, "user-b", models.REFERRAL), 1)
}

func TestReinvest(t *testing.T) {
	t.Run("Partial Reinvestment Conserves Value", func(t *testing.T) {
		f := newFixture(t, nil)
		ctx := context.Background()
		inv := f.matured(t, investor, 1000)

		res, err := f.svc.Reinvest(ctx, investor, inv.Id, ReinvestRequest{Amount: decimal.NewFromInt(800)})
		require.NoError(t, err)

		assert.True(t, dec("1280").Equal(res.TotalValue))
		assert.True(t, dec("800").Equal(res.Rollover.Amount))
		assert.True(t, dec("480").Equal(res.Remainder))
		assert.True(t, res.TotalValue.Equal(res.Rollover.Amount.Add(res.Remainder)))
		assert.Equal(t, models.PENDING, res.Rollover.Status)
		assert.Equal(t, inv.PlanName, res.Rollover.PlanName)
		assert.Equal(t, inv.Crypto, res.Rollover.Crypto)
		assert.Equal(t, inv.Id, res.Rollover.RolledFrom)
		assert.True(t, dec("480").Equal(f.profile(t, "user-a").WithdrawableBalance))

		original, err := f.store.GetInvestment(ctx, inv.Id)
		require.NoError(t, err)
		assert.Equal(t, models.WITHDRAWN, original.Status)
		assert.True(t, original.Reinvested)
		assert.Equal(t, models.Disposition{Kind: models.DispositionRolledOver, Into: res.Rollover.Id}, original.Disposition)

		stored, err := f.store.GetInvestment(ctx, res.Rollover.Id)
		require.NoError(t, err)
		assert.Equal(t, models.PENDING, stored.Status)
	})

	t.Run("Reinvest Then Withdraw Conserves Value", func(t *testing.T) {
		f := newFixture(t, nil)
		ctx := context.Background()
		inv := f.matured(t, investor, 1000)

		res, err := f.svc.Reinvest(ctx, investor, inv.Id, ReinvestRequest{All: true})
		require.NoError(t, err)
		assert.True(t, res.Remainder.IsZero())
		assert.True(t, f.profile(t, "user-a").WithdrawableBalance.IsZero())

		_, err = f.svc.Approve(ctx, admin, res.Rollover.Id)
		require.NoError(t, err)
		f.clock.Advance(7 * 24 * time.Hour)
		_, err = f.svc.Withdraw(ctx, investor, res.Rollover.Id)
		require.NoError(t, err)

		// 1280 reinvested at 4% for 7 days: 1280 * 1.28
		assert.True(t, dec("1638.4").Equal(f.profile(t, "user-a").WithdrawableBalance))
	})

	t.Run("Amount Bounds", func(t *testing.T) {
		f := newFixture(t, nil)
		ctx := context.Background()
		inv := f.matured(t, investor, 1000)

		_, err := f.svc.Reinvest(ctx, investor, inv.Id, ReinvestRequest{Amount: dec("1280.01")})
		var verr *ValidationError
		require.ErrorAs(t, err, &verr)
		assert.Equal(t, "amount", verr.Field)

		_, err = f.svc.Reinvest(ctx, investor, inv.Id, ReinvestRequest{Amount: decimal.Zero})
		assert.ErrorIs(t, err, ErrValidation)

		still, err := f.store.GetInvestment(ctx, inv.Id)
		require.NoError(t, err)
		assert.Equal(t, models.ACTIVE, still.Status)
	})
}

func TestDeniedIsTerminal(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()

	inv, err := f.svc.Create(ctx, investor, CreateRequest{PlanName: "Starter Plan", Amount: decimal.NewFromInt(500), Crypto: "btc"})
	require.NoError(t, err)
	_, err = f.svc.Deny(ctx, admin, inv.Id)
	require.NoError(t, err)

	_, err = f.svc.Approve(ctx, admin, inv.Id)
	var pre *PreconditionError
	require.ErrorAs(t, err, &pre)
	assert.Equal(t, "denied", pre.Current)

	_, err = f.svc.Withdraw(ctx, investor, inv.Id)
	assert.ErrorIs(t, err, ErrPrecondition)

	stored, err := f.store.GetInvestment(ctx, inv.Id)
	require.NoError(t, err)
	assert.Equal(t, models.DENIED, stored.Status)
	assert.Nil(t, stored.ApprovedAt)
}

func TestConcurrentDisposalsCreditOnce(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()
	inv := f.matured(t, investor, 500)

	var wg sync.WaitGroup
	results := make(chan error, 2)
	wg.Add(2)
	go func() {
		defer wg.Done()
		_, err := f.svc.Withdraw(ctx, investor, inv.Id)
		results <- err
	}()
	go func() {
		defer wg.Done()
		_, err := f.svc.Reinvest(ctx, investor, inv.Id, ReinvestRequest{All: true})
		results <- err
	}()
	wg.Wait()
	close(results)

	var succeeded, rejected int
	for err := range results {
		switch {
		case err == nil:
			succeeded++
		case errors.Is(err, ErrPrecondition):
			rejected++
		default:
			t.Fatalf("unexpected error: %v", err)
		}
	}
	assert.Equal(t, 1, succeeded)
	assert.Equal(t, 1, rejected)

	balance := f.profile(t, "user-a").WithdrawableBalance
	investments, err := f.store.ListInvestmentsByUserID(ctx, "user-a")
	require.NoError(t, err)
	if len(investments) == 1 {
		assert.True(t, dec("640").Equal(balance))
	} else {
		assert.True(t, balance.IsZero())
	}
}

func TestCreateValidation(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()

	tests := []struct {
		name  string
		req   CreateRequest
		field string
	}{
		{"Unknown Plan", CreateRequest{PlanName: "Platinum", Amount: decimal.NewFromInt(500), Crypto: "btc"}, "plan"},
		{"Below Minimum", CreateRequest{PlanName: "Starter Plan", Amount: decimal.NewFromInt(299), Crypto: "btc"}, "amount"},
		{"Above Maximum", CreateRequest{PlanName: "Capped Plan", Amount: decimal.NewFromInt(1000), Crypto: "btc"}, "amount"},
		{"Negative", CreateRequest{PlanName: "Starter Plan", Amount: decimal.NewFromInt(-5), Crypto: "btc"}, "amount"},
		{"Missing Crypto", CreateRequest{PlanName: "Starter Plan", Amount: decimal.NewFromInt(500)}, "crypto"},
		{"Unsupported Crypto", CreateRequest{PlanName: "Starter Plan", Amount: decimal.NewFromInt(500), Crypto: "doge"}, "crypto"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.svc.Create(ctx, investor, tt.req)
			var verr *ValidationError
			require.ErrorAs(t, err, &verr)
			assert.Equal(t, tt.field, verr.Field)
		})
	}

	investments, err := f.store.ListInvestmentsByUserID(ctx, "user-a")
	require.NoError(t, err)
	assert.Empty(t, investments)
	assert.False(t, f.profile(t, "user-a").HasInvested)
}

func TestAuthorization(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()

	inv, err := f.svc.Create(ctx, investor, CreateRequest{PlanName: "Starter Plan", Amount: decimal.NewFromInt(500), Crypto: "btc"})
	require.NoError(t, err)

	_, err = f.svc.Approve(ctx, investor, inv.Id)
	assert.ErrorIs(t, err, ErrForbidden)
	_, err = f.svc.Deny(ctx, referrer, inv.Id)
	assert.ErrorIs(t, err, ErrForbidden)

	_, err = f.svc.Approve(ctx, admin, inv.Id)
	require.NoError(t, err)
	f.clock.Advance(7 * 24 * time.Hour)

	_, err = f.svc.Withdraw(ctx, referrer, inv.Id)
	assert.ErrorIs(t, err, ErrForbidden)
	_, err = f.svc.Withdraw(ctx, admin, inv.Id)
	assert.ErrorIs(t, err, ErrForbidden, "disposition is investor-only")
	_, err = f.svc.GetInvestment(ctx, referrer, inv.Id)
	assert.ErrorIs(t, err, ErrForbidden)
	_, err = f.svc.GetInvestment(ctx, admin, inv.Id)
	assert.NoError(t, err)
}

func TestRemoteFailureLeavesStatus(t *testing.T) {
	ctx := context.Background()
	pending := &models.Investment{Id: "inv-1", UserId: "user-a", Status: models.PENDING, Amount: decimal.NewFromInt(500), DurationDays: 7}

	t.Run("Approve", func(t *testing.T) {
		store := new(mocks.ApiStore)
		svc := NewService(Dependencies{Store: store})

		store.On("GetInvestment", mock.Anything, "inv-1").Once().Return(pending, nil)
		store.On("SetInvestmentStatus", mock.Anything, "inv-1", models.PENDING, models.ACTIVE, mock.Anything).Once().Return(errors.New("throttled"))

		_, err := svc.Approve(ctx, admin, "inv-1")

		assert.ErrorIs(t, err, ErrTransient)
		assert.NotErrorIs(t, err, ErrPrecondition)
		store.AssertExpectations(t)
	})

	t.Run("Approve Race Reports Current Status", func(t *testing.T) {
		store := new(mocks.ApiStore)
		svc := NewService(Dependencies{Store: store})
		denied := *pending
		denied.Status = models.DENIED

		store.On("GetInvestment", mock.Anything, "inv-1").Once().Return(pending, nil)
		store.On("SetInvestmentStatus", mock.Anything, "inv-1", models.PENDING, models.ACTIVE, mock.Anything).Once().Return(storage.ErrStatusConflict)
		store.On("GetInvestment", mock.Anything, "inv-1").Once().Return(&denied, nil)

		_, err := svc.Approve(ctx, admin, "inv-1")

		var pre *PreconditionError
		require.ErrorAs(t, err, &pre)
		assert.Equal(t, "denied", pre.Current)
		store.AssertExpectations(t)
	})

	t.Run("Withdraw", func(t *testing.T) {
		store := new(mocks.ApiStore)
		approved := t0
		active := *pending
		active.Status = models.ACTIVE
		active.ApprovedAt = &approved
		svc := NewService(Dependencies{Store: store, Now: func() time.Time { return t0.Add(8 * 24 * time.Hour) }})

		store.On("GetInvestment", mock.Anything, "inv-1").Once().Return(&active, nil)
		store.On("DisposeInvestment", mock.Anything, mock.Anything).Once().Return(errors.New("connection reset"))

		_, err := svc.Withdraw(ctx, investor, "inv-1")

		assert.ErrorIs(t, err, ErrTransient)
		store.AssertExpectations(t)
	})

	t.Run("Missing Investment", func(t *testing.T) {
		store := new(mocks.ApiStore)
		svc := NewService(Dependencies{Store: store})

		store.On("GetInvestment", mock.Anything, "nope").Once().Return(nil, storage.ErrNotFound)

		_, err := svc.Approve(ctx, admin, "nope")

		assert.ErrorIs(t, err, ErrNotFound)
		store.AssertExpectations(t)
	})
}
