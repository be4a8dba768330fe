package lifecycle

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/chris/crypto-investments/pkg/models"
	"github.com/chris/crypto-investments/pkg/plans"
	"github.com/chris/crypto-investments/pkg/scheduler"
	"github.com/chris/crypto-investments/pkg/storage"
	"github.com/chris/crypto-investments/pkg/storage/memory"
	"github.com/chris/crypto-investments/pkg/websockets"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

var (
	t0       = time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	admin    = Actor{UserID: "admin-1", Admin: true}
	investor = Actor{UserID: "user-a"}
	referrer = Actor{UserID: "user-b"}
)

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

type sequence struct {
	mu sync.Mutex
	n  int
}

func (s *sequence) Next() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.n++
	return fmt.Sprintf("id-%d", s.n)
}

type recordingPublisher struct {
	mu       sync.Mutex
	messages map[string][]websockets.Message
}

func (p *recordingPublisher) Publish(ctx context.Context, userID string, message websockets.Message) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.messages == nil {
		p.messages = make(map[string][]websockets.Message)
	}
	p.messages[userID] = append(p.messages[userID], message)
	return nil
}

func (p *recordingPublisher) count(userID string, typ websockets.MessageType) int {
	p.mu.Lock()
	defer p.mu.Unlock()
	n := 0
	for _, m := range p.messages[userID] {
		if m.Type == typ {
			n++
		}
	}
	return n
}

type fixture struct {
	store     *memory.Store
	clock     *fakeClock
	publisher *recordingPublisher
	svc       *Service
}

// testCatalog has a 4% plan wide enough for every example amount.
func testCatalog(t *testing.T) *plans.Catalog {
	c, err := plans.NewCatalog([]plans.Plan{
		{Name: "Starter Plan", MinInvestment: decimal.NewFromInt(300), DailyRate: decimal.RequireFromString("0.04"), DurationDays: 7},
		{Name: "Capped Plan", MinInvestment: decimal.NewFromInt(300), MaxInvestment: decimal.NewNullDecimal(decimal.NewFromInt(999)), DailyRate: decimal.RequireFromString("0.04"), DurationDays: 7},
	})
	require.NoError(t, err)
	return c
}

func newFixture(t *testing.T, sched scheduler.Scheduler) *fixture {
	t.Helper()
	ctx := context.Background()
	store := memory.New()
	store.PutCrypto(models.Crypto{Id: "btc", Name: "Bitcoin", Symbol: "BTC", Address: "bc1qplatform"})
	require.NoError(t, store.CreateProfile(ctx, &models.Profile{UserId: "user-b"}))
	require.NoError(t, store.CreateProfile(ctx, &models.Profile{UserId: "user-a", ReferredBy: "user-b"}))
	require.NoError(t, store.CreateProfile(ctx, &models.Profile{UserId: "user-c"}))

	clock := &fakeClock{now: t0}
	publisher := &recordingPublisher{}
	seq := &sequence{}
	svc := NewService(Dependencies{
		Store:     store,
		Catalog:   testCatalog(t),
		Publisher: publisher,
		Scheduler: sched,
		Now:       clock.Now,
		NewID:     seq.Next,
	})
	return &fixture{store: store, clock: clock, publisher: publisher, svc: svc}
}

// matured creates, approves and ages an investment until it has matured.
func (f *fixture) matured(t *testing.T, actor Actor, amount int64) *models.Investment {
	t.Helper()
	ctx := context.Background()
	inv, err := f.svc.Create(ctx, actor, CreateRequest{PlanName: "Starter Plan", Amount: decimal.NewFromInt(amount), Crypto: "btc"})
	require.NoError(t, err)
	inv, err = f.svc.Approve(ctx, admin, inv.Id)
	require.NoError(t, err)
	f.clock.Advance(7 * 24 * time.Hour)
	return inv
}

func (f *fixture) profile(t *testing.T, userID string) *models.Profile {
	t.Helper()
	p, err := f.store.GetProfile(context.Background(), userID)
	require.NoError(t, err)
	return p
}

func (f *fixture) entries(t *testing.T, userID string, typ models.EntryType) []models.LedgerEntry {
	t.Helper()
	all, err := f.store.ListLedgerEntries(context.Background(), userID, 0)
	require.NoError(t, err)
	var out []models.LedgerEntry
	for _, e := range all {
		if e.Type == typ {
			out = append(out, e)
		}
	}
	return out
}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

var _ storage.ApiStore = (*memory.Store)(nil)
