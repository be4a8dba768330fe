// Package memory is an in-process implementation of storage.Storage with the
// same conditional-write semantics as the DynamoDB store. It backs local
// development and tests.
package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/chris/crypto-investments/pkg/models"
	"github.com/chris/crypto-investments/pkg/storage"
	"github.com/shopspring/decimal"
)

// Store holds all records behind a single lock; every method is one atomic step.
type Store struct {
	mu          sync.Mutex
	investments map[string]models.Investment
	profiles    map[string]models.Profile
	ledger      map[string]models.LedgerEntry
	withdrawals map[string]models.WithdrawalRequest
	cryptos     map[string]models.Crypto
	connections map[string]string
}

// New creates an empty Store.
func New() *Store {
	return &Store{
		investments: make(map[string]models.Investment),
		profiles:    make(map[string]models.Profile),
		ledger:      make(map[string]models.LedgerEntry),
		withdrawals: make(map[string]models.WithdrawalRequest),
		cryptos:     make(map[string]models.Crypto),
		connections: make(map[string]string),
	}
}

// Make sure we conform to the interface
var _ storage.Storage = (*Store)(nil)

// PutCrypto adds or replaces a supported cryptocurrency.
func (s *Store) PutCrypto(c models.Crypto) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cryptos[c.Id] = c
}

// Investments

func (s *Store) GetInvestment(ctx context.Context, id string) (*models.Investment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	inv, ok := s.investments[id]
	if !ok {
		return nil, fmt.Errorf("investment with ID %s: %w", id, storage.ErrNotFound)
	}
	return &inv, nil
}

func (s *Store) ListInvestmentsByUserID(ctx context.Context, userID string) ([]models.Investment, error) {
	return s.filterInvestments(func(inv models.Investment) bool { return inv.UserId == userID }, true), nil
}

func (s *Store) ListInvestmentsByStatus(ctx context.Context, status models.InvestmentStatus) ([]models.Investment, error) {
	return s.filterInvestments(func(inv models.Investment) bool { return inv.Status == status }, false), nil
}

func (s *Store) filterInvestments(keep func(models.Investment) bool, newestFirst bool) []models.Investment {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := []models.Investment{}
	for _, inv := range s.investments {
		if keep(inv) {
			out = append(out, inv)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if newestFirst {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out
}

func (s *Store) CreateInvestment(ctx context.Context, inv *models.Investment, deposit *models.LedgerEntry, first *models.FirstInvestment) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.investments[inv.Id]; exists {
		return fmt.Errorf("investment %s: %w", inv.Id, storage.ErrDuplicate)
	}
	if _, exists := s.ledger[deposit.EntryID]; exists {
		return fmt.Errorf("investment %s: %w", inv.Id, storage.ErrDuplicate)
	}
	if first != nil {
		investor, ok := s.profiles[first.InvestorId]
		if !ok || investor.HasInvested {
			return storage.ErrAlreadyInvested
		}
		if first.HasCommission() {
			if _, exists := s.ledger[first.Entry.EntryID]; exists {
				return fmt.Errorf("investment %s: %w", inv.Id, storage.ErrDuplicate)
			}
			if _, ok := s.profiles[first.ReferrerId]; !ok {
				return fmt.Errorf("referrer %s: %w", first.ReferrerId, storage.ErrNotFound)
			}
		}
	}

	s.investments[inv.Id] = *inv
	s.ledger[deposit.EntryID] = *deposit
	if first != nil {
		investor := s.profiles[first.InvestorId]
		investor.HasInvested = true
		s.profiles[first.InvestorId] = investor
		if first.HasCommission() {
			s.ledger[first.Entry.EntryID] = *first.Entry
			referrer := s.profiles[first.ReferrerId]
			referrer.ReferralEarnings = referrer.ReferralEarnings.Add(first.Commission)
			s.profiles[first.ReferrerId] = referrer
		}
	}
	return nil
}

func (s *Store) SetInvestmentStatus(ctx context.Context, id string, from, to models.InvestmentStatus, approvedAt *time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	inv, ok := s.investments[id]
	if !ok || inv.Status != from {
		return fmt.Errorf("investment %s is not %s: %w", id, from, storage.ErrStatusConflict)
	}
	inv.Status = to
	inv.UpdatedAt = time.Now()
	if approvedAt != nil {
		at := *approvedAt
		inv.ApprovedAt = &at
	}
	s.investments[id] = inv
	return nil
}

func (s *Store) DisposeInvestment(ctx context.Context, d *models.Disposal) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	inv, ok := s.investments[d.Investment.Id]
	if !ok || inv.Status != models.ACTIVE {
		return fmt.Errorf("investment %s is not active: %w", d.Investment.Id, storage.ErrStatusConflict)
	}
	if d.Credit.IsPositive() {
		if _, ok := s.profiles[inv.UserId]; !ok {
			return fmt.Errorf("profile for user ID %s: %w", inv.UserId, storage.ErrNotFound)
		}
	}
	if d.Rollover != nil {
		if _, exists := s.investments[d.Rollover.Id]; exists {
			return fmt.Errorf("rollover record for investment %s: %w", inv.Id, storage.ErrDuplicate)
		}
	}
	if d.Withdrawal != nil {
		if _, exists := s.withdrawals[d.Withdrawal.Id]; exists {
			return fmt.Errorf("withdrawal record for investment %s: %w", inv.Id, storage.ErrDuplicate)
		}
	}
	for _, e := range d.Entries {
		if _, exists := s.ledger[e.EntryID]; exists {
			return fmt.Errorf("ledger record for investment %s: %w", inv.Id, storage.ErrDuplicate)
		}
	}

	inv.Status = models.WITHDRAWN
	inv.Disposition = d.Disposition
	inv.UpdatedAt = d.At
	if d.Disposition.Kind == models.DispositionRolledOver {
		inv.Reinvested = true
	}
	s.investments[inv.Id] = inv
	if d.Credit.IsPositive() {
		p := s.profiles[inv.UserId]
		p.WithdrawableBalance = p.WithdrawableBalance.Add(d.Credit)
		s.profiles[inv.UserId] = p
	}
	if d.Rollover != nil {
		s.investments[d.Rollover.Id] = *d.Rollover
	}
	if d.Withdrawal != nil {
		s.withdrawals[d.Withdrawal.Id] = *d.Withdrawal
	}
	for _, e := range d.Entries {
		s.ledger[e.EntryID] = e
	}
	return nil
}

// Profiles

func (s *Store) GetProfile(ctx context.Context, userID string) (*models.Profile, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.profiles[userID]
	if !ok {
		return nil, fmt.Errorf("profile for user ID %s: %w", userID, storage.ErrNotFound)
	}
	return &p, nil
}

func (s *Store) CreateProfile(ctx context.Context, profile *models.Profile) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.profiles[profile.UserId]; exists {
		return fmt.Errorf("profile for user ID %s: %w", profile.UserId, storage.ErrDuplicate)
	}
	p := *profile
	p.WithdrawableBalance = decimal.Zero
	p.ReferralEarnings = decimal.Zero
	p.HasInvested = false
	if p.CreatedAt.IsZero() {
		p.CreatedAt = time.Now()
	}
	s.profiles[p.UserId] = p
	return nil
}

func (s *Store) CreditBalance(ctx context.Context, userID string, field models.BalanceField, delta decimal.Decimal, entry *models.LedgerEntry) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.profiles[userID]
	if !ok {
		return fmt.Errorf("profile for user ID %s: %w", userID, storage.ErrNotFound)
	}
	if _, exists := s.ledger[entry.EntryID]; exists {
		return fmt.Errorf("ledger entry %s: %w", entry.EntryID, storage.ErrDuplicate)
	}
	current := p.WithdrawableBalance
	if field == models.ReferralEarnings {
		current = p.ReferralEarnings
	}
	next := current.Add(delta)
	if delta.IsNegative() && next.IsNegative() {
		return fmt.Errorf("%s of user %s below %s: %w", field, userID, delta.Neg(), storage.ErrInsufficientFunds)
	}
	if field == models.ReferralEarnings {
		p.ReferralEarnings = next
	} else {
		p.WithdrawableBalance = next
	}
	s.profiles[userID] = p
	s.ledger[entry.EntryID] = *entry
	return nil
}

func (s *Store) TransferReferralEarnings(ctx context.Context, userID string, amount decimal.Decimal, entry *models.LedgerEntry) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.profiles[userID]
	if !ok || p.ReferralEarnings.LessThan(amount) {
		return fmt.Errorf("referral earnings of user %s below %s: %w", userID, amount, storage.ErrInsufficientFunds)
	}
	if _, exists := s.ledger[entry.EntryID]; exists {
		return fmt.Errorf("ledger entry %s: %w", entry.EntryID, storage.ErrDuplicate)
	}
	p.ReferralEarnings = p.ReferralEarnings.Sub(amount)
	p.WithdrawableBalance = p.WithdrawableBalance.Add(amount)
	s.profiles[userID] = p
	s.ledger[entry.EntryID] = *entry
	return nil
}

// Ledger

func (s *Store) ListLedgerEntries(ctx context.Context, userID string, limit int32) ([]models.LedgerEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := []models.LedgerEntry{}
	for _, e := range s.ledger {
		if e.UserId == userID {
			out = append(out, e)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Timestamp.After(out[j].Timestamp) })
	if limit > 0 && int(limit) < len(out) {
		out = out[:limit]
	}
	return out, nil
}

// Withdrawals

func (s *Store) GetWithdrawal(ctx context.Context, id string) (*models.WithdrawalRequest, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	w, ok := s.withdrawals[id]
	if !ok {
		return nil, fmt.Errorf("withdrawal request with ID %s: %w", id, storage.ErrNotFound)
	}
	return &w, nil
}

func (s *Store) ListWithdrawalsByUserID(ctx context.Context, userID string) ([]models.WithdrawalRequest, error) {
	return s.filterWithdrawals(func(w models.WithdrawalRequest) bool { return w.UserId == userID }, true), nil
}

func (s *Store) ListWithdrawalsByStatus(ctx context.Context, status models.WithdrawalStatus) ([]models.WithdrawalRequest, error) {
	return s.filterWithdrawals(func(w models.WithdrawalRequest) bool { return w.Status == status }, false), nil
}

func (s *Store) filterWithdrawals(keep func(models.WithdrawalRequest) bool, newestFirst bool) []models.WithdrawalRequest {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := []models.WithdrawalRequest{}
	for _, w := range s.withdrawals {
		if keep(w) {
			out = append(out, w)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if newestFirst {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out
}

func (s *Store) RequestWithdrawal(ctx context.Context, req *models.WithdrawalRequest, entry *models.LedgerEntry) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.profiles[req.UserId]
	if !ok || p.WithdrawableBalance.LessThan(req.Amount) {
		return fmt.Errorf("withdrawable balance of user %s below %s: %w", req.UserId, req.Amount, storage.ErrInsufficientFunds)
	}
	if _, exists := s.withdrawals[req.Id]; exists {
		return fmt.Errorf("withdrawal request %s: %w", req.Id, storage.ErrDuplicate)
	}
	if _, exists := s.ledger[entry.EntryID]; exists {
		return fmt.Errorf("withdrawal request %s: %w", req.Id, storage.ErrDuplicate)
	}
	p.WithdrawableBalance = p.WithdrawableBalance.Sub(req.Amount)
	s.profiles[req.UserId] = p
	s.withdrawals[req.Id] = *req
	s.ledger[entry.EntryID] = *entry
	return nil
}

func (s *Store) ApproveWithdrawal(ctx context.Context, id string, at time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	w, ok := s.withdrawals[id]
	if !ok || w.Status != models.WithdrawalPending {
		return fmt.Errorf("withdrawal request %s is not pending: %w", id, storage.ErrStatusConflict)
	}
	entryID := models.WithdrawalEntryID(id)
	entry, ok := s.ledger[entryID]
	if !ok {
		return fmt.Errorf("ledger entry for withdrawal request %s: %w", id, storage.ErrNotFound)
	}
	w.Status = models.WithdrawalApproved
	w.UpdatedAt = at
	s.withdrawals[id] = w
	entry.Status = models.EntryCompleted
	s.ledger[entryID] = entry
	return nil
}

func (s *Store) RejectWithdrawal(ctx context.Context, req *models.WithdrawalRequest, refund *models.LedgerEntry, at time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	w, ok := s.withdrawals[req.Id]
	if !ok || w.Status != models.WithdrawalPending {
		return fmt.Errorf("withdrawal request %s is not pending: %w", req.Id, storage.ErrStatusConflict)
	}
	entryID := models.WithdrawalEntryID(req.Id)
	entry, ok := s.ledger[entryID]
	p, hasProfile := s.profiles[w.UserId]
	if !ok || !hasProfile {
		return fmt.Errorf("records for withdrawal request %s: %w", req.Id, storage.ErrNotFound)
	}
	if _, exists := s.ledger[refund.EntryID]; exists {
		return fmt.Errorf("refund entry %s: %w", refund.EntryID, storage.ErrDuplicate)
	}
	w.Status = models.WithdrawalRejected
	w.UpdatedAt = at
	s.withdrawals[req.Id] = w
	entry.Status = models.EntryRejected
	s.ledger[entryID] = entry
	p.WithdrawableBalance = p.WithdrawableBalance.Add(w.Amount)
	s.profiles[w.UserId] = p
	s.ledger[refund.EntryID] = *refund
	return nil
}

func (s *Store) SetReceiptKey(ctx context.Context, id, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	w, ok := s.withdrawals[id]
	if !ok || w.ReceiptKey != "" || w.Status != models.WithdrawalApproved {
		return fmt.Errorf("receipt for withdrawal request %s: %w", id, storage.ErrDuplicate)
	}
	w.ReceiptKey = key
	s.withdrawals[id] = w
	return nil
}

func (s *Store) GetApprovedWithoutReceipt(ctx context.Context, maxAge time.Duration) ([]models.WithdrawalRequest, error) {
	cutoff := time.Now().Add(-maxAge)
	return s.filterWithdrawals(func(w models.WithdrawalRequest) bool {
		return w.Status == models.WithdrawalApproved && w.ReceiptKey == "" && w.UpdatedAt.Before(cutoff)
	}, false), nil
}

// Cryptos

func (s *Store) GetCrypto(ctx context.Context, id string) (*models.Crypto, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.cryptos[id]
	if !ok {
		return nil, fmt.Errorf("crypto %s: %w", id, storage.ErrNotFound)
	}
	return &c, nil
}

func (s *Store) ListCryptos(ctx context.Context) ([]models.Crypto, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]models.Crypto, 0, len(s.cryptos))
	for _, c := range s.cryptos {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Id < out[j].Id })
	return out, nil
}

func (s *Store) UpdateCryptoAddress(ctx context.Context, id, address string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.cryptos[id]
	if !ok {
		return fmt.Errorf("crypto %s: %w", id, storage.ErrNotFound)
	}
	c.Address = address
	s.cryptos[id] = c
	return nil
}

// WebSocket connections

func (s *Store) AddConnection(ctx context.Context, connectionID, userID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.connections[connectionID] = userID
	return nil
}

func (s *Store) RemoveConnection(ctx context.Context, connectionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.connections, connectionID)
	return nil
}

func (s *Store) GetConnectionsByUserID(ctx context.Context, userID string) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var ids []string
	for id, owner := range s.connections {
		if owner == userID {
			ids = append(ids, id)
		}
	}
	sort.Strings(ids)
	return ids, nil
}
