package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// InvestmentStatus defines the persisted states of an investment.
type InvestmentStatus string

const (
	PENDING   InvestmentStatus = "pending"
	ACTIVE    InvestmentStatus = "active"
	WITHDRAWN InvestmentStatus = "withdrawn"
	DENIED    InvestmentStatus = "denied"

	// COMPLETED is never stored. It is reported for an ACTIVE investment whose
	// duration has fully elapsed.
	COMPLETED InvestmentStatus = "completed"
)

// IsTerminal reports whether no further transition is allowed from s.
func (s InvestmentStatus) IsTerminal() bool {
	return s == WITHDRAWN || s == DENIED
}

// DispositionKind records what happened to a matured investment's proceeds.
type DispositionKind string

const (
	DispositionUndetermined DispositionKind = ""
	DispositionToBalance    DispositionKind = "to_balance"
	DispositionToWallet     DispositionKind = "to_wallet"
	DispositionRolledOver   DispositionKind = "rolled_over"
)

// Disposition is the tagged outcome of a matured investment. Into is set for
// DispositionRolledOver (the new investment) and DispositionToWallet (the
// withdrawal request).
type Disposition struct {
	Kind DispositionKind `json:"kind,omitempty"`
	Into string          `json:"into,omitempty"`
}

// Investment is a principal committed to a plan. Terms (daily rate and
// duration) are copied from the plan at creation and never change afterwards.
type Investment struct {
	Id             string           `json:"id"`
	UserId         string           `json:"user_id"`
	PlanName       string           `json:"plan_name"`
	Amount         decimal.Decimal  `json:"amount"`
	DailyRate      decimal.Decimal  `json:"daily_rate"`
	DurationDays   int              `json:"duration_days"`
	Crypto         string           `json:"crypto"`
	DepositAddress string           `json:"deposit_address,omitempty"`
	Status         InvestmentStatus `json:"status"`
	ApprovedAt     *time.Time       `json:"approved_at,omitempty"`
	Reinvested     bool             `json:"reinvested"`
	RolledFrom     string           `json:"rolled_from,omitempty"`
	Disposition    Disposition      `json:"disposition"`
	CreatedAt      time.Time        `json:"created_at"`
	UpdatedAt      time.Time        `json:"updated_at"`
}

// BalanceField names one of the two mutable money fields on a profile.
type BalanceField string

const (
	WithdrawableBalance BalanceField = "withdrawable_balance"
	ReferralEarnings    BalanceField = "referral_earnings"
)

// Profile is the slice of a user's profile the investment flows read and mutate.
type Profile struct {
	UserId              string          `json:"user_id"`
	Email               string          `json:"email,omitempty"`
	WithdrawableBalance decimal.Decimal `json:"withdrawable_balance"`
	ReferralEarnings    decimal.Decimal `json:"referral_earnings"`
	HasInvested         bool            `json:"has_invested"`
	ReferredBy          string          `json:"referred_by,omitempty"`
	CreatedAt           time.Time       `json:"created_at"`
}

// EntryType classifies ledger entries.
type EntryType string

const (
	DEPOSIT           EntryType = "deposit"
	WITHDRAWAL        EntryType = "withdrawal"
	REFERRAL          EntryType = "referral"
	BONUS             EntryType = "bonus"
	DEDUCTION         EntryType = "deduction"
	REFERRAL_PAYOUT   EntryType = "referral_transfer"
	WITHDRAWAL_REFUND EntryType = "withdrawal_refund"
)

// EntryStatus is the settlement state of a ledger entry.
type EntryStatus string

const (
	EntryPending   EntryStatus = "pending"
	EntryCompleted EntryStatus = "completed"
	EntryRejected  EntryStatus = "rejected"
)

// CommissionEntryID is the ledger key of the referral commission paid for an
// investment. One investment can pay at most one commission.
func CommissionEntryID(investmentID string) string {
	return "referral-" + investmentID
}

// WithdrawalEntryID is the ledger key of the debit recorded for a wallet
// withdrawal request.
func WithdrawalEntryID(requestID string) string {
	return "withdrawal-" + requestID
}

// LedgerEntry is a single line in a user's transaction history.
type LedgerEntry struct {
	EntryID        string          `json:"entry_id"`
	UserId         string          `json:"user_id"`
	Type           EntryType       `json:"type"`
	Subtype        DispositionKind `json:"subtype,omitempty"`
	Amount         decimal.Decimal `json:"amount"`
	Status         EntryStatus     `json:"status"`
	Description    string          `json:"description"`
	Reference      string          `json:"reference,omitempty"`
	InvestmentID   string          `json:"investment_id,omitempty"`
	ReferredUserID string          `json:"referred_user_id,omitempty"`
	Timestamp      time.Time       `json:"timestamp"`
}

// FirstInvestment carries the side effects of a user's first investment: the
// has_invested flag flip and, when the user was referred, the commission owed
// to the referrer.
type FirstInvestment struct {
	InvestorId string
	ReferrerId string
	Commission decimal.Decimal
	Entry      *LedgerEntry
}

// HasCommission reports whether a referrer is owed anything.
func (f *FirstInvestment) HasCommission() bool {
	return f != nil && f.ReferrerId != "" && f.Entry != nil
}

// WithdrawalStatus defines the states of a wallet withdrawal request.
type WithdrawalStatus string

const (
	WithdrawalPending  WithdrawalStatus = "pending"
	WithdrawalApproved WithdrawalStatus = "approved"
	WithdrawalRejected WithdrawalStatus = "rejected"
)

// WithdrawalSource says where the requested funds were taken from.
type WithdrawalSource string

const (
	SourceBalance    WithdrawalSource = "balance"
	SourceInvestment WithdrawalSource = "investment"
)

// WithdrawalRequest is a request to pay funds out to an external wallet.
type WithdrawalRequest struct {
	Id           string           `json:"id"`
	UserId       string           `json:"user_id"`
	Amount       decimal.Decimal  `json:"amount"`
	Crypto       string           `json:"crypto"`
	Address      string           `json:"address"`
	Source       WithdrawalSource `json:"source"`
	InvestmentID string           `json:"investment_id,omitempty"`
	Status       WithdrawalStatus `json:"status"`
	ReceiptKey   string           `json:"receipt_key,omitempty"`
	CreatedAt    time.Time        `json:"created_at"`
	UpdatedAt    time.Time        `json:"updated_at"`
}

// Crypto is a supported funding currency and the platform's deposit address for it.
type Crypto struct {
	Id      string `json:"id"`
	Name    string `json:"name"`
	Symbol  string `json:"symbol"`
	Address string `json:"address"`
}

// Disposal describes one atomic disposition of a matured investment: the
// status change on the original, an optional balance credit, an optional new
// investment (rollover), an optional wallet withdrawal request, and the ledger
// entries that record it.
type Disposal struct {
	Investment  *Investment
	Disposition Disposition
	Credit      decimal.Decimal
	Rollover    *Investment
	Withdrawal  *WithdrawalRequest
	Entries     []LedgerEntry
	At          time.Time
}
