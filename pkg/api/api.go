// Package api holds the request and response bodies of the HTTP API.
// Money travels as decimal strings.
package api

import "time"

// Plan is an entry of the plan catalog.
type Plan struct {
	Name          string  `json:"name"`
	MinInvestment string  `json:"minInvestment"`
	MaxInvestment *string `json:"maxInvestment,omitempty"`
	DailyRate     string  `json:"dailyRate"`
	DurationDays  int     `json:"durationDays"`
}

type Crypto struct {
	Id      string `json:"id"`
	Name    string `json:"name"`
	Symbol  string `json:"symbol"`
	Address string `json:"address"`
}

// NewInvestment is the body of POST /investments.
type NewInvestment struct {
	Plan   string `json:"plan"`
	Amount string `json:"amount"`
	Crypto string `json:"crypto"`
}

type Disposition struct {
	Kind string `json:"kind"`
	Into string `json:"into,omitempty"`
}

// Accrual is the read-time accrual state of an investment.
type Accrual struct {
	ElapsedDays     int        `json:"elapsedDays"`
	DaysRemaining   int        `json:"daysRemaining"`
	ProgressPercent int        `json:"progressPercent"`
	AccruedProfit   string     `json:"accruedProfit"`
	ExpectedProfit  string     `json:"expectedProfit"`
	Matured         bool       `json:"matured"`
	MaturesAt       *time.Time `json:"maturesAt,omitempty"`
}

// Investment reports the effective status: an active investment whose term
// has elapsed reads as "completed".
type Investment struct {
	Id             string       `json:"id"`
	UserId         string       `json:"userId"`
	Plan           string       `json:"plan"`
	Amount         string       `json:"amount"`
	DailyRate      string       `json:"dailyRate"`
	DurationDays   int          `json:"durationDays"`
	Crypto         string       `json:"crypto"`
	DepositAddress string       `json:"depositAddress,omitempty"`
	Status         string       `json:"status"`
	ApprovedAt     *time.Time   `json:"approvedAt,omitempty"`
	Reinvested     bool         `json:"reinvested"`
	RolledFrom     string       `json:"rolledFrom,omitempty"`
	Disposition    *Disposition `json:"disposition,omitempty"`
	CreatedAt      time.Time    `json:"createdAt"`
	UpdatedAt      time.Time    `json:"updatedAt"`
	Accrual        *Accrual     `json:"accrual,omitempty"`
}

// ReinvestRequest is the body of POST /investments/{id}/reinvest. Either
// amount or all must be given.
type ReinvestRequest struct {
	Amount string `json:"amount,omitempty"`
	All    bool   `json:"all,omitempty"`
}

type ReinvestResponse struct {
	Original   Investment `json:"original"`
	Rollover   Investment `json:"rollover"`
	Remainder  string     `json:"remainder"`
	TotalValue string     `json:"totalValue"`
}

// WalletTarget is the body of POST /investments/{id}/withdraw-to-wallet.
type WalletTarget struct {
	Crypto  string `json:"crypto"`
	Address string `json:"address"`
}

// NewWithdrawal is the body of POST /withdrawals.
type NewWithdrawal struct {
	Amount  string `json:"amount"`
	Crypto  string `json:"crypto"`
	Address string `json:"address"`
}

type Withdrawal struct {
	Id           string    `json:"id"`
	UserId       string    `json:"userId"`
	Amount       string    `json:"amount"`
	Crypto       string    `json:"crypto"`
	Address      string    `json:"address"`
	Source       string    `json:"source"`
	InvestmentId string    `json:"investmentId,omitempty"`
	Status       string    `json:"status"`
	ReceiptKey   string    `json:"receiptKey,omitempty"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

type LedgerEntry struct {
	EntryId        string    `json:"entryId"`
	Type           string    `json:"type"`
	Subtype        string    `json:"subtype,omitempty"`
	Amount         string    `json:"amount"`
	Status         string    `json:"status"`
	Description    string    `json:"description"`
	Reference      string    `json:"reference,omitempty"`
	InvestmentId   string    `json:"investmentId,omitempty"`
	ReferredUserId string    `json:"referredUserId,omitempty"`
	Timestamp      time.Time `json:"timestamp"`
}

type Dashboard struct {
	UserId              string       `json:"userId"`
	WithdrawableBalance string       `json:"withdrawableBalance"`
	ReferralEarnings    string       `json:"referralEarnings"`
	HasInvested         bool         `json:"hasInvested"`
	ActiveCount         int          `json:"activeCount"`
	ActivePrincipal     string       `json:"activePrincipal"`
	AccruedEarnings     string       `json:"accruedEarnings"`
	Investments         []Investment `json:"investments"`
}

// BalanceAdjustment is the body of the admin bonus and deduct routes.
type BalanceAdjustment struct {
	Amount string `json:"amount"`
	Note   string `json:"note,omitempty"`
}

type ReferralTransfer struct {
	Amount string `json:"amount"`
}

type CryptoAddressUpdate struct {
	Address string `json:"address"`
}

// Error is the body of every non-2xx response.
type Error struct {
	Error   string `json:"error"`
	Field   string `json:"field,omitempty"`
	Current string `json:"currentStatus,omitempty"`
}

// NewProfile is the body of POST /profiles.
type NewProfile struct {
	ReferredBy string `json:"referredBy,omitempty"`
}

type Profile struct {
	UserId              string    `json:"userId"`
	WithdrawableBalance string    `json:"withdrawableBalance"`
	ReferralEarnings    string    `json:"referralEarnings"`
	HasInvested         bool      `json:"hasInvested"`
	ReferredBy          string    `json:"referredBy,omitempty"`
	CreatedAt           time.Time `json:"createdAt"`
}
