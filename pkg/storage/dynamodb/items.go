package dynamodb

import (
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/chris/crypto-investments/pkg/models"
	"github.com/shopspring/decimal"
)

// Money is stored as DynamoDB numbers so that balances can be adjusted with
// server-side ADD and compared in condition expressions.

func number(d decimal.Decimal) attributevalue.Number {
	return attributevalue.Number(d.String())
}

func numberAV(d decimal.Decimal) types.AttributeValue {
	return &types.AttributeValueMemberN{Value: d.String()}
}

func parseNumber(field string, n attributevalue.Number) (decimal.Decimal, error) {
	if n == "" {
		return decimal.Zero, nil
	}
	d, err := decimal.NewFromString(string(n))
	if err != nil {
		return decimal.Zero, fmt.Errorf("failed to parse %s %q: %w", field, n, err)
	}
	return d, nil
}

func stringAV(s string) types.AttributeValue {
	return &types.AttributeValueMemberS{Value: s}
}

func timeAV(t time.Time) (types.AttributeValue, error) {
	av, err := attributevalue.Marshal(t.UTC())
	if err != nil {
		return nil, fmt.Errorf("failed to marshal timestamp: %w", err)
	}
	return av, nil
}

type investmentItem struct {
	Id              string                `dynamodbav:"id"`
	UserId          string                `dynamodbav:"user_id"`
	PlanName        string                `dynamodbav:"plan_name"`
	Amount          attributevalue.Number `dynamodbav:"amount"`
	DailyRate       attributevalue.Number `dynamodbav:"daily_rate"`
	DurationDays    int                   `dynamodbav:"duration_days"`
	Crypto          string                `dynamodbav:"crypto"`
	DepositAddress  string                `dynamodbav:"deposit_address,omitempty"`
	Status          string                `dynamodbav:"status"`
	ApprovedAt      *time.Time            `dynamodbav:"approved_at,omitempty"`
	Reinvested      bool                  `dynamodbav:"reinvested"`
	RolledFrom      string                `dynamodbav:"rolled_from,omitempty"`
	Disposition     string                `dynamodbav:"disposition,omitempty"`
	DispositionInto string                `dynamodbav:"disposition_into,omitempty"`
	CreatedAt       time.Time             `dynamodbav:"created_at"`
	UpdatedAt       time.Time             `dynamodbav:"updated_at"`
}

func toInvestmentItem(inv *models.Investment) investmentItem {
	item := investmentItem{
		Id:              inv.Id,
		UserId:          inv.UserId,
		PlanName:        inv.PlanName,
		Amount:          number(inv.Amount),
		DailyRate:       number(inv.DailyRate),
		DurationDays:    inv.DurationDays,
		Crypto:          inv.Crypto,
		DepositAddress:  inv.DepositAddress,
		Status:          string(inv.Status),
		Reinvested:      inv.Reinvested,
		RolledFrom:      inv.RolledFrom,
		Disposition:     string(inv.Disposition.Kind),
		DispositionInto: inv.Disposition.Into,
		CreatedAt:       inv.CreatedAt.UTC(),
		UpdatedAt:       inv.UpdatedAt.UTC(),
	}
	if inv.ApprovedAt != nil {
		approved := inv.ApprovedAt.UTC()
		item.ApprovedAt = &approved
	}
	return item
}

func (i investmentItem) toModel() (*models.Investment, error) {
	amount, err := parseNumber("amount", i.Amount)
	if err != nil {
		return nil, err
	}
	rate, err := parseNumber("daily_rate", i.DailyRate)
	if err != nil {
		return nil, err
	}
	return &models.Investment{
		Id:             i.Id,
		UserId:         i.UserId,
		PlanName:       i.PlanName,
		Amount:         amount,
		DailyRate:      rate,
		DurationDays:   i.DurationDays,
		Crypto:         i.Crypto,
		DepositAddress: i.DepositAddress,
		Status:         models.InvestmentStatus(i.Status),
		ApprovedAt:     i.ApprovedAt,
		Reinvested:     i.Reinvested,
		RolledFrom:     i.RolledFrom,
		Disposition:    models.Disposition{Kind: models.DispositionKind(i.Disposition), Into: i.DispositionInto},
		CreatedAt:      i.CreatedAt,
		UpdatedAt:      i.UpdatedAt,
	}, nil
}

func marshalInvestment(inv *models.Investment) (map[string]types.AttributeValue, error) {
	av, err := attributevalue.MarshalMap(toInvestmentItem(inv))
	if err != nil {
		return nil, fmt.Errorf("failed to marshal investment: %w", err)
	}
	return av, nil
}

func unmarshalInvestments(items []map[string]types.AttributeValue) ([]models.Investment, error) {
	var records []investmentItem
	if err := attributevalue.UnmarshalListOfMaps(items, &records); err != nil {
		return nil, fmt.Errorf("failed to unmarshal investments: %w", err)
	}
	investments := make([]models.Investment, 0, len(records))
	for _, r := range records {
		inv, err := r.toModel()
		if err != nil {
			return nil, err
		}
		investments = append(investments, *inv)
	}
	return investments, nil
}

type profileItem struct {
	UserId              string                `dynamodbav:"user_id"`
	Email               string                `dynamodbav:"email,omitempty"`
	WithdrawableBalance attributevalue.Number `dynamodbav:"withdrawable_balance"`
	ReferralEarnings    attributevalue.Number `dynamodbav:"referral_earnings"`
	HasInvested         bool                  `dynamodbav:"has_invested"`
	ReferredBy          string                `dynamodbav:"referred_by,omitempty"`
	CreatedAt           time.Time             `dynamodbav:"created_at"`
}

func (p profileItem) toModel() (*models.Profile, error) {
	balance, err := parseNumber("withdrawable_balance", p.WithdrawableBalance)
	if err != nil {
		return nil, err
	}
	earnings, err := parseNumber("referral_earnings", p.ReferralEarnings)
	if err != nil {
		return nil, err
	}
	return &models.Profile{
		UserId:              p.UserId,
		Email:               p.Email,
		WithdrawableBalance: balance,
		ReferralEarnings:    earnings,
		HasInvested:         p.HasInvested,
		ReferredBy:          p.ReferredBy,
		CreatedAt:           p.CreatedAt,
	}, nil
}

type ledgerItem struct {
	EntryID        string                `dynamodbav:"entry_id"`
	UserId         string                `dynamodbav:"user_id"`
	Type           string                `dynamodbav:"type"`
	Subtype        string                `dynamodbav:"subtype,omitempty"`
	Amount         attributevalue.Number `dynamodbav:"amount"`
	Status         string                `dynamodbav:"status"`
	Description    string                `dynamodbav:"description"`
	Reference      string                `dynamodbav:"reference,omitempty"`
	InvestmentID   string                `dynamodbav:"investment_id,omitempty"`
	ReferredUserID string                `dynamodbav:"referred_user_id,omitempty"`
	Timestamp      time.Time             `dynamodbav:"timestamp"`
}

func marshalLedgerEntry(e *models.LedgerEntry) (map[string]types.AttributeValue, error) {
	av, err := attributevalue.MarshalMap(ledgerItem{
		EntryID:        e.EntryID,
		UserId:         e.UserId,
		Type:           string(e.Type),
		Subtype:        string(e.Subtype),
		Amount:         number(e.Amount),
		Status:         string(e.Status),
		Description:    e.Description,
		Reference:      e.Reference,
		InvestmentID:   e.InvestmentID,
		ReferredUserID: e.ReferredUserID,
		Timestamp:      e.Timestamp.UTC(),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal ledger entry: %w", err)
	}
	return av, nil
}

func (l ledgerItem) toModel() (*models.LedgerEntry, error) {
	amount, err := parseNumber("amount", l.Amount)
	if err != nil {
		return nil, err
	}
	return &models.LedgerEntry{
		EntryID:        l.EntryID,
		UserId:         l.UserId,
		Type:           models.EntryType(l.Type),
		Subtype:        models.DispositionKind(l.Subtype),
		Amount:         amount,
		Status:         models.EntryStatus(l.Status),
		Description:    l.Description,
		Reference:      l.Reference,
		InvestmentID:   l.InvestmentID,
		ReferredUserID: l.ReferredUserID,
		Timestamp:      l.Timestamp,
	}, nil
}

type withdrawalItem struct {
	Id           string                `dynamodbav:"id"`
	UserId       string                `dynamodbav:"user_id"`
	Amount       attributevalue.Number `dynamodbav:"amount"`
	Crypto       string                `dynamodbav:"crypto"`
	Address      string                `dynamodbav:"address"`
	Source       string                `dynamodbav:"source"`
	InvestmentID string                `dynamodbav:"investment_id,omitempty"`
	Status       string                `dynamodbav:"status"`
	ReceiptKey   string                `dynamodbav:"receipt_key,omitempty"`
	CreatedAt    time.Time             `dynamodbav:"created_at"`
	UpdatedAt    time.Time             `dynamodbav:"updated_at"`
}

func marshalWithdrawal(w *models.WithdrawalRequest) (map[string]types.AttributeValue, error) {
	av, err := attributevalue.MarshalMap(withdrawalItem{
		Id:           w.Id,
		UserId:       w.UserId,
		Amount:       number(w.Amount),
		Crypto:       w.Crypto,
		Address:      w.Address,
		Source:       string(w.Source),
		InvestmentID: w.InvestmentID,
		Status:       string(w.Status),
		ReceiptKey:   w.ReceiptKey,
		CreatedAt:    w.CreatedAt.UTC(),
		UpdatedAt:    w.UpdatedAt.UTC(),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal withdrawal request: %w", err)
	}
	return av, nil
}

func (w withdrawalItem) toModel() (*models.WithdrawalRequest, error) {
	amount, err := parseNumber("amount", w.Amount)
	if err != nil {
		return nil, err
	}
	return &models.WithdrawalRequest{
		Id:           w.Id,
		UserId:       w.UserId,
		Amount:       amount,
		Crypto:       w.Crypto,
		Address:      w.Address,
		Source:       models.WithdrawalSource(w.Source),
		InvestmentID: w.InvestmentID,
		Status:       models.WithdrawalStatus(w.Status),
		ReceiptKey:   w.ReceiptKey,
		CreatedAt:    w.CreatedAt,
		UpdatedAt:    w.UpdatedAt,
	}, nil
}

func unmarshalWithdrawals(items []map[string]types.AttributeValue) ([]models.WithdrawalRequest, error) {
	var records []withdrawalItem
	if err := attributevalue.UnmarshalListOfMaps(items, &records); err != nil {
		return nil, fmt.Errorf("failed to unmarshal withdrawal requests: %w", err)
	}
	out := make([]models.WithdrawalRequest, 0, len(records))
	for _, r := range records {
		w, err := r.toModel()
		if err != nil {
			return nil, err
		}
		out = append(out, *w)
	}
	return out, nil
}
