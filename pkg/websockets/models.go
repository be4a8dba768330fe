package websockets

import "github.com/shopspring/decimal"

// MessageType defines the type of a WebSocket message.
type MessageType string

const (
	// MessageTypeBalanceUpdate is sent when a profile balance field changes.
	MessageTypeBalanceUpdate MessageType = "balanceUpdate"
	// MessageTypeInvestmentUpdate is sent when an investment changes status.
	MessageTypeInvestmentUpdate MessageType = "investmentUpdate"
)

// Message represents a generic WebSocket message.
type Message struct {
	Type    MessageType `json:"type"`
	Payload interface{} `json:"payload"`
}

// BalanceUpdatePayload is the payload for a balanceUpdate message.
type BalanceUpdatePayload struct {
	UserID    string          `json:"user_id"`
	Field     string          `json:"field"`
	Change    decimal.Decimal `json:"change"`
	Reference string          `json:"reference,omitempty"`
}

// InvestmentUpdatePayload is the payload for an investmentUpdate message.
type InvestmentUpdatePayload struct {
	UserID       string `json:"user_id"`
	InvestmentID string `json:"investment_id"`
	Status       string `json:"status"`
	Disposition  string `json:"disposition,omitempty"`
}

// BalanceUpdate builds a balanceUpdate message.
func BalanceUpdate(userID, field string, change decimal.Decimal, reference string) Message {
	return Message{
		Type: MessageTypeBalanceUpdate,
		Payload: BalanceUpdatePayload{
			UserID:    userID,
			Field:     field,
			Change:    change,
			Reference: reference,
		},
	}
}

// InvestmentUpdate builds an investmentUpdate message.
func InvestmentUpdate(userID, investmentID, status, disposition string) Message {
	return Message{
		Type: MessageTypeInvestmentUpdate,
		Payload: InvestmentUpdatePayload{
			UserID:       userID,
			InvestmentID: investmentID,
			Status:       status,
			Disposition:  disposition,
		},
	}
}
