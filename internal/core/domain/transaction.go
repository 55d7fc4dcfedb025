package domain

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// TransactionDirection represents the kind of money movement.
type TransactionDirection string

const (
	TransactionDeposit    TransactionDirection = "deposit"
	TransactionWithdrawal TransactionDirection = "withdrawal"
)

// TransactionStatus represents the lifecycle state of a transaction.
// Transitions are one-way: pending -> completed or pending -> rejected.
type TransactionStatus string

const (
	TransactionStatusPending    TransactionStatus = "pending"
	TransactionStatusCompleted  TransactionStatus = "completed"
	TransactionStatusRejected   TransactionStatus = "rejected"
	TransactionStatusProcessing TransactionStatus = "processing"
)

// Decision is an administrator's verdict on a pending transaction.
type Decision string

const (
	DecisionApprove Decision = "approve"
	DecisionReject  Decision = "reject"
)

// BankDetails holds the bank-rail payload of a withdrawal request.
type BankDetails struct {
	AccountName   string `json:"account_name"`
	BankName      string `json:"bank_name"`
	AccountNumber string `json:"account_number"`
	SwiftCode     string `json:"swift_code,omitempty"`
	RoutingNumber string `json:"routing_number,omitempty"`
	BankCountry   string `json:"bank_country,omitempty"`
}

// Transaction represents a deposit or withdrawal against an account.
type Transaction struct {
	ID            uuid.UUID            `json:"id"`
	AccountEmail  string               `json:"account_email"`
	Direction     TransactionDirection `json:"direction"`
	Amount        decimal.Decimal      `json:"amount"`
	Currency      string               `json:"currency"`
	Status        TransactionStatus    `json:"status"`
	Method        string               `json:"method"` // payment rail or crypto network, free-form
	BankDetails   *BankDetails         `json:"bank_details,omitempty"`
	WalletAddress *string              `json:"wallet_address,omitempty"`
	CreatedAt     time.Time            `json:"created_at"`
	DecidedAt     *time.Time           `json:"decided_at,omitempty"`
}

// NewTransaction constructs a transaction, enforcing a positive amount and a
// known direction.
func NewTransaction(email string, direction TransactionDirection, amount decimal.Decimal, currency, method string) (*Transaction, error) {
	if !amount.IsPositive() {
		return nil, fmt.Errorf("transaction amount must be positive: %s", amount)
	}
	if direction != TransactionDeposit && direction != TransactionWithdrawal {
		return nil, fmt.Errorf("unknown transaction direction: %s", direction)
	}

	return &Transaction{
		ID:           uuid.New(),
		AccountEmail: NormalizeEmail(email),
		Direction:    direction,
		Amount:       amount,
		Currency:     currency,
		Status:       TransactionStatusPending,
		Method:       method,
		CreatedAt:    time.Now().UTC(),
	}, nil
}

// IsPending returns true while the transaction awaits a decision.
func (t *Transaction) IsPending() bool {
	return t.Status == TransactionStatusPending
}

// IsTerminal returns true once the transaction reached a final state.
func (t *Transaction) IsTerminal() bool {
	return t.Status == TransactionStatusCompleted || t.Status == TransactionStatusRejected
}
