package domain

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// InvestmentStatus represents the lifecycle state of an investment.
type InvestmentStatus string

const (
	InvestmentStatusActive    InvestmentStatus = "active"
	InvestmentStatusCompleted InvestmentStatus = "completed"
)

// Investment is a plan subscription held by an account. The ledger only
// creates and reads investments; it never mutates them.
type Investment struct {
	ID           uuid.UUID        `json:"id"`
	AccountEmail string           `json:"account_email"`
	Plan         string           `json:"plan"`
	Amount       decimal.Decimal  `json:"amount"` // Principal
	Profit       decimal.Decimal  `json:"profit"` // Accrued so far
	Duration     string           `json:"duration"`
	StartDate    time.Time        `json:"start_date"`
	EndDate      time.Time        `json:"end_date"`
	Status       InvestmentStatus `json:"status"`
}

// NewInvestment constructs an active investment record.
func NewInvestment(email, plan string, amount, profit decimal.Decimal, duration string, start, end time.Time) (*Investment, error) {
	if !amount.IsPositive() {
		return nil, fmt.Errorf("investment principal must be positive: %s", amount)
	}
	if profit.IsNegative() {
		return nil, fmt.Errorf("investment profit must not be negative: %s", profit)
	}
	if end.Before(start) {
		return nil, fmt.Errorf("investment end date precedes start date")
	}

	return &Investment{
		ID:           uuid.New(),
		AccountEmail: NormalizeEmail(email),
		Plan:         plan,
		Amount:       amount,
		Profit:       profit,
		Duration:     duration,
		StartDate:    start,
		EndDate:      end,
		Status:       InvestmentStatusActive,
	}, nil
}
