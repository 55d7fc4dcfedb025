package domain

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// ErrDuplicateEmail is returned by storage when an insert collides with the
// unique index on LOWER(email).
var ErrDuplicateEmail = errors.New("account email already exists")

// AccountStatus represents the state of a user account.
type AccountStatus string

const (
	AccountStatusActive  AccountStatus = "active"
	AccountStatusBlocked AccountStatus = "blocked"
)

// ValidAccountStatus reports whether s is a recognised account status.
func ValidAccountStatus(s AccountStatus) bool {
	return s == AccountStatusActive || s == AccountStatusBlocked
}

// Account represents a user account owning a balance, transactions and
// investments. The email is the unique, case-insensitive identifier.
type Account struct {
	Email        string          `json:"email"`
	Name         string          `json:"name"`
	PasswordHash string          `json:"-"` // Never expose
	Balance      decimal.Decimal `json:"balance"`
	Currency     string          `json:"currency"`
	IsVerified   bool            `json:"is_verified"`
	Status       AccountStatus   `json:"status"`
	Country      *string         `json:"country,omitempty"`
	Phone        *string         `json:"phone,omitempty"`
	JoinedAt     time.Time       `json:"joined_at"`
	UpdatedAt    time.Time       `json:"updated_at"`
}

// NewAccount constructs an active, unverified account with the given starting
// balance. The email is normalised to lower case so lookups stay
// case-insensitive everywhere.
func NewAccount(email, name, passwordHash string, startingBalance decimal.Decimal, currency string) (*Account, error) {
	email = NormalizeEmail(email)
	if email == "" {
		return nil, fmt.Errorf("account email must not be empty")
	}
	if name == "" {
		return nil, fmt.Errorf("account name must not be empty")
	}
	if startingBalance.IsNegative() {
		return nil, fmt.Errorf("starting balance must not be negative: %s", startingBalance)
	}

	now := time.Now().UTC()
	return &Account{
		Email:        email,
		Name:         name,
		PasswordHash: passwordHash,
		Balance:      startingBalance,
		Currency:     currency,
		IsVerified:   false,
		Status:       AccountStatusActive,
		JoinedAt:     now,
		UpdatedAt:    now,
	}, nil
}

// NormalizeEmail lowercases and trims an email for case-insensitive matching.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// IsActive returns true if the account is not blocked.
func (a *Account) IsActive() bool {
	return a.Status == AccountStatusActive
}

// CanWithdraw reports whether the balance covers the given amount.
func (a *Account) CanWithdraw(amount decimal.Decimal) bool {
	return a.Balance.GreaterThanOrEqual(amount)
}
