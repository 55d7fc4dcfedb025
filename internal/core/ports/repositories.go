package ports

import (
	"context"

	"invest-ledger/internal/core/domain"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
)

//go:generate mockgen -source=repositories.go -destination=mocks/repositories_mock.go -package=mocks

// AccountRepository defines persistence operations for accounts. Emails are
// matched case-insensitively by every lookup.
type AccountRepository interface {
	Create(ctx context.Context, account *domain.Account) error
	GetByEmail(ctx context.Context, email string) (*domain.Account, error)
	// GetByEmailForUpdate locks the account row for the duration of tx.
	GetByEmailForUpdate(ctx context.Context, tx pgx.Tx, email string) (*domain.Account, error)
	GetAll(ctx context.Context) ([]domain.Account, error)
	UpdateBalance(ctx context.Context, tx pgx.Tx, email string, balance decimal.Decimal) error
	UpdateStatus(ctx context.Context, email string, status domain.AccountStatus) error
	SetVerified(ctx context.Context, email string, verified bool) error
}

// TransactionRepository defines persistence operations for transactions.
// Methods accepting pgx.Tx run inside the ledger's account-locked blocks.
type TransactionRepository interface {
	Create(ctx context.Context, tx pgx.Tx, transaction *domain.Transaction) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Transaction, error)
	GetByIDForUpdate(ctx context.Context, tx pgx.Tx, id uuid.UUID) (*domain.Transaction, error)
	UpdateStatus(ctx context.Context, tx pgx.Tx, id uuid.UUID, status domain.TransactionStatus) error
	ListByAccount(ctx context.Context, email string) ([]domain.Transaction, error)
	List(ctx context.Context, params TransactionListParams) ([]domain.Transaction, int64, error)
	GetStats(ctx context.Context) (*LedgerStats, error)
}

// TransactionListParams holds filter + pagination for listing transactions.
type TransactionListParams struct {
	AccountEmail *string
	Status       *domain.TransactionStatus
	Direction    *domain.TransactionDirection
	Page         int
	PageSize     int
}

// LedgerStats holds aggregated figures for the admin dashboard.
type LedgerStats struct {
	TotalTransactions int64
	Pending           int64
	Completed         int64
	Rejected          int64
	PendingDeposits   decimal.Decimal // Volume awaiting approval
	CompletedDeposits decimal.Decimal
	CompletedOutflows decimal.Decimal
}

// InvestmentRepository defines persistence operations for investments.
type InvestmentRepository interface {
	Create(ctx context.Context, investment *domain.Investment) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Investment, error)
	ListByAccount(ctx context.Context, email string) ([]domain.Investment, error)
	ListAll(ctx context.Context) ([]domain.Investment, error)
}

// VerificationRepository defines persistence for identity verifications.
type VerificationRepository interface {
	Create(ctx context.Context, verification *domain.Verification) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Verification, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status domain.VerificationStatus, notes *string) error
	ListByAccount(ctx context.Context, email string) ([]domain.Verification, error)
	ListAll(ctx context.Context) ([]domain.Verification, error)
}

// AuditRepository persists audit log entries.
type AuditRepository interface {
	Create(ctx context.Context, entry *domain.AuditLog) error
}

// DBTransactor provides database transaction management.
type DBTransactor interface {
	Begin(ctx context.Context) (pgx.Tx, error)
}
