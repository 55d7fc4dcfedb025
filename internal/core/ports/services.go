package ports

import (
	"context"
	"time"

	"invest-ledger/internal/core/domain"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

//go:generate mockgen -source=services.go -destination=mocks/services_mock.go -package=mocks

// HashService handles credential hashing (Argon2id).
type HashService interface {
	Hash(password string) (string, error)
	Verify(password string, hash string) (bool, error)
}

// TokenService handles JWT token operations.
type TokenService interface {
	Generate(email string, isAdmin bool) (string, time.Time, error)
	Validate(tokenString string) (*TokenClaims, error)
}

// TokenClaims holds the parsed JWT claims.
type TokenClaims struct {
	Email   string
	IsAdmin bool
}

// --- Service Ports (Business Logic) ---

// AccountService owns account lifecycle: registration, authentication and
// administrative status changes.
type AccountService interface {
	Register(ctx context.Context, req RegisterRequest) (*domain.Account, error)
	Authenticate(ctx context.Context, email, credential string) (*domain.Account, error)
	UpdateStatus(ctx context.Context, email string, status domain.AccountStatus) error
	GetByEmail(ctx context.Context, email string) (*domain.Account, error)
	ListAccounts(ctx context.Context) ([]domain.Account, error)
}

// RegisterRequest holds validated input for account registration.
type RegisterRequest struct {
	Email      string
	Name       string
	Credential string
	Country    *string
	Phone      *string
}

// LedgerService owns balance mutation: deposit/withdrawal requests, status
// decisions and direct administrative adjustments.
type LedgerService interface {
	RequestDeposit(ctx context.Context, email string, amount decimal.Decimal, method string) (uuid.UUID, error)
	RequestWithdrawal(ctx context.Context, req WithdrawalRequest) (uuid.UUID, error)
	DecideTransaction(ctx context.Context, id uuid.UUID, decision domain.Decision) error
	AdjustBalance(ctx context.Context, email string, amount decimal.Decimal, note string) error
}

// WithdrawalRequest holds validated input for a withdrawal.
type WithdrawalRequest struct {
	Email         string
	Amount        decimal.Decimal
	Method        string
	BankDetails   *domain.BankDetails
	WalletAddress *string
}

// MirrorSyncService reconciles the primary store with the remote mirror.
type MirrorSyncService interface {
	Migrate(ctx context.Context) (*domain.MigrationReport, error)
}

// InvestmentService records and lists plan subscriptions.
type InvestmentService interface {
	Record(ctx context.Context, req InvestmentRequest) (uuid.UUID, error)
	ListByAccount(ctx context.Context, email string) ([]domain.Investment, error)
	ListAll(ctx context.Context) ([]domain.Investment, error)
}

// InvestmentRequest holds validated input for recording an investment.
type InvestmentRequest struct {
	Email    string
	Plan     string
	Amount   decimal.Decimal
	Profit   decimal.Decimal
	Duration string
	Start    time.Time
	End      time.Time
}

// VerificationService handles identity-verification submissions and reviews.
type VerificationService interface {
	Submit(ctx context.Context, email, documentType string, documentNumber, country *string) (uuid.UUID, error)
	Decide(ctx context.Context, id uuid.UUID, decision domain.Decision, notes *string) error
	ListByAccount(ctx context.Context, email string) ([]domain.Verification, error)
	ListAll(ctx context.Context) ([]domain.Verification, error)
}

// ReportingService exposes read-only views for dashboards.
type ReportingService interface {
	GetBalance(ctx context.Context, email string) (decimal.Decimal, string, error)
	ListTransactions(ctx context.Context, params TransactionListParams) ([]domain.Transaction, int64, error)
	GetStats(ctx context.Context) (*LedgerStats, error)
}

// AuditService records audit entries (fire-and-forget).
type AuditService interface {
	Log(ctx context.Context, entry *domain.AuditLog)
}
