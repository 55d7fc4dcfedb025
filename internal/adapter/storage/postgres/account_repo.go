package postgres

import (
	"context"
	"errors"
	"fmt"

	"invest-ledger/internal/core/domain"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/shopspring/decimal"
)

const accountColumns = `email, name, password_hash, balance, currency, is_verified, status, country, phone, joined_at, updated_at`

// SQLSTATE for unique_violation.
const uniqueViolationCode = "23505"

// AccountRepo implements ports.AccountRepository.
type AccountRepo struct {
	pool Pool
}

// NewAccountRepo creates a new AccountRepo.
func NewAccountRepo(pool Pool) *AccountRepo {
	return &AccountRepo{pool: pool}
}

// Create inserts a new account. The email column carries a unique index on
// LOWER(email), so duplicates fail regardless of case.
func (r *AccountRepo) Create(ctx context.Context, a *domain.Account) error {
	query := `INSERT INTO accounts (email, name, password_hash, balance, currency, is_verified, status, country, phone, joined_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`

	_, err := r.pool.Exec(ctx, query,
		a.Email, a.Name, a.PasswordHash, a.Balance, a.Currency,
		a.IsVerified, a.Status, a.Country, a.Phone,
		a.JoinedAt, a.UpdatedAt,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolationCode {
			return domain.ErrDuplicateEmail
		}
		return fmt.Errorf("insert account: %w", err)
	}
	return nil
}

// GetByEmail fetches an account by email, case-insensitively.
func (r *AccountRepo) GetByEmail(ctx context.Context, email string) (*domain.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts WHERE LOWER(email) = LOWER($1)`

	return scanAccount(r.pool.QueryRow(ctx, query, email))
}

// GetByEmailForUpdate fetches an account with a row lock held until tx ends.
// This MUST be called within a transaction.
func (r *AccountRepo) GetByEmailForUpdate(ctx context.Context, tx pgx.Tx, email string) (*domain.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts WHERE LOWER(email) = LOWER($1) FOR UPDATE`

	return scanAccount(tx.QueryRow(ctx, query, email))
}

// GetAll fetches every account, ordered by registration date.
func (r *AccountRepo) GetAll(ctx context.Context) ([]domain.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts ORDER BY joined_at`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list accounts: %w", err)
	}
	defer rows.Close()

	var accounts []domain.Account
	for rows.Next() {
		var a domain.Account
		if err := rows.Scan(
			&a.Email, &a.Name, &a.PasswordHash, &a.Balance, &a.Currency,
			&a.IsVerified, &a.Status, &a.Country, &a.Phone,
			&a.JoinedAt, &a.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan account row: %w", err)
		}
		accounts = append(accounts, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate account rows: %w", err)
	}
	return accounts, nil
}

// UpdateBalance sets the account balance within a database transaction. The
// caller must hold the account's row lock.
func (r *AccountRepo) UpdateBalance(ctx context.Context, tx pgx.Tx, email string, balance decimal.Decimal) error {
	query := `UPDATE accounts SET balance = $1, updated_at = NOW() WHERE LOWER(email) = LOWER($2)`

	tag, err := tx.Exec(ctx, query, balance, email)
	if err != nil {
		return fmt.Errorf("update account balance: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("account not found: %s", email)
	}
	return nil
}

// UpdateStatus flips the account between active and blocked.
func (r *AccountRepo) UpdateStatus(ctx context.Context, email string, status domain.AccountStatus) error {
	query := `UPDATE accounts SET status = $1, updated_at = NOW() WHERE LOWER(email) = LOWER($2)`

	tag, err := r.pool.Exec(ctx, query, status, email)
	if err != nil {
		return fmt.Errorf("update account status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("account not found: %s", email)
	}
	return nil
}

// SetVerified flips the account's verification flag.
func (r *AccountRepo) SetVerified(ctx context.Context, email string, verified bool) error {
	query := `UPDATE accounts SET is_verified = $1, updated_at = NOW() WHERE LOWER(email) = LOWER($2)`

	tag, err := r.pool.Exec(ctx, query, verified, email)
	if err != nil {
		return fmt.Errorf("update account verification: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("account not found: %s", email)
	}
	return nil
}

// scanAccount scans a single row into an Account, mapping no-rows to nil.
func scanAccount(row pgx.Row) (*domain.Account, error) {
	a := &domain.Account{}
	err := row.Scan(
		&a.Email, &a.Name, &a.PasswordHash, &a.Balance, &a.Currency,
		&a.IsVerified, &a.Status, &a.Country, &a.Phone,
		&a.JoinedAt, &a.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("scan account: %w", err)
	}
	return a, nil
}
