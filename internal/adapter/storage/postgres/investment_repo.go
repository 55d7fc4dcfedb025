package postgres

import (
	"context"
	"errors"
	"fmt"

	"invest-ledger/internal/core/domain"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

const investmentColumns = `id, account_email, plan, amount, profit, duration, start_date, end_date, status`

// InvestmentRepo implements ports.InvestmentRepository.
type InvestmentRepo struct {
	pool Pool
}

// NewInvestmentRepo creates a new InvestmentRepo.
func NewInvestmentRepo(pool Pool) *InvestmentRepo {
	return &InvestmentRepo{pool: pool}
}

// Create inserts a new investment.
func (r *InvestmentRepo) Create(ctx context.Context, inv *domain.Investment) error {
	query := `INSERT INTO investments (id, account_email, plan, amount, profit, duration, start_date, end_date, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`

	_, err := r.pool.Exec(ctx, query,
		inv.ID, inv.AccountEmail, inv.Plan, inv.Amount, inv.Profit,
		inv.Duration, inv.StartDate, inv.EndDate, inv.Status,
	)
	if err != nil {
		return fmt.Errorf("insert investment: %w", err)
	}
	return nil
}

// GetByID fetches an investment by UUID.
func (r *InvestmentRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.Investment, error) {
	query := `SELECT ` + investmentColumns + ` FROM investments WHERE id = $1`

	inv := &domain.Investment{}
	err := r.pool.QueryRow(ctx, query, id).Scan(
		&inv.ID, &inv.AccountEmail, &inv.Plan, &inv.Amount, &inv.Profit,
		&inv.Duration, &inv.StartDate, &inv.EndDate, &inv.Status,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get investment by id: %w", err)
	}
	return inv, nil
}

// ListByAccount fetches every investment of one account, newest first.
func (r *InvestmentRepo) ListByAccount(ctx context.Context, email string) ([]domain.Investment, error) {
	query := `SELECT ` + investmentColumns + ` FROM investments
		WHERE LOWER(account_email) = LOWER($1) ORDER BY start_date DESC`

	rows, err := r.pool.Query(ctx, query, email)
	if err != nil {
		return nil, fmt.Errorf("list account investments: %w", err)
	}
	defer rows.Close()

	return collectInvestments(rows)
}

// ListAll fetches every investment, newest first.
func (r *InvestmentRepo) ListAll(ctx context.Context) ([]domain.Investment, error) {
	query := `SELECT ` + investmentColumns + ` FROM investments ORDER BY start_date DESC`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list investments: %w", err)
	}
	defer rows.Close()

	return collectInvestments(rows)
}

func collectInvestments(rows pgx.Rows) ([]domain.Investment, error) {
	var investments []domain.Investment
	for rows.Next() {
		var inv domain.Investment
		if err := rows.Scan(
			&inv.ID, &inv.AccountEmail, &inv.Plan, &inv.Amount, &inv.Profit,
			&inv.Duration, &inv.StartDate, &inv.EndDate, &inv.Status,
		); err != nil {
			return nil, fmt.Errorf("scan investment row: %w", err)
		}
		investments = append(investments, inv)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate investment rows: %w", err)
	}
	return investments, nil
}
