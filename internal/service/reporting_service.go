package service

import (
	"context"

	"invest-ledger/internal/core/domain"
	"invest-ledger/internal/core/ports"
	"invest-ledger/pkg/apperror"

	"github.com/shopspring/decimal"
)

// reportingService implements ports.ReportingService.
type reportingService struct {
	accountRepo ports.AccountRepository
	txRepo      ports.TransactionRepository
}

// NewReportingService creates a new reporting service.
func NewReportingService(
	accountRepo ports.AccountRepository,
	txRepo ports.TransactionRepository,
) ports.ReportingService {
	return &reportingService{
		accountRepo: accountRepo,
		txRepo:      txRepo,
	}
}

// GetBalance returns the current balance and currency of an account.
func (s *reportingService) GetBalance(ctx context.Context, email string) (decimal.Decimal, string, error) {
	account, err := s.accountRepo.GetByEmail(ctx, email)
	if err != nil {
		return decimal.Zero, "", apperror.InternalError(err)
	}
	if account == nil {
		return decimal.Zero, "", apperror.ErrNotFound("account")
	}
	return account.Balance, account.Currency, nil
}

// ListTransactions returns a paginated, filtered list of transactions.
func (s *reportingService) ListTransactions(ctx context.Context, params ports.TransactionListParams) ([]domain.Transaction, int64, error) {
	if params.Page < 1 {
		params.Page = 1
	}
	if params.PageSize < 1 || params.PageSize > 100 {
		params.PageSize = 20
	}

	txns, total, err := s.txRepo.List(ctx, params)
	if err != nil {
		return nil, 0, apperror.InternalError(err)
	}
	return txns, total, nil
}

// GetStats returns aggregated ledger figures for the admin dashboard.
func (s *reportingService) GetStats(ctx context.Context) (*ports.LedgerStats, error) {
	stats, err := s.txRepo.GetStats(ctx)
	if err != nil {
		return nil, apperror.InternalError(err)
	}
	return stats, nil
}
