package service

import (
	"context"
	"fmt"

	"invest-ledger/internal/core/domain"
	"invest-ledger/internal/core/ports"
	"invest-ledger/pkg/apperror"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// InvestmentServiceImpl implements ports.InvestmentService.
type InvestmentServiceImpl struct {
	accountRepo    ports.AccountRepository
	investmentRepo ports.InvestmentRepository
	log            zerolog.Logger
}

// NewInvestmentService creates a new InvestmentServiceImpl.
func NewInvestmentService(
	accountRepo ports.AccountRepository,
	investmentRepo ports.InvestmentRepository,
	log zerolog.Logger,
) *InvestmentServiceImpl {
	return &InvestmentServiceImpl{
		accountRepo:    accountRepo,
		investmentRepo: investmentRepo,
		log:            log,
	}
}

// Record stores a plan subscription for an account. The ledger does not move
// funds here: principal handling is owned by the transaction lifecycle.
func (s *InvestmentServiceImpl) Record(ctx context.Context, req ports.InvestmentRequest) (uuid.UUID, error) {
	account, err := s.accountRepo.GetByEmail(ctx, req.Email)
	if err != nil {
		return uuid.Nil, apperror.InternalError(fmt.Errorf("find account: %w", err))
	}
	if account == nil {
		return uuid.Nil, apperror.ErrNotFound("account")
	}
	if !account.IsActive() {
		return uuid.Nil, apperror.ErrAccountBlocked()
	}

	investment, err := domain.NewInvestment(req.Email, req.Plan, req.Amount, req.Profit, req.Duration, req.Start, req.End)
	if err != nil {
		return uuid.Nil, apperror.Validation(err.Error())
	}

	if err := s.investmentRepo.Create(ctx, investment); err != nil {
		return uuid.Nil, apperror.InternalError(fmt.Errorf("create investment: %w", err))
	}

	s.log.Info().
		Str("investment_id", investment.ID.String()).
		Str("email", investment.AccountEmail).
		Str("plan", investment.Plan).
		Str("amount", investment.Amount.String()).
		Msg("investment recorded")

	return investment.ID, nil
}

// ListByAccount fetches one account's investments.
func (s *InvestmentServiceImpl) ListByAccount(ctx context.Context, email string) ([]domain.Investment, error) {
	investments, err := s.investmentRepo.ListByAccount(ctx, email)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("list investments: %w", err))
	}
	return investments, nil
}

// ListAll fetches every investment for the admin view.
func (s *InvestmentServiceImpl) ListAll(ctx context.Context) ([]domain.Investment, error) {
	investments, err := s.investmentRepo.ListAll(ctx)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("list investments: %w", err))
	}
	return investments, nil
}
