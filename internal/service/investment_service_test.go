package service

import (
	"context"
	"testing"
	"time"

	"invest-ledger/internal/core/domain"
	"invest-ledger/internal/core/ports"
	"invest-ledger/internal/core/ports/mocks"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func setupInvestmentService(t *testing.T) (*InvestmentServiceImpl, *mocks.MockAccountRepository, *mocks.MockInvestmentRepository, *gomock.Controller) {
	ctrl := gomock.NewController(t)
	accountRepo := mocks.NewMockAccountRepository(ctrl)
	investmentRepo := mocks.NewMockInvestmentRepository(ctrl)
	svc := NewInvestmentService(accountRepo, investmentRepo, zerolog.Nop())
	return svc, accountRepo, investmentRepo, ctrl
}

func investmentRequest() ports.InvestmentRequest {
	start := time.Now().UTC()
	return ports.InvestmentRequest{
		Email:    "user@example.com",
		Plan:     "growth",
		Amount:   decimal.NewFromInt(10000),
		Profit:   decimal.Zero,
		Duration: "12 months",
		Start:    start,
		End:      start.AddDate(1, 0, 0),
	}
}

func TestInvestmentService_Record(t *testing.T) {
	svc, accountRepo, investmentRepo, ctrl := setupInvestmentService(t)
	defer ctrl.Finish()

	ctx := context.Background()
	accountRepo.EXPECT().GetByEmail(ctx, "user@example.com").Return(&domain.Account{
		Email: "user@example.com", Status: domain.AccountStatusActive,
	}, nil)
	investmentRepo.EXPECT().Create(ctx, gomock.Any()).DoAndReturn(
		func(_ context.Context, inv *domain.Investment) error {
			assert.Equal(t, "growth", inv.Plan)
			assert.Equal(t, domain.InvestmentStatusActive, inv.Status)
			return nil
		})

	id, err := svc.Record(ctx, investmentRequest())
	require.NoError(t, err)
	assert.NotEqual(t, uuid.Nil, id)
}

func TestInvestmentService_Record_AccountNotFound(t *testing.T) {
	svc, accountRepo, _, ctrl := setupInvestmentService(t)
	defer ctrl.Finish()

	ctx := context.Background()
	accountRepo.EXPECT().GetByEmail(ctx, "user@example.com").Return(nil, nil)

	_, err := svc.Record(ctx, investmentRequest())
	assertAppError(t, err, "ACC_002")
}

func TestInvestmentService_Record_InvalidPrincipal(t *testing.T) {
	svc, accountRepo, _, ctrl := setupInvestmentService(t)
	defer ctrl.Finish()

	ctx := context.Background()
	accountRepo.EXPECT().GetByEmail(ctx, "user@example.com").Return(&domain.Account{
		Email: "user@example.com", Status: domain.AccountStatusActive,
	}, nil)

	req := investmentRequest()
	req.Amount = decimal.Zero

	_, err := svc.Record(ctx, req)
	assertAppError(t, err, "REQ_001")
}

func TestInvestmentService_ListByAccount(t *testing.T) {
	svc, _, investmentRepo, ctrl := setupInvestmentService(t)
	defer ctrl.Finish()

	ctx := context.Background()
	investmentRepo.EXPECT().ListByAccount(ctx, "user@example.com").Return([]domain.Investment{
		{ID: uuid.New(), Plan: "growth"},
		{ID: uuid.New(), Plan: "starter"},
	}, nil)

	investments, err := svc.ListByAccount(ctx, "user@example.com")
	require.NoError(t, err)
	assert.Len(t, investments, 2)
}
