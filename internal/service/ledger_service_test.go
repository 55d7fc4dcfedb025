package service

import (
	"context"
	"testing"
	"time"

	"invest-ledger/internal/core/domain"
	"invest-ledger/internal/core/ports"
	"invest-ledger/internal/core/ports/mocks"
	"invest-ledger/pkg/apperror"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

type ledgerTestDeps struct {
	svc         *LedgerServiceImpl
	accountRepo *mocks.MockAccountRepository
	txRepo      *mocks.MockTransactionRepository
	transactor  *mocks.MockDBTransactor
	mirror      *mocks.MockMirror
	ctrl        *gomock.Controller
}

func setupLedgerService(t *testing.T, autoApproveWithdrawals bool) *ledgerTestDeps {
	ctrl := gomock.NewController(t)
	d := &ledgerTestDeps{
		accountRepo: mocks.NewMockAccountRepository(ctrl),
		txRepo:      mocks.NewMockTransactionRepository(ctrl),
		transactor:  mocks.NewMockDBTransactor(ctrl),
		mirror:      mocks.NewMockMirror(ctrl),
		ctrl:        ctrl,
	}
	d.svc = NewLedgerService(
		d.accountRepo, d.txRepo, d.transactor,
		d.mirror, time.Second, autoApproveWithdrawals, zerolog.Nop(),
	)
	return d
}

// mockTx implements pgx.Tx for testing
type mockTx struct{ pgx.Tx }

func (m *mockTx) Rollback(_ context.Context) error { return nil }
func (m *mockTx) Commit(_ context.Context) error   { return nil }

func activeAccount(balance int64) *domain.Account {
	return &domain.Account{
		Email:    "user@example.com",
		Name:     "Test User",
		Balance:  decimal.NewFromInt(balance),
		Currency: "EUR",
		Status:   domain.AccountStatusActive,
	}
}

// ==================== RequestDeposit Tests ====================

func TestLedgerService_RequestDeposit_Pending(t *testing.T) {
	d := setupLedgerService(t, true)
	defer d.ctrl.Finish()

	ctx := context.Background()
	tx := &mockTx{}

	d.transactor.EXPECT().Begin(ctx).Return(tx, nil)
	d.accountRepo.EXPECT().GetByEmailForUpdate(ctx, tx, "user@example.com").Return(activeAccount(5500000), nil)
	// The balance must NOT be touched: deposits credit on approval only
	d.txRepo.EXPECT().Create(ctx, tx, gomock.Any()).DoAndReturn(
		func(_ context.Context, _ pgx.Tx, txn *domain.Transaction) error {
			assert.Equal(t, domain.TransactionDeposit, txn.Direction)
			assert.Equal(t, domain.TransactionStatusPending, txn.Status)
			assert.True(t, txn.Amount.Equal(decimal.NewFromInt(1000)))
			return nil
		})
	d.mirror.EXPECT().PutTransaction(gomock.Any(), gomock.Any()).Return(nil)

	id, err := d.svc.RequestDeposit(ctx, "user@example.com", decimal.NewFromInt(1000), "bank_transfer")
	require.NoError(t, err)
	assert.NotEqual(t, uuid.Nil, id)
}

func TestLedgerService_RequestDeposit_InvalidAmount(t *testing.T) {
	d := setupLedgerService(t, true)
	defer d.ctrl.Finish()

	_, err := d.svc.RequestDeposit(context.Background(), "user@example.com", decimal.Zero, "bank_transfer")
	assertAppError(t, err, "LED_001")

	_, err = d.svc.RequestDeposit(context.Background(), "user@example.com", decimal.NewFromInt(-50), "bank_transfer")
	assertAppError(t, err, "LED_001")
}

func TestLedgerService_RequestDeposit_AccountNotFound(t *testing.T) {
	d := setupLedgerService(t, true)
	defer d.ctrl.Finish()

	ctx := context.Background()
	tx := &mockTx{}

	d.transactor.EXPECT().Begin(ctx).Return(tx, nil)
	d.accountRepo.EXPECT().GetByEmailForUpdate(ctx, tx, "missing@example.com").Return(nil, nil)

	_, err := d.svc.RequestDeposit(ctx, "missing@example.com", decimal.NewFromInt(1000), "bank_transfer")
	assertAppError(t, err, "ACC_002")
}

func TestLedgerService_RequestDeposit_BlockedAccount(t *testing.T) {
	d := setupLedgerService(t, true)
	defer d.ctrl.Finish()

	ctx := context.Background()
	tx := &mockTx{}
	account := activeAccount(100)
	account.Status = domain.AccountStatusBlocked

	d.transactor.EXPECT().Begin(ctx).Return(tx, nil)
	d.accountRepo.EXPECT().GetByEmailForUpdate(ctx, tx, "user@example.com").Return(account, nil)

	_, err := d.svc.RequestDeposit(ctx, "user@example.com", decimal.NewFromInt(1000), "bank_transfer")
	assertAppError(t, err, "ACC_003")
}

// ==================== RequestWithdrawal Tests ====================

func TestLedgerService_RequestWithdrawal_AutoApproved(t *testing.T) {
	d := setupLedgerService(t, true)
	defer d.ctrl.Finish()

	ctx := context.Background()
	tx := &mockTx{}

	req := ports.WithdrawalRequest{
		Email:  "user@example.com",
		Amount: decimal.NewFromInt(1000),
		Method: "bank_transfer",
		BankDetails: &domain.BankDetails{
			AccountName:   "Test User",
			BankName:      "Test Bank",
			AccountNumber: "DE000123",
		},
	}

	d.transactor.EXPECT().Begin(ctx).Return(tx, nil)
	d.accountRepo.EXPECT().GetByEmailForUpdate(ctx, tx, "user@example.com").Return(activeAccount(5500000), nil)
	// Funds are reserved immediately: 5500000 - 1000 = 5499000
	d.accountRepo.EXPECT().UpdateBalance(ctx, tx, "user@example.com", decimal.NewFromInt(5499000)).Return(nil)
	d.txRepo.EXPECT().Create(ctx, tx, gomock.Any()).DoAndReturn(
		func(_ context.Context, _ pgx.Tx, txn *domain.Transaction) error {
			assert.Equal(t, domain.TransactionWithdrawal, txn.Direction)
			assert.Equal(t, domain.TransactionStatusCompleted, txn.Status)
			assert.NotNil(t, txn.DecidedAt)
			assert.NotNil(t, txn.BankDetails)
			return nil
		})
	d.mirror.EXPECT().PutAccount(gomock.Any(), gomock.Any()).Return(nil)
	d.mirror.EXPECT().PutTransaction(gomock.Any(), gomock.Any()).Return(nil)

	id, err := d.svc.RequestWithdrawal(ctx, req)
	require.NoError(t, err)
	assert.NotEqual(t, uuid.Nil, id)
}

func TestLedgerService_RequestWithdrawal_Pending(t *testing.T) {
	d := setupLedgerService(t, false)
	defer d.ctrl.Finish()

	ctx := context.Background()
	tx := &mockTx{}

	req := ports.WithdrawalRequest{
		Email:  "user@example.com",
		Amount: decimal.NewFromInt(100),
		Method: "crypto",
	}

	d.transactor.EXPECT().Begin(ctx).Return(tx, nil)
	d.accountRepo.EXPECT().GetByEmailForUpdate(ctx, tx, "user@example.com").Return(activeAccount(500), nil)
	// Funds are still reserved even while the request waits for a decision
	d.accountRepo.EXPECT().UpdateBalance(ctx, tx, "user@example.com", decimal.NewFromInt(400)).Return(nil)
	d.txRepo.EXPECT().Create(ctx, tx, gomock.Any()).DoAndReturn(
		func(_ context.Context, _ pgx.Tx, txn *domain.Transaction) error {
			assert.Equal(t, domain.TransactionStatusPending, txn.Status)
			assert.Nil(t, txn.DecidedAt)
			return nil
		})
	d.mirror.EXPECT().PutAccount(gomock.Any(), gomock.Any()).Return(nil)
	d.mirror.EXPECT().PutTransaction(gomock.Any(), gomock.Any()).Return(nil)

	_, err := d.svc.RequestWithdrawal(ctx, req)
	require.NoError(t, err)
}

func TestLedgerService_RequestWithdrawal_InsufficientBalance(t *testing.T) {
	d := setupLedgerService(t, true)
	defer d.ctrl.Finish()

	ctx := context.Background()
	tx := &mockTx{}

	req := ports.WithdrawalRequest{
		Email:  "user@example.com",
		Amount: decimal.NewFromInt(1000),
		Method: "bank_transfer",
	}

	d.transactor.EXPECT().Begin(ctx).Return(tx, nil)
	d.accountRepo.EXPECT().GetByEmailForUpdate(ctx, tx, "user@example.com").Return(activeAccount(999), nil)

	_, err := d.svc.RequestWithdrawal(ctx, req)
	assertAppError(t, err, "LED_002")
}

func TestLedgerService_RequestWithdrawal_ExactBalance(t *testing.T) {
	d := setupLedgerService(t, true)
	defer d.ctrl.Finish()

	ctx := context.Background()
	tx := &mockTx{}

	req := ports.WithdrawalRequest{
		Email:  "user@example.com",
		Amount: decimal.NewFromInt(1000),
		Method: "bank_transfer",
	}

	d.transactor.EXPECT().Begin(ctx).Return(tx, nil)
	d.accountRepo.EXPECT().GetByEmailForUpdate(ctx, tx, "user@example.com").Return(activeAccount(1000), nil)
	// Withdrawing the full balance is allowed and drains the account to zero
	d.accountRepo.EXPECT().UpdateBalance(ctx, tx, "user@example.com", decimal.NewFromInt(1000).Sub(decimal.NewFromInt(1000))).Return(nil)
	d.txRepo.EXPECT().Create(ctx, tx, gomock.Any()).Return(nil)
	d.mirror.EXPECT().PutAccount(gomock.Any(), gomock.Any()).Return(nil)
	d.mirror.EXPECT().PutTransaction(gomock.Any(), gomock.Any()).Return(nil)

	_, err := d.svc.RequestWithdrawal(ctx, req)
	require.NoError(t, err)
}

// ==================== DecideTransaction Tests ====================

func TestLedgerService_DecideTransaction_ApproveDeposit(t *testing.T) {
	d := setupLedgerService(t, true)
	defer d.ctrl.Finish()

	ctx := context.Background()
	tx := &mockTx{}
	txID := uuid.New()

	pending := &domain.Transaction{
		ID:           txID,
		AccountEmail: "user@example.com",
		Direction:    domain.TransactionDeposit,
		Amount:       decimal.NewFromInt(1000),
		Status:       domain.TransactionStatusPending,
	}

	d.transactor.EXPECT().Begin(ctx).Return(tx, nil)
	d.txRepo.EXPECT().GetByIDForUpdate(ctx, tx, txID).Return(pending, nil)
	d.accountRepo.EXPECT().GetByEmailForUpdate(ctx, tx, "user@example.com").Return(activeAccount(5500000), nil)
	// Approval credits the deposit: 5500000 + 1000
	d.accountRepo.EXPECT().UpdateBalance(ctx, tx, "user@example.com", decimal.NewFromInt(5501000)).Return(nil)
	d.txRepo.EXPECT().UpdateStatus(ctx, tx, txID, domain.TransactionStatusCompleted).Return(nil)
	d.mirror.EXPECT().PutAccount(gomock.Any(), gomock.Any()).Return(nil)
	d.mirror.EXPECT().PutTransaction(gomock.Any(), gomock.Any()).Return(nil)

	err := d.svc.DecideTransaction(ctx, txID, domain.DecisionApprove)
	require.NoError(t, err)
}

func TestLedgerService_DecideTransaction_RejectDeposit(t *testing.T) {
	d := setupLedgerService(t, true)
	defer d.ctrl.Finish()

	ctx := context.Background()
	tx := &mockTx{}
	txID := uuid.New()

	pending := &domain.Transaction{
		ID:           txID,
		AccountEmail: "user@example.com",
		Direction:    domain.TransactionDeposit,
		Amount:       decimal.NewFromInt(1000),
		Status:       domain.TransactionStatusPending,
	}

	d.transactor.EXPECT().Begin(ctx).Return(tx, nil)
	d.txRepo.EXPECT().GetByIDForUpdate(ctx, tx, txID).Return(pending, nil)
	d.accountRepo.EXPECT().GetByEmailForUpdate(ctx, tx, "user@example.com").Return(activeAccount(5500000), nil)
	// No balance change: the deposit was never credited
	d.txRepo.EXPECT().UpdateStatus(ctx, tx, txID, domain.TransactionStatusRejected).Return(nil)
	d.mirror.EXPECT().PutTransaction(gomock.Any(), gomock.Any()).Return(nil)

	err := d.svc.DecideTransaction(ctx, txID, domain.DecisionReject)
	require.NoError(t, err)
}

func TestLedgerService_DecideTransaction_ApproveWithdrawal(t *testing.T) {
	d := setupLedgerService(t, false)
	defer d.ctrl.Finish()

	ctx := context.Background()
	tx := &mockTx{}
	txID := uuid.New()

	pending := &domain.Transaction{
		ID:           txID,
		AccountEmail: "user@example.com",
		Direction:    domain.TransactionWithdrawal,
		Amount:       decimal.NewFromInt(1000),
		Status:       domain.TransactionStatusPending,
	}

	d.transactor.EXPECT().Begin(ctx).Return(tx, nil)
	d.txRepo.EXPECT().GetByIDForUpdate(ctx, tx, txID).Return(pending, nil)
	d.accountRepo.EXPECT().GetByEmailForUpdate(ctx, tx, "user@example.com").Return(activeAccount(4000), nil)
	// No balance change: funds were already reserved at request time
	d.txRepo.EXPECT().UpdateStatus(ctx, tx, txID, domain.TransactionStatusCompleted).Return(nil)
	d.mirror.EXPECT().PutTransaction(gomock.Any(), gomock.Any()).Return(nil)

	err := d.svc.DecideTransaction(ctx, txID, domain.DecisionApprove)
	require.NoError(t, err)
}

func TestLedgerService_DecideTransaction_RejectWithdrawal_Refunds(t *testing.T) {
	d := setupLedgerService(t, false)
	defer d.ctrl.Finish()

	ctx := context.Background()
	tx := &mockTx{}
	txID := uuid.New()

	pending := &domain.Transaction{
		ID:           txID,
		AccountEmail: "user@example.com",
		Direction:    domain.TransactionWithdrawal,
		Amount:       decimal.NewFromInt(1000),
		Status:       domain.TransactionStatusPending,
	}

	d.transactor.EXPECT().Begin(ctx).Return(tx, nil)
	d.txRepo.EXPECT().GetByIDForUpdate(ctx, tx, txID).Return(pending, nil)
	d.accountRepo.EXPECT().GetByEmailForUpdate(ctx, tx, "user@example.com").Return(activeAccount(4000), nil)
	// Rejection refunds the reserved funds: 4000 + 1000
	d.accountRepo.EXPECT().UpdateBalance(ctx, tx, "user@example.com", decimal.NewFromInt(5000)).Return(nil)
	d.txRepo.EXPECT().UpdateStatus(ctx, tx, txID, domain.TransactionStatusRejected).Return(nil)
	d.mirror.EXPECT().PutAccount(gomock.Any(), gomock.Any()).Return(nil)
	d.mirror.EXPECT().PutTransaction(gomock.Any(), gomock.Any()).Return(nil)

	err := d.svc.DecideTransaction(ctx, txID, domain.DecisionReject)
	require.NoError(t, err)
}

func TestLedgerService_DecideTransaction_AlreadyDecided(t *testing.T) {
	d := setupLedgerService(t, true)
	defer d.ctrl.Finish()

	ctx := context.Background()
	tx := &mockTx{}
	txID := uuid.New()

	settled := &domain.Transaction{
		ID:           txID,
		AccountEmail: "user@example.com",
		Direction:    domain.TransactionDeposit,
		Amount:       decimal.NewFromInt(1000),
		Status:       domain.TransactionStatusCompleted,
	}

	d.transactor.EXPECT().Begin(ctx).Return(tx, nil)
	d.txRepo.EXPECT().GetByIDForUpdate(ctx, tx, txID).Return(settled, nil)

	// A second approval must not credit the balance again
	err := d.svc.DecideTransaction(ctx, txID, domain.DecisionApprove)
	assertAppError(t, err, "LED_003")
}

func TestLedgerService_DecideTransaction_NotFound(t *testing.T) {
	d := setupLedgerService(t, true)
	defer d.ctrl.Finish()

	ctx := context.Background()
	tx := &mockTx{}
	txID := uuid.New()

	d.transactor.EXPECT().Begin(ctx).Return(tx, nil)
	d.txRepo.EXPECT().GetByIDForUpdate(ctx, tx, txID).Return(nil, nil)

	err := d.svc.DecideTransaction(ctx, txID, domain.DecisionApprove)
	assertAppError(t, err, "ACC_002")
}

func TestLedgerService_DecideTransaction_UnknownDecision(t *testing.T) {
	d := setupLedgerService(t, true)
	defer d.ctrl.Finish()

	err := d.svc.DecideTransaction(context.Background(), uuid.New(), domain.Decision("maybe"))
	assertAppError(t, err, "REQ_001")
}

// ==================== AdjustBalance Tests ====================

func TestLedgerService_AdjustBalance_Credit(t *testing.T) {
	d := setupLedgerService(t, true)
	defer d.ctrl.Finish()

	ctx := context.Background()
	tx := &mockTx{}

	d.transactor.EXPECT().Begin(ctx).Return(tx, nil)
	d.accountRepo.EXPECT().GetByEmailForUpdate(ctx, tx, "user@example.com").Return(activeAccount(100), nil)
	d.accountRepo.EXPECT().UpdateBalance(ctx, tx, "user@example.com", decimal.NewFromInt(600)).Return(nil)
	d.txRepo.EXPECT().Create(ctx, tx, gomock.Any()).DoAndReturn(
		func(_ context.Context, _ pgx.Tx, txn *domain.Transaction) error {
			assert.Equal(t, domain.TransactionDeposit, txn.Direction)
			assert.Equal(t, domain.TransactionStatusCompleted, txn.Status)
			assert.True(t, txn.Amount.Equal(decimal.NewFromInt(500)))
			assert.Equal(t, "bonus credit", txn.Method)
			return nil
		})
	d.mirror.EXPECT().PutAccount(gomock.Any(), gomock.Any()).Return(nil)
	d.mirror.EXPECT().PutTransaction(gomock.Any(), gomock.Any()).Return(nil)

	err := d.svc.AdjustBalance(ctx, "user@example.com", decimal.NewFromInt(500), "bonus credit")
	require.NoError(t, err)
}

func TestLedgerService_AdjustBalance_DebitBelowZero(t *testing.T) {
	d := setupLedgerService(t, true)
	defer d.ctrl.Finish()

	ctx := context.Background()
	tx := &mockTx{}

	d.transactor.EXPECT().Begin(ctx).Return(tx, nil)
	d.accountRepo.EXPECT().GetByEmailForUpdate(ctx, tx, "user@example.com").Return(activeAccount(100), nil)

	err := d.svc.AdjustBalance(ctx, "user@example.com", decimal.NewFromInt(-500), "correction")
	assertAppError(t, err, "LED_002")
}

func TestLedgerService_AdjustBalance_ZeroAmount(t *testing.T) {
	d := setupLedgerService(t, true)
	defer d.ctrl.Finish()

	err := d.svc.AdjustBalance(context.Background(), "user@example.com", decimal.Zero, "noop")
	assertAppError(t, err, "LED_001")
}

// ==================== Mirror Failure Tests ====================

func TestLedgerService_MirrorFailureDoesNotFailRequest(t *testing.T) {
	d := setupLedgerService(t, true)
	defer d.ctrl.Finish()

	ctx := context.Background()
	tx := &mockTx{}

	d.transactor.EXPECT().Begin(ctx).Return(tx, nil)
	d.accountRepo.EXPECT().GetByEmailForUpdate(ctx, tx, "user@example.com").Return(activeAccount(5500000), nil)
	d.txRepo.EXPECT().Create(ctx, tx, gomock.Any()).Return(nil)
	d.mirror.EXPECT().PutTransaction(gomock.Any(), gomock.Any()).Return(assert.AnError)

	// The primary write committed; a failing mirror must be swallowed
	_, err := d.svc.RequestDeposit(ctx, "user@example.com", decimal.NewFromInt(1000), "bank_transfer")
	require.NoError(t, err)
}

// ==================== Helper ====================

func assertAppError(t *testing.T, err error, expectedCode string) {
	t.Helper()
	var appErr *apperror.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, expectedCode, appErr.Code)
}
