package postgres

import (
	"context"
	"testing"
	"time"

	"invest-ledger/internal/core/domain"
	"invest-ledger/internal/core/ports"

	"github.com/google/uuid"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestTransaction() *domain.Transaction {
	return &domain.Transaction{
		ID:           uuid.New(),
		AccountEmail: "user@example.com",
		Direction:    domain.TransactionDeposit,
		Amount:       decimal.NewFromInt(1000),
		Currency:     "EUR",
		Status:       domain.TransactionStatusPending,
		Method:       "bank_transfer",
		CreatedAt:    time.Now().UTC().Truncate(time.Microsecond),
	}
}

func transactionColumnNames() []string {
	return []string{"id", "account_email", "direction", "amount", "currency", "status", "method", "bank_details", "wallet_address", "created_at", "decided_at"}
}

func transactionRow(t *domain.Transaction) *pgxmock.Rows {
	return pgxmock.NewRows(transactionColumnNames()).AddRow(
		t.ID, t.AccountEmail, t.Direction, t.Amount, t.Currency,
		t.Status, t.Method, t.BankDetails, t.WalletAddress,
		t.CreatedAt, t.DecidedAt,
	)
}

func TestTransactionRepo_Create(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewTransactionRepo(mock)
	txn := newTestTransaction()

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO transactions").
		WithArgs(txn.ID, txn.AccountEmail, txn.Direction, txn.Amount, txn.Currency,
			txn.Status, txn.Method, txn.BankDetails, txn.WalletAddress,
			txn.CreatedAt, txn.DecidedAt).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	tx, err := mock.Begin(context.Background())
	require.NoError(t, err)

	err = repo.Create(context.Background(), tx, txn)
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTransactionRepo_GetByID(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewTransactionRepo(mock)
	txn := newTestTransaction()

	mock.ExpectQuery("SELECT .+ FROM transactions WHERE id").
		WithArgs(txn.ID).
		WillReturnRows(transactionRow(txn))

	result, err := repo.GetByID(context.Background(), txn.ID)
	require.NoError(t, err)
	require.NotNil(t, result)
	assert.Equal(t, txn.ID, result.ID)
	assert.True(t, txn.Amount.Equal(result.Amount))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTransactionRepo_GetByID_NotFound(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewTransactionRepo(mock)

	mock.ExpectQuery("SELECT .+ FROM transactions WHERE id").
		WithArgs(pgxmock.AnyArg()).
		WillReturnRows(pgxmock.NewRows(transactionColumnNames()))

	result, err := repo.GetByID(context.Background(), uuid.New())
	assert.NoError(t, err)
	assert.Nil(t, result)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTransactionRepo_GetByIDForUpdate(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewTransactionRepo(mock)
	txn := newTestTransaction()

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT .+ FROM transactions WHERE id = \$1 FOR UPDATE`).
		WithArgs(txn.ID).
		WillReturnRows(transactionRow(txn))

	tx, err := mock.Begin(context.Background())
	require.NoError(t, err)

	result, err := repo.GetByIDForUpdate(context.Background(), tx, txn.ID)
	require.NoError(t, err)
	require.NotNil(t, result)
	assert.Equal(t, txn.ID, result.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTransactionRepo_UpdateStatus(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewTransactionRepo(mock)
	id := uuid.New()

	mock.ExpectBegin()
	mock.ExpectExec("UPDATE transactions SET status").
		WithArgs(domain.TransactionStatusCompleted, id).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))

	tx, err := mock.Begin(context.Background())
	require.NoError(t, err)

	err = repo.UpdateStatus(context.Background(), tx, id, domain.TransactionStatusCompleted)
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTransactionRepo_UpdateStatus_NotFound(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewTransactionRepo(mock)

	mock.ExpectBegin()
	mock.ExpectExec("UPDATE transactions SET status").
		WithArgs(pgxmock.AnyArg(), pgxmock.AnyArg()).
		WillReturnResult(pgxmock.NewResult("UPDATE", 0))

	tx, err := mock.Begin(context.Background())
	require.NoError(t, err)

	err = repo.UpdateStatus(context.Background(), tx, uuid.New(), domain.TransactionStatusRejected)
	assert.Error(t, err)
}

func TestTransactionRepo_ListByAccount(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewTransactionRepo(mock)
	a := newTestTransaction()
	b := newTestTransaction()
	b.Direction = domain.TransactionWithdrawal

	rows := pgxmock.NewRows(transactionColumnNames()).
		AddRow(a.ID, a.AccountEmail, a.Direction, a.Amount, a.Currency,
			a.Status, a.Method, a.BankDetails, a.WalletAddress, a.CreatedAt, a.DecidedAt).
		AddRow(b.ID, b.AccountEmail, b.Direction, b.Amount, b.Currency,
			b.Status, b.Method, b.BankDetails, b.WalletAddress, b.CreatedAt, b.DecidedAt)

	mock.ExpectQuery("SELECT .+ FROM transactions").
		WithArgs("user@example.com").
		WillReturnRows(rows)

	txns, err := repo.ListByAccount(context.Background(), "user@example.com")
	require.NoError(t, err)
	require.Len(t, txns, 2)
	assert.Equal(t, domain.TransactionWithdrawal, txns[1].Direction)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTransactionRepo_List_WithFilters(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewTransactionRepo(mock)
	txn := newTestTransaction()

	status := domain.TransactionStatusPending
	params := ports.TransactionListParams{
		Status:   &status,
		Page:     1,
		PageSize: 20,
	}

	mock.ExpectQuery(`SELECT COUNT\(\*\) FROM transactions`).
		WithArgs(status).
		WillReturnRows(pgxmock.NewRows([]string{"count"}).AddRow(int64(1)))
	mock.ExpectQuery("SELECT .+ FROM transactions WHERE status").
		WithArgs(status, 20, 0).
		WillReturnRows(transactionRow(txn))

	txns, total, err := repo.List(context.Background(), params)
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	require.Len(t, txns, 1)
	assert.Equal(t, txn.ID, txns[0].ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTransactionRepo_GetStats(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewTransactionRepo(mock)

	rows := pgxmock.NewRows([]string{"total", "pending", "completed", "rejected", "pending_deposits", "completed_deposits", "completed_outflows"}).
		AddRow(int64(10), int64(3), int64(5), int64(2),
			decimal.NewFromInt(1500), decimal.NewFromInt(9000), decimal.NewFromInt(400))

	mock.ExpectQuery("SELECT").
		WillReturnRows(rows)

	stats, err := repo.GetStats(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(10), stats.TotalTransactions)
	assert.Equal(t, int64(3), stats.Pending)
	assert.True(t, stats.CompletedDeposits.Equal(decimal.NewFromInt(9000)))
	assert.NoError(t, mock.ExpectationsWereMet())
}
