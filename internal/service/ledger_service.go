package service

import (
	"context"
	"fmt"
	"time"

	"invest-ledger/internal/core/domain"
	"invest-ledger/internal/core/ports"
	"invest-ledger/pkg/apperror"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

// LedgerServiceImpl implements ports.LedgerService with pessimistic locking:
// every balance mutation runs inside a database transaction that holds the
// account's row lock.
type LedgerServiceImpl struct {
	accountRepo            ports.AccountRepository
	txRepo                 ports.TransactionRepository
	transactor             ports.DBTransactor
	mirror                 ports.Mirror
	mirrorTimeout          time.Duration
	autoApproveWithdrawals bool
	log                    zerolog.Logger
}

// NewLedgerService creates a new LedgerServiceImpl. mirror may be nil when
// the remote mirror is disabled.
func NewLedgerService(
	accountRepo ports.AccountRepository,
	txRepo ports.TransactionRepository,
	transactor ports.DBTransactor,
	mirror ports.Mirror,
	mirrorTimeout time.Duration,
	autoApproveWithdrawals bool,
	log zerolog.Logger,
) *LedgerServiceImpl {
	return &LedgerServiceImpl{
		accountRepo:            accountRepo,
		txRepo:                 txRepo,
		transactor:             transactor,
		mirror:                 mirror,
		mirrorTimeout:          mirrorTimeout,
		autoApproveWithdrawals: autoApproveWithdrawals,
		log:                    log,
	}
}

// RequestDeposit records a pending deposit. The balance is NOT credited here:
// funds only move when an administrator approves the transaction.
func (s *LedgerServiceImpl) RequestDeposit(ctx context.Context, email string, amount decimal.Decimal, method string) (uuid.UUID, error) {
	if !amount.IsPositive() {
		return uuid.Nil, apperror.ErrInvalidAmount()
	}

	dbTx, err := s.transactor.Begin(ctx)
	if err != nil {
		return uuid.Nil, apperror.InternalError(fmt.Errorf("begin tx: %w", err))
	}
	defer dbTx.Rollback(ctx) //nolint:errcheck

	account, err := s.accountRepo.GetByEmailForUpdate(ctx, dbTx, email)
	if err != nil {
		return uuid.Nil, apperror.InternalError(fmt.Errorf("lock account: %w", err))
	}
	if account == nil {
		return uuid.Nil, apperror.ErrNotFound("account")
	}
	if !account.IsActive() {
		return uuid.Nil, apperror.ErrAccountBlocked()
	}

	txn, err := domain.NewTransaction(email, domain.TransactionDeposit, amount, account.Currency, method)
	if err != nil {
		return uuid.Nil, apperror.ErrInvalidAmount()
	}

	if err := s.txRepo.Create(ctx, dbTx, txn); err != nil {
		return uuid.Nil, apperror.InternalError(fmt.Errorf("create transaction: %w", err))
	}

	if err := dbTx.Commit(ctx); err != nil {
		return uuid.Nil, apperror.InternalError(fmt.Errorf("commit tx: %w", err))
	}

	s.mirrorTransaction(txn)

	s.log.Info().
		Str("tx_id", txn.ID.String()).
		Str("email", txn.AccountEmail).
		Str("amount", amount.String()).
		Msg("deposit requested")

	return txn.ID, nil
}

// RequestWithdrawal reserves funds immediately: the balance is deducted at
// request time so an account can never promise more than it holds. With
// auto-approval on, the transaction settles as completed in the same step.
func (s *LedgerServiceImpl) RequestWithdrawal(ctx context.Context, req ports.WithdrawalRequest) (uuid.UUID, error) {
	if !req.Amount.IsPositive() {
		return uuid.Nil, apperror.ErrInvalidAmount()
	}

	dbTx, err := s.transactor.Begin(ctx)
	if err != nil {
		return uuid.Nil, apperror.InternalError(fmt.Errorf("begin tx: %w", err))
	}
	defer dbTx.Rollback(ctx) //nolint:errcheck

	account, err := s.accountRepo.GetByEmailForUpdate(ctx, dbTx, req.Email)
	if err != nil {
		return uuid.Nil, apperror.InternalError(fmt.Errorf("lock account: %w", err))
	}
	if account == nil {
		return uuid.Nil, apperror.ErrNotFound("account")
	}
	if !account.IsActive() {
		return uuid.Nil, apperror.ErrAccountBlocked()
	}

	// Business rule: sufficient funds
	if !account.CanWithdraw(req.Amount) {
		return uuid.Nil, apperror.ErrInsufficientBalance()
	}

	txn, err := domain.NewTransaction(req.Email, domain.TransactionWithdrawal, req.Amount, account.Currency, req.Method)
	if err != nil {
		return uuid.Nil, apperror.ErrInvalidAmount()
	}
	txn.BankDetails = req.BankDetails
	txn.WalletAddress = req.WalletAddress

	if s.autoApproveWithdrawals {
		now := time.Now().UTC()
		txn.Status = domain.TransactionStatusCompleted
		txn.DecidedAt = &now
	}

	// Persist: deduct balance
	account.Balance = account.Balance.Sub(req.Amount)
	if err := s.accountRepo.UpdateBalance(ctx, dbTx, account.Email, account.Balance); err != nil {
		return uuid.Nil, apperror.InternalError(fmt.Errorf("update balance: %w", err))
	}

	// Persist: create transaction
	if err := s.txRepo.Create(ctx, dbTx, txn); err != nil {
		return uuid.Nil, apperror.InternalError(fmt.Errorf("create transaction: %w", err))
	}

	if err := dbTx.Commit(ctx); err != nil {
		return uuid.Nil, apperror.InternalError(fmt.Errorf("commit tx: %w", err))
	}

	s.mirrorAccount(account)
	s.mirrorTransaction(txn)

	s.log.Info().
		Str("tx_id", txn.ID.String()).
		Str("email", txn.AccountEmail).
		Str("amount", req.Amount.String()).
		Str("status", string(txn.Status)).
		Msg("withdrawal requested")

	return txn.ID, nil
}

// DecideTransaction settles a pending transaction. Transitions are one-way:
// a transaction that already reached completed or rejected cannot move again.
//
//	approve deposit     -> credit balance, mark completed
//	approve withdrawal  -> mark completed (funds reserved at request time)
//	reject deposit      -> mark rejected
//	reject withdrawal   -> refund the reserved funds, mark rejected
func (s *LedgerServiceImpl) DecideTransaction(ctx context.Context, id uuid.UUID, decision domain.Decision) error {
	if decision != domain.DecisionApprove && decision != domain.DecisionReject {
		return apperror.Validation(fmt.Sprintf("unknown decision: %s", decision))
	}

	dbTx, err := s.transactor.Begin(ctx)
	if err != nil {
		return apperror.InternalError(fmt.Errorf("begin tx: %w", err))
	}
	defer dbTx.Rollback(ctx) //nolint:errcheck

	txn, err := s.txRepo.GetByIDForUpdate(ctx, dbTx, id)
	if err != nil {
		return apperror.InternalError(fmt.Errorf("lock transaction: %w", err))
	}
	if txn == nil {
		return apperror.ErrNotFound("transaction")
	}
	if !txn.IsPending() {
		return apperror.ErrInvalidTransition()
	}

	account, err := s.accountRepo.GetByEmailForUpdate(ctx, dbTx, txn.AccountEmail)
	if err != nil {
		return apperror.InternalError(fmt.Errorf("lock account: %w", err))
	}
	if account == nil {
		return apperror.ErrNotFound("account")
	}

	var newStatus domain.TransactionStatus
	balanceChanged := false

	switch decision {
	case domain.DecisionApprove:
		newStatus = domain.TransactionStatusCompleted
		if txn.Direction == domain.TransactionDeposit {
			// Credit exactly once: the pending check above guards replays
			account.Balance = account.Balance.Add(txn.Amount)
			balanceChanged = true
		}
	case domain.DecisionReject:
		newStatus = domain.TransactionStatusRejected
		if txn.Direction == domain.TransactionWithdrawal {
			// Refund the funds reserved at request time
			account.Balance = account.Balance.Add(txn.Amount)
			balanceChanged = true
		}
	}

	if balanceChanged {
		if err := s.accountRepo.UpdateBalance(ctx, dbTx, account.Email, account.Balance); err != nil {
			return apperror.InternalError(fmt.Errorf("update balance: %w", err))
		}
	}

	if err := s.txRepo.UpdateStatus(ctx, dbTx, txn.ID, newStatus); err != nil {
		return apperror.InternalError(fmt.Errorf("update transaction status: %w", err))
	}

	if err := dbTx.Commit(ctx); err != nil {
		return apperror.InternalError(fmt.Errorf("commit tx: %w", err))
	}

	now := time.Now().UTC()
	txn.Status = newStatus
	txn.DecidedAt = &now

	if balanceChanged {
		s.mirrorAccount(account)
	}
	s.mirrorTransaction(txn)

	s.log.Info().
		Str("tx_id", txn.ID.String()).
		Str("email", txn.AccountEmail).
		Str("decision", string(decision)).
		Str("status", string(newStatus)).
		Msg("transaction decided")

	return nil
}

// AdjustBalance applies a signed delta to an account balance. It is an
// administrative override and bypasses the transaction lifecycle.
func (s *LedgerServiceImpl) AdjustBalance(ctx context.Context, email string, amount decimal.Decimal, note string) error {
	if amount.IsZero() {
		return apperror.ErrInvalidAmount()
	}

	dbTx, err := s.transactor.Begin(ctx)
	if err != nil {
		return apperror.InternalError(fmt.Errorf("begin tx: %w", err))
	}
	defer dbTx.Rollback(ctx) //nolint:errcheck

	account, err := s.accountRepo.GetByEmailForUpdate(ctx, dbTx, email)
	if err != nil {
		return apperror.InternalError(fmt.Errorf("lock account: %w", err))
	}
	if account == nil {
		return apperror.ErrNotFound("account")
	}

	newBalance := account.Balance.Add(amount)
	if newBalance.IsNegative() {
		return apperror.ErrInsufficientBalance()
	}

	// The adjustment shows up in the account history as a settled transaction.
	direction := domain.TransactionDeposit
	if amount.IsNegative() {
		direction = domain.TransactionWithdrawal
	}
	method := note
	if method == "" {
		method = "adjustment"
	}
	txn, err := domain.NewTransaction(account.Email, direction, amount.Abs(), account.Currency, method)
	if err != nil {
		return apperror.ErrInvalidAmount()
	}
	now := time.Now().UTC()
	txn.Status = domain.TransactionStatusCompleted
	txn.DecidedAt = &now

	account.Balance = newBalance
	if err := s.accountRepo.UpdateBalance(ctx, dbTx, account.Email, newBalance); err != nil {
		return apperror.InternalError(fmt.Errorf("update balance: %w", err))
	}

	if err := s.txRepo.Create(ctx, dbTx, txn); err != nil {
		return apperror.InternalError(fmt.Errorf("create transaction: %w", err))
	}

	if err := dbTx.Commit(ctx); err != nil {
		return apperror.InternalError(fmt.Errorf("commit tx: %w", err))
	}

	s.mirrorAccount(account)
	s.mirrorTransaction(txn)

	s.log.Info().
		Str("email", account.Email).
		Str("delta", amount.String()).
		Str("new_balance", newBalance.String()).
		Str("note", note).
		Msg("balance adjusted")

	return nil
}

// mirrorAccount writes the account document to the remote mirror after the
// primary commit. Failures are logged and swallowed.
func (s *LedgerServiceImpl) mirrorAccount(account *domain.Account) {
	if s.mirror == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), s.mirrorTimeout)
	defer cancel()

	if err := s.mirror.PutAccount(ctx, account); err != nil {
		s.log.Warn().Err(err).Str("email", account.Email).Msg("mirror account write failed")
	}
}

// mirrorTransaction writes the transaction document to the remote mirror.
func (s *LedgerServiceImpl) mirrorTransaction(txn *domain.Transaction) {
	if s.mirror == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), s.mirrorTimeout)
	defer cancel()

	if err := s.mirror.PutTransaction(ctx, txn); err != nil {
		s.log.Warn().Err(err).Str("tx_id", txn.ID.String()).Msg("mirror transaction write failed")
	}
}
