package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"invest-ledger/internal/core/domain"
	"invest-ledger/internal/core/ports"
	"invest-ledger/pkg/apperror"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

// AccountServiceImpl implements ports.AccountService.
type AccountServiceImpl struct {
	accountRepo     ports.AccountRepository
	hashSvc         ports.HashService
	mirror          ports.Mirror
	mirrorTimeout   time.Duration
	startingBalance decimal.Decimal
	currency        string
	log             zerolog.Logger
}

// NewAccountService creates a new AccountServiceImpl. mirror may be nil when
// the remote mirror is disabled.
func NewAccountService(
	accountRepo ports.AccountRepository,
	hashSvc ports.HashService,
	mirror ports.Mirror,
	mirrorTimeout time.Duration,
	startingBalance decimal.Decimal,
	currency string,
	log zerolog.Logger,
) *AccountServiceImpl {
	return &AccountServiceImpl{
		accountRepo:     accountRepo,
		hashSvc:         hashSvc,
		mirror:          mirror,
		mirrorTimeout:   mirrorTimeout,
		startingBalance: startingBalance,
		currency:        currency,
		log:             log,
	}
}

// Register creates a new account with the configured starting balance.
func (s *AccountServiceImpl) Register(ctx context.Context, req ports.RegisterRequest) (*domain.Account, error) {
	// Check email uniqueness (case-insensitive)
	existing, err := s.accountRepo.GetByEmail(ctx, req.Email)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("check email: %w", err))
	}
	if existing != nil {
		return nil, apperror.ErrDuplicateAccount()
	}

	// Hash credential with Argon2id
	credentialHash, err := s.hashSvc.Hash(req.Credential)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("hash credential: %w", err))
	}

	account, err := domain.NewAccount(req.Email, req.Name, credentialHash, s.startingBalance, s.currency)
	if err != nil {
		return nil, apperror.Validation(err.Error())
	}
	account.Country = req.Country
	account.Phone = req.Phone

	if err := s.accountRepo.Create(ctx, account); err != nil {
		// The unique index catches registrations that raced past the
		// existence check above.
		if errors.Is(err, domain.ErrDuplicateEmail) {
			return nil, apperror.ErrDuplicateAccount()
		}
		return nil, apperror.InternalError(fmt.Errorf("create account: %w", err))
	}

	// Post-process: mirror the new account (best-effort)
	s.mirrorAccount(account)

	s.log.Info().
		Str("email", account.Email).
		Str("starting_balance", account.Balance.String()).
		Msg("account registered")

	return account, nil
}

// Authenticate validates credentials and returns the account. The caller is
// responsible for token generation.
func (s *AccountServiceImpl) Authenticate(ctx context.Context, email, credential string) (*domain.Account, error) {
	account, err := s.accountRepo.GetByEmail(ctx, email)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("find account: %w", err))
	}
	if account == nil {
		return nil, apperror.ErrNotFound("account")
	}

	valid, err := s.hashSvc.Verify(credential, account.PasswordHash)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("verify credential: %w", err))
	}
	if !valid {
		return nil, apperror.ErrInvalidCredential()
	}

	if !account.IsActive() {
		return nil, apperror.ErrAccountBlocked()
	}

	return account, nil
}

// UpdateStatus blocks or unblocks an account.
func (s *AccountServiceImpl) UpdateStatus(ctx context.Context, email string, status domain.AccountStatus) error {
	if !domain.ValidAccountStatus(status) {
		return apperror.Validation(fmt.Sprintf("unknown account status: %s", status))
	}

	account, err := s.accountRepo.GetByEmail(ctx, email)
	if err != nil {
		return apperror.InternalError(fmt.Errorf("find account: %w", err))
	}
	if account == nil {
		return apperror.ErrNotFound("account")
	}

	if err := s.accountRepo.UpdateStatus(ctx, email, status); err != nil {
		return apperror.InternalError(fmt.Errorf("update account status: %w", err))
	}

	account.Status = status
	s.mirrorAccount(account)

	s.log.Info().
		Str("email", account.Email).
		Str("status", string(status)).
		Msg("account status updated")

	return nil
}

// GetByEmail fetches a single account.
func (s *AccountServiceImpl) GetByEmail(ctx context.Context, email string) (*domain.Account, error) {
	account, err := s.accountRepo.GetByEmail(ctx, email)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("find account: %w", err))
	}
	if account == nil {
		return nil, apperror.ErrNotFound("account")
	}
	return account, nil
}

// ListAccounts fetches every account for the admin view.
func (s *AccountServiceImpl) ListAccounts(ctx context.Context) ([]domain.Account, error) {
	accounts, err := s.accountRepo.GetAll(ctx)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("list accounts: %w", err))
	}
	return accounts, nil
}

// mirrorAccount writes the account document to the remote mirror. Failures
// are logged and swallowed: the mirror is never authoritative. A fresh
// bounded context keeps a slow mirror from stalling the caller, and keeps
// the write alive past request cancellation.
func (s *AccountServiceImpl) mirrorAccount(account *domain.Account) {
	if s.mirror == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), s.mirrorTimeout)
	defer cancel()

	if err := s.mirror.PutAccount(ctx, account); err != nil {
		s.log.Warn().Err(err).Str("email", account.Email).Msg("mirror account write failed")
	}
}
