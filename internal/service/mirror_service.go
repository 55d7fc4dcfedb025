package service

import (
	"context"
	"fmt"
	"time"

	"invest-ledger/internal/core/domain"
	"invest-ledger/internal/core/ports"
	"invest-ledger/pkg/apperror"

	"github.com/rs/zerolog"
)

// MirrorSyncServiceImpl implements ports.MirrorSyncService.
type MirrorSyncServiceImpl struct {
	accountRepo ports.AccountRepository
	mirror      ports.Mirror
	timeout     time.Duration
	log         zerolog.Logger
}

// NewMirrorSyncService creates a new MirrorSyncServiceImpl.
func NewMirrorSyncService(
	accountRepo ports.AccountRepository,
	mirror ports.Mirror,
	timeout time.Duration,
	log zerolog.Logger,
) *MirrorSyncServiceImpl {
	return &MirrorSyncServiceImpl{
		accountRepo: accountRepo,
		mirror:      mirror,
		timeout:     timeout,
		log:         log,
	}
}

// Migrate sweeps every primary account into the mirror. Accounts already
// present are skipped, so repeated sweeps are idempotent; individual write
// failures are counted but never abort the sweep.
func (s *MirrorSyncServiceImpl) Migrate(ctx context.Context) (*domain.MigrationReport, error) {
	if s.mirror == nil {
		return nil, apperror.Validation("remote mirror is disabled")
	}

	accounts, err := s.accountRepo.GetAll(ctx)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("list accounts: %w", err))
	}

	report := &domain.MigrationReport{}
	for i := range accounts {
		account := &accounts[i]

		if err := s.migrateOne(ctx, account, report); err != nil {
			report.Failed++
			s.log.Warn().Err(err).Str("email", account.Email).Msg("account migration failed")
		}
	}

	s.log.Info().
		Int("migrated", report.Migrated).
		Int("skipped", report.Skipped).
		Int("failed", report.Failed).
		Msg("mirror migration sweep finished")

	return report, nil
}

// migrateOne copies a single account unless the mirror already holds it.
// Each mirror call gets its own bounded context.
func (s *MirrorSyncServiceImpl) migrateOne(ctx context.Context, account *domain.Account, report *domain.MigrationReport) error {
	callCtx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	exists, err := s.mirror.AccountExists(callCtx, account.Email)
	if err != nil {
		return fmt.Errorf("check mirror: %w", err)
	}
	if exists {
		report.Skipped++
		return nil
	}

	putCtx, putCancel := context.WithTimeout(ctx, s.timeout)
	defer putCancel()

	if err := s.mirror.PutAccount(putCtx, account); err != nil {
		return fmt.Errorf("put account: %w", err)
	}

	report.Migrated++
	return nil
}
