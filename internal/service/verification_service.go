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

// VerificationServiceImpl implements ports.VerificationService.
type VerificationServiceImpl struct {
	accountRepo      ports.AccountRepository
	verificationRepo ports.VerificationRepository
	autoApprove      bool
	log              zerolog.Logger
}

// NewVerificationService creates a new VerificationServiceImpl.
func NewVerificationService(
	accountRepo ports.AccountRepository,
	verificationRepo ports.VerificationRepository,
	autoApprove bool,
	log zerolog.Logger,
) *VerificationServiceImpl {
	return &VerificationServiceImpl{
		accountRepo:      accountRepo,
		verificationRepo: verificationRepo,
		autoApprove:      autoApprove,
		log:              log,
	}
}

// Submit records an identity-verification request. With auto-approval on,
// the request is settled and the account flagged verified in the same call.
func (s *VerificationServiceImpl) Submit(ctx context.Context, email, documentType string, documentNumber, country *string) (uuid.UUID, error) {
	account, err := s.accountRepo.GetByEmail(ctx, email)
	if err != nil {
		return uuid.Nil, apperror.InternalError(fmt.Errorf("find account: %w", err))
	}
	if account == nil {
		return uuid.Nil, apperror.ErrNotFound("account")
	}
	if !account.IsActive() {
		return uuid.Nil, apperror.ErrAccountBlocked()
	}

	verification, err := domain.NewVerification(email, documentType)
	if err != nil {
		return uuid.Nil, apperror.Validation(err.Error())
	}
	verification.DocumentNumber = documentNumber
	verification.Country = country

	if err := s.verificationRepo.Create(ctx, verification); err != nil {
		return uuid.Nil, apperror.InternalError(fmt.Errorf("create verification: %w", err))
	}

	if s.autoApprove {
		if err := s.approve(ctx, verification.ID, verification.AccountEmail, nil); err != nil {
			return uuid.Nil, err
		}
	}

	s.log.Info().
		Str("verification_id", verification.ID.String()).
		Str("email", verification.AccountEmail).
		Str("document_type", verification.DocumentType).
		Bool("auto_approved", s.autoApprove).
		Msg("verification submitted")

	return verification.ID, nil
}

// Decide settles a pending verification. Approval flips the owning account's
// verified flag; a settled verification cannot be decided again.
func (s *VerificationServiceImpl) Decide(ctx context.Context, id uuid.UUID, decision domain.Decision, notes *string) error {
	if decision != domain.DecisionApprove && decision != domain.DecisionReject {
		return apperror.Validation(fmt.Sprintf("unknown decision: %s", decision))
	}

	verification, err := s.verificationRepo.GetByID(ctx, id)
	if err != nil {
		return apperror.InternalError(fmt.Errorf("find verification: %w", err))
	}
	if verification == nil {
		return apperror.ErrNotFound("verification")
	}
	if !verification.IsPending() {
		return apperror.ErrInvalidTransition()
	}

	if decision == domain.DecisionApprove {
		if err := s.approve(ctx, verification.ID, verification.AccountEmail, notes); err != nil {
			return err
		}
	} else {
		if err := s.verificationRepo.UpdateStatus(ctx, id, domain.VerificationStatusRejected, notes); err != nil {
			return apperror.InternalError(fmt.Errorf("update verification status: %w", err))
		}
	}

	s.log.Info().
		Str("verification_id", id.String()).
		Str("email", verification.AccountEmail).
		Str("decision", string(decision)).
		Msg("verification decided")

	return nil
}

// ListByAccount fetches one account's verification requests.
func (s *VerificationServiceImpl) ListByAccount(ctx context.Context, email string) ([]domain.Verification, error) {
	verifications, err := s.verificationRepo.ListByAccount(ctx, email)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("list verifications: %w", err))
	}
	return verifications, nil
}

// ListAll fetches every verification for the admin review queue.
func (s *VerificationServiceImpl) ListAll(ctx context.Context) ([]domain.Verification, error) {
	verifications, err := s.verificationRepo.ListAll(ctx)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("list verifications: %w", err))
	}
	return verifications, nil
}

func (s *VerificationServiceImpl) approve(ctx context.Context, id uuid.UUID, email string, notes *string) error {
	if err := s.verificationRepo.UpdateStatus(ctx, id, domain.VerificationStatusApproved, notes); err != nil {
		return apperror.InternalError(fmt.Errorf("update verification status: %w", err))
	}
	if err := s.accountRepo.SetVerified(ctx, email, true); err != nil {
		return apperror.InternalError(fmt.Errorf("flag account verified: %w", err))
	}
	return nil
}
