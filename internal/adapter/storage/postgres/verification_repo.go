package postgres

import (
	"context"
	"errors"
	"fmt"

	"invest-ledger/internal/core/domain"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

const verificationColumns = `id, account_email, document_type, document_number, country, status, submitted_at, decided_at, admin_notes`

// VerificationRepo implements ports.VerificationRepository.
type VerificationRepo struct {
	pool Pool
}

// NewVerificationRepo creates a new VerificationRepo.
func NewVerificationRepo(pool Pool) *VerificationRepo {
	return &VerificationRepo{pool: pool}
}

// Create inserts a new verification request.
func (r *VerificationRepo) Create(ctx context.Context, v *domain.Verification) error {
	query := `INSERT INTO verifications (id, account_email, document_type, document_number, country, status, submitted_at, decided_at, admin_notes)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`

	_, err := r.pool.Exec(ctx, query,
		v.ID, v.AccountEmail, v.DocumentType, v.DocumentNumber, v.Country,
		v.Status, v.SubmittedAt, v.DecidedAt, v.AdminNotes,
	)
	if err != nil {
		return fmt.Errorf("insert verification: %w", err)
	}
	return nil
}

// GetByID fetches a verification by UUID.
func (r *VerificationRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.Verification, error) {
	query := `SELECT ` + verificationColumns + ` FROM verifications WHERE id = $1`

	v := &domain.Verification{}
	err := r.pool.QueryRow(ctx, query, id).Scan(
		&v.ID, &v.AccountEmail, &v.DocumentType, &v.DocumentNumber, &v.Country,
		&v.Status, &v.SubmittedAt, &v.DecidedAt, &v.AdminNotes,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get verification by id: %w", err)
	}
	return v, nil
}

// UpdateStatus settles a verification request.
func (r *VerificationRepo) UpdateStatus(ctx context.Context, id uuid.UUID, status domain.VerificationStatus, notes *string) error {
	query := `UPDATE verifications SET status = $1, admin_notes = COALESCE($2, admin_notes), decided_at = NOW() WHERE id = $3`

	tag, err := r.pool.Exec(ctx, query, status, notes, id)
	if err != nil {
		return fmt.Errorf("update verification status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("verification not found: %s", id)
	}
	return nil
}

// ListByAccount fetches every verification of one account, newest first.
func (r *VerificationRepo) ListByAccount(ctx context.Context, email string) ([]domain.Verification, error) {
	query := `SELECT ` + verificationColumns + ` FROM verifications
		WHERE LOWER(account_email) = LOWER($1) ORDER BY submitted_at DESC`

	rows, err := r.pool.Query(ctx, query, email)
	if err != nil {
		return nil, fmt.Errorf("list account verifications: %w", err)
	}
	defer rows.Close()

	return collectVerifications(rows)
}

// ListAll fetches every verification, newest first.
func (r *VerificationRepo) ListAll(ctx context.Context) ([]domain.Verification, error) {
	query := `SELECT ` + verificationColumns + ` FROM verifications ORDER BY submitted_at DESC`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list verifications: %w", err)
	}
	defer rows.Close()

	return collectVerifications(rows)
}

func collectVerifications(rows pgx.Rows) ([]domain.Verification, error) {
	var verifications []domain.Verification
	for rows.Next() {
		var v domain.Verification
		if err := rows.Scan(
			&v.ID, &v.AccountEmail, &v.DocumentType, &v.DocumentNumber, &v.Country,
			&v.Status, &v.SubmittedAt, &v.DecidedAt, &v.AdminNotes,
		); err != nil {
			return nil, fmt.Errorf("scan verification row: %w", err)
		}
		verifications = append(verifications, v)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate verification rows: %w", err)
	}
	return verifications, nil
}
