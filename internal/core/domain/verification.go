package domain

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// VerificationStatus represents the review state of an identity document.
type VerificationStatus string

const (
	VerificationStatusPending  VerificationStatus = "pending"
	VerificationStatusApproved VerificationStatus = "approved"
	VerificationStatusRejected VerificationStatus = "rejected"
)

// Verification is a submitted identity-verification request. Approval flips
// the owning account's verified flag.
type Verification struct {
	ID             uuid.UUID          `json:"id"`
	AccountEmail   string             `json:"account_email"`
	DocumentType   string             `json:"document_type"`
	DocumentNumber *string            `json:"document_number,omitempty"`
	Country        *string            `json:"country,omitempty"`
	Status         VerificationStatus `json:"status"`
	SubmittedAt    time.Time          `json:"submitted_at"`
	DecidedAt      *time.Time         `json:"decided_at,omitempty"`
	AdminNotes     *string            `json:"admin_notes,omitempty"`
}

// NewVerification constructs a pending verification request.
func NewVerification(email, documentType string) (*Verification, error) {
	if documentType == "" {
		return nil, fmt.Errorf("verification document type must not be empty")
	}

	return &Verification{
		ID:           uuid.New(),
		AccountEmail: NormalizeEmail(email),
		DocumentType: documentType,
		Status:       VerificationStatusPending,
		SubmittedAt:  time.Now().UTC(),
	}, nil
}

// IsPending returns true while the request awaits review.
func (v *Verification) IsPending() bool {
	return v.Status == VerificationStatusPending
}
