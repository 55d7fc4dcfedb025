package domain

import (
	"time"

	"github.com/google/uuid"
)

// AuditAction represents the type of audited action.
type AuditAction string

const (
	AuditActionRegister             AuditAction = "REGISTER"
	AuditActionLogin                AuditAction = "LOGIN"
	AuditActionDepositRequest       AuditAction = "DEPOSIT_REQUEST"
	AuditActionWithdrawalRequest    AuditAction = "WITHDRAWAL_REQUEST"
	AuditActionTransactionDecision  AuditAction = "TRANSACTION_DECISION"
	AuditActionStatusUpdate         AuditAction = "STATUS_UPDATE"
	AuditActionBalanceAdjust        AuditAction = "BALANCE_ADJUST"
	AuditActionVerificationDecision AuditAction = "VERIFICATION_DECISION"
	AuditActionMigrate              AuditAction = "MIGRATE"
)

// AuditLog records a single audited action in the system.
type AuditLog struct {
	ID           uuid.UUID   `json:"id"`
	AccountEmail *string     `json:"account_email,omitempty"` // Actor, when authenticated
	Action       AuditAction `json:"action"`
	ResourceType string      `json:"resource_type"`
	ResourceID   string      `json:"resource_id,omitempty"`
	Details      string      `json:"details,omitempty"` // JSON string
	IPAddress    string      `json:"ip_address"`
	CreatedAt    time.Time   `json:"created_at"`
}
