package middleware

import (
	"encoding/json"
	"strings"
	"time"

	"invest-ledger/internal/core/domain"
	"invest-ledger/internal/core/ports"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// AuditLog creates an audit middleware that records successful write
// operations. It maps HTTP methods and paths to audit actions.
func AuditLog(auditSvc ports.AuditService) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		// Only audit successful write operations (status 2xx)
		if c.Writer.Status() < 200 || c.Writer.Status() >= 300 {
			return
		}
		if c.Request.Method == "GET" || c.Request.Method == "HEAD" || c.Request.Method == "OPTIONS" {
			return
		}

		action, resourceType := mapPathToAction(c.Request.URL.Path, c.Request.Method)
		if action == "" {
			return
		}

		var accountEmail *string
		if email := c.GetString(CtxEmail); email != "" {
			accountEmail = &email
		}

		details, _ := json.Marshal(map[string]interface{}{
			"method": c.Request.Method,
			"path":   c.Request.URL.Path,
			"status": c.Writer.Status(),
		})

		auditSvc.Log(c.Request.Context(), &domain.AuditLog{
			ID:           uuid.New(),
			AccountEmail: accountEmail,
			Action:       action,
			ResourceType: resourceType,
			IPAddress:    c.ClientIP(),
			Details:      string(details),
			CreatedAt:    time.Now(),
		})
	}
}

func mapPathToAction(path, method string) (domain.AuditAction, string) {
	switch {
	case path == "/api/v1/auth/register" && method == "POST":
		return domain.AuditActionRegister, "account"
	case path == "/api/v1/auth/login" && method == "POST":
		return domain.AuditActionLogin, "session"
	case path == "/api/v1/transactions/deposit" && method == "POST":
		return domain.AuditActionDepositRequest, "transaction"
	case path == "/api/v1/transactions/withdraw" && method == "POST":
		return domain.AuditActionWithdrawalRequest, "transaction"
	case strings.HasPrefix(path, "/api/v1/admin/transactions/") && method == "PUT":
		return domain.AuditActionTransactionDecision, "transaction"
	case strings.HasPrefix(path, "/api/v1/admin/accounts/") && strings.HasSuffix(path, "/status") && method == "PUT":
		return domain.AuditActionStatusUpdate, "account"
	case path == "/api/v1/admin/accounts/adjust" && method == "POST":
		return domain.AuditActionBalanceAdjust, "account"
	case strings.HasPrefix(path, "/api/v1/admin/verifications/") && method == "PUT":
		return domain.AuditActionVerificationDecision, "verification"
	case path == "/api/v1/admin/migrate" && method == "POST":
		return domain.AuditActionMigrate, "mirror"
	}
	return "", ""
}
