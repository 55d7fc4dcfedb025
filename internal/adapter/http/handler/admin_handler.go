package handler

import (
	"time"

	"invest-ledger/internal/adapter/http/dto"
	"invest-ledger/internal/core/domain"
	"invest-ledger/internal/core/ports"
	"invest-ledger/pkg/apperror"
	"invest-ledger/pkg/response"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// AdminHandler serves the administrative endpoints: transaction decisions,
// account management, balance adjustments, verification reviews, investments
// and the mirror migration sweep.
type AdminHandler struct {
	ledgerSvc       ports.LedgerService
	accountSvc      ports.AccountService
	reportingSvc    ports.ReportingService
	verificationSvc ports.VerificationService
	investmentSvc   ports.InvestmentService
	mirrorSvc       ports.MirrorSyncService
}

// NewAdminHandler creates a new AdminHandler.
func NewAdminHandler(
	ledgerSvc ports.LedgerService,
	accountSvc ports.AccountService,
	reportingSvc ports.ReportingService,
	verificationSvc ports.VerificationService,
	investmentSvc ports.InvestmentService,
	mirrorSvc ports.MirrorSyncService,
) *AdminHandler {
	return &AdminHandler{
		ledgerSvc:       ledgerSvc,
		accountSvc:      accountSvc,
		reportingSvc:    reportingSvc,
		verificationSvc: verificationSvc,
		investmentSvc:   investmentSvc,
		mirrorSvc:       mirrorSvc,
	}
}

// DecideTransaction handles PUT /api/v1/admin/transactions/:id.
func (h *AdminHandler) DecideTransaction(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.Error(c, apperror.Validation("invalid transaction id"))
		return
	}

	var req dto.DecisionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, apperror.Validation(err.Error()))
		return
	}

	if err := h.ledgerSvc.DecideTransaction(c.Request.Context(), id, domain.Decision(req.Decision)); err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, gin.H{"transaction_id": id.String(), "decision": req.Decision})
}

// UpdateAccountStatus handles PUT /api/v1/admin/accounts/:email/status.
func (h *AdminHandler) UpdateAccountStatus(c *gin.Context) {
	email := c.Param("email")

	var req dto.StatusUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, apperror.Validation(err.Error()))
		return
	}

	if err := h.accountSvc.UpdateStatus(c.Request.Context(), email, domain.AccountStatus(req.Status)); err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, gin.H{"email": domain.NormalizeEmail(email), "status": req.Status})
}

// AdjustBalance handles POST /api/v1/admin/accounts/adjust. A positive
// amount credits the account, a negative amount debits it.
func (h *AdminHandler) AdjustBalance(c *gin.Context) {
	var req dto.AdjustBalanceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, apperror.Validation(err.Error()))
		return
	}
	dto.SanitizeStruct(&req)

	amount, err := decimal.NewFromString(req.Amount)
	if err != nil {
		response.Error(c, apperror.ErrInvalidAmount())
		return
	}

	if err := h.ledgerSvc.AdjustBalance(c.Request.Context(), req.Email, amount, req.Note); err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, gin.H{"email": domain.NormalizeEmail(req.Email), "amount": amount.String()})
}

// ListAccounts handles GET /api/v1/admin/accounts.
func (h *AdminHandler) ListAccounts(c *gin.Context) {
	accounts, err := h.accountSvc.ListAccounts(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}

	resp := make([]dto.AccountResponse, 0, len(accounts))
	for i := range accounts {
		resp = append(resp, toAccountResponse(&accounts[i]))
	}
	response.OK(c, resp)
}

// ListTransactions handles GET /api/v1/admin/transactions with optional
// account, status and direction filters.
func (h *AdminHandler) ListTransactions(c *gin.Context) {
	params := listParamsFromQuery(c)
	if email := c.Query("account"); email != "" {
		normalized := domain.NormalizeEmail(email)
		params.AccountEmail = &normalized
	}

	items, total, err := h.reportingSvc.ListTransactions(c.Request.Context(), params)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, toTransactionListResponse(items, total, params))
}

// GetStats handles GET /api/v1/admin/stats.
func (h *AdminHandler) GetStats(c *gin.Context) {
	stats, err := h.reportingSvc.GetStats(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, dto.StatsResponse{
		TotalTransactions: stats.TotalTransactions,
		Pending:           stats.Pending,
		Completed:         stats.Completed,
		Rejected:          stats.Rejected,
		PendingDeposits:   stats.PendingDeposits.String(),
		CompletedDeposits: stats.CompletedDeposits.String(),
		CompletedOutflows: stats.CompletedOutflows.String(),
	})
}

// DecideVerification handles PUT /api/v1/admin/verifications/:id.
func (h *AdminHandler) DecideVerification(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.Error(c, apperror.Validation("invalid verification id"))
		return
	}

	var req dto.DecisionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, apperror.Validation(err.Error()))
		return
	}
	dto.SanitizeStruct(&req)

	if err := h.verificationSvc.Decide(c.Request.Context(), id, domain.Decision(req.Decision), req.Notes); err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, gin.H{"verification_id": id.String(), "decision": req.Decision})
}

// ListVerifications handles GET /api/v1/admin/verifications.
func (h *AdminHandler) ListVerifications(c *gin.Context) {
	items, err := h.verificationSvc.ListAll(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}

	resp := make([]dto.VerificationResponse, 0, len(items))
	for i := range items {
		resp = append(resp, toVerificationResponse(&items[i]))
	}
	response.OK(c, resp)
}

// RecordInvestment handles POST /api/v1/admin/investments.
func (h *AdminHandler) RecordInvestment(c *gin.Context) {
	var req dto.InvestmentRecordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, apperror.Validation(err.Error()))
		return
	}
	dto.SanitizeStruct(&req)

	amount, err := parsePositiveAmount(req.Amount)
	if err != nil {
		response.Error(c, err)
		return
	}
	profit := decimal.Zero
	if req.Profit != "" {
		if profit, err = decimal.NewFromString(req.Profit); err != nil {
			response.Error(c, apperror.ErrInvalidAmount())
			return
		}
	}
	start, err := time.Parse(time.RFC3339, req.Start)
	if err != nil {
		response.Error(c, apperror.Validation("start must be an RFC 3339 timestamp"))
		return
	}
	end, err := time.Parse(time.RFC3339, req.End)
	if err != nil {
		response.Error(c, apperror.Validation("end must be an RFC 3339 timestamp"))
		return
	}

	id, err := h.investmentSvc.Record(c.Request.Context(), ports.InvestmentRequest{
		Email:    req.Email,
		Plan:     req.Plan,
		Amount:   amount,
		Profit:   profit,
		Duration: req.Duration,
		Start:    start,
		End:      end,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, gin.H{"investment_id": id.String()})
}

// ListInvestments handles GET /api/v1/admin/investments.
func (h *AdminHandler) ListInvestments(c *gin.Context) {
	items, err := h.investmentSvc.ListAll(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}

	resp := make([]dto.InvestmentResponse, 0, len(items))
	for i := range items {
		resp = append(resp, toInvestmentResponse(&items[i]))
	}
	response.OK(c, resp)
}

// Migrate handles POST /api/v1/admin/migrate: a full sweep of primary
// accounts into the remote mirror.
func (h *AdminHandler) Migrate(c *gin.Context) {
	report, err := h.mirrorSvc.Migrate(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, dto.MigrationReportResponse{
		Migrated: report.Migrated,
		Skipped:  report.Skipped,
		Failed:   report.Failed,
		Total:    report.Total(),
	})
}
