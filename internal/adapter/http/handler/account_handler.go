package handler

import (
	"strconv"
	"time"

	"invest-ledger/internal/adapter/http/dto"
	"invest-ledger/internal/core/domain"
	"invest-ledger/internal/core/ports"
	"invest-ledger/pkg/apperror"
	"invest-ledger/pkg/response"

	"github.com/gin-gonic/gin"
)

// AccountHandler serves the authenticated account's own views: profile,
// balance, transaction history, verifications and investments.
type AccountHandler struct {
	accountSvc      ports.AccountService
	reportingSvc    ports.ReportingService
	verificationSvc ports.VerificationService
	investmentSvc   ports.InvestmentService
}

// NewAccountHandler creates a new AccountHandler.
func NewAccountHandler(
	accountSvc ports.AccountService,
	reportingSvc ports.ReportingService,
	verificationSvc ports.VerificationService,
	investmentSvc ports.InvestmentService,
) *AccountHandler {
	return &AccountHandler{
		accountSvc:      accountSvc,
		reportingSvc:    reportingSvc,
		verificationSvc: verificationSvc,
		investmentSvc:   investmentSvc,
	}
}

// GetProfile handles GET /api/v1/accounts/me.
func (h *AccountHandler) GetProfile(c *gin.Context) {
	email, ok := currentEmail(c)
	if !ok {
		response.Error(c, apperror.ErrInvalidToken())
		return
	}

	account, err := h.accountSvc.GetByEmail(c.Request.Context(), email)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, toAccountResponse(account))
}

// GetBalance handles GET /api/v1/accounts/me/balance.
func (h *AccountHandler) GetBalance(c *gin.Context) {
	email, ok := currentEmail(c)
	if !ok {
		response.Error(c, apperror.ErrInvalidToken())
		return
	}

	balance, currency, err := h.reportingSvc.GetBalance(c.Request.Context(), email)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, dto.BalanceResponse{
		Balance:  balance.String(),
		Currency: currency,
	})
}

// ListTransactions handles GET /api/v1/transactions. The listing is always
// scoped to the authenticated account; status and direction filters are
// optional query parameters.
func (h *AccountHandler) ListTransactions(c *gin.Context) {
	email, ok := currentEmail(c)
	if !ok {
		response.Error(c, apperror.ErrInvalidToken())
		return
	}

	params := listParamsFromQuery(c)
	params.AccountEmail = &email

	items, total, err := h.reportingSvc.ListTransactions(c.Request.Context(), params)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, toTransactionListResponse(items, total, params))
}

// SubmitVerification handles POST /api/v1/verifications.
func (h *AccountHandler) SubmitVerification(c *gin.Context) {
	email, ok := currentEmail(c)
	if !ok {
		response.Error(c, apperror.ErrInvalidToken())
		return
	}

	var req dto.VerificationSubmitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, apperror.Validation(err.Error()))
		return
	}
	dto.SanitizeStruct(&req)

	id, err := h.verificationSvc.Submit(c.Request.Context(), email, req.DocumentType, req.DocumentNumber, req.Country)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, gin.H{"verification_id": id.String()})
}

// ListVerifications handles GET /api/v1/verifications.
func (h *AccountHandler) ListVerifications(c *gin.Context) {
	email, ok := currentEmail(c)
	if !ok {
		response.Error(c, apperror.ErrInvalidToken())
		return
	}

	items, err := h.verificationSvc.ListByAccount(c.Request.Context(), email)
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

// ListInvestments handles GET /api/v1/investments.
func (h *AccountHandler) ListInvestments(c *gin.Context) {
	email, ok := currentEmail(c)
	if !ok {
		response.Error(c, apperror.ErrInvalidToken())
		return
	}

	items, err := h.investmentSvc.ListByAccount(c.Request.Context(), email)
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

// listParamsFromQuery reads pagination and filters from query parameters.
// Out-of-range values are clamped by the reporting service.
func listParamsFromQuery(c *gin.Context) ports.TransactionListParams {
	params := ports.TransactionListParams{Page: 1, PageSize: 20}

	if page, err := strconv.Atoi(c.Query("page")); err == nil {
		params.Page = page
	}
	if size, err := strconv.Atoi(c.Query("page_size")); err == nil {
		params.PageSize = size
	}
	if s := c.Query("status"); s != "" {
		status := domain.TransactionStatus(s)
		params.Status = &status
	}
	if d := c.Query("direction"); d != "" {
		direction := domain.TransactionDirection(d)
		params.Direction = &direction
	}

	return params
}

func toTransactionListResponse(items []domain.Transaction, total int64, params ports.TransactionListParams) dto.TransactionListResponse {
	resp := dto.TransactionListResponse{
		Items:    make([]dto.TransactionResponse, 0, len(items)),
		Total:    total,
		Page:     params.Page,
		PageSize: params.PageSize,
	}
	for i := range items {
		resp.Items = append(resp.Items, toTransactionResponse(&items[i]))
	}
	if params.PageSize > 0 {
		resp.TotalPages = int((total + int64(params.PageSize) - 1) / int64(params.PageSize))
	}
	return resp
}

func toAccountResponse(account *domain.Account) dto.AccountResponse {
	return dto.AccountResponse{
		Email:      account.Email,
		Name:       account.Name,
		Balance:    account.Balance.String(),
		Currency:   account.Currency,
		IsVerified: account.IsVerified,
		Status:     string(account.Status),
		Country:    account.Country,
		Phone:      account.Phone,
		JoinedAt:   account.JoinedAt.Format(time.RFC3339),
	}
}

func toVerificationResponse(v *domain.Verification) dto.VerificationResponse {
	resp := dto.VerificationResponse{
		ID:             v.ID.String(),
		AccountEmail:   v.AccountEmail,
		DocumentType:   v.DocumentType,
		DocumentNumber: v.DocumentNumber,
		Country:        v.Country,
		Status:         string(v.Status),
		SubmittedAt:    v.SubmittedAt.Format(time.RFC3339),
		AdminNotes:     v.AdminNotes,
	}
	if v.DecidedAt != nil {
		s := v.DecidedAt.Format(time.RFC3339)
		resp.DecidedAt = &s
	}
	return resp
}

func toInvestmentResponse(inv *domain.Investment) dto.InvestmentResponse {
	return dto.InvestmentResponse{
		ID:           inv.ID.String(),
		AccountEmail: inv.AccountEmail,
		Plan:         inv.Plan,
		Amount:       inv.Amount.String(),
		Profit:       inv.Profit.String(),
		Duration:     inv.Duration,
		Status:       string(inv.Status),
		Start:        inv.StartDate.Format(time.RFC3339),
		End:          inv.EndDate.Format(time.RFC3339),
	}
}
