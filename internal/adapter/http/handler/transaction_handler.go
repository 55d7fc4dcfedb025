package handler

import (
	"time"

	"invest-ledger/internal/adapter/http/dto"
	"invest-ledger/internal/adapter/http/middleware"
	"invest-ledger/internal/core/domain"
	"invest-ledger/internal/core/ports"
	"invest-ledger/pkg/apperror"
	"invest-ledger/pkg/response"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

// TransactionHandler handles deposit and withdrawal requests.
type TransactionHandler struct {
	ledgerSvc ports.LedgerService
}

// NewTransactionHandler creates a new TransactionHandler.
func NewTransactionHandler(ledgerSvc ports.LedgerService) *TransactionHandler {
	return &TransactionHandler{ledgerSvc: ledgerSvc}
}

// Deposit handles POST /api/v1/transactions/deposit.
func (h *TransactionHandler) Deposit(c *gin.Context) {
	email, ok := currentEmail(c)
	if !ok {
		response.Error(c, apperror.ErrInvalidToken())
		return
	}

	var req dto.DepositRequest
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

	id, err := h.ledgerSvc.RequestDeposit(c.Request.Context(), email, amount, req.Method)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, dto.TransactionCreatedResponse{TransactionID: id.String()})
}

// Withdraw handles POST /api/v1/transactions/withdraw.
func (h *TransactionHandler) Withdraw(c *gin.Context) {
	email, ok := currentEmail(c)
	if !ok {
		response.Error(c, apperror.ErrInvalidToken())
		return
	}

	var req dto.WithdrawalRequest
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

	id, err := h.ledgerSvc.RequestWithdrawal(c.Request.Context(), ports.WithdrawalRequest{
		Email:         email,
		Amount:        amount,
		Method:        req.Method,
		BankDetails:   toBankDetails(req.BankDetails),
		WalletAddress: req.WalletAddress,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, dto.TransactionCreatedResponse{TransactionID: id.String()})
}

// currentEmail extracts the authenticated account email from the context.
func currentEmail(c *gin.Context) (string, bool) {
	email := c.GetString(middleware.CtxEmail)
	return email, email != ""
}

// parsePositiveAmount parses a decimal string and rejects non-positive values.
func parsePositiveAmount(s string) (decimal.Decimal, error) {
	amount, err := decimal.NewFromString(s)
	if err != nil || !amount.IsPositive() {
		return decimal.Zero, apperror.ErrInvalidAmount()
	}
	return amount, nil
}

func toBankDetails(req *dto.BankDetailsRequest) *domain.BankDetails {
	if req == nil {
		return nil
	}
	return &domain.BankDetails{
		AccountName:   req.AccountName,
		BankName:      req.BankName,
		AccountNumber: req.AccountNumber,
		SwiftCode:     req.SwiftCode,
		RoutingNumber: req.RoutingNumber,
		BankCountry:   req.BankCountry,
	}
}

// toTransactionResponse converts domain.Transaction to DTO.
func toTransactionResponse(tx *domain.Transaction) dto.TransactionResponse {
	resp := dto.TransactionResponse{
		ID:            tx.ID.String(),
		AccountEmail:  tx.AccountEmail,
		Direction:     string(tx.Direction),
		Amount:        tx.Amount.String(),
		Currency:      tx.Currency,
		Status:        string(tx.Status),
		Method:        tx.Method,
		WalletAddress: tx.WalletAddress,
		CreatedAt:     tx.CreatedAt.Format(time.RFC3339),
	}
	if tx.DecidedAt != nil {
		s := tx.DecidedAt.Format(time.RFC3339)
		resp.DecidedAt = &s
	}
	return resp
}
