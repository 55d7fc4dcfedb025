package handler

import (
	"crypto/subtle"
	"net/http"

	"invest-ledger/internal/adapter/http/dto"
	"invest-ledger/internal/core/domain"
	"invest-ledger/internal/core/ports"
	"invest-ledger/pkg/apperror"
	"invest-ledger/pkg/response"

	"github.com/gin-gonic/gin"
)

// AuthHandler handles authentication endpoints.
type AuthHandler struct {
	accountSvc ports.AccountService
	tokenSvc   ports.TokenService
	// Bootstrap administrator identity from configuration. Empty email
	// disables the admin login path.
	adminEmail    string
	adminPassword string
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(accountSvc ports.AccountService, tokenSvc ports.TokenService, adminEmail, adminPassword string) *AuthHandler {
	return &AuthHandler{
		accountSvc:    accountSvc,
		tokenSvc:      tokenSvc,
		adminEmail:    domain.NormalizeEmail(adminEmail),
		adminPassword: adminPassword,
	}
}

// Register handles POST /api/v1/auth/register.
func (h *AuthHandler) Register(c *gin.Context) {
	var req dto.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, apperror.Validation(err.Error()))
		return
	}
	dto.SanitizeStruct(&req)

	account, err := h.accountSvc.Register(c.Request.Context(), ports.RegisterRequest{
		Email:      req.Email,
		Name:       req.Name,
		Credential: req.Password,
		Country:    req.Country,
		Phone:      req.Phone,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, toAccountResponse(account))
}

// Login handles POST /api/v1/auth/login.
func (h *AuthHandler) Login(c *gin.Context) {
	var req dto.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, apperror.Validation(err.Error()))
		return
	}
	dto.SanitizeStruct(&req)

	email := domain.NormalizeEmail(req.Email)

	if h.adminEmail != "" && email == h.adminEmail {
		if subtle.ConstantTimeCompare([]byte(req.Password), []byte(h.adminPassword)) != 1 {
			response.Error(c, apperror.ErrInvalidCredential())
			return
		}
		h.issueToken(c, email, true)
		return
	}

	account, err := h.accountSvc.Authenticate(c.Request.Context(), email, req.Password)
	if err != nil {
		response.Error(c, err)
		return
	}

	h.issueToken(c, account.Email, false)
}

func (h *AuthHandler) issueToken(c *gin.Context, email string, isAdmin bool) {
	token, expiry, err := h.tokenSvc.Generate(email, isAdmin)
	if err != nil {
		response.Error(c, apperror.InternalError(err))
		return
	}

	response.OK(c, dto.LoginResponse{
		Token:   token,
		Expiry:  expiry.Unix(),
		IsAdmin: isAdmin,
	})
}

// HealthCheck handles GET /health — deep health check verifying all dependencies.
func HealthCheck(checkers ...ports.HealthChecker) gin.HandlerFunc {
	return func(c *gin.Context) {
		type depStatus struct {
			Status string `json:"status"`
			Error  string `json:"error,omitempty"`
		}

		deps := make(map[string]depStatus)
		allHealthy := true

		for _, checker := range checkers {
			if err := checker.Ping(c.Request.Context()); err != nil {
				deps[checker.Name()] = depStatus{Status: "unhealthy", Error: err.Error()}
				allHealthy = false
			} else {
				deps[checker.Name()] = depStatus{Status: "healthy"}
			}
		}

		status := "healthy"
		httpCode := http.StatusOK
		if !allHealthy {
			status = "degraded"
			httpCode = http.StatusServiceUnavailable
		}

		c.JSON(httpCode, gin.H{
			"status":       status,
			"dependencies": deps,
		})
	}
}
