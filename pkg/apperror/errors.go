package apperror

import (
	"fmt"
	"net/http"
)

// AppError is a structured error that maps to HTTP responses.
type AppError struct {
	Code       string `json:"error_code"`
	Message    string `json:"message"`
	HTTPStatus int    `json:"-"`
	Err        error  `json:"-"` // Wrapped internal error (not exposed to client)
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// New creates a new AppError.
func New(code string, message string, httpStatus int) *AppError {
	return &AppError{
		Code:       code,
		Message:    message,
		HTTPStatus: httpStatus,
	}
}

// Wrap wraps an internal error with an AppError.
func Wrap(code string, message string, httpStatus int, err error) *AppError {
	return &AppError{
		Code:       code,
		Message:    message,
		HTTPStatus: httpStatus,
		Err:        err,
	}
}

// ---- Accounts (ACC) ----

func ErrDuplicateAccount() *AppError {
	return New("ACC_001", "Account with this email already exists", http.StatusConflict)
}

func ErrNotFound(entity string) *AppError {
	return New("ACC_002", fmt.Sprintf("%s not found", entity), http.StatusNotFound)
}

func ErrAccountBlocked() *AppError {
	return New("ACC_003", "Account is blocked", http.StatusForbidden)
}

// ---- Authentication (AUTH) ----

func ErrInvalidCredential() *AppError {
	return New("AUTH_001", "Invalid credentials", http.StatusUnauthorized)
}

func ErrInvalidToken() *AppError {
	return New("AUTH_002", "Invalid or expired token", http.StatusUnauthorized)
}

func ErrAdminOnly() *AppError {
	return New("AUTH_003", "Administrator privileges required", http.StatusForbidden)
}

// ---- Ledger Business Logic (LED) ----

func ErrInvalidAmount() *AppError {
	return New("LED_001", "Invalid amount", http.StatusBadRequest)
}

func ErrInsufficientBalance() *AppError {
	return New("LED_002", "Insufficient balance", http.StatusPaymentRequired)
}

func ErrInvalidTransition() *AppError {
	return New("LED_003", "Transaction is already in a final state", http.StatusConflict)
}

// ---- Rate Limiting (RATE) ----

func ErrRateLimitExceeded() *AppError {
	return New("RATE_001", "Rate limit exceeded", http.StatusTooManyRequests)
}

// ---- System & Infrastructure (SYS) ----

// InternalError wraps an internal error as a SYS_001 error.
func InternalError(err error) *AppError {
	return Wrap("SYS_001", "Internal server error", http.StatusInternalServerError, err)
}

func ErrDatabaseError(err error) *AppError {
	return Wrap("SYS_001", "Internal database error", http.StatusInternalServerError, err)
}

// Validation returns a REQ_001-style validation error for malformed requests.
func Validation(message string) *AppError {
	return New("REQ_001", message, http.StatusBadRequest)
}
