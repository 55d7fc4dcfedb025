package dto

// RegisterRequest is the request body for account registration.
type RegisterRequest struct {
	Email    string  `json:"email" binding:"required,email,max=254"`
	Name     string  `json:"name" binding:"required,min=1,max=100"`
	Password string  `json:"password" binding:"required,min=8,max=128"`
	Country  *string `json:"country,omitempty" binding:"omitempty,max=56"`
	Phone    *string `json:"phone,omitempty" binding:"omitempty,max=32"`
}

// LoginRequest is the request body for login.
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// LoginResponse is the response body for successful login.
type LoginResponse struct {
	Token   string `json:"token"`
	Expiry  int64  `json:"expiry"` // Unix timestamp
	IsAdmin bool   `json:"is_admin"`
}

// AccountResponse is the public view of an account.
type AccountResponse struct {
	Email      string  `json:"email"`
	Name       string  `json:"name"`
	Balance    string  `json:"balance"`
	Currency   string  `json:"currency"`
	IsVerified bool    `json:"is_verified"`
	Status     string  `json:"status"`
	Country    *string `json:"country,omitempty"`
	Phone      *string `json:"phone,omitempty"`
	JoinedAt   string  `json:"joined_at"`
}

// DepositRequest is the request body for a deposit request.
type DepositRequest struct {
	Amount string `json:"amount" binding:"required,amount"`
	Method string `json:"method" binding:"required,min=1,max=50"`
}

// BankDetailsRequest carries the bank rail of a withdrawal.
type BankDetailsRequest struct {
	AccountName   string `json:"account_name" binding:"required,max=100"`
	BankName      string `json:"bank_name" binding:"required,max=100"`
	AccountNumber string `json:"account_number" binding:"required,max=34"`
	SwiftCode     string `json:"swift_code" binding:"omitempty,max=11"`
	RoutingNumber string `json:"routing_number" binding:"omitempty,max=9"`
	BankCountry   string `json:"bank_country" binding:"omitempty,max=56"`
}

// WithdrawalRequest is the request body for a withdrawal request.
type WithdrawalRequest struct {
	Amount        string              `json:"amount" binding:"required,amount"`
	Method        string              `json:"method" binding:"required,min=1,max=50"`
	BankDetails   *BankDetailsRequest `json:"bank_details,omitempty"`
	WalletAddress *string             `json:"wallet_address,omitempty" binding:"omitempty,max=128"`
}

// DecisionRequest is the admin verdict on a pending transaction or
// verification.
type DecisionRequest struct {
	Decision string  `json:"decision" binding:"required,oneof=approve reject"`
	Notes    *string `json:"notes,omitempty" binding:"omitempty,max=500"`
}

// StatusUpdateRequest changes an account's status.
type StatusUpdateRequest struct {
	Status string `json:"status" binding:"required,oneof=active blocked"`
}

// AdjustBalanceRequest credits or debits an account directly. A negative
// amount debits.
type AdjustBalanceRequest struct {
	Email  string `json:"email" binding:"required,email"`
	Amount string `json:"amount" binding:"required,amount"`
	Note   string `json:"note" binding:"omitempty,max=255"`
}

// VerificationSubmitRequest submits an identity document for review.
type VerificationSubmitRequest struct {
	DocumentType   string  `json:"document_type" binding:"required,min=1,max=50"`
	DocumentNumber *string `json:"document_number,omitempty" binding:"omitempty,max=64"`
	Country        *string `json:"country,omitempty" binding:"omitempty,max=56"`
}

// VerificationResponse is the public view of a verification request.
type VerificationResponse struct {
	ID             string  `json:"id"`
	AccountEmail   string  `json:"account_email"`
	DocumentType   string  `json:"document_type"`
	DocumentNumber *string `json:"document_number,omitempty"`
	Country        *string `json:"country,omitempty"`
	Status         string  `json:"status"`
	SubmittedAt    string  `json:"submitted_at"`
	DecidedAt      *string `json:"decided_at,omitempty"`
	AdminNotes     *string `json:"admin_notes,omitempty"`
}

// InvestmentRecordRequest subscribes an account to a plan.
type InvestmentRecordRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Plan     string `json:"plan" binding:"required,min=1,max=50"`
	Amount   string `json:"amount" binding:"required,amount"`
	Profit   string `json:"profit" binding:"omitempty,amount"`
	Duration string `json:"duration" binding:"required,max=50"`
	Start    string `json:"start" binding:"required"` // RFC 3339
	End      string `json:"end" binding:"required"`   // RFC 3339
}

// InvestmentResponse is the public view of an investment.
type InvestmentResponse struct {
	ID           string `json:"id"`
	AccountEmail string `json:"account_email"`
	Plan         string `json:"plan"`
	Amount       string `json:"amount"`
	Profit       string `json:"profit"`
	Duration     string `json:"duration"`
	Status       string `json:"status"`
	Start        string `json:"start"`
	End          string `json:"end"`
}

// TransactionCreatedResponse acknowledges a deposit or withdrawal request.
type TransactionCreatedResponse struct {
	TransactionID string `json:"transaction_id"`
}

// TransactionResponse is the public view of a transaction.
type TransactionResponse struct {
	ID            string  `json:"id"`
	AccountEmail  string  `json:"account_email"`
	Direction     string  `json:"direction"`
	Amount        string  `json:"amount"`
	Currency      string  `json:"currency"`
	Status        string  `json:"status"`
	Method        string  `json:"method"`
	WalletAddress *string `json:"wallet_address,omitempty"`
	CreatedAt     string  `json:"created_at"`
	DecidedAt     *string `json:"decided_at,omitempty"`
}

// BalanceResponse is the response for balance query.
type BalanceResponse struct {
	Balance  string `json:"balance"`
	Currency string `json:"currency"`
}

// StatsResponse is the response for ledger statistics.
type StatsResponse struct {
	TotalTransactions int64  `json:"total_transactions"`
	Pending           int64  `json:"pending"`
	Completed         int64  `json:"completed"`
	Rejected          int64  `json:"rejected"`
	PendingDeposits   string `json:"pending_deposits"`
	CompletedDeposits string `json:"completed_deposits"`
	CompletedOutflows string `json:"completed_outflows"`
}

// MigrationReportResponse summarises one mirror migration sweep.
type MigrationReportResponse struct {
	Migrated int `json:"migrated"`
	Skipped  int `json:"skipped"`
	Failed   int `json:"failed"`
	Total    int `json:"total"`
}

// TransactionListResponse wraps a paginated transaction list.
type TransactionListResponse struct {
	Items      []TransactionResponse `json:"items"`
	Total      int64                 `json:"total"`
	Page       int                   `json:"page"`
	PageSize   int                   `json:"page_size"`
	TotalPages int                   `json:"total_pages"`
}
