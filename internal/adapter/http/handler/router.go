package handler

import (
	"invest-ledger/internal/adapter/http/middleware"
	redisStore "invest-ledger/internal/adapter/storage/redis"
	"invest-ledger/internal/core/ports"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

// RouterDeps holds all dependencies needed to set up routes.
type RouterDeps struct {
	AccountSvc      ports.AccountService
	LedgerSvc       ports.LedgerService
	ReportingSvc    ports.ReportingService
	VerificationSvc ports.VerificationService
	InvestmentSvc   ports.InvestmentService
	MirrorSvc       ports.MirrorSyncService
	TokenSvc        ports.TokenService
	RateLimitStore  *redisStore.RateLimitStore // nil = rate limiting disabled
	HealthCheckers  []ports.HealthChecker
	AuditSvc        ports.AuditService // nil = audit logging disabled
	AdminEmail      string
	AdminPassword   string
	Logger          zerolog.Logger
}

// SetupRouter initialises the Gin engine with all routes and middleware.
func SetupRouter(deps RouterDeps) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()

	// Global middleware
	r.Use(middleware.Recovery(deps.Logger))
	r.Use(middleware.RequestLogger(deps.Logger))
	r.Use(middleware.MaxBodySize(1 << 20)) // 1 MB request body limit

	// Audit logging (after response)
	if deps.AuditSvc != nil {
		r.Use(middleware.AuditLog(deps.AuditSvc))
	}

	// Health check (deep — verifies PostgreSQL + Redis)
	r.GET("/health", HealthCheck(deps.HealthCheckers...))

	// Swagger documentation
	swagger := r.Group("/swagger")
	{
		swagger.GET("", SwaggerUI)
		swagger.GET("/spec", SwaggerSpec)
	}

	// Rate limit rules
	rules := middleware.DefaultRateLimitRules()

	// Helper: return rate limiter middleware if store is available, else noop.
	rl := func(group string) gin.HandlerFunc {
		if deps.RateLimitStore == nil {
			return func(c *gin.Context) { c.Next() }
		}
		rule, ok := rules[group]
		if !ok {
			return func(c *gin.Context) { c.Next() }
		}
		return middleware.RateLimiter(deps.RateLimitStore, group, rule, deps.Logger)
	}

	// API v1 routes
	v1 := r.Group("/api/v1")

	// --- Public routes (no auth) ---
	authHandler := NewAuthHandler(deps.AccountSvc, deps.TokenSvc, deps.AdminEmail, deps.AdminPassword)
	auth := v1.Group("/auth")
	{
		auth.POST("/register", rl("auth_register"), authHandler.Register)
		auth.POST("/login", rl("auth_login"), authHandler.Login)
	}

	// --- JWT-authenticated routes (account owner) ---
	jwtAuth := middleware.JWTAuth(deps.TokenSvc, deps.Logger)
	accountHandler := NewAccountHandler(deps.AccountSvc, deps.ReportingSvc, deps.VerificationSvc, deps.InvestmentSvc)
	txHandler := NewTransactionHandler(deps.LedgerSvc)

	accounts := v1.Group("/accounts/me", jwtAuth)
	{
		accounts.GET("", rl("dashboard"), accountHandler.GetProfile)
		accounts.GET("/balance", rl("dashboard"), accountHandler.GetBalance)
	}

	transactions := v1.Group("/transactions", jwtAuth)
	{
		transactions.GET("", rl("dashboard"), accountHandler.ListTransactions)
		transactions.POST("/deposit", rl("ledger"), txHandler.Deposit)
		transactions.POST("/withdraw", rl("ledger"), txHandler.Withdraw)
	}

	verifications := v1.Group("/verifications", jwtAuth)
	{
		verifications.POST("", rl("ledger"), accountHandler.SubmitVerification)
		verifications.GET("", rl("dashboard"), accountHandler.ListVerifications)
	}

	investments := v1.Group("/investments", jwtAuth)
	{
		investments.GET("", rl("dashboard"), accountHandler.ListInvestments)
	}

	// --- Admin routes (JWT + admin claim) ---
	adminHandler := NewAdminHandler(deps.LedgerSvc, deps.AccountSvc, deps.ReportingSvc,
		deps.VerificationSvc, deps.InvestmentSvc, deps.MirrorSvc)
	admin := v1.Group("/admin", jwtAuth, middleware.AdminOnly())
	{
		admin.GET("/accounts", rl("admin"), adminHandler.ListAccounts)
		admin.PUT("/accounts/:email/status", rl("admin"), adminHandler.UpdateAccountStatus)
		admin.POST("/accounts/adjust", rl("admin"), adminHandler.AdjustBalance)
		admin.GET("/transactions", rl("admin"), adminHandler.ListTransactions)
		admin.PUT("/transactions/:id", rl("admin"), adminHandler.DecideTransaction)
		admin.GET("/stats", rl("admin"), adminHandler.GetStats)
		admin.GET("/verifications", rl("admin"), adminHandler.ListVerifications)
		admin.PUT("/verifications/:id", rl("admin"), adminHandler.DecideVerification)
		admin.GET("/investments", rl("admin"), adminHandler.ListInvestments)
		admin.POST("/investments", rl("admin"), adminHandler.RecordInvestment)
		admin.POST("/migrate", rl("admin"), adminHandler.Migrate)
	}

	return r
}
