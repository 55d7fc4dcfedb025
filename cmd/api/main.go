package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"invest-ledger/config"
	httpHandler "invest-ledger/internal/adapter/http/handler"
	pgStorage "invest-ledger/internal/adapter/storage/postgres"
	redisStorage "invest-ledger/internal/adapter/storage/redis"
	"invest-ledger/internal/core/ports"
	"invest-ledger/internal/service"
	"invest-ledger/pkg/logger"
)

func main() {
	// Load configuration
	cfg, err := config.Load("")
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	log := logger.New("invest-ledger", cfg.Log.Level, cfg.Log.Pretty)

	log.Info().
		Str("mode", cfg.Server.Mode).
		Int("port", cfg.Server.Port).
		Msg("Starting Invest Ledger")

	ctx := context.Background()

	// Initialize PostgreSQL pool
	pool, err := pgStorage.NewPool(ctx, cfg.Database, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to PostgreSQL")
	}
	defer pool.Close()
	log.Info().Msg("PostgreSQL connected")

	// Initialize Redis client
	rdb, err := redisStorage.NewClient(ctx, cfg.Redis, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to Redis")
	}
	defer rdb.Close()
	log.Info().Msg("Redis connected")

	// Initialize repositories
	accountRepo := pgStorage.NewAccountRepo(pool)
	txRepo := pgStorage.NewTransactionRepo(pool)
	verificationRepo := pgStorage.NewVerificationRepo(pool)
	investmentRepo := pgStorage.NewInvestmentRepo(pool)
	auditRepo := pgStorage.NewAuditRepository(pool)
	transactor := pgStorage.NewTransactor(pool)

	// Remote mirror (best-effort dual writes, disabled via config)
	var mirror ports.Mirror
	if cfg.Mirror.Enabled {
		mirror = redisStorage.NewMirrorStore(rdb)
		log.Info().Dur("timeout", cfg.Mirror.Timeout).Msg("Remote mirror enabled")
	} else {
		log.Info().Msg("Remote mirror disabled")
	}

	// Initialize core services
	hashSvc := service.NewArgon2HashService()
	tokenSvc := service.NewJWTTokenService(cfg.JWT.Secret, cfg.JWT.Expiry, cfg.JWT.Issuer)

	startingBalance, err := cfg.Ledger.StartingBalanceDecimal()
	if err != nil {
		log.Fatal().Err(err).Msg("Invalid starting balance")
	}

	// Initialize business services
	accountSvc := service.NewAccountService(accountRepo, hashSvc, mirror, cfg.Mirror.Timeout,
		startingBalance, cfg.Ledger.DefaultCurrency, log)
	ledgerSvc := service.NewLedgerService(accountRepo, txRepo, transactor, mirror,
		cfg.Mirror.Timeout, cfg.Ledger.AutoApproveWithdrawals, log)
	mirrorSvc := service.NewMirrorSyncService(accountRepo, mirror, cfg.Mirror.Timeout, log)
	verificationSvc := service.NewVerificationService(accountRepo, verificationRepo,
		cfg.Ledger.AutoApproveVerifications, log)
	investmentSvc := service.NewInvestmentService(accountRepo, investmentRepo, log)
	reportingSvc := service.NewReportingService(accountRepo, txRepo)
	auditSvc := service.NewAuditService(auditRepo, log)

	// Initialize rate limit store
	rateLimitStore := redisStorage.NewRateLimitStore(rdb)

	// Initialize health checkers
	pgHealth := pgStorage.NewHealthCheck(pool)
	redisHealth := redisStorage.NewHealthCheck(rdb)

	// Load OpenAPI spec for Swagger UI
	if specBytes, err := os.ReadFile("docs/api/openapi.yaml"); err == nil {
		httpHandler.SetSwaggerSpec(specBytes)
		log.Info().Msg("OpenAPI spec loaded for Swagger UI at /swagger")
	} else {
		log.Warn().Err(err).Msg("OpenAPI spec not found, Swagger UI will be unavailable")
	}

	// Setup Gin router with all routes
	router := httpHandler.SetupRouter(httpHandler.RouterDeps{
		AccountSvc:      accountSvc,
		LedgerSvc:       ledgerSvc,
		ReportingSvc:    reportingSvc,
		VerificationSvc: verificationSvc,
		InvestmentSvc:   investmentSvc,
		MirrorSvc:       mirrorSvc,
		TokenSvc:        tokenSvc,
		RateLimitStore:  rateLimitStore,
		HealthCheckers:  []ports.HealthChecker{pgHealth, redisHealth},
		AuditSvc:        auditSvc,
		AdminEmail:      cfg.Admin.Email,
		AdminPassword:   cfg.Admin.Password,
		Logger:          log,
	})

	// HTTP Server with graceful shutdown
	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	srv := &http.Server{
		Addr:    addr,
		Handler: router,
	}

	// Start server in goroutine
	go func() {
		log.Info().Str("addr", addr).Msg("HTTP server listening")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("HTTP server failed")
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info().Msg("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Server forced to shutdown")
	}

	log.Info().Msg("Server exited")
}
