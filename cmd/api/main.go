package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-redis/redis/v8"

	"github.com/josh-kwaku/securebank/api"
	"github.com/josh-kwaku/securebank/internal/auth"
	"github.com/josh-kwaku/securebank/internal/config"
	"github.com/josh-kwaku/securebank/internal/handler"
	"github.com/josh-kwaku/securebank/internal/ledger"
	"github.com/josh-kwaku/securebank/internal/logging"
	"github.com/josh-kwaku/securebank/internal/middleware"
	"github.com/josh-kwaku/securebank/internal/pricing"
	"github.com/josh-kwaku/securebank/internal/qr"
	"github.com/josh-kwaku/securebank/internal/repository"
	"github.com/josh-kwaku/securebank/internal/router"
	"github.com/josh-kwaku/securebank/internal/service"
	"github.com/josh-kwaku/securebank/internal/service/investment"
	"github.com/josh-kwaku/securebank/internal/service/loan"
	"github.com/josh-kwaku/securebank/internal/service/payment"
	"github.com/josh-kwaku/securebank/migrations"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := logging.Init("securebank-api", cfg.LogLevel, cfg.AppEnv)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	db, err := repository.NewPostgresDB(ctx, cfg.DatabaseURL, repository.PoolConfig{
		MaxOpenConns:     cfg.DBMaxOpenConns,
		MaxIdleConns:     cfg.DBMaxIdleConns,
		ConnMaxLifetimeS: cfg.DBConnMaxLifetimeS,
		ConnMaxIdleTimeS: cfg.DBConnMaxIdleTimeS,
		ConnectAttempts:  cfg.DBConnectAttempts,
	})
	if err != nil {
		slog.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	if cfg.AutoMigrate {
		if err := repository.Migrate(ctx, db, migrations.FS); err != nil {
			slog.Error("failed to apply migrations", "error", err)
			os.Exit(1)
		}
	}

	rdb, err := connectRedis(ctx, cfg)
	if err != nil {
		slog.Error("failed to connect to redis", "error", err)
		os.Exit(1)
	}
	var codes payment.QRCodeStore
	if rdb != nil {
		defer rdb.Close()
		codes = qr.NewStore(rdb, cfg.QRCodeTTL)
	} else {
		slog.Warn("REDIS_ADDR not set, QR code issuance disabled")
	}

	accountRepo := repository.NewAccountRepository(db)
	requestRepo := repository.NewPaymentRequestRepository(db)
	idempotencyRepo := repository.NewIdempotencyRepository(db)
	l := ledger.New(accountRepo, repository.NewTransactionRepository(db))

	accountSvc := service.NewAccountService(accountRepo, l, db, cfg.OpeningBalance)
	paymentSvc := payment.NewService(l, requestRepo, codes, db, cfg)
	loanSvc := loan.NewService(repository.NewLoanRepository(db), l, db)
	investmentSvc := investment.NewService(
		repository.NewInvestmentRepository(db), l, pricing.NewMarkupPricer(cfg.InvestmentMarkups), db,
	)
	issuer := auth.NewIssuer(cfg.JWTSecret, cfg.JWTExpiry)

	maintenance := service.NewMaintenance(requestRepo, idempotencyRepo, logger, cfg.MaintenanceInterval)
	go maintenance.Start(ctx)

	h := router.New(
		router.Config{
			Logger:         logger,
			AllowedOrigins: cfg.CORSAllowedOrigins,
			RequestTimeout: cfg.RequestTimeout,
			OpenAPISpec:    api.OpenAPISpec,
		},
		router.Handlers{
			Health:      handler.NewHealthHandler(db, rdb),
			Auth:        handler.NewAuthHandler(accountSvc, issuer),
			Account:     handler.NewAccountHandler(accountSvc),
			Transaction: handler.NewTransactionHandler(paymentSvc),
			Loan:        handler.NewLoanHandler(loanSvc),
			Investment:  handler.NewInvestmentHandler(investmentSvc),
		},
		middleware.Auth(issuer, accountSvc),
		middleware.Idempotency(idempotencyRepo, cfg.IdempotencyTTL),
	)

	addr := fmt.Sprintf(":%d", cfg.Port)
	srv := &http.Server{
		Addr:              addr,
		Handler:           h,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      cfg.RequestTimeout + 5*time.Second,
		IdleTimeout:       60 * time.Second,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		slog.Info("server started", "addr", addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	<-ctx.Done()

	slog.Info("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("server forced to shutdown", "error", err)
		os.Exit(1)
	}
	slog.Info("server stopped")
}

// connectRedis returns a nil client when REDIS_ADDR is unset.
func connectRedis(ctx context.Context, cfg *config.Config) (*redis.Client, error) {
	if cfg.RedisAddr == "" {
		return nil, nil
	}

	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})
	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := rdb.Ping(pingCtx).Err(); err != nil {
		rdb.Close()
		return nil, fmt.Errorf("connectRedis: %w", err)
	}
	return rdb, nil
}
