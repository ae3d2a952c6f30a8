// Package main is the entry point for the timebill API server.
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"timebill/internal/core/security"
	"timebill/internal/domain/auth"
	"timebill/internal/domain/catalogs/business"
	"timebill/internal/domain/catalogs/client"
	"timebill/internal/domain/catalogs/holiday"
	"timebill/internal/domain/catalogs/internalstaff"
	"timebill/internal/domain/catalogs/ratecard"
	"timebill/internal/domain/reports"
	"timebill/internal/domain/timesheet"
	v1 "timebill/internal/infrastructure/http/v1"
	"timebill/internal/infrastructure/notify"
	"timebill/internal/infrastructure/storage/postgres"
	"timebill/internal/infrastructure/storage/postgres/auth_repo"
	"timebill/internal/infrastructure/storage/postgres/catalog_repo"
	"timebill/internal/infrastructure/storage/postgres/timesheet_repo"
	"timebill/pkg/logger"
	"timebill/pkg/numerator"
)

func main() {
	// .env is optional; real deployments set the environment directly
	_ = godotenv.Load()

	log, err := logger.New(logger.Config{
		Level:       getEnv("LOG_LEVEL", "info"),
		Development: getEnv("APP_ENV", "development") == "development",
	})
	if err != nil {
		fmt.Printf("failed to initialize logger: %v\n", err)
		os.Exit(1)
	}

	ctx := context.Background()
	log.Info("starting timebill server")

	// --- Database ---
	dsn := mustEnv("DATABASE_URL")
	pool, err := postgres.NewPool(ctx, postgres.DefaultPoolConfig(dsn))
	if err != nil {
		log.Fatalw("failed to connect to database", "error", err)
	}
	defer pool.Close()
	log.Info("database connection established")

	txManager := postgres.NewTxManager(pool)

	// --- Cross-cutting services ---
	numeratorService := numerator.New(pool)
	flags := security.NewInMemoryFlags()

	auditService, err := postgres.NewAuditService(txManager)
	if err != nil {
		log.Fatalw("failed to initialize audit service", "error", err)
	}
	outboxPublisher := postgres.NewOutboxPublisher(txManager)

	// --- Repositories ---
	businessRepo := catalog_repo.NewBusinessRepo(txManager)
	clientRepo := catalog_repo.NewClientRepo(txManager)
	staffRepo := catalog_repo.NewInternalUserRepo(txManager)
	rateCardRepo := catalog_repo.NewRateCardRepo(txManager)
	holidayRepo := catalog_repo.NewHolidayRepo(txManager)
	timesheetRepo := timesheet_repo.NewTimesheetRepo(txManager)
	userRepo := auth_repo.NewUserRepo(txManager)

	// --- Domain services ---
	businessService := business.NewService(businessRepo, txManager, numeratorService)
	clientService := client.NewService(clientRepo, txManager, numeratorService)
	staffService := internalstaff.NewService(staffRepo, txManager, numeratorService)
	rateCardService := ratecard.NewService(rateCardRepo, txManager, numeratorService)
	holidayService := holiday.NewService(holidayRepo, txManager, numeratorService)

	timesheetService := timesheet.NewService(
		timesheetRepo,
		rateCardService,
		txManager,
		numeratorService,
		outboxPublisher,
		auditService,
	)
	reportsService := reports.NewService(timesheetRepo, rateCardService, flags)

	jwtSecret := getEnv("JWT_SECRET", "your-secret-key-change-in-production")
	jwtService := auth.NewJWTService(auth.DefaultJWTConfig(jwtSecret))
	authService := auth.NewService(
		userRepo,
		businessService,
		flags,
		txManager,
		jwtService,
		auth.DefaultServiceConfig(),
	)

	// --- Notification relay ---
	dispatcher := notify.NewDispatcher(notify.NewLoggingNotifier(log), log)
	relay := postgres.NewOutboxRelay(pool, getEnvInt("OUTBOX_BATCH_SIZE", 100), dispatcher)
	relayInterval := getEnvDuration("OUTBOX_POLL_INTERVAL", 5*time.Second)
	relayCtx, stopRelay := context.WithCancel(ctx)
	defer stopRelay()
	go notify.NewRunner(relay, relayInterval, log).Run(relayCtx)

	// --- Router ---
	router := v1.NewRouter(v1.RouterConfig{
		Pool:                 pool,
		Logger:               log,
		JWTValidator:         jwtService,
		AuthService:          authService,
		BusinessService:      businessService,
		ClientService:        clientService,
		InternalStaffService: staffService,
		RateCardService:      rateCardService,
		HolidayService:       holidayService,
		TimesheetService:     timesheetService,
		ReportsService:       reportsService,
	})

	// --- HTTP Server ---
	port := getEnv("APP_PORT", "8080")
	server := &http.Server{
		Addr:         ":" + port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Infow("server starting", "port", port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalw("server failed", "error", err)
		}
	}()

	// --- Graceful shutdown ---
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down server...")
	stopRelay()

	// Give outstanding requests 30 seconds to complete
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Fatalw("server forced to shutdown", "error", err)
	}

	log.Info("server stopped")
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func mustEnv(key string) string {
	value := os.Getenv(key)
	if value == "" {
		fmt.Printf("required environment variable %s not set\n", key)
		os.Exit(1)
	}
	return value
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		var result int
		if _, err := fmt.Sscanf(value, "%d", &result); err == nil {
			return result
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}
