package main

import (
	"context"
	"database/sql"
	"log/slog"
	"os"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/ulule/limiter/v3"
	"github.com/ulule/limiter/v3/drivers/store/memory"

	migrate "github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	_ "github.com/jackc/pgx/v5/stdlib"

	"github.com/mslade/expensemate/internal/adapters/ai"
	"github.com/mslade/expensemate/internal/adapters/pdftext"
	"github.com/mslade/expensemate/internal/adapters/rates"
	portssvc "github.com/mslade/expensemate/internal/core/ports/services"
	"github.com/mslade/expensemate/internal/core/services"
	"github.com/mslade/expensemate/internal/handlers"
	"github.com/mslade/expensemate/internal/middleware"
	"github.com/mslade/expensemate/internal/platform/config"
	"github.com/mslade/expensemate/internal/repositories/database/pgsql"
	"github.com/mslade/expensemate/pkg/database"
)

// @title ExpenseMate API
// @version 1.0
// @description Expense ingestion, currency normalization and reporting backend.

// @host localhost:8080
// @BasePath /
func main() {
	// Initialize structured logger
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	cfg, err := config.LoadConfig()
	if err != nil {
		logger.Error("Failed to load config", slog.String("error", err.Error()))
		os.Exit(1)
	}

	ctx := context.Background()

	// Initialize database connection pool (for application use)
	dbPool, err := database.NewPgxPool(ctx, cfg.DatabaseURL)
	if err != nil {
		logger.Error("Failed to initialize database pool", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer dbPool.Close()
	logger.Info("Database connection pool established.")

	if err := runMigrations(cfg.DatabaseURL, logger); err != nil {
		logger.Error("Failed to apply migrations", slog.String("error", err.Error()))
		os.Exit(1)
	}

	serviceContainer, err := buildServices(ctx, cfg, logger, dbPool)
	if err != nil {
		logger.Error("Failed to build services", slog.String("error", err.Error()))
		os.Exit(1)
	}

	if cfg.IsProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()

	// Global middleware (logging, recovery, CORS, rate limiting)
	r.Use(middleware.StructuredLoggingMiddleware(logger), gin.Recovery())
	r.Use(cors.Default())

	rate, err := limiter.NewRateFromFormatted(cfg.RateLimit)
	if err != nil {
		logger.Error("Invalid rate limit configuration", slog.String("value", cfg.RateLimit), slog.String("error", err.Error()))
		os.Exit(1)
	}
	r.Use(middleware.RateLimit(limiter.New(memory.NewStore(), rate)))

	if err := r.SetTrustedProxies(nil); err != nil {
		logger.Error("Failed to set trusted proxies", slog.String("error", err.Error()))
		os.Exit(1)
	}

	handlers.RegisterRoutes(r, cfg, serviceContainer)

	logger.Info("Server starting", slog.String("port", cfg.Port))
	if err := r.Run(":" + cfg.Port); err != nil {
		logger.Error("Server failed to run", slog.String("error", err.Error()))
		os.Exit(1)
	}
}

// buildServices wires adapters into services and returns the container the
// handlers consume.
func buildServices(ctx context.Context, cfg *config.Config, logger *slog.Logger, dbPool *pgxpool.Pool) (*portssvc.ServiceContainer, error) {
	expenseRepo := pgsql.NewPgxExpenseRepository(dbPool)

	rateSource := rates.NewECBClient(cfg.RateFeedURL, cfg.RateFetchTimeout)
	rateProvider := services.NewRateProviderService(rateSource, cfg.BaseCurrency, logger)
	converter := services.NewConverterService(rateProvider, cfg.BaseCurrency)

	geminiClient, err := ai.NewGeminiClient(ctx, cfg.GeminiAPIKey, cfg.GeminiModel)
	if err != nil {
		return nil, err
	}

	return &portssvc.ServiceContainer{
		Expense:    services.NewExpenseService(expenseRepo, converter, cfg.FallbackCurrency),
		Reporting:  services.NewReportingService(expenseRepo),
		Extraction: services.NewExtractionService(geminiClient, pdftext.NewExtractor(), cfg.FallbackCurrency),
		Export:     services.NewExportService(expenseRepo, cfg.BaseCurrency),
		Rates:      rateProvider,
		Converter:  converter,
	}, nil
}

// runMigrations applies all pending "up" migrations using a temporary
// database/sql connection over the pgx stdlib driver.
func runMigrations(databaseURL string, logger *slog.Logger) error {
	logger.Info("Running database migrations...")

	migrationDB, err := sql.Open("pgx", databaseURL)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := migrationDB.Close(); cerr != nil {
			logger.Error("Error closing migration DB connection", slog.String("error", cerr.Error()))
		}
	}()
	if err := migrationDB.Ping(); err != nil {
		return err
	}

	driver, err := postgres.WithInstance(migrationDB, &postgres.Config{})
	if err != nil {
		return err
	}

	m, err := migrate.NewWithDatabaseInstance("file://migrations", "postgres", driver)
	if err != nil {
		return err
	}

	err = m.Up()
	if err != nil && err != migrate.ErrNoChange {
		return err
	}

	sourceErr, dbErr := m.Close()
	if sourceErr != nil {
		return sourceErr
	}
	if dbErr != nil {
		return dbErr
	}

	if err == migrate.ErrNoChange {
		logger.Info("No new migrations to apply.")
	} else {
		logger.Info("Database migrations applied successfully.")
	}
	return nil
}
