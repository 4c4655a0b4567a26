package main

import (
	"context"
	"log"
	"log/slog"
	"net/http"
	"os"
	"strings"
	"time"

	"promptstash/internal/auth"
	"promptstash/internal/config"
	"promptstash/internal/handler"
	"promptstash/internal/middleware"
	"promptstash/internal/repository/postgres"
	"promptstash/internal/service"

	"github.com/joho/godotenv"
	"github.com/rs/cors"
)

func main() {
	// Load .env file (silently ignore if it doesn't exist - for production)
	_ = godotenv.Load()

	// Load configuration
	cfg := config.Load()

	// Setup structured logging
	logLevel := slog.LevelInfo
	if cfg.Environment == "dev" {
		logLevel = slog.LevelDebug
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: logLevel,
	}))
	slog.SetDefault(logger)

	logger.Info("server starting",
		"environment", cfg.Environment,
		"port", cfg.Port,
		"table_prefix", cfg.TablePrefix,
	)

	// Create JWT verifier for the identity provider
	jwtVerifier, err := auth.NewJWTVerifier(cfg.JWKSURL, logger)
	if err != nil {
		log.Fatalf("Failed to create JWT verifier: %v", err)
	}
	defer jwtVerifier.Close()

	// Create pgx connection pool
	ctx := context.Background()
	pool, err := postgres.CreateConnectionPool(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("Failed to create connection pool: %v", err)
	}
	defer pool.Close()

	logger.Info("database connected",
		"max_conns", 25,
		"min_conns", 5,
	)

	// Create repositories
	repoConfig := &postgres.RepositoryConfig{
		Pool:   pool,
		Tables: postgres.NewTableNames(cfg.TablePrefix),
		Logger: logger,
	}
	promptRepo := postgres.NewPromptRepository(repoConfig)
	folderRepo := postgres.NewFolderRepository(repoConfig)
	customerRepo := postgres.NewCustomerRepository(repoConfig)
	txManager := postgres.NewTransactionManager(pool)

	// Create services
	customerService := service.NewCustomerService(customerRepo, logger)
	promptService := service.NewPromptService(promptRepo, folderRepo, customerService, logger)
	folderService := service.NewFolderService(folderRepo, promptRepo, txManager, logger)
	billingService := service.NewBillingService(
		customerRepo,
		customerService,
		txManager,
		cfg.CheckoutURL,
		cfg.BillingWebhookSecret,
		logger,
	)

	// Create handlers
	promptHandler := handler.NewPromptHandler(promptService, logger)
	folderHandler := handler.NewFolderHandler(folderService, logger)
	customerHandler := handler.NewCustomerHandler(customerService, logger)
	billingHandler := handler.NewBillingHandler(billingService, logger)

	logger.Info("services initialized")

	// Create HTTP router (Go 1.22+ enhanced patterns)
	mux := http.NewServeMux()

	// Health check and published plan limits (no auth)
	mux.HandleFunc("GET /health", handler.HealthCheck)
	mux.HandleFunc("GET /api/limits", handler.Limits)

	// Prompt routes
	mux.HandleFunc("GET /api/prompts", promptHandler.ListPrompts)
	mux.HandleFunc("POST /api/prompts", promptHandler.CreatePrompt)
	mux.HandleFunc("PATCH /api/prompts/{id}", promptHandler.UpdatePrompt)
	mux.HandleFunc("DELETE /api/prompts/{id}", promptHandler.DeletePrompt)

	// Folder routes
	mux.HandleFunc("GET /api/folders", folderHandler.ListFolders)
	mux.HandleFunc("POST /api/folders", folderHandler.CreateFolder)
	mux.HandleFunc("PATCH /api/folders/{id}", folderHandler.UpdateFolder)
	mux.HandleFunc("DELETE /api/folders/{id}", folderHandler.DeleteFolder)

	// Customer routes
	mux.HandleFunc("GET /api/customers/me", customerHandler.GetMe)

	// Billing routes (webhook is signature-authenticated, not token-authenticated)
	mux.HandleFunc("POST /api/billing/checkout", billingHandler.CreateCheckout)
	mux.HandleFunc("POST /api/billing/webhook", billingHandler.Webhook)

	// Build middleware chain
	var httpHandler http.Handler = mux

	// Apply middleware in reverse order (they wrap each other)
	// Order: CORS → RequestID → Recovery → Auth → Routes
	httpHandler = middleware.Auth(jwtVerifier, logger)(httpHandler)
	httpHandler = middleware.Recovery(logger)(httpHandler)
	httpHandler = middleware.RequestID()(httpHandler)

	// CORS - Must be outermost to handle OPTIONS pre-flight requests
	corsHandler := cors.New(cors.Options{
		AllowedOrigins:   strings.Split(cfg.CORSOrigins, ","),
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Origin", "Content-Type", "Accept", "Authorization"},
		AllowCredentials: true,
	})
	httpHandler = corsHandler.Handler(httpHandler)

	// Create HTTP server
	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      httpHandler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server
	logger.Info("server listening", "port", cfg.Port)
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatalf("Failed to start server: %v", err)
	}
}
