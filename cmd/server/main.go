package main

import (
	"database/sql"
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	_ "github.com/lib/pq"

	httpapi "closet-backend/internal/api/http"
	"closet-backend/internal/config"
	"closet-backend/internal/jobs"
	"closet-backend/internal/logger"
	"closet-backend/internal/repository/postgres"
	"closet-backend/internal/scheduler"
	"closet-backend/internal/security"
	"closet-backend/internal/service"
	"closet-backend/internal/storage"
)

func main() {
	// Local development convenience; missing .env is fine.
	_ = godotenv.Load()

	configPath := flag.String("config", "config/config.yaml", "Path to configuration file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	logger.Initialize(cfg.Log.Level, cfg.Log.Format)
	logger.Info("Starting Closet Backend...", "log_level", cfg.Log.Level, "log_format", cfg.Log.Format)
	logger.Info("Server configuration", "address", cfg.GetServerAddress())
	logger.Info("Database configuration", "host", cfg.Database.Host, "port", cfg.Database.Port, "database", cfg.Database.Database, "user", cfg.Database.User)

	db, err := sql.Open("postgres", cfg.GetDatabaseConnectionString())
	if err != nil {
		logger.Error("Failed to connect to database", "error", err)
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	if err := db.Ping(); err != nil {
		logger.Error("Failed to ping database", "error", err)
		log.Fatalf("Failed to ping database: %v", err)
	}
	logger.Info("Database connection established")

	store := postgres.NewStore(db)

	tokenManager := security.NewTokenManager(cfg.JWT.Secret)

	blobs, err := storage.NewLocalStorage(cfg.Storage.BaseURL, cfg.Storage.UploadDir)
	if err != nil {
		logger.Error("Failed to initialize storage", "error", err)
		log.Fatalf("Failed to initialize storage: %v", err)
	}
	logger.Info("Using local storage", "upload_dir", cfg.Storage.UploadDir)

	emailSvc := service.NewEmailService(cfg.Email)
	garmentSvc := service.NewGarmentService(store.Repositories, store, blobs)
	customerSvc := service.NewCustomerService(store.Repositories, store)
	reservationSvc := service.NewReservationService(store.Repositories, store)
	statsSvc := service.NewStatsService(store.Repositories)
	sessionSvc := service.NewSessionService(tokenManager, cfg.JWT)

	router := httpapi.NewRouter(httpapi.RouterDeps{
		Garments:     garmentSvc,
		Customers:    customerSvc,
		Reservations: reservationSvc,
		Stats:        statsSvc,
		Sessions:     sessionSvc,
		Tokens:       tokenManager,
		Blobs:        blobs,
	})

	jobRunner := jobs.NewJobRunner(store.Repositories, emailSvc, cfg)
	cronScheduler := scheduler.NewScheduler(jobRunner)
	cronScheduler.Start()
	defer cronScheduler.Stop()

	server := &http.Server{
		Addr:    cfg.GetServerAddress(),
		Handler: router,
	}

	go func() {
		logger.Info("HTTP server listening", "address", cfg.GetServerAddress())
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("HTTP server error", "error", err)
			log.Fatalf("Failed to serve: %v", err)
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	<-sigChan

	logger.Info("Shutting down...")
	if err := server.Close(); err != nil {
		logger.Error("Server shutdown error", "error", err)
	}
	logger.Info("Server stopped. Goodbye!")
}
