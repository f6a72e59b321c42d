package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/akashverma712/shiksha-setu-backend/internal/academics"
	"github.com/akashverma712/shiksha-setu-backend/internal/api"
	"github.com/akashverma712/shiksha-setu-backend/internal/auth"
	"github.com/akashverma712/shiksha-setu-backend/internal/email"
	"github.com/akashverma712/shiksha-setu-backend/internal/shared"
	"github.com/akashverma712/shiksha-setu-backend/internal/students"
)

func main() {
	log.Println("INFO: Starting Shiksha Setu API...")

	// 1. Configuration
	if err := shared.LoadEnv(".env"); err != nil {
		log.Printf("INFO: No .env file loaded: %v", err)
	}
	cfg, err := shared.LoadConfig()
	if err != nil {
		log.Fatalf("FATAL: Failed to load configuration: %v", err)
	}
	shared.PrintConfig(cfg)

	// 2. MongoDB
	client, db, err := shared.ConnectMongoDB(&cfg.MongoDB)
	if err != nil {
		log.Fatalf("FATAL: Failed to connect to MongoDB: %v", err)
	}
	defer func() {
		if err := shared.DisconnectMongoDB(client); err != nil {
			log.Printf("ERROR: Failed to disconnect MongoDB: %v", err)
		}
	}()

	indexCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	if err := shared.EnsureIndexes(indexCtx, db); err != nil {
		cancel()
		log.Fatalf("FATAL: Failed to create indexes: %v", err)
	}
	cancel()

	// 3. Mail Backend
	var mailer email.Mailer
	switch cfg.Mail.Backend {
	case "sendgrid":
		mailer = email.NewSendGridMailer(cfg.Mail.SendGridKey, cfg.AppName, cfg.Mail.FromEmail)
	default:
		if !cfg.IsDevelopment() {
			log.Printf("WARNING: console mail backend in %s environment, OTP codes go to the process log", cfg.Environment)
		}
		mailer = email.NewConsoleMailer()
	}

	// 4. Services and Routes
	services := &api.Services{
		Auth:      auth.NewService(db, cfg, mailer),
		Academics: academics.NewService(db, cfg.Risk),
		Students:  students.NewService(db),
	}
	router := api.SetupRoutes(cfg, services)

	// 5. Configure Server
	server := &http.Server{
		Addr:         ":" + cfg.HTTPPort,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// 6. Start Server in a Goroutine
	go func() {
		log.Printf("INFO: API listening on port %s", cfg.HTTPPort)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("FATAL: HTTP server error: %v", err)
		}
	}()

	// 7. Graceful Shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("INFO: Shutting down API...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer shutdownCancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Printf("ERROR: Forced shutdown: %v", err)
	}

	log.Println("INFO: API stopped.")
}
