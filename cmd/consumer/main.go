package main

import (
	"context"
	"database/sql"
	"encoding/json"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/lib/pq"

	"github.com/enseniamelo/tutor-verification-service/internal/adapters/messaging"
	"github.com/enseniamelo/tutor-verification-service/internal/adapters/repository"
	"github.com/enseniamelo/tutor-verification-service/internal/config"
	"github.com/enseniamelo/tutor-verification-service/internal/core/services"
)

func main() {
	log.Println("Starting platform event consumer...")

	cfg := config.LoadConsumerConfig()

	db, err := sql.Open("postgres", cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("consumer: failed to open database: %v", err)
	}
	defer db.Close()

	broker, err := messaging.NewRabbitMQBroker(cfg.RabbitMQURL, cfg.QueueName)
	if err != nil {
		log.Fatalf("consumer: failed to connect to RabbitMQ: %v", err)
	}
	defer broker.Close()
	log.Println("consumer: connected to RabbitMQ")

	userRepo := repository.NewUserRepository(db)
	requestRepo := repository.NewVerificationRepository(db)
	sequenceRepo := repository.NewSequenceRepository(db)

	verificationService := services.NewVerificationService(userRepo, requestRepo, sequenceRepo, nil)
	consumer := messaging.NewEventConsumer(broker, verificationService)

	// Start health check HTTP server
	healthMux := http.NewServeMux()
	healthMux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_ = json.NewEncoder(w).Encode(map[string]string{
			"status":    "UP",
			"component": "event-consumer",
		})
	})

	healthServer := &http.Server{
		Addr:    ":" + cfg.HealthPort,
		Handler: healthMux,
	}

	go func() {
		log.Printf("consumer: starting health check server on :%s", cfg.HealthPort)
		if err := healthServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Printf("consumer: health server error: %v", err)
		}
	}()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	errChan := make(chan error, 1)

	go func() {
		log.Println("consumer: waiting for events...")
		if err := consumer.Run(ctx); err != nil && err != context.Canceled {
			log.Printf("consumer: worker error: %v", err)
			errChan <- err
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigChan:
		log.Printf("consumer: received signal %v, initiating shutdown...", sig)
		cancel()

	case err := <-errChan:
		log.Printf("consumer: fatal error, shutting down: %v", err)
		cancel()
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	if err := healthServer.Shutdown(shutdownCtx); err != nil {
		log.Printf("consumer: error shutting down health server: %v", err)
	}

	log.Println("consumer: shutdown complete")
}
