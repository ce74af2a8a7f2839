package main

import (
	"context"
	"database/sql"
	"log"
	"net/http"

	_ "github.com/lib/pq"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"

	"github.com/enseniamelo/tutor-verification-service/internal/adapters/handler"
	"github.com/enseniamelo/tutor-verification-service/internal/adapters/metrics"
	"github.com/enseniamelo/tutor-verification-service/internal/adapters/middleware"
	"github.com/enseniamelo/tutor-verification-service/internal/adapters/repository"
	"github.com/enseniamelo/tutor-verification-service/internal/config"
	"github.com/enseniamelo/tutor-verification-service/internal/core/services"
)

func main() {

	cfg := config.Load()
	ctx := context.Background()

	db, err := sql.Open("postgres", cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("failed to open database: %v", err)
	}
	defer db.Close()

	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddress,
		Password: cfg.RedisPassword,
		DB:       0,
	})

	if err := redisClient.Ping(ctx).Err(); err != nil {
		log.Fatalf("failed to connect to redis: %v", err)
	}
	log.Println("Connected to Redis successfully")

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	workflowMetrics := metrics.NewWorkflowMetrics(registry)

	userRepo := repository.NewUserRepository(db)
	requestRepo := repository.NewVerificationRepository(db)
	profileRepo := repository.NewTutorProfileRepository(db)
	sequenceRepo := repository.NewSequenceRepository(db)

	verificationService := services.NewVerificationService(userRepo, requestRepo, sequenceRepo, workflowMetrics)
	profileService := services.NewTutorProfileService(profileRepo)

	verificationHandler := handler.NewVerificationHandler(verificationService)
	profileHandler := handler.NewTutorProfileHandler(profileService)
	healthHandler := handler.NewHealthHandler(db, redisClient)

	authMiddleware := middleware.NewAuthMiddleware(cfg.JWTPublicKey, redisClient)

	admin := func(h http.HandlerFunc) http.HandlerFunc {
		return authMiddleware.RequireRole([]string{"ADMIN"}, h)
	}
	anyUser := func(h http.HandlerFunc) http.HandlerFunc {
		return authMiddleware.RequireRole([]string{"ADMIN", "STUDENT", "TUTOR"}, h)
	}

	mux := http.NewServeMux()

	// Health endpoints (OpenShift compatible)
	mux.HandleFunc("GET /health", healthHandler.Health)
	mux.HandleFunc("GET /health/ready", healthHandler.Ready)
	mux.HandleFunc("GET /health/live", healthHandler.Live)

	mux.Handle("GET /metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))

	// Verification workflow
	mux.HandleFunc("POST /verifications", anyUser(verificationHandler.Submit))
	mux.HandleFunc("GET /verifications", admin(verificationHandler.List))
	mux.HandleFunc("GET /verifications/{id}", anyUser(verificationHandler.Get))
	mux.HandleFunc("POST /verifications/{id}/approve", admin(verificationHandler.Approve))
	mux.HandleFunc("POST /verifications/{id}/reject", admin(verificationHandler.Reject))
	mux.HandleFunc("DELETE /verifications/{id}", admin(verificationHandler.Delete))
	mux.HandleFunc("GET /users/{id}/verification", anyUser(verificationHandler.GetByUser))

	// Tutor profiles (reads are public, they expose no private data)
	mux.HandleFunc("GET /tutors", profileHandler.List)
	mux.HandleFunc("GET /tutors/{id}", profileHandler.Get)
	mux.HandleFunc("GET /users/{id}/tutor-profile", profileHandler.GetByUser)
	mux.HandleFunc("PATCH /tutors/{id}/biography", anyUser(profileHandler.UpdateBiography))
	mux.HandleFunc("PATCH /tutors/{id}/rating", anyUser(profileHandler.UpdateRating))

	server := middleware.CORSMiddleware(cfg.AllowedOrigins)(mux)

	log.Printf("Starting server on :%s", cfg.Port)
	if err := http.ListenAndServe(":"+cfg.Port, server); err != nil {
		log.Fatalf("Could not start server: %s\n", err)
	}
}
