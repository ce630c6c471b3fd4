package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	"go.opentelemetry.io/otel/sdk/trace"

	"github.com/codelens-ai/codelens/internal/config"
	"github.com/codelens-ai/codelens/internal/gateway"
	"github.com/codelens-ai/codelens/internal/metrics"
	"github.com/codelens-ai/codelens/internal/provider"
	"github.com/codelens-ai/codelens/internal/review"

	_ "github.com/codelens-ai/codelens/docs" // swagger docs
)

// @title AI Code Reviewer API
// @version 1.0
// @description Accepts a source code snippet and returns a structured AI-generated review.

// @contact.name API Support

// @license.name MIT
// @license.url https://opensource.org/licenses/MIT

// @host localhost:3000
// @BasePath /

func main() {
	// Load .env when present; real environments set variables directly.
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.Printf("WARN: could not load .env file: %v", err)
	}

	// Initialize OpenTelemetry
	if err := initTracer(); err != nil {
		log.Fatalf("Failed to initialize tracer: %v", err)
	}

	cfg, err := config.Load("")
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	if !cfg.HasAPIKey() {
		// The review pipeline fails the credential precondition per request;
		// the status endpoint stays reachable so deployments can diagnose.
		log.Println("WARN: GOOGLE_GEMINI_KEY is not set; review requests will fail until it is configured")
	}

	// Initialize the review pipeline
	geminiClient := provider.NewGeminiClient(cfg.GeminiAPIKey, cfg.Model)
	reviewService := review.NewService(geminiClient, cfg.HasAPIKey())

	reviewMetrics, err := metrics.NewReviewMetrics()
	if err != nil {
		log.Fatalf("Failed to initialize metrics: %v", err)
	}

	// Initialize gateway layer
	handler := gateway.NewHandler(reviewService, reviewMetrics, cfg.IsProduction())
	router := gateway.NewRouter(handler, cfg.CORSOrigin)

	server := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.Port),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 120 * time.Second, // provider calls are synchronous
		IdleTimeout:  60 * time.Second,
	}

	// Start server in goroutine
	go func() {
		log.Printf("Starting AI Code Reviewer API server on port %s (env: %s)\n", cfg.Port, cfg.Environment)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")

	// Graceful shutdown with timeout
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	// Shutdown HTTP server
	if err := server.Shutdown(ctx); err != nil {
		log.Fatalf("Server forced to shutdown: %v", err)
	}

	log.Println("Server exited")
}

// initTracer initializes OpenTelemetry tracing
func initTracer() error {
	exporter, err := stdouttrace.New(stdouttrace.WithPrettyPrint())
	if err != nil {
		return fmt.Errorf("failed to create stdout exporter: %w", err)
	}

	tp := trace.NewTracerProvider(
		trace.WithBatcher(exporter),
	)

	otel.SetTracerProvider(tp)

	return nil
}
