package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"milkchess/internal/analysis"
	"milkchess/internal/audit"
	"milkchess/internal/auth"
	"milkchess/internal/config"
	"milkchess/internal/db"
	"milkchess/internal/handlers"
	"milkchess/internal/middleware"
	"milkchess/internal/store"

	gorillahandlers "github.com/gorilla/handlers"
	"github.com/rs/cors"
)

func main() {
	// Load configuration
	env := config.GetEnv()
	cfg, err := config.Load(env)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	log.Printf("Starting milkchess server in %s mode", cfg.Environment)

	// Connect to MongoDB when the cache or the audit log needs it
	var mongodb *db.MongoDB
	if cfg.MongoDB.URI != "" {
		mongodb, err = db.NewMongoDB(cfg.MongoDB.URI, cfg.MongoDB.Database, cfg.CacheTTL())
		if err != nil {
			log.Fatalf("Failed to connect to MongoDB: %v", err)
		}
		defer func() {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			mongodb.Close(ctx)
		}()
		log.Printf("Connected to MongoDB database: %s", cfg.MongoDB.Database)
	}

	cache, err := store.New(cfg, mongodb)
	if err != nil {
		log.Fatalf("Failed to open analysis store: %v", err)
	}
	defer cache.Close()

	svc := analysis.NewService(cache, analysis.Options{
		MaxPerftDepth: cfg.Analysis.MaxPerftDepth,
		BatchWorkers:  cfg.Analysis.BatchWorkers,
		MaxBatchSize:  cfg.Analysis.MaxBatchSize,
	})

	// Initialize auth services
	jwtService := auth.NewJWTService(cfg.Auth.JWTSecret, cfg.TokenTTL())
	clients := auth.NewClientRegistry(cfg.Auth.Clients)
	if cfg.Auth.Enabled {
		log.Printf("Authentication enabled for %d clients", clients.Len())
	}

	rateLimiter := middleware.NewRateLimiter()
	defer rateLimiter.Stop()

	streamHandler := handlers.NewAnalysisStreamHandler(svc)
	router := newRouter(routeDeps{
		cfg:         cfg,
		svc:         svc,
		jwt:         jwtService,
		clients:     clients,
		audit:       audit.NewLogger(mongodb),
		rateLimiter: rateLimiter,
		stream:      streamHandler,
	})

	// CORS middleware
	corsHandler := cors.New(cors.Options{
		AllowedOrigins: cfg.CORS.AllowedOrigins,
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Content-Type", "Authorization"},
	})

	// Create server
	addr := cfg.Addr()
	server := &http.Server{
		Addr:         addr,
		Handler:      gorillahandlers.LoggingHandler(os.Stdout, gorillahandlers.RecoveryHandler(gorillahandlers.PrintRecoveryStack(true))(corsHandler.Handler(router))),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in goroutine
	go func() {
		log.Printf("Server listening on %s", addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server error: %v", err)
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down server...")
	streamHandler.GetHub().Shutdown()

	// Graceful shutdown
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Printf("Server shutdown error: %v", err)
	}

	log.Println("Server stopped")
}
