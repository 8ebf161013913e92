package main

import (
	"net/http"

	"milkchess/internal/analysis"
	"milkchess/internal/audit"
	"milkchess/internal/auth"
	"milkchess/internal/config"
	"milkchess/internal/game"
	"milkchess/internal/handlers"
	"milkchess/internal/middleware"

	"github.com/gorilla/mux"
)

type routeDeps struct {
	cfg         *config.Config
	svc         *analysis.Service
	jwt         *auth.JWTService
	clients     *auth.ClientRegistry
	audit       *audit.Logger
	rateLimiter *middleware.RateLimiter
	stream      *handlers.AnalysisStreamHandler
}

func newRouter(d routeDeps) *mux.Router {
	cfg := d.cfg
	authMiddleware := middleware.NewAuthMiddleware(d.jwt, cfg.Auth.Enabled)
	positionHandler := handlers.NewPositionHandler(d.svc)
	tokenHandler := handlers.NewTokenHandler(d.clients, d.jwt, d.audit)

	router := mux.NewRouter()
	router.Use(middleware.SecurityHeaders(cfg.Environment == "prod"))

	// WebSocket upgrades are counted per address before the token is checked
	ws := router.PathPrefix("/ws").Subrouter()
	ws.Use(d.rateLimiter.Middleware(middleware.WebSocketLimit, middleware.ByIP))
	ws.Use(authMiddleware.RequireAuth)
	ws.HandleFunc("/analyze", d.stream.HandleWebSocket).Methods("GET")

	api := router.PathPrefix("/api").Subrouter()

	// Auth routes (public)
	if cfg.Auth.Enabled {
		tokenRoute := api.PathPrefix("/auth").Subrouter()
		tokenRoute.Use(d.rateLimiter.Middleware(middleware.TokenLimit, middleware.ByIP))
		tokenRoute.HandleFunc("/token", tokenHandler.IssueToken).Methods("POST")
	}

	// Position routes. Limits wrap each handler so they run inside
	// RequireAuth and count per client.
	positions := api.PathPrefix("/positions").Subrouter()
	positions.Use(authMiddleware.RequireAuth)
	analysisLimit := d.rateLimiter.Middleware(middleware.AnalysisLimit, middleware.ByClient)
	heavyLimit := d.rateLimiter.Middleware(middleware.HeavyLimit, middleware.ByClient)
	positions.Handle("/analyze", analysisLimit(http.HandlerFunc(positionHandler.Analyze))).Methods("POST")
	positions.Handle("/moves", analysisLimit(http.HandlerFunc(positionHandler.Moves))).Methods("POST")
	positions.Handle("/state", analysisLimit(http.HandlerFunc(positionHandler.State))).Methods("POST")
	positions.Handle("/batch", heavyLimit(http.HandlerFunc(positionHandler.Batch))).Methods("POST")
	positions.Handle("/perft", heavyLimit(http.HandlerFunc(positionHandler.Perft))).Methods("POST")

	// API Documentation
	router.HandleFunc("/docs", handlers.ServeAPIDocs(handlers.DocsData{
		StartPosition: game.StartPosition,
		AuthEnabled:   cfg.Auth.Enabled,
		MaxBatchSize:  cfg.Analysis.MaxBatchSize,
		MaxPerftDepth: cfg.Analysis.MaxPerftDepth,
	})).Methods("GET")

	router.HandleFunc("/health", handlers.Health(d.stream.GetHub())).Methods("GET")

	return router
}
