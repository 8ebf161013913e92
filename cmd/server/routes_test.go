package main

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"milkchess/internal/analysis"
	"milkchess/internal/audit"
	"milkchess/internal/auth"
	"milkchess/internal/config"
	"milkchess/internal/game"
	"milkchess/internal/handlers"
	"milkchess/internal/middleware"
	"milkchess/internal/store"
)

func newTestRouter(t *testing.T) (http.Handler, *auth.JWTService) {
	t.Helper()
	cfg := &config.Config{Environment: "test"}
	cfg.Auth.Enabled = true
	cfg.Auth.JWTSecret = "routes-test-secret"
	cfg.Analysis.MaxPerftDepth = 2
	cfg.Analysis.MaxBatchSize = 4

	svc := analysis.NewService(store.Nop{}, analysis.Options{MaxPerftDepth: 2, BatchWorkers: 2, MaxBatchSize: 4})
	jwtService := auth.NewJWTService(cfg.Auth.JWTSecret, time.Minute)
	rateLimiter := middleware.NewRateLimiter()
	stream := handlers.NewAnalysisStreamHandler(svc)
	t.Cleanup(func() {
		stream.GetHub().Shutdown()
		rateLimiter.Stop()
	})

	return newRouter(routeDeps{
		cfg:         cfg,
		svc:         svc,
		jwt:         jwtService,
		clients:     auth.NewClientRegistry(nil),
		audit:       audit.NewLogger(nil),
		rateLimiter: rateLimiter,
		stream:      stream,
	}), jwtService
}

func TestPositionLimitsCountPerClient(t *testing.T) {
	router, jwtService := newTestRouter(t)

	send := func(path, client string) int {
		body := `{"position":"` + game.StartPosition + `"}`
		if strings.HasSuffix(path, "/perft") {
			body = `{"position":"` + game.StartPosition + `","depth":1}`
		}
		req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
		req.RemoteAddr = "10.0.0.1:4000"
		if client != "" {
			token, err := jwtService.GenerateAccessToken(client)
			if err != nil {
				t.Fatal(err)
			}
			req.Header.Set("Authorization", "Bearer "+token)
		}
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)
		return rec.Code
	}

	if code := send("/api/positions/perft", ""); code != http.StatusUnauthorized {
		t.Fatalf("anonymous perft: status = %d, want 401", code)
	}
	for i := 0; i < middleware.HeavyLimit.Max; i++ {
		if code := send("/api/positions/perft", "alpha"); code != http.StatusOK {
			t.Fatalf("alpha perft %d: status = %d", i+1, code)
		}
	}
	if code := send("/api/positions/perft", "alpha"); code != http.StatusTooManyRequests {
		t.Fatalf("alpha over limit: status = %d, want 429", code)
	}
	if code := send("/api/positions/perft", "beta"); code != http.StatusOK {
		t.Fatalf("beta from the same address: status = %d, want 200", code)
	}
	if code := send("/api/positions/analyze", "alpha"); code != http.StatusOK {
		t.Fatalf("alpha analyze: status = %d, want 200", code)
	}
}

func TestPublicRoutes(t *testing.T) {
	router, _ := newTestRouter(t)
	for _, path := range []string{"/health", "/docs"} {
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
		if rec.Code != http.StatusOK {
			t.Errorf("GET %s: status = %d", path, rec.Code)
		}
	}
}
