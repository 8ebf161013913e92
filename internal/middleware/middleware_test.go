package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"milkchess/internal/auth"
)

func okHandler(w http.ResponseWriter, r *http.Request) {
	client, _ := GetClientFromContext(r.Context())
	w.Write([]byte(client))
}

func TestRequireAuth(t *testing.T) {
	jwtService := auth.NewJWTService("test-secret", time.Minute)
	token, err := jwtService.GenerateAccessToken("bridge")
	if err != nil {
		t.Fatal(err)
	}
	handler := NewAuthMiddleware(jwtService, true).RequireAuth(http.HandlerFunc(okHandler))

	tests := []struct {
		name   string
		header string
		query  string
		status int
		body   string
	}{
		{"bearer token", "Bearer " + token, "", http.StatusOK, "bridge"},
		{"query token", "", "?token=" + token, http.StatusOK, "bridge"},
		{"missing", "", "", http.StatusUnauthorized, ""},
		{"bad scheme", "Basic " + token, "", http.StatusUnauthorized, ""},
		{"bad token", "Bearer nope", "", http.StatusUnauthorized, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/api/positions/state"+tt.query, nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, req)
			if rec.Code != tt.status {
				t.Fatalf("status = %d, want %d", rec.Code, tt.status)
			}
			if tt.status == http.StatusOK && rec.Body.String() != tt.body {
				t.Fatalf("client = %q, want %q", rec.Body.String(), tt.body)
			}
		})
	}
}

func TestRequireAuthDisabled(t *testing.T) {
	handler := NewAuthMiddleware(nil, false).RequireAuth(http.HandlerFunc(okHandler))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
}

func TestRateLimiterTake(t *testing.T) {
	rl := NewRateLimiter()
	defer rl.Stop()
	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	rl.now = func() time.Time { return now }

	limit := Limit{Name: "test", Max: 2, Window: time.Minute}
	for i := 0; i < 2; i++ {
		if q := rl.take(limit, "ip:1.2.3.4"); !q.allowed {
			t.Fatalf("request %d rejected", i+1)
		}
	}
	if q := rl.take(limit, "ip:1.2.3.4"); q.allowed || q.remaining != 0 {
		t.Fatalf("third request: allowed=%v remaining=%d", q.allowed, q.remaining)
	}
	if q := rl.take(limit, "ip:5.6.7.8"); !q.allowed {
		t.Fatal("other caller rejected")
	}
	if q := rl.take(Limit{Name: "other", Max: 1, Window: time.Minute}, "ip:1.2.3.4"); !q.allowed {
		t.Fatal("separate limit shares a counter")
	}

	now = now.Add(time.Minute)
	if q := rl.take(limit, "ip:1.2.3.4"); !q.allowed || q.remaining != 1 {
		t.Fatalf("after window: allowed=%v remaining=%d", q.allowed, q.remaining)
	}

	now = now.Add(2 * time.Minute)
	rl.sweep()
	if n := len(rl.windows); n != 0 {
		t.Fatalf("%d windows left after sweep", n)
	}
}

func TestRateLimitMiddleware(t *testing.T) {
	rl := NewRateLimiter()
	defer rl.Stop()

	handler := rl.Middleware(Limit{Name: "test", Max: 1, Window: time.Minute}, ByIP)(http.HandlerFunc(okHandler))

	first := httptest.NewRecorder()
	handler.ServeHTTP(first, httptest.NewRequest(http.MethodGet, "/", nil))
	if first.Code != http.StatusOK {
		t.Fatalf("first status = %d", first.Code)
	}
	if got := first.Header().Get("X-RateLimit-Remaining"); got != "0" {
		t.Fatalf("X-RateLimit-Remaining = %q, want 0", got)
	}

	second := httptest.NewRecorder()
	handler.ServeHTTP(second, httptest.NewRequest(http.MethodGet, "/", nil))
	if second.Code != http.StatusTooManyRequests {
		t.Fatalf("second status = %d, want 429", second.Code)
	}
	if second.Header().Get("Retry-After") == "" {
		t.Fatal("missing Retry-After")
	}
	if !strings.Contains(second.Body.String(), `"limit":"test"`) {
		t.Fatalf("body = %s", second.Body.String())
	}
}

func TestRateLimitByClient(t *testing.T) {
	jwtService := auth.NewJWTService("test-secret", time.Minute)
	bearer := func(client string) string {
		token, err := jwtService.GenerateAccessToken(client)
		if err != nil {
			t.Fatal(err)
		}
		return "Bearer " + token
	}

	tests := []struct {
		name    string
		enabled bool
		callers []string
		want    []int
	}{
		// Two clients behind one address each get their own window.
		{"clients share an address", true, []string{"alpha", "beta", "alpha", "beta"},
			[]int{http.StatusOK, http.StatusOK, http.StatusTooManyRequests, http.StatusTooManyRequests}},
		{"anonymous falls back to address", false, []string{"", ""},
			[]int{http.StatusOK, http.StatusTooManyRequests}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rl := NewRateLimiter()
			defer rl.Stop()
			limited := rl.Middleware(Limit{Name: "analysis", Max: 1, Window: time.Minute}, ByClient)(http.HandlerFunc(okHandler))
			handler := NewAuthMiddleware(jwtService, tt.enabled).RequireAuth(limited)

			for i, caller := range tt.callers {
				req := httptest.NewRequest(http.MethodPost, "/api/positions/analyze", nil)
				req.RemoteAddr = "10.0.0.1:4000"
				if caller != "" {
					req.Header.Set("Authorization", bearer(caller))
				}
				rec := httptest.NewRecorder()
				handler.ServeHTTP(rec, req)
				if rec.Code != tt.want[i] {
					t.Fatalf("request %d (%q): status = %d, want %d", i, caller, rec.Code, tt.want[i])
				}
			}
		})
	}
}

func TestKeyFuncs(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.RemoteAddr = "10.0.0.1:4000"
	if got := ByClient(req); got != "ip:10.0.0.1" {
		t.Fatalf("anonymous ByClient = %q", got)
	}
	req = req.WithContext(context.WithValue(req.Context(), ClientContextKey, "bridge"))
	if got := ByClient(req); got != "client:bridge" {
		t.Fatalf("ByClient = %q", got)
	}
	if got := ByIP(req); got != "ip:10.0.0.1" {
		t.Fatalf("ByIP = %q", got)
	}
}

func TestGetClientIP(t *testing.T) {
	tests := []struct {
		name    string
		headers map[string]string
		remote  string
		want    string
	}{
		{"remote addr", nil, "10.0.0.1:5555", "10.0.0.1"},
		{"forwarded chain", map[string]string{"X-Forwarded-For": "203.0.113.7, 10.0.0.2"}, "10.0.0.1:5555", "203.0.113.7"},
		{"forwarded single", map[string]string{"X-Forwarded-For": "203.0.113.8"}, "10.0.0.1:5555", "203.0.113.8"},
		{"real ip", map[string]string{"X-Real-IP": "198.51.100.4"}, "10.0.0.1:5555", "198.51.100.4"},
		{"forwarded with port", map[string]string{"X-Forwarded-For": "203.0.113.9:443"}, "10.0.0.1:5555", "203.0.113.9"},
		{"forwarded garbage", map[string]string{"X-Forwarded-For": "unknown"}, "10.0.0.1:5555", "10.0.0.1"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			req.RemoteAddr = tt.remote
			for k, v := range tt.headers {
				req.Header.Set(k, v)
			}
			if got := GetClientIP(req); got != tt.want {
				t.Fatalf("GetClientIP() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestSecurityHeaders(t *testing.T) {
	rec := httptest.NewRecorder()
	SecurityHeaders(true)(http.HandlerFunc(okHandler)).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	for _, h := range []string{"X-Content-Type-Options", "X-Frame-Options", "Content-Security-Policy", "Strict-Transport-Security"} {
		if rec.Header().Get(h) == "" {
			t.Errorf("missing %s", h)
		}
	}

	rec = httptest.NewRecorder()
	SecurityHeaders(false)(http.HandlerFunc(okHandler)).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	if rec.Header().Get("Strict-Transport-Security") != "" {
		t.Error("HSTS set without TLS")
	}
}
