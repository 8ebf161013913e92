package middleware

import (
	"encoding/json"
	"net"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"
)

// Limit is a fixed-window quota. Name separates the counters of limits that
// share a RateLimiter, so one caller's analyses do not eat its batch quota.
type Limit struct {
	Name   string
	Max    int
	Window time.Duration
}

var (
	TokenLimit     = Limit{Name: "token", Max: 10, Window: 15 * time.Minute}
	AnalysisLimit  = Limit{Name: "analysis", Max: 600, Window: time.Minute}
	HeavyLimit     = Limit{Name: "heavy", Max: 60, Window: time.Minute}
	WebSocketLimit = Limit{Name: "ws", Max: 20, Window: time.Minute}
)

// KeyFunc names the caller a request is counted against.
type KeyFunc func(*http.Request) string

// ByIP counts requests per remote address.
func ByIP(r *http.Request) string {
	return "ip:" + GetClientIP(r)
}

// ByClient counts requests per authenticated client and falls back to the
// remote address for anonymous requests. It only sees a client when it runs
// inside RequireAuth.
func ByClient(r *http.Request) string {
	if client, ok := GetClientFromContext(r.Context()); ok && client != "" {
		return "client:" + client
	}
	return ByIP(r)
}

type window struct {
	used  int
	reset time.Time
}

// quota is the outcome of charging one request to a window.
type quota struct {
	allowed   bool
	remaining int
	reset     time.Time
}

// RateLimiter holds fixed-window counters for every (limit, caller) pair.
type RateLimiter struct {
	mu      sync.Mutex
	windows map[string]*window
	now     func() time.Time
	stop    chan struct{}
	once    sync.Once
}

// NewRateLimiter starts a limiter that sweeps expired windows every five
// minutes until Stop is called.
func NewRateLimiter() *RateLimiter {
	rl := &RateLimiter{
		windows: make(map[string]*window),
		now:     time.Now,
		stop:    make(chan struct{}),
	}
	go rl.sweepLoop(5 * time.Minute)
	return rl
}

func (rl *RateLimiter) Stop() {
	rl.once.Do(func() { close(rl.stop) })
}

func (rl *RateLimiter) sweepLoop(every time.Duration) {
	ticker := time.NewTicker(every)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			rl.sweep()
		case <-rl.stop:
			return
		}
	}
}

func (rl *RateLimiter) sweep() {
	rl.mu.Lock()
	defer rl.mu.Unlock()
	now := rl.now()
	for key, w := range rl.windows {
		if !now.Before(w.reset) {
			delete(rl.windows, key)
		}
	}
}

func (rl *RateLimiter) take(limit Limit, caller string) quota {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := rl.now()
	key := limit.Name + "|" + caller
	w, ok := rl.windows[key]
	if !ok || !now.Before(w.reset) {
		w = &window{reset: now.Add(limit.Window)}
		rl.windows[key] = w
	}
	if w.used >= limit.Max {
		return quota{reset: w.reset}
	}
	w.used++
	return quota{allowed: true, remaining: limit.Max - w.used, reset: w.reset}
}

// Middleware charges every request to the caller named by key and answers
// 429 with a Retry-After once the window is spent.
func (rl *RateLimiter) Middleware(limit Limit, key KeyFunc) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			q := rl.take(limit, key(r))

			h := w.Header()
			h.Set("X-RateLimit-Limit", strconv.Itoa(limit.Max))
			h.Set("X-RateLimit-Remaining", strconv.Itoa(q.remaining))
			h.Set("X-RateLimit-Reset", q.reset.UTC().Format(time.RFC3339))

			if q.allowed {
				next.ServeHTTP(w, r)
				return
			}

			wait := int(q.reset.Sub(rl.now()).Seconds())
			if wait < 1 {
				wait = 1
			}
			h.Set("Retry-After", strconv.Itoa(wait))
			h.Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusTooManyRequests)
			json.NewEncoder(w).Encode(struct {
				Error      string `json:"error"`
				Limit      string `json:"limit"`
				RetryAfter int    `json:"retry_after"`
			}{"rate limit exceeded", limit.Name, wait})
		})
	}
}

// GetClientIP returns the originating address, trusting the first entry of
// X-Forwarded-For, then X-Real-IP, then RemoteAddr.
func GetClientIP(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		first, _, _ := strings.Cut(xff, ",")
		first = strings.TrimSpace(first)
		if host, _, err := net.SplitHostPort(first); err == nil {
			first = host
		}
		if net.ParseIP(first) != nil {
			return first
		}
	}
	if xri := strings.TrimSpace(r.Header.Get("X-Real-IP")); net.ParseIP(xri) != nil {
		return xri
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
