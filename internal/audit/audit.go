package audit

import (
	"context"
	"log"
	"net/http"
	"time"

	"milkchess/internal/db"
	"milkchess/internal/middleware"
)

// Event types for audit logging
const (
	EventTokenIssued = "token_issued"
	EventTokenDenied = "token_denied"
)

// Event represents a security-relevant event.
type Event struct {
	EventType string    `bson:"eventType"`
	Client    string    `bson:"client,omitempty"`
	IP        string    `bson:"ip"`
	UserAgent string    `bson:"userAgent"`
	Details   string    `bson:"details,omitempty"`
	CreatedAt time.Time `bson:"createdAt"`
}

// Logger records audit events. Every event is logged; events are also
// written to the audit_log collection when a database is configured.
type Logger struct {
	db *db.MongoDB
}

// NewLogger returns a Logger. database may be nil.
func NewLogger(database *db.MongoDB) *Logger {
	return &Logger{db: database}
}

// LogEvent records an event for client (fire-and-forget).
func (l *Logger) LogEvent(eventType, client string, r *http.Request, details string) {
	event := Event{
		EventType: eventType,
		Client:    client,
		IP:        middleware.GetClientIP(r),
		UserAgent: r.UserAgent(),
		Details:   details,
		CreatedAt: time.Now(),
	}

	log.Printf("[Audit] %s client=%q ip=%s %s", event.EventType, event.Client, event.IP, event.Details)
	if l == nil || l.db == nil {
		return
	}

	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if _, err := l.db.AuditLog().InsertOne(ctx, event); err != nil {
			log.Printf("[Audit] Audit log write failed: %v", err)
		}
	}()
}
