package web

import (
	"context"
	"net/http"
	"time"

	"mainstage/internal/adapters/email"
	"mainstage/internal/adapters/http/middleware"
	accessStore "mainstage/internal/adapters/storage/access"
	reportStore "mainstage/internal/adapters/storage/report"
	teamStore "mainstage/internal/adapters/storage/team"
	"mainstage/internal/config"
)

// TeamWatcher opens live subscriptions on a team's committed record snapshots.
// The SQLite team store implements it alongside teamStore.Store.
type TeamWatcher interface {
	Watch(ctx context.Context, teamID string) (*teamStore.Subscription, error)
}

// Stores holds all storage dependencies.
type Stores struct {
	TeamStore     teamStore.Store
	TeamWatcher   TeamWatcher
	ReportStore   reportStore.Store
	IdentityStore accessStore.Store
}

// Global stores instance (set by NewMux)
var stores *Stores

// Global session store instance
var sessions *middleware.SessionStore

// RateLimitPerSecond controls the per-IP rate limit. Tests can increase this.
var RateLimitPerSecond = 10

// Global email sender instance (set by SetEmailSender)
var emailSender email.Sender

// Email configuration
var emailFromAddress string
var reportNotifyAddr string

// SetEmailSender sets the global email sender for the application.
func SetEmailSender(sender email.Sender, from, notifyAddr string) {
	emailSender = sender
	emailFromAddress = from
	reportNotifyAddr = notifyAddr
}

// timeNow is a variable for testability.
var timeNow = time.Now

// watcherFor returns the live-feed source, falling back to the team store when
// it implements TeamWatcher itself.
func watcherFor(s *Stores) TeamWatcher {
	if s.TeamWatcher != nil {
		return s.TeamWatcher
	}
	if w, ok := s.TeamStore.(TeamWatcher); ok {
		return w
	}
	return nil
}

// NewMux wires HTTP handlers for the app.
func NewMux(staticDir string, s *Stores, cfg *config.Config) http.Handler {
	stores = s
	sessions = middleware.NewSessionStore(time.Duration(cfg.SessionTTLMinutes) * time.Minute)

	mux := http.NewServeMux()
	mux.Handle("/", http.FileServer(http.Dir(staticDir)))
	registerRoutes(mux)

	// Rate limiter: configurable requests per second per IP (OWASP A04)
	limiter := middleware.NewRateLimiter(RateLimitPerSecond, time.Second)

	// Apply middleware: Timing -> Auth -> CSRF -> SecurityHeaders -> RateLimit -> Mux
	return middleware.Chain(mux,
		middleware.SecurityHeaders,
		middleware.CSRF([]byte(cfg.CSRFKey), cfg.TrustedOrigins),
		middleware.Auth(sessions),
		middleware.RateLimit(limiter),
		middleware.Timing(),
	)
}
