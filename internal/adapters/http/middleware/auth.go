package middleware

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"net/http"
	"sync"
	"time"

	domainAccess "mainstage/internal/domain/access"
)

// contextKey is an unexported type for context keys in this package.
type contextKey string

const sessionContextKey contextKey = "session"

// Session represents an authenticated session.
type Session struct {
	IdentityID string
	Role       string
	TeamID     string // set only for team identities
	Label      string
	CreatedAt  time.Time
}

// SessionStore is an in-memory session store.
type SessionStore struct {
	mu       sync.RWMutex
	sessions map[string]Session
	ttl      time.Duration
}

// NewSessionStore creates a new in-memory session store whose sessions
// expire after ttl.
func NewSessionStore(ttl time.Duration) *SessionStore {
	return &SessionStore{
		sessions: make(map[string]Session),
		ttl:      ttl,
	}
}

// Create stores a new session and returns the token.
// PRE: identityID and role are non-empty
// POST: Session is stored, token is returned
func (ss *SessionStore) Create(identityID, role, teamID, label string) (string, error) {
	token, err := generateToken()
	if err != nil {
		return "", err
	}
	ss.mu.Lock()
	defer ss.mu.Unlock()
	ss.sessions[token] = Session{
		IdentityID: identityID,
		Role:       role,
		TeamID:     teamID,
		Label:      label,
		CreatedAt:  time.Now(),
	}
	return token, nil
}

// Get retrieves a session by token.
// PRE: token is non-empty
// POST: Returns session if valid and not expired
func (ss *SessionStore) Get(token string) (Session, bool) {
	ss.mu.RLock()
	session, ok := ss.sessions[token]
	ss.mu.RUnlock()
	if !ok {
		return Session{}, false
	}
	if time.Since(session.CreatedAt) > ss.ttl {
		ss.mu.Lock()
		delete(ss.sessions, token)
		ss.mu.Unlock()
		return Session{}, false
	}
	return session, true
}

// Delete removes a session by token.
// PRE: token is non-empty
// POST: Session with given token is removed
func (ss *SessionStore) Delete(token string) {
	ss.mu.Lock()
	defer ss.mu.Unlock()
	delete(ss.sessions, token)
}

// TTL returns the configured session lifetime.
func (ss *SessionStore) TTL() time.Duration {
	return ss.ttl
}

const sessionCookieName = "mainstage_session"

// Auth returns middleware that extracts the session from the cookie and sets the identity in context.
// It does NOT block unauthenticated requests — use RequireAuth or RequireRole for that.
func Auth(sessions *SessionStore) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			cookie, err := r.Cookie(sessionCookieName)
			if err == nil && cookie.Value != "" {
				if session, ok := sessions.Get(cookie.Value); ok {
					ctx := context.WithValue(r.Context(), sessionContextKey, session)
					r = r.WithContext(ctx)
				}
			}
			next.ServeHTTP(w, r)
		})
	}
}

// RequireAuth returns middleware that blocks unauthenticated requests.
func RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, ok := GetSessionFromContext(r.Context()); !ok {
			http.Redirect(w, r, "/login", http.StatusSeeOther)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// RequireRole returns middleware that blocks requests from identities without one of the specified roles.
func RequireRole(roles ...string) func(http.Handler) http.Handler {
	roleSet := make(map[string]bool, len(roles))
	for _, r := range roles {
		roleSet[r] = true
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			session, ok := GetSessionFromContext(r.Context())
			if !ok {
				http.Redirect(w, r, "/login", http.StatusSeeOther)
				return
			}
			if !roleSet[session.Role] {
				http.Error(w, "Forbidden", http.StatusForbidden)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// GetSessionFromContext extracts the session from the request context.
func GetSessionFromContext(ctx context.Context) (Session, bool) {
	session, ok := ctx.Value(sessionContextKey).(Session)
	return session, ok
}

// SetSessionCookie sets the session cookie on the response.
func SetSessionCookie(w http.ResponseWriter, token string, ttl time.Duration) {
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookieName,
		Value:    token,
		HttpOnly: true,
		Secure:   false, // Allow HTTP for local development
		SameSite: http.SameSiteStrictMode,
		Path:     "/",
		MaxAge:   int(ttl.Seconds()),
	})
}

// ClearSessionCookie removes the session cookie.
func ClearSessionCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookieName,
		Value:    "",
		HttpOnly: true,
		Secure:   false,
		SameSite: http.SameSiteStrictMode,
		Path:     "/",
		MaxAge:   -1,
	})
}

// IsRole checks if the current session has one of the given roles.
func IsRole(ctx context.Context, roles ...string) bool {
	session, ok := GetSessionFromContext(ctx)
	if !ok {
		return false
	}
	for _, r := range roles {
		if session.Role == r {
			return true
		}
	}
	return false
}

// IsAdmin checks if the current session is an admin.
func IsAdmin(ctx context.Context) bool {
	return IsRole(ctx, domainAccess.RoleAdmin)
}

// ContextWithSession returns a context with the given session set.
// Intended for use in tests.
func ContextWithSession(ctx context.Context, sess Session) context.Context {
	return context.WithValue(ctx, sessionContextKey, sess)
}

func generateToken() (string, error) {
	bytes := make([]byte, 32)
	if _, err := rand.Read(bytes); err != nil {
		return "", err
	}
	return hex.EncodeToString(bytes), nil
}
