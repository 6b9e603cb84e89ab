package auth

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/Billy-Davies-2/spirit11-ui/internal/backend"
	"github.com/Billy-Davies-2/spirit11-ui/internal/logger"
	"github.com/Billy-Davies-2/spirit11-ui/internal/models"
	"github.com/Billy-Davies-2/spirit11-ui/internal/session"
)

// CookieName is the browser cookie carrying the session id
const CookieName = "session_id"

var (
	// ErrNotAdmin is returned when a non-admin account signs in to the admin dashboard
	ErrNotAdmin = errors.New("account is not an administrator")
	// ErrUnauthenticated is returned when a request carries no valid session
	ErrUnauthenticated = errors.New("not signed in")
)

// Manager signs users in against the backend and keeps their sessions.
// The backend token never leaves the server; browsers only hold the session id.
type Manager struct {
	client       *backend.Client
	store        session.Store
	ttl          time.Duration
	secureCookie bool
}

// NewManager creates a Manager that stores sessions in store for ttl
func NewManager(client *backend.Client, store session.Store, ttl time.Duration, secureCookie bool) *Manager {
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &Manager{client: client, store: store, ttl: ttl, secureCookie: secureCookie}
}

// Login validates the participant form, signs in and stores a new session
func (m *Manager) Login(ctx context.Context, username, password string) (*session.Session, error) {
	if errs := ParticipantPolicy.ValidateLogin(username, password, false); errs != nil {
		return nil, errs
	}
	resp, err := m.client.Login(ctx, username, password)
	if err != nil {
		return nil, fmt.Errorf("login: %w", err)
	}
	return m.start(ctx, resp)
}

// AdminLogin validates the admin form, signs in and stores a new session
func (m *Manager) AdminLogin(ctx context.Context, username, password string) (*session.Session, error) {
	if errs := AdminPolicy.ValidateLogin(username, password, true); errs != nil {
		return nil, errs
	}
	resp, err := m.client.AdminLogin(ctx, username, password)
	if err != nil {
		return nil, fmt.Errorf("admin login: %w", err)
	}
	if resp.User.Role != models.RoleAdmin {
		return nil, ErrNotAdmin
	}
	return m.start(ctx, resp)
}

// Register validates reg under policy and creates the account. It does not sign in.
func (m *Manager) Register(ctx context.Context, reg models.Registration, policy Policy) error {
	if errs := policy.ValidateRegistration(reg); errs != nil {
		return errs
	}
	if err := m.client.Register(ctx, reg); err != nil {
		return fmt.Errorf("register: %w", err)
	}
	logger.Info("Account registered", "username", reg.Username)
	return nil
}

// Lookup returns the live session with id
func (m *Manager) Lookup(ctx context.Context, id string) (*session.Session, error) {
	if id == "" {
		return nil, ErrUnauthenticated
	}
	s, err := m.store.Get(ctx, id)
	if err != nil {
		if errors.Is(err, session.ErrNotFound) {
			return nil, ErrUnauthenticated
		}
		return nil, fmt.Errorf("lookup session: %w", err)
	}
	if s.Expired(time.Now()) {
		_ = m.store.Delete(ctx, id)
		return nil, ErrUnauthenticated
	}
	return s, nil
}

// Logout forgets the session
func (m *Manager) Logout(ctx context.Context, id string) error {
	return m.store.Delete(ctx, id)
}

// Client returns an authenticated backend client for s
func (m *Manager) Client(s *session.Session) (*backend.AuthClient, error) {
	return m.client.WithSession(s)
}

func (m *Manager) start(ctx context.Context, resp *models.LoginResponse) (*session.Session, error) {
	s := session.New(resp.Token, resp.User, m.ttl)
	if err := m.store.Save(ctx, s); err != nil {
		return nil, fmt.Errorf("save session: %w", err)
	}
	logger.Info("User signed in", "username", resp.User.Username, "role", resp.User.Role)
	return s, nil
}

// SessionID extracts the session id from the cookie or an Authorization bearer header
func SessionID(r *http.Request) string {
	if c, err := r.Cookie(CookieName); err == nil && c.Value != "" {
		return c.Value
	}
	if h := r.Header.Get("Authorization"); strings.HasPrefix(h, "Bearer ") {
		return strings.TrimPrefix(h, "Bearer ")
	}
	return ""
}

type credentials struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type loginResult struct {
	User      models.User `json:"user"`
	SessionID string      `json:"session_id"`
	ExpiresAt time.Time   `json:"expires_at"`
}

// LoginHandler signs in a participant, or an administrator when admin is set
func (m *Manager) LoginHandler(admin bool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req credentials
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "Invalid request body", err.Error())
			return
		}

		login := m.Login
		if admin {
			login = m.AdminLogin
		}
		s, err := login(r.Context(), req.Username, req.Password)
		if err != nil {
			logger.Warn("Sign in failed", "username", req.Username, "admin", admin, "error", err)
			WriteError(w, err)
			return
		}

		m.setCookie(w, s)
		writeJSON(w, http.StatusOK, loginResult{User: s.User, SessionID: s.ID, ExpiresAt: s.ExpiresAt})
	}
}

// RegisterHandler creates an account under policy
func (m *Manager) RegisterHandler(policy Policy) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var reg models.Registration
		if err := json.NewDecoder(r.Body).Decode(&reg); err != nil {
			writeError(w, http.StatusBadRequest, "Invalid request body", err.Error())
			return
		}
		if err := m.Register(r.Context(), reg, policy); err != nil {
			WriteError(w, err)
			return
		}
		writeJSON(w, http.StatusCreated, map[string]string{"message": "User registered successfully"})
	}
}

// LogoutHandler ends the caller's session
func (m *Manager) LogoutHandler(w http.ResponseWriter, r *http.Request) {
	if id := SessionID(r); id != "" {
		if err := m.Logout(r.Context(), id); err != nil {
			logger.Warn("Failed to delete session", "error", err)
		}
	}
	http.SetCookie(w, &http.Cookie{
		Name:   CookieName,
		Value:  "",
		Path:   "/",
		MaxAge: -1,
	})
	w.WriteHeader(http.StatusNoContent)
}

// Middleware rejects requests without a live session and puts the session in the context
func (m *Manager) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s, err := m.Lookup(r.Context(), SessionID(r))
		if err != nil {
			WriteError(w, err)
			return
		}
		next.ServeHTTP(w, r.WithContext(session.NewContext(r.Context(), s)))
	})
}

// AdminMiddleware is Middleware restricted to administrators
func (m *Manager) AdminMiddleware(next http.Handler) http.Handler {
	return m.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s, _ := session.FromContext(r.Context())
		if !s.IsAdmin() {
			WriteError(w, ErrNotAdmin)
			return
		}
		next.ServeHTTP(w, r)
	}))
}

func (m *Manager) setCookie(w http.ResponseWriter, s *session.Session) {
	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    s.ID,
		Path:     "/",
		HttpOnly: true,
		Secure:   m.secureCookie,
		SameSite: http.SameSiteLaxMode,
		Expires:  s.ExpiresAt,
	})
}
