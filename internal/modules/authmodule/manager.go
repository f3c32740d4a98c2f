package authmodule

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/streamvault/streamvault/internal/clock"
	apperrors "github.com/streamvault/streamvault/internal/errors"
	"github.com/streamvault/streamvault/internal/events"
	"github.com/streamvault/streamvault/internal/logger"
	"github.com/streamvault/streamvault/internal/sessionstore"
)

// Simulated round-trips per auth operation.
const (
	initDelay     = 800 * time.Millisecond
	loginDelay    = 1200 * time.Millisecond
	logoutDelay   = 500 * time.Millisecond
	registerDelay = 1500 * time.Millisecond
	resetDelay    = 1000 * time.Millisecond
)

// sessionKey is where the session reference lives in the store.
const sessionKey = "adminAuth"

// invalidCredentialsMessage is surfaced on any failed login.
const invalidCredentialsMessage = "Invalid email or password"

// State is the session lifecycle state.
type State string

const (
	StateUnauthenticated State = "unauthenticated"
	StateLoading         State = "loading"
	StateAuthenticated   State = "authenticated"
)

// sessionRef is the JSON envelope persisted under sessionKey.
type sessionRef struct {
	UserID    string    `json:"userId"`
	Timestamp time.Time `json:"timestamp"`
}

// Session is a point-in-time snapshot of the auth state.
type Session struct {
	State     State      `json:"state"`
	User      *AdminUser `json:"user,omitempty"`
	ExpiresAt time.Time  `json:"expiresAt,omitempty"`
	Error     string     `json:"error,omitempty"`
}

// Manager owns the demo session: who is operating the console, when the
// session lapses, and the persisted reference that survives restarts.
//
// Credentials are a demonstration stub: any non-empty password matches any
// roster email. That permissiveness is the point of the mock and must not
// be tightened.
type Manager struct {
	clock         clock.Clock
	bus           events.EventBus
	store         sessionstore.Store
	roster        []AdminUser
	ttl           time.Duration
	checkInterval time.Duration

	mu        sync.RWMutex
	state     State
	current   *AdminUser
	expiresAt time.Time
	errMsg    string

	stopOnce sync.Once
	stop     chan struct{}
}

// NewManager creates a session manager over the given roster and store.
func NewManager(clk clock.Clock, bus events.EventBus, store sessionstore.Store, roster []AdminUser, ttl, checkInterval time.Duration) *Manager {
	return &Manager{
		clock:         clk,
		bus:           bus,
		store:         store,
		roster:        roster,
		ttl:           ttl,
		checkInterval: checkInterval,
		state:         StateUnauthenticated,
		stop:          make(chan struct{}),
	}
}

// Start resolves the persisted session reference and begins the periodic
// expiry check. State is loading while the reference resolves. Stop must
// be called on teardown or the expiry goroutine leaks.
func (m *Manager) Start(ctx context.Context) error {
	m.mu.Lock()
	m.state = StateLoading
	m.mu.Unlock()

	if err := m.clock.Sleep(ctx, initDelay); err != nil {
		m.mu.Lock()
		m.state = StateUnauthenticated
		m.mu.Unlock()
		return err
	}

	if user := m.restore(); user != nil {
		m.mu.Lock()
		m.state = StateAuthenticated
		m.current = user
		m.expiresAt = m.clock.Now().Add(m.ttl)
		m.errMsg = ""
		m.mu.Unlock()

		logger.Info("Session restored for %s", user.Email)
		m.notify(events.EventSessionRestored, "Welcome back",
			"Your session has been restored.", events.SeverityInfo)
	} else {
		m.mu.Lock()
		m.state = StateUnauthenticated
		m.mu.Unlock()
	}

	go m.expiryLoop()
	return nil
}

// restore resolves the stored reference to a roster identity, or nil.
func (m *Manager) restore() *AdminUser {
	value, err := m.store.Get(sessionKey)
	if err != nil {
		if !errors.Is(err, sessionstore.ErrKeyNotFound) {
			logger.Warn("Failed to read session reference: %v", err)
		}
		return nil
	}

	var ref sessionRef
	if err := json.Unmarshal([]byte(value), &ref); err != nil {
		logger.Warn("Discarding malformed session reference: %v", err)
		_ = m.store.Remove(sessionKey)
		return nil
	}

	for i := range m.roster {
		if m.roster[i].ID == ref.UserID {
			user := m.roster[i]
			return &user
		}
	}
	_ = m.store.Remove(sessionKey)
	return nil
}

// Login authenticates against the roster by case-insensitive email. Any
// non-empty password is accepted.
func (m *Manager) Login(ctx context.Context, email, password string) (*AdminUser, error) {
	if err := m.clock.Sleep(ctx, loginDelay); err != nil {
		return nil, err
	}

	entry := m.lookupEmail(email)
	if entry == nil || password == "" {
		m.mu.Lock()
		m.state = StateUnauthenticated
		m.current = nil
		m.expiresAt = time.Time{}
		m.errMsg = invalidCredentialsMessage
		m.mu.Unlock()

		m.notify(events.EventLoginFailed, "Login failed",
			invalidCredentialsMessage, events.SeverityWarning)
		return nil, apperrors.ValidationError("login", apperrors.ErrNotAuthenticated)
	}

	user := *entry
	user.LastLogin = m.clock.Now()

	m.mu.Lock()
	m.state = StateAuthenticated
	m.current = &user
	m.expiresAt = m.clock.Now().Add(m.ttl)
	m.errMsg = ""
	m.mu.Unlock()

	m.persist(user.ID)
	logger.Info("Logged in as %s (%s)", user.Email, user.Role)
	m.notify(events.EventLoginSucceeded, "Logged in",
		"Logged in successfully.", events.SeverityInfo)
	return &user, nil
}

// Logout clears the identity, expiry, and stored reference. Always succeeds.
func (m *Manager) Logout(ctx context.Context) error {
	if err := m.clock.Sleep(ctx, logoutDelay); err != nil {
		return err
	}

	m.clearSession()
	m.notify(events.EventLoggedOut, "Logged out",
		"You have been logged out.", events.SeverityInfo)
	return nil
}

// Register simulates account creation. A roster email is a conflict;
// anything else reports success without growing the roster, so the new
// identity cannot subsequently log in.
func (m *Manager) Register(ctx context.Context, email, password, username string) error {
	if email == "" || password == "" || username == "" {
		return apperrors.ValidationError("register", apperrors.ErrMissingRequiredFields)
	}

	if err := m.clock.Sleep(ctx, registerDelay); err != nil {
		return err
	}

	if m.lookupEmail(email) != nil {
		return apperrors.ConflictError("register", apperrors.ErrAccountExists)
	}

	m.notify(events.EventRegistered, "Account created",
		"Your account has been created. You can now log in.", events.SeverityInfo)
	return nil
}

// ResetPassword simulates a reset email for a roster address.
func (m *Manager) ResetPassword(ctx context.Context, email string) error {
	if err := m.clock.Sleep(ctx, resetDelay); err != nil {
		return err
	}

	if m.lookupEmail(email) == nil {
		return apperrors.NotFoundError("reset_password", apperrors.ErrAccountNotFound)
	}

	m.notify(events.EventPasswordReset, "Password reset",
		"Password reset instructions have been sent.", events.SeverityInfo)
	return nil
}

// SwitchRole swaps the current identity for the roster entry holding that
// role. Demo-only capability: it bypasses login and keeps the session
// expiry in place.
func (m *Manager) SwitchRole(role Role) (*AdminUser, error) {
	var entry *AdminUser
	for i := range m.roster {
		if m.roster[i].Role == role {
			entry = &m.roster[i]
			break
		}
	}
	if entry == nil {
		return nil, apperrors.NotFoundError("switch_role", apperrors.ErrAccountNotFound)
	}

	user := *entry
	user.LastLogin = m.clock.Now()

	m.mu.Lock()
	m.state = StateAuthenticated
	m.current = &user
	if m.expiresAt.IsZero() {
		m.expiresAt = m.clock.Now().Add(m.ttl)
	}
	m.errMsg = ""
	m.mu.Unlock()

	m.persist(user.ID)
	m.notify(events.EventRoleSwitched, "Role switched",
		"Now operating as "+string(role)+".", events.SeverityInfo)
	return &user, nil
}

// HasPermission reports whether the current identity holds the capability.
// Always false when unauthenticated.
func (m *Manager) HasPermission(p Permission) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.state != StateAuthenticated || m.current == nil {
		return false
	}
	return m.current.HasPermission(p)
}

// Session returns a snapshot of the current auth state.
func (m *Manager) Session() Session {
	m.mu.RLock()
	defer m.mu.RUnlock()

	s := Session{State: m.state, ExpiresAt: m.expiresAt, Error: m.errMsg}
	if m.current != nil {
		user := *m.current
		s.User = &user
	}
	return s
}

// Stop halts the expiry check goroutine.
func (m *Manager) Stop() {
	m.stopOnce.Do(func() {
		close(m.stop)
	})
}

// expiryLoop forces a logout once the session outlives its expiry.
func (m *Manager) expiryLoop() {
	ticker := m.clock.NewTicker(m.checkInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C():
			m.checkExpiry()
		case <-m.stop:
			return
		}
	}
}

func (m *Manager) checkExpiry() {
	m.mu.RLock()
	expired := m.state == StateAuthenticated && !m.expiresAt.IsZero() &&
		m.clock.Now().After(m.expiresAt)
	m.mu.RUnlock()

	if !expired {
		return
	}

	logger.Info("Session expired; forcing logout")
	m.clearSession()
	m.notify(events.EventSessionExpired, "Session expired",
		"Your session has expired. Please log in again.", events.SeverityDestructive)
}

func (m *Manager) clearSession() {
	m.mu.Lock()
	m.state = StateUnauthenticated
	m.current = nil
	m.expiresAt = time.Time{}
	m.errMsg = ""
	m.mu.Unlock()

	if err := m.store.Remove(sessionKey); err != nil {
		logger.Warn("Failed to remove session reference: %v", err)
	}
}

func (m *Manager) persist(userID string) {
	payload, err := json.Marshal(sessionRef{UserID: userID, Timestamp: m.clock.Now()})
	if err != nil {
		logger.Error("Failed to encode session reference: %v", err)
		return
	}
	if err := m.store.Set(sessionKey, string(payload)); err != nil {
		logger.Warn("Failed to persist session reference: %v", err)
	}
}

func (m *Manager) lookupEmail(email string) *AdminUser {
	for i := range m.roster {
		if strings.EqualFold(m.roster[i].Email, email) {
			return &m.roster[i]
		}
	}
	return nil
}

func (m *Manager) notify(eventType events.EventType, title, message string, severity events.Severity) {
	if m.bus == nil {
		return
	}
	event := events.Notification(eventType, ModuleID, title, message)
	event.Severity = severity
	_ = m.bus.PublishAsync(event)
}
