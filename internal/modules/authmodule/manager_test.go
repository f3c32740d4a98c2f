package authmodule

import (
	"context"
	"encoding/json"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/streamvault/streamvault/internal/clock"
	apperrors "github.com/streamvault/streamvault/internal/errors"
	"github.com/streamvault/streamvault/internal/events"
	"github.com/streamvault/streamvault/internal/sessionstore"
)

// captureBus records published notifications for assertions.
type captureBus struct {
	mu     sync.Mutex
	events []events.Event
}

func (b *captureBus) Publish(ctx context.Context, event events.Event) error {
	return b.PublishAsync(event)
}

func (b *captureBus) PublishAsync(event events.Event) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.events = append(b.events, event)
	return nil
}

func (b *captureBus) Subscribe(subscriber string, handler events.EventHandler, types ...events.EventType) *events.Subscription {
	return nil
}

func (b *captureBus) Unsubscribe(subscriptionID string) error { return nil }

func (b *captureBus) Recent(limit int) []events.Event {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := make([]events.Event, len(b.events))
	copy(out, b.events)
	return out
}

func (b *captureBus) Start(ctx context.Context) error { return nil }
func (b *captureBus) Stop(ctx context.Context) error  { return nil }

func (b *captureBus) lastType() events.EventType {
	b.mu.Lock()
	defer b.mu.Unlock()
	if len(b.events) == 0 {
		return ""
	}
	return b.events[len(b.events)-1].Type
}

func newTestManager(t *testing.T) (*Manager, *captureBus, *clock.Mock, sessionstore.Store) {
	t.Helper()

	mock := clock.NewMock(time.Date(2024, 6, 15, 12, 0, 0, 0, time.UTC))
	mock.SetAutoAdvance(true)
	bus := &captureBus{}
	store := sessionstore.NewMemory()
	mgr := NewManager(mock, bus, store, DemoRoster(), 4*time.Hour, time.Minute)
	t.Cleanup(mgr.Stop)
	return mgr, bus, mock, store
}

func startedManager(t *testing.T) (*Manager, *captureBus, *clock.Mock, sessionstore.Store) {
	t.Helper()

	mgr, bus, mock, store := newTestManager(t)
	require.NoError(t, mgr.Start(context.Background()))
	return mgr, bus, mock, store
}

func TestStartWithoutStoredSessionIsUnauthenticated(t *testing.T) {
	mgr, _, _, _ := startedManager(t)

	session := mgr.Session()
	assert.Equal(t, StateUnauthenticated, session.State)
	assert.Nil(t, session.User)
}

func TestStartRestoresPersistedSession(t *testing.T) {
	mgr, bus, mock, store := newTestManager(t)

	payload, err := json.Marshal(sessionRef{UserID: "2", Timestamp: mock.Now().Add(-time.Hour)})
	require.NoError(t, err)
	require.NoError(t, store.Set(sessionKey, string(payload)))

	require.NoError(t, mgr.Start(context.Background()))

	session := mgr.Session()
	assert.Equal(t, StateAuthenticated, session.State)
	require.NotNil(t, session.User)
	assert.Equal(t, "editor@streamvault.tv", session.User.Email)
	// Restoration grants a fresh expiry, not the remainder of the old one.
	assert.Equal(t, mock.Now().Add(4*time.Hour), session.ExpiresAt)
	assert.Equal(t, events.EventSessionRestored, bus.lastType())
}

func TestStartDiscardsUnresolvableReference(t *testing.T) {
	mgr, _, _, store := newTestManager(t)

	require.NoError(t, store.Set(sessionKey, `{"userId":"999","timestamp":"2024-01-01T00:00:00Z"}`))
	require.NoError(t, mgr.Start(context.Background()))

	assert.Equal(t, StateUnauthenticated, mgr.Session().State)
	_, err := store.Get(sessionKey)
	assert.ErrorIs(t, err, sessionstore.ErrKeyNotFound)
}

// Any non-empty password is accepted against a roster email. That is the
// documented behavior of the demo credential stub, not an oversight.
func TestLoginAcceptsAnyNonEmptyPassword(t *testing.T) {
	mgr, bus, _, store := startedManager(t)
	ctx := context.Background()

	for _, password := range []string{"hunter2", "x", "definitely wrong"} {
		user, err := mgr.Login(ctx, "admin@streamvault.tv", password)
		require.NoError(t, err, "password %q", password)
		assert.Equal(t, RoleAdmin, user.Role)
	}

	session := mgr.Session()
	assert.Equal(t, StateAuthenticated, session.State)
	assert.Equal(t, events.EventLoginSucceeded, bus.lastType())

	value, err := store.Get(sessionKey)
	require.NoError(t, err)
	var ref sessionRef
	require.NoError(t, json.Unmarshal([]byte(value), &ref))
	assert.Equal(t, "1", ref.UserID)
}

func TestLoginEmailIsCaseInsensitive(t *testing.T) {
	mgr, _, _, _ := startedManager(t)

	user, err := mgr.Login(context.Background(), "ADMIN@StreamVault.TV", "pw")
	require.NoError(t, err)
	assert.Equal(t, "admin@streamvault.tv", user.Email)
}

func TestLoginFailures(t *testing.T) {
	mgr, bus, _, _ := startedManager(t)
	ctx := context.Background()

	cases := []struct {
		name     string
		email    string
		password string
	}{
		{"unknown email", "nobody@streamvault.tv", "pw"},
		{"empty password", "admin@streamvault.tv", ""},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := mgr.Login(ctx, tc.email, tc.password)
			require.Error(t, err)
			assert.ErrorIs(t, err, apperrors.ErrNotAuthenticated)

			session := mgr.Session()
			assert.Equal(t, StateUnauthenticated, session.State)
			assert.Equal(t, invalidCredentialsMessage, session.Error)
			assert.Equal(t, events.EventLoginFailed, bus.lastType())
		})
	}
}

func TestLogoutClearsEverything(t *testing.T) {
	mgr, bus, _, store := startedManager(t)
	ctx := context.Background()

	_, err := mgr.Login(ctx, "admin@streamvault.tv", "pw")
	require.NoError(t, err)

	require.NoError(t, mgr.Logout(ctx))

	session := mgr.Session()
	assert.Equal(t, StateUnauthenticated, session.State)
	assert.Nil(t, session.User)
	assert.True(t, session.ExpiresAt.IsZero())
	assert.Equal(t, events.EventLoggedOut, bus.lastType())

	_, err = store.Get(sessionKey)
	assert.ErrorIs(t, err, sessionstore.ErrKeyNotFound)
}

func TestRegisterConflictsOnRosterEmail(t *testing.T) {
	mgr, _, _, _ := startedManager(t)

	err := mgr.Register(context.Background(), "editor@streamvault.tv", "pw", "editor2")
	require.Error(t, err)
	assert.True(t, apperrors.IsConflict(err))
	assert.ErrorIs(t, err, apperrors.ErrAccountExists)
}

func TestRegisterDoesNotGrowRoster(t *testing.T) {
	mgr, bus, _, _ := startedManager(t)
	ctx := context.Background()

	require.NoError(t, mgr.Register(ctx, "new@streamvault.tv", "pw", "newbie"))
	assert.Equal(t, events.EventRegistered, bus.lastType())

	// The simulated account was never persisted, so it cannot log in.
	_, err := mgr.Login(ctx, "new@streamvault.tv", "pw")
	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrNotAuthenticated)
}

func TestResetPassword(t *testing.T) {
	mgr, bus, _, _ := startedManager(t)
	ctx := context.Background()

	err := mgr.ResetPassword(ctx, "nobody@streamvault.tv")
	require.Error(t, err)
	assert.True(t, apperrors.IsNotFound(err))
	assert.ErrorIs(t, err, apperrors.ErrAccountNotFound)

	require.NoError(t, mgr.ResetPassword(ctx, "viewer@streamvault.tv"))
	assert.Equal(t, events.EventPasswordReset, bus.lastType())
}

func TestSwitchRoleSwapsIdentityAndReference(t *testing.T) {
	mgr, bus, _, store := startedManager(t)
	ctx := context.Background()

	_, err := mgr.Login(ctx, "admin@streamvault.tv", "pw")
	require.NoError(t, err)

	user, err := mgr.SwitchRole(RoleViewer)
	require.NoError(t, err)
	assert.Equal(t, "viewer@streamvault.tv", user.Email)
	assert.Equal(t, events.EventRoleSwitched, bus.lastType())

	value, err := store.Get(sessionKey)
	require.NoError(t, err)
	var ref sessionRef
	require.NoError(t, json.Unmarshal([]byte(value), &ref))
	assert.Equal(t, "3", ref.UserID)

	_, err = mgr.SwitchRole(Role("superuser"))
	require.Error(t, err)
	assert.True(t, apperrors.IsNotFound(err))
}

func TestHasPermissionGating(t *testing.T) {
	mgr, _, _, _ := startedManager(t)
	ctx := context.Background()

	// Unauthenticated: everything denied.
	assert.False(t, mgr.HasPermission(PermissionRead))

	_, err := mgr.Login(ctx, "viewer@streamvault.tv", "pw")
	require.NoError(t, err)
	assert.True(t, mgr.HasPermission(PermissionRead))
	assert.False(t, mgr.HasPermission(PermissionWrite))
	assert.False(t, mgr.HasPermission(PermissionSystemSettings))

	_, err = mgr.SwitchRole(RoleAdmin)
	require.NoError(t, err)
	assert.True(t, mgr.HasPermission(PermissionSystemSettings))

	require.NoError(t, mgr.Logout(ctx))
	assert.False(t, mgr.HasPermission(PermissionRead))
}

func TestSessionExpiryForcesLogout(t *testing.T) {
	mgr, bus, mock, store := startedManager(t)
	ctx := context.Background()

	_, err := mgr.Login(ctx, "admin@streamvault.tv", "pw")
	require.NoError(t, err)

	// Give the expiry goroutine a beat to register its ticker.
	time.Sleep(10 * time.Millisecond)

	// Within the TTL nothing happens.
	mock.Advance(time.Hour)
	assert.Equal(t, StateAuthenticated, mgr.Session().State)

	// Past the TTL the next check forces a logout.
	mock.Advance(3*time.Hour + 2*time.Minute)
	require.Eventually(t, func() bool {
		return mgr.Session().State == StateUnauthenticated
	}, time.Second, 10*time.Millisecond)

	assert.Equal(t, events.EventSessionExpired, bus.lastType())
	published := bus.Recent(0)
	assert.Equal(t, events.SeverityDestructive, published[len(published)-1].Severity)

	_, err = store.Get(sessionKey)
	assert.ErrorIs(t, err, sessionstore.ErrKeyNotFound)
}

func TestSimulatedLatencies(t *testing.T) {
	mgr, _, mock, _ := startedManager(t)
	ctx := context.Background()

	start := mock.Now()
	_, err := mgr.Login(ctx, "admin@streamvault.tv", "pw")
	require.NoError(t, err)
	assert.Equal(t, loginDelay, mock.Now().Sub(start))

	start = mock.Now()
	require.NoError(t, mgr.Logout(ctx))
	assert.Equal(t, logoutDelay, mock.Now().Sub(start))
}
