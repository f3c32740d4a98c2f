package usermodule

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/streamvault/streamvault/internal/clock"
	"github.com/streamvault/streamvault/internal/database"
	apperrors "github.com/streamvault/streamvault/internal/errors"
	"github.com/streamvault/streamvault/internal/events"
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

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))
	return db
}

func newTestService(t *testing.T) (*Service, *captureBus, *clock.Mock) {
	t.Helper()

	mock := clock.NewMock(time.Date(2024, 6, 15, 12, 0, 0, 0, time.UTC))
	mock.SetAutoAdvance(true)
	bus := &captureBus{}
	return NewService(setupTestDB(t), mock, bus), bus, mock
}

func TestAddAppliesDefaults(t *testing.T) {
	svc, _, mock := newTestService(t)

	user, err := svc.Add(context.Background(), AddUserRequest{Name: "New User", Email: "new@example.com"})
	require.NoError(t, err)

	assert.NotEmpty(t, user.ID)
	assert.Equal(t, database.UserStatusActive, user.Status)
	assert.Equal(t, database.UserPlanBasic, user.Plan)
	assert.Equal(t, mock.Now(), user.CreatedAt)
	assert.Equal(t, mock.Now(), user.LastLogin)
}

func TestAddRejectsMalformedEmail(t *testing.T) {
	svc, bus, _ := newTestService(t)
	ctx := context.Background()

	for _, email := range []string{"", "not-an-email", "missing-at.example.com", "a@"} {
		_, err := svc.Add(ctx, AddUserRequest{Name: "Bad Email", Email: email})
		require.Error(t, err, "email %q", email)
		assert.True(t, apperrors.IsValidation(err))
		assert.ErrorIs(t, err, apperrors.ErrInvalidEmail)
	}

	users, err := svc.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, users)
	assert.Empty(t, bus.Recent(0))
}

func TestAddRejectsMissingName(t *testing.T) {
	svc, _, _ := newTestService(t)

	_, err := svc.Add(context.Background(), AddUserRequest{Email: "nameless@example.com"})
	require.Error(t, err)
	assert.True(t, apperrors.IsValidation(err))
	assert.ErrorIs(t, err, apperrors.ErrMissingRequiredFields)
}

func TestAddDuplicateEmailIsCaseInsensitive(t *testing.T) {
	svc, bus, _ := newTestService(t)
	ctx := context.Background()

	require.NoError(t, svc.Initialize(DemoUsers()))

	for _, email := range []string{"john@example.com", "JOHN@EXAMPLE.COM", "John@Example.com"} {
		_, err := svc.Add(ctx, AddUserRequest{Name: "Impostor", Email: email})
		require.Error(t, err, "email %q", email)
		assert.True(t, apperrors.IsConflict(err))
		assert.ErrorIs(t, err, apperrors.ErrDuplicateEmail)
	}

	// Conflicts never grow the store or notify.
	users, err := svc.List(ctx)
	require.NoError(t, err)
	assert.Len(t, users, len(DemoUsers()))
	assert.Empty(t, bus.Recent(0))
}

func TestUpdateShallowMerge(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()

	added, err := svc.Add(ctx, AddUserRequest{
		Name:   "Alice Original",
		Email:  "alice@example.com",
		Status: database.UserStatusActive,
		Plan:   database.UserPlanPremium,
	})
	require.NoError(t, err)

	suspended := database.UserStatusSuspended
	updated, err := svc.Update(ctx, added.ID, UserPatch{Status: &suspended})
	require.NoError(t, err)

	assert.Equal(t, suspended, updated.Status)
	// Untouched fields survive the merge.
	assert.Equal(t, "Alice Original", updated.Name)
	assert.Equal(t, "alice@example.com", updated.Email)
	assert.Equal(t, database.UserPlanPremium, updated.Plan)
}

func TestUpdatePreservesCreatedAt(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()

	added, err := svc.Add(ctx, AddUserRequest{Name: "Bob", Email: "bob@example.com"})
	require.NoError(t, err)
	createdAt := added.CreatedAt

	name := "Bob Renamed"
	updated, err := svc.Update(ctx, added.ID, UserPatch{Name: &name})
	require.NoError(t, err)
	assert.Equal(t, createdAt, updated.CreatedAt)
}

func TestUpdateEmailUniquenessAgainstOthers(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()

	require.NoError(t, svc.Initialize(DemoUsers()))

	// Taking another account's address fails, even with different casing.
	taken := "Jane@Example.com"
	_, err := svc.Update(ctx, "1", UserPatch{Email: &taken})
	require.Error(t, err)
	assert.True(t, apperrors.IsConflict(err))
	assert.ErrorIs(t, err, apperrors.ErrDuplicateEmail)

	// Re-casing your own address is not a conflict.
	own := "JOHN@example.com"
	updated, err := svc.Update(ctx, "1", UserPatch{Email: &own})
	require.NoError(t, err)
	assert.Equal(t, own, updated.Email)
}

func TestUpdateValidatesNewEmail(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()

	added, err := svc.Add(ctx, AddUserRequest{Name: "Carol", Email: "carol@example.com"})
	require.NoError(t, err)

	bad := "not-an-email"
	_, err = svc.Update(ctx, added.ID, UserPatch{Email: &bad})
	require.Error(t, err)
	assert.True(t, apperrors.IsValidation(err))
	assert.ErrorIs(t, err, apperrors.ErrInvalidEmail)
}

func TestUpdateNotFound(t *testing.T) {
	svc, _, _ := newTestService(t)

	_, err := svc.Update(context.Background(), "no-such-id", UserPatch{})
	require.Error(t, err)
	assert.True(t, apperrors.IsNotFound(err))
	assert.ErrorIs(t, err, apperrors.ErrUserNotFound)
}

func TestDeleteRemovesAndSecondDeleteFails(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()

	added, err := svc.Add(ctx, AddUserRequest{Name: "Short Lived", Email: "gone@example.com"})
	require.NoError(t, err)

	require.NoError(t, svc.Delete(ctx, added.ID))

	users, err := svc.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, users)

	err = svc.Delete(ctx, added.ID)
	require.Error(t, err)
	assert.True(t, apperrors.IsNotFound(err))
}

func TestMutationsNotify(t *testing.T) {
	svc, bus, _ := newTestService(t)
	ctx := context.Background()

	added, err := svc.Add(ctx, AddUserRequest{Name: "Dana", Email: "dana@example.com"})
	require.NoError(t, err)

	plan := database.UserPlanStandard
	_, err = svc.Update(ctx, added.ID, UserPatch{Plan: &plan})
	require.NoError(t, err)
	require.NoError(t, svc.Delete(ctx, added.ID))

	published := bus.Recent(0)
	require.Len(t, published, 3)
	assert.Equal(t, events.EventUserAdded, published[0].Type)
	assert.Equal(t, "User Added", published[0].Title)
	assert.Equal(t, "Dana has been added as a new user.", published[0].Message)
	assert.Equal(t, events.EventUserUpdated, published[1].Type)
	assert.Equal(t, events.EventUserRemoved, published[2].Type)
	assert.Equal(t, "Dana has been removed from the platform.", published[2].Message)
}

func TestSimulatedLatencyAdvancesClock(t *testing.T) {
	svc, _, mock := newTestService(t)
	ctx := context.Background()

	start := mock.Now()
	_, err := svc.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, listDelay, mock.Now().Sub(start))
}
