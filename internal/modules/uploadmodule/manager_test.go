package uploadmodule

import (
	"context"
	"math/rand"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/streamvault/streamvault/internal/clock"
	apperrors "github.com/streamvault/streamvault/internal/errors"
	"github.com/streamvault/streamvault/internal/events"
)

const testTick = 300 * time.Millisecond

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

func (b *captureBus) types() []events.EventType {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := make([]events.EventType, len(b.events))
	for i, e := range b.events {
		out[i] = e.Type
	}
	return out
}

func newTestManager(t *testing.T, errorRate float64) (*Manager, *captureBus, *clock.Mock) {
	t.Helper()

	mock := clock.NewMock(time.Date(2024, 6, 15, 12, 0, 0, 0, time.UTC))
	bus := &captureBus{}
	mgr := NewManager(mock, bus, rand.New(rand.NewSource(99)), testTick, errorRate)
	t.Cleanup(mgr.Close)
	return mgr, bus, mock
}

// drive advances virtual time one tick at a time until cond holds.
func drive(t *testing.T, mock *clock.Mock, cond func() bool) {
	t.Helper()
	for i := 0; i < 200; i++ {
		mock.Advance(testTick)
		if cond() {
			return
		}
	}
	t.Fatal("condition never reached while driving the clock")
}

func fileByID(mgr *Manager, id string) (File, bool) {
	for _, f := range mgr.Files() {
		if f.ID == id {
			return f, true
		}
	}
	return File{}, false
}

func TestAddStartsAtZeroUploading(t *testing.T) {
	mgr, _, _ := newTestManager(t, 0)

	file := mgr.Add("trailer.mp4", 1<<20, "video/mp4")
	assert.NotEmpty(t, file.ID)
	assert.Equal(t, 0, file.Progress)
	assert.Equal(t, StatusUploading, file.Status)

	files := mgr.Files()
	require.Len(t, files, 1)
	assert.Equal(t, file.ID, files[0].ID)
}

func TestProgressTicksToCompletion(t *testing.T) {
	mgr, bus, mock := newTestManager(t, 0)

	file := mgr.Add("feature.mp4", 4<<20, "video/mp4")

	// Progress moves in 5-15 point steps, clamped at 100.
	drive(t, mock, func() bool {
		f, ok := fileByID(mgr, file.ID)
		return ok && f.Progress == 100
	})
	f, _ := fileByID(mgr, file.ID)
	assert.Equal(t, StatusUploading, f.Status)

	// Completion lands after the trailing delay.
	drive(t, mock, func() bool {
		f, ok := fileByID(mgr, file.ID)
		return ok && f.Status == StatusCompleted
	})

	types := bus.types()
	require.NotEmpty(t, types)
	assert.Contains(t, types, events.EventUploadCompleted)
}

func TestScheduledFailureOverridesProgress(t *testing.T) {
	mgr, bus, mock := newTestManager(t, 1)

	file := mgr.Add("corrupt.mp4", 2<<20, "video/mp4")

	drive(t, mock, func() bool {
		f, ok := fileByID(mgr, file.ID)
		return ok && f.Status == StatusError
	})

	f, _ := fileByID(mgr, file.ID)
	assert.Equal(t, uploadFailedMessage, f.ErrorMessage)
	assert.Contains(t, bus.types(), events.EventUploadFailed)
	assert.NotContains(t, bus.types(), events.EventUploadCompleted)

	// The error state is terminal; further ticks change nothing.
	progress := f.Progress
	mock.Advance(10 * testTick)
	f, _ = fileByID(mgr, file.ID)
	assert.Equal(t, StatusError, f.Status)
	assert.Equal(t, progress, f.Progress)
}

func TestRemoveAtAnyStatus(t *testing.T) {
	mgr, _, mock := newTestManager(t, 0)

	uploading := mgr.Add("a.mp4", 1, "video/mp4")
	require.NoError(t, mgr.Remove(uploading.ID))
	assert.Empty(t, mgr.Files())

	done := mgr.Add("b.mp4", 1, "video/mp4")
	drive(t, mock, func() bool {
		f, ok := fileByID(mgr, done.ID)
		return ok && f.Status == StatusCompleted
	})
	require.NoError(t, mgr.Remove(done.ID))
	assert.Empty(t, mgr.Files())

	err := mgr.Remove("no-such-id")
	require.Error(t, err)
	assert.True(t, apperrors.IsNotFound(err))
	assert.ErrorIs(t, err, apperrors.ErrUploadNotFound)
}

func TestSubmitRejectedWhileUploading(t *testing.T) {
	mgr, bus, _ := newTestManager(t, 0)

	mgr.Add("pending.mp4", 1, "video/mp4")

	_, err := mgr.Submit()
	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrUploadsInProgress)

	// Rejection leaves the working set untouched and warns.
	assert.Len(t, mgr.Files(), 1)
	types := bus.types()
	require.NotEmpty(t, types)
	assert.Equal(t, events.EventUploadRejected, types[len(types)-1])
}

func TestSubmitRejectedWithNothingCompleted(t *testing.T) {
	mgr, _, mock := newTestManager(t, 1)

	_, err := mgr.Submit()
	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrNoCompletedUploads)

	// A set holding only failures is just as unsubmittable.
	file := mgr.Add("doomed.mp4", 1, "video/mp4")
	drive(t, mock, func() bool {
		f, ok := fileByID(mgr, file.ID)
		return ok && f.Status == StatusError
	})
	_, err = mgr.Submit()
	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrNoCompletedUploads)
}

func TestSubmitClearsCompletedSet(t *testing.T) {
	mgr, bus, mock := newTestManager(t, 0)

	first := mgr.Add("one.mp4", 1, "video/mp4")
	second := mgr.Add("two.mp4", 1, "video/mp4")

	drive(t, mock, func() bool {
		a, okA := fileByID(mgr, first.ID)
		b, okB := fileByID(mgr, second.ID)
		return okA && okB && a.Status == StatusCompleted && b.Status == StatusCompleted
	})

	count, err := mgr.Submit()
	require.NoError(t, err)
	assert.Equal(t, 2, count)
	assert.Empty(t, mgr.Files())

	types := bus.types()
	assert.Equal(t, events.EventUploadSubmitted, types[len(types)-1])
}
