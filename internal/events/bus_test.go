package events

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func startedBus(t *testing.T) EventBus {
	t.Helper()

	bus := NewEventBus(16)
	require.NoError(t, bus.Start(context.Background()))
	t.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()
		_ = bus.Stop(ctx)
	})
	return bus
}

func TestPublishReachesSubscriber(t *testing.T) {
	bus := startedBus(t)

	var mu sync.Mutex
	var received []Event
	bus.Subscribe("test", func(event Event) {
		mu.Lock()
		defer mu.Unlock()
		received = append(received, event)
	})

	require.NoError(t, bus.Publish(context.Background(), Notification(
		EventContentAdded, "contentmodule", "Content Added", "Test movie added.")))

	require.Eventually(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return len(received) == 1
	}, time.Second, 10*time.Millisecond)

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, EventContentAdded, received[0].Type)
	assert.NotEmpty(t, received[0].ID)
	assert.False(t, received[0].Timestamp.IsZero())
	assert.Equal(t, SeverityInfo, received[0].Severity)
}

func TestSubscribeFiltersByType(t *testing.T) {
	bus := startedBus(t)

	var mu sync.Mutex
	var received []EventType
	bus.Subscribe("filtered", func(event Event) {
		mu.Lock()
		defer mu.Unlock()
		received = append(received, event.Type)
	}, EventUserAdded, EventUserRemoved)

	ctx := context.Background()
	require.NoError(t, bus.Publish(ctx, Notification(EventUserAdded, "usermodule", "t", "m")))
	require.NoError(t, bus.Publish(ctx, Notification(EventContentAdded, "contentmodule", "t", "m")))
	require.NoError(t, bus.Publish(ctx, Notification(EventUserRemoved, "usermodule", "t", "m")))

	require.Eventually(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return len(received) == 2
	}, time.Second, 10*time.Millisecond)

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, []EventType{EventUserAdded, EventUserRemoved}, received)
}

func TestUnsubscribeStopsDelivery(t *testing.T) {
	bus := startedBus(t)

	var mu sync.Mutex
	count := 0
	sub := bus.Subscribe("leaver", func(event Event) {
		mu.Lock()
		defer mu.Unlock()
		count++
	})

	ctx := context.Background()
	require.NoError(t, bus.Publish(ctx, Notification(EventSystemStarted, "server", "t", "m")))
	require.Eventually(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return count == 1
	}, time.Second, 10*time.Millisecond)

	require.NoError(t, bus.Unsubscribe(sub.ID))
	assert.Error(t, bus.Unsubscribe(sub.ID))

	require.NoError(t, bus.Publish(ctx, Notification(EventSystemStarted, "server", "t", "m")))
	time.Sleep(50 * time.Millisecond)

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, 1, count)
}

func TestRecentKeepsMostRecentFirst(t *testing.T) {
	bus := startedBus(t)
	ctx := context.Background()

	require.NoError(t, bus.Publish(ctx, Notification(EventContentAdded, "contentmodule", "first", "m")))
	require.NoError(t, bus.Publish(ctx, Notification(EventContentUpdated, "contentmodule", "second", "m")))
	require.NoError(t, bus.Publish(ctx, Notification(EventContentRemoved, "contentmodule", "third", "m")))

	require.Eventually(t, func() bool {
		return len(bus.Recent(0)) == 3
	}, time.Second, 10*time.Millisecond)

	recent := bus.Recent(2)
	require.Len(t, recent, 2)
	assert.Equal(t, "third", recent[0].Title)
	assert.Equal(t, "second", recent[1].Title)
}

func TestRecentCapsRetention(t *testing.T) {
	bus := startedBus(t)
	ctx := context.Background()

	for i := 0; i < recentBufferSize+20; i++ {
		require.NoError(t, bus.Publish(ctx, Notification(EventSystemStarted, "server", "t", "m")))
	}

	require.Eventually(t, func() bool {
		return len(bus.Recent(0)) == recentBufferSize
	}, time.Second, 10*time.Millisecond)
}

func TestPublishFailsWhenStopped(t *testing.T) {
	bus := NewEventBus(4)

	err := bus.Publish(context.Background(), Notification(EventSystemStarted, "server", "t", "m"))
	assert.Error(t, err)
	assert.Error(t, bus.PublishAsync(Notification(EventSystemStarted, "server", "t", "m")))
}
