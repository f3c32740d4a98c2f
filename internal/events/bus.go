package events

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
)

// EventBus defines the interface for the event bus system
type EventBus interface {
	// Publish publishes an event to the event bus
	Publish(ctx context.Context, event Event) error

	// PublishAsync publishes an event without blocking the caller
	PublishAsync(event Event) error

	// Subscribe registers a handler for the given event types.
	// An empty type list subscribes to everything.
	Subscribe(subscriber string, handler EventHandler, types ...EventType) *Subscription

	// Unsubscribe removes a subscription
	Unsubscribe(subscriptionID string) error

	// Recent returns up to limit stored events, most recent first
	Recent(limit int) []Event

	// Start starts the event bus
	Start(ctx context.Context) error

	// Stop stops the event bus gracefully
	Stop(ctx context.Context) error
}

const recentBufferSize = 100

// eventBus implements the EventBus interface
type eventBus struct {
	mu            sync.RWMutex
	subscriptions map[string]*Subscription
	eventChannel  chan Event
	recentEvents  []Event
	running       bool
	wg            sync.WaitGroup
}

// NewEventBus creates a new event bus instance
func NewEventBus(bufferSize int) EventBus {
	if bufferSize <= 0 {
		bufferSize = 256
	}
	return &eventBus{
		subscriptions: make(map[string]*Subscription),
		eventChannel:  make(chan Event, bufferSize),
		recentEvents:  make([]Event, 0, recentBufferSize),
	}
}

// Start starts the event bus
func (eb *eventBus) Start(ctx context.Context) error {
	eb.mu.Lock()
	defer eb.mu.Unlock()

	if eb.running {
		return fmt.Errorf("event bus is already running")
	}
	eb.running = true

	eb.wg.Add(1)
	go eb.processEvents()
	return nil
}

// Stop stops the event bus gracefully
func (eb *eventBus) Stop(ctx context.Context) error {
	eb.mu.Lock()
	if !eb.running {
		eb.mu.Unlock()
		return nil
	}
	eb.running = false
	close(eb.eventChannel)
	eb.mu.Unlock()

	done := make(chan struct{})
	go func() {
		eb.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Publish publishes an event to the event bus
func (eb *eventBus) Publish(ctx context.Context, event Event) error {
	eb.mu.RLock()
	if !eb.running {
		eb.mu.RUnlock()
		return fmt.Errorf("event bus is not running")
	}
	eb.mu.RUnlock()

	event = eb.stamp(event)

	select {
	case eb.eventChannel <- event:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// PublishAsync publishes an event, dropping it if the buffer is full
func (eb *eventBus) PublishAsync(event Event) error {
	eb.mu.RLock()
	if !eb.running {
		eb.mu.RUnlock()
		return fmt.Errorf("event bus is not running")
	}
	eb.mu.RUnlock()

	event = eb.stamp(event)

	select {
	case eb.eventChannel <- event:
		return nil
	default:
		return fmt.Errorf("event channel full, dropping event %s", event.Type)
	}
}

func (eb *eventBus) stamp(event Event) Event {
	if event.ID == "" {
		event.ID = uuid.New().String()
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}
	if event.Severity == "" {
		event.Severity = SeverityInfo
	}
	return event
}

// Subscribe registers a handler for the given event types
func (eb *eventBus) Subscribe(subscriber string, handler EventHandler, types ...EventType) *Subscription {
	sub := &Subscription{
		ID:         uuid.New().String(),
		Types:      types,
		Subscriber: subscriber,
		Created:    time.Now(),
		handler:    handler,
	}

	eb.mu.Lock()
	eb.subscriptions[sub.ID] = sub
	eb.mu.Unlock()
	return sub
}

// Unsubscribe removes a subscription
func (eb *eventBus) Unsubscribe(subscriptionID string) error {
	eb.mu.Lock()
	defer eb.mu.Unlock()

	if _, ok := eb.subscriptions[subscriptionID]; !ok {
		return fmt.Errorf("subscription not found: %s", subscriptionID)
	}
	delete(eb.subscriptions, subscriptionID)
	return nil
}

// Recent returns up to limit stored events, most recent first
func (eb *eventBus) Recent(limit int) []Event {
	eb.mu.RLock()
	defer eb.mu.RUnlock()

	if limit <= 0 || limit > len(eb.recentEvents) {
		limit = len(eb.recentEvents)
	}

	out := make([]Event, 0, limit)
	for i := len(eb.recentEvents) - 1; i >= len(eb.recentEvents)-limit; i-- {
		out = append(out, eb.recentEvents[i])
	}
	return out
}

// processEvents dispatches queued events to matching subscribers
func (eb *eventBus) processEvents() {
	defer eb.wg.Done()

	for event := range eb.eventChannel {
		eb.mu.Lock()
		eb.recentEvents = append(eb.recentEvents, event)
		if len(eb.recentEvents) > recentBufferSize {
			eb.recentEvents = eb.recentEvents[len(eb.recentEvents)-recentBufferSize:]
		}
		subs := make([]*Subscription, 0, len(eb.subscriptions))
		for _, sub := range eb.subscriptions {
			if sub.matches(event) {
				subs = append(subs, sub)
			}
		}
		eb.mu.Unlock()

		for _, sub := range subs {
			sub.handler(event)
		}
	}
}
