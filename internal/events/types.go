// Package events provides the event bus that carries user-facing
// notifications and audit signals between the admin services and their
// consumers. Every successful mutation publishes here.
package events

import (
	"time"
)

// EventType represents the type of event
type EventType string

// System-wide event types
const (
	// Content events
	EventContentAdded   EventType = "content.added"
	EventContentUpdated EventType = "content.updated"
	EventContentRemoved EventType = "content.removed"

	// Managed-user events
	EventUserAdded   EventType = "user.added"
	EventUserUpdated EventType = "user.updated"
	EventUserRemoved EventType = "user.removed"

	// Session events
	EventLoginSucceeded  EventType = "auth.login.succeeded"
	EventLoginFailed     EventType = "auth.login.failed"
	EventLoggedOut       EventType = "auth.logged_out"
	EventRegistered      EventType = "auth.registered"
	EventPasswordReset   EventType = "auth.password_reset"
	EventRoleSwitched    EventType = "auth.role_switched"
	EventSessionExpired  EventType = "auth.session_expired"
	EventSessionRestored EventType = "auth.session_restored"

	// Upload events
	EventUploadCompleted EventType = "upload.completed"
	EventUploadFailed    EventType = "upload.failed"
	EventUploadRejected  EventType = "upload.rejected"
	EventUploadSubmitted EventType = "upload.submitted"

	// System events
	EventSystemStarted EventType = "system.started"
	EventSystemStopped EventType = "system.stopped"
)

// Severity mirrors the notification variants the admin console renders.
type Severity string

const (
	SeverityInfo        Severity = "info"
	SeverityWarning     Severity = "warning"
	SeverityDestructive Severity = "destructive"
)

// Event represents a notification published on the bus. Title and Message
// are the user-facing parts; the rest is routing and audit context.
type Event struct {
	ID        string                 `json:"id"`
	Type      EventType              `json:"type"`
	Source    string                 `json:"source"` // publishing module, e.g. "contentmodule"
	Title     string                 `json:"title"`
	Message   string                 `json:"message"`
	Severity  Severity               `json:"severity"`
	Data      map[string]interface{} `json:"data,omitempty"`
	Timestamp time.Time              `json:"timestamp"`
}

// EventHandler represents a function that handles events
type EventHandler func(event Event)

// Subscription represents an active event subscription
type Subscription struct {
	ID         string      `json:"id"`
	Types      []EventType `json:"types,omitempty"` // empty means all types
	Subscriber string      `json:"subscriber"`
	Created    time.Time   `json:"created"`
	handler    EventHandler
}

// matches reports whether the subscription wants this event
func (s *Subscription) matches(event Event) bool {
	if len(s.Types) == 0 {
		return true
	}
	for _, t := range s.Types {
		if t == event.Type {
			return true
		}
	}
	return false
}

// Notification builds a user-facing event the way the services publish them.
func Notification(eventType EventType, source, title, message string) Event {
	return Event{
		Type:     eventType,
		Source:   source,
		Title:    title,
		Message:  message,
		Severity: SeverityInfo,
	}
}
