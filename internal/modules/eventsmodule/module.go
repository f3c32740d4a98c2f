// Package eventsmodule owns the notification bus and exposes the feed
// over HTTP, including a websocket stream for live toasts.
package eventsmodule

import (
	"context"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/streamvault/streamvault/internal/events"
	"github.com/streamvault/streamvault/internal/logger"
	"github.com/streamvault/streamvault/internal/modules/modulemanager"
)

// Auto-register the module when imported
func init() {
	Register()
}

const (
	// ModuleID is the unique identifier for the events module
	ModuleID = "system.events"

	// ModuleName is the display name for the events module
	ModuleName = "Event Bus"
)

// Module owns the event bus lifecycle
type Module struct {
	bus events.EventBus
}

// Register registers the events module with the module system
func Register() {
	modulemanager.Register(&Module{})
}

// ID returns the unique module identifier
func (m *Module) ID() string {
	return ModuleID
}

// Name returns the module display name
func (m *Module) Name() string {
	return ModuleName
}

// Core returns whether this is a core module
func (m *Module) Core() bool {
	return true
}

// Migrate performs database migrations. Events are never persisted.
func (m *Module) Migrate(db *gorm.DB) error {
	return nil
}

// Init starts the bus and installs it as the global instance
func (m *Module) Init() error {
	logger.Info("Initializing events module")

	if m.bus == nil {
		m.bus = events.NewEventBus(0)
	}
	if err := m.bus.Start(context.Background()); err != nil {
		return err
	}
	events.SetGlobalEventBus(m.bus)
	return nil
}

// Bus returns the event bus
func (m *Module) Bus() events.EventBus {
	return m.bus
}

// RegisterRoutes registers HTTP routes
func (m *Module) RegisterRoutes(router *gin.Engine) {
	handler := NewHandler(m.bus)
	handler.RegisterRoutes(router)
}

// Shutdown drains and stops the bus
func (m *Module) Shutdown(ctx context.Context) error {
	if m.bus == nil {
		return nil
	}
	return m.bus.Stop(ctx)
}
