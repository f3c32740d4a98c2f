// Package authmodule holds the demo session model: a fixed operator
// roster, permissive mock credentials, and a persisted session reference
// with periodic expiry.
package authmodule

import (
	"context"
	"fmt"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/streamvault/streamvault/internal/clock"
	"github.com/streamvault/streamvault/internal/config"
	"github.com/streamvault/streamvault/internal/events"
	"github.com/streamvault/streamvault/internal/logger"
	"github.com/streamvault/streamvault/internal/modules/modulemanager"
	"github.com/streamvault/streamvault/internal/sessionstore"
)

// Auto-register the module when imported
func init() {
	Register()
}

const (
	// ModuleID is the unique identifier for the auth module
	ModuleID = "system.auth"

	// ModuleName is the display name for the auth module
	ModuleName = "Session Manager"
)

// Module implements the session model as a module
type Module struct {
	store   sessionstore.Store
	manager *Manager
}

// Register registers the auth module with the module system
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

// Migrate performs database migrations. Sessions live in the key-value
// store, not the relational one.
func (m *Module) Migrate(db *gorm.DB) error {
	return nil
}

// Init initializes the auth module
func (m *Module) Init() error {
	logger.Info("Initializing auth module")

	cfg := config.Get()
	if m.store == nil {
		if cfg.Session.StorePath != "" {
			store, err := sessionstore.NewBadger(cfg.Session.StorePath)
			if err != nil {
				return fmt.Errorf("failed to open session store: %w", err)
			}
			m.store = store
		} else {
			m.store = sessionstore.NewMemory()
		}
	}

	m.manager = NewManager(
		clock.New(),
		events.GetGlobalEventBus(),
		m.store,
		DemoRoster(),
		cfg.Session.TTL,
		cfg.Session.CheckInterval,
	)

	if err := m.manager.Start(context.Background()); err != nil {
		return fmt.Errorf("failed to start session manager: %w", err)
	}
	return nil
}

// Manager returns the session manager
func (m *Module) Manager() *Manager {
	return m.manager
}

// RegisterRoutes registers HTTP routes
func (m *Module) RegisterRoutes(router *gin.Engine) {
	handler := NewHandler(m.manager)
	handler.RegisterRoutes(router)
}

// Shutdown stops the expiry check and closes the session store
func (m *Module) Shutdown(ctx context.Context) error {
	if m.manager != nil {
		m.manager.Stop()
	}
	if m.store != nil {
		return m.store.Close()
	}
	return nil
}

// Dependencies returns module dependencies
func (m *Module) Dependencies() []string {
	return []string{"system.events"}
}
