// Package usermodule manages subscriber accounts: CRUD with email
// validation and uniqueness enforcement, simulated latency, and
// notifications on every mutation.
package usermodule

import (
	"context"
	"fmt"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/streamvault/streamvault/internal/clock"
	"github.com/streamvault/streamvault/internal/config"
	"github.com/streamvault/streamvault/internal/database"
	"github.com/streamvault/streamvault/internal/events"
	"github.com/streamvault/streamvault/internal/logger"
	"github.com/streamvault/streamvault/internal/modules/modulemanager"
)

// Auto-register the module when imported
func init() {
	Register()
}

const (
	// ModuleID is the unique identifier for the user module
	ModuleID = "system.users"

	// ModuleName is the display name for the user module
	ModuleName = "User Manager"
)

// Module implements subscriber administration as a module
type Module struct {
	db      *gorm.DB
	bus     events.EventBus
	service *Service
}

// Register registers the user module with the module system
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

// Migrate performs database migrations
func (m *Module) Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(&database.User{}); err != nil {
		return fmt.Errorf("failed to migrate user models: %w", err)
	}
	return nil
}

// Init initializes the user module
func (m *Module) Init() error {
	logger.Info("Initializing user module")

	if m.db == nil {
		m.db = database.GetDB()
	}
	if m.bus == nil {
		m.bus = events.GetGlobalEventBus()
	}

	m.service = NewService(m.db, clock.New(), m.bus)

	if config.Get().Simulation.SeedDemoData {
		if err := m.service.Initialize(DemoUsers()); err != nil {
			return fmt.Errorf("failed to seed demo users: %w", err)
		}
		logger.Info("Demo users seeded")
	}

	return nil
}

// Service returns the user service
func (m *Module) Service() *Service {
	return m.service
}

// RegisterRoutes registers HTTP routes
func (m *Module) RegisterRoutes(router *gin.Engine) {
	handler := NewHandler(m.service)
	handler.RegisterRoutes(router)
}

// Shutdown gracefully shuts down the module
func (m *Module) Shutdown(ctx context.Context) error {
	return nil
}

// Dependencies returns module dependencies
func (m *Module) Dependencies() []string {
	return []string{"system.events"}
}
