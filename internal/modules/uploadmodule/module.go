// Package uploadmodule simulates batch content uploads: per-file progress
// goroutines, random failures, and a submit gate over the working set.
package uploadmodule

import (
	"context"
	"math/rand"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/streamvault/streamvault/internal/clock"
	"github.com/streamvault/streamvault/internal/config"
	"github.com/streamvault/streamvault/internal/events"
	"github.com/streamvault/streamvault/internal/logger"
	"github.com/streamvault/streamvault/internal/modules/modulemanager"
)

// Auto-register the module when imported
func init() {
	Register()
}

const (
	// ModuleID is the unique identifier for the upload module
	ModuleID = "system.uploads"

	// ModuleName is the display name for the upload module
	ModuleName = "Upload Simulator"
)

// Module implements the upload simulator as a module
type Module struct {
	manager *Manager
}

// Register registers the upload module with the module system
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
	return false
}

// Migrate performs database migrations. The working set is in-memory only.
func (m *Module) Migrate(db *gorm.DB) error {
	return nil
}

// Init initializes the upload module
func (m *Module) Init() error {
	logger.Info("Initializing upload module")

	cfg := config.Get()
	rng := rand.New(rand.NewSource(time.Now().UnixNano()))
	m.manager = NewManager(
		clock.New(),
		events.GetGlobalEventBus(),
		rng,
		cfg.Simulation.UploadTick,
		cfg.Simulation.UploadErrorRate,
	)
	return nil
}

// Manager returns the upload manager
func (m *Module) Manager() *Manager {
	return m.manager
}

// RegisterRoutes registers HTTP routes
func (m *Module) RegisterRoutes(router *gin.Engine) {
	handler := NewHandler(m.manager)
	handler.RegisterRoutes(router)
}

// Shutdown stops all simulation goroutines
func (m *Module) Shutdown(ctx context.Context) error {
	if m.manager != nil {
		m.manager.Close()
	}
	return nil
}

// Dependencies returns module dependencies
func (m *Module) Dependencies() []string {
	return []string{"system.events"}
}
