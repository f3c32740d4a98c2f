// Package analyticsmodule serves the synthetic 30-day dashboard metrics.
package analyticsmodule

import (
	"math/rand"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/streamvault/streamvault/internal/clock"
	"github.com/streamvault/streamvault/internal/logger"
	"github.com/streamvault/streamvault/internal/modules/modulemanager"
)

// Auto-register the module when imported
func init() {
	Register()
}

const (
	// ModuleID is the unique identifier for the analytics module
	ModuleID = "system.analytics"

	// ModuleName is the display name for the analytics module
	ModuleName = "Analytics"
)

// Module implements dashboard metrics as a module
type Module struct {
	generator *Generator
}

// Register registers the analytics module with the module system
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

// Migrate performs database migrations. Analytics keep no state.
func (m *Module) Migrate(db *gorm.DB) error {
	return nil
}

// Init initializes the analytics module
func (m *Module) Init() error {
	logger.Info("Initializing analytics module")

	rng := rand.New(rand.NewSource(time.Now().UnixNano()))
	m.generator = NewGenerator(clock.New(), rng)
	return nil
}

// Generator returns the analytics generator
func (m *Module) Generator() *Generator {
	return m.generator
}

// RegisterRoutes registers HTTP routes
func (m *Module) RegisterRoutes(router *gin.Engine) {
	handler := NewHandler(m.generator)
	handler.RegisterRoutes(router)
}
