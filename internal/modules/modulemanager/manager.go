// Package modulemanager wires the feature modules together. Modules
// self-register from their init functions; LoadAll migrates and initializes
// them in dependency order.
package modulemanager

import (
	"context"
	"fmt"
	"sync"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/streamvault/streamvault/internal/logger"
)

// Module defines the interface that all modules must implement
type Module interface {
	ID() string                // Unique identifier for the module
	Name() string              // Display name for the module
	Core() bool                // Whether this is a core module (cannot be disabled)
	Migrate(db *gorm.DB) error // Run database migrations
	Init() error               // Initialize the module
}

// RouteRegistrar is an optional interface for modules that register routes
type RouteRegistrar interface {
	RegisterRoutes(router *gin.Engine)
}

// DependencyAware is an optional interface for modules that must initialize
// after others
type DependencyAware interface {
	Dependencies() []string
}

// Shutdowner is an optional interface for modules holding background timers
// or other resources that must be released on teardown
type Shutdowner interface {
	Shutdown(ctx context.Context) error
}

// ModuleRegistry manages module registration and initialization
type ModuleRegistry struct {
	modules     map[string]Module
	mu          sync.RWMutex
	initialized bool
}

// Registry is the global module registry
var Registry = &ModuleRegistry{
	modules: make(map[string]Module),
}

// Register adds a module to the registry
func Register(m Module) {
	Registry.Register(m)
}

// Register adds a module to the registry
func (r *ModuleRegistry) Register(m Module) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.initialized {
		logger.Warn("Module %s (%s) registered after initialization", m.Name(), m.ID())
	}

	r.modules[m.ID()] = m
	logger.Info("Module registered: %s (%s)", m.Name(), m.ID())
}

// LoadAll initializes all registered modules
func LoadAll(db *gorm.DB) error {
	return Registry.LoadAll(db)
}

// LoadAll migrates and initializes all registered modules in dependency order
func (r *ModuleRegistry) LoadAll(db *gorm.DB) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.initialized {
		logger.Warn("Module system already initialized")
		return nil
	}

	order, err := initializationOrder(r.modules)
	if err != nil {
		return fmt.Errorf("failed to determine initialization order: %w", err)
	}

	logger.Info("Loading %d modules...", len(order))

	for i, module := range order {
		logger.Info("[%d/%d] Initializing module: %s", i+1, len(order), module.Name())

		if err := module.Migrate(db); err != nil {
			return fmt.Errorf("failed to migrate %s: %w", module.Name(), err)
		}
		if err := module.Init(); err != nil {
			return fmt.Errorf("failed to initialize %s: %w", module.Name(), err)
		}
	}

	r.initialized = true
	return nil
}

// RegisterAllRoutes lets every route-registering module attach its routes
func RegisterAllRoutes(router *gin.Engine) {
	Registry.mu.RLock()
	defer Registry.mu.RUnlock()

	for _, module := range Registry.modules {
		if registrar, ok := module.(RouteRegistrar); ok {
			registrar.RegisterRoutes(router)
		}
	}
}

// ShutdownAll tears down every module that holds background resources
func ShutdownAll(ctx context.Context) {
	Registry.mu.RLock()
	defer Registry.mu.RUnlock()

	for _, module := range Registry.modules {
		if s, ok := module.(Shutdowner); ok {
			if err := s.Shutdown(ctx); err != nil {
				logger.Warn("Module %s shutdown failed: %v", module.Name(), err)
			}
		}
	}
}

// GetModule returns a module by ID
func GetModule(id string) (Module, bool) {
	return Registry.GetModule(id)
}

// GetModule returns a module by ID
func (r *ModuleRegistry) GetModule(id string) (Module, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	m, ok := r.modules[id]
	return m, ok
}

// Reset clears the registry. Intended for tests.
func Reset() {
	Registry.mu.Lock()
	defer Registry.mu.Unlock()
	Registry.modules = make(map[string]Module)
	Registry.initialized = false
}

// initializationOrder topologically sorts modules by their declared
// dependencies. Dependencies on unregistered modules are ignored so
// partial deployments still start.
func initializationOrder(modules map[string]Module) ([]Module, error) {
	const (
		unvisited = iota
		visiting
		visited
	)

	state := make(map[string]int, len(modules))
	order := make([]Module, 0, len(modules))

	var visit func(id string) error
	visit = func(id string) error {
		m, ok := modules[id]
		if !ok {
			return nil
		}
		switch state[id] {
		case visited:
			return nil
		case visiting:
			return fmt.Errorf("dependency cycle involving module %s", id)
		}
		state[id] = visiting

		if da, ok := m.(DependencyAware); ok {
			for _, dep := range da.Dependencies() {
				if err := visit(dep); err != nil {
					return err
				}
			}
		}

		state[id] = visited
		order = append(order, m)
		return nil
	}

	for id := range modules {
		if err := visit(id); err != nil {
			return nil, err
		}
	}
	return order, nil
}
