// Package logger provides the application-wide logging facade.
// All packages log through these helpers rather than holding their own
// logger instances, keeping call sites terse.
package logger

import (
	"fmt"
	"os"
	"strings"
	"sync"

	"github.com/hashicorp/go-hclog"
)

var (
	mu  sync.RWMutex
	log = hclog.New(&hclog.LoggerOptions{
		Name:  "streamvault",
		Level: hclog.Info,
	})
)

// SetLevel adjusts the global log level. Accepts debug, info, warn, error.
func SetLevel(level string) {
	mu.Lock()
	defer mu.Unlock()
	log = hclog.New(&hclog.LoggerOptions{
		Name:   "streamvault",
		Level:  hclog.LevelFromString(strings.ToLower(level)),
		Output: os.Stderr,
	})
}

// Info logs informational messages
func Info(format string, args ...interface{}) {
	mu.RLock()
	defer mu.RUnlock()
	log.Info(fmt.Sprintf(format, args...))
}

// Warn logs warning messages
func Warn(format string, args ...interface{}) {
	mu.RLock()
	defer mu.RUnlock()
	log.Warn(fmt.Sprintf(format, args...))
}

// Error logs error messages
func Error(format string, args ...interface{}) {
	mu.RLock()
	defer mu.RUnlock()
	log.Error(fmt.Sprintf(format, args...))
}

// Debug logs debug messages
func Debug(format string, args ...interface{}) {
	mu.RLock()
	defer mu.RUnlock()
	log.Debug(fmt.Sprintf(format, args...))
}
