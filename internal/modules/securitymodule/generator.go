package securitymodule

import (
	"context"
	"fmt"
	"math/rand"
	"sync"
	"time"

	"github.com/streamvault/streamvault/internal/clock"
)

// Simulated network round-trip for an audit-log fetch.
const generateDelay = 800 * time.Millisecond

// logEntries is how many synthetic entries a fetch returns, one per hour
// going backward from now.
const logEntries = 20

// Severity grades an audit entry.
type Severity string

const (
	SeverityLow    Severity = "low"
	SeverityMedium Severity = "medium"
	SeverityHigh   Severity = "high"
)

// LogEntry is one synthetic audit record.
type LogEntry struct {
	Timestamp time.Time `json:"timestamp"`
	Action    string    `json:"action"`
	User      string    `json:"user"`
	IP        string    `json:"ip"`
	Severity  Severity  `json:"severity"`
}

// actions is the audit vocabulary entries are drawn from.
var actions = []string{
	"Login attempt",
	"Failed login attempt",
	"Password changed",
	"Password reset requested",
	"Profile updated",
	"Admin panel accessed",
	"Content modified",
	"API key generated",
	"User permissions changed",
	"Session expired",
}

// actors are the demo identities that show up in the log.
var actors = []string{
	"admin@streamvault.tv",
	"john@example.com",
	"jane@example.com",
	"mike@example.com",
}

var severities = []Severity{SeverityLow, SeverityMedium, SeverityHigh}

// Generator produces a synthetic audit log, regenerated on every fetch.
type Generator struct {
	clock clock.Clock

	mu  sync.Mutex
	rng *rand.Rand
}

// NewGenerator creates a security-log generator. The RNG is injected so
// tests can seed it.
func NewGenerator(clk clock.Clock, rng *rand.Rand) *Generator {
	return &Generator{clock: clk, rng: rng}
}

// Generate builds a fresh log, most recent entry first. It never fails
// beyond context expiry during the simulated delay.
func (g *Generator) Generate(ctx context.Context) ([]LogEntry, error) {
	if err := g.clock.Sleep(ctx, generateDelay); err != nil {
		return nil, err
	}

	g.mu.Lock()
	defer g.mu.Unlock()

	now := g.clock.Now()
	entries := make([]LogEntry, logEntries)
	for i := 0; i < logEntries; i++ {
		entries[i] = LogEntry{
			Timestamp: now.Add(-time.Duration(i) * time.Hour),
			Action:    actions[g.rng.Intn(len(actions))],
			User:      actors[g.rng.Intn(len(actors))],
			IP:        fmt.Sprintf("192.168.%d.%d", g.rng.Intn(256), g.rng.Intn(256)),
			Severity:  severities[g.rng.Intn(len(severities))],
		}
	}
	return entries, nil
}
