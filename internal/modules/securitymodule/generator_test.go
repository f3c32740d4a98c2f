package securitymodule

import (
	"context"
	"math/rand"
	"net"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/streamvault/streamvault/internal/clock"
)

func newTestGenerator(t *testing.T) (*Generator, *clock.Mock) {
	t.Helper()

	mock := clock.NewMock(time.Date(2024, 6, 15, 12, 0, 0, 0, time.UTC))
	mock.SetAutoAdvance(true)
	return NewGenerator(mock, rand.New(rand.NewSource(7))), mock
}

func TestGenerateShapeAndOrdering(t *testing.T) {
	gen, mock := newTestGenerator(t)

	entries, err := gen.Generate(context.Background())
	require.NoError(t, err)
	require.Len(t, entries, logEntries)

	// Most recent first, one entry per hour going backward.
	now := mock.Now()
	for i, entry := range entries {
		assert.Equal(t, now.Add(-time.Duration(i)*time.Hour), entry.Timestamp)
	}
}

func TestGenerateEntryFields(t *testing.T) {
	gen, _ := newTestGenerator(t)

	entries, err := gen.Generate(context.Background())
	require.NoError(t, err)

	for _, entry := range entries {
		assert.Contains(t, actions, entry.Action)
		assert.Contains(t, actors, entry.User)
		assert.Contains(t, severities, entry.Severity)

		require.True(t, strings.HasPrefix(entry.IP, "192.168."), "ip %q", entry.IP)
		assert.NotNil(t, net.ParseIP(entry.IP), "ip %q", entry.IP)
	}
}

func TestGenerateRegeneratesEachCall(t *testing.T) {
	gen, _ := newTestGenerator(t)
	ctx := context.Background()

	first, err := gen.Generate(ctx)
	require.NoError(t, err)
	second, err := gen.Generate(ctx)
	require.NoError(t, err)

	assert.NotEqual(t, first, second)
}

func TestGenerateSimulatedLatency(t *testing.T) {
	gen, mock := newTestGenerator(t)

	start := mock.Now()
	_, err := gen.Generate(context.Background())
	require.NoError(t, err)
	assert.Equal(t, generateDelay, mock.Now().Sub(start))
}
