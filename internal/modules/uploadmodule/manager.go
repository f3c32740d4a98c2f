package uploadmodule

import (
	"context"
	"fmt"
	"math/rand"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/streamvault/streamvault/internal/clock"
	apperrors "github.com/streamvault/streamvault/internal/errors"
	"github.com/streamvault/streamvault/internal/events"
)

// completionDelay is the pause between progress hitting 100 and the record
// turning completed.
const completionDelay = 500 * time.Millisecond

// uploadFailedMessage is attached to every simulated failure.
const uploadFailedMessage = "Upload failed. Please try again."

// Status is the lifecycle state of a simulated upload.
type Status string

const (
	StatusUploading Status = "uploading"
	StatusCompleted Status = "completed"
	StatusError     Status = "error"
)

// File is one entry in the upload working set.
type File struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	Size         int64  `json:"size"`
	Type         string `json:"type"`
	Progress     int    `json:"progress"`
	Status       Status `json:"status"`
	ErrorMessage string `json:"errorMessage,omitempty"`
}

// Manager simulates a batch upload: each added file gets a goroutine that
// ticks progress forward until a terminal state. Failure is a terminal
// record state, never an error return; in-flight files are independent.
type Manager struct {
	clock     clock.Clock
	bus       events.EventBus
	tick      time.Duration
	errorRate float64

	ctx    context.Context
	cancel context.CancelFunc

	mu      sync.Mutex
	rng     *rand.Rand
	files   map[string]*File
	order   []string
	cancels map[string]context.CancelFunc
}

// NewManager creates an upload simulator. The RNG is injected so tests can
// seed it; errorRate is the per-file probability of a simulated failure.
func NewManager(clk clock.Clock, bus events.EventBus, rng *rand.Rand, tick time.Duration, errorRate float64) *Manager {
	ctx, cancel := context.WithCancel(context.Background())
	return &Manager{
		clock:     clk,
		bus:       bus,
		tick:      tick,
		errorRate: errorRate,
		ctx:       ctx,
		cancel:    cancel,
		rng:       rng,
		files:     make(map[string]*File),
		cancels:   make(map[string]context.CancelFunc),
	}
}

// Add puts a file into the working set and starts its progress simulation.
func (m *Manager) Add(name string, size int64, mimeType string) *File {
	m.mu.Lock()

	file := &File{
		ID:     uuid.NewString(),
		Name:   name,
		Size:   size,
		Type:   mimeType,
		Status: StatusUploading,
	}
	m.files[file.ID] = file
	m.order = append(m.order, file.ID)

	fileCtx, fileCancel := context.WithCancel(m.ctx)
	m.cancels[file.ID] = fileCancel

	// A slice of files never makes it: schedule a failure at a random
	// point in the first 1-4 seconds. It overrides completion if it
	// fires first; a completed record cancels it.
	willFail := m.rng.Float64() < m.errorRate
	failAfter := time.Second + time.Duration(m.rng.Int63n(int64(3*time.Second)))

	snapshot := *file
	m.mu.Unlock()

	go m.runProgress(fileCtx, file.ID)
	if willFail {
		go m.runFailure(fileCtx, file.ID, failAfter)
	}
	return &snapshot
}

// runProgress ticks the file toward 100, then completes it after the
// trailing delay.
func (m *Manager) runProgress(ctx context.Context, id string) {
	ticker := m.clock.NewTicker(m.tick)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C():
			full, alive := m.advance(id)
			if !alive {
				return
			}
			if full {
				if err := m.clock.Sleep(ctx, completionDelay); err != nil {
					return
				}
				m.complete(id)
				return
			}
		}
	}
}

// runFailure flips the file to error once its scheduled moment arrives,
// unless a terminal state got there first.
func (m *Manager) runFailure(ctx context.Context, id string, after time.Duration) {
	if err := m.clock.Sleep(ctx, after); err != nil {
		return
	}

	m.mu.Lock()
	file, ok := m.files[id]
	if !ok || file.Status != StatusUploading {
		m.mu.Unlock()
		return
	}
	file.Status = StatusError
	file.ErrorMessage = uploadFailedMessage
	name := file.Name
	m.cancelLocked(id)
	m.mu.Unlock()

	m.notify(events.EventUploadFailed, "Upload failed",
		fmt.Sprintf("%s could not be uploaded. Please try again.", name),
		events.SeverityDestructive)
}

// advance adds 5-15 progress. full means the bar hit 100; alive is false
// once the file is gone or terminal.
func (m *Manager) advance(id string) (full, alive bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	file, ok := m.files[id]
	if !ok || file.Status != StatusUploading {
		return false, false
	}

	file.Progress += 5 + m.rng.Intn(11)
	if file.Progress >= 100 {
		file.Progress = 100
		return true, true
	}
	return false, true
}

// complete marks the file completed unless a failure beat it there.
func (m *Manager) complete(id string) {
	m.mu.Lock()
	file, ok := m.files[id]
	if !ok || file.Status != StatusUploading {
		m.mu.Unlock()
		return
	}
	file.Status = StatusCompleted
	name := file.Name
	m.cancelLocked(id)
	m.mu.Unlock()

	m.notify(events.EventUploadCompleted, "Upload complete",
		fmt.Sprintf("%s has been uploaded successfully.", name),
		events.SeverityInfo)
}

// Files returns the working set in insertion order.
func (m *Manager) Files() []File {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := make([]File, 0, len(m.order))
	for _, id := range m.order {
		if file, ok := m.files[id]; ok {
			out = append(out, *file)
		}
	}
	return out
}

// Remove drops a file from the working set. Allowed at any status.
func (m *Manager) Remove(id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.files[id]; !ok {
		return apperrors.NotFoundError("remove_upload", apperrors.ErrUploadNotFound).WithEntity("upload", id)
	}

	m.cancelLocked(id)
	delete(m.files, id)
	for i, fid := range m.order {
		if fid == id {
			m.order = append(m.order[:i], m.order[i+1:]...)
			break
		}
	}
	return nil
}

// Submit publishes the completed batch. It is rejected, with no state
// change, while any file is still uploading or when nothing completed.
// Success clears the working set and returns how many files went through.
func (m *Manager) Submit() (int, error) {
	m.mu.Lock()

	completed := 0
	for _, file := range m.files {
		switch file.Status {
		case StatusUploading:
			m.mu.Unlock()
			m.notify(events.EventUploadRejected, "Uploads in progress",
				"Please wait for all uploads to finish before submitting.",
				events.SeverityWarning)
			return 0, apperrors.ValidationError("submit_uploads", apperrors.ErrUploadsInProgress)
		case StatusCompleted:
			completed++
		}
	}
	if completed == 0 {
		m.mu.Unlock()
		m.notify(events.EventUploadRejected, "Nothing to submit",
			"No completed uploads to submit.", events.SeverityWarning)
		return 0, apperrors.ValidationError("submit_uploads", apperrors.ErrNoCompletedUploads)
	}

	for id := range m.files {
		m.cancelLocked(id)
	}
	m.files = make(map[string]*File)
	m.order = nil
	m.mu.Unlock()

	m.notify(events.EventUploadSubmitted, "Content submitted",
		fmt.Sprintf("%d file(s) have been submitted to the library.", completed),
		events.SeverityInfo)
	return completed, nil
}

// Close stops every simulation goroutine.
func (m *Manager) Close() {
	m.cancel()
}

func (m *Manager) cancelLocked(id string) {
	if cancel, ok := m.cancels[id]; ok {
		cancel()
		delete(m.cancels, id)
	}
}

func (m *Manager) notify(eventType events.EventType, title, message string, severity events.Severity) {
	if m.bus == nil {
		return
	}
	event := events.Notification(eventType, ModuleID, title, message)
	event.Severity = severity
	_ = m.bus.PublishAsync(event)
}
