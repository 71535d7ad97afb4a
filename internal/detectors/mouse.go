package detectors

import (
	"fmt"
	"sync"
	"time"

	"github.com/Micheduc25/evaluation-platform-sub000/internal/models"
)

// Mouse anomaly type names.
const AnomalyNoMouseMovement = "no_mouse_movement"

// Mouse heuristics. Real users cannot click a dozen targets without the
// pointer travelling between them; scripted input can.
const (
	clickThreshold   = 10
	movementEpsilon  = 2
	sampleBufferSize = 1000
	sampleWindow     = 5 * time.Minute
)

type mouseSample struct {
	x, y float64
	at   time.Time
}

// MouseStats is the pull-style snapshot of recorded activity.
type MouseStats struct {
	TotalMovements int `json:"totalMovements"`
	TotalClicks    int `json:"totalClicks"`
}

// MouseTracker keeps rolling buffers of recent movement and click samples.
// Buffers are bounded in both count and age so a long exam cannot grow
// them without limit.
type MouseTracker struct {
	mu        sync.Mutex
	started   bool
	movements []mouseSample
	clicks    []mouseSample

	totalMovements int
	totalClicks    int

	now func() time.Time
}

// NewMouseTracker returns an empty tracker.
func NewMouseTracker() *MouseTracker {
	return &MouseTracker{now: time.Now}
}

// Start begins recording. Safe to call more than once.
func (m *MouseTracker) Start() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.started = true
}

// Stop halts recording and clears the buffers. Idempotent.
func (m *MouseTracker) Stop() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.started = false
	m.movements = nil
	m.clicks = nil
	m.totalMovements = 0
	m.totalClicks = 0
}

// HandleEvent consumes a mousemove or click signal.
func (m *MouseTracker) HandleEvent(ev models.SignalEvent) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if !m.started {
		return
	}

	sample := mouseSample{x: ev.X, y: ev.Y, at: m.now()}
	switch ev.Kind {
	case models.SignalMouseMove:
		m.movements = appendBounded(m.movements, sample)
		m.totalMovements++
	case models.SignalClick:
		m.clicks = appendBounded(m.clicks, sample)
		m.totalClicks++
	}
}

func appendBounded(buf []mouseSample, s mouseSample) []mouseSample {
	buf = append(buf, s)
	// Prune by age first, then cap the count.
	cutoff := s.at.Add(-sampleWindow)
	start := 0
	for start < len(buf) && buf[start].at.Before(cutoff) {
		start++
	}
	buf = buf[start:]
	if len(buf) > sampleBufferSize {
		buf = buf[len(buf)-sampleBufferSize:]
	}
	return buf
}

// GetStats returns the lifetime movement and click counts.
func (m *MouseTracker) GetStats() MouseStats {
	m.mu.Lock()
	defer m.mu.Unlock()
	return MouseStats{TotalMovements: m.totalMovements, TotalClicks: m.totalClicks}
}

// DetectAnomalies evaluates the recorded samples on demand.
func (m *MouseTracker) DetectAnomalies() []models.Anomaly {
	m.mu.Lock()
	defer m.mu.Unlock()

	anomalies := []models.Anomaly{}

	if m.totalClicks >= clickThreshold && m.totalMovements <= movementEpsilon {
		anomalies = append(anomalies, models.Anomaly{
			Type:     AnomalyNoMouseMovement,
			Severity: models.SeverityHigh,
			Message:  fmt.Sprintf("%d clicks recorded with almost no pointer movement", m.totalClicks),
		})
	}

	return anomalies
}
