package detectors

import (
	"sync"
	"time"

	"github.com/Micheduc25/evaluation-platform-sub000/internal/aggregator"
	"github.com/Micheduc25/evaluation-platform-sub000/internal/models"
)

// FocusMonitor watches page-hidden and window-blur transitions. Multiple
// hidden/blur signals inside the debounce window collapse into a single
// reported violation so one alt-tab is not double counted.
type FocusMonitor struct {
	mu         sync.Mutex
	started    bool
	lastReport time.Time
	window     time.Duration
	report     ReportFunc

	now func() time.Time
}

// NewFocusMonitor builds a monitor with the given debounce window.
func NewFocusMonitor(window time.Duration, report ReportFunc) *FocusMonitor {
	return &FocusMonitor{
		window: window,
		report: report,
		now:    time.Now,
	}
}

// Start begins reporting. Safe to call more than once.
func (m *FocusMonitor) Start() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.started = true
}

// Stop halts reporting and clears the debounce state. Idempotent.
func (m *FocusMonitor) Stop() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.started = false
	m.lastReport = time.Time{}
}

// HandleEvent consumes a visibility or blur signal.
func (m *FocusMonitor) HandleEvent(ev models.SignalEvent) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if !m.started {
		return
	}

	var vtype models.ViolationType
	var message string

	switch ev.Kind {
	case models.SignalVisibility:
		if !ev.Hidden {
			return
		}
		vtype = models.ViolationTabSwitch
		message = "Switched away from the exam tab"
	case models.SignalBlur:
		vtype = models.ViolationWindowBlur
		message = "Exam window lost focus"
	default:
		return
	}

	now := m.now()
	if aggregator.ShouldDebounce(m.lastReport, now, m.window) {
		return
	}
	m.lastReport = now

	m.report(vtype, message)
}
