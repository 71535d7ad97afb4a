package detectors

import (
	"sync"

	"github.com/Micheduc25/evaluation-platform-sub000/internal/models"
)

// PrintScreenDetector fires once per qualifying keypress.
type PrintScreenDetector struct {
	mu      sync.Mutex
	started bool
	report  ReportFunc
}

// NewPrintScreenDetector builds a key-based screenshot detector.
func NewPrintScreenDetector(report ReportFunc) *PrintScreenDetector {
	return &PrintScreenDetector{report: report}
}

// Start begins reporting. Safe to call more than once.
func (d *PrintScreenDetector) Start() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.started = true
}

// Stop halts reporting. Idempotent.
func (d *PrintScreenDetector) Stop() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.started = false
}

// HandleEvent consumes a keydown signal.
func (d *PrintScreenDetector) HandleEvent(ev models.SignalEvent) {
	d.mu.Lock()
	started := d.started
	d.mu.Unlock()
	if !started || ev.Kind != models.SignalKeyDown {
		return
	}
	if ev.Key == "PrintScreen" {
		d.report(models.ViolationPrintScreen, "Print Screen key pressed")
	}
}
