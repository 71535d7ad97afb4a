package detectors

import (
	"sync"
	"time"

	"github.com/Micheduc25/evaluation-platform-sub000/internal/models"
)

// DevToolsDetector compares outer vs inner window dimensions against a
// pixel threshold. A docked devtools panel inflates the delta well past
// what window chrome accounts for. The client reports dimensions with
// every resize; the detector evaluates the latest snapshot on a bounded
// scheduler tick rather than self-scheduling.
type DevToolsDetector struct {
	mu        sync.Mutex
	started   bool
	threshold int
	interval  time.Duration
	report    ReportFunc
	handle    *Handle

	innerWidth, innerHeight int
	outerWidth, outerHeight int
	open                    bool
}

// NewDevToolsDetector builds a detector with the given pixel threshold and
// check cadence.
func NewDevToolsDetector(thresholdPx int, interval time.Duration, report ReportFunc) *DevToolsDetector {
	return &DevToolsDetector{
		threshold: thresholdPx,
		interval:  interval,
		report:    report,
	}
}

// Start schedules the periodic check. Safe to call more than once.
func (d *DevToolsDetector) Start() {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.started {
		return
	}
	d.started = true
	d.handle = Every(d.interval, d.Check)
}

// Stop cancels the schedule. Idempotent.
func (d *DevToolsDetector) Stop() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.started = false
	if d.handle != nil {
		d.handle.Stop()
		d.handle = nil
	}
}

// ObserveDimensions records the latest window geometry snapshot.
func (d *DevToolsDetector) ObserveDimensions(innerW, innerH, outerW, outerH int) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.innerWidth, d.innerHeight = innerW, innerH
	d.outerWidth, d.outerHeight = outerW, outerH
}

// Check evaluates the current snapshot once. Fires only on the closed→open
// transition so a panel left open does not report every tick.
func (d *DevToolsDetector) Check() {
	d.mu.Lock()
	if !d.started || d.outerWidth == 0 || d.outerHeight == 0 {
		d.mu.Unlock()
		return
	}

	widthDelta := d.outerWidth - d.innerWidth
	heightDelta := d.outerHeight - d.innerHeight
	open := widthDelta > d.threshold || heightDelta > d.threshold

	fire := open && !d.open
	d.open = open
	report := d.report
	d.mu.Unlock()

	if fire {
		report(models.ViolationDevTools, "Developer tools appear to be open")
	}
}
