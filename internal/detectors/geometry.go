package detectors

import (
	"sync"
	"time"

	"github.com/Micheduc25/evaluation-platform-sub000/internal/models"
)

// GeometryMonitor samples the reported window screen position at a bounded
// interval and fires when it changed since the last sample. Moving the exam
// window is often the first step of arranging a second one beside it.
type GeometryMonitor struct {
	mu       sync.Mutex
	started  bool
	interval time.Duration
	report   ReportFunc
	handle   *Handle

	screenX, screenY int
	haveSnapshot     bool
	lastX, lastY     int
	haveSample       bool
}

// NewGeometryMonitor builds a monitor with the given sampling cadence.
func NewGeometryMonitor(interval time.Duration, report ReportFunc) *GeometryMonitor {
	return &GeometryMonitor{interval: interval, report: report}
}

// Start schedules the periodic sample. Safe to call more than once.
func (g *GeometryMonitor) Start() {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.started {
		return
	}
	g.started = true
	g.handle = Every(g.interval, g.Sample)
}

// Stop cancels the schedule and clears sampling state. Idempotent.
func (g *GeometryMonitor) Stop() {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.started = false
	g.haveSample = false
	g.haveSnapshot = false
	if g.handle != nil {
		g.handle.Stop()
		g.handle = nil
	}
}

// ObservePosition records the latest reported window position.
func (g *GeometryMonitor) ObservePosition(ev models.SignalEvent) {
	if ev.Kind != models.SignalWindowPosition {
		return
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	g.screenX, g.screenY = ev.ScreenX, ev.ScreenY
	g.haveSnapshot = true
}

// Sample compares the current position against the previous sample. The
// first sample only establishes the baseline.
func (g *GeometryMonitor) Sample() {
	g.mu.Lock()
	if !g.started || !g.haveSnapshot {
		g.mu.Unlock()
		return
	}

	moved := g.haveSample && (g.screenX != g.lastX || g.screenY != g.lastY)
	g.lastX, g.lastY = g.screenX, g.screenY
	g.haveSample = true
	report := g.report
	g.mu.Unlock()

	if moved {
		report(models.ViolationWindowMove, "Exam window was moved")
	}
}
