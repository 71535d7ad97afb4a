// Package aggregator is the single authority over violation counts. It
// receives raw signal reports from the detectors, absorbs initialization
// noise behind a grace period, honors caller-controlled suspension, and
// turns limit breaches into a terminal forced-submit trigger. Counts have
// exactly one writer (this package) and are monotonic for the lifetime of
// an exam attempt.
package aggregator

import (
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/Micheduc25/evaluation-platform-sub000/internal/models"
)

// Warning is the non-blocking notice emitted for live display when a
// violation is recorded below its limit.
type Warning struct {
	Type    models.ViolationType `json:"type"`
	Message string               `json:"message"`
	Count   int                  `json:"count"`
	Limit   int                  `json:"limit"`
}

// Callbacks are the aggregator's outbound edges. OnMaxViolations is
// expected to trigger a forced submission in the caller; OnRecorded lets
// the caller persist an audit row per accepted violation. Any may be nil.
type Callbacks struct {
	OnWarning       func(Warning)
	OnMaxViolations func(reason string)
	OnRecorded      func(t models.ViolationType, message string)
}

// Config fixes the aggregator's policy for one session.
type Config struct {
	Limits         models.ViolationLimits
	GracePeriod    time.Duration
	SuspendTimeout time.Duration
}

// Aggregator is the per-session violation state machine.
type Aggregator struct {
	mu sync.Mutex

	counts models.ViolationCounts
	limits models.ViolationLimits

	startedAt      time.Time
	gracePeriod    time.Duration
	suspendTimeout time.Duration
	suspendedUntil time.Time
	ignoreNextBlur bool
	limitFired     map[models.ViolationType]bool

	callbacks Callbacks
	log       *zap.Logger

	now func() time.Time
}

// New builds an aggregator. The grace period starts immediately.
func New(cfg Config, callbacks Callbacks, log *zap.Logger) *Aggregator {
	a := &Aggregator{
		counts:         models.ViolationCounts{},
		limits:         cfg.Limits,
		gracePeriod:    cfg.GracePeriod,
		suspendTimeout: cfg.SuspendTimeout,
		limitFired:     map[models.ViolationType]bool{},
		callbacks:      callbacks,
		log:            log,
		now:            time.Now,
	}
	a.startedAt = a.now()
	return a
}

// HandleViolation applies the transition for one raw signal report.
// Processing is strictly in arrival order; the mutex serializes detectors
// that emit concurrently.
func (a *Aggregator) HandleViolation(t models.ViolationType, message string) {
	a.mu.Lock()

	now := a.now()
	if WithinGracePeriod(now, a.startedAt, a.gracePeriod) {
		a.mu.Unlock()
		return
	}
	if now.Before(a.suspendedUntil) {
		a.mu.Unlock()
		return
	}
	if t == models.ViolationWindowBlur && a.ignoreNextBlur {
		a.ignoreNextBlur = false
		a.mu.Unlock()
		return
	}

	a.counts[t]++
	count := a.counts[t]
	limit, limited := a.limits[t]

	var maxReason string
	var warning *Warning

	if limited && count >= limit {
		// Terminal for this type: fire the forced-submit trigger once,
		// keep counting past the limit without complaint.
		if !a.limitFired[t] {
			a.limitFired[t] = true
			maxReason = fmt.Sprintf("%s limit reached (%d/%d)", t, count, limit)
		}
	} else {
		warning = &Warning{Type: t, Message: message, Count: count, Limit: limit}
	}

	cb := a.callbacks
	a.mu.Unlock()

	if a.log != nil {
		a.log.Warn("Violation recorded",
			zap.String("type", string(t)),
			zap.Int("count", count),
			zap.Int("limit", limit),
		)
	}

	if cb.OnRecorded != nil {
		cb.OnRecorded(t, message)
	}
	if maxReason != "" && cb.OnMaxViolations != nil {
		cb.OnMaxViolations(maxReason)
	}
	if warning != nil && cb.OnWarning != nil {
		cb.OnWarning(*warning)
	}
}

// Suspend disables recording during a legitimate interruption such as a
// file-upload dialog. The suspension auto-expires after the configured
// timeout as a safety net even if the caller forgets to Resume.
func (a *Aggregator) Suspend() {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.suspendedUntil = a.now().Add(a.suspendTimeout)
}

// Resume re-enables recording.
func (a *Aggregator) Resume() {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.suspendedUntil = time.Time{}
}

// Suspended reports whether recording is currently disabled by the caller.
func (a *Aggregator) Suspended() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.now().Before(a.suspendedUntil)
}

// IgnoreNextBlur arms the one-shot flag that swallows the blur a
// fullscreen-request or upload dialog itself causes.
func (a *Aggregator) IgnoreNextBlur() {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.ignoreNextBlur = true
}

// InGracePeriod reports whether the initial quiet window is still active.
func (a *Aggregator) InGracePeriod() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return WithinGracePeriod(a.now(), a.startedAt, a.gracePeriod)
}

// Counts returns an independent snapshot of the recorded counts.
func (a *Aggregator) Counts() models.ViolationCounts {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.counts.Clone()
}

// IsValidSaveState reports whether in-progress answers should still be
// persisted: false once any type reached its limit, or once total
// violations exceed 70% of the sum of all limits.
func (a *Aggregator) IsValidSaveState() bool {
	a.mu.Lock()
	defer a.mu.Unlock()

	for t, limit := range a.limits {
		if limit > 0 && a.counts[t] >= limit {
			return false
		}
	}

	limitSum := a.limits.LimitSum()
	if limitSum > 0 && float64(a.counts.Total()) > 0.7*float64(limitSum) {
		return false
	}
	return true
}
