// Package proctor wires the signal detectors into the violation aggregator
// for one exam session and owns the monitoring lifecycle. It is the only
// imperative surface the transport layer talks to.
package proctor

import (
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/Micheduc25/evaluation-platform-sub000/internal/aggregator"
	"github.com/Micheduc25/evaluation-platform-sub000/internal/config"
	"github.com/Micheduc25/evaluation-platform-sub000/internal/detectors"
	"github.com/Micheduc25/evaluation-platform-sub000/internal/fingerprint"
	"github.com/Micheduc25/evaluation-platform-sub000/internal/models"
	"github.com/Micheduc25/evaluation-platform-sub000/internal/session"
)

// State names the lifecycle phases of one monitored session.
type State string

const (
	StateIdle         State = "idle"
	StateInitializing State = "initializing"
	StateMonitoring   State = "monitoring"
	StateSuspended    State = "suspended"
	StateTornDown     State = "torn down"
)

// Config fixes one session's monitoring policy.
type Config struct {
	Limits              models.ViolationLimits
	GracePeriod         time.Duration
	DebounceWindow      time.Duration
	SuspendTimeout      time.Duration
	DevToolsInterval    time.Duration
	GeometryInterval    time.Duration
	DevToolsThresholdPx int
}

// ConfigFromApp maps the loaded application configuration into a session
// monitoring config.
func ConfigFromApp(p config.ProctoringConfig) Config {
	limits := models.ViolationLimits{}
	for k, v := range p.Limits {
		limits[models.ViolationType(k)] = v
	}
	return Config{
		Limits:              limits,
		GracePeriod:         p.GracePeriod(),
		DebounceWindow:      p.DebounceWindow(),
		SuspendTimeout:      p.SuspendTimeout(),
		DevToolsInterval:    time.Duration(p.DevToolsIntervalS) * time.Second,
		GeometryInterval:    time.Duration(p.GeometryIntervalS) * time.Second,
		DevToolsThresholdPx: p.DevToolsThresholdPx,
	}
}

// Callbacks are the hook's outbound edges into the caller. All optional.
type Callbacks struct {
	// OnViolation is invoked for every accepted violation, for persistence.
	OnViolation func(submissionID string, t models.ViolationType, message string)
	// OnForcedSubmit is invoked once when any violation limit is reached.
	OnForcedSubmit func(submissionID, reason string)
}

// Hook runs monitoring for a single submission.
type Hook struct {
	mu sync.Mutex

	submissionID string
	userID       string
	state        State
	cfg          Config
	log          *zap.Logger
	callbacks    Callbacks

	tokens *session.Store
	token  string

	agg         *aggregator.Aggregator
	focus       *detectors.FocusMonitor
	devtools    *detectors.DevToolsDetector
	printscreen *detectors.PrintScreenDetector
	geometry    *detectors.GeometryMonitor
	typing      *detectors.TypingCollector
	mouse       *detectors.MouseTracker

	graceTimer *time.Timer

	deviceChanged bool
	forcedReason  string
	warnings      []aggregator.Warning
	cleanupOnce   sync.Once
}

// NewHook builds an idle hook. Nothing runs until Start.
func NewHook(cfg Config, tokens *session.Store, callbacks Callbacks, log *zap.Logger) *Hook {
	return &Hook{
		state:     StateIdle,
		cfg:       cfg,
		log:       log,
		callbacks: callbacks,
		tokens:    tokens,
	}
}

// Start transitions idle → initializing. It issues or validates the session
// token against the reported environment, builds the aggregator and
// detectors, and arms the grace timer; detectors attach when it elapses.
func (h *Hook) Start(submissionID, userID string, env fingerprint.Environment) (string, error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.state != StateIdle {
		return "", fmt.Errorf("cannot start monitoring from state %q", h.state)
	}
	if submissionID == "" || userID == "" {
		return "", fmt.Errorf("submission and user must both be known before monitoring starts")
	}

	h.submissionID = submissionID
	h.userID = userID

	if existing, ok := h.tokens.Get(submissionID); ok {
		result := session.ValidateToken(existing, submissionID)
		switch {
		case !result.Valid:
			// A corrupt slot is replaced, not fatal.
			token, err := session.GenerateToken(submissionID, userID, env)
			if err != nil {
				return "", fmt.Errorf("failed to issue session token: %w", err)
			}
			h.tokens.Put(submissionID, token)
			h.token = token
		case result.Session.Fingerprint != fingerprint.Generate(env):
			// Same submission resumed from a different device. Recorded as a
			// violation once monitoring attaches; the validator itself stays
			// policy-free.
			h.deviceChanged = true
			h.token = existing
		default:
			h.token = existing
		}
	} else {
		token, err := session.GenerateToken(submissionID, userID, env)
		if err != nil {
			return "", fmt.Errorf("failed to issue session token: %w", err)
		}
		h.tokens.Put(submissionID, token)
		h.token = token
	}

	h.agg = aggregator.New(
		aggregator.Config{
			Limits:         h.cfg.Limits,
			GracePeriod:    h.cfg.GracePeriod,
			SuspendTimeout: h.cfg.SuspendTimeout,
		},
		aggregator.Callbacks{
			OnWarning:       h.queueWarning,
			OnMaxViolations: h.maxViolations,
			OnRecorded:      h.recorded,
		},
		h.log,
	)

	h.focus = detectors.NewFocusMonitor(h.cfg.DebounceWindow, h.agg.HandleViolation)
	h.devtools = detectors.NewDevToolsDetector(h.cfg.DevToolsThresholdPx, h.cfg.DevToolsInterval, h.agg.HandleViolation)
	h.printscreen = detectors.NewPrintScreenDetector(h.agg.HandleViolation)
	h.geometry = detectors.NewGeometryMonitor(h.cfg.GeometryInterval, h.agg.HandleViolation)
	h.typing = detectors.NewTypingCollector()
	h.mouse = detectors.NewMouseTracker()

	h.state = StateInitializing
	h.graceTimer = time.AfterFunc(h.cfg.GracePeriod, h.attachDetectors)

	h.log.Info("Proctoring session initializing",
		zap.String("submissionID", submissionID),
		zap.Duration("gracePeriod", h.cfg.GracePeriod),
	)
	return h.token, nil
}

// attachDetectors runs when the grace period elapses.
func (h *Hook) attachDetectors() {
	h.mu.Lock()
	if h.state != StateInitializing {
		// Torn down before the grace period elapsed; do not fire into a
		// dead session.
		h.mu.Unlock()
		return
	}
	h.state = StateMonitoring

	h.focus.Start()
	h.devtools.Start()
	h.printscreen.Start()
	h.geometry.Start()
	h.mouse.Start()

	deviceChanged := h.deviceChanged
	h.deviceChanged = false
	agg := h.agg
	h.mu.Unlock()

	h.log.Info("Proctoring detectors attached", zap.String("submissionID", h.submissionID))

	if deviceChanged {
		agg.HandleViolation(models.ViolationDeviceChange, "Session resumed from a different device")
	}
}

// HandleEvent routes one raw client signal to the detectors that care
// about it. Events arriving before monitoring attaches are dropped.
func (h *Hook) HandleEvent(ev models.SignalEvent) {
	h.mu.Lock()
	if h.state != StateMonitoring && h.state != StateSuspended {
		h.mu.Unlock()
		return
	}
	focus, devtools, printscreen := h.focus, h.devtools, h.printscreen
	geometry, typing, mouse, agg := h.geometry, h.typing, h.mouse, h.agg
	h.mu.Unlock()

	switch ev.Kind {
	case models.SignalVisibility, models.SignalBlur:
		focus.HandleEvent(ev)
	case models.SignalKeyDown:
		printscreen.HandleEvent(ev)
		typing.RecordKeyPress()
	case models.SignalPaste:
		typing.RecordPaste()
		agg.HandleViolation(models.ViolationCopyPaste, "Content pasted into an answer")
	case models.SignalCopy:
		agg.HandleViolation(models.ViolationCopyPaste, "Exam content copied")
	case models.SignalContextMenu:
		agg.HandleViolation(models.ViolationCopyPaste, "Context menu opened")
	case models.SignalMouseMove, models.SignalClick:
		mouse.HandleEvent(ev)
	case models.SignalResize:
		devtools.ObserveDimensions(ev.InnerWidth, ev.InnerHeight, ev.OuterWidth, ev.OuterHeight)
	case models.SignalWindowPosition:
		geometry.ObservePosition(ev)
	case models.SignalFullscreen:
		if !ev.Fullscreen {
			agg.HandleViolation(models.ViolationFullscreen, "Left fullscreen mode")
		}
	}
}

// TemporarilyDisable suspends monitoring for a legitimate interruption such
// as an upload dialog. The blur the dialog itself causes is swallowed, and
// the suspension auto-expires in the aggregator as a safety net.
func (h *Hook) TemporarilyDisable() {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.state != StateMonitoring {
		return
	}
	h.state = StateSuspended
	h.agg.IgnoreNextBlur()
	h.agg.Suspend()
}

// Resume re-enables monitoring after a suspension.
func (h *Hook) Resume() {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.state != StateSuspended {
		return
	}
	h.state = StateMonitoring
	h.agg.Resume()
}

// Stop tears the session down from any state. All detector stops and timer
// cancellations run exactly once regardless of how many times Stop is
// called or which state it is called from.
func (h *Hook) Stop() {
	h.cleanupOnce.Do(func() {
		h.mu.Lock()
		h.state = StateTornDown
		graceTimer := h.graceTimer
		focus, devtools, printscreen := h.focus, h.devtools, h.printscreen
		geometry, mouse := h.geometry, h.mouse
		h.mu.Unlock()

		if graceTimer != nil {
			graceTimer.Stop()
		}
		if focus != nil {
			focus.Stop()
		}
		if devtools != nil {
			devtools.Stop()
		}
		if printscreen != nil {
			printscreen.Stop()
		}
		if geometry != nil {
			geometry.Stop()
		}
		if mouse != nil {
			mouse.Stop()
		}

		h.log.Info("Proctoring session torn down", zap.String("submissionID", h.submissionID))
	})

	h.mu.Lock()
	h.state = StateTornDown
	h.mu.Unlock()
}

// State returns the current lifecycle state. A suspension that auto-expired
// in the aggregator reads as monitoring again: recording has already resumed,
// and the reported state must not disagree with it.
func (h *Hook) State() State {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.state == StateSuspended && h.agg != nil && !h.agg.Suspended() {
		h.state = StateMonitoring
	}
	return h.state
}

// Counts snapshots the recorded violation counts.
func (h *Hook) Counts() models.ViolationCounts {
	h.mu.Lock()
	agg := h.agg
	h.mu.Unlock()
	if agg == nil {
		return models.ViolationCounts{}
	}
	return agg.Counts()
}

// IsValidSaveState reports whether in-progress answers should still be
// persisted for this session.
func (h *Hook) IsValidSaveState() bool {
	h.mu.Lock()
	agg := h.agg
	h.mu.Unlock()
	if agg == nil {
		return true
	}
	return agg.IsValidSaveState()
}

// Typing exposes the typing collector so the caller can reset it on
// question navigation and run answer-completion checks.
func (h *Hook) Typing() *detectors.TypingCollector {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.typing
}

// Mouse exposes the mouse tracker for on-demand anomaly checks.
func (h *Hook) Mouse() *detectors.MouseTracker {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.mouse
}

// DrainWarnings returns queued live warnings and clears the queue.
func (h *Hook) DrainWarnings() []aggregator.Warning {
	h.mu.Lock()
	defer h.mu.Unlock()
	warnings := h.warnings
	h.warnings = nil
	return warnings
}

// ForcedReason returns the forced-submit reason, if a limit was reached.
func (h *Hook) ForcedReason() string {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.forcedReason
}

func (h *Hook) queueWarning(w aggregator.Warning) {
	h.mu.Lock()
	h.warnings = append(h.warnings, w)
	h.mu.Unlock()
}

func (h *Hook) maxViolations(reason string) {
	h.mu.Lock()
	h.forcedReason = reason
	submissionID := h.submissionID
	cb := h.callbacks.OnForcedSubmit
	h.mu.Unlock()

	h.log.Warn("Violation limit reached, forcing submission",
		zap.String("submissionID", submissionID),
		zap.String("reason", reason),
	)
	if cb != nil {
		cb(submissionID, reason)
	}
}

func (h *Hook) recorded(t models.ViolationType, message string) {
	h.mu.Lock()
	submissionID := h.submissionID
	cb := h.callbacks.OnViolation
	h.mu.Unlock()

	if cb != nil {
		cb(submissionID, t, message)
	}
}
