package detectors

import (
	"fmt"
	"sync"
	"time"

	"github.com/Micheduc25/evaluation-platform-sub000/internal/models"
)

// Typing anomaly type names.
const (
	AnomalyLowKeystrokeRatio  = "low_keystroke_ratio"
	AnomalyExcessivePasting   = "excessive_pasting"
	AnomalyInhumanTypingSpeed = "inhuman_typing_speed"
)

// Typing heuristics. The keystroke-ratio rule assumes real typing produces
// at least one keystroke per ten output characters even with heavy
// autocorrect; the cadence rule needs a minimum sample so a two-key combo
// cannot trip it, and the 67ms floor keeps a fast human at 100ms/key clear
// of it.
const (
	ratioMinAnswerChars = 100
	ratioKeysPerChars   = 10
	pasteLimit          = 5
	cadenceMinSamples   = 20
	cadenceFloor        = 67 * time.Millisecond
)

// TypingStats is the pull-style counter snapshot.
type TypingStats struct {
	KeyPressCount int `json:"keyPressCount"`
	PasteCount    int `json:"pasteCount"`
}

// TypingCollector tracks keystroke and paste cadence for the answer
// currently in progress. The caller resets it on question navigation; an
// anomaly check reads but never destroys the counters.
type TypingCollector struct {
	mu            sync.Mutex
	keyPressCount int
	pasteCount    int
	firstKeyAt    time.Time
	lastKeyAt     time.Time

	now func() time.Time
}

// NewTypingCollector returns an empty collector.
func NewTypingCollector() *TypingCollector {
	return &TypingCollector{now: time.Now}
}

// RecordKeyPress counts one keystroke.
func (t *TypingCollector) RecordKeyPress() {
	t.mu.Lock()
	defer t.mu.Unlock()
	now := t.now()
	if t.keyPressCount == 0 {
		t.firstKeyAt = now
	}
	t.lastKeyAt = now
	t.keyPressCount++
}

// RecordPaste counts one paste.
func (t *TypingCollector) RecordPaste() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.pasteCount++
}

// GetStats returns the current counters.
func (t *TypingCollector) GetStats() TypingStats {
	t.mu.Lock()
	defer t.mu.Unlock()
	return TypingStats{KeyPressCount: t.keyPressCount, PasteCount: t.pasteCount}
}

// Reset zeroes all counters and timestamps. Called by the caller on
// question navigation, never automatically.
func (t *TypingCollector) Reset() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.keyPressCount = 0
	t.pasteCount = 0
	t.firstKeyAt = time.Time{}
	t.lastKeyAt = time.Time{}
}

// DetectAnomaly evaluates the counters against the finished answer's
// length. Read-only; the caller decides when to Reset.
func (t *TypingCollector) DetectAnomaly(answerLength int) []models.Anomaly {
	t.mu.Lock()
	defer t.mu.Unlock()

	anomalies := []models.Anomaly{}

	if answerLength > ratioMinAnswerChars && t.keyPressCount < answerLength/ratioKeysPerChars {
		anomalies = append(anomalies, models.Anomaly{
			Type:     AnomalyLowKeystrokeRatio,
			Severity: models.SeverityHigh,
			Message:  fmt.Sprintf("Answer of %d characters with only %d keystrokes", answerLength, t.keyPressCount),
		})
	}

	if t.pasteCount >= pasteLimit {
		anomalies = append(anomalies, models.Anomaly{
			Type:     AnomalyExcessivePasting,
			Severity: models.SeverityMedium,
			Message:  fmt.Sprintf("Content pasted %d times", t.pasteCount),
		})
	}

	if t.keyPressCount >= cadenceMinSamples && t.lastKeyAt.After(t.firstKeyAt) {
		avg := t.lastKeyAt.Sub(t.firstKeyAt) / time.Duration(t.keyPressCount-1)
		if avg < cadenceFloor {
			anomalies = append(anomalies, models.Anomaly{
				Type:     AnomalyInhumanTypingSpeed,
				Severity: models.SeverityHigh,
				Message:  fmt.Sprintf("Sustained typing interval of %dms is beyond human cadence", avg.Milliseconds()),
			})
		}
	}

	return anomalies
}
