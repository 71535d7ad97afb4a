package detectors

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Micheduc25/evaluation-platform-sub000/internal/models"
)

func hasAnomaly(anomalies []models.Anomaly, anomalyType string) bool {
	for _, a := range anomalies {
		if a.Type == anomalyType {
			return true
		}
	}
	return false
}

// fakeClock advances a fixed amount per keypress.
type fakeClock struct {
	current time.Time
	step    time.Duration
}

func (f *fakeClock) now() time.Time {
	now := f.current
	f.current = f.current.Add(f.step)
	return now
}

func TestLowKeystrokeRatio(t *testing.T) {
	collector := NewTypingCollector()
	for i := 0; i < 5; i++ {
		collector.RecordKeyPress()
	}

	anomalies := collector.DetectAnomaly(500)
	assert.True(t, hasAnomaly(anomalies, AnomalyLowKeystrokeRatio))
}

func TestPlentifulKeystrokesNoRatioAnomaly(t *testing.T) {
	collector := NewTypingCollector()
	clock := &fakeClock{current: time.Now(), step: 200 * time.Millisecond}
	collector.now = clock.now

	for i := 0; i < 200; i++ {
		collector.RecordKeyPress()
	}

	anomalies := collector.DetectAnomaly(500)
	assert.False(t, hasAnomaly(anomalies, AnomalyLowKeystrokeRatio))
}

func TestExcessivePasting(t *testing.T) {
	collector := NewTypingCollector()
	for i := 0; i < 10; i++ {
		collector.RecordPaste()
	}

	anomalies := collector.DetectAnomaly(200)
	assert.True(t, hasAnomaly(anomalies, AnomalyExcessivePasting))
}

func TestFewPastesNoAnomaly(t *testing.T) {
	collector := NewTypingCollector()
	collector.RecordPaste()
	collector.RecordPaste()

	anomalies := collector.DetectAnomaly(200)
	assert.False(t, hasAnomaly(anomalies, AnomalyExcessivePasting))
}

func TestHumanCadenceDoesNotTripSpeedCheck(t *testing.T) {
	collector := NewTypingCollector()
	clock := &fakeClock{current: time.Now(), step: 100 * time.Millisecond}
	collector.now = clock.now

	// 100 keypresses at 100ms cadence: fast but human.
	for i := 0; i < 100; i++ {
		collector.RecordKeyPress()
	}

	anomalies := collector.DetectAnomaly(100)
	assert.False(t, hasAnomaly(anomalies, AnomalyInhumanTypingSpeed))
}

func TestInhumanCadenceTripsSpeedCheck(t *testing.T) {
	collector := NewTypingCollector()
	clock := &fakeClock{current: time.Now(), step: 20 * time.Millisecond}
	collector.now = clock.now

	// 50 keystrokes per second, sustained.
	for i := 0; i < 100; i++ {
		collector.RecordKeyPress()
	}

	anomalies := collector.DetectAnomaly(100)
	assert.True(t, hasAnomaly(anomalies, AnomalyInhumanTypingSpeed))
}

func TestShortBurstDoesNotTripSpeedCheck(t *testing.T) {
	collector := NewTypingCollector()
	clock := &fakeClock{current: time.Now(), step: 10 * time.Millisecond}
	collector.now = clock.now

	// Below the minimum sample size.
	for i := 0; i < 5; i++ {
		collector.RecordKeyPress()
	}

	anomalies := collector.DetectAnomaly(20)
	assert.False(t, hasAnomaly(anomalies, AnomalyInhumanTypingSpeed))
}

func TestReset(t *testing.T) {
	collector := NewTypingCollector()
	for i := 0; i < 20; i++ {
		collector.RecordKeyPress()
	}
	collector.RecordPaste()

	stats := collector.GetStats()
	require.Equal(t, 20, stats.KeyPressCount)
	require.Equal(t, 1, stats.PasteCount)

	collector.Reset()

	stats = collector.GetStats()
	assert.Zero(t, stats.KeyPressCount)
	assert.Zero(t, stats.PasteCount)
}
