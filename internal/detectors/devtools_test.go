package detectors

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Micheduc25/evaluation-platform-sub000/internal/models"
)

func TestDevToolsFiresOnOpenTransition(t *testing.T) {
	rec := &reportRecorder{}
	detector := NewDevToolsDetector(160, time.Hour, rec.report)
	detector.Start()
	defer detector.Stop()

	// Normal window chrome: small delta, nothing fires.
	detector.ObserveDimensions(1920, 950, 1920, 1040)
	detector.Check()
	assert.Empty(t, rec.types)

	// Docked panel pushes the height delta past the threshold.
	detector.ObserveDimensions(1920, 600, 1920, 1040)
	detector.Check()
	require.Len(t, rec.types, 1)
	assert.Equal(t, models.ViolationDevTools, rec.types[0])
}

func TestDevToolsDoesNotRepeatWhileOpen(t *testing.T) {
	rec := &reportRecorder{}
	detector := NewDevToolsDetector(160, time.Hour, rec.report)
	detector.Start()
	defer detector.Stop()

	detector.ObserveDimensions(1500, 600, 1920, 1040)
	detector.Check()
	detector.Check()
	detector.Check()

	assert.Len(t, rec.types, 1)
}

func TestDevToolsFiresAgainAfterClose(t *testing.T) {
	rec := &reportRecorder{}
	detector := NewDevToolsDetector(160, time.Hour, rec.report)
	detector.Start()
	defer detector.Stop()

	detector.ObserveDimensions(1920, 600, 1920, 1040)
	detector.Check()

	// Panel closed, then reopened.
	detector.ObserveDimensions(1920, 950, 1920, 1040)
	detector.Check()
	detector.ObserveDimensions(1920, 600, 1920, 1040)
	detector.Check()

	assert.Len(t, rec.types, 2)
}

func TestDevToolsSkipsWithoutSnapshot(t *testing.T) {
	rec := &reportRecorder{}
	detector := NewDevToolsDetector(160, time.Hour, rec.report)
	detector.Start()
	defer detector.Stop()

	detector.Check()
	assert.Empty(t, rec.types)
}

func TestDevToolsStopIdempotent(t *testing.T) {
	rec := &reportRecorder{}
	detector := NewDevToolsDetector(160, time.Hour, rec.report)
	detector.Start()
	detector.Stop()
	detector.Stop()

	detector.ObserveDimensions(1920, 600, 1920, 1040)
	detector.Check()
	assert.Empty(t, rec.types)
}
