package proctor

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/Micheduc25/evaluation-platform-sub000/internal/fingerprint"
	"github.com/Micheduc25/evaluation-platform-sub000/internal/models"
	"github.com/Micheduc25/evaluation-platform-sub000/internal/session"
)

func testConfig() Config {
	return Config{
		Limits: models.ViolationLimits{
			models.ViolationTabSwitch: 3,
			models.ViolationCopyPaste: 5,
			models.ViolationDevTools:  2,
		},
		GracePeriod:         20 * time.Millisecond,
		DebounceWindow:      time.Millisecond,
		SuspendTimeout:      time.Minute,
		DevToolsInterval:    time.Hour,
		GeometryInterval:    time.Hour,
		DevToolsThresholdPx: 160,
	}
}

func testEnv() fingerprint.Environment {
	return fingerprint.Environment{
		ScreenWidth:  1920,
		ScreenHeight: 1080,
		UserAgent:    "Mozilla/5.0 test",
		Language:     "en-US",
		Platform:     "Linux x86_64",
	}
}

// forcedRecorder captures forced-submit callbacks.
type forcedRecorder struct {
	mu      sync.Mutex
	reasons []string
}

func (f *forcedRecorder) record(_ string, reason string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.reasons = append(f.reasons, reason)
}

func (f *forcedRecorder) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.reasons)
}

func startHook(t *testing.T, cfg Config, callbacks Callbacks) *Hook {
	t.Helper()
	hook := NewHook(cfg, session.NewStore(), callbacks, zap.NewNop())
	_, err := hook.Start("sub-1", "user-1", testEnv())
	require.NoError(t, err)
	t.Cleanup(hook.Stop)
	return hook
}

func waitForMonitoring(t *testing.T, hook *Hook) {
	t.Helper()
	require.Eventually(t, func() bool {
		return hook.State() == StateMonitoring
	}, time.Second, 5*time.Millisecond)
}

func TestStartIssuesTokenAndAttaches(t *testing.T) {
	hook := NewHook(testConfig(), session.NewStore(), Callbacks{}, zap.NewNop())
	assert.Equal(t, StateIdle, hook.State())

	token, err := hook.Start("sub-1", "user-1", testEnv())
	require.NoError(t, err)
	assert.NotEmpty(t, token)
	assert.Equal(t, StateInitializing, hook.State())
	t.Cleanup(hook.Stop)

	result := session.ValidateToken(token, "sub-1")
	require.True(t, result.Valid)
	assert.Equal(t, "user-1", result.Session.UserID)

	waitForMonitoring(t, hook)
}

func TestStartRequiresIdentifiers(t *testing.T) {
	hook := NewHook(testConfig(), session.NewStore(), Callbacks{}, zap.NewNop())
	_, err := hook.Start("", "user-1", testEnv())
	assert.Error(t, err)
}

func TestStartTwiceFails(t *testing.T) {
	hook := startHook(t, testConfig(), Callbacks{})
	_, err := hook.Start("sub-1", "user-1", testEnv())
	assert.Error(t, err)
}

func TestEventsDroppedDuringGracePeriod(t *testing.T) {
	hook := startHook(t, testConfig(), Callbacks{})

	hook.HandleEvent(models.SignalEvent{Kind: models.SignalCopy})
	assert.Zero(t, hook.Counts().Total())
}

func TestEventsRecordedAfterAttach(t *testing.T) {
	var recorded []models.ViolationType
	var mu sync.Mutex
	hook := startHook(t, testConfig(), Callbacks{
		OnViolation: func(_ string, vt models.ViolationType, _ string) {
			mu.Lock()
			recorded = append(recorded, vt)
			mu.Unlock()
		},
	})
	waitForMonitoring(t, hook)

	hook.HandleEvent(models.SignalEvent{Kind: models.SignalCopy})
	hook.HandleEvent(models.SignalEvent{Kind: models.SignalVisibility, Hidden: true})

	counts := hook.Counts()
	assert.Equal(t, 1, counts[models.ViolationCopyPaste])
	assert.Equal(t, 1, counts[models.ViolationTabSwitch])

	mu.Lock()
	assert.Len(t, recorded, 2)
	mu.Unlock()

	warnings := hook.DrainWarnings()
	assert.Len(t, warnings, 2)
	assert.Empty(t, hook.DrainWarnings())
}

func TestDeviceChangeReportedAfterAttach(t *testing.T) {
	tokens := session.NewStore()
	original, err := session.GenerateToken("sub-1", "user-1", testEnv())
	require.NoError(t, err)
	tokens.Put("sub-1", original)

	hook := NewHook(testConfig(), tokens, Callbacks{}, zap.NewNop())
	otherDevice := testEnv()
	otherDevice.Platform = "Win32"
	_, err = hook.Start("sub-1", "user-1", otherDevice)
	require.NoError(t, err)
	t.Cleanup(hook.Stop)

	require.Eventually(t, func() bool {
		return hook.Counts()[models.ViolationDeviceChange] == 1
	}, time.Second, 5*time.Millisecond)
}

func TestSameDeviceResumeIsClean(t *testing.T) {
	tokens := session.NewStore()
	original, err := session.GenerateToken("sub-1", "user-1", testEnv())
	require.NoError(t, err)
	tokens.Put("sub-1", original)

	hook := NewHook(testConfig(), tokens, Callbacks{}, zap.NewNop())
	token, err := hook.Start("sub-1", "user-1", testEnv())
	require.NoError(t, err)
	t.Cleanup(hook.Stop)

	assert.Equal(t, original, token)
	waitForMonitoring(t, hook)
	assert.Zero(t, hook.Counts()[models.ViolationDeviceChange])
}

func TestSuspendAndResume(t *testing.T) {
	hook := startHook(t, testConfig(), Callbacks{})
	waitForMonitoring(t, hook)

	hook.TemporarilyDisable()
	assert.Equal(t, StateSuspended, hook.State())

	hook.HandleEvent(models.SignalEvent{Kind: models.SignalCopy})
	assert.Zero(t, hook.Counts().Total())

	hook.Resume()
	assert.Equal(t, StateMonitoring, hook.State())

	hook.HandleEvent(models.SignalEvent{Kind: models.SignalCopy})
	assert.Equal(t, 1, hook.Counts()[models.ViolationCopyPaste])
}

func TestSuspensionAutoExpiryRestoresMonitoringState(t *testing.T) {
	cfg := testConfig()
	cfg.SuspendTimeout = 30 * time.Millisecond
	hook := startHook(t, cfg, Callbacks{})
	waitForMonitoring(t, hook)

	hook.TemporarilyDisable()
	assert.Equal(t, StateSuspended, hook.State())

	// Once the aggregator's suspension window lapses, recording resumes and
	// the reported state must agree with it without an explicit Resume.
	waitForMonitoring(t, hook)

	hook.HandleEvent(models.SignalEvent{Kind: models.SignalCopy})
	assert.Equal(t, 1, hook.Counts()[models.ViolationCopyPaste])
}

func TestResumeWithoutSuspendIsNoop(t *testing.T) {
	hook := startHook(t, testConfig(), Callbacks{})
	waitForMonitoring(t, hook)

	hook.Resume()
	assert.Equal(t, StateMonitoring, hook.State())
}

func TestForcedSubmitOnLimit(t *testing.T) {
	cfg := testConfig()
	cfg.Limits = models.ViolationLimits{models.ViolationCopyPaste: 1}
	forced := &forcedRecorder{}
	hook := startHook(t, cfg, Callbacks{OnForcedSubmit: forced.record})
	waitForMonitoring(t, hook)

	hook.HandleEvent(models.SignalEvent{Kind: models.SignalCopy})

	require.Equal(t, 1, forced.count())
	assert.Contains(t, hook.ForcedReason(), "copyPaste")
	assert.False(t, hook.IsValidSaveState())
}

func TestStopIsIdempotent(t *testing.T) {
	hook := startHook(t, testConfig(), Callbacks{})
	waitForMonitoring(t, hook)

	hook.Stop()
	assert.Equal(t, StateTornDown, hook.State())
	hook.Stop()
	hook.Stop()
	assert.Equal(t, StateTornDown, hook.State())

	// Events after teardown are dropped.
	hook.HandleEvent(models.SignalEvent{Kind: models.SignalCopy})
	assert.Zero(t, hook.Counts().Total())
}

func TestStopBeforeGraceElapsedNeverAttaches(t *testing.T) {
	cfg := testConfig()
	cfg.GracePeriod = 50 * time.Millisecond
	hook := startHook(t, cfg, Callbacks{})

	hook.Stop()
	time.Sleep(80 * time.Millisecond)
	assert.Equal(t, StateTornDown, hook.State())
}

func TestManagerLifecycle(t *testing.T) {
	manager := NewManager(testConfig(), session.NewStore(), Callbacks{}, zap.NewNop())

	hook := manager.Acquire("sub-1")
	assert.Same(t, hook, manager.Acquire("sub-1"))

	got, ok := manager.Get("sub-1")
	require.True(t, ok)
	assert.Same(t, hook, got)

	_, ok = manager.Get("sub-2")
	assert.False(t, ok)

	_, err := hook.Start("sub-1", "user-1", testEnv())
	require.NoError(t, err)

	manager.Release("sub-1")
	assert.Equal(t, StateTornDown, hook.State())
	_, ok = manager.Get("sub-1")
	assert.False(t, ok)

	// Releasing an unknown submission is harmless.
	manager.Release("sub-404")
}
