package session

import (
	"encoding/base64"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Micheduc25/evaluation-platform-sub000/internal/fingerprint"
)

var testEnv = fingerprint.Environment{
	ScreenWidth: 1920, ScreenHeight: 1080, ColorDepth: 24,
	UserAgent: "test-agent", Language: "en-US",
	HardwareConcurrency: 4, DeviceMemory: 8, Platform: "Linux x86_64",
}

func TestTokenRoundTrip(t *testing.T) {
	token, err := GenerateToken("sub-1", "user-1", testEnv)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	result := ValidateToken(token, "sub-1")
	require.True(t, result.Valid)
	require.NotNil(t, result.Session)
	assert.Equal(t, "sub-1", result.Session.SubmissionID)
	assert.Equal(t, "user-1", result.Session.UserID)
	assert.Equal(t, fingerprint.Generate(testEnv), result.Session.Fingerprint)
	assert.NotEmpty(t, result.Session.Nonce)
	assert.False(t, result.Session.StartTime.IsZero())
}

func TestTokenSubmissionMismatch(t *testing.T) {
	token, err := GenerateToken("sub-1", "user-1", testEnv)
	require.NoError(t, err)

	result := ValidateToken(token, "sub-2")
	assert.False(t, result.Valid)
	assert.Equal(t, ReasonSubmissionMismatch, result.Reason)
	assert.Nil(t, result.Session)
}

func TestTokenGarbageInput(t *testing.T) {
	for _, garbage := range []string{
		"not-base64!!!",
		base64.URLEncoding.EncodeToString([]byte("not json")),
		base64.URLEncoding.EncodeToString([]byte("{}")),
		"",
	} {
		result := ValidateToken(garbage, "sub-1")
		assert.False(t, result.Valid, "input %q should not validate", garbage)
		assert.Equal(t, ReasonInvalidToken, result.Reason)
	}
}

func TestTokensAreUnique(t *testing.T) {
	first, err := GenerateToken("sub-1", "user-1", testEnv)
	require.NoError(t, err)
	second, err := GenerateToken("sub-1", "user-1", testEnv)
	require.NoError(t, err)

	// Same inputs, different nonces.
	assert.NotEqual(t, first, second)
}

func TestStoreIsScopedPerSubmission(t *testing.T) {
	store := NewStore()
	store.Put("sub-1", "token-1")

	_, ok := store.Get("sub-2")
	assert.False(t, ok)

	token, ok := store.Get("sub-1")
	require.True(t, ok)
	assert.Equal(t, "token-1", token)

	store.Delete("sub-1")
	_, ok = store.Get("sub-1")
	assert.False(t, ok)
}
