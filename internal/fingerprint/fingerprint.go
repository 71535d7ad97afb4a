// Package fingerprint derives a stable, low-entropy identifier of the
// device/browser environment a submission is made from. It is a deterrent
// signal for human review, not a security boundary: collisions are
// acceptable and a determined attacker can spoof every input.
package fingerprint

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strings"
)

// Environment is the fixed set of client-readable attributes the
// fingerprint is computed over. The client reports it once at session start.
type Environment struct {
	ScreenWidth         int    `json:"screenWidth"`
	ScreenHeight        int    `json:"screenHeight"`
	ColorDepth          int    `json:"colorDepth"`
	UserAgent           string `json:"userAgent"`
	Language            string `json:"language"`
	HardwareConcurrency int    `json:"hardwareConcurrency"`
	DeviceMemory        int    `json:"deviceMemory"`
	Platform            string `json:"platform"`
	MaxTouchPoints      int    `json:"maxTouchPoints"`
	TimezoneOffset      int    `json:"timezoneOffset"`
}

// Generate returns a deterministic hex digest of the environment. The same
// environment always yields the same string; changing any single attribute
// changes the output. Never empty, no randomness, no time component.
func Generate(env Environment) string {
	parts := []string{
		fmt.Sprintf("%dx%dx%d", env.ScreenWidth, env.ScreenHeight, env.ColorDepth),
		env.UserAgent,
		env.Language,
		fmt.Sprintf("%d", env.HardwareConcurrency),
		fmt.Sprintf("%d", env.DeviceMemory),
		env.Platform,
		fmt.Sprintf("%d", env.MaxTouchPoints),
		fmt.Sprintf("%d", env.TimezoneOffset),
	}
	sum := sha256.Sum256([]byte(strings.Join(parts, "|")))
	return hex.EncodeToString(sum[:])
}
