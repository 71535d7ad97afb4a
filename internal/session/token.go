// Package session binds a submission to the device it was started on. A
// token is an opaque base64 string wrapping the submission identity, start
// time, device fingerprint and a random nonce; validation never panics and
// reports typed reasons so policy stays with the caller.
package session

import (
	"encoding/base64"
	"encoding/json"
	"time"

	"github.com/google/uuid"

	"github.com/Micheduc25/evaluation-platform-sub000/internal/fingerprint"
)

// Validation failure reasons.
const (
	ReasonInvalidToken       = "invalid_token"
	ReasonSubmissionMismatch = "submission_mismatch"
)

// Data is the decoded payload of a session token.
type Data struct {
	SubmissionID string    `json:"submissionId"`
	UserID       string    `json:"userId"`
	StartTime    time.Time `json:"startTime"`
	Fingerprint  string    `json:"fingerprint"`
	Nonce        string    `json:"nonce"`
}

// Result is the outcome of validating a token.
type Result struct {
	Valid   bool   `json:"valid"`
	Reason  string `json:"reason,omitempty"`
	Session *Data  `json:"sessionData,omitempty"`
}

// GenerateToken issues a new token for the (submission, device) pair.
func GenerateToken(submissionID, userID string, env fingerprint.Environment) (string, error) {
	data := Data{
		SubmissionID: submissionID,
		UserID:       userID,
		StartTime:    time.Now().UTC(),
		Fingerprint:  fingerprint.Generate(env),
		Nonce:        uuid.NewString(),
	}
	payload, err := json.Marshal(data)
	if err != nil {
		return "", err
	}
	return base64.URLEncoding.EncodeToString(payload), nil
}

// ValidateToken decodes a token and checks it belongs to the expected
// submission. Decode failures and mismatches are results, not errors.
func ValidateToken(token, expectedSubmissionID string) Result {
	payload, err := base64.URLEncoding.DecodeString(token)
	if err != nil {
		return Result{Valid: false, Reason: ReasonInvalidToken}
	}

	var data Data
	if err := json.Unmarshal(payload, &data); err != nil {
		return Result{Valid: false, Reason: ReasonInvalidToken}
	}
	if data.SubmissionID == "" || data.Nonce == "" {
		return Result{Valid: false, Reason: ReasonInvalidToken}
	}
	if data.SubmissionID != expectedSubmissionID {
		return Result{Valid: false, Reason: ReasonSubmissionMismatch}
	}

	return Result{Valid: true, Session: &data}
}
