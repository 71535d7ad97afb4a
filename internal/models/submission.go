package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"
)

// QuestionTimes maps question IDs to seconds spent, persisted as jsonb.
type QuestionTimes map[string]float64

func (q QuestionTimes) Value() (driver.Value, error) {
	if q == nil {
		return "{}", nil
	}
	b, err := json.Marshal(q)
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

func (q *QuestionTimes) Scan(value interface{}) error {
	if value == nil {
		*q = QuestionTimes{}
		return nil
	}
	var data []byte
	switch t := value.(type) {
	case []byte:
		data = t
	case string:
		data = []byte(t)
	default:
		return fmt.Errorf("unsupported type for QuestionTimes: %T", value)
	}
	return json.Unmarshal(data, q)
}

// Submission is one exam attempt by one student. Violations accumulate on it
// while the attempt is live; timing analysis reads it back at review time.
type Submission struct {
	ID                   string `gorm:"primaryKey" json:"id"`
	AssessmentID         string `gorm:"index" json:"assessmentId"`
	UserID               string `gorm:"index" json:"userId"`
	StartedAt            time.Time
	SubmittedAt          *time.Time
	CurrentQuestionIndex int
	TimeSpentPerQuestion QuestionTimes   `gorm:"type:jsonb"`
	Violations           ViolationCounts `gorm:"type:jsonb"`
	ForcedSubmission     bool
	ForcedReason         string
	CreatedAt            time.Time
	UpdatedAt            time.Time

	Answers []Answer `gorm:"foreignKey:SubmissionID"`
}

// Answer is a single response within a submission. TimeSpent is seconds the
// student spent on the question before moving on.
type Answer struct {
	ID           uint   `gorm:"primaryKey"`
	SubmissionID string `gorm:"index"`
	QuestionID   string
	Value        string
	TimeSpent    float64
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// ViolationEvent is the audit row written for every accepted violation, so
// the report can show a timeline of what happened when.
type ViolationEvent struct {
	ID           uint   `gorm:"primaryKey"`
	SubmissionID string `gorm:"index"`
	Type         ViolationType
	Message      string
	CreatedAt    time.Time
}
