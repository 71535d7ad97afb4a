package repository

import (
	"context"
	"time"

	"github.com/Micheduc25/evaluation-platform-sub000/internal/database"
	"github.com/Micheduc25/evaluation-platform-sub000/internal/models"
)

// CreateSubmission starts a new exam attempt record.
func CreateSubmission(ctx context.Context, sub *models.Submission) error {
	if sub.StartedAt.IsZero() {
		sub.StartedAt = time.Now().UTC()
	}
	if sub.Violations == nil {
		sub.Violations = models.ViolationCounts{}
	}
	if sub.TimeSpentPerQuestion == nil {
		sub.TimeSpentPerQuestion = models.QuestionTimes{}
	}
	return database.DB.WithContext(ctx).Create(sub).Error
}

// GetSubmission loads a submission with its answers.
func GetSubmission(ctx context.Context, id string) (*models.Submission, error) {
	var sub models.Submission
	err := database.DB.WithContext(ctx).Preload("Answers").First(&sub, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &sub, nil
}

// Progress is the in-flight state the client periodically saves.
type Progress struct {
	Answers              map[string]string    `json:"answers"`
	CurrentQuestionIndex int                  `json:"currentQuestionIndex"`
	TimeSpentPerQuestion models.QuestionTimes `json:"timeSpentPerQuestion"`
	Violations           models.ViolationCounts
}

// SaveProgress upserts in-flight answers and state onto the submission.
// Callers treat it as best effort: failures surface as a save-status
// indicator, never into the detector pipeline.
func SaveProgress(ctx context.Context, submissionID string, p Progress) error {
	db := database.DB.WithContext(ctx)

	updates := map[string]interface{}{
		"current_question_index":  p.CurrentQuestionIndex,
		"time_spent_per_question": p.TimeSpentPerQuestion,
		"violations":              p.Violations,
		"updated_at":              time.Now().UTC(),
	}
	if err := db.Model(&models.Submission{}).Where("id = ?", submissionID).Updates(updates).Error; err != nil {
		return err
	}

	for questionID, value := range p.Answers {
		answer := models.Answer{
			SubmissionID: submissionID,
			QuestionID:   questionID,
			Value:        value,
			TimeSpent:    p.TimeSpentPerQuestion[questionID],
		}
		err := db.Where("submission_id = ? AND question_id = ?", submissionID, questionID).
			Assign(map[string]interface{}{"value": value, "time_spent": answer.TimeSpent}).
			FirstOrCreate(&answer).Error
		if err != nil {
			return err
		}
	}
	return nil
}

// Submit finalizes the attempt with its violation map and forced flag.
func Submit(ctx context.Context, submissionID string, violations models.ViolationCounts, forced bool, forcedReason string) error {
	now := time.Now().UTC()
	return database.DB.WithContext(ctx).
		Model(&models.Submission{}).
		Where("id = ?", submissionID).
		Updates(map[string]interface{}{
			"submitted_at":      now,
			"violations":        violations,
			"forced_submission": forced,
			"forced_reason":     forcedReason,
			"updated_at":        now,
		}).Error
}

// RecordViolationEvent appends one audit row to the violation timeline.
func RecordViolationEvent(ctx context.Context, submissionID string, t models.ViolationType, message string) error {
	event := models.ViolationEvent{
		SubmissionID: submissionID,
		Type:         t,
		Message:      message,
	}
	return database.DB.WithContext(ctx).Create(&event).Error
}

// ListViolationEvents returns the audit timeline, oldest first.
func ListViolationEvents(ctx context.Context, submissionID string) ([]models.ViolationEvent, error) {
	var events []models.ViolationEvent
	err := database.DB.WithContext(ctx).
		Where("submission_id = ?", submissionID).
		Order("created_at ASC").
		Find(&events).Error
	return events, err
}
