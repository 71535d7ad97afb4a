package report

import (
	"encoding/json"
	"fmt"

	"github.com/Micheduc25/evaluation-platform-sub000/internal/models"
)

// ExportDocument is the single JSON document offered as a download to
// reviewers: the composed analysis plus the raw evidence it derives from.
type ExportDocument struct {
	SubmissionID string                    `json:"submissionId"`
	AssessmentID string                    `json:"assessmentId"`
	Analysis     models.SubmissionAnalysis `json:"analysis"`
	Violations   models.ViolationCounts    `json:"violations"`
	TimingStats  TimingStats               `json:"timingStats"`
	Events       []models.ViolationEvent   `json:"events,omitempty"`
}

// TimingStats are the raw per-question and total timings included in the
// export so reviewers can re-derive the anomalies.
type TimingStats struct {
	TotalSeconds         float64              `json:"totalSeconds"`
	TimeSpentPerQuestion models.QuestionTimes `json:"timeSpentPerQuestion"`
}

// ExportFileName derives the deterministic download name for a submission.
func ExportFileName(submissionID string) string {
	return fmt.Sprintf("integrity-report-%s.json", submissionID)
}

// Export serializes the full report document.
func Export(submission *models.Submission, assessment *models.Assessment, events []models.ViolationEvent) ([]byte, error) {
	if submission == nil {
		return nil, fmt.Errorf("cannot export a nil submission")
	}

	doc := ExportDocument{
		SubmissionID: submission.ID,
		AssessmentID: submission.AssessmentID,
		Analysis:     Analyze(submission, assessment),
		Violations:   submission.Violations,
		TimingStats: TimingStats{
			TotalSeconds:         totalSeconds(submission),
			TimeSpentPerQuestion: submission.TimeSpentPerQuestion,
		},
		Events: events,
	}

	return json.MarshalIndent(doc, "", "  ")
}

func totalSeconds(submission *models.Submission) float64 {
	if submission.SubmittedAt != nil {
		return submission.SubmittedAt.Sub(submission.StartedAt).Seconds()
	}
	total := 0.0
	for _, s := range submission.TimeSpentPerQuestion {
		total += s
	}
	return total
}
