// Package timing holds the per-answer and whole-submission heuristics that
// flag answers produced faster than a human plausibly could. All functions
// are pure and nil-safe so the report layer can run them over whatever the
// store hands back, including partial records.
package timing

import (
	"fmt"
	"strings"
	"time"

	"github.com/Micheduc25/evaluation-platform-sub000/internal/models"
)

// Anomaly type names produced by this package.
const (
	AnomalySuspiciouslyFast   = "suspiciously_fast"
	AnomalyUnusualTypingSpeed = "unusual_typing_speed"
	AnomalyInstantAnswer      = "instant_answer"
	AnomalyVeryFastCompletion = "very_fast_completion"
	AnomalyForcedSubmission   = "forced_submission"
)

// Heuristic thresholds. Tuned against review of real attempts: a strong
// typist sustains ~80-100 WPM, so 150 sustained over a whole answer is
// already beyond plausible.
const (
	fastAnswerMinChars   = 100
	fastAnswerMaxSeconds = 10.0
	maxSustainedWPM      = 150.0
	minWordsForWPM       = 10
	instantAnswerSeconds = 3.0
	instantPromptChars   = 200
	fastCompletionRatio  = 0.15
)

// ValidateAnswerTiming checks one answer against its question. A nil answer
// or question yields no anomalies.
func ValidateAnswerTiming(answer *models.Answer, question *models.Question) []models.Anomaly {
	if answer == nil || question == nil {
		return []models.Anomaly{}
	}

	anomalies := []models.Anomaly{}

	if question.Type == models.QuestionOpen {
		length := len(answer.Value)

		if length >= fastAnswerMinChars && answer.TimeSpent > 0 && answer.TimeSpent < fastAnswerMaxSeconds {
			anomalies = append(anomalies, models.Anomaly{
				Type:       AnomalySuspiciouslyFast,
				Severity:   models.SeverityHigh,
				Message:    fmt.Sprintf("Answer of %d characters produced in %.0f seconds", length, answer.TimeSpent),
				QuestionID: question.ID,
			})
		}

		words := len(strings.Fields(answer.Value))
		if words >= minWordsForWPM && answer.TimeSpent > 0 {
			wpm := float64(words) / (answer.TimeSpent / 60.0)
			if wpm > maxSustainedWPM {
				anomalies = append(anomalies, models.Anomaly{
					Type:       AnomalyUnusualTypingSpeed,
					Severity:   models.SeverityMedium,
					Message:    fmt.Sprintf("Typing speed of %.0f WPM exceeds realistic sustained rate", wpm),
					QuestionID: question.ID,
				})
			}
		}
	}

	if question.Type == models.QuestionChoice {
		if answer.TimeSpent > 0 && answer.TimeSpent < instantAnswerSeconds && len(question.Text) > instantPromptChars {
			anomalies = append(anomalies, models.Anomaly{
				Type:       AnomalyInstantAnswer,
				Severity:   models.SeverityMedium,
				Message:    fmt.Sprintf("Choice made in %.0f seconds on a %d-character prompt", answer.TimeSpent, len(question.Text)),
				QuestionID: question.ID,
			})
		}
	}

	return anomalies
}

// Analysis is the submission-level result: every anomaly found, an overall
// risk derived from their severities, and reviewer recommendations.
type Analysis struct {
	Anomalies       []models.Anomaly `json:"anomalies"`
	OverallRisk     models.RiskLevel `json:"overallRisk"`
	Recommendations []string         `json:"recommendations"`
}

// AnalyzeSubmission runs the per-answer rule over every answer and adds
// submission-level checks. Nil submission or assessment yields the safe
// empty result so the report UI can render a "no data" state.
func AnalyzeSubmission(submission *models.Submission, assessment *models.Assessment) Analysis {
	if submission == nil || assessment == nil {
		return Analysis{Anomalies: []models.Anomaly{}, OverallRisk: models.RiskLow, Recommendations: []string{}}
	}

	anomalies := []models.Anomaly{}

	for i := range submission.Answers {
		answer := &submission.Answers[i]
		question, ok := assessment.QuestionByID(answer.QuestionID)
		if !ok {
			continue
		}
		anomalies = append(anomalies, ValidateAnswerTiming(answer, question)...)
	}

	if a := checkCompletionTime(submission, assessment); a != nil {
		anomalies = append(anomalies, *a)
	}

	if submission.ForcedSubmission {
		msg := "Submission was finalized by the system, not the student"
		if submission.ForcedReason != "" {
			msg = fmt.Sprintf("Submission was forced: %s", submission.ForcedReason)
		}
		anomalies = append(anomalies, models.Anomaly{
			Type:     AnomalyForcedSubmission,
			Severity: models.SeverityHigh,
			Message:  msg,
		})
	}

	overall := overallRisk(anomalies)
	return Analysis{
		Anomalies:       anomalies,
		OverallRisk:     overall,
		Recommendations: recommendations(anomalies, overall),
	}
}

func checkCompletionTime(submission *models.Submission, assessment *models.Assessment) *models.Anomaly {
	if submission.SubmittedAt == nil || assessment.Duration <= 0 || len(assessment.Questions) == 0 {
		return nil
	}

	elapsed := submission.SubmittedAt.Sub(submission.StartedAt)
	if elapsed <= 0 {
		return nil
	}

	allotted := time.Duration(assessment.Duration) * time.Minute
	if float64(elapsed) < float64(allotted)*fastCompletionRatio {
		return &models.Anomaly{
			Type:     AnomalyVeryFastCompletion,
			Severity: models.SeverityMedium,
			Message: fmt.Sprintf("Completed %d questions in %.0f of %d allotted minutes",
				len(assessment.Questions), elapsed.Minutes(), assessment.Duration),
		}
	}
	return nil
}

func overallRisk(anomalies []models.Anomaly) models.RiskLevel {
	level := models.RiskLow
	for _, a := range anomalies {
		switch a.Severity {
		case models.SeverityHigh:
			level = models.MaxRiskLevel(level, models.RiskHigh)
		case models.SeverityMedium:
			level = models.MaxRiskLevel(level, models.RiskMedium)
		}
	}
	return level
}

func recommendations(anomalies []models.Anomaly, overall models.RiskLevel) []string {
	recs := []string{}

	seen := map[string]bool{}
	for _, a := range anomalies {
		if seen[a.Type] {
			continue
		}
		seen[a.Type] = true

		switch a.Type {
		case AnomalySuspiciouslyFast, AnomalyUnusualTypingSpeed:
			recs = append(recs, "Compare flagged open answers against external sources for copied content")
		case AnomalyInstantAnswer:
			recs = append(recs, "Review whether flagged multiple-choice answers show a pattern of guessing or prior knowledge")
		case AnomalyVeryFastCompletion:
			recs = append(recs, "Verify the student could realistically finish in the recorded time")
		case AnomalyForcedSubmission:
			recs = append(recs, "Review violation history leading to the forced submission before grading")
		}
	}

	if len(recs) == 0 && overall != models.RiskLow {
		recs = append(recs, "Manually review this submission before releasing a grade")
	}
	return recs
}
