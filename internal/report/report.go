// Package report composes the risk score, the timing analysis and the raw
// violation data into the single summary object the grading UI and the
// export consume. Output is deterministic for identical inputs so
// snapshot-style assertions hold.
package report

import (
	"fmt"
	"strings"

	"github.com/Micheduc25/evaluation-platform-sub000/internal/models"
	"github.com/Micheduc25/evaluation-platform-sub000/internal/risk"
	"github.com/Micheduc25/evaluation-platform-sub000/internal/timing"
)

// Analyze builds the full submission analysis. Nil inputs yield a safe
// low-risk result so the report UI can render a "no data" state.
func Analyze(submission *models.Submission, assessment *models.Assessment) models.SubmissionAnalysis {
	if submission == nil || assessment == nil {
		return models.SubmissionAnalysis{
			RiskScore:       models.RiskScore{Score: 0, Level: models.RiskLow},
			OverallRisk:     models.RiskLow,
			Anomalies:       []models.Anomaly{},
			Summary:         "No submission data available.",
			Recommendations: []string{},
		}
	}

	score := risk.CalculateRiskScore(submission.Violations)
	timingAnalysis := timing.AnalyzeSubmission(submission, assessment)
	overall := models.MaxRiskLevel(score.Level, timingAnalysis.OverallRisk)

	recommendations := timingAnalysis.Recommendations
	if overall != models.RiskLow && len(recommendations) == 0 {
		recommendations = []string{"Manually review this submission before releasing a grade"}
	}
	if score.Level == models.RiskHigh || score.Level == models.RiskCritical {
		recommendations = append(recommendations,
			"Cross-check the violation timeline against the student's answer activity")
	}

	return models.SubmissionAnalysis{
		RiskScore:       score,
		OverallRisk:     overall,
		Anomalies:       timingAnalysis.Anomalies,
		Summary:         summarize(submission, score, timingAnalysis),
		Recommendations: recommendations,
	}
}

// summarize produces the one-paragraph human synthesis. Phrasing is fixed;
// only the numbers vary.
func summarize(submission *models.Submission, score models.RiskScore, analysis timing.Analysis) string {
	var b strings.Builder

	total := submission.Violations.Total()
	fmt.Fprintf(&b, "Integrity risk score %d/100 (%s).", score.Score, score.Level)

	if total == 0 {
		b.WriteString(" No monitoring violations were recorded during the attempt.")
	} else {
		fmt.Fprintf(&b, " %d monitoring violation(s) were recorded: %s.",
			total, strings.Join(FormatViolations(submission.Violations), ", "))
	}

	if len(analysis.Anomalies) == 0 {
		b.WriteString(" Answer timing shows no irregularities.")
	} else {
		fmt.Fprintf(&b, " Answer analysis flagged %d anomal%s.",
			len(analysis.Anomalies), pluralY(len(analysis.Anomalies)))
	}

	if submission.ForcedSubmission {
		b.WriteString(" The submission was finalized by the system rather than the student.")
	}

	return b.String()
}

func pluralY(n int) string {
	if n == 1 {
		return "y"
	}
	return "ies"
}
