package report

import (
	"bytes"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Micheduc25/evaluation-platform-sub000/internal/models"
)

func sampleAssessment() *models.Assessment {
	questions := make([]models.Question, 0, 5)
	for i := 0; i < 5; i++ {
		questions = append(questions, models.Question{
			ID:     "q" + string(rune('1'+i)),
			Text:   "Describe the approach you would take and justify each step of it in detail.",
			Type:   models.QuestionOpen,
			Points: 10,
		})
	}
	return &models.Assessment{ID: "exam-1", Title: "Sample Exam", Duration: 60, Questions: questions}
}

func cleanSubmission() *models.Submission {
	started := time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)
	submitted := started.Add(50 * time.Minute)
	return &models.Submission{
		ID:           "sub-1",
		AssessmentID: "exam-1",
		UserID:       "user-1",
		StartedAt:    started,
		SubmittedAt:  &submitted,
		Violations:   models.ViolationCounts{},
		Answers: []models.Answer{
			{QuestionID: "q1", Value: "A considered answer written at a normal pace.", TimeSpent: 400},
		},
	}
}

func TestAnalyzeNilInputs(t *testing.T) {
	analysis := Analyze(nil, nil)

	assert.Equal(t, 0, analysis.RiskScore.Score)
	assert.Equal(t, models.RiskLow, analysis.OverallRisk)
	assert.Empty(t, analysis.Anomalies)
	assert.Equal(t, "No submission data available.", analysis.Summary)
	assert.Empty(t, analysis.Recommendations)
}

func TestAnalyzeCleanSubmission(t *testing.T) {
	analysis := Analyze(cleanSubmission(), sampleAssessment())

	assert.Equal(t, models.RiskLow, analysis.OverallRisk)
	assert.Empty(t, analysis.Anomalies)
	assert.Contains(t, analysis.Summary, "score 0/100")
	assert.Contains(t, analysis.Summary, "No monitoring violations")
	assert.Contains(t, analysis.Summary, "no irregularities")
}

func TestAnalyzeCombinesViolationAndTimingRisk(t *testing.T) {
	sub := cleanSubmission()
	sub.Violations = models.ViolationCounts{
		models.ViolationTabSwitch: 2,
		models.ViolationDevTools:  1,
	}

	analysis := Analyze(sub, sampleAssessment())

	assert.Equal(t, 55, analysis.RiskScore.Score)
	assert.Equal(t, models.RiskHigh, analysis.OverallRisk)
	assert.Contains(t, analysis.Summary, "3 monitoring violation(s)")
	assert.Contains(t, analysis.Summary, "Tab Switching 2 time(s)")
	assert.NotEmpty(t, analysis.Recommendations)
}

func TestAnalyzeForcedSubmissionNotLow(t *testing.T) {
	sub := cleanSubmission()
	sub.ForcedSubmission = true
	sub.ForcedReason = "devTools limit reached (2/2)"

	analysis := Analyze(sub, sampleAssessment())

	assert.NotEqual(t, models.RiskLow, analysis.OverallRisk)
	assert.Contains(t, analysis.Summary, "finalized by the system")
}

func TestAnalyzeDeterministic(t *testing.T) {
	sub := cleanSubmission()
	sub.Violations = models.ViolationCounts{models.ViolationCopyPaste: 3}

	first := Analyze(sub, sampleAssessment())
	second := Analyze(sub, sampleAssessment())

	assert.Equal(t, first, second)
}

func TestExportDocument(t *testing.T) {
	sub := cleanSubmission()
	sub.Violations = models.ViolationCounts{models.ViolationTabSwitch: 1}
	sub.TimeSpentPerQuestion = models.QuestionTimes{"q1": 400}

	data, err := Export(sub, sampleAssessment(), nil)
	require.NoError(t, err)

	var doc ExportDocument
	require.NoError(t, json.Unmarshal(data, &doc))
	assert.Equal(t, "sub-1", doc.SubmissionID)
	assert.Equal(t, "exam-1", doc.AssessmentID)
	assert.Equal(t, 1, doc.Violations[models.ViolationTabSwitch])
	assert.InDelta(t, 3000, doc.TimingStats.TotalSeconds, 0.01)
}

func TestExportNilSubmission(t *testing.T) {
	_, err := Export(nil, sampleAssessment(), nil)
	assert.Error(t, err)
}

func TestExportFileName(t *testing.T) {
	assert.Equal(t, "integrity-report-sub-1.json", ExportFileName("sub-1"))
}

func TestViolationChartCoversAllTypes(t *testing.T) {
	bar := ViolationChart(models.ViolationCounts{models.ViolationTabSwitch: 2}, "Sample Exam")
	require.NotNil(t, bar)
	require.Len(t, bar.MultiSeries, 1)
	assert.Len(t, bar.MultiSeries[0].Data, len(models.ViolationTypes))

	var buf bytes.Buffer
	require.NoError(t, bar.Render(&buf))
	assert.Contains(t, buf.String(), "Tab Switching")
}
