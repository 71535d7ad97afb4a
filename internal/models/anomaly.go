package models

// Severity grades how suspicious a single anomaly is.
type Severity string

const (
	SeverityLow    Severity = "low"
	SeverityMedium Severity = "medium"
	SeverityHigh   Severity = "high"
)

// Anomaly is one detected irregularity, independent of live violation counts.
// Immutable once created; collected in detection order.
type Anomaly struct {
	Type       string   `json:"type"`
	Severity   Severity `json:"severity"`
	Message    string   `json:"message"`
	QuestionID string   `json:"questionId,omitempty"`
}

// RiskLevel is the discrete band derived from a numeric risk score.
type RiskLevel string

const (
	RiskLow      RiskLevel = "low"
	RiskMedium   RiskLevel = "medium"
	RiskHigh     RiskLevel = "high"
	RiskCritical RiskLevel = "critical"
)

// rank orders levels so callers can take the maximum of two assessments.
var riskRank = map[RiskLevel]int{
	RiskLow:      0,
	RiskMedium:   1,
	RiskHigh:     2,
	RiskCritical: 3,
}

// MaxRiskLevel returns the more severe of two levels.
func MaxRiskLevel(a, b RiskLevel) RiskLevel {
	if riskRank[b] > riskRank[a] {
		return b
	}
	return a
}

// RiskScore is a pure derived value; always recomputable byte-for-byte from
// the ViolationCounts that produced it.
type RiskScore struct {
	Score int       `json:"score"`
	Level RiskLevel `json:"level"`
}

// SubmissionAnalysis is the composed report object consumed by the grading UI
// and the export. Never persisted; recomputed from submission + assessment.
type SubmissionAnalysis struct {
	RiskScore       RiskScore `json:"riskScore"`
	OverallRisk     RiskLevel `json:"overallRisk"`
	Anomalies       []Anomaly `json:"anomalies"`
	Summary         string    `json:"summary"`
	Recommendations []string  `json:"recommendations"`
}
