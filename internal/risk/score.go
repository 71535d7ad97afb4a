// Package risk maps a violation-count map to a 0-100 score and a discrete
// risk level. Pure and deterministic: the same counts always produce the
// same score, so stored submissions can be re-scored at any time.
package risk

import "github.com/Micheduc25/evaluation-platform-sub000/internal/models"

// Fixed per-type weights. These are part of the scoring contract and are
// intentionally not configurable; changing them would make historical
// scores incomparable.
var weights = map[models.ViolationType]int{
	models.ViolationTabSwitch:    15,
	models.ViolationWindowBlur:   10,
	models.ViolationDevTools:     25,
	models.ViolationFullscreen:   8,
	models.ViolationWindowMove:   5,
	models.ViolationPrintScreen:  20,
	models.ViolationCopyPaste:    10,
	models.ViolationDeviceChange: 15,
}

// Weight returns the scoring weight for a violation type (0 if unknown).
func Weight(t models.ViolationType) int {
	return weights[t]
}

// CalculateRiskScore computes the weighted score, clamped to [0, 100], and
// its level band. Nil or empty input scores zero. Only a clamped score is
// critical: an attempt has to blow past the cap to earn that label.
func CalculateRiskScore(violations models.ViolationCounts) models.RiskScore {
	if len(violations) == 0 {
		return models.RiskScore{Score: 0, Level: models.RiskLow}
	}

	score := 0
	for t, count := range violations {
		if count <= 0 {
			continue
		}
		score += count * weights[t]
	}
	if score > 100 {
		score = 100
	}
	if score < 0 {
		score = 0
	}

	return models.RiskScore{Score: score, Level: levelFor(score)}
}

func levelFor(score int) models.RiskLevel {
	switch {
	case score >= 100:
		return models.RiskCritical
	case score >= 55:
		return models.RiskHigh
	case score >= 30:
		return models.RiskMedium
	default:
		return models.RiskLow
	}
}
