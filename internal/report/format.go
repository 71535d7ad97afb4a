package report

import (
	"fmt"
	"strings"
	"unicode"

	"github.com/Micheduc25/evaluation-platform-sub000/internal/models"
)

// Fixed human labels for the known violation types. Unknown keys fall back
// to a decamelized form of the raw key.
var violationLabels = map[models.ViolationType]string{
	models.ViolationTabSwitch:    "Tab Switching",
	models.ViolationWindowBlur:   "Window Blur",
	models.ViolationDevTools:     "Developer Tools",
	models.ViolationFullscreen:   "Fullscreen Exit",
	models.ViolationWindowMove:   "Window Movement",
	models.ViolationPrintScreen:  "Print Screen",
	models.ViolationCopyPaste:    "Copy/Paste",
	models.ViolationDeviceChange: "Device Change",
}

// FormatViolations renders violation data as display lines. Three input
// shapes are accepted: a type→count mapping, a list of {type,count}
// tallies, or a list of already-human strings (passed through unchanged).
// Zero counts are filtered; nil input yields an empty list.
func FormatViolations(input interface{}) []string {
	if input == nil {
		return []string{}
	}

	if lines, ok := input.([]string); ok {
		if lines == nil {
			return []string{}
		}
		return lines
	}

	counts := normalizeViolations(input)
	lines := []string{}
	for _, t := range models.ViolationTypes {
		if c := counts[t]; c > 0 {
			lines = append(lines, fmt.Sprintf("%s %d time(s)", violationLabel(t), c))
		}
	}
	// Unknown keys come after the canonical ones, in insertion-independent order.
	for t, c := range counts {
		if c > 0 && !isKnownType(t) {
			lines = append(lines, fmt.Sprintf("%s %d time(s)", violationLabel(t), c))
		}
	}
	return lines
}

// normalizeViolations resolves the accepted input shapes into the canonical
// mapping once, before any other logic runs.
func normalizeViolations(input interface{}) models.ViolationCounts {
	switch v := input.(type) {
	case models.ViolationCounts:
		return v
	case map[models.ViolationType]int:
		return models.ViolationCounts(v)
	case map[string]int:
		out := make(models.ViolationCounts, len(v))
		for k, c := range v {
			out[models.ViolationType(k)] = c
		}
		return out
	case []models.ViolationTally:
		out := make(models.ViolationCounts, len(v))
		for _, tally := range v {
			out[tally.Type] += tally.Count
		}
		return out
	default:
		return models.ViolationCounts{}
	}
}

func isKnownType(t models.ViolationType) bool {
	_, ok := violationLabels[t]
	return ok
}

func violationLabel(t models.ViolationType) string {
	if label, ok := violationLabels[t]; ok {
		return label
	}
	return decamelize(string(t))
}

// decamelize turns "deviceChange" into "Device Change".
func decamelize(s string) string {
	var b strings.Builder
	for i, r := range s {
		if i == 0 {
			b.WriteRune(unicode.ToUpper(r))
			continue
		}
		if unicode.IsUpper(r) {
			b.WriteRune(' ')
		}
		b.WriteRune(r)
	}
	return b.String()
}
