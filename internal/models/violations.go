package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
)

// ViolationType identifies a single category of exam-integrity violation.
type ViolationType string

const (
	ViolationTabSwitch    ViolationType = "tabSwitch"
	ViolationWindowBlur   ViolationType = "windowBlur"
	ViolationDevTools     ViolationType = "devTools"
	ViolationFullscreen   ViolationType = "fullscreen"
	ViolationWindowMove   ViolationType = "windowMove"
	ViolationPrintScreen  ViolationType = "printScreen"
	ViolationCopyPaste    ViolationType = "copyPaste"
	ViolationDeviceChange ViolationType = "deviceChange"
)

// ViolationTypes lists every known type in canonical display order.
var ViolationTypes = []ViolationType{
	ViolationTabSwitch,
	ViolationWindowBlur,
	ViolationDevTools,
	ViolationFullscreen,
	ViolationWindowMove,
	ViolationPrintScreen,
	ViolationCopyPaste,
	ViolationDeviceChange,
}

// ViolationCounts maps violation types to how many times each occurred during
// one exam attempt. Counts are monotonic; only the aggregator mutates them.
// Stored on the submission record as a jsonb column.
type ViolationCounts map[ViolationType]int

// Total returns the sum of all recorded counts.
func (v ViolationCounts) Total() int {
	total := 0
	for _, c := range v {
		total += c
	}
	return total
}

// Clone returns an independent copy so callers cannot mutate aggregator state.
func (v ViolationCounts) Clone() ViolationCounts {
	out := make(ViolationCounts, len(v))
	for k, c := range v {
		out[k] = c
	}
	return out
}

// Value implements driver.Valuer so gorm persists the map as jsonb.
func (v ViolationCounts) Value() (driver.Value, error) {
	if v == nil {
		return "{}", nil
	}
	b, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

// Scan implements sql.Scanner for the jsonb column.
func (v *ViolationCounts) Scan(value interface{}) error {
	if value == nil {
		*v = ViolationCounts{}
		return nil
	}
	var data []byte
	switch t := value.(type) {
	case []byte:
		data = t
	case string:
		data = []byte(t)
	default:
		return fmt.Errorf("unsupported type for ViolationCounts: %T", value)
	}
	return json.Unmarshal(data, v)
}

// ViolationLimits maps violation types to the maximum count allowed before a
// session is force-submitted. Immutable for the lifetime of a session.
type ViolationLimits map[ViolationType]int

// LimitSum returns the sum of all configured limits.
func (l ViolationLimits) LimitSum() int {
	total := 0
	for _, c := range l {
		total += c
	}
	return total
}

// ViolationTally is the array-of-objects wire shape some clients send for
// violation data; the report layer normalizes it into ViolationCounts.
type ViolationTally struct {
	Type  ViolationType `json:"type"`
	Count int           `json:"count"`
}
