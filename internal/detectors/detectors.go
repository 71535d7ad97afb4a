// Package detectors holds the leaf signal sensors of the integrity engine.
// Each detector consumes raw client signals and reports through a single
// callback, or exposes pull-style stats for sampling-based checks. Detectors
// never decide policy: limits, warnings and forced submission belong to the
// aggregator.
package detectors

import "github.com/Micheduc25/evaluation-platform-sub000/internal/models"

// ReportFunc is how a detector hands a raw violation to the aggregator.
type ReportFunc func(violationType models.ViolationType, message string)
