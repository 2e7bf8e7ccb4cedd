package finding

import "fmt"

// Severity represents the severity level of an accessibility finding.
type Severity string

const (
	// SeverityCritical indicates a defect that makes content unusable with
	// assistive technology.
	// Examples: keyboard traps, missing document structure
	SeverityCritical Severity = "critical"

	// SeverityError indicates a clear violation of an accessibility
	// requirement.
	// Examples: missing alt text, table without header cells
	SeverityError Severity = "error"

	// SeverityWarning indicates a likely problem that needs human review.
	// Examples: missing table caption, suspicious language code
	SeverityWarning Severity = "warning"

	// SeverityInfo indicates an advisory finding without direct impact.
	// Examples: recommendations, best practice notes
	SeverityInfo Severity = "info"
)

// severityWeights maps severity levels to numeric weights for compliance
// scoring. Higher weights indicate more severe findings.
var severityWeights = map[Severity]float64{
	SeverityCritical: 4.0,
	SeverityError:    3.0,
	SeverityWarning:  2.0,
	SeverityInfo:     1.0,
}

// IsValid returns true if the severity level is valid.
func (s Severity) IsValid() bool {
	switch s {
	case SeverityCritical, SeverityError, SeverityWarning, SeverityInfo:
		return true
	default:
		return false
	}
}

// Weight returns the numeric weight associated with the severity level.
// Returns 0.0 for invalid severity levels.
func (s Severity) Weight() float64 {
	if weight, ok := severityWeights[s]; ok {
		return weight
	}
	return 0.0
}

// String returns the string representation of the severity.
func (s Severity) String() string {
	return string(s)
}

// ParseSeverity parses a string into a Severity value.
// Returns an error if the string is not a valid severity level.
func ParseSeverity(s string) (Severity, error) {
	severity := Severity(s)
	if !severity.IsValid() {
		return "", fmt.Errorf("invalid severity: %s", s)
	}
	return severity, nil
}

// CompareSeverity compares two severity levels.
// Returns:
//   - negative if s1 < s2
//   - zero if s1 == s2
//   - positive if s1 > s2
func CompareSeverity(s1, s2 Severity) int {
	w1 := s1.Weight()
	w2 := s2.Weight()
	if w1 < w2 {
		return -1
	}
	if w1 > w2 {
		return 1
	}
	return 0
}

// AllSeverities returns all valid severity levels in order from critical to
// info.
func AllSeverities() []Severity {
	return []Severity{
		SeverityCritical,
		SeverityError,
		SeverityWarning,
		SeverityInfo,
	}
}
