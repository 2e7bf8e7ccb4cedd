// Package finding provides types and utilities for representing structural
// accessibility defects detected in an HTML document.
//
// The package includes the immutable Finding value object, the severity
// taxonomy used for ordering and compliance scoring, and the structural
// identity used for deduplication.
//
// # Core Types
//
// Finding represents one detected defect with full reporting context:
//   - The identifier of the producing rule
//   - An element-specific description and a serialized element snippet
//   - Severity and an optional WCAG criterion tag
//   - Optional remediation guidance
//
// # Severity Levels
//
// Severity is ranked from Critical to Info with associated weights used by
// the aggregator's compliance score and by result ordering.
//
// # Identity
//
// Two findings are the same logical defect when rule identifier, serialized
// element, and description all match. Key returns that identity and is what
// the aggregator collapses on when overlapping traversals (nested tables, an
// element reached through two selector passes) surface the same defect twice.
package finding
