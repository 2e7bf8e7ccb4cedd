// Package a11y provides a toolkit for structural accessibility analysis of
// HTML documents.
//
// The toolkit inspects a parsed document tree and reports accessibility
// defects: missing language declarations, broken focus indicators, malformed
// data tables, missing alternative text, insufficient declared contrast,
// invalid ARIA usage, and keyboard-trap risks. It approximates WCAG
// conformance with a fixed catalogue of structural heuristics; it does not
// render pages or compute contrast from pixels.
//
// # Core Packages
//
// The analysis pipeline is organized leaf-first:
//
//   - finding: the immutable Finding value object and severity taxonomy
//   - dom: a read-only document-tree adapter over golang.org/x/net/html
//   - rule: the Rule contract, the built-in rule catalogue, and the ten
//     concrete rule implementations
//   - scan: the evaluation engine (concurrent per-rule execution with failure
//     isolation), result aggregation, scoring, and criterion grouping
//   - filter: CEL-based post-aggregation finding filters
//
// # Orchestration Packages
//
// Around the core sit the collaborators that feed it and consume it:
//
//   - fetch: HTTP document acquisition
//   - report: JSON/HTML/text report rendering and SMTP delivery
//   - config: YAML scan configuration with environment overrides
//   - queue, worker: Redis-backed scan-job distribution
//   - registry: etcd-based worker registration and discovery
//   - telemetry: OpenTelemetry tracing and metrics for scans
//
// # Quick Start
//
// Scan raw markup with the full catalogue:
//
//	doc, err := dom.Parse(strings.NewReader(markup))
//	if err != nil {
//		log.Fatal(err)
//	}
//	catalog := rule.NewCatalog()
//	engine := scan.NewEngine(catalog)
//	result, err := engine.Scan(ctx, doc, catalog.IDs())
//	if err != nil {
//		log.Fatal(err)
//	}
//	for _, f := range result.Findings {
//		fmt.Println(f.Severity, f.RuleID, f.Description)
//	}
package a11y
