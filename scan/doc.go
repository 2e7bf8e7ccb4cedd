// Package scan runs accessibility rules against a parsed document and
// aggregates their findings into a single result.
//
// The Engine evaluates each selected rule in its own goroutine with full
// failure isolation: a panicking rule or a rule that outlives the scan
// deadline is reported as a finding against that rule, and never disturbs
// the results of the others. Aggregation dedupes repeated findings, orders
// them by severity, and computes a compliance score from the severity
// weights relative to the number of elements checked.
//
// Basic usage:
//
//	engine := scan.NewEngine(rule.NewCatalog(),
//		scan.WithLogger(logger),
//		scan.WithTimeout(10*time.Second),
//	)
//	result, err := engine.Scan(ctx, doc, catalog.IDs())
package scan
