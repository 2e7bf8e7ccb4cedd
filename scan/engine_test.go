package scan

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	a11y "github.com/richardissailing/PyAccessibility"
	"github.com/richardissailing/PyAccessibility/dom"
	"github.com/richardissailing/PyAccessibility/finding"
	"github.com/richardissailing/PyAccessibility/rule"
)

// stubRule returns canned findings, optionally after a delay or a panic.
type stubRule struct {
	id       string
	findings []finding.Finding
	visited  int
	delay    time.Duration
	panicMsg string
}

func (s stubRule) ID() string                        { return s.id }
func (s stubRule) Description() string               { return "stub" }
func (s stubRule) DefaultSeverity() finding.Severity { return finding.SeverityError }
func (s stubRule) Criterion() string                 { return "0.0.0" }
func (s stubRule) Evaluate(doc *dom.Document) rule.Evaluation {
	if s.delay > 0 {
		time.Sleep(s.delay)
	}
	if s.panicMsg != "" {
		panic(s.panicMsg)
	}
	return rule.Evaluation{Findings: s.findings, Visited: s.visited}
}

func stubFinding(ruleID, element, description string, sev finding.Severity) finding.Finding {
	return finding.Finding{
		RuleID:      ruleID,
		Severity:    sev,
		Element:     element,
		Description: description,
		Criterion:   "0.0.0",
	}
}

func catalogOf(t *testing.T, rules ...rule.Rule) *rule.Catalog {
	t.Helper()
	c, err := rule.NewCustomCatalog(rules...)
	require.NoError(t, err)
	return c
}

func emptyDoc(t *testing.T) *dom.Document {
	t.Helper()
	doc, err := dom.ParseFragment(`<div></div>`)
	require.NoError(t, err)
	return doc
}

func TestEngineScanAggregatesAcrossRules(t *testing.T) {
	catalog := catalogOf(t,
		stubRule{
			id:       "alpha",
			visited:  3,
			findings: []finding.Finding{stubFinding("alpha", "<p>", "low", finding.SeverityInfo)},
		},
		stubRule{
			id:       "beta",
			visited:  2,
			findings: []finding.Finding{stubFinding("beta", "<img>", "high", finding.SeverityCritical)},
		},
	)
	engine := NewEngine(catalog)

	result, err := engine.Scan(context.Background(), emptyDoc(t), []string{"alpha", "beta"})
	require.NoError(t, err)
	require.Len(t, result.Findings, 2)
	assert.Equal(t, "beta", result.Findings[0].RuleID, "critical sorts before info")
	assert.Equal(t, 5, result.ElementsChecked)
	assert.Equal(t, 2, result.RulesRun)
	assert.Equal(t, 1, result.Severities[finding.SeverityCritical])
	assert.Equal(t, 1, result.Severities[finding.SeverityInfo])
}

func TestEngineScanDeterministic(t *testing.T) {
	catalog := catalogOf(t,
		stubRule{id: "a", findings: []finding.Finding{
			stubFinding("a", "<p>", "one", finding.SeverityWarning),
			stubFinding("a", "<p>", "two", finding.SeverityError),
		}},
		stubRule{id: "b", findings: []finding.Finding{
			stubFinding("b", "<img>", "three", finding.SeverityWarning),
		}},
	)
	engine := NewEngine(catalog)

	first, err := engine.Scan(context.Background(), emptyDoc(t), []string{"a", "b"})
	require.NoError(t, err)
	for i := 0; i < 20; i++ {
		again, err := engine.Scan(context.Background(), emptyDoc(t), []string{"a", "b"})
		require.NoError(t, err)
		assert.Equal(t, first.Findings, again.Findings)
	}
}

func TestEngineScanUnknownRule(t *testing.T) {
	engine := NewEngine(rule.NewCatalog())

	_, err := engine.Scan(context.Background(), emptyDoc(t), []string{"no-such-rule"})
	require.Error(t, err)
	assert.ErrorIs(t, err, a11y.ErrRuleNotFound)
}

func TestEngineScanEmptySelection(t *testing.T) {
	engine := NewEngine(rule.NewCatalog())

	_, err := engine.Scan(context.Background(), emptyDoc(t), nil)
	require.Error(t, err)
	assert.ErrorIs(t, err, a11y.ErrNoRulesSelected)
}

func TestEngineScanIsolatesPanickingRule(t *testing.T) {
	catalog := catalogOf(t,
		stubRule{id: "broken", panicMsg: "index out of range"},
		stubRule{
			id:       "healthy",
			visited:  4,
			findings: []finding.Finding{stubFinding("healthy", "<a>", "ok", finding.SeverityWarning)},
		},
	)
	engine := NewEngine(catalog)

	result, err := engine.Scan(context.Background(), emptyDoc(t), []string{"broken", "healthy"})
	require.NoError(t, err, "a panicking rule must not fail the scan")
	require.Len(t, result.Findings, 2)

	var failure *finding.Finding
	for i := range result.Findings {
		if result.Findings[i].RuleID == "broken" {
			failure = &result.Findings[i]
		}
	}
	require.NotNil(t, failure)
	assert.Equal(t, "rule broken failed: index out of range", failure.Description)
	assert.Equal(t, finding.SeverityError, failure.Severity)

	assert.Equal(t, 4, result.ElementsChecked, "healthy rule's visit count survives")
}

func TestEngineScanTimeoutKeepsPartialResults(t *testing.T) {
	catalog := catalogOf(t,
		stubRule{id: "slow", delay: 2 * time.Second},
		stubRule{
			id:       "fast",
			visited:  1,
			findings: []finding.Finding{stubFinding("fast", "<p>", "quick", finding.SeverityInfo)},
		},
	)
	engine := NewEngine(catalog, WithTimeout(50*time.Millisecond))

	start := time.Now()
	result, err := engine.Scan(context.Background(), emptyDoc(t), []string{"slow", "fast"})
	require.NoError(t, err)
	assert.Less(t, time.Since(start), time.Second, "scan must not wait for the slow rule")

	descs := make(map[string]bool)
	for _, f := range result.Findings {
		descs[f.Description] = true
	}
	assert.True(t, descs["rule slow timed out"])
	assert.True(t, descs["quick"], "completed rule's findings are kept")
}

func TestEngineScanCancelledContext(t *testing.T) {
	catalog := catalogOf(t, stubRule{id: "slow", delay: time.Second})
	engine := NewEngine(catalog)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	result, err := engine.Scan(ctx, emptyDoc(t), []string{"slow"})
	require.NoError(t, err)
	require.Len(t, result.Findings, 1)
	assert.Equal(t, "rule slow timed out", result.Findings[0].Description)
}

func TestEngineScanSubsetFindingsAreSubset(t *testing.T) {
	catalog := catalogOf(t,
		stubRule{id: "a", findings: []finding.Finding{stubFinding("a", "<p>", "from a", finding.SeverityError)}},
		stubRule{id: "b", findings: []finding.Finding{stubFinding("b", "<p>", "from b", finding.SeverityError)}},
	)
	engine := NewEngine(catalog)

	narrow, err := engine.Scan(context.Background(), emptyDoc(t), []string{"a"})
	require.NoError(t, err)
	wide, err := engine.Scan(context.Background(), emptyDoc(t), []string{"a", "b"})
	require.NoError(t, err)

	wideKeys := make(map[string]bool)
	for _, f := range wide.Findings {
		wideKeys[f.Key()] = true
	}
	for _, f := range narrow.Findings {
		assert.True(t, wideKeys[f.Key()], "adding rules never removes findings")
	}
}

func TestEngineScanErrorIsConfiguration(t *testing.T) {
	engine := NewEngine(rule.NewCatalog())

	_, err := engine.Scan(context.Background(), emptyDoc(t), []string{"bogus"})
	var a11yErr *a11y.Error
	require.True(t, errors.As(err, &a11yErr))
	assert.Equal(t, a11y.KindConfiguration, a11yErr.Kind)
}
