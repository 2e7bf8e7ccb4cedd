package scan

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"

	a11y "github.com/richardissailing/PyAccessibility"
	"github.com/richardissailing/PyAccessibility/dom"
	"github.com/richardissailing/PyAccessibility/finding"
	"github.com/richardissailing/PyAccessibility/rule"
)

// Option configures the Engine.
type Option func(*Engine)

// WithLogger sets a custom logger. If not provided, slog.Default is used.
func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) {
		e.logger = logger
	}
}

// WithTracer sets an OpenTelemetry tracer for scan spans.
func WithTracer(tracer trace.Tracer) Option {
	return func(e *Engine) {
		e.tracer = tracer
	}
}

// WithTimeout bounds the whole scan. Rules still running at the deadline
// are reported as timed out; findings from rules that already finished are
// kept.
func WithTimeout(d time.Duration) Option {
	return func(e *Engine) {
		e.timeout = d
	}
}

// Engine evaluates rules against documents.
type Engine struct {
	catalog *rule.Catalog
	logger  *slog.Logger
	tracer  trace.Tracer
	timeout time.Duration
}

// NewEngine creates an Engine backed by the given catalog.
func NewEngine(catalog *rule.Catalog, opts ...Option) *Engine {
	e := &Engine{
		catalog: catalog,
		logger:  slog.Default(),
		tracer:  noop.NewTracerProvider().Tracer("a11y-scan"),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// ruleOutcome is what a rule goroutine delivers: the evaluation on success,
// or the failure that replaced it.
type ruleOutcome struct {
	eval rule.Evaluation
	err  error
}

// Scan evaluates the named rules against doc concurrently and aggregates
// their findings.
//
// Rule selection is validated up front: an unknown rule id or an empty
// selection fails the whole scan before any rule runs. After that point
// rules are isolated from each other - a panic inside Evaluate becomes an
// error finding attributed to that rule, and rules still running when the
// engine's timeout expires are reported as timed out while completed rules
// keep their results.
func (e *Engine) Scan(ctx context.Context, doc *dom.Document, ruleIDs []string) (*Result, error) {
	rules, err := e.catalog.Select(ruleIDs)
	if err != nil {
		return nil, err
	}

	if e.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, e.timeout)
		defer cancel()
	}

	ctx, span := e.tracer.Start(ctx, "scan",
		trace.WithAttributes(attribute.Int("scan.rules", len(rules))))
	defer span.End()

	start := time.Now()

	// One buffered channel per rule so a goroutine finishing after the
	// deadline can still deliver without anyone listening.
	outcomes := make([]chan ruleOutcome, len(rules))
	for i, r := range rules {
		outcomes[i] = make(chan ruleOutcome, 1)
		go e.runRule(ctx, r, doc, outcomes[i])
	}

	var (
		findings []finding.Finding
		elements int
		timedOut []string
	)

collect:
	for i, r := range rules {
		select {
		case out := <-outcomes[i]:
			if out.err != nil {
				e.logger.Warn("rule failed", "rule", r.ID(), "error", out.err)
				findings = append(findings, failureFinding(r.ID(), out.err))
				continue
			}
			findings = append(findings, out.eval.Findings...)
			elements += out.eval.Visited
		case <-ctx.Done():
			// Deadline hit. Give every remaining rule one non-blocking
			// chance to deliver, then report the stragglers.
			for j := i; j < len(rules); j++ {
				late := rules[j]
				select {
				case out := <-outcomes[j]:
					if out.err != nil {
						findings = append(findings, failureFinding(late.ID(), out.err))
					} else {
						findings = append(findings, out.eval.Findings...)
						elements += out.eval.Visited
					}
				default:
					timedOut = append(timedOut, late.ID())
					findings = append(findings, timeoutFinding(late.ID()))
				}
			}
			break collect
		}
	}

	if len(timedOut) > 0 {
		e.logger.Warn("scan deadline exceeded", "timed_out_rules", timedOut)
	}

	result := Aggregate(findings, elements)
	result.RulesRun = len(rules)
	result.Duration = time.Since(start)

	span.SetAttributes(
		attribute.Int("scan.findings", len(result.Findings)),
		attribute.Float64("scan.score", result.Score),
	)
	e.logger.Debug("scan complete",
		"rules", len(rules),
		"findings", len(result.Findings),
		"elements_checked", result.ElementsChecked,
		"score", result.Score,
		"duration", result.Duration,
	)

	return result, nil
}

// runRule evaluates a single rule under its own child span, converting
// panics into errors.
func (e *Engine) runRule(ctx context.Context, r rule.Rule, doc *dom.Document, out chan<- ruleOutcome) {
	_, span := e.tracer.Start(ctx, "rule."+r.ID())
	defer span.End()

	defer func() {
		if cause := recover(); cause != nil {
			out <- ruleOutcome{err: &a11y.Error{
				Op:   "Engine.Scan",
				Kind: a11y.KindEvaluation,
				Err:  fmt.Errorf("rule %s failed: %v", r.ID(), cause),
			}}
		}
	}()

	eval := r.Evaluate(doc)
	span.SetAttributes(
		attribute.Int("rule.findings", len(eval.Findings)),
		attribute.Int("rule.visited", eval.Visited),
	)
	out <- ruleOutcome{eval: eval}
}

func failureFinding(ruleID string, err error) finding.Finding {
	desc := err.Error()
	var a11yErr *a11y.Error
	if errors.As(err, &a11yErr) && a11yErr.Err != nil {
		desc = a11yErr.Err.Error()
	}
	return finding.Finding{
		RuleID:      ruleID,
		Severity:    finding.SeverityError,
		Element:     "rule",
		Description: desc,
	}
}

func timeoutFinding(ruleID string) finding.Finding {
	return finding.Finding{
		RuleID:      ruleID,
		Severity:    finding.SeverityError,
		Element:     "rule",
		Description: fmt.Sprintf("rule %s timed out", ruleID),
	}
}
