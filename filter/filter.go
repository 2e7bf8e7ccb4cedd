// Package filter selects findings with CEL expressions.
//
// A filter is a boolean CEL expression over the fields of a finding:
//
//	severity == "error" && criterion.startsWith("1.")
//	rule_id == "img-alt-text" || description.contains("contrast")
//
// Compile once, then apply to any number of findings.
package filter

import (
	"fmt"

	"github.com/google/cel-go/cel"

	a11y "github.com/richardissailing/PyAccessibility"
	"github.com/richardissailing/PyAccessibility/finding"
)

// Filter is a compiled finding predicate.
type Filter struct {
	expr    string
	program cel.Program
}

// Compile parses and type-checks a CEL expression over finding fields. The
// expression must evaluate to a boolean.
func Compile(expr string) (*Filter, error) {
	env, err := cel.NewEnv(
		cel.Variable("rule_id", cel.StringType),
		cel.Variable("severity", cel.StringType),
		cel.Variable("criterion", cel.StringType),
		cel.Variable("description", cel.StringType),
		cel.Variable("element", cel.StringType),
	)
	if err != nil {
		return nil, &a11y.Error{Op: "filter.Compile", Kind: a11y.KindInternal, Err: err}
	}

	ast, issues := env.Compile(expr)
	if issues != nil && issues.Err() != nil {
		return nil, &a11y.Error{
			Op:   "filter.Compile",
			Kind: a11y.KindValidation,
			Err:  fmt.Errorf("invalid filter expression: %w", issues.Err()),
		}
	}
	if ast.OutputType() != cel.BoolType {
		return nil, &a11y.Error{
			Op:   "filter.Compile",
			Kind: a11y.KindValidation,
			Err:  fmt.Errorf("filter expression must return bool, got %s", ast.OutputType()),
		}
	}

	program, err := env.Program(ast)
	if err != nil {
		return nil, &a11y.Error{Op: "filter.Compile", Kind: a11y.KindInternal, Err: err}
	}

	return &Filter{expr: expr, program: program}, nil
}

// Expr returns the source expression the filter was compiled from.
func (f *Filter) Expr() string { return f.expr }

// Match reports whether the finding satisfies the filter.
func (f *Filter) Match(fd finding.Finding) (bool, error) {
	out, _, err := f.program.Eval(map[string]any{
		"rule_id":     fd.RuleID,
		"severity":    string(fd.Severity),
		"criterion":   fd.Criterion,
		"description": fd.Description,
		"element":     fd.Element,
	})
	if err != nil {
		return false, &a11y.Error{Op: "Filter.Match", Kind: a11y.KindEvaluation, Err: err}
	}
	matched, ok := out.Value().(bool)
	if !ok {
		return false, &a11y.Error{
			Op:   "Filter.Match",
			Kind: a11y.KindEvaluation,
			Err:  fmt.Errorf("filter returned %T, want bool", out.Value()),
		}
	}
	return matched, nil
}

// Apply returns the findings that satisfy the filter, preserving order.
func (f *Filter) Apply(findings []finding.Finding) ([]finding.Finding, error) {
	var kept []finding.Finding
	for _, fd := range findings {
		matched, err := f.Match(fd)
		if err != nil {
			return nil, err
		}
		if matched {
			kept = append(kept, fd)
		}
	}
	return kept, nil
}
