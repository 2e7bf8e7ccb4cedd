package a11y

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"testing"
)

// TestSentinelErrors verifies that all sentinel errors are defined correctly.
func TestSentinelErrors(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{
			name: "ErrRuleNotFound",
			err:  ErrRuleNotFound,
			want: "rule not found",
		},
		{
			name: "ErrNoRulesSelected",
			err:  ErrNoRulesSelected,
			want: "no rules selected",
		},
		{
			name: "ErrInvalidConfig",
			err:  ErrInvalidConfig,
			want: "invalid configuration",
		},
		{
			name: "ErrFetchFailed",
			err:  ErrFetchFailed,
			want: "fetch failed",
		},
		{
			name: "ErrRenderFailed",
			err:  ErrRenderFailed,
			want: "render failed",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.err == nil {
				t.Fatalf("sentinel error %s is nil", tt.name)
			}
			if got := tt.err.Error(); got != tt.want {
				t.Errorf("error message = %q, want %q", got, tt.want)
			}
		})
	}
}

// TestErrorError verifies the Error() method formatting.
func TestErrorError(t *testing.T) {
	tests := []struct {
		name string
		err  *Error
		want string
	}{
		{
			name: "basic error",
			err: &Error{
				Op:   "Catalog.Select",
				Kind: KindConfiguration,
				Err:  ErrRuleNotFound,
			},
			want: "a11y: Catalog.Select (configuration): rule not found",
		},
		{
			name: "error without underlying error",
			err: &Error{
				Op:   "Engine.Scan",
				Kind: KindInternal,
			},
			want: "a11y: Engine.Scan: internal",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.err.Error(); got != tt.want {
				t.Errorf("Error() = %q, want %q", got, tt.want)
			}
		})
	}
}

// TestErrorErrorWithContext verifies context appears in the formatted message.
func TestErrorErrorWithContext(t *testing.T) {
	err := &Error{
		Op:   "Engine.Scan",
		Kind: KindConfiguration,
		Err:  ErrRuleNotFound,
		Context: map[string]any{
			"rule_id": "focus-indicator",
		},
	}

	got := err.Error()
	if !strings.Contains(got, "rule_id") {
		t.Errorf("Error() = %q, want context key rule_id included", got)
	}
	if !strings.Contains(got, "focus-indicator") {
		t.Errorf("Error() = %q, want context value focus-indicator included", got)
	}
}

// TestErrorUnwrap verifies error unwrapping works with errors.Is.
func TestErrorUnwrap(t *testing.T) {
	wrapped := &Error{
		Op:   "Catalog.Select",
		Kind: KindConfiguration,
		Err:  ErrRuleNotFound,
	}

	if !errors.Is(wrapped, ErrRuleNotFound) {
		t.Error("errors.Is(wrapped, ErrRuleNotFound) = false, want true")
	}
	if errors.Is(wrapped, ErrFetchFailed) {
		t.Error("errors.Is(wrapped, ErrFetchFailed) = true, want false")
	}
	if wrapped.Unwrap() != ErrRuleNotFound {
		t.Errorf("Unwrap() = %v, want %v", wrapped.Unwrap(), ErrRuleNotFound)
	}
}

// TestErrorIsKindMatching verifies kind-based matching between Errors.
func TestErrorIsKindMatching(t *testing.T) {
	err := &Error{
		Op:   "Engine.Scan",
		Kind: KindTimeout,
		Err:  errors.New("deadline exceeded"),
	}

	// Kind-only target matches any op.
	if !errors.Is(err, &Error{Kind: KindTimeout}) {
		t.Error("errors.Is with kind-only target = false, want true")
	}

	// Kind and op must both match when op is set on the target.
	if errors.Is(err, &Error{Kind: KindTimeout, Op: "Client.Fetch"}) {
		t.Error("errors.Is with mismatched op = true, want false")
	}
	if !errors.Is(err, &Error{Kind: KindTimeout, Op: "Engine.Scan"}) {
		t.Error("errors.Is with matching op = false, want true")
	}

	// Different kind does not match.
	if errors.Is(err, &Error{Kind: KindNetwork}) {
		t.Error("errors.Is with different kind = true, want false")
	}
}

// TestErrorWithContext verifies WithContext returns a copy with merged context.
func TestErrorWithContext(t *testing.T) {
	base := NewConfigurationError("Catalog.Select", ErrRuleNotFound)

	derived := base.WithContext(map[string]any{"rule_id": "language"})
	if base.Context != nil {
		t.Error("WithContext mutated the receiver")
	}
	if derived.Context["rule_id"] != "language" {
		t.Errorf("derived context rule_id = %v, want language", derived.Context["rule_id"])
	}
}

// TestErrorConstructors verifies each constructor sets the expected kind.
func TestErrorConstructors(t *testing.T) {
	underlying := errors.New("boom")

	tests := []struct {
		name string
		err  *Error
		kind string
	}{
		{"configuration", NewConfigurationError("op", underlying), KindConfiguration},
		{"validation", NewValidationError("op", underlying), KindValidation},
		{"evaluation", NewEvaluationError("op", underlying), KindEvaluation},
		{"timeout", NewTimeoutError("op", underlying), KindTimeout},
		{"network", NewNetworkError("op", underlying), KindNetwork},
		{"render", NewRenderError("op", underlying), KindRender},
		{"internal", NewInternalError("op", underlying), KindInternal},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.err.Kind != tt.kind {
				t.Errorf("Kind = %q, want %q", tt.err.Kind, tt.kind)
			}
			if tt.err.Op != "op" {
				t.Errorf("Op = %q, want op", tt.err.Op)
			}
			if !errors.Is(tt.err, underlying) {
				t.Error("constructor lost underlying error")
			}
		})
	}
}

type errCloser struct{ err error }

func (c errCloser) Close() error { return c.err }

// TestCloseWithLog verifies close errors are logged, not propagated.
func TestCloseWithLog(t *testing.T) {
	var buf strings.Builder
	logger := slog.New(slog.NewTextHandler(&buf, nil))

	CloseWithLog(errCloser{err: fmt.Errorf("close failed")}, logger, "response body")
	if !strings.Contains(buf.String(), "close failed") {
		t.Errorf("log output = %q, want close error recorded", buf.String())
	}

	// Nil closer and nil logger must not panic.
	CloseWithLog(nil, nil, "nothing")
	CloseWithLog(errCloser{}, nil, "clean close")
}
