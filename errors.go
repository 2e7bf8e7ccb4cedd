package a11y

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
)

// Sentinel errors for common toolkit error conditions.
// These errors can be used with errors.Is() for error checking.
var (
	// ErrRuleNotFound indicates a requested rule identifier is not in the catalogue.
	ErrRuleNotFound = errors.New("rule not found")

	// ErrNoRulesSelected indicates a scan was requested with an empty rule set.
	ErrNoRulesSelected = errors.New("no rules selected")

	// ErrInvalidConfig indicates the provided configuration is invalid or incomplete.
	ErrInvalidConfig = errors.New("invalid configuration")

	// ErrFetchFailed indicates a document could not be retrieved from its source.
	ErrFetchFailed = errors.New("fetch failed")

	// ErrRenderFailed indicates a report could not be rendered.
	ErrRenderFailed = errors.New("render failed")
)

// Error kinds categorize errors by their type.
const (
	// KindConfiguration represents errors in scan or rule-set configuration.
	// These are the only errors that abort a scan before evaluation starts.
	KindConfiguration = "configuration"

	// KindValidation represents errors related to input validation.
	KindValidation = "validation"

	// KindEvaluation represents failures inside a rule's evaluation logic.
	KindEvaluation = "evaluation"

	// KindTimeout represents errors related to scan or rule deadlines.
	KindTimeout = "timeout"

	// KindNetwork represents errors related to document acquisition or delivery.
	KindNetwork = "network"

	// KindRender represents errors that occur while rendering reports.
	KindRender = "render"

	// KindInternal represents internal toolkit errors.
	KindInternal = "internal"
)

// Error is a structured error type that wraps underlying errors with
// additional context about the operation that failed and the category of
// error.
//
// Error implements the error interface and supports error unwrapping,
// making it compatible with errors.Is() and errors.As().
//
// Example usage:
//
//	err := &a11y.Error{
//		Op:   "Catalog.Select",
//		Kind: a11y.KindConfiguration,
//		Err:  a11y.ErrRuleNotFound,
//	}
type Error struct {
	// Op is the operation that failed (e.g., "Engine.Scan", "Client.Fetch").
	Op string

	// Kind categorizes the error (e.g., KindConfiguration, KindTimeout).
	Kind string

	// Err is the underlying error that caused this error.
	Err error

	// Context provides additional context about the error (optional).
	// This can include rule identifiers, target URLs, or other debugging
	// information.
	Context map[string]any
}

// Error implements the error interface, returning a formatted error message
// that includes the operation, kind, and underlying error.
func (e *Error) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("a11y: %s: %s", e.Op, e.Kind)
	}

	if len(e.Context) > 0 {
		return fmt.Sprintf("a11y: %s (%s): %v [context: %+v]", e.Op, e.Kind, e.Err, e.Context)
	}

	return fmt.Sprintf("a11y: %s (%s): %v", e.Op, e.Kind, e.Err)
}

// Unwrap returns the underlying error, allowing errors.Is() and errors.As()
// to work correctly with wrapped errors.
func (e *Error) Unwrap() error {
	return e.Err
}

// Is implements error matching for Error, allowing comparison based on
// the underlying error or the Error itself.
func (e *Error) Is(target error) bool {
	if target == nil {
		return false
	}

	// Check if target is an Error with matching Kind
	if t, ok := target.(*Error); ok {
		if t.Kind != "" && e.Kind == t.Kind {
			if t.Op == "" || e.Op == t.Op {
				return true
			}
		}
	}

	// Delegate to underlying error
	return errors.Is(e.Err, target)
}

// WithContext returns a new Error with the provided context added.
// This is useful for adding debugging information to errors.
func (e *Error) WithContext(ctx map[string]any) *Error {
	newErr := *e
	if newErr.Context == nil {
		newErr.Context = make(map[string]any)
	}
	for k, v := range ctx {
		newErr.Context[k] = v
	}
	return &newErr
}

// NewConfigurationError creates a new Error with KindConfiguration.
func NewConfigurationError(op string, err error) *Error {
	return &Error{
		Op:   op,
		Kind: KindConfiguration,
		Err:  err,
	}
}

// NewValidationError creates a new Error with KindValidation.
func NewValidationError(op string, err error) *Error {
	return &Error{
		Op:   op,
		Kind: KindValidation,
		Err:  err,
	}
}

// NewEvaluationError creates a new Error with KindEvaluation.
func NewEvaluationError(op string, err error) *Error {
	return &Error{
		Op:   op,
		Kind: KindEvaluation,
		Err:  err,
	}
}

// NewTimeoutError creates a new Error with KindTimeout.
func NewTimeoutError(op string, err error) *Error {
	return &Error{
		Op:   op,
		Kind: KindTimeout,
		Err:  err,
	}
}

// NewNetworkError creates a new Error with KindNetwork.
func NewNetworkError(op string, err error) *Error {
	return &Error{
		Op:   op,
		Kind: KindNetwork,
		Err:  err,
	}
}

// NewRenderError creates a new Error with KindRender.
func NewRenderError(op string, err error) *Error {
	return &Error{
		Op:   op,
		Kind: KindRender,
		Err:  err,
	}
}

// NewInternalError creates a new Error with KindInternal.
func NewInternalError(op string, err error) *Error {
	return &Error{
		Op:   op,
		Kind: KindInternal,
		Err:  err,
	}
}

// CloseWithLog attempts to close the provided resource and logs any error
// at warning level. This is intended for use in defer statements to ensure
// cleanup errors are not silently ignored.
//
// The name parameter should describe the resource being closed (e.g.,
// "connection", "response body"). If logger is nil, slog.Default() is used.
func CloseWithLog(closer io.Closer, logger *slog.Logger, name string) {
	if closer == nil {
		return
	}

	if logger == nil {
		logger = slog.Default()
	}

	if err := closer.Close(); err != nil {
		logger.Warn("failed to close resource",
			"resource", name,
			"error", err)
	}
}
