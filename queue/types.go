package queue

import (
	"fmt"
	"time"
)

// ScanJob represents a single page scan submitted to the queue.
// It contains everything a worker needs to run the scan and report back.
type ScanJob struct {
	// JobID is a UUID that correlates the job with its outcome
	JobID string `json:"job_id"`

	// URL is the page to fetch and scan. Empty when HTML is set.
	URL string `json:"url,omitempty"`

	// HTML is inline markup to scan directly. Empty when URL is set.
	HTML string `json:"html,omitempty"`

	// Rules lists the rule ids to run. Empty means all built-in rules.
	Rules []string `json:"rules,omitempty"`

	// Filter is an optional CEL expression applied to findings.
	Filter string `json:"filter,omitempty"`

	// TraceID is the distributed tracing trace ID for observability
	TraceID string `json:"trace_id,omitempty"`

	// SpanID is the distributed tracing span ID for observability
	SpanID string `json:"span_id,omitempty"`

	// SubmittedAt is the Unix timestamp in milliseconds when the job was
	// submitted
	SubmittedAt int64 `json:"submitted_at"`

	// Attempt counts deliveries of this job, starting at 0.
	Attempt int `json:"attempt,omitempty"`
}

// IsValid checks if the ScanJob has all required fields populated
// correctly. Returns an error describing any validation failures.
func (j *ScanJob) IsValid() error {
	if j.JobID == "" {
		return fmt.Errorf("job_id is required")
	}
	if j.URL == "" && j.HTML == "" {
		return fmt.Errorf("either url or html is required")
	}
	if j.URL != "" && j.HTML != "" {
		return fmt.Errorf("url and html are mutually exclusive")
	}
	if j.SubmittedAt <= 0 {
		return fmt.Errorf("submitted_at must be positive, got %d", j.SubmittedAt)
	}
	if j.Attempt < 0 {
		return fmt.Errorf("attempt must be non-negative, got %d", j.Attempt)
	}
	return nil
}

// Age returns the duration since this job was submitted.
// Useful for detecting stale jobs and computing queue wait time.
func (j *ScanJob) Age() time.Duration {
	if j.SubmittedAt <= 0 {
		return 0
	}
	now := time.Now().UnixMilli()
	return time.Duration(now-j.SubmittedAt) * time.Millisecond
}

// ScanOutcome represents the result of executing a ScanJob.
// It is published to a job-specific pub/sub channel for the submitter to
// collect.
type ScanOutcome struct {
	// JobID correlates this outcome with the original job
	JobID string `json:"job_id"`

	// ReportJSON is the rendered scan report. Empty if Error is set.
	ReportJSON string `json:"report_json,omitempty"`

	// Error is the error message if the scan failed.
	// Empty if the scan succeeded.
	Error string `json:"error,omitempty"`

	// WorkerID is the unique identifier of the worker that ran the scan
	WorkerID string `json:"worker_id"`

	// StartedAt is the Unix timestamp in milliseconds when the scan started
	StartedAt int64 `json:"started_at"`

	// CompletedAt is the Unix timestamp in milliseconds when the scan
	// completed
	CompletedAt int64 `json:"completed_at"`
}

// HasError returns true if the outcome represents a failed scan.
func (o *ScanOutcome) HasError() bool {
	return o.Error != ""
}

// Duration returns the wall-clock time the worker spent on this job.
func (o *ScanOutcome) Duration() time.Duration {
	if o.StartedAt <= 0 || o.CompletedAt <= 0 {
		return 0
	}
	return time.Duration(o.CompletedAt-o.StartedAt) * time.Millisecond
}

// IsValid checks if the ScanOutcome has all required fields populated
// correctly.
func (o *ScanOutcome) IsValid() error {
	if o.JobID == "" {
		return fmt.Errorf("job_id is required")
	}
	if o.WorkerID == "" {
		return fmt.Errorf("worker_id is required")
	}
	if o.StartedAt <= 0 {
		return fmt.Errorf("started_at must be positive, got %d", o.StartedAt)
	}
	if o.CompletedAt <= 0 {
		return fmt.Errorf("completed_at must be positive, got %d", o.CompletedAt)
	}
	if o.CompletedAt < o.StartedAt {
		return fmt.Errorf("completed_at (%d) cannot be before started_at (%d)", o.CompletedAt, o.StartedAt)
	}
	if !o.HasError() && o.ReportJSON == "" {
		return fmt.Errorf("report_json is required when error is empty")
	}
	return nil
}

// WorkerMeta contains metadata about a registered scan worker.
// It is stored as a Redis hash and used for worker discovery.
type WorkerMeta struct {
	// ID is the unique worker identifier
	ID string `json:"id"`

	// Version is the semantic version of the scanner build
	Version string `json:"version"`

	// Hostname is the machine the worker runs on
	Hostname string `json:"hostname"`

	// Rules lists the rule ids this worker can evaluate
	Rules []string `json:"rules"`

	// StartedAt is the Unix timestamp in milliseconds when the worker
	// started
	StartedAt int64 `json:"started_at"`
}

// IsValid checks if the WorkerMeta has all required fields populated
// correctly.
func (m *WorkerMeta) IsValid() error {
	if m.ID == "" {
		return fmt.Errorf("worker id is required")
	}
	if m.Version == "" {
		return fmt.Errorf("version is required")
	}
	if m.StartedAt <= 0 {
		return fmt.Errorf("started_at must be positive, got %d", m.StartedAt)
	}
	return nil
}

// SupportsRule checks if the worker can evaluate the given rule.
func (m *WorkerMeta) SupportsRule(ruleID string) bool {
	for _, id := range m.Rules {
		if id == ruleID {
			return true
		}
	}
	return false
}
