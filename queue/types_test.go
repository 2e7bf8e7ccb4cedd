package queue

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScanJobIsValid(t *testing.T) {
	now := time.Now().UnixMilli()

	tests := []struct {
		name    string
		job     ScanJob
		wantErr string
	}{
		{
			name: "valid url job",
			job:  ScanJob{JobID: "j1", URL: "https://example.com", SubmittedAt: now},
		},
		{
			name: "valid html job",
			job:  ScanJob{JobID: "j2", HTML: "<p>x</p>", SubmittedAt: now},
		},
		{
			name:    "missing job id",
			job:     ScanJob{URL: "https://example.com", SubmittedAt: now},
			wantErr: "job_id is required",
		},
		{
			name:    "missing subject",
			job:     ScanJob{JobID: "j3", SubmittedAt: now},
			wantErr: "either url or html is required",
		},
		{
			name:    "both url and html",
			job:     ScanJob{JobID: "j4", URL: "https://x", HTML: "<p>", SubmittedAt: now},
			wantErr: "mutually exclusive",
		},
		{
			name:    "missing submitted_at",
			job:     ScanJob{JobID: "j5", URL: "https://x"},
			wantErr: "submitted_at must be positive",
		},
		{
			name:    "negative attempt",
			job:     ScanJob{JobID: "j6", URL: "https://x", SubmittedAt: now, Attempt: -1},
			wantErr: "attempt must be non-negative",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.job.IsValid()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestScanJobAge(t *testing.T) {
	job := ScanJob{SubmittedAt: time.Now().Add(-2 * time.Second).UnixMilli()}
	assert.InDelta(t, 2*time.Second, job.Age(), float64(500*time.Millisecond))

	var unset ScanJob
	assert.Equal(t, time.Duration(0), unset.Age())
}

func TestScanOutcomeIsValid(t *testing.T) {
	now := time.Now().UnixMilli()

	valid := ScanOutcome{
		JobID:       "j1",
		ReportJSON:  "{}",
		WorkerID:    "w1",
		StartedAt:   now,
		CompletedAt: now + 5,
	}
	assert.NoError(t, valid.IsValid())

	failed := valid
	failed.ReportJSON = ""
	failed.Error = "fetch failed"
	assert.NoError(t, failed.IsValid(), "error outcomes need no report")
	assert.True(t, failed.HasError())

	empty := valid
	empty.ReportJSON = ""
	require.Error(t, empty.IsValid())

	backwards := valid
	backwards.CompletedAt = now - 5
	require.Error(t, backwards.IsValid())
}

func TestScanOutcomeDuration(t *testing.T) {
	outcome := ScanOutcome{StartedAt: 1000, CompletedAt: 1750}
	assert.Equal(t, 750*time.Millisecond, outcome.Duration())

	var unset ScanOutcome
	assert.Equal(t, time.Duration(0), unset.Duration())
}

func TestWorkerMetaIsValid(t *testing.T) {
	meta := WorkerMeta{ID: "w1", Version: "1.0.0", StartedAt: time.Now().UnixMilli()}
	assert.NoError(t, meta.IsValid())

	noID := meta
	noID.ID = ""
	require.Error(t, noID.IsValid())

	noVersion := meta
	noVersion.Version = ""
	require.Error(t, noVersion.IsValid())
}
