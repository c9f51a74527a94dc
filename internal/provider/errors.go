// Package provider implements the client for the external asynchronous
// image-generation service: job submission and cooperative polling.
package provider

import (
	"fmt"
	"time"
)

// RejectedError indicates the provider refused the submission or returned no
// job identifier.
type RejectedError struct {
	StatusCode int
	Message    string
}

func (e *RejectedError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("provider rejected submission (HTTP %d): %s", e.StatusCode, e.Message)
	}
	return fmt.Sprintf("provider rejected submission: %s", e.Message)
}

// JobNotFoundError indicates the provider no longer knows the job. Fatal;
// the polling loop does not retry it.
type JobNotFoundError struct {
	JobID string
}

func (e *JobNotFoundError) Error() string {
	return fmt.Sprintf("generation job not found: %s", e.JobID)
}

// GenerationFailedError indicates the job finished without producing an image.
type GenerationFailedError struct {
	JobID string
}

func (e *GenerationFailedError) Error() string {
	return fmt.Sprintf("generation job %s finished without an image", e.JobID)
}

// DownloadError indicates the finished job's image URL could not be fetched.
type DownloadError struct {
	JobID string
	URL   string
	Cause error
}

func (e *DownloadError) Error() string {
	return fmt.Sprintf("failed to download result for job %s from %s: %v", e.JobID, e.URL, e.Cause)
}

func (e *DownloadError) Unwrap() error {
	return e.Cause
}

// DecodeError indicates the finished job's inline payload could not be decoded.
type DecodeError struct {
	JobID string
	Cause error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("failed to decode result for job %s: %v", e.JobID, e.Cause)
}

func (e *DecodeError) Unwrap() error {
	return e.Cause
}

// TimeoutError indicates no terminal state was observed within the poll budget.
type TimeoutError struct {
	JobID  string
	Waited time.Duration
}

func (e *TimeoutError) Error() string {
	return fmt.Sprintf("generation job %s did not finish within %s", e.JobID, e.Waited)
}
