package domain

import "fmt"

// ValidationError marks a plan that is still malformed after the single
// repair call. It is terminal: the caller surfaces it and never retries.
type ValidationError struct {
	Reason string
}

func (e *ValidationError) Error() string {
	return "invalid roadmap plan: " + e.Reason
}

// NotFoundError marks a missing or expired draft, or a missing durable row.
type NotFoundError struct {
	Resource string
	ID       string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %s not found", e.Resource, e.ID)
}

// AccessError marks an ownership mismatch between the caller and a draft or
// roadmap.
type AccessError struct {
	Resource string
	ID       string
}

func (e *AccessError) Error() string {
	return fmt.Sprintf("caller does not own %s %s", e.Resource, e.ID)
}

// ExternalToolError marks a renderer or compositor subprocess that exited
// non-zero or hit its timeout. It aborts the job and is subject to queue
// retry.
type ExternalToolError struct {
	Tool string
	Err  error
}

func (e *ExternalToolError) Error() string {
	return fmt.Sprintf("external tool %s failed: %v", e.Tool, e.Err)
}

func (e *ExternalToolError) Unwrap() error { return e.Err }

// TransientIOError marks a storage, LLM, TTS or database failure. It aborts
// the job and is subject to queue retry.
type TransientIOError struct {
	Op  string
	Err error
}

func (e *TransientIOError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *TransientIOError) Unwrap() error { return e.Err }

// PermanentPipelineFailure marks a job whose retry budget is exhausted. It
// is recorded and never retried again.
type PermanentPipelineFailure struct {
	CourseID string
	Attempts int
	Err      error
}

func (e *PermanentPipelineFailure) Error() string {
	return fmt.Sprintf("generation for course %s abandoned after %d attempts: %v", e.CourseID, e.Attempts, e.Err)
}

func (e *PermanentPipelineFailure) Unwrap() error { return e.Err }
