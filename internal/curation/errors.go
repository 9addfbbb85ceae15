package curation

import (
	"fmt"
	"strings"
)

// Stage identifies the pipeline stage that produced an error.
type Stage int

const (
	StageAuth Stage = iota
	StagePresign
	StageUpload
	StageStatus
	StageFetch
)

// String returns the string representation of Stage.
func (s Stage) String() string {
	switch s {
	case StageAuth:
		return "AUTH"
	case StagePresign:
		return "PRESIGN"
	case StageUpload:
		return "UPLOAD"
	case StageStatus:
		return "STATUS"
	case StageFetch:
		return "FETCH"
	default:
		return "UNKNOWN"
	}
}

// maxBodySnippet bounds how much of a response body is carried inside an
// error for diagnostics.
const maxBodySnippet = 512

// StageError represents a fatal failure of one pipeline stage. It carries the
// HTTP status code and a snippet of the response body where applicable.
type StageError struct {
	Stage      Stage
	Message    string
	StatusCode int
	Body       string
	Cause      error
}

// Error implements the error interface.
func (se *StageError) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "[%s] %s", se.Stage, se.Message)
	if se.StatusCode != 0 {
		fmt.Fprintf(&b, " (status %d)", se.StatusCode)
	}
	if se.Body != "" {
		fmt.Fprintf(&b, ": %s", se.Body)
	}
	if se.Cause != nil {
		fmt.Fprintf(&b, ": %v", se.Cause)
	}
	return b.String()
}

// Unwrap returns the underlying cause error.
func (se *StageError) Unwrap() error {
	return se.Cause
}

func newStageError(stage Stage, message string, statusCode int, body []byte) *StageError {
	return &StageError{
		Stage:      stage,
		Message:    message,
		StatusCode: statusCode,
		Body:       snippet(body),
	}
}

func snippet(body []byte) string {
	s := strings.TrimSpace(string(body))
	if len(s) > maxBodySnippet {
		return s[:maxBodySnippet] + "..."
	}
	return s
}

// ConfigurationError reports missing or invalid client configuration. It is
// raised before any network call is attempted and is never retried.
type ConfigurationError struct {
	Missing []string
}

// Error implements the error interface.
func (ce *ConfigurationError) Error() string {
	return fmt.Sprintf("missing required configuration: %s", strings.Join(ce.Missing, ", "))
}

// TimeoutError reports that the polling retry budget was exhausted before the
// job reached a terminal status. It is distinct from StageError with
// StageStatus so callers can tell "service never finished" apart from
// "service rejected the query".
type TimeoutError struct {
	JobID    string
	Attempts int
}

// Error implements the error interface.
func (te *TimeoutError) Error() string {
	return fmt.Sprintf("job %s did not complete after %d attempts", te.JobID, te.Attempts)
}
