package curation

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"time"
)

// Polling defaults, overridable per command invocation.
const (
	DefaultMaxRetries = 10
	DefaultRetryDelay = 2 * time.Second
)

// StatusPoller repeatedly queries job status until the terminal state is
// observed or the retry budget is exhausted. The interval between polls is
// fixed rather than exponential: job durations are typically short and
// bounded, so backoff buys nothing here.
type StatusPoller struct {
	statusURL  func(jobID string) string
	auth       TokenSource
	httpClient *http.Client
	logger     *slog.Logger

	maxRetries int
	retryDelay time.Duration

	// sleep waits for the given duration or until the context is canceled.
	// Replaceable in tests so polling sequences run without real delays.
	sleep func(ctx context.Context, d time.Duration) error
}

// NewStatusPoller creates a poller. statusURL builds the status endpoint URL
// for a job ID. maxRetries and retryDelay fall back to the package defaults
// when non-positive.
func NewStatusPoller(statusURL func(jobID string) string, auth TokenSource, httpClient *http.Client, maxRetries int, retryDelay time.Duration, logger *slog.Logger) *StatusPoller {
	if maxRetries <= 0 {
		maxRetries = DefaultMaxRetries
	}
	if retryDelay < 0 {
		retryDelay = DefaultRetryDelay
	}
	return &StatusPoller{
		statusURL:  statusURL,
		auth:       auth,
		httpClient: httpClient,
		logger:     logger.With("component", "poller"),
		maxRetries: maxRetries,
		retryDelay: retryDelay,
		sleep:      sleepContext,
	}
}

func sleepContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

type statusResponse struct {
	Status string `json:"status"`
}

// Check performs a single status query and returns the mapped status along
// with the raw service-reported value. A 404 response is returned as a
// StageError with StatusCode 404; Poll gives it special treatment.
func (sp *StatusPoller) Check(ctx context.Context, session *Session, jobID string) (JobStatus, string, error) {
	if session.Token == "" {
		if err := sp.auth.Authenticate(ctx, session); err != nil {
			return StatusUnknown, "", err
		}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, sp.statusURL(jobID), nil)
	if err != nil {
		return StatusUnknown, "", &StageError{Stage: StageStatus, Message: "could not create status request", Cause: err}
	}
	req.Header.Set("Authorization", "Bearer "+session.Token)
	req.Header.Set("Accept", "text/json")

	resp, err := sp.httpClient.Do(req)
	if err != nil {
		return StatusUnknown, "", &StageError{Stage: StageStatus, Message: "status request failed", Cause: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return StatusUnknown, "", &StageError{Stage: StageStatus, Message: "could not read status response", StatusCode: resp.StatusCode, Cause: err}
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return StatusUnknown, "", newStageError(StageStatus, "status query failed", resp.StatusCode, body)
	}

	var sr statusResponse
	if err := json.Unmarshal(body, &sr); err != nil {
		return StatusUnknown, "", newStageError(StageStatus, "could not decode status response", resp.StatusCode, body)
	}

	return ParseStatus(sr.Status), sr.Status, nil
}

// Poll queries the job status up to maxRetries times, sleeping retryDelay
// between attempts, until the terminal status is observed.
//
// A 404 from the status endpoint is treated as "not yet ready" rather than a
// hard error, consuming one attempt from the budget. This tolerates the race
// where a freshly presigned job has not propagated to the status store yet.
// It is an eventual-consistency assumption about the service, not a verified
// contract; if the service's consistency model differs, this rule can mask a
// genuine missing job until the budget runs out. Any other HTTP failure is
// fatal immediately.
func (sp *StatusPoller) Poll(ctx context.Context, session *Session, jobID string) error {
	for attempt := 1; attempt <= sp.maxRetries; attempt++ {
		status, raw, err := sp.Check(ctx, session, jobID)
		if err != nil {
			var se *StageError
			if errors.As(err, &se) && se.StatusCode == http.StatusNotFound {
				sp.logger.Debug("Job not visible yet, retrying.", "job_id", jobID, "attempt", attempt, "max_retries", sp.maxRetries)
				if err := sp.sleep(ctx, sp.retryDelay); err != nil {
					return err
				}
				continue
			}
			return err
		}

		if status.Terminal() {
			sp.logger.Info("Job complete.", "job_id", jobID, "attempts", attempt)
			return nil
		}

		sp.logger.Debug("Job still processing.", "job_id", jobID, "status", raw, "attempt", attempt, "max_retries", sp.maxRetries)
		if err := sp.sleep(ctx, sp.retryDelay); err != nil {
			return err
		}
	}

	return &TimeoutError{JobID: jobID, Attempts: sp.maxRetries}
}
