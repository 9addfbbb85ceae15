package curation

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"net/http"
	"strings"
)

// Presigner submits processing options to the presign endpoint and returns
// the resulting Job. A presign failure is treated as a configuration or
// permission problem, not a transient fault, so there is no retry.
type Presigner struct {
	endpoint   string
	auth       TokenSource
	httpClient *http.Client
	logger     *slog.Logger
}

// NewPresigner creates a presigner for the given presign endpoint. The token
// source is used for lazy authentication when the session has no token yet.
func NewPresigner(endpoint string, auth TokenSource, httpClient *http.Client, logger *slog.Logger) *Presigner {
	return &Presigner{
		endpoint:   endpoint,
		auth:       auth,
		httpClient: httpClient,
		logger:     logger.With("component", "presigner"),
	}
}

// Presign posts the options payload and returns the presigned Job. The
// payload is sent verbatim: unknown or out-of-range fields are passed through
// opaquely since the service is authoritative for validation. A nil payload
// is sent as an empty JSON object.
func (p *Presigner) Presign(ctx context.Context, session *Session, payload []byte) (*Job, error) {
	if session.Token == "" {
		if err := p.auth.Authenticate(ctx, session); err != nil {
			return nil, err
		}
	}

	if payload == nil {
		payload = []byte("{}")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.endpoint, bytes.NewReader(payload))
	if err != nil {
		return nil, &StageError{Stage: StagePresign, Message: "could not create presign request", Cause: err}
	}
	req.Header.Set("Authorization", "Bearer "+session.Token)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "text/json")

	p.logger.Debug("Requesting presigned URLs.", "endpoint", p.endpoint)

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return nil, &StageError{Stage: StagePresign, Message: "presign request failed", Cause: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &StageError{Stage: StagePresign, Message: "could not read presign response", StatusCode: resp.StatusCode, Cause: err}
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, newStageError(StagePresign, "presign endpoint rejected the request", resp.StatusCode, body)
	}

	var job Job
	if err := json.Unmarshal(body, &job); err != nil {
		return nil, newStageError(StagePresign, "could not decode presign response", resp.StatusCode, body)
	}

	var missing []string
	if job.JobID == "" {
		missing = append(missing, "job_id")
	}
	if job.PutURL == "" {
		missing = append(missing, "put_url")
	}
	if job.GetURL == "" {
		missing = append(missing, "get_url")
	}
	if len(missing) > 0 {
		return nil, newStageError(StagePresign, "presign response missing "+strings.Join(missing, ", "), resp.StatusCode, body)
	}

	p.logger.Info("Presign successful.", "job_id", job.JobID)
	return &job, nil
}
