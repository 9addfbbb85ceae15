package curation

import (
	"context"
	"io"
	"log/slog"
	"net/http"
)

// Fetcher retrieves the final output from a presigned download URL with a
// single GET. No retry: by the time the fetcher runs the poller has already
// observed the terminal status, so a failure here is a hard error.
type Fetcher struct {
	httpClient *http.Client
	logger     *slog.Logger
}

// NewFetcher creates a fetcher using the given HTTP client.
func NewFetcher(httpClient *http.Client, logger *slog.Logger) *Fetcher {
	return &Fetcher{
		httpClient: httpClient,
		logger:     logger.With("component", "fetcher"),
	}
}

// Fetch downloads the result body. The presigned URL is self-authorizing, so
// no Authorization header is sent.
func (f *Fetcher) Fetch(ctx context.Context, getURL string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, getURL, nil)
	if err != nil {
		return nil, &StageError{Stage: StageFetch, Message: "could not create result request", Cause: err}
	}

	resp, err := f.httpClient.Do(req)
	if err != nil {
		return nil, &StageError{Stage: StageFetch, Message: "result request failed", Cause: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &StageError{Stage: StageFetch, Message: "could not read result body", StatusCode: resp.StatusCode, Cause: err}
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, newStageError(StageFetch, "object store rejected the download", resp.StatusCode, body)
	}

	f.logger.Info("Result retrieved.", "size_bytes", len(body))
	return body, nil
}
