package curation

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
)

// Uploader streams a local file to a presigned upload URL. The URL is
// single-use, so a failed upload is never retried: retrying against a
// consumed URL is not safe without a fresh presign.
type Uploader struct {
	httpClient *http.Client
	logger     *slog.Logger
}

// NewUploader creates an uploader using the given HTTP client.
func NewUploader(httpClient *http.Client, logger *slog.Logger) *Uploader {
	return &Uploader{
		httpClient: httpClient,
		logger:     logger.With("component", "uploader"),
	}
}

// Upload sends the file's full contents as the body of a single PUT with a
// generic binary content type. The presigned URL is self-authorizing, so no
// Authorization header is sent. It returns the number of bytes uploaded.
func (u *Uploader) Upload(ctx context.Context, putURL, filePath string) (int64, error) {
	info, err := os.Stat(filePath)
	if err != nil {
		return 0, fmt.Errorf("could not stat file %s: %w", filePath, err)
	}
	if info.IsDir() {
		return 0, fmt.Errorf("%s is a directory, not a file", filePath)
	}

	file, err := os.Open(filePath)
	if err != nil {
		return 0, fmt.Errorf("could not open file %s: %w", filePath, err)
	}
	defer file.Close()

	req, err := http.NewRequestWithContext(ctx, http.MethodPut, putURL, file)
	if err != nil {
		return 0, &StageError{Stage: StageUpload, Message: "could not create upload request", Cause: err}
	}
	req.Header.Set("Content-Type", "application/octet-stream")
	req.ContentLength = info.Size()

	u.logger.Debug("Uploading file.", "path", filePath, "size_bytes", info.Size())

	resp, err := u.httpClient.Do(req)
	if err != nil {
		return 0, &StageError{Stage: StageUpload, Message: "upload request failed", Cause: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(resp.Body)
		return 0, newStageError(StageUpload, "object store rejected the upload", resp.StatusCode, body)
	}

	u.logger.Info("Upload successful.", "path", filePath, "size_bytes", info.Size())
	return info.Size(), nil
}
