package curation

import "context"

// TokenSource exchanges client credentials for a bearer token and stores it
// on the session.
type TokenSource interface {
	Authenticate(ctx context.Context, session *Session) error
}

// JobPresigner submits processing options and returns a presigned Job.
type JobPresigner interface {
	Presign(ctx context.Context, session *Session, payload []byte) (*Job, error)
}

// FileUploader streams a local file to a presigned upload URL and returns the
// number of bytes sent.
type FileUploader interface {
	Upload(ctx context.Context, putURL, filePath string) (int64, error)
}

// JobPoller queries job status. Poll blocks until the job reaches a terminal
// status or the retry budget is exhausted; Check performs a single query.
type JobPoller interface {
	Poll(ctx context.Context, session *Session, jobID string) error
	Check(ctx context.Context, session *Session, jobID string) (JobStatus, string, error)
}

// ResultFetcher retrieves the final output from a presigned download URL.
type ResultFetcher interface {
	Fetch(ctx context.Context, getURL string) ([]byte, error)
}
