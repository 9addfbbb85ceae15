package curation

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"time"
)

// Config holds the parameters for one orchestrator instance.
type Config struct {
	Credentials  Credentials
	AuthEndpoint string
	APIBaseURL   string

	MaxRetries  int
	RetryDelay  time.Duration
	HTTPTimeout time.Duration
}

// SetDefaults fills in default values for unset parameters.
func (c *Config) SetDefaults() {
	if c.MaxRetries == 0 {
		c.MaxRetries = DefaultMaxRetries
	}
	if c.RetryDelay == 0 {
		c.RetryDelay = DefaultRetryDelay
	}
	if c.HTTPTimeout == 0 {
		c.HTTPTimeout = 30 * time.Second
	}
}

// Validate checks that the configuration is usable. Credential presence is
// checked later, by the authenticator, so that stages which never
// authenticate are not blocked on it.
func (c *Config) Validate() error {
	if c.AuthEndpoint == "" {
		return fmt.Errorf("auth endpoint is required")
	}
	if c.APIBaseURL == "" {
		return fmt.Errorf("API base URL is required")
	}
	if c.MaxRetries < 0 {
		return fmt.Errorf("max retries must be non-negative")
	}
	if c.RetryDelay < 0 {
		return fmt.Errorf("retry delay must be non-negative")
	}
	return nil
}

// PresignEndpoint returns the full presign endpoint URL.
func (c *Config) PresignEndpoint() string {
	return c.APIBaseURL + "/presign"
}

// StatusEndpoint returns the full status endpoint URL for a job.
func (c *Config) StatusEndpoint(jobID string) string {
	return c.APIBaseURL + "/status/" + url.PathEscape(jobID)
}

// State tracks the orchestrator's position in the pipeline. Transitions are
// strictly linear; the only repetition is the retry loop inside Polling,
// which does not change state.
type State int

const (
	StateUnauthenticated State = iota
	StateAuthenticated
	StatePresigned
	StateUploaded
	StatePolling
	StateDone
	StateFailed
)

// String returns the string representation of State.
func (s State) String() string {
	switch s {
	case StateUnauthenticated:
		return "Unauthenticated"
	case StateAuthenticated:
		return "Authenticated"
	case StatePresigned:
		return "Presigned"
	case StateUploaded:
		return "Uploaded"
	case StatePolling:
		return "Polling"
	case StateDone:
		return "Done"
	case StateFailed:
		return "Failed"
	default:
		return "Unknown"
	}
}

// Result is the output of a completed pipeline run.
type Result struct {
	Job           *Job
	Output        []byte
	UploadedBytes int64
}

// Orchestrator composes the five pipeline stages in strict sequence:
// authenticate, presign, upload, poll, fetch. One HTTP client is acquired at
// construction and shared by every stage; Close releases it on every exit
// path, success or failure.
type Orchestrator struct {
	config     Config
	session    Session
	httpClient *http.Client
	logger     *slog.Logger
	stats      *StageStats
	state      State

	auth      TokenSource
	presigner JobPresigner
	uploader  FileUploader
	poller    JobPoller
	fetcher   ResultFetcher
}

// NewOrchestrator creates an orchestrator from the given configuration. The
// caller owns the returned instance and must call Close when done with it.
func NewOrchestrator(cfg Config, logger *slog.Logger) (*Orchestrator, error) {
	cfg.SetDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	if logger == nil {
		logger = slog.Default()
	}

	httpClient := &http.Client{Timeout: cfg.HTTPTimeout}

	o := &Orchestrator{
		config:     cfg,
		session:    Session{AuthEndpoint: cfg.AuthEndpoint},
		httpClient: httpClient,
		logger:     logger.With("component", "orchestrator"),
		stats:      NewStageStats(),
		state:      StateUnauthenticated,
	}

	o.auth = NewAuthenticator(cfg.Credentials, httpClient, logger)
	o.presigner = NewPresigner(cfg.PresignEndpoint(), o.auth, httpClient, logger)
	o.uploader = NewUploader(httpClient, logger)
	o.poller = NewStatusPoller(cfg.StatusEndpoint, o.auth, httpClient, cfg.MaxRetries, cfg.RetryDelay, logger)
	o.fetcher = NewFetcher(httpClient, logger)

	return o, nil
}

// Close releases the orchestrator's network resources.
func (o *Orchestrator) Close() {
	o.httpClient.CloseIdleConnections()
}

// State returns the orchestrator's current pipeline state.
func (o *Orchestrator) State() State {
	return o.state
}

// Stats returns the per-stage latency recorder for this instance.
func (o *Orchestrator) Stats() *StageStats {
	return o.stats
}

// Session returns a copy of the current session.
func (o *Orchestrator) Session() Session {
	return o.session
}

func (o *Orchestrator) transition(next State) {
	o.logger.Debug("State transition.", "from", o.state.String(), "to", next.String())
	o.state = next
}

func (o *Orchestrator) fail(err error) error {
	o.transition(StateFailed)
	return err
}

// Run executes the full pipeline for one file and returns the curated
// result. The payload is the raw presign request body; pass
// ProcessingOptions.Payload() output, a caller-supplied raw blob, or nil for
// service defaults.
func (o *Orchestrator) Run(ctx context.Context, filePath string, payload []byte) (*Result, error) {
	job, uploaded, err := o.Submit(ctx, filePath, payload)
	if err != nil {
		return nil, err
	}

	output, err := o.Await(ctx, job)
	if err != nil {
		return nil, err
	}

	return &Result{Job: job, Output: output, UploadedBytes: uploaded}, nil
}

// Submit runs the authenticate, presign, and upload stages and returns the
// presigned job without waiting for processing to finish. The job's get_url
// must not be read until a later poll observes the terminal status.
func (o *Orchestrator) Submit(ctx context.Context, filePath string, payload []byte) (*Job, int64, error) {
	start := time.Now()
	if err := o.auth.Authenticate(ctx, &o.session); err != nil {
		return nil, 0, o.fail(err)
	}
	o.stats.Record(StageAuth, time.Since(start))
	o.transition(StateAuthenticated)

	start = time.Now()
	job, err := o.presigner.Presign(ctx, &o.session, payload)
	if err != nil {
		return nil, 0, o.fail(err)
	}
	o.stats.Record(StagePresign, time.Since(start))
	o.transition(StatePresigned)

	start = time.Now()
	uploaded, err := o.uploader.Upload(ctx, job.PutURL, filePath)
	if err != nil {
		return nil, 0, o.fail(err)
	}
	o.stats.Record(StageUpload, time.Since(start))
	o.transition(StateUploaded)

	return job, uploaded, nil
}

// Await polls the job until it reaches the terminal status, then fetches and
// returns the result. It can resume a job submitted by an earlier process via
// Submit, as long as the job's get_url is still valid.
func (o *Orchestrator) Await(ctx context.Context, job *Job) ([]byte, error) {
	o.transition(StatePolling)
	start := time.Now()
	if err := o.poller.Poll(ctx, &o.session, job.JobID); err != nil {
		return nil, o.fail(err)
	}
	o.stats.Record(StageStatus, time.Since(start))

	start = time.Now()
	output, err := o.fetcher.Fetch(ctx, job.GetURL)
	if err != nil {
		return nil, o.fail(err)
	}
	o.stats.Record(StageFetch, time.Since(start))
	o.transition(StateDone)

	return output, nil
}

// CheckStatus performs a single status query for a job, authenticating first
// if the session has no token. It does not change the pipeline state.
func (o *Orchestrator) CheckStatus(ctx context.Context, jobID string) (JobStatus, string, error) {
	start := time.Now()
	status, raw, err := o.poller.Check(ctx, &o.session, jobID)
	if err != nil {
		return status, raw, err
	}
	o.stats.Record(StageStatus, time.Since(start))
	return status, raw, nil
}
