package main

import (
	"log/slog"
	"os"
	"path/filepath"

	jsoniter "github.com/json-iterator/go"
	"github.com/tracertea/curaflow/internal/config"
	"github.com/tracertea/curaflow/internal/curation"
	"github.com/tracertea/curaflow/internal/state"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// buildOrchestrator loads environment configuration and constructs an
// orchestrator with the polling flags applied.
func buildOrchestrator(logger *slog.Logger) (*curation.Orchestrator, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}

	return curation.NewOrchestrator(curation.Config{
		Credentials: curation.Credentials{
			ClientID:     cfg.ClientID,
			ClientSecret: cfg.ClientSecret,
		},
		AuthEndpoint: cfg.AuthEndpoint,
		APIBaseURL:   cfg.APIBaseURL,
		MaxRetries:   maxRetries,
		RetryDelay:   retryDelay,
		HTTPTimeout:  cfg.HTTPTimeout,
	}, logger)
}

// openJournal opens the job journal, falling back to nil on any failure. The
// journal is a convenience for the status and fetch commands; it never blocks
// a pipeline run.
func openJournal(logger *slog.Logger) *state.Journal {
	dir := journalDir
	if dir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			dir = ".curaflow"
		} else {
			dir = filepath.Join(home, ".curaflow")
		}
	}

	journal, err := state.Open(dir, logger)
	if err != nil {
		logger.Warn("Job journal unavailable.", "dir", dir, "error", err)
		return nil
	}
	return journal
}

func jobJSON(job *curation.Job) ([]byte, error) {
	return json.MarshalIndent(job, "", "  ")
}
