package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/tracertea/curaflow/internal/curation"
	"github.com/tracertea/curaflow/internal/logging"
)

var fetchOutputPath string

var fetchCmd = &cobra.Command{
	Use:   "fetch <job-id>",
	Short: "Poll a previously submitted job and retrieve its result",
	Long: `Resume a job submitted earlier with 'curaflow process --no-wait': poll its
status until it completes, then download and print the curated result.

The job must exist in the local journal, since its download URL is only
handed out once at presign time.

Examples:
  curaflow fetch job-123
  curaflow fetch job-123 -o curated.txt`,
	Args: cobra.ExactArgs(1),
	RunE: runFetch,
}

func runFetch(cmd *cobra.Command, args []string) error {
	jobID := args[0]

	logger, logFile := logging.New(logLevel, logFilePath)
	if logFile != nil {
		defer logFile.Close()
	}

	journal := openJournal(logger)
	if journal == nil {
		return fmt.Errorf("job journal unavailable, cannot resolve job %s", jobID)
	}
	defer journal.Close()

	rec, ok := journal.Lookup(jobID)
	if !ok {
		return fmt.Errorf("job %s not found in journal; it was not submitted from this machine", jobID)
	}

	orch, err := buildOrchestrator(logger)
	if err != nil {
		return err
	}
	defer orch.Close()

	ctx, cancel := signalContext()
	defer cancel()

	job := &curation.Job{JobID: rec.JobID, PutURL: rec.PutURL, GetURL: rec.GetURL}
	output, err := orch.Await(ctx, job)
	if err != nil {
		return err
	}

	if err := journal.UpdateStatus(jobID, curation.StatusDone.String()); err != nil {
		logger.Warn("Could not update journal.", "job_id", jobID, "error", err)
	}
	orch.Stats().LogSummary(logger)

	return writeResult(output, fetchOutputPath, logger)
}

func init() {
	fetchCmd.Flags().StringVarP(&fetchOutputPath, "output", "o", "", "Output file path (default: stdout)")
	fetchCmd.Flags().IntVar(&maxRetries, "max-retries", curation.DefaultMaxRetries, "Maximum status poll attempts")
	fetchCmd.Flags().DurationVar(&retryDelay, "retry-delay", curation.DefaultRetryDelay, "Delay between status polls")
}
