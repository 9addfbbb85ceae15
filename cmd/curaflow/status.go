package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/tracertea/curaflow/internal/logging"
)

var statusCmd = &cobra.Command{
	Use:   "status <job-id>",
	Short: "Check the status of a submitted job",
	Long: `Query the service once for the current status of a job and print the
service-reported value. The job ID comes from the output of
'curaflow process --no-wait'.

Examples:
  curaflow status job-123`,
	Args: cobra.ExactArgs(1),
	RunE: runStatus,
}

func runStatus(cmd *cobra.Command, args []string) error {
	jobID := args[0]

	logger, logFile := logging.New(logLevel, logFilePath)
	if logFile != nil {
		defer logFile.Close()
	}

	orch, err := buildOrchestrator(logger)
	if err != nil {
		return err
	}
	defer orch.Close()

	ctx, cancel := signalContext()
	defer cancel()

	journal := openJournal(logger)
	if journal != nil {
		defer journal.Close()
		if _, known := journal.Lookup(jobID); !known {
			logger.Debug("Job not found in local journal.", "job_id", jobID)
		}
	}

	status, raw, err := orch.CheckStatus(ctx, jobID)
	if err != nil {
		return err
	}

	if journal != nil {
		if err := journal.UpdateStatus(jobID, status.String()); err != nil {
			logger.Warn("Could not update journal.", "job_id", jobID, "error", err)
		}
	}

	fmt.Printf("%s: %s\n", jobID, raw)
	return nil
}
